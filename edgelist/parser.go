// Package edgelist reads the plain-text "src dst length" edge format and
// the one-label-per-line keep-set format the CLI driver works with. It is
// an external collaborator of the contraction core, not part of it: the
// core only ever sees dense integer node indices.
package edgelist

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/lintang-b-s/chx/chlen"
	"github.com/lintang-b-s/chx/domain"
	"github.com/lintang-b-s/chx/graph"
)

// Labels interns opaque string labels to dense node indices in first-seen
// order.
type Labels struct {
	indexOf map[string]graph.Node
	labelOf []string
}

// NewLabels returns an empty interning table.
func NewLabels() *Labels {
	return &Labels{indexOf: make(map[string]graph.Node)}
}

// Intern returns the dense index for label, assigning it the next index if
// this is the first time label is seen.
func (l *Labels) Intern(label string) graph.Node {
	if idx, ok := l.indexOf[label]; ok {
		return idx
	}
	idx := graph.Node(len(l.labelOf))
	l.indexOf[label] = idx
	l.labelOf = append(l.labelOf, label)
	return idx
}

// Lookup returns the index already assigned to label, and false if label
// has never been interned.
func (l *Labels) Lookup(label string) (graph.Node, bool) {
	idx, ok := l.indexOf[label]
	return idx, ok
}

// Label returns the original string label for a node index.
func (l *Labels) Label(u graph.Node) string { return l.labelOf[u] }

// Len returns the number of distinct labels interned so far.
func (l *Labels) Len() int { return len(l.labelOf) }

// ParseEdges reads "<src_label> <dst_label> <length>" triples, one per
// line, skipping blank lines and lines starting with "#". Labels are
// interned into labels in first-seen order. Lengths must be non-negative
// decimal integers strictly below chlen.Max; any other line is a fatal,
// reported parse error, matching the core's stance that malformed input is
// not a recoverable condition.
func ParseEdges(r io.Reader, labels *Labels) (*graph.Digraph, error) {
	g := graph.New()
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, domain.WrapErrorf(nil, domain.ErrBadParamInput,
				"edgelist: line %d: expected \"src dst length\", got %q", lineNo, line)
		}
		length, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			return nil, domain.WrapErrorf(err, domain.ErrBadParamInput,
				"edgelist: line %d: invalid length %q", lineNo, fields[2])
		}
		if chlen.Length(length) >= chlen.Max {
			return nil, domain.WrapErrorf(nil, domain.ErrBadParamInput,
				"edgelist: line %d: length %d is at or above the representable maximum", lineNo, length)
		}
		src := labels.Intern(fields[0])
		dst := labels.Intern(fields[1])
		g.AddEdgeLen(src, dst, chlen.Length(length))
	}
	if err := sc.Err(); err != nil {
		return nil, domain.WrapErrorf(err, domain.ErrInternalServerError, "edgelist: reading input")
	}
	return g, nil
}

// ParseKeepSet reads one label per line (blank lines and "#" comments
// skipped) and returns the set of corresponding node indices. Every label
// must already have been interned by a prior ParseEdges call; an unknown
// label is a fatal parse error.
func ParseKeepSet(r io.Reader, labels *Labels) (map[graph.Node]bool, error) {
	keep := make(map[graph.Node]bool)
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx, ok := labels.Lookup(line)
		if !ok {
			return nil, domain.WrapErrorf(nil, domain.ErrBadParamInput,
				"edgelist: keep-set line %d: unknown label %q", lineNo, line)
		}
		keep[idx] = true
	}
	if err := sc.Err(); err != nil {
		return nil, domain.WrapErrorf(err, domain.ErrInternalServerError, "edgelist: reading keep-set")
	}
	return keep, nil
}
