// Package chlen implements saturating edge-length/distance arithmetic over
// a bounded unsigned domain, with a reserved sentinel standing for infinity.
package chlen

import "fmt"

// Length is an edge length or a path distance. The zero value is the zero
// length. Infinity is the largest representable value and compares greater
// than any finite Length.
type Length uint32

// Infinity represents "unreachable" or "no edge". It is never produced by
// Add from two finite, in-range operands; it only ever enters a computation
// because one of the operands already was Infinity. A finite sum that would
// exceed Max makes Add panic instead.
const Infinity Length = 1<<32 - 1

// Max is the largest finite Length. Summing two finite lengths whose true
// sum would exceed Max is a caller error: it means an edge length or path
// distance input was larger than this type can represent, which is a data
// problem the parser should have rejected, not a condition the core should
// paper over.
const Max Length = Infinity - 1

// Add returns a+b, saturating to Infinity if either operand is Infinity.
// It panics if both operands are finite but their sum would exceed Max,
// since silently capping a real, in-range path length would corrupt a
// distance query's result rather than merely marking it unreachable.
func Add(a, b Length) Length {
	if a == Infinity || b == Infinity {
		return Infinity
	}
	sum := uint64(a) + uint64(b)
	if sum > uint64(Max) {
		panic(fmt.Sprintf("chlen: overflow adding %d + %d", a, b))
	}
	return Length(sum)
}

// Less reports whether a < b under the usual integer order, with Infinity
// sorting after every finite value.
func Less(a, b Length) bool { return a < b }

func (l Length) String() string {
	if l == Infinity {
		return "inf"
	}
	return fmt.Sprintf("%d", uint32(l))
}
