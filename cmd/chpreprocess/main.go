package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"

	"github.com/lintang-b-s/chx/chlen"
	"github.com/lintang-b-s/chx/chserver"
	"github.com/lintang-b-s/chx/chstore"
	"github.com/lintang-b-s/chx/contractor"
	"github.com/lintang-b-s/chx/domain"
	"github.com/lintang-b-s/chx/edgelist"
	"github.com/lintang-b-s/chx/graph"
)

// config holds the CLI's three required inputs: two positional file paths
// and the stopping ratio for contraction.
type config struct {
	GraphFile string  `validate:"required,file"`
	KeepFile  string  `validate:"omitempty,file"`
	MaxAvgDeg float64 `validate:"gt=0"`
	Mode      string  `validate:"oneof=distance-preserver hierarchies"`
}

func usageExit() {
	fmt.Fprintln(os.Stderr, "usage: chpreprocess [-mode distance-preserver|hierarchies] [-store dir] <graph-file> <keep-file-or-'-'> <max_avg_deg>")
	fmt.Fprintln(os.Stderr, "       chpreprocess serve -store dir [-listenaddr :5000]")
	fmt.Fprintln(os.Stderr, "  graph-file:  lines of \"src_label dst_label length\"")
	fmt.Fprintln(os.Stderr, "  keep-file:   one label per line naming nodes to never contract, or '-' for none")
	fmt.Fprintln(os.Stderr, "  max_avg_deg: contraction stops once m >= max_avg_deg * n")
	fmt.Fprintln(os.Stderr, "  store:       optional pebble directory caching the contracted hierarchy and label table across runs")
	os.Exit(2)
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "serve" {
		runServe(os.Args[2:])
		return
	}
	runPreprocess(os.Args[1:])
}

func runPreprocess(args []string) {
	fs := flag.NewFlagSet("chpreprocess", flag.ExitOnError)
	mode := fs.String("mode", "distance-preserver", "output mode: distance-preserver or hierarchies")
	store := fs.String("store", "", "optional pebble directory caching the contracted hierarchy across runs")
	fs.Parse(args)

	if fs.NArg() != 3 {
		usageExit()
	}
	posArgs := fs.Args()

	maxAvgDeg, err := parseFloat(posArgs[2])
	if err != nil {
		log.Fatalf("chpreprocess: invalid max_avg_deg %q: %v", posArgs[2], err)
	}

	cfg := config{GraphFile: posArgs[0], KeepFile: posArgs[1], MaxAvgDeg: maxAvgDeg, Mode: *mode}
	if cfg.KeepFile == "-" {
		cfg.KeepFile = ""
	}
	if err := validator.New().Struct(cfg); err != nil {
		log.Fatalf("chpreprocess: invalid configuration: %v", err)
	}

	var st *chstore.Store
	if *store != "" {
		st, err = chstore.Open(*store)
		if err != nil {
			log.Fatal(err)
		}
		defer st.Close()

		if fwd, bwd, rank, alive, order, labels, err := st.LoadHierarchy(); err == nil {
			fmt.Fprintf(os.Stderr, "loaded cached hierarchy from %s, skipping parse and contraction\n", *store)
			writeOutput(cfg.Mode, contractor.FromPersisted(fwd, bwd, rank, alive, order), labels)
			return
		}
	}

	labels := edgelist.NewLabels()
	gFile, err := os.Open(cfg.GraphFile)
	if err != nil {
		log.Fatal(domain.WrapErrorf(err, domain.ErrBadParamInput, "chpreprocess: opening graph file"))
	}
	defer gFile.Close()

	g, err := edgelist.ParseEdges(gFile, labels)
	if err != nil {
		log.Fatal(err)
	}

	var keep map[graph.Node]bool
	if cfg.KeepFile != "" {
		kFile, err := os.Open(cfg.KeepFile)
		if err != nil {
			log.Fatal(domain.WrapErrorf(err, domain.ErrBadParamInput, "chpreprocess: opening keep-set file"))
		}
		defer kFile.Close()
		keep, err = edgelist.ParseKeepSet(kFile, labels)
		if err != nil {
			log.Fatal(err)
		}
	}

	var maxLen chlen.Length
	for _, e := range g.ToEdges() {
		if e.Len > maxLen {
			maxLen = e.Len
		}
	}
	fmt.Fprintf(os.Stderr, "loaded graph with n=%d m=%d maximum edge length=%v (overflow threshold=%v)\n",
		g.N(), g.M(), maxLen, chlen.Max)

	ch := contractor.New(g, keep)

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionSetDescription("[1/1] contracting graph"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer: "[green]=[reset]", SaucerPadding: " ", BarStart: "[", BarEnd: "]",
		}))
	ch.OnProgress(func(round, nContracted, n, m int) {
		bar.Describe(fmt.Sprintf("[1/1] round %d: contracted %d, n=%d m=%d", round, nContracted, n, m))
		_ = bar.Add(0)
	})

	ch.Contract(cfg.MaxAvgDeg)
	fmt.Fprintf(os.Stderr, "\ncontracted graph: n=%d m=%d\n", ch.N(), ch.M())

	if st != nil {
		n := ch.Forward().N()
		rank := make([]int32, n)
		alive := make([]bool, n)
		for u := 0; u < n; u++ {
			rank[u] = ch.Rank(graph.Node(u))
			alive[u] = ch.Alive(graph.Node(u))
		}
		if err := st.SaveHierarchy(ch.Forward(), rank, alive, ch.Order(), labels); err != nil {
			log.Fatal(err)
		}
		fmt.Fprintf(os.Stderr, "cached contracted hierarchy under %s\n", *store)
	}

	writeOutput(cfg.Mode, ch, labels)
}

// runServe loads a hierarchy previously cached by runPreprocess's -store
// flag and answers distance queries over it until interrupted.
func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	store := fs.String("store", "", "pebble directory holding a previously cached contracted hierarchy")
	listenAddr := fs.String("listenaddr", ":5000", "HTTP listen address")
	fs.Parse(args)

	if *store == "" {
		fmt.Fprintln(os.Stderr, "usage: chpreprocess serve -store <dir> [-listenaddr :5000]")
		os.Exit(2)
	}

	st, err := chstore.Open(*store)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	fwd, bwd, rank, alive, order, labels, err := st.LoadHierarchy()
	if err != nil {
		log.Fatalf("chpreprocess: no cached hierarchy under %s: %v", *store, err)
	}
	ch := contractor.FromPersisted(fwd, bwd, rank, alive, order)

	r := chi.NewRouter()
	chserver.NewHandler(ch, labels).Mount(r)

	log.Printf("chpreprocess: serving contracted hierarchy from %s on %s", *store, *listenAddr)
	log.Fatal(http.ListenAndServe(*listenAddr, r))
}

func writeOutput(mode string, ch *contractor.Graph, labels *edgelist.Labels) {
	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	switch mode {
	case "distance-preserver":
		writeDistancePreserver(w, ch, labels)
	case "hierarchies":
		writeHierarchies(w, ch)
	}
}

func writeDistancePreserver(w *bufio.Writer, ch *contractor.Graph, labels *edgelist.Labels) {
	sub, origOf := ch.Forward().Subgraph(func(u graph.Node) bool { return ch.Alive(u) })
	for u := 0; u < sub.N(); u++ {
		for _, hd := range sub.OutNeighbors(graph.Node(u)) {
			fmt.Fprintf(w, "%s %s %v\n", labels.Label(origOf[u]), labels.Label(origOf[hd.To]), hd.Len)
		}
	}
}

func writeHierarchies(w *bufio.Writer, ch *contractor.Graph) {
	fmt.Fprint(w, "# contraction_order:")
	for _, u := range ch.Order() {
		fmt.Fprintf(w, " %d", u)
	}
	fmt.Fprintln(w)
	fwd := ch.Forward()
	for u := 0; u < fwd.N(); u++ {
		for _, hd := range fwd.OutNeighbors(graph.Node(u)) {
			fmt.Fprintf(w, "%d %d %v\n", u, hd.To, hd.Len)
		}
	}
}

func parseFloat(s string) (float64, error) {
	var f float64
	_, err := fmt.Sscanf(s, "%g", &f)
	return f, err
}
