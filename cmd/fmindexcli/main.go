// Command fmindexcli is a thin driver over fmindex: build an index from a
// text file and run one count, locate, extract or stat query against it.
// It exists primarily as a documented example of the library surface, not
// as a production tool.
package main

import (
	"flag"
	"fmt"
	"os"

	"Thesis/fmindex"
	"Thesis/fmstat"

	"github.com/schollz/progressbar/v3"
)

func main() {
	var (
		inputPath  = flag.String("input", "", "Path to the UTF-8 text file to index")
		sampleRate = flag.Int("sample-rate", 32, "FM-Index suffix sample rate")
		extract    = flag.Bool("extract", false, "Enable extract/extractUntilBoundary support")
		command    = flag.String("cmd", "stat", "One of: count, locate, extract, stat")
		pattern    = flag.String("pattern", "", "Pattern for count/locate")
		from       = flag.Int("from", 0, "Start position for extract")
		to         = flag.Int("to", 0, "End position for extract")
		maxMatches = flag.Int("max", 100, "Match cap for locate")
	)
	flag.Parse()

	if *inputPath == "" {
		fail("-input is required")
	}

	raw, err := os.ReadFile(*inputPath)
	if err != nil {
		fail("reading %s: %v", *inputPath, err)
	}

	symbols := make([]int32, len(raw))
	bar := progressbar.Default(int64(len(raw)), "decoding UTF-8")
	n, err := fmindex.ConvertUTF8ToSymbols(raw, symbols)
	if err != nil {
		fail("decoding input: %v", err)
	}
	_ = bar.Add(len(raw))
	symbols = symbols[:n]

	idx, err := fmindex.Build(symbols, fmindex.BuildOptions{
		SampleRate:    uint32(*sampleRate),
		EnableExtract: *extract,
	})
	if err != nil {
		fail("building index: %v", err)
	}

	switch *command {
	case "stat":
		fmt.Print(fmstat.Summarize(idx).String())
	case "count":
		requirePattern(pattern)
		p := toSymbols(*pattern)
		fmt.Println(idx.Count(p))
	case "locate":
		requirePattern(pattern)
		p := toSymbols(*pattern)
		dest := make([]uint32, *maxMatches)
		got := idx.Locate(p, 0, len(p), dest, *maxMatches)
		for i := 0; i < got; i++ {
			fmt.Println(dest[i])
		}
	case "extract":
		if *to < *from {
			fail("-to must be >= -from")
		}
		dest := make([]int32, *to-*from)
		got, err := idx.Extract(*from, *to, dest, 0)
		if err != nil {
			fail("extract: %v", err)
		}
		fmt.Println(string(symbolsToRunes(dest[:got])))
	default:
		fail("unknown -cmd %q", *command)
	}
}

func requirePattern(pattern *string) {
	if *pattern == "" {
		fail("-pattern is required for this command")
	}
}

func toSymbols(s string) []int32 {
	r := []rune(s)
	out := make([]int32, len(r))
	for i, c := range r {
		out[i] = int32(c)
	}
	return out
}

func symbolsToRunes(s []int32) []rune {
	out := make([]rune, len(s))
	for i, c := range s {
		out[i] = rune(c)
	}
	return out
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
