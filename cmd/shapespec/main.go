// shapespec resolves tensor shape specifications from the command line.
//
// Each argument is a spec like "*batch h//2 w//2 c"; dimension values are
// bound with -dims and -vdims. For every spec it prints the canonical form,
// the resolved shape and the total element count:
//
//	$ shapespec -dims=h=64,w=64,c=3 -vdims=batch=16x4 "*batch h//2 w//2 c"
//	memo: {c=3, h=64, w=64, *batch=[16 4]}
//	*batch h//2 w//2 c -> [16 4 32 32 3] (196,608 elements)
package main

import (
	"flag"
	"fmt"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/shapespec"
	"github.com/gomlx/shapespec/internal/xslices"
	"github.com/muesli/termenv"
	"k8s.io/klog/v2"
	"os"
)

var (
	flagDims = flag.String("dims", "", "Comma-separated values for single dimensions, e.g. -dims=h=64,w=64,c=3.")
	flagVDims = flag.String("vdims", "", "Comma-separated values for variadic dimensions, with the axes of each "+
		"separated by 'x', e.g. -vdims=batch=16x4. An empty run of axes is allowed: -vdims=batch=.")
	flagTable = flag.Bool("table", false, "Render the results as a table.")
	flagColor = flag.Bool("color", true, "Use colors and styling in the output.")
)

func main() {
	flag.Parse()
	if !*flagColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	specs := flag.Args()
	if len(specs) == 0 {
		klog.Errorf("No shape specs given. See 'shapespec -help'.")
		os.Exit(1)
	}
	memo, err := parseBindings(*flagDims, *flagVDims)
	if err != nil {
		klog.Errorf("%v", err)
		os.Exit(1)
	}

	results := make([]result, 0, len(specs))
	for _, arg := range specs {
		spec, err := shapespec.Parse(arg)
		if err != nil {
			klog.Errorf("%v", err)
			os.Exit(1)
		}
		dims, err := spec.Eval(memo)
		results = append(results, result{spec: spec, dims: dims, err: err})
	}

	if *flagTable {
		printTable(memo, results)
	} else {
		printPlain(memo, results)
	}
	for _, r := range results {
		if r.err != nil {
			os.Exit(1)
		}
	}
}

// result is the resolution of one spec given on the command line. Specs that
// parse but cannot be evaluated against the memo carry the error instead.
type result struct {
	spec *shapespec.ShapeSpec
	dims []int
	err  error
}

func printPlain(memo shapespec.Memo, results []result) {
	printMemo(memo)
	for _, r := range results {
		if r.err != nil {
			fmt.Printf("%s -> error: %v\n", r.spec, r.err)
			continue
		}
		fmt.Printf("%s -> %v (%s elements)\n", r.spec, r.dims, humanize.Comma(int64(xslices.Prod(r.dims))))
	}
}

func printMemo(memo shapespec.Memo) {
	if len(memo.Single) == 0 && len(memo.Variadic) == 0 {
		return
	}
	fmt.Printf("memo: %s\n", memo)
}
