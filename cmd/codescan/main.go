package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/viant/codescan/config"
	"github.com/viant/codescan/engine"
)

func main() {
	root := flag.String("path", ".", "project root to analyze")
	minSimilarity := flag.Float64("minSimilarity", 0.8, "clone Jaccard threshold")
	flag.Parse()

	cfg := *config.DefaultOptions()
	cfg.MinimumSimilarity = *minSimilarity

	e := engine.New(engine.WithConfig(cfg))
	ctx := context.Background()

	cloneGroups, cloneReport := e.AnalyzeClones(ctx, *root)
	fmt.Printf("clone groups found: %d\n", len(cloneGroups))
	for _, g := range cloneGroups {
		fmt.Printf("  %s similarity=%.2f members=%d\n", g.Type, g.Similarity, len(g.Clones))
		for _, c := range g.Clones {
			fmt.Printf("    %s:%d-%d\n", c.File, c.StartLine, c.EndLine)
		}
	}
	for path, err := range cloneReport.Errors {
		fmt.Fprintf(os.Stderr, "clone analysis error (%s): %v\n", path, err)
	}

	unusedReport := e.AnalyzeUnused(ctx, *root)
	fmt.Printf("\nunused declarations found: %d\n", len(unusedReport.UnusedCode))
	for _, u := range unusedReport.UnusedCode {
		fmt.Printf("  %s (%s) at %s:%d\n", u.Declaration.Name, u.Reason, u.Declaration.File, u.Declaration.Location.Line)
	}
	fmt.Printf("dead stores found: %d\n", len(unusedReport.DeadStores))
	for _, d := range unusedReport.DeadStores {
		fmt.Printf("  %s at %s:%d\n", d.Variable, d.Location.File, d.Location.Line)
	}
	fmt.Printf("uninitialized uses found: %d\n", len(unusedReport.UninitializedUses))
	for path, err := range unusedReport.Errors {
		fmt.Fprintf(os.Stderr, "unused analysis error (%s): %v\n", path, err)
	}
}
