package engine

import (
	"context"

	"github.com/viant/codescan/dataflow"
	"github.com/viant/codescan/depgraph"
	"github.com/viant/codescan/findings"
	"github.com/viant/codescan/reach"
	"github.com/viant/codescan/syntax"
)

// AnalyzeUnused builds the whole-program dependency graph for every Go
// source file discovered under root, marks declarations unreachable from
// any configured root as unused, and — when the configured parser supports
// it — runs per-function data-flow analysis for dead stores and
// uninitialized uses.
func (e *Engine) AnalyzeUnused(ctx context.Context, root string) *findings.Report {
	report := findings.NewReport()

	project, err := e.detector.DetectProject(ctx, root)
	if err != nil {
		report.AddError(root, err)
		return report
	}
	paths, err := e.detector.ListSourceFiles(ctx, project.RootPath, ".go")
	if err != nil {
		report.AddError(project.RootPath, err)
		return report
	}

	var allDecls []syntax.Declaration
	var allRefs []syntax.Reference
	parsed := make(map[string]parsedFile, len(paths))
	for _, path := range paths {
		pf := parseFile(e.parser, path, nil)
		if pf.err != nil {
			report.AddError(path, pf.err)
			continue
		}
		parsed[path] = pf
		allDecls = append(allDecls, pf.declarations...)
		allRefs = append(allRefs, pf.references...)
	}

	builder := depgraph.NewBuilder(allDecls, allRefs, e.config)
	graph := builder.BuildGraph(e.config.MaxConcurrency)
	visited, _ := reach.ComputeReachable(graph, e.reachOptions())

	rootSet := make(map[int]bool, len(graph.Roots))
	for _, r := range graph.Roots {
		rootSet[int(r)] = true
	}
	for i, d := range allDecls {
		if rootSet[i] || visited.Test(i) {
			continue
		}
		report.UnusedCode = append(report.UnusedCode, findings.UnusedCode{
			Declaration: d,
			Reason:      findings.ReasonNeverReferenced,
			Confidence:  findings.ConfidenceMedium,
			Suggestion:  "remove unreferenced declaration " + d.Name,
		})
	}

	if e.graphExporter != nil {
		_ = e.graphExporter.Export(buildIRGraph(allDecls, builder))
	}

	dfOpts := e.dataflowOptions()
	for path, pf := range parsed {
		capable, ok := e.parser.(cfgCapableParser)
		if !ok {
			continue
		}
		for _, d := range pf.declarations {
			if d.Kind != syntax.KindFunction && d.Kind != syntax.KindMethod {
				continue
			}
			fnGraph := capable.BuildCFG(pf.tree, d.Name)
			if fnGraph == nil || len(fnGraph.Blocks) == 0 {
				continue
			}
			live := dataflow.ComputeLiveVariables(fnGraph, dfOpts)
			report.DeadStores = append(report.DeadStores, live.DeadStores(fnGraph, dfOpts)...)

			reaching := dataflow.ComputeReachingDefinitions(fnGraph, dfOpts)
			report.UninitializedUses = append(report.UninitializedUses, reaching.UninitializedUses(fnGraph)...)
			_ = path
		}
	}

	return report
}

func buildIRGraph(decls []syntax.Declaration, builder *depgraph.Builder) *IRGraph {
	g := &IRGraph{}
	for i, d := range decls {
		g.Nodes = append(g.Nodes, IRNode{
			ID:   d.File + "#" + d.Name,
			Kind: d.Kind,
			Properties: map[string]interface{}{
				"name": d.Name,
				"file": d.File,
				"id":   i,
			},
		})
	}
	return g
}
