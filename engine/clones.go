package engine

import (
	"context"

	"github.com/viant/codescan/clone"
	"github.com/viant/codescan/findings"
)

// AnalyzeClones runs the full clone-detection pipeline over every Go source
// file discovered under root and returns the resulting clone groups plus a
// per-file error report.
func (e *Engine) AnalyzeClones(ctx context.Context, root string) ([]findings.CloneGroup, *findings.Report) {
	report := findings.NewReport()

	project, err := e.detector.DetectProject(ctx, root)
	if err != nil {
		report.AddError(root, err)
		return nil, report
	}
	paths, err := e.detector.ListSourceFiles(ctx, project.RootPath, ".go")
	if err != nil {
		report.AddError(project.RootPath, err)
		return nil, report
	}

	var fileTokens []clone.FileTokens
	for _, path := range paths {
		pf := parseFile(e.parser, path, nil)
		if pf.err != nil {
			report.AddError(path, pf.err)
			continue
		}
		texts := make([]string, len(pf.tokens.Tokens))
		for i, tok := range pf.tokens.Tokens {
			texts[i] = tok.Text
		}
		fileTokens = append(fileTokens, clone.FileTokens{
			File:   path,
			Tokens: pf.tokens.Tokens,
			Texts:  texts,
		})
	}

	groups := clone.Detect(fileTokens, e.cloneOptions())
	report.CloneGroups = groups
	return groups, report
}
