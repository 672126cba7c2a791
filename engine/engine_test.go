package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/codescan/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestAnalyzeUnused_FlagsUnreferencedFunction(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/widget\n\ngo 1.23\n")
	writeFile(t, filepath.Join(root, "main.go"), `package main

func helper() {
}

func unused() {
}

func main() {
	helper()
}
`)

	e := New()
	report := e.AnalyzeUnused(context.Background(), root)
	require.Empty(t, report.Errors)

	var names []string
	for _, u := range report.UnusedCode {
		names = append(names, u.Declaration.Name)
	}
	assert.Contains(t, names, "unused")
	assert.NotContains(t, names, "main")
	assert.NotContains(t, names, "helper")
}

func TestAnalyzeClones_FindsDuplicatedFunctionAcrossFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/widget\n\ngo 1.23\n")

	body := `package pkg

func Sum(values []int) int {
	total := 0
	for _, v := range values {
		total = total + v
	}
	return total
}
`
	writeFile(t, filepath.Join(root, "a.go"), body)
	writeFile(t, filepath.Join(root, "b.go"), body)

	cfg := *config.DefaultOptions()
	cfg.ShingleSize = 3
	cfg.MinimumTokens = 10
	cfg.NumHashes = 16
	cfg.ProbesPerBand = 0
	cfg.VerifyWithExact = true
	cfg.MinimumSimilarity = 0.5

	e := New(WithConfig(cfg))
	groups, report := e.AnalyzeClones(context.Background(), root)
	require.Empty(t, report.Errors)
	assert.NotEmpty(t, groups)
}

func TestEngine_DefaultsApplyWhenNoOptionsGiven(t *testing.T) {
	e := New()
	assert.Equal(t, 128, e.config.NumHashes)
	assert.GreaterOrEqual(t, e.config.MaxConcurrency, 1)
}
