package dataflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/codescan/cfg"
)

func TestComputeLiveVariables_DeadStoreDetected(t *testing.T) {
	body := []cfg.Stmt{
		{Kind: cfg.StmtExpr, Defs: []string{"x"}},
		{Kind: cfg.StmtExpr, Defs: []string{"x"}}, // overwritten before any use: first write is dead
		{Kind: cfg.StmtExpr, Uses: []string{"x"}},
	}
	c := cfg.Build(body)
	opts := DefaultOptions()
	lv := ComputeLiveVariables(c, opts)
	dead := lv.DeadStores(c, opts)
	assert.Len(t, dead, 1)
	assert.Equal(t, "x", dead[0].Variable)
}

func TestComputeLiveVariables_SelfIncrementNotDeadStore(t *testing.T) {
	body := []cfg.Stmt{
		{Kind: cfg.StmtExpr, Uses: []string{"x"}, Defs: []string{"x"}},
	}
	c := cfg.Build(body)
	opts := DefaultOptions()
	lv := ComputeLiveVariables(c, opts)
	dead := lv.DeadStores(c, opts)
	assert.Empty(t, dead)
}

func TestUnusedVariables(t *testing.T) {
	body := []cfg.Stmt{
		{Kind: cfg.StmtExpr, Defs: []string{"x", "unused"}},
		{Kind: cfg.StmtExpr, Uses: []string{"x"}},
	}
	c := cfg.Build(body)
	opts := DefaultOptions()
	lv := ComputeLiveVariables(c, opts)
	unused := lv.UnusedVariables(c, opts)
	assert.Equal(t, []string{"unused"}, unused)
}

func TestIgnoredVariableExcludedFromUnused(t *testing.T) {
	body := []cfg.Stmt{
		{Kind: cfg.StmtExpr, Defs: []string{"_"}},
	}
	c := cfg.Build(body)
	opts := DefaultOptions()
	lv := ComputeLiveVariables(c, opts)
	unused := lv.UnusedVariables(c, opts)
	assert.Empty(t, unused)
}

func TestComputeReachingDefinitions_UninitializedUse(t *testing.T) {
	body := []cfg.Stmt{
		{Kind: cfg.StmtExpr, Uses: []string{"y"}}, // y read before its only definition below
		{Kind: cfg.StmtExpr, Defs: []string{"y"}},
	}
	c := cfg.Build(body)
	opts := DefaultOptions()
	rd := ComputeReachingDefinitions(c, opts)
	uninit := rd.UninitializedUses(c)
	assert.Len(t, uninit, 1)
	assert.Equal(t, "y", uninit[0].Variable)
	assert.True(t, uninit[0].DefinitelyUninitialized)
}

func TestComputeReachingDefinitions_DefThenUseIsInitialized(t *testing.T) {
	body := []cfg.Stmt{
		{Kind: cfg.StmtExpr, Defs: []string{"z"}},
		{Kind: cfg.StmtExpr, Uses: []string{"z"}},
	}
	c := cfg.Build(body)
	opts := DefaultOptions()
	rd := ComputeReachingDefinitions(c, opts)
	assert.Empty(t, rd.UninitializedUses(c))
}

func TestDefUseChains_RecordsReachingDefinition(t *testing.T) {
	body := []cfg.Stmt{
		{Kind: cfg.StmtExpr, Defs: []string{"z"}},
		{Kind: cfg.StmtExpr, Uses: []string{"z"}},
	}
	c := cfg.Build(body)
	opts := DefaultOptions()
	rd := ComputeReachingDefinitions(c, opts)
	chains := rd.DefUseChains(c)
	var found bool
	for _, ch := range chains {
		if ch.Variable == "z" && len(ch.Definitions) == 1 {
			found = true
		}
	}
	assert.True(t, found)
}
