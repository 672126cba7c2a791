package syntaxgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cfgSample = `package sample

func classify(x int) string {
	if x > 0 {
		return "positive"
	} else {
		return "nonpositive"
	}
}

func sumTo(n int) int {
	total := 0
	for i := 0; i < n; i++ {
		total = total + i
	}
	return total
}
`

func TestBuildCFG_IfStatementBranches(t *testing.T) {
	p := NewParser()
	tree, err := p.ParseSource("cfg_sample.go", []byte(cfgSample))
	require.NoError(t, err)

	g := p.BuildCFG(tree, "classify")
	require.NotNil(t, g)
	assert.GreaterOrEqual(t, len(g.Blocks), 3)
}

func TestBuildCFG_ForLoopHasBackEdge(t *testing.T) {
	p := NewParser()
	tree, err := p.ParseSource("cfg_sample.go", []byte(cfgSample))
	require.NoError(t, err)

	g := p.BuildCFG(tree, "sumTo")
	require.NotNil(t, g)

	var sawBackEdge bool
	for _, b := range g.Blocks {
		for _, succ := range b.Successors {
			if succ == b.ID {
				continue
			}
			if succ < b.ID {
				sawBackEdge = true
			}
		}
	}
	assert.True(t, sawBackEdge)
}
