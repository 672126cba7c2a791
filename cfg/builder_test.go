package cfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild_StraightLineFallsIntoImplicitReturn(t *testing.T) {
	body := []Stmt{
		{Kind: StmtExpr, Defs: []string{"x"}},
		{Kind: StmtExpr, Uses: []string{"x"}, Defs: []string{"y"}},
	}
	c := Build(body)
	entry := c.block(c.Entry)
	assert.Equal(t, TermReturn, entry.Terminator.Kind)
	assert.Contains(t, entry.Successors, c.Exit)
	assert.ElementsMatch(t, []string{"x"}, entry.Use)
	assert.ElementsMatch(t, []string{"x", "y"}, entry.Def)
}

func TestBuild_IfCreatesThenElseMerge(t *testing.T) {
	body := []Stmt{
		{
			Kind: StmtIf,
			Uses: []string{"cond"},
			Then: []Stmt{{Kind: StmtExpr, Defs: []string{"a"}}},
			Else: []Stmt{{Kind: StmtExpr, Defs: []string{"b"}}},
		},
	}
	c := Build(body)
	entry := c.block(c.Entry)
	assert.Equal(t, TermConditionalBranch, entry.Terminator.Kind)
	assert.Len(t, entry.Terminator.Targets, 2)
	// reverse postorder is computed from the entry block
	assert.NotEmpty(t, c.ReversePostorder)
}

func TestBuild_ReturnInThenDoesNotFallToMerge(t *testing.T) {
	body := []Stmt{
		{
			Kind: StmtIf,
			Uses: []string{"cond"},
			Then: []Stmt{{Kind: StmtReturn}},
		},
	}
	c := Build(body)
	entry := c.block(c.Entry)
	thenID := entry.Terminator.Targets[0]
	thenBlock := c.block(thenID)
	assert.Equal(t, TermReturn, thenBlock.Terminator.Kind)
	assert.Equal(t, []int{c.Exit}, thenBlock.Successors)
}

func TestBuild_ForLoopBranchesBackToHeader(t *testing.T) {
	body := []Stmt{
		{
			Kind: StmtFor,
			Uses: []string{"i", "n"},
			Body: []Stmt{{Kind: StmtExpr, Uses: []string{"i"}, Defs: []string{"i"}}},
		},
	}
	c := Build(body)
	entry := c.block(c.Entry)
	headerID := entry.Successors[0]
	header := c.block(headerID)
	assert.Equal(t, TermConditionalBranch, header.Terminator.Kind)
	bodyID := header.Terminator.Targets[0]
	bodyBlock := c.block(bodyID)
	assert.Equal(t, TermBranch, bodyBlock.Terminator.Kind)
	assert.Equal(t, headerID, bodyBlock.Terminator.Targets[0])
}

func TestBuild_BreakResolvesToLoopExit(t *testing.T) {
	body := []Stmt{
		{
			Kind: StmtFor,
			Uses: []string{"i"},
			Body: []Stmt{{Kind: StmtBreak}},
		},
	}
	c := Build(body)
	entry := c.block(c.Entry)
	header := c.block(entry.Successors[0])
	bodyBlock := c.block(header.Terminator.Targets[0])
	exitID := header.Terminator.Targets[1]
	assert.Equal(t, TermBreak, bodyBlock.Terminator.Kind)
	assert.Equal(t, exitID, bodyBlock.Terminator.Targets[0])
}

func TestBuild_UnlabelledContinueSkipsSwitchFrame(t *testing.T) {
	body := []Stmt{
		{
			Kind: StmtFor,
			Uses: []string{"i"},
			Body: []Stmt{
				{
					Kind:    StmtSwitch,
					Uses:    []string{"i"},
					Cases:   []SwitchCase{{Body: []Stmt{{Kind: StmtContinue}}}},
					Default: nil,
				},
			},
		},
	}
	c := Build(body)
	entry := c.block(c.Entry)
	header := c.block(entry.Successors[0])
	loopBodyID := header.Terminator.Targets[0]
	loopBody := c.block(loopBodyID)
	caseBlockID := loopBody.Terminator.Targets[0]
	caseBlock := c.block(caseBlockID)
	assert.Equal(t, TermContinue, caseBlock.Terminator.Kind)
	assert.Equal(t, header.ID, caseBlock.Terminator.Targets[0])
}

func TestBuild_GuardUnreachableElseMarksUnreachable(t *testing.T) {
	body := []Stmt{
		{
			Kind: StmtGuard,
			Uses: []string{"x"},
			Else: []Stmt{{Kind: StmtExpr}},
		},
	}
	c := Build(body)
	entry := c.block(c.Entry)
	elseID := entry.Terminator.Targets[1]
	elseBlock := c.block(elseID)
	assert.Equal(t, TermUnreachable, elseBlock.Terminator.Kind)
}

func TestBuild_DoCatchAddsPendingEdgeToCatchBlock(t *testing.T) {
	body := []Stmt{
		{
			Kind: StmtDoCatch,
			Body: []Stmt{{Kind: StmtExpr, Defs: []string{"x"}}},
			CatchClauses: []CatchClause{
				{Body: []Stmt{{Kind: StmtExpr, Defs: []string{"y"}}}},
			},
		},
	}
	c := Build(body)
	entry := c.block(c.Entry)
	foundCatchEdge := false
	for _, succ := range entry.Successors {
		blk := c.block(succ)
		for _, d := range blk.Def {
			if d == "y" {
				foundCatchEdge = true
			}
		}
	}
	assert.True(t, foundCatchEdge)
}
