package dataflow

import (
	"sort"

	"golang.org/x/tools/container/intsets"

	"github.com/viant/codescan/cfg"
	"github.com/viant/codescan/findings"
)

// LiveVariables is the result of the backward "may" live-variable analysis.
type LiveVariables struct {
	LiveIn  map[int]map[string]struct{}
	LiveOut map[int]map[string]struct{}
}

func buildUniverse(c *cfg.CFG, opts Options) ([]string, map[string]int) {
	seen := map[string]struct{}{}
	for _, blk := range c.Blocks {
		for _, n := range blk.Use {
			if !opts.ignored(n) {
				seen[n] = struct{}{}
			}
		}
		for _, n := range blk.Def {
			if !opts.ignored(n) {
				seen[n] = struct{}{}
			}
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}
	return names, index
}

// ComputeLiveVariables runs the worklist fixed-point computation described
// in spec.md §4.G: liveOut'[B] = ⋃ liveIn[succ], liveIn'[B] = use[B] ∪
// (liveOut'[B] \ def[B]), capped at opts.MaxIterations.
func ComputeLiveVariables(c *cfg.CFG, opts Options) *LiveVariables {
	names, index := buildUniverse(c, opts)
	n := len(c.Blocks)
	liveIn := make([]intsets.Sparse, n)
	liveOut := make([]intsets.Sparse, n)
	use := make([]intsets.Sparse, n)
	def := make([]intsets.Sparse, n)

	for _, blk := range c.Blocks {
		for _, name := range blk.Use {
			if opts.ignored(name) {
				continue
			}
			use[blk.ID].Insert(index[name])
		}
		for _, name := range blk.Def {
			if opts.ignored(name) {
				continue
			}
			def[blk.ID].Insert(index[name])
		}
	}

	worklist := append([]int{}, c.ReversePostorder...)
	queued := make([]bool, n)
	for _, id := range worklist {
		queued[id] = true
	}

	iterations := 0
	for len(worklist) > 0 && iterations < opts.MaxIterations {
		iterations++
		id := worklist[0]
		worklist = worklist[1:]
		queued[id] = false
		blk := c.Blocks[id]

		var newOut intsets.Sparse
		for _, succ := range blk.Successors {
			newOut.UnionWith(&liveIn[succ])
		}
		var tmp intsets.Sparse
		tmp.Difference(&newOut, &def[id])
		var newIn intsets.Sparse
		newIn.UnionWith(&use[id])
		newIn.UnionWith(&tmp)

		if !newIn.Equals(&liveIn[id]) || !newOut.Equals(&liveOut[id]) {
			liveIn[id] = newIn
			liveOut[id] = newOut
			for _, pred := range blk.Predecessors {
				if !queued[pred] {
					worklist = append(worklist, pred)
					queued[pred] = true
				}
			}
		}
	}

	lv := &LiveVariables{
		LiveIn:  make(map[int]map[string]struct{}, n),
		LiveOut: make(map[int]map[string]struct{}, n),
	}
	for _, blk := range c.Blocks {
		lv.LiveIn[blk.ID] = toNameSet(&liveIn[blk.ID], names)
		lv.LiveOut[blk.ID] = toNameSet(&liveOut[blk.ID], names)
	}
	return lv
}

// DeadStores scans each block backward, tracking liveness statement by
// statement, and flags a write to x where x is not live immediately after
// the write and not also used in the same statement (x = x + 1 is exempt).
func (lv *LiveVariables) DeadStores(c *cfg.CFG, opts Options) []findings.DeadStore {
	var out []findings.DeadStore
	for _, blk := range c.Blocks {
		live := map[string]struct{}{}
		for name := range lv.LiveOut[blk.ID] {
			live[name] = struct{}{}
		}
		for i := len(blk.Stmts) - 1; i >= 0; i-- {
			st := blk.Stmts[i]
			usedHere := map[string]struct{}{}
			for _, u := range st.Uses {
				usedHere[u] = struct{}{}
			}
			for _, d := range st.Defs {
				if opts.ignored(d) {
					continue
				}
				_, liveAfter := live[d]
				_, usedInStmt := usedHere[d]
				if !liveAfter && !usedInStmt {
					out = append(out, findings.DeadStore{
						Variable:   d,
						Location:   st.Location,
						Suggestion: "remove unused assignment to " + d,
					})
				}
			}
			for _, d := range st.Defs {
				delete(live, d)
			}
			for _, u := range st.Uses {
				live[u] = struct{}{}
			}
		}
	}
	return out
}

// UnusedVariables reports names that are defined somewhere in the function
// but never used anywhere in it.
func (lv *LiveVariables) UnusedVariables(c *cfg.CFG, opts Options) []string {
	defs := map[string]struct{}{}
	uses := map[string]struct{}{}
	for _, blk := range c.Blocks {
		for _, d := range blk.Def {
			defs[d] = struct{}{}
		}
		for _, u := range blk.Use {
			uses[u] = struct{}{}
		}
	}
	var out []string
	for d := range defs {
		if opts.ignored(d) {
			continue
		}
		if _, used := uses[d]; !used {
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}
