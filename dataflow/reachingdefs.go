package dataflow

import (
	"golang.org/x/tools/container/intsets"

	"github.com/viant/codescan/cfg"
	"github.com/viant/codescan/findings"
	"github.com/viant/codescan/syntax"
)

// Definition identifies one (name, defining block) pair. Multiple defs of
// the same name within a single block collapse to one Definition, since
// later defs kill earlier ones before the block boundary is reached.
type Definition struct {
	Name  string
	Block int
}

// UseChain records the reaching definitions active at one statement-level
// use, per spec.md §4.G's def-use chain requirement.
type UseChain struct {
	Location    syntax.Location
	Variable    string
	Definitions []Definition
}

// ReachingDefinitions is the result of the forward "may" reaching-definitions
// analysis.
type ReachingDefinitions struct {
	Definitions []Definition

	reachIn       []intsets.Sparse
	reachOut      []intsets.Sparse
	blockNameToID []map[string]int
}

// ComputeReachingDefinitions runs the forward fixed-point computation
// described in spec.md §4.G: reachIn'[B] = ⋃ reachOut[pred], reachOut'[B] =
// gen[B] ∪ (reachIn'[B] \ kill[B]), iterated in reverse postorder and capped
// at opts.MaxIterations whole-graph passes.
func ComputeReachingDefinitions(c *cfg.CFG, opts Options) *ReachingDefinitions {
	n := len(c.Blocks)
	rd := &ReachingDefinitions{
		blockNameToID: make([]map[string]int, n),
	}

	byName := map[string][]int{}
	for _, blk := range c.Blocks {
		rd.blockNameToID[blk.ID] = map[string]int{}
		for _, name := range blk.Def {
			if opts.ignored(name) {
				continue
			}
			id := len(rd.Definitions)
			rd.Definitions = append(rd.Definitions, Definition{Name: name, Block: blk.ID})
			rd.blockNameToID[blk.ID][name] = id
			byName[name] = append(byName[name], id)
		}
	}

	gen := make([]intsets.Sparse, n)
	kill := make([]intsets.Sparse, n)
	for _, blk := range c.Blocks {
		for name, id := range rd.blockNameToID[blk.ID] {
			gen[blk.ID].Insert(id)
			for _, other := range byName[name] {
				if other != id {
					kill[blk.ID].Insert(other)
				}
			}
		}
	}

	rd.reachIn = make([]intsets.Sparse, n)
	rd.reachOut = make([]intsets.Sparse, n)
	for _, blk := range c.Blocks {
		rd.reachOut[blk.ID].Copy(&gen[blk.ID])
	}

	changed := true
	iterations := 0
	for changed && iterations < opts.MaxIterations {
		changed = false
		iterations++
		for _, id := range c.ReversePostorder {
			blk := c.Blocks[id]
			var newIn intsets.Sparse
			for _, pred := range blk.Predecessors {
				newIn.UnionWith(&rd.reachOut[pred])
			}
			var tmp intsets.Sparse
			tmp.Difference(&newIn, &kill[id])
			var newOut intsets.Sparse
			newOut.UnionWith(&gen[id])
			newOut.UnionWith(&tmp)

			if !newIn.Equals(&rd.reachIn[id]) || !newOut.Equals(&rd.reachOut[id]) {
				rd.reachIn[id] = newIn
				rd.reachOut[id] = newOut
				changed = true
			}
		}
	}

	return rd
}

func (rd *ReachingDefinitions) reachInIDs(block int) []int {
	var ids []int
	s := &rd.reachIn[block]
	for x := s.Min(); x != intsets.MaxInt; x = s.Next(x) {
		ids = append(ids, x)
	}
	return ids
}

// UninitializedUses flags every use with no reaching definition, tracking
// liveness of definitions statement by statement within each block.
func (rd *ReachingDefinitions) UninitializedUses(c *cfg.CFG) []findings.UninitializedUse {
	var out []findings.UninitializedUse
	for _, blk := range c.Blocks {
		counts := map[string]int{}
		for _, id := range rd.reachInIDs(blk.ID) {
			counts[rd.Definitions[id].Name]++
		}
		for _, st := range blk.Stmts {
			for _, u := range st.Uses {
				n := counts[u]
				if n == 0 {
					out = append(out, findings.UninitializedUse{
						Variable:                u,
						Location:                st.Location,
						DefinitelyUninitialized: true,
						ReachingDefinitionCount: 0,
					})
				}
			}
			for _, d := range st.Defs {
				counts[d] = 1
			}
		}
	}
	return out
}

// DefUseChains returns, for each statement-level use, the set of
// definitions reaching that point.
func (rd *ReachingDefinitions) DefUseChains(c *cfg.CFG) []UseChain {
	var chains []UseChain
	for _, blk := range c.Blocks {
		active := map[string][]int{}
		for _, id := range rd.reachInIDs(blk.ID) {
			name := rd.Definitions[id].Name
			active[name] = append(active[name], id)
		}
		for _, st := range blk.Stmts {
			for _, u := range st.Uses {
				var defs []Definition
				for _, id := range active[u] {
					defs = append(defs, rd.Definitions[id])
				}
				chains = append(chains, UseChain{Location: st.Location, Variable: u, Definitions: defs})
			}
			for _, d := range st.Defs {
				if id, ok := rd.blockNameToID[blk.ID][d]; ok {
					active[d] = []int{id}
				}
			}
		}
	}
	return chains
}
