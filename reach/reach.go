// Package reach builds a dense whole-program reachability graph and
// computes the set of nodes reachable from a root set via a
// direction-optimizing parallel BFS (spec.md §4.I).
package reach

import (
	"runtime"

	"github.com/viant/codescan/memstore"
)

// Graph is the frozen, dense form of the dependency graph: flat adjacency
// vectors indexed by a dense integer node id.
type Graph struct {
	N                int
	Adjacency        [][]uint32
	ReverseAdjacency [][]uint32
	Roots            []uint32
}

// NewGraph allocates an empty adjacency structure for n nodes.
func NewGraph(n int) *Graph {
	return &Graph{
		N:                n,
		Adjacency:        make([][]uint32, n),
		ReverseAdjacency: make([][]uint32, n),
	}
}

// AddEdge records a directed edge from -> to, maintaining both the forward
// and reverse adjacency vectors.
func (g *Graph) AddEdge(from, to uint32) {
	g.Adjacency[from] = append(g.Adjacency[from], to)
	g.ReverseAdjacency[to] = append(g.ReverseAdjacency[to], from)
}

// Options tunes the direction-optimizing BFS.
type Options struct {
	Alpha           int
	Beta            int
	MinParallelSize int
	MaxConcurrency  int
}

// DefaultOptions mirrors spec.md's default BFS tuning knobs.
func DefaultOptions() Options {
	return Options{Alpha: 14, Beta: 24, MinParallelSize: 1000, MaxConcurrency: runtime.NumCPU()}
}

// Stats carries optional BFS telemetry.
type Stats struct {
	Iterations      int
	TopDownSteps    int
	BottomUpSteps   int
	MaxFrontierSize int
}

// ComputeReachable returns the set of nodes reachable from g.Roots, falling
// back to a sequential BFS for small, empty, or rootless graphs.
func ComputeReachable(g *Graph, opts Options) (*memstore.Bitmap, Stats) {
	if g.N == 0 || len(g.Roots) == 0 || g.N < opts.MinParallelSize {
		return sequentialBFS(g), Stats{}
	}
	return parallelBFS(g, opts)
}

func sequentialBFS(g *Graph) *memstore.Bitmap {
	bm := memstore.NewBitmap(g.N)
	var queue []uint32
	for _, r := range g.Roots {
		if int(r) >= g.N {
			continue
		}
		if !bm.Test(int(r)) {
			bm.Set(int(r))
			queue = append(queue, r)
		}
	}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, u := range g.Adjacency[v] {
			if !bm.Test(int(u)) {
				bm.Set(int(u))
				queue = append(queue, u)
			}
		}
	}
	return bm
}

// Unreachable returns the node ids with no set bit in visited.
func Unreachable(n int, visited *memstore.Bitmap) []int {
	var out []int
	for i := 0; i < n; i++ {
		if !visited.Test(i) {
			out = append(out, i)
		}
	}
	return out
}
