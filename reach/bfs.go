package reach

import (
	"golang.org/x/sync/errgroup"

	"github.com/viant/codescan/memstore"
)

type direction int

const (
	topDown direction = iota
	bottomUp
)

func parallelBFS(g *Graph, opts Options) (*memstore.Bitmap, Stats) {
	maxConcurrency := opts.MaxConcurrency
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	bm := memstore.NewAtomicBitmap(g.N)
	var frontier []uint32
	for _, r := range g.Roots {
		if int(r) >= g.N {
			continue
		}
		if bm.TestAndSet(int(r)) {
			frontier = append(frontier, r)
		}
	}

	var stats Stats
	dir := topDown
	for len(frontier) > 0 {
		stats.Iterations++
		if len(frontier) > stats.MaxFrontierSize {
			stats.MaxFrontierSize = len(frontier)
		}

		frontierEdges := 0
		for _, v := range frontier {
			frontierEdges += len(g.Adjacency[v])
		}
		remainingEdges := 0
		for v := 0; v < g.N; v++ {
			if !bm.Test(v) {
				remainingEdges += len(g.Adjacency[v])
			}
		}

		switch dir {
		case topDown:
			if frontierEdges*opts.Alpha > remainingEdges && remainingEdges > 0 {
				dir = bottomUp
			}
		case bottomUp:
			if len(frontier)*opts.Beta < g.N {
				dir = topDown
			}
		}

		var next []uint32
		if dir == topDown {
			stats.TopDownSteps++
			next = topDownStep(g, bm, frontier, maxConcurrency)
		} else {
			stats.BottomUpSteps++
			next = bottomUpStep(g, bm, frontier, maxConcurrency)
		}
		frontier = next
	}
	return bm.Snapshot(), stats
}

func topDownStep(g *Graph, bm *memstore.AtomicBitmap, frontier []uint32, maxConcurrency int) []uint32 {
	if len(frontier) < 2*maxConcurrency {
		var next []uint32
		for _, v := range frontier {
			for _, u := range g.Adjacency[v] {
				if bm.TestAndSet(int(u)) {
					next = append(next, u)
				}
			}
		}
		return next
	}

	chunks := splitChunks(frontier, maxConcurrency)
	results := make([][]uint32, len(chunks))
	var grp errgroup.Group
	for i, chunk := range chunks {
		i, chunk := i, chunk
		grp.Go(func() error {
			var local []uint32
			for _, v := range chunk {
				for _, u := range g.Adjacency[v] {
					if bm.TestAndSet(int(u)) {
						local = append(local, u)
					}
				}
			}
			results[i] = local
			return nil
		})
	}
	_ = grp.Wait()

	var next []uint32
	for _, r := range results {
		next = append(next, r...)
	}
	return next
}

func bottomUpStep(g *Graph, bm *memstore.AtomicBitmap, frontier []uint32, maxConcurrency int) []uint32 {
	inFrontier := make(map[uint32]struct{}, len(frontier))
	for _, v := range frontier {
		inFrontier[v] = struct{}{}
	}
	frontierBM := memstore.NewBitmapFrom(g.N, func(i int) bool {
		_, ok := inFrontier[uint32(i)]
		return ok
	})

	chunkResults := make([][]uint32, maxConcurrency)
	var grp errgroup.Group
	for c := 0; c < maxConcurrency; c++ {
		c := c
		grp.Go(func() error {
			var local []uint32
			for v := c; v < g.N; v += maxConcurrency {
				if bm.Test(v) {
					continue
				}
				for _, pred := range g.ReverseAdjacency[v] {
					if frontierBM.Test(int(pred)) {
						if bm.TestAndSet(v) {
							local = append(local, uint32(v))
						}
						break
					}
				}
			}
			chunkResults[c] = local
			return nil
		})
	}
	_ = grp.Wait()

	var next []uint32
	for _, r := range chunkResults {
		next = append(next, r...)
	}
	return next
}

func splitChunks(frontier []uint32, chunks int) [][]uint32 {
	if chunks < 1 {
		chunks = 1
	}
	size := (len(frontier) + chunks - 1) / chunks
	if size < 1 {
		size = 1
	}
	var out [][]uint32
	for i := 0; i < len(frontier); i += size {
		end := i + size
		if end > len(frontier) {
			end = len(frontier)
		}
		out = append(out, frontier[i:end])
	}
	return out
}
