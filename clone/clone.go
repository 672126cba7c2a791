// Package clone orchestrates the clone-detection pipeline: block documents,
// MinHash signatures, LSH candidate generation, overlap suppression, exact
// verification, and transitive grouping (spec.md §4.E).
package clone

import (
	"sort"
	"strconv"
	"strings"

	"github.com/viant/codescan/findings"
	"github.com/viant/codescan/lsh"
	"github.com/viant/codescan/minhash"
	"github.com/viant/codescan/shingle"
	"github.com/viant/codescan/syntax"
)

// Options configures one run of the clone pipeline. It mirrors the
// configurable knobs named in spec.md §6.
type Options struct {
	ShingleSize          int
	BlockSize            int
	NumHashes            int
	Seed                 uint64
	MinimumSimilarity    float64
	ProbesPerBand        int
	VerifyWithExact      bool
	NormalizeIdentifiers bool
}

// FileTokens is one file's worth of token text, paired so the pipeline does
// not need to re-derive text from a syntax.Token slice.
type FileTokens struct {
	File   string
	Tokens []syntax.Token
	Texts  []string
}

type document struct {
	shingle.Document
}

// Detect runs the full clone pipeline over a set of files and returns clone
// groups sorted by similarity descending.
func Detect(files []FileTokens, opts Options) []findings.CloneGroup {
	if opts.ShingleSize <= 0 {
		opts.ShingleSize = shingle.DefaultSize
	}
	if opts.NumHashes <= 0 {
		opts.NumHashes = 128
	}
	if opts.MinimumSimilarity <= 0 {
		opts.MinimumSimilarity = 0.8
	}

	var docs []document
	nextID := 0
	for _, f := range files {
		blocks := shingle.BlockDocuments(f.File, f.Tokens, f.Texts, opts.BlockSize, opts.ShingleSize, nextID, opts.NormalizeIdentifiers)
		for _, b := range blocks {
			docs = append(docs, document{b})
		}
		nextID += len(blocks)
	}
	if len(docs) < 2 {
		return nil
	}

	gen := minhash.NewGenerator(opts.NumHashes, opts.Seed)
	sigs := make(map[int]minhash.Signature, len(docs))
	for _, d := range docs {
		sigs[d.ID] = gen.Sign(d.Hashes)
	}

	bands, rows := lsh.OptimalBandsAndRows(opts.NumHashes, opts.MinimumSimilarity)
	index := lsh.NewIndex(bands, rows)
	for _, d := range docs {
		index.Insert(d.ID, sigs[d.ID])
	}

	var candidates map[lsh.DocumentPair]struct{}
	if opts.ProbesPerBand > 0 {
		mp := lsh.NewMultiProbe(index, opts.ProbesPerBand)
		candidates = mp.FindSimilarPairs(opts.MinimumSimilarity)
	} else {
		candidates = index.FindCandidatePairs()
	}

	byID := make(map[int]document, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}

	type retainedPair struct {
		pair       lsh.DocumentPair
		similarity float64
	}
	var retained []retainedPair
	for pair := range candidates {
		da, ok := byID[pair.A]
		if !ok {
			continue
		}
		db, ok := byID[pair.B]
		if !ok {
			continue
		}
		if da.File == db.File && overlaps(da.StartLine, da.EndLine, db.StartLine, db.EndLine) {
			continue
		}

		var similarity float64
		if opts.VerifyWithExact {
			similarity = minhash.ExactJaccard(da.Hashes, db.Hashes)
		} else {
			similarity = minhash.EstimateSimilarity(sigs[pair.A], sigs[pair.B])
		}
		if similarity < opts.MinimumSimilarity {
			continue
		}
		retained = append(retained, retainedPair{pair: pair, similarity: similarity})
	}
	if len(retained) == 0 {
		return nil
	}

	adjacency := make(map[int]map[int]float64)
	addEdge := func(a, b int, sim float64) {
		if adjacency[a] == nil {
			adjacency[a] = make(map[int]float64)
		}
		adjacency[a][b] = sim
	}
	for _, rp := range retained {
		addEdge(rp.pair.A, rp.pair.B, rp.similarity)
		addEdge(rp.pair.B, rp.pair.A, rp.similarity)
	}

	var nodes []int
	for id := range adjacency {
		nodes = append(nodes, id)
	}
	sort.Ints(nodes)

	visited := make(map[int]bool, len(nodes))
	var groups []findings.CloneGroup
	for _, start := range nodes {
		if visited[start] {
			continue
		}
		component := []int{start}
		visited[start] = true
		queue := []int{start}
		var sumSim float64
		var edgeCount int
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			neighbors := make([]int, 0, len(adjacency[cur]))
			for n := range adjacency[cur] {
				neighbors = append(neighbors, n)
			}
			sort.Ints(neighbors)
			for _, n := range neighbors {
				sumSim += adjacency[cur][n]
				edgeCount++
				if !visited[n] {
					visited[n] = true
					component = append(component, n)
					queue = append(queue, n)
				}
			}
		}
		if len(component) < 2 {
			continue
		}
		sort.Ints(component)
		avgSim := sumSim / float64(edgeCount) // each undirected edge is traversed once per endpoint, cancelling out

		clones := make([]findings.ClonedBlock, 0, len(component))
		idStrings := make([]string, 0, len(component))
		for _, id := range component {
			d := byID[id]
			clones = append(clones, findings.ClonedBlock{
				File:       d.File,
				StartLine:  d.StartLine,
				EndLine:    d.EndLine,
				TokenCount: d.TokenCount,
			})
			idStrings = append(idStrings, strconv.Itoa(id))
		}

		cloneType := findings.CloneNear
		if avgSim >= 0.999 {
			cloneType = findings.CloneExact
		}

		groups = append(groups, findings.CloneGroup{
			Type:        cloneType,
			Clones:      clones,
			Similarity:  avgSim,
			Fingerprint: strings.Join(idStrings, ","),
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Similarity != groups[j].Similarity {
			return groups[i].Similarity > groups[j].Similarity
		}
		return groups[i].Fingerprint < groups[j].Fingerprint
	})
	return groups
}

func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart <= bEnd && bStart <= aEnd
}
