// Package lsh buckets MinHash signatures by band and answers approximate
// nearest-neighbor queries, with an optional multi-probe layer for higher
// recall (spec.md §4.C, §4.D).
package lsh

import (
	"hash/fnv"
	"math"
	"sort"

	"github.com/viant/codescan/minhash"
)

// DocumentPair is an unordered pair of candidate document ids, canonicalized
// so the smaller id is always first.
type DocumentPair struct {
	A int
	B int
}

func newPair(a, b int) DocumentPair {
	if a > b {
		a, b = b, a
	}
	return DocumentPair{A: a, B: b}
}

// OptimalBandsAndRows searches divisors of numHashes for the (b, r) pair that
// minimizes |t - (1/b)^(1/r)| for a target Jaccard threshold t.
func OptimalBandsAndRows(numHashes int, threshold float64) (bands, rows int) {
	if numHashes <= 0 {
		return 1, 1
	}
	bestB, bestR := numHashes, 1
	bestDiff := math.MaxFloat64
	for b := 1; b <= numHashes; b++ {
		if numHashes%b != 0 {
			continue
		}
		r := numHashes / b
		approx := math.Pow(1.0/float64(b), 1.0/float64(r))
		diff := math.Abs(threshold - approx)
		if diff < bestDiff {
			bestDiff = diff
			bestB, bestR = b, r
		}
	}
	return bestB, bestR
}

type entry struct {
	sig   minhash.Signature
	docID int
}

// Index is an LSH index over fixed-width MinHash signatures, banding each
// signature into b bands of r rows.
type Index struct {
	bands   int
	rows    int
	buckets []map[uint64][]int
	entries map[int]entry
}

// NewIndex constructs an empty index for the given band/row parameters.
// numHashes must equal bands*rows for signatures inserted later.
func NewIndex(bands, rows int) *Index {
	if bands < 1 {
		bands = 1
	}
	if rows < 1 {
		rows = 1
	}
	idx := &Index{
		bands:   bands,
		rows:    rows,
		buckets: make([]map[uint64][]int, bands),
		entries: make(map[int]entry),
	}
	for i := range idx.buckets {
		idx.buckets[i] = make(map[uint64][]int)
	}
	return idx
}

// Bands returns the number of bands this index was built with.
func (idx *Index) Bands() int { return idx.bands }

// Rows returns the number of rows per band this index was built with.
func (idx *Index) Rows() int { return idx.rows }

func bandHash(sig minhash.Signature, band, rows int) uint64 {
	h := fnv.New64a()
	start := band * rows
	end := start + rows
	if end > len(sig) {
		end = len(sig)
	}
	buf := make([]byte, 8)
	for i := start; i < end; i++ {
		v := sig[i]
		for j := 0; j < 8; j++ {
			buf[j] = byte(v >> (8 * j))
		}
		h.Write(buf)
	}
	return h.Sum64()
}

// Insert adds a signature under the given document id. Insertion is
// append-only; indices are frozen for querying once building is complete. A
// signature shorter than bands*rows is refused outright (spec.md §4.C).
func (idx *Index) Insert(docID int, sig minhash.Signature) {
	if len(sig) < idx.bands*idx.rows {
		return
	}
	idx.entries[docID] = entry{sig: sig, docID: docID}
	for j := 0; j < idx.bands; j++ {
		h := bandHash(sig, j, idx.rows)
		idx.buckets[j][h] = append(idx.buckets[j][h], docID)
	}
}

// Query returns the ids of documents sharing at least one band bucket with
// sig, excluding selfID. A signature shorter than bands*rows is refused
// outright, yielding an empty result (spec.md §4.C).
func (idx *Index) Query(selfID int, sig minhash.Signature) map[int]struct{} {
	out := make(map[int]struct{})
	if len(sig) < idx.bands*idx.rows {
		return out
	}
	for j := 0; j < idx.bands; j++ {
		h := bandHash(sig, j, idx.rows)
		for _, id := range idx.buckets[j][h] {
			if id != selfID {
				out[id] = struct{}{}
			}
		}
	}
	return out
}

// FindCandidatePairs emits all unordered document pairs that collide in at
// least one band bucket.
func (idx *Index) FindCandidatePairs() map[DocumentPair]struct{} {
	out := make(map[DocumentPair]struct{})
	for _, bucket := range idx.buckets {
		for _, ids := range bucket {
			for i := 0; i < len(ids); i++ {
				for k := i + 1; k < len(ids); k++ {
					out[newPair(ids[i], ids[k])] = struct{}{}
				}
			}
		}
	}
	return out
}

// probeDeltas returns one perturbation vector per probe k; vector k perturbs
// the first min(k+1, rows) band positions by a constant k+1, per spec.md §4.D.
func probeDeltas(rows, probesPerBand int) [][]uint64 {
	deltas := make([][]uint64, probesPerBand)
	for k := 0; k < probesPerBand; k++ {
		width := k + 1
		if width > rows {
			width = rows
		}
		d := make([]uint64, rows)
		for i := 0; i < width; i++ {
			d[i] = uint64(k + 1)
		}
		deltas[k] = d
	}
	return deltas
}

func perturbBandHash(sig minhash.Signature, band, rows int, delta []uint64) uint64 {
	h := fnv.New64a()
	start := band * rows
	end := start + rows
	if end > len(sig) {
		end = len(sig)
	}
	buf := make([]byte, 8)
	for i := start; i < end; i++ {
		v := sig[i] + delta[i-start]
		for j := 0; j < 8; j++ {
			buf[j] = byte(v >> (8 * j))
		}
		h.Write(buf)
	}
	return h.Sum64()
}

// QueryAltSingleProbe is the "±1 single-position" probing variant on the
// base index: for each band, each single row position is perturbed by +1 and
// -1 in turn and the resulting bucket is consulted.
func (idx *Index) QueryAltSingleProbe(selfID int, sig minhash.Signature) map[int]struct{} {
	out := idx.Query(selfID, sig)
	if len(sig) < idx.bands*idx.rows {
		return out
	}
	for j := 0; j < idx.bands; j++ {
		start := j * idx.rows
		end := start + idx.rows
		if end > len(sig) {
			end = len(sig)
		}
		for pos := start; pos < end; pos++ {
			for _, delta := range []int64{1, -1} {
				perturbed := make(minhash.Signature, len(sig))
				copy(perturbed, sig)
				perturbed[pos] = uint64(int64(perturbed[pos]) + delta)
				h := bandHash(perturbed, j, idx.rows)
				for _, id := range idx.buckets[j][h] {
					if id != selfID {
						out[id] = struct{}{}
					}
				}
			}
		}
	}
	return out
}

// MultiProbe layers additional perturbed-bucket queries on top of a base
// Index to improve recall without enlarging it (spec.md §4.D).
type MultiProbe struct {
	base   *Index
	deltas [][]uint64
}

// NewMultiProbe precomputes perturbation vectors for the (bands, rows,
// probesPerBand) triple. Precomputation is a pure function of the
// parameters, independent of any indexed data.
func NewMultiProbe(base *Index, probesPerBand int) *MultiProbe {
	return &MultiProbe{
		base:   base,
		deltas: probeDeltas(base.rows, probesPerBand),
	}
}

// Query returns the base index's candidates unioned with candidates found by
// re-querying each precomputed perturbation of sig.
func (mp *MultiProbe) Query(selfID int, sig minhash.Signature) map[int]struct{} {
	out := mp.base.Query(selfID, sig)
	if len(sig) < mp.base.bands*mp.base.rows {
		return out
	}
	for j := 0; j < mp.base.bands; j++ {
		for _, delta := range mp.deltas {
			h := perturbBandHash(sig, j, mp.base.rows, delta)
			for _, id := range mp.base.buckets[j][h] {
				if id != selfID {
					out[id] = struct{}{}
				}
			}
		}
	}
	return out
}

// FindSimilarPairs unions base candidate pairs with perturbed-query pairs,
// estimates similarity from the stored signatures, and filters by threshold.
func (mp *MultiProbe) FindSimilarPairs(threshold float64) map[DocumentPair]struct{} {
	candidates := mp.base.FindCandidatePairs()
	ids := make([]int, 0, len(mp.base.entries))
	for id := range mp.base.entries {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		e := mp.base.entries[id]
		for other := range mp.Query(id, e.sig) {
			candidates[newPair(id, other)] = struct{}{}
		}
	}

	out := make(map[DocumentPair]struct{})
	for pair := range candidates {
		a, aok := mp.base.entries[pair.A]
		b, bok := mp.base.entries[pair.B]
		if !aok || !bok {
			continue
		}
		if minhash.EstimateSimilarity(a.sig, b.sig) >= threshold {
			out[pair] = struct{}{}
		}
	}
	return out
}
