// Package minhash computes MinHash signatures over shingle sets and estimates
// Jaccard similarity from them (spec.md §4.B).
package minhash

// Prime modulus (2^32 + 15) used for the universal hash family a*x+b mod p.
const prime uint64 = 4294967311

const (
	lcgMultiplier uint64 = 6364136223846793005
	lcgIncrement  uint64 = 1442695040888963407
)

// Signature is a fixed-width MinHash signature: NumHashes running minima,
// one per independent hash function.
type Signature []uint64

// Generator produces MinHash signatures using NumHashes permutation functions
// seeded deterministically from Seed.
type Generator struct {
	numHashes int
	coeffA    []uint64
	coeffB    []uint64
}

// NewGenerator builds a Generator with numHashes independent hash functions
// derived from a seeded linear congruential generator. Each a_i is forced odd
// so that a_i*x mod p remains a valid permutation coefficient.
func NewGenerator(numHashes int, seed uint64) *Generator {
	if numHashes <= 0 {
		numHashes = 1
	}
	g := &Generator{
		numHashes: numHashes,
		coeffA:    make([]uint64, numHashes),
		coeffB:    make([]uint64, numHashes),
	}
	state := seed
	next := func() uint64 {
		state = state*lcgMultiplier + lcgIncrement
		return state
	}
	for i := 0; i < numHashes; i++ {
		a := next()
		a |= 1 // keep a_i odd
		b := next()
		g.coeffA[i] = a
		g.coeffB[i] = b
	}
	return g
}

// NumHashes returns the signature width produced by this generator.
func (g *Generator) NumHashes() int {
	return g.numHashes
}

// Sign computes a MinHash signature over a set of shingle hashes. An empty
// hash set yields a signature of all math.MaxUint64, which never matches a
// non-empty document under banding.
func (g *Generator) Sign(hashes map[uint64]struct{}) Signature {
	sig := make(Signature, g.numHashes)
	for i := range sig {
		sig[i] = ^uint64(0)
	}
	if len(hashes) == 0 {
		return sig
	}
	for h := range hashes {
		for i := 0; i < g.numHashes; i++ {
			v := wrappingHash(g.coeffA[i], h, g.coeffB[i])
			if v < sig[i] {
				sig[i] = v
			}
		}
	}
	return sig
}

// SignSlice is a convenience wrapper over an ordered slice of shingle hashes.
func (g *Generator) SignSlice(hashes []uint64) Signature {
	set := make(map[uint64]struct{}, len(hashes))
	for _, h := range hashes {
		set[h] = struct{}{}
	}
	return g.Sign(set)
}

func wrappingHash(a, x, b uint64) uint64 {
	// (a*x + b) mod p, relying on uint64 wraparound for the multiply/add the
	// same way the reference algorithm does.
	return (a*x + b) % prime
}

// EstimateSimilarity returns the fraction of matching components between two
// signatures of equal width, the MinHash estimator of Jaccard similarity.
func EstimateSimilarity(a, b Signature) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	matches := 0
	for i := range a {
		if a[i] == b[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(a))
}

// ExactJaccard computes the true Jaccard similarity between two shingle hash
// sets, used to verify LSH candidate pairs when config.VerifyWithExact is set.
func ExactJaccard(a, b map[uint64]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(large) < len(small) {
		small, large = large, small
	}
	intersection := 0
	for h := range small {
		if _, ok := large[h]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
