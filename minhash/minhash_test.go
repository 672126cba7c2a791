package minhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSign_EmptyYieldsAllMax(t *testing.T) {
	g := NewGenerator(8, 42)
	sig := g.Sign(nil)
	assert.Len(t, sig, 8)
	for _, v := range sig {
		assert.Equal(t, ^uint64(0), v)
	}
}

func TestSign_IdenticalSetsYieldIdenticalSignatures(t *testing.T) {
	g := NewGenerator(32, 42)
	set := map[uint64]struct{}{1: {}, 2: {}, 3: {}, 4: {}}
	a := g.Sign(set)
	b := g.Sign(set)
	assert.Equal(t, a, b)
}

func TestSign_CoefficientsAreOdd(t *testing.T) {
	g := NewGenerator(16, 7)
	for _, a := range g.coeffA {
		assert.Equal(t, uint64(1), a&1)
	}
}

func TestEstimateSimilarity_HighForOverlappingSets(t *testing.T) {
	g := NewGenerator(128, 42)
	a := map[uint64]struct{}{1: {}, 2: {}, 3: {}, 4: {}, 5: {}}
	b := map[uint64]struct{}{1: {}, 2: {}, 3: {}, 4: {}, 6: {}}

	sigA := g.Sign(a)
	sigB := g.Sign(b)
	est := EstimateSimilarity(sigA, sigB)
	exact := ExactJaccard(a, b)

	assert.InDelta(t, exact, est, 0.35)
}

func TestEstimateSimilarity_MismatchedWidthsReturnsZero(t *testing.T) {
	assert.Equal(t, 0.0, EstimateSimilarity(Signature{1, 2}, Signature{1}))
}

func TestExactJaccard_Disjoint(t *testing.T) {
	a := map[uint64]struct{}{1: {}}
	b := map[uint64]struct{}{2: {}}
	assert.Equal(t, 0.0, ExactJaccard(a, b))
}

func TestExactJaccard_BothEmpty(t *testing.T) {
	assert.Equal(t, 0.0, ExactJaccard(nil, nil))
}

func TestExactJaccard_Identical(t *testing.T) {
	a := map[uint64]struct{}{1: {}, 2: {}, 3: {}}
	assert.Equal(t, 1.0, ExactJaccard(a, a))
}
