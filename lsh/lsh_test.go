package lsh

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/codescan/minhash"
)

func TestOptimalBandsAndRows_DividesNumHashes(t *testing.T) {
	b, r := OptimalBandsAndRows(128, 0.8)
	assert.Equal(t, 128, b*r)
}

func TestIndex_InsertQueryFindsSelfExcluded(t *testing.T) {
	idx := NewIndex(4, 2)
	sig := minhash.Signature{1, 2, 3, 4, 5, 6, 7, 8}
	idx.Insert(1, sig)

	result := idx.Query(1, sig)
	assert.Empty(t, result)
}

func TestIndex_QueryFindsIdenticalSignatureNeighbor(t *testing.T) {
	idx := NewIndex(4, 2)
	sig := minhash.Signature{1, 2, 3, 4, 5, 6, 7, 8}
	idx.Insert(1, sig)
	idx.Insert(2, sig)

	result := idx.Query(1, sig)
	assert.Contains(t, result, 2)
}

func TestIndex_FindCandidatePairs(t *testing.T) {
	idx := NewIndex(4, 2)
	sig := minhash.Signature{1, 2, 3, 4, 5, 6, 7, 8}
	idx.Insert(1, sig)
	idx.Insert(2, sig)
	idx.Insert(3, minhash.Signature{9, 9, 9, 9, 9, 9, 9, 9})

	pairs := idx.FindCandidatePairs()
	_, ok := pairs[DocumentPair{A: 1, B: 2}]
	assert.True(t, ok)
	assert.Len(t, pairs, 1)
}

func TestNewPair_Canonicalizes(t *testing.T) {
	assert.Equal(t, DocumentPair{A: 1, B: 2}, newPair(2, 1))
	assert.Equal(t, DocumentPair{A: 1, B: 2}, newPair(1, 2))
}

func TestMultiProbe_FindSimilarPairsReportsNearDuplicate(t *testing.T) {
	idx := NewIndex(4, 2)
	sigA := minhash.Signature{1, 2, 3, 4, 5, 6, 7, 8}
	sigB := minhash.Signature{1, 2, 3, 4, 5, 6, 7, 9} // differs only in last row of last band
	idx.Insert(1, sigA)
	idx.Insert(2, sigB)

	mp := NewMultiProbe(idx, 2)
	pairs := mp.FindSimilarPairs(0.5)
	assert.NotEmpty(t, pairs)
}

func TestProbeDeltas_WidthCapsAtRows(t *testing.T) {
	deltas := probeDeltas(2, 5)
	assert.Len(t, deltas, 5)
	for k, d := range deltas {
		nonZero := 0
		for _, v := range d {
			if v != 0 {
				nonZero++
			}
		}
		expected := k + 1
		if expected > 2 {
			expected = 2
		}
		assert.Equal(t, expected, nonZero)
	}
}

func TestQueryAltSingleProbe_IncludesBaseResults(t *testing.T) {
	idx := NewIndex(4, 2)
	sig := minhash.Signature{1, 2, 3, 4, 5, 6, 7, 8}
	idx.Insert(1, sig)
	idx.Insert(2, sig)

	result := idx.QueryAltSingleProbe(1, sig)
	assert.Contains(t, result, 2)
}

func TestIndex_Insert_RefusesSignatureShorterThanBandsTimesRows(t *testing.T) {
	idx := NewIndex(4, 2) // expects signatures of length 8
	short := minhash.Signature{1, 2, 3, 4, 5}
	idx.Insert(1, short)

	for _, bucket := range idx.buckets {
		assert.Empty(t, bucket)
	}
	assert.Empty(t, idx.entries)
}

func TestIndex_Query_RefusesSignatureShorterThanBandsTimesRows(t *testing.T) {
	idx := NewIndex(4, 2)
	full := minhash.Signature{1, 2, 3, 4, 5, 6, 7, 8}
	idx.Insert(1, full)

	short := minhash.Signature{1, 2, 3}
	assert.Empty(t, idx.Query(2, short))
	assert.Empty(t, idx.QueryAltSingleProbe(2, short))
}
