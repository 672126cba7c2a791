package shingle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/codescan/syntax"
)

func kindsFor(texts []string, identifiers map[int]bool) []syntax.TokenKind {
	kinds := make([]syntax.TokenKind, len(texts))
	for i := range texts {
		if identifiers[i] {
			kinds[i] = syntax.Identifier
		} else {
			kinds[i] = syntax.Keyword
		}
	}
	return kinds
}

func TestTokens_ShortSequenceYieldsEmpty(t *testing.T) {
	texts := []string{"func", "foo"}
	kinds := kindsFor(texts, map[int]bool{1: true})
	assert.Empty(t, Tokens(kinds, texts, 5, true))
}

func TestTokens_WindowCount(t *testing.T) {
	texts := []string{"a", "b", "c", "d", "e", "f"}
	kinds := kindsFor(texts, nil)
	out := Tokens(kinds, texts, 5, false)
	assert.Len(t, out, 2)
}

func TestTokens_NormalizationMakesRenamedIdenticalHash(t *testing.T) {
	textsA := []string{"func", "foo", "(", "x", ")"}
	textsB := []string{"func", "bar", "(", "y", ")"}
	kinds := kindsFor(textsA, map[int]bool{1: true, 3: true})

	a := Tokens(kinds, textsA, 5, true)
	b := Tokens(kinds, textsB, 5, true)
	assert.Len(t, a, 1)
	assert.Len(t, b, 1)
	assert.Equal(t, a[0].Hash, b[0].Hash)
}

func TestTokens_WithoutNormalizationDiffersOnRename(t *testing.T) {
	textsA := []string{"func", "foo", "(", "x", ")"}
	textsB := []string{"func", "bar", "(", "y", ")"}
	kinds := kindsFor(textsA, map[int]bool{1: true, 3: true})

	a := Tokens(kinds, textsA, 5, false)
	b := Tokens(kinds, textsB, 5, false)
	assert.NotEqual(t, a[0].Hash, b[0].Hash)
}

func buildTokens(n int) ([]syntax.Token, []string) {
	tokens := make([]syntax.Token, n)
	texts := make([]string, n)
	for i := 0; i < n; i++ {
		tokens[i] = syntax.Token{Kind: syntax.Keyword, Line: uint32(i + 1)}
		texts[i] = "tok"
	}
	return tokens, texts
}

func TestBlockDocuments_StrideAndEdgeCases(t *testing.T) {
	tokens, texts := buildTokens(10)
	docs := BlockDocuments("f.go", tokens, texts, 4, 2, 0, false)
	// stride = max(1, 4/2) = 2; windows at 0,2,4,6 => 4 docs (last start=6,end=10)
	assert.Len(t, docs, 4)
	assert.Equal(t, 1, docs[0].StartLine)
	assert.Equal(t, 4, docs[0].EndLine)

	assert.Empty(t, BlockDocuments("f.go", tokens[:2], texts[:2], 4, 2, 0, false))
}
