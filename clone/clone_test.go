package clone

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/codescan/syntax"
)

func tokensFor(words []string, startLine uint32) ([]syntax.Token, []string) {
	tokens := make([]syntax.Token, len(words))
	texts := make([]string, len(words))
	for i, w := range words {
		tokens[i] = syntax.Token{Kind: syntax.Keyword, Line: startLine + uint32(i)}
		texts[i] = w
	}
	return tokens, texts
}

func TestDetect_FindsDuplicateBlockAcrossFiles(t *testing.T) {
	words := []string{"func", "foo", "(", ")", "{", "return", "1", "}", "end", "tail"}
	t1, x1 := tokensFor(words, 1)
	t2, x2 := tokensFor(words, 1)

	files := []FileTokens{
		{File: "a.go", Tokens: t1, Texts: x1},
		{File: "b.go", Tokens: t2, Texts: x2},
	}
	opts := Options{
		ShingleSize:       3,
		BlockSize:         10,
		NumHashes:         64,
		Seed:              42,
		MinimumSimilarity: 0.8,
		VerifyWithExact:   true,
	}
	groups := Detect(files, opts)
	assert.Len(t, groups, 1)
	assert.Len(t, groups[0].Clones, 2)
	assert.GreaterOrEqual(t, groups[0].Similarity, 0.8)
}

func TestDetect_SameFileOverlapSuppressed(t *testing.T) {
	words := []string{"func", "foo", "(", ")", "{", "return", "1", "}", "end", "tail", "extra", "pad"}
	tokens, texts := tokensFor(words, 1)

	files := []FileTokens{{File: "a.go", Tokens: tokens, Texts: texts}}
	opts := Options{
		ShingleSize:       3,
		BlockSize:         8,
		NumHashes:         64,
		Seed:              42,
		MinimumSimilarity: 0.5,
		VerifyWithExact:   true,
	}
	groups := Detect(files, opts)
	assert.Empty(t, groups)
}

func TestDetect_NoCandidatesReturnsEmpty(t *testing.T) {
	words := []string{"a", "b", "c"}
	tokens, texts := tokensFor(words, 1)
	files := []FileTokens{{File: "a.go", Tokens: tokens, Texts: texts}}
	groups := Detect(files, Options{ShingleSize: 5, BlockSize: 10, NumHashes: 32, MinimumSimilarity: 0.8})
	assert.Empty(t, groups)
}

func TestOverlaps(t *testing.T) {
	assert.True(t, overlaps(1, 5, 3, 8))
	assert.True(t, overlaps(1, 5, 5, 8))
	assert.False(t, overlaps(1, 5, 6, 8))
}
