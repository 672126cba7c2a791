// Package shingle turns a normalized token stream into k-gram shingles and
// sliding-window block documents (spec.md §4.A).
package shingle

import (
	"hash/fnv"

	"github.com/viant/codescan/syntax"
)

const sentinel = 0xFF

// DefaultSize is the default shingle window width in tokens.
const DefaultSize = 5

// Shingle is a fixed-width window over a normalized token sequence, carrying
// the FNV-1a hash of its serialized tokens.
type Shingle struct {
	Hash  uint64
	Start int // index of the first token in the source sequence
	End   int // exclusive
}

// normalize rewrites identifiers and literals to positional placeholders
// ($IDn / $LITn, assigned by first occurrence) so clone detection is
// insensitive to renaming (spec.md §3).
func normalize(kinds []syntax.TokenKind, text func(i int) string) []string {
	out := make([]string, len(kinds))
	idIndex := map[string]int{}
	litIndex := map[string]int{}
	nextID, nextLit := 0, 0
	for i := range kinds {
		kind := kinds[i]
		raw := text(i)
		switch kind {
		case syntax.Identifier:
			n, ok := idIndex[raw]
			if !ok {
				n = nextID
				idIndex[raw] = n
				nextID++
			}
			out[i] = placeholder("$ID", n)
		case syntax.Literal:
			n, ok := litIndex[raw]
			if !ok {
				n = nextLit
				litIndex[raw] = n
				nextLit++
			}
			out[i] = placeholder("$LIT", n)
		default:
			out[i] = raw
		}
	}
	return out
}

func placeholder(prefix string, n int) string {
	// small, allocation-light itoa to keep shingling on the hot path cheap
	if n == 0 {
		return prefix + "0"
	}
	digits := [20]byte{}
	pos := len(digits)
	for n > 0 {
		pos--
		digits[pos] = byte('0' + n%10)
		n /= 10
	}
	return prefix + string(digits[pos:])
}

func hashWindow(words []string) uint64 {
	h := fnv.New64a()
	for i, w := range words {
		if i > 0 {
			h.Write([]byte{sentinel})
		}
		h.Write([]byte(w))
	}
	return h.Sum64()
}

// Tokens computes shingles over tokens, whose text is supplied by texts
// (parallel to tokens). When normalize is true, identifiers and literals
// are rewritten to positional placeholders before hashing. token-count < k
// yields an empty result.
func Tokens(tokensKind []syntax.TokenKind, texts []string, k int, normalizeIdents bool) []Shingle {
	n := len(tokensKind)
	if k <= 0 || n < k {
		return nil
	}
	words := texts
	if normalizeIdents {
		words = normalize(tokensKind, func(i int) string { return texts[i] })
	}
	out := make([]Shingle, 0, n-k+1)
	for i := 0; i+k <= n; i++ {
		out = append(out, Shingle{
			Hash:  hashWindow(words[i : i+k]),
			Start: i,
			End:   i + k,
		})
	}
	return out
}

// Document mirrors spec.md §3's ShingledDocument.
type Document struct {
	ID         int
	File       string
	StartLine  int
	EndLine    int
	TokenCount int
	Hashes     map[uint64]struct{}
	Shingles   []Shingle
}

// BlockDocuments slides a window of blockSize tokens with stride
// max(1, blockSize/2) over a file's tokens, emitting one ShingledDocument
// per window. token-count < blockSize yields no documents.
func BlockDocuments(file string, tokens []syntax.Token, texts []string, blockSize, shingleSize, startID int, normalizeIdents bool) []Document {
	n := len(tokens)
	if blockSize <= 0 || n < blockSize {
		return nil
	}
	stride := blockSize / 2
	if stride < 1 {
		stride = 1
	}
	kinds := make([]syntax.TokenKind, n)
	for i, t := range tokens {
		kinds[i] = t.Kind
	}

	var docs []Document
	id := startID
	for start := 0; start+blockSize <= n; start += stride {
		end := start + blockSize
		windowKinds := kinds[start:end]
		windowTexts := texts[start:end]
		shingles := Tokens(windowKinds, windowTexts, shingleSize, normalizeIdents)
		hashes := make(map[uint64]struct{}, len(shingles))
		for _, s := range shingles {
			hashes[s.Hash] = struct{}{}
		}
		docs = append(docs, Document{
			ID:         id,
			File:       file,
			StartLine:  int(tokens[start].Line),
			EndLine:    int(tokens[end-1].Line),
			TokenCount: blockSize,
			Hashes:     hashes,
			Shingles:   shingles,
		})
		id++
	}
	return docs
}
