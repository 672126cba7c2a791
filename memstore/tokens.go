package memstore

import (
	"unsafe"

	"github.com/viant/codescan/syntax"
)

// TokenStore holds tokens in struct-of-arrays layout so a pass that sweeps
// a single field (e.g. kinds for tokenization stats, offsets for span
// lookup) stays cache-dense (spec.md §3, §9).
type TokenStore struct {
	Kind   []uint8
	Offset []uint32
	Length []uint16
	Line   []uint32
	Column []uint16
}

// NewTokenStore pre-allocates column arrays for n tokens.
func NewTokenStore(n int) *TokenStore {
	return &TokenStore{
		Kind:   make([]uint8, 0, n),
		Offset: make([]uint32, 0, n),
		Length: make([]uint16, 0, n),
		Line:   make([]uint32, 0, n),
		Column: make([]uint16, 0, n),
	}
}

// Len returns the number of tokens stored.
func (s *TokenStore) Len() int { return len(s.Kind) }

// Append adds one token's fields to the parallel arrays.
func (s *TokenStore) Append(t syntax.Token) {
	s.Kind = append(s.Kind, uint8(t.Kind))
	s.Offset = append(s.Offset, t.Offset)
	s.Length = append(s.Length, t.Length)
	s.Line = append(s.Line, t.Line)
	s.Column = append(s.Column, t.Column)
}

// At reconstructs the i-th token's non-text fields as a syntax.Token.
func (s *TokenStore) At(i int) syntax.Token {
	return syntax.Token{
		Kind:   syntax.TokenKind(s.Kind[i]),
		Offset: s.Offset[i],
		Length: s.Length[i],
		Line:   s.Line[i],
		Column: s.Column[i],
	}
}

// FromTokens builds a TokenStore from a convenient slice of Token, e.g. as
// produced by a ParserService.
func FromTokens(tokens []syntax.Token) *TokenStore {
	s := NewTokenStore(len(tokens))
	for _, t := range tokens {
		s.Append(t)
	}
	return s
}

// ArenaTokens is the immutable, arena-backed form of a TokenStore. Converting
// to it is a one-shot copy (spec.md §4.J); every field lives in contiguous
// arena storage and is freed together when the arena resets or releases.
type ArenaTokens struct {
	Kind   []uint8
	Offset []uint32
	Length []uint16
	Line   []uint32
	Column []uint16
}

// Freeze copies s into arena-backed storage: every column is a contiguous
// byte run inside the arena, viewed back as its typed element width. The
// whole column is destroyed together at the next arena reset or release.
func (s *TokenStore) Freeze(a *Arena) (*ArenaTokens, error) {
	n := s.Len()
	if n == 0 {
		return &ArenaTokens{}, nil
	}
	kind, err := a.Alloc(n)
	if err != nil {
		return nil, err
	}
	copy(kind, s.Kind)

	offsetBytes, err := a.Alloc(n * 4)
	if err != nil {
		return nil, err
	}
	offset := unsafe.Slice((*uint32)(unsafe.Pointer(&offsetBytes[0])), n)
	copy(offset, s.Offset)

	lengthBytes, err := a.Alloc(n * 2)
	if err != nil {
		return nil, err
	}
	length := unsafe.Slice((*uint16)(unsafe.Pointer(&lengthBytes[0])), n)
	copy(length, s.Length)

	lineBytes, err := a.Alloc(n * 4)
	if err != nil {
		return nil, err
	}
	line := unsafe.Slice((*uint32)(unsafe.Pointer(&lineBytes[0])), n)
	copy(line, s.Line)

	columnBytes, err := a.Alloc(n * 2)
	if err != nil {
		return nil, err
	}
	column := unsafe.Slice((*uint16)(unsafe.Pointer(&columnBytes[0])), n)
	copy(column, s.Column)

	return &ArenaTokens{Kind: kind, Offset: offset, Length: length, Line: line, Column: column}, nil
}
