package syntaxgo

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/viant/codescan/syntax"
)

// lineIndex maps byte offsets to 1-based line/column pairs via a sorted
// table of line-start offsets, searched with binary search.
type lineIndex struct {
	lineStarts []int
}

func newLineIndex(src []byte) *lineIndex {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{lineStarts: starts}
}

// ToPosition implements syntax.LocationConverter.
func (l *lineIndex) ToPosition(offset uint32) syntax.Position {
	off := int(offset)
	lo, hi := 0, len(l.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if l.lineStarts[mid] <= off {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return syntax.Position{Line: lo + 1, Column: off - l.lineStarts[lo] + 1}
}

// Converter implements syntax.ParserService.
func (p *Parser) Converter(t syntax.SyntaxTree) syntax.LocationConverter {
	tree := asTree(t)
	if tree == nil {
		return &lineIndex{lineStarts: []int{0}}
	}
	if tree.lineIdx == nil {
		tree.lineIdx = newLineIndex(tree.src)
	}
	return tree.lineIdx
}

func locationOf(tree *Tree, n *sitter.Node) syntax.Location {
	if tree.lineIdx == nil {
		tree.lineIdx = newLineIndex(tree.src)
	}
	offset := uint32(n.StartByte())
	pos := tree.lineIdx.ToPosition(offset)
	return syntax.Location{File: tree.path, Offset: offset, Line: pos.Line, Column: pos.Column}
}

func rangeOf(n *sitter.Node, idx *lineIndex) syntax.Range {
	start := idx.ToPosition(uint32(n.StartByte()))
	end := idx.ToPosition(uint32(n.EndByte()))
	return syntax.Range{Start: start, End: end}
}
