// Package syntaxgo is a Go-flavored implementation of syntax.ParserService
// backed by go-tree-sitter, grounded in the walk style of
// inspector/golang/inspector_tree_sitter.go and analyzer/node.go. It exists
// as a working demo collaborator for tests and cmd/codescan — production
// front-ends are out of scope (spec.md §1).
package syntaxgo

import (
	"context"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/viant/codescan/syntax"
)

// Tree wraps a parsed go-tree-sitter tree together with its source bytes.
type Tree struct {
	path    string
	src     []byte
	root    *sitter.Node
	lineIdx *lineIndex
}

// Path implements syntax.SyntaxTree.
func (t *Tree) Path() string { return t.path }

// Parser implements syntax.ParserService for Go source files.
type Parser struct{}

// NewParser constructs a tree-sitter-backed Parser.
func NewParser() *Parser { return &Parser{} }

// Parse reads path and parses it with the tree-sitter Go grammar.
func (p *Parser) Parse(path string) (syntax.SyntaxTree, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.ParseSource(path, src)
}

// ParseSource parses already-read source content, attributing it to path.
func (p *Parser) ParseSource(path string, src []byte) (syntax.SyntaxTree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, err
	}
	return &Tree{path: path, src: src, root: tree.RootNode()}, nil
}

func asTree(t syntax.SyntaxTree) *Tree {
	tt, _ := t.(*Tree)
	return tt
}

func nodeText(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return string(src[n.StartByte():n.EndByte()])
}
