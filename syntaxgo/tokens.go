package syntaxgo

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/viant/codescan/syntax"
)

var keywordNodeTypes = map[string]bool{
	"func": true, "package": true, "import": true, "var": true, "const": true,
	"type": true, "struct": true, "interface": true, "map": true, "chan": true,
	"if": true, "else": true, "for": true, "range": true, "switch": true,
	"case": true, "default": true, "return": true, "go": true, "defer": true,
	"select": true, "break": true, "continue": true, "fallthrough": true,
	"goto": true,
}

var literalNodeTypes = map[string]bool{
	"interpreted_string_literal": true, "raw_string_literal": true,
	"int_literal": true, "float_literal": true, "imaginary_literal": true,
	"rune_literal": true, "true": true, "false": true, "nil": true,
}

var identifierNodeTypes = map[string]bool{
	"identifier": true, "field_identifier": true, "type_identifier": true,
	"package_identifier": true, "label_name": true,
}

func classify(nodeType string) syntax.TokenKind {
	switch {
	case keywordNodeTypes[nodeType]:
		return syntax.Keyword
	case literalNodeTypes[nodeType]:
		return syntax.Literal
	case identifierNodeTypes[nodeType]:
		return syntax.Identifier
	case nodeType == "comment":
		return syntax.Unknown
	}
	r := []rune(nodeType)
	if len(r) > 0 && !isIdentRune(r[0]) {
		return syntax.Punctuation
	}
	return syntax.Operator
}

func isIdentRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

// ExtractTokens implements syntax.ParserService by walking every leaf node
// of the parse tree in source order.
func (p *Parser) ExtractTokens(t syntax.SyntaxTree, source []byte) (syntax.TokenSequence, error) {
	tree := asTree(t)
	if tree == nil {
		return syntax.TokenSequence{}, nil
	}
	if tree.lineIdx == nil {
		tree.lineIdx = newLineIndex(tree.src)
	}

	var tokens []syntax.Token
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.ChildCount() == 0 {
			kind := classify(n.Type())
			if kind == syntax.Unknown {
				return
			}
			text := nodeText(n, source)
			if text == "" {
				return
			}
			pos := tree.lineIdx.ToPosition(uint32(n.StartByte()))
			tokens = append(tokens, syntax.Token{
				Kind:   kind,
				Text:   text,
				Offset: uint32(n.StartByte()),
				Length: uint16(n.EndByte() - n.StartByte()),
				Line:   uint32(pos.Line),
				Column: uint16(pos.Column),
			})
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.root)

	return syntax.TokenSequence{File: tree.path, Tokens: tokens}, nil
}
