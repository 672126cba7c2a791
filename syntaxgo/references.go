package syntaxgo

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/viant/codescan/syntax"
)

// CollectReferences implements syntax.ParserService, walking the whole tree
// for call expressions, selector expressions (member access), type
// identifiers, and import paths — grounded in analyzer/node.go's walk/
// handleCall style.
func (p *Parser) CollectReferences(t syntax.SyntaxTree) ([]syntax.Reference, error) {
	tree := asTree(t)
	if tree == nil {
		return nil, nil
	}
	if tree.lineIdx == nil {
		tree.lineIdx = newLineIndex(tree.src)
	}
	src := tree.src

	var refs []syntax.Reference
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Type() {
		case "call_expression":
			fn := n.ChildByFieldName("function")
			refs = append(refs, referencesForCallee(tree, fn, src)...)
		case "selector_expression":
			operand := n.ChildByFieldName("operand")
			field := n.ChildByFieldName("field")
			if operand != nil {
				refs = append(refs, syntax.Reference{
					Identifier: nodeText(operand, src),
					Location:   locationOf(tree, operand),
					Context:    syntax.ContextMemberAccessBase,
					File:       tree.path,
				})
			}
			if field != nil {
				refs = append(refs, syntax.Reference{
					Identifier:  nodeText(field, src),
					Location:    locationOf(tree, field),
					Context:     syntax.ContextMemberAccessMember,
					IsQualified: operand != nil,
					Qualifier:   nodeText(operand, src),
					File:        tree.path,
				})
			}
		case "type_identifier":
			refs = append(refs, syntax.Reference{
				Identifier: nodeText(n, src),
				Location:   locationOf(tree, n),
				Context:    syntax.ContextTypeAnnotation,
				File:       tree.path,
			})
		case "import_spec":
			if path := n.ChildByFieldName("path"); path != nil {
				refs = append(refs, syntax.Reference{
					Identifier: trimQuotes(nodeText(path, src)),
					Location:   locationOf(tree, path),
					Context:    syntax.ContextImport,
					File:       tree.path,
				})
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.root)
	return refs, nil
}

func referencesForCallee(tree *Tree, fn *sitter.Node, src []byte) []syntax.Reference {
	if fn == nil {
		return nil
	}
	switch fn.Type() {
	case "identifier":
		return []syntax.Reference{{
			Identifier: nodeText(fn, src),
			Location:   locationOf(tree, fn),
			Context:    syntax.ContextCall,
			File:       tree.path,
		}}
	case "selector_expression":
		field := fn.ChildByFieldName("field")
		operand := fn.ChildByFieldName("operand")
		if field == nil {
			return nil
		}
		return []syntax.Reference{{
			Identifier:  nodeText(field, src),
			Location:    locationOf(tree, field),
			Context:     syntax.ContextCall,
			IsQualified: operand != nil,
			Qualifier:   nodeText(operand, src),
			File:        tree.path,
		}}
	}
	return nil
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
