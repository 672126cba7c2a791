package syntaxgo

import (
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/viant/codescan/syntax"
)

func isExported(name string) bool {
	if name == "" {
		return false
	}
	return unicode.IsUpper([]rune(name)[0])
}

func accessLevelFor(name string) syntax.AccessLevel {
	if isExported(name) {
		return syntax.AccessPublic
	}
	return syntax.AccessPrivate
}

// CollectDeclarations implements syntax.ParserService, walking top-level
// function, method, type, const, var, and import declarations — grounded in
// inspector/golang/inspector_tree_sitter.go's processFile.
func (p *Parser) CollectDeclarations(t syntax.SyntaxTree) ([]syntax.Declaration, error) {
	tree := asTree(t)
	if tree == nil {
		return nil, nil
	}
	if tree.lineIdx == nil {
		tree.lineIdx = newLineIndex(tree.src)
	}
	src := tree.src

	var decls []syntax.Declaration
	root := tree.root
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		switch child.Type() {
		case "function_declaration":
			decls = append(decls, p.functionDeclaration(tree, child, src))
		case "method_declaration":
			decls = append(decls, p.methodDeclaration(tree, child, src))
		case "type_declaration":
			decls = append(decls, p.typeDeclarations(tree, child, src)...)
		case "const_declaration":
			decls = append(decls, p.constOrVarDeclarations(tree, child, src, syntax.KindConstant)...)
		case "var_declaration":
			decls = append(decls, p.constOrVarDeclarations(tree, child, src, syntax.KindVariable)...)
		case "import_declaration":
			decls = append(decls, p.importDeclarations(tree, child, src)...)
		}
	}
	return decls, nil
}

func (p *Parser) functionDeclaration(tree *Tree, n *sitter.Node, src []byte) syntax.Declaration {
	name := nodeText(n.ChildByFieldName("name"), src)
	var signature string
	if body := n.ChildByFieldName("body"); body != nil {
		signature = strings.TrimSpace(nodeText2(src, n.StartByte(), body.StartByte()))
	} else {
		signature = nodeText(n, src)
	}
	return syntax.Declaration{
		Name:        name,
		Kind:        syntax.KindFunction,
		AccessLevel: accessLevelFor(name),
		Location:    locationOf(tree, n),
		Range:       rangeOf(n, tree.lineIdx),
		Signature:   signature,
		File:        tree.path,
	}
}

func (p *Parser) methodDeclaration(tree *Tree, n *sitter.Node, src []byte) syntax.Declaration {
	name := nodeText(n.ChildByFieldName("name"), src)
	receiverType := ""
	if recv := n.ChildByFieldName("receiver"); recv != nil {
		for i := 0; i < int(recv.ChildCount()); i++ {
			p := recv.Child(i)
			if t := p.ChildByFieldName("type"); t != nil {
				receiverType = strings.TrimPrefix(nodeText(t, src), "*")
			}
		}
	}
	var signature string
	if body := n.ChildByFieldName("body"); body != nil {
		signature = strings.TrimSpace(nodeText2(src, n.StartByte(), body.StartByte()))
	} else {
		signature = nodeText(n, src)
	}
	return syntax.Declaration{
		Name:        name,
		Kind:        syntax.KindMethod,
		AccessLevel: accessLevelFor(name),
		Location:    locationOf(tree, n),
		Range:       rangeOf(n, tree.lineIdx),
		ScopeID:     receiverType,
		Signature:   signature,
		File:        tree.path,
	}
}

func (p *Parser) typeDeclarations(tree *Tree, n *sitter.Node, src []byte) []syntax.Declaration {
	var out []syntax.Declaration
	for i := 0; i < int(n.ChildCount()); i++ {
		spec := n.Child(i)
		if spec.Type() != "type_spec" {
			continue
		}
		name := nodeText(spec.ChildByFieldName("name"), src)
		kind := syntax.KindTypealias
		if typeVal := spec.ChildByFieldName("type"); typeVal != nil {
			switch typeVal.Type() {
			case "struct_type":
				kind = syntax.KindStruct
			case "interface_type":
				kind = syntax.KindProtocol
			}
		}
		out = append(out, syntax.Declaration{
			Name:        name,
			Kind:        kind,
			AccessLevel: accessLevelFor(name),
			Location:    locationOf(tree, spec),
			Range:       rangeOf(spec, tree.lineIdx),
			File:        tree.path,
		})
	}
	return out
}

func (p *Parser) constOrVarDeclarations(tree *Tree, n *sitter.Node, src []byte, kind syntax.DeclarationKind) []syntax.Declaration {
	var out []syntax.Declaration
	for i := 0; i < int(n.ChildCount()); i++ {
		spec := n.Child(i)
		if spec.Type() != "const_spec" && spec.Type() != "var_spec" {
			continue
		}
		nameList := spec.ChildByFieldName("name")
		typeAnnotation := ""
		if typeNode := spec.ChildByFieldName("type"); typeNode != nil {
			typeAnnotation = nodeText(typeNode, src)
		}
		for _, name := range splitIdentifierList(nameList, src) {
			out = append(out, syntax.Declaration{
				Name:           name,
				Kind:           kind,
				AccessLevel:    accessLevelFor(name),
				Location:       locationOf(tree, spec),
				Range:          rangeOf(spec, tree.lineIdx),
				TypeAnnotation: typeAnnotation,
				File:           tree.path,
			})
		}
	}
	return out
}

func splitIdentifierList(n *sitter.Node, src []byte) []string {
	if n == nil {
		return nil
	}
	if n.Type() != "identifier_list" && n.Type() != "expression_list" {
		return []string{nodeText(n, src)}
	}
	var names []string
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Type() == "identifier" {
			names = append(names, nodeText(c, src))
		}
	}
	return names
}

func (p *Parser) importDeclarations(tree *Tree, n *sitter.Node, src []byte) []syntax.Declaration {
	var out []syntax.Declaration
	var specs []*sitter.Node
	if n.Type() == "import_spec" {
		specs = []*sitter.Node{n}
	} else {
		for i := 0; i < int(n.ChildCount()); i++ {
			if c := n.Child(i); c.Type() == "import_spec" {
				specs = append(specs, c)
			}
		}
	}
	for _, spec := range specs {
		path := strings.Trim(nodeText(spec.ChildByFieldName("path"), src), `"`)
		out = append(out, syntax.Declaration{
			Name:     path,
			Kind:     syntax.KindImport,
			Location: locationOf(tree, spec),
			Range:    rangeOf(spec, tree.lineIdx),
			File:     tree.path,
		})
	}
	return out
}

func nodeText2(src []byte, start, end uint32) string {
	if end > uint32(len(src)) {
		end = uint32(len(src))
	}
	if start > end {
		return ""
	}
	return string(src[start:end])
}
