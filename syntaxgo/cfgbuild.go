package syntaxgo

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/viant/codescan/cfg"
	"github.com/viant/codescan/syntax"
)

// BuildCFG projects a function or method declaration's body into the
// abstract statement tree cfg.Build expects and returns the resulting
// control-flow graph. It is a best-effort, Go-specific bridge between this
// package's tree-sitter parse and the language-agnostic cfg package; it
// does not aim for full fidelity (e.g. labeled non-innermost loops, select
// statements, and goto are approximated or ignored).
func (p *Parser) BuildCFG(t syntax.SyntaxTree, declarationName string) *cfg.CFG {
	tree := asTree(t)
	if tree == nil {
		return cfg.Build(nil)
	}
	if tree.lineIdx == nil {
		tree.lineIdx = newLineIndex(tree.src)
	}
	fn := findFunctionNode(tree.root, tree.src, declarationName)
	if fn == nil {
		return cfg.Build(nil)
	}
	body := fn.ChildByFieldName("body")
	if body == nil {
		return cfg.Build(nil)
	}
	return cfg.Build(convertStatements(tree, body))
}

func findFunctionNode(root *sitter.Node, src []byte, name string) *sitter.Node {
	var found *sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if found != nil || n == nil {
			return
		}
		if n.Type() == "function_declaration" || n.Type() == "method_declaration" {
			if nodeText(n.ChildByFieldName("name"), src) == name {
				found = n
				return
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return found
}

func convertStatements(tree *Tree, block *sitter.Node) []cfg.Stmt {
	if block == nil {
		return nil
	}
	var stmts []cfg.Stmt
	for i := 0; i < int(block.ChildCount()); i++ {
		c := block.Child(i)
		switch c.Type() {
		case "{", "}", "comment":
			continue
		}
		stmts = append(stmts, convertStmt(tree, c))
	}
	return stmts
}

func convertStmt(tree *Tree, n *sitter.Node) cfg.Stmt {
	src := tree.src
	loc := locationOf(tree, n)
	switch n.Type() {
	case "if_statement":
		cond := n.ChildByFieldName("condition")
		then := n.ChildByFieldName("consequence")
		stmt := cfg.Stmt{
			Kind:     cfg.StmtIf,
			Location: loc,
			Uses:     dedupeStrings(identifiersIn(cond, src)),
			Then:     convertStatements(tree, then),
		}
		if alt := n.ChildByFieldName("alternative"); alt != nil {
			if alt.Type() == "block" {
				stmt.Else = convertStatements(tree, alt)
			} else {
				stmt.Else = []cfg.Stmt{convertStmt(tree, alt)}
			}
		}
		return stmt

	case "for_statement":
		body := n.ChildByFieldName("body")
		var uses []string
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if c == body || c.Type() == "{" || c.Type() == "}" {
				continue
			}
			uses = append(uses, identifiersIn(c, src)...)
		}
		return cfg.Stmt{
			Kind:     cfg.StmtFor,
			Location: loc,
			Uses:     dedupeStrings(uses),
			Body:     convertStatements(tree, body),
		}

	case "return_statement":
		var uses []string
		for i := 0; i < int(n.ChildCount()); i++ {
			uses = append(uses, identifiersIn(n.Child(i), src)...)
		}
		return cfg.Stmt{Kind: cfg.StmtReturn, Location: loc, Uses: dedupeStrings(uses)}

	case "break_statement":
		return cfg.Stmt{Kind: cfg.StmtBreak, Location: loc, TargetLabel: labelOf(n, src)}

	case "continue_statement":
		return cfg.Stmt{Kind: cfg.StmtContinue, Location: loc, TargetLabel: labelOf(n, src)}

	case "short_var_declaration":
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		return cfg.Stmt{
			Kind:     cfg.StmtExpr,
			Location: loc,
			Defs:     splitIdentifierList(left, src),
			Uses:     dedupeStrings(identifiersIn(right, src)),
		}

	case "assignment_statement":
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		defs := splitIdentifierList(left, src)
		uses := identifiersIn(right, src)
		if len(defs) == 0 {
			uses = append(uses, identifiersIn(left, src)...)
		}
		return cfg.Stmt{Kind: cfg.StmtExpr, Location: loc, Defs: defs, Uses: dedupeStrings(uses)}

	case "block":
		return cfg.Stmt{Kind: cfg.StmtBlock, Location: loc, Body: convertStatements(tree, n)}

	default:
		return cfg.Stmt{Kind: cfg.StmtExpr, Location: loc, Uses: dedupeStrings(identifiersIn(n, src))}
	}
}

func labelOf(n *sitter.Node, src []byte) string {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == "label_name" {
			return nodeText(c, src)
		}
	}
	return ""
}

func identifiersIn(n *sitter.Node, src []byte) []string {
	if n == nil {
		return nil
	}
	var out []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "identifier" {
			out = append(out, nodeText(n, src))
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(n)
	return out
}

func dedupeStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
