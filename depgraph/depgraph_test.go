package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/codescan/config"
	"github.com/viant/codescan/syntax"
)

func rng(startLine, endLine int) syntax.Range {
	return syntax.Range{Start: syntax.Position{Line: startLine}, End: syntax.Position{Line: endLine}}
}

func TestIsRoot_MainFunction(t *testing.T) {
	d := syntax.Declaration{Name: "main", Kind: syntax.KindFunction}
	assert.True(t, isRoot(d, *config.DefaultOptions()))
}

func TestIsRoot_AttributeMatch(t *testing.T) {
	d := syntax.Declaration{Name: "onTap", Attributes: []string{"@IBAction"}}
	assert.True(t, isRoot(d, *config.DefaultOptions()))
}

func TestIsRoot_ObjcRespectsConfig(t *testing.T) {
	d := syntax.Declaration{Name: "foo", Attributes: []string{"@objc"}}
	cfg := *config.DefaultOptions()
	cfg.TreatObjcAsRoot = false
	assert.False(t, isRoot(d, cfg))
	cfg.TreatObjcAsRoot = true
	assert.True(t, isRoot(d, cfg))
}

func TestIsRoot_PublicAccessLevel(t *testing.T) {
	d := syntax.Declaration{Name: "foo", AccessLevel: syntax.AccessPublic}
	cfg := *config.DefaultOptions()
	assert.True(t, isRoot(d, cfg))
	cfg.TreatPublicAsRoot = false
	assert.False(t, isRoot(d, cfg))
}

func TestIsRoot_TestMethod(t *testing.T) {
	d := syntax.Declaration{Name: "testSomething", Kind: syntax.KindFunction}
	cfg := *config.DefaultOptions()
	assert.True(t, isRoot(d, cfg))
}

func TestIsRoot_TestMethodOnTestClass(t *testing.T) {
	d := syntax.Declaration{Name: "testSomething", Kind: syntax.KindMethod, ScopeID: "WidgetTests"}
	cfg := *config.DefaultOptions()
	assert.True(t, isRoot(d, cfg))
	cfg.TreatTestsAsRoot = false
	assert.False(t, isRoot(d, cfg))
}

func TestCapitalizedTypeNames_SkipsBuiltins(t *testing.T) {
	names := capitalizedTypeNames("Dictionary<String, MyModel>")
	assert.Contains(t, names, "Dictionary")
	assert.Contains(t, names, "MyModel")
	assert.NotContains(t, names, "String")
}

func TestBuilder_EdgesFromCallReference(t *testing.T) {
	decls := []syntax.Declaration{
		{Name: "caller", Kind: syntax.KindFunction, File: "a.go", Range: rng(1, 10)},
		{Name: "callee", Kind: syntax.KindFunction, File: "a.go", Range: rng(20, 30)},
	}
	refs := []syntax.Reference{
		{Identifier: "callee", File: "a.go", Context: syntax.ContextCall, Location: syntax.Location{File: "a.go", Line: 5}},
	}
	b := NewBuilder(decls, refs, *config.DefaultOptions())
	edges := b.edgesFor(0)
	assert.Len(t, edges, 1)
	assert.Equal(t, 1, edges[0].To)
	assert.Equal(t, EdgeCall, edges[0].Kind)
}

func TestBuilder_TypeToMemberEdge(t *testing.T) {
	decls := []syntax.Declaration{
		{Name: "Foo", Kind: syntax.KindClass, File: "a.go", Range: rng(1, 100)},
		{Name: "bar", Kind: syntax.KindMethod, File: "a.go", ScopeID: "Foo", Range: rng(5, 10)},
	}
	b := NewBuilder(decls, nil, *config.DefaultOptions())
	edges := b.edgesFor(0)
	found := false
	for _, e := range edges {
		if e.To == 1 && e.Kind == EdgeCall {
			found = true
		}
	}
	assert.True(t, found)
}

func TestBuilder_BuildGraph_RootsPopulated(t *testing.T) {
	decls := []syntax.Declaration{
		{Name: "main", Kind: syntax.KindFunction, File: "a.go", Range: rng(1, 10)},
		{Name: "helper", Kind: syntax.KindFunction, File: "a.go", Range: rng(20, 30)},
	}
	refs := []syntax.Reference{
		{Identifier: "helper", File: "a.go", Context: syntax.ContextCall, Location: syntax.Location{File: "a.go", Line: 5}},
	}
	b := NewBuilder(decls, refs, *config.DefaultOptions())
	g := b.BuildGraph(4)
	assert.Contains(t, g.Roots, uint32(0))
	assert.Contains(t, g.Adjacency[0], uint32(1))
}
