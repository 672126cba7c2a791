// Package depgraph extracts a whole-program dependency graph from a
// declaration index and a reference index: root detection plus edge
// construction from references, type annotations, protocol witnesses, and
// type-to-member containment (spec.md §4.H).
package depgraph

import (
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/viant/codescan/config"
	"github.com/viant/codescan/reach"
	"github.com/viant/codescan/syntax"
)

// EdgeKind classifies a dependency edge by how the target was reached.
type EdgeKind string

const (
	EdgeCall              EdgeKind = "call"
	EdgePropertyAccess    EdgeKind = "propertyAccess"
	EdgeTypeReference     EdgeKind = "typeReference"
	EdgeInheritance       EdgeKind = "inheritance"
	EdgeGenericConstraint EdgeKind = "genericConstraint"
	EdgeImport            EdgeKind = "import"
	EdgeAttribute         EdgeKind = "attribute"
	EdgeUnknown           EdgeKind = "unknown"
)

// Edge is a directed dependency between two declarations, indexed by their
// dense position in the Builder's declaration slice.
type Edge struct {
	From int
	To   int
	Kind EdgeKind
}

var rootAttributes = map[string]bool{
	"main":               true,
	"UIApplicationMain":  true,
	"NSApplicationMain":  true,
	"IBAction":           true,
	"IBOutlet":           true,
	"IBInspectable":      true,
	"IBDesignable":       true,
	"dynamicMemberLookup": true,
	"dynamicCallable":    true,
}

var uiFrameworkProtocols = map[string]bool{"App": true, "View": true, "PreviewProvider": true}

var uiFrameworkPropertyWrappers = map[string]bool{
	"State": true, "Binding": true, "ObservedObject": true,
	"EnvironmentObject": true, "StateObject": true,
}

var builtinTypeNames = map[string]bool{
	"Int": true, "Int8": true, "Int16": true, "Int32": true, "Int64": true,
	"UInt": true, "UInt8": true, "UInt16": true, "UInt32": true, "UInt64": true,
	"Float": true, "Double": true, "Bool": true, "String": true, "Character": true,
	"Void": true, "Any": true, "AnyObject": true,
}

func isTypeKind(k syntax.DeclarationKind) bool {
	return k == syntax.KindClass || k == syntax.KindStruct || k == syntax.KindEnum
}

func trimAttr(attr string) string {
	return strings.TrimPrefix(strings.TrimSpace(attr), "@")
}

func isRoot(d syntax.Declaration, cfg config.Options) bool {
	for _, attr := range d.Attributes {
		name := trimAttr(attr)
		if name == "objc" {
			if cfg.TreatObjcAsRoot {
				return true
			}
			continue
		}
		if rootAttributes[name] {
			return true
		}
	}
	if d.Name == "main" && (d.Kind == syntax.KindFunction || d.IsStatic) {
		return true
	}
	if cfg.TreatPublicAsRoot && (d.AccessLevel == syntax.AccessPublic || d.AccessLevel == syntax.AccessOpen) {
		return true
	}
	if cfg.TreatTestsAsRoot && (d.Kind == syntax.KindFunction || d.Kind == syntax.KindMethod) && strings.HasPrefix(d.Name, "test") {
		return true
	}
	if cfg.TreatUIFrameworkViewsAsRoot {
		for _, c := range d.Conformances {
			if uiFrameworkProtocols[c] {
				return true
			}
		}
	}
	if cfg.TreatUIFrameworkPropertyWrappersAsRoot {
		for _, attr := range d.Attributes {
			if uiFrameworkPropertyWrappers[trimAttr(attr)] {
				return true
			}
		}
	}
	if cfg.TreatPreviewProvidersAsRoot {
		for _, c := range d.Conformances {
			if c == "PreviewProvider" {
				return true
			}
		}
	}
	return false
}

func edgeKindFor(ctx syntax.ReferenceContext) EdgeKind {
	switch ctx {
	case syntax.ContextCall:
		return EdgeCall
	case syntax.ContextRead, syntax.ContextWrite, syntax.ContextMemberAccessMember, syntax.ContextMemberAccessBase:
		return EdgePropertyAccess
	case syntax.ContextTypeAnnotation:
		return EdgeTypeReference
	case syntax.ContextInheritance:
		return EdgeInheritance
	case syntax.ContextGenericConstraint:
		return EdgeGenericConstraint
	case syntax.ContextImport:
		return EdgeImport
	case syntax.ContextAttribute:
		return EdgeAttribute
	default:
		return EdgeUnknown
	}
}

// Builder extracts roots and edges from a declaration/reference index. Edge
// computation is embarrassingly parallel per declaration; the caller
// finalizes into a single reach.Graph in one batched, single-threaded step.
type Builder struct {
	Declarations []syntax.Declaration
	References   []syntax.Reference
	Config       config.Options

	byFile   map[string][]int
	byName   map[string][]int
	byScope  map[string][]int
}

// NewBuilder indexes declarations by file, name, and scope for edge
// resolution.
func NewBuilder(declarations []syntax.Declaration, references []syntax.Reference, cfg config.Options) *Builder {
	b := &Builder{
		Declarations: declarations,
		References:   references,
		Config:       cfg,
		byFile:       map[string][]int{},
		byName:       map[string][]int{},
		byScope:      map[string][]int{},
	}
	for i, d := range declarations {
		b.byFile[d.File] = append(b.byFile[d.File], i)
		b.byName[d.Name] = append(b.byName[d.Name], i)
		b.byScope[d.ScopeID] = append(b.byScope[d.ScopeID], i)
	}
	return b
}

// Roots returns the dense positions of every declaration flagged as a root.
func (b *Builder) Roots() []int {
	var roots []int
	for i, d := range b.Declarations {
		if isRoot(d, b.Config) {
			roots = append(roots, i)
		}
	}
	return roots
}

func inRange(loc syntax.Location, r syntax.Range) bool {
	return loc.Line >= r.Start.Line && loc.Line <= r.End.Line
}

func capitalizedTypeNames(annotation string) []string {
	if annotation == "" {
		return nil
	}
	var out []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		word := cur.String()
		cur.Reset()
		if len(word) == 0 || !unicode.IsUpper(rune(word[0])) {
			return
		}
		if builtinTypeNames[word] {
			return
		}
		out = append(out, word)
	}
	for _, r := range annotation {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			cur.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return out
}

// edgesFor computes every outgoing edge for declaration at index i. It reads
// only shared, read-only index state, so it is safe to run concurrently
// across declarations.
func (b *Builder) edgesFor(i int) []Edge {
	d := b.Declarations[i]
	var edges []Edge

	for _, ref := range b.References {
		if ref.File != d.File || !inRange(ref.Location, d.Range) {
			continue
		}
		name := ref.Identifier
		if ref.IsQualified && ref.Qualifier != "" {
			name = ref.Qualifier
		}
		for _, target := range b.byName[name] {
			if target == i {
				continue
			}
			edges = append(edges, Edge{From: i, To: target, Kind: edgeKindFor(ref.Context)})
		}
	}

	for _, name := range capitalizedTypeNames(d.TypeAnnotation) {
		for _, target := range b.byName[name] {
			if target == i {
				continue
			}
			edges = append(edges, Edge{From: i, To: target, Kind: EdgeTypeReference})
		}
	}

	if d.Kind == syntax.KindProtocol {
		for _, methodIdx := range b.byScope[scopeOf(d)] {
			method := b.Declarations[methodIdx]
			if method.Kind != syntax.KindMethod && method.Kind != syntax.KindFunction {
				continue
			}
			for _, candidate := range b.byName[method.Name] {
				if candidate == methodIdx {
					continue
				}
				target := b.Declarations[candidate]
				if target.Kind == method.Kind && target.ScopeID != d.ScopeID {
					edges = append(edges, Edge{From: methodIdx, To: candidate, Kind: EdgeTypeReference})
				}
			}
		}
	}

	if isTypeKind(d.Kind) {
		for _, memberIdx := range b.byScope[scopeOf(d)] {
			if memberIdx == i {
				continue
			}
			edges = append(edges, Edge{From: i, To: memberIdx, Kind: EdgeCall})
		}
	}

	return edges
}

// scopeOf returns the scope identifier that d's own members are nested
// under. codescan assumes the front-end tags a member's ScopeID with its
// immediately enclosing declaration's Name — the common convention among
// the front-ends surveyed for this package.
func scopeOf(d syntax.Declaration) string {
	return d.Name
}

// BuildGraph computes edges for every declaration in parallel (bounded by
// maxConcurrency goroutines) and inserts them into a reach.Graph in one
// synchronized batch.
func (b *Builder) BuildGraph(maxConcurrency int) *reach.Graph {
	n := len(b.Declarations)
	g := reach.NewGraph(n)
	if n == 0 {
		return g
	}
	for _, r := range b.Roots() {
		g.Roots = append(g.Roots, uint32(r))
	}

	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	perDecl := make([][]Edge, n)
	var grp errgroup.Group
	sem := make(chan struct{}, maxConcurrency)
	for i := 0; i < n; i++ {
		i := i
		sem <- struct{}{}
		grp.Go(func() error {
			defer func() { <-sem }()
			perDecl[i] = b.edgesFor(i)
			return nil
		})
	}
	_ = grp.Wait()

	for _, edges := range perDecl {
		for _, e := range edges {
			g.AddEdge(uint32(e.From), uint32(e.To))
		}
	}
	return g
}
