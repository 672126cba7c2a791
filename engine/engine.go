// Package engine wires the clone-detection and unused-code reachability
// pipelines into a single entry point, in the functional-options style of
// analyzer.NewAnalyzer/analyzer.Option.
package engine

import (
	"os"
	"runtime"

	"github.com/viant/codescan/cache"
	"github.com/viant/codescan/cfg"
	"github.com/viant/codescan/clone"
	"github.com/viant/codescan/config"
	"github.com/viant/codescan/dataflow"
	"github.com/viant/codescan/depgraph"
	"github.com/viant/codescan/errs"
	"github.com/viant/codescan/reach"
	"github.com/viant/codescan/repository"
	"github.com/viant/codescan/syntax"
	"github.com/viant/codescan/syntaxgo"
)

// IRNode and IREdge mirror the normalized node/edge shape exported for
// downstream graph stores, analogous to analyzer.IRNode/IREdge.
type IRNode struct {
	ID         string
	Kind       syntax.DeclarationKind
	Properties map[string]interface{}
}

type IREdge struct {
	Source     string
	Target     string
	Kind       depgraph.EdgeKind
	Properties map[string]interface{}
}

// IRGraph is the exportable form of a dependency graph run.
type IRGraph struct {
	Nodes []IRNode
	Edges []IREdge
}

// GraphExporter sends a completed dependency-graph run to an external
// store, mirroring analyzer.GraphExporter.
type GraphExporter interface {
	Export(graph *IRGraph) error
}

// cfgCapableParser is implemented by front-ends (syntaxgo) that can project
// a declaration's body into a control-flow graph. It is not part of
// syntax.ParserService because production front-ends may not support it.
type cfgCapableParser interface {
	BuildCFG(tree syntax.SyntaxTree, declarationName string) *cfg.CFG
}

// Engine wires a parser front-end, project discovery, cache persistence,
// and the core analysis packages into AnalyzeClones/AnalyzeUnused.
type Engine struct {
	config        config.Options
	parser        syntax.ParserService
	detector      *repository.Detector
	cacheStore    *cache.Store
	graphExporter GraphExporter
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig overrides the default configuration options.
func WithConfig(opts config.Options) Option {
	return func(e *Engine) { e.config = opts }
}

// WithParser overrides the default syntaxgo parser with another
// syntax.ParserService implementation.
func WithParser(p syntax.ParserService) Option {
	return func(e *Engine) { e.parser = p }
}

// WithCacheStore overrides the default afs-backed cache store.
func WithCacheStore(store *cache.Store) Option {
	return func(e *Engine) { e.cacheStore = store }
}

// WithGraphExporter registers a GraphExporter to receive the dependency
// graph after AnalyzeUnused runs.
func WithGraphExporter(exporter GraphExporter) Option {
	return func(e *Engine) { e.graphExporter = exporter }
}

// New constructs an Engine with spec.md §6 defaults, a tree-sitter-backed
// Go parser, and an afs-backed repository detector and cache store.
func New(opts ...Option) *Engine {
	e := &Engine{
		config:     *config.DefaultOptions(),
		parser:     syntaxgo.NewParser(),
		detector:   repository.NewDetector(),
		cacheStore: cache.NewStore(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	e.config.Clamp(runtime.NumCPU())
	return e
}

func (e *Engine) cloneOptions() clone.Options {
	return clone.Options{
		ShingleSize:          e.config.ShingleSize,
		BlockSize:            e.config.MinimumTokens,
		NumHashes:            e.config.NumHashes,
		Seed:                 e.config.Seed,
		MinimumSimilarity:    e.config.MinimumSimilarity,
		ProbesPerBand:        e.config.ProbesPerBand,
		VerifyWithExact:      e.config.VerifyWithExact,
		NormalizeIdentifiers: true,
	}
}

func (e *Engine) dataflowOptions() dataflow.Options {
	ignored := make(map[string]bool, len(e.config.IgnoredVariables))
	for _, name := range e.config.IgnoredVariables {
		ignored[name] = true
	}
	return dataflow.Options{MaxIterations: e.config.MaxIterations, IgnoredVariables: ignored}
}

func (e *Engine) reachOptions() reach.Options {
	return reach.Options{
		Alpha:           e.config.Alpha,
		Beta:            e.config.Beta,
		MinParallelSize: e.config.MinParallelSize,
		MaxConcurrency:  e.config.MaxConcurrency,
	}
}

// sourceReader is an optional capability: front-ends that parse from
// already-read bytes (syntaxgo.Parser) implement it so the engine doesn't
// read each file from disk twice.
type sourceReader interface {
	ParseSource(path string, src []byte) (syntax.SyntaxTree, error)
}

// parsedFile carries a parsed source file's tree, tokens, declarations and
// references through the pipeline stages below.
type parsedFile struct {
	path         string
	content      []byte
	tree         syntax.SyntaxTree
	tokens       syntax.TokenSequence
	declarations []syntax.Declaration
	references   []syntax.Reference
	err          error
}

func parseFile(parser syntax.ParserService, path string, content []byte) parsedFile {
	pf := parsedFile{path: path}
	if content == nil {
		read, err := os.ReadFile(path)
		if err != nil {
			pf.err = errs.New(errs.FileNotFound, path, err)
			return pf
		}
		content = read
	}
	pf.content = content

	var tree syntax.SyntaxTree
	var err error
	if sr, ok := parser.(sourceReader); ok {
		tree, err = sr.ParseSource(path, content)
	} else {
		tree, err = parser.Parse(path)
	}
	if err != nil {
		pf.err = errs.New(errs.ParseError, path, err)
		return pf
	}
	pf.tree = tree
	if seq, err := parser.ExtractTokens(tree, content); err == nil {
		pf.tokens = seq
	}
	if decls, err := parser.CollectDeclarations(tree); err == nil {
		pf.declarations = decls
	}
	if refs, err := parser.CollectReferences(tree); err == nil {
		pf.references = refs
	}
	return pf
}
