package syntax

// DeclarationKind enumerates the kinds of declarations the front-end reports.
type DeclarationKind string

const (
	KindClass       DeclarationKind = "class"
	KindStruct      DeclarationKind = "struct"
	KindEnum        DeclarationKind = "enum"
	KindProtocol    DeclarationKind = "protocol"
	KindFunction    DeclarationKind = "function"
	KindMethod      DeclarationKind = "method"
	KindVariable    DeclarationKind = "variable"
	KindConstant    DeclarationKind = "constant"
	KindParameter   DeclarationKind = "parameter"
	KindTypealias   DeclarationKind = "typealias"
	KindImport      DeclarationKind = "import"
	KindExtension   DeclarationKind = "extension"
)

// AccessLevel mirrors the language's visibility modifiers.
type AccessLevel string

const (
	AccessPrivate AccessLevel = "private"
	AccessFileprivate AccessLevel = "fileprivate"
	AccessInternal    AccessLevel = "internal"
	AccessPublic      AccessLevel = "public"
	AccessOpen        AccessLevel = "open"
)

// Position is a 1-based line/column pair.
type Position struct {
	Line   int
	Column int
}

// Range spans two positions in a single file.
type Range struct {
	Start Position
	End   Position
}

// Location pairs a byte offset with its decoded line/column, as produced by
// the front-end's source-location converter.
type Location struct {
	File   string
	Offset uint32
	Line   int
	Column int
}

// TypeParameter is a generic type parameter on a declaration.
type TypeParameter struct {
	Name       string
	Constraint string
}

// Declaration is one declared symbol in the program.
type Declaration struct {
	ID              int // dense id slot; not set by syntaxgo, and depgraph/engine use slice position instead
	Name            string
	Kind            DeclarationKind
	AccessLevel     AccessLevel
	Modifiers       []string
	Attributes      []string
	Location        Location
	Range           Range
	ScopeID         string
	Signature       string
	GenericParams   []TypeParameter
	Conformances    []string
	TypeAnnotation  string
	Documentation   string
	File            string
	IsStatic        bool
}

// ReferenceContext classifies how an identifier is used at a reference site.
type ReferenceContext string

const (
	ContextCall              ReferenceContext = "call"
	ContextRead              ReferenceContext = "read"
	ContextWrite             ReferenceContext = "write"
	ContextTypeAnnotation    ReferenceContext = "typeAnnotation"
	ContextInheritance       ReferenceContext = "inheritance"
	ContextGenericConstraint ReferenceContext = "genericConstraint"
	ContextKeyPath           ReferenceContext = "keyPath"
	ContextMemberAccessBase  ReferenceContext = "memberAccessBase"
	ContextMemberAccessMember ReferenceContext = "memberAccessMember"
	ContextAttribute         ReferenceContext = "attribute"
	ContextImport            ReferenceContext = "import"
	ContextPattern           ReferenceContext = "pattern"
	ContextUnknown           ReferenceContext = "unknown"
)

// Reference is one use of an identifier in the program.
type Reference struct {
	Identifier  string
	Location    Location
	ScopeID     string
	Context     ReferenceContext
	IsQualified bool
	Qualifier   string
	File        string
}

// SyntaxTree is the opaque parse result handed back by ParserService.Parse.
// The core never inspects it directly — only ExtractTokens/CollectDeclarations
// /CollectReferences, implemented by the front-end, do.
type SyntaxTree interface {
	// Path is the source file this tree was parsed from.
	Path() string
}

// LocationConverter maps a byte offset to a decoded line/column.
type LocationConverter interface {
	ToPosition(offset uint32) Position
}

// ParserService is the external collaborator the core requires (spec.md §6).
// It is implemented by a language-specific front-end; codescan's own
// syntaxgo package is a Go-flavored demonstration implementation used for
// tests and the example binary, not a production front-end.
type ParserService interface {
	Parse(path string) (SyntaxTree, error)
	ExtractTokens(tree SyntaxTree, source []byte) (TokenSequence, error)
	CollectDeclarations(tree SyntaxTree) ([]Declaration, error)
	CollectReferences(tree SyntaxTree) ([]Reference, error)
	Converter(tree SyntaxTree) LocationConverter
}
