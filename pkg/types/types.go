// Package types holds the data model shared by every stage of the
// analysis pipeline: descriptors produced by the scanner, references
// produced by parsers, resolved references produced by the resolver,
// and the graph produced by the builder.
package types

import "time"

// ReferenceKind identifies how a module string was written in source.
type ReferenceKind string

const (
	KindImport          ReferenceKind = "import"
	KindRequire         ReferenceKind = "require"
	KindDynamicImport    ReferenceKind = "dynamic-import"
	KindFromImport       ReferenceKind = "from-import"
	KindRelativeImport   ReferenceKind = "relative-import"
	KindImportlib        ReferenceKind = "importlib"
	KindStandard          ReferenceKind = "standard"
)

// Classification is the Resolver's verdict on a Reference.
type Classification string

const (
	ClassLocal           Classification = "local"
	ClassExternal        Classification = "external"
	ClassStandardLibrary Classification = "standard-library"
	ClassMissing         Classification = "missing"
	ClassUnresolved      Classification = "unresolved"
)

// NodeType classifies a graph Node.
type NodeType string

const (
	NodeSourceJS     NodeType = "source-js"
	NodeSourceTS     NodeType = "source-ts"
	NodeSourcePython NodeType = "source-python"
	NodeJSON         NodeType = "json"
	NodeExternal     NodeType = "external"
	NodeMissing      NodeType = "missing"
)

// FileDescriptor is the identity of a scanned file. Immutable once
// created by the Scanner; lives for the duration of one analysis run.
type FileDescriptor struct {
	AbsPath      string
	RepoRelPath  string
	Basename     string
	Extension    string // lowercased, includes leading dot
	Size         int64
	ModTime      time.Time
}

// Reference is a raw import discovered by a parser.
type Reference struct {
	Module string
	Kind   ReferenceKind
	Line   int
	Column int
	Raw    string
	File   string // source file's repo-relative path
}

// ResolvedReference is a Reference after classification by the Resolver.
type ResolvedReference struct {
	Reference
	Classification Classification
	ResolvedKey    string
	Package        string
}

// ParseResult pairs a FileDescriptor with everything its parser found.
type ParseResult struct {
	Descriptor  FileDescriptor
	References  []ResolvedReference
	ParserName  string
	Counts      map[Classification]int
	Error       string
}

// Node is a graph vertex.
type Node struct {
	ID          int
	Label       string
	Path        string // repo-relative path, or the raw module string for externals
	FullPath    string
	Type        NodeType
	Extension   string
	Size        int64
	Dependencies int
	Parser      string
	IsExternal  bool
	IsMissing   bool
	Package     string
}

// Edge is a directed dependency relationship between two Nodes.
type Edge struct {
	From       int
	To         int
	Kind       ReferenceKind
	Line       int
	Column     int
	Module     string
}

// Cycle is an ordered node-id sequence that returns to its start.
type Cycle []int

// DegreeExtremum records a maximum in/out-degree value plus every node
// that attains it.
type DegreeExtremum struct {
	Value int
	Nodes []int
}

// Metrics summarizes structural properties of a Graph.
type Metrics struct {
	TotalNodes      int
	TotalEdges      int
	NodesByType     map[NodeType]int
	MaxInDegree     DegreeExtremum
	MaxOutDegree    DegreeExtremum
	IsolatedNodes   int
	AverageInDegree float64
	AverageOutDegree float64
	CycleCount      int
}

// Graph is the final artifact of an analysis run.
type Graph struct {
	Nodes   []Node
	Edges   []Edge
	Cycles  []Cycle
	Metrics Metrics
}
