// Package graph implements the Graph Builder (§4.F): two-phase node and
// edge assembly, cycle detection, and degree metrics, adapted from the
// node/edge/cycle model in the teacher's internal/analyzer package but
// rebuilt around file-level source+placeholder nodes instead of an AST
// symbol graph.
package graph

import (
	"sort"

	"github.com/nuthan-ms/depgraph/pkg/types"
)

// Options configures edge emission.
type Options struct {
	IncludeExternal bool
}

// Builder assembles a Graph from scanned files and their ParseResults.
type Builder struct {
	opts Options

	nodes      []types.Node
	nodeByPath map[string]int // resolved_key -> node id, for locals/missing/external
	nextID     int
}

// NewBuilder constructs a Builder.
func NewBuilder(opts Options) *Builder {
	return &Builder{opts: opts, nodeByPath: make(map[string]int)}
}

// Build runs both phases over the scanned files (in scanner discovery
// order) and their parse results, returning the completed Graph.
func (b *Builder) Build(files []types.FileDescriptor, results []types.ParseResult) types.Graph {
	b.phase1NodeAssembly(files, results)
	edges := b.phase2EdgeEmission(results)

	edges = dedupeEdges(edges)
	sortEdges(edges)

	cycles := detectCycles(b.nodes, edges)
	metrics := computeMetrics(b.nodes, edges, cycles)

	return types.Graph{Nodes: b.nodes, Edges: edges, Cycles: cycles, Metrics: metrics}
}

func (b *Builder) phase1NodeAssembly(files []types.FileDescriptor, results []types.ParseResult) {
	depsByPath := make(map[string]int, len(results))
	parserByPath := make(map[string]string, len(results))
	for _, r := range results {
		depsByPath[r.Descriptor.RepoRelPath] = len(r.References)
		parserByPath[r.Descriptor.RepoRelPath] = r.ParserName
	}

	for _, f := range files {
		id := b.nextID
		b.nextID++
		node := types.Node{
			ID:           id,
			Label:        f.Basename,
			Path:         f.RepoRelPath,
			FullPath:     f.AbsPath,
			Type:         classifyExtension(f.Extension),
			Extension:    f.Extension,
			Size:         f.Size,
			Dependencies: depsByPath[f.RepoRelPath],
			Parser:       parserByPath[f.RepoRelPath],
		}
		b.nodes = append(b.nodes, node)
		b.nodeByPath[f.RepoRelPath] = id
	}
}

func classifyExtension(ext string) types.NodeType {
	switch ext {
	case ".js", ".jsx", ".mjs", ".cjs":
		return types.NodeSourceJS
	case ".ts", ".tsx":
		return types.NodeSourceTS
	case ".py", ".pyw":
		return types.NodeSourcePython
	case ".json":
		return types.NodeJSON
	default:
		return types.NodeSourceJS
	}
}

func (b *Builder) phase2EdgeEmission(results []types.ParseResult) []types.Edge {
	var edges []types.Edge

	for _, r := range results {
		fromID, ok := b.nodeByPath[r.Descriptor.RepoRelPath]
		if !ok {
			continue
		}
		for _, ref := range r.References {
			toID, ok := b.targetNode(ref)
			if !ok {
				continue
			}
			edges = append(edges, types.Edge{
				From:   fromID,
				To:     toID,
				Kind:   ref.Kind,
				Line:   ref.Line,
				Column: ref.Column,
				Module: ref.Module,
			})
		}
	}
	return edges
}

// targetNode resolves a ResolvedReference to a node id, synthesizing
// placeholder nodes as needed. Returns ok=false when the reference
// should be dropped entirely (e.g. external with the flag off).
func (b *Builder) targetNode(ref types.ResolvedReference) (int, bool) {
	switch ref.Classification {
	case types.ClassLocal:
		if id, ok := b.nodeByPath[ref.ResolvedKey]; ok {
			return id, true
		}
		return b.synthesize(ref.ResolvedKey, ref.ResolvedKey, types.NodeMissing, ""), true

	case types.ClassExternal:
		if !b.opts.IncludeExternal {
			return 0, false
		}
		return b.synthesizeExternal(ref), true

	case types.ClassStandardLibrary:
		if !b.opts.IncludeExternal {
			return 0, false
		}
		return b.synthesizeExternal(ref), true

	case types.ClassMissing, types.ClassUnresolved:
		return b.synthesize(ref.ResolvedKey, ref.Module, types.NodeMissing, ""), true

	default:
		return 0, false
	}
}

func (b *Builder) synthesizeExternal(ref types.ResolvedReference) int {
	if id, ok := b.nodeByPath[ref.ResolvedKey]; ok {
		return id
	}
	return b.synthesize(ref.ResolvedKey, ref.Module, types.NodeExternal, ref.Package)
}

func (b *Builder) synthesize(key, label string, nodeType types.NodeType, pkg string) int {
	if id, ok := b.nodeByPath[key]; ok {
		return id
	}
	id := b.nextID
	b.nextID++
	node := types.Node{
		ID:         id,
		Label:      label,
		Path:       label,
		Type:       nodeType,
		IsExternal: nodeType == types.NodeExternal,
		IsMissing:  nodeType == types.NodeMissing,
		Package:    pkg,
	}
	b.nodes = append(b.nodes, node)
	b.nodeByPath[key] = id
	return id
}

func dedupeEdges(edges []types.Edge) []types.Edge {
	seen := make(map[[4]any]bool, len(edges))
	out := make([]types.Edge, 0, len(edges))
	for _, e := range edges {
		key := [4]any{e.From, e.To, e.Kind, e.Module}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}

func sortEdges(edges []types.Edge) {
	sort.Slice(edges, func(i, j int) bool {
		a, bb := edges[i], edges[j]
		if a.From != bb.From {
			return a.From < bb.From
		}
		if a.To != bb.To {
			return a.To < bb.To
		}
		if a.Kind != bb.Kind {
			return a.Kind < bb.Kind
		}
		return a.Module < bb.Module
	})
}
