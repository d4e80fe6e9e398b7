// Package parser implements the Parser Registry and the regex-based
// language parsers (4.D): it extracts raw References from source text
// without building a language-accurate AST.
package parser

import (
	"github.com/nuthan-ms/depgraph/pkg/types"
)

// Parser extracts References from one file's content. Implementations
// must not mutate content and must be safe for concurrent use across
// distinct calls (no shared mutable state between Parse calls).
type Parser interface {
	// Extensions lists the lowercased, dot-prefixed extensions this
	// parser claims, e.g. []string{".py", ".pyw"}.
	Extensions() []string

	// Name identifies the parser in ParseResult.ParserName.
	Name() string

	// Parse extracts References from content. filePath is the file's
	// repo-relative path, used only to populate Reference.File.
	Parse(content, filePath string) ([]types.Reference, error)
}

// Registry maps a file extension to the Parser that handles it.
type Registry struct {
	byExtension map[string]Parser
}

// NewRegistry builds a Registry with the built-in JavaScript/TypeScript
// and Python parsers already registered.
func NewRegistry() *Registry {
	r := &Registry{byExtension: map[string]Parser{}}
	r.MustRegister(NewJavaScriptParser())
	r.MustRegister(NewPythonParser())
	return r
}

// Register validates p (non-empty extension list) and adds it.
func (r *Registry) Register(p Parser) error {
	exts := p.Extensions()
	if len(exts) == 0 {
		return ErrNoExtensions
	}
	for _, ext := range exts {
		r.byExtension[ext] = p
	}
	return nil
}

// MustRegister panics on registration failure; used only for built-ins
// at construction time, where failure indicates a programming error.
func (r *Registry) MustRegister(p Parser) {
	if err := r.Register(p); err != nil {
		panic(err)
	}
}

// Lookup returns the Parser registered for ext, or (nil, false).
func (r *Registry) Lookup(ext string) (Parser, bool) {
	p, ok := r.byExtension[ext]
	return p, ok
}

// Parse dispatches to the parser registered for descriptor's extension.
func (r *Registry) Parse(extension, content, filePath string) ([]types.Reference, string, error) {
	p, ok := r.Lookup(extension)
	if !ok {
		return nil, "", ErrNoParser
	}
	refs, err := p.Parse(content, filePath)
	return refs, p.Name(), err
}
