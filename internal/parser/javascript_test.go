package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nuthan-ms/depgraph/pkg/types"
)

func refModules(refs []types.Reference) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.Module
	}
	return out
}

func TestJavaScriptParser_ImportFrom(t *testing.T) {
	p := NewJavaScriptParser()
	src := `import { h } from './utils/helper';
import 'lodash';
`
	refs, err := p.Parse(src, "index.js")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	require.Equal(t, types.KindImport, refs[0].Kind)
	require.Equal(t, "./utils/helper", refs[0].Module)
	require.Equal(t, 1, refs[0].Line)
	require.Equal(t, types.KindImport, refs[1].Kind)
	require.Equal(t, "lodash", refs[1].Module)
	require.Equal(t, 2, refs[1].Line)
}

func TestJavaScriptParser_Require(t *testing.T) {
	p := NewJavaScriptParser()
	src := `const fs = require('fs');`
	refs, err := p.Parse(src, "a.js")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	require.Equal(t, types.KindRequire, refs[0].Kind)
	require.Equal(t, "fs", refs[0].Module)
}

func TestJavaScriptParser_DynamicImport(t *testing.T) {
	p := NewJavaScriptParser()
	src := `const mod = await import('./lazy');`
	refs, err := p.Parse(src, "a.js")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	require.Equal(t, types.KindDynamicImport, refs[0].Kind)
	require.Equal(t, "./lazy", refs[0].Module)
}

func TestJavaScriptParser_IgnoresComments(t *testing.T) {
	p := NewJavaScriptParser()
	src := `// import './fake' from a comment
/* import './also-fake'; */
import { real } from './real';
`
	refs, err := p.Parse(src, "a.js")
	require.NoError(t, err)
	require.Equal(t, []string{"./real"}, refModules(refs))
}

func TestJavaScriptParser_SkipsTemplateLiteralInterpolation(t *testing.T) {
	p := NewJavaScriptParser()
	src := "const x = require(`./${name}`);\nconst y = require('./static');\n"
	refs, err := p.Parse(src, "a.js")
	require.NoError(t, err)
	require.Equal(t, []string{"./static"}, refModules(refs))
}

func TestJavaScriptParser_DeduplicatesModuleAndKind(t *testing.T) {
	p := NewJavaScriptParser()
	src := `import { a } from './mod';
import { b } from './mod';
`
	refs, err := p.Parse(src, "a.js")
	require.NoError(t, err)
	require.Len(t, refs, 1)
}

func TestJavaScriptParser_LineAndColumn(t *testing.T) {
	p := NewJavaScriptParser()
	src := "const a = 1;\nconst fs = require('fs');\n"
	refs, err := p.Parse(src, "a.js")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	require.Equal(t, 2, refs[0].Line)
}

func TestScopedPackage(t *testing.T) {
	require.Equal(t, "@babel/core", ScopedPackage("@babel/core"))
	require.Equal(t, "@babel/core", ScopedPackage("@babel/core/lib/index"))
	require.Equal(t, "lodash", ScopedPackage("lodash/fp"))
	require.Equal(t, "lodash", ScopedPackage("lodash"))
}
