package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nuthan-ms/depgraph/pkg/types"
)

func TestPythonParser_ImportAndFromImport(t *testing.T) {
	p := NewPythonParser()
	src := `import os
from utils.helper import process_data
from .local_mod import x
`
	refs, err := p.Parse(src, "main.py")
	require.NoError(t, err)
	require.Len(t, refs, 3)

	byKind := map[types.ReferenceKind]types.Reference{}
	for _, r := range refs {
		byKind[r.Kind] = r
	}

	require.Equal(t, "os", byKind[types.KindImport].Module)
	require.Equal(t, "utils.helper", byKind[types.KindFromImport].Module)
	require.Equal(t, ".local_mod", byKind[types.KindRelativeImport].Module)
}

func TestPythonParser_DynamicImport(t *testing.T) {
	p := NewPythonParser()
	src := `__import__('os')
importlib.import_module('json')
`
	refs, err := p.Parse(src, "a.py")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	for _, r := range refs {
		require.Equal(t, types.KindImportlib, r.Kind)
	}
}

func TestPythonParser_IgnoresCommentsAndDocstrings(t *testing.T) {
	p := NewPythonParser()
	src := `"""
import fake_from_docstring
"""
# import also_fake
import real_module
`
	refs, err := p.Parse(src, "a.py")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	require.Equal(t, "real_module", refs[0].Module)
}

func TestPythonParser_RelativeImportDotsOnly(t *testing.T) {
	p := NewPythonParser()
	src := "from . import sibling\n"
	refs, err := p.Parse(src, "pkg/a.py")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	require.Equal(t, types.KindRelativeImport, refs[0].Kind)
	require.Equal(t, ".", refs[0].Module)
}

func TestPythonParser_DottedImport(t *testing.T) {
	p := NewPythonParser()
	src := "import xml.etree.ElementTree\n"
	refs, err := p.Parse(src, "a.py")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	require.Equal(t, "xml.etree.ElementTree", refs[0].Module)
}

func TestPythonParser_Dedup(t *testing.T) {
	p := NewPythonParser()
	src := "import os\nimport os\n"
	refs, err := p.Parse(src, "a.py")
	require.NoError(t, err)
	require.Len(t, refs, 1)
}
