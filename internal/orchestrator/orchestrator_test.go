package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nuthan-ms/depgraph/internal/config"
	"github.com/nuthan-ms/depgraph/pkg/types"
)

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func newCfg(root string) *config.Config {
	cfg := config.Default()
	cfg.Cache.Enabled = false
	cfg.Cache.Dir = filepath.Join(root, ".depgraph", "cache")
	return cfg
}

// Scenario 1: JS chain (§8.1).
func TestAnalyze_JSChain(t *testing.T) {
	root := t.TempDir()
	write(t, root, "index.js", "import {h} from './utils/helper'; import 'lodash';")
	write(t, root, "utils/helper.js", "import {f} from './formatter';")
	write(t, root, "utils/formatter.js", "export const f = 1;")

	orch := New(newCfg(root), nil)
	res, err := orch.Analyze(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, res.Graph.Nodes, 3)
	require.Len(t, res.Graph.Edges, 2)
	require.Empty(t, res.Graph.Cycles)
}

// Scenario 2: cycle (§8.2).
func TestAnalyze_Cycle(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.js", "import './b';")
	write(t, root, "b.js", "import './a';")

	orch := New(newCfg(root), nil)
	res, err := orch.Analyze(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, res.Graph.Nodes, 2)
	require.Len(t, res.Graph.Edges, 2)
	require.Len(t, res.Graph.Cycles, 1)
}

// Scenario 3: missing (§8.3).
func TestAnalyze_Missing(t *testing.T) {
	root := t.TempDir()
	write(t, root, "index.js", "import './missing'; import './present';")
	write(t, root, "present.js", "export const x = 1;")

	orch := New(newCfg(root), nil)
	res, err := orch.Analyze(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, res.Graph.Nodes, 3)
	require.Len(t, res.Graph.Edges, 2)

	var missing int
	for _, n := range res.Graph.Nodes {
		if n.IsMissing {
			missing++
		}
	}
	require.Equal(t, 1, missing)
}

// Scenario 4: Python mixed (§8.4).
func TestAnalyze_PythonMixed(t *testing.T) {
	root := t.TempDir()
	write(t, root, "main.py", "import os\nfrom utils.helper import process_data\nfrom .local_mod import x\n")
	write(t, root, "utils/helper.py", "def process_data():\n    pass\n")
	write(t, root, "local_mod.py", "x = 1\n")
	write(t, root, "setup.py", "")

	orch := New(newCfg(root), nil)
	res, err := orch.Analyze(context.Background(), root)
	require.NoError(t, err)

	// main.py, utils/helper.py, local_mod.py, setup.py (setup.py itself
	// is scanned too since it's a .py file under default includes).
	require.Len(t, res.Graph.Nodes, 4)

	var toMain int
	for _, e := range res.Graph.Edges {
		if res.Graph.Nodes[e.From].Path == "main.py" {
			toMain++
		}
	}
	require.Equal(t, 2, toMain)
}

// Scenario 5: exclude (§8.5).
func TestAnalyze_ExcludesNodeModules(t *testing.T) {
	root := t.TempDir()
	write(t, root, "node_modules/pkg/index.js", "module.exports = {};")
	write(t, root, "src/a.js", "const x = 1;")

	orch := New(newCfg(root), nil)
	res, err := orch.Analyze(context.Background(), root)
	require.NoError(t, err)

	for _, n := range res.Graph.Nodes {
		require.NotContains(t, n.Path, "node_modules/")
	}
	require.Len(t, res.Graph.Nodes, 1)
	require.Equal(t, "src/a.js", res.Graph.Nodes[0].Path)
}

// Scenario 6: scoped external with flag on (§8.6).
func TestAnalyze_ScopedExternalWithFlag(t *testing.T) {
	root := t.TempDir()
	write(t, root, "index.js", "import x from '@babel/core';")

	cfg := newCfg(root)
	cfg.IncludeExternal = true
	orch := New(cfg, nil)
	res, err := orch.Analyze(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, res.Graph.Nodes, 2)
	require.Len(t, res.Graph.Edges, 1)

	var ext *types.Node
	for i := range res.Graph.Nodes {
		if res.Graph.Nodes[i].IsExternal {
			ext = &res.Graph.Nodes[i]
		}
	}
	require.NotNil(t, ext)
	require.Equal(t, "@babel/core", ext.Package)
}

func TestAnalyze_EmptyRepository(t *testing.T) {
	root := t.TempDir()
	orch := New(newCfg(root), nil)
	res, err := orch.Analyze(context.Background(), root)
	require.NoError(t, err)
	require.Empty(t, res.Graph.Nodes)
}

func TestAnalyze_CacheHitSkipsReparse(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.js", "const x = 1;")

	cfg := config.Default()
	cfg.Cache.Dir = filepath.Join(root, ".depgraph", "cache")

	orch := New(cfg, nil)
	first, err := orch.Analyze(context.Background(), root)
	require.NoError(t, err)
	require.False(t, first.CacheHit)

	second, err := orch.Analyze(context.Background(), root)
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Equal(t, len(first.Graph.Nodes), len(second.Graph.Nodes))
}

func TestAnalyze_DeterministicAcrossRuns(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.js", "import './b'; import './c';")
	write(t, root, "b.js", "const x = 1;")
	write(t, root, "c.js", "const y = 2;")

	cfg := newCfg(root)
	orch := New(cfg, nil)

	r1, err := orch.Analyze(context.Background(), root)
	require.NoError(t, err)
	r2, err := orch.Analyze(context.Background(), root)
	require.NoError(t, err)

	require.Equal(t, r1.Graph.Nodes, r2.Graph.Nodes)
	require.Equal(t, r1.Graph.Edges, r2.Graph.Edges)
}

func TestAnalyze_BinaryContentStillYieldsZeroDependencyNode(t *testing.T) {
	root := t.TempDir()
	binary := make([]byte, 50)
	for i := range binary {
		binary[i] = 0x01
	}
	write(t, root, "bad.js", string(binary))
	write(t, root, "good.js", "const x = 1;")

	orch := New(newCfg(root), nil)
	res, err := orch.Analyze(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, res.Graph.Nodes, 2)
	require.NotEmpty(t, res.Errors)
}
