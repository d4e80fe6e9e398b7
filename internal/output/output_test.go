package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nuthan-ms/depgraph/internal/config"
	"github.com/nuthan-ms/depgraph/internal/orchestrator"
	"github.com/nuthan-ms/depgraph/pkg/types"
)

func sampleResult() *orchestrator.Result {
	return &orchestrator.Result{
		Graph: types.Graph{
			Nodes: []types.Node{
				{ID: 0, Label: "index.js", Path: "index.js", Type: types.NodeSourceJS, Dependencies: 1},
				{ID: 1, Label: "lodash", Path: "lodash", Type: types.NodeExternal, IsExternal: true, Package: "lodash"},
			},
			Edges: []types.Edge{
				{From: 0, To: 1, Kind: types.KindImport, Module: "lodash", Line: 1, Column: 1},
			},
			Cycles: []types.Cycle{},
			Metrics: types.Metrics{TotalNodes: 2, TotalEdges: 1},
		},
		Config: *config.Default(),
	}
}

func TestBuild_ProducesExpectedShape(t *testing.T) {
	data, err := Build("/repo", sampleResult(), time.Unix(0, 0))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	require.Contains(t, doc, "nodes")
	require.Contains(t, doc, "edges")
	require.Contains(t, doc, "metadata")

	nodes := doc["nodes"].([]any)
	require.Len(t, nodes, 2)

	metadata := doc["metadata"].(map[string]any)
	require.Equal(t, "/repo", metadata["repositoryPath"])
	require.Equal(t, Version, metadata["version"])
}

func TestBuild_ExternalEdgeGetsDashHint(t *testing.T) {
	data, err := Build("/repo", sampleResult(), time.Now())
	require.NoError(t, err)

	var doc struct {
		Edges []struct {
			Dashes bool `json:"dashes"`
		} `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Edges, 1)
	require.True(t, doc.Edges[0].Dashes)
}

func TestWrite_JSONAndJSFormats(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "out.json")
	require.NoError(t, Write(jsonPath, "json", "/repo", sampleResult(), time.Now()))
	raw, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	require.True(t, json.Valid(raw))

	jsPath := filepath.Join(dir, "out.js")
	require.NoError(t, Write(jsPath, "js", "/repo", sampleResult(), time.Now()))
	jsRaw, err := os.ReadFile(jsPath)
	require.NoError(t, err)
	require.Contains(t, string(jsRaw), "module.exports = ")
}

func TestBuild_ByteIdenticalForSameInput(t *testing.T) {
	now := time.Unix(1000, 0)
	a, err := Build("/repo", sampleResult(), now)
	require.NoError(t, err)
	b, err := Build("/repo", sampleResult(), now)
	require.NoError(t, err)
	require.Equal(t, a, b)
}
