// Package output serializes an analysis Result into the JSON schema
// specified in §6, and the "js" variant that wraps the same object in
// a module.exports assignment.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/nuthan-ms/depgraph/internal/config"
	"github.com/nuthan-ms/depgraph/internal/orchestrator"
	"github.com/nuthan-ms/depgraph/pkg/types"
)

const Version = "1.0.0"

type nodeJSON struct {
	ID           int    `json:"id"`
	Label        string `json:"label"`
	Path         string `json:"path"`
	FullPath     string `json:"fullPath,omitempty"`
	Type         string `json:"type"`
	Extension    string `json:"extension,omitempty"`
	Size         int64  `json:"size"`
	Dependencies int    `json:"dependencies"`
	Parser       string `json:"parser,omitempty"`
	IsExternal   bool   `json:"isExternal,omitempty"`
	IsMissing    bool   `json:"isMissing,omitempty"`
	Package      string `json:"package,omitempty"`
}

type edgeJSON struct {
	From       int    `json:"from"`
	To         int    `json:"to"`
	Label      string `json:"label"`
	Type       string `json:"type"`
	ImportType string `json:"importType"`
	Line       int    `json:"line"`
	Column     int    `json:"column"`
	Color      string `json:"color,omitempty"`
	Dashes     bool   `json:"dashes,omitempty"`
}

type metadataJSON struct {
	RepositoryPath       string               `json:"repositoryPath"`
	CircularDependencies [][]int              `json:"circularDependencies"`
	Metrics              types.Metrics        `json:"metrics"`
	AnalysisTime         float64              `json:"analysisTime"`
	Timestamp            int64                `json:"timestamp"`
	Version              string               `json:"version"`
	Config               *config.Config       `json:"config"`
	Stats                map[string]any       `json:"stats"`
	Errors               []orchestrator.FileError `json:"errors"`
	Cache                map[string]any       `json:"cache"`
	Parsers              []string             `json:"parsers"`
}

type document struct {
	Nodes    []nodeJSON   `json:"nodes"`
	Edges    []edgeJSON   `json:"edges"`
	Metadata metadataJSON `json:"metadata"`
}

// Build converts an orchestrator.Result into the output document shape.
func Build(repoPath string, res *orchestrator.Result, now time.Time) ([]byte, error) {
	doc := document{
		Nodes: make([]nodeJSON, len(res.Graph.Nodes)),
		Edges: make([]edgeJSON, len(res.Graph.Edges)),
	}

	parserSet := map[string]bool{}
	for i, n := range res.Graph.Nodes {
		doc.Nodes[i] = nodeJSON{
			ID: n.ID, Label: n.Label, Path: n.Path, FullPath: n.FullPath,
			Type: string(n.Type), Extension: n.Extension, Size: n.Size,
			Dependencies: n.Dependencies, Parser: n.Parser,
			IsExternal: n.IsExternal, IsMissing: n.IsMissing, Package: n.Package,
		}
		if n.Parser != "" {
			parserSet[n.Parser] = true
		}
	}
	for i, e := range res.Graph.Edges {
		color, dashes := edgeHint(res.Graph, e)
		doc.Edges[i] = edgeJSON{
			From: e.From, To: e.To, Label: e.Module, Type: string(e.Kind),
			ImportType: string(e.Kind), Line: e.Line, Column: e.Column,
			Color: color, Dashes: dashes,
		}
	}

	cycles := make([][]int, len(res.Graph.Cycles))
	for i, c := range res.Graph.Cycles {
		cycles[i] = []int(c)
	}

	doc.Metadata = metadataJSON{
		RepositoryPath:       repoPath,
		CircularDependencies: cycles,
		Metrics:              res.Graph.Metrics,
		AnalysisTime:         res.WallTime.Seconds(),
		Timestamp:            now.UnixMilli(),
		Version:              Version,
		Config:               &res.Config,
		Stats: map[string]any{
			"filesScanned":       res.Stats.FilesScanned,
			"filesSkipped":       res.Stats.FilesSkipped,
			"directoriesScanned": res.Stats.DirectoriesScanned,
			"totalSize":          res.Stats.TotalSize,
			"wallTime":           res.Stats.WallTime.Seconds(),
		},
		Errors: res.Errors,
		Cache: map[string]any{
			"hit":     res.CacheHit,
			"hits":    res.CacheStats.Hits,
			"misses":  res.CacheStats.Misses,
			"writes":  res.CacheStats.Writes,
			"errors":  res.CacheStats.Errors,
			"hitRate": res.CacheStats.HitRate,
		},
		Parsers: sortedKeys(parserSet),
	}

	return json.MarshalIndent(doc, "", "  ")
}

// edgeHint derives the informational color/dashes hints: external
// edges are dashed, edges on a detected cycle are colored.
func edgeHint(g types.Graph, e types.Edge) (color string, dashes bool) {
	for _, n := range g.Nodes {
		if n.ID == e.To && n.IsExternal {
			return "", true
		}
	}
	for _, cycle := range g.Cycles {
		for i := 0; i+1 < len(cycle); i++ {
			if cycle[i] == e.From && cycle[i+1] == e.To {
				return "#e74c3c", false
			}
		}
	}
	return "", false
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Write serializes res per format ("json" or "js") and writes it to path.
func Write(path, format, repoPath string, res *orchestrator.Result, now time.Time) error {
	data, err := Build(repoPath, res, now)
	if err != nil {
		return fmt.Errorf("building output document: %w", err)
	}
	if format == "js" {
		data = append([]byte("module.exports = "), append(data, []byte(";\n")...)...)
	}
	return os.WriteFile(path, data, 0o644)
}
