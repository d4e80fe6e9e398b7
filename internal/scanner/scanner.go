// Package scanner implements the File Scanner: a depth-first,
// glob-excluding traversal of a repository root that emits validated
// FileDescriptors.
package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/nuthan-ms/depgraph/internal/logging"
	"github.com/nuthan-ms/depgraph/internal/validate"
	"github.com/nuthan-ms/depgraph/pkg/types"
)

const DefaultMaxDepth = 50
const DefaultValidateBatch = 100

// Options configures one scan.
type Options struct {
	MaxFileSize       int64
	ExcludePatterns   []string
	IncludeExtensions []string
	FollowSymlinks    bool
	MaxDepth          int
	ValidateBatch     int
	Logger            logging.Logger
}

// Stats records traversal counters, matching spec §4.B.
type Stats struct {
	FilesScanned      int
	FilesSkipped      int
	DirectoriesScanned int
	TotalSize         int64
	WallTime          time.Duration
}

type candidate struct {
	absPath string
	relPath string
	info    os.FileInfo
}

// Scan walks root (already validated/absolute) and returns
// FileDescriptors for every surviving candidate in discovery order.
func Scan(root string, opts Options) ([]types.FileDescriptor, Stats, error) {
	start := time.Now()
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger{}
	}
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	includeSet := map[string]bool{}
	exts := opts.IncludeExtensions
	if len(exts) == 0 {
		exts = DefaultIncludeExtensions()
	}
	for _, e := range exts {
		includeSet[strings.ToLower(e)] = true
	}
	excludes := opts.ExcludePatterns
	if excludes == nil {
		excludes = DefaultExcludePatterns()
	}

	var stats Stats
	var candidates []candidate

	var walk func(dir, relDir string, depth int) error
	walk = func(dir, relDir string, depth int) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			logger.Warn("cannot read directory", logging.LogField{Key: "path", Value: dir}, logging.LogField{Key: "error", Value: err.Error()})
			return nil
		}
		stats.DirectoriesScanned++

		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		for _, entry := range entries {
			name := entry.Name()
			absPath := filepath.Join(dir, name)
			relPath := name
			if relDir != "" {
				relPath = relDir + "/" + name
			}
			relPath = filepath.ToSlash(relPath)

			checkPath := relPath
			if entry.IsDir() {
				checkPath += "/"
			}
			if MatchesAny(checkPath, excludes) || MatchesAny(relPath, excludes) {
				continue
			}

			if entry.IsDir() {
				if depth+1 > maxDepth {
					continue
				}
				if err := walk(absPath, relPath, depth+1); err != nil {
					return err
				}
				continue
			}

			info, err := entry.Info()
			if err != nil {
				stats.FilesSkipped++
				continue
			}

			if entry.Type()&os.ModeSymlink != 0 {
				if !opts.FollowSymlinks {
					continue
				}
				target, err := filepath.EvalSymlinks(absPath)
				if err != nil {
					stats.FilesSkipped++
					continue
				}
				targetInfo, err := os.Stat(target)
				if err != nil || !targetInfo.Mode().IsRegular() {
					stats.FilesSkipped++
					continue
				}
				info = targetInfo
				absPath = target
			} else if !info.Mode().IsRegular() {
				continue
			}

			ext := strings.ToLower(filepath.Ext(name))
			if !includeSet[ext] {
				continue
			}

			candidates = append(candidates, candidate{absPath: absPath, relPath: relPath, info: info})
		}
		return nil
	}

	if err := walk(root, "", 0); err != nil {
		return nil, stats, err
	}

	descriptors := make([]types.FileDescriptor, len(candidates))
	survive := make([]bool, len(candidates))

	batch := opts.ValidateBatch
	if batch <= 0 {
		batch = DefaultValidateBatch
	}

	for start := 0; start < len(candidates); start += batch {
		end := start + batch
		if end > len(candidates) {
			end = len(candidates)
		}
		p := pool.New()
		for i := start; i < end; i++ {
			i := i
			p.Go(func() {
				c := candidates[i]
				reason := validate.ValidateFile(validate.FileCandidate{
					RepoRelPath: c.relPath,
					Basename:    filepath.Base(c.relPath),
					Extension:   strings.ToLower(filepath.Ext(c.relPath)),
					Size:        c.info.Size(),
				}, opts.MaxFileSize, includeSet)
				if reason != validate.SkipNone {
					return
				}
				if _, err := os.Stat(c.absPath); err != nil {
					return
				}
				descriptors[i] = types.FileDescriptor{
					AbsPath:     c.absPath,
					RepoRelPath: c.relPath,
					Basename:    filepath.Base(c.relPath),
					Extension:   strings.ToLower(filepath.Ext(c.relPath)),
					Size:        c.info.Size(),
					ModTime:     c.info.ModTime(),
				}
				survive[i] = true
			})
		}
		p.Wait()
	}

	result := make([]types.FileDescriptor, 0, len(descriptors))
	for i, ok := range survive {
		if ok {
			result = append(result, descriptors[i])
			stats.FilesScanned++
			stats.TotalSize += descriptors[i].Size
		} else {
			stats.FilesSkipped++
		}
	}

	stats.WallTime = time.Since(start)
	return result, stats, nil
}
