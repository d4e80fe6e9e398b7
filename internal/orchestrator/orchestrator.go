// Package orchestrator implements the Orchestrator (§4.H): it sequences
// validation, the repo-cache check, the Scanner, bounded-concurrency
// parse+resolve batches, the Graph Builder, and the repo-cache store,
// and accounts for per-file errors without aborting the run.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/multierr"

	"github.com/nuthan-ms/depgraph/internal/cache"
	"github.com/nuthan-ms/depgraph/internal/config"
	"github.com/nuthan-ms/depgraph/internal/errs"
	"github.com/nuthan-ms/depgraph/internal/graph"
	"github.com/nuthan-ms/depgraph/internal/logging"
	"github.com/nuthan-ms/depgraph/internal/panics"
	"github.com/nuthan-ms/depgraph/internal/parser"
	"github.com/nuthan-ms/depgraph/internal/resolver"
	"github.com/nuthan-ms/depgraph/internal/scanner"
	"github.com/nuthan-ms/depgraph/internal/validate"
	"github.com/nuthan-ms/depgraph/pkg/types"
)

// FileError is one entry in the metadata error list (§7).
type FileError struct {
	File      string    `json:"file"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Line      int       `json:"line,omitempty"`
	Column    int       `json:"column,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Result is the Graph plus the run metadata the Orchestrator emits (§4.H.7).
type Result struct {
	Graph      types.Graph
	Errors     []FileError
	BatchError error // aggregates per-file io/parse errors via multierr; never fatal
	Stats      scanner.Stats
	WallTime   time.Duration
	CacheHit   bool
	CacheStats cache.Stats
	Config     config.Config
}

// Orchestrator wires every pipeline stage together. Construct with New;
// the zero value is not usable.
type Orchestrator struct {
	cfg      *config.Config
	logger   logging.Logger
	registry *parser.Registry
	cache    *cache.Cache
	panics   *panics.Handler
}

// New builds an Orchestrator from cfg. A nil logger defaults to NopLogger.
func New(cfg *config.Config, logger logging.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	var c *cache.Cache
	if cfg.Cache.Enabled {
		c = cache.New(cfg.Cache.Dir, time.Duration(cfg.Cache.MaxAgeMs)*time.Millisecond, cfg.Cache.MaxSizeBytes, logger)
		c.CleanupExpired()
		c.EnforceSizeLimit()
	}
	return &Orchestrator{
		cfg:      cfg,
		logger:   logger,
		registry: parser.NewRegistry(),
		cache:    c,
		panics:   panics.New(logger),
	}
}

// Analyze runs the full pipeline against repoPath.
func (o *Orchestrator) Analyze(ctx context.Context, repoPath string) (*Result, error) {
	start := time.Now()

	absRoot, err := validate.ValidateRepositoryRoot(repoPath)
	if err != nil {
		return nil, err
	}

	repoCfg := cache.RepoConfig{
		IncludeExternal:   o.cfg.IncludeExternal,
		ExcludePatterns:   o.cfg.ExcludePatterns,
		IncludeExtensions: o.cfg.IncludeExtensions,
		MaxFileSize:       o.cfg.MaxFileSize,
	}
	repoKey := cache.RepoKey(absRoot, repoCfg)

	if o.cache != nil {
		if data, ok := o.cache.Get(repoKey); ok {
			var g types.Graph
			if err := json.Unmarshal(data, &g); err == nil {
				return &Result{
					Graph:      g,
					WallTime:   time.Since(start),
					CacheHit:   true,
					CacheStats: o.cache.Stats(),
					Config:     *o.cfg,
				}, nil
			}
		}
	}

	files, stats, err := scanner.Scan(absRoot, scanner.Options{
		MaxFileSize:       o.cfg.MaxFileSize,
		ExcludePatterns:   o.cfg.ExcludePatterns,
		IncludeExtensions: o.cfg.IncludeExtensions,
		FollowSymlinks:    o.cfg.FollowSymlinks,
		MaxDepth:          o.cfg.MaxDepth,
		Logger:            o.logger,
	})
	if err != nil {
		return nil, errs.New(errs.Fatal, "scan", absRoot, err)
	}

	if len(files) == 0 {
		return &Result{Graph: types.Graph{}, Stats: stats, WallTime: time.Since(start), Config: *o.cfg}, nil
	}

	idx := resolver.NewIndex(absRoot, files)

	concurrency := o.cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]types.ParseResult, len(files))
	var fileErrors []FileError
	var errMu sync.Mutex
	var combinedErr error

	for batchStart := 0; batchStart < len(files); batchStart += concurrency {
		batchEnd := batchStart + concurrency
		if batchEnd > len(files) {
			batchEnd = len(files)
		}
		if ctx.Err() != nil {
			break // cancellation: let in-flight batches finish, start no new ones
		}

		p := pool.New()
		for i := batchStart; i < batchEnd; i++ {
			i := i
			p.Go(func() {
				f := files[i]
				result, fileErr := o.processFile(ctx, f, idx)
				results[i] = result
				if fileErr != nil {
					errMu.Lock()
					fileErrors = append(fileErrors, *fileErr)
					combinedErr = multierr.Append(combinedErr, fmt.Errorf("%s: %s", fileErr.File, fileErr.Message))
					errMu.Unlock()
				}
			})
		}
		p.Wait()
	}

	if ctx.Err() != nil {
		return nil, errs.New(errs.Fatal, "analyze", absRoot, ctx.Err())
	}

	// §7: a file that hit an io error (deleted between scan and read,
	// persistent EACCES, timeout, ...) gets no node at all. Parse and
	// content-validation failures still surface as a zero-dependency node.
	ioFailed := make(map[string]bool, len(fileErrors))
	for _, fe := range fileErrors {
		if fe.Kind == string(errs.IO) {
			ioFailed[fe.File] = true
		}
	}
	nodeFiles := files
	if len(ioFailed) > 0 {
		nodeFiles = make([]types.FileDescriptor, 0, len(files))
		for _, f := range files {
			if !ioFailed[f.RepoRelPath] {
				nodeFiles = append(nodeFiles, f)
			}
		}
	}

	builder := graph.NewBuilder(graph.Options{IncludeExternal: o.cfg.IncludeExternal})
	g := builder.Build(nodeFiles, results)

	if o.cache != nil {
		if data, err := json.Marshal(g); err == nil {
			o.cache.Set(repoKey, data)
		}
	}

	var cacheStats cache.Stats
	if o.cache != nil {
		cacheStats = o.cache.Stats()
	}

	return &Result{
		Graph:      g,
		Errors:     fileErrors,
		BatchError: combinedErr,
		Stats:      stats,
		WallTime:   time.Since(start),
		CacheStats: cacheStats,
		Config:     *o.cfg,
	}, nil
}

// FileTimeout bounds how long a single file's read+parse+resolve may
// take (§5: "Individual file timeouts default to 30s; on timeout the
// file is recorded as an error...").
const FileTimeout = 30 * time.Second

type fileOutcome struct {
	result  types.ParseResult
	fileErr *FileError
}

// processFile reads, validates, parses, and resolves one file, with a
// panic boundary so a single bad file cannot crash the batch, and a
// 30s deadline so one slow file cannot stall the whole analysis.
func (o *Orchestrator) processFile(ctx context.Context, f types.FileDescriptor, idx *resolver.Index) (types.ParseResult, *FileError) {
	done := make(chan fileOutcome, 1)
	go func() {
		result, fileErr := o.runFile(ctx, f, idx)
		done <- fileOutcome{result: result, fileErr: fileErr}
	}()

	select {
	case out := <-done:
		return out.result, out.fileErr
	case <-time.After(FileTimeout):
		return types.ParseResult{Descriptor: f, Counts: map[types.Classification]int{}, Error: "timeout"},
			&FileError{
				File:      f.RepoRelPath,
				Kind:      string(errs.IO),
				Message:   fmt.Sprintf("processing exceeded %s timeout", FileTimeout),
				Timestamp: time.Now(),
			}
	}
}

// runFile does the actual read+validate+parse+resolve work for one
// file under a panic boundary; processFile races it against a timeout.
func (o *Orchestrator) runFile(ctx context.Context, f types.FileDescriptor, idx *resolver.Index) (types.ParseResult, *FileError) {
	result := types.ParseResult{Descriptor: f, Counts: map[types.Classification]int{}}
	var fileErr *FileError

	err := o.panics.WithOperation(ctx, "parse_file", f.RepoRelPath, func() error {
		content, err := readWithRetry(f.AbsPath)
		if err != nil {
			fileErr = &FileError{File: f.RepoRelPath, Kind: string(errs.IO), Message: err.Error(), Timestamp: time.Now()}
			return nil
		}

		text, err := validate.SanitizeContent(content, o.cfg.MaxFileSize)
		if err != nil {
			fileErr = &FileError{File: f.RepoRelPath, Kind: string(errs.Validation), Message: err.Error(), Timestamp: time.Now()}
			return nil
		}

		refs, parserName, err := o.registry.Parse(f.Extension, text, f.RepoRelPath)
		if err != nil {
			fileErr = &FileError{File: f.RepoRelPath, Kind: string(errs.Parse), Message: err.Error(), Timestamp: time.Now()}
			return nil
		}
		result.ParserName = parserName

		for _, ref := range refs {
			resolved := resolver.Resolve(ref, idx)
			result.References = append(result.References, resolved)
			result.Counts[resolved.Classification]++
		}
		return nil
	})

	if err != nil {
		result.Error = err.Error()
		if fileErr == nil {
			fileErr = &FileError{File: f.RepoRelPath, Kind: string(errs.Parse), Message: err.Error(), Timestamp: time.Now()}
		}
	}

	return result, fileErr
}

// isRetryable reports whether err is one of the io error signals the
// Orchestrator retries per §7: EACCES, EMFILE, ENFILE, EAGAIN, EBUSY,
// or a message containing "timeout"/"network"/"connection".
func isRetryable(err error) bool {
	for _, errno := range []syscall.Errno{syscall.EACCES, syscall.EMFILE, syscall.ENFILE, syscall.EAGAIN, syscall.EBUSY} {
		if errors.Is(err, errno) {
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	for _, code := range []string{"eacces", "emfile", "enfile", "eagain", "ebusy", "timeout", "network", "connection"} {
		if strings.Contains(msg, code) {
			return true
		}
	}
	return false
}

func readWithRetry(path string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		data, err := os.ReadFile(path)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if os.IsNotExist(err) || !isRetryable(err) {
			return nil, err
		}
		time.Sleep(time.Duration(attempt) * time.Second)
	}
	return nil, lastErr
}

