// Package cli implements the depgraph command-line surface (§2.4):
// a cobra root command that runs one analysis, plus init, version, and
// cache subcommands. Flag binding follows the teacher's
// internal/cli/init.go (spf13/cobra + spf13/viper).
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nuthan-ms/depgraph/internal/config"
	"github.com/nuthan-ms/depgraph/internal/logging"
	"github.com/nuthan-ms/depgraph/internal/orchestrator"
	"github.com/nuthan-ms/depgraph/internal/output"
	"github.com/nuthan-ms/depgraph/internal/watch"
)

// Version is set at build time via -ldflags, mirroring the teacher's
// cmd/codecontext version wiring.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "depgraph [path]",
	Short: "Analyze source-code import/require dependency graphs",
	Long: `depgraph scans a repository, parses JavaScript/TypeScript and Python
import statements, resolves them against the files on disk, and emits a
dependency graph as JSON (or a CommonJS module).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

// Execute runs the root command; main.go's only job is to call this and
// exit with its return code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func init() {
	flags := rootCmd.Flags()
	flags.StringP("output", "o", "", "output file path (default: network-data.json)")
	flags.StringP("format", "f", "", "output format: json or js")
	flags.StringP("config", "c", "", "path to an explicit config file")
	flags.Bool("include-external", false, "include external/third-party packages as nodes")
	flags.StringSlice("exclude-patterns", nil, "glob patterns to exclude (replaces the configured list)")
	flags.Int64("max-file-size", 0, "maximum file size in bytes to analyze")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "suppress the run summary")
	flags.Bool("no-cache", false, "disable the on-disk cache for this run")
	flags.Bool("watch", false, "re-run the analysis on filesystem changes")

	viper.BindPFlag("output", flags.Lookup("output"))
	viper.BindPFlag("format", flags.Lookup("format"))
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	repoPath := "."
	if len(args) == 1 {
		repoPath = args[0]
	}

	flags := cmd.Flags()
	verbose, _ := flags.GetBool("verbose")
	quiet, _ := flags.GetBool("quiet")
	explicitConfig, _ := flags.GetString("config")
	noCache, _ := flags.GetBool("no-cache")
	watchMode, _ := flags.GetBool("watch")

	overrides := config.FlagOverrides{NoCache: noCache}
	if flags.Changed("include-external") {
		v, _ := flags.GetBool("include-external")
		overrides.IncludeExternal = &v
	}
	if flags.Changed("exclude-patterns") {
		overrides.ExcludePatterns, _ = flags.GetStringSlice("exclude-patterns")
	}
	if flags.Changed("max-file-size") {
		v, _ := flags.GetInt64("max-file-size")
		overrides.MaxFileSize = &v
	}
	if flags.Changed("output") {
		overrides.OutputFile, _ = flags.GetString("output")
	}
	if flags.Changed("format") {
		overrides.OutputFormat, _ = flags.GetString("format")
	}

	cfg, err := config.Load(repoPath, explicitConfig, overrides)
	if err != nil {
		return err
	}

	level := logging.LevelInfo
	if verbose {
		level = logging.LevelDebug
	}
	logger := logging.NewConsoleLogger(os.Stderr, level)

	orch := orchestrator.New(cfg, logger)

	if watchMode {
		return watch.Run(cmd.Context(), repoPath, cfg, func(ctx context.Context) error {
			return analyzeOnce(ctx, orch, cfg, repoPath, logger, quiet)
		})
	}

	return analyzeOnce(cmd.Context(), orch, cfg, repoPath, logger, quiet)
}

func analyzeOnce(ctx context.Context, orch *orchestrator.Orchestrator, cfg *config.Config, repoPath string, logger logging.Logger, quiet bool) error {
	res, err := orch.Analyze(ctx, repoPath)
	if err != nil {
		return err
	}

	now := time.Now()
	if err := output.Write(cfg.OutputFile, cfg.OutputFormat, repoPath, res, now); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if !quiet {
		if cl, ok := logger.(*logging.ConsoleLogger); ok {
			cl.PrintSummary(logging.RunSummary{
				RepositoryPath: repoPath,
				FilesScanned:   res.Stats.FilesScanned,
				FilesSkipped:   res.Stats.FilesSkipped,
				Nodes:          len(res.Graph.Nodes),
				Edges:          len(res.Graph.Edges),
				Cycles:         len(res.Graph.Cycles),
				Errors:         len(res.Errors),
				CacheHit:       res.CacheHit,
				Duration:       res.WallTime.Round(time.Millisecond).String(),
			})
		}
	}
	return nil
}
