package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nuthan-ms/depgraph/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a .depgraphrc.json with the built-in defaults",
	Long: `Init writes a .depgraphrc.json in the current directory, populated
with depgraph's built-in defaults, as a starting point for customization.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initializeProject()
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolP("force", "f", false, "overwrite an existing .depgraphrc.json")
	viper.BindPFlag("force", initCmd.Flags().Lookup("force"))
}

const configFileName = ".depgraphrc.json"

func initializeProject() error {
	if _, err := os.Stat(configFileName); err == nil {
		if !viper.GetBool("force") {
			return fmt.Errorf("%s already exists; use --force to overwrite", configFileName)
		}
	}

	def := config.Default()
	// Built by hand rather than json.Marshal(def): Config's fields carry
	// mapstructure tags (for viper), not json tags, and Load reads this
	// file's keys back through those same mapstructure names.
	scaffold := map[string]any{
		"max_file_size":      def.MaxFileSize,
		"exclude_patterns":   def.ExcludePatterns,
		"include_extensions": def.IncludeExtensions,
		"include_external":   def.IncludeExternal,
		"follow_symlinks":    def.FollowSymlinks,
		"max_depth":          def.MaxDepth,
		"concurrency":        def.Concurrency,
		"output_format":      def.OutputFormat,
		"output_file":        def.OutputFile,
		"cache": map[string]any{
			"enabled":        def.Cache.Enabled,
			"max_age_ms":     def.Cache.MaxAgeMs,
			"max_size_bytes": def.Cache.MaxSizeBytes,
			"dir":            def.Cache.Dir,
		},
	}
	data, err := json.MarshalIndent(scaffold, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(configFileName, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", configFileName, err)
	}

	if err := appendGitignore(".depgraph/cache/\n"); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", configFileName)
	fmt.Println("next: run 'depgraph' to analyze the current directory")
	return nil
}

func appendGitignore(entry string) error {
	const gitignoreFile = ".gitignore"

	if existing, err := os.ReadFile(gitignoreFile); err == nil {
		f, err := os.OpenFile(gitignoreFile, os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open %s: %w", gitignoreFile, err)
		}
		defer f.Close()

		toWrite := entry
		if len(existing) > 0 && existing[len(existing)-1] != '\n' {
			toWrite = "\n" + entry
		}
		if _, err := f.WriteString(toWrite); err != nil {
			return fmt.Errorf("append %s: %w", gitignoreFile, err)
		}
		return nil
	}

	if err := os.WriteFile(gitignoreFile, []byte(entry), 0o644); err != nil {
		return fmt.Errorf("create %s: %w", gitignoreFile, err)
	}
	return nil
}
