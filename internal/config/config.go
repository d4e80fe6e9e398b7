// Package config loads and validates depgraph's configuration (§6),
// merging built-in defaults, a config file, DEPGRAPH_-prefixed
// environment variables, and CLI flags, in that order, via
// github.com/spf13/viper — the teacher's configuration library
// (internal/cli/init.go). The self-correcting Validate method mirrors
// the teacher's internal/parser.ParserConfig.Validate.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Config is the fully merged, validated configuration for one run.
type Config struct {
	MaxFileSize       int64    `mapstructure:"max_file_size"`
	ExcludePatterns   []string `mapstructure:"exclude_patterns"`
	IncludeExtensions []string `mapstructure:"include_extensions"`
	IncludeExternal   bool     `mapstructure:"include_external"`
	FollowSymlinks    bool     `mapstructure:"follow_symlinks"`
	MaxDepth          int      `mapstructure:"max_depth"`
	Concurrency       int      `mapstructure:"concurrency"`

	Cache struct {
		Enabled     bool   `mapstructure:"enabled"`
		MaxAgeMs    int64  `mapstructure:"max_age_ms"`
		MaxSizeBytes int64 `mapstructure:"max_size_bytes"`
		Dir         string `mapstructure:"dir"`
	} `mapstructure:"cache"`

	OutputFormat string `mapstructure:"output_format"`
	OutputFile   string `mapstructure:"output_file"`
}

const (
	DefaultMaxFileSize = 1 << 20
	HardMaxFileSize    = 100 << 20
	DefaultMaxDepth    = 50
	MinConcurrency     = 1
	MaxConcurrency     = 20
)

// Default returns a Config with every spec §6 default populated.
func Default() *Config {
	c := &Config{
		MaxFileSize:       DefaultMaxFileSize,
		ExcludePatterns:   []string{"node_modules/**", ".git/**", "dist/**", "build/**", "coverage/**", ".nyc_output/**", "**/*.min.js"},
		IncludeExtensions: []string{".js", ".jsx", ".ts", ".tsx", ".py"},
		IncludeExternal:   false,
		FollowSymlinks:    false,
		MaxDepth:          DefaultMaxDepth,
		Concurrency:       defaultConcurrency(),
		OutputFormat:      "json",
		OutputFile:        "network-data.json",
	}
	c.Cache.Enabled = true
	c.Cache.MaxAgeMs = 86_400_000
	c.Cache.MaxSizeBytes = 104_857_600
	c.Cache.Dir = filepath.Join(".", ".depgraph", "cache")
	return c
}

func defaultConcurrency() int {
	n := 4
	if cpu := runtime.NumCPU(); cpu < n {
		n = cpu
	}
	if n < 1 {
		n = 1
	}
	return n
}

// FlagOverrides carries CLI-flag values that, when set, win over every
// other source (§6's merge order: defaults < file < env < flags).
type FlagOverrides struct {
	IncludeExternal *bool
	ExcludePatterns []string
	MaxFileSize     *int64
	NoCache         bool
	OutputFile      string
	OutputFormat    string
}

// Load builds the merged configuration: defaults, then the first
// present config file among .depgraphrc, .depgraphrc.json,
// .depgraphrc.js, depgraph.config.js, or package.json's "depgraph"
// section, then DEPGRAPH_-prefixed environment variables, then flags.
func Load(repoRoot, explicitConfigFile string, flags FlagOverrides) (*Config, error) {
	v := viper.New()
	def := Default()
	v.SetDefault("max_file_size", def.MaxFileSize)
	v.SetDefault("exclude_patterns", def.ExcludePatterns)
	v.SetDefault("include_extensions", def.IncludeExtensions)
	v.SetDefault("include_external", def.IncludeExternal)
	v.SetDefault("follow_symlinks", def.FollowSymlinks)
	v.SetDefault("max_depth", def.MaxDepth)
	v.SetDefault("concurrency", def.Concurrency)
	v.SetDefault("cache.enabled", def.Cache.Enabled)
	v.SetDefault("cache.max_age_ms", def.Cache.MaxAgeMs)
	v.SetDefault("cache.max_size_bytes", def.Cache.MaxSizeBytes)
	v.SetDefault("cache.dir", def.Cache.Dir)
	v.SetDefault("output_format", def.OutputFormat)
	v.SetDefault("output_file", def.OutputFile)

	configPath := resolveConfigFile(repoRoot, explicitConfigFile)
	if configPath != "" {
		v.SetConfigFile(configPath)
		// .depgraphrc and .depgraphrc.js are read as JSON: viper picks the
		// parser from the extension, and JSON is the superset this
		// implementation supports for .js config sources (no embedded JS
		// runtime — see SPEC_FULL.md §2.3).
		switch filepath.Ext(configPath) {
		case "", ".js":
			v.SetConfigType("json")
		}
		if strings.HasSuffix(configPath, "package.json") {
			v.SetConfigType("json")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", configPath, err)
		}
		if strings.HasSuffix(configPath, "package.json") {
			sub := v.Sub("depgraph")
			if sub != nil {
				v = mergeSub(v, sub)
			}
		}
	}

	v.SetEnvPrefix("DEPGRAPH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	applyFlags(cfg, flags)
	cfg.Validate()
	return cfg, nil
}

func mergeSub(parent, sub *viper.Viper) *viper.Viper {
	for _, key := range sub.AllKeys() {
		parent.Set(key, sub.Get(key))
	}
	return parent
}

func resolveConfigFile(repoRoot, explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidates := []string{".depgraphrc", ".depgraphrc.json", ".depgraphrc.js", "depgraph.config.js", "package.json"}
	for _, name := range candidates {
		p := filepath.Join(repoRoot, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func applyFlags(cfg *Config, flags FlagOverrides) {
	if flags.IncludeExternal != nil {
		cfg.IncludeExternal = *flags.IncludeExternal
	}
	if len(flags.ExcludePatterns) > 0 {
		cfg.ExcludePatterns = flags.ExcludePatterns
	}
	if flags.MaxFileSize != nil {
		cfg.MaxFileSize = *flags.MaxFileSize
	}
	if flags.NoCache {
		cfg.Cache.Enabled = false
	}
	if flags.OutputFile != "" {
		cfg.OutputFile = flags.OutputFile
	}
	if flags.OutputFormat != "" {
		cfg.OutputFormat = flags.OutputFormat
	}
}

// Validate self-corrects out-of-range values (resetting them to defaults,
// or clamping concurrency into MinConcurrency..MaxConcurrency), mirroring
// the teacher's ParserConfig.Validate rather than failing the run for
// a merely-unusual setting.
func (c *Config) Validate() {
	if c.MaxFileSize <= 0 || c.MaxFileSize > HardMaxFileSize {
		c.MaxFileSize = DefaultMaxFileSize
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.Concurrency < MinConcurrency {
		c.Concurrency = MinConcurrency
	}
	if c.Concurrency > MaxConcurrency {
		c.Concurrency = MaxConcurrency
	}
	if c.OutputFormat != "json" && c.OutputFormat != "js" {
		c.OutputFormat = "json"
	}
	if c.OutputFile == "" {
		c.OutputFile = "network-data.json"
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = filepath.Join(".", ".depgraph", "cache")
	}
}
