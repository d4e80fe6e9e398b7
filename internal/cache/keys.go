package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// FileKey is the SHA-256 over absolute path, size, and mtime (ns), per
// §4.G. Pure content changes that preserve size and mtime are
// invisible to this key — a documented trade-off (§9), not a bug.
func FileKey(absPath string, size int64, mtimeNanos int64) string {
	material := fmt.Sprintf("%s|%d|%d", absPath, size, mtimeNanos)
	sum := sha256.Sum256([]byte(material))
	return hex.EncodeToString(sum[:])
}

// RepoConfig is the subset of configuration that influences analysis
// output and therefore must be part of the repo cache key.
type RepoConfig struct {
	IncludeExternal   bool
	ExcludePatterns   []string
	IncludeExtensions []string
	MaxFileSize       int64
}

// RepoKey is the SHA-256 over the absolute repo path plus RepoConfig,
// per §4.G. Lists are sorted first so key order never affects the hash.
func RepoKey(absRepoPath string, cfg RepoConfig) string {
	excludes := append([]string{}, cfg.ExcludePatterns...)
	sort.Strings(excludes)
	includes := append([]string{}, cfg.IncludeExtensions...)
	sort.Strings(includes)

	material := fmt.Sprintf("%s|%v|%s|%s|%d",
		absRepoPath, cfg.IncludeExternal, strings.Join(excludes, ","), strings.Join(includes, ","), cfg.MaxFileSize)
	sum := sha256.Sum256([]byte(material))
	return hex.EncodeToString(sum[:])
}
