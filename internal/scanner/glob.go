package scanner

import (
	"path/filepath"
	"strings"
)

// matchGlob reports whether relPath (already forward-slash, relative to
// the repository root) matches pattern. `**` matches zero or more path
// segments; `*`/`?` match within a single segment via filepath.Match.
// There is no implicit "**/" prefix: a bare "node_modules/**" only
// matches a top-level node_modules directory, matching spec semantics.
func matchGlob(pattern, relPath string) bool {
	pattern = filepath.ToSlash(pattern)
	if !strings.Contains(pattern, "**") {
		matched, err := filepath.Match(pattern, relPath)
		return err == nil && matched
	}
	return matchDoubleStar(strings.Split(relPath, "/"), strings.Split(pattern, "/"), 0, 0)
}

func matchDoubleStar(pathParts, patternParts []string, pathIdx, patternIdx int) bool {
	if patternIdx >= len(patternParts) {
		return pathIdx >= len(pathParts)
	}
	if pathIdx >= len(pathParts) {
		for i := patternIdx; i < len(patternParts); i++ {
			if patternParts[i] != "**" {
				return false
			}
		}
		return true
	}

	current := patternParts[patternIdx]
	if current == "**" {
		if matchDoubleStar(pathParts, patternParts, pathIdx, patternIdx+1) {
			return true
		}
		for i := pathIdx + 1; i <= len(pathParts); i++ {
			if matchDoubleStar(pathParts, patternParts, i, patternIdx+1) {
				return true
			}
		}
		return false
	}

	matched, err := filepath.Match(current, pathParts[pathIdx])
	if err != nil || !matched {
		return false
	}
	return matchDoubleStar(pathParts, patternParts, pathIdx+1, patternIdx+1)
}

// MatchesAny reports whether relPath matches any of patterns. A
// pattern is tried against the full relative path and, in addition,
// against every path suffix starting at a "/" boundary — so a
// top-level-looking default like "node_modules/**" still excludes
// "foo/node_modules/bar.js" the way every real-world tool in this
// space treats an unrooted directory-name pattern. Single-segment
// patterns such as "*.ts" likewise match a file of that name at any
// depth, since the last suffix is the bare filename. A pattern is never matched
// against a suffix that starts mid-segment, so "node_modulesX/x.js"
// is correctly left alone by "node_modules/**".
func MatchesAny(relPath string, patterns []string) bool {
	relPath = filepath.ToSlash(relPath)
	segments := strings.Split(relPath, "/")
	for _, p := range patterns {
		for start := 0; start < len(segments); start++ {
			if matchGlob(p, strings.Join(segments[start:], "/")) {
				return true
			}
		}
	}
	return false
}

// DefaultExcludePatterns mirrors spec's default exclude list.
func DefaultExcludePatterns() []string {
	return []string{
		"node_modules/**",
		".git/**",
		"dist/**",
		"build/**",
		"coverage/**",
		".nyc_output/**",
		"**/*.min.js",
	}
}

// DefaultIncludeExtensions mirrors spec's default include list.
func DefaultIncludeExtensions() []string {
	return []string{".js", ".jsx", ".ts", ".tsx", ".py"}
}
