// Package resolver implements the Module Resolver (§4.E): it classifies
// each Reference as local, external, standard-library, missing, or
// unresolved, and computes the canonical resolved_key the Graph
// Builder uses to find or synthesize a target node. Grounded on the
// candidate-expansion algorithm used by import resolvers across the
// retrieved example pack (node/TS path resolution).
package resolver

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/nuthan-ms/depgraph/pkg/types"
)

// jsExtensions are tried, in order, when resolving a relative JS/TS
// import that doesn't already carry an extension.
var jsExtensions = []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".json"}
var jsIndexNames = []string{"/index.js", "/index.ts", "/index.jsx", "/index.tsx"}

var schemePrefixes = []string{"data:", "http:", "https:", "file:"}

// Index is a queryable view over the scanned file set, built once per
// analysis run and shared read-only across concurrent resolutions.
type Index struct {
	// byRepoPath maps a repo-relative path (forward-slash) to true.
	byRepoPath map[string]bool
	repoRoot   string
}

// NewIndex builds an Index over the scanned files.
func NewIndex(repoRoot string, files []types.FileDescriptor) *Index {
	idx := &Index{byRepoPath: make(map[string]bool, len(files)), repoRoot: repoRoot}
	for _, f := range files {
		idx.byRepoPath[f.RepoRelPath] = true
	}
	return idx
}

func (idx *Index) has(relPath string) bool {
	return idx.byRepoPath[relPath]
}

// Resolve classifies a single Reference relative to the scanned file set.
func Resolve(ref types.Reference, idx *Index) types.ResolvedReference {
	switch {
	case strings.HasSuffix(ref.File, ".py") || strings.HasSuffix(ref.File, ".pyw"):
		return resolvePython(ref, idx)
	default:
		return resolveJS(ref, idx)
	}
}

func resolveJS(ref types.Reference, idx *Index) types.ResolvedReference {
	module := ref.Module

	if strings.HasPrefix(module, "./") || strings.HasPrefix(module, "../") {
		base := path.Dir(ref.File)
		joined := path.Clean(path.Join(base, module))
		if hit, ok := expandJSCandidates(joined, idx); ok {
			return resolved(ref, types.ClassLocal, hit, "")
		}
		return resolved(ref, types.ClassMissing, "missing:"+joined, "")
	}

	if strings.HasPrefix(module, "/") {
		joined := path.Clean(strings.TrimPrefix(module, "/"))
		if hit, ok := expandJSCandidates(joined, idx); ok {
			return resolved(ref, types.ClassLocal, hit, "")
		}
		return resolved(ref, types.ClassMissing, "missing:"+joined, "")
	}

	for _, scheme := range schemePrefixes {
		if strings.HasPrefix(module, scheme) {
			return resolved(ref, types.ClassUnresolved, "unresolved:"+module, "")
		}
	}
	if firstSeg := strings.SplitN(module, "/", 2)[0]; strings.Contains(firstSeg, ":") {
		return resolved(ref, types.ClassUnresolved, "unresolved:"+module, "")
	}

	pkg := scopedPackage(module)
	return resolved(ref, types.ClassExternal, "external:"+module, pkg)
}

func scopedPackage(module string) string {
	segments := strings.Split(module, "/")
	if strings.HasPrefix(module, "@") && len(segments) >= 2 {
		return segments[0] + "/" + segments[1]
	}
	return segments[0]
}

// expandJSCandidates tries, in order: the exact path; the path with
// each extension appended; the path as a directory with an index file.
func expandJSCandidates(candidate string, idx *Index) (string, bool) {
	if idx.has(candidate) {
		return candidate, true
	}
	for _, ext := range jsExtensions {
		c := candidate + ext
		if idx.has(c) {
			return c, true
		}
	}
	for _, idxName := range jsIndexNames {
		c := candidate + idxName
		if idx.has(c) {
			return c, true
		}
	}
	return "", false
}

func resolvePython(ref types.Reference, idx *Index) types.ResolvedReference {
	if ref.Kind == types.KindRelativeImport {
		return resolvePythonRelative(ref, idx)
	}
	if ref.Kind == types.KindImportlib {
		top := strings.SplitN(ref.Module, ".", 2)[0]
		if standardLibrary[top] {
			return resolved(ref, types.ClassStandardLibrary, "std:"+top, "")
		}
		return resolved(ref, types.ClassExternal, "external:"+ref.Module, top)
	}

	top := strings.SplitN(ref.Module, ".", 2)[0]
	if standardLibrary[top] {
		return resolved(ref, types.ClassStandardLibrary, "std:"+top, "")
	}

	root := projectRoot(ref.File, idx)
	asPath := path.Join(root, strings.ReplaceAll(ref.Module, ".", "/")) + ".py"
	if idx.has(asPath) {
		return resolved(ref, types.ClassLocal, asPath, "")
	}
	return resolved(ref, types.ClassExternal, "external:"+ref.Module, top)
}

func resolvePythonRelative(ref types.Reference, idx *Index) types.ResolvedReference {
	dots := 0
	for _, r := range ref.Module {
		if r == '.' {
			dots++
			continue
		}
		break
	}
	rest := ref.Module[dots:]

	dir := path.Dir(ref.File)
	up := dots - 1
	target := dir
	for i := 0; i < up; i++ {
		if target == "." || target == "" {
			// Ascended past the repository root: per §9's open question,
			// such references are left as missing rather than escaping
			// outside the repo via "../".
			return resolved(ref, types.ClassMissing, "missing:"+ref.Module+"@"+ref.File, "")
		}
		target = path.Dir(target)
	}

	if rest == "" {
		return resolved(ref, types.ClassLocal, target, "")
	}

	asPath := path.Join(target, strings.ReplaceAll(rest, ".", "/")) + ".py"
	if idx.has(asPath) {
		return resolved(ref, types.ClassLocal, asPath, "")
	}
	return resolved(ref, types.ClassMissing, "missing:"+asPath, "")
}

// projectRoot walks up from the source file looking for a setup.py,
// pyproject.toml, requirements.txt, or .git marker; falls back to the
// file's own directory. Markers are looked up against the real
// filesystem under idx.repoRoot, not the extension-filtered scanned-file
// index, since setup.py/pyproject.toml/requirements.txt/.git are not
// necessarily .py files the Scanner ever recorded.
func projectRoot(sourceFile string, idx *Index) string {
	dir := path.Dir(sourceFile)
	for {
		for _, marker := range []string{"setup.py", "pyproject.toml", "requirements.txt", ".git"} {
			abs := filepath.Join(idx.repoRoot, filepath.FromSlash(dir), marker)
			if _, err := os.Stat(abs); err == nil {
				return dir
			}
		}
		if dir == "." || dir == "" || dir == "/" {
			break
		}
		parent := path.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return path.Dir(sourceFile)
}

func resolved(ref types.Reference, class types.Classification, key, pkg string) types.ResolvedReference {
	return types.ResolvedReference{Reference: ref, Classification: class, ResolvedKey: key, Package: pkg}
}

// standardLibrary is the closed ~60-name Python standard-library set
// from spec §4.E.
var standardLibrary = func() map[string]bool {
	names := strings.Fields(`os sys json datetime time math random collections itertools functools operator re string io pathlib urllib http email html xml csv configparser logging unittest doctest argparse subprocess threading multiprocessing asyncio socket ssl hashlib hmac secrets sqlite3 pickle copyreg copy pprint reprlib enum numbers cmath decimal fractions statistics array weakref types gc inspect site importlib pkgutil modulefinder runpy ast symtable symbol token keyword tokenize tabnanny pyclbr py_compile compileall dis pickletools platform errno ctypes`)
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}()
