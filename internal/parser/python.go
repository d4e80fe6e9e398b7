package parser

import (
	"regexp"
	"strings"

	"github.com/nuthan-ms/depgraph/internal/validate"
	"github.com/nuthan-ms/depgraph/pkg/types"
)

// PythonParser extracts import references from Python source (§4.D)
// using line-anchored regular expressions over comment- and
// docstring-stripped text.
type PythonParser struct{}

func NewPythonParser() *PythonParser { return &PythonParser{} }

func (p *PythonParser) Extensions() []string { return []string{".py", ".pyw"} }
func (p *PythonParser) Name() string         { return "python" }

const identSeg = `[A-Za-z_][A-Za-z0-9_]*`

var (
	reDottedPath   = regexp.MustCompile(`^` + identSeg + `(?:\.` + identSeg + `)*$`)
	reImport       = regexp.MustCompile(`(?m)^\s*import\s+(` + identSeg + `(?:\.` + identSeg + `)*)`)
	reFromImport   = regexp.MustCompile(`(?m)^\s*from\s+(` + identSeg + `(?:\.` + identSeg + `)*)\s+import\s+`)
	reRelative     = regexp.MustCompile(`(?m)^\s*from\s+(\.+)(` + identSeg + `(?:\.` + identSeg + `)*)?\s+import\s+`)
	reDunderImport = regexp.MustCompile(`__import__\(\s*['"]([^'"\n\r]*)['"]\s*\)`)
	reImportlib    = regexp.MustCompile(`importlib\.import_module\(\s*['"]([^'"\n\r]*)['"]\s*\)`)
)

func (p *PythonParser) Parse(content, filePath string) ([]types.Reference, error) {
	cleaned := stripPyComments(content)

	type found struct {
		module string
		kind   types.ReferenceKind
		start  int
		raw    string
	}
	var all []found

	relSpans := reRelative.FindAllStringIndex(cleaned, -1)
	inRelSpan := func(idx int) bool {
		for _, s := range relSpans {
			if idx >= s[0] && idx < s[1] {
				return true
			}
		}
		return false
	}

	for _, m := range reRelative.FindAllStringSubmatchIndex(cleaned, -1) {
		dots := cleaned[m[2]:m[3]]
		var module string
		if m[4] >= 0 {
			module = cleaned[m[4]:m[5]]
		}
		all = append(all, found{module: dots + module, kind: types.KindRelativeImport, start: m[0], raw: cleaned[m[0]:m[1]]})
	}
	for _, m := range reFromImport.FindAllStringSubmatchIndex(cleaned, -1) {
		if inRelSpan(m[0]) {
			continue
		}
		all = append(all, found{module: cleaned[m[2]:m[3]], kind: types.KindFromImport, start: m[0], raw: cleaned[m[0]:m[1]]})
	}
	for _, m := range reImport.FindAllStringSubmatchIndex(cleaned, -1) {
		// "import X" lines never start with "from", so no overlap check needed.
		all = append(all, found{module: cleaned[m[2]:m[3]], kind: types.KindImport, start: m[0], raw: cleaned[m[0]:m[1]]})
	}
	for _, m := range reDunderImport.FindAllStringSubmatchIndex(cleaned, -1) {
		all = append(all, found{module: cleaned[m[2]:m[3]], kind: types.KindImportlib, start: m[0], raw: cleaned[m[0]:m[1]]})
	}
	for _, m := range reImportlib.FindAllStringSubmatchIndex(cleaned, -1) {
		all = append(all, found{module: cleaned[m[2]:m[3]], kind: types.KindImportlib, start: m[0], raw: cleaned[m[0]:m[1]]})
	}

	seen := map[string]bool{}
	var refs []types.Reference
	for _, f := range all {
		module := strings.TrimSpace(f.module)
		if module == "" && f.kind != types.KindRelativeImport {
			continue
		}
		if strings.ContainsAny(module, "\n\r") {
			continue
		}
		if f.kind != types.KindRelativeImport {
			if !reDottedPath.MatchString(module) {
				continue
			}
		} else {
			rest := strings.TrimLeft(module, ".")
			if rest != "" && !reDottedPath.MatchString(rest) {
				continue
			}
		}
		if _, err := validate.SanitizeImportString(module); err != nil {
			continue
		}

		dedupKey := module + "|" + string(f.kind)
		if seen[dedupKey] {
			continue
		}
		seen[dedupKey] = true

		line, col := lineColumn(content, f.start)
		refs = append(refs, types.Reference{
			Module: module,
			Kind:   f.kind,
			Line:   line,
			Column: col,
			Raw:    f.raw,
			File:   filePath,
		})
	}
	return refs, nil
}
