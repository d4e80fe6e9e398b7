package parser

import (
	"regexp"
	"strings"

	"github.com/nuthan-ms/depgraph/internal/validate"
	"github.com/nuthan-ms/depgraph/pkg/types"
)

// JavaScriptParser extracts import/require references from the
// JavaScript/TypeScript family (§4.D) using regular expressions over
// comment- and string-literal-cleaned text, never building an AST.
type JavaScriptParser struct{}

func NewJavaScriptParser() *JavaScriptParser { return &JavaScriptParser{} }

func (p *JavaScriptParser) Extensions() []string {
	return []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx"}
}

func (p *JavaScriptParser) Name() string { return "javascript" }

var (
	reImportFrom     = regexp.MustCompile(`import\s+[^'"` + "`" + `;]*?\bfrom\s*['"` + "`" + `]([^'"` + "`" + `\n\r]*)['"` + "`" + `]\s*;?`)
	reSideEffect     = regexp.MustCompile(`import\s*['"` + "`" + `]([^'"` + "`" + `\n\r]*)['"` + "`" + `]\s*;?`)
	reRequire        = regexp.MustCompile(`\brequire\s*\(\s*['"` + "`" + `]([^'"` + "`" + `\n\r]*)['"` + "`" + `]\s*\)`)
	reDynamicImport  = regexp.MustCompile(`\bimport\s*\(\s*['"` + "`" + `]([^'"` + "`" + `\n\r]*)['"` + "`" + `]\s*\)`)
)

func (p *JavaScriptParser) Parse(content, filePath string) ([]types.Reference, error) {
	cleaned := stripJSComments(content)

	type found struct {
		module string
		kind   types.ReferenceKind
		start  int
		raw    string
	}
	var all []found

	for _, m := range reImportFrom.FindAllStringSubmatchIndex(cleaned, -1) {
		all = append(all, found{module: cleaned[m[2]:m[3]], kind: types.KindImport, start: m[0], raw: cleaned[m[0]:m[1]]})
	}
	// side-effect imports: "import 'x'" with no "from" — must not double-count
	// forms already captured by reImportFrom, so only keep matches whose
	// start index isn't inside any reImportFrom match span.
	fromSpans := reImportFrom.FindAllStringIndex(cleaned, -1)
	inFromSpan := func(idx int) bool {
		for _, s := range fromSpans {
			if idx >= s[0] && idx < s[1] {
				return true
			}
		}
		return false
	}
	for _, m := range reSideEffect.FindAllStringSubmatchIndex(cleaned, -1) {
		if inFromSpan(m[0]) {
			continue
		}
		// Side-effect imports ("import 'x';") carry no distinct Kind in
		// the data model (§3 lists only import/require/dynamic-import/
		// from-import/relative-import/importlib/standard) so they are
		// recorded as plain imports, same as the "from" form.
		all = append(all, found{module: cleaned[m[2]:m[3]], kind: types.KindImport, start: m[0], raw: cleaned[m[0]:m[1]]})
	}
	for _, m := range reRequire.FindAllStringSubmatchIndex(cleaned, -1) {
		all = append(all, found{module: cleaned[m[2]:m[3]], kind: types.KindRequire, start: m[0], raw: cleaned[m[0]:m[1]]})
	}
	for _, m := range reDynamicImport.FindAllStringSubmatchIndex(cleaned, -1) {
		all = append(all, found{module: cleaned[m[2]:m[3]], kind: types.KindDynamicImport, start: m[0], raw: cleaned[m[0]:m[1]]})
	}

	seen := map[string]bool{}
	var refs []types.Reference
	for _, f := range all {
		module := strings.TrimSpace(f.module)
		if module == "" || strings.ContainsAny(module, "\n\r") {
			continue
		}
		// A template literal containing an interpolation has no static
		// module string to extract; skip it entirely rather than treat
		// "${...}" as literal path text.
		if strings.Contains(module, "${") {
			continue
		}
		cleanedModule, err := validate.SanitizeImportString(module)
		if err != nil {
			continue
		}
		dedupKey := cleanedModule + "|" + string(f.kind)
		if seen[dedupKey] {
			continue
		}
		seen[dedupKey] = true

		line, col := lineColumn(content, f.start)
		refs = append(refs, types.Reference{
			Module: cleanedModule,
			Kind:   f.kind,
			Line:   line,
			Column: col,
			Raw:    f.raw,
			File:   filePath,
		})
	}
	return refs, nil
}

// ScopedPackage computes the external package identifier per spec
// §4.D's scoped-package rule: a module beginning with "@" contributes
// its first two "/"-separated segments; otherwise the first segment.
func ScopedPackage(module string) string {
	segments := strings.Split(module, "/")
	if strings.HasPrefix(module, "@") && len(segments) >= 2 {
		return segments[0] + "/" + segments[1]
	}
	return segments[0]
}
