// Package validate implements the Input Validator: path, size,
// content, and encoding safety rules applied before a file or import
// string is trusted by the rest of the pipeline.
package validate

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/nuthan-ms/depgraph/internal/errs"
)

const (
	MaxPathLength      = 4096
	DefaultMaxFileSize = 1 << 20   // 1 MiB
	HardMaxFileSize    = 100 << 20 // 100 MiB
	MaxImportLength    = 500
)

var blockedPrefixes = []string{"/etc", "/proc", "/sys", "/dev", "/root", "/boot"}

var windowsReservedChars = `<>:"|?*`

var windowsDeviceNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

var traversalSequences = []string{"../", "..\\", "%2e%2e", "%2E%2E"}

// ValidateRepositoryRoot applies rules 1-3 to a candidate repository
// path and returns its sanitized absolute form.
func ValidateRepositoryRoot(path string) (string, error) {
	if err := validatePathSyntax(path); err != nil {
		return "", errs.New(errs.Validation, "validate_repository_root", path, err)
	}
	if err := checkTraversal(path); err != nil {
		return "", errs.New(errs.Validation, "validate_repository_root", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errs.New(errs.Validation, "validate_repository_root", path, fmt.Errorf("cannot resolve to absolute path: %w", err))
	}
	abs = filepath.Clean(abs)
	if err := checkBlockedPrefix(abs); err != nil {
		return "", errs.New(errs.Validation, "validate_repository_root", path, err)
	}
	return abs, nil
}

func validatePathSyntax(path string) error {
	if path == "" {
		return fmt.Errorf("path is empty")
	}
	if len(path) > MaxPathLength {
		return fmt.Errorf("path exceeds %d bytes", MaxPathLength)
	}
	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("path contains a NUL byte")
	}
	for _, r := range path {
		if r < 0x20 {
			return fmt.Errorf("path contains a control character")
		}
	}
	if runtime.GOOS == "windows" {
		if strings.ContainsAny(path, windowsReservedChars) {
			return fmt.Errorf("path contains a reserved character")
		}
	}
	return nil
}

func checkTraversal(path string) error {
	lower := strings.ToLower(path)
	for _, seq := range traversalSequences {
		if strings.Contains(lower, strings.ToLower(seq)) {
			return fmt.Errorf("path contains a traversal sequence: %q", seq)
		}
	}
	return nil
}

func checkBlockedPrefix(absPath string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	for _, prefix := range blockedPrefixes {
		if absPath == prefix || strings.HasPrefix(absPath, prefix+string(filepath.Separator)) {
			return fmt.Errorf("path resolves under blocked system prefix %s", prefix)
		}
	}
	return nil
}

// SkipReason explains why ValidateFile declined a candidate file
// without treating it as an error.
type SkipReason string

const (
	SkipNone          SkipReason = ""
	SkipTooLarge      SkipReason = "too-large"
	SkipBadExtension  SkipReason = "bad-extension"
	SkipReservedName  SkipReason = "reserved-name"
	SkipBadPath       SkipReason = "bad-path"
)

// FileCandidate is the minimal shape ValidateFile needs; the Scanner
// builds one per candidate file.
type FileCandidate struct {
	RepoRelPath string
	Basename    string
	Extension   string
	Size        int64
}

// ValidateFile applies rule 4: size, extension, and reserved-name checks.
func ValidateFile(c FileCandidate, maxFileSize int64, allowedExtensions map[string]bool) SkipReason {
	if err := validatePathSyntax(c.RepoRelPath); err != nil {
		return SkipBadPath
	}
	if maxFileSize <= 0 || maxFileSize > HardMaxFileSize {
		maxFileSize = DefaultMaxFileSize
	}
	if c.Size > maxFileSize {
		return SkipTooLarge
	}
	if len(allowedExtensions) > 0 && !allowedExtensions[c.Extension] {
		return SkipBadExtension
	}
	name := strings.ToUpper(strings.TrimSuffix(c.Basename, filepath.Ext(c.Basename)))
	if windowsDeviceNames[name] {
		return SkipReservedName
	}
	return SkipNone
}

// SanitizeContent applies rule 5: size bound, NUL stripping, UTF-8
// validity, and a binary-content heuristic. Returns the cleaned text.
func SanitizeContent(content []byte, maxSize int64) (string, error) {
	if maxSize > 0 && int64(len(content)) > maxSize {
		return "", fmt.Errorf("content exceeds max size %d", maxSize)
	}
	cleaned := make([]byte, 0, len(content))
	for _, b := range content {
		if b == 0 {
			continue
		}
		cleaned = append(cleaned, b)
	}
	if !validUTF8(cleaned) {
		return "", fmt.Errorf("content is not valid UTF-8")
	}
	if isBinary(cleaned) {
		return "", fmt.Errorf("content appears to be binary")
	}
	return string(cleaned), nil
}

func isBinary(content []byte) bool {
	if len(content) == 0 {
		return false
	}
	var suspicious int
	for _, b := range content {
		if b == 0 {
			return true
		}
		if (b >= 0x00 && b <= 0x08) || (b >= 0x0E && b <= 0x1F) || b == 0x7F {
			suspicious++
		}
	}
	return float64(suspicious)/float64(len(content)) > 0.01
}

func validUTF8(b []byte) bool {
	return strings.ToValidUTF8(string(b), "�") == string(b)
}

// SanitizeImportString applies rule 6 to a raw module string as
// written in source, returning the cleaned string or an error
// explaining rejection.
func SanitizeImportString(module string) (string, error) {
	trimmed := strings.TrimSpace(module)
	if len(trimmed) < 1 || len(trimmed) > MaxImportLength {
		return "", fmt.Errorf("import string length %d out of bounds", len(trimmed))
	}
	var b strings.Builder
	for _, r := range trimmed {
		if r < 0x20 || strings.ContainsRune(`<>"|?*`, r) {
			continue
		}
		b.WriteRune(r)
	}
	cleaned := b.String()
	if strings.Contains(cleaned, "...") {
		return "", fmt.Errorf("import string contains a triple-dot sequence")
	}
	if strings.Contains(cleaned, "/../") {
		return "", fmt.Errorf("import string contains an embedded traversal segment")
	}
	return cleaned, nil
}
