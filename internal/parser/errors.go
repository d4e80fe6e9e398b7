package parser

import "errors"

var (
	// ErrNoExtensions is returned when a Parser claims no extensions.
	ErrNoExtensions = errors.New("parser: registered parser has no extensions")
	// ErrNoParser is returned by Registry.Parse for an unknown extension.
	ErrNoParser = errors.New("no-parser")
)
