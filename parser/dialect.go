package parser

import (
	"path"
	"strings"
)

// Dialect selects the grammar extensions enabled on top of plain
// JavaScript module syntax.
type Dialect uint8

const (
	// Typed enables type annotations and type-only declarations.
	Typed Dialect = 1 << iota
	// JSX enables markup expressions.
	JSX
)

// Plain is JavaScript with no extensions.
const Plain Dialect = 0

func (d Dialect) String() string {
	switch d {
	case Plain:
		return "js"
	case JSX:
		return "jsx"
	case Typed:
		return "ts"
	case Typed | JSX:
		return "tsx"
	}
	return "unknown"
}

// DialectFor returns the dialect implied by the extension of file.
// Unknown extensions parse as plain JavaScript.
func DialectFor(file string) Dialect {
	switch strings.ToLower(path.Ext(file)) {
	case ".jsx":
		return JSX
	case ".ts", ".mts", ".cts":
		return Typed
	case ".tsx":
		return Typed | JSX
	}
	return Plain
}
