package compiler

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAbandoned settles a unit whose link was rolled back before it could
// be instantiated.
var ErrAbandoned = errors.New("unit abandoned before instantiation")

// ImportError reports an import specifier that names no script on the
// server. Path is the canonical path the specifier was resolved to.
type ImportError struct {
	Specifier string
	Path      string
	Importer  string
	Server    string
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("File: %q imported by %q not found on server: %s", e.Specifier, e.Importer, e.Server)
}

// TransformError is returned when typed or JSX source cannot be
// down-leveled.
type TransformError struct {
	Path     string
	Messages []string
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transforming %s: %s", e.Path, strings.Join(e.Messages, "; "))
}

// InstantiationError wraps a host failure to load a linked unit.
type InstantiationError struct {
	Path string
	URL  string
	Err  error
}

func (e *InstantiationError) Error() string {
	return fmt.Sprintf("instantiating %s (%s): %v", e.Path, e.URL, e.Err)
}

func (e *InstantiationError) Unwrap() error { return e.Err }
