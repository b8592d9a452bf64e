package script

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode"
)

// ErrInvalidPath is wrapped by every path validation error.
var ErrInvalidPath = errors.New("invalid path")

// Extensions lists the script extensions in the order an import without
// one is resolved.
var Extensions = []string{".js", ".jsx", ".ts", ".tsx"}

// forbidden characters in a file path.
const forbidden = `*?[]!\~|#"'`

// IsScript reports whether p has a script extension.
func IsScript(p string) bool {
	ext := path.Ext(p)
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// IsURL reports whether spec is a network URL rather than a script path.
func IsURL(spec string) bool {
	return strings.HasPrefix(spec, "http://") || strings.HasPrefix(spec, "https://")
}

// ResolvePath turns raw into a canonical path relative to the server root,
// without a leading slash. "./" and "../" are relative to the directory of
// base; a leading "/" or a bare name is relative to the root.
func ResolvePath(raw, base string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	if strings.ContainsAny(raw, forbidden) {
		return "", fmt.Errorf("%w: %q contains a forbidden character", ErrInvalidPath, raw)
	}
	if strings.IndexFunc(raw, unicode.IsSpace) >= 0 {
		return "", fmt.Errorf("%w: %q contains whitespace", ErrInvalidPath, raw)
	}
	if strings.HasSuffix(raw, "/") {
		return "", fmt.Errorf("%w: %q is a directory", ErrInvalidPath, raw)
	}

	var segs []string
	if strings.HasPrefix(raw, "./") || strings.HasPrefix(raw, "../") {
		segs = appendSegments(nil, path.Dir(strings.TrimPrefix(base, "/")))
	}
	for _, seg := range strings.Split(raw, "/") {
		if seg != ".." {
			segs = appendSegments(segs, seg)
			continue
		}
		if len(segs) == 0 {
			return "", fmt.Errorf("%w: %q is outside the root directory", ErrInvalidPath, raw)
		}
		segs = segs[:len(segs)-1]
	}
	if len(segs) == 0 {
		return "", fmt.Errorf("%w: %q names the root directory", ErrInvalidPath, raw)
	}
	return strings.Join(segs, "/"), nil
}

func appendSegments(segs []string, p string) []string {
	for _, seg := range strings.Split(p, "/") {
		if seg != "" && seg != "." {
			segs = append(segs, seg)
		}
	}
	return segs
}

// ResolveImport maps an import specifier found in the script at from to
// the path of a sibling script. An exact match wins; otherwise each of
// Extensions is tried in order. When nothing matches, the best canonical
// guess (or spec itself if it is not a valid path) is returned with false.
func ResolveImport(spec, from string, scripts Lookup) (string, bool) {
	p, err := ResolvePath(spec, from)
	if err != nil {
		return spec, false
	}
	if _, ok := scripts.Script(p); ok {
		return p, true
	}
	for _, ext := range Extensions {
		if _, ok := scripts.Script(p + ext); ok {
			return p + ext, true
		}
	}
	return p, false
}
