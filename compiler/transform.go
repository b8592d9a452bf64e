package compiler

import (
	"fmt"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/rubiojr/netscript/parser"
)

// Transform turns typed and JSX source into plain ES module JavaScript.
// Plain scripts are returned unchanged.
func Transform(path, code string) (string, error) {
	var loader api.Loader
	switch parser.DialectFor(path) {
	case parser.Plain:
		return code, nil
	case parser.Typed:
		loader = api.LoaderTS
	case parser.JSX:
		loader = api.LoaderJSX
	default:
		loader = api.LoaderTSX
	}

	res := api.Transform(code, api.TransformOptions{
		Loader:      loader,
		Format:      api.FormatESModule,
		Target:      api.ES2022,
		Sourcefile:  path,
		JSXFactory:  "React.createElement",
		JSXFragment: "React.Fragment",
	})
	if len(res.Errors) > 0 {
		msgs := make([]string, len(res.Errors))
		for i, m := range res.Errors {
			if m.Location != nil {
				msgs[i] = fmt.Sprintf("%d:%d: %s", m.Location.Line, m.Location.Column+1, m.Text)
			} else {
				msgs[i] = m.Text
			}
		}
		return "", &TransformError{Path: path, Messages: msgs}
	}
	return string(res.Code), nil
}
