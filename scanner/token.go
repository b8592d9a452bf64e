package scanner

import "fmt"

// Kind classifies a token.
type Kind int

const (
	EOF Kind = iota
	Ident
	PrivateName // #field
	Number
	BigInt
	String
	NoSubstTemplate // `text` with no substitutions
	TemplateHead    // `text${
	TemplateMiddle  // }text${
	TemplateTail    // }text`
	RegExp
	Punct
	JSXText
)

var kindNames = [...]string{
	EOF:             "EOF",
	Ident:           "identifier",
	PrivateName:     "private name",
	Number:          "number",
	BigInt:          "bigint",
	String:          "string",
	NoSubstTemplate: "template",
	TemplateHead:    "template head",
	TemplateMiddle:  "template middle",
	TemplateTail:    "template tail",
	RegExp:          "regexp",
	Punct:           "punctuator",
	JSXText:         "jsx text",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a lexical token. Start and End are byte offsets into the
// source; Line and Col are 1-based and refer to Start.
type Token struct {
	Kind Kind
	// Value is the token text for identifiers and punctuators, the decoded
	// value for strings, and the cooked text for template pieces.
	Value string
	// Raw is the exact source text of the token.
	Raw   string
	Start int
	End   int
	Line  int
	Col   int
	// NewlineBefore reports a line terminator between this token and the
	// previous one. Automatic semicolon insertion depends on it.
	NewlineBefore bool
}

// Is reports whether t is the punctuator or identifier v.
func (t Token) Is(v string) bool {
	return (t.Kind == Punct || t.Kind == Ident) && t.Value == v
}

func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return "end of input"
	case Punct, Ident:
		return fmt.Sprintf("%q", t.Value)
	default:
		return t.Kind.String()
	}
}

// Keywords that can never be used as identifiers in module code.
var reserved = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true,
	"do": true, "else": true, "enum": true, "export": true, "extends": true,
	"false": true, "finally": true, "for": true, "function": true, "if": true,
	"import": true, "in": true, "instanceof": true, "new": true, "null": true,
	"return": true, "super": true, "switch": true, "this": true, "throw": true,
	"true": true, "try": true, "typeof": true, "var": true, "void": true,
	"while": true, "with": true,
}

// IsReserved reports whether name is a reserved word.
func IsReserved(name string) bool { return reserved[name] }

// punctuators ordered longest first so the scanner can take the first match.
var punctuators = []string{
	">>>=",
	"...", "===", "!==", "**=", "<<=", ">>=", ">>>", "&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<", ">>", "**",
	"{", "}", "(", ")", "[", "]", ";", ",", "<", ">", "+", "-", "*", "/",
	"%", "&", "|", "^", "!", "~", "?", ":", "=", ".", "@",
}
