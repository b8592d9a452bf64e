// Package scanner tokenizes JavaScript, TypeScript and JSX source text.
//
// The scanner is driven by the parser: the grammar decides whether a slash
// starts a regular expression, when a closing brace resumes a template
// literal, and when raw JSX text is expected. Each call scans exactly one
// token; Save and Restore let the parser speculate and backtrack.
package scanner

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Mode adjusts how the next token is scanned.
type Mode uint8

const (
	// RegExpAllowed makes a leading '/' start a regular expression literal
	// instead of a division operator.
	RegExpAllowed Mode = 1 << iota
	// JSXName lets identifiers contain '-' (data-id, aria-label).
	JSXName
	// JSXAttr scans quoted strings without escape processing.
	JSXAttr
)

// Error is a lexical error at a source position.
type Error struct {
	Line int
	Col  int
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg) }

// State is a saved scanner position.
type State struct {
	pos       int
	line      int
	lineStart int
}

// Scanner iterates over source text one token at a time, tracking byte
// offsets and line numbers.
type Scanner struct {
	src       string
	pos       int
	line      int
	lineStart int
	newline   bool
}

// New creates a Scanner for src. A leading hashbang line is skipped.
func New(src string) *Scanner {
	s := &Scanner{src: src, line: 1}
	if strings.HasPrefix(src, "#!") {
		for s.pos < len(src) && src[s.pos] != '\n' && src[s.pos] != '\r' {
			s.pos++
		}
	}
	return s
}

// Src returns the full source text being scanned.
func (s *Scanner) Src() string { return s.src }

// Pos returns the current byte offset.
func (s *Scanner) Pos() int { return s.pos }

// Save captures the scanner position.
func (s *Scanner) Save() State { return State{pos: s.pos, line: s.line, lineStart: s.lineStart} }

// Restore rewinds the scanner to a saved position.
func (s *Scanner) Restore(st State) {
	s.pos, s.line, s.lineStart = st.pos, st.line, st.lineStart
}

// Rescan positions the scanner n bytes into tok, which must not span a
// line terminator. The parser uses it to split compound punctuators such
// as ">>" when closing type arguments or JSX tags.
func (s *Scanner) Rescan(tok Token, n int) {
	s.pos = tok.Start + n
	s.line = tok.Line
	s.lineStart = tok.Start - (tok.Col - 1)
}

func (s *Scanner) errorf(pos int, format string, args ...any) *Error {
	return &Error{Line: s.line, Col: pos - s.lineStart + 1, Msg: fmt.Sprintf(format, args...)}
}

func (s *Scanner) token(kind Kind, start int, value string) Token {
	return Token{
		Kind:          kind,
		Value:         value,
		Raw:           s.src[start:s.pos],
		Start:         start,
		End:           s.pos,
		Line:          s.line,
		Col:           start - s.lineStart + 1,
		NewlineBefore: s.newline,
	}
}

// Next scans the next token.
func (s *Scanner) Next(mode Mode) (Token, error) {
	if err := s.skipTrivia(); err != nil {
		return Token{}, err
	}
	start := s.pos
	startLine, startLineStart := s.line, s.lineStart
	if s.pos >= len(s.src) {
		return s.token(EOF, start, ""), nil
	}
	ch := s.src[s.pos]
	switch {
	case isIdentStart(ch) || ch >= utf8.RuneSelf && s.peekRuneIdentStart() || ch == '\\' && mode&JSXName == 0:
		name, err := s.scanIdent(mode&JSXName != 0)
		if err != nil {
			return Token{}, err
		}
		return s.token(Ident, start, name), nil
	case isDigit(ch) || ch == '.' && s.pos+1 < len(s.src) && isDigit(s.src[s.pos+1]):
		kind, err := s.scanNumber()
		if err != nil {
			return Token{}, err
		}
		return s.token(kind, start, s.src[start:s.pos]), nil
	case ch == '"' || ch == '\'':
		val, err := s.scanString(ch, mode&JSXAttr != 0)
		if err != nil {
			return Token{}, err
		}
		tok := s.token(String, start, val)
		tok.Line, tok.Col = startLine, start-startLineStart+1
		return tok, nil
	case ch == '`':
		s.pos++
		return s.scanTemplate(start, NoSubstTemplate, TemplateHead, startLine, startLineStart)
	case ch == '#':
		s.pos++
		if s.pos < len(s.src) && (isIdentStart(s.src[s.pos]) || s.src[s.pos] >= utf8.RuneSelf) {
			name, err := s.scanIdent(false)
			if err != nil {
				return Token{}, err
			}
			return s.token(PrivateName, start, "#"+name), nil
		}
		return Token{}, s.errorf(start, "unexpected character %q", '#')
	case ch == '/' && mode&RegExpAllowed != 0:
		if err := s.scanRegExp(); err != nil {
			return Token{}, err
		}
		return s.token(RegExp, start, s.src[start:s.pos]), nil
	}
	for _, p := range punctuators {
		if !strings.HasPrefix(s.src[s.pos:], p) {
			continue
		}
		// a?.5:b is a conditional, not optional chaining.
		if p == "?." && s.pos+2 < len(s.src) && isDigit(s.src[s.pos+2]) {
			continue
		}
		s.pos += len(p)
		return s.token(Punct, start, p), nil
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.pos:])
	return Token{}, s.errorf(start, "unexpected character %q", r)
}

// TemplateContinue scans the template piece that follows the closing brace
// of a substitution. closing is the "}" token the parser just consumed.
func (s *Scanner) TemplateContinue(closing Token) (Token, error) {
	s.Rescan(closing, 1)
	s.newline = false
	return s.scanTemplate(closing.Start, TemplateTail, TemplateMiddle, closing.Line, closing.Start-(closing.Col-1))
}

// JSXText scans raw text between JSX tags, stopping at '{' or '<'.
// The returned token may be empty.
func (s *Scanner) JSXText() Token {
	start := s.pos
	startLine, startLineStart := s.line, s.lineStart
	for s.pos < len(s.src) {
		ch := s.src[s.pos]
		if ch == '{' || ch == '<' {
			break
		}
		s.advanceByte()
	}
	tok := s.token(JSXText, start, s.src[start:s.pos])
	tok.Line, tok.Col = startLine, start-startLineStart+1
	tok.NewlineBefore = false
	return tok
}

// advanceByte consumes one byte, counting line terminators.
func (s *Scanner) advanceByte() {
	ch := s.src[s.pos]
	s.pos++
	switch ch {
	case '\n':
		s.newLine()
	case '\r':
		if s.pos < len(s.src) && s.src[s.pos] == '\n' {
			s.pos++
		}
		s.newLine()
	case 0xE2:
		// U+2028 and U+2029 are line terminators too.
		if s.pos+1 < len(s.src) && s.src[s.pos] == 0x80 && (s.src[s.pos+1] == 0xA8 || s.src[s.pos+1] == 0xA9) {
			s.pos += 2
			s.newLine()
		}
	}
}

func (s *Scanner) newLine() {
	s.line++
	s.lineStart = s.pos
}

func (s *Scanner) skipTrivia() error {
	s.newline = false
	for s.pos < len(s.src) {
		ch := s.src[s.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\v' || ch == '\f':
			s.pos++
		case ch == '\n' || ch == '\r':
			s.advanceByte()
			s.newline = true
		case ch == '/' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '/':
			for s.pos < len(s.src) && s.src[s.pos] != '\n' && s.src[s.pos] != '\r' {
				s.pos++
			}
		case ch == '/' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '*':
			start := s.pos
			end := strings.Index(s.src[s.pos+2:], "*/")
			if end < 0 {
				return s.errorf(start, "unterminated comment")
			}
			stop := s.pos + 2 + end + 2
			for s.pos < stop {
				line := s.line
				s.advanceByte()
				if s.line != line {
					s.newline = true
				}
			}
		case ch >= utf8.RuneSelf:
			r, size := utf8.DecodeRuneInString(s.src[s.pos:])
			switch {
			case r == '\u2028' || r == '\u2029':
				s.advanceByte()
				s.newline = true
			case r == '\ufeff' || r == '\u00a0' || unicode.Is(unicode.Zs, r):
				s.pos += size
			default:
				return nil
			}
		default:
			return nil
		}
	}
	return nil
}

func isDigit(ch byte) bool { return '0' <= ch && ch <= '9' }

func isIdentStart(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch == '$'
}

func isIdentPart(ch byte) bool { return isIdentStart(ch) || isDigit(ch) }

func (s *Scanner) peekRuneIdentStart() bool {
	r, _ := utf8.DecodeRuneInString(s.src[s.pos:])
	return unicode.IsLetter(r)
}

// scanIdent scans the rest of an identifier and returns its name with
// \u escapes decoded.
func (s *Scanner) scanIdent(jsx bool) (string, error) {
	start := s.pos
	var sb *strings.Builder // set once an escape is seen
	for s.pos < len(s.src) {
		ch := s.src[s.pos]
		if ch == '\\' && !jsx {
			if sb == nil {
				sb = &strings.Builder{}
				sb.WriteString(s.src[start:s.pos])
			}
			if err := s.scanIdentEscape(sb, s.pos == start); err != nil {
				return "", err
			}
			continue
		}
		size := 0
		switch {
		case isIdentPart(ch) || jsx && ch == '-':
			size = 1
		case ch >= utf8.RuneSelf:
			r, n := utf8.DecodeRuneInString(s.src[s.pos:])
			if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || r == '\u200c' || r == '\u200d' {
				size = n
			}
		}
		if size == 0 {
			break
		}
		if sb != nil {
			sb.WriteString(s.src[s.pos : s.pos+size])
		}
		s.pos += size
	}
	if sb != nil {
		return sb.String(), nil
	}
	return s.src[start:s.pos], nil
}

// scanIdentEscape decodes a \uXXXX or \u{X} escape inside an identifier.
func (s *Scanner) scanIdentEscape(sb *strings.Builder, first bool) error {
	at := s.pos
	if s.pos+1 >= len(s.src) || s.src[s.pos+1] != 'u' {
		return s.errorf(at, "invalid escape sequence in identifier")
	}
	var esc strings.Builder
	if err := s.scanEscape(&esc); err != nil {
		return err
	}
	r, _ := utf8.DecodeRuneInString(esc.String())
	ok := r == '_' || r == '$' || unicode.IsLetter(r)
	if !first {
		ok = ok || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || r == '\u200c' || r == '\u200d'
	}
	if !ok {
		return s.errorf(at, "invalid identifier character %q", r)
	}
	sb.WriteRune(r)
	return nil
}

func (s *Scanner) scanDigits(valid func(byte) bool) int {
	n := 0
	for s.pos < len(s.src) && (valid(s.src[s.pos]) || s.src[s.pos] == '_') {
		s.pos++
		n++
	}
	return n
}

func (s *Scanner) scanNumber() (Kind, error) {
	start := s.pos
	if s.src[s.pos] == '0' && s.pos+1 < len(s.src) {
		var valid func(byte) bool
		switch s.src[s.pos+1] {
		case 'x', 'X':
			valid = func(c byte) bool { return isDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F' }
		case 'o', 'O':
			valid = func(c byte) bool { return '0' <= c && c <= '7' }
		case 'b', 'B':
			valid = func(c byte) bool { return c == '0' || c == '1' }
		}
		if valid != nil {
			s.pos += 2
			if s.scanDigits(valid) == 0 {
				return 0, s.errorf(start, "invalid number literal")
			}
			return s.finishNumber(start, true)
		}
	}
	s.scanDigits(isDigit)
	if s.pos < len(s.src) && s.src[s.pos] == '.' {
		s.pos++
		s.scanDigits(isDigit)
	}
	if s.pos < len(s.src) && (s.src[s.pos] == 'e' || s.src[s.pos] == 'E') {
		s.pos++
		if s.pos < len(s.src) && (s.src[s.pos] == '+' || s.src[s.pos] == '-') {
			s.pos++
		}
		if s.scanDigits(isDigit) == 0 {
			return 0, s.errorf(start, "invalid number literal")
		}
	}
	return s.finishNumber(start, !strings.ContainsAny(s.src[start:s.pos], ".eE"))
}

func (s *Scanner) finishNumber(start int, integer bool) (Kind, error) {
	kind := Number
	if integer && s.pos < len(s.src) && s.src[s.pos] == 'n' {
		s.pos++
		kind = BigInt
	}
	if s.pos < len(s.src) && (isIdentStart(s.src[s.pos]) || isDigit(s.src[s.pos])) {
		return 0, s.errorf(start, "identifier starts immediately after numeric literal")
	}
	return kind, nil
}

// NumberValue converts the raw text of a Number token to its value.
func NumberValue(raw string) (float64, error) {
	clean := strings.ReplaceAll(raw, "_", "")
	if len(clean) > 2 && clean[0] == '0' {
		base := 0
		switch clean[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			v, err := strconv.ParseUint(clean[2:], base, 64)
			if err != nil {
				return 0, err
			}
			return float64(v), nil
		}
	}
	return strconv.ParseFloat(clean, 64)
}

func (s *Scanner) scanString(quote byte, raw bool) (string, error) {
	start := s.pos
	s.pos++
	var sb strings.Builder
	for {
		if s.pos >= len(s.src) {
			return "", s.errorf(start, "unterminated string literal")
		}
		ch := s.src[s.pos]
		switch {
		case ch == quote:
			s.pos++
			return sb.String(), nil
		case ch == '\\' && !raw:
			if err := s.scanEscape(&sb); err != nil {
				return "", err
			}
		case (ch == '\n' || ch == '\r') && !raw:
			return "", s.errorf(start, "unterminated string literal")
		case ch == '\n' || ch == '\r':
			s.advanceByte()
			sb.WriteByte('\n')
		default:
			sb.WriteByte(ch)
			s.pos++
		}
	}
}

// scanEscape decodes the escape sequence at s.pos (which holds '\\').
func (s *Scanner) scanEscape(sb *strings.Builder) error {
	start := s.pos
	s.pos++
	if s.pos >= len(s.src) {
		return s.errorf(start, "invalid escape sequence")
	}
	ch := s.src[s.pos]
	switch ch {
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'v':
		sb.WriteByte('\v')
	case '0':
		sb.WriteByte(0)
	case '\r', '\n':
		s.advanceByte()
		return nil
	case 'x':
		if s.pos+2 >= len(s.src) {
			return s.errorf(start, "invalid hexadecimal escape sequence")
		}
		v, err := strconv.ParseUint(s.src[s.pos+1:s.pos+3], 16, 8)
		if err != nil {
			return s.errorf(start, "invalid hexadecimal escape sequence")
		}
		sb.WriteRune(rune(v))
		s.pos += 2
	case 'u':
		var hex string
		if s.pos+1 < len(s.src) && s.src[s.pos+1] == '{' {
			end := strings.IndexByte(s.src[s.pos:], '}')
			if end < 0 {
				return s.errorf(start, "invalid unicode escape sequence")
			}
			hex = s.src[s.pos+2 : s.pos+end]
			s.pos += end
		} else {
			if s.pos+4 >= len(s.src) {
				return s.errorf(start, "invalid unicode escape sequence")
			}
			hex = s.src[s.pos+1 : s.pos+5]
			s.pos += 4
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil || v > unicode.MaxRune {
			return s.errorf(start, "invalid unicode escape sequence")
		}
		sb.WriteRune(rune(v))
	default:
		if ch >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(s.src[s.pos:])
			if r != '\u2028' && r != '\u2029' {
				sb.WriteRune(r)
			}
			s.pos += size
			return nil
		}
		sb.WriteByte(ch)
	}
	s.pos++
	return nil
}

// scanTemplate scans template characters up to the next "${" or closing
// backtick. start is the offset of the opening '`' or '}'.
func (s *Scanner) scanTemplate(start int, end, subst Kind, line, lineStart int) (Token, error) {
	newline := s.newline
	var sb strings.Builder
	for {
		if s.pos >= len(s.src) {
			return Token{}, &Error{Line: line, Col: start - lineStart + 1, Msg: "unterminated template literal"}
		}
		ch := s.src[s.pos]
		kind := Kind(-1)
		switch {
		case ch == '`':
			s.pos++
			kind = end
		case ch == '$' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '{':
			s.pos += 2
			kind = subst
		case ch == '\\':
			if err := s.scanEscape(&sb); err != nil {
				// Tagged templates may hold invalid escapes; keep the raw text.
				sb.WriteByte('\\')
			}
		case ch == '\n' || ch == '\r':
			s.advanceByte()
			sb.WriteByte('\n')
		default:
			sb.WriteByte(ch)
			s.pos++
		}
		if kind >= 0 {
			return Token{
				Kind:          kind,
				Value:         sb.String(),
				Raw:           s.src[start:s.pos],
				Start:         start,
				End:           s.pos,
				Line:          line,
				Col:           start - lineStart + 1,
				NewlineBefore: newline,
			}, nil
		}
	}
}

func (s *Scanner) scanRegExp() error {
	start := s.pos
	s.pos++
	inClass := false
	for {
		if s.pos >= len(s.src) {
			return s.errorf(start, "unterminated regular expression")
		}
		ch := s.src[s.pos]
		switch {
		case ch == '\n' || ch == '\r':
			return s.errorf(start, "unterminated regular expression")
		case ch == '\\':
			s.pos++
		case ch == '[':
			inClass = true
		case ch == ']':
			inClass = false
		case ch == '/' && !inClass:
			s.pos++
			_, err := s.scanIdent(false)
			return err
		}
		s.pos++
	}
}
