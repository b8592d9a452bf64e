package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string, mode Mode) []Token {
	t.Helper()
	s := New(src)
	var toks []Token
	for {
		tok, err := s.Next(mode)
		require.NoError(t, err)
		if tok.Kind == EOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func values(toks []Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Raw
	}
	return out
}

func TestPunctuatorsLongestMatch(t *testing.T) {
	toks := scanAll(t, "a >>>= b?.c ?? d", 0)
	assert.Equal(t, []string{"a", ">>>=", "b", "?.", "c", "??", "d"}, values(toks))
}

func TestOptionalChainBeforeDigit(t *testing.T) {
	toks := scanAll(t, "a?.5:b", 0)
	assert.Equal(t, []string{"a", "?", ".5", ":", "b"}, values(toks))
	assert.Equal(t, Number, toks[2].Kind)
}

func TestRegExpMode(t *testing.T) {
	s := New("/ab[/]c/g")
	tok, err := s.Next(RegExpAllowed)
	require.NoError(t, err)
	assert.Equal(t, RegExp, tok.Kind)
	assert.Equal(t, "/ab[/]c/g", tok.Raw)

	toks := scanAll(t, "a / 2", 0)
	assert.Equal(t, Punct, toks[1].Kind)
	assert.Equal(t, "/", toks[1].Value)
}

func TestStrings(t *testing.T) {
	toks := scanAll(t, `'a\nb' "A\x42" "\u{1F600}"`, 0)
	require.Len(t, toks, 3)
	assert.Equal(t, "a\nb", toks[0].Value)
	assert.Equal(t, "AB", toks[1].Value)
	assert.Equal(t, "\U0001F600", toks[2].Value)
	assert.Equal(t, `"A\x42"`, toks[1].Raw)
}

func TestPositions(t *testing.T) {
	toks := scanAll(t, "a\n  b /* x\n */ c // d\ne", 0)
	require.Len(t, toks, 4)

	assert.False(t, toks[0].NewlineBefore)
	assert.Equal(t, 2, toks[1].Line)
	assert.Equal(t, 3, toks[1].Col)
	assert.True(t, toks[1].NewlineBefore)
	assert.True(t, toks[2].NewlineBefore, "block comment spanning lines")
	assert.Equal(t, 3, toks[2].Line)
	assert.True(t, toks[3].NewlineBefore)
	assert.Equal(t, 4, toks[3].Line)
}

func TestTemplates(t *testing.T) {
	s := New("`a${x}b`")
	head, err := s.Next(0)
	require.NoError(t, err)
	assert.Equal(t, TemplateHead, head.Kind)
	assert.Equal(t, "a", head.Value)

	x, err := s.Next(0)
	require.NoError(t, err)
	assert.Equal(t, "x", x.Value)

	closing, err := s.Next(0)
	require.NoError(t, err)
	require.True(t, closing.Is("}"))

	tail, err := s.TemplateContinue(closing)
	require.NoError(t, err)
	assert.Equal(t, TemplateTail, tail.Kind)
	assert.Equal(t, "b", tail.Value)
	assert.Equal(t, "}b`", tail.Raw)
}

func TestJSX(t *testing.T) {
	s := New("hello {x}")
	text := s.JSXText()
	assert.Equal(t, JSXText, text.Kind)
	assert.Equal(t, "hello ", text.Value)

	toks := scanAll(t, "data-id aria-label", JSXName)
	assert.Equal(t, []string{"data-id", "aria-label"}, values(toks))

	s = New(`"a\nb"`)
	tok, err := s.Next(JSXAttr)
	require.NoError(t, err)
	assert.Equal(t, `a\nb`, tok.Value)
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"0x1F", 31},
		{"1_000", 1000},
		{"1.5e2", 150},
		{"0b101", 5},
		{"0o17", 15},
		{".25", 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v, err := NumberValue(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}

	toks := scanAll(t, "10n", 0)
	assert.Equal(t, BigInt, toks[0].Kind)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"'abc", "1:1: unterminated string literal"},
		{"x = 1abc", "1:5: identifier starts immediately after numeric literal"},
		{"a /* x", "1:3: unterminated comment"},
		{"`abc", "1:1: unterminated template literal"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			s := New(tt.src)
			var err error
			for err == nil {
				var tok Token
				tok, err = s.Next(0)
				if tok.Kind == EOF && err == nil {
					t.Fatal("expected an error")
				}
			}
			var se *Error
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestHashbangAndPrivateNames(t *testing.T) {
	toks := scanAll(t, "#!/usr/bin/env node\nthis.#x", 0)
	require.Len(t, toks, 3)
	assert.Equal(t, 2, toks[0].Line)
	assert.Equal(t, PrivateName, toks[2].Kind)
	assert.Equal(t, "#x", toks[2].Value)
}

func TestSaveRestoreAndRescan(t *testing.T) {
	s := New("a >> b")
	_, err := s.Next(0)
	require.NoError(t, err)

	st := s.Save()
	shift, err := s.Next(0)
	require.NoError(t, err)
	assert.Equal(t, ">>", shift.Value)

	s.Restore(st)
	again, err := s.Next(0)
	require.NoError(t, err)
	assert.Equal(t, shift, again)

	s.Rescan(shift, 1)
	gt, err := s.Next(0)
	require.NoError(t, err)
	assert.Equal(t, ">", gt.Value)
	assert.Equal(t, 3, gt.Start)
}

func TestReserved(t *testing.T) {
	assert.True(t, IsReserved("while"))
	assert.False(t, IsReserved("let"))
	assert.False(t, IsReserved("ns"))
}

func TestIdentifierEscapes(t *testing.T) {
	toks := scanAll(t, `\u0061b a\u{62} #x`, 0)
	require.Len(t, toks, 3)
	assert.Equal(t, Ident, toks[0].Kind)
	assert.Equal(t, "ab", toks[0].Value)
	assert.Equal(t, `\u0061b`, toks[0].Raw)
	assert.Equal(t, "ab", toks[1].Value)
	assert.Equal(t, PrivateName, toks[2].Kind)
	assert.Equal(t, "#x", toks[2].Value)

	for _, src := range []string{`\x61`, `\u0031a`, `\u{zz}`} {
		_, err := New(src).Next(0)
		assert.Error(t, err, src)
	}
}
