package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanTypes(t *testing.T, src string) []TokenType {
	t.Helper()

	toks, err := NewLexer(src).Scan()
	require.NoError(t, err)

	types := make([]TokenType, 0, len(toks))
	for _, tok := range toks {
		types = append(types, tok.Type)
	}

	return types
}

func TestLexerBasicTokens(t *testing.T) {
	types := scanTypes(t, "let x = 42;")

	assert.Equal(t, []TokenType{KwLet, IDENT, Assign, NUMBER, Semi, EOF}, types)
}

func TestLexerOffsetsAreHalfOpen(t *testing.T) {
	src := "foo bar"

	toks, err := NewLexer(src).Scan()
	require.NoError(t, err)
	require.Len(t, toks, 3)

	assert.Equal(t, "foo", src[toks[0].Start:toks[0].End])
	assert.Equal(t, "bar", src[toks[1].Start:toks[1].End])
	assert.Equal(t, 1, toks[0].Col)
	assert.Equal(t, 5, toks[1].Col)
}

func TestLexerCommentsAreSkipped(t *testing.T) {
	types := scanTypes(t, "a // line\n/* block\nstill */ b")

	assert.Equal(t, []TokenType{IDENT, IDENT, EOF}, types)
}

func TestLexerTemplateIsOneToken(t *testing.T) {
	src := "const t = `v=${a + fn({x: 1})} end`;"

	toks, err := NewLexer(src).Scan()
	require.NoError(t, err)

	var tmpl *Token

	for i := range toks {
		if toks[i].Type == TEMPLATE {
			tmpl = &toks[i]
		}
	}

	require.NotNil(t, tmpl)
	assert.Equal(t, "`v=${a + fn({x: 1})} end`", tmpl.Lexeme)
}

func TestLexerNestedTemplate(t *testing.T) {
	src := "`outer ${`inner ${x}`} tail`"

	toks, err := NewLexer(src).Scan()
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, TEMPLATE, toks[0].Type)
	assert.Equal(t, src, toks[0].Lexeme)
}

func TestLexerRegexVersusDivision(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []TokenType
	}{
		{"regex after assign", "a = /ab+c/g", []TokenType{IDENT, Assign, REGEX, EOF}},
		{"division after ident", "a / b", []TokenType{IDENT, Slash, IDENT, EOF}},
		{"regex after lparen", "m(/x/)", []TokenType{IDENT, LParen, REGEX, RParen, EOF}},
		{"division after rparen", "(a) / b", []TokenType{LParen, IDENT, RParen, Slash, IDENT, EOF}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, scanTypes(t, tc.src))
		})
	}
}

func TestLexerCompoundOperators(t *testing.T) {
	cases := []struct {
		src  string
		want TokenType
	}{
		{"...", Ellipsis},
		{"?.", OptChain},
		{"??", Nullish},
		{"??=", NullishAssign},
		{"=>", Arrow},
		{"===", StrictEq},
		{"!==", StrictNotEq},
		{"**", Pow},
		{"**=", PowAssign},
		{">>>", UShr},
		{">>>=", UShrAssign},
		{"&&=", AndAndAssign},
	}

	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			types := scanTypes(t, tc.src)
			require.Len(t, types, 2)
			assert.Equal(t, tc.want, types[0])
		})
	}
}

func TestLexerOptChainNotBeforeDigit(t *testing.T) {
	// a?.5:b is a conditional with a fractional literal, not optional
	// chaining.
	types := scanTypes(t, "a?.5:b")

	assert.Equal(t, []TokenType{IDENT, Question, NUMBER, Colon, IDENT, EOF}, types)
}

func TestLexerNumbers(t *testing.T) {
	cases := []struct {
		src string
	}{
		{"0"}, {"42"}, {"3.14"}, {".5"}, {"0xFF"}, {"1e9"}, {"2.5e-3"},
	}

	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			toks, err := NewLexer(tc.src).Scan()
			require.NoError(t, err)
			require.Len(t, toks, 2)
			assert.Equal(t, NUMBER, toks[0].Type)
			assert.Equal(t, tc.src, toks[0].Lexeme)
		})
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	_, err := NewLexer(`"oops`).Scan()

	var lexErr *LexError

	require.ErrorAs(t, err, &lexErr)
	assert.Contains(t, lexErr.Msg, "unterminated")
}

func TestLexerLineTracking(t *testing.T) {
	toks, err := NewLexer("a\n  b").Scan()
	require.NoError(t, err)
	require.Len(t, toks, 3)

	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 2, toks[1].Line)
	assert.Equal(t, 3, toks[1].Col)
}

func TestLexerAtShiftsOffsets(t *testing.T) {
	toks, err := NewLexerAt("x + y", 100, 4, 7).Scan()
	require.NoError(t, err)
	require.Len(t, toks, 4)

	assert.Equal(t, 100, toks[0].Start)
	assert.Equal(t, 4, toks[0].Line)
	assert.Equal(t, 7, toks[0].Col)
	assert.Equal(t, 104, toks[2].Start)
}
