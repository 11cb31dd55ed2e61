package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_tokenizeSource_phraseSubstitution(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []string
	}{
		{name: "is equal to", input: "x is equal to 1", expect: []string{"x", "==", "1"}},
		{name: "is greater than or equal to, longest first", input: "x is greater than or equal to 1", expect: []string{"x", ">=", "1"}},
		{name: "is less than or equal to, longest first", input: "x is less than or equal to 1", expect: []string{"x", "<=", "1"}},
		{name: "bare is greater than still works", input: "x is greater than 1", expect: []string{"x", ">", "1"}},
		{name: "bare is less than still works", input: "x is less than 1", expect: []string{"x", "<", "1"}},
		{name: "is not equal to", input: "x is not equal to 1", expect: []string{"x", "!=", "1"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			raws, _ := tokenizeSource(tc.input)
			var got []string
			for _, r := range raws {
				got = append(got, r.text)
			}
			assert.Equal(t, tc.expect, got)
		})
	}
}

func Test_tokenizeSource_masterPattern(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []string
	}{
		{name: "integers", input: "1 23 456", expect: []string{"1", "23", "456"}},
		{name: "signed int", input: "-5", expect: []string{"-5"}},
		{name: "float", input: "3.14", expect: []string{"3.14"}},
		{name: "double-quoted string", input: `"hello world"`, expect: []string{`"hello world"`}},
		{name: "single-quoted string", input: `'hello'`, expect: []string{`'hello'`}},
		{name: "double equals is one token", input: "x == y", expect: []string{"x", "==", "y"}},
		{name: "not equal", input: "x != y", expect: []string{"x", "!=", "y"}},
		{name: "floor div", input: "x // y", expect: []string{"x", "//", "y"}},
		{name: "assignment vs equality", input: "x = 1", expect: []string{"x", "=", "1"}},
		{name: "punctuation", input: "f(x, y);", expect: []string{"f", "(", "x", ",", "y", ")", ";"}},
		{name: "brackets", input: "xs[0]", expect: []string{"xs", "[", "0", "]"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			raws, _ := tokenizeSource(tc.input)
			var got []string
			for _, r := range raws {
				got = append(got, r.text)
			}
			assert.Equal(t, tc.expect, got)
		})
	}
}

func Test_lex_classifiesKeywordsAndLiterals(t *testing.T) {
	src := `Define x as 5; Print(x);`
	raws, subbed := tokenizeSource(src)
	toks, err := lex(raws, subbed)
	require.NoError(t, err)

	var classes []tokenClass
	for _, tok := range toks {
		classes = append(classes, tok.class)
	}
	assert.Equal(t, []tokenClass{
		clsKeywordDefine, clsName, clsKeywordAs, clsNumLit, clsSemi,
		clsKeywordPrint, clsLParen, clsName, clsRParen, clsSemi,
		clsEOF,
	}, classes)
}

func Test_matchBracket(t *testing.T) {
	raws, subbed := tokenizeSource(`(1 + (2 * 3))`)
	toks, err := lex(raws, subbed)
	require.NoError(t, err)

	closeIdx, err := matchBracket(toks, 0)
	require.NoError(t, err)
	assert.Equal(t, toks[closeIdx].class, clsRParen)
	assert.Equal(t, len(toks)-2, closeIdx) // last real token before EOF

	_, err = matchBracket([]token{{class: clsLParen}, {class: clsEOF}}, 0)
	assert.Error(t, err)
}
