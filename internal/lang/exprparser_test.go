package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// evalExpr parses src as a single Print statement's argument and returns
// the single value it prints, for tests that only care about the value an
// expression reduces to rather than the full statement grammar.
func evalExpr(t *testing.T, exprSrc string) Value {
	t.Helper()
	out, _ := runClariPy(t, "Print "+exprSrc+";")
	require.Len(t, out, 1)
	mod, err := ParseClariPySource("Print " + exprSrc + ";")
	require.NoError(t, err)
	print := mod.Body[0].(*Print)
	env := NewEnv(nil)
	v, err := print.Arg.evaluate(env)
	require.NoError(t, err)
	return v
}

func Test_ParseExpr_precedence(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		want Value
	}{
		{name: "mul binds tighter than add", src: "2 + 3 * 4", want: NewInt(14)},
		{name: "parens override precedence", src: "(2 + 3) * 4", want: NewInt(20)},
		{name: "div and mod share tier with mul, left to right", src: "20 / 2 * 5", want: NewFloat(50)},
		{name: "unary minus before binary add", src: "-3 + 5", want: NewInt(2)},
		{name: "unary minus before mul", src: "-2 * 3", want: NewInt(-6)},
		{name: "compare binds looser than add", src: "1 + 1 is equal to 2", want: NewBool(true)},
		{name: "and binds looser than compare", src: "1 is equal to 1 and 2 is equal to 2", want: NewBool(true)},
		{name: "or short form still both-sides", src: "1 is equal to 2 or 3 is equal to 3", want: NewBool(true)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := evalExpr(t, tc.src)
			assert.True(t, tc.want.Equal(got), "want %v, got %v", tc.want, got)
		})
	}
}

func Test_ParseExpr_leftAssociativity(t *testing.T) {
	// Subtraction and division are not commutative, so left-associativity
	// is directly observable: a naive right-fold would give a different
	// answer than the one below.
	got := evalExpr(t, "10 - 2 - 3")
	assert.True(t, NewInt(5).Equal(got))

	got = evalExpr(t, "100 / 10 / 2")
	assert.True(t, NewFloat(5).Equal(got))
}

func Test_ParseExpr_listAndSubscript(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		want Value
	}{
		{name: "empty list literal", src: "[]", want: NewList(nil)},
		{name: "nested list literal", src: "[1, [2, 3]]", want: NewList([]Value{NewInt(1), NewList([]Value{NewInt(2), NewInt(3)})})},
		{name: "subscript with expression index", src: "[10, 20, 30][1 + 1]", want: NewInt(30)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := evalExpr(t, tc.src)
			assert.True(t, tc.want.Equal(got), "want %v, got %v", tc.want, got)
		})
	}
}

func Test_ParseExpr_syntaxErrors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{name: "dangling operator", src: "1 +"},
		{name: "empty input", src: ""},
		{name: "unmatched paren", src: "(1 + 2"},
		{name: "unmatched bracket", src: "[1, 2"},
		{name: "missing comma in list", src: "[1 2]"},
		{name: "two operands with no operator", src: "1 2"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			toks := tokensFor(t, tc.src)
			_, err := parseExpr(toks)
			require.Error(t, err)
		})
	}
}

// tokensFor lexes src (an expression fragment, not a full statement) into a
// bare token slice for direct parseExpr calls, trimming the trailing EOF
// token parseExpr does not expect to see in its input.
func tokensFor(t *testing.T, src string) []token {
	t.Helper()
	raws, subbed := tokenizeSource(src)
	toks, err := lex(raws, subbed)
	require.NoError(t, err)
	if len(toks) > 0 && toks[len(toks)-1].is(clsEOF) {
		toks = toks[:len(toks)-1]
	}
	return toks
}

func Test_ParseExpr_emptyTokensIsInternalError(t *testing.T) {
	_, err := parseExpr(nil)
	require.Error(t, err)
	assert.IsType(t, InternalError{}, err)
}
