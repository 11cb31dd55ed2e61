package lang

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runClariPy parses and evaluates src, returning everything Print wrote
// (one entry per call) and the final environment.
func runClariPy(t *testing.T, src string) ([]string, *Env) {
	t.Helper()
	mod, err := ParseClariPySource(src)
	require.NoError(t, err)

	var out []string
	env := NewEnv(func(s string) { out = append(out, s) })
	err = Run(mod, env)
	require.NoError(t, err)
	return out, env
}

func Test_Eval_scenarios(t *testing.T) {
	testCases := []struct {
		name       string
		src        string
		expectOut  []string
		expectVars map[string]Value
	}{
		{
			name:       "arithmetic precedence",
			src:        `Define x as (2 + 3) * 4; Print x;`,
			expectOut:  []string{"20"},
			expectVars: map[string]Value{"x": NewInt(20)},
		},
		{
			name:       "while loop with compound update",
			src:        `Define x as 0; While (x is less than 5) { Define x as x + 1; } Print x;`,
			expectOut:  []string{"5"},
			expectVars: map[string]Value{"x": NewInt(5)},
		},
		{
			name:      "if else-if chain",
			src:       `Define x as 2; If (x is equal to 1) { Print "a"; } Else If (x is equal to 2) { Print "b"; } Else { Print "c"; }`,
			expectOut: []string{"b"},
		},
		{
			name:       "list index read and write",
			src:        `Define xs as [10, 20, 30]; Define xs[1] as 99; Print xs[1];`,
			expectOut:  []string{"99"},
			expectVars: map[string]Value{"xs": NewList([]Value{NewInt(10), NewInt(99), NewInt(30)})},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, env := runClariPy(t, tc.src)
			assert.Equal(t, tc.expectOut, out)
			for name, want := range tc.expectVars {
				got, ok := env.get(name)
				require.Truef(t, ok, "expected %s to be defined", name)
				assert.True(t, want.Equal(got), "%s: want %v, got %v", name, want, got)
			}
		})
	}
}

func Test_Eval_errors(t *testing.T) {
	testCases := []struct {
		name    string
		src     string
		errType any
	}{
		{name: "type error", src: `Define x as "a" - 1;`, errType: TypeError{}},
		{name: "name error", src: `Print y;`, errType: NameError{}},
		{name: "index error", src: `Define xs as [1]; Print xs[5];`, errType: IndexError{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mod, err := ParseClariPySource(tc.src)
			require.NoError(t, err)
			env := NewEnv(nil)
			err = Run(mod, env)
			require.Error(t, err)
			assert.IsType(t, tc.errType, err)
		})
	}
}

func Test_Eval_boolOpNotShortCircuiting(t *testing.T) {
	// Both sides of and/or must be evaluated even when the left side alone
	// determines the boolean outcome; a subscript-out-of-range on the right
	// operand must still surface as an error.
	mod, err := ParseClariPySource(`Define xs as [1]; Print False and xs[99];`)
	require.NoError(t, err)
	env := NewEnv(nil)
	err = Run(mod, env)
	require.Error(t, err)
	assert.IsType(t, IndexError{}, err)
}

func Test_Eval_andOrReturnOperandValue(t *testing.T) {
	out, _ := runClariPy(t, `Print 0 or "fallback"; Print 5 and "last";`)
	require.Len(t, out, 2)
	assert.Equal(t, "fallback", out[0])
	assert.Equal(t, "last", out[1])
}

func Test_PrintClariPy_roundTrip(t *testing.T) {
	src := `Define x as (2 + 3) * 4;
Print x;
`
	mod, err := ParseClariPySource(src)
	require.NoError(t, err)

	printed := PrintClariPy(mod)
	reparsed, err := ParseClariPySource(printed)
	require.NoError(t, err)

	assert.Equal(t, astShape(mod), astShape(reparsed))
}

// astShape renders a Module's structural shape (not its exact source text)
// for round-trip structural-equality assertions, since PrintClariPy's
// whitespace need not match the original formatting byte-for-byte.
func astShape(mod *Module) string {
	var b strings.Builder
	for _, stmt := range mod.Body {
		b.WriteString(shapeOf(stmt))
		b.WriteString(";")
	}
	return b.String()
}

func shapeOf(n Node) string {
	switch v := n.(type) {
	case *Num:
		return v.Value.String()
	case *Str:
		return "Str(" + v.Value + ")"
	case *Bool:
		return boolLiteralString(v.Value)
	case *Name:
		return "Name(" + v.Ident + ")"
	case *ListLit:
		var b strings.Builder
		b.WriteString("List(")
		for _, e := range v.Elems {
			b.WriteString(shapeOf(e))
			b.WriteString(",")
		}
		b.WriteString(")")
		return b.String()
	case *Subscript:
		return "Subscript(" + shapeOf(v.Target) + "," + shapeOf(v.Index) + ")"
	case *BinOp:
		return "BinOp(" + shapeOf(v.Left) + v.Op + shapeOf(v.Right) + ")"
	case *BoolOp:
		return "BoolOp(" + shapeOf(v.Left) + v.Op + shapeOf(v.Right) + ")"
	case *Assign:
		return "Assign(" + shapeOf(v.Target) + "," + shapeOf(v.Value) + ")"
	case *Print:
		return "Print(" + shapeOf(v.Arg) + ")"
	case *While:
		var b strings.Builder
		b.WriteString("While(" + shapeOf(v.Cond) + ",")
		for _, s := range v.Body {
			b.WriteString(shapeOf(s))
			b.WriteString(";")
		}
		b.WriteString(")")
		return b.String()
	case *If:
		var b strings.Builder
		b.WriteString("If(" + shapeOf(v.Cond) + ",")
		for _, s := range v.Then {
			b.WriteString(shapeOf(s))
			b.WriteString(";")
		}
		b.WriteString(",")
		for _, s := range v.Else {
			b.WriteString(shapeOf(s))
			b.WriteString(";")
		}
		b.WriteString(")")
		return b.String()
	default:
		return "?"
	}
}
