package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParsePyLite_basic(t *testing.T) {
	src := "x = (2 + 3) * 4\n" +
		"print(x)\n"

	mod, err := ParsePyLite(src)
	require.NoError(t, err)
	require.Len(t, mod.Body, 2)

	assign, ok := mod.Body[0].(*Assign)
	require.True(t, ok)
	name, ok := assign.Target.(*Name)
	require.True(t, ok)
	assert.Equal(t, "x", name.Ident)

	env := NewEnv(nil)
	var out []string
	env.out = func(s string) { out = append(out, s) }
	require.NoError(t, Run(mod, env))
	assert.Equal(t, []string{"20"}, out)
}

func Test_ParsePyLite_ifElifElse(t *testing.T) {
	src := "x = 2\n" +
		"if x == 1:\n" +
		"    print(\"a\")\n" +
		"elif x == 2:\n" +
		"    print(\"b\")\n" +
		"else:\n" +
		"    print(\"c\")\n"

	mod, err := ParsePyLite(src)
	require.NoError(t, err)

	env := NewEnv(nil)
	var out []string
	env.out = func(s string) { out = append(out, s) }
	require.NoError(t, Run(mod, env))
	assert.Equal(t, []string{"b"}, out)
}

func Test_ParsePyLite_whileLoop(t *testing.T) {
	src := "x = 0\n" +
		"while x < 5:\n" +
		"    x = x + 1\n" +
		"print(x)\n"

	mod, err := ParsePyLite(src)
	require.NoError(t, err)

	env := NewEnv(nil)
	var out []string
	env.out = func(s string) { out = append(out, s) }
	require.NoError(t, Run(mod, env))
	assert.Equal(t, []string{"5"}, out)
}

func Test_TranslateToClariPy_shape(t *testing.T) {
	src := "xs = [10, 20, 30]\n" +
		"print(xs[1])\n"

	mod, err := ParsePyLite(src)
	require.NoError(t, err)

	printed := PrintClariPy(mod)
	reparsed, err := ParseClariPySource(printed)
	require.NoError(t, err)
	assert.Equal(t, astShape(mod), astShape(reparsed))
}
