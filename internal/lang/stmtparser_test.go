package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseModule_statementShapes(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		wantStmt func(t *testing.T, mod *Module)
	}{
		{
			name: "define with subscript target",
			src:  `Define xs[0] as 1;`,
			wantStmt: func(t *testing.T, mod *Module) {
				assign, ok := mod.Body[0].(*Assign)
				require.True(t, ok)
				_, ok = assign.Target.(*Subscript)
				assert.True(t, ok, "target should be a *Subscript, got %T", assign.Target)
			},
		},
		{
			name: "else-if chain nests as single Else statement",
			src:  `If (1 is equal to 1) { Print 1; } Else If (2 is equal to 2) { Print 2; } Else { Print 3; }`,
			wantStmt: func(t *testing.T, mod *Module) {
				outer, ok := mod.Body[0].(*If)
				require.True(t, ok)
				require.Len(t, outer.Else, 1)
				inner, ok := outer.Else[0].(*If)
				require.True(t, ok, "else-if should nest as a single *If, got %T", outer.Else[0])
				require.Len(t, inner.Else, 1)
				_, ok = inner.Else[0].(*Print)
				assert.True(t, ok)
			},
		},
		{
			name: "while with empty body",
			src:  `While (1 is equal to 2) { }`,
			wantStmt: func(t *testing.T, mod *Module) {
				w, ok := mod.Body[0].(*While)
				require.True(t, ok)
				assert.Empty(t, w.Body)
			},
		},
		{
			name: "multiple top level statements in source order",
			src:  `Define x as 1; Print x; Define x as 2;`,
			wantStmt: func(t *testing.T, mod *Module) {
				require.Len(t, mod.Body, 3)
				_, ok := mod.Body[0].(*Assign)
				assert.True(t, ok)
				_, ok = mod.Body[1].(*Print)
				assert.True(t, ok)
				_, ok = mod.Body[2].(*Assign)
				assert.True(t, ok)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mod, err := ParseClariPySource(tc.src)
			require.NoError(t, err)
			tc.wantStmt(t, mod)
		})
	}
}

func Test_ParseModule_syntaxErrors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{name: "define target is a literal", src: `Define 1 as 2;`},
		{name: "define missing as", src: `Define x 1;`},
		{name: "missing semicolon after assign", src: `Define x as 1`},
		{name: "missing semicolon after print", src: `Print 1`},
		{name: "unterminated if block", src: `If (1 is equal to 1) { Print 1;`},
		{name: "unknown leading keyword", src: `Foo(1);`},
		{name: "print with malformed expression", src: `Print 1 2;`},
		{name: "while missing condition parens", src: `While 1 is equal to 1 { }`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseClariPySource(tc.src)
			require.Error(t, err)
			assert.IsType(t, SyntaxError{}, err)
		})
	}
}

func Test_ParseModule_emptySource(t *testing.T) {
	mod, err := ParseClariPySource("")
	require.NoError(t, err)
	assert.Empty(t, mod.Body)
}

func Test_ParseModule_nestedBlocksAndConditions(t *testing.T) {
	src := `While (1 is less than 2) { If (1 is equal to 1) { Define x as 1; } Else { Define x as 2; } }`
	mod, err := ParseClariPySource(src)
	require.NoError(t, err)

	w, ok := mod.Body[0].(*While)
	require.True(t, ok)
	require.Len(t, w.Body, 1)

	inner, ok := w.Body[0].(*If)
	require.True(t, ok)
	require.Len(t, inner.Then, 1)
	require.Len(t, inner.Else, 1)
}
