package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_BuildDisplayTree_labelsAndStructure(t *testing.T) {
	mod, err := ParseClariPySource(`Define x as 2;
If (x is equal to 1) {
    Print "a";
} Else {
    Print "c";
}`)
	require.NoError(t, err)

	tree := BuildDisplayTree(mod)
	assert.Equal(t, "Module", tree.Label)
	require.Len(t, tree.Children, 2)

	assign := tree.Children[0]
	assert.Equal(t, "Assign", assign.Label)

	branch := tree.Children[1]
	assert.Equal(t, "Branch", branch.Label)
	require.Len(t, branch.Children, 3)
	// With an else clause present, Orelse is inserted before Conditon/If-Body,
	// matching the original visualizer's insertion order exactly.
	assert.Equal(t, "Orelse", branch.Children[0].Label)
	assert.Equal(t, "Conditon", branch.Children[1].Label) // sic - preserved verbatim
	assert.Equal(t, "If-Body", branch.Children[2].Label)
}

func Test_BuildDisplayTree_whileUsesCorrectlySpelledCondition(t *testing.T) {
	mod, err := ParseClariPySource(`While (1 is less than 2) { Print 1; }`)
	require.NoError(t, err)

	tree := BuildDisplayTree(mod)
	require.Len(t, tree.Children, 1)
	while := tree.Children[0]
	assert.Equal(t, "While Loop", while.Label)
	require.Len(t, while.Children, 2)
	assert.Equal(t, "Condition", while.Children[0].Label)
	assert.Equal(t, "Body", while.Children[1].Label)
}

func Test_BuildDisplayTree_ifWithoutElseHasTwoChildren(t *testing.T) {
	mod, err := ParseClariPySource(`If (1 is equal to 1) { Print 1; }`)
	require.NoError(t, err)

	tree := BuildDisplayTree(mod)
	branch := tree.Children[0]
	require.Len(t, branch.Children, 2)
	assert.Equal(t, "Conditon", branch.Children[0].Label)
	assert.Equal(t, "If-Body", branch.Children[1].Label)
}

func Test_BuildDisplayTree_binOpAndSubscript(t *testing.T) {
	mod, err := ParseClariPySource(`Define xs as [1, 2]; Print xs[0] + 1;`)
	require.NoError(t, err)

	tree := BuildDisplayTree(mod)
	printStmt := tree.Children[1]
	assert.Equal(t, "Print", printStmt.Label)
	binOp := printStmt.Children[0]
	assert.Equal(t, "Binary Op.", binOp.Label)
	require.Len(t, binOp.Children, 3)
	assert.Equal(t, "List Index", binOp.Children[0].Label)
	assert.Equal(t, "+", binOp.Children[1].Label)
}
