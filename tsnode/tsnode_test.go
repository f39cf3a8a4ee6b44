package tsnode

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseGoSourceHasNoError(t *testing.T) {
	lang, err := Language("go")
	require.NoError(t, err)

	parser, err := NewParser(lang)
	require.NoError(t, err)

	source := []byte("package main\n\nfunc add(a, b int) int {\n\treturn a + b\n}\n")
	tree, err := parser.Parse(context.Background(), source)
	require.NoError(t, err)
	require.False(t, tree.HasError())

	root := tree.RootNode()
	require.Equal(t, "source_file", root.Kind())
	require.Greater(t, root.NamedChildCount(), 0)
}

func TestQueryMatchesFunctionDeclarations(t *testing.T) {
	lang, err := Language("go")
	require.NoError(t, err)

	parser, err := NewParser(lang)
	require.NoError(t, err)

	source := []byte("package main\n\nfunc add(a, b int) int {\n\treturn a + b\n}\n\nfunc sub(a, b int) int {\n\treturn a - b\n}\n")
	tree, err := parser.Parse(context.Background(), source)
	require.NoError(t, err)

	compiler := Compiler{}
	query, err := compiler.Compile(lang, `(function_declaration name: (identifier) @func.name)`)
	require.NoError(t, err)

	matches, err := query.Matches(tree.RootNode(), source)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		for _, c := range m.CapturesNamed("func.name") {
			names = append(names, string(c.Node.Text()))
		}
	}
	require.ElementsMatch(t, []string{"add", "sub"}, names)
}

func TestUnsupportedLanguage(t *testing.T) {
	_, err := Language("cobol")
	require.Error(t, err)
}
