package symbols_test

import (
	"context"
	"io"
	"strings"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/stretchr/testify/require"

	"github.com/sensmetry/sysand/internal/symbols"
)

// treeSitterFixture stands in for the real kerml/sysml tokenizer: it
// satisfies symbols.Extractor using go-tree-sitter's Go grammar, just to
// prove the contract shape end to end. It is not, and is never meant to
// become, sysand's real extractor — that tool lives outside this repo
// per spec.md §4.C.
type treeSitterFixture struct{}

func (treeSitterFixture) Extract(r io.Reader, language string) ([]symbols.Symbol, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, &symbols.ExtractError{Msg: err.Error()}
	}

	var out []symbols.Symbol
	root := tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != "function_declaration" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := nameNode.Content(src)
		point := nameNode.StartPoint()
		out = append(out, symbols.Symbol{
			Name:      name,
			ShortName: name,
			At:        symbols.Position{Line: int(point.Row) + 1, Column: int(point.Column) + 1},
		})
	}
	return out, nil
}

func TestExtractorContractShape(t *testing.T) {
	var extractor symbols.Extractor = treeSitterFixture{}

	syms, err := extractor.Extract(
		strings.NewReader("package demo\n\nfunc Alpha() {}\n\nfunc beta() {}\n"),
		symbols.LanguageForExt(".kerml"),
	)
	require.NoError(t, err)
	require.Len(t, syms, 2)
	require.Equal(t, "Alpha", syms[0].Name)
	require.Equal(t, "beta", syms[1].Name)
}
