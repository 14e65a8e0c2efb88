// Package kotlin lowers Kotlin sources parsed by tree-sitter into syntax trees.
package kotlin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	grammar "github.com/alexaandru/go-sitter-forest/kotlin"
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// Sentinel errors for the Kotlin frontend.
var (
	ErrLanguageNotAvailable = errors.New("kotlin: tree-sitter language not available")
	errNoRootNode           = errors.New("kotlin: no root node")
	errPoolType             = errors.New("kotlin: pool returned unexpected type")
)

// Extensions lists the file extensions handled by the frontend.
var Extensions = []string{".kt", ".kts"}

var (
	languageOnce sync.Once
	language     *sitter.Language
)

// Language returns the tree-sitter Kotlin grammar.
func Language() (*sitter.Language, error) {
	languageOnce.Do(func() {
		defer func() {
			_ = recover() //nolint:errcheck // recover() returns any, not error
		}()

		language = sitter.NewLanguage(grammar.GetLanguage())
	})

	if language == nil {
		return nil, ErrLanguageNotAvailable
	}

	return language, nil
}

// Parser parses Kotlin sources. It is safe for concurrent use; tree-sitter
// parsers are pooled.
type Parser struct {
	tsParserPool sync.Pool
}

// NewParser creates a Kotlin parser.
func NewParser() (*Parser, error) {
	lang, err := Language()
	if err != nil {
		return nil, err
	}

	parser := &Parser{}
	parser.tsParserPool = sync.Pool{
		New: func() any {
			tsParser := sitter.NewParser()
			tsParser.SetLanguage(lang)

			return tsParser
		},
	}

	return parser, nil
}

// Parse parses src and lowers it into a syntax tree.
func (parser *Parser) Parse(ctx context.Context, src []byte) (*syntax.Tree, error) {
	tsParser, ok := parser.tsParserPool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer parser.tsParserPool.Put(tsParser)

	tree, err := tsParser.ParseString(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("kotlin: failed to parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, errNoRootNode
	}

	low := newLowerer(src)
	rootID := low.file(root)

	return low.builder.Build(rootID)
}
