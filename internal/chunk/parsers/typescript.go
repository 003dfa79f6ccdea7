package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// TypeScript walks .ts/.js source. Interfaces, type aliases, enums, and
// free functions are chunked directly; classes are unwrapped so each
// method becomes its own span named "Class.method".
func TypeScript() LanguageSpec {
	return LanguageSpec{
		Language: sitter.NewLanguage(typescript.LanguageTypescript()),
		Tag:      "typescript",
		Leaf: []string{
			"function_declaration", "interface_declaration",
			"type_alias_declaration", "enum_declaration",
		},
		Container:  []string{"class_declaration"},
		MemberOf:   map[string]string{"class_declaration": "method_definition"},
		Sep:        ".",
		DocComment: jsdocComment,
	}
}

// TSX is TypeScript's JSX-flavored grammar, used for .tsx/.jsx files.
func TSX() LanguageSpec {
	spec := TypeScript()
	spec.Language = sitter.NewLanguage(typescript.LanguageTSX())
	spec.Tag = "tsx"
	return spec
}

func jsdocComment(source []byte, _ []string, node *sitter.Node) *string {
	return blockDocComment(source, node, "comment")
}

// blockDocComment returns the cleaned text of the nearest leading comment
// of the given node kind, provided it is a /** ... */ block comment.
func blockDocComment(source []byte, node *sitter.Node, commentKind string) *string {
	comments := leadingComments(source, node, commentKind)
	if len(comments) == 0 {
		return nil
	}
	last := comments[len(comments)-1]
	raw := extractNodeText(last, source)
	if !strings.HasPrefix(raw, "/**") {
		return nil
	}
	return cleanDocText(blockCommentLines(raw))
}
