package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

// Rust walks a Rust source file. Struct, enum, and trait items are chunked
// directly; impl blocks are unwrapped so each method becomes its own span
// named "Type::method", matching the teacher's rustParser.extractImpl.
func Rust() LanguageSpec {
	return LanguageSpec{
		Language: sitter.NewLanguage(rust.Language()),
		Tag:      "rust",
		Leaf: []string{
			"struct_item", "enum_item", "trait_item", "type_item",
			"function_item", "const_item", "static_item",
		},
		Container:          []string{"impl_item"},
		MemberOf:           map[string]string{"impl_item": "function_item"},
		ContainerNameField: map[string]string{"impl_item": "type"},
		Sep:                "::",
		DocComment:         rustDocComment,
	}
}

func rustDocComment(source []byte, _ []string, node *sitter.Node) *string {
	comments := leadingComments(source, node, "line_comment")
	var lines []string
	for _, c := range comments {
		text := extractNodeText(c, source)
		if !strings.HasPrefix(text, "///") && !strings.HasPrefix(text, "//!") {
			lines = nil // a plain // comment breaks the doc run
			continue
		}
		lines = append(lines, text)
	}
	return cleanDocText(lines, "///", "//!")
}
