package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

// Java walks a Java source file. Interfaces and enums are chunked directly;
// classes are unwrapped so each method becomes its own span named
// "Class.method".
func Java() LanguageSpec {
	return LanguageSpec{
		Language:   sitter.NewLanguage(java.Language()),
		Tag:        "java",
		Leaf:       []string{"interface_declaration", "enum_declaration"},
		Container:  []string{"class_declaration"},
		MemberOf:   map[string]string{"class_declaration": "method_declaration"},
		Sep:        ".",
		DocComment: javaDocComment,
	}
}

func javaDocComment(source []byte, _ []string, node *sitter.Node) *string {
	return blockDocComment(source, node, "block_comment")
}
