package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"
)

// PHP walks a PHP source file. Interfaces and traits are chunked directly;
// classes are unwrapped so each method becomes its own span named
// "Class.method".
func PHP() LanguageSpec {
	return LanguageSpec{
		Language:   sitter.NewLanguage(php.LanguagePHP()),
		Tag:        "php",
		Leaf:       []string{"interface_declaration", "trait_declaration", "function_definition"},
		Container:  []string{"class_declaration"},
		MemberOf:   map[string]string{"class_declaration": "method_declaration"},
		Sep:        ".",
		DocComment: phpDocComment,
	}
}

func phpDocComment(source []byte, _ []string, node *sitter.Node) *string {
	return blockDocComment(source, node, "comment")
}
