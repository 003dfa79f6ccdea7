package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"
)

// C walks a C source file. C has no methods or namespaces, so every
// chunkable node is a leaf: functions, structs, unions, and enums.
func C() LanguageSpec {
	return LanguageSpec{
		Language: sitter.NewLanguage(c.Language()),
		Tag:      "c",
		Leaf:     []string{"function_definition", "struct_specifier", "union_specifier", "enum_specifier"},
		NameExtractor: map[string]func([]byte, *sitter.Node) string{
			"function_definition": cFunctionName,
		},
		DocComment: cDocComment,
	}
}

// cFunctionName descends a function_definition's declarator chain
// (pointer_declarator wrapping a function_declarator) to find the
// identifier naming the function.
func cFunctionName(source []byte, node *sitter.Node) string {
	declarator := node.ChildByFieldName("declarator")
	for declarator != nil {
		if declarator.Kind() == "function_declarator" {
			if ident := declarator.ChildByFieldName("declarator"); ident != nil {
				return extractNodeText(ident, source)
			}
			return ""
		}
		declarator = declarator.ChildByFieldName("declarator")
	}
	return ""
}

func cDocComment(source []byte, _ []string, node *sitter.Node) *string {
	return blockDocComment(source, node, "comment")
}
