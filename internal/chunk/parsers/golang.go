package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	golang "github.com/tree-sitter/tree-sitter-go/bindings/go"
)

// Go walks a Go source file. Methods (functions with a receiver) are
// chunked as "Receiver.Name"; everything else that declares a name
// (functions, types, consts, vars) is chunked directly, since Go has no
// impl-style container to unwrap.
func Go() LanguageSpec {
	return LanguageSpec{
		Language: sitter.NewLanguage(golang.Language()),
		Tag:      "go",
		Leaf: []string{
			"function_declaration", "method_declaration",
			"type_declaration", "const_declaration", "var_declaration",
		},
		Sep:           ".",
		ReceiverField: map[string]string{"method_declaration": "receiver"},
		NameExtractor: map[string]func([]byte, *sitter.Node) string{
			"type_declaration":  goTypeDeclarationName,
			"const_declaration": goConstDeclarationName,
			"var_declaration":   goVarDeclarationName,
		},
		DocComment: goDocComment,
	}
}

// goTypeDeclarationName descends a type_declaration into its first
// type_spec (or type_alias, for "type X = Y") child, since the "name"
// field lives there rather than on the declaration node itself.
func goTypeDeclarationName(source []byte, node *sitter.Node) string {
	return goFirstSpecName(source, node, "type_spec", "type_alias")
}

// goConstDeclarationName descends a const_declaration into its first
// const_spec child for the same reason.
func goConstDeclarationName(source []byte, node *sitter.Node) string {
	return goFirstSpecName(source, node, "const_spec")
}

// goVarDeclarationName descends a var_declaration into its first
// var_spec child for the same reason.
func goVarDeclarationName(source []byte, node *sitter.Node) string {
	return goFirstSpecName(source, node, "var_spec")
}

func goFirstSpecName(source []byte, node *sitter.Node, specKinds ...string) string {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(uint(i))
		if child == nil {
			continue
		}
		for _, kind := range specKinds {
			if child.Kind() != kind {
				continue
			}
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				return extractNodeText(nameNode, source)
			}
		}
	}
	return ""
}

func goDocComment(source []byte, _ []string, node *sitter.Node) *string {
	comments := leadingComments(source, node, "comment")
	var lines []string
	for _, c := range comments {
		lines = append(lines, extractNodeText(c, source))
	}
	return cleanDocText(lines, "//")
}
