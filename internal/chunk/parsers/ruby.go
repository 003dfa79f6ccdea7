package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
)

// Ruby walks a Ruby source file. Ruby has no first-class function
// declarations outside methods, so modules and classes are unwrapped into
// their member methods ("Module.method"); singleton_method (def self.x) is
// recognized only outside class and module bodies, since a container's
// members are its plain methods.
func Ruby() LanguageSpec {
	return LanguageSpec{
		Language:  sitter.NewLanguage(ruby.Language()),
		Tag:       "ruby",
		Leaf:      []string{"method", "singleton_method"},
		Container: []string{"class", "module"},
		MemberOf: map[string]string{
			"class":  "method",
			"module": "method",
		},
		Sep:        ".",
		DocComment: rubyDocComment,
	}
}

func rubyDocComment(source []byte, _ []string, node *sitter.Node) *string {
	comments := leadingComments(source, node, "comment")
	var lines []string
	for _, c := range comments {
		lines = append(lines, extractNodeText(c, source))
	}
	return cleanDocText(lines, "#")
}
