package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// Python walks a Python source file. Classes are unwrapped so each method
// becomes its own span named "Class.method"; module-level functions are
// chunked directly. Summaries come from the first string-literal statement
// inside a function/class body, per the docstring convention, rather than a
// leading comment.
func Python() LanguageSpec {
	return LanguageSpec{
		Language:   sitter.NewLanguage(python.Language()),
		Tag:        "python",
		Leaf:       []string{"function_definition"},
		Container:  []string{"class_definition"},
		MemberOf:   map[string]string{"class_definition": "function_definition"},
		Sep:        ".",
		DocComment: pythonDocstring,
	}
}

func pythonDocstring(source []byte, _ []string, node *sitter.Node) *string {
	body := node.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() == 0 {
		return nil
	}
	first := body.NamedChild(0)
	if first == nil || first.Kind() != "expression_statement" {
		return nil
	}
	expr := first.NamedChild(0)
	if expr == nil || expr.Kind() != "string" {
		return nil
	}
	raw := extractNodeText(expr, source)
	raw = stripPythonStringQuotes(raw)
	return cleanDocText([]string{raw})
}

// stripPythonStringQuotes removes a string literal's prefix and surrounding
// triple/single quotes, leaving the interior text untouched for cleanDocText
// to normalize.
func stripPythonStringQuotes(raw string) string {
	i := 0
	for i < len(raw) && (raw[i] == 'r' || raw[i] == 'R' || raw[i] == 'u' || raw[i] == 'U' ||
		raw[i] == 'b' || raw[i] == 'B' || raw[i] == 'f' || raw[i] == 'F') {
		i++
	}
	raw = raw[i:]

	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if len(raw) >= 2*len(q) && raw[:len(q)] == q && raw[len(raw)-len(q):] == q {
			return raw[len(q) : len(raw)-len(q)]
		}
	}
	return raw
}
