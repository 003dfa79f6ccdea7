package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// leadingComments collects the contiguous run of sibling nodes of the given
// kind immediately preceding node, stopping at the first blank-line gap.
// Returned in source order.
func leadingComments(source []byte, node *sitter.Node, commentKind string) []*sitter.Node {
	var nodes []*sitter.Node
	cur := node
	for {
		prev := prevSibling(cur)
		if prev == nil || prev.Kind() != commentKind {
			break
		}
		if int(cur.StartPosition().Row)-int(prev.EndPosition().Row) > 1 {
			break
		}
		nodes = append([]*sitter.Node{prev}, nodes...)
		cur = prev
	}
	return nodes
}

// cleanDocText strips a common per-line prefix from each line (e.g. "///",
// "//!", "*", "#"), trims surrounding whitespace, drops empty lines at the
// edges, and collapses the result to nil when nothing is left.
func cleanDocText(rawLines []string, stripPrefixes ...string) *string {
	var cleaned []string
	for _, raw := range rawLines {
		line := raw
		for _, p := range stripPrefixes {
			if trimmed := strings.TrimPrefix(strings.TrimSpace(line), p); trimmed != line {
				line = trimmed
				break
			}
		}
		line = strings.TrimSpace(line)
		cleaned = append(cleaned, line)
	}

	for len(cleaned) > 0 && cleaned[0] == "" {
		cleaned = cleaned[1:]
	}
	for len(cleaned) > 0 && cleaned[len(cleaned)-1] == "" {
		cleaned = cleaned[:len(cleaned)-1]
	}

	if len(cleaned) == 0 {
		return nil
	}
	text := strings.Join(cleaned, " ")
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}
	return &text
}

// blockCommentLines splits a /* ... */ or /** ... */ block comment's raw
// text into its interior lines with the delimiters removed.
func blockCommentLines(raw string) []string {
	raw = strings.TrimPrefix(raw, "/**")
	raw = strings.TrimPrefix(raw, "/*")
	raw = strings.TrimSuffix(raw, "*/")
	lines := strings.Split(raw, "\n")
	for i, l := range lines {
		l = strings.TrimSpace(l)
		l = strings.TrimPrefix(l, "*")
		lines[i] = l
	}
	return lines
}
