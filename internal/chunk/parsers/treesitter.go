// Package parsers holds one tree-sitter walker per supported language. Each
// walker turns a parsed source file into a sorted list of Span values; the
// splitting/orphan-chunk policy in internal/chunk is shared and lives
// outside this package.
package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// LanguageSpec describes, for one language, which tree-sitter node kinds are
// directly chunkable and which are containers (impl blocks, classes) whose
// member declarations are unwrapped into their own spans instead of the
// container itself being chunked. Grounded on the teacher's per-language
// parsers (rustParser.extractStruct/extractImpl and siblings), generalized
// into data instead of one hand-written walker per language.
type LanguageSpec struct {
	Language *sitter.Language
	Tag      string

	// Leaf is the set of node kinds chunked directly: their own line range
	// becomes a span named after their "name" field.
	Leaf []string

	// Container is the set of node kinds never chunked directly; instead the
	// walker finds the container's name and descends into MemberOf to chunk
	// each member separately, named "Container<Sep>member".
	Container []string
	// MemberOf maps a container kind to the node kind of its chunkable
	// members (e.g. impl_item -> function_item, class_declaration ->
	// method_definition).
	MemberOf map[string]string
	// ContainerNameField is the field holding the container's own name.
	// Defaults to "name" when empty (Rust impl blocks use "type" instead).
	ContainerNameField map[string]string
	// Sep joins container and member names ("::" for Rust, "." elsewhere).
	Sep string

	// ReceiverField maps a leaf node kind to the field holding a receiver
	// parameter list (Go methods: "receiver"). When present, the receiver's
	// type name is extracted and prefixed onto the symbol.
	ReceiverField map[string]string

	// NameExtractor overrides name lookup for a node kind whose declared
	// name isn't a plain "name" field (C function definitions bury the
	// identifier inside a declarator chain). Returns "" if no name is found.
	NameExtractor map[string]func(source []byte, node *sitter.Node) string

	// DocComment, when set, looks up a leading doc comment for a node and
	// returns cleaned summary text, or nil if none was found.
	DocComment func(source []byte, lines []string, node *sitter.Node) *string
}

// Walk parses source with spec.Language and returns every chunkable span in
// document order.
func Walk(spec LanguageSpec, source []byte, lines []string) ([]Span, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(spec.Language); err != nil {
		return nil, err
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, nil
	}
	defer tree.Close()

	leaf := toSet(spec.Leaf)
	container := toSet(spec.Container)

	var spans []Span
	walkTree(tree.RootNode(), func(n *sitter.Node) bool {
		kind := n.Kind()
		switch {
		case container[kind]:
			spans = append(spans, containerMembers(spec, kind, source, lines, n)...)
			return false
		case leaf[kind]:
			if span, ok := leafSpan(spec, source, lines, n); ok {
				spans = append(spans, span)
			}
			return true
		default:
			return true
		}
	})

	return spans, nil
}

func leafSpan(spec LanguageSpec, source []byte, lines []string, node *sitter.Node) (Span, bool) {
	var name string
	if extractor, ok := spec.NameExtractor[node.Kind()]; ok {
		name = extractor(source, node)
	} else if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		name = extractNodeText(nameNode, source)
	}
	if name == "" {
		return Span{}, false
	}

	if recvField, ok := spec.ReceiverField[node.Kind()]; ok {
		if recv := node.ChildByFieldName(recvField); recv != nil {
			if typeName := receiverTypeName(recv, source); typeName != "" {
				sep := spec.Sep
				if sep == "" {
					sep = "."
				}
				name = typeName + sep + name
			}
		}
	}

	return Span{
		Symbol:    name,
		StartLine: startLine(node),
		EndLine:   endLine(node),
		Summary:   docComment(spec, source, lines, node),
	}, true
}

// receiverTypeName extracts the bare type identifier from a Go method's
// receiver parameter list, stripping any pointer indirection.
func receiverTypeName(receiverList *sitter.Node, source []byte) string {
	for i := 0; i < int(receiverList.ChildCount()); i++ {
		param := receiverList.Child(uint(i))
		if param == nil || param.Kind() != "parameter_declaration" {
			continue
		}
		typeNode := param.ChildByFieldName("type")
		if typeNode == nil {
			continue
		}
		if typeNode.Kind() == "pointer_type" {
			typeNode = typeNode.NamedChild(0)
		}
		if typeNode == nil {
			continue
		}
		return extractNodeText(typeNode, source)
	}
	return ""
}

func containerMembers(spec LanguageSpec, containerKind string, source []byte, lines []string, node *sitter.Node) []Span {
	nameField := spec.ContainerNameField[containerKind]
	if nameField == "" {
		nameField = "name"
	}
	nameNode := node.ChildByFieldName(nameField)
	if nameNode == nil {
		return nil
	}
	containerName := extractNodeText(nameNode, source)

	memberKind, ok := spec.MemberOf[containerKind]
	if !ok {
		return nil
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return nil
	}

	sep := spec.Sep
	if sep == "" {
		sep = "."
	}

	var spans []Span
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(uint(i))
		if child == nil || child.Kind() != memberKind {
			continue
		}
		memberNameNode := child.ChildByFieldName("name")
		if memberNameNode == nil {
			continue
		}
		memberName := extractNodeText(memberNameNode, source)
		spans = append(spans, Span{
			Symbol:    containerName + sep + memberName,
			StartLine: startLine(child),
			EndLine:   endLine(child),
			Summary:   docComment(spec, source, lines, child),
		})
	}
	return spans
}

func docComment(spec LanguageSpec, source []byte, lines []string, node *sitter.Node) *string {
	if spec.DocComment == nil {
		return nil
	}
	return spec.DocComment(source, lines, node)
}

func startLine(node *sitter.Node) int { return int(node.StartPosition().Row) + 1 }
func endLine(node *sitter.Node) int   { return int(node.EndPosition().Row) + 1 }

func toSet(vals []string) map[string]bool {
	m := make(map[string]bool, len(vals))
	for _, v := range vals {
		m[v] = true
	}
	return m
}

// extractNodeText returns the source text spanned by node.
func extractNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// walkTree recursively visits node and its descendants. The visitor returns
// false to skip a node's children (used for containers, whose members are
// walked explicitly instead).
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visitor(node) {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(uint(i)), visitor)
	}
}

// prevSibling returns the node immediately preceding node among its
// parent's children, or nil if node is first or has no parent.
func prevSibling(node *sitter.Node) *sitter.Node {
	parent := node.Parent()
	if parent == nil {
		return nil
	}
	for i := 0; i < int(parent.ChildCount()); i++ {
		child := parent.Child(uint(i))
		if child != nil && child.Id() == node.Id() && i > 0 {
			return parent.Child(uint(i - 1))
		}
	}
	return nil
}
