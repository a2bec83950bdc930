// Package printer renders a decoded ACPI namespace for humans: one
// depth-indented line per node with its name and a kind-specific
// description.
package printer

import (
	"fmt"
	"io"
	"strings"

	"goacpi/aml"
)

// FormatNode formats a single namespace node as "<name>: <description>".
func FormatNode(node *aml.Node) string {
	return fmt.Sprintf("%s: %s", node.Name, describeNode(node))
}

// WriteNamespace writes the whole namespace of t to w, two spaces of
// indentation per tree level.
func WriteNamespace(w io.Writer, t *aml.Table) error {
	return writeNode(w, t.NamespaceRoot(), 0)
}

func writeNode(w io.Writer, node *aml.Node, depth int) error {
	if node == nil {
		return nil
	}

	if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), FormatNode(node)); err != nil {
		return err
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if err := writeNode(w, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func describeNode(node *aml.Node) string {
	switch node.Kind {
	case aml.NodeName:
		return describeValue(node.Value)
	case aml.NodeMethod:
		return fmt.Sprintf("Method(Args: %d, Start: %d, End: %d, Flags: %d)",
			node.ArgCount(), node.MethodStart, node.MethodEnd, node.MethodFlags)
	case aml.NodeBufferField:
		return fmt.Sprintf("BufferField(Offset: %d bits, Size: %d bits)", node.BitOffset, node.BitWidth)
	default:
		return node.Kind.String()
	}
}

func describeValue(v aml.Value) string {
	if v.IsInteger() {
		return fmt.Sprintf("%s with value %d, or 0x%X", v.Kind, v.Int, v.Int)
	}
	return v.Kind.String()
}
