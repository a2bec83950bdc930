package aml

import (
	"fmt"
)

// NodeKind identifies the variant of a namespace node. The set is
// closed; consumers switch on it rather than type-assert.
type NodeKind uint8

const (
	NodeUntyped NodeKind = iota
	NodeDevice
	NodeScope
	NodeName
	NodeOperationRegion
	NodeField
	NodeBufferField
	NodeMethod
	NodeProcessor
)

func (k NodeKind) String() string {
	switch k {
	case NodeDevice:
		return "Device"
	case NodeScope:
		return "Scope"
	case NodeName:
		return "Name"
	case NodeOperationRegion:
		return "Op. Region"
	case NodeField:
		return "Field"
	case NodeBufferField:
		return "BufferField"
	case NodeMethod:
		return "Method"
	case NodeProcessor:
		return "Processor (Depr.)"
	default:
		return "Node"
	}
}

// Node is an entity in the ACPI namespace tree. Children are owned
// through the FirstChild/NextSibling chain in insertion order; Parent
// is a back reference only. The payload fields beyond the common header
// are meaningful for the kinds noted on each.
type Node struct {
	Kind NodeKind
	Name NameSegment

	Parent      *Node
	FirstChild  *Node
	NextSibling *Node

	// NodeName
	Value Value

	// NodeOperationRegion
	RegionSpace  uint8
	RegionOffset int64
	RegionLength int64

	// NodeField
	Region     *Node // owning operation region
	FieldFlags uint8
	BitOffset  int64
	BitWidth   int64

	// NodeBufferField: BitOffset/BitWidth above plus the source buffer
	Buffer []byte

	// NodeMethod: byte range of the body within the table blob
	MethodStart int
	MethodEnd   int
	MethodFlags uint8

	// NodeProcessor
	ProcessorID uint8
	PBlkAddress uint32
	PBlkLength  uint8
}

// NewDeviceNode creates a container node of Device kind.
func NewDeviceNode() *Node {
	return &Node{Kind: NodeDevice}
}

// NewScopeNode creates a container node of Scope kind.
func NewScopeNode() *Node {
	return &Node{Kind: NodeScope}
}

// NewNameNode creates a Name node holding value.
func NewNameNode(value Value) *Node {
	return &Node{Kind: NodeName, Value: value}
}

// ArgCount returns the argument count encoded in a method's flags.
func (n *Node) ArgCount() uint8 {
	return n.MethodFlags & 0x7
}

// FindChild looks up a direct child by segment, walking the sibling
// chain in insertion order.
func (n *Node) FindChild(name NameSegment) (*Node, error) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Name == name {
			return child, nil
		}
	}
	return nil, fmt.Errorf("%w: no child %q", ErrPathNotFound, name.String())
}

// FindChildName looks up a direct child by its four-character text name.
func (n *Node) FindChildName(name string) (*Node, error) {
	seg, err := NameSegmentFromString(name)
	if err != nil {
		return nil, err
	}
	return n.FindChild(seg)
}

// InsertChild appends node as the last child under name. Inserting a
// name that already exists in this parent is an error.
func (n *Node) InsertChild(name NameSegment, node *Node) error {
	var last *Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Name == name {
			return fmt.Errorf("%w: %q in %q", ErrDuplicateChild, name.String(), n.Name.String())
		}
		last = child
	}

	node.Name = name
	node.Parent = n
	node.NextSibling = nil
	if last == nil {
		n.FirstChild = node
	} else {
		last.NextSibling = node
	}
	return nil
}

// InsertChildName appends node under a four-character text name.
func (n *Node) InsertChildName(name string, node *Node) error {
	seg, err := NameSegmentFromString(name)
	if err != nil {
		return err
	}
	return n.InsertChild(seg, node)
}

// Root walks the parent chain to the tree root.
func (n *Node) Root() *Node {
	node := n
	for node.Parent != nil {
		node = node.Parent
	}
	return node
}

// FindNode resolves path starting from scope: absolute paths restart at
// the root, relative paths first walk Depth parents, then each segment
// descends one level.
func FindNode(path NameString, scope *Node) (*Node, error) {
	target := scope
	if path.Kind == PathRelative && path.Depth > 0 {
		for i := 0; i < path.Depth; i++ {
			target = target.Parent
			if target == nil {
				return nil, fmt.Errorf("%w: %q", ErrPathDepthOverflow, path.String())
			}
		}
	} else if path.Kind == PathAbsolute {
		target = target.Root()
	}

	for _, seg := range path.Segments {
		found, err := target.FindChild(seg)
		if err != nil {
			return nil, fmt.Errorf("%w: resolving %q", err, path.String())
		}
		target = found
	}
	return target, nil
}

// InsertNode places node at path: the dirname is resolved against scope
// (or the root for absolute paths) and the basename becomes the new
// child's name. A NullName cannot be inserted.
func InsertNode(path NameString, scope *Node, root *Node, node *Node) error {
	target := root

	if path.Kind == PathRelative {
		if path.Count() > 1 {
			// FindNode handles the path depth.
			dirname, err := path.Dirname()
			if err != nil {
				return err
			}
			found, err := FindNode(dirname, scope)
			if err != nil {
				return err
			}
			target = found
		} else {
			target = scope
			for i := 0; i < path.Depth; i++ {
				target = target.Parent
				if target == nil {
					return fmt.Errorf("%w: %q", ErrPathDepthOverflow, path.String())
				}
			}
		}
	} else if path.Count() > 1 {
		dirname, err := path.Dirname()
		if err != nil {
			return err
		}
		found, err := FindNode(dirname, root)
		if err != nil {
			return err
		}
		target = found
	}

	basename, err := path.Basename()
	if err != nil {
		return err
	}
	return target.InsertChild(basename, node)
}
