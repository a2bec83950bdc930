package aml

import (
	"fmt"
	"strings"
)

// NameSegment is a four-character namespace name element. The first
// character is A-Z or underscore, the remaining three also allow 0-9.
type NameSegment [4]byte

// NameSegmentFromString validates a four-character string as a name
// segment.
func NameSegmentFromString(s string) (NameSegment, error) {
	var seg NameSegment
	if len(s) != 4 {
		return seg, fmt.Errorf("%w: segment %q must have length 4", ErrInvalidNamePath, s)
	}
	copy(seg[:], s)
	if !IsLeadNameChar(seg[0]) || !IsNameChar(seg[1]) || !IsNameChar(seg[2]) || !IsNameChar(seg[3]) {
		return seg, fmt.Errorf("%w: segment %q", ErrInvalidNamePath, s)
	}
	return seg, nil
}

func (s NameSegment) String() string {
	return string(s[:])
}

// PathKind distinguishes absolute paths (leading backslash) from paths
// resolved relative to the current scope.
type PathKind uint8

const (
	PathRelative PathKind = iota
	PathAbsolute
)

func (k PathKind) String() string {
	switch k {
	case PathAbsolute:
		return "ABSOLUTE"
	case PathRelative:
		return "RELATIVE"
	default:
		return "UNKNOWN"
	}
}

// NameString is an AML namespace path: an absolute or relative prefix,
// a parent-walk depth (relative only), and zero or more segments. A
// path with zero segments is a NullName.
type NameString struct {
	Kind     PathKind
	Depth    int
	Segments []NameSegment
}

// ParseNameString decodes a name path from the byte stream.
//
// NamePath := NameSeg | DualNamePath | MultiNamePath | NullName
func ParseNameString(c *TableCursor) (NameString, error) {
	kind := PathRelative
	depth := 0
	count := 0

	initial := c.Peek()
	if initial == rootChar {
		kind = PathAbsolute
		c.Byte()
	} else if initial == parentPrefix {
		// PrefixPath := Nothing | <'^' PrefixPath>
		for {
			depth++
			c.Byte()
			if c.Peek() != parentPrefix || c.IsEOF() {
				break
			}
		}
		// The reference reader consumes one extra byte after the carat
		// run; kept as observed.
		c.Byte()
	}

	initial = c.Peek()
	switch {
	case initial == 0:
		c.Byte()
		return NameString{Kind: kind, Depth: depth}, nil

	case initial == multiNamePrefix:
		c.Byte()
		count = int(c.Byte())
		if count == 0 {
			return NameString{}, fmt.Errorf("%w: multi-name path with zero segments", ErrInvalidNamePath)
		}

	case initial == dualNamePrefix:
		c.Byte()
		count = 2

	case IsLeadNameChar(initial):
		count = 1

	default:
		return NameString{}, fmt.Errorf("%w: byte 0x%02X at offset %d", ErrInvalidNamePath, initial, c.Position())
	}

	segments := make([]NameSegment, 0, count)
	for i := 0; i < count; i++ {
		seg, err := c.NameSegment()
		if err != nil {
			return NameString{}, err
		}
		segments = append(segments, seg)
	}

	return NameString{Kind: kind, Depth: depth, Segments: segments}, nil
}

// ParseNameStringText parses the dotted text form of a name path, e.g.
// `\_SB_.PCI0.LPCB` or `^^FOO_`.
func ParseNameStringText(s string) (NameString, error) {
	kind := PathRelative
	depth := 0

	rest := s
	if strings.HasPrefix(rest, `\`) {
		kind = PathAbsolute
		rest = rest[1:]
	} else {
		for strings.HasPrefix(rest, "^") {
			depth++
			rest = rest[1:]
		}
	}

	if rest == "" {
		return NameString{Kind: kind, Depth: depth}, nil
	}

	parts := strings.Split(rest, ".")
	segments := make([]NameSegment, 0, len(parts))
	for _, part := range parts {
		seg, err := NameSegmentFromString(part)
		if err != nil {
			return NameString{}, err
		}
		segments = append(segments, seg)
	}

	return NameString{Kind: kind, Depth: depth, Segments: segments}, nil
}

// String renders the path back to its canonical dotted form.
func (n NameString) String() string {
	var sb strings.Builder
	if n.Kind == PathAbsolute {
		sb.WriteByte(rootChar)
	} else {
		for i := 0; i < n.Depth; i++ {
			sb.WriteByte(parentPrefix)
		}
	}

	for i, seg := range n.Segments {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.Write(seg[:])
	}
	return sb.String()
}

// Count returns the number of segments.
func (n NameString) Count() int {
	return len(n.Segments)
}

// Segment returns the segment at index.
func (n NameString) Segment(index int) (NameSegment, error) {
	if index < 0 || index >= len(n.Segments) {
		return NameSegment{}, fmt.Errorf("%w: segment index %d of %d", ErrInvalidNamePath, index, len(n.Segments))
	}
	return n.Segments[index], nil
}

// Dirname returns the path with its final segment removed, keeping the
// prefix. A NullName has no dirname.
func (n NameString) Dirname() (NameString, error) {
	if len(n.Segments) == 0 {
		return NameString{}, ErrInvalidNullName
	}
	return NameString{Kind: n.Kind, Depth: n.Depth, Segments: n.Segments[:len(n.Segments)-1]}, nil
}

// Basename returns the final segment. A NullName has no basename.
func (n NameString) Basename() (NameSegment, error) {
	if len(n.Segments) == 0 {
		return NameSegment{}, ErrInvalidNullName
	}
	return n.Segments[len(n.Segments)-1], nil
}
