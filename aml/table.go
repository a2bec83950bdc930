package aml

// Header is the 36-byte fixed prefix every system description table
// carries. All integer fields are little-endian in the encoded form;
// the OEM identifiers are zero-padded byte arrays.
type Header struct {
	Signature       uint32
	Length          uint32
	SpecCompliance  uint8
	Checksum        uint8
	OEMID           [6]byte
	OEMTableID      [8]byte
	OEMRevision     uint32
	CreatorID       uint32
	CreatorRevision uint32
}

// HeaderSize is the encoded size of Header.
const HeaderSize = 36

// Table is the result of interpreting an AML blob: the validated header
// and the namespace built from the term list. The tree is append-only
// during parsing and treated as immutable afterwards.
type Table struct {
	header Header
	root   *Node
}

// NewTable creates a table with the canonical pre-populated root: the
// standard top-level devices and scopes every namespace provides, plus
// the _REV and _OSI names.
func NewTable() *Table {
	root := NewDeviceNode()
	root.Name = NameSegment{'_', '_', '_', '_'}

	// Insertion failures cannot happen on a fresh root.
	_ = root.InsertChildName("_SB_", NewDeviceNode())
	_ = root.InsertChildName("_TZ_", NewDeviceNode())
	_ = root.InsertChildName("_PR_", NewScopeNode())
	_ = root.InsertChildName("_SI_", NewScopeNode())
	_ = root.InsertChildName("_GPE", NewScopeNode())
	_ = root.InsertChildName("_DS_", NewDeviceNode())
	_ = root.InsertChildName("_REV", NewNameNode(DWordValue(1)))
	_ = root.InsertChildName("_OSI", NewNameNode(DWordValue(0)))

	return &Table{root: root}
}

// Header returns the decoded table header.
func (t *Table) Header() Header {
	return t.header
}

// NamespaceRoot returns the root of the namespace tree.
func (t *Table) NamespaceRoot() *Node {
	return t.root
}
