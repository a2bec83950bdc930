package aml

import (
	"errors"
	"fmt"

	"goacpi/common"
)

// parseFrame is one record on the decoder's explicit scope stack: the
// namespace node terms are decoded into, the offset the cursor rewinds
// to when the frame pops, and the exclusive end offset of the frame's
// term list. The argument slots are populated only by frames that
// represent method invocations.
type parseFrame struct {
	scope *Node
	start int
	end   int

	arguments [8]Value
}

// Argument returns the value in argument slot i.
func (f *parseFrame) Argument(i int) (Value, error) {
	if i < 0 || i >= len(f.arguments) {
		return Value{}, fmt.Errorf("%w: %d", ErrArgumentIndex, i)
	}
	return f.arguments[i], nil
}

// SetArgument stores a value in argument slot i.
func (f *parseFrame) SetArgument(i int, v Value) error {
	if i < 0 || i >= len(f.arguments) {
		return fmt.Errorf("%w: %d", ErrArgumentIndex, i)
	}
	f.arguments[i] = v
	return nil
}

// Decoder drives the term-list walk over a single AML table. It is
// single-threaded and single-use: one Interpret call builds one table.
type Decoder struct {
	Log common.Logger

	cursor *TableCursor
	table  *Table
	frames []*parseFrame
}

// NewDecoder creates a decoder with a custom diagnostic logger.
func NewDecoder(logger common.Logger) *Decoder {
	if logger == nil {
		logger = common.NewNoOpLogger()
	}
	return &Decoder{Log: logger}
}

// Interpret decodes data as a full AML table and returns the populated
// namespace. It is shorthand for NewDecoder(logger).Interpret(data).
func Interpret(data []byte, logger common.Logger) (*Table, error) {
	return NewDecoder(logger).Interpret(data)
}

// Interpret validates the header and checksum of data, then walks the
// term list building the namespace. The first error aborts the walk;
// the partially built table is discarded.
func (d *Decoder) Interpret(data []byte) (*Table, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: table is %d bytes, need at least %d", ErrHeaderInvalid, len(data), HeaderSize)
	}

	d.cursor = NewTableCursor(data)

	// DefBlockHeader := TableSignature TableLength SpecCompliance
	//                   CheckSum OemID OemTableID OemRevision
	//                   CreatorID CreatorRevision
	var header Header
	header.Signature = d.cursor.DWord()
	header.Length = d.cursor.DWord()
	header.SpecCompliance = d.cursor.Byte()
	header.Checksum = d.cursor.Byte()
	copy(header.OEMID[:], d.cursor.FixedArray(6))
	copy(header.OEMTableID[:], d.cursor.FixedArray(8))
	header.OEMRevision = d.cursor.DWord()
	header.CreatorID = d.cursor.DWord()
	header.CreatorRevision = d.cursor.DWord()

	if header.Length == 0 {
		return nil, fmt.Errorf("%w: zero length field", ErrHeaderInvalid)
	}

	if sum := d.cursor.GenerateChecksum(); sum != 0 {
		return nil, fmt.Errorf("%w: expected 0, got %d", ErrChecksumMismatch, sum)
	}

	d.table = NewTable()
	d.table.header = header

	// The root frame's start == end == length sentinel makes it
	// self-terminate once the cursor reaches the end of the blob.
	length := d.cursor.Length()
	d.pushFrame(&parseFrame{scope: d.table.NamespaceRoot(), start: length, end: length})

	for len(d.frames) > 0 && !d.cursor.IsEOF() {
		frame := d.frames[len(d.frames)-1]
		if err := d.readTerm(frame); err != nil {
			return nil, err
		}

		// Pop every frame the cursor has run past. Sentinel frames
		// (start >= end: the root frame, and method invocation frames
		// once an executor exists) restore the cursor to their start;
		// scope-style frames leave it at the construct end so the
		// enclosing term list resumes after the construct.
		for len(d.frames) > 0 {
			top := d.frames[len(d.frames)-1]
			if d.cursor.Position() < top.end {
				break
			}
			d.frames = d.frames[:len(d.frames)-1]
			if top.start >= top.end {
				d.cursor.SetPosition(top.start)
			}
		}
	}

	d.Log.Logf(common.SeverityDebug, "interpret done: length %d, position %d",
		header.Length, d.cursor.Position())
	return d.table, nil
}

func (d *Decoder) pushFrame(frame *parseFrame) {
	d.Log.Logf(common.SeverityDebug, "entering parse frame %s, end 0x%X", frame.scope.Name, frame.end)
	d.frames = append(d.frames, frame)
}

// readTerm decodes one term at the current cursor position into the
// frame's scope.
func (d *Decoder) readTerm(frame *parseFrame) error {
	if IsLeadNameChar(d.cursor.Peek()) {
		// MethodInvocation := NameString TermArgList
		path, err := ParseNameString(d.cursor)
		if err != nil {
			return err
		}
		return fmt.Errorf("%w: method invocation %q at term level", ErrUnimplementedFeature, path.String())
	}

	opcode := d.cursor.Opcode()
	switch opcode {
	case opScope:
		return d.processDefScope(frame)
	case opDevice:
		return d.processDefDevice(frame)
	case opName:
		return d.processDefName(frame)
	case opOpRegion:
		return d.processDefOperationRegion(frame)
	case opField:
		return d.processDefField(frame)
	case opMethod:
		return d.processDefMethod(frame)
	case opProcessor:
		return d.processDefProcessor(frame)
	case opCreateBitField, opCreateByteField, opCreateWordField, opCreateDWordField, opCreateQWordField:
		return d.processDefUnitField(frame, opcode)
	default:
		return unimplementedOpcode("readTerm", opcode)
	}
}

// processDefScope enters an existing node.
//
// DefScope := ScopeOp PkgLength NameString TermList
func (d *Decoder) processDefScope(frame *parseFrame) error {
	start := d.cursor.Position() - opcodeByteCount(opScope)
	pkgLength := d.cursor.PackageLength()
	path, err := ParseNameString(d.cursor)
	if err != nil {
		return err
	}

	scope, err := FindNode(path, frame.scope)
	if err != nil {
		return err
	}

	d.pushFrame(&parseFrame{scope: scope, start: d.cursor.Position(), end: start + int(pkgLength)})
	return nil
}

// DefDevice := DeviceOp PkgLength NameString TermList
func (d *Decoder) processDefDevice(frame *parseFrame) error {
	start := d.cursor.Position() - opcodeByteCount(opDevice)
	pkgLength := d.cursor.PackageLength()
	path, err := ParseNameString(d.cursor)
	if err != nil {
		return err
	}

	node := NewDeviceNode()
	if err := d.insertNode(path, frame.scope, node); err != nil {
		return err
	}

	d.pushFrame(&parseFrame{scope: node, start: d.cursor.Position(), end: start + int(pkgLength)})
	return nil
}

// DefProcessor := ProcessorOp PkgLength NameString ProcID PblkAddr PblkLen TermList
//
// Deprecated since ACPI 6.0, but firmware still ships it.
func (d *Decoder) processDefProcessor(frame *parseFrame) error {
	start := d.cursor.Position() - opcodeByteCount(opProcessor)
	pkgLength := d.cursor.PackageLength()
	path, err := ParseNameString(d.cursor)
	if err != nil {
		return err
	}
	id := d.cursor.Byte()
	blockAddress := d.cursor.DWord()
	blockLength := d.cursor.Byte()

	node := &Node{
		Kind:        NodeProcessor,
		ProcessorID: id,
		PBlkAddress: blockAddress,
		PBlkLength:  blockLength,
	}
	if err := d.insertNode(path, frame.scope, node); err != nil {
		return err
	}

	// Unrecognized opcodes inside the processor body surface as
	// unimplemented rather than being skipped.
	d.pushFrame(&parseFrame{scope: node, start: d.cursor.Position(), end: start + int(pkgLength)})
	return nil
}

// DefMethod := MethodOp PkgLength NameString MethodFlags TermList
//
// The body is not executed; the node records its byte range and the
// cursor skips to the end of the construct.
func (d *Decoder) processDefMethod(frame *parseFrame) error {
	start := d.cursor.Position() - opcodeByteCount(opMethod)
	pkgLength := d.cursor.PackageLength()
	path, err := ParseNameString(d.cursor)
	if err != nil {
		return err
	}
	flags := d.cursor.Byte()

	node := &Node{
		Kind:        NodeMethod,
		MethodStart: d.cursor.Position(),
		MethodEnd:   start + int(pkgLength),
		MethodFlags: flags,
	}
	if err := d.insertNode(path, frame.scope, node); err != nil {
		return err
	}

	// The +1 matches the reference decoder's alignment to the next term.
	d.cursor.SetPosition(start + int(pkgLength) + 1)
	return nil
}

// DefName := NameOp NameString DataRefObject
func (d *Decoder) processDefName(frame *parseFrame) error {
	path, err := ParseNameString(d.cursor)
	if err != nil {
		return err
	}

	value, err := d.readDataRefObject(frame)
	if err != nil {
		return err
	}

	return d.insertNode(path, frame.scope, NewNameNode(value))
}

// DefOpRegion := OpRegionOp NameString RegionSpace RegionOffset RegionLen
func (d *Decoder) processDefOperationRegion(frame *parseFrame) error {
	path, err := ParseNameString(d.cursor)
	if err != nil {
		return err
	}

	space := d.cursor.Byte()

	offsetArg, err := d.readTermArg(frame)
	if err != nil {
		return err
	}
	offset, err := offsetArg.AsInteger()
	if err != nil {
		return err
	}

	lengthArg, err := d.readTermArg(frame)
	if err != nil {
		return err
	}
	length, err := lengthArg.AsInteger()
	if err != nil {
		return err
	}

	node := &Node{
		Kind:         NodeOperationRegion,
		RegionSpace:  space,
		RegionOffset: offset,
		RegionLength: length,
	}
	return d.insertNode(path, frame.scope, node)
}

// DefField := FieldOp PkgLength NameString FieldFlags FieldList
func (d *Decoder) processDefField(frame *parseFrame) error {
	start := d.cursor.Position() - opcodeByteCount(opField)
	pkgLength := d.cursor.PackageLength()
	path, err := ParseNameString(d.cursor)
	if err != nil {
		return err
	}
	flags := d.cursor.Byte()

	region, err := FindNode(path, frame.scope)
	if err != nil {
		return err
	}

	end := start + int(pkgLength)
	bitOffset := int64(0)
	for d.cursor.Position() < end {
		bitOffset, err = d.processFieldElement(frame, region, flags, bitOffset)
		if err != nil {
			return err
		}
	}
	return nil
}

// processFieldElement decodes one field list entry and returns the bit
// offset for the next one.
//
// FieldElement := NamedField | ReservedField | AccessField |
//                 ExtendedAccessField | ConnectField
func (d *Decoder) processFieldElement(frame *parseFrame, region *Node, flags uint8, bitOffset int64) (int64, error) {
	if IsLeadNameChar(d.cursor.Peek()) {
		// NamedField := NameSeg PkgLength
		// No opcode, just a bare name segment.
		segment, err := d.cursor.NameSegment()
		if err != nil {
			return 0, err
		}
		bitWidth := d.cursor.PackageLength()

		node := &Node{
			Kind:       NodeField,
			Region:     region,
			FieldFlags: flags,
			BitOffset:  bitOffset,
			BitWidth:   bitWidth,
		}
		if err := frame.scope.InsertChild(NameSegment(segment), node); err != nil {
			return 0, err
		}
		return bitOffset + bitWidth, nil
	}

	opcode := d.cursor.Opcode()
	switch opcode {
	case uint16(fieldReserved):
		// ReservedField := 0x00 PkgLength
		return bitOffset + d.cursor.PackageLength(), nil
	case uint16(fieldAccess), uint16(fieldConnect), uint16(fieldExtendedAccess):
		// AccessField := 0x01 AccessType AccessAttrib
		// ConnectField := 0x02 NameString | 0x02 BufferData
		// ExtendedAccessField := 0x03 AccessType ExtendedAccessAttrib AccessLength
		return 0, unimplementedOpcode("processFieldElement", opcode)
	default:
		return 0, unimplementedOpcode("processFieldElement", opcode)
	}
}

// processDefUnitField handles the CreateXxxField family.
//
// DefCreateDWordField := CreateDWordFieldOp SourceBuff ByteIndex NameString
// (and likewise for bit/byte/word/qword)
func (d *Decoder) processDefUnitField(frame *parseFrame, opcode uint16) error {
	sourceArg, err := d.readTermArg(frame)
	if err != nil {
		return err
	}
	buffer, err := sourceArg.AsBuffer()
	if err != nil {
		return err
	}

	indexArg, err := d.readTermArg(frame)
	if err != nil {
		return err
	}
	index, err := indexArg.AsInteger()
	if err != nil {
		return err
	}

	path, err := ParseNameString(d.cursor)
	if err != nil {
		return err
	}

	var bitSize int64
	switch opcode {
	case opCreateBitField:
		bitSize = 1
	case opCreateByteField:
		bitSize = 8
	case opCreateWordField:
		bitSize = 16
	case opCreateDWordField:
		bitSize = 32
	case opCreateQWordField:
		bitSize = 64
	default:
		return unimplementedOpcode("processDefUnitField", opcode)
	}

	bitOffset := index * 8
	if bitSize == 1 {
		bitOffset = index
	}

	node := &Node{
		Kind:      NodeBufferField,
		Buffer:    buffer,
		BitOffset: bitOffset,
		BitWidth:  bitSize,
	}
	return d.insertNode(path, frame.scope, node)
}

// readDefBuffer decodes a buffer constant. The declared BufferSize is
// authoritative; a PkgLength reserving more bytes is a warning and the
// surplus stays in the stream.
//
// DefBuffer := BufferOp PkgLength BufferSize ByteList
func (d *Decoder) readDefBuffer(frame *parseFrame) (Value, error) {
	pkgLength := d.cursor.PackageLength()

	sizeArg, err := d.readTermArg(frame)
	if err != nil {
		return Value{}, err
	}
	size, err := sizeArg.AsInteger()
	if err != nil {
		return Value{}, err
	}

	if size < 0 {
		return Value{}, fmt.Errorf("%w: negative buffer size %d", ErrTypeMismatch, size)
	}
	if pkgLength > size {
		d.Log.Logf(common.SeverityWarning,
			"buffer size overrun, package length %d and buffer size %d", pkgLength, size)
	}

	data := make([]byte, size)
	d.cursor.ReadInto(int(size), data)
	return BufferValue(data), nil
}

// readPackage decodes DefPackage / DefVarPackage.
func (d *Decoder) readPackage(frame *parseFrame, opcode uint16) (Value, error) {
	// The element count, not the package length, bounds the walk.
	d.cursor.PackageLength()

	var numElements int64
	switch opcode {
	case opPackage:
		// DefPackage := PackageOp PkgLength NumElements PackageElementList
		numElements = int64(d.cursor.Byte())
	case opVarPackage:
		// DefVarPackage := VarPackageOp PkgLength VarNumElements PackageElementList
		arg, err := d.readTermArg(frame)
		if err != nil {
			return Value{}, err
		}
		numElements, err = arg.AsInteger()
		if err != nil {
			return Value{}, err
		}
	default:
		return Value{}, unimplementedOpcode("readPackage", opcode)
	}

	elements := make([]Value, 0, numElements)
	for i := int64(0); i < numElements; i++ {
		// PackageElement := DataRefObject | NameString
		if IsLeadNameChar(d.cursor.Peek()) {
			path, err := ParseNameString(d.cursor)
			if err != nil {
				return Value{}, err
			}
			return Value{}, fmt.Errorf("%w: name reference %q inside package", ErrUnimplementedFeature, path.String())
		}

		element, err := d.readDataRefObject(frame)
		if err != nil {
			return Value{}, err
		}
		elements = append(elements, element)
	}

	return PackageValue(elements), nil
}

// readComputationalData decodes constants, strings and buffers.
//
// ComputationalData := ByteConst | WordConst | DWordConst | QWordConst |
//                      String | ConstObj | RevisionOp | DefBuffer
func (d *Decoder) readComputationalData(frame *parseFrame, opcode uint16) (Value, error) {
	switch opcode {
	case opBytePrefix:
		return ByteValue(int8(d.cursor.Byte())), nil
	case opWordPrefix:
		return WordValue(int16(d.cursor.Word())), nil
	case opDWordPrefix:
		return DWordValue(int32(d.cursor.DWord())), nil
	case opQWordPrefix:
		return QWordValue(int64(d.cursor.QWord())), nil
	case opStringPrefix:
		s, err := d.cursor.String()
		if err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	case opZero:
		return QWordValue(0), nil
	case opOne:
		return QWordValue(1), nil
	case opOnes:
		return QWordValue(-1), nil
	case opRevision:
		return QWordValue(1), nil
	case opBuffer:
		return d.readDefBuffer(frame)
	default:
		return Value{}, unimplementedOpcode("readComputationalData", opcode)
	}
}

// readDataObject decodes DataObject := ComputationalData | DefPackage |
// DefVarPackage.
func (d *Decoder) readDataObject(frame *parseFrame, opcode uint16) (Value, error) {
	value, err := d.readComputationalData(frame, opcode)
	if err == nil {
		return value, nil
	}

	value, pkgErr := d.readPackage(frame, opcode)
	if pkgErr == nil {
		return value, nil
	}
	if opcode == opPackage || opcode == opVarPackage {
		return Value{}, pkgErr
	}

	return Value{}, err
}

// readDataRefObject decodes DataRefObject := DataObject | ObjectReference.
// Object references are unimplemented.
func (d *Decoder) readDataRefObject(frame *parseFrame) (Value, error) {
	opcode := d.cursor.Opcode()
	value, err := d.readDataObject(frame, opcode)
	if err == nil {
		return value, nil
	}
	var opErr *OpcodeError
	if errors.As(err, &opErr) && opErr.Opcode == opcode {
		return Value{}, unimplementedOpcode("readDataRefObject", opcode)
	}
	return Value{}, err
}

// readTermArg decodes TermArg := ExpressionOpcode | DataObject |
// ArgObj | LocalObj. Name-path expressions (method invocations) are
// recognised but not evaluated.
func (d *Decoder) readTermArg(frame *parseFrame) (Value, error) {
	if IsLeadNameChar(d.cursor.Peek()) {
		path, err := ParseNameString(d.cursor)
		if err != nil {
			return Value{}, err
		}
		return Value{}, fmt.Errorf("%w: object evaluation of %q", ErrUnimplementedFeature, path.String())
	}

	opcode := d.cursor.Opcode()
	value, err := d.readDataObject(frame, opcode)
	if err == nil {
		return value, nil
	}
	var opErr *OpcodeError
	if errors.As(err, &opErr) && opErr.Opcode == opcode {
		return Value{}, unimplementedOpcode("readTermArg", opcode)
	}
	return Value{}, err
}

func (d *Decoder) insertNode(path NameString, scope *Node, node *Node) error {
	return InsertNode(path, scope, d.table.NamespaceRoot(), node)
}
