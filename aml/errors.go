package aml

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the decoder. All of them propagate unwrapped
// or wrapped with context, so callers can match with errors.Is.
var (
	// ErrHeaderInvalid reports a table too short to carry the fixed
	// 36-byte header, or a header with a zero length field.
	ErrHeaderInvalid = errors.New("invalid table header")

	// ErrChecksumMismatch reports a table whose byte sum is non-zero.
	ErrChecksumMismatch = errors.New("table checksum mismatch")

	// ErrInvalidNamePath reports a malformed name path: a bad lead or
	// trailing character, a bad prefix sequence, or a multi-name path
	// with zero segments.
	ErrInvalidNamePath = errors.New("invalid name path")

	// ErrInvalidString reports a non-ASCII byte inside a string constant.
	ErrInvalidString = errors.New("invalid character in string")

	// ErrPathNotFound reports a namespace lookup miss.
	ErrPathNotFound = errors.New("path not found")

	// ErrPathDepthOverflow reports a relative path whose carat count
	// walks above the namespace root.
	ErrPathDepthOverflow = errors.New("path depth overflows root")

	// ErrDuplicateChild reports an insertion that would collide with an
	// existing child of the same name.
	ErrDuplicateChild = errors.New("duplicate child name")

	// ErrInvalidNullName reports dirname/basename taken of a path with
	// no segments.
	ErrInvalidNullName = errors.New("null name has no segments")

	// ErrUnimplementedFeature reports a construct the decoder
	// recognises but does not handle, such as a method invocation at
	// term level or a name reference inside a package.
	ErrUnimplementedFeature = errors.New("unimplemented feature")

	// ErrTypeMismatch reports a value coercion from the wrong variant.
	ErrTypeMismatch = errors.New("value type mismatch")

	// ErrArgumentIndex reports a parse frame argument slot out of range.
	ErrArgumentIndex = errors.New("argument index out of bounds")
)

// OpcodeError reports an opcode the decoder does not implement,
// together with the decoder function that rejected it.
type OpcodeError struct {
	Fn     string
	Opcode uint16
}

func (e *OpcodeError) Error() string {
	return fmt.Sprintf("%s: unimplemented opcode 0x%04X", e.Fn, e.Opcode)
}

func unimplementedOpcode(fn string, opcode uint16) error {
	return &OpcodeError{Fn: fn, Opcode: opcode}
}
