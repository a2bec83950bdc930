// Package helpers assembles AML table blobs for tests: hex-level body
// construction plus header emission with length and checksum fix-up.
package helpers

import (
	"encoding/binary"
	"fmt"

	"goacpi/aml"
)

// EncodePkgLength encodes n in the smallest PkgLength form. Lengths up
// to 63 fit the single-byte form; larger values spill their low nybble
// into the first byte and the rest into up to three follow-up bytes.
func EncodePkgLength(n int64) []byte {
	if n < 0 || n > 0x0FFFFFFF {
		panic(fmt.Sprintf("PkgLength %d out of range", n))
	}
	if n < 0x40 {
		return []byte{byte(n)}
	}

	followUp := 1
	switch {
	case n >= 1<<20:
		followUp = 3
	case n >= 1<<12:
		followUp = 2
	}

	out := []byte{byte(followUp)<<6 | byte(n&0x0F)}
	rest := n >> 4
	for i := 0; i < followUp; i++ {
		out = append(out, byte(rest))
		rest >>= 8
	}
	return out
}

// Segment returns the four bytes of a name segment, panicking on
// malformed test input.
func Segment(name string) []byte {
	if len(name) != 4 {
		panic(fmt.Sprintf("name segment %q must have length 4", name))
	}
	return []byte(name)
}

// Package wraps body in a PkgLength measured from the opcode start, as
// the decoder computes construct ends: opcodeBytes + len(PkgLength) +
// len(body). The PkgLength width feeds back into the length it encodes,
// so the encoding iterates until stable.
func Package(opcodeBytes int, body []byte) []byte {
	pkgWidth := 1
	for {
		total := int64(opcodeBytes + pkgWidth + len(body))
		encoded := EncodePkgLength(total)
		if len(encoded) == pkgWidth {
			return append(encoded, body...)
		}
		pkgWidth = len(encoded)
	}
}

// BuildTable assembles a complete table: a header with the given
// four-character signature, the body, and the length and checksum
// fields fixed up so the table validates.
func BuildTable(signature string, body []byte) []byte {
	var header aml.Header
	header.Signature = binary.LittleEndian.Uint32(Segment(signature))
	return BuildTableFromHeader(header, body)
}

// BuildTableFromHeader assembles a table from explicit header fields.
// The length field is overwritten with the real total length and the
// checksum byte is balanced so the whole table sums to zero.
func BuildTableFromHeader(header aml.Header, body []byte) []byte {
	total := aml.HeaderSize + len(body)
	out := make([]byte, 0, total)

	var scratch [4]byte
	binary.LittleEndian.PutUint32(scratch[:], header.Signature)
	out = append(out, scratch[:]...)
	binary.LittleEndian.PutUint32(scratch[:], uint32(total))
	out = append(out, scratch[:]...)
	out = append(out, header.SpecCompliance, 0) // checksum balanced below
	out = append(out, header.OEMID[:]...)
	out = append(out, header.OEMTableID[:]...)
	binary.LittleEndian.PutUint32(scratch[:], header.OEMRevision)
	out = append(out, scratch[:]...)
	binary.LittleEndian.PutUint32(scratch[:], header.CreatorID)
	out = append(out, scratch[:]...)
	binary.LittleEndian.PutUint32(scratch[:], header.CreatorRevision)
	out = append(out, scratch[:]...)
	out = append(out, body...)

	var sum uint8
	for _, b := range out {
		sum += b
	}
	out[9] = -sum
	return out
}
