package codec

// Little-endian field access for DM wire layouts.
//
// Every DM structure is a fixed-origin byte layout with multi-byte fields in
// little-endian order. Callers validate the buffer length before reading, so
// these helpers index directly and panic on a short slice like encoding/binary.

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// MaxHexBytes is the largest byte array HexEncode will render.
const MaxHexBytes = 4095

// ErrHexLength is returned by HexEncode for an empty or oversized input.
var ErrHexLength = errors.New("hex encode: length out of range")

// Uint16 reads a little-endian uint16 at off.
func Uint16(b []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(b[off : off+2])
}

// Uint32 reads a little-endian uint32 at off.
func Uint32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

// PutUint16 writes a little-endian uint16 at off.
func PutUint16(b []byte, off int, value uint16) {
	binary.LittleEndian.PutUint16(b[off:off+2], value)
}

// PutUint32 writes a little-endian uint32 at off.
func PutUint32(b []byte, off int, value uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], value)
}

// ReverseBytes flips a 4-byte identifier stored least-significant byte first
// into display order.
func ReverseBytes(b [4]byte) [4]byte {
	return [4]byte{b[3], b[2], b[1], b[0]}
}

// HexEncode renders b as lowercase hex, two digits per byte.
func HexEncode(b []byte) (string, error) {
	if len(b) == 0 || len(b) > MaxHexBytes {
		return "", fmt.Errorf("%w: %d bytes (allowed 1..%d)", ErrHexLength, len(b), MaxHexBytes)
	}
	const digits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[2*i] = digits[v>>4]
		out[2*i+1] = digits[v&0x0F]
	}
	return string(out), nil
}

// FixedString copies a fixed-width character field that the device does not
// guarantee to terminate. The text ends at the first NUL or at the field width.
func FixedString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// PutFixedString writes s into a fixed-width field, truncating or zero-padding.
func PutFixedString(b []byte, s string) {
	n := copy(b, s)
	for i := n; i < len(b); i++ {
		b[i] = 0
	}
}
