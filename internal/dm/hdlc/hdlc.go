package hdlc

// HDLC-style framing for DM commands.
//
// Frame: [escaped(payload + CRC-16 LE)] 0x7E
//
// 0x7E and 0x7D inside the payload or CRC are sent as 0x7D, b^0x20. The CRC is
// CRC-16/X-25 (reflected CCITT, init 0xFFFF, final complement).

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/sigurn/crc16"
)

// Framing constants.
const (
	FlagByte   byte = 0x7E
	EscapeByte byte = 0x7D
	EscapeMask byte = 0x20

	CRCSize    = 2
	TrailerLen = CRCSize + 1 // CRC + flag, before escaping

	// MaxFrameSize bounds a decoded frame; DM responses are well under 4 KiB.
	MaxFrameSize = 4096
)

var (
	ErrBufferTooSmall = errors.New("hdlc: destination buffer too small")
	ErrNoTerminator   = errors.New("hdlc: missing frame terminator")
	ErrBadEscape      = errors.New("hdlc: invalid escape sequence")
	ErrCRCMismatch    = errors.New("hdlc: CRC mismatch")
	ErrFrameTooShort  = errors.New("hdlc: frame too short")
	ErrFrameTooLong   = errors.New("hdlc: frame too long")
)

var crcTable = crc16.MakeTable(crc16.CRC16_X_25)

// Checksum computes the DM frame CRC over data.
func Checksum(data []byte) uint16 {
	return crc16.Checksum(data, crcTable)
}

// EncapsulatedLen returns the framed size of raw.
func EncapsulatedLen(raw []byte) int {
	crc := Checksum(raw)
	n := 1 // flag
	for _, b := range raw {
		n += escapedLen(b)
	}
	n += escapedLen(byte(crc)) + escapedLen(byte(crc>>8))
	return n
}

// Encapsulate frames raw for transmission.
func Encapsulate(raw []byte) []byte {
	out := make([]byte, EncapsulatedLen(raw))
	n, _ := EncapsulateInto(out, raw)
	return out[:n]
}

// EncapsulateInto frames raw into dst and returns the number of bytes written.
// Nothing is written when dst cannot hold the whole frame.
func EncapsulateInto(dst, raw []byte) (int, error) {
	need := EncapsulatedLen(raw)
	if len(dst) < need {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferTooSmall, need, len(dst))
	}

	crc := Checksum(raw)
	n := 0
	for _, b := range raw {
		n += putEscaped(dst[n:], b)
	}
	n += putEscaped(dst[n:], byte(crc))
	n += putEscaped(dst[n:], byte(crc>>8))
	dst[n] = FlagByte
	return n + 1, nil
}

// Decapsulate unescapes one frame, verifies its CRC and returns the payload.
// Leading flag bytes are skipped and decoding stops at the first terminator.
func Decapsulate(frame []byte) ([]byte, error) {
	start := 0
	for start < len(frame) && frame[start] == FlagByte {
		start++
	}
	end := bytes.IndexByte(frame[start:], FlagByte)
	if end < 0 {
		return nil, ErrNoTerminator
	}
	body := frame[start : start+end]

	raw := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		b := body[i]
		if b == EscapeByte {
			i++
			if i >= len(body) {
				return nil, ErrBadEscape
			}
			b = body[i] ^ EscapeMask
		}
		raw = append(raw, b)
	}
	if len(raw) > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLong, len(raw))
	}
	if len(raw) < CRCSize+1 {
		return nil, fmt.Errorf("%w: %d bytes (minimum %d)", ErrFrameTooShort, len(raw), CRCSize+1)
	}

	payload := raw[:len(raw)-CRCSize]
	got := uint16(raw[len(raw)-2]) | uint16(raw[len(raw)-1])<<8
	want := Checksum(payload)
	if got != want {
		return nil, fmt.Errorf("%w: got 0x%04X, want 0x%04X", ErrCRCMismatch, got, want)
	}
	return payload, nil
}

// Splitter is a bufio.SplitFunc that yields one escaped frame per terminator,
// terminator included. Empty frames between back-to-back flags are skipped.
func Splitter(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) && data[start] == FlagByte {
		start++
	}
	if i := bytes.IndexByte(data[start:], FlagByte); i >= 0 {
		end := start + i + 1
		return end, data[start:end], nil
	}
	if len(data)-start > 2*MaxFrameSize {
		return 0, nil, ErrFrameTooLong
	}
	if atEOF {
		if start < len(data) {
			return len(data), nil, ErrNoTerminator
		}
		return len(data), nil, nil
	}
	return start, nil, nil
}

func escapedLen(b byte) int {
	if b == FlagByte || b == EscapeByte {
		return 2
	}
	return 1
}

func putEscaped(dst []byte, b byte) int {
	if b == FlagByte || b == EscapeByte {
		dst[0] = EscapeByte
		dst[1] = b ^ EscapeMask
		return 2
	}
	dst[0] = b
	return 1
}
