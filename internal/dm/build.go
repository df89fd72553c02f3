package dm

import (
	"errors"

	"github.com/tonylturner/dmdiag/internal/dm/codec"
	"github.com/tonylturner/dmdiag/internal/dm/hdlc"
)

// encode frames raw into dst. dst is checked before the frame adapter runs so
// a short destination is never partially written.
func encode(dst, raw []byte, cmd string) (int, error) {
	need := hdlc.EncapsulatedLen(raw)
	if len(dst) < need {
		return 0, newError(KindBufferTooSmall, cmd, "need %d bytes, have %d", need, len(dst))
	}
	n, err := hdlc.EncapsulateInto(dst, raw)
	if err != nil {
		return 0, &Error{Kind: KindBufferTooSmall, Command: cmd, Err: err}
	}
	return n, nil
}

// Frame frames a raw request built by one of the Request functions. It is the
// allocating counterpart of the Build functions.
func Frame(raw []byte) []byte {
	return hdlc.Encapsulate(raw)
}

// FramedLen returns the destination size a Build call needs for raw.
func FramedLen(raw []byte) int {
	return hdlc.EncapsulatedLen(raw)
}

// simpleRequest is a request made of the opcode alone.
func simpleRequest(op Opcode) []byte {
	return []byte{byte(op)}
}

func subsysRequest(id Subsystem, cmd uint16, size int) []byte {
	buf := make([]byte, size)
	buf[0] = byte(OpSubsys)
	buf[1] = byte(id)
	codec.PutUint16(buf, 2, cmd)
	return buf
}

// hexIdentifier reverses a 4-byte little-endian identifier and hex-encodes it.
func hexIdentifier(buf []byte, off int, cmd string) (string, error) {
	var id [4]byte
	copy(id[:], buf[off:off+4])
	rev := codec.ReverseBytes(id)
	s, err := codec.HexEncode(rev[:])
	if err != nil {
		kind := KindMalformedResponse
		if errors.Is(err, codec.ErrHexLength) {
			kind = KindInvalidArgument
		}
		return "", &Error{Kind: kind, Command: cmd, Err: err}
	}
	return s, nil
}
