package dm

import (
	"strconv"

	"github.com/tonylturner/dmdiag/internal/dm/codec"
)

// NV read/write frame layout, shared by requests and responses.
const (
	nvItemOffset   = 1
	nvDataOffset   = 3
	nvDataLen      = 128
	nvStatusOffset = nvDataOffset + nvDataLen
	nvFrameLen     = nvStatusOffset + 2 // 133
)

// sentinelKind maps the device's error opcodes to error kinds.
func sentinelKind(code byte) (Kind, bool) {
	switch Opcode(code) {
	case OpBadCommand:
		return KindBadCommand, true
	case OpBadParameter:
		return KindBadParameter, true
	case OpBadLength:
		return KindBadLength, true
	case OpBadDevice:
		return KindNotAccepted, true
	case OpBadMode:
		return KindBadMode, true
	case OpBadSPCMode:
		return KindSPCLocked, true
	default:
		return 0, false
	}
}

// CheckResponse is the acceptance gate every parser runs before reading any
// field: non-empty, not a device error reply, echoes the expected opcode and
// is at least minLen bytes long.
func CheckResponse(buf []byte, expected Opcode, minLen int) error {
	return checkResponse(buf, expected, minLen, expected.String())
}

func checkResponse(buf []byte, expected Opcode, minLen int, cmd string) error {
	if len(buf) < 1 {
		return newError(KindMalformedResponse, cmd, "empty response")
	}
	if kind, ok := sentinelKind(buf[0]); ok {
		return newError(kind, cmd, "device rejected command (code %d)", buf[0])
	}
	if Opcode(buf[0]) != expected {
		return newError(KindUnexpectedResponse, cmd, "opcode %d, expected %d", buf[0], uint8(expected))
	}
	if len(buf) < minLen {
		return newError(KindBadLength, cmd, "got %d bytes, need at least %d", len(buf), minLen)
	}
	return nil
}

// CheckNVResponse validates the status and item fields of an NV read or write
// frame that CheckResponse already accepted.
func CheckNVResponse(buf []byte, item NVItem) error {
	return checkNVResponse(buf, item, item.String())
}

func checkNVResponse(buf []byte, item NVItem, cmd string) error {
	if len(buf) < nvFrameLen {
		return newError(KindBadLength, cmd, "got %d bytes, need %d", len(buf), nvFrameLen)
	}
	if status := codec.Uint16(buf, nvStatusOffset); status != 0 {
		return &Error{
			Kind:    KindNVOperationFailed,
			Command: cmd,
			Status:  status,
			Msg:     nvStatusString(status),
		}
	}
	if got := NVItem(codec.Uint16(buf, nvItemOffset)); got != item {
		return newError(KindUnexpectedResponse, cmd, "NV item %d, expected %d", uint16(got), uint16(item))
	}
	return nil
}

// NV operation status codes reported by the device.
const (
	NVStatusDone       uint16 = 0
	NVStatusBusy       uint16 = 1
	NVStatusBadCommand uint16 = 2
	NVStatusFull       uint16 = 3
	NVStatusFail       uint16 = 4
	NVStatusNotActive  uint16 = 5
	NVStatusBadParam   uint16 = 6
	NVStatusReadOnly   uint16 = 7
	NVStatusBadTable   uint16 = 8
	NVStatusBadMemory  uint16 = 9
	NVStatusInactive   uint16 = 10
)

func nvStatusString(status uint16) string {
	switch status {
	case NVStatusBusy:
		return "NV status busy"
	case NVStatusBadCommand:
		return "NV status bad command"
	case NVStatusFull:
		return "NV memory full"
	case NVStatusFail:
		return "NV operation failed"
	case NVStatusNotActive:
		return "NV item not active"
	case NVStatusBadParam:
		return "NV bad parameter"
	case NVStatusReadOnly:
		return "NV item read-only"
	case NVStatusBadTable:
		return "NV bad table"
	case NVStatusBadMemory:
		return "NV bad memory"
	case NVStatusInactive:
		return "NV item inactive"
	default:
		return "NV status " + strconv.Itoa(int(status))
	}
}
