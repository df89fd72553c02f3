package pcap

// Hex dump utilities for frame inspection

import (
	"fmt"
	"strings"

	"github.com/tonylturner/dmdiag/internal/dm/hdlc"
)

// HexDump creates a hex dump of data
func HexDump(data []byte, width int) string {
	if width <= 0 {
		width = 16
	}

	var sb strings.Builder
	for i := 0; i < len(data); i += width {
		fmt.Fprintf(&sb, "%04x: ", i)

		for j := 0; j < width; j++ {
			if i+j < len(data) {
				fmt.Fprintf(&sb, "%02x ", data[i+j])
			} else {
				sb.WriteString("   ")
			}
		}

		sb.WriteString(" |")
		for j := 0; j < width && i+j < len(data); j++ {
			b := data[i+j]
			if b >= 32 && b < 127 {
				sb.WriteByte(b)
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteString("|\n")
	}

	return sb.String()
}

// FormatFrameHex dumps an escaped frame. With annotate set the frame is
// unframed and the payload and CRC are labeled; frames that fail to unframe
// are dumped as-is with the error.
func FormatFrameHex(frame []byte, annotate bool) string {
	if !annotate {
		return HexDump(frame, 16)
	}

	payload, err := hdlc.Decapsulate(frame)
	if err != nil {
		return fmt.Sprintf("Frame (%d bytes, %v):\n%s", len(frame), err, HexDump(frame, 16))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Payload (%d bytes, opcode %d):\n", len(payload), payload[0])
	sb.WriteString(HexDump(payload, 16))
	fmt.Fprintf(&sb, "CRC: %04x\n", hdlc.Checksum(payload))
	return sb.String()
}
