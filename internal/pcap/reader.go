package pcap

// Reading DM traffic out of packet captures

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/tonylturner/dmdiag/internal/dm/hdlc"
)

// LinkTypeDM is DLT_USER0, used by dmdiag and other DM tools for captures
// whose packets are raw HDLC-framed DM bytes.
const LinkTypeDM layers.LinkType = 147

// Direction of a captured frame relative to the host.
type Direction uint8

const (
	DirectionUnknown Direction = iota
	DirectionRequest           // host to modem
	DirectionResponse          // modem to host
)

func (d Direction) String() string {
	switch d {
	case DirectionRequest:
		return "request"
	case DirectionResponse:
		return "response"
	default:
		return "unknown"
	}
}

// Frame is one framed DM message found in a capture.
type Frame struct {
	Packet    int // 1-based packet number
	Timestamp time.Time
	Direction Direction // unknown for raw DM link types
	Data      []byte    // still escaped, terminator included
}

// Capture holds every DM frame read from a file.
type Capture struct {
	Path     string
	LinkType layers.LinkType
	Packets  int
	Frames   []Frame
}

var pcapngMagic = []byte{0x0A, 0x0D, 0x0D, 0x0A}

type packetReader interface {
	ReadPacketData() ([]byte, gopacket.CaptureInfo, error)
}

// ReadFile reads a pcap or pcapng file and extracts its DM frames.
func ReadFile(path string) (*Capture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pcap file: %w", err)
	}
	defer f.Close()

	capture, err := Read(f)
	if err != nil {
		return nil, err
	}
	capture.Path = path
	return capture, nil
}

// Read extracts DM frames from a pcap or pcapng stream. Raw DM captures
// (link type 147) and Linux usbmon captures of the modem's bulk endpoints are
// supported.
func Read(r io.Reader) (*Capture, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(4)
	if err != nil {
		return nil, fmt.Errorf("read pcap header: %w", err)
	}

	var (
		src      packetReader
		linkType layers.LinkType
	)
	if bytes.Equal(magic, pcapngMagic) {
		ng, err := pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
		if err != nil {
			return nil, fmt.Errorf("open pcapng: %w", err)
		}
		src, linkType = ng, ng.LinkType()
	} else {
		pr, err := pcapgo.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("open pcap: %w", err)
		}
		src, linkType = pr, pr.LinkType()
	}

	if linkType != LinkTypeDM && linkType != layers.LinkTypeLinuxUSB {
		return nil, fmt.Errorf("unsupported link type %d (%s); expected raw DM (147) or Linux USB", int(linkType), linkType)
	}

	capture := &Capture{LinkType: linkType}
	var pending []byte
	for {
		data, ci, err := src.ReadPacketData()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read packet %d: %w", capture.Packets+1, err)
		}
		capture.Packets++

		payload, dir := data, DirectionUnknown
		if linkType == layers.LinkTypeLinuxUSB {
			var ok bool
			payload, dir, ok = usbBulkPayload(data)
			if !ok {
				continue
			}
		}

		pending = append(pending, payload...)
		for {
			advance, token, err := hdlc.Splitter(pending, false)
			if err != nil {
				return nil, fmt.Errorf("packet %d: %w", capture.Packets, err)
			}
			if token == nil {
				pending = pending[advance:]
				break
			}
			capture.Frames = append(capture.Frames, Frame{
				Packet:    capture.Packets,
				Timestamp: ci.Timestamp,
				Direction: dir,
				Data:      append([]byte(nil), token...),
			})
			pending = pending[advance:]
		}
	}
	return capture, nil
}

// usbBulkPayload returns the data stage of a usbmon bulk transfer record.
func usbBulkPayload(data []byte) ([]byte, Direction, bool) {
	pkt := gopacket.NewPacket(data, layers.LinkTypeLinuxUSB, gopacket.DecodeOptions{Lazy: true, NoCopy: true})
	layer := pkt.Layer(layers.LayerTypeUSB)
	if layer == nil {
		return nil, DirectionUnknown, false
	}
	usb := layer.(*layers.USB)
	if usb.TransferType != layers.USBTransportTypeBulk || usb.UrbDataLength == 0 {
		return nil, DirectionUnknown, false
	}
	n := int(usb.UrbDataLength)
	if n > len(data) {
		return nil, DirectionUnknown, false
	}

	dir := DirectionResponse
	if usb.Direction == layers.USBDirectionTypeOut {
		dir = DirectionRequest
	}
	return data[len(data)-n:], dir, true
}
