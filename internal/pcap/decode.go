package pcap

import (
	"encoding/hex"
	"time"

	"github.com/tonylturner/dmdiag/internal/dm"
	"github.com/tonylturner/dmdiag/internal/dm/hdlc"
	"github.com/tonylturner/dmdiag/internal/report"
)

// logPacketCode marks modem-pushed log packets, which have no request.
const logPacketCode = 0x10

// Decode unframes every frame of c and parses it with the matching command.
//
// When the capture carries no direction (raw DM link type), frames are
// assumed to alternate: a frame seen while no request is outstanding is a
// request, the next one its response. Device error replies are parsed by the
// outstanding command so they surface as that command's error.
func Decode(c *Capture) *report.CaptureReport {
	rep := &report.CaptureReport{
		GeneratedAt: report.FormatTimestamp(time.Now()),
		Source:      c.Path,
		LinkType:    linkTypeName(c),
		Frames:      make([]report.CaptureFrame, 0, len(c.Frames)),
	}
	rep.Stats.Packets = c.Packets

	var (
		awaiting bool
		pending  *dm.Command
	)
	for i, f := range c.Frames {
		out := report.CaptureFrame{
			Index:     i + 1,
			Timestamp: report.FormatTimestamp(f.Timestamp),
			Raw:       hex.EncodeToString(f.Data),
		}
		rep.Stats.Frames++

		payload, err := hdlc.Decapsulate(f.Data)
		if err != nil {
			out.Direction = f.Direction.String()
			out.Error = err.Error()
			rep.Stats.Errors++
			rep.Frames = append(rep.Frames, out)
			continue
		}

		dir := f.Direction
		if dir == DirectionUnknown {
			switch {
			case payload[0] == logPacketCode:
				dir = DirectionResponse
			case awaiting:
				dir = DirectionResponse
			default:
				dir = DirectionRequest
			}
		}
		out.Direction = dir.String()

		if dir == DirectionRequest {
			rep.Stats.Requests++
			awaiting = true
			pending = nil
			if cmd, ok := dm.MatchFrame(payload); ok {
				pending = &cmd
				out.Command = cmd.Name
			} else {
				rep.Stats.Unknown++
			}
			rep.Frames = append(rep.Frames, out)
			continue
		}

		rep.Stats.Responses++
		cmd := pending
		if payload[0] == logPacketCode {
			cmd = nil
		} else {
			awaiting, pending = false, nil
		}
		if cmd == nil && !dm.IsDeviceError(payload) {
			if m, ok := dm.MatchFrame(payload); ok {
				cmd = &m
			}
		}
		if cmd == nil {
			rep.Stats.Unknown++
			rep.Frames = append(rep.Frames, out)
			continue
		}

		out.Command = cmd.Name
		res, err := cmd.Parse(payload)
		if err != nil {
			out.Error = err.Error()
			rep.Stats.Errors++
		} else {
			out.Fields = res
		}
		rep.Frames = append(rep.Frames, out)
	}
	return rep
}

func linkTypeName(c *Capture) string {
	if c.LinkType == LinkTypeDM {
		return "dm"
	}
	return c.LinkType.String()
}
