package report

import (
	"fmt"
	"strconv"

	"github.com/tonylturner/dmdiag/internal/dm"
	"github.com/tonylturner/dmdiag/internal/dm/result"
)

// DescribeValue renders a result field for people: enumerations get their
// name alongside the raw value, byte arrays are shown as hex.
func DescribeValue(key string, v result.Value) string {
	switch v.Kind {
	case result.KindString:
		return strconv.Quote(v.Str)
	case result.KindBytes:
		return fmt.Sprintf("%x", v.Bytes)
	case result.KindU32:
		if key == dm.KeyRoamPref && v.U32 <= 0xFF {
			return named(dm.RoamPref(v.U32).String(), v.U32)
		}
		return strconv.FormatUint(uint64(v.U32), 10)
	case result.KindU8:
		return describeU8(key, v.U8)
	default:
		return "?"
	}
}

func describeU8(key string, v uint8) string {
	switch key {
	case dm.KeyBandClass:
		return named(dm.BandClass(v).String(), uint32(v))
	case dm.KeyBaseStationPrev, dm.KeyMobilePrev, dm.KeyPrevInUse, dm.KeyPrev:
		return named(dm.CDMAPrev(v).String(), uint32(v))
	case dm.KeySnapshotState:
		return named(dm.SnapshotState(v).String(), uint32(v))
	case dm.KeyHDRRev:
		return named(dm.HDRRev(v).String(), uint32(v))
	case dm.KeyRoamPref:
		return named(dm.RoamPref(v).String(), uint32(v))
	case dm.KeyModePref:
		return named(dm.ModePref(v).String(), uint32(v))
	case dm.KeyHDRRevPref:
		return named(dm.HDRRevPref(v).String(), uint32(v))
	default:
		return strconv.Itoa(int(v))
	}
}

func named(name string, raw uint32) string {
	return fmt.Sprintf("%s (0x%02X)", name, raw)
}

// PilotRows expands the pilot set records of a pilot sets result.
func PilotRows(res *result.Result) []PilotRow {
	var rows []PilotRow
	for _, kind := range []dm.PilotSetKind{dm.PilotSetActive, dm.PilotSetCandidate, dm.PilotSetNeighbor} {
		n, _ := dm.PilotSetCount(res, kind)
		for i := 0; i < n; i++ {
			p, ok := dm.PilotSetPilot(res, kind, i)
			if !ok {
				break
			}
			rows = append(rows, PilotRow{Set: kind.String(), PNOffset: p.PNOffset, ECIO: p.ECIO, DB: p.DB})
		}
	}
	return rows
}

// Expand fills the derived views (pilot rows, enabled log items) for a
// decoded command.
func (r *CommandReport) Expand() {
	if r.Fields == nil {
		return
	}
	switch r.Command {
	case "pilot-sets":
		r.Pilots = PilotRows(r.Fields)
	case "ext-log-mask":
		r.LogItems = dm.ExtLogMaskItems(r.Fields)
	}
}
