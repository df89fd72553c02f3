package dm

import (
	"github.com/tonylturner/dmdiag/internal/dm/codec"
	"github.com/tonylturner/dmdiag/internal/dm/result"
)

// PilotSetKind selects one of the three pilot sets.
type PilotSetKind uint8

const (
	PilotSetActive PilotSetKind = iota + 1
	PilotSetCandidate
	PilotSetNeighbor
)

// Key returns the result key holding the set's records.
func (k PilotSetKind) Key() string {
	switch k {
	case PilotSetActive:
		return "active-set"
	case PilotSetCandidate:
		return "candidate-set"
	case PilotSetNeighbor:
		return "neighbor-set"
	default:
		return ""
	}
}

func (k PilotSetKind) String() string {
	switch k {
	case PilotSetActive:
		return "active"
	case PilotSetCandidate:
		return "candidate"
	case PilotSetNeighbor:
		return "neighbor"
	default:
		return "unknown"
	}
}

// Pilot sets response: code, pilot_inc u16, active count, candidate count,
// neighbor count, then records in that order.
const (
	pilotSetsHeaderLen     = 6
	pilotActiveCountOffset = 3
	pilotCandCountOffset   = 4
	pilotNeighCountOffset  = 5
	pilotRecordLen         = 4
	MaxPilots              = 52
)

// Pilot is one decoded pilot set record.
type Pilot struct {
	PNOffset uint16
	ECIO     uint16  // raw, in -0.5 dB steps
	DB       float64 // ECIO * -0.5
}

// ECIOToDB converts a raw EC/IO value to dB.
func ECIOToDB(ecio uint16) float64 {
	return float64(ecio) * -0.5
}

// PilotSetsRequest returns the raw pilot sets request.
func PilotSetsRequest() []byte {
	return simpleRequest(OpPilotSets)
}

// BuildPilotSets frames a pilot sets request into dst.
func BuildPilotSets(dst []byte) (int, error) {
	return encode(dst, PilotSetsRequest(), "pilot-sets")
}

// ParsePilotSets splits the record array into active, candidate and neighbor
// segments. Empty segments are omitted from the result.
func ParsePilotSets(buf []byte) (*result.Result, error) {
	const cmd = "pilot-sets"
	if err := checkResponse(buf, OpPilotSets, pilotSetsHeaderLen, cmd); err != nil {
		return nil, err
	}

	counts := [3]int{
		int(buf[pilotActiveCountOffset]),
		int(buf[pilotCandCountOffset]),
		int(buf[pilotNeighCountOffset]),
	}
	total := counts[0] + counts[1] + counts[2]
	if total > MaxPilots {
		return nil, newError(KindBadLength, cmd, "%d pilots exceeds maximum %d", total, MaxPilots)
	}
	need := pilotSetsHeaderLen + total*pilotRecordLen
	if len(buf) < need {
		return nil, newError(KindBadLength, cmd, "got %d bytes, need %d for %d pilots", len(buf), need, total)
	}

	res := result.New()
	off := pilotSetsHeaderLen
	for i, kind := range []PilotSetKind{PilotSetActive, PilotSetCandidate, PilotSetNeighbor} {
		n := counts[i] * pilotRecordLen
		if n > 0 {
			res.AddBytes(kind.Key(), buf[off:off+n])
		}
		off += n
	}
	return res, nil
}

// PilotSetCount returns the number of pilots in the given set. A set absent
// from the result has zero pilots; ok is false only for an unknown kind.
func PilotSetCount(res *result.Result, kind PilotSetKind) (int, bool) {
	key := kind.Key()
	if key == "" {
		return 0, false
	}
	b, ok := res.Bytes(key)
	if !ok {
		return 0, true
	}
	return len(b) / pilotRecordLen, true
}

// PilotSetPilot returns record i of the given set.
func PilotSetPilot(res *result.Result, kind PilotSetKind, i int) (Pilot, bool) {
	b, ok := res.Bytes(kind.Key())
	if !ok || i < 0 || (i+1)*pilotRecordLen > len(b) {
		return Pilot{}, false
	}
	off := i * pilotRecordLen
	p := Pilot{
		PNOffset: codec.Uint16(b, off),
		ECIO:     codec.Uint16(b, off+2),
	}
	p.DB = ECIOToDB(p.ECIO)
	return p, true
}
