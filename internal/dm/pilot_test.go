package dm

import (
	"errors"
	"testing"

	"github.com/tonylturner/dmdiag/internal/dm/codec"
)

func pilotResponse(active, candidate, neighbor int, records [][2]uint16) []byte {
	buf := make([]byte, pilotSetsHeaderLen+4*len(records))
	buf[0] = byte(OpPilotSets)
	buf[3] = byte(active)
	buf[4] = byte(candidate)
	buf[5] = byte(neighbor)
	for i, r := range records {
		codec.PutUint16(buf, 6+4*i, r[0])
		codec.PutUint16(buf, 8+4*i, r[1])
	}
	return buf
}

func TestParsePilotSetsSegments(t *testing.T) {
	buf := pilotResponse(2, 1, 0, [][2]uint16{{168, 10}, {252, 0}, {36, 31}})

	res, err := ParsePilotSets(buf)
	if err != nil {
		t.Fatalf("ParsePilotSets: %v", err)
	}

	counts := []struct {
		kind PilotSetKind
		want int
	}{
		{PilotSetActive, 2},
		{PilotSetCandidate, 1},
		{PilotSetNeighbor, 0},
	}
	for _, c := range counts {
		got, ok := PilotSetCount(res, c.kind)
		if !ok || got != c.want {
			t.Errorf("%s count = %d (%v), want %d", c.kind, got, ok, c.want)
		}
	}
	if _, ok := res.Bytes("neighbor-set"); ok {
		t.Error("empty neighbor set should be absent")
	}

	pilots := []struct {
		kind PilotSetKind
		i    int
		pn   uint16
		db   float64
	}{
		{PilotSetActive, 0, 168, -5.0},
		{PilotSetActive, 1, 252, 0.0},
		{PilotSetCandidate, 0, 36, -15.5},
	}
	for _, p := range pilots {
		got, ok := PilotSetPilot(res, p.kind, p.i)
		if !ok {
			t.Fatalf("%s[%d] missing", p.kind, p.i)
		}
		if got.PNOffset != p.pn || got.DB != p.db {
			t.Errorf("%s[%d] = %+v, want pn %d dB %v", p.kind, p.i, got, p.pn, p.db)
		}
	}

	if _, ok := PilotSetPilot(res, PilotSetCandidate, 1); ok {
		t.Error("out of range pilot should not be found")
	}
	if _, ok := PilotSetCount(res, PilotSetKind(9)); ok {
		t.Error("unknown set kind should not be found")
	}
}

func TestParsePilotSetsLength(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"records missing", pilotResponse(2, 1, 0, [][2]uint16{{1, 1}})},
		{"too many pilots", func() []byte {
			b := pilotResponse(0, 0, 0, make([][2]uint16, 53))
			b[5] = 53
			return b
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ParsePilotSets(tt.buf)
			if !errors.Is(err, ErrBadLength) || res != nil {
				t.Errorf("res=%v err=%v, want BadLength", res, err)
			}
		})
	}
}

func TestParsePilotSetsEmpty(t *testing.T) {
	res, err := ParsePilotSets(pilotResponse(0, 0, 0, nil))
	if err != nil {
		t.Fatalf("ParsePilotSets: %v", err)
	}
	if res.Len() != 0 {
		t.Errorf("Len() = %d, want 0", res.Len())
	}
}

func TestECIOToDB(t *testing.T) {
	tests := []struct {
		ecio uint16
		want float64
	}{
		{0, 0.0},
		{10, -5.0},
		{63, -31.5},
	}
	for _, tt := range tests {
		if got := ECIOToDB(tt.ecio); got != tt.want {
			t.Errorf("ECIOToDB(%d) = %v, want %v", tt.ecio, got, tt.want)
		}
	}
}
