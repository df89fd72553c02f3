package dm

import (
	"bytes"
	"errors"
	"testing"

	"github.com/tonylturner/dmdiag/internal/dm/codec"
	"github.com/tonylturner/dmdiag/internal/dm/hdlc"
)

// unframe decodes the request a Build call wrote into dst.
func unframe(t *testing.T, dst []byte, n int, err error) []byte {
	t.Helper()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	raw, err := hdlc.Decapsulate(dst[:n])
	if err != nil {
		t.Fatalf("decapsulate: %v", err)
	}
	return raw
}

func sampleParams(name string) Params {
	switch name {
	case "nv-get-mdn", "nv-get-roam-pref", "nv-get-mode-pref":
		return Params{"profile": "1"}
	case "nv-set-mdn":
		return Params{"profile": "1", "mdn": "5551234567"}
	case "nv-set-roam-pref":
		return Params{"profile": "0", "pref": "roam-only"}
	case "nv-set-mode-pref":
		return Params{"profile": "0", "pref": "hdr-only"}
	case "nv-set-hdr-rev-pref":
		return Params{"pref": "ehrpd"}
	case "ext-log-mask":
		return Params{"items": "3,10", "max": "16"}
	case "event-report":
		return Params{"on": "true"}
	case "nw-snapshot":
		return Params{"chipset": "6800"}
	default:
		return Params{}
	}
}

func TestBuildSimpleRequests(t *testing.T) {
	tests := []struct {
		name  string
		build func([]byte) (int, error)
		want  []byte
	}{
		{"version-info", BuildVersionInfo, []byte{0x00}},
		{"esn", BuildESN, []byte{0x01}},
		{"cdma-status", BuildCDMAStatus, []byte{0x0C}},
		{"sw-version", BuildSWVersion, []byte{0x38}},
		{"status-snapshot", BuildStatusSnapshot, []byte{0x63}},
		{"pilot-sets", BuildPilotSets, []byte{0x40}},
		{"cm-state-info", BuildCMStateInfo, []byte{0x4B, 0x0F, 0x00, 0x00}},
		{"hdr-state-info", BuildHDRStateInfo, []byte{0x4B, 0x05, 0x08, 0x00}},
		{"zte-status", BuildZTEStatus, []byte{0x4B, 0x65, 0x00, 0x00}},
		{"nv-get-hdr-rev-pref", BuildNVGetHDRRevPref, NVGetHDRRevPrefRequest()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]byte, 512)
			n, err := tt.build(dst)
			raw := unframe(t, dst, n, err)
			if !bytes.Equal(raw, tt.want) {
				t.Errorf("request = % X, want % X", raw, tt.want)
			}
		})
	}
}

func TestBuildVersionInfoFrame(t *testing.T) {
	dst := make([]byte, 16)
	n, err := BuildVersionInfo(dst)
	if err != nil {
		t.Fatalf("BuildVersionInfo: %v", err)
	}
	if !bytes.Equal(dst[:n], []byte{0x00, 0x78, 0xF0, 0x7E}) {
		t.Errorf("frame = % X", dst[:n])
	}
}

func TestBuildBufferTooSmall(t *testing.T) {
	dst := make([]byte, 10)
	n, err := BuildNVGetMDN(dst, 0)
	if !errors.Is(err, ErrBufferTooSmall) {
		t.Fatalf("error = %v, want BufferTooSmall", err)
	}
	if n != 0 {
		t.Errorf("n = %d, want 0", n)
	}
	if !bytes.Equal(dst, make([]byte, 10)) {
		t.Errorf("destination written: % X", dst)
	}
}

func TestBuildInvalidArgumentWritesNothing(t *testing.T) {
	tests := []struct {
		name  string
		build func([]byte) (int, error)
	}{
		{"roam pref", func(d []byte) (int, error) { return BuildNVSetRoamPref(d, 0, RoamPref(0x02)) }},
		{"mode pref", func(d []byte) (int, error) { return BuildNVSetModePref(d, 0, ModePref(0x01)) }},
		{"hdr rev pref", func(d []byte) (int, error) { return BuildNVSetHDRRevPref(d, HDRRevPref(0x02)) }},
		{"mdn letters", func(d []byte) (int, error) { return BuildNVSetMDN(d, 0, "555ABC") }},
		{"mdn too long", func(d []byte) (int, error) { return BuildNVSetMDN(d, 0, "12345678901") }},
		{"chipset", func(d []byte) (int, error) { return BuildNWModemSnapshot(d, Chipset(3)) }},
		{"log item over max", func(d []byte) (int, error) { return BuildExtLogMask(d, []uint16{3, 17}, 16) }},
		{"log item zero", func(d []byte) (int, error) { return BuildExtLogMask(d, []uint16{0}, 16) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]byte, 512)
			n, err := tt.build(dst)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("error = %v, want InvalidArgument", err)
			}
			if n != 0 || !bytes.Equal(dst, make([]byte, 512)) {
				t.Errorf("bytes produced on invalid input (n=%d)", n)
			}
		})
	}
}

func TestParseVersionInfo(t *testing.T) {
	buf := make([]byte, versionInfoRspLen)
	buf[0] = byte(OpVersionInfo)
	copy(buf[1:], "Oct 12 2009")
	copy(buf[12:], "11:20:00")
	copy(buf[20:], "Sep 30 2009")
	copy(buf[31:], "14:00:00")
	copy(buf[39:], "Q6085") // shorter than its field

	res, err := ParseVersionInfo(buf)
	if err != nil {
		t.Fatalf("ParseVersionInfo: %v", err)
	}
	want := map[string]string{
		KeyCompDate:    "Oct 12 2009",
		KeyCompTime:    "11:20:00",
		KeyReleaseDate: "Sep 30 2009",
		KeyReleaseTime: "14:00:00",
		KeyModel:       "Q6085",
	}
	for key, v := range want {
		if got, ok := res.String(key); !ok || got != v {
			t.Errorf("%s = %q, want %q", key, got, v)
		}
	}
}

func TestParseESN(t *testing.T) {
	res, err := ParseESN([]byte{byte(OpESN), 0x01, 0x02, 0x03, 0x04})
	if err != nil {
		t.Fatalf("ParseESN: %v", err)
	}
	if esn, _ := res.String(KeyESN); esn != "04030201" {
		t.Errorf("esn = %q, want 04030201", esn)
	}
}

func TestParseCDMAStatus(t *testing.T) {
	buf := make([]byte, statusRspLen)
	buf[0] = byte(OpStatus)
	copy(buf[4:], []byte{0xEF, 0xBE, 0xAD, 0xDE})
	codec.PutUint16(buf, 8, 2)
	codec.PutUint16(buf, 23, 5)
	codec.PutUint16(buf, 32, 7)
	codec.PutUint16(buf, 34, 283)
	buf[36] = 9
	codec.PutUint16(buf, 37, 168)
	codec.PutUint16(buf, 39, 4139)
	codec.PutUint16(buf, 41, 65535)

	res, err := ParseCDMAStatus(buf)
	if err != nil {
		t.Fatalf("ParseCDMAStatus: %v", err)
	}
	if esn, _ := res.String(KeyESN); esn != "deadbeef" {
		t.Errorf("esn = %q", esn)
	}
	u32 := map[string]uint32{
		KeyRFMode:         2,
		KeyRXState:        5,
		KeyEntryReason:    7,
		KeyCurrentChannel: 283,
		KeyPilotBase:      168,
		KeySID:            4139,
		KeyNID:            65535,
	}
	for key, want := range u32 {
		if got, ok := res.U32(key); !ok || got != want {
			t.Errorf("%s = %d, want %d", key, got, want)
		}
	}
	if got, _ := res.U8(KeyCodeChannel); got != 9 {
		t.Errorf("code channel = %d, want 9", got)
	}
}

func TestParseSWVersion(t *testing.T) {
	buf := make([]byte, swVersionRspLen)
	buf[0] = byte(OpSWVersion)
	copy(buf[1:], "QQQQQQQQQQQQQQQQQQQQ") // fills all 20 bytes, no terminator
	copy(buf[21:], "Jan 01 2010")
	copy(buf[32:], "00:00:01")

	res, err := ParseSWVersion(buf)
	if err != nil {
		t.Fatalf("ParseSWVersion: %v", err)
	}
	if v, _ := res.String(KeySWVersion); len(v) != swVersionLen {
		t.Errorf("version = %q, want 20 characters", v)
	}
	if v, _ := res.String(KeyCompTime); v != "00:00:01" {
		t.Errorf("comp time = %q", v)
	}
}

func TestParseStatusSnapshot(t *testing.T) {
	buf := make([]byte, snapshotRspLen)
	buf[0] = byte(OpStatusSnapshot)
	buf[27] = 6    // base station prev
	buf[28] = 0x20 // prev in use, unmapped
	buf[29] = 7    // mobile prev
	buf[30] = 1    // band class 1
	buf[34] = 0x13 // state, low nibble 3

	res, err := ParseStatusSnapshot(buf)
	if err != nil {
		t.Fatalf("ParseStatusSnapshot: %v", err)
	}
	want := map[string]uint8{
		KeyBaseStationPrev: uint8(PrevIS2000Rel0),
		KeyPrevInUse:       uint8(PrevUnknown),
		KeyMobilePrev:      uint8(PrevIS2000RelA),
		KeyBandClass:       uint8(BandClass1),
		KeySnapshotState:   uint8(SnapshotStateVoiceChannelInit),
	}
	for key, v := range want {
		if got, _ := res.U8(key); got != v {
			t.Errorf("%s = %d, want %d", key, got, v)
		}
	}
}

func TestParseCMStateInfo(t *testing.T) {
	rsp := func(roam uint32) []byte {
		buf := make([]byte, cmStateInfoRspLen)
		copy(buf, CMStateInfoRequest())
		for i := range cmStateFields {
			codec.PutUint32(buf, 4+4*i, uint32(i+1))
		}
		codec.PutUint32(buf, cmRoamPrefOffset, roam)
		return buf
	}

	res, err := ParseCMStateInfo(rsp(uint32(RoamPrefAuto)))
	if err != nil {
		t.Fatalf("ParseCMStateInfo: %v", err)
	}
	if res.Len() != len(cmStateFields) {
		t.Errorf("Len() = %d, want %d", res.Len(), len(cmStateFields))
	}
	if v, _ := res.U32(KeyRoamPref); v != uint32(RoamPrefAuto) {
		t.Errorf("roam pref = 0x%X", v)
	}
	if v, _ := res.U32(KeyNetworkSelectionPref); v != 10 {
		t.Errorf("network selection pref = %d, want 10", v)
	}

	for _, bad := range []uint32{0x02, 0x1FF, 0} {
		res, err := ParseCMStateInfo(rsp(bad))
		if !errors.Is(err, ErrUnexpectedResponse) || res != nil {
			t.Errorf("roam 0x%X: res=%v err=%v, want UnexpectedResponse", bad, res, err)
		}
	}
}

func TestParseSubsysMismatch(t *testing.T) {
	buf := make([]byte, cmStateInfoRspLen)
	copy(buf, HDRStateInfoRequest())
	if _, err := ParseCMStateInfo(buf); !errors.Is(err, ErrUnexpectedResponse) {
		t.Errorf("error = %v, want UnexpectedResponse", err)
	}
}

func TestParseHDRStateInfo(t *testing.T) {
	buf := make([]byte, hdrStateInfoRspLen)
	copy(buf, HDRStateInfoRequest())
	for i := 4; i < hdrStateInfoRspLen; i++ {
		buf[i] = byte(i)
	}
	res, err := ParseHDRStateInfo(buf)
	if err != nil {
		t.Fatalf("ParseHDRStateInfo: %v", err)
	}
	if v, _ := res.U8(KeyATState); v != 4 {
		t.Errorf("at state = %d, want 4", v)
	}
	if v, _ := res.U8(KeyHDRHybridMode); v != 12 {
		t.Errorf("hybrid mode = %d, want 12", v)
	}
}

func TestParseZTEStatus(t *testing.T) {
	buf := make([]byte, zteStatusRspLen)
	copy(buf, ZTEStatusRequest())
	buf[12] = 4
	res, err := ParseZTEStatus(buf)
	if err != nil {
		t.Fatalf("ParseZTEStatus: %v", err)
	}
	if v, _ := res.U8(KeySignalIndicator); v != 4 {
		t.Errorf("signal indicator = %d, want 4", v)
	}
}

func TestNWModemSnapshot(t *testing.T) {
	for _, tt := range []struct {
		chip Chipset
		id   Subsystem
	}{
		{Chipset6500, SubsysNWControl6500},
		{Chipset6800, SubsysNWControl6800},
	} {
		t.Run(tt.chip.String(), func(t *testing.T) {
			dst := make([]byte, 64)
			n, err := BuildNWModemSnapshot(dst, tt.chip)
			raw := unframe(t, dst, n, err)
			want := []byte{0x4B, byte(tt.id), 0x07, 0x00, 0x07, 0xFF, 0xFF, 0x00, 0x00}
			if !bytes.Equal(raw, want) {
				t.Fatalf("request = % X, want % X", raw, want)
			}

			buf := make([]byte, nwSnapshotRspLen)
			copy(buf, raw[:4])
			codec.PutUint32(buf, 9, 0xFFFFFFA6)
			buf[27] = 6
			buf[28] = 0
			buf[29] = 1
			buf[51] = 1

			res, err := ParseNWModemSnapshot(buf)
			if err != nil {
				t.Fatalf("ParseNWModemSnapshot: %v", err)
			}
			if v, _ := res.U32(KeyRSSI); v != 0xFFFFFFA6 {
				t.Errorf("rssi = 0x%X", v)
			}
			if v, _ := res.U8(KeyPrev); v != uint8(PrevIS2000Rel0) {
				t.Errorf("prev = %d", v)
			}
			if v, _ := res.U8(KeyBandClass); v != uint8(BandClass0) {
				t.Errorf("band class = %d", v)
			}
			if v, _ := res.U8(KeyERI); v != 1 {
				t.Errorf("eri = %d", v)
			}
			if v, _ := res.U8(KeyHDRRev); v != uint8(HDRRevA) {
				t.Errorf("hdr rev = %d", v)
			}
		})
	}
}

func TestEventReport(t *testing.T) {
	for _, on := range []bool{true, false} {
		dst := make([]byte, 16)
		n, err := BuildEventReport(dst, on)
		raw := unframe(t, dst, n, err)
		if len(raw) != 2 || raw[0] != byte(OpEventReport) || (raw[1] == 1) != on {
			t.Errorf("on=%v: request = % X", on, raw)
		}
		res, err := ParseEventReport(raw)
		if err != nil || res.Len() != 0 {
			t.Errorf("ParseEventReport: res=%v err=%v", res, err)
		}
	}
}
