package dm

import (
	"errors"
	"testing"

	"github.com/tonylturner/dmdiag/internal/dm/codec"
	"github.com/tonylturner/dmdiag/internal/dm/result"
)

// NV write responses echo the request frame with status 0, so the raw request
// doubles as a well-formed response.

func TestNVMDNRoundTrip(t *testing.T) {
	dst := make([]byte, 300)
	n, err := BuildNVSetMDN(dst, 2, "5551234567")
	raw := unframe(t, dst, n, err)
	if len(raw) != nvFrameLen || raw[0] != byte(OpNVWrite) {
		t.Fatalf("request = % X", raw)
	}
	if NVItem(codec.Uint16(raw, 1)) != NVDirNumber {
		t.Fatalf("item = %d", codec.Uint16(raw, 1))
	}

	res, err := ParseNVSetMDN(raw)
	if err != nil {
		t.Fatalf("ParseNVSetMDN: %v", err)
	}
	if p, _ := res.U8(KeyProfile); p != 2 {
		t.Errorf("profile = %d, want 2", p)
	}
	if mdn, _ := res.String(KeyMDN); mdn != "5551234567" {
		t.Errorf("mdn = %q", mdn)
	}

	get := NVGetMDNRequest(2)
	copy(get[nvMDNOffset:], "8005551")
	res, err = ParseNVGetMDN(get)
	if err != nil {
		t.Fatalf("ParseNVGetMDN: %v", err)
	}
	if mdn, _ := res.String(KeyMDN); mdn != "8005551" {
		t.Errorf("mdn = %q, want 8005551", mdn)
	}
}

func TestNVRoamPrefRoundTrip(t *testing.T) {
	for _, pref := range []RoamPref{RoamPrefHome, RoamPrefRoam, RoamPrefAuto} {
		t.Run(pref.String(), func(t *testing.T) {
			dst := make([]byte, 300)
			n, err := BuildNVSetRoamPref(dst, 1, pref)
			raw := unframe(t, dst, n, err)

			res, err := ParseNVSetRoamPref(raw)
			if err != nil {
				t.Fatalf("ParseNVSetRoamPref: %v", err)
			}
			if v, _ := res.U8(KeyRoamPref); v != uint8(pref) {
				t.Errorf("roam pref = 0x%02X, want 0x%02X", v, uint8(pref))
			}
			if v, _ := res.U8(KeyProfile); v != 1 {
				t.Errorf("profile = %d, want 1", v)
			}

			// The same payload answered to a read.
			get := NVGetRoamPrefRequest(1)
			get[nvValueOffset] = uint8(pref)
			if _, err := ParseNVGetRoamPref(get); err != nil {
				t.Errorf("ParseNVGetRoamPref: %v", err)
			}
		})
	}
}

func TestNVGetRoamPrefRejectsUnknown(t *testing.T) {
	buf := NVGetRoamPrefRequest(0)
	buf[nvValueOffset] = 0x02
	res, err := ParseNVGetRoamPref(buf)
	if !errors.Is(err, ErrUnexpectedResponse) {
		t.Errorf("error = %v, want UnexpectedResponse", err)
	}
	if res != nil {
		t.Error("result returned for unknown roam preference")
	}
}

func TestNVModePrefRoundTrip(t *testing.T) {
	for _, pref := range []ModePref{ModePrefAuto, ModePref1xOnly, ModePrefHDROnly} {
		dst := make([]byte, 300)
		n, err := BuildNVSetModePref(dst, 0, pref)
		raw := unframe(t, dst, n, err)
		res, err := ParseNVSetModePref(raw)
		if err != nil {
			t.Fatalf("%s: %v", pref, err)
		}
		if v, _ := res.U8(KeyModePref); v != uint8(pref) {
			t.Errorf("%s: mode pref = 0x%02X", pref, v)
		}
	}

	bad := NVGetModePrefRequest(0)
	bad[nvValueOffset] = 0x05
	if _, err := ParseNVGetModePref(bad); !errors.Is(err, ErrUnexpectedResponse) {
		t.Errorf("unknown mode pref error = %v", err)
	}
}

func TestNVHDRRevPrefRoundTrip(t *testing.T) {
	for _, pref := range []HDRRevPref{HDRRevPref0, HDRRevPrefA, HDRRevPrefEHRPD} {
		dst := make([]byte, 300)
		n, err := BuildNVSetHDRRevPref(dst, pref)
		raw := unframe(t, dst, n, err)
		if raw[nvDataOffset] != uint8(pref) {
			t.Errorf("%s: rev pref byte = 0x%02X", pref, raw[nvDataOffset])
		}
		res, err := ParseNVSetHDRRevPref(raw)
		if err != nil {
			t.Fatalf("%s: %v", pref, err)
		}
		if v, _ := res.U8(KeyHDRRevPref); v != uint8(pref) {
			t.Errorf("%s: rev pref = 0x%02X", pref, v)
		}
	}

	bad := NVGetHDRRevPrefRequest()
	bad[nvDataOffset] = 0x03
	if _, err := ParseNVGetHDRRevPref(bad); !errors.Is(err, ErrUnexpectedResponse) {
		t.Errorf("unknown rev pref error = %v", err)
	}
}

func TestNVReadAnsweredAsWriteIsUnexpected(t *testing.T) {
	buf := NVGetRoamPrefRequest(0)
	buf[nvValueOffset] = uint8(RoamPrefAuto)
	if _, err := ParseNVSetRoamPref(buf); !errors.Is(err, ErrUnexpectedResponse) {
		t.Errorf("error = %v, want UnexpectedResponse", err)
	}
}

func TestNVOperationFailedCarriesStatus(t *testing.T) {
	buf := NVGetMDNRequest(0)
	codec.PutUint16(buf, nvStatusOffset, NVStatusNotActive)
	_, err := ParseNVGetMDN(buf)
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindNVOperationFailed {
		t.Fatalf("error = %v, want NVOperationFailed", err)
	}
	if e.Status != NVStatusNotActive {
		t.Errorf("status = %d, want %d", e.Status, NVStatusNotActive)
	}
}

// A write ack need not echo the written value; only the get side is strict.
func TestNVSetAckWithZeroedData(t *testing.T) {
	tests := []struct {
		name  string
		item  NVItem
		parse func([]byte) (*result.Result, error)
		key   string
	}{
		{"roam pref", NVRoamPref, ParseNVSetRoamPref, KeyRoamPref},
		{"mode pref", NVModePref, ParseNVSetModePref, KeyModePref},
		{"hdr rev pref", NVHDRRevPref, ParseNVSetHDRRevPref, KeyHDRRevPref},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := nvRequest(OpNVWrite, tt.item)
			ack[nvValueOffset] = 0x02
			ack[nvRevOffset] = 0x07
			res, err := tt.parse(ack)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if _, ok := res.U8(tt.key); !ok {
				t.Errorf("%s missing from result", tt.key)
			}
		})
	}

	get := NVGetRoamPrefRequest(0)
	get[nvValueOffset] = 0x02
	if _, err := ParseNVGetRoamPref(get); !errors.Is(err, ErrUnexpectedResponse) {
		t.Errorf("get error = %v, want Unexpected_Response", err)
	}
}
