package dm

import (
	"github.com/tonylturner/dmdiag/internal/dm/codec"
	"github.com/tonylturner/dmdiag/internal/dm/result"
)

// Result keys for NV items.
const (
	KeyProfile    = "profile"
	KeyMDN        = "mdn"
	KeyRoamPref   = "roam-pref"
	KeyModePref   = "mode-pref"
	KeyHDRRevPref = "rev-pref"
)

// Item data layouts, relative to the NV data field at offset 3.
const (
	nvProfileOffset = nvDataOffset     // MDN, roam and mode items
	nvValueOffset   = nvDataOffset + 1 // roam and mode preference
	nvMDNOffset     = nvDataOffset + 1
	nvRevOffset     = nvDataOffset // HDR rev preference has no profile
	MDNLen          = 10
)

// nvRequest allocates an NV read or write frame for item.
func nvRequest(op Opcode, item NVItem) []byte {
	buf := make([]byte, nvFrameLen)
	buf[0] = byte(op)
	codec.PutUint16(buf, nvItemOffset, uint16(item))
	return buf
}

// parseNV runs both validation gates for an NV response.
func parseNV(buf []byte, op Opcode, item NVItem, cmd string) error {
	if err := checkResponse(buf, op, nvFrameLen, cmd); err != nil {
		return err
	}
	return checkNVResponse(buf, item, cmd)
}

// NVGetMDNRequest returns the raw directory number read for profile.
func NVGetMDNRequest(profile uint8) []byte {
	buf := nvRequest(OpNVRead, NVDirNumber)
	buf[nvProfileOffset] = profile
	return buf
}

// BuildNVGetMDN frames a directory number read into dst.
func BuildNVGetMDN(dst []byte, profile uint8) (int, error) {
	return encode(dst, NVGetMDNRequest(profile), "nv-get-mdn")
}

// ParseNVGetMDN decodes the profile index and directory number.
func ParseNVGetMDN(buf []byte) (*result.Result, error) {
	return parseMDN(buf, OpNVRead, "nv-get-mdn")
}

// NVSetMDNRequest returns the raw directory number write. The number must be
// 1 to 10 decimal digits.
func NVSetMDNRequest(profile uint8, mdn string) ([]byte, error) {
	if len(mdn) == 0 || len(mdn) > MDNLen {
		return nil, newError(KindInvalidArgument, "nv-set-mdn", "MDN must be 1-%d digits, got %d", MDNLen, len(mdn))
	}
	for i := 0; i < len(mdn); i++ {
		if mdn[i] < '0' || mdn[i] > '9' {
			return nil, newError(KindInvalidArgument, "nv-set-mdn", "MDN contains non-digit %q", mdn[i])
		}
	}
	buf := nvRequest(OpNVWrite, NVDirNumber)
	buf[nvProfileOffset] = profile
	codec.PutFixedString(buf[nvMDNOffset:nvMDNOffset+MDNLen], mdn)
	return buf, nil
}

// BuildNVSetMDN frames a directory number write into dst.
func BuildNVSetMDN(dst []byte, profile uint8, mdn string) (int, error) {
	raw, err := NVSetMDNRequest(profile, mdn)
	if err != nil {
		return 0, err
	}
	return encode(dst, raw, "nv-set-mdn")
}

// ParseNVSetMDN validates a directory number write and returns the values the
// device echoed.
func ParseNVSetMDN(buf []byte) (*result.Result, error) {
	return parseMDN(buf, OpNVWrite, "nv-set-mdn")
}

func parseMDN(buf []byte, op Opcode, cmd string) (*result.Result, error) {
	if err := parseNV(buf, op, NVDirNumber, cmd); err != nil {
		return nil, err
	}
	res := result.New()
	res.AddU8(KeyProfile, buf[nvProfileOffset])
	res.AddString(KeyMDN, codec.FixedString(buf[nvMDNOffset:nvMDNOffset+MDNLen]))
	return res, nil
}

// NVGetRoamPrefRequest returns the raw roaming preference read for profile.
func NVGetRoamPrefRequest(profile uint8) []byte {
	buf := nvRequest(OpNVRead, NVRoamPref)
	buf[nvProfileOffset] = profile
	return buf
}

// BuildNVGetRoamPref frames a roaming preference read into dst.
func BuildNVGetRoamPref(dst []byte, profile uint8) (int, error) {
	return encode(dst, NVGetRoamPrefRequest(profile), "nv-get-roam-pref")
}

// ParseNVGetRoamPref decodes the roaming preference. A value outside the
// known set is rejected rather than passed through.
func ParseNVGetRoamPref(buf []byte) (*result.Result, error) {
	return parseProfilePref(buf, OpNVRead, NVRoamPref, KeyRoamPref, ValidRoamPref, "nv-get-roam-pref")
}

// NVSetRoamPrefRequest returns the raw roaming preference write.
func NVSetRoamPrefRequest(profile uint8, pref RoamPref) ([]byte, error) {
	if !ValidRoamPref(uint8(pref)) {
		return nil, newError(KindInvalidArgument, "nv-set-roam-pref", "invalid roam preference 0x%02X", uint8(pref))
	}
	buf := nvRequest(OpNVWrite, NVRoamPref)
	buf[nvProfileOffset] = profile
	buf[nvValueOffset] = uint8(pref)
	return buf, nil
}

// BuildNVSetRoamPref frames a roaming preference write into dst.
func BuildNVSetRoamPref(dst []byte, profile uint8, pref RoamPref) (int, error) {
	raw, err := NVSetRoamPrefRequest(profile, pref)
	if err != nil {
		return 0, err
	}
	return encode(dst, raw, "nv-set-roam-pref")
}

// ParseNVSetRoamPref validates a roaming preference write and returns the
// echoed fields unchecked.
func ParseNVSetRoamPref(buf []byte) (*result.Result, error) {
	return parseProfilePref(buf, OpNVWrite, NVRoamPref, KeyRoamPref, nil, "nv-set-roam-pref")
}

// NVGetModePrefRequest returns the raw mode preference read for profile.
func NVGetModePrefRequest(profile uint8) []byte {
	buf := nvRequest(OpNVRead, NVModePref)
	buf[nvProfileOffset] = profile
	return buf
}

// BuildNVGetModePref frames a mode preference read into dst.
func BuildNVGetModePref(dst []byte, profile uint8) (int, error) {
	return encode(dst, NVGetModePrefRequest(profile), "nv-get-mode-pref")
}

// ParseNVGetModePref decodes the mode preference.
func ParseNVGetModePref(buf []byte) (*result.Result, error) {
	return parseProfilePref(buf, OpNVRead, NVModePref, KeyModePref, ValidModePref, "nv-get-mode-pref")
}

// NVSetModePrefRequest returns the raw mode preference write.
func NVSetModePrefRequest(profile uint8, pref ModePref) ([]byte, error) {
	if !ValidModePref(uint8(pref)) {
		return nil, newError(KindInvalidArgument, "nv-set-mode-pref", "invalid mode preference 0x%02X", uint8(pref))
	}
	buf := nvRequest(OpNVWrite, NVModePref)
	buf[nvProfileOffset] = profile
	buf[nvValueOffset] = uint8(pref)
	return buf, nil
}

// BuildNVSetModePref frames a mode preference write into dst.
func BuildNVSetModePref(dst []byte, profile uint8, pref ModePref) (int, error) {
	raw, err := NVSetModePrefRequest(profile, pref)
	if err != nil {
		return 0, err
	}
	return encode(dst, raw, "nv-set-mode-pref")
}

// ParseNVSetModePref validates a mode preference write and returns the echoed
// fields unchecked.
func ParseNVSetModePref(buf []byte) (*result.Result, error) {
	return parseProfilePref(buf, OpNVWrite, NVModePref, KeyModePref, nil, "nv-set-mode-pref")
}

// parseProfilePref decodes a profile/preference pair. A nil valid skips the
// membership check; write acks need not echo the value.
func parseProfilePref(buf []byte, op Opcode, item NVItem, key string, valid func(uint8) bool, cmd string) (*result.Result, error) {
	if err := parseNV(buf, op, item, cmd); err != nil {
		return nil, err
	}
	pref := buf[nvValueOffset]
	if valid != nil && !valid(pref) {
		return nil, newError(KindUnexpectedResponse, cmd, "device reported unknown %s 0x%02X", key, pref)
	}
	res := result.New()
	res.AddU8(KeyProfile, buf[nvProfileOffset])
	res.AddU8(key, pref)
	return res, nil
}

// NVGetHDRRevPrefRequest returns the raw EV-DO revision preference read.
func NVGetHDRRevPrefRequest() []byte {
	return nvRequest(OpNVRead, NVHDRRevPref)
}

// BuildNVGetHDRRevPref frames an EV-DO revision preference read into dst.
func BuildNVGetHDRRevPref(dst []byte) (int, error) {
	return encode(dst, NVGetHDRRevPrefRequest(), "nv-get-hdr-rev-pref")
}

// ParseNVGetHDRRevPref decodes the EV-DO revision preference.
func ParseNVGetHDRRevPref(buf []byte) (*result.Result, error) {
	return parseRevPref(buf, OpNVRead, true, "nv-get-hdr-rev-pref")
}

// NVSetHDRRevPrefRequest returns the raw EV-DO revision preference write.
func NVSetHDRRevPrefRequest(pref HDRRevPref) ([]byte, error) {
	if !ValidHDRRevPref(uint8(pref)) {
		return nil, newError(KindInvalidArgument, "nv-set-hdr-rev-pref", "invalid HDR revision preference 0x%02X", uint8(pref))
	}
	buf := nvRequest(OpNVWrite, NVHDRRevPref)
	buf[nvRevOffset] = uint8(pref)
	return buf, nil
}

// BuildNVSetHDRRevPref frames an EV-DO revision preference write into dst.
func BuildNVSetHDRRevPref(dst []byte, pref HDRRevPref) (int, error) {
	raw, err := NVSetHDRRevPrefRequest(pref)
	if err != nil {
		return 0, err
	}
	return encode(dst, raw, "nv-set-hdr-rev-pref")
}

// ParseNVSetHDRRevPref validates an EV-DO revision preference write and
// returns the echoed value unchecked.
func ParseNVSetHDRRevPref(buf []byte) (*result.Result, error) {
	return parseRevPref(buf, OpNVWrite, false, "nv-set-hdr-rev-pref")
}

func parseRevPref(buf []byte, op Opcode, strict bool, cmd string) (*result.Result, error) {
	if err := parseNV(buf, op, NVHDRRevPref, cmd); err != nil {
		return nil, err
	}
	pref := buf[nvRevOffset]
	if strict && !ValidHDRRevPref(pref) {
		return nil, newError(KindUnexpectedResponse, cmd, "device reported unknown rev-pref 0x%02X", pref)
	}
	res := result.New()
	res.AddU8(KeyHDRRevPref, pref)
	return res, nil
}
