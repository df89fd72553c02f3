package dm

import "strings"

// RoamPref is the NV roaming preference.
type RoamPref uint8

const (
	RoamPrefHome RoamPref = 0x01
	RoamPrefRoam RoamPref = 0x06
	RoamPrefAuto RoamPref = 0xFF
)

// ValidRoamPref reports whether p is a roaming preference the device defines.
func ValidRoamPref(p uint8) bool {
	switch RoamPref(p) {
	case RoamPrefHome, RoamPrefRoam, RoamPrefAuto:
		return true
	}
	return false
}

func (p RoamPref) String() string {
	switch p {
	case RoamPrefHome:
		return "home-only"
	case RoamPrefRoam:
		return "roam-only"
	case RoamPrefAuto:
		return "auto"
	default:
		return "invalid"
	}
}

// ModePref is the NV network mode preference.
type ModePref uint8

const (
	ModePrefAuto    ModePref = 0x04
	ModePref1xOnly  ModePref = 0x09
	ModePrefHDROnly ModePref = 0x0A
)

// ValidModePref reports whether p is a mode preference the device defines.
func ValidModePref(p uint8) bool {
	switch ModePref(p) {
	case ModePrefAuto, ModePref1xOnly, ModePrefHDROnly:
		return true
	}
	return false
}

func (p ModePref) String() string {
	switch p {
	case ModePrefAuto:
		return "auto"
	case ModePref1xOnly:
		return "1x-only"
	case ModePrefHDROnly:
		return "hdr-only"
	default:
		return "invalid"
	}
}

// HDRRevPref is the NV EV-DO revision preference.
type HDRRevPref uint8

const (
	HDRRevPref0     HDRRevPref = 0x00
	HDRRevPrefA     HDRRevPref = 0x01
	HDRRevPrefEHRPD HDRRevPref = 0x04
)

// ValidHDRRevPref reports whether p is an EV-DO revision preference the
// device defines.
func ValidHDRRevPref(p uint8) bool {
	switch HDRRevPref(p) {
	case HDRRevPref0, HDRRevPrefA, HDRRevPrefEHRPD:
		return true
	}
	return false
}

func (p HDRRevPref) String() string {
	switch p {
	case HDRRevPref0:
		return "rev0"
	case HDRRevPrefA:
		return "revA"
	case HDRRevPrefEHRPD:
		return "ehrpd"
	default:
		return "invalid"
	}
}

// ParseRoamPref resolves a roaming preference name as printed by String.
func ParseRoamPref(s string) (RoamPref, bool) {
	for _, p := range []RoamPref{RoamPrefHome, RoamPrefRoam, RoamPrefAuto} {
		if strings.EqualFold(p.String(), s) {
			return p, true
		}
	}
	return 0, false
}

// ParseModePref resolves a mode preference name as printed by String.
func ParseModePref(s string) (ModePref, bool) {
	for _, p := range []ModePref{ModePrefAuto, ModePref1xOnly, ModePrefHDROnly} {
		if strings.EqualFold(p.String(), s) {
			return p, true
		}
	}
	return 0, false
}

// ParseHDRRevPref resolves an EV-DO revision preference name as printed by
// String.
func ParseHDRRevPref(s string) (HDRRevPref, bool) {
	for _, p := range []HDRRevPref{HDRRevPref0, HDRRevPrefA, HDRRevPrefEHRPD} {
		if strings.EqualFold(p.String(), s) {
			return p, true
		}
	}
	return 0, false
}
