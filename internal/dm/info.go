package dm

import (
	"github.com/tonylturner/dmdiag/internal/dm/codec"
	"github.com/tonylturner/dmdiag/internal/dm/result"
)

// Result keys for the identity commands.
const (
	KeyCompDate       = "comp-date"
	KeyCompTime       = "comp-time"
	KeyReleaseDate    = "release-date"
	KeyReleaseTime    = "release-time"
	KeyModel          = "model"
	KeyESN            = "esn"
	KeyRFMode         = "rf-mode"
	KeyRXState        = "rx-state"
	KeyEntryReason    = "entry-reason"
	KeyCurrentChannel = "current-channel"
	KeyCodeChannel    = "code-channel"
	KeyPilotBase      = "pilot-base"
	KeySID            = "sid"
	KeyNID            = "nid"
	KeySWVersion      = "version"
)

// Version info response: code, comp date[11], comp time[8], rel date[11],
// rel time[8], model[8], then fields this codec does not decode.
const (
	versionInfoRspLen = 55

	dateLen  = 11
	timeLen  = 8
	modelLen = 8
)

// VersionInfoRequest returns the raw version info request.
func VersionInfoRequest() []byte {
	return simpleRequest(OpVersionInfo)
}

// BuildVersionInfo frames a version info request into dst.
func BuildVersionInfo(dst []byte) (int, error) {
	return encode(dst, VersionInfoRequest(), "version-info")
}

// ParseVersionInfo decodes the firmware build dates and model string.
func ParseVersionInfo(buf []byte) (*result.Result, error) {
	if err := checkResponse(buf, OpVersionInfo, versionInfoRspLen, "version-info"); err != nil {
		return nil, err
	}
	res := result.New()
	res.AddString(KeyCompDate, codec.FixedString(buf[1:1+dateLen]))
	res.AddString(KeyCompTime, codec.FixedString(buf[12:12+timeLen]))
	res.AddString(KeyReleaseDate, codec.FixedString(buf[20:20+dateLen]))
	res.AddString(KeyReleaseTime, codec.FixedString(buf[31:31+timeLen]))
	res.AddString(KeyModel, codec.FixedString(buf[39:39+modelLen]))
	return res, nil
}

const esnRspLen = 5

// ESNRequest returns the raw electronic serial number request.
func ESNRequest() []byte {
	return simpleRequest(OpESN)
}

// BuildESN frames an ESN request into dst.
func BuildESN(dst []byte) (int, error) {
	return encode(dst, ESNRequest(), "esn")
}

// ParseESN decodes the ESN. The device sends it least-significant byte first;
// the result holds it in display order as eight hex digits.
func ParseESN(buf []byte) (*result.Result, error) {
	if err := checkResponse(buf, OpESN, esnRspLen, "esn"); err != nil {
		return nil, err
	}
	esn, err := hexIdentifier(buf, 1, "esn")
	if err != nil {
		return nil, err
	}
	res := result.New()
	res.AddString(KeyESN, esn)
	return res, nil
}

// CDMA status response offsets.
const (
	statusRspLen            = 48
	statusESNOffset         = 4
	statusRFModeOffset      = 8
	statusRXStateOffset     = 23
	statusEntryReasonOffset = 32
	statusCurrChanOffset    = 34
	statusCodeChanOffset    = 36
	statusPilotBaseOffset   = 37
	statusSIDOffset         = 39
	statusNIDOffset         = 41
)

// CDMAStatusRequest returns the raw CDMA status request.
func CDMAStatusRequest() []byte {
	return simpleRequest(OpStatus)
}

// BuildCDMAStatus frames a CDMA status request into dst.
func BuildCDMAStatus(dst []byte) (int, error) {
	return encode(dst, CDMAStatusRequest(), "cdma-status")
}

// ParseCDMAStatus decodes the CDMA call processing status. 16-bit fields are
// widened to 32 bits in the result.
func ParseCDMAStatus(buf []byte) (*result.Result, error) {
	if err := checkResponse(buf, OpStatus, statusRspLen, "cdma-status"); err != nil {
		return nil, err
	}
	esn, err := hexIdentifier(buf, statusESNOffset, "cdma-status")
	if err != nil {
		return nil, err
	}
	res := result.New()
	res.AddString(KeyESN, esn)
	res.AddU32(KeyRFMode, uint32(codec.Uint16(buf, statusRFModeOffset)))
	res.AddU32(KeyRXState, uint32(codec.Uint16(buf, statusRXStateOffset)))
	res.AddU32(KeyEntryReason, uint32(codec.Uint16(buf, statusEntryReasonOffset)))
	res.AddU32(KeyCurrentChannel, uint32(codec.Uint16(buf, statusCurrChanOffset)))
	res.AddU8(KeyCodeChannel, buf[statusCodeChanOffset])
	res.AddU32(KeyPilotBase, uint32(codec.Uint16(buf, statusPilotBaseOffset)))
	res.AddU32(KeySID, uint32(codec.Uint16(buf, statusSIDOffset)))
	res.AddU32(KeyNID, uint32(codec.Uint16(buf, statusNIDOffset)))
	return res, nil
}

// Software version response: code, version[20], comp date[11], comp time[8].
const (
	swVersionRspLen = 40
	swVersionLen    = 20
)

// SWVersionRequest returns the raw software version request.
func SWVersionRequest() []byte {
	return simpleRequest(OpSWVersion)
}

// BuildSWVersion frames a software version request into dst.
func BuildSWVersion(dst []byte) (int, error) {
	return encode(dst, SWVersionRequest(), "sw-version")
}

// ParseSWVersion decodes the software version string and build date.
func ParseSWVersion(buf []byte) (*result.Result, error) {
	if err := checkResponse(buf, OpSWVersion, swVersionRspLen, "sw-version"); err != nil {
		return nil, err
	}
	res := result.New()
	res.AddString(KeySWVersion, codec.FixedString(buf[1:1+swVersionLen]))
	res.AddString(KeyCompDate, codec.FixedString(buf[21:21+dateLen]))
	res.AddString(KeyCompTime, codec.FixedString(buf[32:32+timeLen]))
	return res, nil
}
