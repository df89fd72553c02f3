package dm

import (
	"github.com/tonylturner/dmdiag/internal/dm/codec"
	"github.com/tonylturner/dmdiag/internal/dm/result"
)

// checkSubsys validates a subsystem response header after the opcode gate.
func checkSubsys(buf []byte, ids []Subsystem, cmd uint16, name string) error {
	id := Subsystem(buf[1])
	match := false
	for _, want := range ids {
		if id == want {
			match = true
			break
		}
	}
	if !match {
		return newError(KindUnexpectedResponse, name, "subsystem %d in response", uint8(id))
	}
	if got := codec.Uint16(buf, 2); got != cmd {
		return newError(KindUnexpectedResponse, name, "subsystem command %d, expected %d", got, cmd)
	}
	return nil
}

// Result keys for the call manager state.
const (
	KeyCallState            = "call-state"
	KeyOperatingMode        = "operating-mode"
	KeySystemMode           = "system-mode"
	KeyBandPref             = "band-pref"
	KeyServiceDomainPref    = "service-domain-pref"
	KeyAcqOrderPref         = "acq-order-pref"
	KeyHybridPref           = "hybrid-pref"
	KeyNetworkSelectionPref = "network-selection-pref"
)

const (
	cmStateInfoRspLen = 44
	cmRoamPrefOffset  = 24
)

// cmStateFields lists the u32 fields of the CM state response in wire order,
// starting at offset 4.
var cmStateFields = []string{
	KeyCallState,
	KeyOperatingMode,
	KeySystemMode,
	KeyModePref,
	KeyBandPref,
	KeyRoamPref,
	KeyServiceDomainPref,
	KeyAcqOrderPref,
	KeyHybridPref,
	KeyNetworkSelectionPref,
}

// CMStateInfoRequest returns the raw call manager state request.
func CMStateInfoRequest() []byte {
	return subsysRequest(SubsysCM, CMStateInfo, subsysHeaderLen)
}

// BuildCMStateInfo frames a call manager state request into dst.
func BuildCMStateInfo(dst []byte) (int, error) {
	return encode(dst, CMStateInfoRequest(), "cm-state-info")
}

// ParseCMStateInfo decodes the call manager state. The roaming preference is
// checked before anything is stored; an unknown value fails the whole parse.
func ParseCMStateInfo(buf []byte) (*result.Result, error) {
	const cmd = "cm-state-info"
	if err := checkResponse(buf, OpSubsys, cmStateInfoRspLen, cmd); err != nil {
		return nil, err
	}
	if err := checkSubsys(buf, []Subsystem{SubsysCM}, CMStateInfo, cmd); err != nil {
		return nil, err
	}
	roam := codec.Uint32(buf, cmRoamPrefOffset)
	if roam > 0xFF || !ValidRoamPref(uint8(roam)) {
		return nil, newError(KindUnexpectedResponse, cmd, "unknown roam preference 0x%X", roam)
	}

	res := result.New()
	for i, key := range cmStateFields {
		res.AddU32(key, codec.Uint32(buf, subsysHeaderLen+4*i))
	}
	return res, nil
}

// Result keys for the EV-DO state.
const (
	KeyATState          = "at-state"
	KeySessionState     = "session-state"
	KeyALMPState        = "almp-state"
	KeyInitState        = "init-state"
	KeyIdleState        = "idle-state"
	KeyConnectedState   = "connected-state"
	KeyRouteUpdateState = "route-update-state"
	KeyOverheadMsgState = "overhead-msg-state"
	KeyHDRHybridMode    = "hdr-hybrid-mode"
)

const hdrStateInfoRspLen = 13

// hdrStateFields lists the u8 fields of the HDR state response in wire order,
// starting at offset 4.
var hdrStateFields = []string{
	KeyATState,
	KeySessionState,
	KeyALMPState,
	KeyInitState,
	KeyIdleState,
	KeyConnectedState,
	KeyRouteUpdateState,
	KeyOverheadMsgState,
	KeyHDRHybridMode,
}

// HDRStateInfoRequest returns the raw EV-DO state request.
func HDRStateInfoRequest() []byte {
	return subsysRequest(SubsysHDR, HDRStateInfo, subsysHeaderLen)
}

// BuildHDRStateInfo frames an EV-DO state request into dst.
func BuildHDRStateInfo(dst []byte) (int, error) {
	return encode(dst, HDRStateInfoRequest(), "hdr-state-info")
}

// ParseHDRStateInfo decodes the EV-DO protocol state machine values.
func ParseHDRStateInfo(buf []byte) (*result.Result, error) {
	const cmd = "hdr-state-info"
	if err := checkResponse(buf, OpSubsys, hdrStateInfoRspLen, cmd); err != nil {
		return nil, err
	}
	if err := checkSubsys(buf, []Subsystem{SubsysHDR}, HDRStateInfo, cmd); err != nil {
		return nil, err
	}
	res := result.New()
	for i, key := range hdrStateFields {
		res.AddU8(key, buf[subsysHeaderLen+i])
	}
	return res, nil
}
