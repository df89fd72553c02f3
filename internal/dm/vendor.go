package dm

import (
	"github.com/tonylturner/dmdiag/internal/dm/codec"
	"github.com/tonylturner/dmdiag/internal/dm/result"
)

// Vendor subsystem commands.

const (
	KeySignalIndicator = "signal-indicator"

	zteStatusRspLen    = 14
	zteSignalIndOffset = 12
)

// ZTEStatusRequest returns the raw ZTE status request.
func ZTEStatusRequest() []byte {
	return subsysRequest(SubsysZTE, ZTEStatus, subsysHeaderLen)
}

// BuildZTEStatus frames a ZTE status request into dst.
func BuildZTEStatus(dst []byte) (int, error) {
	return encode(dst, ZTEStatusRequest(), "zte-status")
}

// ParseZTEStatus decodes the signal indicator.
func ParseZTEStatus(buf []byte) (*result.Result, error) {
	const cmd = "zte-status"
	if err := checkResponse(buf, OpSubsys, zteStatusRspLen, cmd); err != nil {
		return nil, err
	}
	if err := checkSubsys(buf, []Subsystem{SubsysZTE}, ZTEStatus, cmd); err != nil {
		return nil, err
	}
	res := result.New()
	res.AddU8(KeySignalIndicator, buf[zteSignalIndOffset])
	return res, nil
}

// Result keys for the modem snapshot.
const (
	KeyRSSI   = "rssi"
	KeyPrev   = "prev"
	KeyERI    = "eri"
	KeyHDRRev = "hdr-rev"
)

// Modem snapshot request: subsys header, technology @4, mask u32 @5.
// Response: subsys header, response code u32 @4, then the CDMA block @9.
const (
	nwSnapshotReqLen     = 9
	nwSnapshotTechOffset = 4
	nwSnapshotMaskOffset = 5
	nwSnapshotRspLen     = 109
	nwSnapshotDataOffset = 9
	nwRSSIOffset         = nwSnapshotDataOffset
	nwPrevOffset         = nwSnapshotDataOffset + 18
	nwBandClassOffset    = nwSnapshotDataOffset + 19
	nwERIOffset          = nwSnapshotDataOffset + 20
	nwHDRRevOffset       = nwSnapshotDataOffset + 42
)

func chipsetSubsystem(c Chipset) (Subsystem, bool) {
	switch c {
	case Chipset6500:
		return SubsysNWControl6500, true
	case Chipset6800:
		return SubsysNWControl6800, true
	default:
		return 0, false
	}
}

// NWModemSnapshotRequest returns the raw CDMA/EV-DO modem snapshot request
// for the given chipset.
func NWModemSnapshotRequest(chipset Chipset) ([]byte, error) {
	id, ok := chipsetSubsystem(chipset)
	if !ok {
		return nil, newError(KindInvalidArgument, "nw-snapshot", "unknown chipset %d", uint8(chipset))
	}
	buf := subsysRequest(id, NWModemSnapshot, nwSnapshotReqLen)
	buf[nwSnapshotTechOffset] = NWSnapshotTechCDMA
	codec.PutUint32(buf, nwSnapshotMaskOffset, NWSnapshotMaskAll)
	return buf, nil
}

// BuildNWModemSnapshot frames a modem snapshot request into dst.
func BuildNWModemSnapshot(dst []byte, chipset Chipset) (int, error) {
	raw, err := NWModemSnapshotRequest(chipset)
	if err != nil {
		return 0, err
	}
	return encode(dst, raw, "nw-snapshot")
}

// ParseNWModemSnapshot decodes RSSI, protocol revision, band class, ERI and
// EV-DO revision from the CDMA snapshot block. The response code at offset 4
// is not interpreted.
func ParseNWModemSnapshot(buf []byte) (*result.Result, error) {
	const cmd = "nw-snapshot"
	if err := checkResponse(buf, OpSubsys, nwSnapshotRspLen, cmd); err != nil {
		return nil, err
	}
	ids := []Subsystem{SubsysNWControl6500, SubsysNWControl6800}
	if err := checkSubsys(buf, ids, NWModemSnapshot, cmd); err != nil {
		return nil, err
	}
	res := result.New()
	res.AddU32(KeyRSSI, codec.Uint32(buf, nwRSSIOffset))
	res.AddU8(KeyPrev, uint8(NormalizePrev(buf[nwPrevOffset])))
	res.AddU8(KeyBandClass, uint8(NormalizeBandClass(buf[nwBandClassOffset])))
	res.AddU8(KeyERI, buf[nwERIOffset])
	res.AddU8(KeyHDRRev, uint8(NormalizeHDRRev(buf[nwHDRRevOffset])))
	return res, nil
}
