package dm

import "github.com/tonylturner/dmdiag/internal/dm/result"

// Result keys for the status snapshot.
const (
	KeyBandClass       = "band-class"
	KeyBaseStationPrev = "base-station-prev"
	KeyMobilePrev      = "mobile-prev"
	KeyPrevInUse       = "prev-in-use"
	KeySnapshotState   = "state"
)

const (
	snapshotRspLen          = 36
	snapshotPrevOffset      = 27
	snapshotPrevInUseOffset = 28
	snapshotMobPrevOffset   = 29
	snapshotBandOffset      = 30
	snapshotStateOffset     = 34
)

// StatusSnapshotRequest returns the raw status snapshot request.
func StatusSnapshotRequest() []byte {
	return simpleRequest(OpStatusSnapshot)
}

// BuildStatusSnapshot frames a status snapshot request into dst.
func BuildStatusSnapshot(dst []byte) (int, error) {
	return encode(dst, StatusSnapshotRequest(), "status-snapshot")
}

// ParseStatusSnapshot decodes the band class, protocol revisions and call
// processing state. All values are normalized.
func ParseStatusSnapshot(buf []byte) (*result.Result, error) {
	if err := checkResponse(buf, OpStatusSnapshot, snapshotRspLen, "status-snapshot"); err != nil {
		return nil, err
	}
	res := result.New()
	res.AddU8(KeyBandClass, uint8(NormalizeBandClass(buf[snapshotBandOffset])))
	res.AddU8(KeyBaseStationPrev, uint8(NormalizePrev(buf[snapshotPrevOffset])))
	res.AddU8(KeyMobilePrev, uint8(NormalizePrev(buf[snapshotMobPrevOffset])))
	res.AddU8(KeyPrevInUse, uint8(NormalizePrev(buf[snapshotPrevInUseOffset])))
	res.AddU8(KeySnapshotState, uint8(NormalizeSnapshotState(buf[snapshotStateOffset])))
	return res, nil
}
