package dm

import "strconv"

// CDMAPrev is a normalized CDMA protocol revision.
type CDMAPrev uint8

const (
	PrevUnknown     CDMAPrev = 0
	PrevIS95        CDMAPrev = 1 // also J-STD-008
	PrevIS95A       CDMAPrev = 2
	PrevIS95ATSB74  CDMAPrev = 3
	PrevIS95BPhase1 CDMAPrev = 4
	PrevIS95BPhase2 CDMAPrev = 5
	PrevIS2000Rel0  CDMAPrev = 6
	PrevIS2000RelA  CDMAPrev = 7
)

func (p CDMAPrev) String() string {
	switch p {
	case PrevIS95:
		return "IS-95"
	case PrevIS95A:
		return "IS-95A"
	case PrevIS95ATSB74:
		return "IS-95A TSB-74"
	case PrevIS95BPhase1:
		return "IS-95B phase 1"
	case PrevIS95BPhase2:
		return "IS-95B phase 2"
	case PrevIS2000Rel0:
		return "IS-2000 Rel 0"
	case PrevIS2000RelA:
		return "IS-2000 Rel A"
	default:
		return "Unknown"
	}
}

// NormalizePrev maps a device protocol revision byte to CDMAPrev.
func NormalizePrev(raw uint8) CDMAPrev {
	if raw >= uint8(PrevIS95) && raw <= uint8(PrevIS2000RelA) {
		return CDMAPrev(raw)
	}
	return PrevUnknown
}

// BandClass is a normalized CDMA band class. The device reports band class N
// as N; the normalized value is N+1 so that zero stays Unknown.
type BandClass uint8

const (
	BandClassUnknown BandClass = 0
	BandClass0       BandClass = 1 // 800 MHz cellular
	BandClass1       BandClass = 2 // 1900 MHz PCS
	BandClass19      BandClass = 20
)

// Number returns the device band class number, or -1 when unknown.
func (b BandClass) Number() int {
	if b == BandClassUnknown || b > BandClass19 {
		return -1
	}
	return int(b) - 1
}

func (b BandClass) String() string {
	n := b.Number()
	if n < 0 {
		return "Unknown"
	}
	return "BC" + strconv.Itoa(n)
}

// NormalizeBandClass maps a device band class byte (0..19) to BandClass.
func NormalizeBandClass(raw uint8) BandClass {
	if raw <= 19 {
		return BandClass(raw + 1)
	}
	return BandClassUnknown
}

// SnapshotState is a normalized call processing state from the status
// snapshot.
type SnapshotState uint8

const (
	SnapshotStateUnknown          SnapshotState = 0
	SnapshotStateNoService        SnapshotState = 1
	SnapshotStateInitialization   SnapshotState = 2
	SnapshotStateIdle             SnapshotState = 3
	SnapshotStateVoiceChannelInit SnapshotState = 4
	SnapshotStateWaitingForOrder  SnapshotState = 5
	SnapshotStateWaitingForAnswer SnapshotState = 6
	SnapshotStateConversation     SnapshotState = 7
	SnapshotStateRelease          SnapshotState = 8
	SnapshotStateSystemAccess     SnapshotState = 9
	SnapshotStateOffline          SnapshotState = 16
)

func (s SnapshotState) String() string {
	switch s {
	case SnapshotStateNoService:
		return "No_Service"
	case SnapshotStateInitialization:
		return "Initialization"
	case SnapshotStateIdle:
		return "Idle"
	case SnapshotStateVoiceChannelInit:
		return "Voice_Channel_Init"
	case SnapshotStateWaitingForOrder:
		return "Waiting_For_Order"
	case SnapshotStateWaitingForAnswer:
		return "Waiting_For_Answer"
	case SnapshotStateConversation:
		return "Conversation"
	case SnapshotStateRelease:
		return "Release"
	case SnapshotStateSystemAccess:
		return "System_Access"
	case SnapshotStateOffline:
		return "Offline"
	case SnapshotStateUnknown:
		return "Unknown"
	default:
		return "State_" + strconv.Itoa(int(s))
	}
}

// NormalizeSnapshotState keeps the low nibble of the raw state and offsets it
// by one.
func NormalizeSnapshotState(raw uint8) SnapshotState {
	return SnapshotState(raw&0x0F) + 1
}

// HDRRev is a normalized EV-DO revision.
type HDRRev uint8

const (
	HDRRevUnknown HDRRev = 0
	HDRRev0       HDRRev = 1
	HDRRevA       HDRRev = 2
)

func (r HDRRev) String() string {
	switch r {
	case HDRRev0:
		return "Rev0"
	case HDRRevA:
		return "RevA"
	default:
		return "Unknown"
	}
}

// NormalizeHDRRev maps the vendor snapshot's EV-DO revision byte.
func NormalizeHDRRev(raw uint8) HDRRev {
	switch raw {
	case 0:
		return HDRRev0
	case 1:
		return HDRRevA
	default:
		return HDRRevUnknown
	}
}
