// Package dm encodes DM diagnostic requests and validates and decodes the
// modem's responses.
//
// Every Build function writes one framed request into a caller buffer and
// returns the number of bytes written. Every Parse function takes a de-framed
// response and returns a populated result.Result or an *Error; there are no
// partial results.
package dm

import "fmt"

// Opcode is the first byte of every DM request and response.
type Opcode uint8

// DM command codes.
const (
	OpVersionInfo    Opcode = 0
	OpESN            Opcode = 1
	OpStatus         Opcode = 12
	OpBadCommand     Opcode = 19
	OpBadParameter   Opcode = 20
	OpBadLength      Opcode = 21
	OpBadDevice      Opcode = 22
	OpBadMode        Opcode = 24
	OpNVRead         Opcode = 38
	OpNVWrite        Opcode = 39
	OpSWVersion      Opcode = 56
	OpPilotSets      Opcode = 64
	OpBadSPCMode     Opcode = 66
	OpSubsys         Opcode = 75
	OpExtLogMask     Opcode = 93
	OpEventReport    Opcode = 96
	OpStatusSnapshot Opcode = 99
)

// String returns the command name for the opcode.
func (o Opcode) String() string {
	switch o {
	case OpVersionInfo:
		return "Version_Info"
	case OpESN:
		return "ESN"
	case OpStatus:
		return "Status"
	case OpBadCommand:
		return "Bad_Command"
	case OpBadParameter:
		return "Bad_Parameter"
	case OpBadLength:
		return "Bad_Length"
	case OpBadDevice:
		return "Bad_Device"
	case OpBadMode:
		return "Bad_Mode"
	case OpNVRead:
		return "NV_Read"
	case OpNVWrite:
		return "NV_Write"
	case OpSWVersion:
		return "SW_Version"
	case OpPilotSets:
		return "Pilot_Sets"
	case OpBadSPCMode:
		return "Bad_SPC_Mode"
	case OpSubsys:
		return "Subsys"
	case OpExtLogMask:
		return "Ext_Log_Mask"
	case OpEventReport:
		return "Event_Report"
	case OpStatusSnapshot:
		return "Status_Snapshot"
	default:
		return fmt.Sprintf("Unknown(0x%02X)", uint8(o))
	}
}

// Subsystem identifies the target of an OpSubsys request.
type Subsystem uint8

const (
	SubsysHDR           Subsystem = 5
	SubsysCM            Subsystem = 15
	SubsysNWControl6500 Subsystem = 50
	SubsysZTE           Subsystem = 101
	SubsysNWControl6800 Subsystem = 250
)

func (s Subsystem) String() string {
	switch s {
	case SubsysHDR:
		return "HDR"
	case SubsysCM:
		return "CM"
	case SubsysNWControl6500:
		return "NW_Control_6500"
	case SubsysZTE:
		return "ZTE"
	case SubsysNWControl6800:
		return "NW_Control_6800"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(s))
	}
}

// Subsystem command codes.
const (
	CMStateInfo     uint16 = 0
	HDRStateInfo    uint16 = 8
	ZTEStatus       uint16 = 0
	NWModemSnapshot uint16 = 7
)

// Modem snapshot request parameters.
const (
	NWSnapshotTechCDMA uint8  = 7
	NWSnapshotMaskAll  uint32 = 0xFFFF
)

// Subsystem request header: opcode, subsystem id, command u16.
const subsysHeaderLen = 4

// NVItem is a non-volatile memory item identifier.
type NVItem uint16

const (
	NVModePref   NVItem = 10
	NVDirNumber  NVItem = 178
	NVRoamPref   NVItem = 442
	NVHDRRevPref NVItem = 4964
)

func (i NVItem) String() string {
	switch i {
	case NVModePref:
		return "Mode_Pref"
	case NVDirNumber:
		return "Dir_Number"
	case NVRoamPref:
		return "Roam_Pref"
	case NVHDRRevPref:
		return "HDR_Rev_Pref"
	default:
		return fmt.Sprintf("NV_%d", uint16(i))
	}
}

// Chipset selects the vendor control subsystem for the modem snapshot.
type Chipset uint8

const (
	Chipset6500 Chipset = 1
	Chipset6800 Chipset = 2
)

func (c Chipset) String() string {
	switch c {
	case Chipset6500:
		return "6500"
	case Chipset6800:
		return "6800"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(c))
	}
}
