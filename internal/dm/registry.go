package dm

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tonylturner/dmdiag/internal/dm/codec"
	"github.com/tonylturner/dmdiag/internal/dm/result"
)

// Params carries named build parameters for the generic Command.Build, as
// given on the command line ("profile=0", "pref=auto", "items=3,10").
type Params map[string]string

// ParseParams turns key=value pairs into Params.
func ParseParams(pairs []string) (Params, error) {
	p := make(Params, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, newError(KindInvalidArgument, "", "parameter %q is not key=value", pair)
		}
		p[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return p, nil
}

func (p Params) number(cmd, key string, bits int, def uint64) (uint64, error) {
	s, ok := p[key]
	if !ok || s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, &Error{Kind: KindInvalidArgument, Command: cmd, Msg: "parameter " + key, Err: err}
	}
	return v, nil
}

func (p Params) profile(cmd string) (uint8, error) {
	v, err := p.number(cmd, "profile", 8, 0)
	return uint8(v), err
}

func (p Params) required(cmd, key string) (string, error) {
	s, ok := p[key]
	if !ok || s == "" {
		return "", newError(KindInvalidArgument, cmd, "missing parameter %s", key)
	}
	return s, nil
}

// pref resolves a preference by name, falling back to a numeric value.
func pref[T ~uint8](p Params, cmd string, byName func(string) (T, bool)) (T, error) {
	s, err := p.required(cmd, "pref")
	if err != nil {
		return 0, err
	}
	if v, ok := byName(s); ok {
		return v, nil
	}
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, newError(KindInvalidArgument, cmd, "unknown preference %q", s)
	}
	return T(v), nil
}

// Command describes one request/response pair.
type Command struct {
	Name        string
	Description string
	Opcode      Opcode
	Subsystem   Subsystem // zero unless Opcode is OpSubsys
	SubsysCmd   uint16
	NVItem      NVItem // zero unless Opcode is OpNVRead or OpNVWrite
	MinRespLen  int
	Params      []string
	Build       func(Params) ([]byte, error)
	Parse       func([]byte) (*result.Result, error)
}

// BuildInto builds the request from p and frames it into dst, returning the
// number of bytes written. Nothing is written when dst is too small.
func (c Command) BuildInto(dst []byte, p Params) (int, error) {
	raw, err := c.Build(p)
	if err != nil {
		return 0, err
	}
	return encode(dst, raw, c.Name)
}

func fixed(raw func() []byte) func(Params) ([]byte, error) {
	return func(Params) ([]byte, error) { return raw(), nil }
}

var commands = []Command{
	{
		Name:        "version-info",
		Description: "Firmware build dates and model",
		Opcode:      OpVersionInfo,
		MinRespLen:  versionInfoRspLen,
		Build:       fixed(VersionInfoRequest),
		Parse:       ParseVersionInfo,
	},
	{
		Name:        "esn",
		Description: "Electronic serial number",
		Opcode:      OpESN,
		MinRespLen:  esnRspLen,
		Build:       fixed(ESNRequest),
		Parse:       ParseESN,
	},
	{
		Name:        "cdma-status",
		Description: "CDMA call processing status",
		Opcode:      OpStatus,
		MinRespLen:  statusRspLen,
		Build:       fixed(CDMAStatusRequest),
		Parse:       ParseCDMAStatus,
	},
	{
		Name:        "sw-version",
		Description: "Software version and build date",
		Opcode:      OpSWVersion,
		MinRespLen:  swVersionRspLen,
		Build:       fixed(SWVersionRequest),
		Parse:       ParseSWVersion,
	},
	{
		Name:        "status-snapshot",
		Description: "Band class, protocol revisions and call state",
		Opcode:      OpStatusSnapshot,
		MinRespLen:  snapshotRspLen,
		Build:       fixed(StatusSnapshotRequest),
		Parse:       ParseStatusSnapshot,
	},
	{
		Name:        "pilot-sets",
		Description: "Active, candidate and neighbor pilot sets",
		Opcode:      OpPilotSets,
		MinRespLen:  pilotSetsHeaderLen,
		Build:       fixed(PilotSetsRequest),
		Parse:       ParsePilotSets,
	},
	{
		Name:        "nv-get-mdn",
		Description: "Read the directory number",
		Opcode:      OpNVRead,
		NVItem:      NVDirNumber,
		MinRespLen:  nvFrameLen,
		Params:      []string{"profile"},
		Build: func(p Params) ([]byte, error) {
			profile, err := p.profile("nv-get-mdn")
			if err != nil {
				return nil, err
			}
			return NVGetMDNRequest(profile), nil
		},
		Parse: ParseNVGetMDN,
	},
	{
		Name:        "nv-set-mdn",
		Description: "Write the directory number",
		Opcode:      OpNVWrite,
		NVItem:      NVDirNumber,
		MinRespLen:  nvFrameLen,
		Params:      []string{"profile", "mdn"},
		Build: func(p Params) ([]byte, error) {
			profile, err := p.profile("nv-set-mdn")
			if err != nil {
				return nil, err
			}
			mdn, err := p.required("nv-set-mdn", "mdn")
			if err != nil {
				return nil, err
			}
			return NVSetMDNRequest(profile, mdn)
		},
		Parse: ParseNVSetMDN,
	},
	{
		Name:        "nv-get-roam-pref",
		Description: "Read the roaming preference",
		Opcode:      OpNVRead,
		NVItem:      NVRoamPref,
		MinRespLen:  nvFrameLen,
		Params:      []string{"profile"},
		Build: func(p Params) ([]byte, error) {
			profile, err := p.profile("nv-get-roam-pref")
			if err != nil {
				return nil, err
			}
			return NVGetRoamPrefRequest(profile), nil
		},
		Parse: ParseNVGetRoamPref,
	},
	{
		Name:        "nv-set-roam-pref",
		Description: "Write the roaming preference (home-only, roam-only, auto)",
		Opcode:      OpNVWrite,
		NVItem:      NVRoamPref,
		MinRespLen:  nvFrameLen,
		Params:      []string{"profile", "pref"},
		Build: func(p Params) ([]byte, error) {
			profile, err := p.profile("nv-set-roam-pref")
			if err != nil {
				return nil, err
			}
			v, err := pref(p, "nv-set-roam-pref", ParseRoamPref)
			if err != nil {
				return nil, err
			}
			return NVSetRoamPrefRequest(profile, v)
		},
		Parse: ParseNVSetRoamPref,
	},
	{
		Name:        "nv-get-mode-pref",
		Description: "Read the network mode preference",
		Opcode:      OpNVRead,
		NVItem:      NVModePref,
		MinRespLen:  nvFrameLen,
		Params:      []string{"profile"},
		Build: func(p Params) ([]byte, error) {
			profile, err := p.profile("nv-get-mode-pref")
			if err != nil {
				return nil, err
			}
			return NVGetModePrefRequest(profile), nil
		},
		Parse: ParseNVGetModePref,
	},
	{
		Name:        "nv-set-mode-pref",
		Description: "Write the network mode preference (auto, 1x-only, hdr-only)",
		Opcode:      OpNVWrite,
		NVItem:      NVModePref,
		MinRespLen:  nvFrameLen,
		Params:      []string{"profile", "pref"},
		Build: func(p Params) ([]byte, error) {
			profile, err := p.profile("nv-set-mode-pref")
			if err != nil {
				return nil, err
			}
			v, err := pref(p, "nv-set-mode-pref", ParseModePref)
			if err != nil {
				return nil, err
			}
			return NVSetModePrefRequest(profile, v)
		},
		Parse: ParseNVSetModePref,
	},
	{
		Name:        "nv-get-hdr-rev-pref",
		Description: "Read the EV-DO revision preference",
		Opcode:      OpNVRead,
		NVItem:      NVHDRRevPref,
		MinRespLen:  nvFrameLen,
		Build:       fixed(NVGetHDRRevPrefRequest),
		Parse:       ParseNVGetHDRRevPref,
	},
	{
		Name:        "nv-set-hdr-rev-pref",
		Description: "Write the EV-DO revision preference (rev0, revA, ehrpd)",
		Opcode:      OpNVWrite,
		NVItem:      NVHDRRevPref,
		MinRespLen:  nvFrameLen,
		Params:      []string{"pref"},
		Build: func(p Params) ([]byte, error) {
			v, err := pref(p, "nv-set-hdr-rev-pref", ParseHDRRevPref)
			if err != nil {
				return nil, err
			}
			return NVSetHDRRevPrefRequest(v)
		},
		Parse: ParseNVSetHDRRevPref,
	},
	{
		Name:        "cm-state-info",
		Description: "Call manager state and preferences",
		Opcode:      OpSubsys,
		Subsystem:   SubsysCM,
		SubsysCmd:   CMStateInfo,
		MinRespLen:  cmStateInfoRspLen,
		Build:       fixed(CMStateInfoRequest),
		Parse:       ParseCMStateInfo,
	},
	{
		Name:        "hdr-state-info",
		Description: "EV-DO protocol state",
		Opcode:      OpSubsys,
		Subsystem:   SubsysHDR,
		SubsysCmd:   HDRStateInfo,
		MinRespLen:  hdrStateInfoRspLen,
		Build:       fixed(HDRStateInfoRequest),
		Parse:       ParseHDRStateInfo,
	},
	{
		Name:        "ext-log-mask",
		Description: "Set or read the extended log mask",
		Opcode:      OpExtLogMask,
		MinRespLen:  1,
		Params:      []string{"items", "max"},
		Build: func(p Params) ([]byte, error) {
			var items []uint16
			if s := p["items"]; s != "" {
				for _, f := range strings.Split(s, ",") {
					v, err := strconv.ParseUint(strings.TrimSpace(f), 0, 16)
					if err != nil {
						return nil, &Error{Kind: KindInvalidArgument, Command: "ext-log-mask", Msg: "parameter items", Err: err}
					}
					items = append(items, uint16(v))
				}
			}
			maxLog, err := p.number("ext-log-mask", "max", 16, 0)
			if err != nil {
				return nil, err
			}
			return ExtLogMaskRequest(items, uint16(maxLog))
		},
		Parse: ParseExtLogMask,
	},
	{
		Name:        "event-report",
		Description: "Enable or disable event reporting",
		Opcode:      OpEventReport,
		MinRespLen:  eventReportLen,
		Params:      []string{"on"},
		Build: func(p Params) ([]byte, error) {
			on := false
			if s := p["on"]; s != "" {
				v, err := strconv.ParseBool(s)
				if err != nil {
					return nil, &Error{Kind: KindInvalidArgument, Command: "event-report", Msg: "parameter on", Err: err}
				}
				on = v
			}
			return EventReportRequest(on), nil
		},
		Parse: ParseEventReport,
	},
	{
		Name:        "zte-status",
		Description: "ZTE vendor status (signal indicator)",
		Opcode:      OpSubsys,
		Subsystem:   SubsysZTE,
		SubsysCmd:   ZTEStatus,
		MinRespLen:  zteStatusRspLen,
		Build:       fixed(ZTEStatusRequest),
		Parse:       ParseZTEStatus,
	},
	{
		Name:        "nw-snapshot",
		Description: "Novatel CDMA/EV-DO modem snapshot (chipset 6500 or 6800)",
		Opcode:      OpSubsys,
		Subsystem:   SubsysNWControl6500,
		SubsysCmd:   NWModemSnapshot,
		MinRespLen:  nwSnapshotRspLen,
		Params:      []string{"chipset"},
		Build: func(p Params) ([]byte, error) {
			chip := Chipset6500
			switch p["chipset"] {
			case "", "6500", "1":
			case "6800", "2":
				chip = Chipset6800
			default:
				return nil, newError(KindInvalidArgument, "nw-snapshot", "unknown chipset %q", p["chipset"])
			}
			return NWModemSnapshotRequest(chip)
		},
		Parse: ParseNWModemSnapshot,
	},
}

// Commands returns every known command, in registry order.
func Commands() []Command {
	out := make([]Command, len(commands))
	copy(out, commands)
	return out
}

// CommandNames returns the sorted command names.
func CommandNames() []string {
	names := make([]string, 0, len(commands))
	for _, c := range commands {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// LookupCommand finds a command by name.
func LookupCommand(name string) (Command, bool) {
	for _, c := range commands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

// MatchFrame finds the command a de-framed request or response belongs to,
// using the opcode and, where present, the subsystem header or NV item.
// Device error replies match nothing.
func MatchFrame(buf []byte) (Command, bool) {
	if len(buf) < 1 {
		return Command{}, false
	}
	op := Opcode(buf[0])
	for _, c := range commands {
		if c.Opcode != op {
			continue
		}
		switch op {
		case OpSubsys:
			if len(buf) < subsysHeaderLen {
				return Command{}, false
			}
			id := Subsystem(buf[1])
			if id == SubsysNWControl6800 {
				id = SubsysNWControl6500
			}
			if id != c.Subsystem || codec.Uint16(buf, 2) != c.SubsysCmd {
				continue
			}
		case OpNVRead, OpNVWrite:
			if len(buf) < nvDataOffset {
				return Command{}, false
			}
			if NVItem(codec.Uint16(buf, nvItemOffset)) != c.NVItem {
				continue
			}
		}
		return c, true
	}
	return Command{}, false
}

// IsDeviceError reports whether buf is one of the device's error replies.
func IsDeviceError(buf []byte) bool {
	if len(buf) < 1 {
		return false
	}
	_, ok := sentinelKind(buf[0])
	return ok
}
