package dm

import "github.com/tonylturner/dmdiag/internal/dm/result"

const eventReportLen = 2

// EventReportRequest returns the raw event reporting toggle.
func EventReportRequest(on bool) []byte {
	buf := make([]byte, eventReportLen)
	buf[0] = byte(OpEventReport)
	if on {
		buf[1] = 1
	}
	return buf
}

// BuildEventReport frames an event reporting toggle into dst.
func BuildEventReport(dst []byte, on bool) (int, error) {
	return encode(dst, EventReportRequest(on), "event-report")
}

// ParseEventReport confirms the device accepted the toggle.
func ParseEventReport(buf []byte) (*result.Result, error) {
	if err := checkResponse(buf, OpEventReport, eventReportLen, "event-report"); err != nil {
		return nil, err
	}
	return result.New(), nil
}
