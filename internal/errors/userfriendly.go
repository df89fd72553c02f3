package errors

import (
	"fmt"
	"strings"

	"github.com/tonylturner/dmdiag/internal/dm"
)

// UserFriendlyError provides user-friendly error messages with context and hints
type UserFriendlyError struct {
	Message string
	Reason  string
	Hint    string
	Try     string
	Err     error
}

func (e UserFriendlyError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Message)
	if e.Reason != "" {
		buf.WriteString("\n  Reason: " + e.Reason)
	}
	if e.Hint != "" {
		buf.WriteString("\n  Hint: " + e.Hint)
	}
	if e.Try != "" {
		buf.WriteString("\n  Try: " + e.Try)
	}
	if e.Err != nil {
		buf.WriteString("\n  Details: " + e.Err.Error())
	}
	return buf.String()
}

func (e UserFriendlyError) Unwrap() error {
	return e.Err
}

// WrapSerialError wraps diagnostic port errors with user-friendly context
func WrapSerialError(err error, port string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Failed to communicate with modem on %s", port),
		Reason:  extractSerialReason(err),
		Hint:    "The port may not be the modem's diagnostic (DM) interface, or another process may hold it open",
		Try:     fmt.Sprintf("dmdiag query esn --port %s --log-level debug", port),
		Err:     err,
	}
}

// WrapDeviceError wraps DM command failures with user-friendly context
func WrapDeviceError(err error, command string) error {
	if err == nil {
		return nil
	}

	reason, hint := extractDeviceReason(err)
	return UserFriendlyError{
		Message: fmt.Sprintf("DM command failed: %s", command),
		Reason:  reason,
		Hint:    hint,
		Try:     "dmdiag commands",
		Err:     err,
	}
}

// WrapConfigError wraps configuration errors with user-friendly context
func WrapConfigError(err error, configPath string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Configuration error in %s", configPath),
		Reason:  err.Error(),
		Hint:    "Supported keys: serial.{port,baud,timeout_ms}, logging.{level,file}, output.format, device.{profile,chipset}",
		Try:     fmt.Sprintf("Check the file: dmdiag query version-info --config %s", configPath),
		Err:     err,
	}
}

func extractSerialReason(err error) string {
	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
		return "Read timeout - modem did not answer; DM may be disabled on this port"
	}
	if strings.Contains(errStr, "permission denied") {
		return "Permission denied - user may need to be in the dialout group"
	}
	if strings.Contains(errStr, "no such file") || strings.Contains(errStr, "not found") {
		return "Port not found - modem unplugged or enumerated under a different name"
	}
	if strings.Contains(errStr, "busy") {
		return "Port busy - another program (e.g. ModemManager) has it open"
	}
	if strings.Contains(errStr, "crc") {
		return "Frame checksum mismatch - wrong port or corrupted stream"
	}

	return "Serial communication failed"
}

func extractDeviceReason(err error) (string, string) {
	switch dm.KindOf(err) {
	case dm.KindBadCommand:
		return "Modem does not implement this command", "Vendor-specific commands only work on that vendor's firmware"
	case dm.KindBadParameter:
		return "Modem rejected a command parameter", "Check profile index and preference values"
	case dm.KindBadLength:
		return "Response or request length did not match the command layout", "Firmware may use a different structure revision"
	case dm.KindNotAccepted:
		return "Modem did not accept the command", "The command may be unavailable in the current state"
	case dm.KindBadMode:
		return "Modem is in the wrong mode for this command", "Some commands need the modem offline"
	case dm.KindSPCLocked:
		return "Service programming code lock is active", "NV writes require unlocking with the SPC first"
	case dm.KindNVOperationFailed:
		return "NV item read or write failed", "The item may be inactive or read-only on this firmware"
	case dm.KindUnexpectedResponse:
		return "Modem answered with an unexpected response", "The port may be shared with another DM client"
	case dm.KindInvalidArgument:
		return "Invalid command argument", "Run 'dmdiag commands' to list parameters"
	case dm.KindMalformedResponse:
		return "Empty or malformed response", "Check that the port is the DM interface"
	default:
		return "DM protocol error occurred", ""
	}
}
