package dm

import (
	"errors"
	"fmt"
)

// Kind classifies a codec failure.
type Kind int

const (
	KindMalformedResponse Kind = iota + 1
	KindBadCommand
	KindBadParameter
	KindBadLength
	KindNotAccepted
	KindBadMode
	KindSPCLocked
	KindUnexpectedResponse
	KindNVOperationFailed
	KindInvalidArgument
	KindBufferTooSmall
)

// String returns a human-readable name for the error kind.
func (k Kind) String() string {
	switch k {
	case KindMalformedResponse:
		return "Malformed_Response"
	case KindBadCommand:
		return "Bad_Command"
	case KindBadParameter:
		return "Bad_Parameter"
	case KindBadLength:
		return "Bad_Length"
	case KindNotAccepted:
		return "Not_Accepted"
	case KindBadMode:
		return "Bad_Mode"
	case KindSPCLocked:
		return "SPC_Locked"
	case KindUnexpectedResponse:
		return "Unexpected_Response"
	case KindNVOperationFailed:
		return "NV_Operation_Failed"
	case KindInvalidArgument:
		return "Invalid_Argument"
	case KindBufferTooSmall:
		return "Buffer_Too_Small"
	default:
		return "Unknown"
	}
}

// DeviceReported reports whether the kind comes from a device sentinel byte
// rather than local validation.
func (k Kind) DeviceReported() bool {
	switch k {
	case KindBadCommand, KindBadParameter, KindNotAccepted, KindBadMode, KindSPCLocked:
		return true
	default:
		return false
	}
}

// Error is returned by every build and parse operation.
type Error struct {
	Kind    Kind
	Command string // command name, empty for helpers
	Status  uint16 // NV operation status when Kind is KindNVOperationFailed
	Msg     string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Command != "" {
		msg = e.Command + ": " + msg
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same Kind, so callers can test against the
// Err* sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrMalformedResponse  = &Error{Kind: KindMalformedResponse}
	ErrBadCommand         = &Error{Kind: KindBadCommand}
	ErrBadParameter       = &Error{Kind: KindBadParameter}
	ErrBadLength          = &Error{Kind: KindBadLength}
	ErrNotAccepted        = &Error{Kind: KindNotAccepted}
	ErrBadMode            = &Error{Kind: KindBadMode}
	ErrSPCLocked          = &Error{Kind: KindSPCLocked}
	ErrUnexpectedResponse = &Error{Kind: KindUnexpectedResponse}
	ErrNVOperationFailed  = &Error{Kind: KindNVOperationFailed}
	ErrInvalidArgument    = &Error{Kind: KindInvalidArgument}
	ErrBufferTooSmall     = &Error{Kind: KindBufferTooSmall}
)

// KindOf returns the Kind carried by err, or 0 when err is not a codec error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func newError(kind Kind, cmd string, format string, args ...any) *Error {
	return &Error{Kind: kind, Command: cmd, Msg: fmt.Sprintf(format, args...)}
}
