package agent

import "fmt"

// Status is the result code of a host primitive. Codes other than the named
// ones are passed through untouched and treated as opaque failures.
type Status int

const (
	OK               Status = 0
	ErrNotOwner      Status = -1
	ErrBusy          Status = -4
	ErrNotEnough     Status = -6
	ErrInvalidTarget Status = -7
	ErrFull          Status = -8
	ErrNotInRange    Status = -9
	ErrInvalidArgs   Status = -10
	ErrTired         Status = -11
)

func (s Status) String() string {
	switch s {
	case OK:
		return "OK"
	case ErrNotOwner:
		return "ERR_NOT_OWNER"
	case ErrBusy:
		return "ERR_BUSY"
	case ErrNotEnough:
		return "ERR_NOT_ENOUGH_RESOURCES"
	case ErrInvalidTarget:
		return "ERR_INVALID_TARGET"
	case ErrFull:
		return "ERR_FULL"
	case ErrNotInRange:
		return "ERR_NOT_IN_RANGE"
	case ErrInvalidArgs:
		return "ERR_INVALID_ARGS"
	case ErrTired:
		return "ERR_TIRED"
	default:
		return fmt.Sprintf("ERR_%d", int(s))
	}
}

// IsOK reports whether the primitive succeeded
func (s Status) IsOK() bool { return s == OK }
