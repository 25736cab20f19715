package vorbis

/*
#include <vorbis/codec.h>
*/
import "C"
import "fmt"

// libvorbis return codes used by the encoder paths.
const (
	CodeFault   = int(C.OV_EFAULT)
	CodeImpl    = int(C.OV_EIMPL)
	CodeInvalid = int(C.OV_EINVAL)
)

// Error is a failed libvorbis call.
type Error struct {
	Op   string
	Code int
}

func (e *Error) Error() string {
	return fmt.Sprintf("vorbis: %s failed: %s", e.Op, codeName(e.Code))
}

// Unsupported reports whether libvorbis rejected the requested mode, as
// opposed to a bad argument or an internal fault.
func (e *Error) Unsupported() bool {
	return e.Code == CodeImpl
}

func codeName(code int) string {
	switch code {
	case CodeFault:
		return "internal fault (OV_EFAULT)"
	case CodeImpl:
		return "unsupported mode (OV_EIMPL)"
	case CodeInvalid:
		return "invalid argument (OV_EINVAL)"
	default:
		return fmt.Sprintf("code %d", code)
	}
}
