package pcmtoogg

import "errors"

var (
	// ErrConfig is returned when the encoder rejects the channel count,
	// sample rate or quality.
	ErrConfig = errors.New("pcmtoogg: unsupported encoder configuration")

	// ErrAllocation is returned when the output buffer cannot grow to hold
	// the next page.
	ErrAllocation = errors.New("pcmtoogg: output buffer allocation failed")

	// ErrInvalidInput is returned when the sample count does not fit the
	// sample buffer.
	ErrInvalidInput = errors.New("pcmtoogg: invalid input")

	// ErrSessionFinished is returned when audio is submitted to, or Finish is
	// called on, a session that has already been finished.
	ErrSessionFinished = errors.New("pcmtoogg: session already finished")

	// ErrSessionClosed is returned when a closed session is used.
	ErrSessionClosed = errors.New("pcmtoogg: session closed")
)
