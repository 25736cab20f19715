package pcmtoogg

import (
	"errors"
	"fmt"

	"github.com/haivivi/pcmtoogg/pkg/audio/codec/ogg"
	"github.com/haivivi/pcmtoogg/pkg/buffer"
)

var errPageAfterEOS = errors.New("pcmtoogg: page after end of stream")

// accumulator collects finished pages, header bytes then body bytes, into
// one contiguous buffer.
type accumulator struct {
	buf   *buffer.Buffer[byte]
	pages int
	eos   bool
}

func newAccumulator(limit int) *accumulator {
	return &accumulator{
		buf: buffer.N[byte](4 << 10).WithLimit(limit),
	}
}

// append copies p onto the end of the buffer. On failure the buffer is
// unchanged.
func (a *accumulator) append(p ogg.PageData) error {
	if a.eos {
		return errPageAfterEOS
	}
	if _, err := a.buf.WriteAll(p.Header, p.Body); err != nil {
		if errors.Is(err, buffer.ErrLimitExceeded) {
			return fmt.Errorf("%w: %w", ErrAllocation, err)
		}
		return err
	}
	a.pages++
	if p.IsEOS() {
		a.eos = true
	}
	return nil
}

func (a *accumulator) len() int {
	return a.buf.Len()
}

// finalize hands the collected bytes to a new Output. The accumulator is
// empty afterwards.
func (a *accumulator) finalize(serial int32) *Output {
	return &Output{
		data:   a.buf.Take(),
		pages:  a.pages,
		serial: serial,
	}
}

// discard drops whatever has been collected.
func (a *accumulator) discard() {
	a.buf.Close()
}
