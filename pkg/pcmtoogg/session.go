package pcmtoogg

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/haivivi/pcmtoogg/pkg/audio/codec/ogg"
	"github.com/haivivi/pcmtoogg/pkg/audio/codec/vorbis"
	"github.com/haivivi/pcmtoogg/pkg/audio/pcm"
)

// State is the lifecycle stage of a Session.
type State int

const (
	// StateInitialized means the headers are written and no audio has been
	// submitted yet.
	StateInitialized State = iota + 1
	// StateAnalyzing means audio has been submitted.
	StateAnalyzing
	// StateFinishing means end of input was signalled and the remaining
	// packets are being drained.
	StateFinishing
	// StateEnded means the end-of-stream page has been collected.
	StateEnded
	// StateClosed means the native encoder state has been released.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateAnalyzing:
		return "analyzing"
	case StateFinishing:
		return "finishing"
	case StateEnded:
		return "ended"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Session encodes one Ogg/Vorbis stream.
//
// A Session is not safe for concurrent use. Independent sessions may run in
// parallel.
type Session struct {
	format  pcm.Format
	quality float32
	window  int
	log     *slog.Logger

	enc    *vorbis.Encoder
	stream *ogg.StreamState
	acc    *accumulator

	state    State
	finished bool
	frames   int64

	// pending holds samples short of a whole window until the next Submit
	// or Finish.
	pending []float32
}

// NewSession configures a VBR Vorbis encoder, picks a serial number and
// collects the three header packets as the first pages of the stream.
//
// A rejected configuration returns an error wrapping ErrConfig. Quality is
// passed through unchanged; libvorbis decides what it accepts.
func NewSession(channels, sampleRate int, quality float32, opts ...Option) (*Session, error) {
	o := newOptions(opts)
	format := pcm.Format{SampleRate: sampleRate, Channels: channels}
	if err := format.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	enc, err := vorbis.NewEncoder(channels, sampleRate, quality, vorbis.Comment{Tag: EncoderTag, Value: EncoderName})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	serial := o.serials.Serial()
	stream, err := ogg.NewStreamState(serial)
	if err != nil {
		enc.Close()
		return nil, err
	}

	s := &Session{
		format:  format,
		quality: quality,
		window:  o.window,
		log:     o.logger.With("serial", serial),
		enc:     enc,
		stream:  stream,
		acc:     newAccumulator(o.maxOutput),
		state:   StateInitialized,
		pending: make([]float32, 0, o.window*channels),
	}
	if err := s.writeHeaders(); err != nil {
		s.Close()
		return nil, err
	}
	s.log.Debug("pcmtoogg: session started",
		"format", format.String(),
		"quality", quality,
		"nominal_bitrate", enc.Bitrate().Nominal,
		"header_bytes", s.acc.len())
	return s, nil
}

// writeHeaders emits the identification, comment and setup packets and
// flushes them so that audio starts on a fresh page.
func (s *Session) writeHeaders() error {
	headers, err := s.enc.HeaderOut()
	if err != nil {
		return err
	}
	for _, p := range headers {
		if err := s.stream.PacketIn(p); err != nil {
			return err
		}
	}
	return s.flush()
}

func (s *Session) flush() error {
	for {
		page, err := s.stream.Flush()
		if errors.Is(err, ogg.ErrNoPacket) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.acc.append(page); err != nil {
			return err
		}
	}
}

// Format returns the session's audio format.
func (s *Session) Format() pcm.Format {
	return s.format
}

// SerialNo returns the stream serial number.
func (s *Session) SerialNo() int32 {
	return s.stream.SerialNo()
}

// State returns the lifecycle stage.
func (s *Session) State() State {
	return s.state
}

// Frames returns the number of frames submitted so far.
func (s *Session) Frames() int64 {
	return s.frames + int64(pcm.Frames(len(s.pending), s.format.Channels))
}

// Len returns the number of bytes collected so far.
func (s *Session) Len() int {
	if s.acc == nil {
		return 0
	}
	return s.acc.len()
}

func (s *Session) checkOpen() error {
	switch {
	case s.finished:
		return ErrSessionFinished
	case s.state == StateClosed:
		return ErrSessionClosed
	}
	return nil
}

// Submit analyzes interleaved samples. The encoder only ever sees whole
// windows of the configured frame count; a shorter tail is held until the
// next Submit or Finish, so the stream does not depend on how the input is
// split across calls. A frame may also be split across calls.
func (s *Session) Submit(samples []float32) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if len(samples) == 0 {
		return nil
	}
	s.state = StateAnalyzing
	step := s.window * s.format.Channels

	if len(s.pending) > 0 {
		n := min(step-len(s.pending), len(samples))
		s.pending = append(s.pending, samples[:n]...)
		samples = samples[n:]
		if len(s.pending) < step {
			return nil
		}
		if err := s.analyze(s.pending); err != nil {
			return err
		}
		s.pending = s.pending[:0]
	}
	for len(samples) >= step {
		if err := s.analyze(samples[:step]); err != nil {
			return err
		}
		samples = samples[step:]
	}
	s.pending = append(s.pending, samples...)
	return nil
}

// analyze hands one window of at most the configured frame count to the
// encoder and collects every page that became complete. Missing channels
// of a trailing partial frame are zero.
func (s *Session) analyze(samples []float32) error {
	ch := s.format.Channels
	planes, err := s.enc.Buffer(pcm.Frames(len(samples), ch))
	if err != nil {
		return err
	}
	n := pcm.Deinterleave(planes, samples, ch)
	if err := s.enc.Wrote(n); err != nil {
		return err
	}
	s.frames += int64(n)
	return s.drain()
}

// drain moves every finished packet into the stream and collects each
// page that fills up. Nothing is requested once the end-of-stream page has
// been collected.
func (s *Session) drain() error {
	for p, err := range s.enc.Packets() {
		if err != nil {
			return err
		}
		if err := s.stream.PacketIn(p); err != nil {
			return err
		}
		for !s.acc.eos {
			page, err := s.stream.PageOut()
			if errors.Is(err, ogg.ErrNoPacket) {
				break
			}
			if err != nil {
				return err
			}
			if err := s.acc.append(page); err != nil {
				return err
			}
		}
		if s.acc.eos {
			return nil
		}
	}
	return nil
}

// Finish signals end of input, drains the remaining packets and returns
// the complete stream. The native state is released before Finish returns,
// whether or not it succeeds.
func (s *Session) Finish() (*Output, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	defer s.Close()

	if len(s.pending) > 0 {
		if err := s.analyze(s.pending); err != nil {
			s.acc.discard()
			return nil, err
		}
		s.pending = s.pending[:0]
	}
	if err := s.enc.Wrote(0); err != nil {
		s.acc.discard()
		return nil, err
	}
	s.state = StateFinishing
	if err := s.drain(); err != nil {
		s.acc.discard()
		return nil, err
	}
	if !s.acc.eos {
		// libogg emits the end-of-stream packet on its own page, so this
		// only runs if the encoder never produced one.
		if err := s.flush(); err != nil {
			s.acc.discard()
			return nil, err
		}
		s.log.Warn("pcmtoogg: stream ended without end-of-stream page")
	}
	s.state = StateEnded
	s.finished = true

	out := s.acc.finalize(s.stream.SerialNo())
	s.log.Debug("pcmtoogg: session finished",
		"frames", s.frames,
		"duration", s.format.Duration(int(s.frames)),
		"pages", out.Pages(),
		"bytes", out.Size())
	return out, nil
}

// Close releases the Ogg stream state and then the Vorbis encoder. It is
// safe to call more than once and after Finish.
func (s *Session) Close() error {
	if s.state == StateClosed {
		return nil
	}
	s.stream.Clear()
	s.enc.Close()
	s.pending = nil
	if !s.finished {
		s.acc.discard()
	}
	s.state = StateClosed
	return nil
}
