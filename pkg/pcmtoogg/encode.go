package pcmtoogg

import "fmt"

// Request describes one buffer of interleaved audio to encode.
type Request struct {
	// PCM holds interleaved samples, nominally in [-1, 1].
	PCM []float32
	// Samples is the number of samples of PCM to encode, counted across all
	// channels.
	Samples    int
	Channels   int
	SampleRate int
	// Quality is the VBR quality, nominally -0.1 to 1.0.
	Quality float32
}

// Validate checks that Samples fits PCM.
func (r Request) Validate() error {
	if r.Samples < 0 || r.Samples > len(r.PCM) {
		return fmt.Errorf("%w: %d samples requested from a buffer of %d", ErrInvalidInput, r.Samples, len(r.PCM))
	}
	return nil
}

// Encode encodes the first numSamples interleaved samples of pcm into a
// complete Ogg/Vorbis stream.
func Encode(pcm []float32, numSamples, channels, sampleRate int, quality float32, opts ...Option) (*Output, error) {
	return EncodeRequest(Request{
		PCM:        pcm,
		Samples:    numSamples,
		Channels:   channels,
		SampleRate: sampleRate,
		Quality:    quality,
	}, opts...)
}

// EncodeRequest encodes req into a complete Ogg/Vorbis stream. On error no
// Output is returned and all native state has been released.
func EncodeRequest(req Request, opts ...Option) (*Output, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	s, err := NewSession(req.Channels, req.SampleRate, req.Quality, opts...)
	if err != nil {
		newOptions(opts).logger.Warn("pcmtoogg: encoder setup failed",
			"channels", req.Channels,
			"rate", req.SampleRate,
			"quality", req.Quality,
			"error", err)
		return nil, err
	}
	defer s.Close()

	if err := s.Submit(req.PCM[:req.Samples]); err != nil {
		s.log.Warn("pcmtoogg: encode failed", "error", err)
		return nil, err
	}
	out, err := s.Finish()
	if err != nil {
		s.log.Warn("pcmtoogg: encode failed", "error", err)
		return nil, err
	}
	return out, nil
}
