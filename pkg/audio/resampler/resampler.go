package resampler

import (
	"errors"
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"

	"github.com/haivivi/pcmtoogg/pkg/audio/pcm"
)

// ErrInvalidRate is returned for a non-positive target sample rate.
var ErrInvalidRate = errors.New("resampler: invalid sample rate")

// tailPadding is appended to the input so the filter can drain its delay
// line before the output is trimmed.
const tailPadding = 2048

// Resampler converts a stream of interleaved float32 audio from one sample
// rate to another. The channel count is preserved. It is not safe for
// concurrent use.
type Resampler struct {
	src pcm.Format
	dst pcm.Format

	rs  resampling.Resampler
	in  []float64
	out []float32
}

// New returns a Resampler from src to the rate dstRate.
func New(src pcm.Format, dstRate int) (*Resampler, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("resampler: %w", err)
	}
	if dstRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRate, dstRate)
	}
	r := &Resampler{
		src: src,
		dst: pcm.Format{SampleRate: dstRate, Channels: src.Channels},
	}
	if src.SampleRate == dstRate {
		return r, nil
	}

	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(src.SampleRate),
		OutputRate: float64(dstRate),
		Channels:   src.Channels,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resampler: %w", err)
	}
	r.rs = rs
	return r, nil
}

// Source returns the input format.
func (r *Resampler) Source() pcm.Format { return r.src }

// Target returns the output format.
func (r *Resampler) Target() pcm.Format { return r.dst }

// Process converts one chunk of interleaved samples. The returned slice is
// reused by the next call.
func (r *Resampler) Process(samples []float32) ([]float32, error) {
	if r.rs == nil {
		r.out = append(r.out[:0], samples...)
		return r.out, nil
	}

	r.in = r.in[:0]
	for _, s := range samples {
		r.in = append(r.in, float64(s))
	}
	output, err := r.rs.Process(r.in)
	if err != nil {
		return nil, fmt.Errorf("resample error: %w", err)
	}

	r.out = r.out[:0]
	for _, s := range output {
		r.out = append(r.out, float32(max(-1, min(1, s))))
	}
	return r.out, nil
}

// Resample converts a complete buffer of interleaved samples in format src
// to dstRate. The result holds exactly the number of frames the duration
// maps to at the new rate.
func Resample(samples []float32, src pcm.Format, dstRate int) ([]float32, error) {
	r, err := New(src, dstRate)
	if err != nil {
		return nil, err
	}
	if r.rs == nil {
		return append([]float32(nil), samples...), nil
	}

	ch := src.Channels
	frames := pcm.Frames(len(samples), ch)
	want := int((int64(frames)*int64(dstRate) + int64(src.SampleRate)/2) / int64(src.SampleRate))

	padded := make([]float32, (frames+tailPadding)*ch)
	copy(padded, samples)
	out, err := r.Process(padded)
	if err != nil {
		return nil, err
	}

	result := make([]float32, want*ch)
	copy(result, out)
	return result, nil
}
