package pcm

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// Format represents an audio format configuration.
type Format struct {
	SampleRate int
	Channels   int
}

// Validate reports whether the format can describe real audio.
func (f Format) Validate() error {
	if f.Channels < 1 {
		return fmt.Errorf("pcm: invalid channel count %d", f.Channels)
	}
	if f.SampleRate <= 0 {
		return fmt.Errorf("pcm: invalid sample rate %d", f.SampleRate)
	}
	return nil
}

// Frames returns the number of frames covered by the given number of
// interleaved samples. A trailing partial frame counts as a frame.
func (f Format) Frames(samples int) int {
	return Frames(samples, f.Channels)
}

// SamplesInDuration returns the number of frames in the given duration.
func (f Format) SamplesInDuration(d time.Duration) int {
	return int(time.Duration(f.SampleRate) * d / time.Second)
}

// Duration returns the play time of the given number of frames.
func (f Format) Duration(frames int) time.Duration {
	if f.SampleRate <= 0 {
		return 0
	}
	return time.Duration(frames) * time.Second / time.Duration(f.SampleRate)
}

// BytesRate returns the byte rate of the format as f32le.
func (f Format) BytesRate() int {
	return f.SampleRate * f.Channels * 4
}

// String returns a human-readable string representation of the format.
func (f Format) String() string {
	return fmt.Sprintf("audio/f32le; rate=%d; channels=%d", f.SampleRate, f.Channels)
}

// Tone returns an interleaved sine wave at freq Hz with the given peak
// amplitude, identical on every channel.
func (f Format) Tone(freq, amplitude float64, d time.Duration) []float32 {
	frames := f.SamplesInDuration(d)
	out := make([]float32, frames*f.Channels)
	for i := range frames {
		v := float32(amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(f.SampleRate)))
		for c := range f.Channels {
			out[i*f.Channels+c] = v
		}
	}
	return out
}

// Frames returns ceil(samples / channels).
func Frames(samples, channels int) int {
	if samples <= 0 || channels <= 0 {
		return 0
	}
	return (samples + channels - 1) / channels
}

// Deinterleave copies frame-major samples from src into the channel-major
// planes of dst. At most len(dst[0]) frames are copied; every plane must be
// at least that long and len(dst) must equal channels.
//
// If src ends partway through a frame, that frame is still emitted and the
// channels with no sample are set to zero. Returns the number of frames
// written.
func Deinterleave(dst [][]float32, src []float32, channels int) int {
	if channels <= 0 || len(dst) < channels || len(src) == 0 {
		return 0
	}
	frames := min(len(dst[0]), Frames(len(src), channels))
	full := min(frames, len(src)/channels)

	for c := range channels {
		plane := dst[c][:frames]
		for i := range full {
			plane[i] = src[i*channels+c]
		}
	}
	if full < frames {
		base := full * channels
		for c := range channels {
			if base+c < len(src) {
				dst[c][full] = src[base+c]
			} else {
				dst[c][full] = 0
			}
		}
	}
	return frames
}

// DecodeFloat32LE converts little-endian IEEE-754 float32 bytes to samples.
// A trailing partial sample is ignored.
func DecodeFloat32LE(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}

// EncodeFloat32LE converts samples to little-endian IEEE-754 bytes.
func EncodeFloat32LE(samples []float32) []byte {
	out := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(s))
	}
	return out
}

// FromInts scales signed integer samples of the given bit depth to float.
func FromInts(samples []int, bitDepth int) ([]float32, error) {
	if bitDepth < 8 || bitDepth > 32 {
		return nil, fmt.Errorf("pcm: unsupported bit depth %d", bitDepth)
	}
	scale := float32(1) / float32(int64(1)<<(bitDepth-1))
	out := make([]float32, len(samples))
	if bitDepth == 8 {
		// 8-bit PCM is unsigned with a midpoint of 128.
		for i, s := range samples {
			out[i] = float32(s-128) * scale
		}
		return out, nil
	}
	for i, s := range samples {
		out[i] = float32(s) * scale
	}
	return out, nil
}

// Peak returns the largest absolute sample value.
func Peak(samples []float32) float32 {
	var peak float32
	for _, s := range samples {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	return peak
}

// RMS returns the root mean square of the samples.
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}
