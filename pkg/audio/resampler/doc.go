// Package resampler converts interleaved float32 audio between sample rates
// using a pure Go soxr-style resampler.
//
// Example usage:
//
//	f := pcm.Format{SampleRate: 44100, Channels: 2}
//	out, err := resampler.Resample(samples, f, 48000)
//	if err != nil {
//	    log.Fatal(err)
//	}
package resampler
