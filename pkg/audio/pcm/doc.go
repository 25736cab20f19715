// Package pcm provides types and utilities for working with 32-bit float PCM
// audio.
//
// Samples are float32 values nominally in [-1, 1]. Interleaved buffers are
// frame-major: sample[frame*channels+channel]. Encoders such as libvorbis
// want channel-major planes instead; Deinterleave converts one window of
// frames between the two layouts.
//
// Key types and helpers:
//   - Format: sample rate and channel count
//   - Deinterleave: frame-major window to per-channel planes
//   - DecodeFloat32LE / EncodeFloat32LE: raw "f32le" byte streams
//   - FromInts: integer PCM (e.g. from a WAV file) to float
//   - Tone: sine generator for fixtures and demos
//
// Example usage:
//
//	format := pcm.Format{SampleRate: 44100, Channels: 2}
//	samples := format.Tone(440, 0.5, time.Second)
//
//	planes := [][]float32{make([]float32, 1024), make([]float32, 1024)}
//	n := pcm.Deinterleave(planes, samples, format.Channels)
package pcm
