// Package audio is the umbrella for the audio sub-packages:
//
//   - pcm: interleaved float32 sample formats and conversions
//   - resampler: sample rate conversion for interleaved PCM
//   - codec/ogg: libogg bindings (stream and sync state, page helpers)
//   - codec/vorbis: libvorbis encoder bindings
//
// The encode pipeline that ties these together lives in
// github.com/haivivi/pcmtoogg/pkg/pcmtoogg.
package audio
