package pcmtoogg

import "log/slog"

const (
	// DefaultWindowFrames is the number of frames handed to the analysis
	// stage per submission.
	DefaultWindowFrames = 1024

	// EncoderTag and EncoderName form the single comment written to every
	// stream.
	EncoderTag  = "ENCODER"
	EncoderName = "pcm_to_ogg_plugin"
)

// Option configures a Session or an Encode call.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	serials   SerialSource
	maxOutput int
	window    int
}

func newOptions(opts []Option) options {
	o := options{
		window: DefaultWindowFrames,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.serials == nil {
		o.serials = DefaultSerials()
	}
	if o.window < 1 || o.window > DefaultWindowFrames {
		o.window = DefaultWindowFrames
	}
	return o
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithSerialSource sets where stream serial numbers come from.
// Defaults to DefaultSerials().
func WithSerialSource(s SerialSource) Option {
	return func(o *options) {
		o.serials = s
	}
}

// WithMaxOutputSize caps the encoded output in bytes. Going past the cap
// fails the encode with ErrAllocation. Zero or negative means no cap.
func WithMaxOutputSize(n int) Option {
	return func(o *options) {
		o.maxOutput = n
	}
}

// WithWindowFrames sets the analysis window in frames. Values outside
// 1..DefaultWindowFrames fall back to DefaultWindowFrames.
func WithWindowFrames(n int) Option {
	return func(o *options) {
		o.window = n
	}
}
