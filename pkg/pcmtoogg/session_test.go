package pcmtoogg

import (
	"bytes"
	"errors"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/haivivi/pcmtoogg/pkg/audio/pcm"
)

func TestSessionLifecycle(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s, err := NewSession(2, 44100, 0.5, WithLogger(logger), WithSerialSource(FixedSerial(42)))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	defer s.Close()

	if s.State() != StateInitialized {
		t.Errorf("State() = %v, want initialized", s.State())
	}
	if s.SerialNo() != 42 {
		t.Errorf("SerialNo() = %d", s.SerialNo())
	}
	headerBytes := s.Len()
	if headerBytes == 0 {
		t.Fatal("no header pages collected")
	}

	f := s.Format()
	tone := f.Tone(440, 0.5, time.Second)
	for chunk := range slices.Chunk(tone, 3000) {
		if err := s.Submit(chunk); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}
	if s.State() != StateAnalyzing {
		t.Errorf("State() = %v, want analyzing", s.State())
	}
	if s.Frames() != int64(f.SampleRate) {
		t.Errorf("Frames() = %d, want %d", s.Frames(), f.SampleRate)
	}
	if s.Len() <= headerBytes {
		t.Errorf("no audio pages collected after a second of audio")
	}

	out, err := s.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	defer out.Release()
	checkStream(t, out.Data())

	if s.State() != StateClosed {
		t.Errorf("State() after Finish = %v, want closed", s.State())
	}
	if err := s.Submit(tone); !errors.Is(err, ErrSessionFinished) {
		t.Errorf("Submit after Finish = %v, want ErrSessionFinished", err)
	}
	if _, err := s.Finish(); !errors.Is(err, ErrSessionFinished) {
		t.Errorf("second Finish = %v, want ErrSessionFinished", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close after Finish = %v", err)
	}

	for _, msg := range []string{"session started", "session finished", "serial=42"} {
		if !strings.Contains(logs.String(), msg) {
			t.Errorf("log output missing %q:\n%s", msg, logs.String())
		}
	}
}

func TestSessionChunkingInvariant(t *testing.T) {
	f := pcm.Format{SampleRate: 32000, Channels: 2}
	tone := f.Tone(523.25, 0.4, 700*time.Millisecond)

	encode := func(chunk int, opts ...Option) []byte {
		opts = append(opts, WithSerialSource(FixedSerial(9)))
		s, err := NewSession(f.Channels, f.SampleRate, 0.5, opts...)
		if err != nil {
			t.Fatalf("NewSession failed: %v", err)
		}
		defer s.Close()
		for c := range slices.Chunk(tone, chunk) {
			if err := s.Submit(c); err != nil {
				t.Fatalf("Submit failed: %v", err)
			}
		}
		out, err := s.Finish()
		if err != nil {
			t.Fatalf("Finish failed: %v", err)
		}
		return out.Data()
	}

	// The encoder sees whole windows however the input is split.
	window := DefaultWindowFrames * f.Channels
	whole := encode(len(tone))
	for _, chunk := range []int{3, 1001, window - 1, window, window + 1, 3 * window} {
		if got := encode(chunk); !bytes.Equal(got, whole) {
			t.Errorf("chunks of %d samples changed the stream", chunk)
		}
	}
	checkStream(t, whole)

	// A different analysis window is still a valid stream.
	checkStream(t, encode(len(tone), WithWindowFrames(256)))
}

func TestSessionSplitFrame(t *testing.T) {
	f := pcm.Format{SampleRate: 44100, Channels: 2}
	tone := f.Tone(440, 0.5, 200*time.Millisecond)
	// Make the channels differ so a shift would show.
	for i := 1; i < len(tone); i += 2 {
		tone[i] = -tone[i] / 2
	}

	encode := func(parts ...[]float32) []byte {
		s, err := NewSession(f.Channels, f.SampleRate, 0.5, WithSerialSource(FixedSerial(5)))
		if err != nil {
			t.Fatalf("NewSession failed: %v", err)
		}
		defer s.Close()
		for _, p := range parts {
			if err := s.Submit(p); err != nil {
				t.Fatalf("Submit failed: %v", err)
			}
		}
		out, err := s.Finish()
		if err != nil {
			t.Fatalf("Finish failed: %v", err)
		}
		return out.Data()
	}

	whole := encode(tone)
	if got := encode(tone[:3], tone[3:]); !bytes.Equal(got, whole) {
		t.Error("a frame split across Submit calls changed the stream")
	}
	if got := encode(tone[:1], nil, tone[1:4], tone[4:]); !bytes.Equal(got, whole) {
		t.Error("single samples and empty calls changed the stream")
	}
}

func TestSessionFramesCountsPending(t *testing.T) {
	s, err := NewSession(2, 8000, 0.3)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	defer s.Close()

	if err := s.Submit(make([]float32, 5)); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if s.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", s.Frames())
	}
	if err := s.Submit(make([]float32, 1)); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if s.Frames() != 3 {
		t.Errorf("Frames() = %d after completing the frame, want 3", s.Frames())
	}
}

func TestSessionClose(t *testing.T) {
	s, err := NewSession(1, 8000, 0.2)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if err := s.Submit(make([]float32, 800)); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if s.State() != StateClosed {
		t.Errorf("State() = %v", s.State())
	}
	if err := s.Submit(make([]float32, 8)); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Submit after Close = %v, want ErrSessionClosed", err)
	}
	if _, err := s.Finish(); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Finish after Close = %v, want ErrSessionClosed", err)
	}
}

func TestSessionAllocationFailure(t *testing.T) {
	ref, err := NewSession(1, 44100, 0.5)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	headerBytes := ref.Len()
	ref.Close()

	// Room for the headers but not for a second of audio.
	s, err := NewSession(1, 44100, 0.5, WithMaxOutputSize(headerBytes+64))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	defer s.Close()

	f := s.Format()
	err = s.Submit(f.Tone(1000, 0.8, time.Second))
	if err == nil {
		_, err = s.Finish()
	}
	if !errors.Is(err, ErrAllocation) {
		t.Fatalf("encode = %v, want ErrAllocation", err)
	}
	if s.Len() > headerBytes+64 {
		t.Errorf("collected %d bytes past the %d byte limit", s.Len(), headerBytes+64)
	}

	if _, err := NewSession(1, 44100, 0.5, WithMaxOutputSize(headerBytes-1)); !errors.Is(err, ErrAllocation) {
		t.Errorf("NewSession with no room for headers = %v, want ErrAllocation", err)
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		StateInitialized: "initialized",
		StateAnalyzing:   "analyzing",
		StateFinishing:   "finishing",
		StateEnded:       "ended",
		StateClosed:      "closed",
		State(99):        "State(99)",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}

func TestEncodeStress(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping long encode in short mode")
	}

	f := pcm.Format{SampleRate: 192000, Channels: 8}
	s, err := NewSession(f.Channels, f.SampleRate, 0.1)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	defer s.Close()

	// One second of tone reused for every chunk so the input never has to
	// exist in memory all at once.
	second := f.Tone(1000, 0.3, time.Second)
	const minutes = 10
	var (
		mem     runtime.MemStats
		heapMax uint64
		lens    []int
	)
	for i := range minutes * 60 {
		if err := s.Submit(second); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if i%60 == 59 {
			lens = append(lens, s.Len())
			runtime.GC()
			runtime.ReadMemStats(&mem)
			heapMax = max(heapMax, mem.HeapAlloc)
		}
	}

	// The output grows by about the same amount every minute.
	first := lens[0]
	for i := 1; i < len(lens); i++ {
		step := lens[i] - lens[i-1]
		if step < first/2 || step > first*2 {
			t.Errorf("minute %d added %d bytes, first minute %d", i+1, step, first)
		}
	}

	// Go heap stays within the collected output (at most doubled by append
	// growth), the input second and a constant; libvorbis state lives in C
	// memory.
	bound := 2*uint64(s.Len()) + uint64(len(second))*4 + 64<<20
	if heapMax > bound {
		t.Errorf("heap reached %d bytes, want at most %d", heapMax, bound)
	}

	out, err := s.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	defer out.Release()

	pages := checkStream(t, out.Data())
	if got := pages[len(pages)-1].GranulePos(); got != int64(minutes*60*f.SampleRate) {
		t.Errorf("final granule %d, want %d", got, minutes*60*f.SampleRate)
	}
}
