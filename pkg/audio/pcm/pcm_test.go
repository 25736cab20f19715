package pcm

import (
	"math"
	"testing"
	"time"
)

func planes(channels, frames int) [][]float32 {
	p := make([][]float32, channels)
	for c := range p {
		p[c] = make([]float32, frames)
	}
	return p
}

func TestFrames(t *testing.T) {
	tests := []struct {
		samples, channels, want int
	}{
		{0, 2, 0},
		{4, 2, 2},
		{5, 2, 3},
		{1, 8, 1},
		{7, 1, 7},
		{-3, 2, 0},
		{10, 0, 0},
	}
	for _, tt := range tests {
		if got := Frames(tt.samples, tt.channels); got != tt.want {
			t.Errorf("Frames(%d, %d) = %d, want %d", tt.samples, tt.channels, got, tt.want)
		}
	}
}

func TestDeinterleave(t *testing.T) {
	src := []float32{1, -1, 2, -2, 3, -3}
	dst := planes(2, 4)

	n := Deinterleave(dst, src, 2)
	if n != 3 {
		t.Fatalf("Deinterleave() = %d, want 3", n)
	}
	wantL := []float32{1, 2, 3}
	wantR := []float32{-1, -2, -3}
	for i := range n {
		if dst[0][i] != wantL[i] || dst[1][i] != wantR[i] {
			t.Errorf("frame %d = (%v, %v), want (%v, %v)", i, dst[0][i], dst[1][i], wantL[i], wantR[i])
		}
	}
}

func TestDeinterleaveWindow(t *testing.T) {
	src := make([]float32, 3*10)
	for i := range src {
		src[i] = float32(i)
	}
	dst := planes(3, 4)

	n := Deinterleave(dst, src, 3)
	if n != 4 {
		t.Fatalf("Deinterleave() = %d, want window size 4", n)
	}
	for c := range 3 {
		for i := range 4 {
			if want := float32(i*3 + c); dst[c][i] != want {
				t.Errorf("dst[%d][%d] = %v, want %v", c, i, dst[c][i], want)
			}
		}
	}
}

func TestDeinterleavePartialFrame(t *testing.T) {
	// Two full stereo frames and one left-only sample.
	src := []float32{0.1, 0.2, 0.3, 0.4, 0.5}
	dst := planes(2, 8)
	for c := range dst {
		for i := range dst[c] {
			dst[c][i] = 9
		}
	}

	n := Deinterleave(dst, src, 2)
	if n != 3 {
		t.Fatalf("Deinterleave() = %d, want 3", n)
	}
	if dst[0][2] != 0.5 {
		t.Errorf("partial frame left = %v, want 0.5", dst[0][2])
	}
	if dst[1][2] != 0 {
		t.Errorf("partial frame right = %v, want 0", dst[1][2])
	}
}

func TestDeinterleaveEmpty(t *testing.T) {
	if n := Deinterleave(planes(2, 4), nil, 2); n != 0 {
		t.Errorf("Deinterleave(nil) = %d, want 0", n)
	}
	if n := Deinterleave(planes(1, 4), []float32{1, 2}, 2); n != 0 {
		t.Errorf("Deinterleave with too few planes = %d, want 0", n)
	}
}

func TestFloat32LE(t *testing.T) {
	in := []float32{0, 1, -1, 0.5, float32(math.Pi)}
	b := EncodeFloat32LE(in)
	if len(b) != len(in)*4 {
		t.Fatalf("encoded %d bytes, want %d", len(b), len(in)*4)
	}
	out := DecodeFloat32LE(append(b, 0xFF))
	if len(out) != len(in) {
		t.Fatalf("decoded %d samples, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("sample %d = %v, want %v", i, out[i], in[i])
		}
	}
}

func TestFromInts(t *testing.T) {
	got, err := FromInts([]int{0, 16384, -32768}, 16)
	if err != nil {
		t.Fatalf("FromInts failed: %v", err)
	}
	want := []float32{0, 0.5, -1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("16-bit sample %d = %v, want %v", i, got[i], want[i])
		}
	}

	got, err = FromInts([]int{128, 0, 192}, 8)
	if err != nil {
		t.Fatalf("FromInts failed: %v", err)
	}
	want = []float32{0, -1, 0.5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("8-bit sample %d = %v, want %v", i, got[i], want[i])
		}
	}

	if _, err := FromInts([]int{1}, 4); err == nil {
		t.Error("FromInts with 4-bit depth should fail")
	}
}

func TestFormat(t *testing.T) {
	f := Format{SampleRate: 48000, Channels: 2}
	if err := f.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if got := f.SamplesInDuration(20 * time.Millisecond); got != 960 {
		t.Errorf("SamplesInDuration(20ms) = %d, want 960", got)
	}
	if got := f.Duration(24000); got != 500*time.Millisecond {
		t.Errorf("Duration(24000) = %v, want 500ms", got)
	}
	if got := f.Frames(5); got != 3 {
		t.Errorf("Frames(5) = %d, want 3", got)
	}
	if got := f.BytesRate(); got != 384000 {
		t.Errorf("BytesRate() = %d, want 384000", got)
	}
	if got := f.String(); got != "audio/f32le; rate=48000; channels=2" {
		t.Errorf("String() = %q", got)
	}

	for _, bad := range []Format{{SampleRate: 0, Channels: 1}, {SampleRate: 8000, Channels: 0}} {
		if bad.Validate() == nil {
			t.Errorf("Validate(%+v) should fail", bad)
		}
	}
}

func TestTone(t *testing.T) {
	f := Format{SampleRate: 8000, Channels: 2}
	s := f.Tone(1000, 0.5, 100*time.Millisecond)
	if len(s) != 800*2 {
		t.Fatalf("len = %d, want 1600", len(s))
	}
	for i := 0; i < len(s); i += 2 {
		if s[i] != s[i+1] {
			t.Fatalf("frame %d channels differ", i/2)
		}
	}
	if p := Peak(s); p < 0.49 || p > 0.5 {
		t.Errorf("Peak() = %v, want ~0.5", p)
	}
	if r := RMS(s); math.Abs(r-0.5/math.Sqrt2) > 0.01 {
		t.Errorf("RMS() = %v, want ~%v", r, 0.5/math.Sqrt2)
	}
	if RMS(nil) != 0 {
		t.Error("RMS(nil) should be 0")
	}
}
