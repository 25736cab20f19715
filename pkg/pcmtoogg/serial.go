package pcmtoogg

import (
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"
)

// SerialSource picks the serial number of each new Ogg stream.
//
// Serials only need to differ between streams that might be chained or
// multiplexed together; they are not security sensitive.
type SerialSource interface {
	Serial() int32
}

// SerialFunc adapts a function to SerialSource.
type SerialFunc func() int32

// Serial calls f.
func (f SerialFunc) Serial() int32 {
	return f()
}

// FixedSerial always returns n.
func FixedSerial(n int32) SerialSource {
	return SerialFunc(func() int32 { return n })
}

// SequenceSerial returns start, start+1, ... and is safe for concurrent use.
func SequenceSerial(start int32) SerialSource {
	var next atomic.Int32
	next.Store(start)
	return SerialFunc(func() int32 {
		return next.Add(1) - 1
	})
}

// RandSerials is a pseudo-random SerialSource safe for concurrent use.
type RandSerials struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandSerials returns a RandSerials seeded with seed.
func NewRandSerials(seed uint64) *RandSerials {
	return &RandSerials{
		r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Serial returns the next pseudo-random serial.
func (s *RandSerials) Serial() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Int32()
}

var (
	defaultSerialsOnce sync.Once
	defaultSerials     *RandSerials
)

// DefaultSerials returns the process-wide source, seeded once from the
// wall clock on first use.
func DefaultSerials() SerialSource {
	defaultSerialsOnce.Do(func() {
		defaultSerials = NewRandSerials(uint64(time.Now().UnixNano()))
	})
	return defaultSerials
}
