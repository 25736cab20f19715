package buffer

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrLimitExceeded is returned when a write would grow a buffer past its limit.
var ErrLimitExceeded = errors.New("buffer: size limit exceeded")

// Buffer is a thread-safe growable buffer of elements of any type.
//
// The buffer uses a dynamic slice that grows as needed. A write that would
// push the length past the configured limit fails as a whole and leaves the
// buffer unchanged. After Take all writes fail with io.ErrClosedPipe; after
// CloseWithError they fail with that error and the contents are dropped.
type Buffer[T any] struct {
	mu         sync.Mutex
	closeWrite bool
	closeErr   error
	limit      int
	buf        []T
}

// N creates a new Buffer with the specified initial capacity.
//
// The initial capacity is a hint for performance optimization - the buffer will
// grow beyond this capacity if needed.
func N[T any](n int) *Buffer[T] {
	return &Buffer[T]{
		buf: make([]T, 0, max(n, 0)),
	}
}

// WithLimit sets the maximum number of elements the buffer may hold.
// A limit <= 0 means unlimited. It returns b for chaining.
func (b *Buffer[T]) WithLimit(limit int) *Buffer[T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.limit = limit
	return b
}

func (b *Buffer[T]) writableLocked(n int) error {
	if b.closeErr != nil {
		return fmt.Errorf("buffer: write to closed buffer: %w", b.closeErr)
	}
	if b.closeWrite {
		return fmt.Errorf("buffer: write to closed buffer: %w", io.ErrClosedPipe)
	}
	if b.limit > 0 && len(b.buf)+n > b.limit {
		return fmt.Errorf("%w: %d + %d > %d", ErrLimitExceeded, len(b.buf), n, b.limit)
	}
	return nil
}

// WriteAll appends each slice in order as one all-or-nothing write.
//
// Returns the number of elements written. Returns an error wrapping
// io.ErrClosedPipe if the buffer is closed for writing, or ErrLimitExceeded
// if the write does not fit.
func (b *Buffer[T]) WriteAll(parts ...[]T) (n int, err error) {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.writableLocked(total); err != nil {
		return 0, err
	}
	b.buf = growTo(b.buf, len(b.buf)+total)
	for _, p := range parts {
		b.buf = append(b.buf, p...)
	}
	return total, nil
}

// growTo makes room for at least n elements, doubling to amortize copies.
func growTo[T any](s []T, n int) []T {
	if n <= cap(s) {
		return s
	}
	c := max(n, 2*cap(s))
	grown := make([]T, len(s), c)
	copy(grown, s)
	return grown
}

// CloseWithError closes the buffer with the specified error and drops its
// contents. If err is nil, io.ErrClosedPipe is used.
//
// Returns nil if the buffer was already closed with an error.
func (b *Buffer[T]) CloseWithError(err error) error {
	if err == nil {
		err = io.ErrClosedPipe
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closeErr != nil {
		return nil
	}
	b.closeErr = err
	b.closeWrite = true
	b.buf = nil
	return nil
}

// Close is CloseWithError(io.ErrClosedPipe).
func (b *Buffer[T]) Close() error {
	return b.CloseWithError(io.ErrClosedPipe)
}

// Len returns the number of elements currently in the buffer.
func (b *Buffer[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buf)
}

// Take seals the buffer and transfers ownership of its contents to the
// caller. The buffer is left empty; Take on an empty or already-taken
// buffer returns nil.
func (b *Buffer[T]) Take() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeWrite = true
	out := b.buf
	b.buf = nil
	if len(out) == 0 {
		return nil
	}
	return out
}
