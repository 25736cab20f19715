// Package buffer provides a thread-safe growable buffer for accumulating
// streamed data.
//
// Buffer grows on demand as data is written. An optional hard limit turns
// runaway growth into an ErrLimitExceeded error instead of unbounded
// allocation. Once the producer is done, Take seals the buffer and hands
// the accumulated slice to a new owner.
//
// Example usage:
//
//	// Create a byte buffer with 4KB initial capacity and a 64MB ceiling
//	buf := buffer.N[byte](4 << 10).WithLimit(64 << 20)
//
//	// Append a page header and body in one step
//	buf.WriteAll(header, body)
//
//	// Seal and take ownership of the bytes
//	data := buf.Take()
package buffer
