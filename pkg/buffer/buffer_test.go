package buffer

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"
)

func TestBuffer_WriteAll(t *testing.T) {
	buf := N[byte](4)
	n, err := buf.WriteAll([]byte("head"), []byte("body"), nil)
	if err != nil {
		t.Fatalf("WriteAll() error: %v", err)
	}
	if n != 8 {
		t.Errorf("WriteAll() = %d, want 8", n)
	}
	if _, err := buf.WriteAll([]byte(" and more")); err != nil {
		t.Fatalf("WriteAll() error: %v", err)
	}
	if buf.Len() != 17 {
		t.Errorf("Len() = %d, want 17", buf.Len())
	}
	if got := string(buf.Take()); got != "headbody and more" {
		t.Errorf("Take() = %q", got)
	}
}

func TestBuffer_Ints(t *testing.T) {
	buf := N[int](0)
	for i := range 100 {
		if _, err := buf.WriteAll([]int{i}); err != nil {
			t.Fatalf("WriteAll(%d) error: %v", i, err)
		}
	}
	got := buf.Take()
	for i := range 100 {
		if got[i] != i {
			t.Fatalf("element %d = %d", i, got[i])
		}
	}
}

func TestBuffer_Limit(t *testing.T) {
	buf := N[byte](0).WithLimit(10)

	if _, err := buf.WriteAll([]byte("12345678")); err != nil {
		t.Fatalf("WriteAll() error: %v", err)
	}
	if _, err := buf.WriteAll([]byte("9"), []byte("01")); !errors.Is(err, ErrLimitExceeded) {
		t.Errorf("WriteAll past limit = %v, want ErrLimitExceeded", err)
	}
	if buf.Len() != 8 {
		t.Errorf("failed write changed Len() to %d", buf.Len())
	}
	if _, err := buf.WriteAll([]byte("90")); err != nil {
		t.Errorf("WriteAll up to limit failed: %v", err)
	}
	if _, err := buf.WriteAll([]byte("x")); !errors.Is(err, ErrLimitExceeded) {
		t.Errorf("WriteAll past full buffer = %v, want ErrLimitExceeded", err)
	}

	unlimited := N[byte](0).WithLimit(-1)
	if _, err := unlimited.WriteAll(make([]byte, 1<<16)); err != nil {
		t.Errorf("unlimited WriteAll failed: %v", err)
	}
}

func TestBuffer_CloseWithError(t *testing.T) {
	buf := N[byte](0)
	buf.WriteAll([]byte("data"))

	boom := errors.New("boom")
	if err := buf.CloseWithError(boom); err != nil {
		t.Fatalf("CloseWithError() error: %v", err)
	}
	if err := buf.CloseWithError(errors.New("other")); err != nil {
		t.Fatalf("second CloseWithError() error: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Len() after CloseWithError = %d", buf.Len())
	}
	if _, err := buf.WriteAll([]byte("x")); !errors.Is(err, boom) {
		t.Errorf("WriteAll after CloseWithError = %v, want boom", err)
	}
	if buf.Take() != nil {
		t.Error("Take() after CloseWithError should be nil")
	}

	closed := N[byte](0)
	closed.Close()
	if _, err := closed.WriteAll([]byte("x")); !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("WriteAll after Close = %v, want io.ErrClosedPipe", err)
	}
}

func TestBuffer_Take(t *testing.T) {
	buf := N[byte](0)
	if buf.Take() != nil {
		t.Error("Take() on empty buffer should be nil")
	}

	buf = N[byte](0)
	buf.WriteAll([]byte("owned"))
	data := buf.Take()
	if !bytes.Equal(data, []byte("owned")) {
		t.Errorf("Take() = %q", data)
	}
	if buf.Len() != 0 {
		t.Errorf("Len() after Take = %d", buf.Len())
	}
	if buf.Take() != nil {
		t.Error("second Take() should be nil")
	}
	if _, err := buf.WriteAll([]byte("x")); !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("WriteAll after Take = %v, want io.ErrClosedPipe", err)
	}
}

func TestBuffer_ConcurrentWriteAll(t *testing.T) {
	buf := N[byte](0)
	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			for range 100 {
				buf.WriteAll([]byte("a"), []byte("b"))
			}
		})
	}
	wg.Wait()
	data := buf.Take()
	if len(data) != 8*100*2 {
		t.Fatalf("len = %d, want %d", len(data), 8*100*2)
	}
	for i := 0; i < len(data); i += 2 {
		if data[i] != 'a' || data[i+1] != 'b' {
			t.Fatalf("parts of one write interleaved at %d", i)
		}
	}
}
