package slabdb

import "io"

// ByteSource is a random-access, read-only view of a file's contents. It
// provides bounded, zero-copy sub-slices that remain valid for the
// lifetime of the source.
type ByteSource interface {
	// Len returns the total number of bytes in the source.
	Len() int64

	// Slice returns the length bytes starting at offset. The returned slice
	// aliases the source's own memory and must not be modified or retained
	// beyond the lifetime of the source. It is an *Error with Kind
	// OutOfBounds if offset+length exceeds Len.
	Slice(offset int64, length int64) ([]byte, error)
}

// memorySource is a ByteSource backed by a single in-memory buffer.
type memorySource struct {
	buf []byte
}

// NewMemoryByteSource wraps an in-memory buffer as a ByteSource. The
// buffer is used directly (not copied) and must not be modified while the
// source is in use.
func NewMemoryByteSource(buf []byte) ByteSource {
	return &memorySource{buf: buf}
}

func (s *memorySource) Len() int64 { return int64(len(s.buf)) }

func (s *memorySource) Slice(offset, length int64) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > s.Len() {
		return nil, newErr(OutOfBounds, 0, offset)
	}
	return s.buf[offset : offset+length], nil
}

// ReadByteSource fully reads size bytes from r and returns a ByteSource
// backed by the resulting in-memory buffer. Callers that already hold the
// file's bytes should use NewMemoryByteSource instead.
func ReadByteSource(r io.ReaderAt, size int64) (ByteSource, error) {
	buf := make([]byte, size)
	if n, err := r.ReadAt(buf, 0); err != nil && !(err == io.EOF && int64(n) == size) {
		return nil, err
	}
	return &memorySource{buf: buf}, nil
}
