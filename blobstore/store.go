package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// ErrInvalidName is returned for names that are empty, absolute or escape
// the store root.
var ErrInvalidName = errors.New("blobstore: invalid blob name")

// Store is a flat namespace of immutable blobs. Names use forward slashes.
type Store interface {
	// Put writes a blob, replacing any previous content atomically.
	Put(ctx context.Context, name string, data []byte) error
	// Get returns the full content of a blob.
	Get(ctx context.Context, name string) ([]byte, error)
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the sorted names that start with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Opener is implemented by stores that can read a blob without buffering it.
type Opener interface {
	Open(ctx context.Context, name string) (Blob, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	io.ReaderAt
	io.Closer
	// Size returns the size of the blob in bytes.
	Size() int64
}

// Mappable is an optional interface for Blobs that support memory mapping.
type Mappable interface {
	// Bytes returns the underlying byte slice.
	// The slice is valid until the Blob is closed.
	Bytes() ([]byte, error)
}

// Open returns a Blob for name, using the store's Opener when it has one and
// an in-memory copy of Get otherwise.
func Open(ctx context.Context, s Store, name string) (Blob, error) {
	if o, ok := s.(Opener); ok {
		return o.Open(ctx, name)
	}
	data, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return newMemoryBlob(data), nil
}

// ReadAll returns the content of b, without copying when b is Mappable.
func ReadAll(b Blob) ([]byte, error) {
	if m, ok := b.(Mappable); ok {
		return m.Bytes()
	}
	buf := make([]byte, b.Size())
	n, err := b.ReadAt(buf, 0)
	if err != nil && !(errors.Is(err, io.EOF) && int64(n) == b.Size()) {
		return nil, err
	}
	return buf[:n], nil
}

// Exists reports whether name is present in s.
func Exists(ctx context.Context, s Store, name string) (bool, error) {
	names, err := s.List(ctx, name)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// CleanName validates a blob name and returns its canonical form.
func CleanName(name string) (string, error) {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, `\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	clean := path.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return clean, nil
}

type memoryBlob struct {
	r    *bytes.Reader
	data []byte
}

func newMemoryBlob(data []byte) *memoryBlob {
	return &memoryBlob{r: bytes.NewReader(data), data: data}
}

func (b *memoryBlob) ReadAt(p []byte, off int64) (int, error) { return b.r.ReadAt(p, off) }
func (b *memoryBlob) Close() error                             { return nil }
func (b *memoryBlob) Size() int64                              { return int64(len(b.data)) }
func (b *memoryBlob) Bytes() ([]byte, error)                   { return b.data, nil }
