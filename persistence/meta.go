package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/researchwiseai/pulse-go/blobstore"
	"github.com/researchwiseai/pulse-go/codec"
	"github.com/researchwiseai/pulse-go/shape"
)

// Blob name suffixes.
const (
	ExtData    = ".ndv"
	ExtHeaders = ".hdr"
	ExtMeta    = ".meta"
)

// FormatVersion is written into every meta blob.
const FormatVersion = 1

var (
	// ErrNotFound is returned when no matrix is stored under a name.
	ErrNotFound = blobstore.ErrNotFound
	// ErrChecksum is returned when the stored data does not match its meta.
	ErrChecksum = errors.New("persistence: checksum mismatch")
	// ErrVersion is returned for meta blobs from an unknown format version.
	ErrVersion = errors.New("persistence: unsupported format version")
)

// Meta describes a stored matrix.
type Meta struct {
	Version     int               `json:"version"`
	ID          string            `json:"id"`
	DType       codec.DType       `json:"dtype"`
	Compression codec.Compression `json:"compression"`
	Shape       shape.Shape       `json:"shape"`
	// RawBytes is the size of the uncompressed binary encoding.
	RawBytes int `json:"raw_bytes"`
	// StoredBytes is the size of the .ndv blob.
	StoredBytes int    `json:"stored_bytes"`
	Checksum    uint32 `json:"crc32c"`
	// HeaderCodec names the codec of the .hdr blob; empty when there is none.
	HeaderCodec string    `json:"header_codec,omitempty"`
	Created     time.Time `json:"created"`
}

// HasHeaders reports whether a header sidecar was written.
func (m *Meta) HasHeaders() bool { return m.HeaderCodec != "" }

// Ratio returns stored/raw bytes.
func (m *Meta) Ratio() float64 {
	if m.RawBytes == 0 {
		return 1
	}
	return float64(m.StoredBytes) / float64(m.RawBytes)
}

func keys(name string) (data, hdr, meta string, err error) {
	clean, err := blobstore.CleanName(name)
	if err != nil {
		return "", "", "", err
	}
	return clean + ExtData, clean + ExtHeaders, clean + ExtMeta, nil
}

// Stat reads the meta of a stored matrix.
func Stat(ctx context.Context, store blobstore.Store, name string) (*Meta, error) {
	_, _, metaKey, err := keys(name)
	if err != nil {
		return nil, err
	}
	b, err := store.Get(ctx, metaKey)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("persistence: %s: %w", name, ErrNotFound)
		}
		return nil, err
	}
	var m Meta
	if err := (codec.GoJSON{}).Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("persistence: %s meta: %w", name, err)
	}
	if m.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %s has version %d", ErrVersion, name, m.Version)
	}
	return &m, nil
}

// List returns the names of the matrices stored under prefix.
func List(ctx context.Context, store blobstore.Store, prefix string) ([]string, error) {
	blobs, err := store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, b := range blobs {
		if name, ok := strings.CutSuffix(b, ExtMeta); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// Delete removes every blob of a stored matrix.
func Delete(ctx context.Context, store blobstore.Store, name string) error {
	dataKey, hdrKey, metaKey, err := keys(name)
	if err != nil {
		return err
	}
	ok, err := blobstore.Exists(ctx, store, metaKey)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("persistence: %s: %w", name, ErrNotFound)
	}
	for _, k := range []string{metaKey, dataKey, hdrKey} {
		if err := store.Delete(ctx, k); err != nil {
			return fmt.Errorf("persistence: delete %s: %w", k, err)
		}
	}
	return nil
}
