package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/researchwiseai/pulse-go"
	"github.com/researchwiseai/pulse-go/blobstore"
	"github.com/researchwiseai/pulse-go/codec"
	"github.com/researchwiseai/pulse-go/headers"
	"github.com/researchwiseai/pulse-go/ndview"
)

// Save stores m under name, replacing any matrix already stored there.
func Save[T ndview.Number](ctx context.Context, store blobstore.Store, name string, m *pulse.Matrix[T], opts ...Option) (meta *Meta, err error) {
	o := applyOptions(opts)
	start := time.Now()
	defer func() {
		n := 0
		if meta != nil {
			n = meta.StoredBytes
		}
		if err == nil {
			o.metrics.RecordEncode(n, time.Since(start))
		}
		o.logger.LogSave(ctx, name, n, err)
	}()

	dataKey, hdrKey, metaKey, err := keys(name)
	if err != nil {
		return nil, err
	}

	raw, err := pulse.Encode(m, o.dtype)
	if err != nil {
		return nil, fmt.Errorf("persistence: encode %s: %w", name, err)
	}
	frame, err := codec.Compress(raw, o.compression)
	if err != nil {
		return nil, fmt.Errorf("persistence: compress %s: %w", name, err)
	}
	info, err := codec.ReadFrameInfo(frame)
	if err != nil {
		return nil, err
	}

	meta = &Meta{
		Version:     FormatVersion,
		ID:          o.id,
		DType:       o.dtype,
		Compression: info.Compression,
		Shape:       m.Shape(),
		RawBytes:    len(raw),
		StoredBytes: len(frame),
		Checksum:    Checksum(frame),
		Created:     time.Now().UTC(),
	}

	// Hide any previous version while the parts are replaced.
	if err := store.Delete(ctx, metaKey); err != nil {
		return nil, fmt.Errorf("persistence: %s: %w", name, err)
	}
	if err := store.Put(ctx, dataKey, frame); err != nil {
		return nil, fmt.Errorf("persistence: put %s: %w", dataKey, err)
	}

	if h := m.Headers(); h != nil {
		b, err := o.codec.Marshal(headers.ToDoc(h))
		if err != nil {
			return nil, fmt.Errorf("persistence: headers %s: %w", name, err)
		}
		if err := store.Put(ctx, hdrKey, b); err != nil {
			return nil, fmt.Errorf("persistence: put %s: %w", hdrKey, err)
		}
		meta.HeaderCodec = o.codec.Name()
	} else if err := store.Delete(ctx, hdrKey); err != nil {
		return nil, fmt.Errorf("persistence: %s: %w", name, err)
	}

	mb, err := codec.GoJSON{}.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("persistence: meta %s: %w", name, err)
	}
	if err := store.Put(ctx, metaKey, mb); err != nil {
		return nil, fmt.Errorf("persistence: put %s: %w", metaKey, err)
	}
	return meta, nil
}

// Load reads the matrix stored under name, converting its payload to T.
func Load[T ndview.Number](ctx context.Context, store blobstore.Store, name string, opts ...Option) (m *pulse.Matrix[T], meta *Meta, err error) {
	o := applyOptions(opts)
	start := time.Now()
	read := 0
	defer func() {
		o.metrics.RecordDecode(read, time.Since(start), err)
		var s []int
		if m != nil {
			s = m.Shape()
		}
		o.logger.LogLoad(ctx, name, s, err)
	}()

	meta, err = Stat(ctx, store, name)
	if err != nil {
		return nil, nil, err
	}
	dataKey, hdrKey, _, err := keys(name)
	if err != nil {
		return nil, nil, err
	}

	if err := o.controller.AcquireMemory(ctx, int64(meta.RawBytes)); err != nil {
		return nil, meta, err
	}
	defer o.controller.ReleaseMemory(int64(meta.RawBytes))

	m, err = decodeData[T](ctx, store, dataKey, meta)
	if err != nil {
		return nil, meta, err
	}
	read = meta.StoredBytes

	if meta.HasHeaders() {
		h, err := loadHeaders(ctx, store, hdrKey, meta.HeaderCodec)
		if err != nil {
			return nil, meta, err
		}
		if m, err = m.WithHeaders(h); err != nil {
			return nil, meta, fmt.Errorf("persistence: %s: %w", hdrKey, err)
		}
	}
	return m, meta, nil
}

func decodeData[T ndview.Number](ctx context.Context, store blobstore.Store, key string, meta *Meta) (*pulse.Matrix[T], error) {
	blob, err := blobstore.Open(ctx, store, key)
	if err != nil {
		return nil, fmt.Errorf("persistence: open %s: %w", key, err)
	}
	defer blob.Close()

	frame, err := blobstore.ReadAll(blob)
	if err != nil {
		return nil, fmt.Errorf("persistence: read %s: %w", key, err)
	}
	if err := verify(key, frame, meta); err != nil {
		return nil, err
	}
	raw, err := codec.Decompress(frame)
	if err != nil {
		return nil, fmt.Errorf("persistence: %s: %w", key, err)
	}
	// Decode copies out of raw, so the mapping may close afterwards.
	m, err := pulse.Decode[T](raw, meta.DType)
	if err != nil {
		return nil, fmt.Errorf("persistence: %s: %w", key, err)
	}
	if !m.Shape().Equal(meta.Shape) {
		return nil, fmt.Errorf("%w: %s has shape %s, meta records %s", ErrChecksum, key, m.Shape(), meta.Shape)
	}
	return m, nil
}

func loadHeaders(ctx context.Context, store blobstore.Store, key, codecName string) (headers.Headers, error) {
	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, fmt.Errorf("persistence: %s: unknown header codec %q", key, codecName)
	}
	b, err := store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("persistence: get %s: %w", key, err)
	}
	var doc headers.Doc
	if err := c.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("persistence: %s: %w", key, err)
	}
	h, err := headers.FromDocs(doc)
	if err != nil {
		return nil, fmt.Errorf("persistence: %s: %w", key, err)
	}
	return h, nil
}
