// Package persistence saves and loads matrices in a blobstore.Store.
//
// A matrix named "runs/sim" is stored as up to three blobs:
//
//	runs/sim.ndv   framed binary encoding (codec.Compress of codec.Encode)
//	runs/sim.hdr   axis headers marshaled with a codec.Codec, when present
//	runs/sim.meta  JSON description: dtype, shape, compression, checksum
//
// The meta blob is written last and deleted first, so a matrix is visible
// to Load, Stat and List only once all of its parts are in place.
//
//	meta, err := persistence.Save(ctx, store, "runs/sim", m,
//	    persistence.WithDType(codec.Float32),
//	    persistence.WithCompression(codec.CompressionZstd),
//	)
//	back, _, err := persistence.Load[float64](ctx, store, "runs/sim")
package persistence
