// Package s3 provides an Amazon S3 implementation of blobstore.Store.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion("eu-west-1"))
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "analytics", s3.WithPrefix("matrices/"))
//	err = persistence.Save(ctx, store, "similarity", m)
//
// # Features
//
//   - CRC32C-checked single-request puts for small blobs
//   - Multipart uploads through the SDK upload manager for large blobs
//   - Ranged reads through Open
//   - Automatic pagination for listing
//   - Optional IO throttling through a resource.Controller
package s3
