// Package minio provides a blobstore.Store backed by MinIO or any other
// S3-compatible service (Ceph, Garage, SeaweedFS) through the MinIO client.
//
// # Basic Usage
//
//	store, err := minio.Connect(ctx, minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	    Bucket:    "analytics",
//	    Prefix:    "matrices/",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = persistence.Save(ctx, store, "similarity", m)
//
// An existing *minio.Client can be wrapped with NewStore instead.
package minio
