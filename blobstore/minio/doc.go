// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works against MinIO and other S3-compatible services (Ceph, Garage,
// SeaweedFS) without AWS dependencies, which makes it the sink of choice for
// air-gapped benchmark clusters.
//
// # Basic Usage
//
//	store, err := minio.New(minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	    Bucket:    "datasets",
//	    Prefix:    "spacev1b/",
//	})
//
// Or wrap an existing client:
//
//	store := minio.NewStore(client, "datasets", "spacev1b/")
package minio
