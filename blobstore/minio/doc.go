// Package minio provides a blobstore.Store implementation using the MinIO client.
//
// Works with MinIO and other S3-compatible systems (Ceph, SeaweedFS, Garage)
// without pulling in the AWS SDK.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "my-bucket", "poses/")
//	eng, err := kmcluster.Open(ctx, kmcluster.WithStore(store, "poses.csv"))
package minio
