// Package kmcluster groups labeled feature vectors with k-means and answers
// "which stored items look like this new one" without retraining.
//
// An Engine owns one dataset: an ordered list of records, each an
// identifier plus coordinates, persisted as a delimited text file. Open
// loads it and trains k centroids with Lloyd's algorithm. From then on the
// centroids are frozen: Assign classifies a new vector against them, returns
// the ids already in the same cluster and appends the vector to the dataset.
// Call Train to recompute the centroids over everything stored so far.
//
// # Quick Start
//
//	ctx := context.Background()
//	eng, err := kmcluster.Open(ctx,
//	    kmcluster.WithPath("./poses.csv"),
//	    kmcluster.WithK(8),
//	    kmcluster.WithSeed(42),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close()
//
//	similar, err := eng.Assign(ctx, features, "images/pose-0193.jpg")
//
// # Storage
//
// The dataset lives in a blobstore.Store. WithPath uses a local file written
// atomically and guarded by a flock(2) lock file. Remote stores are passed
// with WithStore:
//
//	store, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("poses/"))
//	lease := s3.NewLease(ddbClient, "kmcluster-locks", "poses.csv.zst")
//	eng, _ := kmcluster.Open(ctx,
//	    kmcluster.WithStore(blobstore.NewThrottled(store, 5, 10), "poses.csv.zst"),
//	    kmcluster.WithLocker(lease),
//	)
//
// Object names ending in .zst or .lz4 are compressed.
//
// # Errors
//
// Every error returned by an Engine is an *Error carrying a Kind. Use
// KindOf to decide how to react:
//
//	switch kmcluster.KindOf(err) {
//	case kmcluster.KindDimensionMismatch:
//	    // the vector does not match the trained dimensionality
//	case kmcluster.KindIO:
//	    // storage failed; the record was not kept
//	}
package kmcluster
