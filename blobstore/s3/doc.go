// Package s3 provides an Amazon S3 implementation of blobstore.Store and a
// DynamoDB lease that guards a dataset against concurrent writers.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket", s3.WithPrefix("poses/"), s3.WithRegion("eu-west-1"))
//	eng, err := kmcluster.Open(ctx, kmcluster.WithStore(store, "poses.csv"))
//
// # Writer Lease
//
// S3 has no locking. Lease uses a DynamoDB conditional put so that only one
// engine at a time rewrites a dataset object:
//
//	lease := s3.NewLease(dynamodb.NewFromConfig(cfg), "kmcluster-locks", "s3://my-bucket/poses/poses.csv")
//	eng, err := kmcluster.Open(ctx, kmcluster.WithStore(store, "poses.csv"), kmcluster.WithLocker(lease))
//
// Table schema: partition key `lock_key` (string).
//
//	aws dynamodb create-table \
//	  --table-name kmcluster-locks \
//	  --attribute-definitions AttributeName=lock_key,AttributeType=S \
//	  --key-schema AttributeName=lock_key,KeyType=HASH \
//	  --billing-mode PAY_PER_REQUEST
package s3
