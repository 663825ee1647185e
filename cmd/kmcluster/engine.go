package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/tsechapman/kmcluster"
	"github.com/tsechapman/kmcluster/blobstore"
	miniostore "github.com/tsechapman/kmcluster/blobstore/minio"
	s3store "github.com/tsechapman/kmcluster/blobstore/s3"
	"github.com/tsechapman/kmcluster/internal/config"
)

// openEngine builds an engine from the resolved configuration.
func (a *app) openEngine(ctx context.Context, stderr io.Writer) (*kmcluster.Engine, error) {
	cfg := a.cfg
	logger, err := newLogger(cfg.Log, stderr)
	if err != nil {
		return nil, err
	}
	policy, err := kmcluster.ParseEmptyClusterPolicy(cfg.Cluster.EmptyPolicy)
	if err != nil {
		return nil, err
	}

	opts := []kmcluster.Option{
		kmcluster.WithK(cfg.Cluster.K),
		kmcluster.WithIterations(cfg.Cluster.Iterations),
		kmcluster.WithWorkers(cfg.Cluster.Workers),
		kmcluster.WithEmptyClusterPolicy(policy),
		kmcluster.WithLogger(logger),
		kmcluster.WithMetricsCollector(a.collector),
	}
	if cfg.Cluster.Seed != 0 {
		opts = append(opts, kmcluster.WithSeed(cfg.Cluster.Seed))
	}

	backendOpts, err := backendOptions(ctx, cfg.Data)
	if err != nil {
		return nil, err
	}
	return kmcluster.Open(ctx, append(opts, backendOpts...)...)
}

func newLogger(cfg config.LogConfig, w io.Writer) (*kmcluster.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return kmcluster.NewLogger(slog.NewJSONHandler(w, handlerOpts)), nil
	}
	return kmcluster.NewLogger(slog.NewTextHandler(w, handlerOpts)), nil
}

// backendOptions selects the blob store holding the dataset.
func backendOptions(ctx context.Context, cfg config.DataConfig) ([]kmcluster.Option, error) {
	var (
		store  blobstore.Store
		locker kmcluster.Locker
	)

	switch cfg.Backend {
	case "local":
		return []kmcluster.Option{kmcluster.WithPath(cfg.Path)}, nil

	case "minio":
		client, err := minio.New(cfg.Endpoint, &minio.Options{
			Creds:  miniocreds.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
			Region: cfg.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		store = miniostore.NewStore(client, cfg.Bucket, cfg.Prefix)

	case "s3":
		var loadOpts []func(*awsconfig.LoadOptions) error
		if cfg.AccessKey != "" {
			loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
				awscreds.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
			))
		}
		s3opts := []s3store.Option{
			s3store.WithPrefix(cfg.Prefix),
			s3store.WithConfigOptions(loadOpts...),
		}
		if cfg.Region != "" {
			s3opts = append(s3opts, s3store.WithRegion(cfg.Region))
		}
		if cfg.Endpoint != "" {
			s3opts = append(s3opts, s3store.WithEndpoint(cfg.Endpoint))
		}
		s, err := s3store.New(ctx, cfg.Bucket, s3opts...)
		if err != nil {
			return nil, fmt.Errorf("s3 client: %w", err)
		}
		store = s

		if cfg.LockTable != "" {
			if cfg.Region != "" {
				loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
			}
			awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
			if err != nil {
				return nil, fmt.Errorf("aws config: %w", err)
			}
			key := "s3://" + cfg.Bucket + "/" + path.Join(cfg.Prefix, cfg.Path)
			locker = s3store.NewLease(dynamodb.NewFromConfig(awsCfg), cfg.LockTable, key)
		}

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	if cfg.PutRate > 0 {
		store = blobstore.NewThrottled(store, cfg.PutRate, cfg.PutBurst)
	}
	opts := []kmcluster.Option{kmcluster.WithStore(store, cfg.Path)}
	if locker != nil {
		opts = append(opts, kmcluster.WithLocker(locker))
	}
	return opts, nil
}
