package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tsechapman/kmcluster/blobstore"
)

// Store loads and saves one dataset object in a blobstore.Store.
type Store struct {
	blobs       blobstore.Store
	name        string
	compression Compression
	logger      *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithCompression overrides the compression inferred from the object name.
func WithCompression(c Compression) StoreOption {
	return func(s *Store) { s.compression = c }
}

// WithStoreLogger sets the logger used for notices such as a missing dataset.
func WithStoreLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a Store for the object name in blobs.
func NewStore(blobs blobstore.Store, name string, opts ...StoreOption) *Store {
	s := &Store{
		blobs:       blobs,
		name:        name,
		compression: CompressionFor(name),
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the object name.
func (s *Store) Name() string { return s.name }

// Compression returns the compression used for the object.
func (s *Store) Compression() Compression { return s.compression }

// Load reads the dataset. A missing object yields an empty dataset and no error.
// Read failures are returned as is; malformed content yields a *ParseError.
func (s *Store) Load(ctx context.Context) ([]Record, error) {
	rc, err := s.blobs.Open(ctx, s.name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			s.logger.InfoContext(ctx, "dataset not found, starting empty", "name", s.name)
			return nil, nil
		}
		return nil, fmt.Errorf("open dataset %s: %w", s.name, err)
	}

	r, err := decompressReader(s.compression, rc)
	if err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("open dataset %s: %w", s.name, err)
	}
	defer func() { _ = r.Close() }()

	records, err := Decode(r)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			return nil, err
		}
		return nil, fmt.Errorf("read dataset %s: %w", s.name, err)
	}
	return records, nil
}

// Save replaces the dataset with records, deduplicated by identifier.
// It returns the number of records written.
func (s *Store) Save(ctx context.Context, records []Record) (int, error) {
	var buf bytes.Buffer
	n, err := Encode(&buf, records)
	if err != nil {
		return 0, err
	}
	data, err := compress(s.compression, buf.Bytes())
	if err != nil {
		return 0, fmt.Errorf("compress dataset %s: %w", s.name, err)
	}
	if err := s.blobs.Put(ctx, s.name, data); err != nil {
		return 0, fmt.Errorf("write dataset %s: %w", s.name, err)
	}
	return n, nil
}
