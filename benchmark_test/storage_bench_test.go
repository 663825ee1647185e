package benchmark_test

import (
	"context"
	"testing"

	"github.com/tsechapman/kmcluster/blobstore"
	"github.com/tsechapman/kmcluster/dataset"
	"github.com/tsechapman/kmcluster/testutil"
)

func BenchmarkStorage(b *testing.B) {
	ctx := context.Background()
	records := testutil.Records("item", testutil.NewRNG(4).GaussianVectors(5_000, 32))

	for _, name := range []string{"items.csv", "items.csv.zst", "items.csv.lz4"} {
		b.Run("Save/"+name, func(b *testing.B) {
			store := dataset.NewStore(blobstore.NewLocalStore(b.TempDir()), name)
			b.ReportAllocs()
			for b.Loop() {
				if _, err := store.Save(ctx, records); err != nil {
					b.Fatal(err)
				}
			}
		})

		b.Run("Load/"+name, func(b *testing.B) {
			store := dataset.NewStore(blobstore.NewLocalStore(b.TempDir()), name)
			if _, err := store.Save(ctx, records); err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			for b.Loop() {
				if _, err := store.Load(ctx); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
