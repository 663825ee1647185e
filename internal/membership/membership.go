package membership

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/tsechapman/kmcluster/dataset"
)

// Index maps cluster ids in [0, k) to the dataset rows assigned to them.
// Rows outside any cluster are not tracked. Index is not safe for
// concurrent use.
type Index struct {
	clusters []*roaring.Bitmap
}

// New creates an empty index for k clusters.
func New(k int) *Index {
	x := &Index{clusters: make([]*roaring.Bitmap, max(k, 0))}
	for i := range x.clusters {
		x.clusters[i] = roaring.New()
	}
	return x
}

// Build indexes every assigned record by its row position.
func Build(k int, records []dataset.Record) *Index {
	x := New(k)
	for i, r := range records {
		x.Add(uint32(i), r.Cluster)
	}
	for _, b := range x.clusters {
		b.RunOptimize()
	}
	return x
}

// K returns the number of clusters.
func (x *Index) K() int { return len(x.clusters) }

func (x *Index) bitmap(cluster int) *roaring.Bitmap {
	if cluster < 0 || cluster >= len(x.clusters) {
		return nil
	}
	return x.clusters[cluster]
}

// Add records row as a member of cluster. Out-of-range clusters are ignored.
func (x *Index) Add(row uint32, cluster int) {
	if b := x.bitmap(cluster); b != nil {
		b.Add(row)
	}
}

// Remove drops row from cluster.
func (x *Index) Remove(row uint32, cluster int) {
	if b := x.bitmap(cluster); b != nil {
		b.Remove(row)
	}
}

// Contains reports whether row is a member of cluster.
func (x *Index) Contains(row uint32, cluster int) bool {
	b := x.bitmap(cluster)
	return b != nil && b.Contains(row)
}

// Rows returns the member rows of cluster in ascending order.
func (x *Index) Rows(cluster int) []uint32 {
	b := x.bitmap(cluster)
	if b == nil {
		return nil
	}
	return b.ToArray()
}

// ForEach calls fn for each member row of cluster in ascending order until fn returns false.
func (x *Index) ForEach(cluster int, fn func(row uint32) bool) {
	b := x.bitmap(cluster)
	if b == nil {
		return
	}
	it := b.Iterator()
	for it.HasNext() {
		if !fn(it.Next()) {
			return
		}
	}
}

// Count returns the number of members of cluster.
func (x *Index) Count(cluster int) uint64 {
	b := x.bitmap(cluster)
	if b == nil {
		return 0
	}
	return b.GetCardinality()
}

// Counts returns the member count of every cluster.
func (x *Index) Counts() []uint64 {
	out := make([]uint64, len(x.clusters))
	for i, b := range x.clusters {
		out[i] = b.GetCardinality()
	}
	return out
}
