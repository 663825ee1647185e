// Package membership indexes dataset rows by cluster id with one roaring
// bitmap per cluster, so same-cluster lookups do not scan the dataset.
package membership
