// Package dataset owns the persisted form of a feature-vector collection.
//
// # File Format
//
// One record per line, no header, comma separated:
//
//	identifier,coord_0,coord_1,...,coord_{d-1},
//
// The trailing comma is written for compatibility with existing files and is
// optional on read. A record with no coordinates is just "identifier,".
// Identifiers may not contain commas or line breaks (see ValidateID).
//
// # Deduplication
//
// Encode writes each identifier once; the first occurrence in the in-memory
// order wins and later duplicates are dropped silently.
//
// # Compression
//
// Store picks a compression from the object name: ".zst" uses zstd, ".lz4"
// uses the LZ4 frame format, anything else is plain text.
package dataset
