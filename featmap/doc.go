// Package featmap maps feature hashes back to the feature strings they were
// computed from.
//
// Extraction only keeps the hash of each n-gram. When a Map is attached to
// the extractor, the first string seen for every hash is recorded so that
// dimensions of a container can be explained later. The map is saved as a
// sequence of optionally compressed blocks:
//
//	"FMAP" | version u16 | compression u8 | reserved u8 | count u64
//	block* where block = uncompressed u32 | compressed u32 | data
//
// A compressed size of zero marks a block stored raw. Inside the block
// stream, entries are hash u64 | length u32 | bytes in ascending hash order.
package featmap
