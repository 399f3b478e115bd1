// Package extract embeds strings in a hashed feature space.
//
// A string is split into n-grams of bytes or of delimiter-separated tokens.
// Every n-gram is hashed with MurmurHash3 and the hash is truncated to the
// configured number of bits, which yields the dimension. The value of a
// dimension is the number of n-grams that landed there, or 1 with binary
// embedding, optionally normalized to unit L1 or L2 norm.
//
// Files are read through read-only memory mappings and processed
// concurrently; the order of the results matches the order of the inputs.
package extract
