// Package legacydb reads MaxMind's legacy GeoIP City database format (.dat).
//
// A database is a binary search trie over IPv4 address bits followed by a
// region of variable length location records and a short trailer that names
// the edition and the trie size. Only the City Rev0 and Rev1 editions are
// decoded; other editions are rejected when the file is opened.
//
// Files can be read with per-lookup file access, loaded into memory (gzip and
// zstd files are decompressed) or memory mapped. All three give identical
// results. A Reader is immutable after Open and safe for concurrent use.
package legacydb
