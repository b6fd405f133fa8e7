// Package metadata canonicalizes raw video info dumps into a fixed-schema
// archive record.
//
// The canonical record carries every key of the schema explicitly; optional
// fields that are absent from the raw dump are written as JSON nulls so
// downstream consumers can rely on key presence. Canonicalization is pure
// apart from the downloaded_at stamp: the same raw input and media digest
// always produce the same record otherwise.
package metadata
