// Package chat normalizes live-chat replay dumps into uniform message rows.
//
// A replay dump is an ordered sequence of top-level JSON objects, either
// wrapped in one array or given one per line. Objects without a
// replayChatItemAction wrapper are interleaved non-chat events and are
// skipped. Each action resolves to at most one renderer via a fixed priority
// list of known renderer kinds; unknown actions yield no row. Malformed JSON
// anywhere in the dump rejects the whole dump, while missing optional
// renderer fields degrade to empty values per field.
package chat
