// Package textutil converts arbitrary video titles into safe, bounded
// directory-name fragments.
//
// Sanitization normalizes to NFC, strips characters that are illegal in
// filenames on common filesystems (including control characters), bounds the
// result to a fixed rune length, and trims trailing dots and spaces so the
// fragment is valid on Windows shares as well.
package textutil
