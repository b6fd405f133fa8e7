// Package rawjson reads loosely-typed JSON documents without rejecting
// unexpected shapes.
//
// Upstream chat dumps and metadata sidecars carry optional fields whose types
// drift between string and number across tool versions. Accessors return a
// value plus an ok flag and coerce where the upstream is known to vary
// (numeric strings, integral floats); callers apply per-field defaults.
package rawjson
