package rawjson

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Document is a decoded JSON object with tolerant field access.
type Document map[string]any

// Parse decodes a single JSON object.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode object: %w", err)
	}
	return doc, nil
}

// AsDocument converts a decoded JSON value into a Document when it is an
// object.
func AsDocument(value any) (Document, bool) {
	switch v := value.(type) {
	case Document:
		return v, true
	case map[string]any:
		return Document(v), true
	default:
		return nil, false
	}
}

// Has reports whether the key is present, regardless of value type.
func (d Document) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// String returns the value when it is a non-empty string.
func (d Document) String(key string) (string, bool) {
	v, ok := d[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Int64 returns the value coerced to an integer. Integral floats (the default
// decoding of JSON numbers) and numeric strings are accepted.
func (d Document) Int64(key string) (int64, bool) {
	v, ok := d[key]
	if !ok {
		return 0, false
	}
	return coerceInt64(v)
}

// Float64 returns the value as a float; numeric strings are accepted.
func (d Document) Float64(key string) (float64, bool) {
	v, ok := d[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// Bool returns the value when it is a boolean.
func (d Document) Bool(key string) (bool, bool) {
	v, ok := d[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Child returns the value when it is a nested object.
func (d Document) Child(key string) (Document, bool) {
	v, ok := d[key]
	if !ok {
		return nil, false
	}
	return AsDocument(v)
}

// Array returns the value when it is a JSON array.
func (d Document) Array(key string) ([]any, bool) {
	v, ok := d[key]
	if !ok {
		return nil, false
	}
	arr, ok := v.([]any)
	return arr, ok
}

// Children returns the object elements of an array field, skipping
// non-object entries.
func (d Document) Children(key string) []Document {
	arr, ok := d.Array(key)
	if !ok {
		return nil
	}
	docs := make([]Document, 0, len(arr))
	for _, item := range arr {
		if child, ok := AsDocument(item); ok {
			docs = append(docs, child)
		}
	}
	return docs
}

// Strings returns the string elements of an array field, or nil when the
// field is absent or not an array.
func (d Document) Strings(key string) []string {
	arr, ok := d.Array(key)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Text renders a string or numeric value as text. Integral numbers render
// without a fraction; used for fields like background colors that upstream
// emits as bare integers.
func (d Document) Text(key string) (string, bool) {
	v, ok := d[key]
	if !ok {
		return "", false
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return "", false
		}
		return t, true
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10), true
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return "", false
	}
}

func coerceInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
