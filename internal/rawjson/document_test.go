package rawjson

import "testing"

func mustParse(t *testing.T, data string) Document {
	t.Helper()
	doc, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestParseRejectsMalformed(t *testing.T) {
	if _, err := Parse([]byte(`{"unterminated": `)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestString(t *testing.T) {
	doc := mustParse(t, `{"a": "hello", "b": "", "c": 5}`)

	if s, ok := doc.String("a"); !ok || s != "hello" {
		t.Errorf("String(a) = %q, %v", s, ok)
	}
	if _, ok := doc.String("b"); ok {
		t.Error("empty string should not be ok")
	}
	if _, ok := doc.String("c"); ok {
		t.Error("number should not be ok as string")
	}
	if _, ok := doc.String("missing"); ok {
		t.Error("missing key should not be ok")
	}
}

func TestInt64Coercion(t *testing.T) {
	doc := mustParse(t, `{"num": 42, "str": "1234", "padded": " 7 ", "frac": 1.5, "bad": "abc"}`)

	tests := []struct {
		key    string
		want   int64
		wantOK bool
	}{
		{"num", 42, true},
		{"str", 1234, true},
		{"padded", 7, true},
		{"frac", 0, false},
		{"bad", 0, false},
		{"missing", 0, false},
	}
	for _, tt := range tests {
		got, ok := doc.Int64(tt.key)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("Int64(%s) = %d, %v; want %d, %v", tt.key, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestInt64LargeMicrosecondTimestamp(t *testing.T) {
	doc := mustParse(t, `{"usec": "1700000000123456", "usecNum": 1700000000123456}`)

	if got, ok := doc.Int64("usec"); !ok || got != 1700000000123456 {
		t.Errorf("Int64(usec) = %d, %v", got, ok)
	}
	if got, ok := doc.Int64("usecNum"); !ok || got != 1700000000123456 {
		t.Errorf("Int64(usecNum) = %d, %v", got, ok)
	}
}

func TestChildAndChildren(t *testing.T) {
	doc := mustParse(t, `{
		"obj": {"inner": "x"},
		"list": [{"n": 1}, "skipme", {"n": 2}],
		"scalar": 3
	}`)

	child, ok := doc.Child("obj")
	if !ok {
		t.Fatal("Child(obj) not ok")
	}
	if s, _ := child.String("inner"); s != "x" {
		t.Errorf("inner = %q", s)
	}
	if _, ok := doc.Child("scalar"); ok {
		t.Error("scalar should not be a child document")
	}

	docs := doc.Children("list")
	if len(docs) != 2 {
		t.Fatalf("Children(list) len = %d, want 2 (non-objects skipped)", len(docs))
	}
}

func TestText(t *testing.T) {
	doc := mustParse(t, `{"color": 4280191205, "name": "red", "fps": 29.97, "obj": {}}`)

	if s, ok := doc.Text("color"); !ok || s != "4280191205" {
		t.Errorf("Text(color) = %q, %v", s, ok)
	}
	if s, ok := doc.Text("name"); !ok || s != "red" {
		t.Errorf("Text(name) = %q, %v", s, ok)
	}
	if s, ok := doc.Text("fps"); !ok || s != "29.97" {
		t.Errorf("Text(fps) = %q, %v", s, ok)
	}
	if _, ok := doc.Text("obj"); ok {
		t.Error("object should not render as text")
	}
}

func TestStrings(t *testing.T) {
	doc := mustParse(t, `{"tags": ["a", 1, "b"], "nope": "x"}`)

	tags := doc.Strings("tags")
	if len(tags) != 2 || tags[0] != "a" || tags[1] != "b" {
		t.Errorf("Strings(tags) = %v", tags)
	}
	if got := doc.Strings("nope"); got != nil {
		t.Errorf("Strings(nope) = %v, want nil", got)
	}
	if got := doc.Strings("missing"); got != nil {
		t.Errorf("Strings(missing) = %v, want nil", got)
	}
}
