package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vodarc/internal/chat"
	"vodarc/internal/chat/chatdb"
	"vodarc/internal/metadata"
	"vodarc/internal/rawjson"
	"vodarc/internal/thumbs"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Errorf("output = %q", out)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "library_dir") {
		t.Errorf("sample config missing library_dir:\n%s", data)
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("# existing"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error without --overwrite")
	}
	if _, err := runCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigShowDefaults(t *testing.T) {
	out, err := runCommand(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{"streamer", "id_prefix", "concurrent_fragments"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShowCommand(t *testing.T) {
	dir := t.TempDir()

	doc, err := rawjson.Parse([]byte(`{"id": "abc", "title": "Stream", "release_timestamp": 1700000000, "duration": 60}`))
	if err != nil {
		t.Fatal(err)
	}
	record, err := metadata.Canonicalize(doc, "digest", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if err := record.WriteFiles(dir); err != nil {
		t.Fatal(err)
	}

	thumbDir := filepath.Join(dir, thumbs.SubdirName)
	if err := os.MkdirAll(thumbDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(thumbDir, thumbs.MainName), []byte("img"), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := chatdb.Open(filepath.Join(dir, "chat.yt-vod.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	messages := []chat.Message{
		{ID: "1", Type: chat.TypeText},
		{ID: "2", Type: chat.TypeText},
		{ID: "3", Type: chat.TypePaid},
	}
	if _, err := store.InsertMessages(context.Background(), messages); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "show", dir)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"vabc", "1 file(s)", "text", "paid", "total"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShowCommandEmptyDir(t *testing.T) {
	out, err := runCommand(t, "show", t.TempDir())
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"No canonical metadata", "No thumbnails", "No chat store"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
