package chatdb

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"vodarc/internal/chat"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "chat.sqlite"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func bodyPtr(s string) *string { return &s }

func sampleMessages() []chat.Message {
	return []chat.Message{
		{ID: "m1", SentOffset: 1, UserName: "a", Body: bodyPtr("hello"), Type: chat.TypeText, Badges: ""},
		{ID: "m2", SentOffset: 2, UserName: "b", Body: bodyPtr("paid!"), Type: chat.TypePaid, Donation: "2.50; USD; 123", Color: "123", Badges: "MODERATOR"},
		{ID: "m3", SentOffset: 3, Type: chat.TypeSystem, Pinned: true},
	}
}

func TestInsertMessages(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	inserted, err := store.InsertMessages(ctx, sampleMessages())
	if err != nil {
		t.Fatalf("InsertMessages: %v", err)
	}
	if inserted != 3 {
		t.Errorf("inserted = %d, want 3", inserted)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("Count = %d, want 3", count)
	}
}

func TestInsertMessagesIdempotent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.InsertMessages(ctx, sampleMessages()); err != nil {
		t.Fatal(err)
	}

	// Re-running the same dump must not duplicate or overwrite rows.
	again := sampleMessages()
	again[0].Body = bodyPtr("mutated")
	inserted, err := store.InsertMessages(ctx, again)
	if err != nil {
		t.Fatal(err)
	}
	if inserted != 0 {
		t.Errorf("second insert affected %d rows, want 0", inserted)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("Count = %d, want 3", count)
	}
}

func TestInsertMessagesEmpty(t *testing.T) {
	store := openTestStore(t)
	inserted, err := store.InsertMessages(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if inserted != 0 {
		t.Errorf("inserted = %d, want 0", inserted)
	}
}

func TestInsertMessagesBodyNullVersusEmpty(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	msgs := []chat.Message{
		{ID: "empty", Type: chat.TypeText, Body: bodyPtr("")},
		{ID: "absent", Type: chat.TypeSticker},
	}
	if _, err := store.InsertMessages(ctx, msgs); err != nil {
		t.Fatal(err)
	}

	bodyState := func(id string) (isNull bool, body string) {
		t.Helper()
		var nullFlag int
		var stored sql.NullString
		row := store.db.QueryRowContext(ctx,
			`SELECT message_body IS NULL, message_body FROM chat_messages WHERE message_id = ?`, id)
		if err := row.Scan(&nullFlag, &stored); err != nil {
			t.Fatal(err)
		}
		return nullFlag == 1, stored.String
	}

	if isNull, body := bodyState("empty"); isNull || body != "" {
		t.Errorf("empty body stored as NULL=%v body=%q, want empty string", isNull, body)
	}
	if isNull, _ := bodyState("absent"); !isNull {
		t.Error("absent body not stored as NULL")
	}
}

func TestCountByType(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	msgs := []chat.Message{
		{ID: "1", Type: chat.TypeText},
		{ID: "2", Type: chat.TypeText},
		{ID: "3", Type: chat.TypePaid},
	}
	if _, err := store.InsertMessages(ctx, msgs); err != nil {
		t.Fatal(err)
	}

	counts, err := store.CountByType(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if counts[chat.TypeText] != 2 || counts[chat.TypePaid] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat.sqlite")
	ctx := context.Background()

	first, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := first.InsertMessages(ctx, sampleMessages()); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	count, err := second.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("Count after reopen = %d, want 3", count)
	}
}
