package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "biemme2-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() { _ = db.Close() }
}

func TestNewDBWithConfig_UnknownDriver(t *testing.T) {
	cfg := DefaultDBConfig()
	cfg.Driver = "mysql"

	if _, err := NewDBWithConfig(":memory:", cfg); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestGlobals_PutGet(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	globals := NewGlobals(db)

	if err := globals.Put(ctx, "header", json.RawMessage(`{"cta":{"label":"Quotazione"}}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	doc, err := globals.Get(ctx, "header")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.Slug != "header" {
		t.Errorf("Slug = %q, want %q", doc.Slug, "header")
	}
	if string(doc.Data) != `{"cta":{"label":"Quotazione"}}` {
		t.Errorf("Data = %s", doc.Data)
	}
	if doc.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set")
	}

	// Put overwrites
	if err := globals.Put(ctx, "header", json.RawMessage(`{"navigation":[]}`)); err != nil {
		t.Fatalf("Put (overwrite): %v", err)
	}
	doc, err = globals.Get(ctx, "header")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(doc.Data) != `{"navigation":[]}` {
		t.Errorf("Data after overwrite = %s", doc.Data)
	}
}

func TestGlobals_GetNotFound(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	_, err := NewGlobals(db).Get(context.Background(), "home-page")
	if !errors.Is(err, ErrGlobalNotFound) {
		t.Fatalf("Get() error = %v, want ErrGlobalNotFound", err)
	}
}

func TestGlobals_PutRejectsNonObject(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	for _, payload := range []string{`[]`, `"text"`, `not json`} {
		if err := NewGlobals(db).Put(context.Background(), "footer", json.RawMessage(payload)); err == nil {
			t.Errorf("Put(%s) should fail", payload)
		}
	}
}

func TestGlobals_PutIfAbsentAndDelete(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	globals := NewGlobals(db)

	written, err := globals.PutIfAbsent(ctx, "footer", json.RawMessage(`{"a":1}`))
	if err != nil || !written {
		t.Fatalf("PutIfAbsent first = (%v, %v), want (true, nil)", written, err)
	}
	written, err = globals.PutIfAbsent(ctx, "footer", json.RawMessage(`{"a":2}`))
	if err != nil || written {
		t.Fatalf("PutIfAbsent second = (%v, %v), want (false, nil)", written, err)
	}

	doc, _ := globals.Get(ctx, "footer")
	if string(doc.Data) != `{"a":1}` {
		t.Errorf("Data = %s, want first write kept", doc.Data)
	}

	slugs, err := globals.Slugs(ctx)
	if err != nil {
		t.Fatalf("Slugs: %v", err)
	}
	if len(slugs) != 1 || slugs[0] != "footer" {
		t.Errorf("Slugs = %v", slugs)
	}

	if err := globals.Delete(ctx, "footer"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := globals.Get(ctx, "footer"); !errors.Is(err, ErrGlobalNotFound) {
		t.Errorf("Get after Delete error = %v", err)
	}
}

func TestGlobals_GetQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT slug, data, updated_at FROM globals").
		WithArgs("home-page").
		WillReturnError(errors.New("disk I/O error"))

	_, err = NewGlobals(db).Get(context.Background(), "home-page")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrGlobalNotFound) {
		t.Error("query failure must not be reported as not found")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSeedGlobals(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	globals := NewGlobals(db)
	if err := globals.Put(ctx, "header", json.RawMessage(`{"edited":true}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	docs := map[string]json.RawMessage{
		"header": json.RawMessage(`{"edited":false}`),
		"footer": json.RawMessage(`{"seeded":true}`),
	}

	if err := SeedGlobals(ctx, db, docs, false); err != nil {
		t.Fatalf("SeedGlobals: %v", err)
	}
	header, _ := globals.Get(ctx, "header")
	if string(header.Data) != `{"edited":true}` {
		t.Errorf("header = %s, editor content should survive seeding", header.Data)
	}
	footer, err := globals.Get(ctx, "footer")
	if err != nil {
		t.Fatalf("footer not seeded: %v", err)
	}
	if string(footer.Data) != `{"seeded":true}` {
		t.Errorf("footer = %s", footer.Data)
	}

	if err := SeedGlobals(ctx, db, docs, true); err != nil {
		t.Fatalf("SeedGlobals overwrite: %v", err)
	}
	header, _ = globals.Get(ctx, "header")
	if string(header.Data) != `{"edited":false}` {
		t.Errorf("header = %s, overwrite should replace", header.Data)
	}
}

func TestEvents_CreateAndList(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	events := NewEvents(db)

	for _, msg := range []string{"first", "second"} {
		if _, err := events.Create(ctx, CreateEventParams{
			Level:    EventLevelInfo,
			Category: EventCategoryConsent,
			Message:  msg,
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if _, err := events.Create(ctx, CreateEventParams{
		Level:    EventLevelWarning,
		Category: EventCategoryCache,
		Message:  "other",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := events.ListByCategory(ctx, EventCategoryConsent, 10)
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].Message != "second" {
		t.Errorf("newest first: got %q", list[0].Message)
	}
	if list[0].Metadata != "{}" {
		t.Errorf("Metadata = %q, want {}", list[0].Metadata)
	}

	n, err := events.DeleteOlderThan(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("DeleteOlderThan: %v", err)
	}
	if n != 3 {
		t.Errorf("deleted = %d, want 3", n)
	}
}

func TestSubmissions_Lifecycle(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	subs := NewSubmissions(db)

	sub := Submission{
		ID:      "2f0c9a8e-1111-4a3b-9c55-1234567890ab",
		Name:    "Mario Rossi",
		Email:   "mario@example.com",
		Service: "Edilizia",
		Message: "Vorrei un preventivo per una ristrutturazione.",
		Browser: "Firefox",
	}
	if err := subs.Create(ctx, sub); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := subs.Get(ctx, sub.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != sub.Name || got.Email != sub.Email || got.Delivered {
		t.Errorf("Get = %+v", got)
	}

	if err := subs.MarkDelivered(ctx, sub.ID); err != nil {
		t.Fatalf("MarkDelivered: %v", err)
	}
	got, _ = subs.Get(ctx, sub.ID)
	if !got.Delivered {
		t.Error("Delivered should be true")
	}

	if err := subs.MarkDelivered(ctx, "missing"); !errors.Is(err, ErrSubmissionNotFound) {
		t.Errorf("MarkDelivered(missing) error = %v", err)
	}

	n, err := subs.CountSince(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("CountSince: %v", err)
	}
	if n != 1 {
		t.Errorf("CountSince = %d, want 1", n)
	}
}
