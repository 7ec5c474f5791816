package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedChild(t *testing.T, db *sql.DB, id string, balance int) {
	t.Helper()
	ctx := context.Background()
	parents := NewParentRepo(db)
	if _, err := parents.GetOrCreateMain(ctx); err != nil {
		t.Fatalf("parent: %v", err)
	}
	children := NewChildRepo(db)
	if err := children.Insert(ctx, ChildInsert{ID: id, OwnerID: MainParentID, Name: id}); err != nil {
		t.Fatalf("insert child: %v", err)
	}
	if balance > 0 {
		if _, err := children.Credit(ctx, id, balance); err != nil {
			t.Fatalf("credit: %v", err)
		}
	}
}

func TestDebitIsConditional(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedChild(t, db, "c1", 10)
	children := NewChildRepo(db)

	ok, err := children.Debit(ctx, "c1", 7)
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	if !ok {
		t.Fatalf("affordable debit refused")
	}

	ok, err = children.Debit(ctx, "c1", 4)
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	if ok {
		t.Fatalf("overdraw debit succeeded")
	}

	balance, found, err := children.Balance(ctx, "c1")
	if err != nil || !found {
		t.Fatalf("balance: %v found=%v", err, found)
	}
	if balance != 3 {
		t.Fatalf("balance=%d, want 3", balance)
	}
}

func TestInstanceUniquePerChildTemplateDay(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedChild(t, db, "c1", 0)

	templates := NewTemplateRepo(db)
	if err := templates.Insert(ctx, TemplateInsert{ID: "t1", OwnerID: MainParentID, Title: "Brush Teeth", Icon: "🪥", Points: 5}); err != nil {
		t.Fatalf("insert template: %v", err)
	}

	instances := NewInstanceRepo(db)
	for _, id := range []string{"i1", "i2", "i3"} {
		err := instances.InsertIgnore(ctx, InstanceInsert{
			ID: id, ChildID: "c1", TemplateID: "t1", Day: "2026-03-01",
			Title: "Brush Teeth", Icon: "🪥", Points: 5,
		})
		if err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}

	list, err := instances.ListByChildDay(ctx, "c1", "2026-03-01")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d rows for one (child, template, day), want 1", len(list))
	}
	if list[0].ID != "i1" {
		t.Fatalf("kept row %s, want the first insert", list[0].ID)
	}
}

func TestMarkDoneFlipsOnce(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedChild(t, db, "c1", 0)

	templates := NewTemplateRepo(db)
	if err := templates.Insert(ctx, TemplateInsert{ID: "t1", OwnerID: MainParentID, Title: "Clean Room", Icon: "🧹", Points: 10}); err != nil {
		t.Fatalf("insert template: %v", err)
	}
	instances := NewInstanceRepo(db)
	if err := instances.InsertIgnore(ctx, InstanceInsert{
		ID: "i1", ChildID: "c1", TemplateID: "t1", Day: "2026-03-01",
		Title: "Clean Room", Icon: "🧹", Points: 10,
	}); err != nil {
		t.Fatalf("insert instance: %v", err)
	}

	now := time.Now().UTC()
	flipped, err := instances.MarkDone(ctx, "i1", now)
	if err != nil {
		t.Fatalf("mark done: %v", err)
	}
	if !flipped {
		t.Fatalf("first mark done did not flip")
	}
	flipped, err = instances.MarkDone(ctx, "i1", now)
	if err != nil {
		t.Fatalf("mark done again: %v", err)
	}
	if flipped {
		t.Fatalf("second mark done flipped again")
	}

	inst, err := instances.Get(ctx, "i1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !inst.Done || inst.CompletedAt == nil {
		t.Fatalf("instance not marked done: %+v", inst)
	}
}
