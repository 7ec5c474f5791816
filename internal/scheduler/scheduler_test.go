package scheduler

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/kamelfcis/childtodotasks/internal/ledger"
	"github.com/kamelfcis/childtodotasks/internal/storage"
)

func newTestService(t *testing.T) (*ledger.Service, func()) {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	db, err := storage.Open(ctx, filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return ledger.NewService(db), func() { _ = db.Close() }
}

func TestNewSchedulerRejectsBadCron(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()

	if _, err := NewScheduler(Config{Service: svc, CronSpec: "not a cron"}); err == nil {
		t.Fatalf("expected error for bad cron spec")
	}
	if _, err := NewScheduler(Config{Service: svc, CronSpec: "5 0 * * *"}); err != nil {
		t.Fatalf("valid cron rejected: %v", err)
	}
}

func TestRunOnceEnsuresEveryChild(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	for _, name := range []string{"Karim", "Reem"} {
		if _, err := svc.AddChild(ctx, ledger.AddChildInput{Name: name}); err != nil {
			t.Fatalf("add child %s: %v", name, err)
		}
	}
	for _, title := range []string{"Brush Teeth", "Clean Room"} {
		if _, err := svc.AddTaskTemplate(ctx, ledger.AddTaskTemplateInput{Title: title, Points: 5}); err != nil {
			t.Fatalf("add template %s: %v", title, err)
		}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sched, err := NewScheduler(Config{Service: svc, Logger: logger, CronSpec: "5 0 * * *"})
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	sched.RunOnce(ctx)
	sched.RunOnce(ctx) // idempotent

	day := ledger.Today(nil)
	children, err := svc.ListChildren(ctx)
	if err != nil {
		t.Fatalf("list children: %v", err)
	}
	for _, c := range children {
		instances, err := svc.ListDay(ctx, c.ID, day)
		if err != nil {
			t.Fatalf("list day for %s: %v", c.Name, err)
		}
		if len(instances) != 2 {
			t.Fatalf("%s has %d instances, want 2", c.Name, len(instances))
		}
	}
}

func TestStartStop(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sched, err := NewScheduler(Config{Service: svc, Logger: logger, CronSpec: "5 0 * * *"})
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	sched.Start(context.Background())
	sched.Stop()
}
