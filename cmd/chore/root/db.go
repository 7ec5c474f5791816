package root

import (
	"context"
	"os"
	"time"

	"github.com/kamelfcis/childtodotasks/internal/config"
	"github.com/kamelfcis/childtodotasks/internal/ledger"
	"github.com/kamelfcis/childtodotasks/internal/storage"
)

type app struct {
	svc *ledger.Service
	cfg *config.Config
	loc *time.Location
}

func loadConfig() (*config.Config, error) {
	path := os.Getenv("CHORECHART_CONFIG")
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

func openApp(ctx context.Context) (*app, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}

	path := cfg.DBPath
	if path == "" {
		path, err = storage.ResolveDBPath()
		if err != nil {
			return nil, nil, err
		}
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}

	svc := ledger.NewService(db)
	if !cfg.DisableSeed {
		if _, err := svc.SeedDefaultTasks(ctx); err != nil {
			cleanup()
			return nil, nil, err
		}
	}
	return &app{svc: svc, cfg: cfg, loc: loc}, cleanup, nil
}

// today returns the current day at the configured day boundary, or parses
// an explicit --date value.
func (a *app) today(dateFlag string) (ledger.Day, error) {
	if dateFlag != "" {
		return ledger.ParseDay(dateFlag)
	}
	return ledger.Today(a.loc), nil
}
