package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS parents (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS children (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			name TEXT NOT NULL,
			avatar TEXT,
			balance INTEGER NOT NULL DEFAULT 0 CHECK (balance >= 0),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,

			FOREIGN KEY(owner_id) REFERENCES parents(id)
		);`,
		`CREATE TABLE IF NOT EXISTS task_templates (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			title TEXT NOT NULL,
			icon TEXT NOT NULL DEFAULT '⭐',
			points INTEGER NOT NULL CHECK (points > 0),
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,

			FOREIGN KEY(owner_id) REFERENCES parents(id)
		);`,
		`CREATE TABLE IF NOT EXISTS gift_templates (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			title TEXT NOT NULL,
			cost INTEGER NOT NULL CHECK (cost > 0),
			image_ref TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,

			FOREIGN KEY(owner_id) REFERENCES parents(id)
		);`,
		// Instances snapshot title/icon/points at creation so later template
		// edits or deletes never rewrite a day that already happened.
		`CREATE TABLE IF NOT EXISTS task_instances (
			id TEXT PRIMARY KEY,
			child_id TEXT NOT NULL,
			template_id TEXT NOT NULL,
			day TEXT NOT NULL,
			title TEXT NOT NULL,
			icon TEXT NOT NULL,
			points INTEGER NOT NULL,
			done INTEGER NOT NULL DEFAULT 0,
			completed_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,

			UNIQUE(child_id, template_id, day),
			FOREIGN KEY(child_id) REFERENCES children(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS redemptions (
			id TEXT PRIMARY KEY,
			child_id TEXT NOT NULL,
			gift_id TEXT NOT NULL,
			title TEXT NOT NULL,
			cost_at_claim INTEGER NOT NULL,
			claim_key TEXT,
			claimed_at DATETIME NOT NULL,

			FOREIGN KEY(child_id) REFERENCES children(id) ON DELETE CASCADE
		);`,
		// Manual parent overrides live beside redemptions so balance history
		// stays reconstructible. adjust_key makes blind retries safe.
		`CREATE TABLE IF NOT EXISTS adjustments (
			id TEXT PRIMARY KEY,
			child_id TEXT NOT NULL,
			delta INTEGER NOT NULL,
			note TEXT,
			adjust_key TEXT,
			created_at DATETIME NOT NULL,

			FOREIGN KEY(child_id) REFERENCES children(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_children_owner_id ON children(owner_id);`,
		`CREATE INDEX IF NOT EXISTS idx_task_templates_owner_id ON task_templates(owner_id);`,
		`CREATE INDEX IF NOT EXISTS idx_gift_templates_owner_id ON gift_templates(owner_id);`,
		`CREATE INDEX IF NOT EXISTS idx_task_instances_child_day ON task_instances(child_id, day);`,
		`CREATE INDEX IF NOT EXISTS idx_redemptions_child_id ON redemptions(child_id);`,
		// Retried redeem requests carrying the same client key map onto one row.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_redemptions_claim_key
			ON redemptions(child_id, claim_key) WHERE claim_key IS NOT NULL;`,
		`CREATE INDEX IF NOT EXISTS idx_adjustments_child_id ON adjustments(child_id);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_adjustments_adjust_key
			ON adjustments(child_id, adjust_key) WHERE adjust_key IS NOT NULL;`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}
