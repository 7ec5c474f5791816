package storage

import "time"

type Parent struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type Child struct {
	ID        string
	OwnerID   string
	Name      string
	Avatar    *string
	Balance   int
	CreatedAt time.Time
}

type TaskTemplate struct {
	ID        string
	OwnerID   string
	Title     string
	Icon      string
	Points    int
	SortOrder int
	CreatedAt time.Time
}

type GiftTemplate struct {
	ID        string
	OwnerID   string
	Title     string
	Cost      int
	ImageRef  *string
	CreatedAt time.Time
}

// TaskInstance is one dated occurrence of a template for one child.
// Title, Icon and Points are copies taken from the template when the
// instance was created; the template may have changed or vanished since.
type TaskInstance struct {
	ID          string
	ChildID     string
	TemplateID  string
	Day         string
	Title       string
	Icon        string
	Points      int
	Done        bool
	CompletedAt *time.Time
	CreatedAt   time.Time
}

type Redemption struct {
	ID          string
	ChildID     string
	GiftID      string
	Title       string
	CostAtClaim int
	ClaimKey    *string
	ClaimedAt   time.Time
}
