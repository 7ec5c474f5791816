package ledger

import "fmt"

// NotFoundError reports a missing child, gift, template or task instance.
// Fatal to the operation; surfaced to the caller unchanged.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// InsufficientBalanceError is an expected business outcome, not a system
// failure: the balance at commit time did not cover the cost. The UI
// renders it inline ("need N more points").
type InsufficientBalanceError struct {
	ChildID string
	Balance int
	Cost    int
}

func (e InsufficientBalanceError) Error() string {
	return fmt.Sprintf("balance %d does not cover cost %d (need %d more points)", e.Balance, e.Cost, e.Missing())
}

// Missing returns how many points short the child is.
func (e InsufficientBalanceError) Missing() int {
	return e.Cost - e.Balance
}
