package ledger

import (
	"testing"
	"time"
)

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2026-03-01")
	if err != nil {
		t.Fatalf("ParseDay: %v", err)
	}
	if d.String() != "2026-03-01" {
		t.Fatalf("day=%q, want 2026-03-01", d)
	}

	for _, bad := range []string{"", "03/01/2026", "2026-3-1", "tomorrow"} {
		if _, err := ParseDay(bad); err == nil {
			t.Fatalf("ParseDay(%q) did not fail", bad)
		}
	}
}

func TestDayBoundaryFollowsLocation(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	d := Day("2026-03-01")
	midnight, err := d.Time(berlin)
	if err != nil {
		t.Fatalf("Time: %v", err)
	}
	if midnight.Hour() != 0 || midnight.Location() != berlin {
		t.Fatalf("midnight=%v, want 00:00 in Europe/Berlin", midnight)
	}
	if got := Day(midnight.Format("2006-01-02")); got != d {
		t.Fatalf("round trip gave %q, want %q", got, d)
	}
}
