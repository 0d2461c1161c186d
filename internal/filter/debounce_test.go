package filter_test

import (
	"testing"
	"time"

	"github.com/dafoggo/klinh-admin/internal/filter"
	"github.com/dafoggo/klinh-admin/internal/filter/clocktest"
)

func TestDebouncer_CoalescesPerKey(t *testing.T) {
	clock := clocktest.NewManualClock(time.Unix(0, 0))
	d := filter.NewDebouncer(clock, 300*time.Millisecond)

	var got []string
	d.Call("a", func() { got = append(got, "a1") })
	clock.Advance(100 * time.Millisecond)
	d.Call("a", func() { got = append(got, "a2") })
	d.Call("b", func() { got = append(got, "b1") })

	clock.Advance(250 * time.Millisecond)
	if len(got) != 0 {
		t.Fatalf("expected nothing yet, got %v", got)
	}

	clock.Advance(50 * time.Millisecond)
	if len(got) != 2 || got[0] != "a2" || got[1] != "b1" {
		t.Errorf("expected [a2 b1], got %v", got)
	}
	if clock.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", clock.Pending())
	}
}

func TestDebouncer_Flush(t *testing.T) {
	clock := clocktest.NewManualClock(time.Unix(0, 0))
	d := filter.NewDebouncer(clock, time.Second)

	calls := 0
	d.Call("a", func() { calls++ })
	d.Flush()
	if calls != 1 {
		t.Fatalf("expected flush to run the call, got %d", calls)
	}

	clock.Advance(2 * time.Second)
	if calls != 1 {
		t.Errorf("expected call to run once, got %d", calls)
	}
}

func TestDebouncer_CancelAndStop(t *testing.T) {
	clock := clocktest.NewManualClock(time.Unix(0, 0))
	d := filter.NewDebouncer(clock, time.Second)

	calls := 0
	d.Call("a", func() { calls++ })
	d.Call("b", func() { calls++ })
	d.Cancel("a")
	if d.Pending("a") || !d.Pending("b") {
		t.Fatal("expected only b pending")
	}
	d.Stop()
	clock.Advance(2 * time.Second)
	if calls != 0 {
		t.Errorf("expected no calls, got %d", calls)
	}
}
