package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeNowAdvances(t *testing.T) {
	c := Fake(epoch)
	if got := c.Now(); !got.Equal(epoch) {
		t.Fatalf("Now() = %v, want %v", got, epoch)
	}
	c.Advance(250 * time.Millisecond)
	if got := c.Now().Sub(epoch); got != 250*time.Millisecond {
		t.Fatalf("elapsed = %v, want 250ms", got)
	}
}

func TestFakeAfterFiresAtDeadline(t *testing.T) {
	c := Fake(epoch)
	ch := c.After(time.Second)

	c.Advance(999 * time.Millisecond)
	select {
	case <-ch:
		t.Fatal("After fired before its deadline")
	default:
	}
	if c.Waiters() != 1 {
		t.Fatalf("Waiters() = %d, want 1", c.Waiters())
	}

	c.Advance(time.Millisecond)
	select {
	case fired := <-ch:
		if want := epoch.Add(time.Second); !fired.Equal(want) {
			t.Errorf("fired at %v, want %v", fired, want)
		}
	default:
		t.Fatal("After did not fire at its deadline")
	}
	if c.Waiters() != 0 {
		t.Fatalf("Waiters() = %d after firing, want 0", c.Waiters())
	}
}

func TestFakeAfterNonPositive(t *testing.T) {
	c := Fake(epoch)
	select {
	case <-c.After(0):
	default:
		t.Fatal("After(0) should be ready immediately")
	}
}
