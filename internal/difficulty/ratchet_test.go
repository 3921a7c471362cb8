package difficulty

import (
	"testing"
	"time"
)

func TestBoardNext(t *testing.T) {
	threshold := 12 * time.Second
	tests := []struct {
		name        string
		level       int
		out         BoardOutcome
		wantLevel   int
		wantChanged bool
	}{
		{
			name:        "clean fast board promotes",
			level:       1,
			out:         BoardOutcome{Errors: 0, BoardTime: 9 * time.Second},
			wantLevel:   2,
			wantChanged: true,
		},
		{
			name:        "one error still promotes",
			level:       3,
			out:         BoardOutcome{Errors: 1, BoardTime: 11 * time.Second},
			wantLevel:   4,
			wantChanged: true,
		},
		{
			name:        "two errors hold the level",
			level:       3,
			out:         BoardOutcome{Errors: 2, BoardTime: 5 * time.Second},
			wantLevel:   3,
			wantChanged: false,
		},
		{
			name:        "slow board holds the level",
			level:       3,
			out:         BoardOutcome{Errors: 0, BoardTime: 13 * time.Second},
			wantLevel:   3,
			wantChanged: false,
		},
		{
			name:        "top level cannot promote",
			level:       10,
			out:         BoardOutcome{Errors: 0, BoardTime: time.Second},
			wantLevel:   10,
			wantChanged: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := BoardNext(tt.level, tt.out, threshold)
			if got != tt.wantLevel || changed != tt.wantChanged {
				t.Fatalf("BoardNext = (%d, %v), want (%d, %v)", got, changed, tt.wantLevel, tt.wantChanged)
			}
		})
	}
}

func TestStreakRatchetPromotesOnStreak(t *testing.T) {
	var r StreakRatchet
	level := 4
	for i := 0; i < 2; i++ {
		next, changed := r.Observe(level, true)
		if changed || next != level {
			t.Fatalf("round %d: unexpected change to %d", i, next)
		}
	}
	next, changed := r.Observe(level, true)
	if !changed || next != 5 {
		t.Fatalf("third correct should promote: got (%d, %v)", next, changed)
	}
	if r.Streak() != 0 {
		t.Fatalf("streak should reset after promotion, got %d", r.Streak())
	}
}

func TestStreakRatchetDemotesOnColdWindow(t *testing.T) {
	var r StreakRatchet
	level := 5
	outcomes := []bool{false, false, true, false, false} // 1/5 = 20%
	var next int
	var changed bool
	for _, ok := range outcomes {
		next, changed = r.Observe(level, ok)
		if changed {
			break
		}
	}
	if !changed || next != 4 {
		t.Fatalf("cold window should demote to 4: got (%d, %v)", next, changed)
	}

	// The window resets after a change, so the next miss cannot demote again.
	next, changed = r.Observe(next, false)
	if changed || next != 4 {
		t.Fatalf("single miss after reset must not demote: got (%d, %v)", next, changed)
	}
}

func TestStreakRatchetPromoteThenDemote(t *testing.T) {
	var r StreakRatchet
	level := 5
	// Three straight correct answers promote first.
	for i := 0; i < 3; i++ {
		level, _ = r.Observe(level, true)
	}
	if level != 6 {
		t.Fatalf("expected promotion to 6, got %d", level)
	}
	// Then a cold stretch fills a fresh window and demotes exactly once.
	for i := 0; i < 5; i++ {
		var changed bool
		level, changed = r.Observe(level, false)
		if changed {
			break
		}
	}
	if level != 5 {
		t.Fatalf("expected demotion back to 5, got %d", level)
	}
}

func TestStreakRatchetClampsAtBounds(t *testing.T) {
	var r StreakRatchet
	level := MaxLevel
	for i := 0; i < 3; i++ {
		var changed bool
		level, changed = r.Observe(level, true)
		if changed {
			t.Fatalf("promotion at max level must report no change")
		}
	}
	if level != MaxLevel {
		t.Fatalf("level left max bound: %d", level)
	}

	r = StreakRatchet{}
	level = MinLevel
	for i := 0; i < 5; i++ {
		var changed bool
		level, changed = r.Observe(level, false)
		if changed {
			t.Fatalf("demotion at min level must report no change")
		}
	}
	if level != MinLevel {
		t.Fatalf("level left min bound: %d", level)
	}
}
