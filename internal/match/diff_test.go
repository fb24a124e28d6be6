package match

import (
	"testing"
)

func TestDiff(t *testing.T) {
	played := Fixture{MatchID: "1", Date: "2025-10-04", Time: "10:00", Home: "Extramurs", Away: "Rival A", Venue: "Campo 1"}
	upcoming := Fixture{MatchID: "2", Date: "2025-10-11", Time: "12:00", Home: "Rival B", Away: "Extramurs", Venue: "Campo 2"}

	previous := []Fixture{played, upcoming}

	playedNow := played
	playedNow.Score = "2-1"
	upcomingNow := upcoming
	upcomingNow.Time = "16:30"
	added := Fixture{Home: "Extramurs", Away: "Rival C", Date: "2025-10-18"}

	current := []Fixture{playedNow, upcomingNow, added}

	t.Run("finds new results", func(t *testing.T) {
		result := Diff(previous, current)

		if len(result.NewResults) != 1 {
			t.Fatalf("expected 1 new result, got %d", len(result.NewResults))
		}
		if result.NewResults[0].Score != "2-1" {
			t.Errorf("new result score = %q, want 2-1", result.NewResults[0].Score)
		}
	})

	t.Run("finds rescheduled fixtures", func(t *testing.T) {
		result := Diff(previous, current)

		if len(result.Rescheduled) != 1 {
			t.Fatalf("expected 1 reschedule, got %d", len(result.Rescheduled))
		}
		change := result.Rescheduled[0]
		if change.ChangeType != ChangeTime || change.OldValue != "12:00" || change.NewValue != "16:30" {
			t.Errorf("unexpected change %+v", change)
		}
	})

	t.Run("finds added fixtures", func(t *testing.T) {
		result := Diff(previous, current)

		if len(result.Added) != 1 || result.Added[0].Away != "Rival C" {
			t.Errorf("unexpected added fixtures %+v", result.Added)
		}
		if !result.HasChanges() {
			t.Error("HasChanges() = false, want true")
		}
	})

	t.Run("handles nil previous", func(t *testing.T) {
		result := Diff(nil, current)

		if len(result.Added) != 3 {
			t.Errorf("expected 3 added fixtures, got %d", len(result.Added))
		}
		if len(result.NewResults) != 0 {
			t.Errorf("expected no new results, got %d", len(result.NewResults))
		}
	})

	t.Run("no changes", func(t *testing.T) {
		result := Diff(current, current)

		if result.HasChanges() {
			t.Errorf("expected no changes, got %+v", result)
		}
	})
}

func TestDetectChanges(t *testing.T) {
	prev := &Fixture{MatchID: "9", Date: "2025-10-04", Time: "10:00", Venue: "Campo 1"}

	tests := []struct {
		name      string
		current   Fixture
		wantTypes []string
	}{
		{
			name:      "date moved",
			current:   Fixture{MatchID: "9", Date: "2025-10-05", Time: "10:00", Venue: "Campo 1"},
			wantTypes: []string{ChangeDate},
		},
		{
			name:      "venue changed",
			current:   Fixture{MatchID: "9", Date: "2025-10-04", Time: "10:00", Venue: "Campo 2"},
			wantTypes: []string{ChangeVenue},
		},
		{
			name:      "missing values are not changes",
			current:   Fixture{MatchID: "9"},
			wantTypes: nil,
		},
		{
			name:      "result appears",
			current:   Fixture{MatchID: "9", Date: "2025-10-04", Time: "10:00", Venue: "Campo 1", Score: "0-0"},
			wantTypes: []string{ChangeResult},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changes := DetectChanges(prev, tt.current)
			if len(changes) != len(tt.wantTypes) {
				t.Fatalf("got %d changes (%+v), want %d", len(changes), changes, len(tt.wantTypes))
			}
			for i, c := range changes {
				if c.ChangeType != tt.wantTypes[i] {
					t.Errorf("change[%d] = %s, want %s", i, c.ChangeType, tt.wantTypes[i])
				}
			}
		})
	}

	if got := DetectChanges(nil, Fixture{Home: "A", Away: "B"}); len(got) != 1 || got[0].ChangeType != ChangeNew {
		t.Errorf("DetectChanges(nil) = %+v, want one new change", got)
	}
}
