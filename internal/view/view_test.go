package view

import (
	"testing"
	"time"

	"github.com/extramurs/matchday/internal/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const team = "C.D. Extramurs Valencia 'A'"

var madrid = mustLocation("Europe/Madrid")

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func boolPtr(b bool) *bool { return &b }

func played(date, score string, won *bool) match.Fixture {
	return match.Fixture{Date: date, Time: "10:00", Home: team, Away: "Rival " + date, Score: score, IsHome: true, Won: won}
}

func TestBuild_Streak(t *testing.T) {
	fixtures := []match.Fixture{
		played("2025-10-26", "2-0", boolPtr(true)),
		played("2025-09-21", "3-1", boolPtr(true)),
		played("2025-10-05", "0-2", boolPtr(false)),
		played("2025-10-12", "1-1", nil),
		played("2025-10-19", "4-0", boolPtr(true)),
		played("2025-09-14", "0-1", boolPtr(false)),
	}
	now := time.Date(2025, 11, 1, 12, 0, 0, 0, madrid)

	v := Build(fixtures, nil, Options{TeamName: team, Now: now, Location: madrid})

	assert.Equal(t, []string{"W", "L", "D", "W", "W"}, v.Streak)
	require.Len(t, v.LastResults, 5)
	assert.Equal(t, "2025-10-26", v.LastResults[0].Date, "newest first")
	assert.Equal(t, "2025-09-21", v.LastResults[4].Date)
	assert.Len(t, v.PlayedFixtures, 6)
}

func TestBuild_NextFixture(t *testing.T) {
	now := time.Date(2025, 11, 8, 9, 0, 0, 0, madrid)
	fixtures := []match.Fixture{
		{Date: "2025-11-15", Time: "18:00", Home: team, Away: "Later"},
		{Date: "2025-11-08", Time: "12:00", Home: team, Away: "Today"},
		{Date: "2025-11-08", Time: "", Home: team, Away: "Today untimed"},
		{Date: "2025-11-08", Time: "10:00", Home: team, Away: "Today scored", Score: "1-0"},
		{Date: "2025-11-01", Time: "10:00", Home: team, Away: "Past unscored"},
		{Home: team, Away: "Undated"},
	}

	v := Build(fixtures, nil, Options{TeamName: team, Now: now, Location: madrid})

	require.NotNil(t, v.NextFixture)
	assert.Equal(t, "Today untimed", v.NextFixture.Away, "missing time sorts first")
	assert.False(t, v.IsUrgent, "untimed kickoff is never urgent")

	require.Len(t, v.PlayedFixtures, 1)
	assert.Equal(t, "Past unscored", v.PlayedFixtures[0].Away)
	assert.Empty(t, v.LastResults)
	assert.Empty(t, v.Streak)
}

func TestBuild_NoFixtures(t *testing.T) {
	v := Build(nil, nil, Options{TeamName: team, Now: time.Now(), Location: madrid})

	assert.Nil(t, v.NextFixture)
	assert.False(t, v.IsUrgent)
	assert.Nil(t, v.Rank)
	assert.Nil(t, v.MotivationalMessage)
	assert.NotNil(t, v.PlayedFixtures)
	assert.NotNil(t, v.Streak)
}

func TestBuild_Rank(t *testing.T) {
	standings := []match.Standing{
		{Rank: 1, Team: "Rival CF"},
		{Rank: 2, Team: "Otro CF"},
		{Rank: 3, Team: "C.D. Extramurs 'A'"},
	}

	tests := []struct {
		name        string
		team        string
		fallback    string
		standings   []match.Standing
		wantRank    *int
		wantMessage bool
	}{
		{"fallback substring, last place", team, "Extramurs", standings, intPtr(3), true},
		{"exact name, not last", "Otro CF", "", standings, intPtr(2), false},
		{"not found", "Nadie", "", standings, nil, false},
		{"empty table", team, "Extramurs", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Build(nil, tt.standings, Options{TeamName: tt.team, FallbackMatch: tt.fallback, Now: time.Now(), Location: madrid})
			assert.Equal(t, tt.wantRank, v.Rank)
			assert.Equal(t, len(tt.standings), v.TotalTeams)
			if tt.wantMessage {
				require.NotNil(t, v.MotivationalMessage)
				assert.Equal(t, LastPlaceMessage, *v.MotivationalMessage)
			} else {
				assert.Nil(t, v.MotivationalMessage)
			}
		})
	}
}

func intPtr(i int) *int { return &i }

func TestIsUrgent(t *testing.T) {
	f := &match.Fixture{Date: "2025-11-15", Time: "18:00"}
	kickoff := time.Date(2025, 11, 15, 18, 0, 0, 0, madrid)

	assert.True(t, IsUrgent(f, kickoff.Add(-23*time.Hour), madrid))
	assert.False(t, IsUrgent(f, kickoff.Add(-25*time.Hour), madrid))
	assert.False(t, IsUrgent(nil, kickoff, madrid))
	assert.False(t, IsUrgent(&match.Fixture{Date: "2025-11-15", Time: "a las 6"}, kickoff, madrid))
}

func TestBuild_Urgent(t *testing.T) {
	fixtures := []match.Fixture{{Date: "2025-11-15", Time: "18:00", Home: team, Away: "Rival CF"}}
	kickoff := time.Date(2025, 11, 15, 18, 0, 0, 0, madrid)

	assert.True(t, Build(fixtures, nil, Options{TeamName: team, Now: kickoff.Add(-23 * time.Hour), Location: madrid}).IsUrgent)
	assert.False(t, Build(fixtures, nil, Options{TeamName: team, Now: kickoff.Add(-25 * time.Hour), Location: madrid}).IsUrgent)
}
