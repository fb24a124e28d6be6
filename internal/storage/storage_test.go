package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/extramurs/matchday/internal/match"
)

func sampleSnapshot() *Snapshot {
	won := true
	round := 4
	played := match.Fixture{Round: &round, MatchID: "998", Date: "2025-10-12", Time: "10:00", Home: "C.D. Extramurs", Away: "Rival CF", Venue: "Campo", Score: "2-1", IsHome: true, Won: &won}
	next := match.Fixture{Date: "2025-10-19", Time: "12:00", Home: "Otro CF", Away: "C.D. Extramurs", Venue: "Polideportivo"}

	return &Snapshot{
		Team:        "C.D. Extramurs",
		Group:       "Grupo 3",
		LastUpdated: "2025-10-13T08:00:00+02:00",
		NextFixture: &next,
		LastResults: []match.Fixture{played},
		Standings:   []match.Standing{{Rank: 1, Team: "C.D. Extramurs", Points: 3, Played: 1, Won: 1}},
		AllFixtures: []match.Fixture{played, next},
		Roster:      []match.Player{{ID: "101", Name: "GARCIA LOPEZ", JerseyNumber: "10"}},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	want := sampleSnapshot()
	if err := s.SaveSnapshot(want); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	got, err := s.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if got.Team != want.Team || got.Group != want.Group || got.LastUpdated != want.LastUpdated {
		t.Errorf("header mismatch: got %+v", got)
	}
	if got.NextFixture == nil || got.NextFixture.Away != "C.D. Extramurs" {
		t.Errorf("next fixture not restored: %+v", got.NextFixture)
	}
	if len(got.AllFixtures) != 2 || got.AllFixtures[0].Won == nil || !*got.AllFixtures[0].Won {
		t.Errorf("fixtures not restored: %+v", got.AllFixtures)
	}
	if got.AllFixtures[1].Won != nil {
		t.Error("unplayed fixture should keep won=null")
	}
	if len(got.Roster) != 1 || got.Roster[0].JerseyNumber != "10" {
		t.Errorf("roster not restored: %+v", got.Roster)
	}
}

func TestSaveSnapshot_Shape(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	if err := s.SaveSnapshot(&Snapshot{Team: "C.D. Extramurs"}); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(s.Dir(), "data", "partidos.json"))
	if err != nil {
		t.Fatalf("snapshot file missing: %v", err)
	}

	var doc map[string]interface{}
	if err := sonic.Unmarshal(data, &doc); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}

	for _, key := range []string{"team", "group", "lastUpdated", "nextFixture", "lastResults", "standings", "allFixtures"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("expected key %q in snapshot", key)
		}
	}
	if doc["nextFixture"] != nil {
		t.Errorf("expected null nextFixture, got %v", doc["nextFixture"])
	}
	for _, key := range []string{"lastResults", "standings", "allFixtures"} {
		if list, ok := doc[key].([]interface{}); !ok || len(list) != 0 {
			t.Errorf("expected empty list for %q, got %v", key, doc[key])
		}
	}
	if _, ok := doc["roster"]; ok {
		t.Error("empty roster should be omitted")
	}
}

func TestLoadSnapshot_Missing(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	snapshot, err := s.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if snapshot.NextFixture != nil || len(snapshot.AllFixtures) != 0 {
		t.Errorf("expected empty snapshot, got %+v", snapshot)
	}
}

func TestLoadSnapshot_Corrupt(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	if err := os.WriteFile(s.Path(SnapshotFile), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := s.LoadSnapshot(); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveCalendar(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	feed := "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"
	if err := s.SaveCalendar(feed); err != nil {
		t.Fatalf("SaveCalendar failed: %v", err)
	}

	data, err := os.ReadFile(s.Path(CalendarFile))
	if err != nil {
		t.Fatalf("calendar file missing: %v", err)
	}
	if !bytes.HasPrefix(data, utf8BOM) {
		t.Error("expected UTF-8 byte order mark")
	}
	if string(data[len(utf8BOM):]) != feed {
		t.Errorf("unexpected feed body %q", data)
	}
}

func TestPhotoStore(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	photos := s.Photos()

	if photos.Exists("101") {
		t.Fatal("photo should not exist yet")
	}

	ref, err := photos.Save("101", []byte("png"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if ref != "Images/plantilla/jugador_101.png" || ref != photos.Ref("101") {
		t.Errorf("unexpected ref %q", ref)
	}
	if !photos.Exists("101") {
		t.Error("photo should exist after Save")
	}

	data, err := os.ReadFile(filepath.Join(s.Dir(), "Images", "plantilla", "jugador_101.png"))
	if err != nil || string(data) != "png" {
		t.Errorf("photo not written: %q, %v", data, err)
	}
}

func TestNew_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := New("~/matchday")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if s.Dir() != filepath.Join(home, "matchday") {
		t.Errorf("expected %s, got %s", filepath.Join(home, "matchday"), s.Dir())
	}
}
