package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/extramurs/matchday/internal/match"
)

const (
	SnapshotFile = "data/partidos.json"
	CalendarFile = "partidos.ics"
	MetricsFile  = "data/matchday.prom"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Snapshot is the published JSON document
type Snapshot struct {
	Team        string           `json:"team"`
	Group       string           `json:"group"`
	LastUpdated string           `json:"lastUpdated"`
	NextFixture *match.Fixture   `json:"nextFixture"`
	LastResults []match.Fixture  `json:"lastResults"`
	Standings   []match.Standing `json:"standings"`
	AllFixtures []match.Fixture  `json:"allFixtures"`
	Roster      []match.Player   `json:"roster,omitempty"`
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		LastResults: []match.Fixture{},
		Standings:   []match.Standing{},
		AllFixtures: []match.Fixture{},
	}
}

// normalize replaces nil collections so they encode as [] rather than null.
func (s *Snapshot) normalize() {
	if s.LastResults == nil {
		s.LastResults = []match.Fixture{}
	}
	if s.Standings == nil {
		s.Standings = []match.Standing{}
	}
	if s.AllFixtures == nil {
		s.AllFixtures = []match.Fixture{}
	}
}

// Storage handles persistence of run outputs
type Storage struct {
	dataDir string
}

// New creates a new Storage instance rooted at dataDir
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(filepath.Join(dataDir, filepath.Dir(SnapshotFile)), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Dir returns the root directory.
func (s *Storage) Dir() string {
	return s.dataDir
}

// Path resolves a file name relative to the root directory.
func (s *Storage) Path(name string) string {
	return filepath.Join(s.dataDir, filepath.FromSlash(name))
}

// LoadSnapshot loads the previous snapshot from disk
func (s *Storage) LoadSnapshot() (*Snapshot, error) {
	data, err := os.ReadFile(s.Path(SnapshotFile))
	if err != nil {
		if os.IsNotExist(err) {
			// No previous snapshot, return empty one
			return NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := sonic.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	snapshot.normalize()

	return &snapshot, nil
}

// SaveSnapshot writes the snapshot to disk, stamping LastUpdated when unset
func (s *Storage) SaveSnapshot(snapshot *Snapshot) error {
	if snapshot.LastUpdated == "" {
		snapshot.LastUpdated = time.Now().Format(time.RFC3339)
	}
	snapshot.normalize()

	data, err := sonic.ConfigDefault.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := writeFile(s.Path(SnapshotFile), data); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// SaveCalendar writes the calendar feed, prefixed with a UTF-8 byte order mark.
func (s *Storage) SaveCalendar(feed string) error {
	data := append(append([]byte{}, utf8BOM...), feed...)
	if err := writeFile(s.Path(CalendarFile), data); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	return nil
}

// writeFile writes through a temporary file so readers never see a partial document.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
