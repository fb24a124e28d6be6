package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counter(t *testing.T) {
	r := NewRecorder()

	r.IncrCounter("fixtures.rows_skipped")
	r.IncrCounter("fixtures.rows_skipped")
	r.AddCounter("fixtures.rows_skipped", 3)
	r.AddCounter("fixtures.rows_skipped", -10)

	counters := r.Snapshot()["counters"].(map[string]int64)
	assert.Equal(t, int64(5), counters["fixtures.rows_skipped"])
	assert.Equal(t, int64(5), r.Counter("fixtures.rows_skipped"))
}

func TestRecorder_Gauge(t *testing.T) {
	r := NewRecorder()

	r.SetGauge("standings.rank", 7)
	r.SetGauge("standings.rank", 3)

	gauges := r.Snapshot()["gauges"].(map[string]float64)
	assert.Equal(t, 3.0, gauges["standings.rank"])
}

func TestRecorder_Timing(t *testing.T) {
	r := NewRecorder()

	r.RecordTiming("fetch.page", 100*time.Millisecond)
	r.RecordTiming("fetch.page", 200*time.Millisecond)
	r.RecordTiming("fetch.page", 150*time.Millisecond)

	timings := r.Snapshot()["timings"].(map[string]map[string]interface{})
	page := timings["fetch.page"]
	require.NotNil(t, page)
	assert.Equal(t, 3, page["count"])
	assert.Equal(t, "100ms", page["min"])
	assert.Equal(t, "200ms", page["max"])
	assert.Equal(t, "150ms", page["average"])
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.AddCounter("fixtures.extracted", 12)
	r.SetGauge("standings.teams", 16)

	path := filepath.Join(t.TempDir(), "matchday.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.True(t, strings.Contains(text, "matchday_fixtures_extracted_total 12"), text)
	assert.True(t, strings.Contains(text, "matchday_standings_teams 16"), text)
}

func TestPromName(t *testing.T) {
	assert.Equal(t, "jersey_matches_failed", promName("jersey.matches-failed"))
	assert.Equal(t, "roster_cards_skipped", promName("Roster.Cards Skipped"))
}

func TestPackageLevelFunctions(t *testing.T) {
	IncrCounter("test")
	AddCounter("test", 2)
	SetGauge("test", 42.0)
	RecordTiming("test", time.Second)

	snapshot := GetSnapshot()
	require.NotNil(t, snapshot)
	assert.GreaterOrEqual(t, snapshot["counters"].(map[string]int64)["test"], int64(3))
}
