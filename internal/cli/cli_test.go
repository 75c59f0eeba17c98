package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv writes a config pointing at a temporary database
func testEnv(t *testing.T) (configPath, dir string) {
	t.Helper()
	dir = t.TempDir()
	configPath = filepath.Join(dir, "config.json")
	cfg := fmt.Sprintf(`{
		"athlete": {"max_hr": 190, "resting_hr": 60},
		"calendar": {"timezone": "UTC"},
		"database": {"path": %q}
	}`, filepath.Join(dir, "data.db"))
	require.NoError(t, os.WriteFile(configPath, []byte(cfg), 0600))
	return configPath, dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeWorkout(t *testing.T, dir, name string, start time.Time) string {
	t.Helper()
	doc := map[string]any{
		"name":             name,
		"workout_type":     "running",
		"start_time":       start.Format(time.RFC3339),
		"duration_seconds": 3600,
		"distance_meters":  10000,
		"avg_heart_rate":   150,
		"gps": []map[string]any{
			{"timestamp": start.Format(time.RFC3339), "lat": 0.0, "lon": 0.0, "altitude": 10.0},
			{"timestamp": start.Add(time.Minute).Format(time.RFC3339), "lat": 0.002, "lon": 0.0, "altitude": 12.0},
		},
		"chart": map[string]any{
			"timestamps": []string{start.Format(time.RFC3339), start.Add(time.Minute).Format(time.RFC3339)},
			"heart_rate": []any{145, 155},
		},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(dir, name+".json")
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestInitCreatesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	out, err := run(t, "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestAddAndQuery(t *testing.T) {
	configPath, dir := testEnv(t)
	start := time.Now().UTC().Add(-6 * time.Hour).Truncate(time.Second)
	file := writeWorkout(t, dir, "tempo", start)

	out, err := run(t, "add", file, "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Added workout 1")

	// the same document is recognised by its hash
	out, err = run(t, "add", file, "--config", configPath)
	require.NoError(t, err)
	assert.NotContains(t, out, "Added workout")

	out, err = run(t, "workouts", "-o", "json", "--config", configPath)
	require.NoError(t, err)
	var page struct {
		Total    int `json:"total"`
		Workouts []struct {
			ID   int64    `json:"id"`
			Name string   `json:"name"`
			TSS  *float64 `json:"tss"`
		} `json:"workouts"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Workouts, 1)
	assert.Equal(t, "tempo", page.Workouts[0].Name)
	require.NotNil(t, page.Workouts[0].TSS)
	assert.Equal(t, 48.0, *page.Workouts[0].TSS)

	out, err = run(t, "readiness", "-o", "json", "--config", configPath)
	require.NoError(t, err)
	var readiness struct {
		WorkoutCount int `json:"workout_count"`
		Recovery     struct {
			ReadinessScore int `json:"readiness_score"`
		} `json:"recovery"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &readiness))
	assert.Equal(t, 1, readiness.WorkoutCount)
	assert.GreaterOrEqual(t, readiness.Recovery.ReadinessScore, 0)
	assert.LessOrEqual(t, readiness.Recovery.ReadinessScore, 100)

	out, err = run(t, "trend", "-d", "3", "-o", "json", "--config", configPath)
	require.NoError(t, err)
	var trend []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &trend))
	assert.Len(t, trend, 3)

	out, err = run(t, "workout", "1", "--splits", "time", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "tempo")
	assert.Contains(t, out, "Heart rate zones")
	assert.Contains(t, out, "Elevation")
	assert.Contains(t, out, "Splits")
}

func TestStatsCommands(t *testing.T) {
	configPath, dir := testEnv(t)
	start := time.Now().UTC().Add(-6 * time.Hour).Truncate(time.Second)
	for i, name := range []string{"easy", "long"} {
		file := writeWorkout(t, dir, name, start.AddDate(0, 0, -i))
		_, err := run(t, "add", file, "--config", configPath)
		require.NoError(t, err)
	}

	out, err := run(t, "stats", "-o", "json", "--config", configPath)
	require.NoError(t, err)
	var overview struct {
		AllTime struct {
			Workouts       int     `json:"workouts"`
			DistanceMeters float64 `json:"distance_meters"`
		} `json:"all_time"`
		Streak struct {
			Current int `json:"current"`
		} `json:"streak"`
		Breakdown []struct {
			WorkoutType string `json:"workout_type"`
			Count       int    `json:"count"`
		} `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &overview))
	assert.Equal(t, 2, overview.AllTime.Workouts)
	assert.Equal(t, 20000.0, overview.AllTime.DistanceMeters)
	assert.Equal(t, 2, overview.Streak.Current)
	require.Len(t, overview.Breakdown, 1)
	assert.Equal(t, "running", overview.Breakdown[0].WorkoutType)

	out, err = run(t, "stats", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "All time")
	assert.Contains(t, out, "Personal records")

	out, err = run(t, "weekly", "-w", "4", "-o", "json", "--config", configPath)
	require.NoError(t, err)
	var weeks []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &weeks))
	assert.Len(t, weeks, 4)

	out, err = run(t, "calendar", "-d", "7", "-o", "json", "--config", configPath)
	require.NoError(t, err)
	var days []struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &days))
	assert.Len(t, days, 2)

	_, err = run(t, "weekly", "-w", "1000", "--config", configPath)
	assert.Error(t, err)
}

func TestWorkoutErrors(t *testing.T) {
	configPath, _ := testEnv(t)

	_, err := run(t, "workout", "abc", "--config", configPath)
	assert.ErrorContains(t, err, "invalid workout id")

	_, err = run(t, "workout", "1", "--splits", "laps", "--config", configPath)
	assert.ErrorContains(t, err, "unknown segment mode")

	_, err = run(t, "workout", "42", "--config", configPath)
	assert.ErrorContains(t, err, "workout not found")

	_, err = run(t, "readiness", "-o", "yaml", "--config", configPath)
	assert.ErrorContains(t, err, "unknown output format")
}

func TestInvalidConfigRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"display": {"distance_unit": "furlong"}}`), 0600))

	_, err := run(t, "readiness", "--config", path)
	assert.ErrorContains(t, err, "invalid config")
}

func TestReadWorkoutFile(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	path := writeWorkout(t, dir, "easy", start)

	w, err := readWorkoutFile(path)
	require.NoError(t, err)
	assert.Len(t, w.FileHash, 64)
	assert.Equal(t, "easy.json", w.Filename)
	assert.True(t, w.StartTime.Equal(start))
	require.Len(t, w.GPS, 2)
	assert.True(t, w.GPS[1].Timestamp.Equal(start.Add(time.Minute)))
	require.NotNil(t, w.Chart)
	assert.Equal(t, 155.0, *w.Chart.HeartRate[1])

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"name": "no start"}`), 0600))
	_, err = readWorkoutFile(bad)
	assert.ErrorContains(t, err, "start_time is required")
}
