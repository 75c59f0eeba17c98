package cli

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"trainload/internal/analysis"
	"trainload/internal/store"
)

// workoutFile is the JSON document accepted by `trainload add`
type workoutFile struct {
	store.Workout
	GPS []struct {
		Timestamp *time.Time `json:"timestamp"`
		Lat       *float64   `json:"lat"`
		Lon       *float64   `json:"lon"`
		Altitude  *float64   `json:"altitude"`
	} `json:"gps"`
	Chart *analysis.ChartData `json:"chart"`
}

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <workout.json>...",
		Short: "Store workouts from JSON documents.",
		Long: `Store one or more workouts described as JSON: the summary fields
(name, workout_type, start_time, duration_seconds, distance_meters,
avg_heart_rate, ...) plus optional "gps" and "chart" arrays. Files already
stored (same content hash) are skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			for _, path := range args {
				w, err := readWorkoutFile(path)
				if err != nil {
					return err
				}

				exists, err := db.WorkoutExists(cmd.Context(), w.FileHash)
				if err != nil {
					return err
				}
				if exists {
					a.logger.Info("workout already stored, skipping", "file", path)
					continue
				}

				id, err := db.InsertWorkout(cmd.Context(), w)
				if err != nil {
					return fmt.Errorf("storing %s: %w", path, err)
				}
				a.logger.Debug("stored workout", "file", path, "id", id, "gps_points", len(w.GPS))
				cmd.Printf("Added workout %d from %s\n", id, filepath.Base(path))
			}
			return nil
		},
	}
}

// readWorkoutFile decodes a workout document; the file hash defaults to
// the SHA-256 of its content.
func readWorkoutFile(path string) (*store.Workout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc workoutFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if doc.StartTime.IsZero() {
		return nil, fmt.Errorf("%s: start_time is required", path)
	}

	w := doc.Workout
	if w.FileHash == "" {
		sum := sha256.Sum256(data)
		w.FileHash = hex.EncodeToString(sum[:])
	}
	if w.Filename == "" {
		w.Filename = filepath.Base(path)
	}

	w.GPS = make([]analysis.GpsPoint, 0, len(doc.GPS))
	for _, p := range doc.GPS {
		point := analysis.GpsPoint{Lat: p.Lat, Lon: p.Lon, Altitude: p.Altitude}
		if p.Timestamp != nil {
			point.Timestamp = *p.Timestamp
		}
		w.GPS = append(w.GPS, point)
	}
	w.Chart = doc.Chart

	return &w, nil
}
