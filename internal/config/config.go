package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"trainload/internal/analysis"
)

// Config represents the application configuration
type Config struct {
	Athlete  AthleteConfig  `mapstructure:"athlete" json:"athlete"`
	Zones    []ZoneConfig   `mapstructure:"zones" json:"zones"`
	Analysis AnalysisConfig `mapstructure:"analysis" json:"analysis"`
	Calendar CalendarConfig `mapstructure:"calendar" json:"calendar"`
	Database DatabaseConfig `mapstructure:"database" json:"database"`
	Server   ServerConfig   `mapstructure:"server" json:"server"`
	Display  DisplayConfig  `mapstructure:"display" json:"display"`
}

// AthleteConfig holds athlete-specific settings. Zero means unset.
type AthleteConfig struct {
	MaxHR     float64 `mapstructure:"max_hr" json:"max_hr,omitempty"`
	RestingHR float64 `mapstructure:"resting_hr" json:"resting_hr,omitempty"`
	Age       int     `mapstructure:"age" json:"age,omitempty"`
}

// ZoneConfig is one row of the heart rate zone table
type ZoneConfig struct {
	Name       string  `mapstructure:"name" json:"name"`
	MinPercent float64 `mapstructure:"min_percent" json:"min_percent"`
	MaxPercent float64 `mapstructure:"max_percent" json:"max_percent"`
	Color      string  `mapstructure:"color" json:"color"`
}

// AnalysisConfig holds the analyzer heuristics
type AnalysisConfig struct {
	MaxSampleGapSeconds    float64 `mapstructure:"max_sample_gap_seconds" json:"max_sample_gap_seconds"`
	GradeSmoothingRadius   int     `mapstructure:"grade_smoothing_radius" json:"grade_smoothing_radius"`
	MinGradeWindowMeters   float64 `mapstructure:"min_grade_window_meters" json:"min_grade_window_meters"`
	GradeWindowMeters      float64 `mapstructure:"grade_window_meters" json:"grade_window_meters"`
	SegmentDistanceMeters  float64 `mapstructure:"segment_distance_meters" json:"segment_distance_meters"`
	SegmentDurationSeconds float64 `mapstructure:"segment_duration_seconds" json:"segment_duration_seconds"`
	ChartPoints            int     `mapstructure:"chart_points" json:"chart_points"`
	RecentWorkoutHours     float64 `mapstructure:"recent_workout_hours" json:"recent_workout_hours"`
}

// CalendarConfig decides how workouts are bucketed into days
type CalendarConfig struct {
	Timezone string `mapstructure:"timezone" json:"timezone"` // IANA name or "Local"
}

// DatabaseConfig locates the workout database
type DatabaseConfig struct {
	Path string `mapstructure:"path" json:"path"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Addr string `mapstructure:"addr" json:"addr"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	DistanceUnit string `mapstructure:"distance_unit" json:"distance_unit"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// EnvPrefix prefixes every environment override, e.g. TRAINLOAD_ATHLETE_MAX_HR
const EnvPrefix = "TRAINLOAD"

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	defaults := analysis.DefaultOptions()

	zones := make([]ZoneConfig, 0, len(analysis.DefaultZones()))
	for _, z := range analysis.DefaultZones() {
		zones = append(zones, ZoneConfig(z))
	}

	return Config{
		Zones: zones,
		Analysis: AnalysisConfig{
			MaxSampleGapSeconds:    defaults.Zones.MaxGapSeconds,
			GradeSmoothingRadius:   defaults.Elevation.SmoothingRadius,
			MinGradeWindowMeters:   defaults.Elevation.MinGradeWindowMeters,
			GradeWindowMeters:      defaults.Elevation.GradeWindowMeters,
			SegmentDistanceMeters:  defaults.Segments.TargetDistanceMeters,
			SegmentDurationSeconds: defaults.Segments.FixedDurationSeconds,
			ChartPoints:            analysis.DefaultChartPoints,
			RecentWorkoutHours:     defaults.Recovery.RecentWorkoutHours,
		},
		Calendar: CalendarConfig{Timezone: "Local"},
		Database: DatabaseConfig{Path: filepath.Join("~", ".trainload", "data.db")},
		Server:   ServerConfig{Addr: ":8080"},
		Display:  DisplayConfig{DistanceUnit: "km"},
	}
}

// Load reads the configuration from path, or ~/.trainload/config.json when
// path is empty. Environment variables override file values.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = getConfigPath()
		if err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, ErrNoConfig
	}

	v := newViper()
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("json")
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return unmarshal(v)
}

// LoadDefaults returns the defaults with environment overrides applied
func LoadDefaults() (*Config, error) {
	return unmarshal(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := DefaultConfig()
	v.SetDefault("athlete.max_hr", d.Athlete.MaxHR)
	v.SetDefault("athlete.resting_hr", d.Athlete.RestingHR)
	v.SetDefault("athlete.age", d.Athlete.Age)
	v.SetDefault("zones", d.Zones)
	v.SetDefault("analysis.max_sample_gap_seconds", d.Analysis.MaxSampleGapSeconds)
	v.SetDefault("analysis.grade_smoothing_radius", d.Analysis.GradeSmoothingRadius)
	v.SetDefault("analysis.min_grade_window_meters", d.Analysis.MinGradeWindowMeters)
	v.SetDefault("analysis.grade_window_meters", d.Analysis.GradeWindowMeters)
	v.SetDefault("analysis.segment_distance_meters", d.Analysis.SegmentDistanceMeters)
	v.SetDefault("analysis.segment_duration_seconds", d.Analysis.SegmentDurationSeconds)
	v.SetDefault("analysis.chart_points", d.Analysis.ChartPoints)
	v.SetDefault("analysis.recent_workout_hours", d.Analysis.RecentWorkoutHours)
	v.SetDefault("calendar.timezone", d.Calendar.Timezone)
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("display.distance_unit", d.Display.DistanceUnit)
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes the configuration to ~/.trainload/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes the configuration as JSON to path
func SaveTo(path string, cfg *Config) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample writes the defaults to path (or the default location) unless
// a config already exists there. It returns the path used.
func CreateExample(path string) (string, error) {
	if path == "" {
		var err error
		path, err = getConfigPath()
		if err != nil {
			return "", err
		}
	}

	if _, err := os.Stat(path); err == nil {
		return path, nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Athlete = AthleteConfig{RestingHR: 55, Age: 35}
	return path, SaveTo(path, &example)
}

// Validate checks the config for values the analyzers cannot work with
func (c *Config) Validate() error {
	if c.Athlete.MaxHR < 0 || c.Athlete.RestingHR < 0 || c.Athlete.Age < 0 {
		return errors.New("athlete values must not be negative")
	}
	if c.Athlete.MaxHR == 0 && c.Athlete.Age >= 220 {
		return fmt.Errorf("athlete.age (%d) leaves no estimated max HR; set athlete.max_hr", c.Athlete.Age)
	}
	profile := c.Profile()
	if maxHR, resting := profile.EstimatedMaxHR(), profile.RestingHR(); resting >= maxHR {
		return fmt.Errorf("athlete.resting_hr (%v) must be less than the max HR (%v)", resting, maxHR)
	}

	if len(c.Zones) == 0 {
		return errors.New("zones must contain at least one zone")
	}
	for i, z := range c.Zones {
		if z.MinPercent >= z.MaxPercent {
			return fmt.Errorf("zones[%d] (%s): min_percent must be less than max_percent", i, z.Name)
		}
		if i > 0 && z.MinPercent < c.Zones[i-1].MaxPercent {
			return fmt.Errorf("zones[%d] (%s): zones must be sorted and must not overlap", i, z.Name)
		}
	}

	a := c.Analysis
	if a.MaxSampleGapSeconds <= 0 {
		return errors.New("analysis.max_sample_gap_seconds must be positive")
	}
	if a.GradeSmoothingRadius < 0 {
		return errors.New("analysis.grade_smoothing_radius must not be negative")
	}
	if a.MinGradeWindowMeters <= 0 || a.GradeWindowMeters <= 0 {
		return errors.New("analysis grade windows must be positive")
	}
	if a.MinGradeWindowMeters > a.GradeWindowMeters {
		return fmt.Errorf("analysis.min_grade_window_meters (%v) must not exceed analysis.grade_window_meters (%v)", a.MinGradeWindowMeters, a.GradeWindowMeters)
	}
	if a.SegmentDistanceMeters <= 0 || a.SegmentDurationSeconds <= 0 {
		return errors.New("analysis segment targets must be positive")
	}
	if a.ChartPoints < 3 {
		return fmt.Errorf("analysis.chart_points must be at least 3, got %d", a.ChartPoints)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	if c.Display.DistanceUnit != "" && c.Display.DistanceUnit != "km" && c.Display.DistanceUnit != "mi" {
		return fmt.Errorf("display.distance_unit must be \"km\" or \"mi\", got %q", c.Display.DistanceUnit)
	}

	return nil
}

// Profile converts the athlete section to an analysis profile
func (c *Config) Profile() analysis.UserProfile {
	var p analysis.UserProfile
	if c.Athlete.MaxHR > 0 {
		maxHR := c.Athlete.MaxHR
		p.MaxHeartRate = &maxHR
	}
	if c.Athlete.RestingHR > 0 {
		resting := c.Athlete.RestingHR
		p.RestingHeartRate = &resting
	}
	if c.Athlete.Age > 0 {
		age := c.Athlete.Age
		p.Age = &age
	}
	return p
}

// HRZones returns the zone table
func (c *Config) HRZones() []analysis.HRZone {
	zones := make([]analysis.HRZone, len(c.Zones))
	for i, z := range c.Zones {
		zones[i] = analysis.HRZone(z)
	}
	return zones
}

// AnalysisOptions returns the analyzer options
func (c *Config) AnalysisOptions() analysis.Options {
	opts := analysis.DefaultOptions()
	opts.Zones.MaxGapSeconds = c.Analysis.MaxSampleGapSeconds
	opts.Elevation.SmoothingRadius = c.Analysis.GradeSmoothingRadius
	opts.Elevation.MinGradeWindowMeters = c.Analysis.MinGradeWindowMeters
	opts.Elevation.GradeWindowMeters = c.Analysis.GradeWindowMeters
	opts.Segments.TargetDistanceMeters = c.Analysis.SegmentDistanceMeters
	opts.Segments.FixedDurationSeconds = c.Analysis.SegmentDurationSeconds
	opts.Recovery.RecentWorkoutHours = c.Analysis.RecentWorkoutHours
	return opts
}

// Location resolves the calendar timezone
func (c *Config) Location() (*time.Location, error) {
	switch c.Calendar.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Calendar.Timezone)
	if err != nil {
		return nil, fmt.Errorf("calendar.timezone: %w", err)
	}
	return loc, nil
}

// DatabasePath returns the database path with a leading ~ expanded
func (c *Config) DatabasePath() (string, error) {
	p := c.Database.Path
	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		return filepath.Join(home, p[1:]), nil
	}
	return p, nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".trainload"), nil
}
