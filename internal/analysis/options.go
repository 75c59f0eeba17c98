package analysis

// Options bundles the tunable heuristics of every analyzer
type Options struct {
	Zones     ZoneOptions
	Elevation ElevationOptions
	Segments  SegmentOptions
	Recovery  RecoveryOptions
}

// DefaultOptions returns the documented defaults for every analyzer
func DefaultOptions() Options {
	return Options{
		Zones:     DefaultZoneOptions(),
		Elevation: DefaultElevationOptions(),
		Segments:  DefaultSegmentOptions(),
		Recovery:  DefaultRecoveryOptions(),
	}
}
