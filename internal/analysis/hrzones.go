package analysis

// HRZone is one band of the heart rate zone table, expressed as percentages
// of the estimated max HR. The last zone also captures everything above its max.
type HRZone struct {
	Name       string  `json:"name"`
	MinPercent float64 `json:"min_percent"`
	MaxPercent float64 `json:"max_percent"`
	Color      string  `json:"color"`
}

// DefaultZones returns the standard five-zone table
func DefaultZones() []HRZone {
	return []HRZone{
		{Name: "Z1 Recovery", MinPercent: 50, MaxPercent: 60, Color: "#6B7280"},
		{Name: "Z2 Endurance", MinPercent: 60, MaxPercent: 70, Color: "#3B82F6"},
		{Name: "Z3 Tempo", MinPercent: 70, MaxPercent: 80, Color: "#10B981"},
		{Name: "Z4 Threshold", MinPercent: 80, MaxPercent: 90, Color: "#F59E0B"},
		{Name: "Z5 VO2max", MinPercent: 90, MaxPercent: 100, Color: "#EF4444"},
	}
}

// ZoneOptions tunes time-in-zone attribution
type ZoneOptions struct {
	// MaxGapSeconds is the longest interval between two samples that is still
	// attributed to a zone. Longer gaps are treated as sensor dropouts.
	MaxGapSeconds float64
}

// DefaultZoneOptions returns a 60 second gap guard
func DefaultZoneOptions() ZoneOptions {
	return ZoneOptions{MaxGapSeconds: 60}
}

// ZoneTime is the time attributed to one zone
type ZoneTime struct {
	Zone       HRZone  `json:"zone"`
	Seconds    float64 `json:"seconds"`
	Percentage float64 `json:"percentage"` // share of all attributed time, 0-100
}

// TimeInZones distributes the time between consecutive heart rate samples
// across zones. Each interval is credited to the zone of its closing sample.
// Intervals with a missing reading, a negative delta or a delta above
// opts.MaxGapSeconds are not attributed anywhere.
//
// It panics if zones is empty.
func TimeInZones(series TimeSeries, zones []HRZone, estimatedMaxHR float64, opts ZoneOptions) []ZoneTime {
	if len(zones) == 0 {
		panic("analysis: heart rate zone table is empty")
	}

	result := make([]ZoneTime, len(zones))
	for i, z := range zones {
		result[i].Zone = z
	}
	if estimatedMaxHR <= 0 {
		return result
	}

	var total float64
	n := series.Len()
	for i := 1; i < n; i++ {
		prev, cur := series.Values[i-1], series.Values[i]
		if prev == nil || cur == nil {
			continue
		}
		delta := series.Timestamps[i].Sub(series.Timestamps[i-1]).Seconds()
		if delta < 0 || delta > opts.MaxGapSeconds {
			continue
		}

		idx := ZoneIndex(*cur/estimatedMaxHR*100, zones)
		if idx < 0 {
			continue
		}
		result[idx].Seconds += delta
		total += delta
	}

	if total > 0 {
		for i := range result {
			result[i].Percentage = result[i].Seconds / total * 100
		}
	}
	return result
}

// ZoneIndex returns the index of the zone containing percentage, or -1 when
// it falls below the table or into a gap between zones.
func ZoneIndex(percentage float64, zones []HRZone) int {
	for i, z := range zones {
		if percentage >= z.MinPercent && percentage < z.MaxPercent {
			return i
		}
	}
	if last := len(zones) - 1; last >= 0 && percentage >= zones[last].MaxPercent {
		return last
	}
	return -1
}
