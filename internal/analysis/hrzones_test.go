package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeZones() []HRZone {
	return []HRZone{
		{Name: "easy", MinPercent: 0, MaxPercent: 60},
		{Name: "moderate", MinPercent: 60, MaxPercent: 80},
		{Name: "hard", MinPercent: 80, MaxPercent: 100},
	}
}

func TestTimeInZonesSkipsMissingReadings(t *testing.T) {
	s := seriesAt(
		[]int{0, 30, 61, 90, 120},
		[]*float64{floatPtr(100), floatPtr(120), floatPtr(140), nil, floatPtr(160)},
	)

	result := TimeInZones(s, threeZones(), 190, DefaultZoneOptions())

	require.Len(t, result, 3)
	assert.Equal(t, 0.0, result[0].Seconds)
	// 120/190 = 63% and 140/190 = 74%; the 31s interval is within the gap guard
	assert.Equal(t, 61.0, result[1].Seconds)
	assert.Equal(t, 0.0, result[2].Seconds)
	assert.InDelta(t, 100.0, result[1].Percentage, 1e-9)
}

func TestTimeInZonesGapGuard(t *testing.T) {
	tests := []struct {
		name     string
		offsets  []int
		expected float64
	}{
		{"gap at threshold is counted", []int{0, 60}, 60},
		{"gap above threshold is skipped", []int{0, 61}, 0},
		{"out of order is skipped", []int{30, 0}, 0},
		{"zero delta adds nothing", []int{10, 10}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seriesAt(tt.offsets, []*float64{floatPtr(150), floatPtr(150)})
			result := TimeInZones(s, threeZones(), 190, DefaultZoneOptions())

			var total float64
			for _, z := range result {
				total += z.Seconds
			}
			assert.Equal(t, tt.expected, total)
		})
	}
}

func TestTimeInZonesConfigurableGap(t *testing.T) {
	s := seriesAt([]int{0, 90}, []*float64{floatPtr(150), floatPtr(150)})

	result := TimeInZones(s, threeZones(), 190, ZoneOptions{MaxGapSeconds: 120})

	assert.Equal(t, 90.0, result[1].Seconds)
}

func TestTimeInZonesNoValidSamples(t *testing.T) {
	tests := []struct {
		name   string
		series TimeSeries
	}{
		{"empty series", TimeSeries{}},
		{"single sample", seriesAt([]int{0}, []*float64{floatPtr(150)})},
		{"all missing", seriesAt([]int{0, 1, 2}, []*float64{nil, nil, nil})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TimeInZones(tt.series, threeZones(), 190, DefaultZoneOptions())
			require.Len(t, result, 3)
			for _, z := range result {
				assert.Equal(t, 0.0, z.Seconds)
				assert.Equal(t, 0.0, z.Percentage)
			}
		})
	}
}

func TestTimeInZonesSingleZone(t *testing.T) {
	offsets := make([]int, 20)
	values := make([]*float64, 20)
	for i := range offsets {
		offsets[i] = i * 5
		// alternate between 82% and 89% of 190
		if i%2 == 0 {
			values[i] = floatPtr(156)
		} else {
			values[i] = floatPtr(169)
		}
	}

	result := TimeInZones(seriesAt(offsets, values), DefaultZones(), 190, DefaultZoneOptions())

	assert.Equal(t, 95.0, result[3].Seconds)
	assert.InDelta(t, 100.0, result[3].Percentage, 1e-9)
}

func TestTimeInZonesNeverExceedsElapsed(t *testing.T) {
	offsets := []int{0, 10, 25, 100, 110, 115, 300, 301}
	values := []*float64{floatPtr(100), floatPtr(130), nil, floatPtr(150), floatPtr(175), floatPtr(185), floatPtr(120), floatPtr(90)}

	result := TimeInZones(seriesAt(offsets, values), DefaultZones(), 190, DefaultZoneOptions())

	var total, pct float64
	for _, z := range result {
		total += z.Seconds
		pct += z.Percentage
	}
	assert.LessOrEqual(t, total, 301.0)
	assert.InDelta(t, 100.0, pct, 1e-9)
}

func TestTimeInZonesTopZoneIsOpenEnded(t *testing.T) {
	s := seriesAt([]int{0, 30}, []*float64{floatPtr(200), floatPtr(205)})

	result := TimeInZones(s, DefaultZones(), 190, DefaultZoneOptions())

	assert.Equal(t, 30.0, result[4].Seconds)
}

func TestTimeInZonesBelowTableIsUnattributed(t *testing.T) {
	s := seriesAt([]int{0, 30}, []*float64{floatPtr(70), floatPtr(70)})

	result := TimeInZones(s, DefaultZones(), 190, DefaultZoneOptions())

	for _, z := range result {
		assert.Equal(t, 0.0, z.Seconds)
	}
}

func TestTimeInZonesEmptyTablePanics(t *testing.T) {
	assert.Panics(t, func() {
		TimeInZones(TimeSeries{}, nil, 190, DefaultZoneOptions())
	})
}

func TestZoneIndex(t *testing.T) {
	zones := DefaultZones()
	tests := []struct {
		percentage float64
		expected   int
	}{
		{40, -1},
		{50, 0},
		{59.99, 0},
		{60, 1},
		{79.5, 2},
		{90, 4},
		{100, 4},
		{130, 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ZoneIndex(tt.percentage, zones), "percentage %v", tt.percentage)
	}
}

func TestZoneIndexGapBetweenZones(t *testing.T) {
	zones := []HRZone{
		{Name: "low", MinPercent: 50, MaxPercent: 60},
		{Name: "high", MinPercent: 70, MaxPercent: 100},
	}
	assert.Equal(t, -1, ZoneIndex(65, zones))
}

func TestEstimatedMaxHR(t *testing.T) {
	tests := []struct {
		name     string
		profile  UserProfile
		expected float64
	}{
		{"explicit max", UserProfile{MaxHeartRate: floatPtr(182), Age: intPtr(30)}, 182},
		{"from age", UserProfile{Age: intPtr(40)}, 180},
		{"default", UserProfile{}, DefaultMaxHR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.profile.EstimatedMaxHR())
		})
	}
}

func TestEstimatedMaxHRFollowsProfileChanges(t *testing.T) {
	p := UserProfile{Age: intPtr(30)}
	assert.Equal(t, 190.0, p.EstimatedMaxHR())

	*p.Age = 50
	assert.Equal(t, 170.0, p.EstimatedMaxHR())
}

func TestRestingHR(t *testing.T) {
	assert.Equal(t, float64(DefaultRestingHR), UserProfile{}.RestingHR())
	assert.Equal(t, 48.0, UserProfile{RestingHeartRate: floatPtr(48)}.RestingHR())
}
