package analysis

import "math"

// DefaultChartPoints is the point budget for chart series sent to a display
const DefaultChartPoints = 500

// Downsample reduces series to targetCount points using Largest Triangle
// Three Buckets. value returns a point's numeric value and false when the
// point has no reading; such points never win a bucket unless the whole
// bucket is empty.
//
// Series that already fit the budget are returned unchanged. Otherwise the
// result has exactly targetCount points and always keeps the first and last
// input points.
func Downsample[T any](series []T, targetCount int, value func(T) (float64, bool)) []T {
	n := len(series)
	if targetCount <= 0 || n <= targetCount {
		return series
	}
	switch targetCount {
	case 1:
		return []T{series[0]}
	case 2:
		return []T{series[0], series[n-1]}
	}

	out := make([]T, 0, targetCount)
	out = append(out, series[0])

	every := float64(n-2) / float64(targetCount-2)

	anchorX := 0.0
	anchorY, ok := value(series[0])
	if !ok {
		anchorY = firstValue(series, value)
	}

	for i := 0; i < targetCount-2; i++ {
		rangeStart := int(math.Floor(float64(i)*every)) + 1
		rangeEnd := int(math.Floor(float64(i+1)*every)) + 1
		nextStart := rangeEnd
		nextEnd := min(int(math.Floor(float64(i+2)*every))+1, n)

		cx, cy, ok := centroid(series, nextStart, nextEnd, value)
		if !ok {
			cx = float64(nextStart+nextEnd-1) / 2
			cy = anchorY
		}

		selected := rangeStart
		selectedY := anchorY
		maxArea := -1.0
		for j := rangeStart; j < rangeEnd; j++ {
			y, ok := value(series[j])
			if !ok {
				continue
			}
			area := math.Abs((anchorX-cx)*(y-anchorY)-(anchorX-float64(j))*(cy-anchorY)) / 2
			if area > maxArea {
				maxArea = area
				selected = j
				selectedY = y
			}
		}

		out = append(out, series[selected])
		anchorX = float64(selected)
		anchorY = selectedY
	}

	return append(out, series[n-1])
}

// DownsampleSeries applies Downsample to a TimeSeries
func DownsampleSeries(s TimeSeries, targetCount int) TimeSeries {
	if s.Len() <= targetCount {
		return s
	}
	reduced := Downsample(s.Samples(), targetCount, func(p Sample) (float64, bool) {
		if p.Value == nil {
			return 0, false
		}
		return *p.Value, true
	})
	return SeriesFromSamples(reduced)
}

// centroid averages index and value over the valid points in [start, end)
func centroid[T any](series []T, start, end int, value func(T) (float64, bool)) (x, y float64, ok bool) {
	var sumX, sumY float64
	count := 0
	for j := start; j < end; j++ {
		v, valid := value(series[j])
		if !valid {
			continue
		}
		sumX += float64(j)
		sumY += v
		count++
	}
	if count == 0 {
		return 0, 0, false
	}
	return sumX / float64(count), sumY / float64(count), true
}

func firstValue[T any](series []T, value func(T) (float64, bool)) float64 {
	for _, p := range series {
		if v, ok := value(p); ok {
			return v
		}
	}
	return 0
}
