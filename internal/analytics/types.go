// Package analytics holds the dated series type the forecasters work on.
package analytics

import "time"

// TimeSeriesPoint represents a single observation with its timestamp.
type TimeSeriesPoint struct {
	Time  time.Time
	Value float64
}

// TimeSeriesData represents an ordered collection of observations
type TimeSeriesData []TimeSeriesPoint

// FromValues builds a series from plain values, stamping them start,
// start+interval, start+2*interval and so on.
func FromValues(values []float64, start time.Time, interval time.Duration) TimeSeriesData {
	ts := make(TimeSeriesData, len(values))
	for i, v := range values {
		ts[i] = TimeSeriesPoint{
			Time:  start.Add(interval * time.Duration(i)),
			Value: v,
		}
	}
	return ts
}

// Values extracts just the values from the time series
func (ts TimeSeriesData) Values() []float64 {
	values := make([]float64, len(ts))
	for i, p := range ts {
		values[i] = p.Value
	}
	return values
}

// Interval returns the spacing between the first two points, or fallback
// when the series is too short to tell.
func (ts TimeSeriesData) Interval(fallback time.Duration) time.Duration {
	if len(ts) < 2 {
		return fallback
	}
	if d := ts[1].Time.Sub(ts[0].Time); d > 0 {
		return d
	}
	return fallback
}
