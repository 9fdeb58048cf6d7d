package models

import (
	"github.com/soltixdb/statcalc/internal/analytics/stats"
	"github.com/soltixdb/statcalc/internal/analytics/trend"
)

// StatisticsView is the wire form of stats.Summary
type StatisticsView struct {
	Sum      Fixed2 `json:"sum"`
	Mean     Fixed2 `json:"mean"`
	Median   Fixed2 `json:"median"`
	Mode     Fixed2 `json:"mode"`
	Variance Fixed2 `json:"variance"`
	StdDev   Fixed2 `json:"stddev"`
	Min      Fixed2 `json:"min"`
	Max      Fixed2 `json:"max"`
	Range    Fixed2 `json:"range"`
	Q1       Fixed2 `json:"q1"`
	Q3       Fixed2 `json:"q3"`
	IQR      Fixed2 `json:"iqr"`
	Count    int    `json:"count"`
}

// NewStatisticsView converts a summary
func NewStatisticsView(s stats.Summary) StatisticsView {
	return StatisticsView{
		Sum:      Fixed2(s.Sum),
		Mean:     Fixed2(s.Mean),
		Median:   Fixed2(s.Median),
		Mode:     Fixed2(s.Mode),
		Variance: Fixed2(s.Variance),
		StdDev:   Fixed2(s.StdDev),
		Min:      Fixed2(s.Min),
		Max:      Fixed2(s.Max),
		Range:    Fixed2(s.Range),
		Q1:       Fixed2(s.Q1),
		Q3:       Fixed2(s.Q3),
		IQR:      Fixed2(s.IQR),
		Count:    s.Count,
	}
}

// ExponentialWindowSize is the window_size reported for exponential
// moving averages, which have no window.
const ExponentialWindowSize = -1

// MovingAverageView is the wire form of stats.MovingAverage. Consumers tell
// the modes apart by window_size: positive for simple, -1 for exponential.
type MovingAverageView struct {
	WindowSize     int      `json:"window_size"`
	CurrentAverage Fixed2   `json:"current_average"`
	Values         []Fixed2 `json:"values"`
}

// NewMovingAverageView converts a moving average
func NewMovingAverageView(m stats.MovingAverage) MovingAverageView {
	windowSize := m.Window.Size
	if m.Window.IsExponential() {
		windowSize = ExponentialWindowSize
	}
	return MovingAverageView{
		WindowSize:     windowSize,
		CurrentAverage: Fixed2(m.Current),
		Values:         Fixed2Slice(m.Values),
	}
}

// CorrelationView is the wire form of stats.Correlation
type CorrelationView struct {
	PearsonCoefficient Fixed4 `json:"pearson_coefficient"`
	RSquared           Fixed4 `json:"r_squared"`
	Strength           string `json:"strength"`
	Direction          string `json:"direction"`
}

// NewCorrelationView converts a correlation
func NewCorrelationView(c stats.Correlation) CorrelationView {
	return CorrelationView{
		PearsonCoefficient: Fixed4(c.Pearson),
		RSquared:           Fixed4(c.RSquared),
		Strength:           c.Strength,
		Direction:          c.Direction,
	}
}

// TrendView is the wire form of trend.Result
type TrendView struct {
	Trend            trend.Direction `json:"trend"`
	Message          string          `json:"message,omitempty"`
	ChangePercentage Fixed2          `json:"change_percentage"`
	CurrentAverage   Fixed2          `json:"current_daily_average"`
	PreviousAverage  Fixed2          `json:"previous_daily_average"`
	Recent           []Fixed2        `json:"recent,omitempty"`
}

// NewTrendView converts a trend result
func NewTrendView(r trend.Result) TrendView {
	return TrendView{
		Trend:            r.Trend,
		Message:          r.Message,
		ChangePercentage: Fixed2(r.ChangePercentage),
		CurrentAverage:   Fixed2(r.CurrentAverage),
		PreviousAverage:  Fixed2(r.PreviousAverage),
		Recent:           Fixed2Slice(r.Recent),
	}
}
