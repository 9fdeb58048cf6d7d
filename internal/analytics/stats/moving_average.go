package stats

// MovingAverageSimple computes the trailing simple moving average with the
// given window, producing len(data)-window+1 values. A window larger than the
// input is clamped to len(data) and the clamped size is reported in the
// result. window <= 0 or empty data yields an empty series.
//
// The window sum is maintained incrementally, so the cost is O(n) for any
// window size.
func MovingAverageSimple(data []float64, window int) MovingAverage {
	if len(data) == 0 || window <= 0 {
		return MovingAverage{Window: Simple(window)}
	}
	if window > len(data) {
		window = len(data)
	}

	values := make([]float64, 0, len(data)-window+1)

	windowSum := 0.0
	for i := 0; i < window; i++ {
		windowSum += data[i]
	}
	values = append(values, windowSum/float64(window))

	for i := window; i < len(data); i++ {
		windowSum = windowSum - data[i-window] + data[i]
		values = append(values, windowSum/float64(window))
	}

	return MovingAverage{
		Values:  values,
		Current: values[len(values)-1],
		Window:  Simple(window),
	}
}

// ExponentialMovingAverage smooths data with factor alpha in (0, 1]. The
// series is seeded with data[0] and each later value is
// alpha*x + (1-alpha)*previous, giving one value per input element.
// An alpha outside (0, 1] or empty data yields an empty series.
func ExponentialMovingAverage(data []float64, alpha float64) MovingAverage {
	result := MovingAverage{Window: Exponential(alpha)}
	if len(data) == 0 || !(alpha > 0 && alpha <= 1) {
		return result
	}

	values := make([]float64, len(data))
	values[0] = data[0]
	for i := 1; i < len(data); i++ {
		values[i] = alpha*data[i] + (1-alpha)*values[i-1]
	}

	result.Values = values
	result.Current = values[len(values)-1]
	return result
}
