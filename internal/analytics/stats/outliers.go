package stats

// DefaultOutlierThreshold is the conventional Tukey fence multiplier.
const DefaultOutlierThreshold = 1.5

// MinOutlierPoints is the smallest dataset for which quartile-based outlier
// detection is attempted.
const MinOutlierPoints = 4

// Fences returns the outlier bounds [Q1 - threshold*IQR, Q3 + threshold*IQR].
func Fences(data []float64, threshold float64) (lower, upper float64) {
	q1, q3, iqr := Quartiles(data)
	return q1 - threshold*iqr, q3 + threshold*iqr
}

// DetectOutliers returns the zero-based indices, in input order, of values
// strictly outside the IQR fences. Datasets smaller than MinOutlierPoints
// yield an empty result.
func DetectOutliers(data []float64, threshold float64) []int {
	outliers := []int{}
	if len(data) < MinOutlierPoints {
		return outliers
	}

	lower, upper := Fences(data, threshold)
	for i, v := range data {
		if v < lower || v > upper {
			outliers = append(outliers, i)
		}
	}
	return outliers
}
