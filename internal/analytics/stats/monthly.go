package stats

import "time"

// MonthlyTotals partitions a flat sequence of daily amounts into consecutive
// buckets whose sizes come from bucketSizes (typically days per month) and
// sums each bucket. When amounts run out the partially filled bucket is
// emitted and no further buckets follow. A non-positive bucket size yields a
// zero total for that bucket. Empty amounts or bucketSizes give an empty
// result.
func MonthlyTotals(amounts []float64, bucketSizes []int) []float64 {
	totals := []float64{}
	if len(amounts) == 0 || len(bucketSizes) == 0 {
		return totals
	}

	idx := 0
	for _, size := range bucketSizes {
		if idx >= len(amounts) {
			break
		}
		total := 0.0
		for d := 0; d < size && idx < len(amounts); d++ {
			total += amounts[idx]
			idx++
		}
		totals = append(totals, total)
	}
	return totals
}

// DaysInMonths returns the number of days in count consecutive calendar
// months starting at year/month.
func DaysInMonths(year int, month time.Month, count int) []int {
	if count <= 0 {
		return nil
	}

	days := make([]int, count)
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for i := range days {
		first := start.AddDate(0, i, 0)
		// Day 0 of the following month is the last day of this one.
		days[i] = time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	}
	return days
}
