package anomaly

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZScoreDetector_DetectSpike(t *testing.T) {
	detector := &ZScoreDetector{}
	config := DefaultConfig()

	values := []float64{10, 10, 10, 10, 10, 10, 100, 10, 10, 10}
	results := detector.Detect(values, config)

	require.Len(t, results, 1)
	assert.Equal(t, 6, results[0].Index)
	assert.Equal(t, 100.0, results[0].Value)
	assert.Equal(t, AnomalyTypeSpike, results[0].Type)
	assert.Greater(t, results[0].Score, 2.0)
}

func TestZScoreDetector_DetectDrop(t *testing.T) {
	detector := &ZScoreDetector{}
	config := DefaultConfig()

	values := []float64{50, 50, 50, 50, 50, 50, 0, 50, 50, 50}
	results := detector.Detect(values, config)

	require.Len(t, results, 1)
	assert.Equal(t, 6, results[0].Index)
	assert.Equal(t, AnomalyTypeDrop, results[0].Type)
}

func TestZScoreDetector_NoAnomalies(t *testing.T) {
	detector := &ZScoreDetector{}

	values := []float64{10, 11, 10, 12, 11, 10, 11, 11, 10, 12}
	assert.Empty(t, detector.Detect(values, DefaultConfig()))
}

func TestZScoreDetector_ConstantData(t *testing.T) {
	detector := &ZScoreDetector{}

	values := []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 10}
	assert.Empty(t, detector.Detect(values, DefaultConfig()))
}

func TestZScoreDetector_InsufficientData(t *testing.T) {
	detector := &ZScoreDetector{}

	values := []float64{10, 50, 10}
	assert.Empty(t, detector.Detect(values, DefaultConfig()))
}

func TestCalculateZScore(t *testing.T) {
	assert.Equal(t, 2.0, CalculateZScore(14, 10, 2))
	assert.Equal(t, -1.5, CalculateZScore(7, 10, 2))
	assert.Zero(t, CalculateZScore(7, 10, 0))
}

func TestIQRDetector_DetectOutliers(t *testing.T) {
	detector := &IQRDetector{}
	config := DetectorConfig{Threshold: 1.5}

	values := []float64{10, 20, 30, 40, 50, 200}
	results := detector.Detect(values, config)

	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, 5, r.Index)
	assert.Equal(t, AnomalyTypeSpike, r.Type)
	assert.InDelta(t, 4.6, r.Score, 1e-9)
	require.NotNil(t, r.Expected)
	assert.InDelta(t, -15.0, r.Expected.Min, 1e-9)
	assert.InDelta(t, 85.0, r.Expected.Max, 1e-9)
}

func TestIQRDetector_DefaultMultiplier(t *testing.T) {
	detector := &IQRDetector{}

	values := []float64{10, 20, 30, 40, 50, 200}
	results := detector.Detect(values, DetectorConfig{})

	require.Len(t, results, 1)
	assert.Equal(t, 5, results[0].Index)
}

func TestIQRDetector_Drop(t *testing.T) {
	detector := &IQRDetector{}

	values := []float64{50, 51, 49, 50, 52, 48, -100}
	results := detector.Detect(values, DetectorConfig{Threshold: 1.5})

	require.Len(t, results, 1)
	assert.Equal(t, 6, results[0].Index)
	assert.Equal(t, AnomalyTypeDrop, results[0].Type)
}

func TestIQRDetector_TooFewPoints(t *testing.T) {
	detector := &IQRDetector{}
	assert.Empty(t, detector.Detect([]float64{1, 1000, 1}, DetectorConfig{Threshold: 1.5}))
}

func TestMovingAverageDetector_DetectSuddenChange(t *testing.T) {
	detector := &MovingAverageDetector{}
	config := DetectorConfig{Threshold: 2.0, WindowSize: 4, MinDataPoints: 5}

	values := []float64{10, 10, 11, 10, 10, 11, 10, 10, 50, 10, 11, 10}
	results := detector.Detect(values, config)

	require.Len(t, results, 1)
	assert.Equal(t, 8, results[0].Index)
	assert.Equal(t, AnomalyTypeSpike, results[0].Type)
}

func TestMovingAverageDetector_FlatHistory(t *testing.T) {
	detector := &MovingAverageDetector{}
	config := DetectorConfig{Threshold: 2.0, WindowSize: 3, MinDataPoints: 5}

	values := []float64{5, 5, 5, 5, 5, 4}
	results := detector.Detect(values, config)

	require.Len(t, results, 1)
	assert.Equal(t, 5, results[0].Index)
	assert.Equal(t, AnomalyTypeDrop, results[0].Type)
}

func TestAnalyzeData_TrendingData(t *testing.T) {
	values := make([]float64, 20)
	for i := range values {
		values[i] = float64(i*10 + 100)
	}

	chars := AnalyzeData(values)
	assert.True(t, chars.HasTrend)
	assert.InDelta(t, 1.0, chars.TrendStrength, 1e-9)
	assert.Equal(t, "moving_avg", chars.SelectedAlgorithm)
}

func TestAnalyzeData_DataWithOutliers(t *testing.T) {
	values := []float64{50, 51, 49, 50, 52, 48, 50, 51, 49, 50, 500, 50, 49, 51, 50, -400, 50, 51, 49, 50}

	chars := AnalyzeData(values)
	assert.InDelta(t, 10.0, chars.OutlierPercentage, 1e-9)
	assert.Equal(t, "iqr", chars.SelectedAlgorithm)
}

func TestAnalyzeData_StableData(t *testing.T) {
	values := []float64{10, 11, 10, 12, 11, 10, 11, 11, 10, 12}

	chars := AnalyzeData(values)
	assert.False(t, chars.HasTrend)
	assert.Zero(t, chars.OutlierPercentage)
	assert.Equal(t, "zscore", chars.SelectedAlgorithm)
	assert.False(t, math.IsNaN(chars.Variability))
}

func TestAutoDetector_FindsOutliers(t *testing.T) {
	values := []float64{50, 51, 49, 50, 52, 48, 50, 51, 49, 50, 500, 50, 49, 51, 50, -400, 50, 51, 49, 50}

	results, err := DetectAnomalies("auto", values, DefaultConfig())
	require.NoError(t, err)

	indices := make([]int, len(results))
	for i, r := range results {
		indices[i] = r.Index
	}
	assert.Equal(t, []int{10, 15}, indices)
}

func TestDetectorRegistry(t *testing.T) {
	assert.Equal(t, []string{"auto", "iqr", "moving_avg", "zscore"}, ListDetectors())

	for _, name := range ListDetectors() {
		detector, err := GetDetector(name)
		require.NoError(t, err)
		assert.Equal(t, name, detector.Name())
	}
}

func TestGetDetector_Unknown(t *testing.T) {
	_, err := GetDetector("unknown")
	assert.Error(t, err)

	_, err = DetectAnomalies("unknown", []float64{1, 2, 3}, DefaultConfig())
	assert.Error(t, err)
}

func TestEmptyData(t *testing.T) {
	for _, name := range ListDetectors() {
		results, err := DetectAnomalies(name, nil, DefaultConfig())
		require.NoError(t, err)
		assert.Empty(t, results, name)
	}
}
