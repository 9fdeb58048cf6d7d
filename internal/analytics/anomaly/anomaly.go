// Package anomaly flags unusual observations in a sequence of amounts.
// Detectors are registered by name and share the stats engine for their
// quartiles, means and deviations.
package anomaly

import (
	"fmt"
	"sort"
)

// AnomalyType represents the type of anomaly detected
type AnomalyType string

const (
	AnomalyTypeSpike   AnomalyType = "spike"   // Value above the expected range
	AnomalyTypeDrop    AnomalyType = "drop"    // Value below the expected range
	AnomalyTypeOutlier AnomalyType = "outlier" // Outside the range, side unknown
)

// Range represents expected value range
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DetectorConfig holds configuration for anomaly detection
type DetectorConfig struct {
	// Threshold is the IQR multiplier for "iqr" and the number of standard
	// deviations for "zscore" and "moving_avg".
	Threshold float64

	// WindowSize for the moving average detector
	WindowSize int

	// MinDataPoints minimum number of points required for detection
	MinDataPoints int
}

// DefaultConfig returns default detector configuration
func DefaultConfig() DetectorConfig {
	return DetectorConfig{
		Threshold:     2.0,
		WindowSize:    7,
		MinDataPoints: 10,
	}
}

// AnomalyDetector interface for all anomaly detection algorithms
type AnomalyDetector interface {
	// Name returns the algorithm name
	Name() string

	// Detect returns the anomalous points in input order.
	Detect(data []float64, config DetectorConfig) []AnomalyResult
}

// AnomalyResult contains detection result for a single point
type AnomalyResult struct {
	Index    int         `json:"index"` // Index in original data
	Value    float64     `json:"value"`
	Score    float64     `json:"score"` // Higher = more abnormal
	Type     AnomalyType `json:"type"`
	Expected *Range      `json:"expected,omitempty"`
}

var detectorRegistry = make(map[string]AnomalyDetector)

// RegisterDetector adds a detector to the registry
func RegisterDetector(name string, detector AnomalyDetector) {
	detectorRegistry[name] = detector
}

// GetDetector returns a detector by name
func GetDetector(name string) (AnomalyDetector, error) {
	if detector, ok := detectorRegistry[name]; ok {
		return detector, nil
	}
	return nil, fmt.Errorf("unknown anomaly detector: %s", name)
}

// ListDetectors returns the registered detector names in sorted order
func ListDetectors() []string {
	names := make([]string, 0, len(detectorRegistry))
	for name := range detectorRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DetectAnomalies is a helper function to detect anomalies using specified algorithm
func DetectAnomalies(algorithm string, data []float64, config DetectorConfig) ([]AnomalyResult, error) {
	detector, err := GetDetector(algorithm)
	if err != nil {
		return nil, err
	}
	return detector.Detect(data, config), nil
}

// classify returns spike or drop depending on which side of the range v lies.
func classify(v float64, r Range) AnomalyType {
	switch {
	case v > r.Max:
		return AnomalyTypeSpike
	case v < r.Min:
		return AnomalyTypeDrop
	default:
		return AnomalyTypeOutlier
	}
}
