package models

import (
	"encoding/json"
	"math"
	"strconv"
)

// Fixed2 is a float64 that encodes to JSON with exactly two decimals, as
// summaries and moving averages are reported (150 -> 150.00).
type Fixed2 float64

// Fixed4 is a float64 that encodes to JSON with exactly four decimals, as
// correlation coefficients are reported.
type Fixed4 float64

// MarshalJSON implements json.Marshaler
func (f Fixed2) MarshalJSON() ([]byte, error) {
	return appendFixed(nil, float64(f), 2), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (f *Fixed2) UnmarshalJSON(b []byte) error {
	v, err := decodeFixed(b)
	*f = Fixed2(v)
	return err
}

// MarshalJSON implements json.Marshaler
func (f Fixed4) MarshalJSON() ([]byte, error) {
	return appendFixed(nil, float64(f), 4), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (f *Fixed4) UnmarshalJSON(b []byte) error {
	v, err := decodeFixed(b)
	*f = Fixed4(v)
	return err
}

// appendFixed writes v with prec decimals. JSON has no NaN or infinities;
// those encode as null.
func appendFixed(b []byte, v float64, prec int) []byte {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return append(b, "null"...)
	}
	return strconv.AppendFloat(b, v, 'f', prec, 64)
}

func decodeFixed(b []byte) (float64, error) {
	if string(b) == "null" {
		return math.NaN(), nil
	}
	var v float64
	err := json.Unmarshal(b, &v)
	return v, err
}

// Fixed2Slice converts values for two-decimal encoding. A nil or empty input
// gives an empty, non-nil slice so it encodes as [].
func Fixed2Slice(values []float64) []Fixed2 {
	out := make([]Fixed2, len(values))
	for i, v := range values {
		out[i] = Fixed2(v)
	}
	return out
}
