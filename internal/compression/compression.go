// Package compression compresses queue payloads. Framed payloads carry a
// one-byte algorithm header so a consumer can decode them whatever its own
// setting.
package compression

import (
	"errors"
	"fmt"
)

// Algorithm defines compression types
type Algorithm uint8

const (
	None   Algorithm = 0
	Snappy Algorithm = 1
)

// String returns the configuration name of the algorithm
func (a Algorithm) String() string {
	switch a {
	case None:
		return "none"
	case Snappy:
		return "snappy"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(a))
	}
}

// ParseAlgorithm maps a configuration name to an algorithm. The empty
// string means none.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "", "none":
		return None, nil
	case "snappy":
		return Snappy, nil
	default:
		return None, fmt.Errorf("unsupported compression: %q", name)
	}
}

// Compressor interface for compression algorithms
type Compressor interface {
	// Compress compresses data
	Compress(data []byte) ([]byte, error)

	// Decompress decompresses data
	Decompress(data []byte) ([]byte, error)

	// Algorithm returns the compression algorithm type
	Algorithm() Algorithm
}

// GetCompressor returns a compressor for the given algorithm
func GetCompressor(algo Algorithm) (Compressor, error) {
	switch algo {
	case None:
		return &NoneCompressor{}, nil
	case Snappy:
		return NewSnappyCompressor(), nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %d", algo)
	}
}

// NoneCompressor is a no-op compressor
type NoneCompressor struct{}

func (n *NoneCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

func (n *NoneCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

func (n *NoneCompressor) Algorithm() Algorithm {
	return None
}

// ErrEmptyFrame is returned when decoding a zero-length payload
var ErrEmptyFrame = errors.New("empty payload")

// Encode compresses data with c and prepends the algorithm header.
func Encode(c Compressor, data []byte) ([]byte, error) {
	body, err := c.Compress(data)
	if err != nil {
		return nil, err
	}
	framed := make([]byte, 0, len(body)+1)
	framed = append(framed, byte(c.Algorithm()))
	return append(framed, body...), nil
}

// Decode reverses Encode. A payload starting with '{' or '[' is plain JSON
// from a publisher that does not frame, and is returned as is.
func Decode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFrame
	}
	if data[0] == '{' || data[0] == '[' {
		return data, nil
	}

	c, err := GetCompressor(Algorithm(data[0]))
	if err != nil {
		return nil, err
	}
	return c.Decompress(data[1:])
}
