package compression

import (
	"fmt"

	"github.com/golang/snappy"
)

// MaxDecodedSize caps the size a snappy block may claim to decode to
const MaxDecodedSize = 64 << 20

// SnappyCompressor uses snappy block encoding
type SnappyCompressor struct{}

// NewSnappyCompressor returns a snappy compressor
func NewSnappyCompressor() *SnappyCompressor { return &SnappyCompressor{} }

// Compress leaves empty input empty
func (*SnappyCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	return snappy.Encode(nil, data), nil
}

// Decompress rejects blocks whose header claims more than MaxDecodedSize
func (*SnappyCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	n, err := snappy.DecodedLen(data)
	if err != nil {
		return nil, fmt.Errorf("snappy: %w", err)
	}
	if n > MaxDecodedSize {
		return nil, fmt.Errorf("snappy: decoded size %d exceeds %d", n, MaxDecodedSize)
	}
	out, err := snappy.Decode(make([]byte, n), data)
	if err != nil {
		return nil, fmt.Errorf("snappy: %w", err)
	}
	return out, nil
}

func (*SnappyCompressor) Algorithm() Algorithm { return Snappy }
