package render

import (
	"fmt"

	"github.com/holiman/uint256"
)

// WideBytes parses a non-negative decimal integer and returns its width/8 byte
// little-endian representation. Values that need more than width bits fail.
func WideBytes(text string, width int) ([]byte, error) {
	if width != 128 && width != 256 {
		return nil, fmt.Errorf("render: no wide spelling for uint%d", width)
	}
	n, err := uint256.FromDecimal(text)
	if err != nil {
		return nil, fmt.Errorf("render: parse uint%d %q: %w", width, text, err)
	}
	if n.BitLen() > width {
		return nil, fmt.Errorf("render: %s overflows uint%d", text, width)
	}
	be := n.Bytes32()
	out := make([]byte, width/8)
	for i := range out {
		out[i] = be[len(be)-1-i]
	}
	return out, nil
}

// FromWideBytes reassembles the integer WideBytes decomposed.
func FromWideBytes(le []byte) *uint256.Int {
	be := make([]byte, len(le))
	for i, b := range le {
		be[len(le)-1-i] = b
	}
	return new(uint256.Int).SetBytes(be)
}
