// Package bits converts the byte-aligned encodings of SSZ bitvectors and
// bitlists to explicit bit sequences and back.
//
// Bits are numbered least-significant first: bit 0 of byte 0 is logical bit 0.
// A bitlist encoding appends one sentinel 1 bit after the data bits and pads
// with zeros to a byte boundary.
package bits

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoSentinel is returned when a bitlist encoding has no set bit.
	ErrNoSentinel = errors.New("bits: bitlist has no sentinel bit")
	// ErrBoundExceeded is returned when decoded data is longer than its bound.
	ErrBoundExceeded = errors.New("bits: bit count exceeds bound")
	// ErrShort is returned when a bitvector encoding has fewer bits than its bound.
	ErrShort = errors.New("bits: encoding shorter than bound")
)

// Bits is a decoded bit sequence with the bound declared by its schema.
type Bits struct {
	Bits  []bool
	Bound int
}

// Len returns the number of data bits.
func (b Bits) Len() int { return len(b.Bits) }

func (b Bits) String() string {
	var sb strings.Builder
	for _, bit := range b.Bits {
		if bit {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// ParseHex decodes a 0x-prefixed (or bare) hex byte string.
func ParseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("bits: decode hex: %w", err)
	}
	return raw, nil
}

// Expand returns every bit of raw, LSB first within each byte.
func Expand(raw []byte) []bool {
	out := make([]bool, 0, len(raw)*8)
	for _, b := range raw {
		for i := 0; i < 8; i++ {
			out = append(out, b&(1<<i) != 0)
		}
	}
	return out
}

// Pack is the inverse of Expand; the final byte is zero padded.
func Pack(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit {
			out[i/8] |= 1 << (i % 8)
		}
	}
	return out
}

// DecodeBitvector decodes a bitvector encoding of exactly bound bits. Bits past
// bound (the padding of the last byte) are dropped.
func DecodeBitvector(hexStr string, bound int) (Bits, error) {
	raw, err := ParseHex(hexStr)
	if err != nil {
		return Bits{}, err
	}
	all := Expand(raw)
	if len(all) < bound {
		return Bits{}, fmt.Errorf("%w: %d bits for bound %d", ErrShort, len(all), bound)
	}
	return Bits{Bits: all[:bound], Bound: bound}, nil
}

// DecodeBitlist decodes a bitlist encoding. Trailing zero bits are popped from
// the end, then the next bit must be the sentinel and is popped too; what is
// left is the data.
func DecodeBitlist(hexStr string, bound int) (Bits, error) {
	raw, err := ParseHex(hexStr)
	if err != nil {
		return Bits{}, err
	}
	all := Expand(raw)
	n := len(all)
	for n > 0 && !all[n-1] {
		n--
	}
	if n == 0 {
		return Bits{}, fmt.Errorf("%w: %d bytes of zeros", ErrNoSentinel, len(raw))
	}
	// all[n-1] is the sentinel.
	n--
	if n > bound {
		return Bits{}, fmt.Errorf("%w: %d data bits for bound %d (sentinel at bit %d)", ErrBoundExceeded, n, bound, n)
	}
	return Bits{Bits: all[:n], Bound: bound}, nil
}

// EncodeBitvector packs bits into ceil(bound/8) bytes.
func EncodeBitvector(b Bits) ([]byte, error) {
	if len(b.Bits) != b.Bound {
		return nil, fmt.Errorf("bits: bitvector has %d bits for bound %d", len(b.Bits), b.Bound)
	}
	return Pack(b.Bits), nil
}

// EncodeBitlist appends the sentinel and packs the result.
func EncodeBitlist(b Bits) ([]byte, error) {
	if len(b.Bits) > b.Bound {
		return nil, fmt.Errorf("%w: %d data bits for bound %d", ErrBoundExceeded, len(b.Bits), b.Bound)
	}
	withSentinel := make([]bool, len(b.Bits)+1)
	copy(withSentinel, b.Bits)
	withSentinel[len(b.Bits)] = true
	return Pack(withSentinel), nil
}
