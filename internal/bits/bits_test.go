package bits

import (
	"encoding/hex"
	"testing"

	bitfield "github.com/OffchainLabs/go-bitfield"
	ssz "github.com/ferranbt/fastssz"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBitlistSentinel(t *testing.T) {
	// 0x07 = 1,1,1,0,0,0,0,0: zeros popped, sentinel popped, data 1,1.
	got, err := DecodeBitlist("0x07", 6)
	require.NoError(t, err)
	if diff := cmp.Diff([]bool{true, true}, got.Bits); diff != "" {
		t.Fatalf("bits mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 6, got.Bound)
}

func TestDecodeBitlist(t *testing.T) {
	tests := []struct {
		name  string
		hex   string
		bound int
		want  string
	}{
		{"empty", "0x01", 8, ""},
		{"all zero data", "0x10", 8, "0000"},
		{"eight bits", "0xff01", 8, "11111111"},
		{"cross byte", "0x0102", 16, "100000000"},
		{"no prefix", "05", 4, "10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeBitlist(tt.hex, tt.bound)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestDecodeBitlistMalformed(t *testing.T) {
	_, err := DecodeBitlist("0x00", 8)
	assert.ErrorIs(t, err, ErrNoSentinel)

	_, err = DecodeBitlist("0x", 8)
	assert.ErrorIs(t, err, ErrNoSentinel)

	// 5 data bits with bound 4.
	_, err = DecodeBitlist("0x3f", 4)
	assert.ErrorIs(t, err, ErrBoundExceeded)

	_, err = DecodeBitlist("0xzz", 4)
	assert.Error(t, err)
}

func TestDecodeBitvector(t *testing.T) {
	got, err := DecodeBitvector("0x1f", 5)
	require.NoError(t, err)
	assert.Equal(t, "11111", got.String())

	got, err = DecodeBitvector("0x0201", 9)
	require.NoError(t, err)
	assert.Equal(t, "010000001", got.String())

	_, err = DecodeBitvector("0x01", 9)
	assert.ErrorIs(t, err, ErrShort)
}

func TestBitvectorRoundTrip(t *testing.T) {
	for _, bound := range []int{1, 2, 3, 4, 5, 8, 16, 31, 512, 513} {
		raw := make([]byte, (bound+7)/8)
		for i := range raw {
			raw[i] = byte(i*37 + 11)
		}
		// Clear padding so the input is a canonical encoding.
		if rem := bound % 8; rem != 0 {
			raw[len(raw)-1] &= byte(1<<rem) - 1
		}
		decoded, err := DecodeBitvector(hex.EncodeToString(raw), bound)
		require.NoError(t, err)
		require.Equal(t, bound, decoded.Len())

		again, err := EncodeBitvector(decoded)
		require.NoError(t, err)
		assert.Equal(t, raw, again, "bound %d", bound)
	}
}

func TestBitlistAgainstBitfield(t *testing.T) {
	patterns := [][]bool{
		{},
		{false},
		{true, true},
		{false, false, false, false, false, false, false, false},
		{true, false, true, false, true, false, true, false, true},
	}
	for _, p := range patterns {
		bl := bitfield.NewBitlist(uint64(len(p)))
		for i, bit := range p {
			bl.SetBitAt(uint64(i), bit)
		}
		enc, err := EncodeBitlist(Bits{Bits: p, Bound: 16})
		require.NoError(t, err)
		assert.Equal(t, []byte(bl), enc)

		dec, err := DecodeBitlist(hex.EncodeToString(bl), 16)
		require.NoError(t, err)
		assert.Equal(t, int(bl.Len()), dec.Len())
	}
}

func TestEncodeRejects(t *testing.T) {
	_, err := EncodeBitlist(Bits{Bits: make([]bool, 3), Bound: 2})
	assert.ErrorIs(t, err, ErrBoundExceeded)

	_, err = EncodeBitvector(Bits{Bits: make([]bool, 3), Bound: 2})
	assert.Error(t, err)
}

func FuzzBitlistRoundTrip(f *testing.F) {
	f.Add([]byte{0x01})
	f.Add([]byte{0x07})
	f.Add([]byte{0xff, 0x01})
	f.Add([]byte{0x00, 0x80})
	f.Fuzz(func(t *testing.T, data []byte) {
		bound := uint64(len(data) * 8)
		// Only canonical encodings round-trip: a trailing zero byte is dropped on re-encode.
		if ssz.ValidateBitlist(data, bound) != nil {
			return
		}
		dec, err := DecodeBitlist(hex.EncodeToString(data), int(bound))
		if err != nil {
			t.Fatalf("decode %x: %v", data, err)
		}
		enc, err := EncodeBitlist(dec)
		if err != nil {
			t.Fatalf("encode %x: %v", data, err)
		}
		if diff := cmp.Diff(data, enc); diff != "" {
			t.Fatalf("round trip mismatch (-in +out):\n%s", diff)
		}
	})
}
