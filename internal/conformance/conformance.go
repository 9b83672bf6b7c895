// Package conformance holds the assertions generated ssz_generic tests run
// against sszref.
package conformance

import (
	"encoding/hex"
	"fmt"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/golang/snappy"
	"github.com/stretchr/testify/require"

	"alma.local/sszgen/internal/sszref"
)

// ReadPayload reads a snappy block-compressed serialized.ssz_snappy file.
func ReadPayload(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("conformance: read payload: %w", err)
	}
	data, err := snappy.Decode(nil, raw)
	if err != nil {
		return nil, fmt.Errorf("conformance: decompress %s: %w", path, err)
	}
	return data, nil
}

// ParseRoot parses a 0x-prefixed 32-byte hash tree root.
func ParseRoot(s string) ([32]byte, error) {
	var root [32]byte
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return root, fmt.Errorf("conformance: parse root %q: %w", s, err)
	}
	if len(raw) != len(root) {
		return root, fmt.Errorf("conformance: root %q is %d bytes, want 32", s, len(raw))
	}
	copy(root[:], raw)
	return root, nil
}

// CheckValid asserts that value encodes to the payload at path, that the
// payload decodes back to value, and that value hashes to root.
func CheckValid[T any](t testing.TB, value T, tag string, path string, root string) {
	t.Helper()
	structTag := reflect.StructTag(tag)

	payload, err := ReadPayload(path)
	require.NoError(t, err)

	encoded, err := sszref.MarshalTagged(value, structTag)
	require.NoError(t, err, "encode")
	require.Equal(t, payload, encoded, "encoding differs from payload")

	var decoded T
	require.NoError(t, sszref.UnmarshalTagged(payload, &decoded, structTag), "decode")
	require.Equal(t, value, decoded, "decoded value differs")

	reencoded, err := sszref.MarshalTagged(decoded, structTag)
	require.NoError(t, err, "re-encode")
	require.Equal(t, payload, reencoded, "re-encoding differs from payload")

	want, err := ParseRoot(root)
	require.NoError(t, err)
	got, err := sszref.HashTreeRootTagged(value, structTag)
	require.NoError(t, err, "hash tree root")
	require.Equal(t, want, got, "hash tree root differs")
}

// CheckInvalid asserts that the payload at path does not decode as T.
func CheckInvalid[T any](t testing.TB, tag string, path string) {
	t.Helper()

	payload, err := ReadPayload(path)
	require.NoError(t, err)

	var decoded T
	err = sszref.UnmarshalTagged(payload, &decoded, reflect.StructTag(tag))
	require.Error(t, err, "decoded %x as %T", payload, decoded)
}
