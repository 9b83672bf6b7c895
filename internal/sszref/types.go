// Package sszref is a reflection-driven reference implementation of SSZ
// encoding, decoding and hash tree roots.
//
// Go types map to SSZ types as follows:
//
//	bool, uint8..uint64     boolean, uintN
//	Uint128, Uint256        uint128, uint256 (little-endian bytes)
//	[N]T                    Vector[T, N]
//	[]T                     List[T, max] with `ssz-max`, Vector with `ssz-size`
//	[N]bool                 Bitvector[N] with `ssz:"bitvector"`
//	[]bool                  Bitlist[max] with `ssz:"bitlist" ssz-max:"max"`
//	struct                  Container, exported fields in order
//
// Values that are not struct fields take their tag from the *Tagged variants.
package sszref

import (
	"reflect"
)

// Uint128 is an SSZ uint128 stored little-endian.
type Uint128 [16]byte

// Uint256 is an SSZ uint256 stored little-endian.
type Uint256 [32]byte

var (
	uint128Type = reflect.TypeOf(Uint128{})
	uint256Type = reflect.TypeOf(Uint256{})
)

// isBasicType reports whether t is an SSZ basic type, which packs into chunks
// instead of contributing one root per element.
func isBasicType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return t == uint128Type || t == uint256Type
}

func derefType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func boolsOf(v reflect.Value) []bool {
	out := make([]bool, v.Len())
	for i := range out {
		out[i] = v.Index(i).Bool()
	}
	return out
}

func packBits(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b {
			out[i/8] |= 1 << (i % 8)
		}
	}
	return out
}
