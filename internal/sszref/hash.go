package sszref

import (
	"encoding/binary"
	"fmt"
	"reflect"

	"github.com/minio/sha256-simd"
)

const maxDepth = 64

var zeroHashes [maxDepth + 1][32]byte

func init() {
	for i := 1; i <= maxDepth; i++ {
		zeroHashes[i] = hashConcat(zeroHashes[i-1][:], zeroHashes[i-1][:])
	}
}

// HashTreeRoot computes the SSZ hash tree root of a value using reflection.
func HashTreeRoot(value interface{}) ([32]byte, error) {
	return HashTreeRootTagged(value, "")
}

// HashTreeRootTagged computes the root of a value as if it were a struct
// field carrying tag.
func HashTreeRootTagged(value interface{}, tag reflect.StructTag) ([32]byte, error) {
	if value == nil {
		return [32]byte{}, fmt.Errorf("sszref: nil input")
	}
	return hashValue(reflect.ValueOf(value), parseTagContext(tag))
}

func hashValue(v reflect.Value, ctx tagContext) ([32]byte, error) {
	if !v.IsValid() {
		return [32]byte{}, fmt.Errorf("sszref: invalid value")
	}

	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v = reflect.New(v.Type().Elem()).Elem()
			break
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Bool, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		enc, err := encodeValue(v, ctx)
		if err != nil {
			return [32]byte{}, err
		}
		var out [32]byte
		copy(out[:], enc)
		return out, nil
	case reflect.Array:
		return hashArray(v, ctx)
	case reflect.Slice:
		return hashSlice(v, ctx)
	case reflect.Struct:
		return hashStruct(v)
	default:
		return [32]byte{}, fmt.Errorf("sszref: unsupported kind %s", v.Kind())
	}
}

func hashStruct(v reflect.Value) ([32]byte, error) {
	fields, err := collectFields(v)
	if err != nil {
		return [32]byte{}, err
	}

	roots := make([][32]byte, 0, len(fields))
	for _, f := range fields {
		root, err := hashValue(f.value, parseTagContext(f.tag))
		if err != nil {
			return [32]byte{}, fmt.Errorf("%s: %w", f.name, err)
		}
		roots = append(roots, root)
	}
	return merkleize(roots, uint64(len(roots)))
}

func hashArray(v reflect.Value, ctx tagContext) ([32]byte, error) {
	if ctx.isBitvector {
		if v.Type().Elem().Kind() != reflect.Bool {
			return [32]byte{}, fmt.Errorf("sszref: bitvector must be [N]bool, got %s", v.Type())
		}
		return merkleize(pack(packBits(boolsOf(v))), bitChunkLimit(v.Len()))
	}
	// Uint128 and Uint256 are byte arrays too and land here as one packed chunk.
	return hashElems(v, ctx.shift(), uint64(v.Len()))
}

func hashSlice(v reflect.Value, ctx tagContext) ([32]byte, error) {
	if ctx.isBitlist {
		return hashBitlist(v, ctx)
	}

	length := v.Len()
	size, hasSize := ctx.size()
	max, hasMax := ctx.max()

	if hasSize {
		if length != size {
			return [32]byte{}, fmt.Errorf("sszref: vector length mismatch %d != %d", length, size)
		}
		return hashElems(v, ctx.shift(), uint64(size))
	}

	limit := length
	if hasMax {
		if length > max {
			return [32]byte{}, fmt.Errorf("sszref: list length %d exceeds max %d", length, max)
		}
		limit = max
	}
	root, err := hashElems(v, ctx.shift(), uint64(limit))
	if err != nil {
		return [32]byte{}, err
	}
	return mixInLength(root, uint64(length)), nil
}

// hashElems merkleizes a sequence whose capacity is limit elements. Basic
// elements pack into chunks, composite ones contribute one root each.
func hashElems(v reflect.Value, elemCtx tagContext, limit uint64) ([32]byte, error) {
	elemType := derefType(v.Type().Elem())
	length := v.Len()

	if isBasicType(elemType) {
		elemSize, _ := fixedSizeOfType(elemType, elemCtx)
		data := make([]byte, 0, elemSize*length)
		for i := 0; i < length; i++ {
			enc, err := encodeValue(v.Index(i), elemCtx)
			if err != nil {
				return [32]byte{}, err
			}
			data = append(data, enc...)
		}
		return merkleize(pack(data), chunkLimit(limit, uint64(elemSize)))
	}

	roots := make([][32]byte, 0, length)
	for i := 0; i < length; i++ {
		root, err := hashValue(v.Index(i), elemCtx)
		if err != nil {
			return [32]byte{}, err
		}
		roots = append(roots, root)
	}
	return merkleize(roots, limit)
}

func hashBitlist(v reflect.Value, ctx tagContext) ([32]byte, error) {
	if v.Type().Elem().Kind() != reflect.Bool {
		return [32]byte{}, fmt.Errorf("sszref: bitlist must be []bool, got %s", v.Type())
	}
	bits := boolsOf(v)
	maxBits, ok := ctx.max()
	if !ok {
		maxBits = len(bits)
	}
	if len(bits) > maxBits {
		return [32]byte{}, fmt.Errorf("sszref: bitlist bits %d exceeds max %d", len(bits), maxBits)
	}
	root, err := merkleize(pack(packBits(bits)), bitChunkLimit(maxBits))
	if err != nil {
		return [32]byte{}, err
	}
	return mixInLength(root, uint64(len(bits))), nil
}

func mixInLength(root [32]byte, length uint64) [32]byte {
	var lenBytes [32]byte
	binary.LittleEndian.PutUint64(lenBytes[:8], length)
	return hashConcat(root[:], lenBytes[:])
}

func hashConcat(left, right []byte) [32]byte {
	buf := make([]byte, 0, len(left)+len(right))
	buf = append(buf, left...)
	buf = append(buf, right...)
	return sha256.Sum256(buf)
}

// pack splits data into zero-padded 32-byte chunks.
func pack(data []byte) [][32]byte {
	chunks := make([][32]byte, (len(data)+31)/32)
	for i := range chunks {
		copy(chunks[i][:], data[i*32:])
	}
	return chunks
}

// merkleize builds the root of chunks padded with zero chunks up to the next
// power of two of limit. Padding subtrees come from zeroHashes.
func merkleize(chunks [][32]byte, limit uint64) ([32]byte, error) {
	if uint64(len(chunks)) > limit {
		return [32]byte{}, fmt.Errorf("sszref: chunk count %d exceeds limit %d", len(chunks), limit)
	}
	depth := 0
	for uint64(1)<<depth < limit {
		depth++
	}
	if len(chunks) == 0 {
		return zeroHashes[depth], nil
	}

	layer := append([][32]byte(nil), chunks...)
	for d := 0; d < depth; d++ {
		if len(layer)%2 == 1 {
			layer = append(layer, zeroHashes[d])
		}
		next := make([][32]byte, len(layer)/2)
		for i := range next {
			next[i] = hashConcat(layer[2*i][:], layer[2*i+1][:])
		}
		layer = next
	}
	return layer[0], nil
}

func chunkLimit(items, elemSize uint64) uint64 {
	return (items*elemSize + 31) / 32
}

func bitChunkLimit(bits int) uint64 {
	return uint64((bits + 255) / 256)
}
