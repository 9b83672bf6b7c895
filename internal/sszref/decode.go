package sszref

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"reflect"

	ssz "github.com/ferranbt/fastssz"
)

// Unmarshal decodes canonical SSZ bytes into the value dst points to.
// Non-canonical input is rejected.
func Unmarshal(data []byte, dst interface{}) error {
	return UnmarshalTagged(data, dst, "")
}

// UnmarshalTagged decodes into dst as if it were a struct field carrying tag.
func UnmarshalTagged(data []byte, dst interface{}, tag reflect.StructTag) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return fmt.Errorf("sszref: decode target must be a non-nil pointer, got %T", dst)
	}
	return decodeValue(data, v.Elem(), parseTagContext(tag))
}

func decodeValue(buf []byte, v reflect.Value, ctx tagContext) error {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return decodeValue(buf, v.Elem(), ctx)
	}

	switch v.Kind() {
	case reflect.Bool:
		if len(buf) != 1 {
			return sizeErr("boolean", len(buf), 1)
		}
		switch buf[0] {
		case 0:
			v.SetBool(false)
		case 1:
			v.SetBool(true)
		default:
			return fmt.Errorf("sszref: invalid boolean byte 0x%02x", buf[0])
		}
		return nil
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		width := int(v.Type().Size())
		if len(buf) != width {
			return sizeErr(v.Type().String(), len(buf), width)
		}
		var raw [8]byte
		copy(raw[:], buf)
		v.SetUint(binary.LittleEndian.Uint64(raw[:]))
		return nil
	case reflect.Array:
		return decodeArray(buf, v, ctx)
	case reflect.Slice:
		return decodeSlice(buf, v, ctx)
	case reflect.Struct:
		return decodeStruct(buf, v)
	default:
		return fmt.Errorf("sszref: unsupported kind %s", v.Kind())
	}
}

func decodeArray(buf []byte, v reflect.Value, ctx tagContext) error {
	n := v.Len()
	if n == 0 {
		return fmt.Errorf("sszref: zero-length vector %s", v.Type())
	}
	if ctx.isBitvector {
		if v.Type().Elem().Kind() != reflect.Bool {
			return fmt.Errorf("sszref: bitvector must be [N]bool, got %s", v.Type())
		}
		want := (n + 7) / 8
		if len(buf) != want {
			return sizeErr("bitvector", len(buf), want)
		}
		if n%8 != 0 && buf[want-1]>>(n%8) != 0 {
			return fmt.Errorf("sszref: bitvector has bits set past length %d", n)
		}
		for i := 0; i < n; i++ {
			v.Index(i).SetBool(buf[i/8]&(1<<(i%8)) != 0)
		}
		return nil
	}

	items, err := splitItems(buf, v.Type().Elem(), ctx.shift(), n)
	if err != nil {
		return err
	}
	if len(items) != n {
		return fmt.Errorf("sszref: vector has %d elements, want %d: %w", len(items), n, ssz.ErrSize)
	}
	for i, item := range items {
		if err := decodeValue(item, v.Index(i), ctx.shift()); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	return nil
}

func decodeSlice(buf []byte, v reflect.Value, ctx tagContext) error {
	if ctx.isBitlist {
		return decodeBitlist(buf, v, ctx)
	}

	size, hasSize := ctx.size()
	max, hasMax := ctx.max()
	if hasSize && size == 0 {
		return fmt.Errorf("sszref: zero-length vector %s", v.Type())
	}

	expect := -1
	if hasSize {
		expect = size
	}
	items, err := splitItems(buf, v.Type().Elem(), ctx.shift(), expect)
	if err != nil {
		return err
	}
	switch {
	case hasSize && len(items) != size:
		return fmt.Errorf("sszref: vector has %d elements, want %d: %w", len(items), size, ssz.ErrSize)
	case !hasSize && hasMax && len(items) > max:
		return fmt.Errorf("sszref: list has %d elements, max %d: %w", len(items), max, ssz.ErrSize)
	}

	out := reflect.MakeSlice(v.Type(), len(items), len(items))
	for i, item := range items {
		if err := decodeValue(item, out.Index(i), ctx.shift()); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	v.Set(out)
	return nil
}

func decodeBitlist(buf []byte, v reflect.Value, ctx tagContext) error {
	if v.Type().Elem().Kind() != reflect.Bool {
		return fmt.Errorf("sszref: bitlist must be []bool, got %s", v.Type())
	}
	maxBits, ok := ctx.max()
	if !ok {
		return fmt.Errorf("sszref: bitlist %s has no ssz-max", v.Type())
	}
	if err := ssz.ValidateBitlist(buf, uint64(maxBits)); err != nil {
		return fmt.Errorf("sszref: bitlist: %w", err)
	}
	n := 8*(len(buf)-1) + bits.Len8(buf[len(buf)-1]) - 1
	out := reflect.MakeSlice(v.Type(), n, n)
	for i := 0; i < n; i++ {
		out.Index(i).SetBool(buf[i/8]&(1<<(i%8)) != 0)
	}
	v.Set(out)
	return nil
}

func decodeStruct(buf []byte, v reflect.Value) error {
	fields, err := collectFields(v)
	if err != nil {
		return err
	}

	fixedLen := 0
	for _, f := range fields {
		if size, ok := fixedSizeOfValue(f.value, parseTagContext(f.tag)); ok {
			fixedLen += size
		} else {
			fixedLen += 4
		}
	}
	if len(buf) < fixedLen {
		return sizeErr("container", len(buf), fixedLen)
	}

	parts := make([][]byte, len(fields))
	var variable []int
	var offsets []int
	pos := 0
	for i, f := range fields {
		if size, ok := fixedSizeOfValue(f.value, parseTagContext(f.tag)); ok {
			parts[i] = buf[pos : pos+size]
			pos += size
			continue
		}
		variable = append(variable, i)
		offsets = append(offsets, int(binary.LittleEndian.Uint32(buf[pos:pos+4])))
		pos += 4
	}

	if len(variable) == 0 {
		if len(buf) != fixedLen {
			return sizeErr("container", len(buf), fixedLen)
		}
	} else {
		if offsets[0] != fixedLen {
			return fmt.Errorf("sszref: first offset %d, want %d: %w", offsets[0], fixedLen, ssz.ErrOffset)
		}
		offsets = append(offsets, len(buf))
		for j, i := range variable {
			start, end := offsets[j], offsets[j+1]
			if start > end || end > len(buf) {
				return fmt.Errorf("sszref: field %s offsets %d..%d out of order: %w", fields[i].name, start, end, ssz.ErrOffset)
			}
			parts[i] = buf[start:end]
		}
	}

	for i, f := range fields {
		if err := decodeValue(parts[i], f.value, parseTagContext(f.tag)); err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
	}
	return nil
}

// splitItems cuts buf into element encodings. Fixed-size elements are
// sliced evenly; variable-size ones are located through the leading offset
// table. want is the expected element count, or -1 when any count is allowed.
func splitItems(buf []byte, elemType reflect.Type, elemCtx tagContext, want int) ([][]byte, error) {
	if elemSize, ok := fixedSizeOfType(elemType, elemCtx); ok {
		if elemSize == 0 {
			return nil, fmt.Errorf("sszref: zero-size element %s", elemType)
		}
		if len(buf)%elemSize != 0 {
			return nil, fmt.Errorf("sszref: %d bytes is not a multiple of element size %d: %w", len(buf), elemSize, ssz.ErrSize)
		}
		if want >= 0 && len(buf) != want*elemSize {
			return nil, sizeErr(fmt.Sprintf("Vector[%s, %d]", elemType, want), len(buf), want*elemSize)
		}
		items := make([][]byte, len(buf)/elemSize)
		for i := range items {
			items[i] = buf[i*elemSize : (i+1)*elemSize]
		}
		return items, nil
	}

	if len(buf) == 0 {
		return nil, nil
	}
	if len(buf) < 4 {
		return nil, fmt.Errorf("sszref: %d bytes cannot hold an offset: %w", len(buf), ssz.ErrOffset)
	}
	first := int(binary.LittleEndian.Uint32(buf[:4]))
	if first == 0 || first%4 != 0 || first > len(buf) {
		return nil, fmt.Errorf("sszref: invalid first offset %d: %w", first, ssz.ErrOffset)
	}
	n := first / 4
	offsets := make([]int, n+1)
	for i := 0; i < n; i++ {
		offsets[i] = int(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	offsets[n] = len(buf)

	items := make([][]byte, n)
	for i := 0; i < n; i++ {
		start, end := offsets[i], offsets[i+1]
		if start > end || end > len(buf) {
			return nil, fmt.Errorf("sszref: element %d offsets %d..%d out of order: %w", i, start, end, ssz.ErrOffset)
		}
		items[i] = buf[start:end]
	}
	return items, nil
}

func sizeErr(what string, got, want int) error {
	return fmt.Errorf("sszref: %s is %d bytes, want %d: %w", what, got, want, ssz.ErrSize)
}
