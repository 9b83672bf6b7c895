package sszref

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"strings"
)

type fieldRef struct {
	value reflect.Value
	tag   reflect.StructTag
	name  string
}

// Marshal encodes a value into canonical SSZ bytes using reflection.
func Marshal(value interface{}) ([]byte, error) {
	return MarshalTagged(value, "")
}

// MarshalTagged encodes a value as if it were a struct field carrying tag.
func MarshalTagged(value interface{}, tag reflect.StructTag) ([]byte, error) {
	if value == nil {
		return nil, fmt.Errorf("sszref: nil input")
	}
	return encodeValue(reflect.ValueOf(value), parseTagContext(tag))
}

func encodeValue(v reflect.Value, ctx tagContext) ([]byte, error) {
	if !v.IsValid() {
		return nil, fmt.Errorf("sszref: invalid value")
	}

	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v = reflect.New(v.Type().Elem()).Elem()
			break
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Bool:
		return encodeBool(v.Bool()), nil
	case reflect.Uint8:
		return []byte{byte(v.Uint())}, nil
	case reflect.Uint16:
		return binary.LittleEndian.AppendUint16(nil, uint16(v.Uint())), nil
	case reflect.Uint32:
		return binary.LittleEndian.AppendUint32(nil, uint32(v.Uint())), nil
	case reflect.Uint64:
		return binary.LittleEndian.AppendUint64(nil, v.Uint()), nil
	case reflect.Array:
		return encodeArray(v, ctx)
	case reflect.Slice:
		return encodeSlice(v, ctx)
	case reflect.Struct:
		return encodeStruct(v)
	default:
		return nil, fmt.Errorf("sszref: unsupported kind %s", v.Kind())
	}
}

func encodeStruct(v reflect.Value) ([]byte, error) {
	fields, err := collectFields(v)
	if err != nil {
		return nil, err
	}

	fixedLen := 0
	for _, f := range fields {
		if size, ok := fixedSizeOfValue(f.value, parseTagContext(f.tag)); ok {
			fixedLen += size
		} else {
			fixedLen += 4
		}
	}

	fixed := make([]byte, 0, fixedLen)
	var variable [][]byte
	offset := fixedLen

	for _, f := range fields {
		ctx := parseTagContext(f.tag)
		enc, err := encodeValue(f.value, ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
		if _, ok := fixedSizeOfValue(f.value, ctx); ok {
			fixed = append(fixed, enc...)
			continue
		}
		fixed = binary.LittleEndian.AppendUint32(fixed, uint32(offset))
		variable = append(variable, enc)
		offset += len(enc)
	}

	out := make([]byte, 0, offset)
	out = append(out, fixed...)
	for _, part := range variable {
		out = append(out, part...)
	}
	return out, nil
}

func encodeArray(v reflect.Value, ctx tagContext) ([]byte, error) {
	elemType := v.Type().Elem()
	if ctx.isBitvector {
		if elemType.Kind() != reflect.Bool {
			return nil, fmt.Errorf("sszref: bitvector must be [N]bool, got %s", v.Type())
		}
		return packBits(boolsOf(v)), nil
	}
	if elemType.Kind() == reflect.Uint8 {
		buf := make([]byte, v.Len())
		for i := 0; i < v.Len(); i++ {
			buf[i] = byte(v.Index(i).Uint())
		}
		return buf, nil
	}
	return encodeElems(v, ctx.shift())
}

func encodeSlice(v reflect.Value, ctx tagContext) ([]byte, error) {
	if ctx.isBitlist {
		return encodeBitlist(v, ctx)
	}

	size, hasSize := ctx.size()
	max, hasMax := ctx.max()

	length := v.Len()
	if hasSize && length != size {
		return nil, fmt.Errorf("sszref: vector length mismatch %d != %d", length, size)
	}
	if !hasSize && hasMax && length > max {
		return nil, fmt.Errorf("sszref: list length %d exceeds max %d", length, max)
	}
	return encodeElems(v, ctx.shift())
}

// encodeElems concatenates fixed-size elements, or writes an offset table
// followed by the element data for variable-size ones.
func encodeElems(v reflect.Value, elemCtx tagContext) ([]byte, error) {
	length := v.Len()
	if elemFixedSize, ok := fixedSizeOfType(v.Type().Elem(), elemCtx); ok {
		out := make([]byte, 0, length*elemFixedSize)
		for i := 0; i < length; i++ {
			enc, err := encodeValue(v.Index(i), elemCtx)
			if err != nil {
				return nil, err
			}
			out = append(out, enc...)
		}
		return out, nil
	}

	offset := 4 * length
	fixed := make([]byte, 0, offset)
	variable := make([][]byte, 0, length)
	for i := 0; i < length; i++ {
		fixed = binary.LittleEndian.AppendUint32(fixed, uint32(offset))
		enc, err := encodeValue(v.Index(i), elemCtx)
		if err != nil {
			return nil, err
		}
		variable = append(variable, enc)
		offset += len(enc)
	}
	out := make([]byte, 0, offset)
	out = append(out, fixed...)
	for _, part := range variable {
		out = append(out, part...)
	}
	return out, nil
}

func encodeBitlist(v reflect.Value, ctx tagContext) ([]byte, error) {
	if v.Type().Elem().Kind() != reflect.Bool {
		return nil, fmt.Errorf("sszref: bitlist must be []bool, got %s", v.Type())
	}
	bits := boolsOf(v)
	if maxBits, ok := ctx.max(); ok && len(bits) > maxBits {
		return nil, fmt.Errorf("sszref: bitlist bits %d exceeds max %d", len(bits), maxBits)
	}
	return packBits(append(bits, true)), nil
}

func collectFields(v reflect.Value) ([]fieldRef, error) {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v = reflect.New(v.Type().Elem()).Elem()
		} else {
			v = v.Elem()
		}
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("sszref: expected struct, got %s", v.Kind())
	}

	var out []fieldRef
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" || strings.HasPrefix(field.Name, "_") {
			continue
		}
		fv := v.Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			nested, err := collectFields(fv)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
			continue
		}
		out = append(out, fieldRef{
			value: fv,
			tag:   field.Tag,
			name:  field.Name,
		})
	}
	return out, nil
}

func encodeBool(val bool) []byte {
	if val {
		return []byte{1}
	}
	return []byte{0}
}
