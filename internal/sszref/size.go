package sszref

import (
	"reflect"
)

func fixedSizeOfValue(v reflect.Value, ctx tagContext) (int, bool) {
	return fixedSizeOfType(v.Type(), ctx)
}

// fixedSizeOfType returns the serialized size of t, or false when t is
// variable-size and travels behind an offset.
func fixedSizeOfType(t reflect.Type, ctx tagContext) (int, bool) {
	t = derefType(t)

	switch t.Kind() {
	case reflect.Bool, reflect.Uint8:
		return 1, true
	case reflect.Uint16:
		return 2, true
	case reflect.Uint32:
		return 4, true
	case reflect.Uint64:
		return 8, true
	case reflect.Array:
		if ctx.isBitvector {
			return (t.Len() + 7) / 8, true
		}
		elemSize, ok := fixedSizeOfType(t.Elem(), ctx.shift())
		if !ok {
			return 0, false
		}
		return elemSize * t.Len(), true
	case reflect.Slice:
		if ctx.isBitlist {
			return 0, false
		}
		size, hasSize := ctx.size()
		if !hasSize {
			return 0, false
		}
		elemSize, ok := fixedSizeOfType(t.Elem(), ctx.shift())
		if !ok {
			return 0, false
		}
		return elemSize * size, true
	case reflect.Struct:
		total := 0
		for _, f := range structFields(t) {
			size, ok := fixedSizeOfType(f.Type, parseTagContext(f.Tag))
			if !ok {
				return 0, false
			}
			total += size
		}
		return total, true
	default:
		return 0, false
	}
}

// structFields lists the exported fields of t in declaration order, with
// embedded structs flattened in place.
func structFields(t reflect.Type) []reflect.StructField {
	var out []reflect.StructField
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" || field.Name[0] == '_' {
			continue
		}
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			out = append(out, structFields(field.Type)...)
			continue
		}
		out = append(out, field)
	}
	return out
}
