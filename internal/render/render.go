// Package render spells corpus value trees as Go literals of the type a schema
// descriptor resolves to. Literals are dst expressions; printing them is left
// to the caller.
package render

import (
	"fmt"
	"go/token"
	"strconv"
	"strings"

	"github.com/dave/dst"

	"alma.local/sszgen/internal/bits"
	"alma.local/sszgen/internal/schema"
	"alma.local/sszgen/internal/value"
)

// Render returns a literal of type TypeExpr(d) holding v.
func Render(v value.Value, d schema.Descriptor) (dst.Expr, error) {
	return renderAt(v, d, "")
}

func renderAt(v value.Value, d schema.Descriptor, path string) (dst.Expr, error) {
	switch d.Kind {
	case schema.KindBoolean:
		return renderBool(v, path)
	case schema.KindUInt:
		return renderUint(v, d, path)
	case schema.KindVector, schema.KindList:
		return renderSequence(v, d, path)
	case schema.KindContainer:
		return renderContainer(v, d, path)
	case schema.KindBitvector, schema.KindBitlist:
		return renderBits(v, d, path)
	}
	return nil, &schema.Error{Kind: schema.KindUnsupportedSchema, Field: path, Detail: "no renderer for " + d.String()}
}

func mismatch(path, format string, args ...any) error {
	return &schema.Error{Kind: schema.KindStructuralMismatch, Field: path, Detail: fmt.Sprintf(format, args...)}
}

func scalar(v value.Value, path, want string) (value.Scalar, error) {
	s, ok := v.(value.Scalar)
	if !ok {
		return value.Scalar{}, mismatch(path, "want %s, got %s", want, v.Describe())
	}
	return s, nil
}

func renderBool(v value.Value, path string) (dst.Expr, error) {
	s, err := scalar(v, path, "boolean")
	if err != nil {
		return nil, err
	}
	if s.Tag != value.TagBool {
		return nil, mismatch(path, "want boolean, got %s", s.Describe())
	}
	if strings.EqualFold(s.Text, "true") {
		return dst.NewIdent("true"), nil
	}
	return dst.NewIdent("false"), nil
}

func renderUint(v value.Value, d schema.Descriptor, path string) (dst.Expr, error) {
	s, err := scalar(v, path, d.String())
	if err != nil {
		return nil, err
	}
	if s.Tag != value.TagInt && s.Tag != value.TagStr {
		return nil, mismatch(path, "want %s, got %s", d, s.Describe())
	}
	if d.Wide() {
		le, err := WideBytes(s.Text, d.Width)
		if err != nil {
			return nil, &schema.Error{Kind: schema.KindStructuralMismatch, Field: path, Err: err}
		}
		return &dst.CompositeLit{Type: TypeExpr(d), Elts: byteLits(le)}, nil
	}
	n, err := strconv.ParseUint(s.Text, 0, d.Width)
	if err != nil {
		return nil, &schema.Error{Kind: schema.KindStructuralMismatch, Field: path, Detail: "uint" + strconv.Itoa(d.Width), Err: err}
	}
	return &dst.BasicLit{Kind: token.INT, Value: strconv.FormatUint(n, 10)}, nil
}

func renderSequence(v value.Value, d schema.Descriptor, path string) (dst.Expr, error) {
	elem := *d.Elem
	var elts []dst.Expr
	switch src := v.(type) {
	case value.Sequence:
		elts = make([]dst.Expr, 0, len(src.Items))
		for i, item := range src.Items {
			e, err := renderAt(item, elem, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			if lit, ok := e.(*dst.CompositeLit); ok {
				lit.Type = nil
			}
			elts = append(elts, e)
		}
	case value.Scalar:
		// Byte lists and vectors are written as hex strings.
		if elem.Kind != schema.KindUInt || elem.Width != 8 || !strings.HasPrefix(src.Text, "0x") {
			return nil, mismatch(path, "want sequence for %s, got %s", d, src.Describe())
		}
		raw, err := bits.ParseHex(src.Text)
		if err != nil {
			return nil, &schema.Error{Kind: schema.KindStructuralMismatch, Field: path, Err: err}
		}
		elts = byteLits(raw)
	default:
		return nil, mismatch(path, "want sequence for %s, got %s", d, v.Describe())
	}

	switch d.Kind {
	case schema.KindVector:
		if len(elts) != d.Length {
			return nil, mismatch(path, "%s given %d elements", d, len(elts))
		}
	case schema.KindList:
		if len(elts) > d.Bound {
			return nil, mismatch(path, "%s given %d elements", d, len(elts))
		}
	}
	return &dst.CompositeLit{Type: TypeExpr(d), Elts: elts}, nil
}

func renderContainer(v value.Value, d schema.Descriptor, path string) (dst.Expr, error) {
	def, ok := schema.LookupContainer(d.Name)
	if !ok {
		return nil, &schema.Error{Kind: schema.KindUnsupportedSchema, Field: path, Detail: "unknown container " + d.Name}
	}
	m, ok := v.(value.Mapping)
	if !ok {
		return nil, mismatch(path, "want mapping for %s, got %s", d.Name, v.Describe())
	}
	keys := m.Keys()
	for i, key := range keys {
		for _, prev := range keys[:i] {
			if strings.EqualFold(prev, key) {
				return nil, mismatch(joinField(path, key), "duplicates key %s ignoring case", prev)
			}
		}
	}

	elts := make([]dst.Expr, 0, len(def.Fields))
	for _, f := range def.Fields {
		fieldPath := joinField(path, f.Name)
		fv, ok := m.Lookup(f.Name)
		if !ok {
			return nil, mismatch(fieldPath, "missing from %s value", d.Name)
		}
		e, err := renderAt(fv, f.Schema, fieldPath)
		if err != nil {
			return nil, err
		}
		kv := &dst.KeyValueExpr{Key: dst.NewIdent(f.Name), Value: e}
		kv.Decs.Before = dst.NewLine
		kv.Decs.After = dst.NewLine
		elts = append(elts, kv)
	}
	for _, key := range keys {
		if !hasField(def, key) {
			return nil, mismatch(joinField(path, key), "not a field of %s", d.Name)
		}
	}
	return &dst.CompositeLit{Type: TypeExpr(d), Elts: elts}, nil
}

func renderBits(v value.Value, d schema.Descriptor, path string) (dst.Expr, error) {
	s, err := scalar(v, path, d.String())
	if err != nil {
		return nil, err
	}
	var decoded bits.Bits
	if d.Kind == schema.KindBitvector {
		decoded, err = bits.DecodeBitvector(s.Text, d.Bound)
	} else {
		decoded, err = bits.DecodeBitlist(s.Text, d.Bound)
	}
	if err != nil {
		return nil, &schema.Error{Kind: schema.KindMalformedBits, Field: path, Detail: d.String(), Err: err}
	}
	elts := make([]dst.Expr, len(decoded.Bits))
	for i, b := range decoded.Bits {
		elts[i] = dst.NewIdent(strconv.FormatBool(b))
	}
	return &dst.CompositeLit{Type: TypeExpr(d), Elts: elts}, nil
}

func byteLits(raw []byte) []dst.Expr {
	out := make([]dst.Expr, len(raw))
	for i, b := range raw {
		out[i] = &dst.BasicLit{Kind: token.INT, Value: fmt.Sprintf("0x%02x", b)}
	}
	return out
}

func hasField(def schema.ContainerDef, key string) bool {
	for _, f := range def.Fields {
		if strings.EqualFold(f.Name, key) {
			return true
		}
	}
	return false
}

func joinField(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
