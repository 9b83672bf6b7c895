package render

import (
	"fmt"
	"go/token"
	"strconv"
	"strings"

	"github.com/dave/dst"

	"alma.local/sszgen/internal/schema"
)

// SSZPackage is the package name generated code uses to refer to the codec
// under test. Wide integers are spelled as its Uint128 and Uint256 types.
const SSZPackage = "sszref"

// TypeExpr spells d as a Go type expression. Each call returns fresh nodes.
func TypeExpr(d schema.Descriptor) dst.Expr {
	switch d.Kind {
	case schema.KindBoolean:
		return dst.NewIdent("bool")
	case schema.KindUInt:
		if d.Wide() {
			return &dst.SelectorExpr{X: dst.NewIdent(SSZPackage), Sel: dst.NewIdent(fmt.Sprintf("Uint%d", d.Width))}
		}
		return dst.NewIdent(fmt.Sprintf("uint%d", d.Width))
	case schema.KindVector:
		return &dst.ArrayType{Len: intLit(d.Length), Elt: TypeExpr(*d.Elem)}
	case schema.KindList:
		return &dst.ArrayType{Elt: TypeExpr(*d.Elem)}
	case schema.KindBitvector:
		return &dst.ArrayType{Len: intLit(d.Bound), Elt: dst.NewIdent("bool")}
	case schema.KindBitlist:
		return &dst.ArrayType{Elt: dst.NewIdent("bool")}
	case schema.KindContainer:
		return dst.NewIdent(d.Name)
	}
	panic(fmt.Sprintf("render: no Go type for %s", d))
}

// TypeString is the printed form of TypeExpr.
func TypeString(d schema.Descriptor) string {
	switch d.Kind {
	case schema.KindVector:
		return fmt.Sprintf("[%d]%s", d.Length, TypeString(*d.Elem))
	case schema.KindList:
		return "[]" + TypeString(*d.Elem)
	case schema.KindBitvector:
		return fmt.Sprintf("[%d]bool", d.Bound)
	case schema.KindBitlist:
		return "[]bool"
	case schema.KindUInt:
		if d.Wide() {
			return fmt.Sprintf("%s.Uint%d", SSZPackage, d.Width)
		}
		return fmt.Sprintf("uint%d", d.Width)
	case schema.KindBoolean:
		return "bool"
	default:
		return d.Name
	}
}

// Tag returns the sszref struct tag that carries what the Go type cannot:
// bit packing, bitlist bounds and list bounds. Nested lists use one
// comma-separated ssz-max entry per level, "?" for levels without a bound.
func Tag(d schema.Descriptor) (string, error) {
	switch d.Kind {
	case schema.KindBitvector:
		return `ssz:"bitvector"`, nil
	case schema.KindBitlist:
		return fmt.Sprintf(`ssz:"bitlist" ssz-max:"%d"`, d.Bound), nil
	case schema.KindVector, schema.KindList:
	default:
		return "", nil
	}

	var maxes []string
	for cur := d; cur.Kind == schema.KindVector || cur.Kind == schema.KindList; cur = *cur.Elem {
		if cur.Kind == schema.KindList {
			maxes = append(maxes, strconv.Itoa(cur.Bound))
		} else {
			maxes = append(maxes, "?")
		}
		if k := cur.Elem.Kind; k == schema.KindBitvector || k == schema.KindBitlist {
			return "", schema.Errorf(schema.KindUnsupportedSchema, "%s nested in %s has no tag spelling", cur.Elem, d)
		}
	}
	for len(maxes) > 0 && maxes[len(maxes)-1] == "?" {
		maxes = maxes[:len(maxes)-1]
	}
	if len(maxes) == 0 {
		return "", nil
	}
	return fmt.Sprintf(`ssz-max:"%s"`, strings.Join(maxes, ",")), nil
}

// ContainerDecl declares def as a Go struct type with sszref tags.
func ContainerDecl(def schema.ContainerDef) (*dst.GenDecl, error) {
	fields := make([]*dst.Field, 0, len(def.Fields))
	for _, f := range def.Fields {
		field := &dst.Field{
			Names: []*dst.Ident{dst.NewIdent(f.Name)},
			Type:  TypeExpr(f.Schema),
		}
		field.Decs.Before = dst.NewLine
		field.Decs.After = dst.NewLine
		tag, err := Tag(f.Schema)
		if err != nil {
			return nil, fmt.Errorf("render: %s.%s: %w", def.Name, f.Name, err)
		}
		if tag != "" {
			field.Tag = &dst.BasicLit{Kind: token.STRING, Value: "`" + tag + "`"}
		}
		fields = append(fields, field)
	}
	return &dst.GenDecl{
		Tok: token.TYPE,
		Specs: []dst.Spec{
			&dst.TypeSpec{
				Name: dst.NewIdent(def.Name),
				Type: &dst.StructType{Fields: &dst.FieldList{List: fields}},
			},
		},
	}, nil
}

func intLit(n int) *dst.BasicLit {
	return &dst.BasicLit{Kind: token.INT, Value: strconv.Itoa(n)}
}
