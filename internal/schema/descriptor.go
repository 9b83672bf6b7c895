// Package schema describes the SSZ shapes exercised by the ssz_generic corpus and
// resolves corpus (category, handler) pairs into them.
package schema

import (
	"fmt"
	"strconv"
)

// Kind tags the variant held by a Descriptor.
type Kind int

const (
	KindBoolean Kind = iota
	KindUInt
	KindVector
	KindList
	KindBitvector
	KindBitlist
	KindContainer
)

var kindNames = [...]string{
	KindBoolean:   "boolean",
	KindUInt:      "uint",
	KindVector:    "vector",
	KindList:      "list",
	KindBitvector: "bitvector",
	KindBitlist:   "bitlist",
	KindContainer: "container",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Descriptor is a resolved SSZ type. Only the fields relevant to Kind are set:
//
//	KindUInt       Width
//	KindVector     Elem, Length
//	KindList       Elem, Bound
//	KindBitvector  Bound
//	KindBitlist    Bound
//	KindContainer  Name
type Descriptor struct {
	Kind   Kind
	Width  int
	Elem   *Descriptor
	Length int
	Bound  int
	Name   string
}

// uintWidths lists the legal SSZ unsigned integer widths.
var uintWidths = []int{8, 16, 32, 64, 128, 256}

// ValidWidth reports whether w is a legal uint width.
func ValidWidth(w int) bool {
	for _, v := range uintWidths {
		if v == w {
			return true
		}
	}
	return false
}

func Boolean() Descriptor { return Descriptor{Kind: KindBoolean} }

// UInt panics on an illegal width; the resolver checks widths before calling it.
func UInt(width int) Descriptor {
	if !ValidWidth(width) {
		panic(fmt.Sprintf("schema: illegal uint width %d", width))
	}
	return Descriptor{Kind: KindUInt, Width: width}
}

func Vector(elem Descriptor, length int) Descriptor {
	return Descriptor{Kind: KindVector, Elem: &elem, Length: length}
}

func List(elem Descriptor, bound int) Descriptor {
	return Descriptor{Kind: KindList, Elem: &elem, Bound: bound}
}

func Bitvector(bound int) Descriptor { return Descriptor{Kind: KindBitvector, Bound: bound} }

func Bitlist(bound int) Descriptor { return Descriptor{Kind: KindBitlist, Bound: bound} }

func Container(name string) Descriptor { return Descriptor{Kind: KindContainer, Name: name} }

// Wide reports whether the descriptor is an integer too large for a native Go
// integer type. Such values are spelled as little-endian byte arrays.
func (d Descriptor) Wide() bool {
	return d.Kind == KindUInt && d.Width > 64
}

// Basic reports whether d is an SSZ basic type (boolean or uint).
func (d Descriptor) Basic() bool {
	return d.Kind == KindBoolean || d.Kind == KindUInt
}

// Equal reports structural equality, following Elem pointers.
func (d Descriptor) Equal(o Descriptor) bool {
	if d.Kind != o.Kind || d.Width != o.Width || d.Length != o.Length || d.Bound != o.Bound || d.Name != o.Name {
		return false
	}
	if d.Elem == nil || o.Elem == nil {
		return d.Elem == nil && o.Elem == nil
	}
	return d.Elem.Equal(*o.Elem)
}

// String spells the descriptor in SSZ notation, e.g. "List[uint16, 1024]".
func (d Descriptor) String() string {
	switch d.Kind {
	case KindBoolean:
		return "boolean"
	case KindUInt:
		return "uint" + strconv.Itoa(d.Width)
	case KindVector:
		return fmt.Sprintf("Vector[%s, %d]", d.Elem, d.Length)
	case KindList:
		return fmt.Sprintf("List[%s, %d]", d.Elem, d.Bound)
	case KindBitvector:
		return fmt.Sprintf("Bitvector[%d]", d.Bound)
	case KindBitlist:
		return fmt.Sprintf("Bitlist[%d]", d.Bound)
	case KindContainer:
		return d.Name
	default:
		return d.Kind.String()
	}
}
