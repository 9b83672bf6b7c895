package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dave/dst"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alma.local/sszgen/internal/schema"
	"alma.local/sszgen/internal/value"
)

func decode(t *testing.T, doc string) value.Value {
	t.Helper()
	v, err := value.Decode([]byte(doc))
	require.NoError(t, err)
	return v
}

func sprint(t *testing.T, e dst.Expr) string {
	t.Helper()
	s, err := Sprint(e)
	require.NoError(t, err)
	return s
}

func TestRenderScalars(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		d    schema.Descriptor
		want string
	}{
		{"bool true", "true", schema.Boolean(), "true"},
		{"bool false", "false", schema.Boolean(), "false"},
		{"uint8", "255", schema.UInt(8), "255"},
		{"uint64 string", "'18446744073709551615'", schema.UInt(64), "18446744073709551615"},
		{"uint16 vector", "[1, 2, 3]", schema.Vector(schema.UInt(16), 3), "[3]uint16{1, 2, 3}"},
		{"bool vector", "[true, false]", schema.Vector(schema.Boolean(), 2), "[2]bool{true, false}"},
		{"byte list from hex", "'0x0aff'", schema.List(schema.UInt(8), 256), "[]uint8{0x0a, 0xff}"},
		{"bitvector", "'0x1f'", schema.Bitvector(5), "[5]bool{true, true, true, true, true}"},
		{"empty bitlist", "'0x01'", schema.Bitlist(5), "[]bool{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Render(decode(t, tt.doc), tt.d)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sprint(t, e))
		})
	}
}

func TestRenderBitlistEndToEnd(t *testing.T) {
	d, err := schema.Resolve(schema.CategoryBitlist, "bitlist_6_random")
	require.NoError(t, err)

	e, err := Render(decode(t, "'0x07'"), d)
	require.NoError(t, err)
	assert.Equal(t, "[]bool{true, true}", sprint(t, e))
}

func TestRenderUint256Bounds(t *testing.T) {
	d := schema.UInt(256)

	e, err := Render(decode(t, "'0'"), d)
	require.NoError(t, err)
	lit := e.(*dst.CompositeLit)
	require.Len(t, lit.Elts, 32)
	for _, elt := range lit.Elts {
		assert.Equal(t, "0x00", elt.(*dst.BasicLit).Value)
	}
	assert.True(t, strings.HasPrefix(sprint(t, e), "sszref.Uint256{0x00, "))

	max := new(uint256.Int).SetAllOne()
	e, err = Render(decode(t, "'"+max.Dec()+"'"), d)
	require.NoError(t, err)
	lit = e.(*dst.CompositeLit)
	require.Len(t, lit.Elts, 32)
	for _, elt := range lit.Elts {
		assert.Equal(t, "0xff", elt.(*dst.BasicLit).Value)
	}
}

func TestWideBytesRoundTrip(t *testing.T) {
	max := new(uint256.Int).SetAllOne()
	for _, text := range []string{"0", "1", "256", "340282366920938463463374607431768211455", max.Dec()} {
		le, err := WideBytes(text, 256)
		require.NoError(t, err)
		require.Len(t, le, 32)
		assert.Equal(t, text, FromWideBytes(le).Dec())
	}

	le, err := WideBytes("256", 128)
	require.NoError(t, err)
	assert.Equal(t, append([]byte{0x00, 0x01}, bytes.Repeat([]byte{0}, 14)...), le)

	_, err = WideBytes("340282366920938463463374607431768211456", 128)
	assert.Error(t, err)
	_, err = WideBytes("-1", 256)
	assert.Error(t, err)
	_, err = WideBytes("1", 64)
	assert.Error(t, err)
}

func TestRenderContainerFieldOrder(t *testing.T) {
	// Keys in reverse declaration order.
	v := decode(t, "C: 9\nB: [1, 2, 3]\nA: 5\n")
	e, err := Render(v, schema.Container("VarTestStruct"))
	require.NoError(t, err)

	lit := e.(*dst.CompositeLit)
	assert.Equal(t, "VarTestStruct", lit.Type.(*dst.Ident).Name)
	require.Len(t, lit.Elts, 3)

	var keys []string
	for _, elt := range lit.Elts {
		keys = append(keys, elt.(*dst.KeyValueExpr).Key.(*dst.Ident).Name)
	}
	assert.Equal(t, []string{"A", "B", "C"}, keys)

	b := lit.Elts[1].(*dst.KeyValueExpr).Value.(*dst.CompositeLit)
	assert.Len(t, b.Elts, 3)
	assert.Equal(t, "[]uint16{1, 2, 3}", sprint(t, b))

	assert.Equal(t, "VarTestStruct{\n\tA: 5,\n\tB: []uint16{1, 2, 3},\n\tC: 9,\n}", sprint(t, e))
}

func TestRenderListKeepsSourceLength(t *testing.T) {
	e, err := Render(decode(t, "[1, 2, 3]"), schema.List(schema.UInt(16), 1024))
	require.NoError(t, err)
	assert.Len(t, e.(*dst.CompositeLit).Elts, 3)
}

func TestRenderNestedContainers(t *testing.T) {
	doc := `
A: 1
B: [2]
C: 3
D: '0x0102'
E: {A: 4, B: [], C: 5}
F:
  - {A: 1, B: 2, C: 3}
  - {A: 1, B: 2, C: 3}
  - {A: 1, B: 2, C: 3}
  - {A: 1, B: 2, C: 3}
G:
  - {A: 1, B: [1], C: 2}
  - {A: 1, B: [], C: 2}
`
	e, err := Render(decode(t, doc), schema.Container("ComplexTestStruct"))
	require.NoError(t, err)
	out := sprint(t, e)
	assert.Contains(t, out, "D: []uint8{0x01, 0x02},")
	assert.Contains(t, out, "F: [4]FixedTestStruct{")
	assert.Contains(t, out, "G: [2]VarTestStruct{")
	assert.Contains(t, out, "B: []uint16{},")

	// Sequence elements drop their redundant type.
	f := e.(*dst.CompositeLit).Elts[5].(*dst.KeyValueExpr).Value.(*dst.CompositeLit)
	assert.Nil(t, f.Elts[0].(*dst.CompositeLit).Type)
}

func TestRenderBitsStruct(t *testing.T) {
	v := decode(t, "A: '0x03'\nB: '0x01'\nC: '0x00'\nD: '0x07'\nE: '0x81'\n")
	e, err := Render(v, schema.Container("BitsStruct"))
	require.NoError(t, err)
	out := sprint(t, e)
	assert.Contains(t, out, "A: []bool{true},")
	assert.Contains(t, out, "B: [2]bool{true, false},")
	assert.Contains(t, out, "C: [1]bool{false},")
	assert.Contains(t, out, "D: []bool{true, true},")
	assert.Contains(t, out, "E: [8]bool{true, false, false, false, false, false, false, true},")
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		d    schema.Descriptor
		kind schema.ErrorKind
		in   string
	}{
		{"missing field", "A: 5\nC: 9\n", schema.Container("VarTestStruct"), schema.KindStructuralMismatch, "field B"},
		{"extra key", "A: 5\nB: []\nC: 9\nZ: 1\n", schema.Container("VarTestStruct"), schema.KindStructuralMismatch, "field Z"},
		{"key repeated in other case", "{a: 1, A: 2}", schema.Container("SingleFieldTestStruct"), schema.KindStructuralMismatch, "field A: duplicates key a"},
		{"nested missing", "A: 1\nB: []\nC: 1\nD: '0x'\nE: {A: 1, C: 2}\nF: []\nG: []\n", schema.Container("ComplexTestStruct"), schema.KindStructuralMismatch, "field E.B"},
		{"not a mapping", "[1]", schema.Container("SmallTestStruct"), schema.KindStructuralMismatch, "want mapping"},
		{"vector too short", "[1, 2]", schema.Vector(schema.UInt(8), 3), schema.KindStructuralMismatch, "2 elements"},
		{"list too long", "[1, 2, 3]", schema.List(schema.UInt(8), 2), schema.KindStructuralMismatch, "3 elements"},
		{"uint overflow", "256", schema.UInt(8), schema.KindStructuralMismatch, "uint8"},
		{"bool from int", "1", schema.Boolean(), schema.KindStructuralMismatch, "want boolean"},
		{"element path", "[1, 70000]", schema.Vector(schema.UInt(16), 2), schema.KindStructuralMismatch, "field [1]"},
		{"no sentinel", "'0x00'", schema.Bitlist(8), schema.KindMalformedBits, "Bitlist[8]"},
		{"bitlist too long", "'0xff'", schema.Bitlist(2), schema.KindMalformedBits, "bound"},
		{"bitvector short", "'0x01'", schema.Bitvector(9), schema.KindMalformedBits, "Bitvector[9]"},
		{"unknown container", "{}", schema.Container("Nope"), schema.KindUnsupportedSchema, "Nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(decode(t, tt.doc), tt.d)
			require.Error(t, err)
			assert.True(t, schema.IsKind(err, tt.kind), "kind of %v", err)
			assert.Contains(t, err.Error(), tt.in)
		})
	}
}
