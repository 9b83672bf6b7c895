package emit

import (
	"bytes"
	"go/parser"
	"go/token"
	"testing"

	"github.com/dave/dst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alma.local/sszgen/internal/render"
	"alma.local/sszgen/internal/schema"
	"alma.local/sszgen/internal/value"
)

var testOptions = Options{
	Package:           "conformance_test",
	ConformanceImport: "alma.local/sszgen/internal/conformance",
	SSZImport:         "alma.local/sszgen/internal/sszref",
}

func literal(t *testing.T, doc string, d schema.Descriptor) dst.Expr {
	t.Helper()
	v, err := value.Decode([]byte(doc))
	require.NoError(t, err)
	e, err := render.Render(v, d)
	require.NoError(t, err)
	return e
}

func write(t *testing.T, f File) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, New(testOptions).Write(&buf, f))
	out := buf.String()
	_, err := parser.ParseFile(token.NewFileSet(), "generated_test.go", out, parser.ParseComments)
	require.NoError(t, err, out)
	return out
}

func TestTestName(t *testing.T) {
	assert.Equal(t, "TestBitlist_bitlist_6_random", TestName("bitlist", "bitlist_6_random", true))
	assert.Equal(t, "TestBasicVectorInvalid_vec_bool_0", TestName("basic_vector", "vec_bool_0", false))
	assert.Equal(t, "TestContainers_VarTestStruct_max", TestName("containers", "VarTestStruct_max", true))
	assert.Equal(t, "TestUints_uint_8_a_b", TestName("uints", "uint_8_a-b", true))
}

func TestWriteBitlistCases(t *testing.T) {
	d := schema.Bitlist(6)
	out := write(t, File{Tests: []Test{
		{
			Category: "bitlist", Handler: "bitlist_6_random", Valid: true, Schema: d,
			Value: literal(t, "'0x07'", d),
			Path:  "testdata/bitlist/valid/bitlist_6_random/serialized.ssz_snappy",
			Root:  "0xaa",
		},
		{
			Category: "bitlist", Handler: "bitlist_6_but_7", Schema: d,
			Path: "testdata/bitlist/invalid/bitlist_6_but_7/serialized.ssz_snappy",
		},
	}})

	assert.Contains(t, out, Header+"\n\npackage conformance_test\n")
	assert.Contains(t, out, "\"testing\"")
	assert.Contains(t, out, "\"alma.local/sszgen/internal/conformance\"")
	assert.NotContains(t, out, "internal/sszref")
	assert.Contains(t, out, "func TestBitlist_bitlist_6_random(t *testing.T) {\n"+
		"\tvar value []bool = []bool{true, true}\n"+
		"\tconformance.CheckValid(t, value, `ssz:\"bitlist\" ssz-max:\"6\"`, \"testdata/bitlist/valid/bitlist_6_random/serialized.ssz_snappy\", \"0xaa\")\n"+
		"}")
	assert.Contains(t, out, "func TestBitlistInvalid_bitlist_6_but_7(t *testing.T) {\n"+
		"\tconformance.CheckInvalid[[]bool](t, `ssz:\"bitlist\" ssz-max:\"6\"`, \"testdata/bitlist/invalid/bitlist_6_but_7/serialized.ssz_snappy\")\n"+
		"}")
}

func TestWriteUntaggedUsesEmptyString(t *testing.T) {
	d := schema.UInt(16)
	out := write(t, File{Tests: []Test{{
		Category: "uints", Handler: "uint_16_max", Valid: true, Schema: d,
		Value: literal(t, "65535", d),
		Path:  "testdata/uints/valid/uint_16_max/serialized.ssz_snappy",
		Root:  "0xff",
	}}})
	assert.Contains(t, out, "var value uint16 = 65535\n")
	assert.Contains(t, out, "conformance.CheckValid(t, value, \"\", ")
}

func TestWriteImportsSSZForWideIntegers(t *testing.T) {
	d := schema.UInt(256)
	out := write(t, File{Tests: []Test{
		{
			Category: "uints", Handler: "uint_256_zero", Valid: true, Schema: d,
			Value: literal(t, "0", d), Path: "p", Root: "0x00",
		},
	}})
	assert.Contains(t, out, "\"alma.local/sszgen/internal/sszref\"")
	assert.Contains(t, out, "var value sszref.Uint256 = sszref.Uint256{")

	out = write(t, File{Tests: []Test{{Category: "uints", Handler: "uint_128_one_byte_longer", Schema: schema.UInt(128), Path: "p"}}})
	assert.Contains(t, out, "conformance.CheckInvalid[sszref.Uint128](t, \"\", \"p\")")
	assert.Contains(t, out, "\"alma.local/sszgen/internal/sszref\"")
}

func TestWriteContainers(t *testing.T) {
	d := schema.Container("VarTestStruct")
	out := write(t, File{
		Containers: schema.Containers(),
		Tests: []Test{{
			Category: "containers", Handler: "VarTestStruct_max", Valid: true, Schema: d,
			Value: literal(t, "{A: 5, B: [1, 2, 3], C: 9}", d),
			Path:  "p", Root: "0x00",
		}},
	})
	for _, def := range schema.Containers() {
		assert.Contains(t, out, "type "+def.Name+" struct {")
	}
	assert.Contains(t, out, "B []uint16 `ssz-max:\"1024\"`")
	assert.Contains(t, out, "var value VarTestStruct = VarTestStruct{\n\t\tA: 5,\n\t\tB: []uint16{1, 2, 3},\n\t\tC: 9,\n\t}")
}

func TestWriteRejectsValidCaseWithoutValue(t *testing.T) {
	var buf bytes.Buffer
	err := New(testOptions).Write(&buf, File{Tests: []Test{{Category: "boolean", Handler: "true", Valid: true, Schema: schema.Boolean()}}})
	require.Error(t, err)
	assert.True(t, schema.IsKind(err, schema.KindStructuralMismatch))
	assert.ErrorContains(t, err, "[boolean/true]")
}

func TestWriteNamesImportsThatDoNotMatchTheirIdentifier(t *testing.T) {
	opts := Options{
		Package:           "suite_test",
		ConformanceImport: "example.com/suite/ssz-checks",
		SSZImport:         "example.com/codec/v2",
	}
	d := schema.UInt(256)
	var buf bytes.Buffer
	require.NoError(t, New(opts).Write(&buf, File{Tests: []Test{{
		Category: "uints", Handler: "uint_256_zero", Valid: true, Schema: d,
		Value: literal(t, "0", d), Path: "p", Root: "0x00",
	}}}))
	out := buf.String()

	_, err := parser.ParseFile(token.NewFileSet(), "generated_test.go", out, parser.ParseComments)
	require.NoError(t, err, out)
	assert.Contains(t, out, "conformance \"example.com/suite/ssz-checks\"")
	assert.Contains(t, out, "sszref \"example.com/codec/v2\"")
	assert.Contains(t, out, "conformance.CheckValid(t, value,")
}

func TestWriteLeavesMatchingImportsUnnamed(t *testing.T) {
	out := write(t, File{Tests: []Test{{Category: "uints", Handler: "uint_128_x", Schema: schema.UInt(128), Path: "p"}}})
	assert.Contains(t, out, "\t\"alma.local/sszgen/internal/conformance\"\n")
	assert.Contains(t, out, "\t\"alma.local/sszgen/internal/sszref\"\n")
}
