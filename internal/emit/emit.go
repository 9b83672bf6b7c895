// Package emit assembles generated conformance test files.
package emit

import (
	"fmt"
	"go/token"
	"io"
	"path"
	"strconv"
	"strings"
	"unicode"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"

	"alma.local/sszgen/internal/render"
	"alma.local/sszgen/internal/schema"
)

// Header is the first line of every generated file.
const Header = "// Code generated by sszgen. DO NOT EDIT."

// ConformancePackage is the identifier generated tests use for the
// conformance helpers.
const ConformancePackage = "conformance"

// Options controls package and import spelling.
type Options struct {
	Package           string
	ConformanceImport string
	SSZImport         string
}

// Test is one generated test function.
type Test struct {
	Category string
	Handler  string
	Valid    bool
	Schema   schema.Descriptor
	// Value is the rendered literal, valid cases only.
	Value dst.Expr
	// Path is the payload path as the generated test sees it.
	Path string
	// Root is the expected hash tree root, valid cases only.
	Root string
}

// File is the content of one generated file.
type File struct {
	// Containers are declared as struct types ahead of the tests.
	Containers []schema.ContainerDef
	Tests      []Test
}

// Emitter prints Files as Go source.
type Emitter struct {
	opts Options
}

// New returns an Emitter.
func New(opts Options) *Emitter {
	return &Emitter{opts: opts}
}

// Write prints f to w.
func (e *Emitter) Write(w io.Writer, f File) error {
	file, err := e.Build(f)
	if err != nil {
		return err
	}
	if err := decorator.Fprint(w, file); err != nil {
		return fmt.Errorf("emit: print: %w", err)
	}
	return nil
}

// Build assembles the syntax tree for f.
func (e *Emitter) Build(f File) (*dst.File, error) {
	var decls []dst.Decl
	for _, def := range f.Containers {
		decl, err := render.ContainerDecl(def)
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	for _, tc := range f.Tests {
		fn, err := testFunc(tc)
		if err != nil {
			return nil, schema.WithCase(err, tc.Category, tc.Handler)
		}
		decls = append(decls, fn)
	}
	for _, d := range decls {
		d.Decorations().Before = dst.EmptyLine
	}

	file := &dst.File{Name: dst.NewIdent(e.opts.Package)}
	file.Decs.Start.Append(Header, "\n")
	if imports := e.imports(f, decls); imports != nil {
		imports.Decs.Before = dst.EmptyLine
		file.Decls = append(file.Decls, imports)
	}
	file.Decls = append(file.Decls, decls...)
	return file, nil
}

// imports declares the standard library group, then the module group, each
// limited to packages the declarations refer to.
func (e *Emitter) imports(f File, decls []dst.Decl) *dst.GenDecl {
	usesSSZ := false
	for _, d := range decls {
		dst.Inspect(d, func(n dst.Node) bool {
			if sel, ok := n.(*dst.SelectorExpr); ok {
				if id, ok := sel.X.(*dst.Ident); ok && id.Name == render.SSZPackage {
					usesSSZ = true
				}
			}
			return !usesSSZ
		})
	}

	var specs []dst.Spec
	if len(f.Tests) > 0 {
		specs = append(specs, importSpec("testing", "testing"))
		local := importSpec(ConformancePackage, e.opts.ConformanceImport)
		local.Decs.Before = dst.EmptyLine
		specs = append(specs, local)
	}
	if usesSSZ {
		specs = append(specs, importSpec(render.SSZPackage, e.opts.SSZImport))
	}
	if len(specs) == 0 {
		return nil
	}
	return &dst.GenDecl{Tok: token.IMPORT, Lparen: true, Specs: specs}
}

// importSpec imports importPath under name, naming the import only when the
// last path element differs from it.
func importSpec(name, importPath string) *dst.ImportSpec {
	spec := &dst.ImportSpec{Path: &dst.BasicLit{Kind: token.STRING, Value: strconv.Quote(importPath)}}
	if path.Base(importPath) != name {
		spec.Name = dst.NewIdent(name)
	}
	spec.Decs.Before = dst.NewLine
	spec.Decs.After = dst.NewLine
	return spec
}

func testFunc(tc Test) (*dst.FuncDecl, error) {
	tag, err := render.Tag(tc.Schema)
	if err != nil {
		return nil, err
	}
	tagLit := &dst.BasicLit{Kind: token.STRING, Value: strconv.Quote(tag)}
	if tag != "" {
		tagLit.Value = "`" + tag + "`"
	}
	pathLit := &dst.BasicLit{Kind: token.STRING, Value: strconv.Quote(tc.Path)}

	var body []dst.Stmt
	if tc.Valid {
		if tc.Value == nil {
			return nil, schema.Errorf(schema.KindStructuralMismatch, "valid case has no value")
		}
		body = append(body,
			&dst.DeclStmt{Decl: &dst.GenDecl{
				Tok: token.VAR,
				Specs: []dst.Spec{&dst.ValueSpec{
					Names:  []*dst.Ident{dst.NewIdent("value")},
					Type:   render.TypeExpr(tc.Schema),
					Values: []dst.Expr{dst.Clone(tc.Value).(dst.Expr)},
				}},
			}},
			&dst.ExprStmt{X: &dst.CallExpr{
				Fun: helper("CheckValid"),
				Args: []dst.Expr{
					dst.NewIdent("t"),
					dst.NewIdent("value"),
					tagLit,
					pathLit,
					&dst.BasicLit{Kind: token.STRING, Value: strconv.Quote(tc.Root)},
				},
			}},
		)
	} else {
		body = append(body, &dst.ExprStmt{X: &dst.CallExpr{
			Fun:  &dst.IndexExpr{X: helper("CheckInvalid"), Index: render.TypeExpr(tc.Schema)},
			Args: []dst.Expr{dst.NewIdent("t"), tagLit, pathLit},
		}})
	}
	for _, s := range body {
		s.Decorations().Before = dst.NewLine
		s.Decorations().After = dst.NewLine
	}

	return &dst.FuncDecl{
		Name: dst.NewIdent(TestName(tc.Category, tc.Handler, tc.Valid)),
		Type: &dst.FuncType{
			Params: &dst.FieldList{List: []*dst.Field{{
				Names: []*dst.Ident{dst.NewIdent("t")},
				Type:  &dst.StarExpr{X: &dst.SelectorExpr{X: dst.NewIdent("testing"), Sel: dst.NewIdent("T")}},
			}}},
		},
		Body: &dst.BlockStmt{List: body},
	}, nil
}

func helper(name string) *dst.SelectorExpr {
	return &dst.SelectorExpr{X: dst.NewIdent(ConformancePackage), Sel: dst.NewIdent(name)}
}

// TestName is Test<Category>_<handler>, with Invalid after the category for
// invalid cases. bitlist/bitlist_6_random becomes TestBitlist_bitlist_6_random.
func TestName(category, handler string, valid bool) string {
	var b strings.Builder
	b.WriteString("Test")
	for _, part := range strings.Split(category, "_") {
		if part == "" {
			continue
		}
		r := []rune(part)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	if !valid {
		b.WriteString("Invalid")
	}
	b.WriteString("_")
	for _, r := range handler {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
