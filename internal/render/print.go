package render

import (
	"bytes"
	"fmt"
	"go/token"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
)

const sprintPrefix = "var _ = "

// Sprint prints a single expression the way it would appear in a file.
// Multi-line literals keep gofmt indentation relative to column zero.
func Sprint(e dst.Expr) (string, error) {
	f := &dst.File{
		Name: dst.NewIdent("p"),
		Decls: []dst.Decl{
			&dst.GenDecl{
				Tok: token.VAR,
				Specs: []dst.Spec{
					&dst.ValueSpec{
						Names:  []*dst.Ident{dst.NewIdent("_")},
						Values: []dst.Expr{dst.Clone(e).(dst.Expr)},
					},
				},
			},
		},
	}
	var buf bytes.Buffer
	if err := decorator.Fprint(&buf, f); err != nil {
		return "", fmt.Errorf("render: print: %w", err)
	}
	out := buf.String()
	i := strings.Index(out, sprintPrefix)
	if i < 0 {
		return "", fmt.Errorf("render: print: unexpected output %q", out)
	}
	return strings.TrimSpace(out[i+len(sprintPrefix):]), nil
}
