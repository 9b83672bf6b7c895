// Package gen drives one category through walk, resolve, render and emit.
package gen

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"slices"

	"go.uber.org/zap"

	"alma.local/sszgen/internal/config"
	"alma.local/sszgen/internal/corpus"
	"alma.local/sszgen/internal/emit"
	"alma.local/sszgen/internal/render"
	"alma.local/sszgen/internal/schema"
)

// Generator turns corpus categories into test files.
type Generator struct {
	cfg     config.Config
	walker  *corpus.Walker
	emitter *emit.Emitter
	log     *zap.Logger
}

// Summary counts the cases of one run.
type Summary struct {
	Category string
	Valid    int
	Invalid  int
}

// New returns a Generator for cfg.
func New(cfg config.Config, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		cfg:    cfg,
		walker: corpus.NewWalker(cfg.CorpusRoot, log),
		emitter: emit.New(emit.Options{
			Package:           cfg.Package,
			ConformanceImport: cfg.ConformanceImport,
			SSZImport:         cfg.SSZImport,
		}),
		log: log,
	}
}

// Run generates the test file for category and writes it to w. Payloads are
// copied under the configured data root once every case has resolved and
// rendered. The first failing case aborts the run before any payload is
// copied or any output written.
func (g *Generator) Run(category string, w io.Writer) (Summary, error) {
	sum := Summary{Category: category}
	if !slices.Contains(schema.Categories, category) {
		return sum, &schema.Error{
			Kind:     schema.KindUnsupportedSchema,
			Category: category,
			Detail:   fmt.Sprintf("unknown category, want one of %v", schema.Categories),
		}
	}

	var (
		file  emit.File
		cases []corpus.Case
	)
	if category == schema.CategoryContainers {
		file.Containers = schema.Containers()
	}

	err := g.walker.Walk(category, func(c corpus.Case) error {
		d, err := schema.Resolve(c.Category, c.Handler)
		if err != nil {
			return err
		}
		tc := emit.Test{
			Category: c.Category,
			Handler:  c.Handler,
			Valid:    c.Valid,
			Schema:   d,
			Path:     path.Join(g.cfg.DataRef, c.Rel),
		}
		if c.Valid {
			lit, err := render.Render(c.Value, d)
			if err != nil {
				return err
			}
			tc.Value = lit
			tc.Root = c.Root
			sum.Valid++
		} else {
			sum.Invalid++
		}
		cases = append(cases, c)
		file.Tests = append(file.Tests, tc)
		return nil
	})
	if err != nil {
		return sum, err
	}

	var buf bytes.Buffer
	if err := g.emitter.Write(&buf, file); err != nil {
		return sum, err
	}
	for _, c := range cases {
		if _, err := corpus.CopyPayload(c, g.cfg.DataRoot); err != nil {
			return sum, schema.WithCase(err, c.Category, c.Handler)
		}
	}
	if _, err := buf.WriteTo(w); err != nil {
		return sum, fmt.Errorf("gen: write %s: %w", category, err)
	}
	g.log.Info("generated",
		zap.String("category", category),
		zap.Int("valid", sum.Valid),
		zap.Int("invalid", sum.Invalid),
	)
	return sum, nil
}
