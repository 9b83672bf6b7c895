// Package corpus walks an ssz_generic conformance corpus laid out as
// <root>/<category>/{valid,invalid}/<handler>/.
package corpus

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"alma.local/sszgen/internal/schema"
	"alma.local/sszgen/internal/value"
)

// Artifact file names inside a case directory.
const (
	MetaFile    = "meta.yaml"
	ValueFile   = "value.yaml"
	PayloadFile = "serialized.ssz_snappy"
)

// Case is one corpus directory.
type Case struct {
	Category string
	Handler  string
	Valid    bool
	// Root is the expected hash tree root from meta.yaml, valid cases only.
	Root string
	// Value is the decoded value.yaml, valid cases only.
	Value value.Value
	// Payload is the path of serialized.ssz_snappy on disk.
	Payload string
	// Rel is the slash-separated payload path relative to the category parent,
	// e.g. "bitlist/valid/bitlist_6_random/serialized.ssz_snappy".
	Rel string
}

// Kind returns "valid" or "invalid".
func (c Case) Kind() string {
	if c.Valid {
		return "valid"
	}
	return "invalid"
}

type meta struct {
	Root string `yaml:"root"`
}

// Walker enumerates cases below Root.
type Walker struct {
	Root string
	Log  *zap.Logger
}

// NewWalker returns a Walker over root. A nil logger is replaced by a no-op one.
func NewWalker(root string, log *zap.Logger) *Walker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Walker{Root: root, Log: log}
}

// Walk calls fn for every case of category: valid handlers first, then
// invalid ones, each group in lexical order. The first error stops the walk.
func (w *Walker) Walk(category string, fn func(Case) error) error {
	dir := filepath.Join(w.Root, category)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return &schema.Error{
			Kind:     schema.KindMissingArtifact,
			Category: category,
			Detail:   "category directory " + dir + " not found",
			Err:      err,
		}
	}

	for _, valid := range []bool{true, false} {
		kind := "invalid"
		if valid {
			kind = "valid"
		}
		handlers, err := listDirs(filepath.Join(dir, kind))
		if err != nil {
			return fmt.Errorf("corpus: list %s/%s: %w", category, kind, err)
		}
		w.Log.Debug("walking", zap.String("category", category), zap.String("kind", kind), zap.Int("cases", len(handlers)))

		for _, handler := range handlers {
			c, err := w.load(category, kind, handler, valid)
			if err != nil {
				return schema.WithCase(err, category, handler)
			}
			w.Log.Debug("case", zap.String("category", category), zap.String("handler", handler), zap.Bool("valid", valid))
			if err := fn(c); err != nil {
				return schema.WithCase(err, category, handler)
			}
		}
	}
	return nil
}

func (w *Walker) load(category, kind, handler string, valid bool) (Case, error) {
	caseDir := filepath.Join(w.Root, category, kind, handler)
	c := Case{
		Category: category,
		Handler:  handler,
		Valid:    valid,
		Payload:  filepath.Join(caseDir, PayloadFile),
		Rel:      path.Join(category, kind, handler, PayloadFile),
	}
	if err := requireFile(c.Payload); err != nil {
		return Case{}, err
	}
	if !valid {
		return c, nil
	}

	rawMeta, err := readArtifact(filepath.Join(caseDir, MetaFile))
	if err != nil {
		return Case{}, err
	}
	var m meta
	if err := yaml.Unmarshal(rawMeta, &m); err != nil {
		return Case{}, schema.Wrap(schema.KindMissingArtifact, MetaFile+" is not valid YAML", err)
	}
	if m.Root == "" {
		return Case{}, schema.Errorf(schema.KindMissingArtifact, "%s has no root", MetaFile)
	}
	c.Root = m.Root

	rawValue, err := readArtifact(filepath.Join(caseDir, ValueFile))
	if err != nil {
		return Case{}, err
	}
	v, err := value.Decode(rawValue)
	if err != nil {
		return Case{}, schema.Wrap(schema.KindStructuralMismatch, ValueFile, err)
	}
	c.Value = v
	return c, nil
}

// CopyPayload copies the case payload to dataRoot/<Rel> and returns the
// destination path.
func CopyPayload(c Case, dataRoot string) (string, error) {
	dest := filepath.Join(dataRoot, filepath.FromSlash(c.Rel))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("corpus: create %s: %w", filepath.Dir(dest), err)
	}
	src, err := os.Open(c.Payload)
	if err != nil {
		return "", fmt.Errorf("corpus: open payload: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("corpus: create payload copy: %w", err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return "", fmt.Errorf("corpus: copy payload: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("corpus: close payload copy: %w", err)
	}
	return dest, nil
}

// listDirs returns the sorted subdirectory names of dir. A missing dir has none.
func listDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func requireFile(p string) error {
	info, err := os.Stat(p)
	if err != nil {
		return schema.Wrap(schema.KindMissingArtifact, filepath.Base(p)+" not found", err)
	}
	if info.IsDir() {
		return schema.Errorf(schema.KindMissingArtifact, "%s is a directory", filepath.Base(p))
	}
	return nil
}

func readArtifact(p string) ([]byte, error) {
	if err := requireFile(p); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(p)
	if err != nil {
		return nil, schema.Wrap(schema.KindMissingArtifact, filepath.Base(p)+" unreadable", err)
	}
	return raw, nil
}
