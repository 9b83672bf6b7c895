// Package value holds the untyped value trees read from corpus YAML files.
package value

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Value is one node of a value tree: a Scalar, a Sequence or a Mapping.
type Value interface {
	isValue()
	// Describe names the node shape for error messages.
	Describe() string
}

// Scalar YAML tags understood by the renderer.
const (
	TagBool  = "!!bool"
	TagInt   = "!!int"
	TagStr   = "!!str"
	TagNull  = "!!null"
	TagFloat = "!!float"
)

// Scalar is a leaf. Text is the literal YAML text and Tag its resolved YAML tag.
type Scalar struct {
	Tag  string
	Text string
}

// Sequence is an ordered list of values.
type Sequence struct {
	Items []Value
}

// Entry is one key of a Mapping.
type Entry struct {
	Key   string
	Value Value
}

// Mapping preserves the key order of the source document.
type Mapping struct {
	Entries []Entry
}

func (Scalar) isValue()   {}
func (Sequence) isValue() {}
func (Mapping) isValue()  {}

func (s Scalar) Describe() string   { return fmt.Sprintf("scalar %s %q", s.Tag, s.Text) }
func (s Sequence) Describe() string { return fmt.Sprintf("sequence of %d", len(s.Items)) }
func (m Mapping) Describe() string  { return fmt.Sprintf("mapping of %d keys", len(m.Entries)) }

// Lookup finds a key ignoring case.
func (m Mapping) Lookup(key string) (Value, bool) {
	for _, e := range m.Entries {
		if strings.EqualFold(e.Key, key) {
			return e.Value, true
		}
	}
	return nil, false
}

// Keys returns the mapping keys in document order.
func (m Mapping) Keys() []string {
	out := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		out[i] = e.Key
	}
	return out
}

// Decode parses a YAML document into a value tree.
func Decode(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("value: parse yaml: %w", err)
	}
	if doc.Kind == 0 {
		return nil, fmt.Errorf("value: empty document")
	}
	return FromNode(&doc)
}

// FromNode converts a decoded yaml.Node. Document nodes are unwrapped and
// aliases followed.
func FromNode(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) != 1 {
			return nil, fmt.Errorf("value: document with %d roots", len(n.Content))
		}
		return FromNode(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("value: dangling alias at line %d", n.Line)
		}
		return FromNode(n.Alias)
	case yaml.ScalarNode:
		return Scalar{Tag: n.ShortTag(), Text: n.Value}, nil
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := FromNode(c)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return Sequence{Items: items}, nil
	case yaml.MappingNode:
		if len(n.Content)%2 != 0 {
			return nil, fmt.Errorf("value: odd mapping content at line %d", n.Line)
		}
		m := Mapping{Entries: make([]Entry, 0, len(n.Content)/2)}
		seen := make(map[string]bool, len(n.Content)/2)
		for i := 0; i < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("value: non-scalar key at line %d", k.Line)
			}
			if seen[k.Value] {
				return nil, fmt.Errorf("value: duplicate key %q at line %d", k.Value, k.Line)
			}
			seen[k.Value] = true
			v, err := FromNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Entries = append(m.Entries, Entry{Key: k.Value, Value: v})
		}
		return m, nil
	default:
		return nil, fmt.Errorf("value: unsupported yaml node kind %d at line %d", n.Kind, n.Line)
	}
}
