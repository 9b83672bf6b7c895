package schema

import "fmt"

// Field is one entry of a container definition.
type Field struct {
	Name   string
	Schema Descriptor
}

// ContainerDef is a named container and its fields in declaration order.
type ContainerDef struct {
	Name   string
	Fields []Field
}

// containerTable mirrors the container definitions used by the ssz_generic
// corpus. Field order is the SSZ declaration order.
var containerTable = []ContainerDef{
	{
		Name: "SingleFieldTestStruct",
		Fields: []Field{
			{"A", UInt(8)},
		},
	},
	{
		Name: "SmallTestStruct",
		Fields: []Field{
			{"A", UInt(16)},
			{"B", UInt(16)},
		},
	},
	{
		Name: "FixedTestStruct",
		Fields: []Field{
			{"A", UInt(8)},
			{"B", UInt(64)},
			{"C", UInt(32)},
		},
	},
	{
		Name: "VarTestStruct",
		Fields: []Field{
			{"A", UInt(16)},
			{"B", List(UInt(16), 1024)},
			{"C", UInt(8)},
		},
	},
	{
		Name: "ComplexTestStruct",
		Fields: []Field{
			{"A", UInt(16)},
			{"B", List(UInt(16), 128)},
			{"C", UInt(8)},
			{"D", List(UInt(8), 256)},
			{"E", Container("VarTestStruct")},
			{"F", Vector(Container("FixedTestStruct"), 4)},
			{"G", Vector(Container("VarTestStruct"), 2)},
		},
	},
	{
		Name: "BitsStruct",
		Fields: []Field{
			{"A", Bitlist(5)},
			{"B", Bitvector(2)},
			{"C", Bitvector(1)},
			{"D", Bitlist(6)},
			{"E", Bitvector(8)},
		},
	},
}

var containerIndex map[string]int

func init() {
	idx, err := indexContainers(containerTable)
	if err != nil {
		panic(err)
	}
	containerIndex = idx
}

// indexContainers checks a table for duplicate names and dangling container
// references and returns the name -> position index.
func indexContainers(table []ContainerDef) (map[string]int, error) {
	idx := make(map[string]int, len(table))
	for i, def := range table {
		if def.Name == "" {
			return nil, fmt.Errorf("schema: container %d has no name", i)
		}
		if _, dup := idx[def.Name]; dup {
			return nil, fmt.Errorf("schema: container %s defined twice", def.Name)
		}
		if len(def.Fields) == 0 {
			return nil, fmt.Errorf("schema: container %s has no fields", def.Name)
		}
		idx[def.Name] = i
	}
	for _, def := range table {
		seen := make(map[string]bool, len(def.Fields))
		for _, f := range def.Fields {
			if seen[f.Name] {
				return nil, fmt.Errorf("schema: container %s declares field %s twice", def.Name, f.Name)
			}
			seen[f.Name] = true
			if err := checkRefs(f.Schema, idx); err != nil {
				return nil, fmt.Errorf("schema: %s.%s: %w", def.Name, f.Name, err)
			}
		}
	}
	return idx, nil
}

func checkRefs(d Descriptor, idx map[string]int) error {
	switch d.Kind {
	case KindContainer:
		if _, ok := idx[d.Name]; !ok {
			return fmt.Errorf("unknown container %s", d.Name)
		}
	case KindVector, KindList:
		if d.Elem == nil {
			return fmt.Errorf("%s without element type", d.Kind)
		}
		return checkRefs(*d.Elem, idx)
	case KindUInt:
		if !ValidWidth(d.Width) {
			return fmt.Errorf("illegal uint width %d", d.Width)
		}
	}
	return nil
}

// LookupContainer returns the definition registered under name.
func LookupContainer(name string) (ContainerDef, bool) {
	i, ok := containerIndex[name]
	if !ok {
		return ContainerDef{}, false
	}
	return containerTable[i], true
}

// Containers returns every container definition in table order.
func Containers() []ContainerDef {
	out := make([]ContainerDef, len(containerTable))
	copy(out, containerTable)
	return out
}
