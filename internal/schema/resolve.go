package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Corpus category names.
const (
	CategoryBoolean     = "boolean"
	CategoryUints       = "uints"
	CategoryBasicVector = "basic_vector"
	CategoryBitvector   = "bitvector"
	CategoryBitlist     = "bitlist"
	CategoryContainers  = "containers"
)

// Categories lists the supported categories in a stable order.
var Categories = []string{
	CategoryBoolean,
	CategoryUints,
	CategoryBasicVector,
	CategoryBitvector,
	CategoryBitlist,
	CategoryContainers,
}

// DefaultBitlistBound is the bound used for bitlist handlers whose bound token
// is the "no" marker (bitlist_no_delimiter_*). It is 256 bits, one full chunk.
const DefaultBitlistBound = 256

const unboundedToken = "no"

// Resolve maps a corpus category and handler name to a Descriptor.
//
// Handler grammar, by category (underscore separated, trailing tokens are the
// case description and ignored):
//
//	boolean       <anything>
//	uints         uint_<width>_...
//	basic_vector  vec_<elem>_<length>_...   elem: bool | uint<width>
//	bitvector     bitvec_<bound>_...
//	bitlist       bitlist_<bound|no>_...
//	containers    <ContainerName>_...
func Resolve(category, handler string) (Descriptor, error) {
	d, err := resolve(category, handler)
	if err != nil {
		return Descriptor{}, &Error{
			Kind:     KindUnsupportedSchema,
			Category: category,
			Handler:  handler,
			Err:      err,
		}
	}
	return d, nil
}

func resolve(category, handler string) (Descriptor, error) {
	tokens := strings.Split(handler, "_")
	switch category {
	case CategoryBoolean:
		return Boolean(), nil
	case CategoryUints:
		if err := expect(tokens, "uint", 2); err != nil {
			return Descriptor{}, err
		}
		w, err := parseWidth(tokens[1])
		if err != nil {
			return Descriptor{}, err
		}
		return UInt(w), nil
	case CategoryBasicVector:
		if err := expect(tokens, "vec", 3); err != nil {
			return Descriptor{}, err
		}
		elem, err := parseElem(tokens[1])
		if err != nil {
			return Descriptor{}, err
		}
		n, err := parseNatural(tokens[2], "length")
		if err != nil {
			return Descriptor{}, err
		}
		return Vector(elem, n), nil
	case CategoryBitvector:
		if err := expect(tokens, "bitvec", 2); err != nil {
			return Descriptor{}, err
		}
		n, err := parseNatural(tokens[1], "bound")
		if err != nil {
			return Descriptor{}, err
		}
		return Bitvector(n), nil
	case CategoryBitlist:
		if err := expect(tokens, "bitlist", 2); err != nil {
			return Descriptor{}, err
		}
		if tokens[1] == unboundedToken {
			return Bitlist(DefaultBitlistBound), nil
		}
		n, err := parseNatural(tokens[1], "bound")
		if err != nil {
			return Descriptor{}, err
		}
		return Bitlist(n), nil
	case CategoryContainers:
		name := tokens[0]
		if _, ok := LookupContainer(name); !ok {
			return Descriptor{}, fmt.Errorf("unknown container %q", name)
		}
		return Container(name), nil
	default:
		return Descriptor{}, fmt.Errorf("unknown category %q", category)
	}
}

func expect(tokens []string, prefix string, min int) error {
	if len(tokens) < min {
		return fmt.Errorf("handler needs at least %d tokens, got %d", min, len(tokens))
	}
	if tokens[0] != prefix {
		return fmt.Errorf("handler must start with %q, got %q", prefix, tokens[0])
	}
	return nil
}

func parseWidth(tok string) (int, error) {
	w, err := strconv.Atoi(tok)
	if err != nil || !ValidWidth(w) {
		return 0, fmt.Errorf("illegal uint width %q", tok)
	}
	return w, nil
}

func parseElem(tok string) (Descriptor, error) {
	if tok == "bool" {
		return Boolean(), nil
	}
	rest, ok := strings.CutPrefix(tok, "uint")
	if !ok {
		return Descriptor{}, fmt.Errorf("unknown element type %q", tok)
	}
	w, err := parseWidth(rest)
	if err != nil {
		return Descriptor{}, err
	}
	return UInt(w), nil
}

func parseNatural(tok, what string) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("illegal %s %q", what, tok)
	}
	return n, nil
}
