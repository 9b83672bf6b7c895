package sszref

import (
	"reflect"
	"strconv"
	"strings"
)

// tagContext is the SSZ shape information a struct tag adds to a Go type.
// sizes and maxes hold one entry per nesting level, -1 where a level has none.
type tagContext struct {
	sizes       []int
	maxes       []int
	isBitlist   bool
	isBitvector bool
}

func parseTagContext(tag reflect.StructTag) tagContext {
	kind := tag.Get("ssz")
	return tagContext{
		sizes:       parseTagList(tag.Get("ssz-size")),
		maxes:       parseTagList(tag.Get("ssz-max")),
		isBitlist:   kind == "bitlist",
		isBitvector: kind == "bitvector",
	}
}

func parseTagList(raw string) []int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if part == "?" {
			out = append(out, -1)
			continue
		}
		val, err := strconv.Atoi(part)
		if err != nil {
			out = append(out, -1)
			continue
		}
		out = append(out, val)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (ctx tagContext) size() (int, bool) {
	if len(ctx.sizes) == 0 || ctx.sizes[0] < 0 {
		return -1, false
	}
	return ctx.sizes[0], true
}

func (ctx tagContext) max() (int, bool) {
	if len(ctx.maxes) == 0 || ctx.maxes[0] < 0 {
		return -1, false
	}
	return ctx.maxes[0], true
}

// shift drops the outermost level. Bit packing never carries over to elements.
func (ctx tagContext) shift() tagContext {
	var next tagContext
	if len(ctx.sizes) > 1 {
		next.sizes = ctx.sizes[1:]
	}
	if len(ctx.maxes) > 1 {
		next.maxes = ctx.maxes[1:]
	}
	return next
}
