// Package dotpath converts between nested JSON-like objects and the flat
// dot-notation key space used for tabular import/export ("name.given",
// "population.id").
package dotpath

import (
	"github.com/ohler55/ojg/oj"

	"github.com/pingone-tools/p1admin/internal/sets"
)

// Kind classifies a value into the closed JSON vocabulary the codec
// understands. Values outside it are KindInvalid and pass through as opaque
// scalars.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindBool
	KindNumber
	KindObject
	KindList
	KindInvalid
)

func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case string:
		return KindString
	case bool:
		return KindBool
	case int, int64, float64:
		return KindNumber
	case map[string]any:
		return KindObject
	case []any:
		return KindList
	default:
		return KindInvalid
	}
}

// MaxDepth bounds recursion when flattening and collecting keys. Sub-trees
// below the cap are dropped.
const MaxDepth = 3

// listProbe limits how many list elements key collection descends into.
const listProbe = 5

// Flatten returns a flat map of dot-notation keys for nested. List values
// are stored as compact JSON strings under their prefix key so they survive
// tabular round-trips; other scalars keep their type.
func Flatten(nested map[string]any) map[string]any {
	flat := make(map[string]any)
	flattenInto(flat, nested, "", 0)
	return flat
}

func flattenInto(flat map[string]any, obj map[string]any, prefix string, depth int) {
	if depth > MaxDepth {
		return
	}
	for k, v := range obj {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		switch KindOf(v) {
		case KindObject:
			flattenInto(flat, v.(map[string]any), full, depth+1)
		case KindList:
			flat[full] = oj.JSON(v)
		default:
			flat[full] = v
		}
	}
}

// CollectKeys adds every dot-notation key reachable in obj to keys,
// descending at most MaxDepth levels and probing at most the first five
// elements of any list. List elements share their list's prefix.
func CollectKeys(obj map[string]any, keys sets.Set[string]) {
	collect(obj, "", keys, 0)
}

func collect(v any, prefix string, keys sets.Set[string], depth int) {
	if depth > MaxDepth {
		return
	}
	switch KindOf(v) {
	case KindObject:
		for k, child := range v.(map[string]any) {
			full := k
			if prefix != "" {
				full = prefix + "." + k
			}
			keys.Add(full)
			collect(child, full, keys, depth+1)
		}
	case KindList:
		list := v.([]any)
		if len(list) > listProbe {
			list = list[:listProbe]
		}
		for _, item := range list {
			collect(item, prefix, keys, depth+1)
		}
	}
}
