package dotpath

import (
	"sort"
	"strings"

	"github.com/ohler55/ojg/oj"
)

// Unflatten converts a flat dot-notation map back into a nested object.
//
// Keys that are empty after trimming are dropped so a malformed mapping can
// never produce a property with an empty name. A hyphenated key is treated
// as dot-separated only when it contains no literal dot, matching the LDIF
// export convention of writing "name.given" as "name-given". When an
// intermediate segment already holds a non-object value it is overwritten
// with a fresh object; keys are applied in sorted order so the outcome is
// deterministic.
func Unflatten(flat map[string]any) map[string]any {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make(map[string]any)
	for _, k := range keys {
		if strings.TrimSpace(k) == "" {
			continue
		}
		key := k
		if strings.Contains(key, "-") && !strings.Contains(key, ".") {
			key = strings.ReplaceAll(key, "-", ".")
		}
		parts := strings.Split(key, ".")
		cur := result
		for _, p := range parts[:len(parts)-1] {
			child, ok := cur[p].(map[string]any)
			if !ok {
				child = make(map[string]any)
				cur[p] = child
			}
			cur = child
		}
		leaf := parts[len(parts)-1]
		if s, ok := flat[k].(string); ok {
			cur[leaf] = parseValue(s)
		} else {
			cur[leaf] = flat[k]
		}
	}
	return result
}

// parseValue opportunistically recovers structured values (arrays, objects)
// from their JSON string form, tolerating the doubled quotes produced by CSV
// quoting. Scalar strings are returned unchanged.
func parseValue(s string) any {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "[") && !strings.HasPrefix(t, "{") {
		return s
	}
	if v, err := oj.ParseString(t); err == nil {
		return v
	}
	if strings.Contains(t, `""`) {
		if v, err := oj.ParseString(strings.ReplaceAll(t, `""`, `"`)); err == nil {
			return v
		}
	}
	return s
}
