// Package normalize applies the record-hygiene rules that run between
// attribute mapping and reconciliation: username trimming, population
// resolution, and empty-key scrubbing.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
)

// Username trims surrounding whitespace from the username field without
// changing its case. Idempotent; records without a username are untouched.
func Username(rec map[string]any) {
	if s, ok := rec["username"].(string); ok {
		rec["username"] = strings.TrimSpace(s)
	}
}

// Key derives the comparison key used to match records against the
// directory snapshot: whitespace trimmed, Unicode case folded. Only the
// comparison key is folded; stored usernames keep their case.
func Key(username string) string {
	return cases.Fold().String(strings.TrimSpace(username))
}

// Population resolves a record's population reference against the name→id
// table. fixedID, when non-empty, overrides any mapped value
// unconditionally. Otherwise a known population name is rewritten to its
// id, a known id is kept, and a name sitting in the id slot is rewritten to
// the id it names. Anything else is left untouched so the directory rejects
// it rather than silently dropping the reference.
func Population(rec map[string]any, table map[string]string, fixedID string) {
	if fixedID != "" {
		rec["population"] = map[string]any{"id": fixedID}
		return
	}
	pop, ok := rec["population"].(map[string]any)
	if !ok {
		return
	}
	if name, ok := pop["name"].(string); ok && name != "" {
		if id, ok := table[name]; ok {
			rec["population"] = map[string]any{"id": id}
			return
		}
	}
	val, ok := pop["id"].(string)
	if !ok || val == "" {
		return
	}
	for _, id := range table {
		if id == val {
			rec["population"] = map[string]any{"id": val}
			return
		}
	}
	if id, ok := table[val]; ok {
		rec["population"] = map[string]any{"id": id}
	}
}

// ScrubEmptyKeys recursively removes keys that are empty or whitespace-only
// from obj, from nested objects, and from object elements of nested lists.
// Applied once immediately before validation as a safety net against
// malformed mappings producing blank attribute names.
func ScrubEmptyKeys(obj map[string]any) {
	for k, v := range obj {
		if strings.TrimSpace(k) == "" {
			delete(obj, k)
			continue
		}
		scrubValue(v)
	}
}

func scrubValue(v any) {
	switch t := v.(type) {
	case map[string]any:
		ScrubEmptyKeys(t)
	case []any:
		for _, item := range t {
			scrubValue(item)
		}
	}
}
