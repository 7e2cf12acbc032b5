// Package attrmap maps raw tabular column headers onto the directory's
// dot-notation attribute paths and applies those mappings row by row.
package attrmap

import (
	"fmt"
	"sort"
	"strings"
)

// Mapping ties source column headers to attribute targets. A missing entry
// means the header maps to itself; an empty target drops the column. The
// fixed overrides, when set, replace any mapped population or enabled value
// for every record of a run.
type Mapping struct {
	Targets           map[string]string `json:"mappings"`
	FixedPopulationID string            `json:"fixed_population_id,omitempty"`
	FixedEnabled      *bool             `json:"fixed_enabled,omitempty"`
}

// TargetError reports a mapping target under the population namespace that
// is not one of the two allowed forms.
type TargetError struct {
	Header string
	Target string
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("invalid mapping for %q: %q; population mappings must be %q or %q",
		e.Header, e.Target, "population.id", "population.name")
}

// Validate rejects any target that begins with "population" but is not
// exactly "population.id" or "population.name". This stops arbitrary
// population attributes from slipping through an import. Headers are
// checked in sorted order so the reported offender is stable.
func (m Mapping) Validate() error {
	headers := make([]string, 0, len(m.Targets))
	for h := range m.Targets {
		headers = append(headers, h)
	}
	sort.Strings(headers)
	for _, h := range headers {
		target := strings.TrimSpace(m.Targets[h])
		if target == "" {
			continue
		}
		if strings.HasPrefix(target, "population") &&
			target != "population.id" && target != "population.name" {
			return &TargetError{Header: h, Target: m.Targets[h]}
		}
	}
	return nil
}

// Apply resolves one raw row into a flat record. Headers are visited in
// order, so when several columns resolve to the same target the last column
// wins deterministically.
//
// Cells with empty values are skipped. Headers without a mapping entry map
// to themselves. A target of "uid" (any case) is an alias for "username";
// a target of "id" is discarded; system identifiers are never imported.
// Values for the "enabled" target are coerced to booleans when they match a
// recognized spelling and passed through verbatim otherwise.
func (m Mapping) Apply(headers []string, row map[string]string) map[string]any {
	flat := make(map[string]any)
	for _, h := range headers {
		v, ok := row[h]
		if !ok || v == "" {
			continue
		}
		target, ok := m.Targets[h]
		if !ok {
			target = h
		}
		if strings.TrimSpace(target) == "" {
			continue
		}
		if strings.EqualFold(target, "uid") {
			target = "username"
		}
		if target == "id" {
			continue
		}
		if target == "enabled" {
			if b, ok := ParseEnabled(v); ok {
				flat[target] = b
			} else {
				flat[target] = v
			}
			continue
		}
		flat[target] = v
	}
	return flat
}

// ParseEnabled coerces the recognized truthy and falsy spellings to a
// boolean. ok is false for anything else so callers can pass the raw value
// through for downstream inspection.
func ParseEnabled(v string) (value bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "y", "t":
		return true, true
	case "false", "0", "no", "n", "f":
		return false, true
	}
	return false, false
}
