// Package reconcile partitions a normalized import batch into create and
// update operations by matching records against a snapshot of the remote
// directory.
package reconcile

import (
	"fmt"
	"strings"

	"github.com/pingone-tools/p1admin/internal/normalize"
	"github.com/pingone-tools/p1admin/internal/sets"
)

// Update pairs an input record with the remote id it overwrites.
type Update struct {
	ID   string
	User map[string]any
}

// Plan is the stable partition of one import batch: records keep their
// input order within each slice, so dispatch order is reproducible given
// the same input and snapshot.
type Plan struct {
	Creates []map[string]any
	Updates []Update
}

// PlanError rejects an entire batch. It carries every problem found during
// the scan so callers report them all at once instead of one at a time.
type PlanError struct {
	Problems []string
}

func (e *PlanError) Error() string {
	return fmt.Sprintf("%d validation errors detected; import aborted: %s",
		len(e.Problems), strings.Join(e.Problems, "; "))
}

// Build classifies each record as create-new or update-existing by matching
// its normalized username against existing, a comparison-key → remote-id
// snapshot (see normalize.Key). Records without a username are skipped. A
// username whose key was already seen in this batch is recorded as a
// problem and excluded from both slices; the scan continues so every
// duplicate surfaces. If any problems were collected the whole plan fails;
// no partial plan is ever dispatched.
func Build(records []map[string]any, existing map[string]string) (*Plan, error) {
	plan := new(Plan)
	seen := sets.New[string]()
	var problems []string
	for _, rec := range records {
		username, _ := rec["username"].(string)
		if username == "" {
			continue
		}
		key := normalize.Key(username)
		if seen.Has(key) {
			problems = append(problems, fmt.Sprintf("duplicate username in import: %s", username))
			continue
		}
		seen.Add(key)
		if id, ok := existing[key]; ok {
			plan.Updates = append(plan.Updates, Update{ID: id, User: rec})
		} else {
			plan.Creates = append(plan.Creates, rec)
		}
	}
	if len(problems) > 0 {
		return nil, &PlanError{Problems: problems}
	}
	return plan, nil
}

// Snapshot builds the comparison-key → remote-id index Build consumes from
// raw directory user objects. Users lacking a username or id are ignored.
func Snapshot(users []map[string]any) map[string]string {
	existing := make(map[string]string, len(users))
	for _, u := range users {
		username, _ := u["username"].(string)
		id, _ := u["id"].(string)
		if username == "" || id == "" {
			continue
		}
		existing[normalize.Key(username)] = id
	}
	return existing
}
