// Package importer runs the end-to-end import pipeline: mapped rows are
// shaped into user records, reconciled against the directory's current
// users, optionally validated server-side, then created and updated in
// bulk. Validation failures and plan conflicts abort before anything is
// written.
package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/pingone-tools/p1admin/internal/apilog"
	"github.com/pingone-tools/p1admin/internal/attrmap"
	"github.com/pingone-tools/p1admin/internal/bulk"
	"github.com/pingone-tools/p1admin/internal/dotpath"
	"github.com/pingone-tools/p1admin/internal/normalize"
	"github.com/pingone-tools/p1admin/internal/reconcile"
	"github.com/pingone-tools/p1admin/internal/source"
)

// Progress phases reported during a run.
const (
	PhaseValidate = "validate"
	PhaseCreate   = "create"
	PhaseUpdate   = "update"
)

// Directory is everything an import needs from the remote side.
type Directory interface {
	bulk.Directory
	ValidateUser(ctx context.Context, user map[string]any) error
	Populations(ctx context.Context) (map[string]string, error)
	AllUsers(ctx context.Context) ([]map[string]any, error)
}

// Options tune one import run.
type Options struct {
	Mapping attrmap.Mapping
	// Validate runs a server-side dry-run over every planned create first;
	// any failure aborts the run before a single write.
	Validate bool
	// DryRun stops after planning (and validation, when enabled) without
	// writing anything.
	DryRun   bool
	Progress func(phase string, completed, total int)
	Log      *apilog.Recorder
}

// Summary reports what a run did.
type Summary struct {
	Created      int      `json:"created"`
	CreatedTotal int      `json:"created_total"`
	Updated      int      `json:"updated"`
	UpdatedTotal int      `json:"updated_total"`
	Errors       []string `json:"errors,omitempty"`
}

func (s *Summary) String() string {
	return fmt.Sprintf("Created %d/%d users; Updated %d/%d users",
		s.Created, s.CreatedTotal, s.Updated, s.UpdatedTotal)
}

// ValidationError carries every server-side rejection from the dry-run
// phase. Nothing was written.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d users failed validation; nothing imported: %s",
		len(e.Problems), strings.Join(e.Problems, "; "))
}

// Records shapes raw table rows into directory-ready user records: map,
// unflatten, drop any system id, apply fixed overrides, then normalize.
func Records(table *source.Table, m attrmap.Mapping, populations map[string]string) (records []map[string]any) {
	for _, row := range table.Rows {
		user := dotpath.Unflatten(m.Apply(table.Headers, row))
		delete(user, "id")
		if m.FixedEnabled != nil {
			user["enabled"] = *m.FixedEnabled
		}
		normalize.Username(user)
		normalize.Population(user, populations, m.FixedPopulationID)
		normalize.ScrubEmptyKeys(user)
		records = append(records, user)
	}
	return
}

// Run executes one import. The returned summary covers both phases; the
// error is non-nil only when the run aborted (bad mapping, auth, plan
// conflicts, failed validation), never for individual item failures.
func Run(ctx context.Context, dir Directory, table *source.Table, opts Options) (*Summary, error) {
	if err := opts.Mapping.Validate(); err != nil {
		return nil, err
	}

	populations, err := dir.Populations(ctx)
	if err != nil {
		return nil, err
	}
	records := Records(table, opts.Mapping, populations)

	existing, err := dir.AllUsers(ctx)
	if err != nil {
		return nil, err
	}
	plan, err := reconcile.Build(records, reconcile.Snapshot(existing))
	if err != nil {
		return nil, err
	}

	summary := &Summary{CreatedTotal: len(plan.Creates), UpdatedTotal: len(plan.Updates)}

	if opts.Validate || opts.DryRun {
		if err := validateCreates(ctx, dir, plan.Creates, opts); err != nil {
			return nil, err
		}
	}
	if opts.DryRun {
		return summary, nil
	}

	d := bulk.New(dir)
	d.Log = opts.Log

	d.Progress = func(completed, total int) { report(opts, PhaseCreate, completed, total) }
	createRes, err := d.Creates(ctx, plan.Creates)
	if err != nil {
		return nil, err
	}
	summary.Created = createRes.Succeeded
	summary.Errors = append(summary.Errors, createRes.Errors...)

	d.Progress = func(completed, total int) { report(opts, PhaseUpdate, completed, total) }
	updateRes, err := d.Updates(ctx, plan.Updates)
	if err != nil {
		return nil, err
	}
	summary.Updated = updateRes.Succeeded
	summary.Errors = append(summary.Errors, updateRes.Errors...)

	return summary, nil
}

func validateCreates(ctx context.Context, dir Directory, creates []map[string]any, opts Options) error {
	var problems []string
	total := len(creates)
	for i, user := range creates {
		if err := dir.ValidateUser(ctx, user); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", bulk.Identify(user, i), err))
		}
		report(opts, PhaseValidate, i+1, total)
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func report(opts Options, phase string, completed, total int) {
	if opts.Progress != nil {
		opts.Progress(phase, completed, total)
	}
}
