// Package bulk drives create, update and delete batches against a remote
// user directory one item at a time, reporting progress after every item
// and collecting per-item failures without aborting the batch.
package bulk

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pingone-tools/p1admin/internal/apilog"
	"github.com/pingone-tools/p1admin/internal/reconcile"
)

// Directory is the remote user store a dispatcher operates on.
// Authenticate must be cheap to call repeatedly; implementations cache
// their token.
type Directory interface {
	Authenticate(ctx context.Context) error
	CreateUser(ctx context.Context, user map[string]any) error
	UpdateUser(ctx context.Context, id string, user map[string]any) error
	DeleteUser(ctx context.Context, id string) error
}

// Result summarizes one dispatched batch.
type Result struct {
	Succeeded int
	Total     int
	Errors    []string
}

// Dispatcher runs batches sequentially. Progress, when set, is invoked
// after every item with the number of items finished so far and the batch
// total; it fires for failures too.
type Dispatcher struct {
	Dir      Directory
	Progress func(completed, total int)
	Log      *apilog.Recorder
}

func New(dir Directory) *Dispatcher {
	return &Dispatcher{Dir: dir}
}

// Creates provisions each user in order. Authentication failure aborts the
// whole batch before any item is attempted.
func (d *Dispatcher) Creates(ctx context.Context, users []map[string]any) (*Result, error) {
	return d.run(ctx, len(users), "create", func(i int) (string, error) {
		return Identify(users[i], i), d.Dir.CreateUser(ctx, users[i])
	})
}

// Updates applies each planned update in order.
func (d *Dispatcher) Updates(ctx context.Context, updates []reconcile.Update) (*Result, error) {
	return d.run(ctx, len(updates), "update", func(i int) (string, error) {
		var (
			u     = updates[i]
			ident = u.ID
		)
		if s, ok := u.User["username"].(string); ok && strings.TrimSpace(s) != "" {
			ident = s
		}
		if ident == "" {
			ident = fmt.Sprintf("item %d", i+1)
		}
		return ident, d.Dir.UpdateUser(ctx, u.ID, u.User)
	})
}

// Deletes removes each user in order. Items without an id are recorded as
// failures and skipped.
func (d *Dispatcher) Deletes(ctx context.Context, users []map[string]any) (*Result, error) {
	return d.run(ctx, len(users), "delete", func(i int) (string, error) {
		var (
			user  = users[i]
			ident = Identify(user, i)
		)
		id, _ := user["id"].(string)
		if id == "" {
			return ident, errors.New("missing id")
		}
		return ident, d.Dir.DeleteUser(ctx, id)
	})
}

func (d *Dispatcher) run(ctx context.Context, total int, verb string, do func(i int) (string, error)) (res *Result, err error) {
	if err = d.Dir.Authenticate(ctx); err != nil {
		err = fmt.Errorf("authenticate: %w", err)
		return
	}
	res = &Result{Total: total}
	for i := 0; i < total; i++ {
		ident, itemErr := do(i)
		if itemErr != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", ident, itemErr))
			d.logConn("%s FAILED for user=%s: %v", strings.ToUpper(verb), ident, itemErr)
		} else {
			res.Succeeded++
		}
		if d.Progress != nil {
			d.Progress(i+1, total)
		}
	}
	d.logCall("Bulk %s completed: %d/%d", verb, res.Succeeded, total)
	return
}

// Identify picks the name used in error messages for one item: username
// when present, then id, then the 1-based position.
func Identify(user map[string]any, index int) string {
	if s, ok := user["username"].(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	if s, ok := user["id"].(string); ok && s != "" {
		return s
	}
	return fmt.Sprintf("item %d", index+1)
}

func (d *Dispatcher) logCall(format string, args ...any) {
	if d.Log != nil {
		d.Log.Call(format, args...)
	}
}

func (d *Dispatcher) logConn(format string, args ...any) {
	if d.Log != nil {
		d.Log.Connection(format, args...)
	}
}
