package bulk

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pingone-tools/p1admin/internal/reconcile"
)

type fakeDirectory struct {
	authErr   error
	failing   map[string]error
	authCalls int
	created   []string
	updated   []string
	deleted   []string
}

func (f *fakeDirectory) Authenticate(context.Context) error {
	f.authCalls++
	return f.authErr
}

func (f *fakeDirectory) CreateUser(_ context.Context, user map[string]any) error {
	username, _ := user["username"].(string)
	if err := f.failing[username]; err != nil {
		return err
	}
	f.created = append(f.created, username)
	return nil
}

func (f *fakeDirectory) UpdateUser(_ context.Context, id string, _ map[string]any) error {
	if err := f.failing[id]; err != nil {
		return err
	}
	f.updated = append(f.updated, id)
	return nil
}

func (f *fakeDirectory) DeleteUser(_ context.Context, id string) error {
	if err := f.failing[id]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func users(names ...string) []map[string]any {
	out := make([]map[string]any, 0, len(names))
	for _, n := range names {
		out = append(out, map[string]any{"username": n})
	}
	return out
}

func TestCreates_CollectsFailuresAndKeepsGoing(t *testing.T) {
	dir := &fakeDirectory{failing: map[string]error{"u3": errors.New("server said no")}}
	d := New(dir)

	var progress [][2]int
	d.Progress = func(completed, total int) {
		progress = append(progress, [2]int{completed, total})
	}

	res, err := d.Creates(context.Background(), users("u1", "u2", "u3", "u4", "u5"))
	require.NoError(t, err)

	assert.Equal(t, 4, res.Succeeded)
	assert.Equal(t, 5, res.Total)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "u3: server said no", res.Errors[0])
	assert.Equal(t, []string{"u1", "u2", "u4", "u5"}, dir.created)

	require.Len(t, progress, 5, "progress fires after every item, including the failed one")
	for i, p := range progress {
		assert.Equal(t, [2]int{i + 1, 5}, p)
	}
}

func TestCreates_AuthFailureAbortsBeforeAnyItem(t *testing.T) {
	authErr := errors.New("auth failed: check credentials")
	dir := &fakeDirectory{authErr: authErr}
	d := New(dir)

	var progressCalls int
	d.Progress = func(int, int) { progressCalls++ }

	res, err := d.Creates(context.Background(), users("u1", "u2"))
	require.Error(t, err)
	assert.ErrorIs(t, err, authErr)
	assert.Nil(t, res)
	assert.Zero(t, progressCalls)
	assert.Empty(t, dir.created)
	assert.Equal(t, 1, dir.authCalls)
}

func TestUpdates_UsesUsernameThenIDForErrors(t *testing.T) {
	dir := &fakeDirectory{failing: map[string]error{
		"id-1": errors.New("conflict"),
		"id-2": errors.New("gone"),
	}}
	d := New(dir)

	res, err := d.Updates(context.Background(), []reconcile.Update{
		{ID: "id-1", User: map[string]any{"username": "alice"}},
		{ID: "id-2", User: map[string]any{"email": "b@example.com"}},
		{ID: "id-3", User: map[string]any{"username": "carol"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, []string{"alice: conflict", "id-2: gone"}, res.Errors)
	assert.Equal(t, []string{"id-3"}, dir.updated)
}

func TestDeletes_RecordsMissingIDWithoutCallingRemote(t *testing.T) {
	dir := &fakeDirectory{}
	d := New(dir)

	var progress []int
	d.Progress = func(completed, _ int) { progress = append(progress, completed) }

	res, err := d.Deletes(context.Background(), []map[string]any{
		{"id": "id-1", "username": "alice"},
		{"username": "ghost"},
		{"id": "id-3"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, []string{"ghost: missing id"}, res.Errors)
	assert.Equal(t, []string{"id-1", "id-3"}, dir.deleted)
	assert.Equal(t, []int{1, 2, 3}, progress)
}

func TestCreates_IdentifierFallsBackToIDThenIndex(t *testing.T) {
	boom := errors.New("boom")
	dir := &fakeDirectory{failing: map[string]error{"": boom}}
	d := New(dir)

	res, err := d.Creates(context.Background(), []map[string]any{
		{"id": "id-9"},
		{"email": "anon@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"id-9: boom", "item 2: boom"}, res.Errors)
}

func TestEmptyBatchStillAuthenticates(t *testing.T) {
	dir := &fakeDirectory{}
	res, err := New(dir).Creates(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, &Result{Total: 0, Succeeded: 0}, res)
	assert.Equal(t, 1, dir.authCalls)
}
