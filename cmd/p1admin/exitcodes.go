package main

import (
	"github.com/pingone-tools/p1admin/internal/attrmap"
	"github.com/pingone-tools/p1admin/internal/importer"
	"github.com/pingone-tools/p1admin/internal/pingone"
	"github.com/pingone-tools/p1admin/internal/reconcile"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitValidation = 2
	exitUsage      = 3
	exitAuth       = 4
	exitAPI        = 5
	exitPartial    = 6
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

// mapCode classifies errors that bubble up uncoded: refused credentials,
// validation-class aborts, API failures.
func mapCode(err error) error {
	if err == nil {
		return nil
	}
	var ce *cliError
	if as(err, &ce) {
		return err
	}
	if is(err, pingone.ErrAuthFailed) {
		return withCode(exitAuth, err)
	}
	var (
		targetErr *attrmap.TargetError
		planErr   *reconcile.PlanError
		valErr    *importer.ValidationError
	)
	if as(err, &targetErr) || as(err, &planErr) || as(err, &valErr) {
		return withCode(exitValidation, err)
	}
	var apiErr *pingone.APIError
	if as(err, &apiErr) {
		return withCode(exitAPI, err)
	}
	return err
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if ok := as(err, &ce); ok {
		return ce.code
	}
	return 1
}
