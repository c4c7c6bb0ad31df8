package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/danielhkim/shepherdhub/internal/app/system/apperr"
)

func TestCategories(t *testing.T) {
	v := apperr.Validationf("date %q is malformed", "2026-13-40")
	f := apperr.Forbiddenf("cannot delete own account")
	n := apperr.NotFoundf("member %d not found", 42)

	if !apperr.IsValidation(v) || apperr.IsForbidden(v) || apperr.IsNotFound(v) {
		t.Error("validation error misclassified")
	}
	if !apperr.IsForbidden(f) || apperr.IsValidation(f) {
		t.Error("forbidden error misclassified")
	}
	if !apperr.IsNotFound(n) || apperr.IsForbidden(n) {
		t.Error("not-found error misclassified")
	}
}

func TestWrappedErrorsKeepCategory(t *testing.T) {
	inner := apperr.NotFoundf("visit %d not found", 7)
	outer := fmt.Errorf("load visit: %w", inner)
	if !apperr.IsNotFound(outer) {
		t.Error("wrapping must preserve the category")
	}
	if !errors.Is(outer, apperr.ErrNotFound) {
		t.Error("errors.Is must see the sentinel through wrapping")
	}
}

func TestMessagesCarryDetail(t *testing.T) {
	err := apperr.Validationf("status %q is not a valid attendance status", "maybe")
	want := `validation error: status "maybe" is not a valid attendance status`
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

func TestPlainErrorHasNoCategory(t *testing.T) {
	err := errors.New("write conflict")
	if apperr.IsValidation(err) || apperr.IsForbidden(err) || apperr.IsNotFound(err) {
		t.Error("uncategorized errors must not match any sentinel")
	}
}
