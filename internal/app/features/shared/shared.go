// internal/app/features/shared/shared.go

// Package shared holds the small helpers every feature handler uses:
// URL-param parsing, payload validation, and free-text sanitization.
package shared

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/danielhkim/shepherdhub/internal/app/system/apperr"
	"github.com/danielhkim/shepherdhub/internal/app/system/authz"
)

var validate = validator.New()

// ugc allows the light formatting users paste into content fields;
// everything script-shaped is stripped before storage.
var ugc = bluemonday.UGCPolicy()

// URLInt parses a chi URL parameter as a positive integer id.
func URLInt(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, apperr.Validationf("invalid %s", name)
	}
	return id, nil
}

// QueryInt parses an optional integer query parameter. Absent returns
// (nil, nil); malformed is a validation error.
func QueryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperr.Validationf("invalid %s", name)
	}
	return &n, nil
}

// DepartmentParam resolves the optional department_id query parameter
// against the caller's scope. A scope spanning all departments may name
// any department; everyone else may name only their own, and naming a
// different one is an authorization error, never a silent re-scope.
func DepartmentParam(r *http.Request, scope authz.Scope) (*int, error) {
	requested, err := QueryInt(r, "department_id")
	if err != nil {
		return nil, err
	}
	if scope.AllDepartments {
		return requested, nil
	}
	own := scope.DepartmentID
	if requested != nil && *requested != own {
		return nil, apperr.Forbiddenf("department %d is outside your scope", *requested)
	}
	return &own, nil
}

// Validate runs struct-tag validation and converts failures into the
// validation error category.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			f := verrs[0]
			return apperr.Validationf("field %s failed on %s", f.Field(), f.Tag())
		}
		return apperr.Validationf("invalid payload")
	}
	return nil
}

// CleanText sanitizes a free-text field before storage.
func CleanText(s string) string {
	return ugc.Sanitize(s)
}

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// RequireDate validates a mandatory date field.
func RequireDate(s, field string) error {
	if !ValidDate(s) {
		return apperr.Validationf("%s must be YYYY-MM-DD", field)
	}
	return nil
}

// NotFoundAs converts a store miss into the not-found category, leaving
// other errors untouched.
func NotFoundAs(err error, what string) error {
	if err == mongo.ErrNoDocuments {
		return apperr.NotFoundf("%s not found", what)
	}
	return err
}
