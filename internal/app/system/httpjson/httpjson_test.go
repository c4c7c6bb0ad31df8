package httpjson_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkim/shepherdhub/internal/app/system/apperr"
	"github.com/danielhkim/shepherdhub/internal/app/system/httpjson"
)

func TestFailStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperr.Validationf("bad date"), http.StatusBadRequest},
		{"forbidden", apperr.Forbiddenf("wrong department"), http.StatusForbidden},
		{"not found", apperr.NotFoundf("member 9 not found"), http.StatusNotFound},
		{"uncategorized", errors.New("socket closed"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			httpjson.Fail(w, c.err)
			if w.Code != c.want {
				t.Errorf("status = %d, want %d", w.Code, c.want)
			}
		})
	}
}

func TestFailHidesInternalDetail(t *testing.T) {
	w := httptest.NewRecorder()
	httpjson.Fail(w, errors.New("dial tcp 10.0.0.5:27017: connection refused"))
	if strings.Contains(w.Body.String(), "27017") {
		t.Error("500 body must not leak the underlying error text")
	}
	if !strings.Contains(w.Body.String(), "internal server error") {
		t.Errorf("unexpected 500 body: %s", w.Body.String())
	}
}

func TestRespondSetsContentType(t *testing.T) {
	w := httptest.NewRecorder()
	httpjson.Respond(w, http.StatusCreated, map[string]int{"id": 3})
	if got := w.Header().Get("Content-Type"); !strings.HasPrefix(got, "application/json") {
		t.Errorf("Content-Type = %q", got)
	}
	if w.Code != http.StatusCreated {
		t.Errorf("status = %d", w.Code)
	}
}

func TestDecodeMalformedBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	var dst struct{ Name string }
	err := httpjson.Decode(r, &dst)
	if !apperr.IsValidation(err) {
		t.Errorf("malformed body should be a validation error, got %v", err)
	}
}

func TestDecodeValidBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Middle School"}`))
	var dst struct {
		Name string `json:"name"`
	}
	if err := httpjson.Decode(r, &dst); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dst.Name != "Middle School" {
		t.Errorf("name = %q", dst.Name)
	}
}
