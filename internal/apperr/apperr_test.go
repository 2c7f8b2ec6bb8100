package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestTypedErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		check  func(error) bool
	}{
		{name: "not_found", err: NotFound("room"), status: http.StatusNotFound, check: IsNotFound},
		{name: "forbidden", err: Forbidden("already reviewed"), status: http.StatusForbidden, check: IsForbidden},
		{name: "unauthorized", err: Unauthorized("missing token"), status: http.StatusUnauthorized, check: IsUnauthorized},
		{name: "validation", err: Validation("direction", "must be North or South"), status: http.StatusBadRequest, check: IsValidation},
		{name: "conflict", err: Conflict("duplicate group number"), status: http.StatusConflict, check: IsConflict},
		{name: "upstream", err: Upstream(errors.New("calendar api unreachable")), status: http.StatusBadGateway, check: IsUpstream},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var ae *Error
			if !errors.As(tc.err, &ae) {
				t.Fatalf("expected *Error, got %T", tc.err)
			}
			if ae.Status != tc.status {
				t.Fatalf("status: expected %d, got %d", tc.status, ae.Status)
			}
			if !tc.check(tc.err) {
				t.Fatalf("code check failed for %v", tc.err)
			}
		})
	}
}

func TestWrappedErrorStaysTyped(t *testing.T) {
	err := fmt.Errorf("list events: %w", NotFound("group"))
	if !IsNotFound(err) {
		t.Fatalf("wrapped error lost its code: %v", err)
	}
	if IsConflict(err) {
		t.Fatalf("wrong code matched: %v", err)
	}
}

func TestValidationCarriesField(t *testing.T) {
	var ae *Error
	if !errors.As(Validation("number", "required"), &ae) {
		t.Fatal("expected *Error")
	}
	if ae.Field != "number" {
		t.Fatalf("expected field %q, got %q", "number", ae.Field)
	}
}
