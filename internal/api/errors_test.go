package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/rxstudy-api/internal/domain/stats"
	"github.com/phrazzld/rxstudy-api/internal/service"
	"github.com/phrazzld/rxstudy-api/internal/service/auth"
	"github.com/phrazzld/rxstudy-api/internal/service/review"
	"github.com/phrazzld/rxstudy-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"Invalid Token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"Expired Token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"Wrong Token Type", auth.ErrWrongTokenType, http.StatusUnauthorized},
		{"Invalid Credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"Not Owned", service.ErrNotOwned, http.StatusForbidden},
		{"User Not Found", store.ErrUserNotFound, http.StatusNotFound},
		{"Drug Not Found", store.ErrDrugNotFound, http.StatusNotFound},
		{"Review Drug Not Found", review.ErrDrugNotFound, http.StatusNotFound},
		{"Session Not Found", store.ErrSessionNotFound, http.StatusNotFound},
		{"Note Not Found", store.ErrNoteNotFound, http.StatusNotFound},
		{"Email Exists", store.ErrEmailExists, http.StatusConflict},
		{"Bookmark Exists", store.ErrBookmarkExists, http.StatusConflict},
		{"Session Completed", stats.ErrSessionCompleted, http.StatusConflict},
		{"Invalid Entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"Empty Quiz Pool", service.ErrEmptyQuizPool, http.StatusBadRequest},
		{"No Cards Due", review.ErrNoCardsDue, http.StatusNoContent},
		{"Unknown Error", errors.New("something broke"), http.StatusInternalServerError},
		{"Wrapped Error", fmt.Errorf("loading: %w", store.ErrDrugNotFound), http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := MapErrorToStatusCode(tc.err); got != tc.expected {
				t.Errorf("unexpected status code: got %d want %d", got, tc.expected)
			}
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Nil Error", nil, "An unexpected error occurred"},
		{"Expired Token", auth.ErrExpiredToken, "Token expired"},
		{"Invalid Credentials", auth.ErrInvalidCredentials, "Invalid email or password"},
		{"Drug Not Found", store.ErrDrugNotFound, "Drug not found"},
		{"Email Exists", store.ErrEmailExists, "Email already exists"},
		{"Unknown Error", errors.New("pq: relation does not exist"), "An unexpected error occurred"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := GetSafeErrorMessage(tc.err); got != tc.expected {
				t.Errorf("unexpected message: got %q want %q", got, tc.expected)
			}
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	err := errors.New(
		"Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag",
	)
	got := SanitizeValidationError(err)
	want := "Invalid Email: required field"
	if got != want {
		t.Errorf("unexpected sanitized message: got %q want %q", got, want)
	}

	if got := SanitizeValidationError(errors.New("boom")); got != "Validation error" {
		t.Errorf("expected generic validation message, got %q", got)
	}
}
