package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Brunux-hub/Cafe-eria.hub/internal/domain"
)

func TestToDomainErrorSentinels(t *testing.T) {
	cases := []struct {
		err    error
		code   string
		status int
	}{
		{domain.ErrInvalidCredential, "UNAUTHORIZED", http.StatusUnauthorized},
		{domain.ErrInactiveAccount, "FORBIDDEN", http.StatusForbidden},
		{domain.ErrTokenExpired, "UNAUTHORIZED", http.StatusUnauthorized},
		{domain.ErrTokenSuperseded, "UNAUTHORIZED", http.StatusUnauthorized},
		{domain.ErrEmailTaken, "CONFLICT", http.StatusConflict},
		{domain.ErrStoreUnavailable, "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable},
		{pgx.ErrNoRows, "NOT_FOUND", http.StatusNotFound},
		{errors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		got := ToDomainError(tc.err)
		if got.Code != tc.code || got.HTTPStatus != tc.status {
			t.Errorf("ToDomainError(%v) = %s/%d, want %s/%d",
				tc.err, got.Code, got.HTTPStatus, tc.code, tc.status)
		}
	}
}

func TestToDomainErrorWrappedSentinel(t *testing.T) {
	wrapped := fmt.Errorf("%w: dial tcp: connection refused", domain.ErrStoreUnavailable)
	got := ToDomainError(wrapped)
	if got.HTTPStatus != http.StatusServiceUnavailable {
		t.Fatalf("wrapped store error must stay 503, got %d", got.HTTPStatus)
	}
}

func TestToDomainErrorUniqueViolation(t *testing.T) {
	// A registration losing the race against the users.email unique index
	// must answer 409 like the sequential duplicate check, not 500.
	emailErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	got := ToDomainError(emailErr)
	if got.HTTPStatus != http.StatusConflict {
		t.Fatalf("email unique violation must map to 409, got %d", got.HTTPStatus)
	}
	if got.Message != "email already registered" {
		t.Fatalf("unexpected message %q", got.Message)
	}

	otherErr := &pgconn.PgError{Code: "23505", ConstraintName: "promotion_products_pkey"}
	got = ToDomainError(otherErr)
	if got.Code != "CONFLICT" || got.HTTPStatus != http.StatusConflict {
		t.Fatalf("unique violation must map to CONFLICT/409, got %s/%d", got.Code, got.HTTPStatus)
	}

	notUnique := &pgconn.PgError{Code: "23503"}
	if got = ToDomainError(notUnique); got.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("non-unique pg errors must stay 500, got %d", got.HTTPStatus)
	}
}
