package auth

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/RohithDharshan/campusflow/pkg/types"
)

func TestAuthenticateSuccess(t *testing.T) {
	a := &TokenAuthenticator{Token: "secret"}
	r := httptest.NewRequest("GET", "/v1/approvals/pending", nil)
	r.Header.Set("Authorization", "Bearer secret")
	r.Header.Set("X-Actor", "coord@campus.edu")
	r.Header.Set("X-Actor-Name", "Dr. S. Lakshmi")
	r.Header.Set("X-Actor-Role", "coordinator")
	r.Header.Set("X-Actor-Department", "CSE")

	claims, err := a.Authenticate(r)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if claims.Subject != "coord@campus.edu" || claims.Role != types.RoleCoordinator || claims.Department != "CSE" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestAuthenticateMissingBearer(t *testing.T) {
	a := &TokenAuthenticator{Token: "secret"}
	r := httptest.NewRequest("GET", "/", nil)
	if _, err := a.Authenticate(r); !errors.Is(err, ErrMissingBearer) {
		t.Fatalf("expected ErrMissingBearer, got %v", err)
	}
}

func TestAuthenticateWrongToken(t *testing.T) {
	a := &TokenAuthenticator{Token: "secret"}
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer nope")
	if _, err := a.Authenticate(r); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthenticateEmptyConfiguredToken(t *testing.T) {
	a := &TokenAuthenticator{}
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer anything")
	if _, err := a.Authenticate(r); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthenticateRejectsUnknownRole(t *testing.T) {
	a := &TokenAuthenticator{Token: "secret"}
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer secret")
	r.Header.Set("X-Actor-Role", "registrar")
	if _, err := a.Authenticate(r); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestAuthenticateAnonymousSubjectFallback(t *testing.T) {
	a := &TokenAuthenticator{Token: "secret"}
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer secret")
	claims, err := a.Authenticate(r)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if claims.Subject != "anonymous" {
		t.Fatalf("expected anonymous fallback, got %q", claims.Subject)
	}
}
