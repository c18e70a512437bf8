package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestGenerateAndValidateToken(t *testing.T) {
	identity := Identity{UserID: "user_1", Name: "Maria", Email: "maria@example.com"}

	token, err := GenerateToken(identity, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ValidateToken(token, testSecret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Uid != "user_1" || claims.Name != "Maria" || claims.Email != "maria@example.com" {
		t.Errorf("claims did not round-trip: %+v", claims)
	}
}

func TestValidateTokenRejections(t *testing.T) {
	identity := Identity{UserID: "user_1", Name: "Maria", Email: "maria@example.com"}

	t.Run("wrong secret", func(t *testing.T) {
		token, err := GenerateToken(identity, testSecret, time.Hour)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := ValidateToken(token, "other-secret"); err == nil {
			t.Error("expected error for a token signed with a different secret")
		}
	})

	t.Run("expired", func(t *testing.T) {
		token, err := GenerateToken(identity, testSecret, -time.Minute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := ValidateToken(token, testSecret); err == nil {
			t.Error("expected error for an expired token")
		}
	})

	t.Run("missing uid", func(t *testing.T) {
		token, err := GenerateToken(Identity{Name: "NoUid"}, testSecret, time.Hour)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := ValidateToken(token, testSecret); err == nil {
			t.Error("expected error for a token without a uid claim")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := ValidateToken("not.a.token", testSecret); err == nil {
			t.Error("expected error for a malformed token")
		}
	})
}

func TestAuthenticationMiddleware(t *testing.T) {
	identity := Identity{UserID: "user_1", Name: "Maria", Email: "maria@example.com"}
	token, err := GenerateToken(identity, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var captured Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Error("expected identity in the request context")
		}
		captured = got
		w.WriteHeader(http.StatusOK)
	})
	handler := Authentication(testSecret)(next)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"no header", "", http.StatusUnauthorized},
		{"missing bearer prefix", token, http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"bad token", "Bearer garbage", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/reservations", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}

	if captured.UserID != "user_1" {
		t.Errorf("expected captured identity user_1, got %q", captured.UserID)
	}
}
