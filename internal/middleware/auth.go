package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated requester, as supplied by the identity
// provider through a signed bearer token.
type Identity struct {
	UserID string `json:"uid"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// SignedDetails are the JWT claims the identity provider issues.
type SignedDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Uid   string `json:"uid"`
	jwt.RegisteredClaims
}

type contextKey string

const identityKey contextKey = "identity"

// Authentication validates the Bearer token and stores the requester
// identity in the request context.
func Authentication(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientToken := r.Header.Get("Authorization")
			if clientToken == "" {
				writeAuthError(w, "No Authorization header provided")
				return
			}

			// Token format should be "Bearer <token>"
			tokenParts := strings.Split(clientToken, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				writeAuthError(w, "Invalid Authorization format")
				return
			}

			claims, err := ValidateToken(tokenParts[1], secret)
			if err != nil {
				writeAuthError(w, err.Error())
				return
			}

			identity := Identity{UserID: claims.Uid, Name: claims.Name, Email: claims.Email}
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the requester stored by Authentication.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

// ValidateToken parses and verifies a signed token.
func ValidateToken(signedToken, secret string) (*SignedDetails, error) {
	token, err := jwt.ParseWithClaims(
		signedToken,
		&SignedDetails{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("token is invalid: %w", err)
	}

	claims, ok := token.Claims.(*SignedDetails)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}
	if claims.Uid == "" {
		return nil, fmt.Errorf("token is missing the uid claim")
	}
	return claims, nil
}

// GenerateToken issues a signed token for a requester. Used by tests and
// local tooling; production tokens come from the identity provider.
func GenerateToken(identity Identity, secret string, ttl time.Duration) (string, error) {
	claims := &SignedDetails{
		Name:  identity.Name,
		Email: identity.Email,
		Uid:   identity.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
