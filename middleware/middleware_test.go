package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"voyagr/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

func signToken(t *testing.T, secret []byte, exp time.Time) string {
	t.Helper()
	claims := &Claims{
		Username: "traveler",
		UserID:   "u123",
		Role:     []string{"user"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestAuthenticateInjectsUserID(t *testing.T) {
	var gotUID string
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotUID, _ = r.Context().Value(globals.UserIDKey).(string)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, globals.JwtSecret, time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()
	handler(rec, req, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUID != "u123" {
		t.Errorf("uid = %q, want %q", gotUID, "u123")
	}
}

func TestAuthenticateRejects(t *testing.T) {
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Error("handler reached without valid token")
	})

	cases := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"malformed", "not-a-bearer"},
		{"bad signature", "Bearer " + signToken(t, []byte("wrong_secret"), time.Now().Add(time.Hour))},
		{"expired", "Bearer " + signToken(t, globals.JwtSecret, time.Now().Add(-time.Hour))},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if c.token != "" {
				req.Header.Set("Authorization", c.token)
			}
			rec := httptest.NewRecorder()
			handler(rec, req, nil)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestOptionalAuthProceedsWithoutToken(t *testing.T) {
	called := false
	handler := OptionalAuth(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
		if uid, _ := r.Context().Value(globals.UserIDKey).(string); uid != "" {
			t.Errorf("uid = %q, want empty", uid)
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	rec := httptest.NewRecorder()
	handler(rec, req, nil)
	if !called {
		t.Error("inner handler not called")
	}
}

func TestValidateJWT(t *testing.T) {
	raw := "Bearer " + signToken(t, globals.JwtSecret, time.Now().Add(time.Hour))
	claims, err := ValidateJWT(raw)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.UserID != "u123" || claims.Username != "traveler" {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := ValidateJWT(""); err == nil {
		t.Error("empty token accepted")
	}
	if _, err := ValidateJWT("Bearer garbage"); err == nil {
		t.Error("garbage token accepted")
	}
}
