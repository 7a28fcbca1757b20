package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avenside/inkpost-be/internal/models"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	Init("test-secret")
	user := models.User{ID: "user-1", Username: "alice"}

	token, err := GenerateJWT(user)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT failed: %v", err)
	}
	if claims.UserID != "user-1" || claims.Username != "alice" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	Init("test-secret")
	if _, err := ValidateJWT("not.a.token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestValidateJWTRejectsForeignSecret(t *testing.T) {
	Init("first-secret")
	token, err := GenerateJWT(models.User{ID: "user-1", Username: "alice"})
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	Init("second-secret")
	if _, err := ValidateJWT(token); err == nil {
		t.Fatal("expected rejection of token signed under a different secret")
	}
}

func TestJWTMiddleware(t *testing.T) {
	Init("test-secret")
	protected := JWTMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(UserClaimsKey).(*Claims)
		if !ok {
			t.Error("claims missing from request context")
		}
		if claims.UserID != "user-1" {
			t.Errorf("unexpected user ID %q", claims.UserID)
		}
		w.WriteHeader(http.StatusOK)
	}))

	token, err := GenerateJWT(models.User{ID: "user-1", Username: "alice"})
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
