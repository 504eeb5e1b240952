package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/launchforge/accel-api/internal/models"
)

func TestGenerateAndValidateToken(t *testing.T) {
	service := NewJWTService("test-secret")
	startupID := uuid.New()
	claims := Claims{
		UserID:    uuid.New(),
		Email:     "founder@example.com",
		Role:      models.RoleFounder,
		StartupID: &startupID,
	}

	token, expiresAt, err := service.GenerateToken(claims)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if expiresAt.IsZero() {
		t.Error("expected expiry to be set")
	}

	parsed, err := service.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if parsed.UserID != claims.UserID {
		t.Errorf("expected user ID %s, got %s", claims.UserID, parsed.UserID)
	}
	if parsed.Role != models.RoleFounder {
		t.Errorf("expected role founder, got %s", parsed.Role)
	}
	if parsed.StartupID == nil || *parsed.StartupID != startupID {
		t.Errorf("expected startup ID %s, got %v", startupID, parsed.StartupID)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	service := NewJWTService("secret-a")
	token, _, err := service.GenerateToken(Claims{UserID: uuid.New(), Role: models.RolePartner})
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	other := NewJWTService("secret-b")
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("expected validation to fail with wrong secret")
	}
}

func TestTokenTypesDoNotCrossOver(t *testing.T) {
	service := NewJWTService("test-secret")
	claims := Claims{UserID: uuid.New(), Email: "partner@example.com", Role: models.RolePartner}

	sessionToken, _, err := service.GenerateToken(claims)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	refreshToken, _, err := service.GenerateRefreshToken(claims)
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	if _, err := service.ValidateToken(refreshToken); err == nil {
		t.Error("refresh token must not validate as a session token")
	}
	if _, err := service.ValidateRefreshToken(sessionToken); err == nil {
		t.Error("session token must not validate as a refresh token")
	}

	parsed, err := service.ValidateRefreshToken(refreshToken)
	if err != nil {
		t.Fatalf("ValidateRefreshToken failed: %v", err)
	}
	if parsed.UserID != claims.UserID {
		t.Errorf("expected user ID %s, got %s", claims.UserID, parsed.UserID)
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	service := NewJWTService("test-secret")
	if _, err := service.ValidateToken("not.a.token"); err == nil {
		t.Error("expected validation to fail for garbage input")
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !CheckPassword("correct-horse-battery", hash) {
		t.Error("expected matching password to verify")
	}
	if CheckPassword("wrong-password", hash) {
		t.Error("expected wrong password to fail")
	}
}

func TestHashPasswordTooShort(t *testing.T) {
	if _, err := HashPassword("short"); err == nil {
		t.Error("expected error for short password")
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		role       string
		required   string
		wantStatus int
	}{
		{"partner allowed", models.RolePartner, models.RolePartner, http.StatusOK},
		{"founder blocked from partner route", models.RoleFounder, models.RolePartner, http.StatusForbidden},
		{"missing role blocked", "", models.RolePartner, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/protected", func(c *gin.Context) {
				if tt.role != "" {
					c.Set(UserRoleKey, tt.role)
				}
			}, RequireRole(tt.required), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestJWTMiddlewareCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	secret := "test-secret"
	service := NewJWTService(secret)
	token, _, err := service.GenerateToken(Claims{UserID: uuid.New(), Role: models.RolePartner})
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	router := gin.New()
	router.GET("/me", JWTMiddleware(secret), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with valid cookie, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without credentials, got %d", w.Code)
	}
}
