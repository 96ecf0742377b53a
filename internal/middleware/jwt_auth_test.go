package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/pklporto/backend/internal/models"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims *models.JwtCustomClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func validClaims(role string) *models.JwtCustomClaims {
	return &models.JwtCustomClaims{
		UserID:   1,
		Username: "alice",
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func runMiddleware(mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, *models.JwtCustomClaims, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *models.JwtCustomClaims
	handler := mw(func(c echo.Context) error {
		seen, _ = c.Get(ContextUserKey).(*models.JwtCustomClaims)
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return rec, seen, err
}

func TestJWTAuthValidToken(t *testing.T) {
	token := signToken(t, validClaims(models.RoleGuest), testSecret)
	_, seen, err := runMiddleware(JWTAuth(testSecret), "Bearer "+token)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if seen == nil || seen.UserID != 1 || seen.Username != "alice" {
		t.Errorf("claims = %+v, want alice's", seen)
	}
}

func TestJWTAuthRejectsMissingAndBadTokens(t *testing.T) {
	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"malformed header", "Bearer"},
		{"garbage token", "Bearer not.a.token"},
		{"wrong secret", "Bearer " + signTokenWrongSecret(t)},
		{"expired", "Bearer " + signExpired(t)},
	}
	for _, tc := range cases {
		_, _, err := runMiddleware(JWTAuth(testSecret), tc.header)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusUnauthorized {
			t.Errorf("%s: err = %v, want 401", tc.name, err)
		}
	}
}

func signTokenWrongSecret(t *testing.T) string {
	return signToken(t, validClaims(models.RoleGuest), "other-secret")
}

func signExpired(t *testing.T) string {
	claims := validClaims(models.RoleGuest)
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	return signToken(t, claims, testSecret)
}

func TestOptionalJWTAuthDegradesToGuest(t *testing.T) {
	// No header at all
	_, seen, err := runMiddleware(OptionalJWTAuth(testSecret), "")
	if err != nil {
		t.Fatalf("guest request error: %v", err)
	}
	if seen != nil {
		t.Errorf("guest request got claims %+v", seen)
	}

	// Invalid token is treated as guest, not rejected
	_, seen, err = runMiddleware(OptionalJWTAuth(testSecret), "Bearer "+signTokenWrongSecret(t))
	if err != nil {
		t.Fatalf("invalid-token request error: %v", err)
	}
	if seen != nil {
		t.Errorf("invalid token got claims %+v", seen)
	}

	// Valid token is honored
	token := signToken(t, validClaims(models.RoleGuest), testSecret)
	_, seen, err = runMiddleware(OptionalJWTAuth(testSecret), "Bearer "+token)
	if err != nil {
		t.Fatalf("valid-token request error: %v", err)
	}
	if seen == nil || seen.UserID != 1 {
		t.Errorf("valid token claims = %+v, want alice's", seen)
	}
}

func TestAdminOnly(t *testing.T) {
	token := signToken(t, validClaims(models.RoleGuest), testSecret)
	chained := func(next echo.HandlerFunc) echo.HandlerFunc {
		return JWTAuth(testSecret)(AdminOnly()(next))
	}
	_, _, err := runMiddleware(chained, "Bearer "+token)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Errorf("guest through AdminOnly = %v, want 403", err)
	}

	adminToken := signToken(t, validClaims(models.RoleAdmin), testSecret)
	_, seen, err := runMiddleware(chained, "Bearer "+adminToken)
	if err != nil {
		t.Fatalf("admin request error: %v", err)
	}
	if seen == nil || seen.Role != models.RoleAdmin {
		t.Errorf("admin claims = %+v", seen)
	}
}
