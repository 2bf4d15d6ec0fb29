package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"staybook-backend/models"

	"github.com/gin-gonic/gin"
)

func requestContext(t *testing.T, authorization string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		c.Request.Header.Set("Authorization", authorization)
	}
	return c
}

func TestParseBearer_AcceptsBearerScheme(t *testing.T) {
	user := &models.User{ID: 42, Role: models.RoleAdmin}
	token, err := IssueToken(user, 1)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	userID, role, err := parseBearer(requestContext(t, "Bearer "+token))
	if err != nil {
		t.Fatalf("parse bearer: %v", err)
	}
	if userID != 42 {
		t.Fatalf("got user id %d, want 42", userID)
	}
	if role != models.RoleAdmin {
		t.Fatalf("got role %q, want %q", role, models.RoleAdmin)
	}
}

func TestParseBearer_RejectsMissingOrWrongScheme(t *testing.T) {
	token, err := IssueToken(&models.User{ID: 7, Role: models.RoleGuest}, 1)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"raw token without scheme", token},
		{"basic scheme", "Basic dXNlcjpwYXNz"},
		{"bare Bearer keyword", "Bearer"},
		{"empty bearer token", "Bearer   "},
		{"garbage token", "Bearer not-a-jwt"},
	}
	for _, tc := range cases {
		if _, _, err := parseBearer(requestContext(t, tc.header)); err == nil {
			t.Fatalf("%s: expected parse error", tc.name)
		}
	}
}

func TestParseBearer_UnknownRoleFallsBackToGuest(t *testing.T) {
	token, err := IssueToken(&models.User{ID: 9, Role: "superuser"}, 1)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	_, role, err := parseBearer(requestContext(t, "Bearer "+token))
	if err != nil {
		t.Fatalf("parse bearer: %v", err)
	}
	if role != models.RoleGuest {
		t.Fatalf("got role %q, want fallback %q", role, models.RoleGuest)
	}
}
