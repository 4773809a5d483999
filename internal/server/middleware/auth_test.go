package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticClaims struct {
	userID uuid.UUID
	role   string
}

func (c *staticClaims) GetUserID() uuid.UUID { return c.userID }
func (c *staticClaims) GetRole() string      { return c.role }

type staticValidator struct {
	claims    ClaimsGetter
	err       error
	lastToken string
}

func (v *staticValidator) ValidateToken(tokenString string) (ClaimsGetter, error) {
	v.lastToken = tokenString
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	userID := uuid.New()
	validator := &staticValidator{claims: &staticClaims{userID: userID, role: "CANDIDATE"}}

	var gotUserID uuid.UUID
	var gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		gotUserID, err = GetUserID(r)
		require.NoError(t, err)
		gotRole, err = GetRole(r)
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()

	AuthMiddleware(validator)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "some-token", validator.lastToken)
	assert.Equal(t, userID, gotUserID)
	assert.Equal(t, "CANDIDATE", gotRole)
}

func TestAuthMiddleware_CaseInsensitiveBearer(t *testing.T) {
	validator := &staticValidator{claims: &staticClaims{userID: uuid.New(), role: "COMPANY"}}
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer some-token")
	rec := httptest.NewRecorder()

	AuthMiddleware(validator)(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
		err    error
	}{
		{name: "missing header", header: ""},
		{name: "not bearer", header: "Basic dXNlcjpwYXNz"},
		{name: "empty token", header: "Bearer "},
		{name: "invalid token", header: "Bearer bad", err: fmt.Errorf("invalid signature")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := &staticValidator{
				claims: &staticClaims{userID: uuid.New(), role: "CANDIDATE"},
				err:    tt.err,
			}
			next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				t.Fatal("handler must not run")
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(validator)(next).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestGetUserID_MissingFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := GetUserID(req)
	assert.Error(t, err)

	_, err = GetRole(req)
	assert.Error(t, err)
}
