package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func callAdmin(token, header string) int {
	h := AdminAuth(token)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestAdminAuth_ValidToken(t *testing.T) {
	assert.Equal(t, http.StatusOK, callAdmin("s3cret", "Bearer s3cret"))
}

func TestAdminAuth_WrongToken(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, callAdmin("s3cret", "Bearer nope"))
}

func TestAdminAuth_MissingHeader(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, callAdmin("s3cret", ""))
}

func TestAdminAuth_DisabledWithoutConfiguredToken(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, callAdmin("", "Bearer anything"))
}
