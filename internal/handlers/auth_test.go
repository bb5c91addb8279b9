package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	env := newTestEnv()

	w := env.do(t, http.MethodPost, "/api/users", "", gin.H{
		"name": " Priya ", "email": "priya@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode[map[string]interface{}](t, w)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "Priya", user["name"])
	assert.Equal(t, "priya@example.com", user["email"])
	assert.NotContains(t, w.Body.String(), "password")

	claims, err := env.jwt.ValidateToken(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, user["id"], claims.UserID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	env := newTestEnv()
	env.register(t, "priya")

	w := env.do(t, http.MethodPost, "/api/users", "", gin.H{
		"name": "Other", "email": "PRIYA@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User already exists", errorOf(t, w))
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv()

	tests := []struct {
		name string
		body interface{}
	}{
		{"missing name", gin.H{"email": "a@example.com", "password": "secret123"}},
		{"blank name", gin.H{"name": "  ", "email": "a@example.com", "password": "secret123"}},
		{"bad email", gin.H{"name": "A", "email": "not-an-email", "password": "secret123"}},
		{"short password", gin.H{"name": "A", "email": "a@example.com", "password": "12345"}},
		{"long password", gin.H{"name": "A", "email": "a@example.com", "password": strings.Repeat("a", 80)}},
		{"long multibyte password", gin.H{"name": "A", "email": "a@example.com", "password": strings.Repeat("é", 40)}},
		{"not json", "{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/users", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv()
	id := env.register(t, "arjun")

	t.Run("valid credentials", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth", "", gin.H{"email": "arjun@example.com", "password": "secret123"})
		require.Equal(t, http.StatusOK, w.Code)
		body := decode[map[string]interface{}](t, w)
		assert.NotEmpty(t, body["token"])
		assert.Equal(t, id, body["user"].(map[string]interface{})["id"])
	})

	t.Run("wrong password", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth", "", gin.H{"email": "arjun@example.com", "password": "wrong-one"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid credentials", errorOf(t, w))
	})

	t.Run("unknown email", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth", "", gin.H{"email": "ghost@example.com", "password": "secret123"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid credentials", errorOf(t, w))
	})
}

func TestMe(t *testing.T) {
	env := newTestEnv()
	id := env.register(t, "meera")

	w := env.do(t, http.MethodGet, "/api/auth", id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[map[string]interface{}](t, w)
	assert.Equal(t, "meera", body["name"])
	assert.Equal(t, []interface{}{}, body["saved_recipes"])
	assert.Equal(t, []interface{}{}, body["grocery_lists"])
	assert.NotContains(t, body, "password_hash")

	t.Run("without user", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/auth", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("deleted user", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/auth", "8b0f6c1e-2f4c-4a53-9d1e-3f7f0c2b9a11", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestForgotPassword(t *testing.T) {
	env := newTestEnv()
	env.register(t, "kavya")

	w := env.do(t, http.MethodPost, "/api/auth/forgot-password", "", gin.H{"email": "kavya@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/forgot-password", "", gin.H{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User with this email does not exist", errorOf(t, w))
}
