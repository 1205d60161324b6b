package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todoapp/gobackend/internal/auth"
	"github.com/todoapp/gobackend/internal/config"
	"github.com/todoapp/gobackend/internal/constants"
	"github.com/todoapp/gobackend/internal/repository"
)

type authTestEnv struct {
	users   *repository.MemoryUserRepository
	jwt     *auth.JWTService
	handler *AuthHandler
}

func newAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()

	env := &authTestEnv{
		users: repository.NewMemoryUserRepository(),
	}
	env.jwt = auth.NewJWTService(&config.JWTSettings{
		Secret: "test-secret",
		Expiry: 15 * time.Minute,
		Issuer: "todoapp-test",
	}, time.Hour)
	env.handler = NewAuthHandler(env.users, env.jwt)
	return env
}

type loginBody struct {
	Success bool `json:"success"`
	Data    struct {
		Token string `json:"token"`
		User  struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	} `json:"data"`
}

func TestRegister(t *testing.T) {
	env := newAuthTestEnv(t)

	rec := postJSON(t, env.handler.Register, "/api/auth/signup", map[string]string{
		"name":             "Alice",
		"email":            "alice@example.com",
		"password":         "password-1",
		"confirm_password": "password-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var body loginBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Data.Token)
	assert.Equal(t, "alice@example.com", body.Data.User.Email)

	// The password hash never leaves the server.
	assert.NotContains(t, rec.Body.String(), "password")

	// The issued token is a usable access token.
	userID, err := env.jwt.ExtractUserIDFromToken(body.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, body.Data.User.ID, userID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newAuthTestEnv(t)

	first := postJSON(t, env.handler.Register, "/api/auth/signup", map[string]string{
		"name":             "Alice",
		"email":            "alice@example.com",
		"password":         "password-1",
		"confirm_password": "password-1",
	})
	require.Equal(t, http.StatusCreated, first.Code)

	second := postJSON(t, env.handler.Register, "/api/auth/signup", map[string]string{
		"name":             "Other Alice",
		"email":            "Alice@Example.com",
		"password":         "password-2",
		"confirm_password": "password-2",
	})
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestRegisterValidation(t *testing.T) {
	env := newAuthTestEnv(t)

	tests := map[string]map[string]string{
		"password mismatch": {
			"name":             "Alice",
			"email":            "alice@example.com",
			"password":         "password-1",
			"confirm_password": "password-2",
		},
		"short password": {
			"name":             "Alice",
			"email":            "alice@example.com",
			"password":         "five5",
			"confirm_password": "five5",
		},
		"bad email": {
			"name":             "Alice",
			"email":            "not-an-email",
			"password":         "password-1",
			"confirm_password": "password-1",
		},
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			rec := postJSON(t, env.handler.Register, "/api/auth/signup", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	env := newAuthTestEnv(t)
	register(t, env, "Alice", "alice@example.com", "password-1")

	rec := postJSON(t, env.handler.Login, "/api/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "password-1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body loginBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Data.Token)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	env := newAuthTestEnv(t)
	register(t, env, "Alice", "alice@example.com", "password-1")

	wrongPassword := postJSON(t, env.handler.Login, "/api/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	unknownEmail := postJSON(t, env.handler.Login, "/api/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "password-1",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())

	body := decodeEnvelope(t, wrongPassword)
	require.NotNil(t, body.Error)
	assert.Equal(t, constants.MsgInvalidCredentials, body.Error.Message)
}

func register(t *testing.T, env *authTestEnv, name, email, password string) {
	t.Helper()

	rec := postJSON(t, env.handler.Register, "/api/auth/signup", map[string]string{
		"name":             name,
		"email":            email,
		"password":         password,
		"confirm_password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
}
