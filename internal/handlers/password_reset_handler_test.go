package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todoapp/gobackend/internal/auth"
	"github.com/todoapp/gobackend/internal/config"
	"github.com/todoapp/gobackend/internal/constants"
	"github.com/todoapp/gobackend/internal/models"
	"github.com/todoapp/gobackend/internal/repository"
	"github.com/todoapp/gobackend/internal/utils"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	utils.InitValidator()
	os.Exit(m.Run())
}

// captureSender records sent reset mail instead of delivering it.
type captureSender struct {
	lastTo  string
	lastURL string
	sent    int
	fail    error
}

func (s *captureSender) SendPasswordResetEmail(toEmail, toName, resetURL string) error {
	if s.fail != nil {
		return s.fail
	}
	s.lastTo = toEmail
	s.lastURL = resetURL
	s.sent++
	return nil
}

// envelope mirrors the standardized response body.
type envelope struct {
	Success bool `json:"success"`
	Data    struct {
		Message string `json:"message"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type resetTestEnv struct {
	users   *repository.MemoryUserRepository
	ledger  *repository.MemoryPasswordResetRepository
	jwt     *auth.JWTService
	sender  *captureSender
	handler *PasswordResetHandler
}

func newResetTestEnv(t *testing.T, envelopeTTL, ledgerTTL time.Duration) *resetTestEnv {
	t.Helper()

	env := &resetTestEnv{
		users:  repository.NewMemoryUserRepository(),
		ledger: repository.NewMemoryPasswordResetRepository(),
		sender: &captureSender{},
	}
	env.jwt = auth.NewJWTService(&config.JWTSettings{
		Secret: "test-secret",
		Expiry: 15 * time.Minute,
		Issuer: "todoapp-test",
	}, envelopeTTL)
	env.handler = NewPasswordResetHandler(
		env.users,
		env.ledger,
		env.jwt,
		env.sender,
		ledgerTTL,
		"http://localhost:5173/reset-password",
	)
	return env
}

func (e *resetTestEnv) addUser(t *testing.T, name, email, password string) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	user := models.NewUser(name, email)
	user.PasswordHash = hash
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

// tokenFromResetURL extracts the signed envelope from a captured link.
func tokenFromResetURL(t *testing.T, resetURL string) string {
	t.Helper()

	parsed, err := url.Parse(resetURL)
	require.NoError(t, err)
	token := parsed.Query().Get("token")
	require.NotEmpty(t, token)
	return token
}

func (e *resetTestEnv) requestResetToken(t *testing.T, email string) string {
	t.Helper()

	rec := postJSON(t, e.handler.ForgotPassword, "/api/auth/forgot-password", map[string]string{"email": email})
	require.Equal(t, http.StatusOK, rec.Code)
	return tokenFromResetURL(t, e.sender.lastURL)
}

func TestForgotPasswordDoesNotRevealAccounts(t *testing.T) {
	env := newResetTestEnv(t, time.Hour, time.Hour)
	env.addUser(t, "Alice", "alice@example.com", "password-1")

	known := postJSON(t, env.handler.ForgotPassword, "/api/auth/forgot-password", map[string]string{"email": "alice@example.com"})
	unknown := postJSON(t, env.handler.ForgotPassword, "/api/auth/forgot-password", map[string]string{"email": "nobody@example.com"})

	// Identical status and identical body either way.
	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, known.Body.String(), unknown.Body.String())

	body := decodeEnvelope(t, known)
	assert.Equal(t, constants.MsgResetEmailSent, body.Data.Message)

	// Mail only went out for the real account.
	assert.Equal(t, 1, env.sender.sent)
	assert.Equal(t, "alice@example.com", env.sender.lastTo)
}

func TestForgotPasswordRejectsInvalidEmail(t *testing.T) {
	env := newResetTestEnv(t, time.Hour, time.Hour)

	rec := postJSON(t, env.handler.ForgotPassword, "/api/auth/forgot-password", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, env.sender.sent)
}

func TestForgotPasswordDeliveryFailureIsSurfaced(t *testing.T) {
	env := newResetTestEnv(t, time.Hour, time.Hour)
	env.addUser(t, "Alice", "alice@example.com", "password-1")
	env.sender.fail = errors.New("smtp unreachable")

	rec := postJSON(t, env.handler.ForgotPassword, "/api/auth/forgot-password", map[string]string{"email": "alice@example.com"})

	// A delivery fault for a known account is a server error, not the
	// generic success message.
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeEnvelope(t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, constants.CodeDeliveryFault, body.Error.Code)
}

func TestResetPasswordHappyPath(t *testing.T) {
	env := newResetTestEnv(t, time.Hour, time.Hour)
	user := env.addUser(t, "Alice", "alice@example.com", "old-password")
	token := env.requestResetToken(t, "alice@example.com")

	rec := postJSON(t, env.handler.ResetPassword, "/api/auth/reset-password", map[string]string{
		"token":    token,
		"password": "new-password",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, constants.MsgPasswordResetOK, body.Data.Message)

	// The stored credential now matches the new password only.
	stored, err := env.users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	ok, err := auth.VerifyPassword("new-password", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = auth.VerifyPassword("old-password", stored.PasswordHash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResetPasswordTokenIsSingleUse(t *testing.T) {
	env := newResetTestEnv(t, time.Hour, time.Hour)
	env.addUser(t, "Alice", "alice@example.com", "old-password")
	token := env.requestResetToken(t, "alice@example.com")

	first := postJSON(t, env.handler.ResetPassword, "/api/auth/reset-password", map[string]string{
		"token":    token,
		"password": "new-password",
	})
	require.Equal(t, http.StatusOK, first.Code)

	second := postJSON(t, env.handler.ResetPassword, "/api/auth/reset-password", map[string]string{
		"token":    token,
		"password": "another-password",
	})
	assert.Equal(t, http.StatusBadRequest, second.Code)
	body := decodeEnvelope(t, second)
	require.NotNil(t, body.Error)
	assert.Equal(t, constants.MsgInvalidResetToken, body.Error.Message)
}

func TestResetPasswordRejectsGarbageToken(t *testing.T) {
	env := newResetTestEnv(t, time.Hour, time.Hour)

	rec := postJSON(t, env.handler.ResetPassword, "/api/auth/reset-password", map[string]string{
		"token":    "definitely-not-a-token",
		"password": "new-password",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeEnvelope(t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, constants.MsgInvalidResetToken, body.Error.Message)
}

func TestResetPasswordFailuresAreIndistinguishable(t *testing.T) {
	env := newResetTestEnv(t, time.Hour, time.Hour)
	env.addUser(t, "Alice", "alice@example.com", "old-password")
	token := env.requestResetToken(t, "alice@example.com")

	// Consume the token, then compare the reuse response to a garbage
	// token response: same status, same body.
	ok := postJSON(t, env.handler.ResetPassword, "/api/auth/reset-password", map[string]string{
		"token":    token,
		"password": "new-password",
	})
	require.Equal(t, http.StatusOK, ok.Code)

	reused := postJSON(t, env.handler.ResetPassword, "/api/auth/reset-password", map[string]string{
		"token":    token,
		"password": "another-one",
	})
	garbage := postJSON(t, env.handler.ResetPassword, "/api/auth/reset-password", map[string]string{
		"token":    "garbage",
		"password": "another-one",
	})

	assert.Equal(t, garbage.Code, reused.Code)
	assert.Equal(t, garbage.Body.String(), reused.Body.String())
}

func TestResetPasswordExpiredLedgerEntryRejected(t *testing.T) {
	// Envelope stays valid for an hour, but the ledger entry is already
	// expired when stored. Both expiries must hold.
	env := newResetTestEnv(t, time.Hour, -time.Minute)
	env.addUser(t, "Alice", "alice@example.com", "old-password")
	token := env.requestResetToken(t, "alice@example.com")

	rec := postJSON(t, env.handler.ResetPassword, "/api/auth/reset-password", map[string]string{
		"token":    token,
		"password": "new-password",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeEnvelope(t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, constants.MsgInvalidResetToken, body.Error.Message)
}

func TestResetPasswordExpiredEnvelopeRejected(t *testing.T) {
	// Ledger entry stays live, but the signed envelope is expired.
	env := newResetTestEnv(t, -time.Minute, time.Hour)
	env.addUser(t, "Alice", "alice@example.com", "old-password")
	token := env.requestResetToken(t, "alice@example.com")

	rec := postJSON(t, env.handler.ResetPassword, "/api/auth/reset-password", map[string]string{
		"token":    token,
		"password": "new-password",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetPasswordNewRequestSupersedesOldToken(t *testing.T) {
	env := newResetTestEnv(t, time.Hour, time.Hour)
	env.addUser(t, "Alice", "alice@example.com", "old-password")

	oldToken := env.requestResetToken(t, "alice@example.com")
	newToken := env.requestResetToken(t, "alice@example.com")

	rec := postJSON(t, env.handler.ResetPassword, "/api/auth/reset-password", map[string]string{
		"token":    oldToken,
		"password": "new-password",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, env.handler.ResetPassword, "/api/auth/reset-password", map[string]string{
		"token":    newToken,
		"password": "new-password",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResetPasswordMinimumLength(t *testing.T) {
	env := newResetTestEnv(t, time.Hour, time.Hour)
	env.addUser(t, "Alice", "alice@example.com", "old-password")
	token := env.requestResetToken(t, "alice@example.com")

	// Five characters is too short.
	rec := postJSON(t, env.handler.ResetPassword, "/api/auth/reset-password", map[string]string{
		"token":    token,
		"password": "five5",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Six characters is the boundary and is accepted. The failed attempt
	// above never reached the ledger, so the token is still live.
	rec = postJSON(t, env.handler.ResetPassword, "/api/auth/reset-password", map[string]string{
		"token":    token,
		"password": "sixsix",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResetPasswordMissingUser(t *testing.T) {
	env := newResetTestEnv(t, time.Hour, time.Hour)

	// A valid envelope and ledger entry for an account that no longer
	// exists: token checks pass, the user lookup does not.
	secret, err := auth.GenerateResetSecret()
	require.NoError(t, err)
	token, _, err := env.jwt.GenerateResetToken("ghost@example.com", secret)
	require.NoError(t, err)
	require.NoError(t, env.ledger.Store(context.Background(), "ghost@example.com", secret, time.Hour))

	rec := postJSON(t, env.handler.ResetPassword, "/api/auth/reset-password", map[string]string{
		"token":    token,
		"password": "new-password",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
