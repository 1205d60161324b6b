package utils

import (
	"bytes"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	InitValidator()
	os.Exit(m.Run())
}

type sampleRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func decodeBody(t *testing.T, body string) error {
	t.Helper()

	req := httptest.NewRequest("POST", "/", bytes.NewReader([]byte(body)))
	var out sampleRequest
	return DecodeAndValidate(req, &out)
}

func TestDecodeAndValidateAccepts(t *testing.T) {
	assert.NoError(t, decodeBody(t, `{"email":"a@example.com","password":"secret1"}`))
}

func TestDecodeAndValidateRejects(t *testing.T) {
	tests := map[string]string{
		"empty body":      ``,
		"malformed json":  `{"email":`,
		"unknown field":   `{"email":"a@example.com","password":"secret1","extra":1}`,
		"trailing data":   `{"email":"a@example.com","password":"secret1"}{}`,
		"missing field":   `{"email":"a@example.com"}`,
		"invalid email":   `{"email":"nope","password":"secret1"}`,
		"short password":  `{"email":"a@example.com","password":"five5"}`,
		"wrong type":      `{"email":"a@example.com","password":12345}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			err := decodeBody(t, body)
			require.Error(t, err)

			var appErr *AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, 400, appErr.StatusCode)
		})
	}
}

func TestValidationErrorsUseJSONFieldNames(t *testing.T) {
	err := decodeBody(t, `{"email":"a@example.com","password":"x"}`)
	require.Error(t, err)

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "password", appErr.Field)
	assert.True(t, strings.Contains(appErr.Message, "at least 6"))
}

func TestValidatePasswordBoundary(t *testing.T) {
	assert.Error(t, ValidatePassword("five5"))
	assert.NoError(t, ValidatePassword("sixsix"))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("a@example.com"))
	assert.False(t, IsValidEmail("not-an-email"))
}

func TestRequestBodySizeLimit(t *testing.T) {
	huge := `{"email":"a@example.com","password":"` + strings.Repeat("x", 2<<20) + `"}`
	err := decodeBody(t, huge)
	require.Error(t, err)
}
