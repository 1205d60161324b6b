package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/todoapp/gobackend/internal/config"
	"github.com/todoapp/gobackend/internal/constants"
	"github.com/todoapp/gobackend/internal/utils"
)

// JWT errors
var (
	ErrInvalidToken         = errors.New("invalid token")
	ErrExpiredToken         = errors.New("token has expired")
	ErrInvalidSigningMethod = errors.New("invalid signing method")
	ErrInvalidTokenClaims   = errors.New("invalid token claims")
)

// CustomClaims represents the claims in a signed token. The TokenType field
// is the purpose tag: a token minted for one flow is never accepted by a
// flow expecting another type, so a password-reset envelope can never pass
// as a login token or vice versa.
type CustomClaims struct {
	UserID    string `json:"user_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email"`
	ResetCode string `json:"reset_code,omitempty"` // ledger secret, reset envelopes only
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// JWTService provides token generation and validation for both login access
// tokens and password-reset envelopes.
type JWTService struct {
	Config *config.JWTSettings

	// resetTTL bounds the lifetime of reset envelopes independently of the
	// access-token expiry.
	resetTTL time.Duration
}

// NewJWTService creates a new JWTService instance
func NewJWTService(cfg *config.JWTSettings, resetTTL time.Duration) *JWTService {
	if resetTTL == 0 {
		resetTTL = constants.PasswordResetTokenTTL
	}
	return &JWTService{
		Config:   cfg,
		resetTTL: resetTTL,
	}
}

// GetConfig returns the JWT settings, falling back to defaults when unset.
func (s *JWTService) GetConfig() *config.JWTSettings {
	if s.Config == nil {
		return &config.JWTSettings{
			Expiry: constants.DefaultJWTExpiry,
			Issuer: constants.DefaultJWTIssuer,
		}
	}
	return s.Config
}

// GenerateAccessToken generates a new access token for a logged-in user.
func (s *JWTService) GenerateAccessToken(userID, name, email string) (string, string, error) {
	claims := CustomClaims{
		UserID:    userID,
		Name:      name,
		Email:     email,
		TokenType: constants.TokenTypeAccess,
	}
	return s.generateToken(claims, userID, s.GetConfig().Expiry)
}

// GenerateResetToken wraps a ledger secret and its owning email into a
// signed password-reset envelope. The envelope carries its own expiry,
// enforced by signature verification without any storage access; the
// ledger record's expiry is checked separately, and both must hold.
func (s *JWTService) GenerateResetToken(email, secret string) (string, string, error) {
	claims := CustomClaims{
		Email:     email,
		ResetCode: secret,
		TokenType: constants.TokenTypePasswordReset,
	}
	return s.generateToken(claims, email, s.resetTTL)
}

// generateToken signs the provided claims with the shared secret.
func (s *JWTService) generateToken(claims CustomClaims, subject string, expiry time.Duration) (string, string, error) {
	// Generate a unique token ID
	jwtID := uuid.New().String()

	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    s.GetConfig().Issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		NotBefore: jwt.NewNumericDate(now),
		ID:        jwtID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.GetConfig().Secret))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, jwtID, nil
}

// ValidateToken validates a signed token and returns its claims if valid.
// The expected type must match the token's purpose tag exactly.
func (s *JWTService) ValidateToken(tokenString string, expectedType string) (*CustomClaims, error) {
	// Parse the token
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return []byte(s.GetConfig().Secret), nil
	})

	// Handle parsing errors
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, utils.NewExpiredTokenError()
		}
		return nil, utils.NewInvalidTokenError()
	}

	// Check if the token is valid
	if !token.Valid {
		return nil, utils.NewInvalidTokenError()
	}

	// Extract and validate the claims
	claims, ok := token.Claims.(*CustomClaims)
	if !ok {
		return nil, utils.NewInvalidTokenError()
	}

	// Validate the purpose tag
	if claims.TokenType != expectedType {
		return nil, utils.NewInvalidTokenError()
	}

	return claims, nil
}

// UnwrapResetToken verifies a password-reset envelope and returns the
// embedded (email, secret) pair. Every verification failure (bad
// signature, expired envelope, wrong purpose tag, malformed input)
// collapses into the same invalid-token error; callers must not be able
// to distinguish them.
func (s *JWTService) UnwrapResetToken(envelope string) (email, secret string, err error) {
	claims, err := s.ValidateToken(envelope, constants.TokenTypePasswordReset)
	if err != nil {
		return "", "", utils.NewInvalidTokenError()
	}
	if claims.Email == "" || claims.ResetCode == "" {
		return "", "", utils.NewInvalidTokenError()
	}
	return claims.Email, claims.ResetCode, nil
}

// ExtractUserIDFromToken extracts the user ID from an access token string.
func (s *JWTService) ExtractUserIDFromToken(tokenString string) (string, error) {
	claims, err := s.ValidateToken(tokenString, constants.TokenTypeAccess)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
