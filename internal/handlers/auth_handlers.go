package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/todoapp/gobackend/internal/auth"
	"github.com/todoapp/gobackend/internal/models"
	"github.com/todoapp/gobackend/internal/repository"
	"github.com/todoapp/gobackend/internal/utils"
)

// TokenGenerator mints access tokens for logged-in users.
type TokenGenerator interface {
	GenerateAccessToken(userID, name, email string) (string, string, error)
}

// AuthHandler handles user registration and login.
type AuthHandler struct {
	users repository.UserRepository
	jwt   TokenGenerator
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users repository.UserRepository, jwt TokenGenerator) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwt,
	}
}

// LoginResponse is the payload returned on successful login or signup.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register handles new user signup. On success it behaves like a login
// and returns an access token alongside the created user.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.UserRegistration
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		utils.InternalServerError(w, err)
		return
	}

	user := models.NewUser(req.Name, req.Email)
	user.PasswordHash = passwordHash

	if err := h.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			utils.Conflict(w, "An account with that email already exists")
			return
		}
		utils.InternalServerError(w, err)
		return
	}

	token, _, err := h.jwt.GenerateAccessToken(user.ID, user.Name, user.Email)
	if err != nil {
		utils.InternalServerError(w, err)
		return
	}

	utils.LogAuth("register", user.ID, user.Name, true, "")

	utils.JSON(w, http.StatusCreated, LoginResponse{
		Token: token,
		User:  user.Sanitize(),
	})
}

// Login authenticates a user and issues an access token. An unknown
// email and a wrong password produce the same error.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.UserCredentials
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	user, err := h.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			utils.LogAuth("login", "", req.Email, false, "unknown email")
			utils.ErrorFromAppError(w, utils.NewInvalidCredentialsError())
			return
		}
		utils.InternalServerError(w, err)
		return
	}

	match, err := auth.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		utils.InternalServerError(w, err)
		return
	}
	if !match {
		utils.LogAuth("login", user.ID, user.Name, false, "wrong password")
		utils.ErrorFromAppError(w, utils.NewInvalidCredentialsError())
		return
	}

	token, _, err := h.jwt.GenerateAccessToken(user.ID, user.Name, user.Email)
	if err != nil {
		utils.InternalServerError(w, err)
		return
	}

	utils.LogAuth("login", user.ID, user.Name, true, "")

	utils.JSON(w, http.StatusOK, LoginResponse{
		Token: token,
		User:  user.Sanitize(),
	})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, "Authentication required")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			utils.NotFound(w, "User not found")
			return
		}
		utils.InternalServerError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, user.Sanitize())
}

// logRequestError records a handler failure with request correlation.
func logRequestError(r *http.Request, err error, msg string) {
	requestID, _ := auth.GetRequestID(r)
	log.Error().
		Err(err).
		Str("request_id", requestID).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg(msg)
}
