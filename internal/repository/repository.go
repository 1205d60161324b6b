// Package repository provides data access for users, todos, and
// password-reset tokens. Two interchangeable backends are available: a
// JSON-file store that persists each collection as a flat document on
// disk, and an in-memory store used for development and tests. The
// backend is selected by configuration, never inferred.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/todoapp/gobackend/internal/config"
	"github.com/todoapp/gobackend/internal/models"
)

// Sentinel errors returned by the repositories.
var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when creating a user whose email is
	// already registered.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrTodoNotFound is returned when no todo matches the lookup.
	ErrTodoNotFound = errors.New("todo not found")
)

// UserRepository defines operations on the credential store.
type UserRepository interface {
	// Create stores a new user. It fails with ErrDuplicateEmail when the
	// email is already registered (case-insensitive).
	Create(ctx context.Context, user *models.User) error

	// GetByEmail retrieves a user by email. The match is case-insensitive.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// ExistsByEmail reports whether a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ChangePassword replaces the stored password hash for the user with
	// the given email.
	ChangePassword(ctx context.Context, email, passwordHash string) error
}

// PasswordResetRepository is the reset-token ledger. At most one live
// reset token exists per email: storing a new token supersedes any
// earlier ones for the same address.
type PasswordResetRepository interface {
	// Store records a reset token for the email with the given lifetime,
	// removing any previously stored tokens for that email first.
	Store(ctx context.Context, email, token string, ttl time.Duration) error

	// Validate reports whether the (email, token) pair matches a live
	// ledger entry: present, unused, and unexpired. As a side effect it
	// prunes used and expired entries it encounters.
	Validate(ctx context.Context, email, token string) (bool, error)

	// MarkUsed marks the matching ledger entry as consumed. A missing
	// entry is a no-op, not an error; an entry is matched regardless of
	// its used or expired state.
	MarkUsed(ctx context.Context, email, token string) error

	// CleanupExpired removes every entry whose expiry has passed,
	// regardless of used state, and returns the number removed. It is
	// idempotent.
	CleanupExpired(ctx context.Context) (int, error)
}

// TodoRepository defines operations on a user's todo items.
type TodoRepository interface {
	// Create stores a new todo.
	Create(ctx context.Context, todo *models.Todo) error

	// ListByUser returns all todos owned by the user, newest first.
	ListByUser(ctx context.Context, userID string) ([]*models.Todo, error)

	// GetByID retrieves a todo by ID, scoped to the owning user.
	GetByID(ctx context.Context, userID, todoID string) (*models.Todo, error)

	// Update persists changes to an existing todo, scoped to the owner.
	Update(ctx context.Context, todo *models.Todo) error

	// Delete removes a todo, scoped to the owning user.
	Delete(ctx context.Context, userID, todoID string) error
}

// Repositories bundles the three stores behind their interfaces.
type Repositories struct {
	Users       UserRepository
	ResetTokens PasswordResetRepository
	Todos       TodoRepository
}

// NewRepositories constructs the store set for the configured backend.
func NewRepositories(cfg *config.StorageSettings) (*Repositories, error) {
	if cfg.Mode == config.StorageModeMemory {
		return &Repositories{
			Users:       NewMemoryUserRepository(),
			ResetTokens: NewMemoryPasswordResetRepository(),
			Todos:       NewMemoryTodoRepository(),
		}, nil
	}

	users, err := NewFileUserRepository(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	resets, err := NewFilePasswordResetRepository(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	todos, err := NewFileTodoRepository(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Users:       users,
		ResetTokens: resets,
		Todos:       todos,
	}, nil
}
