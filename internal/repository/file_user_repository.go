package repository

import (
	"context"
	"strings"
	"time"

	"github.com/todoapp/gobackend/internal/models"
)

// usersFileName is the collection document for the credential store.
const usersFileName = "users.json"

// FileUserRepository stores users in a single JSON document.
type FileUserRepository struct {
	file *jsonFile
}

// NewFileUserRepository creates a file-backed user repository rooted at
// the given data directory.
func NewFileUserRepository(dataDir string) (*FileUserRepository, error) {
	f, err := newJSONFile(dataDir, usersFileName)
	if err != nil {
		return nil, err
	}
	return &FileUserRepository{file: f}, nil
}

// Create stores a new user after checking for a duplicate email.
func (r *FileUserRepository) Create(ctx context.Context, user *models.User) error {
	r.file.mu.Lock()
	defer r.file.mu.Unlock()

	var users []*models.User
	if err := r.file.load(&users); err != nil {
		return err
	}

	for _, u := range users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicateEmail
		}
	}

	users = append(users, user)
	return r.file.persist(users)
}

// GetByEmail retrieves a user by email, matching case-insensitively.
func (r *FileUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.file.mu.Lock()
	defer r.file.mu.Unlock()

	var users []*models.User
	if err := r.file.load(&users); err != nil {
		return nil, err
	}

	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

// GetByID retrieves a user by ID.
func (r *FileUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.file.mu.Lock()
	defer r.file.mu.Unlock()

	var users []*models.User
	if err := r.file.load(&users); err != nil {
		return nil, err
	}

	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

// ExistsByEmail reports whether a user with the email exists.
func (r *FileUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == ErrUserNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ChangePassword replaces the stored password hash for the user with the
// given email.
func (r *FileUserRepository) ChangePassword(ctx context.Context, email, passwordHash string) error {
	r.file.mu.Lock()
	defer r.file.mu.Unlock()

	var users []*models.User
	if err := r.file.load(&users); err != nil {
		return err
	}

	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			u.PasswordHash = passwordHash
			u.UpdatedAt = time.Now()
			return r.file.persist(users)
		}
	}
	return ErrUserNotFound
}
