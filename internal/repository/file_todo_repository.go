package repository

import (
	"context"
	"sort"

	"github.com/todoapp/gobackend/internal/models"
)

// todosFileName is the collection document for todo items.
const todosFileName = "todos.json"

// FileTodoRepository stores todos in a single JSON document.
type FileTodoRepository struct {
	file *jsonFile
}

// NewFileTodoRepository creates a file-backed todo repository rooted at
// the given data directory.
func NewFileTodoRepository(dataDir string) (*FileTodoRepository, error) {
	f, err := newJSONFile(dataDir, todosFileName)
	if err != nil {
		return nil, err
	}
	return &FileTodoRepository{file: f}, nil
}

// Create stores a new todo.
func (r *FileTodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	r.file.mu.Lock()
	defer r.file.mu.Unlock()

	var todos []*models.Todo
	if err := r.file.load(&todos); err != nil {
		return err
	}

	todos = append(todos, todo)
	return r.file.persist(todos)
}

// ListByUser returns the user's todos, newest first.
func (r *FileTodoRepository) ListByUser(ctx context.Context, userID string) ([]*models.Todo, error) {
	r.file.mu.Lock()
	defer r.file.mu.Unlock()

	var todos []*models.Todo
	if err := r.file.load(&todos); err != nil {
		return nil, err
	}

	owned := make([]*models.Todo, 0)
	for _, t := range todos {
		if t.UserID == userID {
			owned = append(owned, t)
		}
	}

	sort.Slice(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})
	return owned, nil
}

// GetByID retrieves a todo by ID, scoped to the owning user. A todo
// owned by another user reads as not found.
func (r *FileTodoRepository) GetByID(ctx context.Context, userID, todoID string) (*models.Todo, error) {
	r.file.mu.Lock()
	defer r.file.mu.Unlock()

	var todos []*models.Todo
	if err := r.file.load(&todos); err != nil {
		return nil, err
	}

	for _, t := range todos {
		if t.ID == todoID && t.UserID == userID {
			return t, nil
		}
	}
	return nil, ErrTodoNotFound
}

// Update persists changes to an existing todo, scoped to the owner.
func (r *FileTodoRepository) Update(ctx context.Context, todo *models.Todo) error {
	r.file.mu.Lock()
	defer r.file.mu.Unlock()

	var todos []*models.Todo
	if err := r.file.load(&todos); err != nil {
		return err
	}

	for i, t := range todos {
		if t.ID == todo.ID && t.UserID == todo.UserID {
			todos[i] = todo
			return r.file.persist(todos)
		}
	}
	return ErrTodoNotFound
}

// Delete removes a todo, scoped to the owning user.
func (r *FileTodoRepository) Delete(ctx context.Context, userID, todoID string) error {
	r.file.mu.Lock()
	defer r.file.mu.Unlock()

	var todos []*models.Todo
	if err := r.file.load(&todos); err != nil {
		return err
	}

	for i, t := range todos {
		if t.ID == todoID && t.UserID == userID {
			todos = append(todos[:i], todos[i+1:]...)
			return r.file.persist(todos)
		}
	}
	return ErrTodoNotFound
}
