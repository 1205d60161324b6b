package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/todoapp/gobackend/internal/models"
)

// MemoryTodoRepository keeps todos in memory for development and tests.
type MemoryTodoRepository struct {
	mu    sync.Mutex
	todos []*models.Todo
}

// NewMemoryTodoRepository creates an empty in-memory todo repository.
func NewMemoryTodoRepository() *MemoryTodoRepository {
	return &MemoryTodoRepository{}
}

// Create stores a new todo.
func (r *MemoryTodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *todo
	r.todos = append(r.todos, &clone)
	return nil
}

// ListByUser returns the user's todos, newest first.
func (r *MemoryTodoRepository) ListByUser(ctx context.Context, userID string) ([]*models.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	owned := make([]*models.Todo, 0)
	for _, t := range r.todos {
		if t.UserID == userID {
			clone := *t
			owned = append(owned, &clone)
		}
	}

	sort.Slice(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})
	return owned, nil
}

// GetByID retrieves a todo by ID, scoped to the owning user.
func (r *MemoryTodoRepository) GetByID(ctx context.Context, userID, todoID string) (*models.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.todos {
		if t.ID == todoID && t.UserID == userID {
			clone := *t
			return &clone, nil
		}
	}
	return nil, ErrTodoNotFound
}

// Update persists changes to an existing todo, scoped to the owner.
func (r *MemoryTodoRepository) Update(ctx context.Context, todo *models.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, t := range r.todos {
		if t.ID == todo.ID && t.UserID == todo.UserID {
			clone := *todo
			r.todos[i] = &clone
			return nil
		}
	}
	return ErrTodoNotFound
}

// Delete removes a todo, scoped to the owning user.
func (r *MemoryTodoRepository) Delete(ctx context.Context, userID, todoID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, t := range r.todos {
		if t.ID == todoID && t.UserID == userID {
			r.todos = append(r.todos[:i], r.todos[i+1:]...)
			return nil
		}
	}
	return ErrTodoNotFound
}
