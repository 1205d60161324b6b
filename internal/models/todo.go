package models

import (
	"time"

	"github.com/google/uuid"
)

// Todo represents a single todo item owned by a user.
type Todo struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title" validate:"required,max=500"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTodo creates a new, uncompleted Todo for the given owner.
func NewTodo(userID, title string) *Todo {
	now := time.Now()
	return &Todo{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TodoCreate represents the data required to create a todo item.
type TodoCreate struct {
	Title string `json:"title" validate:"required,max=500"`
}

// TodoUpdate represents the fields of a todo item that can be updated.
// Nil pointers mean "leave unchanged".
type TodoUpdate struct {
	Title     *string `json:"title" validate:"omitempty,max=500"`
	Completed *bool   `json:"completed"`
}
