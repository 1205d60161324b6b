package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/todoapp/gobackend/internal/auth"
	"github.com/todoapp/gobackend/internal/constants"
	"github.com/todoapp/gobackend/internal/models"
	"github.com/todoapp/gobackend/internal/repository"
	"github.com/todoapp/gobackend/internal/utils"
)

// TodoHandler handles CRUD operations on a user's todo items. Every
// operation is scoped to the authenticated user; a todo owned by
// someone else reads as not found.
type TodoHandler struct {
	todos repository.TodoRepository
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(todos repository.TodoRepository) *TodoHandler {
	return &TodoHandler{todos: todos}
}

// List returns the authenticated user's todos, newest first.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	todos, err := h.todos.ListByUser(r.Context(), userID)
	if err != nil {
		logRequestError(r, err, "Failed to list todos")
		utils.InternalServerError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, todos)
}

// Create adds a new todo for the authenticated user.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	var req models.TodoCreate
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	todo := models.NewTodo(userID, req.Title)
	if err := h.todos.Create(r.Context(), todo); err != nil {
		logRequestError(r, err, "Failed to create todo")
		utils.InternalServerError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, todo)
}

// Get returns a single todo by ID.
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	todoID := chi.URLParam(r, constants.ParamTodoID)
	todo, err := h.todos.GetByID(r.Context(), userID, todoID)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			utils.NotFound(w, "Todo not found")
			return
		}
		logRequestError(r, err, "Failed to get todo")
		utils.InternalServerError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, todo)
}

// Update applies partial changes to a todo. Absent fields are left
// unchanged.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	var req models.TodoUpdate
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	if req.Title == nil && req.Completed == nil {
		utils.BadRequest(w, "No fields to update", nil)
		return
	}
	if req.Title != nil && *req.Title == "" {
		utils.ErrorFromAppError(w, utils.NewValidationError("title", "Title must not be empty"))
		return
	}

	todoID := chi.URLParam(r, constants.ParamTodoID)
	todo, err := h.todos.GetByID(r.Context(), userID, todoID)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			utils.NotFound(w, "Todo not found")
			return
		}
		logRequestError(r, err, "Failed to get todo")
		utils.InternalServerError(w, err)
		return
	}

	if req.Title != nil {
		todo.Title = *req.Title
	}
	if req.Completed != nil {
		todo.Completed = *req.Completed
	}
	todo.UpdatedAt = time.Now()

	if err := h.todos.Update(r.Context(), todo); err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			utils.NotFound(w, "Todo not found")
			return
		}
		logRequestError(r, err, "Failed to update todo")
		utils.InternalServerError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, todo)
}

// Toggle flips a todo's completed state.
func (h *TodoHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	todoID := chi.URLParam(r, constants.ParamTodoID)
	todo, err := h.todos.GetByID(r.Context(), userID, todoID)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			utils.NotFound(w, "Todo not found")
			return
		}
		logRequestError(r, err, "Failed to get todo")
		utils.InternalServerError(w, err)
		return
	}

	todo.Completed = !todo.Completed
	todo.UpdatedAt = time.Now()

	if err := h.todos.Update(r.Context(), todo); err != nil {
		logRequestError(r, err, "Failed to toggle todo")
		utils.InternalServerError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, todo)
}

// Delete removes a todo.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	todoID := chi.URLParam(r, constants.ParamTodoID)
	if err := h.todos.Delete(r.Context(), userID, todoID); err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			utils.NotFound(w, "Todo not found")
			return
		}
		logRequestError(r, err, "Failed to delete todo")
		utils.InternalServerError(w, err)
		return
	}

	utils.NoContent(w)
}
