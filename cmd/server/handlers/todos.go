// Package handlers provides the REST API handlers for todos and tags.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/kimhsiao/taskline/internal/db"
	"github.com/kimhsiao/taskline/internal/models"
)

// TodoHandler handles todo operations.
type TodoHandler struct {
	repo *db.Repository
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(repo *db.Repository) *TodoHandler {
	return &TodoHandler{repo: repo}
}

// List handles GET /api/todos
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	todos, err := h.repo.ListTodos(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(todos))
}

// Search handles GET /api/todos/search
func (h *TodoHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := &db.SearchOptions{
		Title: q.Get("title"),
		Tag:   q.Get("tag"),
	}

	if v := q.Get("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "completed must be true or false")
			return
		}
		opts.Completed = &completed
	}

	if v := q.Get("priority"); v != "" {
		p := models.Priority(v)
		if !p.Valid() {
			writeMessage(w, http.StatusBadRequest, "priority must be high, medium or low")
			return
		}
		opts.Priority = p
	}

	var ok bool
	if opts.Page, ok = positiveIntParam(q.Get("page")); !ok {
		writeMessage(w, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	if opts.Limit, ok = positiveIntParam(q.Get("limit")); !ok {
		writeMessage(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	resp, err := h.repo.SearchTodos(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Filter handles GET /api/todos/filter
func (h *TodoHandler) Filter(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query().Get("completed")
	if v == "" {
		h.List(w, r)
		return
	}

	completed, err := strconv.ParseBool(v)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "completed must be true or false")
		return
	}

	todos, err := h.repo.ListTodosByCompleted(r.Context(), completed)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(todos))
}

// ByTag handles GET /api/todos/by-tag/{tagId}
func (h *TodoHandler) ByTag(w http.ResponseWriter, r *http.Request) {
	tagID := mux.Vars(r)["tagId"]
	todos, err := h.repo.ListTodosByTag(r.Context(), tagID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(todos))
}

// ByPriority handles GET /api/todos/by-priority
func (h *TodoHandler) ByPriority(w http.ResponseWriter, r *http.Request) {
	todos, err := h.repo.ListTodosByPriority(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(todos))
}

// Get handles GET /api/todos/{id}
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	todo, err := h.repo.GetTodo(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

// Create handles POST /api/todos
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Title    string   `json:"title"`
		Tags     []string `json:"tags"`
		Priority string   `json:"priority"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if request.Title == "" {
		writeMessage(w, http.StatusBadRequest, "title is required")
		return
	}
	if request.Priority != "" && !models.Priority(request.Priority).Valid() {
		writeMessage(w, http.StatusBadRequest, "priority must be high, medium or low")
		return
	}

	todo := &models.Todo{
		Title:    request.Title,
		TagIDs:   models.TagList(request.Tags),
		Priority: models.Priority(request.Priority),
	}
	if err := h.repo.CreateTodo(r.Context(), todo); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, todo)
}

// Update handles PATCH /api/todos/{id}. Absent fields are untouched; the
// tags field, when present, replaces the stored list verbatim.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Title     *string   `json:"title"`
		Completed *bool     `json:"completed"`
		Tags      *[]string `json:"tags"`
		Priority  *string   `json:"priority"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	todo, err := h.repo.GetTodo(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	if request.Title != nil {
		if *request.Title == "" {
			writeMessage(w, http.StatusBadRequest, "title is required")
			return
		}
		todo.Title = *request.Title
	}
	if request.Completed != nil {
		todo.Completed = *request.Completed
	}
	if request.Tags != nil {
		todo.TagIDs = models.TagList(*request.Tags)
	}
	if request.Priority != nil {
		p := models.Priority(*request.Priority)
		if !p.Valid() {
			writeMessage(w, http.StatusBadRequest, "priority must be high, medium or low")
			return
		}
		todo.Priority = p
	}

	if err := h.repo.UpdateTodo(r.Context(), todo); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

// UpdatePriority handles PATCH /api/todos/{id}/priority
func (h *TodoHandler) UpdatePriority(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Priority string `json:"priority"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p := models.Priority(request.Priority)
	if !p.Valid() {
		writeMessage(w, http.StatusBadRequest, "priority must be high, medium or low")
		return
	}

	todo, err := h.repo.GetTodo(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	todo.Priority = p
	if err := h.repo.UpdateTodo(r.Context(), todo); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

// Delete handles DELETE /api/todos/{id}
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteTodo(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Deleted Todo")
}

// Reorder handles PUT /api/todos/reorder. The body is
// {todos: [{_id}, ...]} and must list every todo exactly once.
func (h *TodoHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Todos json.RawMessage `json:"todos"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || !isJSONArray(request.Todos) {
		writeMessage(w, http.StatusBadRequest, "Invalid data format")
		return
	}

	var items []struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(request.Todos, &items); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid data format")
		return
	}

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}

	if err := h.repo.ReorderTodos(r.Context(), ids); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Order updated successfully")
}

// AddTags handles POST /api/todos/{id}/tags
func (h *TodoHandler) AddTags(w http.ResponseWriter, r *http.Request) {
	h.editTags(w, r, h.repo.AddTags)
}

// RemoveTags handles DELETE /api/todos/{id}/tags
func (h *TodoHandler) RemoveTags(w http.ResponseWriter, r *http.Request) {
	h.editTags(w, r, h.repo.RemoveTags)
}

func (h *TodoHandler) editTags(w http.ResponseWriter, r *http.Request,
	edit func(ctx context.Context, todoID string, tagIDs []string) (*models.Todo, error)) {
	var request struct {
		Tags json.RawMessage `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || !isJSONArray(request.Tags) {
		writeMessage(w, http.StatusBadRequest, "tags must be an array")
		return
	}

	var tagIDs []string
	if err := json.Unmarshal(request.Tags, &tagIDs); err != nil {
		writeMessage(w, http.StatusBadRequest, "tags must be an array of tag ids")
		return
	}

	todo, err := edit(r.Context(), mux.Vars(r)["id"], tagIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func positiveIntParam(v string) (int, bool) {
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// nonNil keeps empty todo lists serializing as [] rather than null.
func nonNil(todos []*models.Todo) []*models.Todo {
	if todos == nil {
		return []*models.Todo{}
	}
	return todos
}
