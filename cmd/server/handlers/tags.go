// Package handlers provides the REST API handlers for todos and tags.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kimhsiao/taskline/internal/db"
	"github.com/kimhsiao/taskline/internal/models"
)

// TagHandler handles tag operations.
type TagHandler struct {
	repo *db.Repository
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(repo *db.Repository) *TagHandler {
	return &TagHandler{repo: repo}
}

// List handles GET /api/tags
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.repo.ListTags(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if tags == nil {
		tags = []*models.Tag{}
	}
	writeJSON(w, http.StatusOK, tags)
}

// Create handles POST /api/tags
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if request.Name == "" {
		writeMessage(w, http.StatusBadRequest, "name is required")
		return
	}

	tag := &models.Tag{
		Name:  request.Name,
		Color: request.Color,
	}
	if err := h.repo.CreateTag(r.Context(), tag); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

// Update handles PATCH /api/tags/{id}. Absent fields are untouched.
func (h *TagHandler) Update(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tag, err := h.repo.GetTag(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	if request.Name != nil {
		if *request.Name == "" {
			writeMessage(w, http.StatusBadRequest, "name is required")
			return
		}
		tag.Name = *request.Name
	}
	if request.Color != nil {
		tag.Color = *request.Color
	}

	if err := h.repo.UpdateTag(r.Context(), tag); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

// Delete handles DELETE /api/tags/{id}. The tag's ID is also removed from
// every todo referencing it.
func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteTag(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Deleted Tag")
}
