package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kimhsiao/taskline/internal/db"
)

// NewRouter builds the API router. Fixed paths (search, filter, reorder,
// by-tag, by-priority) are registered before the {id} routes so they are
// matched first.
func NewRouter(repo *db.Repository) *mux.Router {
	todos := NewTodoHandler(repo)
	tags := NewTagHandler(repo)

	r := mux.NewRouter()
	r.HandleFunc("/api/health", health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/todos", todos.List).Methods(http.MethodGet)
	api.HandleFunc("/todos", todos.Create).Methods(http.MethodPost)
	api.HandleFunc("/todos/search", todos.Search).Methods(http.MethodGet)
	api.HandleFunc("/todos/filter", todos.Filter).Methods(http.MethodGet)
	api.HandleFunc("/todos/by-tag/{tagId}", todos.ByTag).Methods(http.MethodGet)
	api.HandleFunc("/todos/by-priority", todos.ByPriority).Methods(http.MethodGet)
	api.HandleFunc("/todos/reorder", todos.Reorder).Methods(http.MethodPut)
	api.HandleFunc("/todos/{id}", todos.Get).Methods(http.MethodGet)
	api.HandleFunc("/todos/{id}", todos.Update).Methods(http.MethodPatch)
	api.HandleFunc("/todos/{id}", todos.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/todos/{id}/priority", todos.UpdatePriority).Methods(http.MethodPatch)
	api.HandleFunc("/todos/{id}/tags", todos.AddTags).Methods(http.MethodPost)
	api.HandleFunc("/todos/{id}/tags", todos.RemoveTags).Methods(http.MethodDelete)

	api.HandleFunc("/tags", tags.List).Methods(http.MethodGet)
	api.HandleFunc("/tags", tags.Create).Methods(http.MethodPost)
	api.HandleFunc("/tags/{id}", tags.Update).Methods(http.MethodPatch)
	api.HandleFunc("/tags/{id}", tags.Delete).Methods(http.MethodDelete)

	return r
}

func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
