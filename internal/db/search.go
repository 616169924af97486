// Package db provides paged, filtered todo queries.
package db

import (
	"context"

	apperrors "github.com/kimhsiao/taskline/internal/errors"
	"github.com/kimhsiao/taskline/internal/models"
)

// SearchOptions contains parameters for todo search queries. Every filter
// field is optional; provided fields are combined with AND.
type SearchOptions struct {
	// Title matches todos whose title contains this substring,
	// case-insensitively.
	Title string

	// Completed filters by exact completion state when non-nil.
	Completed *bool

	// Tag filters todos whose tag set contains this tag ID.
	Tag string

	// Priority filters by exact priority.
	Priority models.Priority

	// Page is the 1-based page number (default: 1)
	Page int

	// Limit is the page size (default: 10, max: 100)
	Limit int
}

// SearchResponse contains one page of matching todos and paging metadata.
type SearchResponse struct {
	Todos       []*models.Todo `json:"todos"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
}

// SearchTodos returns the requested page of todos matching the options,
// ordered by position ascending. TotalPages is ceil(matchCount/limit).
func (r *Repository) SearchTodos(ctx context.Context, opts *SearchOptions) (*SearchResponse, error) {
	page := opts.Page
	if page <= 0 {
		page = 1
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	fb := NewFilterBuilder().Title(opts.Title).Tag(opts.Tag).Priority(opts.Priority)
	if opts.Completed != nil {
		fb.Completed(*opts.Completed)
	}
	where, args := fb.Build()
	if where != "" {
		where = " WHERE " + where
	}

	var total int
	if err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM todos"+where, args...); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "counting todos", err)
	}

	offset := (page - 1) * limit
	pageArgs := append(append([]interface{}{}, args...), limit, offset)
	todos, err := r.listTodos(ctx,
		"SELECT "+todoColumns+" FROM todos"+where+" ORDER BY position LIMIT ? OFFSET ?",
		pageArgs...)
	if err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []*models.Todo{}
	}

	return &SearchResponse{
		Todos:       todos,
		TotalPages:  (total + limit - 1) / limit,
		CurrentPage: page,
	}, nil
}
