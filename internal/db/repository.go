// Package db provides CRUD repository operations for Taskline data models.
package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	apperrors "github.com/kimhsiao/taskline/internal/errors"
	"github.com/kimhsiao/taskline/internal/models"
	"github.com/kimhsiao/taskline/internal/uuid"
)

const todoColumns = "id, title, completed, position, priority, tags, created_at"

// priorityRank orders high before medium before low; anything else sorts
// last. Must agree with models.Priority.Rank.
const priorityRank = "CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 WHEN 'low' THEN 2 ELSE 3 END"

// Repository provides CRUD operations for todos and tags. All multi-step
// mutations run inside a single transaction so the contiguous-position
// invariant survives mid-batch failures.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new Repository instance.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// =====================================================
// Todo operations
// =====================================================

// CreateTodo inserts a new todo at the end of the list. The position is
// max(position)+1, read inside the insert transaction, or 1 for an empty
// collection. ID, position and creation time are assigned here.
func (r *Repository) CreateTodo(ctx context.Context, todo *models.Todo) error {
	if todo.Priority == "" {
		todo.Priority = models.PriorityMedium
	}
	todo.ID = models.UUID(uuid.New())
	todo.CreatedAt = time.Now().Unix()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "beginning transaction", err)
	}
	defer tx.Rollback()

	var maxPosition int
	if err := tx.GetContext(ctx, &maxPosition,
		"SELECT COALESCE(MAX(position), 0) FROM todos"); err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "reading max position", err)
	}
	todo.Position = maxPosition + 1

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO todos ("+todoColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		todo.ID, todo.Title, todo.Completed, todo.Position,
		todo.Priority, todo.TagIDs, todo.CreatedAt,
	); err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "inserting todo", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "committing todo insert", err)
	}

	return r.resolveTags(ctx, todo)
}

// GetTodo retrieves a todo by ID with its tags resolved.
func (r *Repository) GetTodo(ctx context.Context, id string) (*models.Todo, error) {
	var todo models.Todo
	err := r.db.GetContext(ctx, &todo,
		"SELECT "+todoColumns+" FROM todos WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.New(apperrors.ErrNotFound, "Cannot find todo")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "getting todo", err)
	}
	if err := r.resolveTags(ctx, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// ListTodos returns all todos sorted by position, tags resolved.
func (r *Repository) ListTodos(ctx context.Context) ([]*models.Todo, error) {
	return r.listTodos(ctx,
		"SELECT "+todoColumns+" FROM todos ORDER BY position")
}

// ListTodosByPriority returns all todos sorted by priority rank then
// position.
func (r *Repository) ListTodosByPriority(ctx context.Context) ([]*models.Todo, error) {
	return r.listTodos(ctx,
		"SELECT "+todoColumns+" FROM todos ORDER BY "+priorityRank+", position")
}

// ListTodosByTag returns the todos referencing the given tag ID, sorted by
// position.
func (r *Repository) ListTodosByTag(ctx context.Context, tagID string) ([]*models.Todo, error) {
	where, args := NewFilterBuilder().Tag(tagID).Build()
	return r.listTodos(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE "+where+" ORDER BY position", args...)
}

// ListTodosByCompleted returns the todos with the given completion state,
// sorted by position.
func (r *Repository) ListTodosByCompleted(ctx context.Context, completed bool) ([]*models.Todo, error) {
	where, args := NewFilterBuilder().Completed(completed).Build()
	return r.listTodos(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE "+where+" ORDER BY position", args...)
}

func (r *Repository) listTodos(ctx context.Context, query string, args ...interface{}) ([]*models.Todo, error) {
	var todos []*models.Todo
	if err := r.db.SelectContext(ctx, &todos, query, args...); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "listing todos", err)
	}
	if err := r.resolveTags(ctx, todos...); err != nil {
		return nil, err
	}
	return todos, nil
}

// UpdateTodo persists the mutable fields of a todo. Position is managed by
// Reorder/Delete, never here.
func (r *Repository) UpdateTodo(ctx context.Context, todo *models.Todo) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE todos SET title = ?, completed = ?, priority = ?, tags = ? WHERE id = ?",
		todo.Title, todo.Completed, todo.Priority, todo.TagIDs, todo.ID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "updating todo", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.New(apperrors.ErrNotFound, "Cannot find todo")
	}
	return r.resolveTags(ctx, todo)
}

// DeleteTodo removes a todo and closes the gap it leaves: every todo whose
// position was strictly greater is shifted down by one. Both steps run in
// one transaction.
func (r *Repository) DeleteTodo(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "beginning transaction", err)
	}
	defer tx.Rollback()

	var position int
	err = tx.GetContext(ctx, &position, "SELECT position FROM todos WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.New(apperrors.ErrNotFound, "Cannot find todo")
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "getting todo position", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id); err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "deleting todo", err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE todos SET position = position - 1 WHERE position > ?", position); err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "compacting positions", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "committing todo delete", err)
	}
	return nil
}

// ReorderTodos assigns position i+1 to ids[i]. The list must be a full
// permutation of the current todo IDs; duplicates, unknown IDs or omissions
// are rejected so a partial list cannot corrupt the contiguous ordering.
func (r *Repository) ReorderTodos(ctx context.Context, ids []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "beginning transaction", err)
	}
	defer tx.Rollback()

	var existing []string
	if err := tx.SelectContext(ctx, &existing, "SELECT id FROM todos"); err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "listing todo ids", err)
	}

	if len(ids) != len(existing) {
		return apperrors.New(apperrors.ErrValidation,
			"reorder list must include every todo exactly once")
	}
	known := make(map[string]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !known[id] || seen[id] {
			return apperrors.New(apperrors.ErrValidation,
				"reorder list must include every todo exactly once")
		}
		seen[id] = true
	}

	stmt, err := tx.PreparexContext(ctx, "UPDATE todos SET position = ? WHERE id = ?")
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "preparing reorder statement", err)
	}
	defer stmt.Close()

	for i, id := range ids {
		if _, err := stmt.ExecContext(ctx, i+1, id); err != nil {
			return apperrors.Wrap(apperrors.ErrDatabase, "reassigning position", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "committing reorder", err)
	}
	return nil
}

// =====================================================
// Tag-set editing
// =====================================================

// AddTags appends the given tag IDs to the todo's tag set. The operation is
// a set union: IDs already present are not duplicated.
func (r *Repository) AddTags(ctx context.Context, todoID string, tagIDs []string) (*models.Todo, error) {
	return r.editTags(ctx, todoID, func(l models.TagList) models.TagList {
		return l.Union(tagIDs)
	})
}

// RemoveTags retains only the tags not present in the removal list. Removing
// an absent tag is a no-op, so the operation is idempotent.
func (r *Repository) RemoveTags(ctx context.Context, todoID string, tagIDs []string) (*models.Todo, error) {
	return r.editTags(ctx, todoID, func(l models.TagList) models.TagList {
		return l.Without(tagIDs)
	})
}

func (r *Repository) editTags(ctx context.Context, todoID string, edit func(models.TagList) models.TagList) (*models.Todo, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "beginning transaction", err)
	}
	defer tx.Rollback()

	var todo models.Todo
	err = tx.GetContext(ctx, &todo,
		"SELECT "+todoColumns+" FROM todos WHERE id = ?", todoID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.New(apperrors.ErrNotFound, "Cannot find todo")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "getting todo", err)
	}

	todo.TagIDs = edit(todo.TagIDs)

	if _, err := tx.ExecContext(ctx,
		"UPDATE todos SET tags = ? WHERE id = ?", todo.TagIDs, todo.ID); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "updating todo tags", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "committing tag edit", err)
	}

	if err := r.resolveTags(ctx, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// resolveTags populates Todo.Tags from Todo.TagIDs. IDs that no longer
// resolve to a tag record are skipped.
func (r *Repository) resolveTags(ctx context.Context, todos ...*models.Todo) error {
	var tags []*models.Tag
	if err := r.db.SelectContext(ctx, &tags,
		"SELECT id, name, color, created_at FROM tags"); err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "loading tags", err)
	}
	byID := make(map[string]*models.Tag, len(tags))
	for _, tag := range tags {
		byID[string(tag.ID)] = tag
	}

	for _, todo := range todos {
		resolved := make([]*models.Tag, 0, len(todo.TagIDs))
		for _, id := range todo.TagIDs {
			if tag, ok := byID[id]; ok {
				resolved = append(resolved, tag)
			}
		}
		todo.Tags = resolved
	}
	return nil
}

// =====================================================
// Tag operations
// =====================================================

// CreateTag creates a new tag. ID and creation time are assigned here; an
// empty color falls back to the default.
func (r *Repository) CreateTag(ctx context.Context, tag *models.Tag) error {
	tag.ID = models.UUID(uuid.New())
	tag.CreatedAt = time.Now().Unix()
	if tag.Color == "" {
		tag.Color = models.DefaultTagColor
	}

	if _, err := r.db.ExecContext(ctx,
		"INSERT INTO tags (id, name, color, created_at) VALUES (?, ?, ?, ?)",
		tag.ID, tag.Name, tag.Color, tag.CreatedAt); err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "inserting tag", err)
	}
	return nil
}

// GetTag retrieves a tag by ID.
func (r *Repository) GetTag(ctx context.Context, id string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.GetContext(ctx, &tag,
		"SELECT id, name, color, created_at FROM tags WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.New(apperrors.ErrNotFound, "Cannot find tag")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "getting tag", err)
	}
	return &tag, nil
}

// ListTags returns all tags ordered by name.
func (r *Repository) ListTags(ctx context.Context) ([]*models.Tag, error) {
	var tags []*models.Tag
	if err := r.db.SelectContext(ctx, &tags,
		"SELECT id, name, color, created_at FROM tags ORDER BY name"); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, "listing tags", err)
	}
	return tags, nil
}

// UpdateTag persists the mutable fields of a tag.
func (r *Repository) UpdateTag(ctx context.Context, tag *models.Tag) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE tags SET name = ?, color = ? WHERE id = ?",
		tag.Name, tag.Color, tag.ID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "updating tag", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.New(apperrors.ErrNotFound, "Cannot find tag")
	}
	return nil
}

// DeleteTag removes a tag and, in the same transaction, strips its ID from
// every todo that references it, so no dangling references survive.
func (r *Repository) DeleteTag(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "beginning transaction", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, "DELETE FROM tags WHERE id = ?", id)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "deleting tag", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.New(apperrors.ErrNotFound, "Cannot find tag")
	}

	where, args := NewFilterBuilder().Tag(id).Build()
	var referencing []*models.Todo
	if err := tx.SelectContext(ctx, &referencing,
		"SELECT "+todoColumns+" FROM todos WHERE "+where, args...); err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "finding referencing todos", err)
	}
	for _, todo := range referencing {
		todo.TagIDs = todo.TagIDs.Without([]string{id})
		if _, err := tx.ExecContext(ctx,
			"UPDATE todos SET tags = ? WHERE id = ?", todo.TagIDs, todo.ID); err != nil {
			return apperrors.Wrap(apperrors.ErrDatabase, "removing tag reference", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.ErrDatabase, "committing tag delete", err)
	}
	return nil
}
