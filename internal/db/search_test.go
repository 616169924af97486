package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimhsiao/taskline/internal/models"
)

func boolPtr(b bool) *bool { return &b }

func TestSearchTodosByTitle(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	createTodo(t, repo, "Buy groceries")
	createTodo(t, repo, "Clean house")

	resp, err := repo.SearchTodos(ctx, &SearchOptions{Title: "GROCERIES"})
	require.NoError(t, err)
	require.Len(t, resp.Todos, 1)
	assert.Equal(t, "Buy groceries", resp.Todos[0].Title)
	assert.Equal(t, 1, resp.TotalPages)
	assert.Equal(t, 1, resp.CurrentPage)
}

func TestSearchTodosPagination(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	createTodo(t, repo, "a")
	createTodo(t, repo, "b")
	createTodo(t, repo, "c")

	resp, err := repo.SearchTodos(ctx, &SearchOptions{
		Completed: boolPtr(false),
		Page:      1,
		Limit:     1,
	})
	require.NoError(t, err)
	require.Len(t, resp.Todos, 1, "limit=1 never returns more than one item")
	assert.Equal(t, "a", resp.Todos[0].Title)
	assert.Equal(t, 3, resp.TotalPages, "totalPages = ceil(count/limit)")

	resp, err = repo.SearchTodos(ctx, &SearchOptions{
		Completed: boolPtr(false),
		Page:      3,
		Limit:     1,
	})
	require.NoError(t, err)
	require.Len(t, resp.Todos, 1)
	assert.Equal(t, "c", resp.Todos[0].Title)
	assert.Equal(t, 3, resp.CurrentPage)
}

func TestSearchTodosPageBeyondEnd(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	createTodo(t, repo, "only")

	resp, err := repo.SearchTodos(ctx, &SearchOptions{Page: 5, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, resp.Todos)
	assert.NotNil(t, resp.Todos, "todos is an empty array, not null")
	assert.Equal(t, 1, resp.TotalPages)
	assert.Equal(t, 5, resp.CurrentPage)
}

func TestSearchTodosCombinedFilters(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	tag := &models.Tag{Name: "work"}
	require.NoError(t, repo.CreateTag(ctx, tag))

	match := &models.Todo{Title: "write report", Priority: models.PriorityHigh}
	require.NoError(t, repo.CreateTodo(ctx, match))
	_, err := repo.AddTags(ctx, string(match.ID), []string{string(tag.ID)})
	require.NoError(t, err)

	// Same title and priority, different tag set.
	other := &models.Todo{Title: "write letter", Priority: models.PriorityHigh}
	require.NoError(t, repo.CreateTodo(ctx, other))

	resp, err := repo.SearchTodos(ctx, &SearchOptions{
		Title:    "write",
		Tag:      string(tag.ID),
		Priority: models.PriorityHigh,
	})
	require.NoError(t, err)
	require.Len(t, resp.Todos, 1)
	assert.Equal(t, "write report", resp.Todos[0].Title)
	require.Len(t, resp.Todos[0].Tags, 1, "tag IDs are resolved to records")
	assert.Equal(t, "work", resp.Todos[0].Tags[0].Name)
}

func TestSearchTodosDefaultsAndClamp(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		createTodo(t, repo, "todo")
	}

	resp, err := repo.SearchTodos(ctx, &SearchOptions{})
	require.NoError(t, err)
	assert.Len(t, resp.Todos, 10, "default limit is 10")
	assert.Equal(t, 2, resp.TotalPages)
	assert.Equal(t, 1, resp.CurrentPage, "default page is 1")

	resp, err = repo.SearchTodos(ctx, &SearchOptions{Limit: 500})
	require.NoError(t, err)
	assert.Len(t, resp.Todos, 12, "limit above the cap is clamped, not rejected")
}

func TestSearchTodosOrderedByPosition(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	a := createTodo(t, repo, "a")
	b := createTodo(t, repo, "b")
	c := createTodo(t, repo, "c")
	require.NoError(t, repo.ReorderTodos(ctx, []string{
		string(c.ID), string(b.ID), string(a.ID),
	}))

	resp, err := repo.SearchTodos(ctx, &SearchOptions{})
	require.NoError(t, err)
	require.Len(t, resp.Todos, 3)
	assert.Equal(t, "c", resp.Todos[0].Title)
	assert.Equal(t, "b", resp.Todos[1].Title)
	assert.Equal(t, "a", resp.Todos[2].Title)
}
