package db

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kimhsiao/taskline/internal/models"
)

func TestFilterBuilderEmpty(t *testing.T) {
	where, args := NewFilterBuilder().Build()
	assert.Empty(t, where)
	assert.Nil(t, args)
	assert.False(t, NewFilterBuilder().HasFilters())
}

func TestFilterBuilderCombinesWithAND(t *testing.T) {
	where, args := NewFilterBuilder().
		Title("groceries").
		Completed(false).
		Priority(models.PriorityHigh).
		Build()

	assert.Equal(t, "LOWER(title) LIKE ? AND completed = ? AND priority = ?", where)
	assert.Equal(t, []interface{}{"%groceries%", 0, "high"}, args)
}

func TestTitleFilterLowercasesSubstring(t *testing.T) {
	where, args := NewFilterBuilder().Title("Buy Groceries").Build()
	assert.Equal(t, "LOWER(title) LIKE ?", where)
	assert.Equal(t, []interface{}{"%buy groceries%"}, args)
}

func TestTagFilterMatchesWholeIDs(t *testing.T) {
	f := &TagFilter{TagID: "abc"}
	assert.Equal(t, "(',' || tags || ',') LIKE ?", f.SQL())
	assert.Equal(t, []interface{}{"%,abc,%"}, f.Args())
}

func TestInvalidFiltersAreDropped(t *testing.T) {
	fb := NewFilterBuilder().
		Title("  ").
		Tag("").
		Priority(models.Priority("urgent"))
	assert.False(t, fb.HasFilters())
}
