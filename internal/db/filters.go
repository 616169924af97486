// Package db provides todo filter building functionality.
package db

import (
	"strings"

	"github.com/kimhsiao/taskline/internal/models"
)

// Filter represents a single filter condition on the todos table.
type Filter interface {
	// SQL returns the SQL fragment for this filter
	SQL() string

	// Args returns the arguments for this filter
	Args() []interface{}

	// Valid checks if the filter is valid
	Valid() bool
}

// TitleFilter matches todos whose title contains a substring,
// case-insensitively.
type TitleFilter struct {
	Substring string
}

// Valid checks that the substring is non-empty.
func (f *TitleFilter) Valid() bool {
	return strings.TrimSpace(f.Substring) != ""
}

// SQL returns the SQL fragment for title filtering.
func (f *TitleFilter) SQL() string {
	return "LOWER(title) LIKE ?"
}

// Args returns the arguments for title filtering.
func (f *TitleFilter) Args() []interface{} {
	return []interface{}{"%" + strings.ToLower(f.Substring) + "%"}
}

// CompletedFilter matches todos by exact completion state.
type CompletedFilter struct {
	Completed bool
}

// Valid always holds; both states are filterable.
func (f *CompletedFilter) Valid() bool {
	return true
}

// SQL returns the SQL fragment for completion filtering.
func (f *CompletedFilter) SQL() string {
	return "completed = ?"
}

// Args returns the arguments for completion filtering.
func (f *CompletedFilter) Args() []interface{} {
	if f.Completed {
		return []interface{}{1}
	}
	return []interface{}{0}
}

// TagFilter matches todos whose tag list contains a tag ID. The tags column
// is comma-separated, so membership is tested against the list wrapped in
// leading and trailing commas.
type TagFilter struct {
	TagID string
}

// Valid checks that the tag ID is non-empty.
func (f *TagFilter) Valid() bool {
	return strings.TrimSpace(f.TagID) != ""
}

// SQL returns the SQL fragment for tag membership filtering.
func (f *TagFilter) SQL() string {
	return "(',' || tags || ',') LIKE ?"
}

// Args returns the arguments for tag membership filtering.
func (f *TagFilter) Args() []interface{} {
	return []interface{}{"%," + f.TagID + ",%"}
}

// PriorityFilter matches todos by exact priority.
type PriorityFilter struct {
	Priority models.Priority
}

// Valid checks that the priority is one of the known values.
func (f *PriorityFilter) Valid() bool {
	return f.Priority.Valid()
}

// SQL returns the SQL fragment for priority filtering.
func (f *PriorityFilter) SQL() string {
	return "priority = ?"
}

// Args returns the arguments for priority filtering.
func (f *PriorityFilter) Args() []interface{} {
	return []interface{}{string(f.Priority)}
}

// FilterBuilder builds SQL WHERE conditions from multiple filters. Filters
// are combined with AND; invalid filters are silently dropped.
type FilterBuilder struct {
	filters []Filter
}

// NewFilterBuilder creates a new FilterBuilder.
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{
		filters: make([]Filter, 0),
	}
}

// Title adds a title substring filter.
func (fb *FilterBuilder) Title(substring string) *FilterBuilder {
	filter := &TitleFilter{Substring: substring}
	if filter.Valid() {
		fb.filters = append(fb.filters, filter)
	}
	return fb
}

// Completed adds a completion state filter.
func (fb *FilterBuilder) Completed(completed bool) *FilterBuilder {
	fb.filters = append(fb.filters, &CompletedFilter{Completed: completed})
	return fb
}

// Tag adds a tag membership filter.
func (fb *FilterBuilder) Tag(tagID string) *FilterBuilder {
	filter := &TagFilter{TagID: tagID}
	if filter.Valid() {
		fb.filters = append(fb.filters, filter)
	}
	return fb
}

// Priority adds a priority filter.
func (fb *FilterBuilder) Priority(p models.Priority) *FilterBuilder {
	filter := &PriorityFilter{Priority: p}
	if filter.Valid() {
		fb.filters = append(fb.filters, filter)
	}
	return fb
}

// HasFilters returns true if any filters have been added.
func (fb *FilterBuilder) HasFilters() bool {
	return len(fb.filters) > 0
}

// Build builds the SQL WHERE clause and returns the arguments. The returned
// fragment does not include the WHERE keyword; it is empty when no filters
// were added.
func (fb *FilterBuilder) Build() (string, []interface{}) {
	if !fb.HasFilters() {
		return "", nil
	}

	var sqlParts []string
	var args []interface{}

	for _, filter := range fb.filters {
		sqlParts = append(sqlParts, filter.SQL())
		args = append(args, filter.Args()...)
	}

	return strings.Join(sqlParts, " AND "), args
}
