// Package models provides data model definitions for Taskline.
package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// UUID is a wrapper around string for UUID v4 type safety.
type UUID string

// Value implements driver.Valuer for UUID.
func (u UUID) Value() (driver.Value, error) {
	return string(u), nil
}

// Scan implements sql.Scanner for UUID.
func (u *UUID) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*u = ""
	case string:
		*u = UUID(v)
	case []byte:
		*u = UUID(v)
	default:
		return fmt.Errorf("cannot scan %T into UUID", value)
	}
	return nil
}

// String returns the string representation of the UUID.
func (u UUID) String() string {
	return string(u)
}

// Priority is the three-valued urgency level of a todo.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is one of the three known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Rank returns the sort rank of the priority: high sorts before medium
// before low. Unknown values rank last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// TagList is an ordered list of tag IDs, stored as a comma-separated string.
type TagList []string

// Value implements driver.Valuer for TagList.
func (l TagList) Value() (driver.Value, error) {
	return strings.Join(l, ","), nil
}

// Scan implements sql.Scanner for TagList.
func (l *TagList) Scan(value interface{}) error {
	var s string
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into TagList", value)
	}
	if s == "" {
		*l = nil
		return nil
	}
	*l = TagList(strings.Split(s, ","))
	return nil
}

// Contains reports whether the list holds the given tag ID.
func (l TagList) Contains(id string) bool {
	for _, t := range l {
		if t == id {
			return true
		}
	}
	return false
}

// Union appends the given IDs that are not already present, preserving the
// order of existing entries and the request order of new ones.
func (l TagList) Union(ids []string) TagList {
	out := append(TagList(nil), l...)
	for _, id := range ids {
		if !out.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}

// Without returns the list with every occurrence of the given IDs removed.
// Removing an absent ID is a no-op.
func (l TagList) Without(ids []string) TagList {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	var out TagList
	for _, t := range l {
		if !drop[t] {
			out = append(out, t)
		}
	}
	return out
}

// Todo represents a task record with a display position and attached tags.
type Todo struct {
	ID        UUID     `db:"id" json:"id"`
	Title     string   `db:"title" json:"title"`
	Completed bool     `db:"completed" json:"completed"`
	Position  int      `db:"position" json:"position"`
	Priority  Priority `db:"priority" json:"priority"`
	TagIDs    TagList  `db:"tags" json:"-"`
	CreatedAt int64    `db:"created_at" json:"created_at"`

	// Tags holds the resolved tag records for TagIDs. Populated on reads;
	// never written back to the store.
	Tags []*Tag `db:"-" json:"tags"`
}

// TableName returns the table name for Todo.
func (Todo) TableName() string {
	return "todos"
}

// CreatedAtTime returns the CreatedAt as time.Time.
func (t *Todo) CreatedAtTime() time.Time {
	return time.Unix(t.CreatedAt, 0)
}
