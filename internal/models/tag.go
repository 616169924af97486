// Package models provides data model definitions for Taskline.
package models

import "time"

// DefaultTagColor is applied when a tag is created without a color.
const DefaultTagColor = "#3B82F6"

// Tag represents a named, colored label attachable to multiple todos.
type Tag struct {
	ID        UUID   `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Color     string `db:"color" json:"color"`
	CreatedAt int64  `db:"created_at" json:"created_at"`
}

// TableName returns the table name for Tag.
func (Tag) TableName() string {
	return "tags"
}

// CreatedAtTime returns the CreatedAt as time.Time.
func (t *Tag) CreatedAtTime() time.Time {
	return time.Unix(t.CreatedAt, 0)
}
