package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorError(t *testing.T) {
	err := New(ErrNotFound, "Cannot find todo")
	want := "[NOT_FOUND] Cannot find todo"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}

	wrapped := Wrap(ErrDatabase, "query failed", stderrors.New("disk I/O error"))
	want = "[DATABASE_ERROR] query failed: disk I/O error"
	if wrapped.Error() != want {
		t.Errorf("Expected %q, got %q", want, wrapped.Error())
	}
}

func TestIs(t *testing.T) {
	err := New(ErrValidation, "tags must be an array")
	if !Is(err, ErrValidation) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrNotFound) {
		t.Error("Is should not match a different code")
	}

	// Code is found through wrapping.
	outer := fmt.Errorf("adding tags: %w", err)
	if !Is(outer, ErrValidation) {
		t.Error("Is should unwrap to find the code")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{New(ErrNotFound, "Cannot find tag"), http.StatusNotFound},
		{New(ErrValidation, "title is required"), http.StatusBadRequest},
		{New(ErrInvalid, "Invalid data format"), http.StatusBadRequest},
		{Wrap(ErrDatabase, "update failed", stderrors.New("boom")), http.StatusInternalServerError},
		{stderrors.New("plain error"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatus(c.err); got != c.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrNotFound, "Cannot find todo")); got != "Cannot find todo" {
		t.Errorf("Expected message, got %q", got)
	}
	// Database errors surface the underlying error text.
	dbErr := Wrap(ErrDatabase, "delete failed", stderrors.New("database is locked"))
	if got := UserMessage(dbErr); got != "database is locked" {
		t.Errorf("Expected underlying error text, got %q", got)
	}
}
