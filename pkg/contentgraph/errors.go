package contentgraph

import (
	"errors"
	"fmt"
)

// Error categories. Lookup and uniqueness failures returned by the Service
// match one of these through errors.Is.
var (
	// ErrNotFound indicates a referenced entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness violation
	ErrConflict = errors.New("conflict")
)

// Error types
var (
	// ErrUserNotFound indicates a user was not found
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)

	// ErrPostNotFound indicates a post was not found, or was found but is
	// not published where publication is required
	ErrPostNotFound = fmt.Errorf("post %w", ErrNotFound)

	// ErrCommentNotFound indicates a comment was not found
	ErrCommentNotFound = fmt.Errorf("comment %w", ErrNotFound)

	// ErrEmailTaken indicates another user already uses the email
	ErrEmailTaken = fmt.Errorf("email taken: %w", ErrConflict)

	// ErrDuplicateID indicates a repository already holds a record with the id
	ErrDuplicateID = fmt.Errorf("duplicate id: %w", ErrConflict)

	// ErrInvalidTopic indicates a subscription topic is not "post" or "comment:<postID>"
	ErrInvalidTopic = errors.New("invalid topic")
)

// EntityError represents an error related to a user, post or comment operation
type EntityError struct {
	Entity string
	ID     string
	Op     string
	Err    error
}

func (e *EntityError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s operation %s failed: %v", e.Entity, e.Op, e.Err)
	}
	return fmt.Sprintf("%s operation %s failed for %s %s: %v", e.Entity, e.Op, e.Entity, e.ID, e.Err)
}

func (e *EntityError) Unwrap() error {
	return e.Err
}

func userError(op, id string, err error) error {
	return &EntityError{Entity: "user", ID: id, Op: op, Err: err}
}

func postError(op, id string, err error) error {
	return &EntityError{Entity: "post", ID: id, Op: op, Err: err}
}

func commentError(op, id string, err error) error {
	return &EntityError{Entity: "comment", ID: id, Op: op, Err: err}
}
