package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/simple-graph/pkg/contentgraph"
)

var errInvalidBody = errors.New("invalid request body")

// CreateUserRequest is the request body for creating a user
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   *int   `json:"age,omitempty"`
}

// UpdateUserRequest is the request body for updating a user. Omitted fields
// are left unchanged. Age cannot be cleared, so "age": null is rejected.
type UpdateUserRequest struct {
	Name  *string     `json:"name,omitempty"`
	Email *string     `json:"email,omitempty"`
	Age   optionalInt `json:"age"`
}

// optionalInt tells an explicit JSON null apart from an omitted field.
type optionalInt struct {
	Value *int
	Null  bool
}

func (o *optionalInt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		o.Value, o.Null = nil, true
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

func (o optionalInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}

// CreatePostRequest is the request body for creating a post
type CreatePostRequest struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
	Author    string `json:"author"`
}

// UpdatePostRequest is the request body for updating a post. Omitted fields
// are left unchanged.
type UpdatePostRequest struct {
	Title     *string `json:"title,omitempty"`
	Body      *string `json:"body,omitempty"`
	Published *bool   `json:"published,omitempty"`
}

// CreateCommentRequest is the request body for creating a comment
type CreateCommentRequest struct {
	Text   string `json:"text"`
	Author string `json:"author"`
	Post   string `json:"post"`
}

// UpdateCommentRequest is the request body for updating a comment
type UpdateCommentRequest struct {
	Text *string `json:"text,omitempty"`
}

func (req CreateUserRequest) validate() error {
	return required("name", req.Name, "email", req.Email)
}

func (req UpdateUserRequest) validate() error {
	if req.Age.Null {
		return fmt.Errorf("%w: age cannot be null", errInvalidBody)
	}
	return nil
}

func (req CreatePostRequest) validate() error {
	return required("title", req.Title, "author", req.Author)
}

func (req CreateCommentRequest) validate() error {
	return required("text", req.Text, "author", req.Author, "post", req.Post)
}

// required takes name/value pairs and reports the first empty value.
func required(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return fmt.Errorf("%w: %s is required", errInvalidBody, pairs[i])
		}
	}
	return nil
}

func decode(r *http.Request, v any) error {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}

func (req CreateUserRequest) toService() contentgraph.CreateUserRequest {
	return contentgraph.CreateUserRequest{Name: req.Name, Email: req.Email, Age: req.Age}
}

func (req UpdateUserRequest) toService() contentgraph.UpdateUserRequest {
	return contentgraph.UpdateUserRequest{Name: req.Name, Email: req.Email, Age: req.Age.Value}
}

func (req CreatePostRequest) toService() contentgraph.CreatePostRequest {
	return contentgraph.CreatePostRequest{
		Title:     req.Title,
		Body:      req.Body,
		Published: req.Published,
		Author:    req.Author,
	}
}

func (req UpdatePostRequest) toService() contentgraph.UpdatePostRequest {
	return contentgraph.UpdatePostRequest{Title: req.Title, Body: req.Body, Published: req.Published}
}

func (req CreateCommentRequest) toService() contentgraph.CreateCommentRequest {
	return contentgraph.CreateCommentRequest{Text: req.Text, Author: req.Author, Post: req.Post}
}

func (req UpdateCommentRequest) toService() contentgraph.UpdateCommentRequest {
	return contentgraph.UpdateCommentRequest{Text: req.Text}
}
