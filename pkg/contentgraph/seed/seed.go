// Package seed loads fixture data into a content graph repository.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tendant/simple-graph/pkg/contentgraph"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultFixture []byte

// Fixture is a set of records to insert as-is, ids included.
type Fixture struct {
	Users    []contentgraph.User    `yaml:"users"`
	Posts    []contentgraph.Post    `yaml:"posts"`
	Comments []contentgraph.Comment `yaml:"comments"`
}

// Default returns the built-in demo dataset.
func Default() *Fixture {
	f, err := Parse(defaultFixture)
	if err != nil {
		panic(fmt.Sprintf("seed: parse embedded fixture: %v", err))
	}
	return f
}

// LoadFile reads a YAML fixture from path.
func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML fixture. Unknown fields are rejected.
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

// Validate checks that ids are present and unique, emails are unique
// ignoring case, and every reference resolves within the fixture.
func (f *Fixture) Validate() error {
	users := make(map[string]bool, len(f.Users))
	emails := make(map[string]bool, len(f.Users))
	for _, u := range f.Users {
		if u.ID == "" {
			return errors.New("user without id")
		}
		if users[u.ID] {
			return fmt.Errorf("user %s: %w", u.ID, contentgraph.ErrDuplicateID)
		}
		email := contentgraph.FoldCase(u.Email)
		if emails[email] {
			return fmt.Errorf("user %s: %w", u.ID, contentgraph.ErrEmailTaken)
		}
		users[u.ID] = true
		emails[email] = true
	}

	posts := make(map[string]bool, len(f.Posts))
	for _, p := range f.Posts {
		if p.ID == "" {
			return errors.New("post without id")
		}
		if posts[p.ID] {
			return fmt.Errorf("post %s: %w", p.ID, contentgraph.ErrDuplicateID)
		}
		if !users[p.Author] {
			return fmt.Errorf("post %s author %s: %w", p.ID, p.Author, contentgraph.ErrUserNotFound)
		}
		posts[p.ID] = true
	}

	comments := make(map[string]bool, len(f.Comments))
	for _, c := range f.Comments {
		if c.ID == "" {
			return errors.New("comment without id")
		}
		if comments[c.ID] {
			return fmt.Errorf("comment %s: %w", c.ID, contentgraph.ErrDuplicateID)
		}
		if !users[c.Author] {
			return fmt.Errorf("comment %s author %s: %w", c.ID, c.Author, contentgraph.ErrUserNotFound)
		}
		if !posts[c.Post] {
			return fmt.Errorf("comment %s post %s: %w", c.ID, c.Post, contentgraph.ErrPostNotFound)
		}
		comments[c.ID] = true
	}
	return nil
}

// Apply validates f and inserts its records into repo in fixture order.
func Apply(ctx context.Context, repo contentgraph.Repository, f *Fixture) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("invalid fixture: %w", err)
	}

	for i := range f.Users {
		if err := repo.CreateUser(ctx, &f.Users[i]); err != nil {
			return fmt.Errorf("seed user %s: %w", f.Users[i].ID, err)
		}
	}
	for i := range f.Posts {
		if err := repo.CreatePost(ctx, &f.Posts[i]); err != nil {
			return fmt.Errorf("seed post %s: %w", f.Posts[i].ID, err)
		}
	}
	for i := range f.Comments {
		if err := repo.CreateComment(ctx, &f.Comments[i]); err != nil {
			return fmt.Errorf("seed comment %s: %w", f.Comments[i].ID, err)
		}
	}
	return nil
}
