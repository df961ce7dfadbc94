package contentgraph

// User is an author of posts and comments.
type User struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Age   *int   `json:"age,omitempty" yaml:"age,omitempty"`
}

// Post is a piece of content written by a user. Only published posts can
// receive comments and only published posts produce events.
type Post struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Body      string `json:"body" yaml:"body"`
	Published bool   `json:"published" yaml:"published"`
	Author    string `json:"author" yaml:"author"`
}

// Comment is a user's reply on a published post.
type Comment struct {
	ID     string `json:"id" yaml:"id"`
	Text   string `json:"text" yaml:"text"`
	Author string `json:"author" yaml:"author"`
	Post   string `json:"post" yaml:"post"`
}

// Profile is the placeholder identity returned by Me.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Clone returns a copy of u that shares no memory with it.
func (u *User) Clone() *User {
	c := *u
	if u.Age != nil {
		age := *u.Age
		c.Age = &age
	}
	return &c
}

// Clone returns a copy of p.
func (p *Post) Clone() *Post {
	c := *p
	return &c
}

// Clone returns a copy of c.
func (c *Comment) Clone() *Comment {
	cc := *c
	return &cc
}

// CreateUserRequest contains parameters for creating a user.
type CreateUserRequest struct {
	Name  string
	Email string
	Age   *int
}

// UpdateUserRequest contains the fields to change on a user. Nil fields are
// left unchanged.
type UpdateUserRequest struct {
	Name  *string
	Email *string
	Age   *int
}

// CreatePostRequest contains parameters for creating a post.
type CreatePostRequest struct {
	Title     string
	Body      string
	Published bool
	Author    string
}

// UpdatePostRequest contains the fields to change on a post. Nil fields are
// left unchanged.
type UpdatePostRequest struct {
	Title     *string
	Body      *string
	Published *bool
}

// CreateCommentRequest contains parameters for creating a comment.
type CreateCommentRequest struct {
	Text   string
	Author string
	Post   string
}

// UpdateCommentRequest contains the fields to change on a comment.
type UpdateCommentRequest struct {
	Text *string
}
