package contentgraph

import (
	"fmt"
	"strings"
)

// MutationKind describes the nature of a change for event consumers.
type MutationKind string

// Mutation kind constants.
const (
	MutationCreated MutationKind = "CREATED"
	MutationUpdated MutationKind = "UPDATED"
	MutationDeleted MutationKind = "DELETED"
)

// PostTopic is the single topic carrying every post event.
const PostTopic = "post"

const commentTopicPrefix = "comment:"

// CommentTopic returns the topic carrying comment events for one post.
func CommentTopic(postID string) string {
	return commentTopicPrefix + postID
}

// ParseTopic validates topic and, for comment topics, returns the post id it
// is scoped to.
func ParseTopic(topic string) (postID string, err error) {
	if topic == PostTopic {
		return "", nil
	}
	if id, ok := strings.CutPrefix(topic, commentTopicPrefix); ok && id != "" {
		return id, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTopic, topic)
}

// Event is the envelope delivered to subscribers. Data holds a snapshot of
// the entity by value: a Post for the post topic, a Comment for comment
// topics.
type Event struct {
	Topic    string       `json:"-"`
	Mutation MutationKind `json:"mutation"`
	Data     any          `json:"data"`
}

// Post returns the post snapshot carried by e, if any.
func (e Event) Post() (Post, bool) {
	p, ok := e.Data.(Post)
	return p, ok
}

// Comment returns the comment snapshot carried by e, if any.
func (e Event) Comment() (Comment, bool) {
	c, ok := e.Data.(Comment)
	return c, ok
}
