// Package contentgraph provides an in-memory content graph of users, posts
// and comments with a mutation/query API and topic-addressed change
// notifications.
//
// A single Service owns the relational rules: it validates references when
// entities are created, applies partial updates, performs cascading deletes
// and translates state transitions into Events published on a Broker.
// Storage is pluggable through the Repository interface; the in-memory
// implementation lives in repo/memory and the default broker in pubsub.
//
// # Topics
//
// Post events are published on the single "post" topic. Comment events are
// scoped to the post they belong to and published on "comment:<postID>".
// Use PostTopic and CommentTopic to build topic names.
//
// # Referential integrity
//
// No comment outlives its post and no post or comment outlives its author.
// This is enforced when deleting, not by a standing check: deleting a user
// removes the user's posts, the comments on those posts and the user's own
// comments elsewhere. Only post removals emit events during a cascade.
package contentgraph
