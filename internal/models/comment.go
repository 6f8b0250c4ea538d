package models

import "time"

// Comment is a reply on a post. ParentID is nil for a root comment.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	Author    Author    `json:"author"`
	OwnerID   string    `json:"-"`
	Content   string    `json:"content"`
	ParentID  *string   `json:"parent_id"`
	Deleted   bool      `json:"deleted,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Replies is filled in by the thread builder and never persisted.
	Replies []*Comment `json:"replies"`
}

// DeletedCommentContent replaces the body of a comment removed by its author.
const DeletedCommentContent = "[deleted]"
