package models

import "time"

type Post struct {
	ID        string    `json:"id"`
	HubID     string    `json:"hub_id"`
	Author    Author    `json:"author"`
	OwnerID   string    `json:"-"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// PostVote is a single user's up (+1) or down (-1) vote on a post.
type PostVote struct {
	PostID string `json:"post_id"`
	UserID string `json:"user_id"`
	Value  int    `json:"value"`
}
