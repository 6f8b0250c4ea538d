package repository

import (
	"context"

	"github.com/saxenaaman628/hobbyhub/internal/ballot"
	"github.com/saxenaaman628/hobbyhub/internal/models"
)

// Lookups that find nothing return an error wrapping models.ErrNotFound.

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// HubRepository defines the interface for hub and membership operations
type HubRepository interface {
	// Create stores the hub and makes its creator an admin member.
	Create(ctx context.Context, hub *models.Hub) (*models.Hub, error)
	GetByID(ctx context.Context, id string) (*models.Hub, error)
	List(ctx context.Context, filters ListFilters) ([]*models.Hub, error)
	Delete(ctx context.Context, id string) error
	GetMember(ctx context.Context, hubID, userID string) (*models.HubMember, error)
	AddMember(ctx context.Context, hubID, userID, role string) error
	RemoveMember(ctx context.Context, hubID, userID string) error
}

// PostRepository defines the interface for post and post vote operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	ListByHub(ctx context.Context, hubID string, filters ListFilters) ([]*models.Post, error)
	Delete(ctx context.Context, id string) error
	// Vote sets the user's vote on the post and returns the post's new score.
	Vote(ctx context.Context, postID, userID string, value int) (int, error)
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	// ListByPost returns the post's comments flat, oldest first.
	ListByPost(ctx context.Context, postID string) ([]models.Comment, error)
	SoftDelete(ctx context.Context, id string) error
}

// QuestionRepository defines the interface for question and answer operations
type QuestionRepository interface {
	Create(ctx context.Context, q *models.Question) (*models.Question, error)
	GetByID(ctx context.Context, id string) (*models.Question, error)
	ListByHub(ctx context.Context, hubID string, filters ListFilters) ([]*models.Question, error)
	AddAnswer(ctx context.Context, a *models.Answer) (*models.Answer, error)
	GetAnswer(ctx context.Context, id string) (*models.Answer, error)
	ListAnswers(ctx context.Context, questionID string) ([]models.Answer, error)
	AcceptAnswer(ctx context.Context, questionID, answerID string) error
}

// PollRepository stores polls and applies votes atomically per poll.
type PollRepository interface {
	Create(ctx context.Context, poll *models.Poll) error
	Get(ctx context.Context, id string) (*models.Poll, error)
	ListByHub(ctx context.Context, hubID string, filters ListFilters) ([]*models.Poll, error)
	CastVote(ctx context.Context, pollID, userID, option string) (ballot.Result, error)
	Delete(ctx context.Context, id string) error
	DeleteByHub(ctx context.Context, hubID string) error
}

// ListFilters pages through list results. A zero Limit means DefaultLimit.
type ListFilters struct {
	Limit  int
	Offset int
}

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Normalize clamps the filters to valid values.
func (f ListFilters) Normalize() ListFilters {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
