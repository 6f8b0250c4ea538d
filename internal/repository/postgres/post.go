package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saxenaaman628/hobbyhub/internal/models"
	"github.com/saxenaaman628/hobbyhub/internal/repository"
)

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) repository.PostRepository {
	return &postRepository{db: db}
}

const postColumns = `p.id, p.hub_id, p.author_id, u.username, p.anonymous, p.title, p.content, p.created_at,
	COALESCE((SELECT SUM(v.value) FROM post_votes v WHERE v.post_id = p.id), 0)`

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	var (
		post      models.Post
		username  string
		anonymous bool
	)
	err := row.Scan(&post.ID, &post.HubID, &post.OwnerID, &username, &anonymous,
		&post.Title, &post.Content, &post.CreatedAt, &post.Score)
	if err != nil {
		return nil, err
	}
	post.Author = authorOf(post.OwnerID, username, anonymous)
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	query := `INSERT INTO posts (id, hub_id, author_id, anonymous, title, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	post.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		post.ID, post.HubID, post.OwnerID, post.Author.Anonymous,
		post.Title, post.Content, post.CreatedAt,
	)
	if err != nil {
		if isPQCode(err, foreignKeyViolation) {
			return nil, fmt.Errorf("hub %s: %w", post.HubID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + `
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "post", id)
	}
	return post, nil
}

func (r *postRepository) ListByHub(ctx context.Context, hubID string, filters repository.ListFilters) ([]*models.Post, error) {
	filters = filters.Normalize()
	query := `SELECT ` + postColumns + `
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.hub_id = $1
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, hubID, filters.Limit, filters.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*models.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return expectOne(result, "post", id)
}

// Vote upserts the user's vote in one statement and returns the new score.
func (r *postRepository) Vote(ctx context.Context, postID, userID string, value int) (int, error) {
	if value != 1 && value != -1 {
		return 0, fmt.Errorf("vote value %d: %w", value, models.ErrInvalid)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO post_votes (post_id, user_id, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (post_id, user_id) DO UPDATE SET value = EXCLUDED.value`,
		postID, userID, value,
	)
	if err != nil {
		if isPQCode(err, foreignKeyViolation) {
			return 0, fmt.Errorf("post %s: %w", postID, models.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to vote on post: %w", err)
	}

	var score int
	err = r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(value), 0) FROM post_votes WHERE post_id = $1`, postID,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("failed to read post score: %w", err)
	}
	return score, nil
}
