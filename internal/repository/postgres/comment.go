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

type commentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) repository.CommentRepository {
	return &commentRepository{db: db}
}

const commentColumns = `c.id, c.post_id, c.author_id, u.username, c.anonymous, c.parent_id, c.content, c.deleted, c.created_at`

func scanComment(row interface{ Scan(...any) error }) (models.Comment, error) {
	var (
		c         models.Comment
		username  string
		anonymous bool
		parentID  sql.NullString
	)
	err := row.Scan(&c.ID, &c.PostID, &c.OwnerID, &username, &anonymous, &parentID, &c.Content, &c.Deleted, &c.CreatedAt)
	if err != nil {
		return c, err
	}
	if parentID.Valid {
		c.ParentID = &parentID.String
	}
	// Deleted comments keep their place in the thread but lose their author.
	if c.Deleted {
		c.Author = models.AnonymousAuthor()
	} else {
		c.Author = authorOf(c.OwnerID, username, anonymous)
	}
	return c, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	query := `INSERT INTO comments (id, post_id, author_id, anonymous, parent_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	comment.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.PostID, comment.OwnerID, comment.Author.Anonymous,
		comment.ParentID, comment.Content, comment.CreatedAt,
	)
	if err != nil {
		if isPQCode(err, foreignKeyViolation) {
			return nil, fmt.Errorf("post or parent comment: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + `
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.id = $1`

	c, err := scanComment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "comment", id)
	}
	return &c, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	query := `SELECT ` + commentColumns + `
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC, c.id ASC`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := make([]models.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// SoftDelete blanks the comment but keeps the row so replies stay attached.
func (r *commentRepository) SoftDelete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE comments SET deleted = TRUE, content = $2 WHERE id = $1`,
		id, models.DeletedCommentContent,
	)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return expectOne(result, "comment", id)
}
