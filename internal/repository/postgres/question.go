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

type questionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) repository.QuestionRepository {
	return &questionRepository{db: db}
}

const questionColumns = `q.id, q.hub_id, q.author_id, u.username, q.title, q.body, q.accepted_answer_id, q.created_at`

func scanQuestion(row interface{ Scan(...any) error }) (*models.Question, error) {
	var (
		q        models.Question
		username string
		accepted sql.NullString
	)
	err := row.Scan(&q.ID, &q.HubID, &q.OwnerID, &username, &q.Title, &q.Body, &accepted, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	if accepted.Valid {
		q.AcceptedAnswerID = &accepted.String
	}
	q.Author = models.Identified(q.OwnerID, username)
	return &q, nil
}

func (r *questionRepository) Create(ctx context.Context, q *models.Question) (*models.Question, error) {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	q.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO questions (id, hub_id, author_id, title, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		q.ID, q.HubID, q.OwnerID, q.Title, q.Body, q.CreatedAt,
	)
	if err != nil {
		if isPQCode(err, foreignKeyViolation) {
			return nil, fmt.Errorf("hub %s: %w", q.HubID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	return q, nil
}

func (r *questionRepository) GetByID(ctx context.Context, id string) (*models.Question, error) {
	query := `SELECT ` + questionColumns + `
		FROM questions q JOIN users u ON u.id = q.author_id
		WHERE q.id = $1`

	q, err := scanQuestion(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "question", id)
	}
	return q, nil
}

func (r *questionRepository) ListByHub(ctx context.Context, hubID string, filters repository.ListFilters) ([]*models.Question, error) {
	filters = filters.Normalize()
	query := `SELECT ` + questionColumns + `
		FROM questions q JOIN users u ON u.id = q.author_id
		WHERE q.hub_id = $1
		ORDER BY q.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, hubID, filters.Limit, filters.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	questions := make([]*models.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *questionRepository) AddAnswer(ctx context.Context, a *models.Answer) (*models.Answer, error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO answers (id, question_id, author_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.QuestionID, a.OwnerID, a.Body, a.CreatedAt,
	)
	if err != nil {
		if isPQCode(err, foreignKeyViolation) {
			return nil, fmt.Errorf("question %s: %w", a.QuestionID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to create answer: %w", err)
	}
	return a, nil
}

func (r *questionRepository) GetAnswer(ctx context.Context, id string) (*models.Answer, error) {
	var (
		a        models.Answer
		username string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT a.id, a.question_id, a.author_id, u.username, a.body, a.created_at
		FROM answers a JOIN users u ON u.id = a.author_id
		WHERE a.id = $1`, id,
	).Scan(&a.ID, &a.QuestionID, &a.OwnerID, &username, &a.Body, &a.CreatedAt)
	if err != nil {
		return nil, notFound(err, "answer", id)
	}
	a.Author = models.Identified(a.OwnerID, username)
	return &a, nil
}

func (r *questionRepository) ListAnswers(ctx context.Context, questionID string) ([]models.Answer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.question_id, a.author_id, u.username, a.body, a.created_at
		FROM answers a JOIN users u ON u.id = a.author_id
		WHERE a.question_id = $1
		ORDER BY a.created_at ASC, a.id ASC`, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}
	defer rows.Close()

	answers := make([]models.Answer, 0)
	for rows.Next() {
		var (
			a        models.Answer
			username string
		)
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.OwnerID, &username, &a.Body, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		a.Author = models.Identified(a.OwnerID, username)
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// AcceptAnswer marks answerID as the accepted answer, replacing any earlier
// choice. The answer must belong to the question.
func (r *questionRepository) AcceptAnswer(ctx context.Context, questionID, answerID string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE questions SET accepted_answer_id = $2
		WHERE id = $1
		  AND EXISTS (SELECT 1 FROM answers WHERE id = $2 AND question_id = $1)`,
		questionID, answerID,
	)
	if err != nil {
		return fmt.Errorf("failed to accept answer: %w", err)
	}
	return expectOne(result, "answer", answerID)
}
