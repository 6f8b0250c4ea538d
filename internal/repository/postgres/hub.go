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

type hubRepository struct {
	db *sql.DB
}

// NewHubRepository creates a new hub repository
func NewHubRepository(db *sql.DB) repository.HubRepository {
	return &hubRepository{db: db}
}

const hubColumns = `h.id, h.name, h.description, h.creator_id, h.created_at,
	(SELECT COUNT(*) FROM hub_members m WHERE m.hub_id = h.id)`

func scanHub(row interface{ Scan(...any) error }) (*models.Hub, error) {
	hub := &models.Hub{}
	err := row.Scan(&hub.ID, &hub.Name, &hub.Description, &hub.CreatorID, &hub.CreatedAt, &hub.MemberCount)
	return hub, err
}

func (r *hubRepository) Create(ctx context.Context, hub *models.Hub) (*models.Hub, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if hub.ID == "" {
		hub.ID = uuid.New().String()
	}
	hub.CreatedAt = time.Now()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO hubs (id, name, description, creator_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		hub.ID, hub.Name, hub.Description, hub.CreatorID, hub.CreatedAt,
	)
	if err != nil {
		if isPQCode(err, uniqueViolation) {
			return nil, fmt.Errorf("hub %q already exists: %w", hub.Name, models.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create hub: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO hub_members (hub_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)`,
		hub.ID, hub.CreatorID, models.MemberRoleAdmin, hub.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add hub creator: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit hub: %w", err)
	}
	hub.MemberCount = 1
	return hub, nil
}

func (r *hubRepository) GetByID(ctx context.Context, id string) (*models.Hub, error) {
	query := `SELECT ` + hubColumns + ` FROM hubs h WHERE h.id = $1`

	hub, err := scanHub(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "hub", id)
	}
	return hub, nil
}

func (r *hubRepository) List(ctx context.Context, filters repository.ListFilters) ([]*models.Hub, error) {
	filters = filters.Normalize()
	query := `SELECT ` + hubColumns + ` FROM hubs h ORDER BY h.name ASC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, filters.Limit, filters.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query hubs: %w", err)
	}
	defer rows.Close()

	hubs := make([]*models.Hub, 0)
	for rows.Next() {
		hub, err := scanHub(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hub: %w", err)
		}
		hubs = append(hubs, hub)
	}
	return hubs, rows.Err()
}

func (r *hubRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM hubs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete hub: %w", err)
	}
	return expectOne(result, "hub", id)
}

func (r *hubRepository) GetMember(ctx context.Context, hubID, userID string) (*models.HubMember, error) {
	query := `SELECT hub_id, user_id, role, joined_at FROM hub_members WHERE hub_id = $1 AND user_id = $2`

	m := &models.HubMember{}
	err := r.db.QueryRowContext(ctx, query, hubID, userID).Scan(&m.HubID, &m.UserID, &m.Role, &m.JoinedAt)
	if err != nil {
		return nil, notFound(err, "hub member", userID)
	}
	return m, nil
}

// AddMember is a no-op when the user already belongs to the hub.
func (r *hubRepository) AddMember(ctx context.Context, hubID, userID, role string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO hub_members (hub_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (hub_id, user_id) DO NOTHING`,
		hubID, userID, role, time.Now(),
	)
	if err != nil {
		if isPQCode(err, foreignKeyViolation) {
			return fmt.Errorf("hub %s: %w", hubID, models.ErrNotFound)
		}
		return fmt.Errorf("failed to add member %s to hub %s: %w", userID, hubID, err)
	}
	return nil
}

// RemoveMember refuses to remove the last admin of a hub. The hub's admin
// rows are locked first, so two admins leaving at once are applied one after
// the other and the second sees the first one gone.
func (r *hubRepository) RemoveMember(ctx context.Context, hubID, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT user_id FROM hub_members
		WHERE hub_id = $1 AND role = 'admin'
		FOR UPDATE`, hubID)
	if err != nil {
		return fmt.Errorf("failed to lock admins of hub %s: %w", hubID, err)
	}
	admins := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan hub admin: %w", err)
		}
		admins++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read admins of hub %s: %w", hubID, err)
	}

	var role string
	err = tx.QueryRowContext(ctx,
		`SELECT role FROM hub_members WHERE hub_id = $1 AND user_id = $2 FOR UPDATE`,
		hubID, userID,
	).Scan(&role)
	if err != nil {
		return notFound(err, "hub member", userID)
	}
	if role == models.MemberRoleAdmin && admins <= 1 {
		return fmt.Errorf("user %s is the last admin of hub %s: %w", userID, hubID, models.ErrConflict)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM hub_members WHERE hub_id = $1 AND user_id = $2`, hubID, userID,
	); err != nil {
		return fmt.Errorf("failed to remove member %s from hub %s: %w", userID, hubID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit member removal: %w", err)
	}
	return nil
}
