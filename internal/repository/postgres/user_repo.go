package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prompttracker/prompttracker-backend/internal/domain"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, auth_id, email, name, image_url, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.AuthID, &u.Email, &u.Name, &u.ImageURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID retrieves a user by their UUID
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByAuthID retrieves a user by their external identity ID
func (r *UserRepository) GetByAuthID(authID string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE auth_id = $1`, authID)
	return scanUser(row)
}

// Update updates the mutable profile fields of an existing user
func (r *UserRepository) Update(user *domain.User) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`UPDATE users SET email = $2, name = $3, image_url = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING `+userColumns,
		user.ID, user.Email, user.Name, user.ImageURL)
	return scanUser(row)
}

// UpdateImageURL updates only the user's avatar URL
func (r *UserRepository) UpdateImageURL(id uuid.UUID, imageURL string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`UPDATE users SET image_url = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING `+userColumns, id, imageURL)
	return scanUser(row)
}

// CreateWithPersonalWorkspace creates the user, their personal workspace and
// the OWNER membership in a single transaction. A failure partway leaves no
// user visible.
func (r *UserRepository) CreateWithPersonalWorkspace(user *domain.User, workspaceName string) (*domain.User, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`INSERT INTO users (auth_id, email, name, image_url)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+userColumns,
		user.AuthID, user.Email, user.Name, user.ImageURL)
	created, err := scanUser(row)
	if err != nil {
		return nil, err
	}

	var workspaceID uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO workspaces (name, type, owner_id)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		workspaceName, domain.WorkspaceTypePersonal, created.ID).Scan(&workspaceID)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO workspace_members (workspace_id, user_id, role)
		 VALUES ($1, $2, $3)`,
		workspaceID, created.ID, domain.RoleOwner)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}
