package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prompttracker/prompttracker-backend/internal/domain"
)

// WorkspaceRepository implements domain.WorkspaceRepository using PostgreSQL
type WorkspaceRepository struct {
	pool *pgxpool.Pool
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(pool *pgxpool.Pool) *WorkspaceRepository {
	return &WorkspaceRepository{pool: pool}
}

const workspaceColumns = `id, name, type, owner_id, created_at, updated_at`

func scanWorkspace(row pgx.Row) (*domain.Workspace, error) {
	var w domain.Workspace
	err := row.Scan(&w.ID, &w.Name, &w.Type, &w.OwnerID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkspaceNotFound
		}
		return nil, err
	}
	return &w, nil
}

// GetByID retrieves a workspace by its ID
func (r *WorkspaceRepository) GetByID(id uuid.UUID) (*domain.Workspace, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+workspaceColumns+` FROM workspaces WHERE id = $1`, id)
	return scanWorkspace(row)
}

// GetWithMembers retrieves a workspace including its membership rows
func (r *WorkspaceRepository) GetWithMembers(id uuid.UUID) (*domain.Workspace, error) {
	workspace, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	members, err := r.loadMembers(context.Background(), []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	workspace.Members = members[id]
	return workspace, nil
}

// ListForUser returns every workspace the user belongs to, members included,
// ordered by creation time ascending
func (r *WorkspaceRepository) ListForUser(userID uuid.UUID) ([]*domain.Workspace, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx,
		`SELECT w.id, w.name, w.type, w.owner_id, w.created_at, w.updated_at
		 FROM workspaces w
		 JOIN workspace_members m ON m.workspace_id = w.id
		 WHERE m.user_id = $1
		 ORDER BY w.created_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workspaces []*domain.Workspace
	var ids []uuid.UUID
	for rows.Next() {
		w, err := scanWorkspace(rows)
		if err != nil {
			return nil, err
		}
		workspaces = append(workspaces, w)
		ids = append(ids, w.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(workspaces) == 0 {
		return workspaces, nil
	}

	members, err := r.loadMembers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, w := range workspaces {
		w.Members = members[w.ID]
	}
	return workspaces, nil
}

func (r *WorkspaceRepository) loadMembers(ctx context.Context, workspaceIDs []uuid.UUID) (map[uuid.UUID][]domain.WorkspaceMember, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT m.workspace_id, m.user_id, m.role, m.created_at,
		        u.id, u.name, u.email, u.image_url
		 FROM workspace_members m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.workspace_id = ANY($1)
		 ORDER BY m.created_at ASC`, workspaceIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]domain.WorkspaceMember)
	for rows.Next() {
		var m domain.WorkspaceMember
		var u domain.UserSummary
		err := rows.Scan(&m.WorkspaceID, &m.UserID, &m.Role, &m.CreatedAt,
			&u.ID, &u.Name, &u.Email, &u.ImageURL)
		if err != nil {
			return nil, err
		}
		m.User = &u
		result[m.WorkspaceID] = append(result[m.WorkspaceID], m)
	}
	return result, rows.Err()
}

// CreateWithOwner creates the workspace and its OWNER membership atomically
func (r *WorkspaceRepository) CreateWithOwner(workspace *domain.Workspace) (*domain.Workspace, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`INSERT INTO workspaces (name, type, owner_id)
		 VALUES ($1, $2, $3)
		 RETURNING `+workspaceColumns,
		workspace.Name, workspace.Type, workspace.OwnerID)
	created, err := scanWorkspace(row)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO workspace_members (workspace_id, user_id, role)
		 VALUES ($1, $2, $3)`,
		created.ID, workspace.OwnerID, domain.RoleOwner)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateName renames a workspace
func (r *WorkspaceRepository) UpdateName(id uuid.UUID, name string) (*domain.Workspace, error) {
	row := r.pool.QueryRow(context.Background(),
		`UPDATE workspaces SET name = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING `+workspaceColumns, id, name)
	return scanWorkspace(row)
}

// Delete removes the workspace and all rows scoped to it. The cascade is
// explicit and ordered so no foreign key is ever violated mid-transaction.
func (r *WorkspaceRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	statements := []string{
		`DELETE FROM prompt_runs
		 WHERE prompt_version_id IN (
		   SELECT v.id FROM prompt_versions v
		   JOIN prompts p ON p.id = v.prompt_id
		   WHERE p.workspace_id = $1)`,
		`DELETE FROM prompt_versions
		 WHERE prompt_id IN (SELECT id FROM prompts WHERE workspace_id = $1)`,
		`DELETE FROM prompt_tags
		 WHERE prompt_id IN (SELECT id FROM prompts WHERE workspace_id = $1)`,
		`DELETE FROM prompts WHERE workspace_id = $1`,
		`DELETE FROM collections WHERE workspace_id = $1`,
		`DELETE FROM workspace_members WHERE workspace_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return err
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM workspaces WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWorkspaceNotFound
	}

	return tx.Commit(ctx)
}

// GetMember retrieves the membership row for (workspace, user)
func (r *WorkspaceRepository) GetMember(workspaceID, userID uuid.UUID) (*domain.WorkspaceMember, error) {
	var m domain.WorkspaceMember
	err := r.pool.QueryRow(context.Background(),
		`SELECT workspace_id, user_id, role, created_at
		 FROM workspace_members
		 WHERE workspace_id = $1 AND user_id = $2`, workspaceID, userID).
		Scan(&m.WorkspaceID, &m.UserID, &m.Role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	return &m, nil
}

// CountOwnedByUser returns how many workspaces the user owns
func (r *WorkspaceRepository) CountOwnedByUser(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM workspaces WHERE owner_id = $1`, userID).Scan(&count)
	return count, err
}
