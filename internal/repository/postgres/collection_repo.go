package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prompttracker/prompttracker-backend/internal/domain"
)

// CollectionRepository implements domain.CollectionRepository using PostgreSQL
type CollectionRepository struct {
	pool *pgxpool.Pool
}

// NewCollectionRepository creates a new CollectionRepository
func NewCollectionRepository(pool *pgxpool.Pool) *CollectionRepository {
	return &CollectionRepository{pool: pool}
}

func scanCollection(row pgx.Row) (*domain.Collection, error) {
	var c domain.Collection
	err := row.Scan(&c.ID, &c.WorkspaceID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCollectionNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetByID retrieves a collection by its ID
func (r *CollectionRepository) GetByID(id uuid.UUID) (*domain.Collection, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT id, workspace_id, name, description, created_at, updated_at
		 FROM collections WHERE id = $1`, id)
	return scanCollection(row)
}

// ListByWorkspace returns the workspace's collections ordered by name, with
// prompt counts
func (r *CollectionRepository) ListByWorkspace(workspaceID uuid.UUID) ([]*domain.Collection, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT c.id, c.workspace_id, c.name, c.description, c.created_at, c.updated_at,
		        COUNT(p.id)
		 FROM collections c
		 LEFT JOIN prompts p ON p.collection_id = c.id
		 WHERE c.workspace_id = $1
		 GROUP BY c.id
		 ORDER BY c.name ASC`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []*domain.Collection
	for rows.Next() {
		var c domain.Collection
		err := rows.Scan(&c.ID, &c.WorkspaceID, &c.Name, &c.Description,
			&c.CreatedAt, &c.UpdatedAt, &c.PromptCount)
		if err != nil {
			return nil, err
		}
		collections = append(collections, &c)
	}
	return collections, rows.Err()
}

// Create creates a new collection
func (r *CollectionRepository) Create(collection *domain.Collection) (*domain.Collection, error) {
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO collections (workspace_id, name, description)
		 VALUES ($1, $2, $3)
		 RETURNING id, workspace_id, name, description, created_at, updated_at`,
		collection.WorkspaceID, collection.Name, collection.Description)
	return scanCollection(row)
}

// Update persists the collection's name and description
func (r *CollectionRepository) Update(collection *domain.Collection) (*domain.Collection, error) {
	row := r.pool.QueryRow(context.Background(),
		`UPDATE collections SET name = $2, description = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING id, workspace_id, name, description, created_at, updated_at`,
		collection.ID, collection.Name, collection.Description)
	return scanCollection(row)
}

// Delete detaches the collection's prompts and removes the collection in one
// transaction. Prompts survive with collection_id cleared.
func (r *CollectionRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE prompts SET collection_id = NULL, updated_at = now()
		 WHERE collection_id = $1`, id)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM collections WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCollectionNotFound
	}

	return tx.Commit(ctx)
}
