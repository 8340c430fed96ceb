package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prompttracker/prompttracker-backend/internal/domain"
)

// PromptRepository implements domain.PromptRepository using PostgreSQL
type PromptRepository struct {
	pool *pgxpool.Pool
}

// NewPromptRepository creates a new PromptRepository
func NewPromptRepository(pool *pgxpool.Pool) *PromptRepository {
	return &PromptRepository{pool: pool}
}

const (
	promptColumns  = `id, workspace_id, collection_id, title, description, created_by_id, created_at, updated_at`
	versionColumns = `id, prompt_id, version_number, content, model, is_default, created_by_id, created_at`
	runColumns     = `id, prompt_version_id, rating, notes, used_model, response_length, created_by_id, created_at`
)

func scanPrompt(row pgx.Row) (*domain.Prompt, error) {
	var p domain.Prompt
	err := row.Scan(&p.ID, &p.WorkspaceID, &p.CollectionID, &p.Title,
		&p.Description, &p.CreatedByID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPromptNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByID retrieves a bare prompt row
func (r *PromptRepository) GetByID(id uuid.UUID) (*domain.Prompt, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+promptColumns+` FROM prompts WHERE id = $1`, id)
	return scanPrompt(row)
}

// GetDetail retrieves a prompt with all versions (newest first), tags,
// collection and creator summaries
func (r *PromptRepository) GetDetail(id uuid.UUID) (*domain.Prompt, error) {
	ctx := context.Background()

	prompt, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	var creator domain.UserSummary
	err = r.pool.QueryRow(ctx,
		`SELECT id, name, email, image_url FROM users WHERE id = $1`, prompt.CreatedByID).
		Scan(&creator.ID, &creator.Name, &creator.Email, &creator.ImageURL)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err == nil {
		prompt.CreatedBy = &creator
	}

	if prompt.CollectionID != nil {
		collection, err := scanCollection(r.pool.QueryRow(ctx,
			`SELECT id, workspace_id, name, description, created_at, updated_at
			 FROM collections WHERE id = $1`, *prompt.CollectionID))
		if err != nil && !errors.Is(err, domain.ErrCollectionNotFound) {
			return nil, err
		}
		prompt.Collection = collection
	}

	rows, err := r.pool.Query(ctx,
		`SELECT v.id, v.prompt_id, v.version_number, v.content, v.model, v.is_default,
		        v.created_by_id, v.created_at, u.id, u.name, u.image_url
		 FROM prompt_versions v
		 JOIN users u ON u.id = v.created_by_id
		 WHERE v.prompt_id = $1
		 ORDER BY v.version_number DESC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var v domain.PromptVersion
		var u domain.UserSummary
		err := rows.Scan(&v.ID, &v.PromptID, &v.VersionNumber, &v.Content, &v.Model,
			&v.IsDefault, &v.CreatedByID, &v.CreatedAt, &u.ID, &u.Name, &u.ImageURL)
		if err != nil {
			return nil, err
		}
		v.CreatedBy = &u
		prompt.Versions = append(prompt.Versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	prompt.VersionCount = int64(len(prompt.Versions))

	tags, err := r.loadTags(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	prompt.Tags = tags[id]

	return prompt, nil
}

// List returns workspace prompts matching the filter, most recently updated
// first. Filter dimensions combine conjunctively; search is a
// case-insensitive substring match across title, description, version
// contents and tag names.
func (r *PromptRepository) List(workspaceID uuid.UUID, filter domain.PromptFilter) ([]*domain.Prompt, error) {
	ctx := context.Background()

	where := []string{"p.workspace_id = $1"}
	args := []interface{}{workspaceID}

	if filter.CollectionID != nil {
		args = append(args, *filter.CollectionID)
		where = append(where, fmt.Sprintf("p.collection_id = $%d", len(args)))
	}

	if filter.Search != "" {
		args = append(args, "%"+escapeLikePattern(filter.Search)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(`(
			p.title ILIKE $%d
			OR p.description ILIKE $%d
			OR EXISTS (SELECT 1 FROM prompt_versions sv
			           WHERE sv.prompt_id = p.id AND sv.content ILIKE $%d)
			OR EXISTS (SELECT 1 FROM prompt_tags spt
			           JOIN tags st ON st.id = spt.tag_id
			           WHERE spt.prompt_id = p.id AND st.name ILIKE $%d)
		)`, n, n, n, n))
	}

	if len(filter.TagNames) > 0 {
		args = append(args, filter.TagNames)
		where = append(where, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM prompt_tags fpt
			JOIN tags ft ON ft.id = fpt.tag_id
			WHERE fpt.prompt_id = p.id AND ft.name = ANY($%d)
		)`, len(args)))
	}

	query := `
		SELECT p.id, p.workspace_id, p.collection_id, p.title, p.description,
		       p.created_by_id, p.created_at, p.updated_at,
		       dv.id, dv.version_number, dv.content, dv.model, dv.created_by_id, dv.created_at,
		       (SELECT COUNT(*) FROM prompt_versions vc WHERE vc.prompt_id = p.id)
		FROM prompts p
		LEFT JOIN prompt_versions dv ON dv.prompt_id = p.id AND dv.is_default
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY p.updated_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prompts []*domain.Prompt
	var ids []uuid.UUID
	for rows.Next() {
		var p domain.Prompt
		var v domain.PromptVersion
		var vID, vCreatedBy *uuid.UUID
		var vNumber *int32
		var vContent *string
		var vCreatedAt *time.Time
		err := rows.Scan(&p.ID, &p.WorkspaceID, &p.CollectionID, &p.Title, &p.Description,
			&p.CreatedByID, &p.CreatedAt, &p.UpdatedAt,
			&vID, &vNumber, &vContent, &v.Model, &vCreatedBy, &vCreatedAt,
			&p.VersionCount)
		if err != nil {
			return nil, err
		}
		if vID != nil {
			v.ID = *vID
			v.PromptID = p.ID
			v.VersionNumber = *vNumber
			v.Content = *vContent
			v.IsDefault = true
			v.CreatedByID = *vCreatedBy
			v.CreatedAt = *vCreatedAt
			p.DefaultVersion = &v
		}
		prompts = append(prompts, &p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(prompts) == 0 {
		return prompts, nil
	}

	tags, err := r.loadTags(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range prompts {
		p.Tags = tags[p.ID]
	}
	return prompts, nil
}

// escapeLikePattern escapes the LIKE metacharacters so the search term only
// matches literally. Backslash is the default escape character in Postgres.
func escapeLikePattern(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *PromptRepository) loadTags(ctx context.Context, promptIDs []uuid.UUID) (map[uuid.UUID][]domain.Tag, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT pt.prompt_id, t.id, t.name
		 FROM prompt_tags pt
		 JOIN tags t ON t.id = pt.tag_id
		 WHERE pt.prompt_id = ANY($1)
		 ORDER BY t.name ASC`, promptIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]domain.Tag)
	for rows.Next() {
		var promptID uuid.UUID
		var t domain.Tag
		if err := rows.Scan(&promptID, &t.ID, &t.Name); err != nil {
			return nil, err
		}
		result[promptID] = append(result[promptID], t)
	}
	return result, rows.Err()
}

// linkTags finds or creates each tag and links it to the prompt. Duplicate
// names within the slice produce a single link. The tag upsert goes through
// the unique constraint so concurrent creation races resolve in the database.
func linkTags(ctx context.Context, tx pgx.Tx, promptID uuid.UUID, tagNames []string) error {
	seen := make(map[string]struct{}, len(tagNames))
	for _, name := range tagNames {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		var tagID uuid.UUID
		err := tx.QueryRow(ctx,
			`INSERT INTO tags (name) VALUES ($1)
			 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id`, name).Scan(&tagID)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO prompt_tags (prompt_id, tag_id)
			 VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`, promptID, tagID)
		if err != nil {
			return err
		}
	}
	return nil
}

// CreateWithVersion inserts the prompt, its first version (number 1, marked
// default) and the tag links in one transaction. A failure partway leaves no
// prompt visible.
func (r *PromptRepository) CreateWithVersion(prompt *domain.Prompt, content string, tagNames []string) (*domain.Prompt, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`INSERT INTO prompts (workspace_id, collection_id, title, description, created_by_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+promptColumns,
		prompt.WorkspaceID, prompt.CollectionID, prompt.Title, prompt.Description, prompt.CreatedByID)
	created, err := scanPrompt(row)
	if err != nil {
		return nil, err
	}

	var version domain.PromptVersion
	err = tx.QueryRow(ctx,
		`INSERT INTO prompt_versions (prompt_id, version_number, content, is_default, created_by_id)
		 VALUES ($1, 1, $2, TRUE, $3)
		 RETURNING `+versionColumns,
		created.ID, content, prompt.CreatedByID).
		Scan(&version.ID, &version.PromptID, &version.VersionNumber, &version.Content,
			&version.Model, &version.IsDefault, &version.CreatedByID, &version.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := linkTags(ctx, tx, created.ID, tagNames); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	created.DefaultVersion = &version
	created.Versions = []domain.PromptVersion{version}
	created.VersionCount = 1
	tags, err := r.loadTags(ctx, []uuid.UUID{created.ID})
	if err != nil {
		return nil, err
	}
	created.Tags = tags[created.ID]
	return created, nil
}

// Update applies the partial update; when params.Tags is set the full tag
// set is replaced inside the same transaction
func (r *PromptRepository) Update(id uuid.UUID, params domain.UpdatePromptParams) (*domain.Prompt, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	set := []string{
		"title = COALESCE($2, title)",
		"description = COALESCE($3, description)",
		"updated_at = now()",
	}
	args := []interface{}{id, params.Title, params.Description}
	if params.CollectionIDSet {
		// Written unconditionally: a nil value detaches the prompt
		args = append(args, params.CollectionID)
		set = append(set, fmt.Sprintf("collection_id = $%d", len(args)))
	}

	tag, err := tx.Exec(ctx,
		`UPDATE prompts SET `+strings.Join(set, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrPromptNotFound
	}

	if params.Tags != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM prompt_tags WHERE prompt_id = $1`, id); err != nil {
			return nil, err
		}
		if err := linkTags(ctx, tx, id, *params.Tags); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetDetail(id)
}

// Delete removes the prompt and everything hanging off it: runs first, then
// versions, then tag links, then the prompt row itself, all in one
// transaction. Tags themselves are never deleted.
func (r *PromptRepository) Delete(id uuid.UUID) (*domain.Prompt, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	deleted, err := scanPrompt(tx.QueryRow(ctx,
		`SELECT `+promptColumns+` FROM prompts WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM prompt_runs
		 WHERE prompt_version_id IN (SELECT id FROM prompt_versions WHERE prompt_id = $1)`, id)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM prompt_versions WHERE prompt_id = $1`, id); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM prompt_tags WHERE prompt_id = $1`, id); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM prompts WHERE id = $1`, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return deleted, nil
}

// CreateVersion inserts a new version numbered one past the current maximum.
// Numbers are never reused; the new version is not marked default.
func (r *PromptRepository) CreateVersion(version *domain.PromptVersion) (*domain.PromptVersion, error) {
	var v domain.PromptVersion
	err := r.pool.QueryRow(context.Background(),
		`INSERT INTO prompt_versions (prompt_id, version_number, content, model, is_default, created_by_id)
		 SELECT $1, COALESCE(MAX(version_number), 0) + 1, $2, $3, FALSE, $4
		 FROM prompt_versions WHERE prompt_id = $1
		 RETURNING `+versionColumns,
		version.PromptID, version.Content, version.Model, version.CreatedByID).
		Scan(&v.ID, &v.PromptID, &v.VersionNumber, &v.Content, &v.Model,
			&v.IsDefault, &v.CreatedByID, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetVersion retrieves a prompt version by its ID
func (r *PromptRepository) GetVersion(id uuid.UUID) (*domain.PromptVersion, error) {
	var v domain.PromptVersion
	err := r.pool.QueryRow(context.Background(),
		`SELECT `+versionColumns+` FROM prompt_versions WHERE id = $1`, id).
		Scan(&v.ID, &v.PromptID, &v.VersionNumber, &v.Content, &v.Model,
			&v.IsDefault, &v.CreatedByID, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, err
	}
	return &v, nil
}

// CreateRun appends a run log entry for a version
func (r *PromptRepository) CreateRun(run *domain.PromptRun) (*domain.PromptRun, error) {
	var created domain.PromptRun
	err := r.pool.QueryRow(context.Background(),
		`INSERT INTO prompt_runs (prompt_version_id, rating, notes, used_model, response_length, created_by_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+runColumns,
		run.PromptVersionID, run.Rating, run.Notes, run.UsedModel, run.ResponseLength, run.CreatedByID).
		Scan(&created.ID, &created.PromptVersionID, &created.Rating, &created.Notes,
			&created.UsedModel, &created.ResponseLength, &created.CreatedByID, &created.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &created, nil
}
