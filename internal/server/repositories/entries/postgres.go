// Package entries provides the PostgreSQL-backed repository for journal
// entry persistence and the filtered, paginated listing query.
package entries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ddanilov/daybook/internal/common"
	"github.com/ddanilov/daybook/internal/dbx"
	"github.com/ddanilov/daybook/internal/server/models"
)

const entryColumns = "id, user_id, created_at, title, content, image_ref, tags"

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// tagsValue renders a tag set as the jsonb column value. Nil means NULL:
// "no tags" is stored as NULL, never an empty array.
func tagsValue(tags []string) (any, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}
	return b, nil
}

func scanEntry(row interface{ Scan(dest ...any) error }) (*models.Entry, error) {
	var e models.Entry
	var tags []byte
	if err := row.Scan(&e.ID, &e.UserID, &e.CreatedAt, &e.Title, &e.Content, &e.ImageRef, &tags); err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &e.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	return &e, nil
}

// Insert creates a row and fills in the store-assigned id and created_at.
func (r *PostgresRepository) Insert(ctx context.Context, entry *models.Entry) error {
	tags, err := tagsValue(entry.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO entries (user_id, title, content, image_ref, tags)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at;
	`
	row := r.db.QueryRowContext(ctx, query,
		entry.UserID, entry.Title, entry.Content, entry.ImageRef, tags)
	if err := row.Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// searchPattern converts free-text input into the ILIKE pattern used for
// title/content matching: literal percent signs are stripped, whitespace
// runs collapse to a single wildcard, and the result is unanchored.
func searchPattern(q string) string {
	q = strings.ReplaceAll(q, "%", "")
	q = strings.Join(strings.Fields(q), "%")
	return "%" + q + "%"
}

// List returns entries ordered by created_at descending for the given
// filter and range. An empty filter UserID serves an owner-agnostic read.
func (r *PostgresRepository) List(ctx context.Context, filter models.ListFilter, offset, limit int) ([]*models.Entry, error) {
	var (
		conds []string
		args  []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.UserID != "" {
		conds = append(conds, "user_id = "+arg(filter.UserID))
	}
	if strings.TrimSpace(filter.Query) != "" {
		p := arg(searchPattern(filter.Query))
		conds = append(conds, fmt.Sprintf("(title ILIKE %s OR content ILIKE %s)", p, p))
	}
	if filter.ImagesOnly {
		conds = append(conds, "image_ref IS NOT NULL")
	}
	if len(filter.Tags) > 0 {
		b, err := json.Marshal(filter.Tags)
		if err != nil {
			return nil, fmt.Errorf("marshal tag filter: %w", err)
		}
		conds = append(conds, fmt.Sprintf("tags @> %s::jsonb", arg(b)))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s FROM entries
		%s
		ORDER BY created_at DESC
		OFFSET %s LIMIT %s;
	`, entryColumns, where, arg(offset), arg(limit))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	var result []*models.Entry
	for rows.Next() {
		item, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns the entry visible to userID, or common.ErrNotFound.
// Scope-based denial is indistinguishable from true absence.
func (r *PostgresRepository) GetByID(ctx context.Context, id, userID string) (*models.Entry, error) {
	query := fmt.Sprintf(`SELECT %s FROM entries WHERE id = $1 AND user_id = $2;`, entryColumns)

	e, err := scanEntry(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

// Update applies a partial update under the caller's scope and returns the
// updated row. Field pointers left nil stay untouched; the image tri-state
// is honored (keep / clear to NULL / set). common.ErrNotFound when no row
// with that id is visible to userID.
func (r *PostgresRepository) Update(ctx context.Context, id, userID string, patch models.EntryPatch) (*models.Entry, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id, userID)
	}

	var (
		sets []string
		args []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if patch.Title != nil {
		sets = append(sets, "title = "+arg(*patch.Title))
	}
	if patch.Content != nil {
		sets = append(sets, "content = "+arg(*patch.Content))
	}
	if patch.Tags != nil {
		tags, err := tagsValue(*patch.Tags)
		if err != nil {
			return nil, err
		}
		sets = append(sets, "tags = "+arg(tags))
	}
	switch patch.Image.Op {
	case models.ImageClear:
		sets = append(sets, "image_ref = NULL")
	case models.ImageSet:
		sets = append(sets, "image_ref = "+arg(patch.Image.Ref))
	}

	query := fmt.Sprintf(`
		UPDATE entries SET %s
		WHERE id = %s AND user_id = %s
		RETURNING %s;
	`, strings.Join(sets, ", "), arg(id), arg(userID), entryColumns)

	e, err := scanEntry(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

// DeleteByID removes the entry visible to userID. common.ErrNotFound when
// nothing was deleted, which also denies deleting another user's entry.
func (r *PostgresRepository) DeleteByID(ctx context.Context, id, userID string) error {
	query := `DELETE FROM entries WHERE id = $1 AND user_id = $2;`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// WithinTx begins a transaction and runs fn with a repository bound to it.
// When the repository already wraps a transaction the current handle is
// reused.
func (r *PostgresRepository) WithinTx(ctx context.Context, fn func(tr Repository) error) error {
	db, ok := r.db.(*sql.DB)
	if !ok {
		return fn(r)
	}
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(NewPostgresRepository(tx))
	})
}
