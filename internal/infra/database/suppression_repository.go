package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// SuppressionRepository persists the send-suppression list. Insert-only;
// re-suppressing an address keeps the original record.
type SuppressionRepository struct {
	DB *sql.DB
}

func NewSuppressionRepository(db *sql.DB) *SuppressionRepository {
	return &SuppressionRepository{DB: db}
}

func (r *SuppressionRepository) Suppress(ctx context.Context, s *entity.Suppression) error {
	query := `
		INSERT INTO suppressions (email, reason, source, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO NOTHING`

	_, err := r.DB.ExecContext(ctx, query, s.Email, string(s.Reason), s.Source, s.CreatedAt)
	return err
}

func (r *SuppressionRepository) IsSuppressed(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM suppressions WHERE email = $1)`

	var suppressed bool
	err := r.DB.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(email))).Scan(&suppressed)
	return suppressed, err
}

func (r *SuppressionRepository) List(ctx context.Context, limit, offset int) ([]entity.Suppression, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `
		SELECT email, reason, source, created_at
		FROM suppressions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []entity.Suppression
	for rows.Next() {
		var s entity.Suppression
		if err := rows.Scan(&s.Email, &s.Reason, &s.Source, &s.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, s)
	}
	return entries, rows.Err()
}
