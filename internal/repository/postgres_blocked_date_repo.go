package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/reservatie/internal/model"
)

// PostgresBlockedDateRepo はPostgreSQLを使用したブロック日付リポジトリ。
type PostgresBlockedDateRepo struct {
	db *sql.DB
}

// NewPostgresBlockedDateRepo はPostgresBlockedDateRepoを生成する。
func NewPostgresBlockedDateRepo(db *sql.DB) *PostgresBlockedDateRepo {
	return &PostgresBlockedDateRepo{db: db}
}

// ListAll は全ブロック日付を返す。順序は保証しない。
func (r *PostgresBlockedDateRepo) ListAll(ctx context.Context) ([]*model.BlockedDate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, reason, created_at FROM blocked_dates`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocked dates: %w", err)
	}
	defer rows.Close()

	blocked := []*model.BlockedDate{}
	for rows.Next() {
		b := &model.BlockedDate{}
		if err := rows.Scan(&b.ID, &b.Date, &b.Reason, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan blocked date: %w", err)
		}
		b.Date = model.DateOnly(b.Date)
		blocked = append(blocked, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate blocked dates: %w", err)
	}

	return blocked, nil
}

// ExistsByDate は指定日付（日付成分のみ）のブロックが存在するかを返す。
func (r *PostgresBlockedDateRepo) ExistsByDate(ctx context.Context, date time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM blocked_dates WHERE date = $1)`,
		model.DateOnly(date),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check blocked date existence: %w", err)
	}
	return exists, nil
}

// Create はブロック日付を作成し、採番されたIDと作成時刻をblockedに書き戻す。
// 日付のユニーク制約違反はErrDuplicateDateとして返す。
func (r *PostgresBlockedDateRepo) Create(ctx context.Context, blocked *model.BlockedDate) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO blocked_dates (date, reason)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		model.DateOnly(blocked.Date), blocked.Reason,
	).Scan(&blocked.ID, &blocked.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("blocked date for %s: %w", blocked.Date.Format("2006-01-02"), ErrDuplicateDate)
		}
		return fmt.Errorf("failed to insert blocked date: %w", err)
	}

	blocked.Date = model.DateOnly(blocked.Date)
	return nil
}

// compile-time interface check
var _ BlockedDateRepository = (*PostgresBlockedDateRepo)(nil)
