package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/reservatie/internal/model"
)

// PostgresReservationRepo はPostgreSQLを使用した予約リポジトリ。
type PostgresReservationRepo struct {
	db *sql.DB
}

// NewPostgresReservationRepo はPostgresReservationRepoを生成する。
func NewPostgresReservationRepo(db *sql.DB) *PostgresReservationRepo {
	return &PostgresReservationRepo{db: db}
}

// ListAll は全予約を返す。順序は保証しない。
func (r *PostgresReservationRepo) ListAll(ctx context.Context) ([]*model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, school_name, contact_person, date, note, created_at FROM reservations`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	reservations := []*model.Reservation{}
	for rows.Next() {
		res := &model.Reservation{}
		if err := rows.Scan(&res.ID, &res.SchoolName, &res.ContactPerson, &res.Date, &res.Note, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		res.Date = model.DateOnly(res.Date)
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reservations: %w", err)
	}

	return reservations, nil
}

// ExistsByDate は指定日付（日付成分のみ）の予約が存在するかを返す。
func (r *PostgresReservationRepo) ExistsByDate(ctx context.Context, date time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM reservations WHERE date = $1)`,
		model.DateOnly(date),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check reservation existence: %w", err)
	}
	return exists, nil
}

// CountBySchoolAndYear は指定学校名かつ指定暦年の予約件数を返す。
func (r *PostgresReservationRepo) CountBySchoolAndYear(ctx context.Context, schoolName string, year int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM reservations
		 WHERE school_name = $1 AND EXTRACT(YEAR FROM date) = $2`,
		schoolName, year,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return count, nil
}

// Create は予約を作成し、採番されたIDと作成時刻をreservationに書き戻す。
// 日付のユニーク制約違反はErrDuplicateDateとして返す。
func (r *PostgresReservationRepo) Create(ctx context.Context, reservation *model.Reservation) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO reservations (school_name, contact_person, date, note)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		reservation.SchoolName, reservation.ContactPerson, model.DateOnly(reservation.Date), reservation.Note,
	).Scan(&reservation.ID, &reservation.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("reservation for %s: %w", reservation.Date.Format("2006-01-02"), ErrDuplicateDate)
		}
		return fmt.Errorf("failed to insert reservation: %w", err)
	}

	reservation.Date = model.DateOnly(reservation.Date)
	return nil
}

// compile-time interface check
var _ ReservationRepository = (*PostgresReservationRepo)(nil)
