// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/reservatie/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
// ユーザーの作成・更新はこのAPIの外で行われるため、読み取り操作のみを持つ。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// FindByUsername はユーザー名でユーザーを検索する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// ReservationRepository は予約データの永続化インターフェース。
// 予約は作成と一覧取得のみで、更新・削除は存在しない。
type ReservationRepository interface {
	// ListAll は全予約を返す。順序は保証しない。
	ListAll(ctx context.Context) ([]*model.Reservation, error)

	// ExistsByDate は指定日付（日付成分のみ）の予約が存在するかを返す。
	ExistsByDate(ctx context.Context, date time.Time) (bool, error)

	// CountBySchoolAndYear は指定学校名かつ指定暦年の予約件数を返す。
	CountBySchoolAndYear(ctx context.Context, schoolName string, year int) (int, error)

	// Create は予約を作成し、採番されたIDと作成時刻をreservationに書き戻す。
	// 同一日付の予約が既に存在する場合はErrDuplicateDateを返す。
	Create(ctx context.Context, reservation *model.Reservation) error
}

// BlockedDateRepository はブロック日付の永続化インターフェース。
type BlockedDateRepository interface {
	// ListAll は全ブロック日付を返す。順序は保証しない。
	ListAll(ctx context.Context) ([]*model.BlockedDate, error)

	// ExistsByDate は指定日付（日付成分のみ）のブロックが存在するかを返す。
	ExistsByDate(ctx context.Context, date time.Time) (bool, error)

	// Create はブロック日付を作成し、採番されたIDと作成時刻をblockedに書き戻す。
	// 同一日付のブロックが既に存在する場合はErrDuplicateDateを返す。
	Create(ctx context.Context, blocked *model.BlockedDate) error
}
