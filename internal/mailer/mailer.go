// Package mailer は予約確定通知の送信コラボレーターを提供する。
// 実際のメール配信はこのAPIのスコープ外のため、構造化ログに記録する
// スタブ実装のみを持つ。送信失敗が予約の成否に影響することはない。
package mailer

import (
	"context"
	"log/slog"

	"github.com/hitoshi/reservatie/internal/model"
)

// Mailer は予約確定通知の送信インターフェース。
type Mailer interface {
	// SendReservationConfirmation は予約確定通知を送信する。
	SendReservationConfirmation(ctx context.Context, reservation *model.Reservation) error
}

// LogMailer は通知内容を構造化ログに記録するスタブ実装。
type LogMailer struct {
	logger *slog.Logger
	from   string
}

// NewLogMailer はLogMailerを生成する。
func NewLogMailer(logger *slog.Logger, from string) *LogMailer {
	return &LogMailer{
		logger: logger,
		from:   from,
	}
}

// SendReservationConfirmation は通知内容をログに記録する。常に成功する。
func (m *LogMailer) SendReservationConfirmation(ctx context.Context, reservation *model.Reservation) error {
	m.logger.Info("reservation confirmation mail (stub)",
		slog.String("from", m.from),
		slog.Int64("reservation_id", reservation.ID),
		slog.String("school_name", reservation.SchoolName),
		slog.String("contact_person", reservation.ContactPerson),
		slog.String("date", reservation.Date.Format("2006-01-02")),
	)
	return nil
}

// compile-time interface check
var _ Mailer = (*LogMailer)(nil)
