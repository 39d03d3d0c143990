// Package reservation は学校見学予約のドメインロジックを提供する。
package reservation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hitoshi/reservatie/internal/mailer"
	"github.com/hitoshi/reservatie/internal/model"
	"github.com/hitoshi/reservatie/internal/repository"
)

// MetricsRecorder は予約処理の結果を記録するメトリクスインターフェース。
type MetricsRecorder interface {
	RecordReservationCreated()
	RecordReservationRejected(code string)
}

// Service は予約のサービス層。
// 予約作成時のバリデーション（ブロック日・重複日・年間上限）と
// 一覧取得のビジネスロジックを提供する。
type Service struct {
	resRepo     repository.ReservationRepository
	blockedRepo repository.BlockedDateRepository
	mail        mailer.Mailer
	metrics     MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// mailとmetricsはnil許容（nilの場合は単にスキップされる）。
func NewService(
	resRepo repository.ReservationRepository,
	blockedRepo repository.BlockedDateRepository,
	mail mailer.Mailer,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		resRepo:     resRepo,
		blockedRepo: blockedRepo,
		mail:        mail,
		metrics:     metrics,
	}
}

// List は全予約を返す。フィルタもページネーションも行わない。
func (s *Service) List(ctx context.Context) ([]*model.Reservation, error) {
	reservations, err := s.resRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("予約一覧の取得に失敗しました: %w", err)
	}
	return reservations, nil
}

// Create は予約を検証して作成する。
// チェックは以下の順で実行し、最初の失敗で打ち切る:
//  1. 対象日がブロックされていないか
//  2. 対象日が予約済みでないか
//  3. 同一学校の同一暦年内の予約数が上限（10件）未満か
//
// チェック通過後のINSERTで日付のユニーク制約違反が起きた場合
// （同時リクエストによる競合）は、事前チェックと同じ
// DateAlreadyTakenとして返す。
// 作成成功後は確認メールを非同期で送信する。送信失敗は予約に影響しない。
func (s *Service) Create(ctx context.Context, candidate *model.Reservation) (*model.Reservation, error) {
	date := model.DateOnly(candidate.Date)
	year := date.Year()

	blocked, err := s.blockedRepo.ExistsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("ブロック日付の確認に失敗しました: %w", err)
	}
	if blocked {
		return nil, s.reject(model.NewDateBlockedError())
	}

	taken, err := s.resRepo.ExistsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("予約日付の確認に失敗しました: %w", err)
	}
	if taken {
		return nil, s.reject(model.NewDateAlreadyTakenError())
	}

	count, err := s.resRepo.CountBySchoolAndYear(ctx, candidate.SchoolName, year)
	if err != nil {
		return nil, fmt.Errorf("年間予約数の取得に失敗しました: %w", err)
	}
	if count >= model.YearlyReservationLimit {
		return nil, s.reject(model.NewYearlyQuotaExceededError())
	}

	created := &model.Reservation{
		SchoolName:    candidate.SchoolName,
		ContactPerson: candidate.ContactPerson,
		Date:          date,
		Note:          candidate.Note,
	}
	if err := s.resRepo.Create(ctx, created); err != nil {
		if errors.Is(err, repository.ErrDuplicateDate) {
			// 事前チェック後に他のリクエストが同一日付を確保した
			return nil, s.reject(model.NewDateAlreadyTakenError())
		}
		return nil, fmt.Errorf("予約の作成に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordReservationCreated()
	}

	s.sendConfirmation(created)

	return created, nil
}

// reject はバリデーション拒否をメトリクスに記録して返す。
func (s *Service) reject(apiErr *model.APIError) error {
	if s.metrics != nil {
		s.metrics.RecordReservationRejected(apiErr.Code)
	}
	return apiErr
}

// sendConfirmation は確認メールをfire-and-forgetで送信する。
// リクエストのキャンセルに巻き込まれないよう独立したコンテキストを使う。
func (s *Service) sendConfirmation(reservation *model.Reservation) {
	if s.mail == nil {
		return
	}
	go func() {
		if err := s.mail.SendReservationConfirmation(context.Background(), reservation); err != nil {
			slog.Error("failed to send reservation confirmation",
				slog.Int64("reservation_id", reservation.ID),
				slog.String("error", err.Error()),
			)
		}
	}()
}
