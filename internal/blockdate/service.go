// Package blockdate は予約不可日の管理ドメインロジックを提供する。
package blockdate

import (
	"context"
	"errors"
	"fmt"

	"github.com/hitoshi/reservatie/internal/model"
	"github.com/hitoshi/reservatie/internal/repository"
)

// MetricsRecorder はブロック日付の作成を記録するメトリクスインターフェース。
type MetricsRecorder interface {
	RecordDateBlocked()
}

// Service はブロック日付のサービス層。
// 重複ブロックの防止と一覧取得を提供する。
type Service struct {
	blockedRepo repository.BlockedDateRepository
	metrics     MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnil許容。
func NewService(blockedRepo repository.BlockedDateRepository, metrics MetricsRecorder) *Service {
	return &Service{
		blockedRepo: blockedRepo,
		metrics:     metrics,
	}
}

// List は全ブロック日付を返す。
func (s *Service) List(ctx context.Context) ([]*model.BlockedDate, error) {
	blocked, err := s.blockedRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("ブロック日付一覧の取得に失敗しました: %w", err)
	}
	return blocked, nil
}

// Block は日付をブロックする。
// 同一日付（日付成分のみ比較）が既にブロック済みの場合はDateAlreadyBlockedを返す。
// 事前チェック後のINSERTでユニーク制約違反が起きた場合も同じ拒否として返す。
func (s *Service) Block(ctx context.Context, candidate *model.BlockedDate) (*model.BlockedDate, error) {
	date := model.DateOnly(candidate.Date)

	exists, err := s.blockedRepo.ExistsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("ブロック日付の確認に失敗しました: %w", err)
	}
	if exists {
		return nil, model.NewDateAlreadyBlockedError()
	}

	created := &model.BlockedDate{
		Date:   date,
		Reason: candidate.Reason,
	}
	if err := s.blockedRepo.Create(ctx, created); err != nil {
		if errors.Is(err, repository.ErrDuplicateDate) {
			// 事前チェック後に他のリクエストが同一日付をブロックした
			return nil, model.NewDateAlreadyBlockedError()
		}
		return nil, fmt.Errorf("ブロック日付の作成に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordDateBlocked()
	}

	return created, nil
}
