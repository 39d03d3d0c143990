package reservation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hitoshi/reservatie/internal/model"
	"github.com/hitoshi/reservatie/internal/repository"
)

// --- モック ---

type mockReservationRepo struct {
	listAllFn              func(ctx context.Context) ([]*model.Reservation, error)
	existsByDateFn         func(ctx context.Context, date time.Time) (bool, error)
	countBySchoolAndYearFn func(ctx context.Context, schoolName string, year int) (int, error)
	createFn               func(ctx context.Context, reservation *model.Reservation) error
}

func (m *mockReservationRepo) ListAll(ctx context.Context) ([]*model.Reservation, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

func (m *mockReservationRepo) ExistsByDate(ctx context.Context, date time.Time) (bool, error) {
	if m.existsByDateFn != nil {
		return m.existsByDateFn(ctx, date)
	}
	return false, nil
}

func (m *mockReservationRepo) CountBySchoolAndYear(ctx context.Context, schoolName string, year int) (int, error) {
	if m.countBySchoolAndYearFn != nil {
		return m.countBySchoolAndYearFn(ctx, schoolName, year)
	}
	return 0, nil
}

func (m *mockReservationRepo) Create(ctx context.Context, reservation *model.Reservation) error {
	if m.createFn != nil {
		return m.createFn(ctx, reservation)
	}
	reservation.ID = 1
	reservation.CreatedAt = time.Now()
	return nil
}

type mockBlockedDateRepo struct {
	listAllFn      func(ctx context.Context) ([]*model.BlockedDate, error)
	existsByDateFn func(ctx context.Context, date time.Time) (bool, error)
	createFn       func(ctx context.Context, blocked *model.BlockedDate) error
}

func (m *mockBlockedDateRepo) ListAll(ctx context.Context) ([]*model.BlockedDate, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

func (m *mockBlockedDateRepo) ExistsByDate(ctx context.Context, date time.Time) (bool, error) {
	if m.existsByDateFn != nil {
		return m.existsByDateFn(ctx, date)
	}
	return false, nil
}

func (m *mockBlockedDateRepo) Create(ctx context.Context, blocked *model.BlockedDate) error {
	if m.createFn != nil {
		return m.createFn(ctx, blocked)
	}
	return nil
}

type mockMailer struct {
	sendFn func(ctx context.Context, reservation *model.Reservation) error
	sent   chan *model.Reservation
}

func (m *mockMailer) SendReservationConfirmation(ctx context.Context, reservation *model.Reservation) error {
	if m.sent != nil {
		m.sent <- reservation
	}
	if m.sendFn != nil {
		return m.sendFn(ctx, reservation)
	}
	return nil
}

func newCandidate(date time.Time) *model.Reservation {
	return &model.Reservation{
		SchoolName:    "Lyceum",
		ContactPerson: "A. Jansen",
		Date:          date,
		Note:          "",
	}
}

// --- Create テスト ---

// TestService_Create_Success は全チェック通過時に予約が作成されることを検証する。
func TestService_Create_Success(t *testing.T) {
	resRepo := &mockReservationRepo{
		createFn: func(ctx context.Context, r *model.Reservation) error {
			r.ID = 7
			r.CreatedAt = time.Now()
			return nil
		},
	}
	blockedRepo := &mockBlockedDateRepo{}

	svc := NewService(resRepo, blockedRepo, nil, nil)

	created, err := svc.Create(context.Background(), newCandidate(time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID != 7 {
		t.Errorf("ID = %d, want %d", created.ID, 7)
	}
	if created.SchoolName != "Lyceum" {
		t.Errorf("SchoolName = %q, want %q", created.SchoolName, "Lyceum")
	}
}

// TestService_Create_DateBlocked はブロック済み日付への予約が拒否され、
// 後続のチェックに到達しないことを検証する。
func TestService_Create_DateBlocked(t *testing.T) {
	resRepo := &mockReservationRepo{
		existsByDateFn: func(ctx context.Context, date time.Time) (bool, error) {
			t.Error("taken check should not run when the date is blocked")
			return false, nil
		},
		countBySchoolAndYearFn: func(ctx context.Context, schoolName string, year int) (int, error) {
			t.Error("quota check should not run when the date is blocked")
			return 0, nil
		},
	}
	blockedRepo := &mockBlockedDateRepo{
		existsByDateFn: func(ctx context.Context, date time.Time) (bool, error) {
			return true, nil
		},
	}

	svc := NewService(resRepo, blockedRepo, nil, nil)

	_, err := svc.Create(context.Background(), newCandidate(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeDateBlocked {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeDateBlocked)
	}
	if apiErr.Message != "Datum is geblokkeerd." {
		t.Errorf("Message = %q, want %q", apiErr.Message, "Datum is geblokkeerd.")
	}
}

// TestService_Create_DateAlreadyTaken は予約済み日付への予約が拒否され、
// 年間上限チェックに到達しないことを検証する。
func TestService_Create_DateAlreadyTaken(t *testing.T) {
	resRepo := &mockReservationRepo{
		existsByDateFn: func(ctx context.Context, date time.Time) (bool, error) {
			return true, nil
		},
		countBySchoolAndYearFn: func(ctx context.Context, schoolName string, year int) (int, error) {
			t.Error("quota check should not run when the date is taken")
			return 0, nil
		},
	}
	blockedRepo := &mockBlockedDateRepo{}

	svc := NewService(resRepo, blockedRepo, nil, nil)

	candidate := newCandidate(time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC))
	candidate.SchoolName = "Other"

	_, err := svc.Create(context.Background(), candidate)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeDateAlreadyTaken {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeDateAlreadyTaken)
	}
	if apiErr.Message != "Datum is al gereserveerd." {
		t.Errorf("Message = %q, want %q", apiErr.Message, "Datum is al gereserveerd.")
	}
}

// TestService_Create_YearlyQuota は年間上限のちょうど10件目で拒否され、
// 9件目までは成功することを検証する。
func TestService_Create_YearlyQuota(t *testing.T) {
	cases := []struct {
		name       string
		count      int
		wantReject bool
	}{
		{"9件なら作成できる", 9, false},
		{"10件で上限に達する", 10, true},
		{"11件でも拒否される", 11, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			resRepo := &mockReservationRepo{
				countBySchoolAndYearFn: func(ctx context.Context, schoolName string, year int) (int, error) {
					if schoolName != "Lyceum" {
						t.Errorf("schoolName = %q, want %q", schoolName, "Lyceum")
					}
					if year != 2024 {
						t.Errorf("year = %d, want %d", year, 2024)
					}
					return c.count, nil
				},
			}
			blockedRepo := &mockBlockedDateRepo{}

			svc := NewService(resRepo, blockedRepo, nil, nil)

			_, err := svc.Create(context.Background(), newCandidate(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))

			if !c.wantReject {
				if err != nil {
					t.Fatalf("Create returned unexpected error: %v", err)
				}
				return
			}

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Code != model.ErrCodeYearlyQuotaExceeded {
				t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeYearlyQuotaExceeded)
			}
			if apiErr.Message != "Maximum aantal boekingen bereikt voor dit jaar." {
				t.Errorf("Message = %q, want %q", apiErr.Message, "Maximum aantal boekingen bereikt voor dit jaar.")
			}
		})
	}
}

// TestService_Create_TimeOfDayIgnored は時刻成分が日付比較で無視されることを検証する。
// 09:00の予約候補と23:00にブロックされた日付は同一日付として扱われる。
func TestService_Create_TimeOfDayIgnored(t *testing.T) {
	wantDate := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	blockedRepo := &mockBlockedDateRepo{
		existsByDateFn: func(ctx context.Context, date time.Time) (bool, error) {
			if !date.Equal(wantDate) {
				t.Errorf("blocked check received date %v, want normalized %v", date, wantDate)
			}
			return true, nil
		},
	}

	svc := NewService(&mockReservationRepo{}, blockedRepo, nil, nil)

	_, err := svc.Create(context.Background(), newCandidate(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)))

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeDateBlocked {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeDateBlocked)
	}
}

// TestService_Create_UniqueViolationTranslated はINSERT時のユニーク制約違反が
// DateAlreadyTakenとして返ることを検証する（チェック後の競合のケース）。
func TestService_Create_UniqueViolationTranslated(t *testing.T) {
	resRepo := &mockReservationRepo{
		createFn: func(ctx context.Context, r *model.Reservation) error {
			return fmt.Errorf("reservation for 2024-09-10: %w", repository.ErrDuplicateDate)
		},
	}

	svc := NewService(resRepo, &mockBlockedDateRepo{}, nil, nil)

	_, err := svc.Create(context.Background(), newCandidate(time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC)))

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeDateAlreadyTaken {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeDateAlreadyTaken)
	}
}

// TestService_Create_SendsConfirmationMail は作成成功後に確認メールが
// 非同期で送信されることを検証する。
func TestService_Create_SendsConfirmationMail(t *testing.T) {
	mail := &mockMailer{sent: make(chan *model.Reservation, 1)}

	svc := NewService(&mockReservationRepo{}, &mockBlockedDateRepo{}, mail, nil)

	created, err := svc.Create(context.Background(), newCandidate(time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	select {
	case sent := <-mail.sent:
		if sent.SchoolName != created.SchoolName {
			t.Errorf("mailed SchoolName = %q, want %q", sent.SchoolName, created.SchoolName)
		}
	case <-time.After(time.Second):
		t.Fatal("confirmation mail was not sent within 1s")
	}
}

// TestService_Create_MailFailureDoesNotFailCreation はメール送信失敗が
// 予約作成の成否に影響しないことを検証する。
func TestService_Create_MailFailureDoesNotFailCreation(t *testing.T) {
	mail := &mockMailer{
		sent: make(chan *model.Reservation, 1),
		sendFn: func(ctx context.Context, r *model.Reservation) error {
			return errors.New("smtp unreachable")
		},
	}

	svc := NewService(&mockReservationRepo{}, &mockBlockedDateRepo{}, mail, nil)

	created, err := svc.Create(context.Background(), newCandidate(time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("Create should succeed despite mail failure, got: %v", err)
	}
	if created == nil {
		t.Fatal("expected created reservation")
	}

	// 送信試行自体は行われる
	select {
	case <-mail.sent:
	case <-time.After(time.Second):
		t.Fatal("mail send was not attempted within 1s")
	}
}

// TestService_Create_RepoErrorPropagates は永続化層の失敗がAPIError以外の
// エラーとして伝播することを検証する（500系として扱われる）。
func TestService_Create_RepoErrorPropagates(t *testing.T) {
	blockedRepo := &mockBlockedDateRepo{
		existsByDateFn: func(ctx context.Context, date time.Time) (bool, error) {
			return false, errors.New("connection refused")
		},
	}

	svc := NewService(&mockReservationRepo{}, blockedRepo, nil, nil)

	_, err := svc.Create(context.Background(), newCandidate(time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC)))
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		t.Errorf("repo failure should not be an APIError, got %v", apiErr)
	}
}

// --- List テスト ---

func TestService_List(t *testing.T) {
	now := time.Now()
	resRepo := &mockReservationRepo{
		listAllFn: func(ctx context.Context) ([]*model.Reservation, error) {
			return []*model.Reservation{
				{ID: 1, SchoolName: "Lyceum", ContactPerson: "A. Jansen", Date: time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC), CreatedAt: now},
				{ID: 2, SchoolName: "Gymnasium", ContactPerson: "B. de Vries", Date: time.Date(2024, 9, 11, 0, 0, 0, 0, time.UTC), CreatedAt: now},
			}, nil
		},
	}

	svc := NewService(resRepo, &mockBlockedDateRepo{}, nil, nil)

	results, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 reservations, got %d", len(results))
	}
	if results[0].SchoolName != "Lyceum" {
		t.Errorf("SchoolName = %q, want %q", results[0].SchoolName, "Lyceum")
	}
}

func TestService_List_RepoError(t *testing.T) {
	resRepo := &mockReservationRepo{
		listAllFn: func(ctx context.Context) ([]*model.Reservation, error) {
			return nil, errors.New("connection refused")
		},
	}

	svc := NewService(resRepo, &mockBlockedDateRepo{}, nil, nil)

	if _, err := svc.List(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
