// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/reservatie/internal/model"
)

// dateLayout は予約日のリクエスト・レスポンスで使用する日付フォーマット。
const dateLayout = "2006-01-02"

// ReservationServiceInterface は予約ハンドラーが必要とするサービスインターフェース。
type ReservationServiceInterface interface {
	// List は全予約を返す。
	List(ctx context.Context) ([]*model.Reservation, error)
	// Create は予約を検証して作成する。
	Create(ctx context.Context, candidate *model.Reservation) (*model.Reservation, error)
}

// ReservationHandler は予約管理のHTTPハンドラー。
type ReservationHandler struct {
	service ReservationServiceInterface
}

// NewReservationHandler はReservationHandlerを生成する。
func NewReservationHandler(service ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: service}
}

// createReservationRequest は予約作成リクエストのボディ。
type createReservationRequest struct {
	SchoolName    string `json:"schoolName"`
	ContactPerson string `json:"contactPerson"`
	Date          string `json:"date"`
	Note          string `json:"note"`
}

// reservationResponse は予約のAPIレスポンス。
type reservationResponse struct {
	ID            int64     `json:"id"`
	SchoolName    string    `json:"schoolName"`
	ContactPerson string    `json:"contactPerson"`
	Date          string    `json:"date"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// ListReservations は予約一覧を返す。
// GET /api/reservations
func (h *ReservationHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]reservationResponse, len(reservations))
	for i, res := range reservations {
		results[i] = toReservationResponse(res)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// CreateReservation は予約作成を処理する。
// POST /api/reservations
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "Het verzoek kon niet worden verwerkt.",
			Category: "validation",
			Action:   "Controleer het JSON-formaat van het verzoek.",
		})
		return
	}

	if req.SchoolName == "" {
		writeValidationError(w, "Schoolnaam is verplicht.")
		return
	}
	if req.ContactPerson == "" {
		writeValidationError(w, "Contactpersoon is verplicht.")
		return
	}
	if req.Date == "" {
		writeValidationError(w, "Datum is verplicht.")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeValidationError(w, "Ongeldige datum.")
		return
	}

	created, err := h.service.Create(r.Context(), &model.Reservation{
		SchoolName:    req.SchoolName,
		ContactPerson: req.ContactPerson,
		Date:          date,
		Note:          req.Note,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toReservationResponse(created))
}

// parseDate は日付文字列を解釈する。
// "2006-01-02"形式とRFC3339形式の両方を受け付け、時刻成分は破棄する。
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return model.DateOnly(t), nil
}

// toReservationResponse はドメインのReservationをレスポンス型に変換する。
func toReservationResponse(res *model.Reservation) reservationResponse {
	return reservationResponse{
		ID:            res.ID,
		SchoolName:    res.SchoolName,
		ContactPerson: res.ContactPerson,
		Date:          res.Date.Format(dateLayout),
		Note:          res.Note,
		CreatedAt:     res.CreatedAt,
	}
}

// writeValidationError はスキーマレベルのバリデーション失敗を400で返す。
func writeValidationError(w http.ResponseWriter, message string) {
	writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:     "VALIDATION_FAILED",
		Message:  message,
		Category: "validation",
		Action:   "Corrigeer de invoer en probeer het opnieuw.",
	})
}

// writeAPIErrorResponse は統一エラーフォーマットでレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層のエラーをHTTPレスポンスに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "Er is een interne fout opgetreden.",
		Category: "system",
		Action:   "Probeer het later opnieuw.",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorのコードをHTTPステータスコードに対応付ける。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeDateBlocked, model.ErrCodeDateAlreadyTaken, model.ErrCodeYearlyQuotaExceeded:
		return http.StatusBadRequest
	case model.ErrCodeDateAlreadyBlocked:
		return http.StatusConflict
	case model.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case model.ErrCodeUserNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
