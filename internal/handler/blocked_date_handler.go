package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/reservatie/internal/model"
)

// BlockedDateServiceInterface はブロック日付ハンドラーが必要とするサービスインターフェース。
type BlockedDateServiceInterface interface {
	// List は全ブロック日付を返す。
	List(ctx context.Context) ([]*model.BlockedDate, error)
	// Block は日付をブロックする。
	Block(ctx context.Context, candidate *model.BlockedDate) (*model.BlockedDate, error)
}

// BlockedDateHandler はブロック日付管理のHTTPハンドラー。管理者専用。
type BlockedDateHandler struct {
	service BlockedDateServiceInterface
}

// NewBlockedDateHandler はBlockedDateHandlerを生成する。
func NewBlockedDateHandler(service BlockedDateServiceInterface) *BlockedDateHandler {
	return &BlockedDateHandler{service: service}
}

// createBlockedDateRequest はブロック日付作成リクエストのボディ。
type createBlockedDateRequest struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// blockedDateResponse はブロック日付のAPIレスポンス。
type blockedDateResponse struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListBlockedDates はブロック日付一覧を返す。
// GET /api/blocked
func (h *BlockedDateHandler) ListBlockedDates(w http.ResponseWriter, r *http.Request) {
	blocked, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]blockedDateResponse, len(blocked))
	for i, b := range blocked {
		results[i] = toBlockedDateResponse(b)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// CreateBlockedDate は日付のブロックを処理する。
// POST /api/blocked
func (h *BlockedDateHandler) CreateBlockedDate(w http.ResponseWriter, r *http.Request) {
	var req createBlockedDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "Het verzoek kon niet worden verwerkt.",
			Category: "validation",
			Action:   "Controleer het JSON-formaat van het verzoek.",
		})
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

	created, err := h.service.Block(r.Context(), &model.BlockedDate{
		Date:   date,
		Reason: req.Reason,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toBlockedDateResponse(created))
}

// toBlockedDateResponse はドメインのBlockedDateをレスポンス型に変換する。
func toBlockedDateResponse(b *model.BlockedDate) blockedDateResponse {
	return blockedDateResponse{
		ID:        b.ID,
		Date:      b.Date.Format(dateLayout),
		Reason:    b.Reason,
		CreatedAt: b.CreatedAt,
	}
}
