package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// requestIDHeaderName はリクエストIDを伝搬するヘッダー名。
const requestIDHeaderName = "X-Request-Id"

// requestIDContextKey はリクエストIDをコンテキストに格納するためのキー。
var requestIDContextKey = contextKey("request_id")

// NewRequestIDMiddleware は各リクエストにUUIDのリクエストIDを割り当てる
// ミドルウェアを返す。クライアントがX-Request-Idヘッダーを送ってきた場合は
// それを引き継ぎ、なければ新規生成する。IDはレスポンスヘッダーにも付与される。
func NewRequestIDMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(requestIDHeaderName)
			if requestID == "" {
				requestID = uuid.NewString()
			}

			w.Header().Set(requestIDHeaderName, requestID)

			ctx := context.WithValue(r.Context(), requestIDContextKey, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFromContext はコンテキストからリクエストIDを取得する。
// 未設定の場合は空文字列を返す。
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}
