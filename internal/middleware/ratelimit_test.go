package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func limitedRequest(userID int64) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/reservations", nil)
	return req.WithContext(ContextWithUserID(req.Context(), userID))
}

// --- GeneralMiddleware のテスト ---

func TestRateLimitMiddleware_AllowsRequestsWithinLimit(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:      2,
		GeneralBurst:     5,
		ReservationRate:  1,
		ReservationBurst: 10,
		CleanupInterval:  1 * time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	mw := rl.GeneralMiddleware()

	handlerCallCount := 0
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCallCount++
		w.WriteHeader(http.StatusOK)
	}))

	// バースト内の5リクエストは全て通る
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, limitedRequest(1))

		if w.Result().StatusCode != http.StatusOK {
			t.Errorf("request %d: status = %d, want %d", i, w.Result().StatusCode, http.StatusOK)
		}
	}

	if handlerCallCount != 5 {
		t.Errorf("handler call count = %d, want 5", handlerCallCount)
	}
}

func TestRateLimitMiddleware_Returns429WhenLimitExceeded(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:      1,
		GeneralBurst:     2,
		ReservationRate:  1,
		ReservationBurst: 10,
		CleanupInterval:  1 * time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	mw := rl.GeneralMiddleware()

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// バースト分（2回）は通る
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, limitedRequest(7))
		if w.Result().StatusCode != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i, w.Result().StatusCode, http.StatusOK)
		}
	}

	// 3回目は429
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, limitedRequest(7))

	resp := w.Result()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusTooManyRequests)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("Retry-After header is missing")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if body["code"] != "rate_limit_exceeded" {
		t.Errorf("code = %q, want %q", body["code"], "rate_limit_exceeded")
	}
}

func TestRateLimitMiddleware_IsolatesUsers(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:      1,
		GeneralBurst:     1,
		ReservationRate:  1,
		ReservationBurst: 10,
		CleanupInterval:  1 * time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	mw := rl.GeneralMiddleware()
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// user 1 がバーストを使い切る
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, limitedRequest(1))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, limitedRequest(1))
	if w.Result().StatusCode != http.StatusTooManyRequests {
		t.Fatalf("user 1 second request: status = %d, want %d", w.Result().StatusCode, http.StatusTooManyRequests)
	}

	// user 2 は影響を受けない
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, limitedRequest(2))
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("user 2: status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}

	if count := rl.GeneralLimiterCount(); count != 2 {
		t.Errorf("limiter count = %d, want 2", count)
	}
}

func TestRateLimitMiddleware_NoUserInContext_Returns401(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimiterConfig())
	defer rl.Stop()

	mw := rl.GeneralMiddleware()
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/reservations", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

// --- ReservationMiddleware のテスト ---

func TestReservationRateLimit_IndependentFromGeneral(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:      1,
		GeneralBurst:     1,
		ReservationRate:  1,
		ReservationBurst: 2,
		CleanupInterval:  1 * time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	generalHandler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	reservationHandler := rl.ReservationMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// API全般のバーストを使い切る
	w := httptest.NewRecorder()
	generalHandler.ServeHTTP(w, limitedRequest(5))
	w = httptest.NewRecorder()
	generalHandler.ServeHTTP(w, limitedRequest(5))
	if w.Result().StatusCode != http.StatusTooManyRequests {
		t.Fatalf("general: status = %d, want %d", w.Result().StatusCode, http.StatusTooManyRequests)
	}

	// 予約作成のリミッターは独立しているため通る
	w = httptest.NewRecorder()
	reservationHandler.ServeHTTP(w, limitedRequest(5))
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("reservation: status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
}

func TestReservationRateLimit_Returns429WhenExceeded(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:      100,
		GeneralBurst:     100,
		ReservationRate:  1,
		ReservationBurst: 1,
		CleanupInterval:  1 * time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	handler := rl.ReservationMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, limitedRequest(9))
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("first request: status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, limitedRequest(9))
	if w.Result().StatusCode != http.StatusTooManyRequests {
		t.Errorf("second request: status = %d, want %d", w.Result().StatusCode, http.StatusTooManyRequests)
	}

	if count := rl.ReservationLimiterCount(); count != 1 {
		t.Errorf("limiter count = %d, want 1", count)
	}
}

// --- cleanup のテスト ---

func TestRateLimiter_CleanupRemovesStaleEntries(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:      1,
		GeneralBurst:     1,
		ReservationRate:  1,
		ReservationBurst: 1,
		CleanupInterval:  10 * time.Millisecond,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	rl.getOrCreateGeneralLimiter(1)
	rl.getOrCreateReservationLimiter(1)

	// lastAccessを過去に倒してクリーンアップ対象にする
	rl.generalMu.Lock()
	rl.generalLimiters[1].lastAccess = time.Now().Add(-time.Hour)
	rl.generalMu.Unlock()
	rl.reservationMu.Lock()
	rl.reservationLimiters[1].lastAccess = time.Now().Add(-time.Hour)
	rl.reservationMu.Unlock()

	rl.cleanup()

	if count := rl.GeneralLimiterCount(); count != 0 {
		t.Errorf("general limiter count after cleanup = %d, want 0", count)
	}
	if count := rl.ReservationLimiterCount(); count != 0 {
		t.Errorf("reservation limiter count after cleanup = %d, want 0", count)
	}
}
