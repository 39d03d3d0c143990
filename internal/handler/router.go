package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/reservatie/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	UserFinder        middleware.UserFinder
	CORSAllowedOrigin string
	CSRFConfig        middleware.CSRFConfig
	RateLimiter       *middleware.RateLimiter
	AccessLogger      func(next http.Handler) http.Handler
	MetricsMiddleware func(next http.Handler) http.Handler

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// 予約
	ReservationService ReservationServiceInterface

	// ブロック日付
	BlockedDateService BlockedDateServiceInterface

	// 死活監視
	HealthPinger Pinger

	// Prometheusスクレイプ用（nilの場合は/metricsを公開しない）
	MetricsHandler http.Handler
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// 共通ミドルウェアスタックの実行順序:
//
//	RequestID → Logging → Metrics → Recovery → SecurityHeaders → CORS → CSRF
//
// 認証が必要なルートはさらに Session → RateLimit(General) を重ね、
// 管理者ルートは RequireAdmin を追加する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRequestIDMiddleware())
	if deps.AccessLogger != nil {
		r.Use(deps.AccessLogger)
	}
	if deps.MetricsMiddleware != nil {
		r.Use(deps.MetricsMiddleware)
	}
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	reservationHandler := NewReservationHandler(deps.ReservationService)
	blockedHandler := NewBlockedDateHandler(deps.BlockedDateService)
	healthHandler := NewHealthHandler(deps.HealthPinger)

	// --- 認証不要のルート ---

	r.Get("/health", healthHandler.Health)
	r.Get("/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig).ServeHTTP)

	if deps.MetricsHandler != nil {
		r.Get("/metrics", deps.MetricsHandler.ServeHTTP)
	}

	// 認証ルート
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// 予約一覧は誰でも参照できる
	r.Get("/api/reservations", reservationHandler.ListReservations)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// POST /api/reservations - 予約作成（作成専用レート制限を追加）
		r.With(deps.RateLimiter.ReservationMiddleware()).Post("/api/reservations", reservationHandler.CreateReservation)

		// ブロック日付管理は管理者のみ
		r.Route("/api/blocked", func(r chi.Router) {
			r.Use(middleware.NewRequireAdminMiddleware(deps.UserFinder))

			r.Get("/", blockedHandler.ListBlockedDates)
			r.Post("/", blockedHandler.CreateBlockedDate)
		})
	})

	return r
}
