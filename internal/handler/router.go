package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/dapup/internal/middleware"
	"github.com/hitoshi/dapup/internal/repository"
)

// RouterDeps はルーター構築に必要な依存をまとめる。
type RouterDeps struct {
	Logger        *slog.Logger
	TokenVerifier middleware.TokenVerifier
	RateLimiter   *middleware.RateLimiter
	AllowedOrigin string

	Users        repository.UserRepository
	Athletes     repository.AthleteRepository
	Brands       repository.BrandRepository
	Directors    repository.DirectorRepository
	Campaigns    repository.CampaignRepository
	Applications repository.ApplicationRepository
	Contracts    repository.ContractRepository
	Deals        repository.DealRepository

	// News と Forms が非nilの場合、認証不要の/publicルートに公開する。
	News  NewsProvider
	Forms FormsService

	// Metrics が非nilの場合、全リクエストのメトリクスを記録する。
	Metrics middleware.RequestRecorder

	// MetricsHandler が非nilの場合、/metricsに公開する。
	MetricsHandler http.Handler
}

// NewRouter はAPI全体のルーターを構築する。
//
// ミドルウェアの適用順はCORS → リカバリ → ロギング → メトリクス → 認証 →
// レート制限。/health、/metrics、/public配下は認証なしで公開する。
func NewRouter(deps RouterDeps) chi.Router {
	authHandler := NewAuthHandler(deps.Users)
	userHandler := NewUserHandler(deps.Users)
	athleteHandler := NewAthleteHandler(deps.Athletes, deps.Applications, deps.Deals)
	brandHandler := NewBrandHandler(deps.Brands, deps.Campaigns)
	directorHandler := NewDirectorHandler(deps.Directors)
	applicationHandler := NewApplicationHandler(deps.Applications, deps.Campaigns)
	contractHandler := NewContractHandler(deps.Contracts, deps.Applications, deps.Campaigns)

	r := chi.NewRouter()
	r.Use(middleware.NewCORSMiddleware(deps.AllowedOrigin))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}

	r.Get("/health", healthHandler)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// マーケティングサイト向けの認証不要ルート
	if deps.News != nil || deps.Forms != nil {
		publicHandler := NewPublicHandler(deps.News, deps.Forms)
		r.Route("/public", func(pub chi.Router) {
			if deps.News != nil {
				pub.Get("/news", publicHandler.News)
			}
			if deps.Forms != nil {
				pub.Post("/waitlist", publicHandler.Waitlist)
				pub.Post("/newsletter", publicHandler.Newsletter)
			}
		})
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))
		if deps.RateLimiter != nil {
			api.Use(deps.RateLimiter.GeneralMiddleware())
		}

		// 書き込み系はより厳しいレート制限を追加で通す
		write := func(api chi.Router) chi.Router {
			if deps.RateLimiter != nil {
				return api.With(deps.RateLimiter.WriteMiddleware())
			}
			return api
		}

		api.Get("/auth/me", authHandler.Me)

		api.Get("/users", userHandler.List)
		api.Get("/users/{uid}", userHandler.Get)
		write(api).Post("/users", userHandler.Create)
		write(api).Patch("/users/{uid}", userHandler.Update)
		write(api).Delete("/users/{uid}", userHandler.Delete)

		api.Get("/athletes", athleteHandler.List)
		api.Get("/athletes/{uid}", athleteHandler.Get)
		api.Get("/athletes/{uid}/applications", athleteHandler.Applications)
		api.Get("/athletes/{uid}/deals", athleteHandler.Deals)
		write(api).Post("/athletes", athleteHandler.Create)
		write(api).Patch("/athletes/{uid}", athleteHandler.Update)

		api.Get("/brands", brandHandler.List)
		api.Get("/brands/{uid}", brandHandler.Get)
		api.Get("/brands/{uid}/campaigns", brandHandler.Campaigns)
		write(api).Post("/brands", brandHandler.Create)
		write(api).Patch("/brands/{uid}", brandHandler.Update)

		api.Get("/directors", directorHandler.List)
		api.Get("/directors/{uid}", directorHandler.Get)
		write(api).Post("/directors", directorHandler.Create)
		write(api).Patch("/directors/{uid}", directorHandler.Update)

		api.Route("/campaigns/{campaignId}/applications", func(apps chi.Router) {
			apps.Get("/", applicationHandler.List)
			apps.Get("/{athleteId}", applicationHandler.Get)
			write(apps).Post("/", applicationHandler.Create)
			write(apps).Patch("/{athleteId}", applicationHandler.Update)
			write(apps).Post("/{athleteId}/submit", applicationHandler.Submit)
			write(apps).Post("/{athleteId}/accept", applicationHandler.Accept)
			write(apps).Post("/{athleteId}/decline", applicationHandler.Decline)

			apps.Get("/{athleteId}/contract", contractHandler.Get)
			write(apps).Post("/{athleteId}/contract", contractHandler.Create)
			write(apps).Patch("/{athleteId}/contract", contractHandler.Update)
			write(apps).Post("/{athleteId}/contract/send", contractHandler.Send)
		})
	})

	return r
}

// healthHandler は稼働確認エンドポイント。
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
