// Package app はアプリケーションの起動とワイヤリングを行う。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"golang.org/x/time/rate"

	"github.com/hitoshi/dapup/internal/config"
	"github.com/hitoshi/dapup/internal/database"
	"github.com/hitoshi/dapup/internal/forms"
	"github.com/hitoshi/dapup/internal/handler"
	"github.com/hitoshi/dapup/internal/identity"
	"github.com/hitoshi/dapup/internal/logger"
	"github.com/hitoshi/dapup/internal/metrics"
	"github.com/hitoshi/dapup/internal/middleware"
	"github.com/hitoshi/dapup/internal/news"
	"github.com/hitoshi/dapup/internal/repository"
	"github.com/hitoshi/dapup/internal/security"
)

// formsTimeout はフォーム送信先webhookへのリクエストタイムアウト。
const formsTimeout = 10 * time.Second

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "3001"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("api_base_url", cfg.APIBaseURL),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はリファレンスAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリの初期化
	userRepo := repository.NewPostgresUserRepo(db)
	athleteRepo := repository.NewPostgresAthleteRepo(db)
	brandRepo := repository.NewPostgresBrandRepo(db)
	directorRepo := repository.NewPostgresDirectorRepo(db)
	campaignRepo := repository.NewPostgresCampaignRepo(db)
	applicationRepo := repository.NewPostgresApplicationRepo(db)
	contractRepo := repository.NewPostgresContractRepo(db)
	dealRepo := repository.NewPostgresDealRepo(db)

	// 3. トークン検証器の初期化
	verifier := identity.NewVerifier(cfg.AuthTokenSecret)

	// 4. レート制限の初期化（configはreq/min単位、rate.Limitはreq/sec単位）
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
	rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	rateLimiterCfg.WriteRate = rate.Limit(float64(cfg.RateLimitWrite) / 60.0)
	rateLimiterCfg.WriteBurst = cfg.RateLimitWrite
	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	// 5. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 6. マーケティングサイト向けサービス（ニュースフィード、フォーム送信）
	ssrfGuard := security.NewSSRFGuard()
	var newsService handler.NewsProvider
	if len(cfg.NewsFeedURLs) > 0 {
		newsService = news.NewService(
			cfg.NewsFeedURLs,
			ssrfGuard,
			security.NewContentSanitizer(),
			slog.Default(),
			cfg.NewsTimeout,
			cfg.NewsMaxSize,
			cfg.NewsCacheTTL,
		)
	}
	var formsService handler.FormsService
	if cfg.FormsEndpointURL != "" {
		formsService = forms.NewService(cfg.FormsEndpointURL, ssrfGuard, formsTimeout, slog.Default())
	}

	// 7. ルーターの構築
	router := handler.NewRouter(handler.RouterDeps{
		Logger:        slog.Default(),
		TokenVerifier: verifier,
		RateLimiter:   rateLimiter,
		AllowedOrigin: cfg.CORSAllowedOrigin,

		Users:        userRepo,
		Athletes:     athleteRepo,
		Brands:       brandRepo,
		Directors:    directorRepo,
		Campaigns:    campaignRepo,
		Applications: applicationRepo,
		Contracts:    contractRepo,
		Deals:        dealRepo,

		News:    newsService,
		Forms:   formsService,
		Metrics: collector,

		MetricsHandler: metrics.SetupMetricsRoute(registry),
	})

	// 8. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
