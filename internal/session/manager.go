package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hitoshi/dapup/internal/endpoints"
	"github.com/hitoshi/dapup/internal/identity"
	"github.com/hitoshi/dapup/internal/model"
	"github.com/hitoshi/dapup/internal/navigation"
)

// デフォルトのセッションタイムアウト設定。
const (
	DefaultTimeout       = 24 * time.Hour
	DefaultCheckInterval = time.Minute
)

// directorDefaultTitle はディレクタープロファイルの初期タイトル。
const directorDefaultTitle = "NIL Director"

// validActivityKinds はアクティビティとして記録するユーザー操作の種別。
var validActivityKinds = map[string]struct{}{
	"pointerdown": {},
	"keydown":     {},
	"scroll":      {},
	"touchstart":  {},
	"click":       {},
}

// Config はManagerの生成設定。
type Config struct {
	Provider  identity.Provider
	Users     *endpoints.Users
	Athletes  *endpoints.Athletes
	Brands    *endpoints.Brands
	Directors *endpoints.Directors
	Activity  ActivityStore
	Cache     Cache
	Logger    *slog.Logger

	Timeout       time.Duration    // 0の場合はDefaultTimeout
	CheckInterval time.Duration    // 0の場合はDefaultCheckInterval
	Now           func() time.Time // nilの場合はtime.Now
}

// Manager はセッションライフサイクル全体を管理する。
// サインイン・サインアップ・サインアウト・アクティビティ追跡・
// 無操作タイムアウトの監視を担う。
type Manager struct {
	provider  identity.Provider
	users     *endpoints.Users
	athletes  *endpoints.Athletes
	brands    *endpoints.Brands
	directors *endpoints.Directors
	activity  ActivityStore
	cache     Cache
	logger    *slog.Logger

	timeout       time.Duration
	checkInterval time.Duration
	now           func() time.Time

	// signingOut はサインアウト処理の多重実行を防ぐガード。
	// 保持している間、ウォッチャーのtickもスキップされる。
	signingOut atomic.Bool

	mu      sync.Mutex
	current *identity.Account
	lastUID string

	cancel      context.CancelFunc
	unsubscribe func()
	done        chan struct{}
}

// NewManager はManagerの新しいインスタンスを生成する。
func NewManager(cfg Config) *Manager {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	checkInterval := cfg.CheckInterval
	if checkInterval <= 0 {
		checkInterval = DefaultCheckInterval
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		provider:      cfg.Provider,
		users:         cfg.Users,
		athletes:      cfg.Athletes,
		brands:        cfg.Brands,
		directors:     cfg.Directors,
		activity:      cfg.Activity,
		cache:         cfg.Cache,
		logger:        logger,
		timeout:       timeout,
		checkInterval: checkInterval,
		now:           now,
	}
}

// SignIn はメールアドレスとパスワードでサインインする。
// プロバイダーエラーはそのまま返す。呼び出し側はidentity.UserMessageで
// ユーザー向けメッセージへ変換する。
func (m *Manager) SignIn(ctx context.Context, email, password string) (*identity.Account, error) {
	account, err := m.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := m.activity.Touch(m.now()); err != nil {
		m.logger.Warn("アクティビティマーカーの更新に失敗しました", slog.String("error", err.Error()))
	}

	m.mu.Lock()
	m.current = account
	m.lastUID = account.UID
	m.mu.Unlock()

	m.logger.Info("signed in", slog.String("uid", account.UID))
	return account, nil
}

// SignUp は新しいアカウントを作成し、ユーザーレコードとロールプロファイルを
// プロビジョニングする。
//
// アスリートのロールには大学発行の.eduメールアドレスが必要であり、
// 不適合の場合はネットワーク呼び出しを一切行わずに拒否する。
//
// ユーザーレコードの作成失敗はエラーとして返す（作成済みアカウントは維持
// され、accountも併せて返る）。ロールプロファイルの作成失敗はログに記録
// するのみで、サインアップ全体は成功として扱う。
func (m *Manager) SignUp(ctx context.Context, email, password string, role model.Role) (*identity.Account, error) {
	if !role.IsValid() {
		return nil, model.NewInvalidRoleError(string(role))
	}
	if role == model.RoleAthlete && !strings.HasSuffix(strings.ToLower(email), ".edu") {
		return nil, model.NewEduEmailRequiredError()
	}

	account, err := m.provider.CreateAccount(ctx, email, password)
	if err != nil {
		return nil, err
	}

	resp := m.users.Create(ctx, model.CreateUserInput{
		UID:   account.UID,
		Email: account.Email,
		Role:  role,
	})
	if !resp.Success {
		m.logger.Error("ユーザーレコードの作成に失敗しました",
			slog.String("uid", account.UID),
			slog.String("code", resp.Error.Code),
		)
		return account, resp.Error
	}

	m.provisionProfile(ctx, account, role)

	if role == model.RoleAthlete {
		if err := m.provider.SendEmailVerification(ctx, account.UID); err != nil {
			m.logger.Warn("確認メールの送信に失敗しました",
				slog.String("uid", account.UID),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := m.activity.Touch(m.now()); err != nil {
		m.logger.Warn("アクティビティマーカーの更新に失敗しました", slog.String("error", err.Error()))
	}

	m.mu.Lock()
	m.current = account
	m.lastUID = account.UID
	m.mu.Unlock()

	m.logger.Info("signed up", slog.String("uid", account.UID), slog.String("role", string(role)))
	return account, nil
}

// provisionProfile はロールプロファイルを初期値で作成する。
// 作成失敗はログに記録するのみで、サインアップを失敗させない。
func (m *Manager) provisionProfile(ctx context.Context, account *identity.Account, role model.Role) {
	var apiErr *model.APIError

	switch role {
	case model.RoleAthlete:
		resp := m.athletes.Create(ctx, model.CreateAthleteInput{
			UID:              account.UID,
			Email:            account.Email,
			Visibility:       "public",
			DisplayName:      "",
			School:           "",
			PhotoURL:         "",
			ProfileCompleted: false,
		})
		apiErr = resp.Error
	case model.RoleBrand:
		resp := m.brands.Create(ctx, model.CreateBrandInput{
			UID:    account.UID,
			Email:  account.Email,
			Name:   "",
			Owners: []string{account.UID},
		})
		apiErr = resp.Error
	case model.RoleDirector:
		resp := m.directors.Create(ctx, model.CreateDirectorInput{
			UID:   account.UID,
			Email: account.Email,
			Title: directorDefaultTitle,
		})
		apiErr = resp.Error
	}

	if apiErr != nil {
		m.logger.Warn("ロールプロファイルの作成に失敗しました",
			slog.String("uid", account.UID),
			slog.String("role", string(role)),
			slog.String("code", apiErr.Code),
		)
	}
}

// SignOut はサインアウトする。並行呼び出しはガードにより1回だけ実行され、
// 敗者は何もせずにnilを返す。勝者はプロバイダーのサインアウト・キャッシュ
// 消去・マーカー削除を行う。
func (m *Manager) SignOut(ctx context.Context) error {
	if !m.signingOut.CompareAndSwap(false, true) {
		return nil
	}
	defer m.signingOut.Store(false)

	err := m.provider.SignOut(ctx)

	m.cache.Clear()
	if clearErr := m.activity.Clear(); clearErr != nil {
		m.logger.Warn("アクティビティマーカーの削除に失敗しました", slog.String("error", clearErr.Error()))
	}

	m.mu.Lock()
	m.current = nil
	m.lastUID = ""
	m.mu.Unlock()

	if err != nil {
		m.logger.Error("サインアウトに失敗しました", slog.String("error", err.Error()))
		return err
	}

	m.logger.Info("signed out")
	return nil
}

// RecordActivity はユーザー操作をアクティビティとして記録する。
// 未認証の間と未定義の操作種別は無視する。
func (m *Manager) RecordActivity(kind string) {
	if _, ok := validActivityKinds[kind]; !ok {
		return
	}
	if m.CurrentAccount() == nil {
		return
	}
	if err := m.activity.Touch(m.now()); err != nil {
		m.logger.Warn("アクティビティマーカーの更新に失敗しました", slog.String("error", err.Error()))
	}
}

// CurrentAccount は現在サインイン中のアカウントを返す。未認証時はnil。
func (m *Manager) CurrentAccount() *identity.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	copied := *m.current
	return &copied
}

// Expired は最終アクティビティからタイムアウトを超過したかを返す。
// マーカーが存在しない場合、期限切れとは判定しない。
func (m *Manager) Expired() bool {
	last, ok, err := m.activity.Last()
	if err != nil {
		m.logger.Warn("アクティビティマーカーの読み取りに失敗しました", slog.String("error", err.Error()))
		return false
	}
	if !ok {
		return false
	}
	return m.now().Sub(last) > m.timeout
}

// SendPasswordReset はパスワードリセットメールの送信を要求する。
// プロバイダーエラーはそのまま返す。
func (m *Manager) SendPasswordReset(ctx context.Context, email string) error {
	return m.provider.SendPasswordReset(ctx, email)
}

// RedirectAfterLogin はログイン後のリダイレクト先を決定する。
// メール未検証のアスリートは検証ページへ。nextはロールに許可された
// パスの場合のみ尊重し、それ以外はロールのホームへ。
func (m *Manager) RedirectAfterLogin(account *identity.Account, role model.Role, next string) string {
	if role == model.RoleAthlete && account != nil && !account.EmailVerified {
		return "/athlete/verify-email"
	}
	if next != "" && navigation.IsAllowedPathForRole(role, next) {
		return next
	}
	return navigation.HomeForRole(role)
}

// Start は認証状態ハンドラーの登録と無操作タイムアウトの監視を開始する。
// ctxのキャンセルまたはStopで停止する。
func (m *Manager) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})

	m.unsubscribe = m.provider.OnAuthStateChanged(m.handleAuthStateChange)

	go m.watch(ctx)
}

// Stop は監視を停止し、認証状態の購読を解除する。
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	if m.done != nil {
		<-m.done
	}
}

// watch はCheckIntervalごとにセッションの期限切れを確認するループ。
func (m *Manager) watch(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.checkExpiry(ctx)
		}
	}
}

// checkExpiry は1回のtick処理。サインアウト実行中はスキップする。
func (m *Manager) checkExpiry(ctx context.Context) {
	if m.signingOut.Load() {
		return
	}
	if m.CurrentAccount() == nil {
		return
	}
	if m.Expired() {
		m.logger.Info("セッションが無操作タイムアウトに達しました")
		if err := m.SignOut(ctx); err != nil {
			m.logger.Error("強制サインアウトに失敗しました", slog.String("error", err.Error()))
		}
	}
}

// handleAuthStateChange はプロバイダーの認証状態変化を処理する。
// 期限切れマーカーを伴う新しいアカウントは採用せず強制サインアウトする。
// UIDが切り替わった場合は前のidentityのキャッシュを消去する。
func (m *Manager) handleAuthStateChange(account *identity.Account) {
	if account == nil {
		m.mu.Lock()
		m.current = nil
		m.lastUID = ""
		m.mu.Unlock()
		if err := m.activity.Clear(); err != nil {
			m.logger.Warn("アクティビティマーカーの削除に失敗しました", slog.String("error", err.Error()))
		}
		return
	}

	if m.Expired() {
		m.logger.Info("期限切れセッションの復元を拒否します", slog.String("uid", account.UID))
		if err := m.SignOut(context.Background()); err != nil {
			m.logger.Error("強制サインアウトに失敗しました", slog.String("error", err.Error()))
		}
		return
	}

	m.mu.Lock()
	uidChanged := m.lastUID != "" && m.lastUID != account.UID
	m.current = account
	m.lastUID = account.UID
	m.mu.Unlock()

	if uidChanged {
		m.cache.Clear()
	}

	if err := m.activity.Touch(m.now()); err != nil {
		m.logger.Warn("アクティビティマーカーの更新に失敗しました", slog.String("error", err.Error()))
	}
}
