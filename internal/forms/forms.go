// Package forms はマーケティングサイトのウェイトリスト登録と
// ニュースレター購読の送信を扱う。送信先は運用者が設定するwebhook URLで
// あり、SSRF防止機能付きのHTTPクライアントを経由してリクエストする。
package forms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"net/url"
	"strings"
	"time"
)

// フォーム送信エラー
var (
	ErrNotConfigured   = errors.New("forms: endpoint URL is not configured")
	ErrInvalidEmail    = errors.New("forms: invalid email address")
	ErrInvalidUserType = errors.New("forms: invalid user type")
)

// validUserTypes はウェイトリスト登録で受け付けるユーザー種別。
var validUserTypes = map[string]struct{}{
	"athlete":    {},
	"brand":      {},
	"university": {},
}

// SafeClientFactory はSSRF防止機能付きHTTPクライアントの生成を抽象化する。
// security.SSRFGuardServiceが実装する。
type SafeClientFactory interface {
	NewSafeClient(timeout time.Duration, maxResponseSize int64) *http.Client
	ValidateURL(rawURL string) error
}

// Service はフォーム送信サービス。
type Service struct {
	endpointURL string
	httpClient  *http.Client
	guard       SafeClientFactory
	logger      *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
// endpointURLが空の場合、送信操作はネットワークへ出ずにErrNotConfiguredを返す。
func NewService(endpointURL string, guard SafeClientFactory, timeout time.Duration, logger *slog.Logger) *Service {
	return &Service{
		endpointURL: endpointURL,
		httpClient:  guard.NewSafeClient(timeout, 0),
		guard:       guard,
		logger:      logger,
	}
}

// SubmitWaitlist はウェイトリスト登録を送信する。
// userTypeはathlete、brand、universityのいずれか。
// 入力検証はネットワーク呼び出しの前に行う。
func (s *Service) SubmitWaitlist(ctx context.Context, email, userType string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	if _, ok := validUserTypes[strings.ToLower(userType)]; !ok {
		return fmt.Errorf("%w: %s", ErrInvalidUserType, userType)
	}

	values := url.Values{}
	values.Set("action", "waitlist")
	values.Set("email", email)
	values.Set("userType", strings.ToLower(userType))

	return s.post(ctx, values)
}

// SubmitNewsletter はニュースレター購読を送信する。
func (s *Service) SubmitNewsletter(ctx context.Context, email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}

	values := url.Values{}
	values.Set("action", "newsletter")
	values.Set("email", email)

	return s.post(ctx, values)
}

// post はフォームエンコード済みのペイロードをwebhookへ送信する。
func (s *Service) post(ctx context.Context, values url.Values) error {
	if s.endpointURL == "" {
		return ErrNotConfigured
	}
	if err := s.guard.ValidateURL(s.endpointURL); err != nil {
		return fmt.Errorf("forms: unsafe endpoint URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpointURL,
		strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create form request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to submit form: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("form submission failed with status %d", resp.StatusCode)
	}

	s.logger.Info("form submitted", slog.String("action", values.Get("action")))
	return nil
}
