// Package apiclient はバックエンドAPIへの送信リクエストの単一の関門を提供する。
// Bearerトークンの付与、タイムアウト、成功/失敗形状の正規化を行う。
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/dapup/internal/model"
)

// DefaultTimeout はリクエストのデフォルトタイムアウト（30秒）。
const DefaultTimeout = 30 * time.Second

// TokenSource は現在のidentityのBearerトークンを解決するインターフェース。
// 未認証の場合は空文字列とnilを返す。トークン不在はエラーではなく、
// リクエストは未認証のまま続行される。
type TokenSource interface {
	IDToken(ctx context.Context) (string, error)
}

// MetricsRecorder はゲートウェイのリクエストメトリクスを記録するインターフェース。
// statusCodeはHTTPステータスコード、トランスポート障害の場合は0を渡す。
type MetricsRecorder interface {
	RecordAPIRequest(method string, statusCode int, duration time.Duration)
}

// Response はゲートウェイのタグ付き結果を表す。
// SuccessとErrorは排他であり、通常のHTTP失敗でエラー値が返ることはない。
type Response[T any] struct {
	Success bool            `json:"success"`
	Data    *T              `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   *model.APIError `json:"error,omitempty"`
}

// Client はバックエンドAPIへのHTTPクライアント。
// すべてのリソースモジュールはこのクライアントを経由してリクエストを発行する。
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger
	metrics    MetricsRecorder
	timeout    time.Duration
}

// ClientConfig はClientの生成設定。
type ClientConfig struct {
	BaseURL string
	Tokens  TokenSource     // nilの場合は常に未認証でリクエストする
	Logger  *slog.Logger    // nilの場合はslog.Defaultを使用する
	Metrics MetricsRecorder // nilの場合はメトリクスを記録しない
	Timeout time.Duration   // 0の場合はDefaultTimeoutを使用する
}

// NewClient はClientの新しいインスタンスを生成する。
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		// タイムアウトはリクエストごとのコンテキストで制御するため、
		// http.Client自体にはタイムアウトを設定しない。
		httpClient: &http.Client{},
		tokens:     cfg.Tokens,
		logger:     logger,
		metrics:    cfg.Metrics,
		timeout:    timeout,
	}
}

// Get はGETリクエストを発行する。
func Get[T any](ctx context.Context, c *Client, endpoint string) Response[T] {
	return Do[T](ctx, c, http.MethodGet, endpoint, nil, 0)
}

// Post はJSONボディ付きのPOSTリクエストを発行する。
func Post[T any](ctx context.Context, c *Client, endpoint string, body any) Response[T] {
	return Do[T](ctx, c, http.MethodPost, endpoint, body, 0)
}

// Put はJSONボディ付きのPUTリクエストを発行する。
func Put[T any](ctx context.Context, c *Client, endpoint string, body any) Response[T] {
	return Do[T](ctx, c, http.MethodPut, endpoint, body, 0)
}

// Patch はJSONボディ付きのPATCHリクエストを発行する。
func Patch[T any](ctx context.Context, c *Client, endpoint string, body any) Response[T] {
	return Do[T](ctx, c, http.MethodPatch, endpoint, body, 0)
}

// Delete はDELETEリクエストを発行する。
func Delete[T any](ctx context.Context, c *Client, endpoint string) Response[T] {
	return Do[T](ctx, c, http.MethodDelete, endpoint, nil, 0)
}

// Do はHTTPリクエストを発行し、タグ付き結果を返す。
// timeoutが0以下の場合はクライアントのデフォルトタイムアウトを使用する。
//
// 結果は成功と失敗のちょうど一方であり、通常のHTTP失敗（4xx/5xx、
// タイムアウト、ネットワーク障害）で呼び出し側にエラー値が返ることはない。
// エラー分類:
//   - タイムアウト超過: TIMEOUT_ERROR（実行中のリクエストは中断される）
//   - トランスポート障害: NETWORK_ERROR
//   - レスポンスボディにerror.codeが含まれる場合: そのまま通過
//   - それ以外の非2xx: UNKNOWN_ERROR
func Do[T any](ctx context.Context, c *Client, method, endpoint string, body any, timeout time.Duration) Response[T] {
	if timeout <= 0 {
		timeout = c.timeout
	}

	start := time.Now()
	resp := c.doRequest(ctx, method, endpoint, body, timeout)
	if c.metrics != nil {
		c.metrics.RecordAPIRequest(method, resp.status, time.Since(start))
	}

	if resp.apiErr != nil {
		return Response[T]{Success: false, Error: resp.apiErr}
	}

	var out Response[T]
	if err := json.Unmarshal(resp.body, &out); err != nil {
		c.logger.Error("APIレスポンスの解析に失敗しました",
			slog.String("method", method),
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
		)
		return Response[T]{Success: false, Error: model.NewNetworkError("invalid response body")}
	}
	return out
}

// rawResult はHTTP実行の内部結果。apiErrが非nilの場合は失敗が確定している。
type rawResult struct {
	status int
	body   []byte
	apiErr *model.APIError
}

// doRequest はトークン解決からレスポンス読み取りまでを実行する。
// 2xx応答の場合のみbodyを返し、それ以外は正規化済みのapiErrを返す。
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body any, timeout time.Duration) rawResult {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			c.logger.Error("リクエストボディの生成に失敗しました",
				slog.String("method", method),
				slog.String("endpoint", endpoint),
				slog.String("error", err.Error()),
			)
			return rawResult{apiErr: model.NewUnknownError()}
		}
		reqBody = bytes.NewReader(data)
	}

	url := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return rawResult{apiErr: model.NewNetworkError(err.Error())}
	}
	req.Header.Set("Content-Type", "application/json")

	// Bearerトークンの解決。不在はエラーではない。
	if c.tokens != nil {
		token, err := c.tokens.IDToken(ctx)
		if err != nil {
			c.logger.Error("認証トークンの取得に失敗しました",
				slog.String("endpoint", endpoint),
				slog.String("error", err.Error()),
			)
			return rawResult{apiErr: model.NewNetworkError("failed to resolve auth token")}
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		// タイムアウトレース: コンテキスト期限超過はTIMEOUT_ERRORに分類する
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Error("APIリクエストがタイムアウトしました",
				slog.String("method", method),
				slog.String("url", url),
				slog.Duration("timeout", timeout),
			)
			return rawResult{apiErr: model.NewTimeoutError(timeout.Seconds())}
		}
		c.logger.Error("APIリクエストに失敗しました",
			slog.String("method", method),
			slog.String("url", url),
			slog.String("error", err.Error()),
		)
		return rawResult{apiErr: model.NewNetworkError(err.Error())}
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return rawResult{status: httpResp.StatusCode, apiErr: model.NewTimeoutError(timeout.Seconds())}
		}
		return rawResult{status: httpResp.StatusCode, apiErr: model.NewNetworkError(err.Error())}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return rawResult{
			status: httpResp.StatusCode,
			apiErr: c.classifyErrorResponse(method, endpoint, httpResp.StatusCode, data),
		}
	}

	return rawResult{status: httpResp.StatusCode, body: data}
}

// classifyErrorResponse は非2xx応答を統一エラー形状へ変換する。
// サーバーがerror.codeを返した場合はそのまま通過させる。
// 404はリソース不在の期待されたシグナルとして他のエラーより低い深刻度で記録する。
func (c *Client) classifyErrorResponse(method, endpoint string, status int, body []byte) *model.APIError {
	var envelope struct {
		Error *model.APIError `json:"error"`
	}
	// ボディの解析失敗は握りつぶし、UNKNOWN_ERRORへフォールバックする
	_ = json.Unmarshal(body, &envelope)

	apiErr := envelope.Error
	if apiErr == nil || apiErr.Code == "" {
		apiErr = model.NewUnknownError()
	}

	if status == http.StatusNotFound {
		c.logger.Warn(fmt.Sprintf("API warning [%d]", status),
			slog.String("method", method),
			slog.String("endpoint", endpoint),
			slog.String("code", apiErr.Code),
		)
	} else {
		c.logger.Error(fmt.Sprintf("API error [%d]", status),
			slog.String("method", method),
			slog.String("endpoint", endpoint),
			slog.String("code", apiErr.Code),
			slog.String("message", apiErr.Message),
		)
	}

	return apiErr
}
