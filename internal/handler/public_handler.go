package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hitoshi/dapup/internal/forms"
	"github.com/hitoshi/dapup/internal/model"
	"github.com/hitoshi/dapup/internal/news"
)

// NewsProvider はニュースフィードの取得を抽象化する。
type NewsProvider interface {
	Latest(ctx context.Context, limit int) ([]news.Article, error)
}

// FormsService はウェイトリスト/ニュースレターの送信を抽象化する。
type FormsService interface {
	SubmitWaitlist(ctx context.Context, email, userType string) error
	SubmitNewsletter(ctx context.Context, email string) error
}

// defaultNewsLimit はlimitパラメータ未指定時の記事件数。
const defaultNewsLimit = 20

// PublicHandler はマーケティングサイト向けの認証不要エンドポイントを処理する。
type PublicHandler struct {
	news  NewsProvider
	forms FormsService
}

// NewPublicHandler はPublicHandlerの新しいインスタンスを生成する。
func NewPublicHandler(newsProvider NewsProvider, formsService FormsService) *PublicHandler {
	return &PublicHandler{news: newsProvider, forms: formsService}
}

// News はGET /public/newsを処理する。
// NIL関連ニュースを公開日時の降順で返す。limitパラメータで件数を制限できる。
func (h *PublicHandler) News(w http.ResponseWriter, r *http.Request) {
	limit := defaultNewsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, model.NewValidationError("limitは正の整数で指定してください"))
			return
		}
		limit = parsed
	}

	articles, err := h.news.Latest(r.Context(), limit)
	if err != nil {
		slog.Error("failed to load news feed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, model.NewInternalError())
		return
	}
	if articles == nil {
		articles = []news.Article{}
	}
	writeData(w, http.StatusOK, articles)
}

// waitlistRequest はPOST /public/waitlistのリクエストボディ。
type waitlistRequest struct {
	Email    string `json:"email"`
	UserType string `json:"userType"`
}

// Waitlist はPOST /public/waitlistを処理する。
func (h *PublicHandler) Waitlist(w http.ResponseWriter, r *http.Request) {
	var req waitlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	if err := h.forms.SubmitWaitlist(r.Context(), req.Email, req.UserType); err != nil {
		writeFormsError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "ウェイトリストに登録しました。")
}

// newsletterRequest はPOST /public/newsletterのリクエストボディ。
type newsletterRequest struct {
	Email string `json:"email"`
}

// Newsletter はPOST /public/newsletterを処理する。
func (h *PublicHandler) Newsletter(w http.ResponseWriter, r *http.Request) {
	var req newsletterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	if err := h.forms.SubmitNewsletter(r.Context(), req.Email); err != nil {
		writeFormsError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "ニュースレターの購読を受け付けました。")
}

// writeFormsError はフォーム送信エラーをHTTPレスポンスへ変換する。
func writeFormsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, forms.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, model.NewValidationError("メールアドレスの形式が正しくありません"))
	case errors.Is(err, forms.ErrInvalidUserType):
		writeError(w, http.StatusBadRequest, model.NewValidationError("ユーザー種別はathlete、brand、universityのいずれかを指定してください"))
	case errors.Is(err, forms.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, model.NewInternalError())
	default:
		writeError(w, http.StatusBadGateway, model.NewNetworkError("送信先への接続に失敗しました"))
	}
}
