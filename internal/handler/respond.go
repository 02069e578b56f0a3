// Package handler はAPIのHTTPハンドラーとルーティングを提供する。
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/dapup/internal/middleware"
	"github.com/hitoshi/dapup/internal/model"
)

// successEnvelope はAPI成功レスポンスの統一フォーマット。
// クライアントゲートウェイが期待する {success: true, data: ...} 形式で返す。
type successEnvelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// writeData は成功レスポンスをエンベロープ付きで書き込む。
func writeData(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(successEnvelope{Success: true, Data: data})
}

// writeMessage はデータを持たない成功レスポンスを書き込む。
func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(successEnvelope{Success: true, Message: message})
}

// writeError は統一エラーフォーマットでレスポンスを書き込む。
func writeError(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	middleware.WriteErrorResponse(w, statusCode, apiErr)
}

// writeRepositoryError はリポジトリ層のエラーをログに記録し、
// 詳細を伏せた500レスポンスを返す。
func writeRepositoryError(w http.ResponseWriter, op string, err error) {
	slog.Error("repository operation failed",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
	middleware.WriteInternalServerError(w)
}

// writeInvalidBody はリクエストボディの解析失敗レスポンスを書き込む。
func writeInvalidBody(w http.ResponseWriter) {
	writeError(w, http.StatusBadRequest, model.NewValidationError("リクエストボディの解析に失敗しました"))
}

// requireUserID はコンテキストから認証済みユーザーIDを取り出す。
// 取得できない場合は401を書き込みfalseを返す。
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return "", false
	}
	return userID, true
}
