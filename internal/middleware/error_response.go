package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/dapup/internal/model"
)

// errorEnvelope はAPIエラーレスポンスの統一フォーマット。
// クライアントゲートウェイが期待する {success: false, error: {...}} 形式で返す。
type errorEnvelope struct {
	Success bool            `json:"success"`
	Error   *model.APIError `json:"error"`
}

// WriteErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
// すべてのAPIエンドポイントで一貫したエラーレスポンスを提供する。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorEnvelope{Success: false, Error: apiErr})
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, model.NewInternalError())
}
