package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/dapup/internal/middleware"
	"github.com/hitoshi/dapup/internal/model"
)

// newAuthedRequest は認証済みユーザーIDをコンテキストに注入したリクエストを生成する。
func newAuthedRequest(t *testing.T, method, target, uid string, body any) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	return req.WithContext(middleware.ContextWithUserID(req.Context(), uid))
}

// withURLParams はchiのURLパラメータをリクエストに設定する。
func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeSuccess は成功エンベロープのdataフィールドをoutへデコードする。
func decodeSuccess(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if !envelope.Success {
		t.Fatalf("success = false, want true")
	}
	if out != nil && envelope.Data != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			t.Fatalf("failed to decode data field: %v", err)
		}
	}
}

// decodeError はエラーエンベロープのerrorフィールドをデコードして返す。
func decodeError(t *testing.T, w *httptest.ResponseRecorder) *model.APIError {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Error   *model.APIError `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode error response body: %v", err)
	}
	if envelope.Success {
		t.Fatalf("success = true, want false")
	}
	if envelope.Error == nil {
		t.Fatal("error field is nil")
	}
	return envelope.Error
}
