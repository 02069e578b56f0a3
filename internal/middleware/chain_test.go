package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestMiddlewareChain_Auth_GETRequest は
// 認証ミドルウェアでGETリクエストが通ることを検証する。
func TestMiddlewareChain_Auth_GETRequest(t *testing.T) {
	verifier := &mockTokenVerifier{
		verifyTokenFn: func(token string) (string, error) {
			return "user-chain-test", nil
		},
	}

	authMW := NewAuthMiddleware(verifier)

	var capturedUserID string
	handler := authMW(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := UserIDFromContext(r.Context())
		capturedUserID = userID
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if capturedUserID != "user-chain-test" {
		t.Errorf("userID = %q, want %q", capturedUserID, "user-chain-test")
	}
}

// TestMiddlewareChain_CORSAuth_POSTRequest は
// CORS -> Auth のチェーンでPOSTリクエストがトークン付きで通ることを検証する。
func TestMiddlewareChain_CORSAuth_POSTRequest(t *testing.T) {
	verifier := &mockTokenVerifier{
		verifyTokenFn: func(token string) (string, error) {
			if token == "post-token" {
				return "user-post-test", nil
			}
			return "", fmt.Errorf("invalid token")
		},
	}

	corsMW := NewCORSMiddleware("http://localhost:3000")
	authMW := NewAuthMiddleware(verifier)

	handlerCalled := false
	handler := corsMW(authMW(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		userID, _ := UserIDFromContext(r.Context())
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"user_id": userID})
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer post-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if !handlerCalled {
		t.Error("handler should have been called")
	}
	if origin := w.Result().Header.Get("Access-Control-Allow-Origin"); origin != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", origin)
	}
}

// TestMiddlewareChain_NoToken_Returns401 は
// トークンがない場合に401が返されることを検証する。
func TestMiddlewareChain_NoToken_Returns401(t *testing.T) {
	authMW := NewAuthMiddleware(&mockTokenVerifier{})

	handler := authMW(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/users", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}
