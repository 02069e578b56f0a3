package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/dapup/internal/model"
)

type mockTokenSource struct {
	token string
	err   error
}

func (m *mockTokenSource) IDToken(ctx context.Context) (string, error) {
	return m.token, m.err
}

var _ TokenSource = (*mockTokenSource)(nil)

func newTestClient(baseURL string, tokens TokenSource) *Client {
	return NewClient(ClientConfig{
		BaseURL: baseURL,
		Tokens:  tokens,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestDo_Success_ReturnsData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/user-1" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/api/users/user-1")
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"uid": "user-1", "role": "athlete", "email": "a@example.edu"},
		})
	}))
	defer server.Close()

	c := newTestClient(server.URL, nil)
	resp := Get[model.User](context.Background(), c, "/api/users/user-1")

	if !resp.Success {
		t.Fatalf("expected success, got error %v", resp.Error)
	}
	if resp.Data == nil {
		t.Fatal("expected data, got nil")
	}
	if resp.Data.UID != "user-1" {
		t.Errorf("UID = %q, want %q", resp.Data.UID, "user-1")
	}
	if resp.Data.Role != model.RoleAthlete {
		t.Errorf("Role = %q, want %q", resp.Data.Role, model.RoleAthlete)
	}
}

func TestDo_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer server.Close()

	c := newTestClient(server.URL, &mockTokenSource{token: "token-abc"})
	resp := Get[model.User](context.Background(), c, "/api/auth/me")

	if !resp.Success {
		t.Fatalf("expected success, got error %v", resp.Error)
	}
	if gotAuth != "Bearer token-abc" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer token-abc")
	}
}

func TestDo_NoToken_SendsUnauthenticated(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer server.Close()

	c := newTestClient(server.URL, &mockTokenSource{token: ""})
	resp := Get[model.User](context.Background(), c, "/api/news")

	if !resp.Success {
		t.Fatalf("expected success, got error %v", resp.Error)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

func TestDo_ServerErrorCode_PassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   map[string]any{"code": "USER_ALREADY_EXISTS", "message": "duplicate"},
		})
	}))
	defer server.Close()

	c := newTestClient(server.URL, nil)
	resp := Post[model.User](context.Background(), c, "/api/users", map[string]string{"uid": "u1"})

	if resp.Success {
		t.Fatal("expected failure, got success")
	}
	if resp.Error == nil {
		t.Fatal("expected error, got nil")
	}
	if resp.Error.Code != model.ErrCodeUserAlreadyExists {
		t.Errorf("code = %q, want %q", resp.Error.Code, model.ErrCodeUserAlreadyExists)
	}
	if resp.Error.Message != "duplicate" {
		t.Errorf("message = %q, want %q", resp.Error.Message, "duplicate")
	}
}

func TestDo_ErrorWithoutCode_ReturnsUnknownError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("oops"))
	}))
	defer server.Close()

	c := newTestClient(server.URL, nil)
	resp := Get[model.User](context.Background(), c, "/api/users/user-1")

	if resp.Success {
		t.Fatal("expected failure, got success")
	}
	if resp.Error.Code != model.ErrCodeUnknown {
		t.Errorf("code = %q, want %q", resp.Error.Code, model.ErrCodeUnknown)
	}
}

func TestDo_Timeout_ReturnsTimeoutError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	c := newTestClient(server.URL, nil)
	resp := Do[model.User](context.Background(), c, http.MethodGet, "/api/users/user-1", nil, 50*time.Millisecond)

	if resp.Success {
		t.Fatal("expected failure, got success")
	}
	if resp.Error.Code != model.ErrCodeTimeout {
		t.Errorf("code = %q, want %q", resp.Error.Code, model.ErrCodeTimeout)
	}
}

func TestDo_TransportFailure_ReturnsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // 接続拒否を起こす

	c := newTestClient(server.URL, nil)
	resp := Get[model.User](context.Background(), c, "/api/users/user-1")

	if resp.Success {
		t.Fatal("expected failure, got success")
	}
	if resp.Error.Code != model.ErrCodeNetwork {
		t.Errorf("code = %q, want %q", resp.Error.Code, model.ErrCodeNetwork)
	}
}

func TestDo_InvalidResponseBody_ReturnsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	c := newTestClient(server.URL, nil)
	resp := Get[model.User](context.Background(), c, "/api/users/user-1")

	if resp.Success {
		t.Fatal("expected failure, got success")
	}
	if resp.Error.Code != model.ErrCodeNetwork {
		t.Errorf("code = %q, want %q", resp.Error.Code, model.ErrCodeNetwork)
	}
}

func TestDo_NotFound_ReturnsErrorResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   map[string]any{"code": "USER_NOT_FOUND", "message": "not found"},
		})
	}))
	defer server.Close()

	c := newTestClient(server.URL, nil)
	resp := Get[model.User](context.Background(), c, "/api/users/missing")

	if resp.Success {
		t.Fatal("expected failure, got success")
	}
	if resp.Error.Code != model.ErrCodeUserNotFound {
		t.Errorf("code = %q, want %q", resp.Error.Code, model.ErrCodeUserNotFound)
	}
}

func TestDo_RequestBodySentAsJSON(t *testing.T) {
	var gotBody map[string]string
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer server.Close()

	c := newTestClient(server.URL, nil)
	resp := Post[model.User](context.Background(), c, "/api/users", map[string]string{"uid": "u1", "role": "brand"})

	if !resp.Success {
		t.Fatalf("expected success, got error %v", resp.Error)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want %q", gotContentType, "application/json")
	}
	if gotBody["uid"] != "u1" || gotBody["role"] != "brand" {
		t.Errorf("body = %v, want uid=u1 role=brand", gotBody)
	}
}
