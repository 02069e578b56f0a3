package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hitoshi/dapup/internal/apiclient"
	"github.com/hitoshi/dapup/internal/endpoints"
	"github.com/hitoshi/dapup/internal/identity"
	"github.com/hitoshi/dapup/internal/model"
)

type mockProvider struct {
	signInFn                func(ctx context.Context, email, password string) (*identity.Account, error)
	createAccountFn         func(ctx context.Context, email, password string) (*identity.Account, error)
	signOutFn               func(ctx context.Context) error
	sendPasswordResetFn     func(ctx context.Context, email string) error
	sendEmailVerificationFn func(ctx context.Context, uid string) error

	mu      sync.Mutex
	handler func(*identity.Account)

	signOutCalls           atomic.Int32
	createAccountCalls     atomic.Int32
	emailVerificationCalls atomic.Int32
}

var _ identity.Provider = (*mockProvider)(nil)

func (m *mockProvider) SignIn(ctx context.Context, email, password string) (*identity.Account, error) {
	if m.signInFn != nil {
		return m.signInFn(ctx, email, password)
	}
	return &identity.Account{UID: "uid-1", Email: email, EmailVerified: true}, nil
}

func (m *mockProvider) CreateAccount(ctx context.Context, email, password string) (*identity.Account, error) {
	m.createAccountCalls.Add(1)
	if m.createAccountFn != nil {
		return m.createAccountFn(ctx, email, password)
	}
	return &identity.Account{UID: "uid-1", Email: email}, nil
}

func (m *mockProvider) SignOut(ctx context.Context) error {
	m.signOutCalls.Add(1)
	if m.signOutFn != nil {
		return m.signOutFn(ctx)
	}
	return nil
}

func (m *mockProvider) SendPasswordReset(ctx context.Context, email string) error {
	if m.sendPasswordResetFn != nil {
		return m.sendPasswordResetFn(ctx, email)
	}
	return nil
}

func (m *mockProvider) SendEmailVerification(ctx context.Context, uid string) error {
	m.emailVerificationCalls.Add(1)
	if m.sendEmailVerificationFn != nil {
		return m.sendEmailVerificationFn(ctx, uid)
	}
	return nil
}

func (m *mockProvider) IDToken(ctx context.Context) (string, error) { return "", nil }

func (m *mockProvider) CurrentAccount() *identity.Account { return nil }

func (m *mockProvider) OnAuthStateChanged(fn func(*identity.Account)) func() {
	m.mu.Lock()
	m.handler = fn
	m.mu.Unlock()
	return func() {}
}

func (m *mockProvider) emitAuthState(account *identity.Account) {
	m.mu.Lock()
	fn := m.handler
	m.mu.Unlock()
	if fn != nil {
		fn(account)
	}
}

type fakeActivityStore struct {
	mu  sync.Mutex
	t   time.Time
	set bool
}

var _ ActivityStore = (*fakeActivityStore)(nil)

func (s *fakeActivityStore) Touch(t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.t = t
	s.set = true
	return nil
}

func (s *fakeActivityStore) Last() (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.t, s.set, nil
}

func (s *fakeActivityStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.t = time.Time{}
	s.set = false
	return nil
}

// recordedRequest はバックエンドが受信したリクエストの記録。
type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

type fakeBackend struct {
	server *httptest.Server

	mu       sync.Mutex
	requests []recordedRequest

	// failUserCreateがtrueの場合、POST /api/usersは409を返す
	failUserCreate bool
	// failProfileCreateがtrueの場合、プロファイル作成は500を返す
	failProfileCreate bool
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	fb.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)

		fb.mu.Lock()
		fb.requests = append(fb.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: body})
		failUser := fb.failUserCreate
		failProfile := fb.failProfileCreate
		fb.mu.Unlock()

		switch {
		case r.URL.Path == "/api/users" && failUser:
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   map[string]any{"code": model.ErrCodeUserAlreadyExists, "message": "duplicate"},
			})
		case r.URL.Path != "/api/users" && failProfile:
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   map[string]any{"code": model.ErrCodeInternal, "message": "boom"},
			})
		default:
			json.NewEncoder(w).Encode(map[string]any{"success": true, "data": body})
		}
	}))
	t.Cleanup(fb.server.Close)
	return fb
}

func (fb *fakeBackend) recorded() []recordedRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	out := make([]recordedRequest, len(fb.requests))
	copy(out, fb.requests)
	return out
}

type managerFixture struct {
	manager  *Manager
	provider *mockProvider
	backend  *fakeBackend
	activity *fakeActivityStore
	cache    *MemoryCache
	now      time.Time
	nowMu    sync.Mutex
}

func (f *managerFixture) advance(d time.Duration) {
	f.nowMu.Lock()
	defer f.nowMu.Unlock()
	f.now = f.now.Add(d)
}

func newManagerFixture(t *testing.T, mutate func(*Config)) *managerFixture {
	t.Helper()

	f := &managerFixture{
		provider: &mockProvider{},
		backend:  newFakeBackend(t),
		activity: &fakeActivityStore{},
		cache:    NewMemoryCache(),
		now:      time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	client := apiclient.NewClient(apiclient.ClientConfig{
		BaseURL: f.backend.server.URL,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	cfg := Config{
		Provider:  f.provider,
		Users:     endpoints.NewUsers(client),
		Athletes:  endpoints.NewAthletes(client),
		Brands:    endpoints.NewBrands(client),
		Directors: endpoints.NewDirectors(client),
		Activity:  f.activity,
		Cache:     f.cache,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now: func() time.Time {
			f.nowMu.Lock()
			defer f.nowMu.Unlock()
			return f.now
		},
	}
	if mutate != nil {
		mutate(&cfg)
	}

	f.manager = NewManager(cfg)
	return f
}

func TestSignUp_AthleteWithoutEduEmail_RejectedBeforeNetwork(t *testing.T) {
	f := newManagerFixture(t, nil)

	_, err := f.manager.SignUp(context.Background(), "athlete@gmail.com", "password123", model.RoleAthlete)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeEduEmailRequired {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeEduEmailRequired)
	}
	if calls := f.provider.createAccountCalls.Load(); calls != 0 {
		t.Errorf("CreateAccount calls = %d, want 0 (gate must run before any network call)", calls)
	}
	if reqs := f.backend.recorded(); len(reqs) != 0 {
		t.Errorf("backend requests = %v, want none", reqs)
	}
}

func TestSignUp_EduEmailCaseInsensitive(t *testing.T) {
	f := newManagerFixture(t, nil)

	_, err := f.manager.SignUp(context.Background(), "athlete@STATE.EDU", "password123", model.RoleAthlete)
	if err != nil {
		t.Fatalf("expected success for uppercase .EDU email, got %v", err)
	}
}

func TestSignUp_InvalidRole_Rejected(t *testing.T) {
	f := newManagerFixture(t, nil)

	_, err := f.manager.SignUp(context.Background(), "user@example.com", "password123", "admin")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeInvalidRole {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeInvalidRole)
	}
}

func TestSignUp_Athlete_ProvisionsDefaultsAndSendsVerification(t *testing.T) {
	f := newManagerFixture(t, nil)

	account, err := f.manager.SignUp(context.Background(), "athlete@state.edu", "password123", model.RoleAthlete)
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if account == nil || account.UID != "uid-1" {
		t.Fatalf("account = %+v, want uid-1", account)
	}

	reqs := f.backend.recorded()
	if len(reqs) != 2 {
		t.Fatalf("backend requests = %d, want 2 (user + profile)", len(reqs))
	}
	if reqs[0].Path != "/api/users" || reqs[0].Method != http.MethodPost {
		t.Errorf("first request = %s %s, want POST /api/users", reqs[0].Method, reqs[0].Path)
	}
	if reqs[0].Body["role"] != "athlete" {
		t.Errorf("user role = %v, want athlete", reqs[0].Body["role"])
	}
	if reqs[1].Path != "/api/athletes" {
		t.Errorf("second request path = %q, want /api/athletes", reqs[1].Path)
	}
	if reqs[1].Body["visibility"] != "public" {
		t.Errorf("athlete visibility = %v, want public", reqs[1].Body["visibility"])
	}
	if reqs[1].Body["profileCompleted"] != false {
		t.Errorf("profileCompleted = %v, want false", reqs[1].Body["profileCompleted"])
	}

	if calls := f.provider.emailVerificationCalls.Load(); calls != 1 {
		t.Errorf("SendEmailVerification calls = %d, want 1", calls)
	}
	if _, set, _ := f.activity.Last(); !set {
		t.Error("expected activity marker to be touched after signup")
	}
}

func TestSignUp_Brand_OwnersDefaultsToCreator(t *testing.T) {
	f := newManagerFixture(t, nil)

	_, err := f.manager.SignUp(context.Background(), "brand@example.com", "password123", model.RoleBrand)
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	reqs := f.backend.recorded()
	if len(reqs) != 2 || reqs[1].Path != "/api/brands" {
		t.Fatalf("requests = %+v, want user + brand profile", reqs)
	}
	owners, ok := reqs[1].Body["owners"].([]any)
	if !ok || len(owners) != 1 || owners[0] != "uid-1" {
		t.Errorf("owners = %v, want [uid-1]", reqs[1].Body["owners"])
	}
	if calls := f.provider.emailVerificationCalls.Load(); calls != 0 {
		t.Errorf("SendEmailVerification calls = %d, want 0 for brand", calls)
	}
}

func TestSignUp_Director_DefaultTitle(t *testing.T) {
	f := newManagerFixture(t, nil)

	_, err := f.manager.SignUp(context.Background(), "director@university.edu", "password123", model.RoleDirector)
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	reqs := f.backend.recorded()
	if len(reqs) != 2 || reqs[1].Path != "/api/directors" {
		t.Fatalf("requests = %+v, want user + director profile", reqs)
	}
	if reqs[1].Body["title"] != "NIL Director" {
		t.Errorf("title = %v, want %q", reqs[1].Body["title"], "NIL Director")
	}
}

func TestSignUp_UserRecordFailure_SurfacesErrorKeepsAccount(t *testing.T) {
	f := newManagerFixture(t, nil)
	f.backend.failUserCreate = true

	account, err := f.manager.SignUp(context.Background(), "brand@example.com", "password123", model.RoleBrand)

	if err == nil {
		t.Fatal("expected error when user record creation fails")
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUserAlreadyExists {
		t.Errorf("error = %v, want USER_ALREADY_EXISTS", err)
	}
	if account == nil {
		t.Error("expected created account to be returned despite record failure")
	}
}

func TestSignUp_ProfileFailure_LoggedOnly(t *testing.T) {
	f := newManagerFixture(t, nil)
	f.backend.failProfileCreate = true

	account, err := f.manager.SignUp(context.Background(), "brand@example.com", "password123", model.RoleBrand)
	if err != nil {
		t.Fatalf("profile failure must not fail signup, got %v", err)
	}
	if account == nil {
		t.Fatal("expected account")
	}
}

func TestSignIn_TouchesMarkerAndSetsCurrent(t *testing.T) {
	f := newManagerFixture(t, nil)

	account, err := f.manager.SignIn(context.Background(), "user@example.com", "password123")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	if _, set, _ := f.activity.Last(); !set {
		t.Error("expected activity marker to be touched")
	}
	if current := f.manager.CurrentAccount(); current == nil || current.UID != account.UID {
		t.Errorf("CurrentAccount = %+v, want uid %q", current, account.UID)
	}
}

func TestSignIn_ProviderError_PassesThrough(t *testing.T) {
	f := newManagerFixture(t, nil)
	f.provider.signInFn = func(ctx context.Context, email, password string) (*identity.Account, error) {
		return nil, identity.NewAuthError(identity.CodeWrongPassword)
	}

	_, err := f.manager.SignIn(context.Background(), "user@example.com", "bad")

	var authErr *identity.AuthError
	if !errors.As(err, &authErr) || authErr.Code != identity.CodeWrongPassword {
		t.Errorf("error = %v, want auth/wrong-password", err)
	}
}

func TestSignOut_ConcurrentCallers_ProviderSignOutOnce(t *testing.T) {
	f := newManagerFixture(t, nil)
	f.provider.signOutFn = func(ctx context.Context) error {
		time.Sleep(20 * time.Millisecond) // 勝者の実行中に敗者を到着させる
		return nil
	}

	if _, err := f.manager.SignIn(context.Background(), "user@example.com", "password123"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f.manager.SignOut(context.Background()); err != nil {
				t.Errorf("SignOut returned error: %v", err)
			}
		}()
	}
	wg.Wait()

	if calls := f.provider.signOutCalls.Load(); calls != 1 {
		t.Errorf("provider SignOut calls = %d, want exactly 1", calls)
	}
	if f.manager.CurrentAccount() != nil {
		t.Error("expected no current account after sign-out")
	}
	if _, set, _ := f.activity.Last(); set {
		t.Error("expected activity marker cleared after sign-out")
	}
}

func TestSignOut_ClearsCache(t *testing.T) {
	f := newManagerFixture(t, nil)
	f.cache.Set("profile:uid-1", "cached")

	if err := f.manager.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	if f.cache.Len() != 0 {
		t.Errorf("cache entries = %d, want 0", f.cache.Len())
	}
}

func TestExpired(t *testing.T) {
	f := newManagerFixture(t, nil)

	// マーカー不在は期限切れと判定しない
	if f.manager.Expired() {
		t.Error("absent marker must never be expired")
	}

	f.activity.Touch(f.now)
	if f.manager.Expired() {
		t.Error("fresh marker must not be expired")
	}

	f.advance(24*time.Hour - time.Second)
	if f.manager.Expired() {
		t.Error("marker at timeout boundary must not be expired")
	}

	f.advance(2 * time.Second)
	if !f.manager.Expired() {
		t.Error("marker past timeout must be expired")
	}
}

func TestRecordActivity(t *testing.T) {
	f := newManagerFixture(t, nil)

	// 未認証の間は記録しない
	f.manager.RecordActivity("click")
	if _, set, _ := f.activity.Last(); set {
		t.Error("activity must not be recorded while unauthenticated")
	}

	if _, err := f.manager.SignIn(context.Background(), "user@example.com", "password123"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	f.activity.Clear()

	// 未定義の操作種別は無視する
	f.manager.RecordActivity("mousemove")
	if _, set, _ := f.activity.Last(); set {
		t.Error("unknown activity kind must be ignored")
	}

	f.manager.RecordActivity("keydown")
	if _, set, _ := f.activity.Last(); !set {
		t.Error("expected keydown to touch the marker")
	}
}

func TestWatcher_ForcesSignOutAfterTimeout(t *testing.T) {
	f := newManagerFixture(t, func(cfg *Config) {
		cfg.CheckInterval = 5 * time.Millisecond
	})

	if _, err := f.manager.SignIn(context.Background(), "user@example.com", "password123"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	f.manager.Start(context.Background())
	defer f.manager.Stop()

	// タイムアウト未満では発火しない
	time.Sleep(30 * time.Millisecond)
	if calls := f.provider.signOutCalls.Load(); calls != 0 {
		t.Fatalf("premature sign-out: calls = %d", calls)
	}

	f.advance(24*time.Hour + time.Minute)

	deadline := time.After(2 * time.Second)
	for f.provider.signOutCalls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("watcher did not force sign-out after timeout")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if f.manager.CurrentAccount() != nil {
		t.Error("expected no current account after forced sign-out")
	}
}

func TestAuthStateChange_UIDChange_ClearsCache(t *testing.T) {
	f := newManagerFixture(t, nil)
	f.manager.Start(context.Background())
	defer f.manager.Stop()

	f.provider.emitAuthState(&identity.Account{UID: "uid-1", Email: "a@example.com"})
	f.cache.Set("profile:uid-1", "cached")

	f.provider.emitAuthState(&identity.Account{UID: "uid-2", Email: "b@example.com"})

	if f.cache.Len() != 0 {
		t.Errorf("cache entries = %d, want 0 after uid change", f.cache.Len())
	}
	if current := f.manager.CurrentAccount(); current == nil || current.UID != "uid-2" {
		t.Errorf("CurrentAccount = %+v, want uid-2", current)
	}
}

func TestAuthStateChange_SameUID_KeepsCache(t *testing.T) {
	f := newManagerFixture(t, nil)
	f.manager.Start(context.Background())
	defer f.manager.Stop()

	f.provider.emitAuthState(&identity.Account{UID: "uid-1", Email: "a@example.com"})
	f.cache.Set("profile:uid-1", "cached")

	f.provider.emitAuthState(&identity.Account{UID: "uid-1", Email: "a@example.com"})

	if f.cache.Len() != 1 {
		t.Errorf("cache entries = %d, want 1 (same uid must keep cache)", f.cache.Len())
	}
}

func TestAuthStateChange_ExpiredMarker_RejectsRestore(t *testing.T) {
	f := newManagerFixture(t, nil)
	f.manager.Start(context.Background())
	defer f.manager.Stop()

	f.activity.Touch(f.now.Add(-25 * time.Hour))

	f.provider.emitAuthState(&identity.Account{UID: "uid-1", Email: "a@example.com"})

	if calls := f.provider.signOutCalls.Load(); calls != 1 {
		t.Errorf("provider SignOut calls = %d, want 1 (expired restore must be rejected)", calls)
	}
	if f.manager.CurrentAccount() != nil {
		t.Error("expired account must not be adopted")
	}
}

func TestAuthStateChange_Nil_ClearsStateAndMarker(t *testing.T) {
	f := newManagerFixture(t, nil)
	f.manager.Start(context.Background())
	defer f.manager.Stop()

	f.provider.emitAuthState(&identity.Account{UID: "uid-1", Email: "a@example.com"})
	f.provider.emitAuthState(nil)

	if f.manager.CurrentAccount() != nil {
		t.Error("expected no current account after nil auth state")
	}
	if _, set, _ := f.activity.Last(); set {
		t.Error("expected activity marker cleared after nil auth state")
	}
}

func TestRedirectAfterLogin(t *testing.T) {
	f := newManagerFixture(t, nil)

	verified := &identity.Account{UID: "uid-1", EmailVerified: true}
	unverified := &identity.Account{UID: "uid-1", EmailVerified: false}

	tests := []struct {
		name    string
		account *identity.Account
		role    model.Role
		next    string
		want    string
	}{
		{"allowed next honored", verified, model.RoleAthlete, "/athlete/deals", "/athlete/deals"},
		{"foreign next falls back to home", verified, model.RoleAthlete, "/brand/home", "/athlete/home"},
		{"empty next falls back to home", verified, model.RoleBrand, "", "/brand/home"},
		{"director home", verified, model.RoleDirector, "", "/director/athletes"},
		{"unverified athlete routed to verify-email", unverified, model.RoleAthlete, "/athlete/deals", "/athlete/verify-email"},
		{"unverified brand not gated", unverified, model.RoleBrand, "", "/brand/home"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.manager.RedirectAfterLogin(tt.account, tt.role, tt.next)
			if got != tt.want {
				t.Errorf("RedirectAfterLogin = %q, want %q", got, tt.want)
			}
		})
	}
}
