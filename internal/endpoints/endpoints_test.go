package endpoints

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/dapup/internal/apiclient"
	"github.com/hitoshi/dapup/internal/model"
)

// recordingServer は受信したメソッドとパスを記録し、固定の成功応答を返す。
type recordingServer struct {
	server *httptest.Server
	method string
	path   string
	query  string
	data   any
}

func newRecordingServer(t *testing.T, data any) *recordingServer {
	t.Helper()
	rs := &recordingServer{data: data}
	rs.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.method = r.Method
		rs.path = r.URL.Path
		rs.query = r.URL.RawQuery
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": rs.data})
	}))
	t.Cleanup(rs.server.Close)
	return rs
}

func (rs *recordingServer) client() *apiclient.Client {
	return apiclient.NewClient(apiclient.ClientConfig{
		BaseURL: rs.server.URL,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func (rs *recordingServer) assertCalled(t *testing.T, method, path string) {
	t.Helper()
	if rs.method != method {
		t.Errorf("method = %q, want %q", rs.method, method)
	}
	if rs.path != path {
		t.Errorf("path = %q, want %q", rs.path, path)
	}
}

func TestUsers_Me(t *testing.T) {
	rs := newRecordingServer(t, model.User{UID: "user-1", Role: model.RoleBrand})
	users := NewUsers(rs.client())

	resp := users.Me(context.Background())

	if !resp.Success {
		t.Fatalf("expected success, got error %v", resp.Error)
	}
	rs.assertCalled(t, http.MethodGet, "/api/auth/me")
	if resp.Data.UID != "user-1" {
		t.Errorf("UID = %q, want %q", resp.Data.UID, "user-1")
	}
}

func TestUsers_Create(t *testing.T) {
	rs := newRecordingServer(t, model.User{UID: "user-1"})
	users := NewUsers(rs.client())

	resp := users.Create(context.Background(), model.CreateUserInput{
		UID: "user-1", Email: "a@example.edu", Role: model.RoleAthlete,
	})

	if !resp.Success {
		t.Fatalf("expected success, got error %v", resp.Error)
	}
	rs.assertCalled(t, http.MethodPost, "/api/users")
}

func TestUsers_Update(t *testing.T) {
	rs := newRecordingServer(t, model.User{UID: "user-1"})
	users := NewUsers(rs.client())

	resp := users.Update(context.Background(), "user-1", model.UpdateUserInput{Email: "b@example.com"})

	if !resp.Success {
		t.Fatalf("expected success, got error %v", resp.Error)
	}
	rs.assertCalled(t, http.MethodPatch, "/api/users/user-1")
}

func TestAthletes_Deals(t *testing.T) {
	rs := newRecordingServer(t, []model.EnrichedDeal{
		{Campaign: model.Campaign{ID: "camp-1"}, Application: model.Application{CampaignID: "camp-1", AthleteID: "ath-1"}},
	})
	athletes := NewAthletes(rs.client())

	resp := athletes.Deals(context.Background(), "ath-1")

	if !resp.Success {
		t.Fatalf("expected success, got error %v", resp.Error)
	}
	rs.assertCalled(t, http.MethodGet, "/api/athletes/ath-1/deals")
	if len(*resp.Data) != 1 {
		t.Fatalf("deals length = %d, want 1", len(*resp.Data))
	}
	if (*resp.Data)[0].Campaign.ID != "camp-1" {
		t.Errorf("campaign ID = %q, want %q", (*resp.Data)[0].Campaign.ID, "camp-1")
	}
}

func TestApplications_ListByCampaignWithProfiles(t *testing.T) {
	rs := newRecordingServer(t, []model.ApplicationWithProfile{
		{
			Application: model.Application{CampaignID: "camp-1", AthleteID: "ath-1", Status: model.ApplicationStatusPending},
			Profile:     &model.ApplicationProfile{DisplayName: "Jordan"},
		},
	})
	apps := NewApplications(rs.client())

	resp := apps.ListByCampaignWithProfiles(context.Background(), "camp-1")

	if !resp.Success {
		t.Fatalf("expected success, got error %v", resp.Error)
	}
	rs.assertCalled(t, http.MethodGet, "/api/campaigns/camp-1/applications")
	if rs.query != "include=profiles" {
		t.Errorf("query = %q, want %q", rs.query, "include=profiles")
	}
	if (*resp.Data)[0].Profile == nil || (*resp.Data)[0].Profile.DisplayName != "Jordan" {
		t.Errorf("profile not joined: %+v", (*resp.Data)[0].Profile)
	}
}

func TestApplications_Lifecycle_Paths(t *testing.T) {
	tests := []struct {
		name       string
		call       func(*Applications) bool
		wantMethod string
		wantPath   string
	}{
		{
			name: "Create",
			call: func(a *Applications) bool {
				return a.Create(context.Background(), "camp-1", model.CreateApplicationInput{AthleteID: "ath-1"}).Success
			},
			wantMethod: http.MethodPost,
			wantPath:   "/api/campaigns/camp-1/applications",
		},
		{
			name: "Submit",
			call: func(a *Applications) bool {
				return a.Submit(context.Background(), "camp-1", "ath-1").Success
			},
			wantMethod: http.MethodPost,
			wantPath:   "/api/campaigns/camp-1/applications/ath-1/submit",
		},
		{
			name: "Accept",
			call: func(a *Applications) bool {
				return a.Accept(context.Background(), "camp-1", "ath-1").Success
			},
			wantMethod: http.MethodPost,
			wantPath:   "/api/campaigns/camp-1/applications/ath-1/accept",
		},
		{
			name: "Decline",
			call: func(a *Applications) bool {
				return a.Decline(context.Background(), "camp-1", "ath-1").Success
			},
			wantMethod: http.MethodPost,
			wantPath:   "/api/campaigns/camp-1/applications/ath-1/decline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := newRecordingServer(t, model.Application{CampaignID: "camp-1", AthleteID: "ath-1"})
			apps := NewApplications(rs.client())

			if ok := tt.call(apps); !ok {
				t.Fatal("expected success")
			}
			rs.assertCalled(t, tt.wantMethod, tt.wantPath)
		})
	}
}

func TestContracts_Paths(t *testing.T) {
	rs := newRecordingServer(t, model.Contract{CampaignID: "camp-1", AthleteID: "ath-1", Status: model.ContractStatusDraft})
	contracts := NewContracts(rs.client())

	resp := contracts.Get(context.Background(), "camp-1", "ath-1")
	if !resp.Success {
		t.Fatalf("expected success, got error %v", resp.Error)
	}
	rs.assertCalled(t, http.MethodGet, "/api/campaigns/camp-1/applications/ath-1/contract")

	sendResp := contracts.Send(context.Background(), "camp-1", "ath-1")
	if !sendResp.Success {
		t.Fatalf("expected success, got error %v", sendResp.Error)
	}
	rs.assertCalled(t, http.MethodPost, "/api/campaigns/camp-1/applications/ath-1/contract/send")
}
