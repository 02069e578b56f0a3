package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/dapup/internal/model"
	"github.com/hitoshi/dapup/internal/repository"
)

// ApplicationHandler はキャンペーン応募のHTTPハンドラー。
type ApplicationHandler struct {
	applications repository.ApplicationRepository
	campaigns    repository.CampaignRepository
}

// NewApplicationHandler はApplicationHandlerを生成する。
func NewApplicationHandler(
	applications repository.ApplicationRepository,
	campaigns repository.CampaignRepository,
) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, campaigns: campaigns}
}

// findCampaign はキャンペーンを取得し、存在しない場合は404を書き込む。
func (h *ApplicationHandler) findCampaign(w http.ResponseWriter, r *http.Request, campaignID string) (*model.Campaign, bool) {
	campaign, err := h.campaigns.FindByID(r.Context(), campaignID)
	if err != nil {
		writeRepositoryError(w, "applications.campaign", err)
		return nil, false
	}
	if campaign == nil {
		writeError(w, http.StatusNotFound, model.NewCampaignNotFoundError(campaignID))
		return nil, false
	}
	return campaign, true
}

// List はキャンペーンの応募一覧を返す。
// GET /api/campaigns/{campaignId}/applications
//
// ?include=profiles を指定するとアスリートプロファイルの要約を
// サーバー側で結合した形で返す。
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	campaignID := chi.URLParam(r, "campaignId")

	if _, ok := h.findCampaign(w, r, campaignID); !ok {
		return
	}

	if r.URL.Query().Get("include") == "profiles" {
		apps, err := h.applications.ListByCampaignWithProfiles(r.Context(), campaignID)
		if err != nil {
			writeRepositoryError(w, "applications.list", err)
			return
		}
		if apps == nil {
			apps = []model.ApplicationWithProfile{}
		}
		writeData(w, http.StatusOK, apps)
		return
	}

	apps, err := h.applications.ListByCampaign(r.Context(), campaignID)
	if err != nil {
		writeRepositoryError(w, "applications.list", err)
		return
	}
	if apps == nil {
		apps = []*model.Application{}
	}

	writeData(w, http.StatusOK, apps)
}

// Get はキャンペーンへの応募を1件取得する。
// GET /api/campaigns/{campaignId}/applications/{athleteId}
func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	campaignID := chi.URLParam(r, "campaignId")
	athleteID := chi.URLParam(r, "athleteId")

	app, err := h.applications.FindByCampaignAndAthlete(r.Context(), campaignID, athleteID)
	if err != nil {
		writeRepositoryError(w, "applications.get", err)
		return
	}
	if app == nil {
		writeError(w, http.StatusNotFound, model.NewApplicationNotFoundError(campaignID, athleteID))
		return
	}

	writeData(w, http.StatusOK, app)
}

// Create はキャンペーンへの応募を作成する。
// POST /api/campaigns/{campaignId}/applications
//
// (campaignId, athleteId)の組で一意。重複応募は409を返す。
func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	campaignID := chi.URLParam(r, "campaignId")

	var input model.CreateApplicationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeInvalidBody(w)
		return
	}
	if input.AthleteID == "" {
		input.AthleteID = userID
	}
	// 応募できるのは本人のみ
	if input.AthleteID != userID {
		writeError(w, http.StatusForbidden, model.NewForbiddenError())
		return
	}

	if _, ok := h.findCampaign(w, r, campaignID); !ok {
		return
	}

	existing, err := h.applications.FindByCampaignAndAthlete(r.Context(), campaignID, input.AthleteID)
	if err != nil {
		writeRepositoryError(w, "applications.create", err)
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, model.NewApplicationAlreadyExistsError(campaignID))
		return
	}

	app := &model.Application{
		CampaignID: campaignID,
		AthleteID:  input.AthleteID,
		Status:     model.ApplicationStatusPending,
	}
	if err := h.applications.Create(r.Context(), app); err != nil {
		writeRepositoryError(w, "applications.create", err)
		return
	}

	writeData(w, http.StatusCreated, app)
}

// Update は応募を部分更新する。
// PATCH /api/campaigns/{campaignId}/applications/{athleteId}
//
// 更新できるのは応募者本人またはキャンペーン作成者のみ。
func (h *ApplicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	campaignID := chi.URLParam(r, "campaignId")
	athleteID := chi.URLParam(r, "athleteId")

	campaign, ok := h.findCampaign(w, r, campaignID)
	if !ok {
		return
	}
	if userID != athleteID && userID != campaign.CreatedBy {
		writeError(w, http.StatusForbidden, model.NewForbiddenError())
		return
	}

	var input model.UpdateApplicationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeInvalidBody(w)
		return
	}

	app, err := h.applications.Update(r.Context(), campaignID, athleteID, &input)
	if err != nil {
		writeRepositoryError(w, "applications.update", err)
		return
	}
	if app == nil {
		writeError(w, http.StatusNotFound, model.NewApplicationNotFoundError(campaignID, athleteID))
		return
	}

	writeData(w, http.StatusOK, app)
}

// Submit はアスリートが成果物を提出済みにする。
// POST /api/campaigns/{campaignId}/applications/{athleteId}/submit
func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	campaignID := chi.URLParam(r, "campaignId")
	athleteID := chi.URLParam(r, "athleteId")

	// 提出できるのは応募者本人のみ
	if userID != athleteID {
		writeError(w, http.StatusForbidden, model.NewForbiddenError())
		return
	}

	submitted := true
	app, err := h.applications.Update(r.Context(), campaignID, athleteID, &model.UpdateApplicationInput{
		AthleteSubmitted: &submitted,
	})
	if err != nil {
		writeRepositoryError(w, "applications.submit", err)
		return
	}
	if app == nil {
		writeError(w, http.StatusNotFound, model.NewApplicationNotFoundError(campaignID, athleteID))
		return
	}

	writeData(w, http.StatusOK, app)
}

// Accept はキャンペーン作成者が応募を承諾する。
// POST /api/campaigns/{campaignId}/applications/{athleteId}/accept
func (h *ApplicationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, model.ApplicationStatusAccepted)
}

// Decline はキャンペーン作成者が応募を辞退させる。
// POST /api/campaigns/{campaignId}/applications/{athleteId}/decline
func (h *ApplicationHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, model.ApplicationStatusDeclined)
}

// decide はキャンペーン作成者による応募の承諾/辞退を処理する。
func (h *ApplicationHandler) decide(w http.ResponseWriter, r *http.Request, status model.ApplicationStatus) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	campaignID := chi.URLParam(r, "campaignId")
	athleteID := chi.URLParam(r, "athleteId")

	campaign, ok := h.findCampaign(w, r, campaignID)
	if !ok {
		return
	}
	// 承諾/辞退できるのはキャンペーン作成者のみ
	if userID != campaign.CreatedBy {
		writeError(w, http.StatusForbidden, model.NewForbiddenError())
		return
	}

	input := &model.UpdateApplicationInput{Status: &status}
	if status == model.ApplicationStatusAccepted {
		accepted := true
		input.BrandAccepted = &accepted
	}

	app, err := h.applications.Update(r.Context(), campaignID, athleteID, input)
	if err != nil {
		writeRepositoryError(w, "applications.decide", err)
		return
	}
	if app == nil {
		writeError(w, http.StatusNotFound, model.NewApplicationNotFoundError(campaignID, athleteID))
		return
	}

	writeData(w, http.StatusOK, app)
}
