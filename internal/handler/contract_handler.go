package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/dapup/internal/model"
	"github.com/hitoshi/dapup/internal/repository"
)

// ContractHandler はキャンペーン応募に紐づく契約書のHTTPハンドラー。
type ContractHandler struct {
	contracts    repository.ContractRepository
	applications repository.ApplicationRepository
	campaigns    repository.CampaignRepository
}

// NewContractHandler はContractHandlerを生成する。
func NewContractHandler(
	contracts repository.ContractRepository,
	applications repository.ApplicationRepository,
	campaigns repository.CampaignRepository,
) *ContractHandler {
	return &ContractHandler{
		contracts:    contracts,
		applications: applications,
		campaigns:    campaigns,
	}
}

// requireCreator はキャンペーン作成者であることを検証する。
// キャンペーンが存在しない場合は404、作成者でない場合は403を書き込む。
func (h *ContractHandler) requireCreator(w http.ResponseWriter, r *http.Request, campaignID, userID string) bool {
	campaign, err := h.campaigns.FindByID(r.Context(), campaignID)
	if err != nil {
		writeRepositoryError(w, "contracts.campaign", err)
		return false
	}
	if campaign == nil {
		writeError(w, http.StatusNotFound, model.NewCampaignNotFoundError(campaignID))
		return false
	}
	if campaign.CreatedBy != userID {
		writeError(w, http.StatusForbidden, model.NewForbiddenError())
		return false
	}
	return true
}

// Get は応募に紐づく契約書を取得する。
// GET /api/campaigns/{campaignId}/applications/{athleteId}/contract
func (h *ContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	campaignID := chi.URLParam(r, "campaignId")
	athleteID := chi.URLParam(r, "athleteId")

	contract, err := h.contracts.FindByApplication(r.Context(), campaignID, athleteID)
	if err != nil {
		writeRepositoryError(w, "contracts.get", err)
		return
	}
	if contract == nil {
		writeError(w, http.StatusNotFound, model.NewContractNotFoundError(campaignID, athleteID))
		return
	}

	writeData(w, http.StatusOK, contract)
}

// Create は応募に対する契約書ドラフトを作成する。
// POST /api/campaigns/{campaignId}/applications/{athleteId}/contract
//
// 作成できるのはキャンペーン作成者のみ。対象の応募が存在しない場合は404を返す。
func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	campaignID := chi.URLParam(r, "campaignId")
	athleteID := chi.URLParam(r, "athleteId")

	if !h.requireCreator(w, r, campaignID, userID) {
		return
	}

	app, err := h.applications.FindByCampaignAndAthlete(r.Context(), campaignID, athleteID)
	if err != nil {
		writeRepositoryError(w, "contracts.create", err)
		return
	}
	if app == nil {
		writeError(w, http.StatusNotFound, model.NewApplicationNotFoundError(campaignID, athleteID))
		return
	}

	var input model.CreateContractInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeInvalidBody(w)
		return
	}

	contract := &model.Contract{
		CampaignID:        campaignID,
		AthleteID:         athleteID,
		BrandID:           userID,
		Status:            model.ContractStatusDraft,
		BrandName:         input.BrandName,
		AthleteName:       input.AthleteName,
		EffectiveDate:     input.EffectiveDate,
		ExpirationDate:    input.ExpirationDate,
		Exclusivity:       input.Exclusivity,
		Deliverables:      input.Deliverables,
		TotalCompensation: input.TotalCompensation,
		PaymentSchedule:   input.PaymentSchedule,
		PaymentMethod:     input.PaymentMethod,
		UsageRights:       input.UsageRights,
		UsageDuration:     input.UsageDuration,
	}
	if err := h.contracts.Create(r.Context(), contract); err != nil {
		writeRepositoryError(w, "contracts.create", err)
		return
	}

	writeData(w, http.StatusCreated, contract)
}

// Update は契約書を部分更新する。
// PATCH /api/campaigns/{campaignId}/applications/{athleteId}/contract
//
// 更新できるのはキャンペーン作成者またはアスリート本人（カウンター・署名）のみ。
func (h *ContractHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	campaignID := chi.URLParam(r, "campaignId")
	athleteID := chi.URLParam(r, "athleteId")

	campaign, err := h.campaigns.FindByID(r.Context(), campaignID)
	if err != nil {
		writeRepositoryError(w, "contracts.update", err)
		return
	}
	if campaign == nil {
		writeError(w, http.StatusNotFound, model.NewCampaignNotFoundError(campaignID))
		return
	}
	if userID != campaign.CreatedBy && userID != athleteID {
		writeError(w, http.StatusForbidden, model.NewForbiddenError())
		return
	}

	var input model.UpdateContractInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeInvalidBody(w)
		return
	}

	contract, err := h.contracts.Update(r.Context(), campaignID, athleteID, &input)
	if err != nil {
		writeRepositoryError(w, "contracts.update", err)
		return
	}
	if contract == nil {
		writeError(w, http.StatusNotFound, model.NewContractNotFoundError(campaignID, athleteID))
		return
	}

	writeData(w, http.StatusOK, contract)
}

// Send は契約書をアスリートへ送付する。
// POST /api/campaigns/{campaignId}/applications/{athleteId}/contract/send
//
// ステータスをsent_to_athleteへ遷移させ、送付時刻を記録する。
func (h *ContractHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	campaignID := chi.URLParam(r, "campaignId")
	athleteID := chi.URLParam(r, "athleteId")

	if !h.requireCreator(w, r, campaignID, userID) {
		return
	}

	contract, err := h.contracts.MarkSent(r.Context(), campaignID, athleteID, time.Now())
	if err != nil {
		writeRepositoryError(w, "contracts.send", err)
		return
	}
	if contract == nil {
		writeError(w, http.StatusNotFound, model.NewContractNotFoundError(campaignID, athleteID))
		return
	}

	writeData(w, http.StatusOK, contract)
}
