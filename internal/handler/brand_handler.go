package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/dapup/internal/model"
	"github.com/hitoshi/dapup/internal/repository"
)

// BrandHandler はブランドプロファイルのHTTPハンドラー。
type BrandHandler struct {
	brands    repository.BrandRepository
	campaigns repository.CampaignRepository
}

// NewBrandHandler はBrandHandlerを生成する。
func NewBrandHandler(brands repository.BrandRepository, campaigns repository.CampaignRepository) *BrandHandler {
	return &BrandHandler{brands: brands, campaigns: campaigns}
}

// Create はブランドプロファイルを作成する。
// POST /api/brands
func (h *BrandHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var input model.CreateBrandInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeInvalidBody(w)
		return
	}
	if input.UID == "" {
		input.UID = userID
	}
	if input.UID != userID {
		writeError(w, http.StatusForbidden, model.NewForbiddenError())
		return
	}

	owners := input.Owners
	if len(owners) == 0 {
		owners = []string{input.UID}
	}

	profile := &model.BrandProfile{
		UID:        input.UID,
		Name:       input.Name,
		LogoURL:    input.LogoURL,
		Owners:     owners,
		Email:      input.Email,
		EmailLower: strings.ToLower(input.Email),
	}
	if err := h.brands.Create(r.Context(), profile); err != nil {
		writeRepositoryError(w, "brands.create", err)
		return
	}

	writeData(w, http.StatusCreated, profile)
}

// Get はブランドプロファイルを取得する。
// GET /api/brands/{uid}
func (h *BrandHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	uid := chi.URLParam(r, "uid")

	profile, err := h.brands.FindByUID(r.Context(), uid)
	if err != nil {
		writeRepositoryError(w, "brands.get", err)
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, model.NewProfileNotFoundError(uid))
		return
	}

	writeData(w, http.StatusOK, profile)
}

// Update はブランドプロファイルを部分更新する。
// PATCH /api/brands/{uid}
func (h *BrandHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	uid := chi.URLParam(r, "uid")

	if uid != userID {
		writeError(w, http.StatusForbidden, model.NewForbiddenError())
		return
	}

	var input model.UpdateBrandInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeInvalidBody(w)
		return
	}

	profile, err := h.brands.Update(r.Context(), uid, &input)
	if err != nil {
		writeRepositoryError(w, "brands.update", err)
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, model.NewProfileNotFoundError(uid))
		return
	}

	writeData(w, http.StatusOK, profile)
}

// List は全ブランドプロファイルの一覧を返す。
// GET /api/brands
func (h *BrandHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	profiles, err := h.brands.List(r.Context())
	if err != nil {
		writeRepositoryError(w, "brands.list", err)
		return
	}
	if profiles == nil {
		profiles = []*model.BrandProfile{}
	}

	writeData(w, http.StatusOK, profiles)
}

// Campaigns はブランドが作成したキャンペーン一覧を返す。
// GET /api/brands/{uid}/campaigns
func (h *BrandHandler) Campaigns(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	uid := chi.URLParam(r, "uid")

	campaigns, err := h.campaigns.ListByCreator(r.Context(), uid)
	if err != nil {
		writeRepositoryError(w, "brands.campaigns", err)
		return
	}
	if campaigns == nil {
		campaigns = []*model.Campaign{}
	}

	writeData(w, http.StatusOK, campaigns)
}
