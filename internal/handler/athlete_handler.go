package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/dapup/internal/model"
	"github.com/hitoshi/dapup/internal/repository"
)

// AthleteHandler はアスリートプロファイルと関連BFF読み取りのHTTPハンドラー。
type AthleteHandler struct {
	athletes     repository.AthleteRepository
	applications repository.ApplicationRepository
	deals        repository.DealRepository
}

// NewAthleteHandler はAthleteHandlerを生成する。
func NewAthleteHandler(
	athletes repository.AthleteRepository,
	applications repository.ApplicationRepository,
	deals repository.DealRepository,
) *AthleteHandler {
	return &AthleteHandler{
		athletes:     athletes,
		applications: applications,
		deals:        deals,
	}
}

// Create はアスリートプロファイルを作成する。
// POST /api/athletes
func (h *AthleteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var input model.CreateAthleteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeInvalidBody(w)
		return
	}
	if input.UID == "" {
		input.UID = userID
	}
	// 自分自身のプロファイルのみ作成できる
	if input.UID != userID {
		writeError(w, http.StatusForbidden, model.NewForbiddenError())
		return
	}

	profile := &model.AthleteProfile{
		UID:              input.UID,
		Email:            input.Email,
		EmailLower:       strings.ToLower(input.Email),
		DisplayName:      input.DisplayName,
		School:           input.School,
		PhotoURL:         input.PhotoURL,
		Visibility:       input.Visibility,
		ProfileCompleted: input.ProfileCompleted,
	}
	if err := h.athletes.Create(r.Context(), profile); err != nil {
		writeRepositoryError(w, "athletes.create", err)
		return
	}

	writeData(w, http.StatusCreated, profile)
}

// Get はアスリートプロファイルを取得する。
// GET /api/athletes/{uid}
func (h *AthleteHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	uid := chi.URLParam(r, "uid")

	profile, err := h.athletes.FindByUID(r.Context(), uid)
	if err != nil {
		writeRepositoryError(w, "athletes.get", err)
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, model.NewProfileNotFoundError(uid))
		return
	}

	writeData(w, http.StatusOK, profile)
}

// Update はアスリートプロファイルを部分更新する。
// PATCH /api/athletes/{uid}
func (h *AthleteHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	uid := chi.URLParam(r, "uid")

	// 自分自身のプロファイルのみ更新できる
	if uid != userID {
		writeError(w, http.StatusForbidden, model.NewForbiddenError())
		return
	}

	var input model.UpdateAthleteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeInvalidBody(w)
		return
	}

	profile, err := h.athletes.Update(r.Context(), uid, &input)
	if err != nil {
		writeRepositoryError(w, "athletes.update", err)
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, model.NewProfileNotFoundError(uid))
		return
	}

	writeData(w, http.StatusOK, profile)
}

// List は全アスリートプロファイルの一覧を返す。
// GET /api/athletes
func (h *AthleteHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	profiles, err := h.athletes.List(r.Context())
	if err != nil {
		writeRepositoryError(w, "athletes.list", err)
		return
	}
	if profiles == nil {
		profiles = []*model.AthleteProfile{}
	}

	writeData(w, http.StatusOK, profiles)
}

// Applications はアスリートの応募一覧を新しい順で返す。
// GET /api/athletes/{uid}/applications
func (h *AthleteHandler) Applications(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	uid := chi.URLParam(r, "uid")

	// 自分自身の応募のみ参照できる
	if uid != userID {
		writeError(w, http.StatusForbidden, model.NewForbiddenError())
		return
	}

	apps, err := h.applications.ListByAthlete(r.Context(), uid)
	if err != nil {
		writeRepositoryError(w, "athletes.applications", err)
		return
	}
	if apps == nil {
		apps = []*model.Application{}
	}

	writeData(w, http.StatusOK, apps)
}

// Deals はアスリートの成約済みディール一覧を返す。
// GET /api/athletes/{uid}/deals
//
// キャンペーン・契約・成果物ステータスをサーバー側で結合済みのため、
// クライアントはディールごとの追加取得を行わない。
func (h *AthleteHandler) Deals(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	uid := chi.URLParam(r, "uid")

	if uid != userID {
		writeError(w, http.StatusForbidden, model.NewForbiddenError())
		return
	}

	deals, err := h.deals.ListEnrichedByAthlete(r.Context(), uid)
	if err != nil {
		writeRepositoryError(w, "athletes.deals", err)
		return
	}
	if deals == nil {
		deals = []model.EnrichedDeal{}
	}

	writeData(w, http.StatusOK, deals)
}
