package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/dapup/internal/model"
	"github.com/hitoshi/dapup/internal/repository"
)

// DirectorHandler はディレクタープロファイルのHTTPハンドラー。
type DirectorHandler struct {
	directors repository.DirectorRepository
}

// NewDirectorHandler はDirectorHandlerを生成する。
func NewDirectorHandler(directors repository.DirectorRepository) *DirectorHandler {
	return &DirectorHandler{directors: directors}
}

// Create はディレクタープロファイルを作成する。
// POST /api/directors
func (h *DirectorHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var input model.CreateDirectorInput
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

	profile := &model.DirectorProfile{
		UID:        input.UID,
		Title:      input.Title,
		Email:      input.Email,
		EmailLower: strings.ToLower(input.Email),
	}
	if err := h.directors.Create(r.Context(), profile); err != nil {
		writeRepositoryError(w, "directors.create", err)
		return
	}

	writeData(w, http.StatusCreated, profile)
}

// Get はディレクタープロファイルを取得する。
// GET /api/directors/{uid}
func (h *DirectorHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	uid := chi.URLParam(r, "uid")

	profile, err := h.directors.FindByUID(r.Context(), uid)
	if err != nil {
		writeRepositoryError(w, "directors.get", err)
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, model.NewProfileNotFoundError(uid))
		return
	}

	writeData(w, http.StatusOK, profile)
}

// Update はディレクタープロファイルを部分更新する。
// PATCH /api/directors/{uid}
func (h *DirectorHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	uid := chi.URLParam(r, "uid")

	if uid != userID {
		writeError(w, http.StatusForbidden, model.NewForbiddenError())
		return
	}

	var input model.UpdateDirectorInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeInvalidBody(w)
		return
	}

	profile, err := h.directors.Update(r.Context(), uid, &input)
	if err != nil {
		writeRepositoryError(w, "directors.update", err)
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, model.NewProfileNotFoundError(uid))
		return
	}

	writeData(w, http.StatusOK, profile)
}

// List は全ディレクタープロファイルの一覧を返す。
// GET /api/directors
func (h *DirectorHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	profiles, err := h.directors.List(r.Context())
	if err != nil {
		writeRepositoryError(w, "directors.list", err)
		return
	}
	if profiles == nil {
		profiles = []*model.DirectorProfile{}
	}

	writeData(w, http.StatusOK, profiles)
}
