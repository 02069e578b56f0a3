package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/dapup/internal/model"
	"github.com/hitoshi/dapup/internal/repository"
)

// UserHandler はユーザーレコード管理のHTTPハンドラー。
type UserHandler struct {
	users repository.UserRepository
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(users repository.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// Create はユーザーレコードを作成する。
// POST /api/users
//
// identityごとにレコードは1件だけ存在できる。重複作成は409を返す。
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var input model.CreateUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeInvalidBody(w)
		return
	}

	if input.UID == "" || input.Email == "" {
		writeError(w, http.StatusBadRequest, model.NewValidationError("uidとemailは必須です"))
		return
	}
	if !input.Role.IsValid() {
		writeError(w, http.StatusBadRequest, model.NewInvalidRoleError(string(input.Role)))
		return
	}
	// 自分自身のレコードのみ作成できる
	if input.UID != userID {
		writeError(w, http.StatusForbidden, model.NewForbiddenError())
		return
	}

	existing, err := h.users.FindByUID(r.Context(), input.UID)
	if err != nil {
		writeRepositoryError(w, "users.create", err)
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, model.NewUserAlreadyExistsError(input.UID))
		return
	}

	user := &model.User{
		UID:        input.UID,
		Role:       input.Role,
		Email:      input.Email,
		EmailLower: strings.ToLower(input.Email),
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		writeRepositoryError(w, "users.create", err)
		return
	}

	writeData(w, http.StatusCreated, user)
}

// Get はユーザーレコードを取得する。
// GET /api/users/{uid}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	uid := chi.URLParam(r, "uid")

	user, err := h.users.FindByUID(r.Context(), uid)
	if err != nil {
		writeRepositoryError(w, "users.get", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, model.NewUserNotFoundError(uid))
		return
	}

	writeData(w, http.StatusOK, user)
}

// Update はユーザーレコードを更新する。
// PATCH /api/users/{uid}
//
// roleはイミュータブルであり、リクエストに含まれても無視される。
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	uid := chi.URLParam(r, "uid")

	// 自分自身のレコードのみ更新できる
	if uid != userID {
		writeError(w, http.StatusForbidden, model.NewForbiddenError())
		return
	}

	var input model.UpdateUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeInvalidBody(w)
		return
	}

	if input.Email == "" {
		// 更新対象のフィールドがない場合は現状を返す
		user, err := h.users.FindByUID(r.Context(), uid)
		if err != nil {
			writeRepositoryError(w, "users.update", err)
			return
		}
		if user == nil {
			writeError(w, http.StatusNotFound, model.NewUserNotFoundError(uid))
			return
		}
		writeData(w, http.StatusOK, user)
		return
	}

	user, err := h.users.UpdateEmail(r.Context(), uid, input.Email)
	if err != nil {
		writeRepositoryError(w, "users.update", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, model.NewUserNotFoundError(uid))
		return
	}

	writeData(w, http.StatusOK, user)
}

// Delete はユーザーレコードを削除する。
// DELETE /api/users/{uid}
//
// 関連するプロファイル、応募、契約はCASCADE削除される。
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	uid := chi.URLParam(r, "uid")

	if uid != userID {
		writeError(w, http.StatusForbidden, model.NewForbiddenError())
		return
	}

	existing, err := h.users.FindByUID(r.Context(), uid)
	if err != nil {
		writeRepositoryError(w, "users.delete", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, model.NewUserNotFoundError(uid))
		return
	}

	if err := h.users.DeleteByUID(r.Context(), uid); err != nil {
		writeRepositoryError(w, "users.delete", err)
		return
	}

	writeMessage(w, http.StatusOK, "ユーザーを削除しました。")
}

// List は全ユーザーの一覧を返す。
// GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	users, err := h.users.List(r.Context())
	if err != nil {
		writeRepositoryError(w, "users.list", err)
		return
	}
	if users == nil {
		users = []*model.User{}
	}

	writeData(w, http.StatusOK, users)
}
