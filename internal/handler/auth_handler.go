package handler

import (
	"net/http"

	"github.com/hitoshi/dapup/internal/model"
	"github.com/hitoshi/dapup/internal/repository"
)

// AuthHandler は認証済みユーザー自身の情報を提供するHTTPハンドラー。
type AuthHandler struct {
	users repository.UserRepository
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(users repository.UserRepository) *AuthHandler {
	return &AuthHandler{users: users}
}

// Me はbearerトークンに紐づくユーザーレコードを返す。
// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	user, err := h.users.FindByUID(r.Context(), userID)
	if err != nil {
		writeRepositoryError(w, "auth.me", err)
		return
	}
	if user == nil {
		// トークンは有効だがユーザーレコードが未作成（プロビジョニング未完了）
		writeError(w, http.StatusNotFound, model.NewUserNotFoundError(userID))
		return
	}

	writeData(w, http.StatusOK, user)
}
