// Package endpoints はリソース種別ごとの型付きAPIモジュールを提供する。
// 各モジュールはゲートウェイクライアントを保持し、パス構築とペイロードの
// 型付けのみを担う。エラー正規化はゲートウェイ側の責務。
package endpoints

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hitoshi/dapup/internal/apiclient"
	"github.com/hitoshi/dapup/internal/model"
)

// Users はユーザーレコードのエンドポイントモジュール。
type Users struct {
	client *apiclient.Client
}

// NewUsers はUsersの新しいインスタンスを生成する。
func NewUsers(client *apiclient.Client) *Users {
	return &Users{client: client}
}

// Me は認証トークンに紐づく自分のユーザーレコードを取得する。
func (u *Users) Me(ctx context.Context) apiclient.Response[model.User] {
	return apiclient.Get[model.User](ctx, u.client, "/api/auth/me")
}

// Create はユーザーレコードを作成する。
// 同一UIDのレコードが既に存在する場合はUSER_ALREADY_EXISTSが返る。
func (u *Users) Create(ctx context.Context, input model.CreateUserInput) apiclient.Response[model.User] {
	return apiclient.Post[model.User](ctx, u.client, "/api/users", input)
}

// Get は指定UIDのユーザーレコードを取得する。
func (u *Users) Get(ctx context.Context, uid string) apiclient.Response[model.User] {
	return apiclient.Get[model.User](ctx, u.client, fmt.Sprintf("/api/users/%s", url.PathEscape(uid)))
}

// Update は指定UIDのユーザーレコードを部分更新する。
// roleフィールドはサーバー側で無視される。
func (u *Users) Update(ctx context.Context, uid string, input model.UpdateUserInput) apiclient.Response[model.User] {
	return apiclient.Patch[model.User](ctx, u.client, fmt.Sprintf("/api/users/%s", url.PathEscape(uid)), input)
}

// List はユーザーレコードの一覧を取得する。
func (u *Users) List(ctx context.Context) apiclient.Response[[]model.User] {
	return apiclient.Get[[]model.User](ctx, u.client, "/api/users")
}

// Delete は指定UIDのユーザーレコードを削除する。
func (u *Users) Delete(ctx context.Context, uid string) apiclient.Response[struct{}] {
	return apiclient.Delete[struct{}](ctx, u.client, fmt.Sprintf("/api/users/%s", url.PathEscape(uid)))
}
