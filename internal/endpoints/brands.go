package endpoints

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hitoshi/dapup/internal/apiclient"
	"github.com/hitoshi/dapup/internal/model"
)

// Brands はブランドプロファイルのエンドポイントモジュール。
type Brands struct {
	client *apiclient.Client
}

// NewBrands はBrandsの新しいインスタンスを生成する。
func NewBrands(client *apiclient.Client) *Brands {
	return &Brands{client: client}
}

// Create はブランドプロファイルを作成する。
func (b *Brands) Create(ctx context.Context, input model.CreateBrandInput) apiclient.Response[model.BrandProfile] {
	return apiclient.Post[model.BrandProfile](ctx, b.client, "/api/brands", input)
}

// Get は指定UIDのブランドプロファイルを取得する。
func (b *Brands) Get(ctx context.Context, uid string) apiclient.Response[model.BrandProfile] {
	return apiclient.Get[model.BrandProfile](ctx, b.client, fmt.Sprintf("/api/brands/%s", url.PathEscape(uid)))
}

// Update は指定UIDのブランドプロファイルを部分更新する。
func (b *Brands) Update(ctx context.Context, uid string, input model.UpdateBrandInput) apiclient.Response[model.BrandProfile] {
	return apiclient.Patch[model.BrandProfile](ctx, b.client, fmt.Sprintf("/api/brands/%s", url.PathEscape(uid)), input)
}

// List はブランドプロファイルの一覧を取得する。
func (b *Brands) List(ctx context.Context) apiclient.Response[[]model.BrandProfile] {
	return apiclient.Get[[]model.BrandProfile](ctx, b.client, "/api/brands")
}
