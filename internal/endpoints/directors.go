package endpoints

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hitoshi/dapup/internal/apiclient"
	"github.com/hitoshi/dapup/internal/model"
)

// Directors はディレクタープロファイルのエンドポイントモジュール。
type Directors struct {
	client *apiclient.Client
}

// NewDirectors はDirectorsの新しいインスタンスを生成する。
func NewDirectors(client *apiclient.Client) *Directors {
	return &Directors{client: client}
}

// Create はディレクタープロファイルを作成する。
func (d *Directors) Create(ctx context.Context, input model.CreateDirectorInput) apiclient.Response[model.DirectorProfile] {
	return apiclient.Post[model.DirectorProfile](ctx, d.client, "/api/directors", input)
}

// Get は指定UIDのディレクタープロファイルを取得する。
func (d *Directors) Get(ctx context.Context, uid string) apiclient.Response[model.DirectorProfile] {
	return apiclient.Get[model.DirectorProfile](ctx, d.client, fmt.Sprintf("/api/directors/%s", url.PathEscape(uid)))
}

// Update は指定UIDのディレクタープロファイルを部分更新する。
func (d *Directors) Update(ctx context.Context, uid string, input model.UpdateDirectorInput) apiclient.Response[model.DirectorProfile] {
	return apiclient.Patch[model.DirectorProfile](ctx, d.client, fmt.Sprintf("/api/directors/%s", url.PathEscape(uid)), input)
}
