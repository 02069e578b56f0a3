package endpoints

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hitoshi/dapup/internal/apiclient"
	"github.com/hitoshi/dapup/internal/model"
)

// Athletes はアスリートプロファイルのエンドポイントモジュール。
type Athletes struct {
	client *apiclient.Client
}

// NewAthletes はAthletesの新しいインスタンスを生成する。
func NewAthletes(client *apiclient.Client) *Athletes {
	return &Athletes{client: client}
}

// Create はアスリートプロファイルを作成する。
func (a *Athletes) Create(ctx context.Context, input model.CreateAthleteInput) apiclient.Response[model.AthleteProfile] {
	return apiclient.Post[model.AthleteProfile](ctx, a.client, "/api/athletes", input)
}

// Get は指定UIDのアスリートプロファイルを取得する。
func (a *Athletes) Get(ctx context.Context, uid string) apiclient.Response[model.AthleteProfile] {
	return apiclient.Get[model.AthleteProfile](ctx, a.client, fmt.Sprintf("/api/athletes/%s", url.PathEscape(uid)))
}

// Update は指定UIDのアスリートプロファイルを部分更新する。
func (a *Athletes) Update(ctx context.Context, uid string, input model.UpdateAthleteInput) apiclient.Response[model.AthleteProfile] {
	return apiclient.Patch[model.AthleteProfile](ctx, a.client, fmt.Sprintf("/api/athletes/%s", url.PathEscape(uid)), input)
}

// List はアスリートプロファイルの一覧を取得する。
func (a *Athletes) List(ctx context.Context) apiclient.Response[[]model.AthleteProfile] {
	return apiclient.Get[[]model.AthleteProfile](ctx, a.client, "/api/athletes")
}

// Deals は指定アスリートの成約済みディール一覧を取得する。
// キャンペーン・応募・契約はサーバー側で結合済みであり、
// 呼び出し側が要素ごとの追加取得を行う必要はない。
func (a *Athletes) Deals(ctx context.Context, uid string) apiclient.Response[[]model.EnrichedDeal] {
	return apiclient.Get[[]model.EnrichedDeal](ctx, a.client, fmt.Sprintf("/api/athletes/%s/deals", url.PathEscape(uid)))
}
