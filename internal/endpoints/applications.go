package endpoints

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hitoshi/dapup/internal/apiclient"
	"github.com/hitoshi/dapup/internal/model"
)

// Applications はキャンペーン応募のエンドポイントモジュール。
// 応募は(campaignId, athleteId)の組で一意に識別される。
type Applications struct {
	client *apiclient.Client
}

// NewApplications はApplicationsの新しいインスタンスを生成する。
func NewApplications(client *apiclient.Client) *Applications {
	return &Applications{client: client}
}

func applicationPath(campaignID, athleteID string) string {
	return fmt.Sprintf("/api/campaigns/%s/applications/%s",
		url.PathEscape(campaignID), url.PathEscape(athleteID))
}

// Get は指定キャンペーン・アスリートの応募を取得する。
func (a *Applications) Get(ctx context.Context, campaignID, athleteID string) apiclient.Response[model.Application] {
	return apiclient.Get[model.Application](ctx, a.client, applicationPath(campaignID, athleteID))
}

// ListByCampaign は指定キャンペーンへの応募一覧を取得する。
func (a *Applications) ListByCampaign(ctx context.Context, campaignID string) apiclient.Response[[]model.Application] {
	return apiclient.Get[[]model.Application](ctx, a.client,
		fmt.Sprintf("/api/campaigns/%s/applications", url.PathEscape(campaignID)))
}

// ListByCampaignWithProfiles は応募一覧をアスリートプロファイル結合済みで取得する。
// 結合はサーバー側で行われ、呼び出し側が応募ごとの追加取得を行う必要はない。
func (a *Applications) ListByCampaignWithProfiles(ctx context.Context, campaignID string) apiclient.Response[[]model.ApplicationWithProfile] {
	return apiclient.Get[[]model.ApplicationWithProfile](ctx, a.client,
		fmt.Sprintf("/api/campaigns/%s/applications?include=profiles", url.PathEscape(campaignID)))
}

// ListByAthlete は指定アスリートの応募一覧を取得する。
func (a *Applications) ListByAthlete(ctx context.Context, athleteID string) apiclient.Response[[]model.Application] {
	return apiclient.Get[[]model.Application](ctx, a.client,
		fmt.Sprintf("/api/athletes/%s/applications", url.PathEscape(athleteID)))
}

// Create は指定キャンペーンへの応募を作成する。
func (a *Applications) Create(ctx context.Context, campaignID string, input model.CreateApplicationInput) apiclient.Response[model.Application] {
	return apiclient.Post[model.Application](ctx, a.client,
		fmt.Sprintf("/api/campaigns/%s/applications", url.PathEscape(campaignID)), input)
}

// Update は指定応募を部分更新する。
func (a *Applications) Update(ctx context.Context, campaignID, athleteID string, input model.UpdateApplicationInput) apiclient.Response[model.Application] {
	return apiclient.Patch[model.Application](ctx, a.client, applicationPath(campaignID, athleteID), input)
}

// Submit はアスリートによる成果物提出を記録する。
func (a *Applications) Submit(ctx context.Context, campaignID, athleteID string) apiclient.Response[model.Application] {
	return apiclient.Post[model.Application](ctx, a.client, applicationPath(campaignID, athleteID)+"/submit", nil)
}

// Accept はブランドによる応募承認を記録する。
func (a *Applications) Accept(ctx context.Context, campaignID, athleteID string) apiclient.Response[model.Application] {
	return apiclient.Post[model.Application](ctx, a.client, applicationPath(campaignID, athleteID)+"/accept", nil)
}

// Decline はブランドによる応募辞退を記録する。
func (a *Applications) Decline(ctx context.Context, campaignID, athleteID string) apiclient.Response[model.Application] {
	return apiclient.Post[model.Application](ctx, a.client, applicationPath(campaignID, athleteID)+"/decline", nil)
}
