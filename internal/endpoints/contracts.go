package endpoints

import (
	"context"

	"github.com/hitoshi/dapup/internal/apiclient"
	"github.com/hitoshi/dapup/internal/model"
)

// Contracts はNIL契約書のエンドポイントモジュール。
// 契約書は応募(campaignId, athleteId)に紐づく。
type Contracts struct {
	client *apiclient.Client
}

// NewContracts はContractsの新しいインスタンスを生成する。
func NewContracts(client *apiclient.Client) *Contracts {
	return &Contracts{client: client}
}

// Get は指定応募の現行契約書を取得する。
func (c *Contracts) Get(ctx context.Context, campaignID, athleteID string) apiclient.Response[model.Contract] {
	return apiclient.Get[model.Contract](ctx, c.client, applicationPath(campaignID, athleteID)+"/contract")
}

// Create は指定応募の契約書ドラフトを作成する。
func (c *Contracts) Create(ctx context.Context, campaignID, athleteID string, input model.CreateContractInput) apiclient.Response[model.Contract] {
	return apiclient.Post[model.Contract](ctx, c.client, applicationPath(campaignID, athleteID)+"/contract", input)
}

// Update は指定応募の契約書を部分更新する。
func (c *Contracts) Update(ctx context.Context, campaignID, athleteID string, input model.UpdateContractInput) apiclient.Response[model.Contract] {
	return apiclient.Patch[model.Contract](ctx, c.client, applicationPath(campaignID, athleteID)+"/contract", input)
}

// Send は契約書をアスリートへ送付し、状態をsent_to_athleteに進める。
func (c *Contracts) Send(ctx context.Context, campaignID, athleteID string) apiclient.Response[model.Contract] {
	return apiclient.Post[model.Contract](ctx, c.client, applicationPath(campaignID, athleteID)+"/contract/send", nil)
}
