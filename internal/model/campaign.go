package model

import "time"

// CampaignPhase はキャンペーンの進行フェーズを表す。
type CampaignPhase string

// 定義済みキャンペーンフェーズ
const (
	CampaignPhaseCirculation   CampaignPhase = "circulation"
	CampaignPhaseUnderContract CampaignPhase = "under_contract"
	CampaignPhaseActive        CampaignPhase = "active"
	CampaignPhaseExecuted      CampaignPhase = "executed"
)

// CampaignDeliverable はキャンペーンが求める成果物の種別を表す。
type CampaignDeliverable struct {
	ID          string `json:"id,omitempty"`
	Platform    string `json:"platform"`
	Description string `json:"description"`
}

// Campaign はブランドが掲載するNILキャンペーンを表す。
type Campaign struct {
	ID                 string                `json:"id"`
	CreatedBy          string                `json:"createdBy"`
	BrandName          string                `json:"brandName,omitempty"`
	Name               string                `json:"name"`
	Sport              string                `json:"sport,omitempty"`
	Platform           string                `json:"platform,omitempty"`
	MonetaryAmount     float64               `json:"monetaryAmount,omitempty"`
	Budget             float64               `json:"budget,omitempty"`
	ActivityType       string                `json:"activityType,omitempty"`
	Description        string                `json:"description,omitempty"`
	ImageURL           string                `json:"imageUrl,omitempty"`
	Status             string                `json:"status"`
	Phase              CampaignPhase         `json:"phase,omitempty"`
	RequiredApplicants int                   `json:"requiredApplicants,omitempty"`
	MaxApplicants      int                   `json:"maxApplicants,omitempty"`
	AcceptedCount      int                   `json:"acceptedCount,omitempty"`
	Deliverables       []CampaignDeliverable `json:"deliverables,omitempty"`
	StartDate          time.Time             `json:"startDate,omitzero"`
	EndDate            time.Time             `json:"endDate,omitzero"`
	CreatedAt          time.Time             `json:"createdAt,omitzero"`
	UpdatedAt          time.Time             `json:"updatedAt,omitzero"`
}
