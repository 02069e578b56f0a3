package model

import "time"

// ApplicationStatus はキャンペーン応募の状態を表す。
type ApplicationStatus string

// 定義済み応募ステータス
const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusSubmitted ApplicationStatus = "submitted"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusDeclined  ApplicationStatus = "declined"
	ApplicationStatusCompleted ApplicationStatus = "completed"
)

// AppDeliverable は応募に紐づく成果物チェック項目を表す。
type AppDeliverable struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
	URL     string `json:"url,omitempty"`
}

// Application はアスリートからキャンペーンへの応募を表す。
// (campaignId, athleteId)の組で一意。
type Application struct {
	ID               string            `json:"id,omitempty"`
	CampaignID       string            `json:"campaignId"`
	AthleteID        string            `json:"athleteId"`
	Status           ApplicationStatus `json:"status"`
	Deliverables     []AppDeliverable  `json:"deliverables,omitempty"`
	BrandAccepted    bool              `json:"brandAccepted,omitempty"`
	AthleteSubmitted bool              `json:"athleteSubmitted,omitempty"`
	BrandApproved    bool              `json:"brandApproved,omitempty"`
	ContractURL      string            `json:"contractUrl,omitempty"`
	Contract         *Contract         `json:"contract,omitempty"`
	CreatedAt        time.Time         `json:"createdAt,omitzero"`
	UpdatedAt        time.Time         `json:"updatedAt,omitzero"`
}

// ApplicationProfile はBFF応答に埋め込まれるアスリートプロファイルの要約。
type ApplicationProfile struct {
	DisplayName      string      `json:"displayName,omitempty"`
	Email            string      `json:"email,omitempty"`
	PhotoURL         string      `json:"photoURL,omitempty"`
	Sport            string      `json:"sport,omitempty"`
	School           string      `json:"school,omitempty"`
	City             string      `json:"city,omitempty"`
	State            string      `json:"state,omitempty"`
	SocialMediaLinks SocialLinks `json:"socialMediaLinks,omitzero"`
}

// ApplicationWithProfile はアスリートプロファイルをサーバー側で結合済みの応募を表す。
// BFFエンドポイントの応答要素であり、呼び出し側は要素ごとの追加取得を行わない契約。
type ApplicationWithProfile struct {
	Application
	Profile *ApplicationProfile `json:"profile"`
}

// CreateApplicationInput は応募作成のリクエストペイロード。
type CreateApplicationInput struct {
	AthleteID string `json:"athleteId"`
}

// UpdateApplicationInput は応募更新のリクエストペイロード。
// nilフィールドは変更しない部分更新として扱う。
type UpdateApplicationInput struct {
	Status           *ApplicationStatus `json:"status,omitempty"`
	Deliverables     []AppDeliverable   `json:"deliverables,omitempty"`
	BrandAccepted    *bool              `json:"brandAccepted,omitempty"`
	AthleteSubmitted *bool              `json:"athleteSubmitted,omitempty"`
	BrandApproved    *bool              `json:"brandApproved,omitempty"`
}
