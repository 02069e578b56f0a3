package model

import "time"

// ContractStatus は契約書の状態を表す。
type ContractStatus string

// 定義済み契約ステータス
const (
	ContractStatusDraft         ContractStatus = "draft"
	ContractStatusSentToAthlete ContractStatus = "sent_to_athlete"
	ContractStatusCountered     ContractStatus = "countered"
	ContractStatusApproved      ContractStatus = "approved"
	ContractStatusRejected      ContractStatus = "rejected"
	ContractStatusSigned        ContractStatus = "signed"
	ContractStatusVoid          ContractStatus = "void"
)

// ContractDeliverable は契約に定める成果物を表す。
type ContractDeliverable struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Description  string    `json:"description"`
	DueDate      time.Time `json:"dueDate,omitzero"`
	Quantity     int       `json:"quantity,omitempty"`
	Requirements string    `json:"requirements,omitempty"`
	Completed    bool      `json:"completed,omitempty"`
	ProofURL     string    `json:"proofUrl,omitempty"`
	Status       string    `json:"status,omitempty"`
}

// PaymentScheduleItem は支払いスケジュールの1項目を表す。
type PaymentScheduleItem struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	DueDate     time.Time `json:"dueDate,omitzero"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status,omitempty"`
}

// AuditEntry は契約書の監査証跡の1エントリを表す。
type AuditEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Action    string         `json:"action"`
	UserID    string         `json:"userId"`
	UserName  string         `json:"userName,omitempty"`
	Changes   map[string]any `json:"changes,omitempty"`
}

// Contract はキャンペーン応募に紐づくNIL契約書を表す。
// (campaignId, athleteId)の応募ごとに現行契約が1件存在しうる。
type Contract struct {
	ID                string                `json:"id,omitempty"`
	CampaignID        string                `json:"campaignId"`
	AthleteID         string                `json:"athleteId"`
	BrandID           string                `json:"brandId"`
	Status            ContractStatus        `json:"status"`
	BrandName         string                `json:"brandName,omitempty"`
	AthleteName       string                `json:"athleteName,omitempty"`
	EffectiveDate     time.Time             `json:"effectiveDate,omitzero"`
	ExpirationDate    time.Time             `json:"expirationDate,omitzero"`
	Exclusivity       bool                  `json:"exclusivity,omitempty"`
	Deliverables      []ContractDeliverable `json:"deliverables,omitempty"`
	TotalCompensation float64               `json:"totalCompensation,omitempty"`
	PaymentSchedule   []PaymentScheduleItem `json:"paymentSchedule,omitempty"`
	PaymentMethod     string                `json:"paymentMethod,omitempty"`
	UsageRights       string                `json:"usageRights,omitempty"`
	UsageDuration     string                `json:"usageDuration,omitempty"`
	PDFURL            string                `json:"pdfUrl,omitempty"`
	RejectionReason   string                `json:"rejectionReason,omitempty"`
	SentToAthleteAt   time.Time             `json:"sentToAthleteAt,omitzero"`
	SignedAt          time.Time             `json:"signedAt,omitzero"`
	AuditTrail        []AuditEntry          `json:"auditTrail,omitempty"`
	CreatedAt         time.Time             `json:"createdAt,omitzero"`
	UpdatedAt         time.Time             `json:"updatedAt,omitzero"`
}

// CreateContractInput は契約書ドラフト作成のリクエストペイロード。
type CreateContractInput struct {
	BrandName         string                `json:"brandName,omitempty"`
	AthleteName       string                `json:"athleteName,omitempty"`
	EffectiveDate     time.Time             `json:"effectiveDate,omitzero"`
	ExpirationDate    time.Time             `json:"expirationDate,omitzero"`
	Exclusivity       bool                  `json:"exclusivity,omitempty"`
	Deliverables      []ContractDeliverable `json:"deliverables,omitempty"`
	TotalCompensation float64               `json:"totalCompensation,omitempty"`
	PaymentSchedule   []PaymentScheduleItem `json:"paymentSchedule,omitempty"`
	PaymentMethod     string                `json:"paymentMethod,omitempty"`
	UsageRights       string                `json:"usageRights,omitempty"`
	UsageDuration     string                `json:"usageDuration,omitempty"`
}

// UpdateContractInput は契約書更新のリクエストペイロード。
// nilフィールドは変更しない部分更新として扱う。
type UpdateContractInput struct {
	Status            *ContractStatus       `json:"status,omitempty"`
	BrandName         *string               `json:"brandName,omitempty"`
	AthleteName       *string               `json:"athleteName,omitempty"`
	Deliverables      []ContractDeliverable `json:"deliverables,omitempty"`
	TotalCompensation *float64              `json:"totalCompensation,omitempty"`
	PaymentSchedule   []PaymentScheduleItem `json:"paymentSchedule,omitempty"`
	PaymentMethod     *string               `json:"paymentMethod,omitempty"`
	UsageRights       *string               `json:"usageRights,omitempty"`
	UsageDuration     *string               `json:"usageDuration,omitempty"`
	PDFURL            *string               `json:"pdfUrl,omitempty"`
	RejectionReason   *string               `json:"rejectionReason,omitempty"`
}
