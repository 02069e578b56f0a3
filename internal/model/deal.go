package model

// DeliverablesStatus は成約済みディールの成果物進行状況を表す。
type DeliverablesStatus string

// 定義済み成果物ステータス
const (
	DeliverablesInProgress DeliverablesStatus = "in_progress"
	DeliverablesSubmitted  DeliverablesStatus = "submitted"
	DeliverablesApproved   DeliverablesStatus = "approved"
	DeliverablesRejected   DeliverablesStatus = "rejected"
)

// EnrichedDeal はアスリートの成約済みディールを関連エンティティ込みで表す。
// BFFエンドポイント GET /api/athletes/{uid}/deals の応答要素。
// キャンペーン・応募・契約がサーバー側で結合済みであり、
// 呼び出し側は要素ごとの追加取得を行わない契約。
type EnrichedDeal struct {
	Campaign           Campaign           `json:"campaign"`
	Application        Application        `json:"application"`
	Contract           *Contract          `json:"contract"`
	DeliverablesStatus DeliverablesStatus `json:"deliverablesStatus,omitempty"`
}
