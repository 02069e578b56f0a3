// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// ゲートウェイのタグ付き結果とバックエンドのエラーレスポンスで共用する。
type APIError struct {
	Code     string `json:"code"`               // エラーコード
	Message  string `json:"message"`            // エラーメッセージ
	Category string `json:"category,omitempty"` // カテゴリ: auth, validation, resource, transport, system
	Action   string `json:"action,omitempty"`   // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeTimeout             = "TIMEOUT_ERROR"
	ErrCodeNetwork             = "NETWORK_ERROR"
	ErrCodeUnknown             = "UNKNOWN_ERROR"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeEduEmailRequired    = "EDU_EMAIL_REQUIRED"
	ErrCodeInvalidRole         = "INVALID_ROLE"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
	ErrCodeUserAlreadyExists   = "USER_ALREADY_EXISTS"
	ErrCodeProfileNotFound     = "PROFILE_NOT_FOUND"
	ErrCodeApplicationExists   = "APPLICATION_ALREADY_EXISTS"
	ErrCodeCampaignNotFound    = "CAMPAIGN_NOT_FOUND"
	ErrCodeApplicationNotFound = "APPLICATION_NOT_FOUND"
	ErrCodeContractNotFound    = "CONTRACT_NOT_FOUND"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// NewTimeoutError はリクエストタイムアウトエラーを生成する。
// ゲートウェイのタイムアウトレースで実行中のリクエストが中断された場合に使用する。
func NewTimeoutError(seconds float64) *APIError {
	return &APIError{
		Code:     ErrCodeTimeout,
		Message:  fmt.Sprintf("リクエストが%.0f秒でタイムアウトしました。", seconds),
		Category: "transport",
		Action:   "通信環境を確認し、しばらく待ってから再度お試しください。",
	}
}

// NewNetworkError はトランスポート障害エラーを生成する。
func NewNetworkError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeNetwork,
		Message:  fmt.Sprintf("ネットワークエラーが発生しました: %s", reason),
		Category: "transport",
		Action:   "インターネット接続を確認してください。",
	}
}

// NewUnknownError はサーバーがエラー詳細を返さなかった場合のエラーを生成する。
func NewUnknownError() *APIError {
	return &APIError{
		Code:     ErrCodeUnknown,
		Message:  "不明なエラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewUnauthorizedError は認証が必要な操作への未認証アクセスエラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewForbiddenError は権限不足エラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "この操作を行う権限がありません。",
		Category: "auth",
		Action:   "自分のアカウントに紐づくリソースのみ操作できます。",
	}
}

// NewValidationError は入力検証エラーを生成する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  fmt.Sprintf("入力内容に誤りがあります: %s", reason),
		Category: "validation",
		Action:   "入力内容を確認してください。",
	}
}

// NewEduEmailRequiredError はアスリート登録に.eduメールが必要なことを示す
// エラーを生成する。ネットワーク呼び出しの前に返される。
func NewEduEmailRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeEduEmailRequired,
		Message:  "アスリートアカウントの作成には学生であることが必要です。",
		Category: "validation",
		Action:   "大学発行のメールアドレス（.edu）を使用してください。",
	}
}

// NewInvalidRoleError は未定義ロールエラーを生成する。
func NewInvalidRoleError(role string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRole,
		Message:  fmt.Sprintf("無効なロールです: %s", role),
		Category: "validation",
		Action:   "athlete、brand、directorのいずれかを指定してください。",
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError(uid string) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("指定されたユーザーが見つかりません: %s", uid),
		Category: "resource",
		Action:   "ユーザーIDを確認してください。",
	}
}

// NewUserAlreadyExistsError はユーザーレコードの重複作成エラーを生成する。
// identityごとにユーザーレコードは1件だけ存在できる。
func NewUserAlreadyExistsError(uid string) *APIError {
	return &APIError{
		Code:     ErrCodeUserAlreadyExists,
		Message:  fmt.Sprintf("このユーザーは既に登録されています: %s", uid),
		Category: "validation",
		Action:   "ログインしてください。",
	}
}

// NewProfileNotFoundError はロールプロファイル未検出エラーを生成する。
func NewProfileNotFoundError(uid string) *APIError {
	return &APIError{
		Code:     ErrCodeProfileNotFound,
		Message:  fmt.Sprintf("指定されたプロファイルが見つかりません: %s", uid),
		Category: "resource",
		Action:   "ユーザーIDを確認してください。",
	}
}

// NewApplicationAlreadyExistsError は応募の重複作成エラーを生成する。
// 応募は(campaignId, athleteId)の組で1件だけ存在できる。
func NewApplicationAlreadyExistsError(campaignID string) *APIError {
	return &APIError{
		Code:     ErrCodeApplicationExists,
		Message:  fmt.Sprintf("このキャンペーンには応募済みです: %s", campaignID),
		Category: "validation",
		Action:   "応募状況はマイページから確認できます。",
	}
}

// NewCampaignNotFoundError はキャンペーン未検出エラーを生成する。
func NewCampaignNotFoundError(campaignID string) *APIError {
	return &APIError{
		Code:     ErrCodeCampaignNotFound,
		Message:  fmt.Sprintf("指定されたキャンペーンが見つかりません: %s", campaignID),
		Category: "resource",
		Action:   "キャンペーンIDを確認してください。",
	}
}

// NewApplicationNotFoundError は応募未検出エラーを生成する。
func NewApplicationNotFoundError(campaignID, athleteID string) *APIError {
	return &APIError{
		Code:     ErrCodeApplicationNotFound,
		Message:  fmt.Sprintf("指定された応募が見つかりません: campaign=%s athlete=%s", campaignID, athleteID),
		Category: "resource",
		Action:   "キャンペーンIDとアスリートIDを確認してください。",
	}
}

// NewContractNotFoundError は契約書未検出エラーを生成する。
func NewContractNotFoundError(campaignID, athleteID string) *APIError {
	return &APIError{
		Code:     ErrCodeContractNotFound,
		Message:  fmt.Sprintf("指定された契約書が見つかりません: campaign=%s athlete=%s", campaignID, athleteID),
		Category: "resource",
		Action:   "契約書が作成済みか確認してください。",
	}
}

// NewInternalError は内部エラーを生成する。詳細はログのみに記録する。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
