// Package identity はIDプロバイダーとの境界を定義する。
// サインイン・アカウント作成・トークン発行はすべてProviderインターフェース
// 経由で行い、上位層はプロバイダー実装に依存しない。
package identity

import (
	"context"
	"fmt"
)

// Account はIDプロバイダー上の認証済みアカウントを表す。
type Account struct {
	UID           string
	Email         string
	EmailVerified bool
}

// Provider はIDプロバイダーの操作を抽象化するインターフェース。
type Provider interface {
	// SignIn はメールアドレスとパスワードでサインインする。
	SignIn(ctx context.Context, email, password string) (*Account, error)
	// CreateAccount は新しいアカウントを作成し、サインイン状態にする。
	CreateAccount(ctx context.Context, email, password string) (*Account, error)
	// SignOut は現在のアカウントをサインアウトする。
	SignOut(ctx context.Context) error
	// SendPasswordReset はパスワードリセットメールを送信する。
	SendPasswordReset(ctx context.Context, email string) error
	// SendEmailVerification は確認メールを送信する。
	SendEmailVerification(ctx context.Context, uid string) error
	// IDToken は現在のアカウントのBearerトークンを返す。未認証時は空文字列とnil。
	IDToken(ctx context.Context) (string, error)
	// CurrentAccount は現在サインイン中のアカウントを返す。未認証時はnil。
	CurrentAccount() *Account
	// OnAuthStateChanged は認証状態の変化を購読する。購読時に現在の状態で
	// 1回呼び出され、以後サインイン/サインアウトのたびに呼び出される。
	// 戻り値の関数で購読を解除する。
	OnAuthStateChanged(fn func(*Account)) (unsubscribe func())
}

// プロバイダーエラーコード。固定の列挙であり、UserMessageで
// ユーザー向けメッセージへ変換する。
const (
	CodeInvalidCredential    = "auth/invalid-credential"
	CodeUserNotFound         = "auth/user-not-found"
	CodeWrongPassword        = "auth/wrong-password"
	CodeInvalidEmail         = "auth/invalid-email"
	CodeEmailAlreadyInUse    = "auth/email-already-in-use"
	CodeWeakPassword         = "auth/weak-password"
	CodeUserDisabled         = "auth/user-disabled"
	CodeTooManyRequests      = "auth/too-many-requests"
	CodeNetworkRequestFailed = "auth/network-request-failed"
	CodeOperationNotAllowed  = "auth/operation-not-allowed"
)

// AuthError はIDプロバイダーが返すコード付きエラー。
type AuthError struct {
	Code string
}

// Error はerrorインターフェースを実装する。
func (e *AuthError) Error() string {
	return fmt.Sprintf("identity: %s", e.Code)
}

// NewAuthError は指定コードのAuthErrorを生成する。
func NewAuthError(code string) *AuthError {
	return &AuthError{Code: code}
}

// userMessages はエラーコードからユーザー向けメッセージへのマップ。
var userMessages = map[string]string{
	CodeInvalidCredential:    "メールアドレスまたはパスワードが正しくありません。",
	CodeUserNotFound:         "メールアドレスまたはパスワードが正しくありません。",
	CodeWrongPassword:        "メールアドレスまたはパスワードが正しくありません。",
	CodeInvalidEmail:         "メールアドレスの形式が正しくありません。",
	CodeEmailAlreadyInUse:    "このメールアドレスは既に登録されています。ログインしてください。",
	CodeWeakPassword:         "パスワードは6文字以上で設定してください。",
	CodeUserDisabled:         "このアカウントは無効化されています。サポートへお問い合わせください。",
	CodeTooManyRequests:      "試行回数が多すぎます。しばらく待ってから再度お試しください。",
	CodeNetworkRequestFailed: "ネットワークエラーが発生しました。接続を確認してください。",
	CodeOperationNotAllowed:  "この認証方法は現在利用できません。",
}

// genericAuthMessage は未知のエラーコードへのフォールバックメッセージ。
const genericAuthMessage = "認証に失敗しました。しばらく待ってから再度お試しください。"

// UserMessage はプロバイダーエラーをユーザー向けメッセージへ変換する。
// AuthError以外のエラーおよび未知のコードには汎用メッセージを返す。
// 資格情報系のエラーは攻撃者にヒントを与えないよう同一メッセージに正規化する。
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if authErr, ok := err.(*AuthError); ok {
		if msg, ok := userMessages[authErr.Code]; ok {
			return msg
		}
	}
	return genericAuthMessage
}
