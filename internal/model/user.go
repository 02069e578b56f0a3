// Package model はドメインモデルを定義する。
package model

import "time"

// Role はユーザーの役割を表す。
// サインアップ時に割り当てられ、以後変更する操作は公開されない。
type Role string

// 定義済みロール
const (
	RoleAthlete  Role = "athlete"
	RoleBrand    Role = "brand"
	RoleDirector Role = "director"
)

// IsValid はロールが定義済みの値かどうかを返す。
func (r Role) IsValid() bool {
	switch r {
	case RoleAthlete, RoleBrand, RoleDirector:
		return true
	}
	return false
}

// User はアプリケーションレベルのユーザーレコードを表す。
// IDプロバイダーが発行するUIDをキーとし、identityごとに1件だけ存在する。
type User struct {
	UID        string    `json:"uid"`
	Role       Role      `json:"role"`
	Email      string    `json:"email"`
	EmailLower string    `json:"emailLower"`
	CreatedAt  time.Time `json:"createdAt,omitzero"`
	UpdatedAt  time.Time `json:"updatedAt,omitzero"`
}

// CreateUserInput はユーザーレコード作成のリクエストペイロード。
type CreateUserInput struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// UpdateUserInput はユーザーレコード更新のリクエストペイロード。
// roleは設計上イミュータブルであり、送信されても無視される。
type UpdateUserInput struct {
	Email string `json:"email,omitempty"`
}
