// Package navigation はロールベースのナビゲーションポリシーを提供する。
// すべて純粋関数と静的テーブルであり、プロセス起動後に変化しない。
package navigation

import (
	"strings"

	"github.com/hitoshi/dapup/internal/model"
)

// NavItem はナビゲーション項目を表す。
type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// navByRole はロールごとのナビゲーション項目テーブル。
var navByRole = map[model.Role][]NavItem{
	model.RoleDirector: {
		{Label: "Athletes", Path: "/director/athletes"},
		{Label: "Businesses", Path: "/director/brands"},
		{Label: "Messages", Path: "/director/messages"},
		{Label: "Compliance", Path: "/director/compliance"},
	},
	model.RoleAthlete: {
		{Label: "Home", Path: "/athlete/home"},
		{Label: "Deals", Path: "/athlete/deals"},
		{Label: "Earnings", Path: "/athlete/earnings"},
		{Label: "Messages", Path: "/athlete/messages"},
		{Label: "Profile", Path: "/athlete/profile"},
	},
	model.RoleBrand: {
		{Label: "Home", Path: "/brand/home"},
		{Label: "Launch", Path: "/brand/launch"},
		{Label: "My Campaign", Path: "/brand/campaigns"},
		{Label: "Wallet", Path: "/brand/wallet"},
		{Label: "Messages", Path: "/brand/messages"},
	},
}

// NavByRole は指定ロールのナビゲーション項目を返す。
// 未定義ロールには空スライスを返す。呼び出し側の変更から守るためコピーを返す。
func NavByRole(role model.Role) []NavItem {
	items, ok := navByRole[role]
	if !ok {
		return nil
	}
	out := make([]NavItem, len(items))
	copy(out, items)
	return out
}

// HomeForRole は指定ロールのホームパスを返す。
// ディレクターのホームはAthletes一覧。未定義ロール・空ロールはルートへ。
func HomeForRole(role model.Role) string {
	switch role {
	case model.RoleDirector:
		return "/director/athletes"
	case model.RoleAthlete:
		return "/athlete/home"
	case model.RoleBrand:
		return "/brand/home"
	}
	return "/"
}

// IsAllowedPathForRole は指定パスがロールに許可されているかを返す。
// ロールまたはパスが空の場合は常にfalse。
func IsAllowedPathForRole(role model.Role, path string) bool {
	if role == "" || path == "" {
		return false
	}
	switch role {
	case model.RoleAthlete, model.RoleBrand, model.RoleDirector:
		return strings.HasPrefix(path, "/"+string(role))
	}
	return false
}
