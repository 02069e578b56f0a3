package model

import "time"

// SocialLinks はアスリートのSNSリンクを表す。
type SocialLinks struct {
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
	Website   string `json:"website,omitempty"`
}

// FocusArea はアスリートが発信の軸とするテーマを表す。
type FocusArea struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Hashtag string `json:"hashtag"`
}

// AthleteProfile はロール"athlete"のロールプロファイルを表す。
// Userレコードと同じUIDをキーとし、(uid, role)ごとに1件だけ存在する。
type AthleteProfile struct {
	UID              string      `json:"uid"`
	DisplayName      string      `json:"displayName"`
	School           string      `json:"school,omitempty"`
	Sport            string      `json:"sport,omitempty"`
	PhotoURL         string      `json:"photoURL,omitempty"`
	Visibility       string      `json:"visibility,omitempty"`
	Email            string      `json:"email,omitempty"`
	EmailLower       string      `json:"emailLower,omitempty"`
	ProfileCompleted bool        `json:"profileCompleted"`
	Headline         string      `json:"headline,omitempty"`
	Bio              string      `json:"bio,omitempty"`
	Location         string      `json:"location,omitempty"`
	City             string      `json:"city,omitempty"`
	State            string      `json:"state,omitempty"`
	Major            string      `json:"major,omitempty"`
	GraduationYear   string      `json:"graduationYear,omitempty"`
	Position         string      `json:"position,omitempty"`
	Team             string      `json:"team,omitempty"`
	FocusAreas       []FocusArea `json:"focusAreas,omitempty"`
	SocialMediaLinks SocialLinks `json:"socialMediaLinks,omitzero"`
	// DeclinedCampaigns はcampaignIDから再表示可能になる時刻（ISO文字列）へのマップ。
	DeclinedCampaigns map[string]string `json:"declinedCampaigns,omitempty"`
	CreatedAt         time.Time         `json:"createdAt,omitzero"`
	UpdatedAt         time.Time         `json:"updatedAt,omitzero"`
}

// BrandProfile はロール"brand"のロールプロファイルを表す。
type BrandProfile struct {
	UID        string    `json:"uid"`
	Name       string    `json:"name"`
	LogoURL    string    `json:"logoURL,omitempty"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	Owners     []string  `json:"owners"`
	Email      string    `json:"email,omitempty"`
	EmailLower string    `json:"emailLower,omitempty"`
	CreatedAt  time.Time `json:"createdAt,omitzero"`
	UpdatedAt  time.Time `json:"updatedAt,omitzero"`
}

// DirectorProfile はロール"director"（大学のNILコンプライアンス担当）の
// ロールプロファイルを表す。
type DirectorProfile struct {
	UID        string    `json:"uid"`
	Title      string    `json:"title"`
	Email      string    `json:"email,omitempty"`
	EmailLower string    `json:"emailLower,omitempty"`
	CreatedAt  time.Time `json:"createdAt,omitzero"`
	UpdatedAt  time.Time `json:"updatedAt,omitzero"`
}

// CreateAthleteInput はアスリートプロファイル作成のリクエストペイロード。
// サインアップ時のデフォルト値はセッションマネージャが設定する。
type CreateAthleteInput struct {
	UID              string `json:"uid"`
	Email            string `json:"email"`
	Visibility       string `json:"visibility,omitempty"`
	DisplayName      string `json:"displayName"`
	School           string `json:"school"`
	PhotoURL         string `json:"photoURL"`
	ProfileCompleted bool   `json:"profileCompleted"`
}

// UpdateAthleteInput はアスリートプロファイル更新のリクエストペイロード。
// nilフィールドは変更しない部分更新として扱う。
type UpdateAthleteInput struct {
	DisplayName       *string           `json:"displayName,omitempty"`
	School            *string           `json:"school,omitempty"`
	Sport             *string           `json:"sport,omitempty"`
	PhotoURL          *string           `json:"photoURL,omitempty"`
	Visibility        *string           `json:"visibility,omitempty"`
	ProfileCompleted  *bool             `json:"profileCompleted,omitempty"`
	Headline          *string           `json:"headline,omitempty"`
	Bio               *string           `json:"bio,omitempty"`
	Location          *string           `json:"location,omitempty"`
	Major             *string           `json:"major,omitempty"`
	GraduationYear    *string           `json:"graduationYear,omitempty"`
	Position          *string           `json:"position,omitempty"`
	Team              *string           `json:"team,omitempty"`
	FocusAreas        []FocusArea       `json:"focusAreas,omitempty"`
	SocialMediaLinks  *SocialLinks      `json:"socialMediaLinks,omitempty"`
	DeclinedCampaigns map[string]string `json:"declinedCampaigns,omitempty"`
}

// CreateBrandInput はブランドプロファイル作成のリクエストペイロード。
type CreateBrandInput struct {
	UID     string   `json:"uid"`
	Email   string   `json:"email"`
	Name    string   `json:"name"`
	Owners  []string `json:"owners,omitempty"`
	LogoURL string   `json:"logoURL,omitempty"`
}

// UpdateBrandInput はブランドプロファイル更新のリクエストペイロード。
type UpdateBrandInput struct {
	Name     *string  `json:"name,omitempty"`
	LogoURL  *string  `json:"logoURL,omitempty"`
	ImageURL *string  `json:"imageUrl,omitempty"`
	Owners   []string `json:"owners,omitempty"`
}

// CreateDirectorInput はディレクタープロファイル作成のリクエストペイロード。
type CreateDirectorInput struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Title string `json:"title,omitempty"`
}

// UpdateDirectorInput はディレクタープロファイル更新のリクエストペイロード。
type UpdateDirectorInput struct {
	Title *string `json:"title,omitempty"`
}
