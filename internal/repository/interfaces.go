// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/dapup/internal/model"
)

// UserRepository はユーザーレコードの永続化インターフェース。
type UserRepository interface {
	// FindByUID は指定UIDのユーザーを取得する。見つからない場合はnilを返す。
	FindByUID(ctx context.Context, uid string) (*model.User, error)

	// Create はユーザーレコードを作成する。
	// email_lowerの一意制約違反はそのままエラーとして返す。
	Create(ctx context.Context, user *model.User) error

	// UpdateEmail はユーザーのメールアドレスを更新する。
	// roleはイミュータブルのため更新対象外。
	UpdateEmail(ctx context.Context, uid, email string) (*model.User, error)

	// List は全ユーザーを作成日時の昇順で返す。
	List(ctx context.Context) ([]*model.User, error)

	// DeleteByUID は指定UIDのユーザーを削除する。
	// 関連するプロファイル、応募、契約はCASCADE削除される。
	DeleteByUID(ctx context.Context, uid string) error
}

// AthleteRepository はアスリートプロファイルの永続化インターフェース。
type AthleteRepository interface {
	// FindByUID は指定UIDのプロファイルを取得する。見つからない場合はnilを返す。
	FindByUID(ctx context.Context, uid string) (*model.AthleteProfile, error)

	// Create はプロファイルを作成する。
	Create(ctx context.Context, profile *model.AthleteProfile) error

	// Update はプロファイルを部分更新する。nilフィールドは変更しない。
	// 更新後のプロファイルを返す。対象が存在しない場合はnilを返す。
	Update(ctx context.Context, uid string, input *model.UpdateAthleteInput) (*model.AthleteProfile, error)

	// List は全アスリートプロファイルを返す。
	List(ctx context.Context) ([]*model.AthleteProfile, error)
}

// BrandRepository はブランドプロファイルの永続化インターフェース。
type BrandRepository interface {
	FindByUID(ctx context.Context, uid string) (*model.BrandProfile, error)
	Create(ctx context.Context, profile *model.BrandProfile) error
	Update(ctx context.Context, uid string, input *model.UpdateBrandInput) (*model.BrandProfile, error)
	List(ctx context.Context) ([]*model.BrandProfile, error)
}

// DirectorRepository はディレクタープロファイルの永続化インターフェース。
type DirectorRepository interface {
	FindByUID(ctx context.Context, uid string) (*model.DirectorProfile, error)
	Create(ctx context.Context, profile *model.DirectorProfile) error
	Update(ctx context.Context, uid string, input *model.UpdateDirectorInput) (*model.DirectorProfile, error)
	List(ctx context.Context) ([]*model.DirectorProfile, error)
}

// CampaignRepository はキャンペーンデータの永続化インターフェース。
type CampaignRepository interface {
	// FindByID は指定IDのキャンペーンを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Campaign, error)

	// ListByCreator は指定ユーザーが作成したキャンペーン一覧を返す。
	ListByCreator(ctx context.Context, uid string) ([]*model.Campaign, error)
}

// ApplicationRepository はキャンペーン応募の永続化インターフェース。
// 応募は(campaign_id, athlete_id)の組で一意。
type ApplicationRepository interface {
	// FindByCampaignAndAthlete は指定の組の応募を取得する。見つからない場合はnilを返す。
	FindByCampaignAndAthlete(ctx context.Context, campaignID, athleteID string) (*model.Application, error)

	// ListByCampaign はキャンペーンの応募一覧を作成日時の昇順で返す。
	ListByCampaign(ctx context.Context, campaignID string) ([]*model.Application, error)

	// ListByCampaignWithProfiles はキャンペーンの応募一覧をアスリートプロファイルの
	// 要約とサーバー側で結合して返す。プロファイル未作成の応募はProfile=nilとなる。
	ListByCampaignWithProfiles(ctx context.Context, campaignID string) ([]model.ApplicationWithProfile, error)

	// ListByAthlete はアスリートの応募一覧を作成日時の降順で返す。
	ListByAthlete(ctx context.Context, athleteID string) ([]*model.Application, error)

	// Create は応募を作成する。(campaign_id, athlete_id)の一意制約違反は
	// そのままエラーとして返す。
	Create(ctx context.Context, app *model.Application) error

	// Update は応募を部分更新する。nilフィールドは変更しない。
	// 更新後の応募を返す。対象が存在しない場合はnilを返す。
	Update(ctx context.Context, campaignID, athleteID string, input *model.UpdateApplicationInput) (*model.Application, error)
}

// ContractRepository は契約書の永続化インターフェース。
// 契約は応募(campaign_id, athlete_id)ごとに現行1件。
type ContractRepository interface {
	// FindByApplication は指定応募の契約を取得する。見つからない場合はnilを返す。
	FindByApplication(ctx context.Context, campaignID, athleteID string) (*model.Contract, error)

	// Create は契約ドラフトを作成する。
	Create(ctx context.Context, contract *model.Contract) error

	// Update は契約を部分更新する。nilフィールドは変更しない。
	// 更新後の契約を返す。対象が存在しない場合はnilを返す。
	Update(ctx context.Context, campaignID, athleteID string, input *model.UpdateContractInput) (*model.Contract, error)

	// MarkSent は契約をアスリートへ送付済みにする。
	// ステータスをsent_to_athleteへ遷移させ、送付時刻を記録する。
	// 対象が存在しない場合はnilを返す。
	MarkSent(ctx context.Context, campaignID, athleteID string, sentAt time.Time) (*model.Contract, error)
}

// DealRepository は成約済みディールの読み取りインターフェース。
type DealRepository interface {
	// ListEnrichedByAthlete はアスリートの成約済み（accepted/completed）応募を
	// キャンペーンと契約を結合した形で返す。契約未作成のディールはContract=nilとなる。
	ListEnrichedByAthlete(ctx context.Context, athleteID string) ([]model.EnrichedDeal, error)
}
