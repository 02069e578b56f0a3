package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hitoshi/dapup/internal/model"
)

// PostgresApplicationRepo はPostgreSQLを使用した応募リポジトリ。
type PostgresApplicationRepo struct {
	db *sql.DB
}

// NewPostgresApplicationRepo はPostgresApplicationRepoを生成する。
func NewPostgresApplicationRepo(db *sql.DB) *PostgresApplicationRepo {
	return &PostgresApplicationRepo{db: db}
}

const applicationColumns = `id, campaign_id, athlete_id, status, deliverables,
	brand_accepted, athlete_submitted, brand_approved, contract_url,
	created_at, updated_at`

func scanApplication(row rowScanner) (*model.Application, error) {
	a := &model.Application{}
	var deliverables []byte
	err := row.Scan(
		&a.ID, &a.CampaignID, &a.AthleteID, &a.Status, &deliverables,
		&a.BrandAccepted, &a.AthleteSubmitted, &a.BrandApproved,
		&a.ContractURL, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan application: %w", err)
	}
	if err := unmarshalJSONB(deliverables, &a.Deliverables); err != nil {
		return nil, err
	}
	return a, nil
}

// FindByCampaignAndAthlete は指定の組の応募を取得する。見つからない場合はnilを返す。
func (r *PostgresApplicationRepo) FindByCampaignAndAthlete(ctx context.Context, campaignID, athleteID string) (*model.Application, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE campaign_id = $1 AND athlete_id = $2`,
		campaignID, athleteID,
	)
	return scanApplication(row)
}

// ListByCampaign はキャンペーンの応募一覧を作成日時の昇順で返す。
func (r *PostgresApplicationRepo) ListByCampaign(ctx context.Context, campaignID string) ([]*model.Application, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE campaign_id = $1 ORDER BY created_at ASC`,
		campaignID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()
	return collectApplications(rows)
}

// ListByAthlete はアスリートの応募一覧を作成日時の降順で返す。
func (r *PostgresApplicationRepo) ListByAthlete(ctx context.Context, athleteID string) ([]*model.Application, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE athlete_id = $1 ORDER BY created_at DESC`,
		athleteID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()
	return collectApplications(rows)
}

func collectApplications(rows *sql.Rows) ([]*model.Application, error) {
	var apps []*model.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}
	return apps, nil
}

// ListByCampaignWithProfiles はキャンペーンの応募一覧をアスリートプロファイルの
// 要約と結合して返す。呼び出し側での要素ごとの追加取得を避けるための
// サーバー側結合であり、プロファイル未作成の応募はProfile=nilとなる。
func (r *PostgresApplicationRepo) ListByCampaignWithProfiles(ctx context.Context, campaignID string) ([]model.ApplicationWithProfile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT
			a.id, a.campaign_id, a.athlete_id, a.status, a.deliverables,
			a.brand_accepted, a.athlete_submitted, a.brand_approved, a.contract_url,
			a.created_at, a.updated_at,
			p.uid, p.display_name, p.email, p.photo_url, p.sport, p.school,
			p.city, p.state, p.social_media_links
		FROM applications a
		LEFT JOIN athlete_profiles p ON p.uid = a.athlete_id
		WHERE a.campaign_id = $1
		ORDER BY a.created_at ASC`,
		campaignID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications with profiles: %w", err)
	}
	defer rows.Close()

	var results []model.ApplicationWithProfile
	for rows.Next() {
		var item model.ApplicationWithProfile
		var deliverables []byte
		var profileUID, displayName, email, photoURL, sport, school, city, state sql.NullString
		var socialLinks []byte

		err := rows.Scan(
			&item.ID, &item.CampaignID, &item.AthleteID, &item.Status, &deliverables,
			&item.BrandAccepted, &item.AthleteSubmitted, &item.BrandApproved,
			&item.ContractURL, &item.CreatedAt, &item.UpdatedAt,
			&profileUID, &displayName, &email, &photoURL, &sport, &school,
			&city, &state, &socialLinks,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application with profile: %w", err)
		}
		if err := unmarshalJSONB(deliverables, &item.Deliverables); err != nil {
			return nil, err
		}

		if profileUID.Valid {
			profile := &model.ApplicationProfile{
				DisplayName: displayName.String,
				Email:       email.String,
				PhotoURL:    photoURL.String,
				Sport:       sport.String,
				School:      school.String,
				City:        city.String,
				State:       state.String,
			}
			if err := unmarshalJSONB(socialLinks, &profile.SocialMediaLinks); err != nil {
				return nil, err
			}
			item.Profile = profile
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications with profiles: %w", err)
	}
	return results, nil
}

// Create は応募を作成する。IDが未設定の場合は採番する。
func (r *PostgresApplicationRepo) Create(ctx context.Context, app *model.Application) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.Status == "" {
		app.Status = model.ApplicationStatusPending
	}
	deliverables, err := marshalJSONB(app.Deliverables, "[]")
	if err != nil {
		return err
	}

	err = r.db.QueryRowContext(ctx,
		`INSERT INTO applications (
			id, campaign_id, athlete_id, status, deliverables,
			brand_accepted, athlete_submitted, brand_approved, contract_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		app.ID, app.CampaignID, app.AthleteID, app.Status, deliverables,
		app.BrandAccepted, app.AthleteSubmitted, app.BrandApproved, app.ContractURL,
	).Scan(&app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert application: %w", err)
	}
	return nil
}

// Update は応募を部分更新する。nilフィールドは変更しない。
func (r *PostgresApplicationRepo) Update(ctx context.Context, campaignID, athleteID string, input *model.UpdateApplicationInput) (*model.Application, error) {
	set := []string{"updated_at = now()"}
	args := []any{campaignID, athleteID}

	addSet := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if input.Status != nil {
		addSet("status", *input.Status)
	}
	if input.Deliverables != nil {
		data, err := marshalJSONB(input.Deliverables, "[]")
		if err != nil {
			return nil, err
		}
		addSet("deliverables", data)
	}
	if input.BrandAccepted != nil {
		addSet("brand_accepted", *input.BrandAccepted)
	}
	if input.AthleteSubmitted != nil {
		addSet("athlete_submitted", *input.AthleteSubmitted)
	}
	if input.BrandApproved != nil {
		addSet("brand_approved", *input.BrandApproved)
	}

	query := fmt.Sprintf(
		`UPDATE applications SET %s WHERE campaign_id = $1 AND athlete_id = $2 RETURNING %s`,
		strings.Join(set, ", "), applicationColumns,
	)
	return scanApplication(r.db.QueryRowContext(ctx, query, args...))
}

// compile-time interface check
var _ ApplicationRepository = (*PostgresApplicationRepo)(nil)
