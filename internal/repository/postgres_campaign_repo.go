package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/dapup/internal/model"
)

// PostgresCampaignRepo はPostgreSQLを使用したキャンペーンリポジトリ。
type PostgresCampaignRepo struct {
	db *sql.DB
}

// NewPostgresCampaignRepo はPostgresCampaignRepoを生成する。
func NewPostgresCampaignRepo(db *sql.DB) *PostgresCampaignRepo {
	return &PostgresCampaignRepo{db: db}
}

const campaignColumns = `id, created_by, brand_name, name, sport, platform,
	monetary_amount, budget, activity_type, description, image_url, status,
	phase, required_applicants, max_applicants, accepted_count, deliverables,
	start_date, end_date, created_at, updated_at`

func scanCampaign(row rowScanner) (*model.Campaign, error) {
	c := &model.Campaign{}
	var deliverables []byte
	var startDate, endDate sql.NullTime
	err := row.Scan(
		&c.ID, &c.CreatedBy, &c.BrandName, &c.Name, &c.Sport, &c.Platform,
		&c.MonetaryAmount, &c.Budget, &c.ActivityType, &c.Description,
		&c.ImageURL, &c.Status, &c.Phase, &c.RequiredApplicants,
		&c.MaxApplicants, &c.AcceptedCount, &deliverables,
		&startDate, &endDate, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan campaign: %w", err)
	}
	if err := unmarshalJSONB(deliverables, &c.Deliverables); err != nil {
		return nil, err
	}
	if startDate.Valid {
		c.StartDate = startDate.Time
	}
	if endDate.Valid {
		c.EndDate = endDate.Time
	}
	return c, nil
}

// FindByID は指定IDのキャンペーンを取得する。見つからない場合はnilを返す。
func (r *PostgresCampaignRepo) FindByID(ctx context.Context, id string) (*model.Campaign, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`,
		id,
	)
	return scanCampaign(row)
}

// ListByCreator は指定ユーザーが作成したキャンペーン一覧を返す。
func (r *PostgresCampaignRepo) ListByCreator(ctx context.Context, uid string) ([]*model.Campaign, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE created_by = $1 ORDER BY created_at DESC`,
		uid,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []*model.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate campaigns: %w", err)
	}
	return campaigns, nil
}

// compile-time interface check
var _ CampaignRepository = (*PostgresCampaignRepo)(nil)
