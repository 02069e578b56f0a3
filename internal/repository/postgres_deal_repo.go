package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/dapup/internal/model"
)

// PostgresDealRepo はPostgreSQLを使用した成約済みディールの読み取りリポジトリ。
// キャンペーン・応募・契約をサーバー側で結合するBFF応答専用のビュー。
type PostgresDealRepo struct {
	db *sql.DB
}

// NewPostgresDealRepo はPostgresDealRepoを生成する。
func NewPostgresDealRepo(db *sql.DB) *PostgresDealRepo {
	return &PostgresDealRepo{db: db}
}

// ListEnrichedByAthlete はアスリートの成約済み（accepted/completed）応募を
// キャンペーンと契約付きで返す。契約未作成のディールはContract=nilとなる。
func (r *PostgresDealRepo) ListEnrichedByAthlete(ctx context.Context, athleteID string) ([]model.EnrichedDeal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT
			a.id, a.campaign_id, a.athlete_id, a.status, a.deliverables,
			a.brand_accepted, a.athlete_submitted, a.brand_approved, a.contract_url,
			a.created_at, a.updated_at,
			cp.id, cp.created_by, cp.brand_name, cp.name, cp.sport, cp.platform,
			cp.monetary_amount, cp.budget, cp.activity_type, cp.description,
			cp.image_url, cp.status, cp.phase, cp.required_applicants,
			cp.max_applicants, cp.accepted_count, cp.deliverables,
			cp.start_date, cp.end_date, cp.created_at, cp.updated_at,
			ct.id, ct.brand_id, ct.status, ct.brand_name, ct.athlete_name,
			ct.effective_date, ct.expiration_date, ct.exclusivity,
			ct.deliverables, ct.total_compensation, ct.payment_schedule,
			ct.payment_method, ct.usage_rights, ct.usage_duration,
			ct.pdf_url, ct.rejection_reason, ct.sent_to_athlete_at,
			ct.signed_at, ct.audit_trail, ct.created_at, ct.updated_at
		FROM applications a
		JOIN campaigns cp ON cp.id = a.campaign_id
		LEFT JOIN contracts ct
			ON ct.campaign_id = a.campaign_id AND ct.athlete_id = a.athlete_id
		WHERE a.athlete_id = $1 AND a.status IN ('accepted', 'completed')
		ORDER BY a.updated_at DESC`,
		athleteID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	defer rows.Close()

	var deals []model.EnrichedDeal
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, *deal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deals: %w", err)
	}
	return deals, nil
}

func scanDeal(rows *sql.Rows) (*model.EnrichedDeal, error) {
	deal := &model.EnrichedDeal{}
	app := &deal.Application
	camp := &deal.Campaign

	var appDeliverables, campDeliverables []byte
	var campStart, campEnd sql.NullTime

	// 契約はLEFT JOINのため全カラムをNULL許容で受ける。
	var ctID, ctBrandID, ctStatus, ctBrandName, ctAthleteName sql.NullString
	var ctEffective, ctExpiration, ctSent, ctSigned sql.NullTime
	var ctExclusivity sql.NullBool
	var ctDeliverables, ctPaymentSchedule, ctAuditTrail []byte
	var ctCompensation sql.NullFloat64
	var ctPaymentMethod, ctUsageRights, ctUsageDuration sql.NullString
	var ctPDFURL, ctRejectionReason sql.NullString
	var ctCreatedAt, ctUpdatedAt sql.NullTime

	err := rows.Scan(
		&app.ID, &app.CampaignID, &app.AthleteID, &app.Status, &appDeliverables,
		&app.BrandAccepted, &app.AthleteSubmitted, &app.BrandApproved,
		&app.ContractURL, &app.CreatedAt, &app.UpdatedAt,
		&camp.ID, &camp.CreatedBy, &camp.BrandName, &camp.Name, &camp.Sport,
		&camp.Platform, &camp.MonetaryAmount, &camp.Budget, &camp.ActivityType,
		&camp.Description, &camp.ImageURL, &camp.Status, &camp.Phase,
		&camp.RequiredApplicants, &camp.MaxApplicants, &camp.AcceptedCount,
		&campDeliverables, &campStart, &campEnd, &camp.CreatedAt, &camp.UpdatedAt,
		&ctID, &ctBrandID, &ctStatus, &ctBrandName, &ctAthleteName,
		&ctEffective, &ctExpiration, &ctExclusivity,
		&ctDeliverables, &ctCompensation, &ctPaymentSchedule,
		&ctPaymentMethod, &ctUsageRights, &ctUsageDuration,
		&ctPDFURL, &ctRejectionReason, &ctSent,
		&ctSigned, &ctAuditTrail, &ctCreatedAt, &ctUpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan deal: %w", err)
	}

	if err := unmarshalJSONB(appDeliverables, &app.Deliverables); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(campDeliverables, &camp.Deliverables); err != nil {
		return nil, err
	}
	if campStart.Valid {
		camp.StartDate = campStart.Time
	}
	if campEnd.Valid {
		camp.EndDate = campEnd.Time
	}

	if ctID.Valid {
		contract := &model.Contract{
			ID:                ctID.String,
			CampaignID:        app.CampaignID,
			AthleteID:         app.AthleteID,
			BrandID:           ctBrandID.String,
			Status:            model.ContractStatus(ctStatus.String),
			BrandName:         ctBrandName.String,
			AthleteName:       ctAthleteName.String,
			Exclusivity:       ctExclusivity.Bool,
			TotalCompensation: ctCompensation.Float64,
			PaymentMethod:     ctPaymentMethod.String,
			UsageRights:       ctUsageRights.String,
			UsageDuration:     ctUsageDuration.String,
			PDFURL:            ctPDFURL.String,
			RejectionReason:   ctRejectionReason.String,
			CreatedAt:         ctCreatedAt.Time,
			UpdatedAt:         ctUpdatedAt.Time,
		}
		if ctEffective.Valid {
			contract.EffectiveDate = ctEffective.Time
		}
		if ctExpiration.Valid {
			contract.ExpirationDate = ctExpiration.Time
		}
		if ctSent.Valid {
			contract.SentToAthleteAt = ctSent.Time
		}
		if ctSigned.Valid {
			contract.SignedAt = ctSigned.Time
		}
		if err := unmarshalJSONB(ctDeliverables, &contract.Deliverables); err != nil {
			return nil, err
		}
		if err := unmarshalJSONB(ctPaymentSchedule, &contract.PaymentSchedule); err != nil {
			return nil, err
		}
		if err := unmarshalJSONB(ctAuditTrail, &contract.AuditTrail); err != nil {
			return nil, err
		}
		deal.Contract = contract
		deal.DeliverablesStatus = deliverablesStatusFor(app, contract)
	} else {
		deal.DeliverablesStatus = deliverablesStatusFor(app, nil)
	}

	return deal, nil
}

// deliverablesStatusFor は応募と契約の状態から成果物の進行状況を導出する。
func deliverablesStatusFor(app *model.Application, contract *model.Contract) model.DeliverablesStatus {
	if app.BrandApproved {
		return model.DeliverablesApproved
	}
	if app.AthleteSubmitted {
		return model.DeliverablesSubmitted
	}
	if contract != nil && contract.Status == model.ContractStatusRejected {
		return model.DeliverablesRejected
	}
	return model.DeliverablesInProgress
}

// compile-time interface check
var _ DealRepository = (*PostgresDealRepo)(nil)
