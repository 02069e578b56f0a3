package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/dapup/internal/model"
)

// PostgresContractRepo はPostgreSQLを使用した契約書リポジトリ。
type PostgresContractRepo struct {
	db *sql.DB
}

// NewPostgresContractRepo はPostgresContractRepoを生成する。
func NewPostgresContractRepo(db *sql.DB) *PostgresContractRepo {
	return &PostgresContractRepo{db: db}
}

const contractColumns = `id, campaign_id, athlete_id, brand_id, status,
	brand_name, athlete_name, effective_date, expiration_date, exclusivity,
	deliverables, total_compensation, payment_schedule, payment_method,
	usage_rights, usage_duration, pdf_url, rejection_reason,
	sent_to_athlete_at, signed_at, audit_trail, created_at, updated_at`

func scanContract(row rowScanner) (*model.Contract, error) {
	c := &model.Contract{}
	var deliverables, paymentSchedule, auditTrail []byte
	var effectiveDate, expirationDate, sentToAthleteAt, signedAt sql.NullTime
	err := row.Scan(
		&c.ID, &c.CampaignID, &c.AthleteID, &c.BrandID, &c.Status,
		&c.BrandName, &c.AthleteName, &effectiveDate, &expirationDate,
		&c.Exclusivity, &deliverables, &c.TotalCompensation, &paymentSchedule,
		&c.PaymentMethod, &c.UsageRights, &c.UsageDuration, &c.PDFURL,
		&c.RejectionReason, &sentToAthleteAt, &signedAt, &auditTrail,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan contract: %w", err)
	}
	if err := unmarshalJSONB(deliverables, &c.Deliverables); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(paymentSchedule, &c.PaymentSchedule); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(auditTrail, &c.AuditTrail); err != nil {
		return nil, err
	}
	if effectiveDate.Valid {
		c.EffectiveDate = effectiveDate.Time
	}
	if expirationDate.Valid {
		c.ExpirationDate = expirationDate.Time
	}
	if sentToAthleteAt.Valid {
		c.SentToAthleteAt = sentToAthleteAt.Time
	}
	if signedAt.Valid {
		c.SignedAt = signedAt.Time
	}
	return c, nil
}

// nullableTime はゼロ値の時刻をNULLとして書き込むための変換。
func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

// FindByApplication は指定応募の契約を取得する。見つからない場合はnilを返す。
func (r *PostgresContractRepo) FindByApplication(ctx context.Context, campaignID, athleteID string) (*model.Contract, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+contractColumns+` FROM contracts WHERE campaign_id = $1 AND athlete_id = $2`,
		campaignID, athleteID,
	)
	return scanContract(row)
}

// Create は契約ドラフトを作成する。IDが未設定の場合は採番する。
func (r *PostgresContractRepo) Create(ctx context.Context, contract *model.Contract) error {
	if contract.ID == "" {
		contract.ID = uuid.NewString()
	}
	if contract.Status == "" {
		contract.Status = model.ContractStatusDraft
	}
	deliverables, err := marshalJSONB(contract.Deliverables, "[]")
	if err != nil {
		return err
	}
	paymentSchedule, err := marshalJSONB(contract.PaymentSchedule, "[]")
	if err != nil {
		return err
	}
	auditTrail, err := marshalJSONB(contract.AuditTrail, "[]")
	if err != nil {
		return err
	}

	err = r.db.QueryRowContext(ctx,
		`INSERT INTO contracts (
			id, campaign_id, athlete_id, brand_id, status, brand_name,
			athlete_name, effective_date, expiration_date, exclusivity,
			deliverables, total_compensation, payment_schedule, payment_method,
			usage_rights, usage_duration, pdf_url, rejection_reason,
			sent_to_athlete_at, signed_at, audit_trail
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING created_at, updated_at`,
		contract.ID, contract.CampaignID, contract.AthleteID, contract.BrandID,
		contract.Status, contract.BrandName, contract.AthleteName,
		nullableTime(contract.EffectiveDate), nullableTime(contract.ExpirationDate),
		contract.Exclusivity, deliverables, contract.TotalCompensation,
		paymentSchedule, contract.PaymentMethod, contract.UsageRights,
		contract.UsageDuration, contract.PDFURL, contract.RejectionReason,
		nullableTime(contract.SentToAthleteAt), nullableTime(contract.SignedAt),
		auditTrail,
	).Scan(&contract.CreatedAt, &contract.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert contract: %w", err)
	}
	return nil
}

// Update は契約を部分更新する。nilフィールドは変更しない。
func (r *PostgresContractRepo) Update(ctx context.Context, campaignID, athleteID string, input *model.UpdateContractInput) (*model.Contract, error) {
	set := []string{"updated_at = now()"}
	args := []any{campaignID, athleteID}

	addSet := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if input.Status != nil {
		addSet("status", *input.Status)
	}
	if input.BrandName != nil {
		addSet("brand_name", *input.BrandName)
	}
	if input.AthleteName != nil {
		addSet("athlete_name", *input.AthleteName)
	}
	if input.Deliverables != nil {
		data, err := marshalJSONB(input.Deliverables, "[]")
		if err != nil {
			return nil, err
		}
		addSet("deliverables", data)
	}
	if input.TotalCompensation != nil {
		addSet("total_compensation", *input.TotalCompensation)
	}
	if input.PaymentSchedule != nil {
		data, err := marshalJSONB(input.PaymentSchedule, "[]")
		if err != nil {
			return nil, err
		}
		addSet("payment_schedule", data)
	}
	if input.PaymentMethod != nil {
		addSet("payment_method", *input.PaymentMethod)
	}
	if input.UsageRights != nil {
		addSet("usage_rights", *input.UsageRights)
	}
	if input.UsageDuration != nil {
		addSet("usage_duration", *input.UsageDuration)
	}
	if input.PDFURL != nil {
		addSet("pdf_url", *input.PDFURL)
	}
	if input.RejectionReason != nil {
		addSet("rejection_reason", *input.RejectionReason)
	}

	query := fmt.Sprintf(
		`UPDATE contracts SET %s WHERE campaign_id = $1 AND athlete_id = $2 RETURNING %s`,
		strings.Join(set, ", "), contractColumns,
	)
	return scanContract(r.db.QueryRowContext(ctx, query, args...))
}

// MarkSent は契約をアスリートへ送付済みにする。
// ステータスをsent_to_athleteへ遷移させ、送付時刻を記録する。
func (r *PostgresContractRepo) MarkSent(ctx context.Context, campaignID, athleteID string, sentAt time.Time) (*model.Contract, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE contracts
		 SET status = $3, sent_to_athlete_at = $4, updated_at = now()
		 WHERE campaign_id = $1 AND athlete_id = $2
		 RETURNING `+contractColumns,
		campaignID, athleteID, model.ContractStatusSentToAthlete, sentAt,
	)
	return scanContract(row)
}

// compile-time interface check
var _ ContractRepository = (*PostgresContractRepo)(nil)
