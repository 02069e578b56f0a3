package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hitoshi/dapup/internal/model"
)

// PostgresBrandRepo はPostgreSQLを使用したブランドプロファイルリポジトリ。
type PostgresBrandRepo struct {
	db *sql.DB
}

// NewPostgresBrandRepo はPostgresBrandRepoを生成する。
func NewPostgresBrandRepo(db *sql.DB) *PostgresBrandRepo {
	return &PostgresBrandRepo{db: db}
}

const brandColumns = `uid, name, logo_url, image_url, owners, email, email_lower, created_at, updated_at`

func scanBrand(row rowScanner) (*model.BrandProfile, error) {
	p := &model.BrandProfile{}
	var owners []byte
	err := row.Scan(
		&p.UID, &p.Name, &p.LogoURL, &p.ImageURL, &owners,
		&p.Email, &p.EmailLower, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan brand profile: %w", err)
	}
	if err := unmarshalJSONB(owners, &p.Owners); err != nil {
		return nil, err
	}
	return p, nil
}

// FindByUID は指定UIDのプロファイルを取得する。見つからない場合はnilを返す。
func (r *PostgresBrandRepo) FindByUID(ctx context.Context, uid string) (*model.BrandProfile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+brandColumns+` FROM brand_profiles WHERE uid = $1`,
		uid,
	)
	return scanBrand(row)
}

// Create はプロファイルを作成する。
func (r *PostgresBrandRepo) Create(ctx context.Context, profile *model.BrandProfile) error {
	owners, err := marshalJSONB(profile.Owners, "[]")
	if err != nil {
		return err
	}
	if profile.EmailLower == "" {
		profile.EmailLower = strings.ToLower(profile.Email)
	}

	err = r.db.QueryRowContext(ctx,
		`INSERT INTO brand_profiles (uid, name, logo_url, image_url, owners, email, email_lower)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		profile.UID, profile.Name, profile.LogoURL, profile.ImageURL,
		owners, profile.Email, profile.EmailLower,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert brand profile: %w", err)
	}
	return nil
}

// Update はプロファイルを部分更新する。nilフィールドは変更しない。
func (r *PostgresBrandRepo) Update(ctx context.Context, uid string, input *model.UpdateBrandInput) (*model.BrandProfile, error) {
	set := []string{"updated_at = now()"}
	args := []any{uid}

	addSet := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if input.Name != nil {
		addSet("name", *input.Name)
	}
	if input.LogoURL != nil {
		addSet("logo_url", *input.LogoURL)
	}
	if input.ImageURL != nil {
		addSet("image_url", *input.ImageURL)
	}
	if input.Owners != nil {
		data, err := marshalJSONB(input.Owners, "[]")
		if err != nil {
			return nil, err
		}
		addSet("owners", data)
	}

	query := fmt.Sprintf(
		`UPDATE brand_profiles SET %s WHERE uid = $1 RETURNING %s`,
		strings.Join(set, ", "), brandColumns,
	)
	return scanBrand(r.db.QueryRowContext(ctx, query, args...))
}

// List は全ブランドプロファイルを返す。
func (r *PostgresBrandRepo) List(ctx context.Context) ([]*model.BrandProfile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+brandColumns+` FROM brand_profiles ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list brand profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*model.BrandProfile
	for rows.Next() {
		p, err := scanBrand(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate brand profiles: %w", err)
	}
	return profiles, nil
}

// compile-time interface check
var _ BrandRepository = (*PostgresBrandRepo)(nil)
