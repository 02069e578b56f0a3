package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hitoshi/dapup/internal/model"
)

// PostgresDirectorRepo はPostgreSQLを使用したディレクタープロファイルリポジトリ。
type PostgresDirectorRepo struct {
	db *sql.DB
}

// NewPostgresDirectorRepo はPostgresDirectorRepoを生成する。
func NewPostgresDirectorRepo(db *sql.DB) *PostgresDirectorRepo {
	return &PostgresDirectorRepo{db: db}
}

const directorColumns = `uid, title, email, email_lower, created_at, updated_at`

func scanDirector(row rowScanner) (*model.DirectorProfile, error) {
	p := &model.DirectorProfile{}
	err := row.Scan(&p.UID, &p.Title, &p.Email, &p.EmailLower, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan director profile: %w", err)
	}
	return p, nil
}

// FindByUID は指定UIDのプロファイルを取得する。見つからない場合はnilを返す。
func (r *PostgresDirectorRepo) FindByUID(ctx context.Context, uid string) (*model.DirectorProfile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+directorColumns+` FROM director_profiles WHERE uid = $1`,
		uid,
	)
	return scanDirector(row)
}

// Create はプロファイルを作成する。
func (r *PostgresDirectorRepo) Create(ctx context.Context, profile *model.DirectorProfile) error {
	if profile.EmailLower == "" {
		profile.EmailLower = strings.ToLower(profile.Email)
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO director_profiles (uid, title, email, email_lower)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`,
		profile.UID, profile.Title, profile.Email, profile.EmailLower,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert director profile: %w", err)
	}
	return nil
}

// Update はプロファイルを部分更新する。nilフィールドは変更しない。
func (r *PostgresDirectorRepo) Update(ctx context.Context, uid string, input *model.UpdateDirectorInput) (*model.DirectorProfile, error) {
	set := []string{"updated_at = now()"}
	args := []any{uid}

	if input.Title != nil {
		args = append(args, *input.Title)
		set = append(set, fmt.Sprintf("title = $%d", len(args)))
	}

	query := fmt.Sprintf(
		`UPDATE director_profiles SET %s WHERE uid = $1 RETURNING %s`,
		strings.Join(set, ", "), directorColumns,
	)
	return scanDirector(r.db.QueryRowContext(ctx, query, args...))
}

// List は全ディレクタープロファイルを返す。
func (r *PostgresDirectorRepo) List(ctx context.Context) ([]*model.DirectorProfile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+directorColumns+` FROM director_profiles ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list director profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*model.DirectorProfile
	for rows.Next() {
		p, err := scanDirector(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate director profiles: %w", err)
	}
	return profiles, nil
}

// compile-time interface check
var _ DirectorRepository = (*PostgresDirectorRepo)(nil)
