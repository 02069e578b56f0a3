package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hitoshi/dapup/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

const userColumns = `uid, role, email, email_lower, created_at, updated_at`

func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.UID, &user.Role, &user.Email, &user.EmailLower, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}

// FindByUID は指定UIDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByUID(ctx context.Context, uid string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE uid = $1`,
		uid,
	)
	return scanUser(row)
}

// Create はユーザーレコードを作成する。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	if user.EmailLower == "" {
		user.EmailLower = strings.ToLower(user.Email)
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (uid, role, email, email_lower)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`,
		user.UID, user.Role, user.Email, user.EmailLower,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// UpdateEmail はユーザーのメールアドレスを更新する。
func (r *PostgresUserRepo) UpdateEmail(ctx context.Context, uid, email string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE users
		 SET email = $2, email_lower = $3, updated_at = now()
		 WHERE uid = $1
		 RETURNING `+userColumns,
		uid, email, strings.ToLower(email),
	)
	return scanUser(row)
}

// List は全ユーザーを作成日時の昇順で返す。
func (r *PostgresUserRepo) List(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user := &model.User{}
		if err := rows.Scan(&user.UID, &user.Role, &user.Email, &user.EmailLower, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// DeleteByUID は指定UIDのユーザーを削除する。
// 関連するプロファイル、応募、契約はCASCADE削除される。
func (r *PostgresUserRepo) DeleteByUID(ctx context.Context, uid string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM users WHERE uid = $1`,
		uid,
	)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user not found: %s", uid)
	}
	return nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
