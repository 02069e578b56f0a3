package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hitoshi/dapup/internal/model"
)

// PostgresAthleteRepo はPostgreSQLを使用したアスリートプロファイルリポジトリ。
type PostgresAthleteRepo struct {
	db *sql.DB
}

// NewPostgresAthleteRepo はPostgresAthleteRepoを生成する。
func NewPostgresAthleteRepo(db *sql.DB) *PostgresAthleteRepo {
	return &PostgresAthleteRepo{db: db}
}

const athleteColumns = `uid, display_name, school, sport, photo_url, visibility,
	email, email_lower, profile_completed, headline, bio, location, city, state,
	major, graduation_year, position, team, focus_areas, social_media_links,
	declined_campaigns, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAthlete(row rowScanner) (*model.AthleteProfile, error) {
	p := &model.AthleteProfile{}
	var focusAreas, socialLinks, declined []byte
	err := row.Scan(
		&p.UID, &p.DisplayName, &p.School, &p.Sport, &p.PhotoURL, &p.Visibility,
		&p.Email, &p.EmailLower, &p.ProfileCompleted, &p.Headline, &p.Bio,
		&p.Location, &p.City, &p.State, &p.Major, &p.GraduationYear,
		&p.Position, &p.Team, &focusAreas, &socialLinks, &declined,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan athlete profile: %w", err)
	}
	if err := unmarshalJSONB(focusAreas, &p.FocusAreas); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(socialLinks, &p.SocialMediaLinks); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(declined, &p.DeclinedCampaigns); err != nil {
		return nil, err
	}
	return p, nil
}

// FindByUID は指定UIDのプロファイルを取得する。見つからない場合はnilを返す。
func (r *PostgresAthleteRepo) FindByUID(ctx context.Context, uid string) (*model.AthleteProfile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+athleteColumns+` FROM athlete_profiles WHERE uid = $1`,
		uid,
	)
	return scanAthlete(row)
}

// Create はプロファイルを作成する。
func (r *PostgresAthleteRepo) Create(ctx context.Context, profile *model.AthleteProfile) error {
	focusAreas, err := marshalJSONB(profile.FocusAreas, "[]")
	if err != nil {
		return err
	}
	socialLinks, err := marshalJSONB(profile.SocialMediaLinks, "{}")
	if err != nil {
		return err
	}
	declined, err := marshalJSONB(profile.DeclinedCampaigns, "{}")
	if err != nil {
		return err
	}
	if profile.EmailLower == "" {
		profile.EmailLower = strings.ToLower(profile.Email)
	}

	err = r.db.QueryRowContext(ctx,
		`INSERT INTO athlete_profiles (
			uid, display_name, school, sport, photo_url, visibility,
			email, email_lower, profile_completed, headline, bio, location,
			city, state, major, graduation_year, position, team,
			focus_areas, social_media_links, declined_campaigns
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING created_at, updated_at`,
		profile.UID, profile.DisplayName, profile.School, profile.Sport,
		profile.PhotoURL, profile.Visibility, profile.Email, profile.EmailLower,
		profile.ProfileCompleted, profile.Headline, profile.Bio, profile.Location,
		profile.City, profile.State, profile.Major, profile.GraduationYear,
		profile.Position, profile.Team, focusAreas, socialLinks, declined,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert athlete profile: %w", err)
	}
	return nil
}

// Update はプロファイルを部分更新する。nilフィールドは変更しない。
func (r *PostgresAthleteRepo) Update(ctx context.Context, uid string, input *model.UpdateAthleteInput) (*model.AthleteProfile, error) {
	set := []string{"updated_at = now()"}
	args := []any{uid}

	addSet := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if input.DisplayName != nil {
		addSet("display_name", *input.DisplayName)
	}
	if input.School != nil {
		addSet("school", *input.School)
	}
	if input.Sport != nil {
		addSet("sport", *input.Sport)
	}
	if input.PhotoURL != nil {
		addSet("photo_url", *input.PhotoURL)
	}
	if input.Visibility != nil {
		addSet("visibility", *input.Visibility)
	}
	if input.ProfileCompleted != nil {
		addSet("profile_completed", *input.ProfileCompleted)
	}
	if input.Headline != nil {
		addSet("headline", *input.Headline)
	}
	if input.Bio != nil {
		addSet("bio", *input.Bio)
	}
	if input.Location != nil {
		addSet("location", *input.Location)
	}
	if input.Major != nil {
		addSet("major", *input.Major)
	}
	if input.GraduationYear != nil {
		addSet("graduation_year", *input.GraduationYear)
	}
	if input.Position != nil {
		addSet("position", *input.Position)
	}
	if input.Team != nil {
		addSet("team", *input.Team)
	}
	if input.FocusAreas != nil {
		data, err := marshalJSONB(input.FocusAreas, "[]")
		if err != nil {
			return nil, err
		}
		addSet("focus_areas", data)
	}
	if input.SocialMediaLinks != nil {
		data, err := marshalJSONB(input.SocialMediaLinks, "{}")
		if err != nil {
			return nil, err
		}
		addSet("social_media_links", data)
	}
	if input.DeclinedCampaigns != nil {
		data, err := marshalJSONB(input.DeclinedCampaigns, "{}")
		if err != nil {
			return nil, err
		}
		addSet("declined_campaigns", data)
	}

	query := fmt.Sprintf(
		`UPDATE athlete_profiles SET %s WHERE uid = $1 RETURNING %s`,
		strings.Join(set, ", "), athleteColumns,
	)
	return scanAthlete(r.db.QueryRowContext(ctx, query, args...))
}

// List は全アスリートプロファイルを返す。
func (r *PostgresAthleteRepo) List(ctx context.Context) ([]*model.AthleteProfile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+athleteColumns+` FROM athlete_profiles ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list athlete profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*model.AthleteProfile
	for rows.Next() {
		p, err := scanAthlete(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate athlete profiles: %w", err)
	}
	return profiles, nil
}

// compile-time interface check
var _ AthleteRepository = (*PostgresAthleteRepo)(nil)
