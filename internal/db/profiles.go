package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const profileColumns = `user_id, bio, skills, years_of_experience, experience_level,
	        education, work_experience, cv_text, cv_url, location,
	        embedding_updated_at, created_at, updated_at`

// GetProfileByUserID retrieves a candidate profile by its owning user
func (db *DB) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`,
		userID,
	)
	p, err := scanProfile(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// GetProfilesByUserIDs retrieves profiles for the given users, used to
// re-hydrate match results for display.
func (db *DB) GetProfilesByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = ANY($1)`,
		userIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	var bio, cvText, cvURL, location, experienceLevel *string
	var years *int
	var educationJSON, workJSON []byte

	err := row.Scan(&p.UserID, &bio, &p.Skills, &years, &experienceLevel,
		&educationJSON, &workJSON, &cvText, &cvURL, &location,
		&p.EmbeddingUpdatedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if bio != nil {
		p.Bio = *bio
	}
	if cvText != nil {
		p.CVText = *cvText
	}
	if cvURL != nil {
		p.CVURL = *cvURL
	}
	if location != nil {
		p.Location = *location
	}
	if experienceLevel != nil {
		p.ExperienceLevel = ExperienceLevel(*experienceLevel)
	}
	if years != nil {
		p.YearsOfExperience = *years
	}

	parseProfileJSON(&p, educationJSON, workJSON)

	return &p, nil
}

// parseProfileJSON fills the JSONB-backed sections. A malformed row loses
// that section from the rendered profile text, so the failure is logged
// rather than swallowed; the scan itself still succeeds.
func parseProfileJSON(p *Profile, educationJSON, workJSON []byte) {
	if educationJSON != nil {
		if err := json.Unmarshal(educationJSON, &p.Education); err != nil {
			log.Printf("[db] profile %s: failed to parse education JSON: %v", p.UserID, err)
		}
	}
	if workJSON != nil {
		if err := json.Unmarshal(workJSON, &p.WorkExperience); err != nil {
			log.Printf("[db] profile %s: failed to parse work experience JSON: %v", p.UserID, err)
		}
	}
}
