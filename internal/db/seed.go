package db

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"appraisals/internal/domain/appraisal"
	"appraisals/internal/domain/auth"
	"appraisals/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureAdminUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		return err
	}
	return ensureDefaultTemplate(ctx, pool)
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return pool.QueryRow(ctx, `
    INSERT INTO users (email, password_hash, role, status)
    VALUES ($1, $2, $3, 'active')
    RETURNING id
  `, email, hash, auth.RoleAdmin).Scan(&id)
}

// ensureDefaultTemplate seeds a minimal self+manager template so a fresh
// install can provision a cycle without building one first.
func ensureDefaultTemplate(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM appraisal_templates").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	sections := []appraisal.Section{
		{
			Title:  "Overall Performance",
			Weight: 100,
			Questions: []appraisal.Question{
				{ID: "q-overall-rating", Text: "Rate overall performance for this cycle", Type: appraisal.QuestionTypeRating, Required: true},
				{ID: "q-overall-comments", Text: "Summarize key achievements and growth areas", Type: appraisal.QuestionTypeText, Required: false},
			},
		},
	}
	sectionsJSON, err := json.Marshal(sections)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO appraisal_templates (name, description, review_type, sections_json)
    VALUES ($1, $2, $3, $4)
  `, "Standard Review", "Default self and manager review template", appraisal.ReviewTypeBoth, sectionsJSON)
	return err
}
