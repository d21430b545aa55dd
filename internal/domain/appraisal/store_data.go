package appraisal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateCycle(ctx context.Context, cycle Cycle) (string, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO appraisal_cycles (name, year, start_date, end_date, status, description)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, cycle.Name, cycle.Year, cycle.StartDate, cycle.EndDate, cycle.Status, cycle.Description).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListCycles(ctx context.Context) ([]Cycle, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, year, start_date, end_date, status, description
    FROM appraisal_cycles
    ORDER BY start_date DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []Cycle
	for rows.Next() {
		var cycle Cycle
		if err := rows.Scan(&cycle.ID, &cycle.Name, &cycle.Year, &cycle.StartDate, &cycle.EndDate, &cycle.Status, &cycle.Description); err != nil {
			return nil, err
		}
		cycles = append(cycles, cycle)
	}
	return cycles, rows.Err()
}

func (s *Store) GetCycle(ctx context.Context, cycleID string) (Cycle, error) {
	var cycle Cycle
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, year, start_date, end_date, status, description
    FROM appraisal_cycles
    WHERE id = $1
  `, cycleID).Scan(&cycle.ID, &cycle.Name, &cycle.Year, &cycle.StartDate, &cycle.EndDate, &cycle.Status, &cycle.Description)
	if err != nil {
		return Cycle{}, wrapNotFound(err, "cycle %s", cycleID)
	}
	return cycle, nil
}

func (s *Store) UpdateCycleStatus(ctx context.Context, cycleID, status string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE appraisal_cycles SET status = $1 WHERE id = $2", status, cycleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cycle %s: %w", cycleID, ErrNotFound)
	}
	return nil
}

func (s *Store) CreateTemplate(ctx context.Context, tmpl Template) (string, error) {
	sectionsJSON, err := json.Marshal(tmpl.Sections)
	if err != nil {
		return "", err
	}
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO appraisal_templates (name, review_type, is_default, sections_json)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, tmpl.Name, tmpl.ReviewType, tmpl.IsDefault, sectionsJSON).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListTemplates(ctx context.Context) ([]Template, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, review_type, is_default, sections_json
    FROM appraisal_templates
    ORDER BY created_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []Template
	for rows.Next() {
		var tmpl Template
		var sectionsJSON []byte
		if err := rows.Scan(&tmpl.ID, &tmpl.Name, &tmpl.ReviewType, &tmpl.IsDefault, &sectionsJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(sectionsJSON, &tmpl.Sections); err != nil {
			tmpl.Sections = nil
		}
		templates = append(templates, tmpl)
	}
	return templates, rows.Err()
}

func (s *Store) GetTemplate(ctx context.Context, templateID string) (Template, error) {
	var tmpl Template
	var sectionsJSON []byte
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, review_type, is_default, sections_json
    FROM appraisal_templates
    WHERE id = $1
  `, templateID).Scan(&tmpl.ID, &tmpl.Name, &tmpl.ReviewType, &tmpl.IsDefault, &sectionsJSON)
	if err != nil {
		return Template{}, wrapNotFound(err, "template %s", templateID)
	}
	if err := json.Unmarshal(sectionsJSON, &tmpl.Sections); err != nil {
		tmpl.Sections = nil
	}
	return tmpl, nil
}

func (s *Store) CreateAppraisal(ctx context.Context, a Appraisal) (string, bool, error) {
	goalsJSON, err := json.Marshal(orEmptyGoals(a.Goals))
	if err != nil {
		return "", false, err
	}
	competenciesJSON, err := json.Marshal(orEmptyCompetencies(a.Competencies))
	if err != nil {
		return "", false, err
	}

	var id string
	err = s.DB.QueryRow(ctx, `
    INSERT INTO appraisals (cycle_id, employee_id, manager_id, template_id, status, goals_json, competencies_json, comments)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    ON CONFLICT (cycle_id, employee_id) DO NOTHING
    RETURNING id
  `, a.CycleID, a.EmployeeID, a.ManagerID, a.TemplateID, a.Status, goalsJSON, competenciesJSON, a.Comments).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

const appraisalColumns = `
    id, cycle_id, employee_id, manager_id, template_id, status,
    goals_json, competencies_json, self_review_json, manager_review_json, hr_review_json,
    overall_rating, COALESCE(comments, ''), completed_at, created_at`

func (s *Store) GetAppraisal(ctx context.Context, appraisalID string) (Appraisal, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT`+appraisalColumns+`
    FROM appraisals
    WHERE id = $1
  `, appraisalID)
	a, err := scanAppraisal(row)
	if err != nil {
		return Appraisal{}, wrapNotFound(err, "appraisal %s", appraisalID)
	}
	return a, nil
}

func (s *Store) ListAppraisals(ctx context.Context, filter Filter) ([]Appraisal, error) {
	query := `
    SELECT` + appraisalColumns + `
    FROM appraisals
    WHERE 1=1`
	var args []any
	if filter.CycleID != "" {
		args = append(args, filter.CycleID)
		query += fmt.Sprintf(" AND cycle_id = $%d", len(args))
	}
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if filter.ManagerID != "" {
		args = append(args, filter.ManagerID)
		query += fmt.Sprintf(" AND manager_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppraisals(rows)
}

func (s *Store) ListManagerRepairCandidates(ctx context.Context) ([]Appraisal, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+appraisalColumns+`
    FROM appraisals
    WHERE manager_id = '' OR manager_id = $1 OR manager_id = employee_id::text
  `, UnknownManagerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppraisals(rows)
}

func (s *Store) UpdateAppraisalManager(ctx context.Context, appraisalID, managerID string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE appraisals SET manager_id = $1 WHERE id = $2", managerID, appraisalID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("appraisal %s: %w", appraisalID, ErrNotFound)
	}
	return nil
}

func (s *Store) UpdateAppraisalFields(ctx context.Context, appraisalID string, goals []Goal, competencies []Competency, comments *string) error {
	var goalsJSON, competenciesJSON []byte
	var err error
	if goals != nil {
		if goalsJSON, err = json.Marshal(goals); err != nil {
			return err
		}
	}
	if competencies != nil {
		if competenciesJSON, err = json.Marshal(competencies); err != nil {
			return err
		}
	}
	_, err = s.DB.Exec(ctx, `
    UPDATE appraisals
    SET goals_json = COALESCE($1, goals_json),
        competencies_json = COALESCE($2, competencies_json),
        comments = COALESCE($3, comments),
        updated_at = now()
    WHERE id = $4
  `, goalsJSON, competenciesJSON, comments, appraisalID)
	return err
}

func (s *Store) UpdateAppraisalStatus(ctx context.Context, appraisalID, status string, completedAt *time.Time) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE appraisals
    SET status = $1, completed_at = $2, updated_at = now()
    WHERE id = $3
  `, status, completedAt, appraisalID)
	return err
}

func (s *Store) UpdateOverallRating(ctx context.Context, appraisalID string, rating float64) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE appraisals
    SET overall_rating = $1, updated_at = now()
    WHERE id = $2
  `, rating, appraisalID)
	return err
}

// SubmitReview persists one submission as a single transaction: the review
// document, the status advance, the recomputed rating and the completion
// timestamp all land together or not at all.
func (s *Store) SubmitReview(ctx context.Context, a Appraisal, role string) error {
	var column string
	var review *Response
	switch role {
	case RoleSelf:
		column, review = "self_review_json", a.SelfReview
	case RoleManager:
		column, review = "manager_review_json", a.ManagerReview
	case RoleHR:
		column, review = "hr_review_json", a.HRReview
	default:
		return fmt.Errorf("unknown review role %q", role)
	}
	reviewJSON, err := json.Marshal(review)
	if err != nil {
		return err
	}

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, fmt.Sprintf(`
    UPDATE appraisals
    SET %s = $1, status = $2, overall_rating = $3, completed_at = $4, updated_at = now()
    WHERE id = $5
  `, column), reviewJSON, a.Status, a.OverallRating, a.CompletedAt, a.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("appraisal %s: %w", a.ID, ErrNotFound)
	}
	return tx.Commit(ctx)
}

func (s *Store) CreateFeedback360(ctx context.Context, fb Feedback360) (string, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO feedback360 (appraisal_id, reviewee_id, reviewer_id, relationship, status)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, fb.AppraisalID, fb.RevieweeID, fb.ReviewerID, fb.Relationship, fb.Status).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetFeedback360(ctx context.Context, feedbackID string) (Feedback360, error) {
	var fb Feedback360
	var responsesJSON []byte
	err := s.DB.QueryRow(ctx, `
    SELECT id, appraisal_id, reviewee_id, reviewer_id, relationship, status, responses_json, submitted_at
    FROM feedback360
    WHERE id = $1
  `, feedbackID).Scan(&fb.ID, &fb.AppraisalID, &fb.RevieweeID, &fb.ReviewerID, &fb.Relationship, &fb.Status, &responsesJSON, &fb.SubmittedAt)
	if err != nil {
		return Feedback360{}, wrapNotFound(err, "feedback %s", feedbackID)
	}
	if len(responsesJSON) > 0 {
		var responses Response
		if err := json.Unmarshal(responsesJSON, &responses); err == nil {
			fb.Responses = &responses
		}
	}
	return fb, nil
}

func (s *Store) ListFeedback360(ctx context.Context, appraisalID string) ([]Feedback360, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, appraisal_id, reviewee_id, reviewer_id, relationship, status, responses_json, submitted_at
    FROM feedback360
    WHERE appraisal_id = $1
    ORDER BY created_at DESC
  `, appraisalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Feedback360
	for rows.Next() {
		var fb Feedback360
		var responsesJSON []byte
		if err := rows.Scan(&fb.ID, &fb.AppraisalID, &fb.RevieweeID, &fb.ReviewerID, &fb.Relationship, &fb.Status, &responsesJSON, &fb.SubmittedAt); err != nil {
			return nil, err
		}
		if len(responsesJSON) > 0 {
			var responses Response
			if err := json.Unmarshal(responsesJSON, &responses); err == nil {
				fb.Responses = &responses
			}
		}
		out = append(out, fb)
	}
	return out, rows.Err()
}

func (s *Store) SubmitFeedback360(ctx context.Context, feedbackID string, responses Response, submittedAt time.Time) error {
	responsesJSON, err := json.Marshal(responses)
	if err != nil {
		return err
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE feedback360
    SET responses_json = $1, status = $2, submitted_at = $3
    WHERE id = $4
  `, responsesJSON, Feedback360StatusCompleted, submittedAt, feedbackID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("feedback %s: %w", feedbackID, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppraisal(row rowScanner) (Appraisal, error) {
	var a Appraisal
	var goalsJSON, competenciesJSON, selfJSON, managerJSON, hrJSON []byte
	if err := row.Scan(
		&a.ID, &a.CycleID, &a.EmployeeID, &a.ManagerID, &a.TemplateID, &a.Status,
		&goalsJSON, &competenciesJSON, &selfJSON, &managerJSON, &hrJSON,
		&a.OverallRating, &a.Comments, &a.CompletedAt, &a.CreatedAt,
	); err != nil {
		return Appraisal{}, err
	}
	if err := json.Unmarshal(goalsJSON, &a.Goals); err != nil {
		a.Goals = nil
	}
	if err := json.Unmarshal(competenciesJSON, &a.Competencies); err != nil {
		a.Competencies = nil
	}
	a.SelfReview = unmarshalReview(selfJSON)
	a.ManagerReview = unmarshalReview(managerJSON)
	a.HRReview = unmarshalReview(hrJSON)
	return a, nil
}

func scanAppraisals(rows pgx.Rows) ([]Appraisal, error) {
	var out []Appraisal
	for rows.Next() {
		a, err := scanAppraisal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func unmarshalReview(payload []byte) *Response {
	if len(payload) == 0 {
		return nil
	}
	var response Response
	if err := json.Unmarshal(payload, &response); err != nil {
		return nil
	}
	return &response
}

func orEmptyGoals(goals []Goal) []Goal {
	if goals == nil {
		return []Goal{}
	}
	return goals
}

func orEmptyCompetencies(competencies []Competency) []Competency {
	if competencies == nil {
		return []Competency{}
	}
	return competencies
}

func wrapNotFound(err error, format string, args ...any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
	}
	return err
}
