package appraisal

import (
	"context"
	"time"
)

type Filter struct {
	CycleID    string
	EmployeeID string
	ManagerID  string
}

type StoreAPI interface {
	CreateCycle(ctx context.Context, cycle Cycle) (string, error)
	ListCycles(ctx context.Context) ([]Cycle, error)
	GetCycle(ctx context.Context, cycleID string) (Cycle, error)
	UpdateCycleStatus(ctx context.Context, cycleID, status string) error

	CreateTemplate(ctx context.Context, tmpl Template) (string, error)
	ListTemplates(ctx context.Context) ([]Template, error)
	GetTemplate(ctx context.Context, templateID string) (Template, error)

	// CreateAppraisal inserts a new appraisal, honouring the
	// (cycle, employee) uniqueness guard. created is false when the pair
	// already exists.
	CreateAppraisal(ctx context.Context, a Appraisal) (id string, created bool, err error)
	GetAppraisal(ctx context.Context, appraisalID string) (Appraisal, error)
	ListAppraisals(ctx context.Context, filter Filter) ([]Appraisal, error)
	ListManagerRepairCandidates(ctx context.Context) ([]Appraisal, error)
	UpdateAppraisalManager(ctx context.Context, appraisalID, managerID string) error
	UpdateAppraisalFields(ctx context.Context, appraisalID string, goals []Goal, competencies []Competency, comments *string) error
	UpdateAppraisalStatus(ctx context.Context, appraisalID, status string, completedAt *time.Time) error
	UpdateOverallRating(ctx context.Context, appraisalID string, rating float64) error

	// SubmitReview persists the review payload, the status advance and the
	// recomputed rating of one submission as a single transaction. Readers
	// never observe a partial submission.
	SubmitReview(ctx context.Context, a Appraisal, role string) error

	CreateFeedback360(ctx context.Context, fb Feedback360) (string, error)
	GetFeedback360(ctx context.Context, feedbackID string) (Feedback360, error)
	ListFeedback360(ctx context.Context, appraisalID string) ([]Feedback360, error)
	SubmitFeedback360(ctx context.Context, feedbackID string, responses Response, submittedAt time.Time) error
}
