package appraisal

import (
	"context"
	"log/slog"
	"time"
)

// Notifier is the fire-and-forget notification sink. Delivery failures are
// logged by the caller and never fail the triggering operation.
type Notifier interface {
	Notify(ctx context.Context, userID, title, message, priority, link string) error
}

const (
	NotifyPriorityNormal = "normal"
	NotifyPriorityHigh   = "high"
)

type Service struct {
	store      StoreAPI
	directory  Directory
	objectives ObjectiveSource
	notify     Notifier
}

func NewService(store StoreAPI, directory Directory, source ObjectiveSource, notify Notifier) *Service {
	return &Service{store: store, directory: directory, objectives: source, notify: notify}
}

func (s *Service) CreateCycle(ctx context.Context, cycle Cycle) (string, error) {
	if cycle.Status == "" {
		cycle.Status = CycleStatusDraft
	}
	return s.store.CreateCycle(ctx, cycle)
}

func (s *Service) ListCycles(ctx context.Context) ([]Cycle, error) {
	return s.store.ListCycles(ctx)
}

func (s *Service) GetCycle(ctx context.Context, cycleID string) (Cycle, error) {
	return s.store.GetCycle(ctx, cycleID)
}

// AdvanceCycleStatus moves a cycle one step along
// draft -> active -> completed -> archived.
func (s *Service) AdvanceCycleStatus(ctx context.Context, cycleID, requested string) error {
	cycle, err := s.store.GetCycle(ctx, cycleID)
	if err != nil {
		return err
	}
	if err := NextCycleStatus(cycle.Status, requested); err != nil {
		return err
	}
	return s.store.UpdateCycleStatus(ctx, cycleID, requested)
}

func (s *Service) CreateTemplate(ctx context.Context, tmpl Template) (string, error) {
	if err := ValidateTemplate(tmpl); err != nil {
		return "", err
	}
	return s.store.CreateTemplate(ctx, tmpl)
}

func (s *Service) ListTemplates(ctx context.Context) ([]Template, error) {
	return s.store.ListTemplates(ctx)
}

func (s *Service) GetAppraisal(ctx context.Context, appraisalID string) (Appraisal, error) {
	return s.store.GetAppraisal(ctx, appraisalID)
}

func (s *Service) ListAppraisals(ctx context.Context, filter Filter) ([]Appraisal, error) {
	return s.store.ListAppraisals(ctx, filter)
}

// SubmitSelfReview records the employee's own review and advances the
// workflow. The response write, status change and rating update land in one
// store transaction.
func (s *Service) SubmitSelfReview(ctx context.Context, appraisalID, requesterEmployeeID string, response Response) (Appraisal, error) {
	a, tmpl, err := s.appraisalWithTemplate(ctx, appraisalID)
	if err != nil {
		return Appraisal{}, err
	}
	if requesterEmployeeID != a.EmployeeID {
		return Appraisal{}, ErrForbidden
	}
	if err := ApplySubmission(&a, tmpl, RoleSelf, response); err != nil {
		return Appraisal{}, err
	}
	if err := s.store.SubmitReview(ctx, a, RoleSelf); err != nil {
		return Appraisal{}, err
	}
	s.notifyEmployee(ctx, a.ManagerID, "Self review submitted",
		"A self review is ready for your manager assessment.", NotifyPriorityNormal, appraisalLink(a.ID))
	return a, nil
}

// SubmitManagerReview records the manager's review; for manager-only
// templates this completes the appraisal, for both-type templates it hands
// over to hr. The overall rating is recomputed from every submitted review.
func (s *Service) SubmitManagerReview(ctx context.Context, appraisalID, requesterEmployeeID string, response Response) (Appraisal, error) {
	a, tmpl, err := s.appraisalWithTemplate(ctx, appraisalID)
	if err != nil {
		return Appraisal{}, err
	}
	if requesterEmployeeID != a.ManagerID {
		return Appraisal{}, ErrForbidden
	}
	if err := ApplySubmission(&a, tmpl, RoleManager, response); err != nil {
		return Appraisal{}, err
	}
	if err := s.store.SubmitReview(ctx, a, RoleManager); err != nil {
		return Appraisal{}, err
	}
	s.notifyEmployee(ctx, a.EmployeeID, "Manager review submitted",
		"Your manager has completed their review.", NotifyPriorityNormal, appraisalLink(a.ID))
	return a, nil
}

// SubmitHRReview closes out a both-type appraisal. HR review is never a
// starting point in the current product surface, only the final transition.
func (s *Service) SubmitHRReview(ctx context.Context, appraisalID string, response Response) (Appraisal, error) {
	a, tmpl, err := s.appraisalWithTemplate(ctx, appraisalID)
	if err != nil {
		return Appraisal{}, err
	}
	if err := ApplySubmission(&a, tmpl, RoleHR, response); err != nil {
		return Appraisal{}, err
	}
	if err := s.store.SubmitReview(ctx, a, RoleHR); err != nil {
		return Appraisal{}, err
	}
	s.notifyEmployee(ctx, a.EmployeeID, "Appraisal completed",
		"Your appraisal has been finalized by HR.", NotifyPriorityNormal, appraisalLink(a.ID))
	s.notifyEmployee(ctx, a.ManagerID, "Appraisal completed",
		"An appraisal for your report has been finalized by HR.", NotifyPriorityNormal, appraisalLink(a.ID))
	return a, nil
}

// Cancel marks an appraisal cancelled. Terminal states stay put.
func (s *Service) Cancel(ctx context.Context, appraisalID string) error {
	a, err := s.store.GetAppraisal(ctx, appraisalID)
	if err != nil {
		return err
	}
	if a.Status == StatusCompleted || a.Status == StatusCancelled {
		return ErrInvalidTransition
	}
	return s.store.UpdateAppraisalStatus(ctx, appraisalID, StatusCancelled, nil)
}

// UpdateFields lets the assigned manager or an admin edit goals,
// competencies and comments directly. Nil slices leave the stored value
// untouched.
func (s *Service) UpdateFields(ctx context.Context, appraisalID string, goals []Goal, competencies []Competency, comments *string) error {
	if _, err := s.store.GetAppraisal(ctx, appraisalID); err != nil {
		return err
	}
	return s.store.UpdateAppraisalFields(ctx, appraisalID, goals, competencies, comments)
}

func (s *Service) CreateFeedback360(ctx context.Context, fb Feedback360) (string, error) {
	a, err := s.store.GetAppraisal(ctx, fb.AppraisalID)
	if err != nil {
		return "", err
	}
	switch fb.Relationship {
	case RelationshipPeer, RelationshipSubordinate, RelationshipCustomer, RelationshipOther:
	default:
		return "", ErrValidation
	}
	fb.RevieweeID = a.EmployeeID
	fb.Status = Feedback360StatusPending
	return s.store.CreateFeedback360(ctx, fb)
}

func (s *Service) ListFeedback360(ctx context.Context, appraisalID string) ([]Feedback360, error) {
	return s.store.ListFeedback360(ctx, appraisalID)
}

// SubmitFeedback360 completes a pending feedback request. 360 feedback lives
// outside the main workflow and never touches the overall rating.
func (s *Service) SubmitFeedback360(ctx context.Context, feedbackID, reviewerID string, responses Response) error {
	fb, err := s.store.GetFeedback360(ctx, feedbackID)
	if err != nil {
		return err
	}
	if fb.ReviewerID != reviewerID {
		return ErrForbidden
	}
	if fb.Status != Feedback360StatusPending {
		return ErrInvalidTransition
	}
	return s.store.SubmitFeedback360(ctx, feedbackID, responses, time.Now().UTC())
}

// AnalyzeCycle recomputes the cycle analytics on demand.
func (s *Service) AnalyzeCycle(ctx context.Context, cycleID string) (Analytics, error) {
	if _, err := s.store.GetCycle(ctx, cycleID); err != nil {
		return Analytics{}, err
	}
	items, err := s.store.ListAppraisals(ctx, Filter{CycleID: cycleID})
	if err != nil {
		return Analytics{}, err
	}
	employeeIDs := make([]string, 0, len(items))
	for _, a := range items {
		employeeIDs = append(employeeIDs, a.EmployeeID)
	}
	departments, err := s.directory.EmployeeDepartments(ctx, employeeIDs)
	if err != nil {
		slog.Warn("analytics department lookup failed", "cycleId", cycleID, "err", err)
		departments = nil
	}
	return BuildAnalytics(cycleID, items, departments), nil
}

func (s *Service) appraisalWithTemplate(ctx context.Context, appraisalID string) (Appraisal, Template, error) {
	a, err := s.store.GetAppraisal(ctx, appraisalID)
	if err != nil {
		return Appraisal{}, Template{}, err
	}
	tmpl, err := s.store.GetTemplate(ctx, a.TemplateID)
	if err != nil {
		return Appraisal{}, Template{}, err
	}
	return a, tmpl, nil
}

func (s *Service) notifyEmployee(ctx context.Context, employeeID, title, message, priority, link string) {
	if s.notify == nil || employeeID == "" {
		return
	}
	userID, err := s.directory.EmployeeUserID(ctx, employeeID)
	if err != nil {
		slog.Warn("notification user lookup failed", "employeeId", employeeID, "err", err)
		return
	}
	if userID == "" {
		return
	}
	if err := s.notify.Notify(ctx, userID, title, message, priority, link); err != nil {
		slog.Warn("notification send failed", "userId", userID, "err", err)
	}
}

func appraisalLink(appraisalID string) string {
	return "/appraisals/" + appraisalID
}
