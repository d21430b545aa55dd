package appraisal

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"appraisals/internal/domain/objectives"
)

type fakeStore struct {
	cycles     map[string]Cycle
	templates  map[string]Template
	appraisals map[string]Appraisal
	feedback   map[string]Feedback360
	nextID     int

	failRatingUpdate map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		cycles:     map[string]Cycle{},
		templates:  map[string]Template{},
		appraisals: map[string]Appraisal{},
		feedback:   map[string]Feedback360{},
	}
}

func (s *fakeStore) id(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

func (s *fakeStore) CreateCycle(ctx context.Context, cycle Cycle) (string, error) {
	cycle.ID = s.id("cycle")
	s.cycles[cycle.ID] = cycle
	return cycle.ID, nil
}

func (s *fakeStore) ListCycles(ctx context.Context) ([]Cycle, error) {
	var out []Cycle
	for _, c := range s.cycles {
		out = append(out, c)
	}
	return out, nil
}

func (s *fakeStore) GetCycle(ctx context.Context, cycleID string) (Cycle, error) {
	c, ok := s.cycles[cycleID]
	if !ok {
		return Cycle{}, ErrNotFound
	}
	return c, nil
}

func (s *fakeStore) UpdateCycleStatus(ctx context.Context, cycleID, status string) error {
	c, ok := s.cycles[cycleID]
	if !ok {
		return ErrNotFound
	}
	c.Status = status
	s.cycles[cycleID] = c
	return nil
}

func (s *fakeStore) CreateTemplate(ctx context.Context, tmpl Template) (string, error) {
	tmpl.ID = s.id("tmpl")
	s.templates[tmpl.ID] = tmpl
	return tmpl.ID, nil
}

func (s *fakeStore) ListTemplates(ctx context.Context) ([]Template, error) {
	var out []Template
	for _, t := range s.templates {
		out = append(out, t)
	}
	return out, nil
}

func (s *fakeStore) GetTemplate(ctx context.Context, templateID string) (Template, error) {
	t, ok := s.templates[templateID]
	if !ok {
		return Template{}, ErrNotFound
	}
	return t, nil
}

func (s *fakeStore) CreateAppraisal(ctx context.Context, a Appraisal) (string, bool, error) {
	for _, existing := range s.appraisals {
		if existing.CycleID == a.CycleID && existing.EmployeeID == a.EmployeeID {
			return existing.ID, false, nil
		}
	}
	a.ID = s.id("appr")
	a.CreatedAt = time.Now().UTC()
	s.appraisals[a.ID] = a
	return a.ID, true, nil
}

func (s *fakeStore) GetAppraisal(ctx context.Context, appraisalID string) (Appraisal, error) {
	a, ok := s.appraisals[appraisalID]
	if !ok {
		return Appraisal{}, ErrNotFound
	}
	return a, nil
}

func (s *fakeStore) ListAppraisals(ctx context.Context, filter Filter) ([]Appraisal, error) {
	var out []Appraisal
	for _, a := range s.appraisals {
		if filter.CycleID != "" && a.CycleID != filter.CycleID {
			continue
		}
		if filter.EmployeeID != "" && a.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.ManagerID != "" && a.ManagerID != filter.ManagerID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *fakeStore) ListManagerRepairCandidates(ctx context.Context) ([]Appraisal, error) {
	var out []Appraisal
	for _, a := range s.appraisals {
		if NeedsManagerRepair(a) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *fakeStore) UpdateAppraisalManager(ctx context.Context, appraisalID, managerID string) error {
	a, ok := s.appraisals[appraisalID]
	if !ok {
		return ErrNotFound
	}
	a.ManagerID = managerID
	s.appraisals[appraisalID] = a
	return nil
}

func (s *fakeStore) UpdateAppraisalFields(ctx context.Context, appraisalID string, goals []Goal, competencies []Competency, comments *string) error {
	a, ok := s.appraisals[appraisalID]
	if !ok {
		return ErrNotFound
	}
	if goals != nil {
		a.Goals = goals
	}
	if competencies != nil {
		a.Competencies = competencies
	}
	if comments != nil {
		a.Comments = *comments
	}
	s.appraisals[appraisalID] = a
	return nil
}

func (s *fakeStore) UpdateAppraisalStatus(ctx context.Context, appraisalID, status string, completedAt *time.Time) error {
	a, ok := s.appraisals[appraisalID]
	if !ok {
		return ErrNotFound
	}
	a.Status = status
	a.CompletedAt = completedAt
	s.appraisals[appraisalID] = a
	return nil
}

func (s *fakeStore) UpdateOverallRating(ctx context.Context, appraisalID string, rating float64) error {
	if s.failRatingUpdate[appraisalID] {
		return errors.New("write failed")
	}
	a, ok := s.appraisals[appraisalID]
	if !ok {
		return ErrNotFound
	}
	a.OverallRating = &rating
	s.appraisals[appraisalID] = a
	return nil
}

func (s *fakeStore) SubmitReview(ctx context.Context, a Appraisal, role string) error {
	if _, ok := s.appraisals[a.ID]; !ok {
		return ErrNotFound
	}
	s.appraisals[a.ID] = a
	return nil
}

func (s *fakeStore) CreateFeedback360(ctx context.Context, fb Feedback360) (string, error) {
	fb.ID = s.id("fb")
	s.feedback[fb.ID] = fb
	return fb.ID, nil
}

func (s *fakeStore) GetFeedback360(ctx context.Context, feedbackID string) (Feedback360, error) {
	fb, ok := s.feedback[feedbackID]
	if !ok {
		return Feedback360{}, ErrNotFound
	}
	return fb, nil
}

func (s *fakeStore) ListFeedback360(ctx context.Context, appraisalID string) ([]Feedback360, error) {
	var out []Feedback360
	for _, fb := range s.feedback {
		if fb.AppraisalID == appraisalID {
			out = append(out, fb)
		}
	}
	return out, nil
}

func (s *fakeStore) SubmitFeedback360(ctx context.Context, feedbackID string, responses Response, submittedAt time.Time) error {
	fb, ok := s.feedback[feedbackID]
	if !ok {
		return ErrNotFound
	}
	fb.Responses = &responses
	fb.SubmittedAt = &submittedAt
	fb.Status = Feedback360StatusCompleted
	s.feedback[feedbackID] = fb
	return nil
}

type sentNotification struct {
	UserID string
	Title  string
}

type fakeNotifier struct {
	sent []sentNotification
}

func (n *fakeNotifier) Notify(ctx context.Context, userID, title, message, priority, link string) error {
	n.sent = append(n.sent, sentNotification{UserID: userID, Title: title})
	return nil
}

func newTestService(store *fakeStore, dir *fakeDirectory, source ObjectiveSource, notify *fakeNotifier) *Service {
	var n Notifier
	if notify != nil {
		n = notify
	}
	return NewService(store, dir, source, n)
}

func seedCycleAndTemplate(store *fakeStore) (cycleID, templateID string) {
	cycleID, _ = store.CreateCycle(context.Background(), Cycle{Name: "2026 Annual", Year: 2026, Status: CycleStatusActive})
	templateID, _ = store.CreateTemplate(context.Background(), Template{Name: "Standard", ReviewType: ReviewTypeBoth})
	return cycleID, templateID
}

func TestProvisionCreatesAndSkipsDuplicates(t *testing.T) {
	store := newFakeStore()
	cycleID, templateID := seedCycleAndTemplate(store)
	dir := &fakeDirectory{
		managers: map[string]string{"e1": "m1"},
		userIDs:  map[string]string{"e1": "u1", "e2": "u2", "m1": "um1"},
	}
	notify := &fakeNotifier{}
	svc := newTestService(store, dir, nil, notify)

	result, err := svc.Provision(context.Background(), cycleID, []string{"e1", "e2"}, templateID, false)
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if len(result.Created) != 2 || result.Skipped != 0 || result.Errors != 0 {
		t.Fatalf("first run = %d created, %d skipped, %d errors", len(result.Created), result.Skipped, result.Errors)
	}
	for _, a := range result.Created {
		switch a.EmployeeID {
		case "e1":
			if a.ManagerID != "m1" {
				t.Fatalf("e1 manager = %s, want m1", a.ManagerID)
			}
		case "e2":
			if a.ManagerID != "e2" {
				t.Fatalf("e2 manager = %s, want e2 (self-managed)", a.ManagerID)
			}
		}
		if a.Status != StatusDraft {
			t.Fatalf("provisioned status = %s, want %s", a.Status, StatusDraft)
		}
	}
	// e1 and their manager each get a notification; self-managed e2 gets one.
	if len(notify.sent) != 3 {
		t.Fatalf("got %d notifications, want 3", len(notify.sent))
	}

	again, err := svc.Provision(context.Background(), cycleID, []string{"e1", "e2"}, templateID, false)
	if err != nil {
		t.Fatalf("second Provision: %v", err)
	}
	if len(again.Created) != 0 || again.Skipped != 2 {
		t.Fatalf("second run = %d created, %d skipped, want 0/2", len(again.Created), again.Skipped)
	}
}

func TestProvisionImportsObjectives(t *testing.T) {
	store := newFakeStore()
	cycleID, templateID := seedCycleAndTemplate(store)
	dir := &fakeDirectory{managers: map[string]string{"e1": "m1"}}
	source := &fakeObjectiveSource{items: []objectives.Objective{
		{ID: "o1", Title: "Personal growth", Level: objectives.LevelIndividual, Progress: 70, Status: "active"},
	}}

	svc := newTestService(store, dir, source, nil)

	result, err := svc.Provision(context.Background(), cycleID, []string{"e1"}, templateID, true)
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if len(result.Created) != 1 {
		t.Fatalf("got %d created, want 1", len(result.Created))
	}
	goals := result.Created[0].Goals
	if len(goals) != 1 {
		t.Fatalf("got %d imported goals, want 1", len(goals))
	}
	if goals[0].Rating != 3 || goals[0].Status != GoalStatusPartiallyAchieved {
		t.Fatalf("imported goal rating/status = %v/%s", goals[0].Rating, goals[0].Status)
	}
}

func TestProvisionImportFailureStillCreates(t *testing.T) {
	store := newFakeStore()
	cycleID, templateID := seedCycleAndTemplate(store)
	dir := &fakeDirectory{managers: map[string]string{"e1": "m1"}}
	source := &fakeObjectiveSource{err: errors.New("objective feed down")}

	svc := newTestService(store, dir, source, nil)

	result, err := svc.Provision(context.Background(), cycleID, []string{"e1"}, templateID, true)
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if len(result.Created) != 1 || result.Errors != 0 {
		t.Fatalf("got %d created, %d errors, want 1/0", len(result.Created), result.Errors)
	}
	if len(result.Created[0].Goals) != 0 {
		t.Fatalf("failed import seeded %d goals, want 0", len(result.Created[0].Goals))
	}
}

func TestProvisionUnknownCycle(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeDirectory{}, nil, nil)

	if _, err := svc.Provision(context.Background(), "missing", []string{"e1"}, "t1", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Provision err = %v, want ErrNotFound", err)
	}
}

func TestSubmitSelfReviewRejectsOtherEmployees(t *testing.T) {
	store := newFakeStore()
	cycleID, templateID := seedCycleAndTemplate(store)
	dir := &fakeDirectory{managers: map[string]string{"e1": "m1"}}
	svc := newTestService(store, dir, nil, nil)

	result, err := svc.Provision(context.Background(), cycleID, []string{"e1"}, templateID, false)
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	appraisalID := result.Created[0].ID

	response := Response{Items: []ResponseItem{{QuestionID: "q1", Answer: NumericAnswer(4)}}}
	if _, err := svc.SubmitSelfReview(context.Background(), appraisalID, "e2", response); !errors.Is(err, ErrForbidden) {
		t.Fatalf("SubmitSelfReview err = %v, want ErrForbidden", err)
	}
}

func TestSubmitReviewsEndToEnd(t *testing.T) {
	store := newFakeStore()
	cycleID, templateID := seedCycleAndTemplate(store)
	dir := &fakeDirectory{
		managers: map[string]string{"e1": "m1"},
		userIDs:  map[string]string{"e1": "u1", "m1": "um1"},
	}
	notify := &fakeNotifier{}
	svc := newTestService(store, dir, nil, notify)

	result, err := svc.Provision(context.Background(), cycleID, []string{"e1"}, templateID, false)
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	appraisalID := result.Created[0].ID
	notify.sent = nil

	self := Response{Items: []ResponseItem{{QuestionID: "q1", Answer: NumericAnswer(4)}}}
	a, err := svc.SubmitSelfReview(context.Background(), appraisalID, "e1", self)
	if err != nil {
		t.Fatalf("SubmitSelfReview: %v", err)
	}
	if a.Status != StatusManagerReview || a.OverallRating != nil {
		t.Fatalf("after self: status=%s rating=%v", a.Status, a.OverallRating)
	}

	manager := Response{Items: []ResponseItem{{QuestionID: "q1", Answer: NumericAnswer(3)}}}
	if _, err := svc.SubmitManagerReview(context.Background(), appraisalID, "e1", manager); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-manager submit err = %v, want ErrForbidden", err)
	}
	a, err = svc.SubmitManagerReview(context.Background(), appraisalID, "m1", manager)
	if err != nil {
		t.Fatalf("SubmitManagerReview: %v", err)
	}
	if a.Status != StatusHRReview {
		t.Fatalf("after manager: status=%s, want %s", a.Status, StatusHRReview)
	}
	if a.OverallRating == nil || *a.OverallRating != 3.5 {
		t.Fatalf("after manager: rating=%v, want 3.5", a.OverallRating)
	}

	hr := Response{Items: []ResponseItem{{QuestionID: "q1", Answer: NumericAnswer(5)}}}
	a, err = svc.SubmitHRReview(context.Background(), appraisalID, hr)
	if err != nil {
		t.Fatalf("SubmitHRReview: %v", err)
	}
	if a.Status != StatusCompleted || a.CompletedAt == nil {
		t.Fatalf("after hr: status=%s completedAt=%v", a.Status, a.CompletedAt)
	}
	if a.OverallRating == nil || *a.OverallRating != 4.0 {
		t.Fatalf("after hr: rating=%v, want 4.0", a.OverallRating)
	}

	stored, err := store.GetAppraisal(context.Background(), appraisalID)
	if err != nil {
		t.Fatalf("GetAppraisal: %v", err)
	}
	if stored.Status != StatusCompleted || len(stored.Reviews()) != 3 {
		t.Fatalf("stored status=%s reviews=%d", stored.Status, len(stored.Reviews()))
	}

	// self -> manager, manager -> employee, hr completion -> both parties.
	if len(notify.sent) != 4 {
		t.Fatalf("got %d notifications, want 4", len(notify.sent))
	}
}

func TestCancelTerminalStatesRejected(t *testing.T) {
	store := newFakeStore()
	cycleID, templateID := seedCycleAndTemplate(store)
	svc := newTestService(store, &fakeDirectory{managers: map[string]string{"e1": "m1"}}, nil, nil)

	result, _ := svc.Provision(context.Background(), cycleID, []string{"e1"}, templateID, false)
	appraisalID := result.Created[0].ID

	if err := svc.Cancel(context.Background(), appraisalID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if err := svc.Cancel(context.Background(), appraisalID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("double cancel err = %v, want ErrInvalidTransition", err)
	}
}

func TestFixMissingManagers(t *testing.T) {
	store := newFakeStore()
	store.appraisals["a1"] = Appraisal{ID: "a1", CycleID: "c1", EmployeeID: "e1", ManagerID: UnknownManagerID, Status: StatusDraft}
	store.appraisals["a2"] = Appraisal{ID: "a2", CycleID: "c1", EmployeeID: "e2", ManagerID: "e2", Status: StatusDraft}
	store.appraisals["a3"] = Appraisal{ID: "a3", CycleID: "c1", EmployeeID: "e3", ManagerID: "m3", Status: StatusDraft}

	// e1 resolves to a real manager; e2 stays self-managed.
	dir := &fakeDirectory{managers: map[string]string{"e1": "m1"}}
	svc := newTestService(store, dir, nil, nil)

	result, err := svc.FixMissingManagers(context.Background())
	if err != nil {
		t.Fatalf("FixMissingManagers: %v", err)
	}
	if result.Fixed != 1 || result.Errors != 0 {
		t.Fatalf("fixed/errors = %d/%d, want 1/0", result.Fixed, result.Errors)
	}
	if got := store.appraisals["a1"].ManagerID; got != "m1" {
		t.Fatalf("a1 manager = %s, want m1", got)
	}
	if got := store.appraisals["a2"].ManagerID; got != "e2" {
		t.Fatalf("a2 manager = %s, want e2 untouched", got)
	}
	if got := store.appraisals["a3"].ManagerID; got != "m3" {
		t.Fatalf("a3 manager = %s, want m3 untouched", got)
	}
}

func TestRecalculateRatings(t *testing.T) {
	store := newFakeStore()
	stale := 1.0
	store.appraisals["a1"] = Appraisal{
		ID: "a1", CycleID: "c1", EmployeeID: "e1", ManagerID: "m1", Status: StatusHRReview,
		SelfReview:    &Response{Items: []ResponseItem{{QuestionID: "q1", Answer: NumericAnswer(4)}}},
		ManagerReview: &Response{Items: []ResponseItem{{QuestionID: "q1", Answer: NumericAnswer(3)}}},
		OverallRating: &stale,
	}
	store.appraisals["a2"] = Appraisal{ID: "a2", CycleID: "c1", EmployeeID: "e2", ManagerID: "m1", Status: StatusDraft}

	svc := newTestService(store, &fakeDirectory{}, nil, nil)

	result, err := svc.RecalculateRatings(context.Background(), "c1")
	if err != nil {
		t.Fatalf("RecalculateRatings: %v", err)
	}
	if result.Updated != 1 || result.Errors != 0 {
		t.Fatalf("updated/errors = %d/%d, want 1/0", result.Updated, result.Errors)
	}
	if got := store.appraisals["a1"].OverallRating; got == nil || *got != 3.5 {
		t.Fatalf("a1 rating = %v, want 3.5", got)
	}
	if store.appraisals["a2"].OverallRating != nil {
		t.Fatal("review-less appraisal gained a rating")
	}

	again, err := svc.RecalculateRatings(context.Background(), "c1")
	if err != nil {
		t.Fatalf("second RecalculateRatings: %v", err)
	}
	if again.Updated != 1 {
		t.Fatalf("second run updated = %d, want 1", again.Updated)
	}
	if got := store.appraisals["a1"].OverallRating; got == nil || *got != 3.5 {
		t.Fatalf("rating drifted on rerun: %v", got)
	}
}

func TestRecalculateRatingsCountsWriteFailures(t *testing.T) {
	store := newFakeStore()
	store.appraisals["a1"] = Appraisal{
		ID: "a1", CycleID: "c1", EmployeeID: "e1", ManagerID: "m1", Status: StatusHRReview,
		ManagerReview: &Response{Items: []ResponseItem{{QuestionID: "q1", Answer: NumericAnswer(3)}}},
	}
	store.failRatingUpdate = map[string]bool{"a1": true}

	svc := newTestService(store, &fakeDirectory{}, nil, nil)

	result, err := svc.RecalculateRatings(context.Background(), "c1")
	if err != nil {
		t.Fatalf("RecalculateRatings: %v", err)
	}
	if result.Updated != 0 || result.Errors != 1 {
		t.Fatalf("updated/errors = %d/%d, want 0/1", result.Updated, result.Errors)
	}
}

func TestAdvanceCycleStatus(t *testing.T) {
	store := newFakeStore()
	cycleID, _ := store.CreateCycle(context.Background(), Cycle{Name: "2026 Annual", Status: CycleStatusDraft})
	svc := newTestService(store, &fakeDirectory{}, nil, nil)

	if err := svc.AdvanceCycleStatus(context.Background(), cycleID, CycleStatusActive); err != nil {
		t.Fatalf("AdvanceCycleStatus: %v", err)
	}
	if got := store.cycles[cycleID].Status; got != CycleStatusActive {
		t.Fatalf("cycle status = %s, want %s", got, CycleStatusActive)
	}
	if err := svc.AdvanceCycleStatus(context.Background(), cycleID, CycleStatusArchived); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("skip-ahead err = %v, want ErrInvalidTransition", err)
	}
}

func TestCreateTemplateValidatesWeights(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeDirectory{}, nil, nil)

	bad := Template{Name: "Broken", ReviewType: ReviewTypeBoth, Sections: []Section{{Title: "Goals", Weight: 50}}}
	if _, err := svc.CreateTemplate(context.Background(), bad); !errors.Is(err, ErrValidation) {
		t.Fatalf("CreateTemplate err = %v, want ErrValidation", err)
	}
}

func TestSubmitFeedback360Guards(t *testing.T) {
	store := newFakeStore()
	cycleID, templateID := seedCycleAndTemplate(store)
	svc := newTestService(store, &fakeDirectory{managers: map[string]string{"e1": "m1"}}, nil, nil)

	result, _ := svc.Provision(context.Background(), cycleID, []string{"e1"}, templateID, false)
	appraisalID := result.Created[0].ID

	fbID, err := svc.CreateFeedback360(context.Background(), Feedback360{
		AppraisalID:  appraisalID,
		ReviewerID:   "peer1",
		Relationship: RelationshipPeer,
	})
	if err != nil {
		t.Fatalf("CreateFeedback360: %v", err)
	}
	if store.feedback[fbID].RevieweeID != "e1" {
		t.Fatalf("reviewee = %s, want e1", store.feedback[fbID].RevieweeID)
	}

	responses := Response{Items: []ResponseItem{{QuestionID: "q1", Answer: NumericAnswer(4)}}}
	if err := svc.SubmitFeedback360(context.Background(), fbID, "intruder", responses); !errors.Is(err, ErrForbidden) {
		t.Fatalf("wrong reviewer err = %v, want ErrForbidden", err)
	}
	if err := svc.SubmitFeedback360(context.Background(), fbID, "peer1", responses); err != nil {
		t.Fatalf("SubmitFeedback360: %v", err)
	}
	if err := svc.SubmitFeedback360(context.Background(), fbID, "peer1", responses); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("double submit err = %v, want ErrInvalidTransition", err)
	}
}

func TestCreateFeedback360RejectsUnknownRelationship(t *testing.T) {
	store := newFakeStore()
	cycleID, templateID := seedCycleAndTemplate(store)
	svc := newTestService(store, &fakeDirectory{managers: map[string]string{"e1": "m1"}}, nil, nil)

	result, _ := svc.Provision(context.Background(), cycleID, []string{"e1"}, templateID, false)
	_, err := svc.CreateFeedback360(context.Background(), Feedback360{
		AppraisalID:  result.Created[0].ID,
		ReviewerID:   "peer1",
		Relationship: "sibling",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("CreateFeedback360 err = %v, want ErrValidation", err)
	}
}

func TestAnalyzeCycle(t *testing.T) {
	store := newFakeStore()
	cycleID, _ := store.CreateCycle(context.Background(), Cycle{Name: "2026 Annual", Status: CycleStatusActive})
	rating := 4.0
	now := time.Now().UTC()
	store.appraisals["a1"] = Appraisal{
		ID: "a1", CycleID: cycleID, EmployeeID: "e1", ManagerID: "m1",
		Status: StatusCompleted, OverallRating: &rating, CompletedAt: &now,
	}
	store.appraisals["a2"] = Appraisal{ID: "a2", CycleID: cycleID, EmployeeID: "e2", ManagerID: "m1", Status: StatusDraft}

	dir := &fakeDirectory{departments: map[string]string{"e1": "Engineering"}}
	svc := newTestService(store, dir, nil, nil)

	got, err := svc.AnalyzeCycle(context.Background(), cycleID)
	if err != nil {
		t.Fatalf("AnalyzeCycle: %v", err)
	}
	if got.Total != 2 || got.Completed != 1 {
		t.Fatalf("total/completed = %d/%d, want 2/1", got.Total, got.Completed)
	}
	if got.AverageRating != 4.0 {
		t.Fatalf("averageRating = %v, want 4.0", got.AverageRating)
	}
	if got.DepartmentBreakdown["Engineering"] != 1 || got.DepartmentBreakdown["unassigned"] != 1 {
		t.Fatalf("unexpected department breakdown: %v", got.DepartmentBreakdown)
	}

	if _, err := svc.AnalyzeCycle(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown cycle err = %v, want ErrNotFound", err)
	}
}
