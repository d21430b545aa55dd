package appraisal

import (
	"context"
	"log/slog"
)

type RepairResult struct {
	Fixed  int `json:"fixed"`
	Errors int `json:"errors"`
}

type RecalcResult struct {
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
}

// FixMissingManagers re-applies manager resolution to every appraisal whose
// manager field carries a known defect signature: empty, the literal
// "unknown", or the employee's own id. The field is rewritten only when the
// resolved id differs. Individual lookup or write failures are counted and
// skipped; the batch never aborts.
func (s *Service) FixMissingManagers(ctx context.Context) (RepairResult, error) {
	candidates, err := s.store.ListManagerRepairCandidates(ctx)
	if err != nil {
		return RepairResult{}, err
	}

	var result RepairResult
	for _, a := range candidates {
		managerID, err := ResolveManager(ctx, s.directory, a.EmployeeID)
		if err != nil {
			slog.Warn("manager repair resolution failed", "appraisalId", a.ID, "employeeId", a.EmployeeID, "err", err)
			result.Errors++
			continue
		}
		if managerID == a.ManagerID {
			continue
		}
		if err := s.store.UpdateAppraisalManager(ctx, a.ID, managerID); err != nil {
			slog.Warn("manager repair write failed", "appraisalId", a.ID, "err", err)
			result.Errors++
			continue
		}
		result.Fixed++
	}
	return result, nil
}

// NeedsManagerRepair reports whether an appraisal's manager assignment shows
// a defect signature.
func NeedsManagerRepair(a Appraisal) bool {
	return a.ManagerID == "" || a.ManagerID == UnknownManagerID || a.ManagerID == a.EmployeeID
}

// RecalculateRatings recomputes the overall rating of every appraisal with
// at least one submitted review and persists it unconditionally. Pass an
// empty cycleID to cover all cycles. The aggregation is idempotent, so
// repeated runs without new submissions leave ratings unchanged.
func (s *Service) RecalculateRatings(ctx context.Context, cycleID string) (RecalcResult, error) {
	items, err := s.store.ListAppraisals(ctx, Filter{CycleID: cycleID})
	if err != nil {
		return RecalcResult{}, err
	}

	var result RecalcResult
	for _, a := range items {
		reviews := a.Reviews()
		if len(reviews) == 0 {
			continue
		}
		rating := AggregateRating(reviews)
		if err := s.store.UpdateOverallRating(ctx, a.ID, rating); err != nil {
			slog.Warn("rating recalculation write failed", "appraisalId", a.ID, "err", err)
			result.Errors++
			continue
		}
		result.Updated++
	}
	return result, nil
}
