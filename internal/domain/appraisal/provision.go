package appraisal

import (
	"context"
	"fmt"
	"log/slog"
)

type ProvisionResult struct {
	Created []Appraisal `json:"created"`
	Skipped int         `json:"skipped"`
	Errors  int         `json:"errors"`
}

// Provision bulk-creates one draft appraisal per employee for the cycle,
// resolving each manager through the directory. Per-employee failures are
// counted and skipped; the batch never aborts. Employees already provisioned
// for the cycle are skipped via the (cycle, employee) uniqueness guard.
// When importObjectives is set, goals are seeded from the objective source; a
// failed import is logged and the appraisal is still created with empty
// goals.
func (s *Service) Provision(ctx context.Context, cycleID string, employeeIDs []string, templateID string, importObjectives bool) (ProvisionResult, error) {
	if _, err := s.store.GetCycle(ctx, cycleID); err != nil {
		return ProvisionResult{}, fmt.Errorf("cycle lookup: %w", err)
	}
	if _, err := s.store.GetTemplate(ctx, templateID); err != nil {
		return ProvisionResult{}, fmt.Errorf("template lookup: %w", err)
	}

	var result ProvisionResult
	for _, employeeID := range employeeIDs {
		managerID, err := ResolveManager(ctx, s.directory, employeeID)
		if err != nil {
			slog.Warn("provision manager resolution failed", "employeeId", employeeID, "err", err)
			result.Errors++
			continue
		}

		var goals []Goal
		if importObjectives && s.objectives != nil {
			imported, err := ImportGoals(ctx, s.objectives, employeeID)
			if err != nil {
				slog.Warn("provision objective import failed", "employeeId", employeeID, "err", err)
			} else {
				goals = imported
			}
		}

		a := Appraisal{
			CycleID:    cycleID,
			EmployeeID: employeeID,
			ManagerID:  managerID,
			TemplateID: templateID,
			Status:     StatusDraft,
			Goals:      goals,
		}
		id, created, err := s.store.CreateAppraisal(ctx, a)
		if err != nil {
			slog.Warn("provision appraisal create failed", "employeeId", employeeID, "err", err)
			result.Errors++
			continue
		}
		if !created {
			result.Skipped++
			continue
		}
		a.ID = id
		result.Created = append(result.Created, a)

		s.notifyEmployee(ctx, employeeID, "Appraisal created",
			"A new appraisal has been created for you.", NotifyPriorityNormal, appraisalLink(id))
		if managerID != employeeID {
			s.notifyEmployee(ctx, managerID, "Appraisal created",
				"An appraisal has been created for your report.", NotifyPriorityNormal, appraisalLink(id))
		}
	}
	return result, nil
}
