package appraisal

import (
	"context"
	"fmt"

	"appraisals/internal/domain/objectives"
)

// ObjectiveSource is the external objective feed consumed by goal import.
type ObjectiveSource interface {
	ListObjectives(ctx context.Context) ([]objectives.Objective, error)
}

// ImportGoals maps the employee's external objectives into appraisal goals.
// An objective qualifies when the employee is a listed contributor or the
// objective is individual-level. Scoring is a deterministic function of the
// objective's progress percentage.
func ImportGoals(ctx context.Context, source ObjectiveSource, employeeID string) ([]Goal, error) {
	all, err := source.ListObjectives(ctx)
	if err != nil {
		return nil, err
	}

	var goals []Goal
	for _, obj := range all {
		if !objectiveApplies(obj, employeeID) {
			continue
		}
		progress := fmt.Sprintf("%.0f%%", obj.Progress)
		goals = append(goals, Goal{
			ID:          obj.ID,
			Title:       obj.Title,
			Description: obj.Description,
			Target:      progress,
			Actual:      progress,
			Rating:      RatingForProgress(obj.Progress),
			Status:      GoalStatusForProgress(obj.Progress),
			Comments:    fmt.Sprintf("Objective status: %s, progress: %.0f%%", obj.Status, obj.Progress),
		})
	}
	return goals, nil
}

func objectiveApplies(obj objectives.Objective, employeeID string) bool {
	for _, contributor := range obj.Contributors {
		if contributor == employeeID {
			return true
		}
	}
	return obj.Level == objectives.LevelIndividual
}

// RatingForProgress buckets a progress percentage into a 1-5 goal rating.
func RatingForProgress(progress float64) float64 {
	switch {
	case progress >= 90:
		return 5
	case progress >= 75:
		return 4
	case progress >= 60:
		return 3
	case progress >= 40:
		return 2
	default:
		return 1
	}
}

// GoalStatusForProgress: achieved at >=90, partially-achieved at >=60,
// not-achieved below.
func GoalStatusForProgress(progress float64) string {
	switch {
	case progress >= 90:
		return GoalStatusAchieved
	case progress >= 60:
		return GoalStatusPartiallyAchieved
	default:
		return GoalStatusNotAchieved
	}
}
