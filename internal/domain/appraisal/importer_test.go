package appraisal

import (
	"context"
	"testing"

	"appraisals/internal/domain/objectives"
)

type fakeObjectiveSource struct {
	items []objectives.Objective
	err   error
}

func (s *fakeObjectiveSource) ListObjectives(ctx context.Context) ([]objectives.Objective, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

func TestImportGoalsFiltersByContributorAndLevel(t *testing.T) {
	source := &fakeObjectiveSource{items: []objectives.Objective{
		{ID: "o1", Title: "Ship search", Level: "team", Progress: 92, Status: "active", Contributors: []string{"e1", "e2"}},
		{ID: "o2", Title: "Team OKR", Level: "team", Progress: 50, Status: "active", Contributors: []string{"e2"}},
		{ID: "o3", Title: "Personal growth", Level: objectives.LevelIndividual, Progress: 70, Status: "active"},
	}}

	goals, err := ImportGoals(context.Background(), source, "e1")
	if err != nil {
		t.Fatalf("ImportGoals: %v", err)
	}
	if len(goals) != 2 {
		t.Fatalf("got %d goals, want 2", len(goals))
	}
	if goals[0].ID != "o1" || goals[1].ID != "o3" {
		t.Fatalf("unexpected goal ids: %s, %s", goals[0].ID, goals[1].ID)
	}
}

func TestImportGoalsScoresFromProgress(t *testing.T) {
	source := &fakeObjectiveSource{items: []objectives.Objective{
		{ID: "o1", Title: "High", Level: objectives.LevelIndividual, Progress: 92},
	}}

	goals, err := ImportGoals(context.Background(), source, "e1")
	if err != nil {
		t.Fatalf("ImportGoals: %v", err)
	}
	if len(goals) != 1 {
		t.Fatalf("got %d goals, want 1", len(goals))
	}
	if goals[0].Rating != 5 {
		t.Fatalf("rating = %v, want 5", goals[0].Rating)
	}
	if goals[0].Status != GoalStatusAchieved {
		t.Fatalf("status = %s, want %s", goals[0].Status, GoalStatusAchieved)
	}
	if goals[0].Target != "92%" || goals[0].Actual != "92%" {
		t.Fatalf("target/actual = %s/%s, want 92%%/92%%", goals[0].Target, goals[0].Actual)
	}
}

func TestRatingForProgressBoundaries(t *testing.T) {
	tests := []struct {
		progress float64
		want     float64
	}{
		{100, 5}, {90, 5}, {89.9, 4}, {75, 4}, {74.9, 3}, {60, 3}, {59.9, 2}, {40, 2}, {39.9, 1}, {0, 1},
	}
	for _, tc := range tests {
		if got := RatingForProgress(tc.progress); got != tc.want {
			t.Fatalf("RatingForProgress(%v) = %v, want %v", tc.progress, got, tc.want)
		}
	}
}

func TestGoalStatusForProgressBoundaries(t *testing.T) {
	tests := []struct {
		progress float64
		want     string
	}{
		{95, GoalStatusAchieved},
		{90, GoalStatusAchieved},
		{89.9, GoalStatusPartiallyAchieved},
		{60, GoalStatusPartiallyAchieved},
		{59.9, GoalStatusNotAchieved},
		{0, GoalStatusNotAchieved},
	}
	for _, tc := range tests {
		if got := GoalStatusForProgress(tc.progress); got != tc.want {
			t.Fatalf("GoalStatusForProgress(%v) = %s, want %s", tc.progress, got, tc.want)
		}
	}
}
