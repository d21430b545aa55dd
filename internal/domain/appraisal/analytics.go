package appraisal

import (
	"fmt"
	"math"
	"sort"
)

// BuildAnalytics rolls a cycle's appraisals into reporting distributions.
// departments maps employee id to department name for the department
// breakdown; employees without an entry are counted under "unassigned".
func BuildAnalytics(cycleID string, items []Appraisal, departments map[string]string) Analytics {
	out := Analytics{
		CycleID:             cycleID,
		Total:               len(items),
		RatingDistribution:  map[string]int{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0},
		StatusBreakdown:     map[string]int{},
		DepartmentBreakdown: map[string]int{},
	}

	var ratingSum float64
	var ratedCompleted int
	gaps := map[string]*CompetencyGap{}

	for _, a := range items {
		out.StatusBreakdown[a.Status]++

		department := departments[a.EmployeeID]
		if department == "" {
			department = "unassigned"
		}
		out.DepartmentBreakdown[department]++

		if validRating(a.OverallRating) {
			bucket := int(math.Floor(*a.OverallRating))
			if bucket < 1 {
				bucket = 1
			}
			if bucket > 5 {
				bucket = 5
			}
			out.RatingDistribution[fmt.Sprintf("%d", bucket)]++
		}

		if a.Status != StatusCompleted {
			continue
		}
		out.Completed++
		if validRating(a.OverallRating) {
			ratingSum += *a.OverallRating
			ratedCompleted++
		}

		for _, competency := range a.Competencies {
			gap, ok := gaps[competency.Name]
			if !ok {
				gaps[competency.Name] = &CompetencyGap{
					Name:          competency.Name,
					AverageRating: competency.Rating,
					Count:         1,
				}
				continue
			}
			// Pairwise running average, kept for compatibility with
			// previously published analytics.
			gap.AverageRating = (gap.AverageRating + competency.Rating) / 2
			gap.Count++
		}
	}

	if ratedCompleted > 0 {
		out.AverageRating = ratingSum / float64(ratedCompleted)
	}

	names := make([]string, 0, len(gaps))
	for name := range gaps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		gap := gaps[name]
		gap.ImprovementNeeded = gap.AverageRating < 3
		out.CompetencyGaps = append(out.CompetencyGaps, *gap)
	}
	return out
}

func validRating(rating *float64) bool {
	return rating != nil && !math.IsNaN(*rating)
}
