package reports

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/jung-kurt/gofpdf"

	"appraisals/internal/domain/appraisal"
)

type Service struct {
	Appraisals *appraisal.Service
}

func NewService(appraisals *appraisal.Service) *Service {
	return &Service{Appraisals: appraisals}
}

// CycleSummaryPDF renders a one-page summary of a cycle's appraisal
// analytics and streams it to w.
func (s *Service) CycleSummaryPDF(ctx context.Context, cycleID string, w io.Writer) error {
	cycle, err := s.Appraisals.GetCycle(ctx, cycleID)
	if err != nil {
		return err
	}
	analytics, err := s.Appraisals.AnalyzeCycle(ctx, cycleID)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Appraisal Cycle Summary")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Cycle: %s (%d)", cycle.Name, cycle.Year))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", cycle.StartDate.Format("2006-01-02"), cycle.EndDate.Format("2006-01-02")))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", cycle.Status))
	pdf.Ln(10)

	pdf.Cell(0, 8, fmt.Sprintf("Appraisals: %d total, %d completed", analytics.Total, analytics.Completed))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Average rating: %.2f", analytics.AverageRating))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Rating Distribution")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	for _, bucket := range []string{"1", "2", "3", "4", "5"} {
		pdf.Cell(0, 7, fmt.Sprintf("  %s: %d", bucket, analytics.RatingDistribution[bucket]))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Status Breakdown")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	for _, status := range sortedKeys(analytics.StatusBreakdown) {
		pdf.Cell(0, 7, fmt.Sprintf("  %s: %d", status, analytics.StatusBreakdown[status]))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	if len(analytics.CompetencyGaps) > 0 {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, "Competency Gaps")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 12)
		for _, gap := range analytics.CompetencyGaps {
			marker := ""
			if gap.ImprovementNeeded {
				marker = " (improvement needed)"
			}
			pdf.Cell(0, 7, fmt.Sprintf("  %s: %.2f across %d appraisals%s", gap.Name, gap.AverageRating, gap.Count, marker))
			pdf.Ln(6)
		}
	}

	return pdf.Output(w)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
