package appraisal

// AggregateRating folds every numeric answer across the supplied responses
// into a single arithmetic mean. Text answers are skipped. Returns 0 when no
// numeric answers exist. The fold is pure, so recomputing against the same
// responses always yields the same value.
func AggregateRating(responses []Response) float64 {
	var sum float64
	var count int
	for _, response := range responses {
		for _, item := range response.Items {
			if item.Answer.IsNumeric() {
				sum += *item.Answer.Numeric
				count++
			}
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
