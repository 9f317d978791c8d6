package quiz

import "math"

// Result is the outcome of scoring a completed quiz.
type Result struct {
	Score      int `json:"score"`
	Total      int `json:"total_questions"`
	Percentage int `json:"percentage"`
}

// Score compares the chosen option indices against the correct indices.
// A missing or out-of-range choice counts as incorrect; an empty quiz
// scores zero with a zero percentage.
func Score(questions []Question, chosen []int) Result {
	result := Result{Total: len(questions)}

	for i, q := range questions {
		if i < len(chosen) && chosen[i] == q.CorrectIndex {
			result.Score++
		}
	}

	if result.Total > 0 {
		result.Percentage = int(math.Round(100 * float64(result.Score) / float64(result.Total)))
	}

	return result
}
