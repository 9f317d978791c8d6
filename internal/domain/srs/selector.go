package srs

import (
	"time"

	"github.com/phrazzld/rxstudy-api/internal/domain"
)

// IsDue reports whether a progress record is eligible for review at the
// given time. A record is due when it is flagged for review after an
// incorrect answer, or when it has been seen and its scheduled review date
// has arrived. The flag is cleared only by the next correct answer, not by
// the passage of time.
func IsDue(progress *domain.ReviewProgress, now time.Time) bool {
	if progress.NeedsReview {
		return true
	}

	return progress.Seen && !progress.NextReviewAt.After(now)
}

// SelectDue filters progress records down to the subset due for review at
// the given time. Input order is preserved; callers that want a study
// ordering (shuffled, worst-first) apply it themselves.
func SelectDue(records []*domain.ReviewProgress, now time.Time) []*domain.ReviewProgress {
	due := make([]*domain.ReviewProgress, 0, len(records))
	for _, r := range records {
		if IsDue(r, now) {
			due = append(due, r)
		}
	}

	return due
}
