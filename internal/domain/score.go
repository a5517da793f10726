package domain

import "time"

// JudgeScore is one judge's current scoring of one item. The store keeps
// at most one JudgeScore per (judge, item) pair: resubmission replaces the
// prior record in full, including comments and timestamp. No history is
// retained.
type JudgeScore struct {
	// JudgeID identifies the judge who authored this score.
	JudgeID string `json:"judge_id"`

	// ItemID identifies the scored item within its kind.
	ItemID string `json:"item_id"`

	// Kind is the item kind this score applies to. Only judged kinds
	// (application, proposal) appear here; teams are never scored directly.
	Kind ItemKind `json:"kind"`

	// Categories maps category name to the assigned integer score.
	// Every category of the kind's rubric is present, each within
	// [MinCategoryScore, MaxCategoryScore].
	Categories map[string]int `json:"categories"`

	// Comments carries the judge's free-form remarks, possibly empty.
	Comments string `json:"comments,omitempty"`

	// SubmittedAt records when this score (or its replacement) was accepted.
	SubmittedAt time.Time `json:"submitted_at"`
}

// MeanOfCategories returns the unrounded mean of this judge's category
// values, or 0 if the score carries no categories.
func (s JudgeScore) MeanOfCategories() float64 {
	if len(s.Categories) == 0 {
		return 0
	}
	sum := 0
	for _, v := range s.Categories {
		sum += v
	}
	return float64(sum) / float64(len(s.Categories))
}

// ScoreBreakdown is the aggregate view of one item's scores across all
// judges that have scored it. A breakdown with JudgeCount zero is a
// defined result, not an error: every category mean and the total are 0.
type ScoreBreakdown struct {
	// ItemID identifies the aggregated item.
	ItemID string `json:"item_id"`

	// Kind is the item kind the breakdown was computed for.
	Kind ItemKind `json:"kind"`

	// Categories maps category name to its mean across judges, rounded
	// half-up to one decimal place.
	Categories map[string]float64 `json:"categories"`

	// Total is the grand mean across all categories and judges, computed
	// from raw sums and rounded half-up to one decimal place. It is not
	// derived from the already-rounded category means.
	Total float64 `json:"total"`

	// JudgeCount is the number of judges contributing to the breakdown.
	JudgeCount int `json:"judge_count"`
}
