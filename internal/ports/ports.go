// Package ports defines the interfaces between the scoring engine and its
// collaborators: the registries that own team and proposal records, the
// like-count source behind popularity rankings, and the metrics sink.
// These interfaces enable dependency inversion and make the engine testable.
package ports

import (
	"time"

	"github.com/compscore/compscore/internal/domain"
)

// TeamRegistry resolves team records by id. The registry is maintained by
// an external collaborator; a competition roster may transiently reference
// teams the registry does not know, so lookups report presence explicitly
// instead of erroring.
type TeamRegistry interface {
	// TeamByID returns the team record and true, or the zero value and
	// false when no team with that id exists.
	TeamByID(id string) (domain.Team, bool)
}

// ProposalRegistry resolves proposal records by id, with the same
// presence-reporting contract as TeamRegistry.
type ProposalRegistry interface {
	// ProposalByID returns the proposal record and true, or the zero value
	// and false when no proposal with that id exists.
	ProposalByID(id string) (domain.Proposal, bool)
}

// LikeCountSource supplies current like counts for popularity rankings.
// Implementations own any windowing policy (for example "likes in the last
// N days"); the ranker treats whatever they return as the current count.
// Injecting the source keeps popularity rankings a pure function of its
// output and removes hidden process-wide counters.
type LikeCountSource interface {
	// LikeCount returns the current like count for the item, or 0 when the
	// item has never been liked.
	LikeCount(itemID string) int
}

// ScoreSource exposes read access to stored judge scores. The score store
// implements it; the aggregator depends only on this interface.
type ScoreSource interface {
	// ScoresFor returns every current score for the item, in no particular
	// order. The returned slice is owned by the caller.
	ScoresFor(kind domain.ItemKind, itemID string) []domain.JudgeScore
}

// MetricsCollector defines the interface for collecting operational
// metrics. Implementations should integrate with observability platforms
// like Prometheus or custom monitoring solutions.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	// This is useful for tracking events like accepted or rejected
	// submissions, skipped participants, and computed rankings.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	// This is useful for tracking values like stored score counts.
	RecordGauge(metric string, value float64, labels map[string]string)
}
