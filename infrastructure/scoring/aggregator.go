package scoring

import (
	"context"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/compscore/compscore/internal/domain"
	"github.com/compscore/compscore/internal/ports"
)

// Aggregator reduces an item's stored scores into per-category means and a
// grand total.
//
// The total is the mean over raw sums (sum of every category value across
// every judge, divided by judgeCount x categoryCount), rounded half-up to
// one decimal once at the end. It is deliberately not derived from the
// already-rounded category means, which can diverge after rounding.
//
// An item with no scores aggregates to all-zero categories and a zero
// total with JudgeCount 0; that is a defined result, not an error.
//
// The aggregator is stateless apart from its score source and is safe for
// concurrent use.
type Aggregator struct {
	source ports.ScoreSource
	tracer trace.Tracer
}

// NewAggregator creates an aggregator reading from the given score source.
func NewAggregator(source ports.ScoreSource) (*Aggregator, error) {
	if source == nil {
		return nil, ErrNilScoreSource
	}
	return &Aggregator{
		source: source,
		tracer: otel.Tracer("scoring-aggregator"),
	}, nil
}

// DetailedScores computes the aggregate breakdown for one item under the
// given rubric. Category values a judge submitted outside the rubric are
// ignored (the store rejects them on write; this guards stale snapshots).
func (a *Aggregator) DetailedScores(
	ctx context.Context,
	kind domain.ItemKind,
	itemID string,
	rubric domain.CategorySet,
) domain.ScoreBreakdown {
	_, span := a.tracer.Start(ctx, "Aggregator.DetailedScores",
		trace.WithAttributes(
			attribute.String("item.kind", kind.String()),
			attribute.String("item.id", itemID),
		),
	)
	defer span.End()

	scores := a.source.ScoresFor(kind, itemID)
	span.SetAttributes(attribute.Int("judge.count", len(scores)))

	breakdown := domain.ScoreBreakdown{
		ItemID:     itemID,
		Kind:       kind,
		Categories: make(map[string]float64, len(rubric)),
		JudgeCount: len(scores),
	}

	if len(scores) == 0 {
		for _, name := range rubric {
			breakdown.Categories[name] = 0
		}
		return breakdown
	}

	grandSum := 0
	for _, name := range rubric {
		sum := 0
		for _, score := range scores {
			sum += score.Categories[name]
		}
		grandSum += sum
		breakdown.Categories[name] = roundTenth(float64(sum) / float64(len(scores)))
	}

	breakdown.Total = roundTenth(float64(grandSum) / float64(len(scores)*len(rubric)))
	return breakdown
}

// roundTenth rounds half-up to one decimal place.
func roundTenth(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
