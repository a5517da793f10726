package engine

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/compscore/compscore/infrastructure/scoring"
	"github.com/compscore/compscore/internal/domain"
	"github.com/compscore/compscore/internal/ports"
)

// Dependency errors returned by New.
var (
	// ErrNilTeamRegistry indicates the engine was built without a team registry.
	ErrNilTeamRegistry = errors.New("team registry cannot be nil")

	// ErrNilProposalRegistry indicates the engine was built without a
	// proposal registry.
	ErrNilProposalRegistry = errors.New("proposal registry cannot be nil")

	// ErrNilLikeSource indicates the engine was built without a like-count
	// source.
	ErrNilLikeSource = errors.New("like count source cannot be nil")
)

// Dependencies carries the external collaborators the engine consumes.
// Metrics and Logger are optional; nil selects no-op implementations.
type Dependencies struct {
	Teams     ports.TeamRegistry
	Proposals ports.ProposalRegistry
	Likes     ports.LikeCountSource
	Metrics   ports.MetricsCollector
	Logger    logrus.FieldLogger
}

// Engine is the scoring and ranking engine facade. It owns the score
// store and exposes the full operation surface over an in-memory snapshot
// of scores, registries, and like counts.
//
// All operations are synchronous and perform no I/O. Concurrent score
// submissions to the same (judge, item) pair resolve last-write-wins;
// reads may run concurrently with each other and with writes to other
// items.
type Engine struct {
	config Config

	store      *scoring.Store
	aggregator *scoring.Aggregator
	ranker     *scoring.Ranker
	popularity *scoring.PopularityRanker
	awards     *scoring.AwardFilter

	metrics ports.MetricsCollector
	tracer  trace.Tracer
}

// SubmitScoreInput is one judge's score submission as received from the
// outer layer.
type SubmitScoreInput struct {
	// JudgeID identifies the submitting judge.
	JudgeID string `json:"judge_id" validate:"required"`

	// Kind is the judged item kind (application or proposal).
	Kind domain.ItemKind `json:"kind" validate:"required"`

	// ItemID identifies the scored item.
	ItemID string `json:"item_id" validate:"required"`

	// Categories maps category name to the assigned integer score.
	Categories map[string]int `json:"categories" validate:"required,min=1"`

	// Comments carries optional free-form remarks.
	Comments string `json:"comments"`

	// AllowedJudges optionally restricts the submission to a competition's
	// judge roster. Empty means no roster check.
	AllowedJudges []string `json:"allowed_judges,omitempty"`
}

// New creates an engine from the configuration and collaborators.
func New(config Config, deps Dependencies) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if deps.Teams == nil {
		return nil, ErrNilTeamRegistry
	}
	if deps.Proposals == nil {
		return nil, ErrNilProposalRegistry
	}
	if deps.Likes == nil {
		return nil, ErrNilLikeSource
	}
	if deps.Metrics == nil {
		deps.Metrics = nopMetrics{}
	}
	if deps.Logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		deps.Logger = logger
	}

	rubrics := config.Rubrics()
	store := scoring.NewStore(rubrics, deps.Logger)

	aggregator, err := scoring.NewAggregator(store)
	if err != nil {
		return nil, err
	}
	ranker, err := scoring.NewRanker(aggregator, deps.Teams, deps.Proposals, rubrics, deps.Logger)
	if err != nil {
		return nil, err
	}
	popularity, err := scoring.NewPopularityRanker(deps.Likes)
	if err != nil {
		return nil, err
	}
	awards, err := scoring.NewAwardFilter(config.Awards)
	if err != nil {
		return nil, err
	}

	return &Engine{
		config:     config,
		store:      store,
		aggregator: aggregator,
		ranker:     ranker,
		popularity: popularity,
		awards:     awards,
		metrics:    deps.Metrics,
		tracer:     otel.Tracer("scoring-engine"),
	}, nil
}

// SubmitScore validates and upserts one judge's score for one item.
// A submission replaces any prior record from the same judge for the same
// item. Malformed submissions return a *domain.ValidationError and leave
// the store untouched.
func (e *Engine) SubmitScore(ctx context.Context, input SubmitScoreInput) error {
	_, span := e.tracer.Start(ctx, "Engine.SubmitScore",
		trace.WithAttributes(
			attribute.String("judge.id", input.JudgeID),
			attribute.String("item.kind", input.Kind.String()),
			attribute.String("item.id", input.ItemID),
		),
	)
	defer span.End()
	start := time.Now()

	err := e.submit(input)
	status := "accepted"
	if err != nil {
		status = "rejected"
		span.RecordError(err)
	}
	e.metrics.RecordCounter("score_submissions", 1, map[string]string{"status": status})
	e.metrics.RecordLatency("submit_score", time.Since(start), nil)
	e.metrics.RecordGauge("stored_scores", float64(e.store.Count()), nil)
	return err
}

func (e *Engine) submit(input SubmitScoreInput) error {
	if len(input.AllowedJudges) > 0 && !contains(input.AllowedJudges, input.JudgeID) {
		ve := domain.NewValidationError("score submission")
		ve.Addf("%v: %q", domain.ErrUnknownJudge, input.JudgeID)
		return ve
	}
	return e.store.Submit(scoring.SubmitInput{
		JudgeID:    input.JudgeID,
		Kind:       input.Kind,
		ItemID:     input.ItemID,
		Categories: input.Categories,
		Comments:   input.Comments,
	})
}

// RemoveJudge removes every score authored by the judge across both
// judged kinds and returns the number of records removed. Breakdowns and
// rankings recompute over the remaining judges from the next read.
func (e *Engine) RemoveJudge(ctx context.Context, judgeID string) int {
	_, span := e.tracer.Start(ctx, "Engine.RemoveJudge",
		trace.WithAttributes(attribute.String("judge.id", judgeID)),
	)
	defer span.End()

	removed := e.store.RemoveJudge(judgeID)
	span.SetAttributes(attribute.Int("scores.removed", removed))
	e.metrics.RecordCounter("judge_removals", 1, nil)
	e.metrics.RecordGauge("stored_scores", float64(e.store.Count()), nil)
	return removed
}

// DetailedScores returns the aggregate breakdown for one item: per-category
// means, grand total, and judge count. An unjudged item yields all zeros
// with JudgeCount 0. Unknown kinds return domain.ErrUnknownItemKind.
func (e *Engine) DetailedScores(ctx context.Context, kind domain.ItemKind, itemID string) (domain.ScoreBreakdown, error) {
	rubric, err := e.store.Rubric(kind)
	if err != nil {
		return domain.ScoreBreakdown{}, err
	}
	return e.aggregator.DetailedScores(ctx, kind, itemID, rubric), nil
}

// Rankings computes the competition's ranked lists, one per participating
// kind, concatenated individual/team/proposal for mixed competitions.
func (e *Engine) Rankings(ctx context.Context, comp domain.Competition) ([]domain.RankingEntry, error) {
	start := time.Now()
	entries, err := e.ranker.Rankings(ctx, comp)
	e.metrics.RecordLatency("rankings", time.Since(start), nil)
	if err == nil {
		e.metrics.RecordCounter("rankings_computed", 1,
			map[string]string{"competition_type": comp.Type.String()})
	}
	return entries, err
}

// PopularityRankings ranks the competition's participants by like count.
func (e *Engine) PopularityRankings(ctx context.Context, comp domain.Competition) []domain.PopularityEntry {
	start := time.Now()
	entries := e.popularity.Rankings(ctx, comp)
	e.metrics.RecordLatency("popularity_rankings", time.Since(start), nil)
	return entries
}

// FilterAwards filters and sorts the given awards per the query.
func (e *Engine) FilterAwards(ctx context.Context, awards []domain.Award, query scoring.AwardQuery) ([]domain.Award, error) {
	_, span := e.tracer.Start(ctx, "Engine.FilterAwards",
		trace.WithAttributes(attribute.Int("awards.in", len(awards))),
	)
	defer span.End()

	out, err := e.awards.Filter(awards, query)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("awards.out", len(out)))
	return out, nil
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

// nopMetrics is the default metrics sink when no collector is injected.
type nopMetrics struct{}

func (nopMetrics) RecordLatency(string, time.Duration, map[string]string) {}
func (nopMetrics) RecordCounter(string, float64, map[string]string)       {}
func (nopMetrics) RecordGauge(string, float64, map[string]string)         {}
