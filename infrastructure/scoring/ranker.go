package scoring

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/compscore/compscore/internal/domain"
	"github.com/compscore/compscore/internal/ports"
)

// Ranker produces the ranked leaderboards of a competition, one list per
// participating item kind.
//
// Ranking rules:
//   - Each kind is ranked independently; ranks are dense (1..N) within the
//     kind and restart for every kind of a mixed competition.
//   - Lists sort by total descending. Exact ties keep participant list
//     order and receive consecutive distinct ranks, not shared ranks.
//   - A team's total is the unweighted mean of its apps' totals (0 for a
//     team with no apps), with synthetic equal-quarter category values.
//   - Participant ids with no backing registry record are skipped with a
//     diagnostic; roster and registry are maintained by different
//     collaborators and may transiently disagree.
//
// The ranker is stateless and safe for concurrent use.
type Ranker struct {
	agg       *Aggregator
	teams     ports.TeamRegistry
	proposals ports.ProposalRegistry
	rubrics   map[domain.ItemKind]domain.CategorySet
	log       logrus.FieldLogger
	tracer    trace.Tracer
}

// NewRanker creates a ranker over the given aggregator and registries.
// A nil rubric map selects the default category sets; a nil logger
// discards diagnostics.
func NewRanker(
	agg *Aggregator,
	teams ports.TeamRegistry,
	proposals ports.ProposalRegistry,
	rubrics map[domain.ItemKind]domain.CategorySet,
	log logrus.FieldLogger,
) (*Ranker, error) {
	if agg == nil {
		return nil, ErrNilAggregator
	}
	if teams == nil || proposals == nil {
		return nil, ErrNilRegistry
	}
	if rubrics == nil {
		rubrics = map[domain.ItemKind]domain.CategorySet{
			domain.KindApplication: domain.ApplicationCategories,
			domain.KindProposal:    domain.ProposalCategories,
		}
	}
	if log == nil {
		log = discardLogger()
	}
	return &Ranker{
		agg:       agg,
		teams:     teams,
		proposals: proposals,
		rubrics:   rubrics,
		log:       log,
		tracer:    otel.Tracer("scoring-ranker"),
	}, nil
}

// Rankings computes the competition's ranked lists. A single-type
// competition yields one list; a mixed competition yields the
// concatenation individual, then team, then proposal, each ranked
// independently. The per-kind lists of a mixed competition are computed
// concurrently.
func (r *Ranker) Rankings(ctx context.Context, comp domain.Competition) ([]domain.RankingEntry, error) {
	ctx, span := r.tracer.Start(ctx, "Ranker.Rankings",
		trace.WithAttributes(
			attribute.String("competition.id", comp.ID),
			attribute.String("competition.type", comp.Type.String()),
		),
	)
	defer span.End()

	switch comp.Type {
	case domain.CompetitionIndividual:
		return r.rankApps(ctx, comp), nil
	case domain.CompetitionTeam:
		return r.rankTeams(ctx, comp), nil
	case domain.CompetitionProposal:
		return r.rankProposals(ctx, comp), nil
	case domain.CompetitionMixed:
		// Fall through to the concurrent path below.
	default:
		err := fmt.Errorf("%w: %q", ErrUnknownCompetitionType, comp.Type)
		span.RecordError(err)
		return nil, err
	}

	var apps, teams, proposals []domain.RankingEntry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		apps = r.rankApps(gctx, comp)
		return nil
	})
	g.Go(func() error {
		teams = r.rankTeams(gctx, comp)
		return nil
	})
	g.Go(func() error {
		proposals = r.rankProposals(gctx, comp)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]domain.RankingEntry, 0, len(apps)+len(teams)+len(proposals))
	out = append(out, apps...)
	out = append(out, teams...)
	out = append(out, proposals...)
	span.SetAttributes(attribute.Int("ranking.entries", len(out)))
	return out, nil
}

func (r *Ranker) rankApps(ctx context.Context, comp domain.Competition) []domain.RankingEntry {
	rubric := r.rubrics[domain.KindApplication]
	entries := make([]domain.RankingEntry, 0, len(comp.ParticipatingApps))
	for _, appID := range comp.ParticipatingApps {
		breakdown := r.agg.DetailedScores(ctx, domain.KindApplication, appID, rubric)
		entries = append(entries, domain.RankingEntry{
			ItemID:     appID,
			Kind:       domain.KindApplication,
			Categories: breakdown.Categories,
			Total:      breakdown.Total,
			JudgeCount: breakdown.JudgeCount,
		})
	}
	return assignRanks(entries)
}

func (r *Ranker) rankTeams(ctx context.Context, comp domain.Competition) []domain.RankingEntry {
	entries := make([]domain.RankingEntry, 0, len(comp.ParticipatingTeams))
	for _, teamID := range comp.ParticipatingTeams {
		team, ok := r.teams.TeamByID(teamID)
		if !ok {
			r.log.WithFields(logrus.Fields{
				"competition": comp.ID,
				"team":        teamID,
			}).Warn("skipping team missing from registry")
			continue
		}
		entries = append(entries, r.teamEntry(ctx, team))
	}
	return assignRanks(entries)
}

// teamEntry derives a team's ranking entry from the totals of the apps it
// owns. The mean is unweighted by per-app judge counts; the four synthetic
// categories are equal quarters of the team total.
func (r *Ranker) teamEntry(ctx context.Context, team domain.Team) domain.RankingEntry {
	total := 0.0
	if len(team.Apps) > 0 {
		rubric := r.rubrics[domain.KindApplication]
		sum := 0.0
		for _, appID := range team.Apps {
			breakdown := r.agg.DetailedScores(ctx, domain.KindApplication, appID, rubric)
			sum += breakdown.Total
		}
		total = roundTenth(sum / float64(len(team.Apps)))
	}

	categories := make(map[string]float64, len(domain.TeamCategories))
	for _, name := range domain.TeamCategories {
		categories[name] = roundTenth(total * 0.25)
	}

	return domain.RankingEntry{
		ItemID:     team.ID,
		Kind:       domain.KindTeam,
		Name:       team.Name,
		Categories: categories,
		Total:      total,
	}
}

func (r *Ranker) rankProposals(ctx context.Context, comp domain.Competition) []domain.RankingEntry {
	rubric := r.rubrics[domain.KindProposal]
	entries := make([]domain.RankingEntry, 0, len(comp.ParticipatingProposals))
	for _, propID := range comp.ParticipatingProposals {
		proposal, ok := r.proposals.ProposalByID(propID)
		if !ok {
			r.log.WithFields(logrus.Fields{
				"competition": comp.ID,
				"proposal":    propID,
			}).Warn("skipping proposal missing from registry")
			continue
		}
		breakdown := r.agg.DetailedScores(ctx, domain.KindProposal, propID, rubric)
		entries = append(entries, domain.RankingEntry{
			ItemID:     propID,
			Kind:       domain.KindProposal,
			Name:       proposal.Title,
			TeamID:     proposal.TeamID,
			Categories: breakdown.Categories,
			Total:      breakdown.Total,
			JudgeCount: breakdown.JudgeCount,
		})
	}
	return assignRanks(entries)
}

// assignRanks sorts entries by total descending and assigns dense 1-based
// ranks. The stable sort keeps participant list order for exact ties, so
// tied entries receive consecutive distinct ranks in input order.
func assignRanks(entries []domain.RankingEntry) []domain.RankingEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Total > entries[j].Total
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
