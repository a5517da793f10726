package scoring

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/compscore/compscore/internal/domain"
	"github.com/compscore/compscore/internal/ports"
)

// PopularityRanker ranks a competition's participants by like count,
// independent of judge scoring. It is a pure function of the injected
// like-count source: no history, no windowing (the source may window
// internally as its own concern).
type PopularityRanker struct {
	likes  ports.LikeCountSource
	tracer trace.Tracer
}

// NewPopularityRanker creates a popularity ranker over the given
// like-count source.
func NewPopularityRanker(likes ports.LikeCountSource) (*PopularityRanker, error) {
	if likes == nil {
		return nil, ErrNilLikeSource
	}
	return &PopularityRanker{
		likes:  likes,
		tracer: otel.Tracer("popularity-ranker"),
	}, nil
}

// Rankings ranks the competition's participants by like count descending,
// with dense 1-based ranks and ties kept in participant list order.
// Participants the source has never seen count as 0 likes.
//
// The participant list follows the competition type: apps for individual,
// teams for team, proposals for proposal. A mixed competition ranks all
// three lists together as a single pool, concatenated in that order.
func (p *PopularityRanker) Rankings(ctx context.Context, comp domain.Competition) []domain.PopularityEntry {
	_, span := p.tracer.Start(ctx, "PopularityRanker.Rankings",
		trace.WithAttributes(
			attribute.String("competition.id", comp.ID),
			attribute.String("competition.type", comp.Type.String()),
		),
	)
	defer span.End()

	participants := participantsFor(comp)
	entries := make([]domain.PopularityEntry, 0, len(participants))
	for _, id := range participants {
		entries = append(entries, domain.PopularityEntry{
			ItemID: id,
			Likes:  p.likes.LikeCount(id),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Likes > entries[j].Likes
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	span.SetAttributes(attribute.Int("ranking.entries", len(entries)))
	return entries
}

// participantsFor selects the participant ids matching the competition
// type. Unknown types yield an empty list; the ranker treats an empty
// ranking as a valid zero result.
func participantsFor(comp domain.Competition) []string {
	switch comp.Type {
	case domain.CompetitionIndividual:
		return comp.ParticipatingApps
	case domain.CompetitionTeam:
		return comp.ParticipatingTeams
	case domain.CompetitionProposal:
		return comp.ParticipatingProposals
	case domain.CompetitionMixed:
		out := make([]string, 0,
			len(comp.ParticipatingApps)+len(comp.ParticipatingTeams)+len(comp.ParticipatingProposals))
		out = append(out, comp.ParticipatingApps...)
		out = append(out, comp.ParticipatingTeams...)
		out = append(out, comp.ParticipatingProposals...)
		return out
	}
	return nil
}
