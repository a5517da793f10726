package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compscore/compscore/infrastructure/scoring"
	"github.com/compscore/compscore/internal/domain"
)

type fakeTeams map[string]domain.Team

func (f fakeTeams) TeamByID(id string) (domain.Team, bool) {
	team, ok := f[id]
	return team, ok
}

type fakeProposals map[string]domain.Proposal

func (f fakeProposals) ProposalByID(id string) (domain.Proposal, bool) {
	proposal, ok := f[id]
	return proposal, ok
}

type fakeLikes map[string]int

func (f fakeLikes) LikeCount(itemID string) int { return f[itemID] }

// recordingMetrics captures counter increments for assertions.
type recordingMetrics struct {
	mu       sync.Mutex
	counters map[string]float64
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{counters: make(map[string]float64)}
}

func (m *recordingMetrics) RecordLatency(string, time.Duration, map[string]string) {}

func (m *recordingMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := metric
	if status, ok := labels["status"]; ok {
		key += ":" + status
	}
	m.counters[key] += value
}

func (m *recordingMetrics) RecordGauge(string, float64, map[string]string) {}

func (m *recordingMetrics) counter(key string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[key]
}

func newTestEngine(t *testing.T, deps Dependencies) *Engine {
	t.Helper()
	if deps.Teams == nil {
		deps.Teams = fakeTeams{}
	}
	if deps.Proposals == nil {
		deps.Proposals = fakeProposals{}
	}
	if deps.Likes == nil {
		deps.Likes = fakeLikes{}
	}
	eng, err := New(DefaultConfig(), deps)
	require.NoError(t, err)
	return eng
}

func appSubmission(judgeID, itemID string, value int) SubmitScoreInput {
	return SubmitScoreInput{
		JudgeID: judgeID,
		Kind:    domain.KindApplication,
		ItemID:  itemID,
		Categories: map[string]int{
			"innovation": value, "technical": value, "usability": value,
			"presentation": value, "impact": value,
		},
	}
}

func TestNewRejectsMissingDependencies(t *testing.T) {
	cfg := DefaultConfig()

	_, err := New(cfg, Dependencies{Proposals: fakeProposals{}, Likes: fakeLikes{}})
	assert.ErrorIs(t, err, ErrNilTeamRegistry)

	_, err = New(cfg, Dependencies{Teams: fakeTeams{}, Likes: fakeLikes{}})
	assert.ErrorIs(t, err, ErrNilProposalRegistry)

	_, err = New(cfg, Dependencies{Teams: fakeTeams{}, Proposals: fakeProposals{}})
	assert.ErrorIs(t, err, ErrNilLikeSource)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Categories.Application = nil

	_, err := New(cfg, Dependencies{
		Teams: fakeTeams{}, Proposals: fakeProposals{}, Likes: fakeLikes{},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestEngineSubmitAndAggregate(t *testing.T) {
	metrics := newRecordingMetrics()
	eng := newTestEngine(t, Dependencies{Metrics: metrics})
	ctx := context.Background()

	require.NoError(t, eng.SubmitScore(ctx, appSubmission("j1", "a1", 10)))
	require.NoError(t, eng.SubmitScore(ctx, appSubmission("j2", "a1", 8)))

	breakdown, err := eng.DetailedScores(ctx, domain.KindApplication, "a1")
	require.NoError(t, err)
	assert.Equal(t, 2, breakdown.JudgeCount)
	assert.InDelta(t, 9.0, breakdown.Total, 1e-9)

	assert.InDelta(t, 2, metrics.counter("score_submissions:accepted"), 1e-9)
}

func TestEngineSubmitUpserts(t *testing.T) {
	eng := newTestEngine(t, Dependencies{})
	ctx := context.Background()

	require.NoError(t, eng.SubmitScore(ctx, appSubmission("j1", "a1", 3)))
	require.NoError(t, eng.SubmitScore(ctx, appSubmission("j1", "a1", 9)))

	breakdown, err := eng.DetailedScores(ctx, domain.KindApplication, "a1")
	require.NoError(t, err)
	assert.Equal(t, 1, breakdown.JudgeCount, "Second submission replaces the first")
	assert.InDelta(t, 9.0, breakdown.Total, 1e-9)
}

func TestEngineSubmitRejectsMalformed(t *testing.T) {
	metrics := newRecordingMetrics()
	eng := newTestEngine(t, Dependencies{Metrics: metrics})

	input := appSubmission("j1", "a1", 5)
	input.Categories["impact"] = 42
	err := eng.SubmitScore(context.Background(), input)

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.InDelta(t, 1, metrics.counter("score_submissions:rejected"), 1e-9)

	breakdown, err := eng.DetailedScores(context.Background(), domain.KindApplication, "a1")
	require.NoError(t, err)
	assert.Zero(t, breakdown.JudgeCount, "Rejected submission must not be stored")
}

func TestEngineSubmitEnforcesRoster(t *testing.T) {
	eng := newTestEngine(t, Dependencies{})

	input := appSubmission("intruder", "a1", 5)
	input.AllowedJudges = []string{"j1", "j2"}
	err := eng.SubmitScore(context.Background(), input)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "judge not on competition roster")

	input.JudgeID = "j2"
	assert.NoError(t, eng.SubmitScore(context.Background(), input))
}

func TestEngineDetailedScoresUnknownKind(t *testing.T) {
	eng := newTestEngine(t, Dependencies{})

	_, err := eng.DetailedScores(context.Background(), domain.KindTeam, "t1")
	assert.ErrorIs(t, err, domain.ErrUnknownItemKind)
}

func TestEngineRemoveJudge(t *testing.T) {
	eng := newTestEngine(t, Dependencies{})
	ctx := context.Background()

	require.NoError(t, eng.SubmitScore(ctx, appSubmission("j1", "a1", 10)))
	require.NoError(t, eng.SubmitScore(ctx, appSubmission("j2", "a1", 4)))

	removed := eng.RemoveJudge(ctx, "j1")
	assert.Equal(t, 1, removed)

	breakdown, err := eng.DetailedScores(ctx, domain.KindApplication, "a1")
	require.NoError(t, err)
	assert.Equal(t, 1, breakdown.JudgeCount)
	assert.InDelta(t, 4.0, breakdown.Total, 1e-9, "Aggregates recompute over remaining judges")
}

// TestEngineRankingsEndToEnd runs the individual competition example from
// submission through the ranked list.
func TestEngineRankingsEndToEnd(t *testing.T) {
	eng := newTestEngine(t, Dependencies{})
	ctx := context.Background()

	require.NoError(t, eng.SubmitScore(ctx, appSubmission("j1", "a1", 10)))
	require.NoError(t, eng.SubmitScore(ctx, appSubmission("j1", "a2", 5)))
	require.NoError(t, eng.SubmitScore(ctx, appSubmission("j2", "a1", 8)))

	entries, err := eng.Rankings(ctx, domain.Competition{
		ID:                "c1",
		Type:              domain.CompetitionIndividual,
		ParticipatingApps: []string{"a1", "a2"},
		Judges:            []string{"j1", "j2"},
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a1", entries[0].ItemID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.InDelta(t, 9.0, entries[0].Total, 1e-9)
	assert.Equal(t, "a2", entries[1].ItemID)
	assert.Equal(t, 2, entries[1].Rank)
	assert.InDelta(t, 5.0, entries[1].Total, 1e-9)
}

func TestEngineMixedRankings(t *testing.T) {
	teams := fakeTeams{"t1": {ID: "t1", Name: "Aurora", Apps: []string{"a1"}}}
	proposals := fakeProposals{"p1": {ID: "p1", Title: "Edge Caching", TeamID: "t1"}}
	eng := newTestEngine(t, Dependencies{Teams: teams, Proposals: proposals})
	ctx := context.Background()

	require.NoError(t, eng.SubmitScore(ctx, appSubmission("j1", "a1", 8)))

	entries, err := eng.Rankings(ctx, domain.Competition{
		ID:                     "c1",
		Type:                   domain.CompetitionMixed,
		ParticipatingApps:      []string{"a1"},
		ParticipatingTeams:     []string{"t1"},
		ParticipatingProposals: []string{"p1"},
	})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, domain.KindApplication, entries[0].Kind)
	assert.Equal(t, domain.KindTeam, entries[1].Kind)
	assert.Equal(t, domain.KindProposal, entries[2].Kind)
	for _, entry := range entries {
		assert.Equal(t, 1, entry.Rank, "Each kind is ranked independently")
	}
}

func TestEnginePopularityRankings(t *testing.T) {
	eng := newTestEngine(t, Dependencies{Likes: fakeLikes{"a1": 2, "a2": 7}})

	entries := eng.PopularityRankings(context.Background(), domain.Competition{
		ID:                "c1",
		Type:              domain.CompetitionIndividual,
		ParticipatingApps: []string{"a1", "a2"},
	})
	require.Len(t, entries, 2)
	assert.Equal(t, "a2", entries[0].ItemID)
	assert.Equal(t, 1, entries[0].Rank)
}

func TestEngineFilterAwards(t *testing.T) {
	eng := newTestEngine(t, Dependencies{})

	awards := []domain.Award{
		{ID: "x", Year: 2024, Month: 3, Rank: 1},
		{ID: "y", Year: 2023, Month: 6, Rank: 2},
	}
	got, err := eng.FilterAwards(context.Background(), awards, scoring.AwardQuery{Year: 2024})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "x", got[0].ID)

	_, err = eng.FilterAwards(context.Background(), awards, scoring.AwardQuery{Month: 13})
	assert.Error(t, err)
}
