package scoring

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/compscore/compscore/internal/domain"
	"github.com/compscore/compscore/internal/ports"
)

var _ ports.ScoreSource = (*Store)(nil)

// Store holds the current per-judge scores for every judged item kind.
// Records are keyed by (judge, item): a resubmission for the same pair
// replaces the prior record in full rather than merging field by field.
//
// Concurrency: all methods are safe for concurrent use. Writes to the same
// (judge, item) pair resolve last-write-wins; reads see a consistent
// snapshot of each item's score set.
type Store struct {
	mu sync.RWMutex

	// scores indexes kind -> item id -> judge id -> current score.
	// The inner judge map gives O(1) upsert per (judge, item) pair.
	scores map[domain.ItemKind]map[string]map[string]domain.JudgeScore

	// rubrics maps each judged kind to its category set.
	rubrics map[domain.ItemKind]domain.CategorySet

	log logrus.FieldLogger

	// now is swappable for tests.
	now func() time.Time
}

// SubmitInput is one judge's score submission for one item.
// Struct tags cover the structural checks; rubric membership and value
// bounds are verified against the kind's category set before any mutation.
type SubmitInput struct {
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
}

// NewStore creates a score store for the given rubrics. A nil rubric map
// selects the default application and proposal category sets. The logger
// may be nil; diagnostics are then discarded.
func NewStore(rubrics map[domain.ItemKind]domain.CategorySet, log logrus.FieldLogger) *Store {
	if rubrics == nil {
		rubrics = map[domain.ItemKind]domain.CategorySet{
			domain.KindApplication: domain.ApplicationCategories,
			domain.KindProposal:    domain.ProposalCategories,
		}
	}
	if log == nil {
		log = discardLogger()
	}

	scores := make(map[domain.ItemKind]map[string]map[string]domain.JudgeScore, len(rubrics))
	for kind := range rubrics {
		scores[kind] = make(map[string]map[string]domain.JudgeScore)
	}

	return &Store{
		scores:  scores,
		rubrics: rubrics,
		log:     log,
		now:     time.Now,
	}
}

// Submit validates and upserts one judge's score for one item.
// It returns a *domain.ValidationError describing every violation when the
// submission is malformed; the store is never mutated on rejection.
func (s *Store) Submit(input SubmitInput) error {
	if err := validate.Struct(input); err != nil {
		ve := domain.NewValidationError("score submission")
		ve.Addf("invalid submission: %v", err)
		return ve
	}

	rubric, ok := s.rubrics[input.Kind]
	if !ok {
		ve := domain.NewValidationError("score submission")
		ve.Addf("%v: %q", domain.ErrUnknownItemKind, input.Kind)
		return ve
	}

	if err := checkRubric(rubric, input.Categories); err != nil {
		return err
	}

	record := domain.JudgeScore{
		JudgeID:     input.JudgeID,
		ItemID:      input.ItemID,
		Kind:        input.Kind,
		Categories:  input.Categories,
		Comments:    input.Comments,
		SubmittedAt: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byItem := s.scores[input.Kind]
	byJudge, ok := byItem[input.ItemID]
	if !ok {
		byJudge = make(map[string]domain.JudgeScore)
		byItem[input.ItemID] = byJudge
	}
	if _, replaced := byJudge[input.JudgeID]; replaced {
		s.log.WithFields(logrus.Fields{
			"judge": input.JudgeID,
			"item":  input.ItemID,
			"kind":  input.Kind,
		}).Debug("replacing prior score submission")
	}
	byJudge[input.JudgeID] = record

	return nil
}

// checkRubric verifies that the submitted categories match the rubric
// exactly and that every value is within bounds. All violations are
// collected into a single ValidationError.
func checkRubric(rubric domain.CategorySet, categories map[string]int) error {
	ve := domain.NewValidationError("score submission")

	for _, name := range rubric {
		if _, ok := categories[name]; !ok {
			ve.Addf("%v: %q", domain.ErrMissingCategory, name)
		}
	}
	for name, value := range categories {
		if !rubric.Contains(name) {
			ve.Addf("%v: %q", domain.ErrUnknownCategory, name)
			continue
		}
		if value < domain.MinCategoryScore || value > domain.MaxCategoryScore {
			ve.Addf("%v: %s=%d, want %d-%d",
				domain.ErrScoreOutOfRange, name, value,
				domain.MinCategoryScore, domain.MaxCategoryScore)
		}
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}

// ScoresFor returns every current score for the item, in no particular
// order. The returned slice is a copy owned by the caller; an unknown item
// yields an empty slice.
func (s *Store) ScoresFor(kind domain.ItemKind, itemID string) []domain.JudgeScore {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byJudge := s.scores[kind][itemID]
	out := make([]domain.JudgeScore, 0, len(byJudge))
	for _, record := range byJudge {
		out = append(out, record)
	}
	return out
}

// RemoveJudge removes every score authored by the judge across all item
// kinds and returns the number of records removed. Removing an unknown
// judge is a no-op.
func (s *Store) RemoveJudge(judgeID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, byItem := range s.scores {
		for itemID, byJudge := range byItem {
			if _, ok := byJudge[judgeID]; !ok {
				continue
			}
			delete(byJudge, judgeID)
			removed++
			if len(byJudge) == 0 {
				delete(byItem, itemID)
			}
		}
	}

	if removed > 0 {
		s.log.WithFields(logrus.Fields{
			"judge":   judgeID,
			"removed": removed,
		}).Info("cascaded judge removal across score store")
	}
	return removed
}

// Count returns the total number of stored score records across all kinds.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, byItem := range s.scores {
		for _, byJudge := range byItem {
			total += len(byJudge)
		}
	}
	return total
}

// Rubric returns the category set for the kind, or an error when the kind
// is not judged by this store.
func (s *Store) Rubric(kind domain.ItemKind) (domain.CategorySet, error) {
	rubric, ok := s.rubrics[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownItemKind, kind)
	}
	return rubric, nil
}
