package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/compscore/compscore/internal/domain"
)

// foldCaser is a package-level Unicode case folder for search
// normalization. This avoids creating a new caser per comparison.
var foldCaser = cases.Fold()

// Special category filter values understood by the award filter.
// Any other non-empty category value matches the Category field exactly.
const (
	// CategoryRanking selects placement awards (rank 1-3).
	CategoryRanking = "ranking"

	// CategoryPopular selects awards of type popular regardless of rank.
	CategoryPopular = "popular"
)

// DefaultFuzzyThreshold is the minimum Levenshtein similarity for a fuzzy
// search hit when the query does not set its own threshold.
const DefaultFuzzyThreshold = 0.8

// AwardQuery is the set of independently combinable award filters.
// Zero values mean "no constraint" for every field.
type AwardQuery struct {
	// Year and Month match the award's year/month exactly when non-zero.
	Year  int `json:"year" validate:"min=0"`
	Month int `json:"month" validate:"min=0,max=12"`

	// CompetitionType matches exactly when non-empty.
	CompetitionType domain.CompetitionType `json:"competition_type"`

	// Category matches the category field exactly, except for the derived
	// CategoryRanking and CategoryPopular values.
	Category string `json:"category"`

	// Search matches case-insensitively against item name, creator, and
	// award name (OR across the three fields).
	Search string `json:"search"`

	// Fuzzy additionally accepts search hits by Levenshtein similarity,
	// tolerating typos in the query.
	Fuzzy bool `json:"fuzzy"`

	// FuzzyThreshold overrides the filter's similarity threshold for this
	// query when non-zero.
	FuzzyThreshold float64 `json:"fuzzy_threshold" validate:"min=0,max=1"`
}

// AwardFilterConfig configures an AwardFilter.
type AwardFilterConfig struct {
	// FuzzyThreshold is the minimum similarity (0.0-1.0) for fuzzy search
	// hits. Zero selects DefaultFuzzyThreshold.
	FuzzyThreshold float64 `yaml:"fuzzy_threshold" json:"fuzzy_threshold" validate:"min=0,max=1"`
}

// AwardFilter filters and sorts awarded records. The filter never creates
// or mutates awards; it returns a sorted copy of the matching subset.
//
// Sort order: month descending, then rank ascending, except that rank 0
// (non-placement awards) always sorts after any positive rank.
type AwardFilter struct {
	config AwardFilterConfig
}

// NewAwardFilter creates an award filter with the given configuration.
func NewAwardFilter(config AwardFilterConfig) (*AwardFilter, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if config.FuzzyThreshold == 0 {
		config.FuzzyThreshold = DefaultFuzzyThreshold
	}
	return &AwardFilter{config: config}, nil
}

// Filter returns the awards matching the query, sorted. The input slice is
// not modified. An invalid query returns a *domain.ValidationError.
func (f *AwardFilter) Filter(awards []domain.Award, query AwardQuery) ([]domain.Award, error) {
	if err := validate.Struct(query); err != nil {
		ve := domain.NewValidationError("award query")
		ve.Addf("invalid query: %v", err)
		return nil, ve
	}

	threshold := f.config.FuzzyThreshold
	if query.FuzzyThreshold > 0 {
		threshold = query.FuzzyThreshold
	}

	out := make([]domain.Award, 0, len(awards))
	for _, award := range awards {
		if f.matches(award, query, threshold) {
			out = append(out, award)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month > out[j].Month
		}
		return rankOrdinal(out[i].Rank) < rankOrdinal(out[j].Rank)
	})
	return out, nil
}

func (f *AwardFilter) matches(award domain.Award, query AwardQuery, threshold float64) bool {
	if query.Year != 0 && award.Year != query.Year {
		return false
	}
	if query.Month != 0 && award.Month != query.Month {
		return false
	}
	if query.CompetitionType != "" && award.CompetitionType != query.CompetitionType {
		return false
	}

	switch query.Category {
	case "":
	case CategoryRanking:
		if award.Rank < 1 || award.Rank > 3 {
			return false
		}
	case CategoryPopular:
		if award.Type != domain.AwardPopular {
			return false
		}
	default:
		if award.Category != query.Category {
			return false
		}
	}

	if query.Search != "" {
		return f.matchesSearch(award, query, threshold)
	}
	return true
}

// matchesSearch checks the free-text query against item name, creator, and
// award name, case-folded. Substring containment always matches; fuzzy
// queries additionally accept fields within the similarity threshold.
func (f *AwardFilter) matchesSearch(award domain.Award, query AwardQuery, threshold float64) bool {
	needle := foldCaser.String(strings.TrimSpace(query.Search))
	if needle == "" {
		return true
	}

	for _, field := range []string{award.ItemName, award.Creator, award.Name} {
		if field == "" {
			continue
		}
		folded := foldCaser.String(field)
		if strings.Contains(folded, needle) {
			return true
		}
		if query.Fuzzy && similarity(folded, needle) >= threshold {
			return true
		}
	}
	return false
}

// similarity converts Levenshtein edit distance to a 0.0-1.0 score
// relative to the longer string. Two empty strings are identical.
func similarity(a, b string) float64 {
	longest := math.Max(float64(len([]rune(a))), float64(len([]rune(b))))
	if longest == 0 {
		return 1.0
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(distance)/longest
}

// rankOrdinal maps award rank to sort order: positive ranks ascend, rank 0
// (non-placement) sorts after every positive rank.
func rankOrdinal(rank int) int {
	if rank == 0 {
		return math.MaxInt
	}
	return rank
}
