// Package domain contains the core types of the scoring engine: items,
// judge scores, competitions, awards, and the error taxonomy shared by
// every component. Types here are plain data with no I/O dependencies.
package domain

// ItemKind identifies the kind of entity being judged or ranked.
type ItemKind string

// Supported item kinds. Each kind carries its own judging category set
// and is ranked independently of the others.
const (
	// KindApplication is an individually-submitted application.
	KindApplication ItemKind = "application"

	// KindTeam is a team, scored as an aggregate over its applications.
	KindTeam ItemKind = "team"

	// KindProposal is a written proposal owned by exactly one team.
	KindProposal ItemKind = "proposal"
)

// String returns the string representation of the item kind.
func (k ItemKind) String() string { return string(k) }

// Valid reports whether the kind is one of the supported item kinds.
func (k ItemKind) Valid() bool {
	switch k {
	case KindApplication, KindTeam, KindProposal:
		return true
	}
	return false
}

// Category score bounds. Every judge assigns each category an integer
// within this closed range; values outside it are rejected before the
// score store is mutated.
const (
	MinCategoryScore = 1
	MaxCategoryScore = 10
)

// CategorySet is an ordered list of judging criterion names for one item
// kind. Order is significant: reported breakdowns and synthetic category
// splits follow set order.
type CategorySet []string

// Contains reports whether the set includes the named category.
func (cs CategorySet) Contains(name string) bool {
	for _, c := range cs {
		if c == name {
			return true
		}
	}
	return false
}

// Default category sets for the two judged item kinds, and the synthetic
// set reported for teams. Team categories are not independently judged;
// they are derived as equal quarters of the team aggregate.
var (
	// ApplicationCategories is the judging rubric for applications.
	ApplicationCategories = CategorySet{
		"innovation", "technical", "usability", "presentation", "impact",
	}

	// ProposalCategories is the judging rubric for written proposals.
	ProposalCategories = CategorySet{
		"problem_identification", "solution_feasibility", "innovation", "impact", "presentation",
	}

	// TeamCategories is the synthetic breakdown reported for team rankings.
	TeamCategories = CategorySet{
		"teamwork", "technical", "innovation", "practical",
	}
)
