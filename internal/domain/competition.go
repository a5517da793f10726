package domain

// CompetitionType determines which item kinds a competition ranks.
type CompetitionType string

// Supported competition types. A mixed competition runs an independent
// ranking for whichever of the three kinds it lists participants for.
const (
	CompetitionIndividual CompetitionType = "individual"
	CompetitionTeam       CompetitionType = "team"
	CompetitionProposal   CompetitionType = "proposal"
	CompetitionMixed      CompetitionType = "mixed"
)

// String returns the string representation of the competition type.
func (t CompetitionType) String() string { return string(t) }

// Valid reports whether the type is one of the supported competition types.
func (t CompetitionType) Valid() bool {
	switch t {
	case CompetitionIndividual, CompetitionTeam, CompetitionProposal, CompetitionMixed:
		return true
	}
	return false
}

// Competition enumerates the participants and judge roster of one
// competition. Rosters are maintained by an external collaborator and may
// transiently reference items missing from the registries; the ranker
// skips those entries rather than failing.
type Competition struct {
	// ID uniquely identifies the competition.
	ID string `json:"id"`

	// Type selects which participant lists are ranked.
	Type CompetitionType `json:"type"`

	// ParticipatingApps lists application ids ranked individually.
	// List order is the tie-break order for equal totals.
	ParticipatingApps []string `json:"participating_apps,omitempty"`

	// ParticipatingTeams lists team ids ranked as aggregates.
	ParticipatingTeams []string `json:"participating_teams,omitempty"`

	// ParticipatingProposals lists proposal ids.
	ParticipatingProposals []string `json:"participating_proposals,omitempty"`

	// Judges is the judge roster. When a submission is checked against a
	// roster, judges outside this list are rejected.
	Judges []string `json:"judges,omitempty"`
}

// TeamMember is one member of a team.
type TeamMember struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	Role       string `json:"role,omitempty"`
}

// Team is a registered team and the applications it owns. Team rankings
// aggregate over Apps; a team with no apps scores 0.
type Team struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Members      []TeamMember `json:"members,omitempty"`
	LeaderID     string       `json:"leader_id,omitempty"`
	Department   string       `json:"department,omitempty"`
	ContactEmail string       `json:"contact_email,omitempty"`

	// Apps lists the application ids owned by this team.
	Apps []string `json:"apps,omitempty"`

	// TotalLikes is the team's cumulative like count as last snapshotted.
	TotalLikes int `json:"total_likes"`
}

// Proposal is a written proposal. Each proposal belongs to exactly one team.
type Proposal struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	TeamID string `json:"team_id"`
}

// RankingEntry is one row of a ranked list. Entries of different kinds
// never share a list for ranking purposes; a mixed competition returns the
// concatenation of its per-kind lists.
type RankingEntry struct {
	// ItemID identifies the ranked item.
	ItemID string `json:"item_id"`

	// Kind is the item kind of this entry.
	Kind ItemKind `json:"kind"`

	// Name is the display name resolved from the registries, when known.
	Name string `json:"name,omitempty"`

	// TeamID is the owning team for proposal entries, resolved for display.
	TeamID string `json:"team_id,omitempty"`

	// Categories is the per-category breakdown backing Total. For team
	// entries these are synthetic equal-quarter values.
	Categories map[string]float64 `json:"categories"`

	// Total is the aggregate score this entry was ranked by.
	Total float64 `json:"total"`

	// JudgeCount is the number of contributing judges (0 for team entries,
	// which aggregate app totals rather than direct scores).
	JudgeCount int `json:"judge_count"`

	// Rank is the dense 1-based rank within this entry's kind. Exact ties
	// receive consecutive distinct ranks in participant list order.
	Rank int `json:"rank"`
}

// PopularityEntry is one row of a like-count ranking.
type PopularityEntry struct {
	// ItemID identifies the participant.
	ItemID string `json:"item_id"`

	// Likes is the participant's like count at ranking time.
	Likes int `json:"likes"`

	// Rank is the dense 1-based rank, ties broken by participant order.
	Rank int `json:"rank"`
}
