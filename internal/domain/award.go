package domain

// AwardType classifies an award.
type AwardType string

// Supported award types. AwardCustom covers ad-hoc awards named by the
// organizer; the filter treats it like any other exact-match type.
const (
	AwardGold       AwardType = "gold"
	AwardSilver     AwardType = "silver"
	AwardBronze     AwardType = "bronze"
	AwardPopular    AwardType = "popular"
	AwardInnovation AwardType = "innovation"
	AwardTechnical  AwardType = "technical"
	AwardCustom     AwardType = "custom"
)

// String returns the string representation of the award type.
func (t AwardType) String() string { return string(t) }

// Award is one awarded record, produced by an external award-assignment
// process. The engine only filters and sorts awards; it never creates them.
type Award struct {
	// ID uniquely identifies the award record.
	ID string `json:"id"`

	// CompetitionID references the competition the award was given in.
	CompetitionID string `json:"competition_id"`

	// AppID is set for individual awards, TeamID for team awards.
	AppID  string `json:"app_id,omitempty"`
	TeamID string `json:"team_id,omitempty"`

	// CompetitionType is the kind of competition the award came from.
	CompetitionType CompetitionType `json:"competition_type"`

	// Type classifies the award (gold, silver, popular, ...).
	Type AwardType `json:"type"`

	// Name is the display name of the award itself.
	Name string `json:"name"`

	// ItemName is the awarded item's display name, Creator its author or
	// team name. Both are denormalized for search.
	ItemName string `json:"item_name,omitempty"`
	Creator  string `json:"creator,omitempty"`

	// Category is the free-form category label the award was filed under.
	Category string `json:"category,omitempty"`

	// Rank is 1-3 for placement awards and 0 for non-ranking awards.
	// Rank 0 sorts after every positive rank.
	Rank int `json:"rank"`

	// Year and Month locate the award in time.
	Year  int `json:"year"`
	Month int `json:"month"`

	// Score is the aggregate score the award was granted at.
	Score float64 `json:"score"`
}
