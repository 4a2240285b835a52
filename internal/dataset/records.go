package dataset

// Native record shapes as they appear in the per-domain JSON files. Adapters
// normalize these into the unified entity schema; nothing outside the adapter
// layer should depend on them.

// Challenge is an Atlas innovation challenge record.
type Challenge struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Summary        string            `json:"summary"`
	Sector         string            `json:"sector"`
	ProblemType    string            `json:"problemType"`
	SecondaryTypes []string          `json:"secondaryTypes,omitempty"`
	Keywords       []string          `json:"keywords,omitempty"`
	StakeholderIDs []string          `json:"stakeholderIds,omitempty"`
	Custom         map[string]string `json:"custom,omitempty"`
}

// Technology is a Navigate technology record. TRL is the 1-9 readiness scale.
type Technology struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Sector       string            `json:"sector"`
	TRL          int               `json:"trl"`
	Tags         []string          `json:"tags,omitempty"`
	ChallengeIDs []string          `json:"addressesChallenges,omitempty"`
	Custom       map[string]string `json:"custom,omitempty"`
}

// Project is a CPC internal project record.
type Project struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Stage          string            `json:"stage"`
	FundingAmount  float64           `json:"fundingAmount"`
	TechnologyIDs  []string          `json:"fundsTechnologies,omitempty"`
	StakeholderIDs []string          `json:"stakeholderIds,omitempty"`
	Custom         map[string]string `json:"custom,omitempty"`
}

// Stakeholder is a CPC stakeholder record.
type Stakeholder struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Organization string            `json:"organization"`
	Sector       string            `json:"sector"`
	Custom       map[string]string `json:"custom,omitempty"`
}

// Dataset bundles all domain records loaded from the data directory.
type Dataset struct {
	Challenges   []Challenge
	Technologies []Technology
	Projects     []Project
	Stakeholders []Stakeholder
}
