package teams

// Team is a club as reported by the stats API roster for a sport.
type Team struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	TeamName     string `json:"teamName"`
	Abbreviation string `json:"abbreviation"`
}

// DisplayName prefers the full club name and falls back to the short one.
func (t Team) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.TeamName
}
