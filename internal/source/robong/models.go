package robong

// scheduleResponse is the feed envelope. status=false means "no data for
// this date", not an error.
type scheduleResponse struct {
	Status bool          `json:"status"`
	Result []competition `json:"result"`
}

type competition struct {
	Name      string      `json:"name"`
	ShortName string      `json:"short_name"`
	Matches   []feedMatch `json:"matches"`
}

type feedMatch struct {
	MatchTime  int64    `json:"match_time"` // unix epoch seconds
	HomeTeam   feedTeam `json:"home_team"`
	AwayTeam   feedTeam `json:"away_team"`
	StatusText string   `json:"status_text"`
}

type feedTeam struct {
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	Logo      string `json:"logo"`
}
