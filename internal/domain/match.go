package domain

import (
	"strings"
	"time"
)

type MatchStatus string

const (
	MatchScheduled MatchStatus = "scheduled"
	MatchLive      MatchStatus = "live"
	MatchFinished  MatchStatus = "finished"
	MatchCancelled MatchStatus = "cancelled"
)

type Team struct {
	ID      int64
	Name    string
	Code    *string
	LogoURL *string
}

type Match struct {
	ID             int64
	HomeTeamID     int64
	AwayTeamID     int64
	CategoryID     int64
	TournamentName string
	MatchDate      time.Time
	Venue          string
	Status         MatchStatus
}

// MatchCandidate is the transient record produced by extraction, before
// teams are resolved and the candidate is reconciled against the store.
type MatchCandidate struct {
	HomeTeamName   string
	AwayTeamName   string
	HomeTeamCode   string
	AwayTeamCode   string
	HomeTeamLogo   string
	AwayTeamLogo   string
	MatchDate      time.Time
	DateInferred   bool // true when MatchDate came from the fallback default
	TournamentName string
	CategoryID     int64
	Venue          string
	Status         MatchStatus
}

// PairKey identifies a candidate by its case-insensitive team pair.
// Kickoff time is deliberately not part of the key: same-named fixtures
// rarely double inside one crawled page.
func (c MatchCandidate) PairKey() string {
	return strings.ToLower(c.HomeTeamName) + "|" + strings.ToLower(c.AwayTeamName)
}
