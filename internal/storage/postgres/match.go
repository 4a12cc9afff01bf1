package postgres

import (
	"context"
	"time"

	"sports_crawler/internal/domain"
)

type MatchStore struct {
	conn *Connector
}

func NewMatchStore(conn *Connector) *MatchStore {
	return &MatchStore{conn: conn}
}

// Exists reports whether a match with the same ordered team pair and a
// kickoff within the tolerance window is already stored. The fuzzy time
// comparison is deliberate: sources disagree on exact kickoff times, so
// identity tolerates bounded drift instead of requiring an exact key.
func (s *MatchStore) Exists(ctx context.Context, homeTeamID, awayTeamID int64, kickoff time.Time, window time.Duration) (bool, error) {
	if err := s.conn.EnsureConnected(ctx); err != nil {
		return false, err
	}

	query := `
		SELECT EXISTS (
			SELECT 1 FROM matches
			WHERE home_team_id = $1
			  AND away_team_id = $2
			  AND ABS(EXTRACT(EPOCH FROM (match_date - $3::timestamptz))) <= $4
		)`

	var exists bool
	err := s.conn.DB().GetContext(ctx, &exists, query,
		homeTeamID, awayTeamID, kickoff, window.Seconds())
	return exists, err
}

// Insert stores a new match row. Reconciliation happens before the call;
// this pipeline only ever inserts or skips, never updates.
func (s *MatchStore) Insert(ctx context.Context, match *domain.Match) (int64, error) {
	if err := s.conn.EnsureConnected(ctx); err != nil {
		return 0, err
	}

	query := `
		INSERT INTO matches (
			home_team_id, away_team_id, category_id,
			tournament_name, match_date, venue, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id int64
	err := GetExecutor(ctx, s.conn.DB()).QueryRowxContext(ctx, query,
		match.HomeTeamID,
		match.AwayTeamID,
		match.CategoryID,
		match.TournamentName,
		match.MatchDate,
		match.Venue,
		match.Status,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}
