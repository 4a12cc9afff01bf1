package postgres

import (
	"context"
	"database/sql"
	"errors"

	"sports_crawler/internal/domain"
)

type TeamStore struct {
	conn *Connector
}

func NewTeamStore(conn *Connector) *TeamStore {
	return &TeamStore{conn: conn}
}

// GetOrCreate resolves a team by exact name or code and creates it on first
// sighting. Name variants ("Man City" vs "Manchester City") are not merged;
// each distinct string keys its own row.
func (s *TeamStore) GetOrCreate(ctx context.Context, team domain.Team) (int64, error) {
	if err := s.conn.EnsureConnected(ctx); err != nil {
		return 0, err
	}

	db := GetExecutor(ctx, s.conn.DB())

	var id int64
	err := db.QueryRowxContext(ctx,
		`SELECT id FROM teams WHERE name = $1 OR (code IS NOT NULL AND code = $2) LIMIT 1`,
		team.Name, team.Code,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	err = db.QueryRowxContext(ctx,
		`INSERT INTO teams (name, code, logo_url) VALUES ($1, $2, $3) RETURNING id`,
		team.Name, team.Code, team.LogoURL,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}
