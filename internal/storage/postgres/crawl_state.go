package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"sports_crawler/internal/domain"
)

type CrawlStateStore struct {
	conn *Connector
}

func NewCrawlStateStore(conn *Connector) *CrawlStateStore {
	return &CrawlStateStore{conn: conn}
}

func (s *CrawlStateStore) Get(ctx context.Context, sourceID string) (*domain.CrawlState, error) {
	if err := s.conn.EnsureConnected(ctx); err != nil {
		return nil, err
	}

	var state domain.CrawlState
	query := `
		SELECT id, source_id, last_crawled_at, total_saved
		FROM crawl_state
		WHERE source_id = $1`

	err := s.conn.DB().GetContext(ctx, &state, query, sourceID)
	if errors.Is(err, sql.ErrNoRows) {
		// First run for this source.
		return &domain.CrawlState{
			SourceID:      sourceID,
			LastCrawledAt: time.Time{},
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *CrawlStateStore) Update(ctx context.Context, state *domain.CrawlState) error {
	if err := s.conn.EnsureConnected(ctx); err != nil {
		return err
	}

	query := `
		INSERT INTO crawl_state (source_id, last_crawled_at, total_saved)
		VALUES ($1, $2, $3)
		ON CONFLICT (source_id) DO UPDATE SET
			last_crawled_at = EXCLUDED.last_crawled_at,
			total_saved = EXCLUDED.total_saved`

	_, err := s.conn.DB().ExecContext(ctx, query,
		state.SourceID,
		state.LastCrawledAt,
		state.TotalSaved,
	)
	return err
}
