package postgres

import (
	"context"

	"sports_crawler/internal/domain"
)

type TagStore struct {
	conn *Connector
}

func NewTagStore(conn *Connector) *TagStore {
	return &TagStore{conn: conn}
}

// GetOrCreate resolves a tag id by name, creating the tag on first use.
// The no-op update in the conflict arm makes RETURNING yield the existing
// row's id.
func (s *TagStore) GetOrCreate(ctx context.Context, tag domain.Tag) (int64, error) {
	if err := s.conn.EnsureConnected(ctx); err != nil {
		return 0, err
	}

	query := `
		INSERT INTO tags (name, slug) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`

	var id int64
	err := GetExecutor(ctx, s.conn.DB()).QueryRowxContext(ctx, query, tag.Name, tag.Slug).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// LinkToArticle attaches tags to an article, ignoring links already present.
func (s *TagStore) LinkToArticle(ctx context.Context, articleID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	if err := s.conn.EnsureConnected(ctx); err != nil {
		return err
	}

	db := GetExecutor(ctx, s.conn.DB())
	for _, tagID := range tagIDs {
		_, err := db.ExecContext(ctx,
			`INSERT INTO article_tags (article_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			articleID, tagID,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
