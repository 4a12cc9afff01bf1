package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sports_crawler/internal/domain"
)

type ArticleStore struct {
	conn *Connector
}

func NewArticleStore(conn *Connector) *ArticleStore {
	return &ArticleStore{conn: conn}
}

// Insert stores a new article. Slugs are synthetic unique keys, so an
// existing row with the same slug means the exact same extraction has
// already been committed; that case returns ErrDuplicate, never an update.
func (s *ArticleStore) Insert(ctx context.Context, article *domain.Article) (int64, error) {
	if err := s.conn.EnsureConnected(ctx); err != nil {
		return 0, err
	}

	query := `
		INSERT INTO articles (
			title, slug, summary, body, thumbnail_url, category_id,
			author_id, status, published_at, source_url
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		ON CONFLICT (slug) DO NOTHING
		RETURNING id`

	var id int64
	err := GetExecutor(ctx, s.conn.DB()).QueryRowxContext(ctx, query,
		article.Title,
		article.Slug,
		article.Summary,
		article.Body,
		article.ThumbnailURL,
		article.CategoryID,
		article.AuthorID,
		article.Status,
		article.PublishedAt,
		article.SourceURL,
	).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("slug %s: %w", article.Slug, domain.ErrDuplicate)
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ExistsBySlug reports whether an article with the exact slug is stored.
func (s *ArticleStore) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	if err := s.conn.EnsureConnected(ctx); err != nil {
		return false, err
	}

	var exists bool
	err := s.conn.DB().GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM articles WHERE slug = $1)", slug)
	return exists, err
}
