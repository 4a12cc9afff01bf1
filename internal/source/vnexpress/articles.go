package vnexpress

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sports_crawler/internal/domain"
	"sports_crawler/internal/extract"
	"sports_crawler/internal/fetch"
)

const (
	ArticleSourceID   = "vnexpress"
	ArticleSourceName = "VnExpress Thể Thao"
)

// Locator alternatives, ordered newest template first. The site reshuffles
// class names between redesigns, so every field carries fallbacks.
var (
	listingItemSelectors  = []string{".item-news", "article", ".news-item", ".list_news li", ".item_normal", ".item-news-common"}
	listingTitleSelectors = []string{".title-news a", "h3 a", ".title a", "a.title", "a"}
	listingDescSelectors  = []string{".description"}

	detailSelectors = extract.ArticleSelectors{
		Title:     []string{"h1.title-detail", "h1.title_news_detail", "h1"},
		Summary:   []string{".description", "p.description"},
		Body:      []string{".fck_detail", "article.fck_detail", ".content-detail"},
		Thumbnail: []string{".fig-picture img", "figure img", ".thumb-art img"},
	}
)

// DetailSelectors returns the locator set for VnExpress detail pages, for
// callers wiring up an ArticleExtractor.
func DetailSelectors() extract.ArticleSelectors { return detailSelectors }

// ArticleSource crawls the VnExpress sports section: one listing page fetch
// plus one detail fetch per article.
type ArticleSource struct {
	fetcher   *fetch.Fetcher
	extractor *extract.ArticleExtractor
	baseURL   string
	name      string
	logger    *slog.Logger
}

func NewArticleSource(baseURL string, fetcher *fetch.Fetcher, extractor *extract.ArticleExtractor, logger *slog.Logger) *ArticleSource {
	return &ArticleSource{
		fetcher:   fetcher,
		extractor: extractor,
		baseURL:   baseURL,
		name:      ArticleSourceName,
		logger:    logger.With("source", ArticleSourceID),
	}
}

func (s *ArticleSource) ID() string   { return ArticleSourceID }
func (s *ArticleSource) Name() string { return s.name }

// ListArticles fetches the listing page and returns up to limit references
// to detail pages.
func (s *ArticleSource) ListArticles(ctx context.Context, limit int) ([]domain.ArticleRef, error) {
	doc, err := s.fetcher.Document(ctx, s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("fetch listing: %w", err)
	}

	items := extract.First(doc, listingItemSelectors...)
	if items == nil {
		s.logger.Warn("no listing items found", "url", s.baseURL)
		return nil, nil
	}

	var refs []domain.ArticleRef
	items.EachWithBreak(func(_ int, item *goquery.Selection) bool {
		titleTag := extract.FirstIn(item, listingTitleSelectors...)
		if titleTag == nil {
			return true
		}
		titleTag = titleTag.First()

		title := extract.CleanText(titleTag.Text())
		href, _ := titleTag.Attr("href")
		href = s.absolutize(href)
		if title == "" || href == "" {
			return true
		}

		ref := domain.ArticleRef{Title: title, URL: href}
		if thumb := item.Find("img"); thumb.Length() > 0 {
			if v, ok := thumb.First().Attr("data-src"); ok && v != "" {
				ref.ThumbnailURL = v
			} else if v, ok := thumb.First().Attr("src"); ok {
				ref.ThumbnailURL = v
			}
		}
		if desc := extract.FirstIn(item, listingDescSelectors...); desc != nil {
			ref.Description = extract.CleanText(desc.First().Text())
		}

		refs = append(refs, ref)
		return len(refs) < limit
	})

	s.logger.Info("listed articles", "count", len(refs))
	return refs, nil
}

// FetchArticle fetches one detail page and extracts an Article candidate.
// A wrapped domain.ErrPageUnparseable means the page was retrieved but a
// mandatory field could not be resolved.
func (s *ArticleSource) FetchArticle(ctx context.Context, ref domain.ArticleRef) (*domain.Article, error) {
	doc, err := s.fetcher.Document(ctx, ref.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch detail: %w", err)
	}
	return s.extractor.Parse(doc, ref.URL)
}

func (s *ArticleSource) absolutize(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	base, err := url.Parse(s.baseURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
