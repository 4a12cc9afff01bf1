package extract

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"sports_crawler/internal/domain"
)

const (
	summaryMaxRunes      = 500
	summaryFallbackRunes = 200
	minBodyLength        = 50
)

// ArticleSelectors lists the locator alternatives for each logical field of
// a detail page, in priority order.
type ArticleSelectors struct {
	Title     []string
	Summary   []string
	Body      []string
	Thumbnail []string
}

// ArticleExtractor turns a fetched detail-page document into an Article
// candidate. Title and body are mandatory; everything else degrades
// gracefully. Media references inside the body are rewritten to absolute
// URLs and the markup is sanitized before storage.
type ArticleExtractor struct {
	selectors  ArticleSelectors
	classifier *Classifier
	sanitizer  *bluemonday.Policy
	authorID   int64
	now        func() time.Time
}

func NewArticleExtractor(selectors ArticleSelectors, classifier *Classifier, authorID int64) *ArticleExtractor {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("alt", "title", "width", "height").OnElements("img")

	return &ArticleExtractor{
		selectors:  selectors,
		classifier: classifier,
		sanitizer:  policy,
		authorID:   authorID,
		now:        time.Now,
	}
}

// Parse extracts a complete Article candidate from doc, or fails with a
// wrapped ErrPageUnparseable when a mandatory field cannot be resolved.
func (e *ArticleExtractor) Parse(doc *goquery.Document, pageURL string) (*domain.Article, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url %q: %w", pageURL, err)
	}

	titleSel := FirstNode(doc, e.selectors.Title...)
	if titleSel == nil {
		return nil, fmt.Errorf("title not found at %s: %w", pageURL, domain.ErrPageUnparseable)
	}
	title := CleanText(titleSel.Text())
	if title == "" {
		return nil, fmt.Errorf("empty title at %s: %w", pageURL, domain.ErrPageUnparseable)
	}

	summary := ""
	if s := FirstNode(doc, e.selectors.Summary...); s != nil {
		summary = CleanText(s.Text())
	}
	if summary == "" {
		summary = truncateRunes(title, summaryFallbackRunes)
	} else {
		summary = truncateRunes(summary, summaryMaxRunes)
	}

	bodySel := FirstNode(doc, e.selectors.Body...)
	if bodySel == nil {
		return nil, fmt.Errorf("body not found at %s: %w", pageURL, domain.ErrPageUnparseable)
	}

	e.rewriteImages(bodySel, base)

	rawHTML, err := bodySel.Html()
	if err != nil {
		return nil, fmt.Errorf("render body at %s: %w", pageURL, err)
	}
	body := e.sanitizer.Sanitize(rawHTML)
	if len(body) < minBodyLength {
		return nil, fmt.Errorf("body too short at %s: %w", pageURL, domain.ErrPageUnparseable)
	}

	thumbnail := ""
	if t := FirstNode(doc, e.selectors.Thumbnail...); t != nil {
		if ref := imageRef(t); ref != "" {
			if abs, ok := absoluteURL(base, ref); ok {
				thumbnail = abs
			}
		}
	}

	bodyText := bodySel.Text()
	now := e.now()

	article := &domain.Article{
		Title:        title,
		Slug:         UniqueSlug(title, now),
		Summary:      summary,
		Body:         body,
		ThumbnailURL: thumbnail,
		CategoryID:   e.classifier.Classify(title, bodyText, pageURL),
		AuthorID:     e.authorID,
		Status:       "published",
		PublishedAt:  now,
		SourceURL:    pageURL,
	}
	for _, name := range e.classifier.Tags(title, bodyText) {
		article.Tags = append(article.Tags, domain.Tag{Name: name, Slug: Slugify(name)})
	}
	return article, nil
}

// rewriteImages resolves every embedded image reference against the page
// URL, drops references that cannot be made absolute and strips the
// lazy-loading attributes the transport used.
func (e *ArticleExtractor) rewriteImages(body *goquery.Selection, base *url.URL) {
	body.Find("img").Each(func(_ int, img *goquery.Selection) {
		ref := imageRef(img)
		if ref == "" {
			img.Remove()
			return
		}
		abs, ok := absoluteURL(base, ref)
		if !ok {
			img.Remove()
			return
		}
		img.SetAttr("src", abs)
		img.RemoveAttr("data-src")
		img.RemoveAttr("data-original")
		img.RemoveAttr("loading")
	})
}

// imageRef picks the best available reference off an <img>, preferring the
// lazy-load attributes sources use for the real image.
func imageRef(img *goquery.Selection) string {
	for _, attr := range []string{"data-src", "src", "data-original"} {
		if v, ok := img.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func absoluteURL(base *url.URL, ref string) (string, bool) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(u)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	return resolved.String(), true
}

// CleanText collapses all interior whitespace runs to single spaces.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
