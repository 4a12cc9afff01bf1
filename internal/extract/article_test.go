package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sports_crawler/internal/config"
	"sports_crawler/internal/domain"
)

var testSelectors = ArticleSelectors{
	Title:     []string{"h1.title-detail", "h1"},
	Summary:   []string{".description"},
	Body:      []string{".fck_detail", ".content-detail"},
	Thumbnail: []string{".fig-picture img"},
}

func newTestArticleExtractor(t *testing.T) *ArticleExtractor {
	t.Helper()
	e := NewArticleExtractor(testSelectors, NewClassifier(config.Default().Classifier), 1)
	e.now = fixedClock(time.Date(2025, 1, 15, 20, 0, 0, 0, time.Local))
	return e
}

const detailPage = `
<html><body>
  <h1 class="title-detail"> Man City thắng Liverpool tại Ngoại hạng Anh </h1>
  <p class="description">Trận derby kết thúc với tỷ số 3-1 nghiêng về chủ nhà.</p>
  <div class="fig-picture"><img data-src="https://cdn.example.com/thumb.jpg"></div>
  <article class="fck_detail">
    <p>Man City đã có chiến thắng thuyết phục trước Liverpool trong trận cầu tâm điểm của Premier League cuối tuần qua.</p>
    <img data-src="/images/match.jpg" loading="lazy">
    <img src="">
  </article>
</body></html>`

func TestArticleExtractor_Parse(t *testing.T) {
	e := newTestArticleExtractor(t)
	doc := mustDoc(t, detailPage)

	article, err := e.Parse(doc, "https://vnexpress.net/the-thao/bai-viet.html")
	require.NoError(t, err)

	assert.Equal(t, "Man City thắng Liverpool tại Ngoại hạng Anh", article.Title)
	assert.Equal(t, "man-city-thang-liverpool-tai-ngoai-hang-anh-20250115200000", article.Slug)
	assert.Equal(t, "Trận derby kết thúc với tỷ số 3-1 nghiêng về chủ nhà.", article.Summary)
	assert.Equal(t, "https://cdn.example.com/thumb.jpg", article.ThumbnailURL)
	assert.Equal(t, int64(1), article.CategoryID)
	assert.Equal(t, int64(1), article.AuthorID)
	assert.Equal(t, "published", article.Status)
	assert.Equal(t, "https://vnexpress.net/the-thao/bai-viet.html", article.SourceURL)

	// Lazy-loaded image rewritten to an absolute src; the empty one removed.
	assert.Contains(t, article.Body, `src="https://vnexpress.net/images/match.jpg"`)
	assert.NotContains(t, article.Body, "data-src")
	assert.Equal(t, 1, strings.Count(article.Body, "<img"))

	tagNames := make([]string, 0, len(article.Tags))
	for _, tag := range article.Tags {
		tagNames = append(tagNames, tag.Name)
	}
	assert.Contains(t, tagNames, "Man City")
	assert.Contains(t, tagNames, "Liverpool")
}

func TestArticleExtractor_MissingTitle(t *testing.T) {
	e := newTestArticleExtractor(t)
	doc := mustDoc(t, `<html><body><div class="fck_detail"><p>chỉ có thân bài, không có tiêu đề nào cả ở đây</p></div></body></html>`)

	_, err := e.Parse(doc, "https://example.com/x.html")
	assert.ErrorIs(t, err, domain.ErrPageUnparseable)
}

func TestArticleExtractor_MissingBody(t *testing.T) {
	e := newTestArticleExtractor(t)
	doc := mustDoc(t, `<html><body><h1>Tiêu đề</h1></body></html>`)

	_, err := e.Parse(doc, "https://example.com/x.html")
	assert.ErrorIs(t, err, domain.ErrPageUnparseable)
}

func TestArticleExtractor_BodyTooShort(t *testing.T) {
	e := newTestArticleExtractor(t)
	doc := mustDoc(t, `<html><body><h1>Tiêu đề bài viết</h1><div class="fck_detail">ngắn</div></body></html>`)

	_, err := e.Parse(doc, "https://example.com/x.html")
	assert.ErrorIs(t, err, domain.ErrPageUnparseable)
}

func TestArticleExtractor_SummaryFallsBackToTitle(t *testing.T) {
	e := newTestArticleExtractor(t)
	doc := mustDoc(t, `<html><body>
		<h1>Tiêu đề bài viết thể thao</h1>
		<div class="fck_detail"><p>Nội dung bài viết đủ dài để vượt qua ngưỡng độ dài tối thiểu của phần thân bài.</p></div>
	</body></html>`)

	article, err := e.Parse(doc, "https://example.com/x.html")
	require.NoError(t, err)
	assert.Equal(t, "Tiêu đề bài viết thể thao", article.Summary)
}

func TestArticleExtractor_SanitizesMarkup(t *testing.T) {
	e := newTestArticleExtractor(t)
	doc := mustDoc(t, `<html><body>
		<h1>Tiêu đề bài viết thể thao</h1>
		<div class="fck_detail">
			<p>Nội dung bài viết đủ dài để vượt qua ngưỡng độ dài tối thiểu của phần thân bài.</p>
			<script>alert("xss")</script>
			<p onclick="steal()">đoạn có thuộc tính nguy hiểm</p>
		</div>
	</body></html>`)

	article, err := e.Parse(doc, "https://example.com/x.html")
	require.NoError(t, err)
	assert.NotContains(t, article.Body, "<script")
	assert.NotContains(t, article.Body, "onclick")
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Man City thắng", CleanText("  Man   City\n\tthắng  "))
	assert.Equal(t, "", CleanText("   "))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "Bóng", truncateRunes("Bóng đá", 4))
	assert.Equal(t, "Bóng đá", truncateRunes("Bóng đá", 50))
}
