package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestFirst_FallsThroughToLaterSelector(t *testing.T) {
	doc := mustDoc(t, `<div class="content-detail"><p>hello</p></div>`)

	// First two locators miss; the third one wins without an error.
	sel := First(doc, ".fck_detail", "article.fck_detail", ".content-detail")
	require.NotNil(t, sel)
	assert.Equal(t, "hello", sel.Find("p").Text())
}

func TestFirst_NoSelectorMatches(t *testing.T) {
	doc := mustDoc(t, `<div class="unrelated"></div>`)

	assert.Nil(t, First(doc, ".a", ".b", ".c"))
}

func TestFirst_EarlierSelectorWins(t *testing.T) {
	doc := mustDoc(t, `<h1 class="title-detail">new</h1><h1>old</h1>`)

	sel := First(doc, "h1.title-detail", "h1")
	require.NotNil(t, sel)
	assert.Equal(t, "new", sel.Text())
}

func TestFirstNode_ReturnsSingleNode(t *testing.T) {
	doc := mustDoc(t, `<li>one</li><li>two</li>`)

	sel := FirstNode(doc, "li")
	require.NotNil(t, sel)
	assert.Equal(t, 1, sel.Length())
	assert.Equal(t, "one", sel.Text())
}

func TestFirstIn_ScopedToSubtree(t *testing.T) {
	doc := mustDoc(t, `<div id="a"><span>inside</span></div><span>outside</span>`)

	root := doc.Find("#a")
	sel := FirstIn(root, "b", "span")
	require.NotNil(t, sel)
	assert.Equal(t, "inside", sel.Text())
}
