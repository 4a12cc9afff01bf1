package domain

// ArticleRef is a listing-page entry pointing at a detail page that has not
// been fetched yet.
type ArticleRef struct {
	Title        string
	URL          string
	ThumbnailURL string
	Description  string
}
