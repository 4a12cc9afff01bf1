package extract

import "github.com/PuerkitoBio/goquery"

// First tries each selector in order against the document and returns the
// selection of the first one that matches at least one node. Site templates
// drift across redesigns, so callers list alternatives by priority and only
// treat extraction as failed when every alternative misses.
func First(doc *goquery.Document, selectors ...string) *goquery.Selection {
	for _, sel := range selectors {
		if s := doc.Find(sel); s.Length() > 0 {
			return s
		}
	}
	return nil
}

// FirstIn is First scoped to a sub-tree.
func FirstIn(root *goquery.Selection, selectors ...string) *goquery.Selection {
	for _, sel := range selectors {
		if s := root.Find(sel); s.Length() > 0 {
			return s
		}
	}
	return nil
}

// FirstNode returns only the first matched node of the winning selector.
func FirstNode(doc *goquery.Document, selectors ...string) *goquery.Selection {
	if s := First(doc, selectors...); s != nil {
		return s.First()
	}
	return nil
}
