package domain

import "time"

type Article struct {
	ID           int64
	Title        string
	Slug         string // unique per store, embeds an extraction timestamp
	Summary      string
	Body         string // HTML with media references rewritten to absolute URLs
	ThumbnailURL string
	CategoryID   int64
	AuthorID     int64
	Status       string
	PublishedAt  time.Time
	SourceURL    string // provenance, identifies the crawled page
	Tags         []Tag
	CreatedAt    time.Time
}

type Tag struct {
	ID   int64
	Name string
	Slug string
}
