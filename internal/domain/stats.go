package domain

import "time"

// CrawlStats holds per-run counters for the article pipeline.
type CrawlStats struct {
	Source   string
	Crawled  int
	Saved    int
	Skipped  int
	Errors   int
	Duration time.Duration
}

// MatchSyncStats holds per-run counters for the fixture pipeline.
type MatchSyncStats struct {
	Source   string
	Crawled  int
	Saved    int
	Skipped  int
	Errors   int
	Duration time.Duration
}

// CrawlState tracks when a source was last processed and how much it has
// contributed over its lifetime.
type CrawlState struct {
	ID            int64     `db:"id"`
	SourceID      string    `db:"source_id"`
	LastCrawledAt time.Time `db:"last_crawled_at"`
	TotalSaved    int64     `db:"total_saved"`
}
