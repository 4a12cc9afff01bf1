package vnexpress

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sports_crawler/internal/config"
	"sports_crawler/internal/extract"
)

func newMatchTestExtractor(now time.Time) *extract.MatchExtractor {
	cfg := config.Default()

	times := extract.NewTimeInferencer(cfg.Matches.DefaultKickoffHour)
	times.Now = func() time.Time { return now }

	return extract.NewMatchExtractor(
		extract.NewNameFilter(cfg.Matches),
		times,
		extract.NewClassifier(cfg.Classifier),
		extract.NewTournamentDetector(cfg.Matches.Tournaments, cfg.Matches.FallbackTournament),
	)
}

const schedulePage = `
<html><body>
  <div class="schedule-table">Man City vs Liverpool: 20:00 15/01/2025</div>
  <article class="item-news">
    <h3 class="title-news"><a href="/bong-da/lich-premier-league.html">Lịch Premier League tuần này</a></h3>
  </article>
  <article class="item-news">
    <h3 class="title-news"><a href="/bong-da/tin-chuyen-nhuong.html">Tin chuyển nhượng sáng nay</a></h3>
  </article>
</body></html>`

const linkedSchedulePage = `
<html><body><p>Arsenal vs Chelsea: 19:30 16/01/2025</p></body></html>`

func TestMatchSource_FetchMatches(t *testing.T) {
	now := time.Date(2025, 1, 14, 9, 0, 0, 0, time.Local)

	var mu sync.Mutex
	fetched := make(map[string]int)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		fetched[r.URL.Path]++
		mu.Unlock()

		switch r.URL.Path {
		case "/bong-da/lich-premier-league.html":
			fmt.Fprint(w, linkedSchedulePage)
		default:
			fmt.Fprint(w, schedulePage)
		}
	}))
	defer server.Close()

	src := NewMatchSource(server.URL, "", testFetcher(), newMatchTestExtractor(now), testLogger())

	got, err := src.FetchMatches(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Man City", got[0].HomeTeamName)
	assert.Equal(t, "Liverpool", got[0].AwayTeamName)
	assert.Equal(t, time.Date(2025, 1, 15, 20, 0, 0, 0, time.Local), got[0].MatchDate)

	assert.Equal(t, "Arsenal", got[1].HomeTeamName)
	assert.Equal(t, "Chelsea", got[1].AwayTeamName)
	assert.Equal(t, time.Date(2025, 1, 16, 19, 30, 0, 0, time.Local), got[1].MatchDate)

	// The schedule-keyword title was followed once; the transfer-news title
	// was not worth a fetch.
	assert.Equal(t, 1, fetched["/bong-da/lich-premier-league.html"])
	assert.Zero(t, fetched["/bong-da/tin-chuyen-nhuong.html"])
}

func TestMatchSource_FetchMatchesHonorsLimit(t *testing.T) {
	now := time.Date(2025, 1, 14, 9, 0, 0, 0, time.Local)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><div class="schedule-table">
			Man City vs Liverpool: 20:00 15/01/2025.
			Arsenal vs Chelsea: 19:30 16/01/2025.
			Everton vs Fulham: 21:00 16/01/2025.
		</div></body></html>`)
	}))
	defer server.Close()

	src := NewMatchSource(server.URL, "Premier League", testFetcher(), newMatchTestExtractor(now), testLogger())

	got, err := src.FetchMatches(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	for _, c := range got {
		assert.Equal(t, "Premier League", c.TournamentName)
	}
}

func TestMatchSource_NoFixturesFound(t *testing.T) {
	now := time.Date(2025, 1, 14, 9, 0, 0, 0, time.Local)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>một trang không nói gì về thể thao</p></body></html>`)
	}))
	defer server.Close()

	src := NewMatchSource(server.URL, "", testFetcher(), newMatchTestExtractor(now), testLogger())

	got, err := src.FetchMatches(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHasScheduleKeyword(t *testing.T) {
	assert.True(t, hasScheduleKeyword("Lịch thi đấu vòng 21 Ngoại hạng Anh"))
	assert.True(t, hasScheduleKeyword("Man City vs Liverpool đêm nay"))
	assert.False(t, hasScheduleKeyword("Chân dung tân binh đắt giá"))
}
