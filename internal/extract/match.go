package extract

import (
	"regexp"
	"strings"
	"unicode"

	"sports_crawler/internal/domain"
)

// Team-name shape shared by all fixture patterns: starts with a letter
// (Vietnamese accents included), then letters, digits, space, dot or hyphen,
// bounded to 35 runes. Deliberately permissive; over-generation is culled by
// NameFilter afterwards.
const nameShape = `[A-Za-zÀ-ỹ][A-Za-zÀ-ỹ0-9\s.\-]{0,34}`

var fixtureExprs = []*regexp.Regexp{
	// "Man City vs Liverpool", "Arsenal đấu Chelsea"
	regexp.MustCompile(`(?i)(` + nameShape + `?)\s+(?:vs|v\.s|đấu|gặp)\s+(` + nameShape + `)`),
	// "Man City - Liverpool"
	regexp.MustCompile(`(?i)(` + nameShape + `?)\s*[–—-]\s*(` + nameShape + `)`),
}

// Connectives chain several fixtures into one sentence ("A vs B và C vs
// D"). Scanning clause by clause keeps the greedy away-name group from
// swallowing the next pair.
var clauseExpr = regexp.MustCompile(`(?i)\s+(?:và|hoặc)\s+`)

var spaceExpr = regexp.MustCompile(`\s+`)

const nameTrimCutset = ` .,;:!?()[]{}"'-–—`

// maxPairsPerText bounds how many distinct pairs one text can contribute.
const maxPairsPerText = 30

// MatchExtractor infers fixtures from prose. Sources publish schedules as
// free text, not structured markup, so candidate pairs are regex-scanned,
// cleaned, gated through the plausibility filter and enriched with a
// tournament, kickoff time and category.
type MatchExtractor struct {
	filter      *NameFilter
	times       *TimeInferencer
	classifier  *Classifier
	tournaments *TournamentDetector
}

func NewMatchExtractor(filter *NameFilter, times *TimeInferencer, classifier *Classifier, tournaments *TournamentDetector) *MatchExtractor {
	return &MatchExtractor{
		filter:      filter,
		times:       times,
		classifier:  classifier,
		tournaments: tournaments,
	}
}

// FromText scans text for fixture patterns and returns the accepted
// candidates. tournament may be empty, in which case it is detected from
// the text itself. Identical (home, away) pairs within one text collapse
// case-insensitively to the first occurrence.
func (e *MatchExtractor) FromText(text, tournament string) []domain.MatchCandidate {
	if len(strings.TrimSpace(text)) < 10 {
		return nil
	}

	type pair struct{ home, away string }
	var found []pair
	seen := make(map[string]struct{})

scan:
	for _, clause := range clauseExpr.Split(text, -1) {
		for _, expr := range fixtureExprs {
			for _, m := range expr.FindAllStringSubmatch(clause, -1) {
				home := cleanTeamName(m[1])
				away := cleanTeamName(m[2])
				key := strings.ToLower(home) + "|" + strings.ToLower(away)
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				found = append(found, pair{home, away})
				if len(found) >= maxPairsPerText {
					break scan
				}
			}
		}
	}

	if len(found) == 0 {
		return nil
	}

	if tournament == "" {
		tournament = e.tournaments.Detect(text)
	}
	kickoff, dated := e.times.Infer(text, e.times.Now().Year())
	categoryID := e.classifier.Classify(tournament)

	var out []domain.MatchCandidate
	for _, p := range found {
		if !e.filter.Valid(p.home) || !e.filter.Valid(p.away) {
			continue
		}
		out = append(out, domain.MatchCandidate{
			HomeTeamName:   p.home,
			AwayTeamName:   p.away,
			MatchDate:      kickoff,
			DateInferred:   !dated,
			TournamentName: tournament,
			CategoryID:     categoryID,
			Status:         domain.MatchScheduled,
		})
	}
	return out
}

// cleanTeamName collapses whitespace, strips surrounding punctuation and
// drops leading/trailing tokens that are purely numeric. The name shape
// admits digits mid-name ("U23 Việt Nam") but a bare number bordering the
// separator is almost always a score or a time, not part of the name.
func cleanTeamName(name string) string {
	name = spaceExpr.ReplaceAllString(strings.TrimSpace(name), " ")
	name = strings.Trim(name, nameTrimCutset)

	tokens := strings.Fields(name)
	for len(tokens) > 0 && numericToken(tokens[0]) {
		tokens = tokens[1:]
	}
	for len(tokens) > 0 && numericToken(tokens[len(tokens)-1]) {
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Trim(strings.Join(tokens, " "), nameTrimCutset)
}

func numericToken(tok string) bool {
	tok = strings.Trim(tok, nameTrimCutset)
	if tok == "" {
		return true
	}
	for _, r := range tok {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
