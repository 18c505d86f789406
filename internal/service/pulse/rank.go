package pulse

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/kapu/youtube-analyzer-go/internal/constants"
	"github.com/kapu/youtube-analyzer-go/internal/domain"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

var stopWords = map[string]struct{}{
	"the":   {},
	"this":  {},
	"that":  {},
	"with":  {},
	"from":  {},
	"your":  {},
	"have":  {},
	"very":  {},
	"just":  {},
	"song":  {},
	"video": {},
}

// Rank tokenizes the comment texts as one lower-cased corpus and returns the most
// frequent terms. Ties keep the order in which the terms first appeared.
func Rank(texts []string, limit int) []domain.TermCount {
	if len(texts) == 0 || limit <= 0 {
		return []domain.TermCount{}
	}

	corpus := strings.ToLower(strings.Join(texts, " "))

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, token := range tokenPattern.FindAllString(corpus, -1) {
		if !keep(token) {
			continue
		}
		if _, seen := counts[token]; !seen {
			order = append(order, token)
		}
		counts[token]++
	}

	ranked := make([]domain.TermCount, 0, len(order))
	for _, term := range order {
		ranked = append(ranked, domain.TermCount{Term: term, Count: counts[term]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func keep(token string) bool {
	if utf8.RuneCountInString(token) < constants.PulseConfig.MinTermRunes {
		return false
	}
	_, stop := stopWords[token]
	return !stop
}
