package suggest

import (
	"strings"
	"unicode"

	"go.uber.org/zap"

	"mealprep-planner/internal/recipe"
)

// ScoreFunc rates how well a suggestion names a candidate, 0 meaning no relation.
type ScoreFunc func(suggestion, candidate string) float64

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "the": {}, "with": {}, "of": {}, "in": {},
	"on": {}, "for": {}, "style": {}, "my": {}, "easy": {}, "quick": {},
}

var aliases = map[string]string{
	"veggie": "vegetable",
	"veg":    "vegetable",
	"bbq":    "barbecue",
	"mac":    "macaroni",
	"spud":   "potato",
	"prawn":  "shrimp",
}

// TokenOverlap is the Jaccard similarity of the two names' content words,
// case-insensitive, with plurals folded and common aliases resolved.
func TokenOverlap(suggestion, candidate string) float64 {
	a, b := tokenSet(suggestion), tokenSet(candidate)
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	shared := 0
	for t := range a {
		if _, ok := b[t]; ok {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	return float64(shared) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, stop := stopWords[w]; stop {
			continue
		}
		w = singular(w)
		if alias, ok := aliases[w]; ok {
			w = alias
		}
		set[w] = struct{}{}
	}
	return set
}

func singular(w string) string {
	switch {
	case len(w) > 4 && strings.HasSuffix(w, "ies"):
		return w[:len(w)-3] + "y"
	case len(w) > 4 && (strings.HasSuffix(w, "oes") || strings.HasSuffix(w, "ches") ||
		strings.HasSuffix(w, "shes") || strings.HasSuffix(w, "xes")):
		return w[:len(w)-2]
	case len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss"):
		return w[:len(w)-1]
	}
	return w
}

// Matcher maps a suggestion onto a candidate recipe by title.
type Matcher struct {
	Score    ScoreFunc
	MinScore float64
	Margin   float64
	logger   *zap.Logger
}

// NewMatcher returns a Matcher using TokenOverlap.
func NewMatcher(logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{Score: TokenOverlap, MinScore: 0.5, Margin: 0.15, logger: logger}
}

// Match returns the candidate the suggestion identifies. A match is accepted
// when exactly one candidate scores above zero, or when the best candidate
// reaches MinScore and leads the runner-up by at least Margin.
func (m *Matcher) Match(suggestion string, candidates []recipe.Recipe) (recipe.Recipe, bool) {
	bestIdx, best, second, positive := -1, 0.0, 0.0, 0
	for i, c := range candidates {
		s := m.Score(suggestion, c.Title)
		if s <= 0 {
			continue
		}
		positive++
		if s > best {
			second = best
			best, bestIdx = s, i
		} else if s > second {
			second = s
		}
	}

	switch {
	case bestIdx < 0:
		m.logger.Info("suggestion matched no candidate", zap.String("suggestion", suggestion))
		return recipe.Recipe{}, false
	case positive == 1:
		return candidates[bestIdx], true
	case best >= m.MinScore && best-second >= m.Margin:
		return candidates[bestIdx], true
	default:
		m.logger.Info("suggestion is ambiguous",
			zap.String("suggestion", suggestion),
			zap.Float64("best", best),
			zap.Float64("runner_up", second),
		)
		return recipe.Recipe{}, false
	}
}
