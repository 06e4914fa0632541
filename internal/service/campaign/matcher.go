package campaign

import (
	"strings"
	"unicode"

	"github.com/mamadbah2/perfdash/internal/domain/models"
)

// minSimilarity is the token Jaccard score an offer name needs to count as a fuzzy match.
const minSimilarity = 0.5

// Normalize lowercases a name and collapses every run of non-alphanumerics into a single space.
func Normalize(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, " ")
}

type entry struct {
	term   models.NetworkTerm
	offer  string
	tokens map[string]struct{}
}

// Matcher resolves performance labels to network terms. Network names must
// match after normalization; offer names are compared exactly, then by
// containment, then by token overlap.
type Matcher struct {
	byNetwork map[string][]entry
}

// NewMatcher indexes terms by normalized network, keeping sheet order.
func NewMatcher(terms []models.NetworkTerm) *Matcher {
	m := &Matcher{byNetwork: make(map[string][]entry)}
	for _, t := range terms {
		network := Normalize(t.Network)
		if network == "" {
			continue
		}
		offer := Normalize(t.Offer)
		m.byNetwork[network] = append(m.byNetwork[network], entry{term: t, offer: offer, tokens: tokens(offer)})
	}
	return m
}

// Match returns the terms for network and offer. Earlier sheet rows win ties.
func (m *Matcher) Match(network, offer string) (models.NetworkTerm, bool) {
	candidates := m.byNetwork[Normalize(network)]
	if len(candidates) == 0 {
		return models.NetworkTerm{}, false
	}
	want := Normalize(offer)

	for _, c := range candidates {
		if c.offer == want {
			return c.term, true
		}
	}

	if want != "" {
		for _, c := range candidates {
			if c.offer != "" && (strings.Contains(want, c.offer) || strings.Contains(c.offer, want)) {
				return c.term, true
			}
		}
	}

	wantTokens := tokens(want)
	best, bestScore := -1, 0.0
	for i, c := range candidates {
		if score := jaccard(wantTokens, c.tokens); score >= minSimilarity && score > bestScore {
			best, bestScore = i, score
		}
	}
	if best >= 0 {
		return candidates[best].term, true
	}

	// A network-level row without an offer applies to every offer on that network.
	for _, c := range candidates {
		if c.offer == "" {
			return c.term, true
		}
	}
	return models.NetworkTerm{}, false
}

func tokens(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, f := range strings.Fields(s) {
		out[f] = struct{}{}
	}
	return out
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	for k := range a {
		if _, ok := b[k]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(a)+len(b)-shared)
}
