package extract

import (
	"regexp"
	"time"

	"github.com/dlclark/regexp2"
)

// backtrackTimeout bounds a single regexp2 evaluation
const backtrackTimeout = 250 * time.Millisecond

// Matcher finds capture groups in text. Index 0 is the whole match.
type Matcher interface {
	FindSubmatch(text string) []string
	FindAllSubmatch(text string) [][]string
	String() string
}

// Normalizer turns captured groups into a field value.
// Returning false rejects the match and lets the cascade try the next rule.
type Normalizer func(groups []string) (string, bool)

// Rule pairs a pattern with the normalizer for its captures
type Rule struct {
	Pattern   Matcher
	Normalize Normalizer
}

// Cascade is an ordered list of rules, most specific first
type Cascade []Rule

// First returns the value of the first rule that matches and normalizes
func (c Cascade) First(text string) (string, bool) {
	for _, r := range c {
		groups := r.Pattern.FindSubmatch(text)
		if groups == nil {
			continue
		}
		if v, ok := r.Normalize(groups[1:]); ok {
			return v, true
		}
	}
	return "", false
}

// All returns every accepted value of every rule in document order per rule,
// without duplicates
func (c Cascade) All(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range c {
		for _, groups := range r.Pattern.FindAllSubmatch(text) {
			v, ok := r.Normalize(groups[1:])
			if !ok || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// re compiles a case-insensitive RE2 pattern
func re(pattern string) Matcher {
	return stdMatcher{regexp.MustCompile(`(?i)` + pattern)}
}

// reBacktrack compiles a case-insensitive pattern that needs lookaround
func reBacktrack(pattern string) Matcher {
	r := regexp2.MustCompile(pattern, regexp2.IgnoreCase)
	r.MatchTimeout = backtrackTimeout
	return backtrackMatcher{r}
}

type stdMatcher struct {
	re *regexp.Regexp
}

func (m stdMatcher) FindSubmatch(text string) []string {
	return m.re.FindStringSubmatch(text)
}

func (m stdMatcher) FindAllSubmatch(text string) [][]string {
	return m.re.FindAllStringSubmatch(text, -1)
}

func (m stdMatcher) String() string {
	return m.re.String()
}

type backtrackMatcher struct {
	re *regexp2.Regexp
}

func (m backtrackMatcher) FindSubmatch(text string) []string {
	match, err := m.re.FindStringMatch(text)
	if err != nil || match == nil {
		return nil
	}
	return groupStrings(match)
}

func (m backtrackMatcher) FindAllSubmatch(text string) [][]string {
	var out [][]string
	match, err := m.re.FindStringMatch(text)
	for err == nil && match != nil {
		out = append(out, groupStrings(match))
		match, err = m.re.FindNextMatch(match)
	}
	return out
}

func (m backtrackMatcher) String() string {
	return m.re.String()
}

func groupStrings(match *regexp2.Match) []string {
	groups := match.Groups()
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.String()
	}
	return out
}
