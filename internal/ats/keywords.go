package ats

import (
	"math"
	"sort"
	"strings"

	"github.com/feiyu23/spark-resume-ai/internal/textextract"
)

// Keyword is a weighted term extracted from a job description.
type Keyword struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

const (
	// DefaultKeywordLimit caps how many JD terms feed the keyword score.
	DefaultKeywordLimit = 30

	titleBoost = 1.5

	// backgroundDefaultFreq is the assumed document frequency for terms not
	// in the background table, i.e. rare terms get the highest IDF.
	backgroundDefaultFreq = 0.02
)

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "an", "and", "are", "as", "at", "be", "been", "but", "by", "can",
		"do", "for", "from", "has", "have", "if", "in", "into", "is", "it",
		"its", "more", "most", "no", "not", "of", "on", "or", "our", "such",
		"than", "that", "the", "their", "then", "there", "these", "they",
		"this", "to", "was", "we", "well", "were", "what", "which", "who",
		"will", "with", "you", "your", "about", "across", "all", "also", "any",
		"both", "each", "etc", "how", "may", "must", "new", "other", "per",
		"should", "some", "through", "under", "us", "use", "using", "via",
		"when", "where", "while", "within", "would", "years", "plus", "able",
		"etc.", "e.g", "i.e",
	} {
		stopwords[w] = struct{}{}
	}
}

// backgroundFreq holds approximate document frequencies of terms across job
// postings at large. Frequent boilerplate gets a low IDF so it stops
// dominating the keyword score; anything absent here counts as rare.
var backgroundFreq = map[string]float64{
	"experience":     0.95,
	"work":           0.90,
	"team":           0.88,
	"skills":         0.85,
	"ability":        0.80,
	"strong":         0.78,
	"required":       0.75,
	"requirements":   0.72,
	"responsible":    0.70,
	"communication":  0.68,
	"knowledge":      0.65,
	"working":        0.64,
	"role":           0.62,
	"job":            0.62,
	"position":       0.60,
	"qualifications": 0.60,
	"company":        0.58,
	"preferred":      0.58,
	"including":      0.56,
	"business":       0.55,
	"candidate":      0.55,
	"excellent":      0.54,
	"looking":        0.52,
	"related":        0.52,
	"benefits":       0.50,
	"development":    0.50,
	"opportunity":    0.50,
	"join":           0.48,
	"management":     0.48,
	"help":           0.46,
	"support":        0.46,
	"salary":         0.45,
	"environment":    0.44,
	"tools":          0.42,
	"degree":         0.40,
	"design":         0.40,
	"build":          0.38,
	"product":        0.38,
	"customer":       0.36,
	"grow":           0.36,
	"project":        0.36,
	"bachelor":       0.35,
	"data":           0.34,
	"process":        0.32,
	"technical":      0.30,
	"software":       0.28,
	"engineering":    0.26,
}

func idf(term string) float64 {
	freq := backgroundDefaultFreq
	// For bigrams, take the more frequent constituent as a floor so common
	// pairs like "work experience" do not score as rare.
	if parts := strings.Fields(term); len(parts) > 1 {
		for _, p := range parts {
			if f, ok := backgroundFreq[p]; ok && f > freq {
				freq = f
			}
		}
	} else if f, ok := backgroundFreq[term]; ok {
		freq = f
	}
	return math.Log(1 / freq)
}

// ExtractKeywords pulls the weighted terms out of a job description.
// Weight is term frequency within the JD times the background IDF; terms on
// the first non-empty line (the title line) get a boost. Unigrams and
// bigrams of adjacent content words are both considered. The result is
// sorted by weight descending, capped at limit.
func ExtractKeywords(jobDescription string, limit int) []Keyword {
	if limit <= 0 {
		limit = DefaultKeywordLimit
	}

	counts := map[string]float64{}
	for _, line := range strings.Split(jobDescription, "\n") {
		tokens := contentTokens(line)
		for i, tok := range tokens {
			counts[tok]++
			if i+1 < len(tokens) {
				counts[tok+" "+tokens[i+1]]++
			}
		}
	}
	if len(counts) == 0 {
		return nil
	}

	boosted := map[string]struct{}{}
	for _, tok := range contentTokens(firstNonEmptyLine(jobDescription)) {
		boosted[tok] = struct{}{}
	}

	keywords := make([]Keyword, 0, len(counts))
	for term, tf := range counts {
		w := tf * idf(term)
		if _, ok := boosted[term]; ok {
			w *= titleBoost
		}
		if w <= 0 {
			continue
		}
		keywords = append(keywords, Keyword{Term: term, Weight: w})
	}

	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Weight != keywords[j].Weight {
			return keywords[i].Weight > keywords[j].Weight
		}
		return keywords[i].Term < keywords[j].Term
	})

	if len(keywords) > limit {
		keywords = keywords[:limit]
	}
	return keywords
}

// contentTokens normalizes a line and drops stopwords, bare numbers and
// single characters.
func contentTokens(line string) []string {
	fields := strings.Fields(textextract.Normalize(line))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, stop := stopwords[f]; stop {
			continue
		}
		if len(f) < 2 && f != "c" && f != "r" {
			continue
		}
		if isNumeric(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func firstNonEmptyLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}

// isNumeric treats digit-and-punctuation tokens like "5+", "3.5" or "2025"
// as numbers, which never make useful keywords.
func isNumeric(s string) bool {
	hasDigit := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r == '.' || r == '+' || r == '#':
		default:
			return false
		}
	}
	return hasDigit
}
