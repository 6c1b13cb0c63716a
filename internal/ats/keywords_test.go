package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJD = `Senior Backend Engineer

We are looking for a backend engineer to join our platform team.
Requirements:
- 5+ years of experience with Go and PostgreSQL
- Experience with Kubernetes and Docker
- Strong knowledge of distributed systems
`

func TestExtractKeywords(t *testing.T) {
	keywords := ExtractKeywords(sampleJD, 0)
	require.NotEmpty(t, keywords)

	terms := map[string]float64{}
	for _, kw := range keywords {
		terms[kw.Term] = kw.Weight
	}

	assert.Contains(t, terms, "go")
	assert.Contains(t, terms, "kubernetes")
	assert.Contains(t, terms, "postgresql")

	// Rare technical terms outweigh boilerplate.
	if w, ok := terms["experience"]; ok {
		assert.Greater(t, terms["kubernetes"], w)
	}
}

func TestExtractKeywordsTitleBoost(t *testing.T) {
	keywords := ExtractKeywords("Pastry Chef\n\nBaking and plating desserts.", 0)

	terms := map[string]float64{}
	for _, kw := range keywords {
		terms[kw.Term] = kw.Weight
	}
	require.Contains(t, terms, "pastry")
	require.Contains(t, terms, "baking")
	assert.Greater(t, terms["pastry"], terms["baking"])
}

func TestExtractKeywordsBigrams(t *testing.T) {
	keywords := ExtractKeywords("Requires distributed systems background.", 0)

	var found bool
	for _, kw := range keywords {
		if kw.Term == "distributed systems" {
			found = true
		}
	}
	assert.True(t, found, "expected bigram 'distributed systems'")
}

func TestExtractKeywordsEmpty(t *testing.T) {
	assert.Empty(t, ExtractKeywords("", 0))
	assert.Empty(t, ExtractKeywords("the and with for", 0))
}

func TestExtractKeywordsLimit(t *testing.T) {
	keywords := ExtractKeywords(sampleJD, 5)
	assert.LessOrEqual(t, len(keywords), 5)

	// Sorted by weight descending.
	for i := 1; i < len(keywords); i++ {
		assert.GreaterOrEqual(t, keywords[i-1].Weight, keywords[i].Weight)
	}
}
