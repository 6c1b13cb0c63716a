package ats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feiyu23/spark-resume-ai/internal/textextract"
)

func parseDoc(t *testing.T, text string) *textextract.Document {
	t.Helper()
	doc, err := textextract.Parse(text)
	require.NoError(t, err)
	return doc
}

func goodResume() string {
	bullets := []string{
		"- Led migration of payment services to Go, cutting p99 latency 40%",
		"- Built CI pipeline that reduced deploy time from 2 hours to 10 minutes",
		"- Mentored 4 engineers; improved team velocity 25%",
		"- Designed event-driven order system handling 2M requests per day",
	}
	return "Jane Rivera\njane@example.com | 415-555-0173\n\n" +
		"SUMMARY\nBackend engineer with seven years of experience.\n\n" +
		"EXPERIENCE\n" + strings.Join(bullets, "\n") + "\n\n" +
		"EDUCATION\nB.S. Computer Science\n\n" +
		"SKILLS\nGo, PostgreSQL, Kubernetes\n\n" +
		strings.Repeat("Shipped reliable systems under load. ", 40)
}

func TestCheckFormatGoodResume(t *testing.T) {
	res := CheckFormat(parseDoc(t, goodResume()))

	assert.Greater(t, res.Score, 80.0)

	byName := map[string]FormatCheck{}
	for _, c := range res.Checks {
		byName[c.Name] = c
	}
	assert.True(t, byName["contact_email"].Passed)
	assert.True(t, byName["uses_bullets"].Passed)
	assert.True(t, byName["action_verb_leads"].Passed)
	assert.True(t, byName["quantified_achievements"].Passed)
	assert.True(t, byName["section_skills"].Passed)
}

func TestCheckFormatBareResume(t *testing.T) {
	res := CheckFormat(parseDoc(t, "I once had a job and it was fine."))

	assert.Less(t, res.Score, 30.0)

	byName := map[string]FormatCheck{}
	for _, c := range res.Checks {
		byName[c.Name] = c
	}
	assert.False(t, byName["contact_email"].Passed)
	assert.False(t, byName["section_experience"].Passed)
	assert.False(t, byName["uses_bullets"].Passed)
	assert.False(t, byName["length_in_range"].Passed)
}

func TestCheckFormatScoreBounds(t *testing.T) {
	for _, text := range []string{goodResume(), "one line", strings.Repeat("word ", 3000)} {
		res := CheckFormat(parseDoc(t, text))
		assert.GreaterOrEqual(t, res.Score, 0.0)
		assert.LessOrEqual(t, res.Score, 100.0)
	}
}

func TestCheckReadability(t *testing.T) {
	good := CheckReadability(goodResume())
	wall := CheckReadability(strings.Repeat("this is an extremely long rambling sentence that never seems to end and keeps going ", 40))

	assert.Greater(t, good.Score, wall.Score)
	assert.GreaterOrEqual(t, wall.Score, 0.0)
	assert.LessOrEqual(t, good.Score, 100.0)
}
