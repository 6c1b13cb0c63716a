package ats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckReadabilityEmpty(t *testing.T) {
	res := CheckReadability("")
	assert.Zero(t, res.Score)
	assert.Zero(t, res.AvgSentenceLen)
	assert.Zero(t, res.BulletLineRatio)
}

func TestCheckReadabilityBulletRatio(t *testing.T) {
	text := strings.Join([]string{
		"EXPERIENCE",
		"- Built billing pipeline handling high volume.",
		"- Reduced query latency with targeted indexes.",
		"Plain closing line without a marker.",
	}, "\n")

	res := CheckReadability(text)
	assert.InDelta(t, 0.5, res.BulletLineRatio, 1e-9)
	assert.Greater(t, res.Score, 0.0)
	assert.LessOrEqual(t, res.Score, 100.0)
}

func TestCheckReadabilityPrefersModerateSentences(t *testing.T) {
	moderate := "Led a team of six engineers building payment systems at scale. " +
		"Shipped a fraud detection service processing millions of events daily. " +
		"Mentored junior developers and ran the on-call rotation."
	rambling := strings.Repeat("word ", 80) + "end."

	assert.Greater(t, CheckReadability(moderate).Score, CheckReadability(rambling).Score)
}

func TestProximity(t *testing.T) {
	assert.Equal(t, 100.0, proximity(14, 14, 20))
	assert.Equal(t, 0.0, proximity(40, 14, 20))
	assert.InDelta(t, 50.0, proximity(24, 14, 20), 1e-9)
}
