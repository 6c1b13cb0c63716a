package ats

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	vec []float32
	err error
}

func (s *stubEmbedder) EmbedText(_ context.Context, _ string) ([]float32, error) {
	return s.vec, s.err
}

func TestScoreWithJobDescription(t *testing.T) {
	engine := NewEngine(nil)
	doc := parseDoc(t, goodResume())

	res, err := engine.Score(context.Background(), doc, sampleJD)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, res.Breakdown.Total, 0.0)
	assert.LessOrEqual(t, res.Breakdown.Total, 100.0)

	require.NotNil(t, res.Breakdown.Keyword)
	require.NotNil(t, res.Breakdown.Format)
	require.NotNil(t, res.Breakdown.Readability)
	assert.Nil(t, res.Breakdown.Semantic, "no embedder, semantic must be dropped")

	// Weights renormalize to 1 over present components.
	sum := res.Breakdown.Keyword.Weight + res.Breakdown.Format.Weight + res.Breakdown.Readability.Weight
	assert.InDelta(t, 1.0, sum, 1e-9)

	assert.NotEmpty(t, res.MatchedKeywords)
	assert.Equal(t, IndustrySoftware, res.Industry.Industry)

	// Missing keywords sorted by weight descending.
	for i := 1; i < len(res.MissingKeywords); i++ {
		assert.GreaterOrEqual(t, res.MissingKeywords[i-1].Weight, res.MissingKeywords[i].Weight)
	}
}

func TestScoreWithoutJobDescription(t *testing.T) {
	engine := NewEngine(&stubEmbedder{vec: []float32{1, 0}})
	doc := parseDoc(t, goodResume())

	res, err := engine.Score(context.Background(), doc, "")
	require.NoError(t, err)

	assert.Nil(t, res.Breakdown.Keyword)
	assert.Nil(t, res.Breakdown.Semantic)
	require.NotNil(t, res.Breakdown.Format)
	require.NotNil(t, res.Breakdown.Readability)

	sum := res.Breakdown.Format.Weight + res.Breakdown.Readability.Weight
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestScoreEmbedderFailureDegrades(t *testing.T) {
	engine := NewEngine(&stubEmbedder{err: errors.New("provider down")})
	doc := parseDoc(t, goodResume())

	res, err := engine.Score(context.Background(), doc, sampleJD)
	require.NoError(t, err, "embedding failure must not fail the analysis")
	assert.Nil(t, res.Breakdown.Semantic)
	require.NotNil(t, res.Breakdown.Keyword)
}

func TestScoreWithEmbedder(t *testing.T) {
	engine := NewEngine(&stubEmbedder{vec: []float32{0.3, 0.7, 0.1}})
	doc := parseDoc(t, goodResume())

	res, err := engine.Score(context.Background(), doc, sampleJD)
	require.NoError(t, err)

	require.NotNil(t, res.Breakdown.Semantic)
	// Identical stub vectors for both texts: cosine 1 -> score 100.
	assert.InDelta(t, 100.0, res.Breakdown.Semantic.Score, 1e-9)

	sum := res.Breakdown.Keyword.Weight + res.Breakdown.Format.Weight +
		res.Breakdown.Readability.Weight + res.Breakdown.Semantic.Weight
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestScoreEmptyResume(t *testing.T) {
	engine := NewEngine(nil)

	_, err := engine.Score(context.Background(), nil, sampleJD)
	assert.Error(t, err)
}

func TestSuggestionsMentionMissingKeywords(t *testing.T) {
	engine := NewEngine(nil)
	doc := parseDoc(t, "SUMMARY\nFlorist arranging seasonal bouquets.\n")

	res, err := engine.Score(context.Background(), doc, sampleJD)
	require.NoError(t, err)

	require.NotEmpty(t, res.MissingKeywords)
	require.NotEmpty(t, res.Suggestions)
	assert.Contains(t, res.Suggestions[0], res.MissingKeywords[0].Term)
}

func TestSimilarityToScore(t *testing.T) {
	assert.Equal(t, 100.0, SimilarityToScore(1))
	assert.Equal(t, 0.0, SimilarityToScore(-0.5))
	assert.InDelta(t, 50.0, SimilarityToScore(0.5), 1e-9)
}
