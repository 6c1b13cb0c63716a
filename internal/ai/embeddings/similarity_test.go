package embeddings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, Cosine([]float32{1, 0}, []float32{-1, 0}), 1e-9)
}

func TestCosineDegenerate(t *testing.T) {
	assert.Zero(t, Cosine(nil, nil))
	assert.Zero(t, Cosine([]float32{1, 2}, []float32{1, 2, 3}))
	assert.Zero(t, Cosine([]float32{0, 0}, []float32{1, 2}))
}
