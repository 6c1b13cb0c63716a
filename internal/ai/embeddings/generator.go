// Package embeddings wraps the OpenAI embeddings API for semantic scoring
// and similarity search.
package embeddings

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// maxInputRunes keeps requests under the embedding model's context window.
const maxInputRunes = 24000

// Generator creates embedding vectors for resume and job-description text.
type Generator struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

func NewGenerator(apiKey string, model openai.EmbeddingModel) *Generator {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)
	if model == "" {
		model = openai.EmbeddingModelTextEmbedding3Small
	}
	return &Generator{
		client: &client,
		model:  model,
	}
}

// EmbedText creates an embedding vector for a single text.
func (g *Generator) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	resp, err := g.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: []string{truncate(text)},
		},
		Model: g.model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding data returned")
	}

	return toFloat32(resp.Data[0].Embedding), nil
}

// EmbedBatch creates embeddings for multiple texts in one request. Empty
// inputs are dropped; the result order follows the surviving inputs.
func (g *Generator) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	valid := make([]string, 0, len(texts))
	for _, t := range texts {
		if t != "" {
			valid = append(valid, truncate(t))
		}
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("no texts provided")
	}

	resp, err := g.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: valid,
		},
		Model: g.model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(resp.Data) != len(valid) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(valid), len(resp.Data))
	}

	out := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		out[i] = toFloat32(d.Embedding)
	}
	return out, nil
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= maxInputRunes {
		return text
	}
	return string(runes[:maxInputRunes])
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
