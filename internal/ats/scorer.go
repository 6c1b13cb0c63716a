package ats

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/feiyu23/spark-resume-ai/internal/ai/embeddings"
	"github.com/feiyu23/spark-resume-ai/internal/textextract"
	"github.com/feiyu23/spark-resume-ai/pkg/logx"
)

// Embedder produces an embedding vector for a text. The engine treats it as
// optional: a nil embedder or a failing call just drops the semantic
// component.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Component weights before renormalization.
const (
	weightKeywordScore     = 0.40
	weightFormatScore      = 0.25
	weightSemanticScore    = 0.20
	weightReadabilityScore = 0.15
)

// ComponentScore is one weighted part of the total. Weight is the effective
// weight after renormalization.
type ComponentScore struct {
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
}

// Breakdown lists the components that made it into the total. Nil components
// were dropped (no job description, no embedder).
type Breakdown struct {
	Total       float64         `json:"total"`
	Keyword     *ComponentScore `json:"keyword,omitempty"`
	Format      *ComponentScore `json:"format,omitempty"`
	Readability *ComponentScore `json:"readability,omitempty"`
	Semantic    *ComponentScore `json:"semantic,omitempty"`
}

// Result is a full scoring run over one resume.
type Result struct {
	Industry        Detection         `json:"industry"`
	Breakdown       Breakdown         `json:"breakdown"`
	MatchedKeywords []Keyword         `json:"matched_keywords"`
	MissingKeywords []Keyword         `json:"missing_keywords"`
	FormatChecks    []FormatCheck     `json:"format_checks"`
	Readability     ReadabilityResult `json:"readability"`
	Suggestions     []string          `json:"suggestions"`
}

// Engine scores resumes. Safe for concurrent use.
type Engine struct {
	embedder     Embedder
	keywordLimit int
}

func NewEngine(embedder Embedder) *Engine {
	return &Engine{
		embedder:     embedder,
		keywordLimit: DefaultKeywordLimit,
	}
}

// Score runs the whole pipeline for one resume against an optional job
// description. With an empty job description only format and readability
// are scored. Embedding failures are logged and skipped, never fatal.
func (e *Engine) Score(ctx context.Context, doc *textextract.Document, jobDescription string) (*Result, error) {
	if doc == nil || strings.TrimSpace(doc.RawText) == "" {
		return nil, fmt.Errorf("empty resume text")
	}

	result := &Result{
		Industry:    DetectIndustry(doc.RawText),
		Readability: CheckReadability(doc.RawText),
	}

	format := CheckFormat(doc)
	result.FormatChecks = format.Checks

	components := map[string]ComponentScore{
		"format":      {Score: format.Score, Weight: weightFormatScore},
		"readability": {Score: result.Readability.Score, Weight: weightReadabilityScore},
	}

	hasJD := strings.TrimSpace(jobDescription) != ""
	if hasJD {
		keywords := ExtractKeywords(jobDescription, e.keywordLimit)
		result.MatchedKeywords, result.MissingKeywords = matchKeywords(doc.RawText, keywords)
		components["keyword"] = ComponentScore{
			Score:  keywordCoverage(result.MatchedKeywords, result.MissingKeywords),
			Weight: weightKeywordScore,
		}

		if sem, ok := e.semanticScore(ctx, doc.RawText, jobDescription); ok {
			components["semantic"] = ComponentScore{Score: sem, Weight: weightSemanticScore}
		}
	}

	result.Breakdown = combine(components)
	result.Suggestions = buildSuggestions(result, hasJD)
	return result, nil
}

// semanticScore maps embedding cosine similarity into [0,100]. Anything that
// goes wrong drops the component.
func (e *Engine) semanticScore(ctx context.Context, resumeText, jobDescription string) (float64, bool) {
	if e.embedder == nil {
		return 0, false
	}
	resumeVec, err := e.embedder.EmbedText(ctx, resumeText)
	if err != nil {
		logx.Warnf("semantic score skipped, resume embedding failed: %v", err)
		return 0, false
	}
	jdVec, err := e.embedder.EmbedText(ctx, jobDescription)
	if err != nil {
		logx.Warnf("semantic score skipped, job description embedding failed: %v", err)
		return 0, false
	}
	return SimilarityToScore(embeddings.Cosine(resumeVec, jdVec)), true
}

// SimilarityToScore maps cosine similarity onto 0-100. Negative similarity
// clamps to 0.
func SimilarityToScore(similarity float64) float64 {
	return clamp(similarity*100, 0, 100)
}

// combine renormalizes the present component weights to sum to 1 and takes
// the weighted total.
func combine(components map[string]ComponentScore) Breakdown {
	var totalWeight float64
	for _, c := range components {
		totalWeight += c.Weight
	}
	if totalWeight == 0 {
		return Breakdown{}
	}

	var b Breakdown
	for name, c := range components {
		normalized := ComponentScore{
			Score:  clamp(c.Score, 0, 100),
			Weight: c.Weight / totalWeight,
		}
		b.Total += normalized.Score * normalized.Weight
		switch name {
		case "keyword":
			b.Keyword = &normalized
		case "format":
			b.Format = &normalized
		case "readability":
			b.Readability = &normalized
		case "semantic":
			b.Semantic = &normalized
		}
	}
	b.Total = clamp(b.Total, 0, 100)
	return b
}

// matchKeywords splits JD keywords into those found in the resume and those
// missing, the missing list sorted by weight descending.
func matchKeywords(resumeText string, keywords []Keyword) (matched, missing []Keyword) {
	padded := pad(textextract.Normalize(resumeText))
	for _, kw := range keywords {
		if containsTerm(padded, kw.Term) {
			matched = append(matched, kw)
		} else {
			missing = append(missing, kw)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i].Weight > missing[j].Weight })
	return matched, missing
}

// keywordCoverage is the weight-share of JD terms present in the resume.
func keywordCoverage(matched, missing []Keyword) float64 {
	var got, total float64
	for _, kw := range matched {
		got += kw.Weight
		total += kw.Weight
	}
	for _, kw := range missing {
		total += kw.Weight
	}
	if total == 0 {
		return 0
	}
	return 100 * got / total
}

const maxKeywordSuggestions = 5

func buildSuggestions(r *Result, hasJD bool) []string {
	var out []string

	if hasJD && len(r.MissingKeywords) > 0 {
		top := r.MissingKeywords
		if len(top) > maxKeywordSuggestions {
			top = top[:maxKeywordSuggestions]
		}
		terms := make([]string, len(top))
		for i, kw := range top {
			terms[i] = kw.Term
		}
		out = append(out, fmt.Sprintf("Add the job's key terms the resume is missing: %s", strings.Join(terms, ", ")))
	}

	for _, c := range r.FormatChecks {
		if c.Passed {
			continue
		}
		switch c.Name {
		case "contact_email":
			out = append(out, "Add an email address near the top of the resume")
		case "contact_phone":
			out = append(out, "Add a phone number near the top of the resume")
		case "uses_bullets":
			out = append(out, "Break experience into bullet points instead of paragraphs")
		case "action_verb_leads":
			out = append(out, "Start bullets with action verbs (led, built, improved)")
		case "quantified_achievements":
			out = append(out, "Quantify achievements with numbers, percentages or amounts")
		case "length_in_range":
			out = append(out, c.Detail)
		case "no_walls_of_text":
			out = append(out, "Split long paragraphs; recruiters skim")
		default:
			if strings.HasPrefix(c.Name, "section_") {
				out = append(out, fmt.Sprintf("Add a %s section", strings.TrimPrefix(c.Name, "section_")))
			}
		}
	}

	if r.Readability.Score < 50 {
		out = append(out, "Shorten sentences and favor bullet lists to improve scanability")
	}
	return out
}
