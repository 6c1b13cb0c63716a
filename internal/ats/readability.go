package ats

import (
	"strings"
)

// ReadabilityResult scores how easily a resume scans, in [0,100].
type ReadabilityResult struct {
	Score           float64 `json:"score"`
	AvgSentenceLen  float64 `json:"avg_sentence_len"`
	AvgWordLen      float64 `json:"avg_word_len"`
	BulletLineRatio float64 `json:"bullet_line_ratio"`
}

const (
	idealSentenceLen = 14.0
	idealWordLen     = 5.5
	idealBulletRatio = 0.4
)

// CheckReadability computes simple readability heuristics. Each component
// scores 100 at its ideal value and decays linearly with distance.
func CheckReadability(text string) ReadabilityResult {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ReadabilityResult{}
	}

	sentences := splitSentences(text)
	avgSentence := float64(len(words)) / float64(max(len(sentences), 1))

	var runeCount int
	for _, w := range words {
		runeCount += len([]rune(w))
	}
	avgWord := float64(runeCount) / float64(len(words))

	lines := nonEmptyLines(text)
	bulletRatio := 0.0
	if len(lines) > 0 {
		bulleted := 0
		for _, l := range lines {
			if isBulletLine(l) {
				bulleted++
			}
		}
		bulletRatio = float64(bulleted) / float64(len(lines))
	}

	score := 0.45*proximity(avgSentence, idealSentenceLen, 20) +
		0.25*proximity(avgWord, idealWordLen, 4) +
		0.30*proximity(bulletRatio, idealBulletRatio, 0.4)

	return ReadabilityResult{
		Score:           clamp(score, 0, 100),
		AvgSentenceLen:  avgSentence,
		AvgWordLen:      avgWord,
		BulletLineRatio: bulletRatio,
	}
}

// proximity returns 100 at the ideal value, 0 once the distance reaches span.
func proximity(value, ideal, span float64) float64 {
	d := value - ideal
	if d < 0 {
		d = -d
	}
	if d >= span {
		return 0
	}
	return 100 * (1 - d/span)
}

func splitSentences(text string) []string {
	var out []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			if s := strings.TrimSpace(text[start:i]); len(strings.Fields(s)) >= 2 {
				out = append(out, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); len(strings.Fields(s)) >= 2 {
		out = append(out, s)
	}
	return out
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
