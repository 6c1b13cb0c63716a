package ats

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/feiyu23/spark-resume-ai/internal/textextract"
)

// FormatCheck is one pass/fail heuristic with the weight it contributes to
// the format score.
type FormatCheck struct {
	Name   string  `json:"name"`
	Passed bool    `json:"passed"`
	Weight float64 `json:"weight"`
	Detail string  `json:"detail,omitempty"`
}

// FormatResult is the outcome of all format checks, score in [0,100].
type FormatResult struct {
	Score  float64       `json:"score"`
	Checks []FormatCheck `json:"checks"`
}

const (
	minResumeWords = 200
	maxResumeWords = 1200

	longParagraphWords = 80
)

var bulletPrefixes = []string{"-", "*", "•", "·", "‣", "●"}

// actionVerbs are the leads ATS reviewers look for at the start of
// experience bullets.
var actionVerbs = map[string]struct{}{}

func init() {
	for _, v := range []string{
		"achieved", "analyzed", "architected", "automated", "built",
		"collaborated", "created", "decreased", "delivered", "designed",
		"developed", "directed", "drove", "engineered", "established",
		"founded", "grew", "implemented", "improved", "increased",
		"launched", "led", "maintained", "managed", "mentored", "migrated",
		"optimized", "orchestrated", "owned", "reduced", "refactored",
		"scaled", "shipped", "spearheaded", "streamlined", "trained",
	} {
		actionVerbs[v] = struct{}{}
	}
}

var reQuantified = regexp.MustCompile(`\d+(?:\.\d+)?\s*(?:%|percent|x\b|k\b|m\b|\+|million|billion|users|customers|requests|hours|days)|\$\s*\d`)

// CheckFormat runs the format heuristics over a parsed resume.
func CheckFormat(doc *textextract.Document) FormatResult {
	bullets := bulletLines(doc.RawText)

	checks := []FormatCheck{
		{
			Name:   "contact_email",
			Weight: 10,
			Passed: doc.Contact.Email != "",
			Detail: "resume includes an email address",
		},
		{
			Name:   "contact_phone",
			Weight: 5,
			Passed: doc.Contact.Phone != "",
			Detail: "resume includes a phone number",
		},
		sectionCheck(doc, textextract.SectionExperience, 10),
		sectionCheck(doc, textextract.SectionEducation, 5),
		sectionCheck(doc, textextract.SectionSkills, 10),
		sectionCheck(doc, textextract.SectionSummary, 5),
		{
			Name:   "uses_bullets",
			Weight: 10,
			Passed: len(bullets) >= 3,
			Detail: "experience is broken into bullet points",
		},
		actionVerbCheck(bullets),
		{
			Name:   "quantified_achievements",
			Weight: 15,
			Passed: len(reQuantified.FindAllString(doc.RawText, -1)) >= 2,
			Detail: "achievements are backed by numbers",
		},
		lengthCheck(doc.WordCount),
		paragraphCheck(doc.RawText),
	}

	var score, total float64
	for _, c := range checks {
		total += c.Weight
		if c.Passed {
			score += c.Weight
		}
	}

	return FormatResult{
		Score:  100 * score / total,
		Checks: checks,
	}
}

func sectionCheck(doc *textextract.Document, name textextract.SectionName, weight float64) FormatCheck {
	_, ok := doc.Section(name)
	return FormatCheck{
		Name:   "section_" + string(name),
		Weight: weight,
		Passed: ok,
		Detail: fmt.Sprintf("resume has a %s section", name),
	}
}

func actionVerbCheck(bullets []string) FormatCheck {
	leads := 0
	for _, b := range bullets {
		fields := strings.Fields(textextract.Normalize(b))
		if len(fields) == 0 {
			continue
		}
		if _, ok := actionVerbs[fields[0]]; ok {
			leads++
		}
	}
	passed := len(bullets) > 0 && leads*2 >= len(bullets)
	return FormatCheck{
		Name:   "action_verb_leads",
		Weight: 15,
		Passed: passed,
		Detail: fmt.Sprintf("%d of %d bullets start with an action verb", leads, len(bullets)),
	}
}

func lengthCheck(words int) FormatCheck {
	return FormatCheck{
		Name:   "length_in_range",
		Weight: 10,
		Passed: words >= minResumeWords && words <= maxResumeWords,
		Detail: fmt.Sprintf("word count %d (expected %d-%d)", words, minResumeWords, maxResumeWords),
	}
}

func paragraphCheck(text string) FormatCheck {
	overlong := 0
	for _, para := range strings.Split(text, "\n\n") {
		if len(strings.Fields(para)) > longParagraphWords && !isBulletBlock(para) {
			overlong++
		}
	}
	return FormatCheck{
		Name:   "no_walls_of_text",
		Weight: 5,
		Passed: overlong == 0,
		Detail: fmt.Sprintf("%d over-long paragraphs", overlong),
	}
}

func isBulletBlock(para string) bool {
	lines := strings.Split(para, "\n")
	bulleted := 0
	for _, l := range lines {
		if isBulletLine(l) {
			bulleted++
		}
	}
	return bulleted*2 >= len(lines)
}

func bulletLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if isBulletLine(line) {
			out = append(out, strings.TrimLeft(strings.TrimSpace(line), "-*•·‣● \t"))
		}
	}
	return out
}

func isBulletLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, p := range bulletPrefixes {
		if strings.HasPrefix(trimmed, p+" ") || (strings.HasPrefix(trimmed, p) && len(p) > 1) {
			return true
		}
	}
	return false
}
