// Package keywords rewrites resume text to work missing job-description
// terms into the right sections.
package keywords

import (
	"fmt"
	"strings"

	"github.com/feiyu23/spark-resume-ai/internal/ats"
	"github.com/feiyu23/spark-resume-ai/internal/textextract"
)

// Strategy names how a keyword was worked into the text.
type Strategy string

const (
	StrategySkillsList       Strategy = "skills_list"
	StrategyNewSkillsSection Strategy = "new_skills_section"
	StrategySummarySentence  Strategy = "summary_sentence"
	StrategyExperienceBullet Strategy = "experience_bullet"
)

// Insertion records one keyword placement.
type Insertion struct {
	Keyword  string   `json:"keyword"`
	Section  string   `json:"section"`
	Strategy Strategy `json:"strategy"`
}

// Result is the rewritten resume plus the insertion log.
type Result struct {
	Text       string      `json:"text"`
	Insertions []Insertion `json:"insertions"`
}

const (
	maxSummaryKeywords   = 3
	maxExperienceBullets = 3
)

// bulletTemplates vary the inserted experience bullet by industry so the
// line reads like it belongs.
var bulletTemplates = map[ats.Industry]string{
	ats.IndustrySoftware:   "- Worked with %s across recent projects",
	ats.IndustryData:       "- Applied %s to analysis and reporting work",
	ats.IndustryMarketing:  "- Ran campaigns leveraging %s",
	ats.IndustrySales:      "- Used %s to manage and grow the pipeline",
	ats.IndustryDesign:     "- Produced deliverables in %s",
	ats.IndustryFinance:    "- Supported reporting and analysis with %s",
	ats.IndustryHealthcare: "- Documented and coordinated care using %s",
	ats.IndustryEducation:  "- Incorporated %s into instruction and assessment",
	ats.IndustryOperations: "- Improved processes using %s",
}

const defaultBulletTemplate = "- Gained hands-on experience with %s"

// Integrator places missing keywords into a resume. Stateless; safe for
// concurrent use.
type Integrator struct{}

func NewIntegrator() *Integrator { return &Integrator{} }

// Integrate returns the resume text with missing keywords added to the
// skills list, the summary, and capped experience bullets. Keywords already
// present anywhere in the resume are skipped, so running the integration
// twice changes nothing the second time.
func (in *Integrator) Integrate(resumeText string, missing []ats.Keyword, industry ats.Industry) (*Result, error) {
	doc, err := textextract.Parse(resumeText)
	if err != nil {
		return nil, err
	}

	pending := filterAbsent(resumeText, missing)
	if len(pending) == 0 {
		return &Result{Text: resumeText}, nil
	}

	res := &Result{}
	sections := make([]textextract.Section, len(doc.Sections))
	copy(sections, doc.Sections)

	sections, res.Insertions = integrateSkills(sections, pending, res.Insertions)
	sections, res.Insertions = integrateSummary(sections, pending, res.Insertions)
	sections, res.Insertions = integrateExperience(sections, pending, industry, res.Insertions)

	res.Text = render(sections)
	return res, nil
}

// filterAbsent drops keywords the resume already contains.
func filterAbsent(resumeText string, missing []ats.Keyword) []ats.Keyword {
	padded := " " + textextract.Normalize(resumeText) + " "
	out := make([]ats.Keyword, 0, len(missing))
	for _, kw := range missing {
		if !strings.Contains(padded, " "+textextract.Normalize(kw.Term)+" ") {
			out = append(out, kw)
		}
	}
	return out
}

// integrateSkills appends every pending keyword to the skills section,
// matching its list style, creating the section when absent.
func integrateSkills(sections []textextract.Section, pending []ats.Keyword, log []Insertion) ([]textextract.Section, []Insertion) {
	terms := make([]string, len(pending))
	for i, kw := range pending {
		terms[i] = kw.Term
	}

	idx := indexOf(sections, textextract.SectionSkills)
	if idx < 0 {
		body := strings.Join(terms, ", ")
		sections = append(sections, textextract.Section{
			Name:    textextract.SectionSkills,
			Heading: "SKILLS",
			Body:    body,
		})
		for _, t := range terms {
			log = append(log, Insertion{Keyword: t, Section: string(textextract.SectionSkills), Strategy: StrategyNewSkillsSection})
		}
		return sections, log
	}

	s := &sections[idx]
	if usesBulletList(s.Body) {
		var b strings.Builder
		b.WriteString(s.Body)
		for _, t := range terms {
			b.WriteString("\n- ")
			b.WriteString(t)
		}
		s.Body = b.String()
	} else {
		s.Body = strings.TrimRight(s.Body, " \n,") + ", " + strings.Join(terms, ", ")
	}
	for _, t := range terms {
		log = append(log, Insertion{Keyword: t, Section: string(textextract.SectionSkills), Strategy: StrategySkillsList})
	}
	return sections, log
}

// integrateSummary appends one sentence naming the top keywords.
func integrateSummary(sections []textextract.Section, pending []ats.Keyword, log []Insertion) ([]textextract.Section, []Insertion) {
	idx := indexOf(sections, textextract.SectionSummary)
	if idx < 0 {
		return sections, log
	}

	top := pending
	if len(top) > maxSummaryKeywords {
		top = top[:maxSummaryKeywords]
	}
	terms := make([]string, len(top))
	for i, kw := range top {
		terms[i] = kw.Term
	}

	sentence := fmt.Sprintf("Hands-on experience with %s.", joinNatural(terms))
	s := &sections[idx]
	s.Body = strings.TrimRight(s.Body, " \n") + " " + sentence

	for _, t := range terms {
		log = append(log, Insertion{Keyword: t, Section: string(textextract.SectionSummary), Strategy: StrategySummarySentence})
	}
	return sections, log
}

// integrateExperience adds one bullet per remaining high-weight keyword not
// already named by the summary sentence, capped.
func integrateExperience(sections []textextract.Section, pending []ats.Keyword, industry ats.Industry, log []Insertion) ([]textextract.Section, []Insertion) {
	idx := indexOf(sections, textextract.SectionExperience)
	if idx < 0 {
		return sections, log
	}

	rest := pending
	if len(rest) > maxSummaryKeywords {
		rest = rest[maxSummaryKeywords:]
	} else {
		return sections, log
	}
	if len(rest) > maxExperienceBullets {
		rest = rest[:maxExperienceBullets]
	}

	template, ok := bulletTemplates[industry]
	if !ok {
		template = defaultBulletTemplate
	}

	s := &sections[idx]
	var b strings.Builder
	b.WriteString(strings.TrimRight(s.Body, " \n"))
	for _, kw := range rest {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf(template, kw.Term))
		log = append(log, Insertion{Keyword: kw.Term, Section: string(textextract.SectionExperience), Strategy: StrategyExperienceBullet})
	}
	s.Body = b.String()
	return sections, log
}

func render(sections []textextract.Section) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		if s.Heading == "" {
			parts = append(parts, s.Body)
			continue
		}
		parts = append(parts, s.Heading+"\n"+s.Body)
	}
	return strings.Join(parts, "\n\n") + "\n"
}

func indexOf(sections []textextract.Section, name textextract.SectionName) int {
	for i := range sections {
		if sections[i].Name == name {
			return i
		}
	}
	return -1
}

func usesBulletList(body string) bool {
	bullets := 0
	lines := 0
	for _, l := range strings.Split(body, "\n") {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines++
		trimmed := strings.TrimSpace(l)
		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") || strings.HasPrefix(trimmed, "•") {
			bullets++
		}
	}
	return lines > 0 && bullets*2 >= lines
}

func joinNatural(terms []string) string {
	switch len(terms) {
	case 0:
		return ""
	case 1:
		return terms[0]
	case 2:
		return terms[0] + " and " + terms[1]
	default:
		return strings.Join(terms[:len(terms)-1], ", ") + " and " + terms[len(terms)-1]
	}
}
