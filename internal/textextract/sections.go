package textextract

import (
	"fmt"
	"regexp"
	"strings"
)

// SectionName is the canonical name of a resume section.
type SectionName string

const (
	SectionSummary        SectionName = "summary"
	SectionExperience     SectionName = "experience"
	SectionEducation      SectionName = "education"
	SectionSkills         SectionName = "skills"
	SectionProjects       SectionName = "projects"
	SectionCertifications SectionName = "certifications"
	SectionLanguages      SectionName = "languages"
	SectionAwards         SectionName = "awards"

	// SectionBody holds text that precedes the first recognized header, or
	// the whole resume when no headers are found.
	SectionBody SectionName = "body"
)

// Section is a contiguous slice of the resume under one header.
type Section struct {
	Name    SectionName `json:"name"`
	Heading string      `json:"heading"`
	Body    string      `json:"body"`
}

// ContactInfo is what the format checks look for at the top of a resume.
type ContactInfo struct {
	Email string   `json:"email,omitempty"`
	Phone string   `json:"phone,omitempty"`
	Links []string `json:"links,omitempty"`
}

// Document is the parsed form of a resume.
type Document struct {
	RawText   string      `json:"raw_text"`
	Sections  []Section   `json:"sections"`
	Contact   ContactInfo `json:"contact"`
	WordCount int         `json:"word_count"`
}

// Section returns the first section with the given name.
func (d *Document) Section(name SectionName) (*Section, bool) {
	for i := range d.Sections {
		if d.Sections[i].Name == name {
			return &d.Sections[i], true
		}
	}
	return nil, false
}

// headerAliases maps header spellings seen in the wild to canonical names.
// Order matters: longer phrases first so "work experience" never half-matches.
var headerAliases = []struct {
	pattern string
	name    SectionName
}{
	{`professional\s+summary|executive\s+summary|career\s+summary|summary\s+of\s+qualifications|summary|profile|objective|about\s+me|about`, SectionSummary},
	{`work\s+experience|professional\s+experience|employment\s+history|work\s+history|relevant\s+experience|experience`, SectionExperience},
	{`education\s+and\s+training|academic\s+background|education`, SectionEducation},
	{`technical\s+skills|core\s+competencies|key\s+skills|skills\s*(?:&|and)\s*abilities|areas\s+of\s+expertise|skills|technologies|competencies`, SectionSkills},
	{`personal\s+projects|selected\s+projects|projects`, SectionProjects},
	{`certifications?|licenses?\s*(?:&|and)\s*certifications?|credentials`, SectionCertifications},
	{`languages?`, SectionLanguages},
	{`awards?|honors?|achievements?|accomplishments?`, SectionAwards},
}

var headerRegexps = compileHeaderRegexps()

func compileHeaderRegexps() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(headerAliases))
	for i, h := range headerAliases {
		// A header is the alias alone on its line, allowing list decorations
		// and a trailing colon.
		out[i] = regexp.MustCompile(`(?i)^[\s\-=*#•>|]*(?:` + h.pattern + `)[\s:]*$`)
	}
	return out
}

var (
	reEmail = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	rePhone = regexp.MustCompile(`(?:\+?\d{1,3}[-.\s]?)?\(?\d{2,4}\)?[-.\s]?\d{3,4}[-.\s]?\d{3,4}`)
	reLink  = regexp.MustCompile(`(?i)\b(?:https?://|www\.|linkedin\.com/|github\.com/)[^\s,;|]+`)
)

// Parse splits resume text into sections and extracts contact details.
// An empty document is an error; text with no recognizable headers comes
// back as a single body section.
func Parse(text string) (*Document, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("empty resume text")
	}

	doc := &Document{
		RawText:   text,
		Contact:   extractContact(text),
		WordCount: len(strings.Fields(text)),
	}

	var (
		current      *Section
		sectionIndex = map[SectionName]int{}
	)
	flush := func() {
		if current == nil {
			return
		}
		current.Body = strings.TrimSpace(current.Body)
		if i, ok := sectionIndex[current.Name]; ok {
			// Duplicate headers merge into the first occurrence.
			if current.Body != "" {
				if doc.Sections[i].Body != "" {
					doc.Sections[i].Body += "\n"
				}
				doc.Sections[i].Body += current.Body
			}
		} else {
			doc.Sections = append(doc.Sections, *current)
			sectionIndex[current.Name] = len(doc.Sections) - 1
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if name, ok := matchHeader(line); ok {
			flush()
			current = &Section{Name: name, Heading: strings.TrimSpace(line)}
			continue
		}
		if current == nil {
			current = &Section{Name: SectionBody}
		}
		current.Body += line + "\n"
	}
	flush()

	return doc, nil
}

func matchHeader(line string) (SectionName, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || len(trimmed) > 60 {
		return "", false
	}
	for i, re := range headerRegexps {
		if re.MatchString(trimmed) {
			return headerAliases[i].name, true
		}
	}
	return "", false
}

func extractContact(text string) ContactInfo {
	info := ContactInfo{
		Email: reEmail.FindString(text),
	}
	if phone := rePhone.FindString(text); len(strings.Map(keepDigits, phone)) >= 7 {
		info.Phone = strings.TrimSpace(phone)
	}
	for _, link := range reLink.FindAllString(text, -1) {
		info.Links = append(info.Links, strings.TrimRight(link, ".,;"))
	}
	return info
}

func keepDigits(r rune) rune {
	if r >= '0' && r <= '9' {
		return r
	}
	return -1
}

var (
	reInnerDot = regexp.MustCompile(`([\p{L}\p{N}])\.([\p{L}\p{N}])`)
	reNonWord  = regexp.MustCompile(`[^\p{L}\p{N}+#\x00]+`)
	reSpaces   = regexp.MustCompile(`\s+`)
)

// Normalize lowercases text and collapses everything that is not a word
// character into single spaces. "+" and "#" survive so "c++" and "c#" stay
// intact; dots survive only between word characters ("node.js"), sentence
// punctuation does not.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = reInnerDot.ReplaceAllString(s, "$1\x00$2")
	s = reNonWord.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "\x00", ".")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
