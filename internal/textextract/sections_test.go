package textextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Rivera
jane.rivera@example.com | +1 (415) 555-0173 | linkedin.com/in/janerivera

PROFESSIONAL SUMMARY
Backend engineer with 7 years building distributed systems.

WORK EXPERIENCE
Senior Software Engineer, Acme Corp (2020 - Present)
- Led migration of payment pipeline to Go, cutting latency 40%
- Mentored 4 junior engineers

EDUCATION
B.S. Computer Science, UC Davis

Skills:
Go, PostgreSQL, Kubernetes, Redis

CERTIFICATIONS
AWS Solutions Architect
`

func TestParseSections(t *testing.T) {
	doc, err := Parse(sampleResume)
	require.NoError(t, err)

	names := make([]SectionName, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		names = append(names, s.Name)
	}
	assert.Equal(t, []SectionName{
		SectionBody,
		SectionSummary,
		SectionExperience,
		SectionEducation,
		SectionSkills,
		SectionCertifications,
	}, names)

	skills, ok := doc.Section(SectionSkills)
	require.True(t, ok)
	assert.Equal(t, "Go, PostgreSQL, Kubernetes, Redis", skills.Body)

	exp, ok := doc.Section(SectionExperience)
	require.True(t, ok)
	assert.Contains(t, exp.Body, "payment pipeline")
}

func TestParseContact(t *testing.T) {
	doc, err := Parse(sampleResume)
	require.NoError(t, err)

	assert.Equal(t, "jane.rivera@example.com", doc.Contact.Email)
	assert.NotEmpty(t, doc.Contact.Phone)
	require.Len(t, doc.Contact.Links, 1)
	assert.Equal(t, "linkedin.com/in/janerivera", doc.Contact.Links[0])
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse("   \n\n  ")
	assert.Error(t, err)
}

func TestParseNoHeaders(t *testing.T) {
	doc, err := Parse("Just a plain paragraph about my career with no headers at all.")
	require.NoError(t, err)

	require.Len(t, doc.Sections, 1)
	assert.Equal(t, SectionBody, doc.Sections[0].Name)
	assert.Contains(t, doc.Sections[0].Body, "plain paragraph")
}

func TestParseDuplicateHeadersMerge(t *testing.T) {
	doc, err := Parse("EXPERIENCE\nfirst stint\n\nEXPERIENCE\nsecond stint\n")
	require.NoError(t, err)

	require.Len(t, doc.Sections, 1)
	assert.Contains(t, doc.Sections[0].Body, "first stint")
	assert.Contains(t, doc.Sections[0].Body, "second stint")
}

func TestMatchHeaderRejectsProse(t *testing.T) {
	_, ok := matchHeader("I have experience with Go and Kubernetes")
	assert.False(t, ok)

	name, ok := matchHeader("  Technical Skills:")
	assert.True(t, ok)
	assert.Equal(t, SectionSkills, name)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Go, PostgreSQL & Redis!", "go postgresql redis"},
		{"C++ / C# developer", "c++ c# developer"},
		{"Node.js\n\tExpress", "node.js express"},
		{"  spaced   out  ", "spaced out"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "input %q", tt.in)
	}
}

func TestFileTypeFromName(t *testing.T) {
	ft, err := FileTypeFromName("uploads/resume.PDF")
	require.NoError(t, err)
	assert.Equal(t, FileTypePDF, ft)

	_, err = FileTypeFromName("resume.pages")
	assert.Error(t, err)
}
