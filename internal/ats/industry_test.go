package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectIndustrySoftware(t *testing.T) {
	d := DetectIndustry(`Senior Software Engineer with experience in Go,
Kubernetes and PostgreSQL. Built microservices on AWS.`)

	assert.Equal(t, IndustrySoftware, d.Industry)
	assert.Greater(t, d.Confidence, 0.5)
	assert.Contains(t, d.Matched, "software engineer")
	assert.Contains(t, d.Matched, "kubernetes")
}

func TestDetectIndustryTitleOutweighsKeywords(t *testing.T) {
	// A nursing title should beat scattered generic tech words.
	d := DetectIndustry(`Registered Nurse focused on patient care and
clinical documentation in Epic. Comfortable with Excel.`)

	assert.Equal(t, IndustryHealthcare, d.Industry)
}

func TestDetectIndustryNoMatch(t *testing.T) {
	d := DetectIndustry("I enjoy long walks and gardening on weekends.")

	assert.Equal(t, IndustryGeneral, d.Industry)
	assert.Zero(t, d.Confidence)
	assert.Empty(t, d.Matched)
}

func TestDetectIndustryWholeWordMatching(t *testing.T) {
	// "go" must not match inside "mongodb" or "category".
	d := DetectIndustry("Managed product category listings in mongodb exports.")

	for _, term := range d.Matched {
		assert.NotEqual(t, "go", term)
	}
}

func TestConfidenceSplitsAcrossIndustries(t *testing.T) {
	mixed := DetectIndustry(`Data analyst and marketing manager. SQL, Tableau,
Google Analytics, SEO, campaign management, A B testing.`)

	focused := DetectIndustry(`Data analyst. SQL, Tableau, pandas, ETL,
data visualization, statistics.`)

	assert.Greater(t, focused.Confidence, mixed.Confidence)
}
