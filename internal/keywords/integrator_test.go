package keywords

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feiyu23/spark-resume-ai/internal/ats"
)

const resumeWithSkills = `SUMMARY
Backend engineer focused on reliability.

EXPERIENCE
- Built billing services in Go
- Led on-call rotation for the platform team

SKILLS
Go, PostgreSQL, Redis
`

func kws(terms ...string) []ats.Keyword {
	out := make([]ats.Keyword, len(terms))
	for i, t := range terms {
		out[i] = ats.Keyword{Term: t, Weight: float64(len(terms) - i)}
	}
	return out
}

func TestIntegrateSkillsCommaStyle(t *testing.T) {
	res, err := NewIntegrator().Integrate(resumeWithSkills, kws("kubernetes", "terraform"), ats.IndustrySoftware)
	require.NoError(t, err)

	assert.Contains(t, res.Text, "Go, PostgreSQL, Redis, kubernetes, terraform")

	strategies := map[Strategy]int{}
	for _, ins := range res.Insertions {
		strategies[ins.Strategy]++
	}
	assert.Equal(t, 2, strategies[StrategySkillsList])
	assert.Equal(t, 2, strategies[StrategySummarySentence])
}

func TestIntegrateSkillsBulletStyle(t *testing.T) {
	resume := "SKILLS\n- Go\n- PostgreSQL\n"
	res, err := NewIntegrator().Integrate(resume, kws("kubernetes"), ats.IndustrySoftware)
	require.NoError(t, err)

	assert.Contains(t, res.Text, "- kubernetes")
	assert.NotContains(t, res.Text, ", kubernetes")
}

func TestIntegrateCreatesSkillsSection(t *testing.T) {
	resume := "EXPERIENCE\n- Shipped the things\n"
	res, err := NewIntegrator().Integrate(resume, kws("docker"), ats.IndustrySoftware)
	require.NoError(t, err)

	assert.Contains(t, res.Text, "SKILLS")
	assert.Contains(t, res.Text, "docker")

	require.NotEmpty(t, res.Insertions)
	assert.Equal(t, StrategyNewSkillsSection, res.Insertions[0].Strategy)
}

func TestIntegrateSummarySentence(t *testing.T) {
	res, err := NewIntegrator().Integrate(resumeWithSkills, kws("kubernetes", "terraform", "grafana"), ats.IndustrySoftware)
	require.NoError(t, err)

	assert.Contains(t, res.Text, "Hands-on experience with kubernetes, terraform and grafana.")
}

func TestIntegrateExperienceBulletsCapped(t *testing.T) {
	res, err := NewIntegrator().Integrate(resumeWithSkills,
		kws("kubernetes", "terraform", "grafana", "kafka", "rabbitmq", "elasticsearch", "prometheus"),
		ats.IndustrySoftware)
	require.NoError(t, err)

	bullets := 0
	for _, line := range strings.Split(res.Text, "\n") {
		if strings.HasPrefix(line, "- Worked with ") {
			bullets++
		}
	}
	assert.Equal(t, maxExperienceBullets, bullets)
	assert.Contains(t, res.Text, "- Worked with kafka")
}

func TestIntegrateIdempotent(t *testing.T) {
	missing := kws("kubernetes", "terraform")

	first, err := NewIntegrator().Integrate(resumeWithSkills, missing, ats.IndustrySoftware)
	require.NoError(t, err)
	require.NotEmpty(t, first.Insertions)

	second, err := NewIntegrator().Integrate(first.Text, missing, ats.IndustrySoftware)
	require.NoError(t, err)
	assert.Empty(t, second.Insertions)
	assert.Equal(t, first.Text, second.Text)
}

func TestIntegrateSkipsPresentKeywords(t *testing.T) {
	res, err := NewIntegrator().Integrate(resumeWithSkills, kws("go", "kubernetes"), ats.IndustrySoftware)
	require.NoError(t, err)

	for _, ins := range res.Insertions {
		assert.NotEqual(t, "go", ins.Keyword)
	}
}

func TestIntegrateEmptyResume(t *testing.T) {
	_, err := NewIntegrator().Integrate("  ", kws("go"), ats.IndustrySoftware)
	assert.Error(t, err)
}
