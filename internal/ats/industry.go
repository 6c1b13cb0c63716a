// Package ats implements the scoring pipeline: industry detection, job
// description keyword weighting, format and readability heuristics, and the
// combined resume score.
package ats

import (
	"strings"

	"github.com/feiyu23/spark-resume-ai/internal/textextract"
)

// Industry labels a resume's professional field.
type Industry string

const (
	IndustrySoftware   Industry = "software"
	IndustryData       Industry = "data"
	IndustryDesign     Industry = "design"
	IndustryMarketing  Industry = "marketing"
	IndustrySales      Industry = "sales"
	IndustryFinance    Industry = "finance"
	IndustryHealthcare Industry = "healthcare"
	IndustryEducation  Industry = "education"
	IndustryOperations Industry = "operations"
	IndustryGeneral    Industry = "general"
)

const (
	weightKeyword = 1.0
	weightTitle   = 3.0
	weightTool    = 2.0
)

type industryProfile struct {
	industry Industry
	keywords []string
	titles   []string
	tools    []string
}

// industryProfiles drive detection. Slice order is the deterministic
// tie-break: earlier wins on equal score.
var industryProfiles = []industryProfile{
	{
		industry: IndustrySoftware,
		keywords: []string{"software", "backend", "frontend", "full stack", "api", "microservices", "agile", "scrum", "ci cd", "devops", "cloud", "distributed systems", "open source"},
		titles:   []string{"software engineer", "software developer", "backend engineer", "frontend engineer", "full stack developer", "devops engineer", "site reliability engineer", "engineering manager", "tech lead"},
		tools:    []string{"go", "golang", "python", "java", "javascript", "typescript", "react", "kubernetes", "docker", "postgresql", "redis", "aws", "git", "terraform", "node.js"},
	},
	{
		industry: IndustryData,
		keywords: []string{"machine learning", "data analysis", "statistics", "etl", "data pipeline", "big data", "data warehouse", "predictive modeling", "a b testing", "data visualization", "deep learning"},
		titles:   []string{"data scientist", "data analyst", "data engineer", "machine learning engineer", "analytics engineer", "bi analyst", "research scientist"},
		tools:    []string{"sql", "pandas", "numpy", "spark", "tensorflow", "pytorch", "tableau", "power bi", "airflow", "snowflake", "dbt", "scikit learn", "r"},
	},
	{
		industry: IndustryDesign,
		keywords: []string{"user experience", "user interface", "design system", "wireframe", "prototype", "usability", "user research", "interaction design", "visual design", "accessibility"},
		titles:   []string{"ux designer", "ui designer", "product designer", "graphic designer", "design lead", "ux researcher"},
		tools:    []string{"figma", "sketch", "adobe xd", "photoshop", "illustrator", "invision", "zeplin", "after effects"},
	},
	{
		industry: IndustryMarketing,
		keywords: []string{"marketing", "seo", "sem", "content strategy", "brand", "campaign", "social media", "email marketing", "conversion rate", "growth", "engagement", "audience"},
		titles:   []string{"marketing manager", "digital marketer", "content strategist", "seo specialist", "growth manager", "brand manager", "social media manager"},
		tools:    []string{"google analytics", "hubspot", "mailchimp", "google ads", "facebook ads", "semrush", "hootsuite", "marketo"},
	},
	{
		industry: IndustrySales,
		keywords: []string{"sales", "pipeline", "quota", "prospecting", "negotiation", "closing", "account management", "lead generation", "crm", "territory", "revenue", "upsell"},
		titles:   []string{"sales representative", "account executive", "sales manager", "business development", "account manager", "sales director"},
		tools:    []string{"salesforce", "outreach", "gong", "zoominfo", "linkedin sales navigator", "pipedrive"},
	},
	{
		industry: IndustryFinance,
		keywords: []string{"financial analysis", "accounting", "budgeting", "forecasting", "audit", "compliance", "portfolio", "valuation", "risk management", "reconciliation", "gaap", "financial modeling"},
		titles:   []string{"financial analyst", "accountant", "controller", "auditor", "finance manager", "investment analyst", "cfo"},
		tools:    []string{"excel", "quickbooks", "sap", "oracle", "bloomberg", "netsuite", "hyperion"},
	},
	{
		industry: IndustryHealthcare,
		keywords: []string{"patient care", "clinical", "medical", "diagnosis", "treatment", "healthcare", "hipaa", "electronic health records", "nursing", "pharmacy", "triage"},
		titles:   []string{"registered nurse", "physician", "medical assistant", "clinical coordinator", "nurse practitioner", "pharmacist", "healthcare administrator"},
		tools:    []string{"epic", "cerner", "meditech", "ehr", "emr"},
	},
	{
		industry: IndustryEducation,
		keywords: []string{"curriculum", "lesson planning", "classroom management", "instruction", "assessment", "student engagement", "pedagogy", "tutoring", "learning outcomes"},
		titles:   []string{"teacher", "professor", "instructor", "instructional designer", "principal", "tutor", "curriculum developer"},
		tools:    []string{"canvas", "blackboard", "google classroom", "moodle", "smartboard"},
	},
	{
		industry: IndustryOperations,
		keywords: []string{"supply chain", "logistics", "inventory", "procurement", "process improvement", "lean", "six sigma", "vendor management", "warehouse", "fulfillment", "quality assurance"},
		titles:   []string{"operations manager", "supply chain analyst", "logistics coordinator", "project manager", "program manager", "operations director"},
		tools:    []string{"jira", "asana", "ms project", "smartsheet", "oracle scm"},
	},
}

// Detection is the outcome of industry detection.
type Detection struct {
	Industry   Industry `json:"industry"`
	Confidence float64  `json:"confidence"`
	Matched    []string `json:"matched_terms,omitempty"`
}

// DetectIndustry scores the text against every industry profile. Confidence
// is the winner's share of all matched weight, so a resume matching a single
// field scores close to 1 and an ambiguous one much lower. No matches at all
// yield IndustryGeneral with confidence 0.
func DetectIndustry(text string) Detection {
	padded := pad(textextract.Normalize(text))

	best := Detection{Industry: IndustryGeneral}
	var bestScore, totalScore float64

	for _, p := range industryProfiles {
		var score float64
		var matched []string
		for _, term := range p.keywords {
			if containsTerm(padded, term) {
				score += weightKeyword
				matched = append(matched, term)
			}
		}
		for _, term := range p.titles {
			if containsTerm(padded, term) {
				score += weightTitle
				matched = append(matched, term)
			}
		}
		for _, term := range p.tools {
			if containsTerm(padded, term) {
				score += weightTool
				matched = append(matched, term)
			}
		}
		totalScore += score
		if score > bestScore {
			bestScore = score
			best = Detection{Industry: p.industry, Matched: matched}
		}
	}

	if totalScore == 0 {
		return Detection{Industry: IndustryGeneral}
	}
	best.Confidence = bestScore / totalScore
	return best
}

func pad(normalized string) string {
	return " " + normalized + " "
}

// containsTerm matches a term on word boundaries within padded normalized
// text, so "go" never matches inside "mongodb".
func containsTerm(paddedText, term string) bool {
	return strings.Contains(paddedText, " "+textextract.Normalize(term)+" ")
}
