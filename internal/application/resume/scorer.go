package resume

import (
	"context"
	"strings"

	"github.com/careers-intake-api/internal/domain"
)

// categoryKeywords drives per-category relevance. Categories are matched
// case-insensitively on the trimmed name.
var categoryKeywords = map[string][]string{
	"software development": {"go", "golang", "python", "java", "javascript", "typescript", "react", "node", "sql", "docker", "kubernetes", "aws", "git", "api"},
	"data science":         {"python", "pandas", "sql", "machine learning", "statistics", "tableau", "model", "data", "numpy", "analysis"},
	"marketing":            {"seo", "content marketing", "google ads", "campaign", "brand", "social media", "analytics", "copywriting"},
	"sales":                {"sales", "crm", "salesforce", "negotiation", "pipeline", "quota", "lead", "closing"},
	"design":               {"figma", "photoshop", "ui", "ux", "wireframe", "prototype", "typography", "illustrator"},
	"human resources":      {"recruiting", "payroll", "onboarding", "hr", "talent", "compliance", "interview"},
}

// Scorer produces the 0..100 ATS suitability score. Pure function of its
// inputs, which is what makes threshold tests reproducible.
type Scorer struct{}

func NewScorer() *Scorer { return &Scorer{} }

// Score weighs category keyword coverage (70), extracted skills (15) and
// section completeness (15), clamped to [0,100].
func (s *Scorer) Score(ctx context.Context, fields domain.ParsedResume, text, category string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	lower := strings.ToLower(text)
	score := 0

	keywords := categoryKeywords[strings.ToLower(strings.TrimSpace(category))]
	if len(keywords) > 0 {
		hits := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		score += hits * 70 / len(keywords)
	}

	if n := len(fields.Skills); n > 0 {
		if n > 5 {
			n = 5
		}
		score += n * 3 // up to 15
	}
	if len(fields.Experience) > 0 {
		score += 8
	}
	if len(fields.Education) > 0 {
		score += 7
	}

	if score > 100 {
		score = 100
	}
	return score, nil
}
