// Package resume implements the two scoring-side collaborators of the
// intake pipeline: text/field extraction from uploaded resumes, and the
// deterministic keyword scorer behind the qualification threshold.
package resume

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/careers-intake-api/internal/domain"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// Parser extracts plain text and structured fields from resume bytes.
type Parser struct{}

func NewParser() *Parser { return &Parser{} }

// Parse handles application/pdf via unipdf and text/plain directly. Any
// other media type is a bad request, distinguishable from extraction
// failures which surface as collaborator errors.
func (p *Parser) Parse(ctx context.Context, data []byte, mimeType string) (string, domain.ParsedResume, error) {
	var text string
	switch normalizeMIME(mimeType) {
	case "application/pdf":
		var err error
		text, err = extractPDFText(data)
		if err != nil {
			return "", domain.ParsedResume{}, fmt.Errorf("extract pdf text: %w", domain.ErrCollaborator)
		}
	case "text/plain":
		text = string(data)
	default:
		return "", domain.ParsedResume{}, fmt.Errorf("unsupported resume type %q: %w", mimeType, domain.ErrBadRequest)
	}
	if err := ctx.Err(); err != nil {
		return "", domain.ParsedResume{}, err
	}
	return text, extractFields(text), nil
}

func normalizeMIME(mimeType string) string {
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

func extractPDFText(data []byte) (string, error) {
	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("page count: %w", err)
	}
	if numPages == 0 {
		return "", fmt.Errorf("pdf has no pages")
	}

	var b strings.Builder
	extracted := false
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			continue // skip unreadable pages
		}
		ex, err := extractor.New(page)
		if err != nil {
			continue
		}
		pageText, err := ex.ExtractText()
		if err != nil || pageText == "" {
			continue
		}
		extracted = true
		b.WriteString(pageText)
		b.WriteString("\n\n")
	}
	if !extracted {
		return "", fmt.Errorf("no extractable text in pdf")
	}
	return strings.TrimSpace(b.String()), nil
}

// knownSkills is the vocabulary matched into ParsedResume.Skills.
var knownSkills = []string{
	"go", "golang", "python", "java", "javascript", "typescript", "c++",
	"react", "node", "sql", "nosql", "mongodb", "dynamodb", "postgresql",
	"aws", "gcp", "azure", "docker", "kubernetes", "terraform",
	"excel", "tableau", "power bi", "pandas", "machine learning",
	"seo", "content marketing", "google ads", "photoshop", "figma",
	"salesforce", "crm", "negotiation", "recruiting", "payroll",
}

var (
	experienceMarkers = []string{"experience", "worked", "engineer at", "manager at", "intern at", "years"}
	educationMarkers  = []string{"b.tech", "btech", "b.e.", "bachelor", "master", "mba", "m.tech", "phd", "university", "college", "degree"}
)

// extractFields derives the structured fields from raw resume text with a
// line classifier. It is intentionally naive: the scorer only needs stable,
// deterministic signals, not perfect extraction.
func extractFields(text string) domain.ParsedResume {
	lower := strings.ToLower(text)

	var fields domain.ParsedResume
	for _, skill := range knownSkills {
		if strings.Contains(lower, skill) {
			fields.Skills = append(fields.Skills, skill)
		}
	}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || len(trimmed) > 200 {
			continue
		}
		ll := strings.ToLower(trimmed)
		if containsAny(ll, experienceMarkers) {
			fields.Experience = append(fields.Experience, trimmed)
		}
		if containsAny(ll, educationMarkers) {
			fields.Education = append(fields.Education, trimmed)
		}
	}
	return fields
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
