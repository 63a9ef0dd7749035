package domain

import (
	"strings"
	"time"
)

// Submission outcome statuses.
const (
	StatusQualified = "qualified"
	StatusRejected  = "rejected"
)

// ATS scoring statuses. SKIPPED marks category-exempt submissions that go
// straight to manual review with the fixed passing score.
const (
	ATSStatusCompleted = "COMPLETED"
	ATSStatusSkipped   = "SKIPPED"
)

// QualifyThreshold is the fixed score cutoff for the qualified branch.
// Scores at or above it qualify; it is not tunable per category.
const QualifyThreshold = 60

// ExemptScore is assigned to submissions in exempt categories instead of a
// computed ATS score.
const ExemptScore = 75

// ParsedResume holds the structured fields extracted from a resume.
type ParsedResume struct {
	Skills     []string `json:"skills" dynamodbav:"skills"`
	Experience []string `json:"experience" dynamodbav:"experience"`
	Education  []string `json:"education" dynamodbav:"education"`
}

// Candidate is one submitted application. Records are written exactly once
// by the intake pipeline and never mutated afterward. Email is not unique:
// a candidate may appear up to the submission limit.
type Candidate struct {
	CandidateID    string       `json:"candidate_id" dynamodbav:"candidate_id"`
	FullName       string       `json:"full_name" dynamodbav:"full_name"`
	Email          string       `json:"email" dynamodbav:"email"`
	Phone          string       `json:"phone" dynamodbav:"phone"`
	City           string       `json:"city" dynamodbav:"city"`
	State          string       `json:"state" dynamodbav:"state"`
	LinkedIn       string       `json:"linkedin,omitempty" dynamodbav:"linkedin"`
	CollegeName    string       `json:"college_name" dynamodbav:"college_name"`
	CurrentCompany string       `json:"current_company,omitempty" dynamodbav:"current_company"`
	JobCategory    string       `json:"job_category" dynamodbav:"job_category"`
	CustomJobRole  string       `json:"custom_job_role,omitempty" dynamodbav:"custom_job_role"`
	Description    string       `json:"description,omitempty" dynamodbav:"description"`
	ParsedResume   ParsedResume `json:"parsed_resume" dynamodbav:"parsed_resume"`
	ATSScore       int          `json:"ats_score" dynamodbav:"ats_score"`
	ATSStatus      string       `json:"ats_status" dynamodbav:"ats_status"`
	Status         string       `json:"status" dynamodbav:"status"`
	NotifiedHR     bool         `json:"notified_hr" dynamodbav:"notified_hr"`
	ResumeKey      string       `json:"resume_key,omitempty" dynamodbav:"resume_key"`
	CreatedAt      time.Time    `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" dynamodbav:"updated_at"`
}

// exemptCategories are job categories that bypass automated scoring.
var exemptCategories = map[string]bool{
	"other":                      true,
	"custom":                     true,
	"custom (user-defined role)": true,
}

// IsExemptCategory reports whether a job category skips the ATS scorer.
// Matching is case-insensitive on the trimmed category; anything starting
// with "custom" counts as a user-defined role.
func IsExemptCategory(category string) bool {
	c := strings.ToLower(strings.TrimSpace(category))
	return exemptCategories[c] || strings.HasPrefix(c, "custom")
}
