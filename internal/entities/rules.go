package entities

import (
	"context"
	"regexp"

	"github.com/ilhaam43/hr-copilot-sub001/internal/results"
)

var (
	employeeIDRe = regexp.MustCompile(`\b(?:EMP|STF)[-_]?\d{3,8}\b|\b[A-Z]{2,3}-\d{4,8}\b`)

	departmentRe = regexp.MustCompile(`(?i)\b(?:HR|human resources|payroll|finance|accounting|engineering|marketing|sales|legal|recruitment|procurement|operations|IT department|IT team)\b`)

	jobTitleRe = regexp.MustCompile(`(?i)\b(?:(?:senior|junior|lead|principal|head of)\s)?(?:manager|engineer|developer|analyst|director|supervisor|recruiter|coordinator|accountant|designer|consultant|administrator|intern)\b`)

	skillRe = regexp.MustCompile(`(?i)\b(?:python|java|golang|javascript|typescript|sql|excel|powerpoint|tableau|kubernetes|docker|communication|leadership|negotiation|project management|public speaking)\b`)
)

// RuleExtractor applies HR-domain rules: employee identifiers, department
// names, job titles and skill mentions.
type RuleExtractor struct{}

func (RuleExtractor) Name() string { return "rules" }

func (RuleExtractor) Extract(ctx context.Context, text string) ([]results.Entity, error) {
	var out []results.Entity
	add := func(re *regexp.Regexp, t results.EntityType, confidence float64) {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			out = append(out, results.Entity{
				Text:          text[loc[0]:loc[1]],
				Type:          t,
				StartPosition: loc[0],
				EndPosition:   loc[1],
				Confidence:    confidence,
			})
		}
	}

	add(employeeIDRe, results.EntityEmployeeID, 0.9)
	add(departmentRe, results.EntityDepartment, 0.85)
	add(jobTitleRe, results.EntityJobTitle, 0.75)
	add(skillRe, results.EntitySkill, 0.7)
	return out, nil
}
