package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PabloGalante/careerai/internal/domain"
)

var mockQuestions = []string{
	"Thanks for joining. Can you walk me through a recent project you are proud of?",
	"What was the hardest technical trade-off in that project, and how did you decide?",
	"Tell me about a time you disagreed with a teammate. How was it resolved?",
	"How do you keep your skills current for this role?",
}

// MockLLM is an offline domain.Generator. It answers every flow with a fixed,
// schema-valid JSON reply, and plays a short scripted interview.
type MockLLM struct {
	// Questions is the number of candidate answers after which the
	// interview is closed with a report.
	Questions int
}

func NewMockLLM() *MockLLM {
	return &MockLLM{Questions: 3}
}

func (m *MockLLM) Generate(ctx context.Context, req domain.GenerateRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var out any
	switch req.Flow {
	case "ai_interviewer":
		out = map[string]string{"response": m.interviewTurn(req.Prompt)}
	case "resume_analyzer":
		out = map[string]any{
			"summary":                 "A solid resume with clear experience.",
			"ats_compatibility_score": 72,
			"strengths":               []string{"Clear structure", "Relevant experience"},
			"areas_for_improvement":   []string{"Quantify achievements"},
			"keyword_analysis": map[string]any{
				"extracted_keywords": []string{"Go", "SQL"},
				"suggestions":        "Mirror the keywords of the job description.",
			},
			"formatting_and_readability": map[string]any{
				"feedback":    "Readable, consistent formatting.",
				"suggestions": []string{"Keep it to one page"},
			},
			"extracted_data": map[string]any{"skills": []string{"Go", "SQL"}},
		}
	case "job_matcher":
		out = map[string]any{
			"matched_skills":               []string{"Go"},
			"missing_skills":               []string{"Kubernetes"},
			"resume_alignment_suggestions": "Highlight any container orchestration work.",
		}
	case "cover_letter":
		out = map[string]string{"cover_letter": "Dear Hiring Manager,\n\nI am excited to apply for this role.\n\nSincerely,\nA Candidate"}
	case "career_coach":
		out = map[string]string{"response": "Start by listing the roles you want in two years and the skills they share."}
	case "network_connector":
		out = map[string]any{"recommendations": []map[string]string{{
			"name":         "Jordan Example",
			"headline":     "Engineering Manager",
			"linkedin_url": "https://www.linkedin.com/in/jordan-example",
			"reason":       "Hires for the roles you are targeting.",
		}}}
	case "upskilling_recommender":
		out = map[string]any{
			"course_recommendations": []map[string]string{{
				"name":        "Kubernetes Fundamentals",
				"platform":    "Coursera",
				"description": "Core concepts of container orchestration.",
				"url":         "https://www.coursera.org/",
			}},
			"certification_recommendations": "- CKA",
		}
	default:
		return "", fmt.Errorf("mock llm: no reply for flow %q", req.Flow)
	}

	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (m *MockLLM) interviewTurn(prompt string) string {
	answers := 0
	for _, line := range strings.Split(prompt, "\n") {
		if strings.HasPrefix(line, string(domain.RoleCandidate)+": ") {
			answers++
		}
	}

	if answers >= m.Questions || strings.Contains(prompt, domain.EndRequest) {
		return domain.Marker + "\n" + fmt.Sprintf(mockReport, answers)
	}
	return mockQuestions[answers%len(mockQuestions)]
}

const mockReport = `## Overall Summary
The candidate answered %d questions with clear, structured examples.

## Strengths
- Communicates trade-offs well
- Gives concrete examples

## Areas for Improvement
- Quantify the impact of past work

## Final Recommendation
Proceed to the next round.`
