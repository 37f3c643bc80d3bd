package llm

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/careerai/internal/domain"
)

func TestBuildConfigRequestsJSON(t *testing.T) {
	schema := map[string]any{"type": "object"}
	cfg := buildConfig(domain.GenerateRequest{
		Flow:        "career_coach",
		System:      "You are a coach.",
		Prompt:      "help",
		Schema:      schema,
		Temperature: 0.3,
	})

	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	assert.Equal(t, schema, cfg.ResponseJsonSchema)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.3, *cfg.Temperature, 0.0001)
	require.NotNil(t, cfg.SystemInstruction)
	assert.Equal(t, "You are a coach.", cfg.SystemInstruction.Parts[0].Text)

	contents := buildContents(domain.GenerateRequest{Prompt: "help"})
	require.Len(t, contents, 1)
	assert.Equal(t, "help", contents[0].Parts[0].Text)
}

func TestBuildConfigWithoutSystem(t *testing.T) {
	cfg := buildConfig(domain.GenerateRequest{Prompt: "x"})
	assert.Nil(t, cfg.SystemInstruction)
	assert.Nil(t, cfg.ResponseJsonSchema)
}

func TestMockLLMAnswersEveryFlow(t *testing.T) {
	m := NewMockLLM()
	for _, flow := range []string{
		"ai_interviewer", "resume_analyzer", "job_matcher", "cover_letter",
		"career_coach", "network_connector", "upskilling_recommender",
	} {
		raw, err := m.Generate(context.Background(), domain.GenerateRequest{Flow: flow})
		require.NoError(t, err, flow)
		assert.True(t, json.Valid([]byte(raw)), flow)
	}

	_, err := m.Generate(context.Background(), domain.GenerateRequest{Flow: "horoscope"})
	assert.Error(t, err)
}

func interviewReply(t *testing.T, m *MockLLM, prompt string) string {
	t.Helper()
	raw, err := m.Generate(context.Background(), domain.GenerateRequest{Flow: "ai_interviewer", Prompt: prompt})
	require.NoError(t, err)
	var out struct {
		Response string `json:"response"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out.Response
}

func TestMockLLMInterviewScript(t *testing.T) {
	m := &MockLLM{Questions: 2}

	first := interviewReply(t, m, "Job: SRE\n")
	assert.False(t, domain.IsTerminal(first))

	history := strings.Join(domain.FormatTurns([]domain.Turn{
		domain.InterviewerTurn(first),
		domain.CandidateTurn("I built a cache."),
	}), "\n")
	second := interviewReply(t, m, history)
	assert.False(t, domain.IsTerminal(second))
	assert.NotEqual(t, first, second)

	history += "\n" + strings.Join(domain.FormatTurns([]domain.Turn{
		domain.InterviewerTurn(second),
		domain.CandidateTurn("candidate: I picked consistency."),
	}), "\n")
	last := interviewReply(t, m, history)
	report, ok := domain.ParseTerminal(last)
	require.True(t, ok)
	assert.Contains(t, report, "answered 2 questions")
}

func TestMockLLMClosesOnEndRequest(t *testing.T) {
	reply := interviewReply(t, NewMockLLM(), "candidate: "+domain.EndRequest)
	assert.True(t, domain.IsTerminal(reply))
}

func TestMockLLMHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMockLLM().Generate(ctx, domain.GenerateRequest{Flow: "career_coach"})
	assert.ErrorIs(t, err, context.Canceled)
}
