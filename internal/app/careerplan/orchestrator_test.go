package careerplan_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/PabloGalante/careerai/internal/app/careerplan"
	"github.com/PabloGalante/careerai/internal/app/flows"
	"github.com/PabloGalante/careerai/internal/domain"
	"github.com/PabloGalante/careerai/internal/domain/mocks"
)

const analysis = `{"summary":"ok","ats_compatibility_score":70,"strengths":["Go"],"areas_for_improvement":["Add metrics"],` +
	`"keyword_analysis":{"extracted_keywords":["Go"],"suggestions":"none"},` +
	`"formatting_and_readability":{"feedback":"fine","suggestions":[]},"extracted_data":{}}`

func setup(t *testing.T) (*careerplan.Orchestrator, *mocks.MockGenerator) {
	t.Helper()
	gen := mocks.NewMockGenerator(gomock.NewController(t))
	reg, err := flows.NewRegistry(gen)
	require.NoError(t, err)
	return careerplan.NewDefaultOrchestrator(reg), gen
}

func byFlow(replies map[string]string, seen *[]string) func(context.Context, domain.GenerateRequest) (string, error) {
	return func(_ context.Context, req domain.GenerateRequest) (string, error) {
		*seen = append(*seen, req.Flow)
		return replies[req.Flow], nil
	}
}

var request = careerplan.Request{ResumeText: "Go developer", JobDescription: "Go and Kubernetes"}

func TestRunChainsFlows(t *testing.T) {
	o, gen := setup(t)
	var seen []string
	var upskillPrompt string
	gen.EXPECT().Generate(gomock.Any(), gomock.Any()).Times(3).
		DoAndReturn(func(ctx context.Context, req domain.GenerateRequest) (string, error) {
			if req.Flow == "upskilling_recommender" {
				upskillPrompt = req.Prompt
			}
			return byFlow(map[string]string{
				"resume_analyzer":        analysis,
				"job_matcher":            `{"matched_skills":["Go"],"missing_skills":["Kubernetes","Helm"],"resume_alignment_suggestions":"x"}`,
				"upskilling_recommender": `{"course_recommendations":[],"certification_recommendations":"CKA"}`,
			}, &seen)(ctx, req)
		})

	plan, err := o.Run(context.Background(), flows.CallContext{UserID: "u1"}, request)
	require.NoError(t, err)

	assert.Equal(t, []string{"resume_analyzer", "job_matcher", "upskilling_recommender"}, seen)
	assert.Equal(t, 70, plan.Analysis.ATSCompatibilityScore)
	assert.Equal(t, "CKA", plan.Upskilling.CertificationRecommendations)
	assert.Contains(t, upskillPrompt, "Kubernetes, Helm")
}

func TestRunSkipsUpskillingWithoutGaps(t *testing.T) {
	o, gen := setup(t)
	var seen []string
	noGaps := `{"summary":"ok","ats_compatibility_score":90,"strengths":[],"areas_for_improvement":[],` +
		`"keyword_analysis":{"extracted_keywords":[],"suggestions":""},` +
		`"formatting_and_readability":{"feedback":"","suggestions":[]},"extracted_data":{}}`
	gen.EXPECT().Generate(gomock.Any(), gomock.Any()).Times(2).DoAndReturn(byFlow(map[string]string{
		"resume_analyzer": noGaps,
		"job_matcher":     `{"matched_skills":["Go"],"missing_skills":[],"resume_alignment_suggestions":""}`,
	}, &seen))

	plan, err := o.Run(context.Background(), flows.CallContext{}, request)
	require.NoError(t, err)
	assert.Nil(t, plan.Upskilling)
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	o, gen := setup(t)
	boom := errors.New("quota")
	gen.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("", boom)

	_, err := o.Run(context.Background(), flows.CallContext{}, request)
	assert.ErrorIs(t, err, domain.ErrResponderFailed)
	assert.ErrorIs(t, err, boom)
}

func TestRunValidatesRequest(t *testing.T) {
	o, gen := setup(t)
	gen.EXPECT().Generate(gomock.Any(), gomock.Any()).Times(0)

	_, err := o.Run(context.Background(), flows.CallContext{}, careerplan.Request{ResumeText: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
