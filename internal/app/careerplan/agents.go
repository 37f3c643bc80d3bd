package careerplan

import (
	"context"
	"strings"

	"github.com/PabloGalante/careerai/internal/app/flows"
)

// AnalyzerAgent scores the résumé on its own.
type AnalyzerAgent struct {
	flow *flows.Typed[flows.ResumeAnalysisInput, flows.ResumeAnalysisOutput]
}

func NewAnalyzerAgent(f *flows.Typed[flows.ResumeAnalysisInput, flows.ResumeAnalysisOutput]) *AnalyzerAgent {
	return &AnalyzerAgent{flow: f}
}

func (a *AnalyzerAgent) Name() string { return "analyzer" }

func (a *AnalyzerAgent) Run(ctx context.Context, in *AgentInput) error {
	out, err := a.flow.Run(ctx, in.Call, flows.ResumeAnalysisInput{ResumeText: in.Request.ResumeText})
	if err != nil {
		return err
	}
	in.Plan.Analysis = out
	return nil
}

// MatcherAgent compares the résumé with the job description.
type MatcherAgent struct {
	flow *flows.Typed[flows.JobMatchInput, flows.JobMatchOutput]
}

func NewMatcherAgent(f *flows.Typed[flows.JobMatchInput, flows.JobMatchOutput]) *MatcherAgent {
	return &MatcherAgent{flow: f}
}

func (a *MatcherAgent) Name() string { return "matcher" }

func (a *MatcherAgent) Run(ctx context.Context, in *AgentInput) error {
	out, err := a.flow.Run(ctx, in.Call, flows.JobMatchInput{
		ResumeText:         in.Request.ResumeText,
		JobDescriptionText: in.Request.JobDescription,
	})
	if err != nil {
		return err
	}
	in.Plan.Match = out
	return nil
}

// UpskillerAgent recommends courses for the gaps found by the earlier agents.
// It does nothing when no gap was found.
type UpskillerAgent struct {
	flow *flows.Typed[flows.UpskillingInput, flows.UpskillingOutput]
}

func NewUpskillerAgent(f *flows.Typed[flows.UpskillingInput, flows.UpskillingOutput]) *UpskillerAgent {
	return &UpskillerAgent{flow: f}
}

func (a *UpskillerAgent) Name() string { return "upskiller" }

func (a *UpskillerAgent) Run(ctx context.Context, in *AgentInput) error {
	gaps := skillGaps(in.Plan)
	if gaps == "" {
		return nil
	}

	goals := strings.TrimSpace(in.Request.CareerGoals)
	if goals == "" {
		goals = "Become a strong candidate for this role:\n" + in.Request.JobDescription
	}

	out, err := a.flow.Run(ctx, in.Call, flows.UpskillingInput{
		SkillGaps:          gaps,
		CareerGoals:        goals,
		PreferredPlatforms: in.Request.PreferredPlatforms,
	})
	if err != nil {
		return err
	}
	in.Plan.Upskilling = out
	return nil
}

// skillGaps prefers the job match's missing skills and falls back to the
// résumé analysis' improvement areas.
func skillGaps(p *Plan) string {
	if p.Match != nil && len(p.Match.MissingSkills) > 0 {
		return strings.Join(p.Match.MissingSkills, ", ")
	}
	if p.Analysis != nil && len(p.Analysis.AreasForImprovement) > 0 {
		return strings.Join(p.Analysis.AreasForImprovement, "; ")
	}
	return ""
}
