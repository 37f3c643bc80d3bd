// Package careerplan chains several flows into one career plan: résumé
// analysis, then job matching, then upskilling on the missing skills.
package careerplan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PabloGalante/careerai/internal/app/flows"
	"github.com/PabloGalante/careerai/internal/domain"
	"github.com/PabloGalante/careerai/internal/observability"
)

type Request struct {
	ResumeText         string `json:"resume_text"`
	JobDescription     string `json:"job_description_text"`
	CareerGoals        string `json:"career_goals,omitempty"`
	PreferredPlatforms string `json:"preferred_platforms,omitempty"`
}

// Plan accumulates the output of every agent that ran.
type Plan struct {
	Analysis   *flows.ResumeAnalysisOutput `json:"analysis,omitempty"`
	Match      *flows.JobMatchOutput       `json:"match,omitempty"`
	Upskilling *flows.UpskillingOutput     `json:"upskilling,omitempty"`
}

// AgentInput is shared by the agents of one run; each reads the request and
// what earlier agents left in Plan.
type AgentInput struct {
	Request Request
	Call    flows.CallContext
	Plan    *Plan
}

type Agent interface {
	Name() string
	Run(ctx context.Context, in *AgentInput) error
}

// Orchestrator is responsible for running multiple agents in sequence.
type Orchestrator struct {
	agents []Agent
}

// NewDefaultOrchestrator constructs a flow with Analyzer -> Matcher -> Upskiller.
func NewDefaultOrchestrator(reg *flows.Registry) *Orchestrator {
	return NewOrchestrator(
		NewAnalyzerAgent(reg.ResumeAnalyzer),
		NewMatcherAgent(reg.JobMatcher),
		NewUpskillerAgent(reg.Upskilling),
	)
}

func NewOrchestrator(agents ...Agent) *Orchestrator {
	return &Orchestrator{agents: agents}
}

// Run executes the chain of agents sequentially. The first failing agent
// stops the chain.
func (o *Orchestrator) Run(ctx context.Context, cctx flows.CallContext, req Request) (*Plan, error) {
	if len(o.agents) == 0 {
		return nil, fmt.Errorf("no agents configured in orchestrator")
	}
	if strings.TrimSpace(req.ResumeText) == "" || strings.TrimSpace(req.JobDescription) == "" {
		return nil, fmt.Errorf("resume_text and job_description_text are required: %w", domain.ErrInvalidInput)
	}

	log := observability.LoggerFromContext(ctx).With("user_id", cctx.UserID)
	log.Info("career plan started", "agents_count", len(o.agents))

	in := &AgentInput{Request: req, Call: cctx, Plan: &Plan{}}
	for _, ag := range o.agents {
		start := time.Now()
		log.Info("agent run start", "agent", ag.Name())

		if err := ag.Run(ctx, in); err != nil {
			log.Error("agent failed",
				"agent", ag.Name(),
				"error", err)
			return nil, fmt.Errorf("agent %s failed: %w", ag.Name(), err)
		}

		log.Info("agent run end", "agent", ag.Name(), "elapsed_ms", time.Since(start).Milliseconds())
	}

	log.Info("career plan end")
	return in.Plan, nil
}
