// Package flows binds named prompt templates to typed input and output
// schemas and runs them against a structured-output Generator.
package flows

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/PabloGalante/careerai/internal/domain"
	"github.com/PabloGalante/careerai/internal/observability"
)

// CallContext brings metadata of the call to the flow.
type CallContext struct {
	UserID    domain.UserID
	RequestID string
}

// Flow is a named prompt invoked with a generic input map, as received from
// HTTP clients. The result is the flow's typed output.
type Flow interface {
	Name() string
	Description() string
	Call(ctx context.Context, cctx CallContext, input map[string]any) (any, error)
}

// Typed is a flow with a concrete input and output type.
type Typed[In, Out any] struct {
	spec   Spec
	tmpl   *template.Template
	input  *Schema
	output *Schema
	gen    domain.Generator
	after  func(ctx context.Context, cctx CallContext, out *Out) error
}

func newTyped[In, Out any](spec Spec, gen domain.Generator) (*Typed[In, Out], error) {
	tmpl, err := template.New(spec.Name).Option("missingkey=error").Parse(spec.Prompt)
	if err != nil {
		return nil, fmt.Errorf("flow %s: %w", spec.Name, err)
	}
	in, err := schemaFor[In](spec.Name+".input.json", true)
	if err != nil {
		return nil, err
	}
	out, err := schemaFor[Out](spec.Name+".output.json", false)
	if err != nil {
		return nil, err
	}
	return &Typed[In, Out]{spec: spec, tmpl: tmpl, input: in, output: out, gen: gen}, nil
}

func (f *Typed[In, Out]) Name() string        { return f.spec.Name }
func (f *Typed[In, Out]) Description() string { return f.spec.Description }

// OutputSchema is the JSON schema replies must satisfy.
func (f *Typed[In, Out]) OutputSchema() map[string]any { return f.output.Doc }

// Call decodes a generic input map into In and runs the flow.
func (f *Typed[In, Out]) Call(ctx context.Context, cctx CallContext, input map[string]any) (any, error) {
	if err := f.input.Validate(input); err != nil {
		return nil, fmt.Errorf("flow %s: %w: %v", f.spec.Name, domain.ErrInvalidInput, err)
	}

	var in In
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		ErrorUnused:      true,
		WeaklyTypedInput: false,
		Result:           &in,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(input); err != nil {
		return nil, fmt.Errorf("flow %s: %w: %v", f.spec.Name, domain.ErrInvalidInput, err)
	}

	return f.Run(ctx, cctx, in)
}

// Run renders the prompt, calls the generator once and returns the validated output.
func (f *Typed[In, Out]) Run(ctx context.Context, cctx CallContext, in In) (*Out, error) {
	log := observability.LoggerFromContext(ctx).With(
		"flow", f.spec.Name,
		"user_id", cctx.UserID,
	)

	var prompt bytes.Buffer
	if err := f.tmpl.Execute(&prompt, in); err != nil {
		return nil, fmt.Errorf("flow %s: render prompt: %w", f.spec.Name, err)
	}

	start := time.Now()
	raw, err := f.gen.Generate(ctx, domain.GenerateRequest{
		Flow:        f.spec.Name,
		System:      strings.TrimSpace(f.spec.System),
		Prompt:      prompt.String(),
		Schema:      f.output.Doc,
		Temperature: f.spec.Temperature,
	})
	if err != nil {
		log.Error("flow generation failed", "error", err)
		return nil, fmt.Errorf("flow %s: %w: %w", f.spec.Name, domain.ErrResponderFailed, err)
	}

	cleaned := []byte(CleanJSON(raw))
	if err := f.output.ValidateJSON(cleaned); err != nil {
		log.Warn("flow output rejected", "error", err)
		return nil, fmt.Errorf("flow %s: %w: %w: %v", f.spec.Name, domain.ErrResponderFailed, domain.ErrInvalidOutput, err)
	}

	var out Out
	if err := json.Unmarshal(cleaned, &out); err != nil {
		return nil, fmt.Errorf("flow %s: %w: %w: %v", f.spec.Name, domain.ErrResponderFailed, domain.ErrInvalidOutput, err)
	}

	if f.after != nil {
		if err := f.after(ctx, cctx, &out); err != nil {
			log.Error("flow post-processing failed", "error", err)
			return nil, err
		}
	}

	log.Info("flow completed", "elapsed_ms", time.Since(start).Milliseconds())
	return &out, nil
}

// Registry holds every flow of the catalog.
type Registry struct {
	flows map[string]Flow

	Interviewer    *Typed[InterviewerInput, InterviewerOutput]
	ResumeAnalyzer *Typed[ResumeAnalysisInput, ResumeAnalysisOutput]
	JobMatcher     *Typed[JobMatchInput, JobMatchOutput]
	CoverLetter    *Typed[CoverLetterInput, CoverLetterOutput]
	CareerCoach    *Typed[CareerCoachInput, CareerCoachOutput]
	Networking     *Typed[NetworkingInput, NetworkingOutput]
	Upskilling     *Typed[UpskillingInput, UpskillingOutput]
}

type RegistryOption func(*Registry)

// WithProfiles makes the cover letter flow count generated letters per user.
func WithProfiles(profiles domain.ProfileStore) RegistryOption {
	return func(r *Registry) {
		r.CoverLetter.after = func(ctx context.Context, cctx CallContext, _ *CoverLetterOutput) error {
			if cctx.UserID == "" {
				return nil
			}
			if err := profiles.IncrementCoverLetters(ctx, cctx.UserID); err != nil {
				return fmt.Errorf("count cover letter: %w", err)
			}
			return nil
		}
	}
}

// NewRegistry binds the embedded catalog to gen.
func NewRegistry(gen domain.Generator, opts ...RegistryOption) (*Registry, error) {
	specs, err := defaultCatalog()
	if err != nil {
		return nil, err
	}

	r := &Registry{flows: make(map[string]Flow)}
	var errs []error
	r.Interviewer = bind[InterviewerInput, InterviewerOutput](r, specs, "ai_interviewer", gen, &errs)
	r.ResumeAnalyzer = bind[ResumeAnalysisInput, ResumeAnalysisOutput](r, specs, "resume_analyzer", gen, &errs)
	r.JobMatcher = bind[JobMatchInput, JobMatchOutput](r, specs, "job_matcher", gen, &errs)
	r.CoverLetter = bind[CoverLetterInput, CoverLetterOutput](r, specs, "cover_letter", gen, &errs)
	r.CareerCoach = bind[CareerCoachInput, CareerCoachOutput](r, specs, "career_coach", gen, &errs)
	r.Networking = bind[NetworkingInput, NetworkingOutput](r, specs, "network_connector", gen, &errs)
	r.Upskilling = bind[UpskillingInput, UpskillingOutput](r, specs, "upskilling_recommender", gen, &errs)
	if len(errs) > 0 {
		return nil, errs[0]
	}

	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func bind[In, Out any](r *Registry, specs map[string]Spec, name string, gen domain.Generator, errs *[]error) *Typed[In, Out] {
	spec, ok := specs[name]
	if !ok {
		*errs = append(*errs, fmt.Errorf("flow catalog: missing %q", name))
		return nil
	}
	f, err := newTyped[In, Out](spec, gen)
	if err != nil {
		*errs = append(*errs, err)
		return nil
	}
	r.flows[name] = f
	return f
}

// Get looks a flow up by name.
func (r *Registry) Get(name string) (Flow, error) {
	f, ok := r.flows[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownFlow, name)
	}
	return f, nil
}

// Names lists the registered flows in alphabetical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.flows))
	for name := range r.flows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
