package flows

import (
	"context"
	"fmt"
	"strings"

	"github.com/PabloGalante/careerai/internal/domain"
	"github.com/PabloGalante/careerai/internal/observability"
)

// InterviewResponder implements domain.Responder on top of the ai_interviewer flow.
// Turns are serialized with domain.FormatTurns at this boundary only.
type InterviewResponder struct {
	flow *Typed[InterviewerInput, InterviewerOutput]
}

func NewInterviewResponder(r *Registry) *InterviewResponder {
	return &InterviewResponder{flow: r.Interviewer}
}

func (r *InterviewResponder) Respond(ctx context.Context, req domain.ResponderRequest) (string, error) {
	out, err := r.flow.Run(ctx, CallContext{RequestID: observability.RequestIDFromContext(ctx)}, InterviewerInput{
		JobDescription: req.Context,
		History:        domain.FormatTurns(req.Turns),
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Response) == "" {
		return "", fmt.Errorf("%w: empty interviewer response", domain.ErrInvalidOutput)
	}
	return out.Response, nil
}
