package interview_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/PabloGalante/careerai/internal/app/interview"
	"github.com/PabloGalante/careerai/internal/domain"
	"github.com/PabloGalante/careerai/internal/domain/mocks"
)

func newSession(t *testing.T) (*interview.Session, *mocks.MockResponder) {
	t.Helper()
	ctrl := gomock.NewController(t)
	responder := mocks.NewMockResponder(ctrl)
	return interview.NewSession(responder), responder
}

func TestSessionEndToEnd(t *testing.T) {
	ctx := context.Background()
	s, responder := newSession(t)

	gomock.InOrder(
		responder.EXPECT().
			Respond(gomock.Any(), domain.ResponderRequest{Context: "Backend Engineer role"}).
			Return("What is a hash map?", nil),
		responder.EXPECT().
			Respond(gomock.Any(), domain.ResponderRequest{
				Context: "Backend Engineer role",
				Turns: []domain.Turn{
					domain.InterviewerTurn("What is a hash map?"),
					domain.CandidateTurn("A key-value structure."),
				},
			}).
			Return("INTERVIEW_COMPLETE\n## Summary\nGood basics.", nil),
	)

	first, err := s.Start(ctx, "Backend Engineer role")
	require.NoError(t, err)
	assert.Equal(t, domain.InterviewerTurn("What is a hash map?"), first)
	assert.Equal(t, []domain.Turn{domain.InterviewerTurn("What is a hash map?")}, s.Transcript())
	assert.Equal(t, domain.StatusActive, s.Status())

	last, err := s.Submit(ctx, "A key-value structure.")
	require.NoError(t, err)
	assert.Equal(t, domain.InterviewerTurn(domain.ClosingAcknowledgement), last)
	assert.Equal(t, domain.StatusClosed, s.Status())
	assert.Equal(t, "## Summary\nGood basics.", s.Report())

	transcript := s.Transcript()
	require.Len(t, transcript, 3)
	assert.Equal(t, domain.ClosingAcknowledgement, transcript[2].Text)
	for _, turn := range transcript {
		assert.NotContains(t, turn.Text, domain.Marker)
	}
}

func TestSessionTranscriptFidelity(t *testing.T) {
	ctx := context.Background()
	s, responder := newSession(t)

	var sent [][]domain.Turn
	responder.EXPECT().Respond(gomock.Any(), gomock.Any()).Times(3).
		DoAndReturn(func(_ context.Context, req domain.ResponderRequest) (string, error) {
			sent = append(sent, req.Turns)
			return []string{"q1", "q2", "q3"}[len(sent)-1], nil
		})

	_, err := s.Start(ctx, "SRE")
	require.NoError(t, err)
	_, err = s.Submit(ctx, "answer 1")
	require.NoError(t, err)
	_, err = s.Submit(ctx, "answer 2")
	require.NoError(t, err)

	require.Len(t, sent, 3)
	assert.Empty(t, sent[0])
	assert.Equal(t, []domain.Turn{
		domain.InterviewerTurn("q1"),
		domain.CandidateTurn("answer 1"),
		domain.InterviewerTurn("q2"),
		domain.CandidateTurn("answer 2"),
	}, sent[2])
}

func TestSessionRollbackOnResponderFailure(t *testing.T) {
	ctx := context.Background()
	s, responder := newSession(t)

	boom := errors.New("network down")
	gomock.InOrder(
		responder.EXPECT().Respond(gomock.Any(), gomock.Any()).Return("q1", nil),
		responder.EXPECT().Respond(gomock.Any(), gomock.Any()).Return("q2", nil),
		responder.EXPECT().Respond(gomock.Any(), gomock.Any()).Return("", boom),
		responder.EXPECT().Respond(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req domain.ResponderRequest) (string, error) {
				// The retry sees no duplicate of the failed answer.
				assert.Len(t, req.Turns, 4)
				return "q3", nil
			}),
	)

	_, err := s.Start(ctx, "SRE")
	require.NoError(t, err)
	_, err = s.Submit(ctx, "a1")
	require.NoError(t, err)

	before := s.Transcript()
	_, err = s.Submit(ctx, "a2")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrResponderFailed)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, before, s.Transcript())
	assert.Equal(t, domain.StatusActive, s.Status())

	_, err = s.Submit(ctx, "a2")
	require.NoError(t, err)
	assert.Len(t, s.Transcript(), 5)
}

func TestSessionRejectsSubmitWhenIdle(t *testing.T) {
	s, responder := newSession(t)
	responder.EXPECT().Respond(gomock.Any(), gomock.Any()).Times(0)

	_, err := s.Submit(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrNotActive)
	assert.Empty(t, s.Transcript())
	assert.Equal(t, domain.StatusIdle, s.Status())

	_, err = s.End(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotActive)
}

func TestSessionRejectsSubmitWhenClosed(t *testing.T) {
	ctx := context.Background()
	s, responder := newSession(t)
	responder.EXPECT().Respond(gomock.Any(), gomock.Any()).Return("q1", nil)
	responder.EXPECT().Respond(gomock.Any(), gomock.Any()).Return("INTERVIEW_COMPLETE", nil)

	_, err := s.Start(ctx, "SRE")
	require.NoError(t, err)
	_, err = s.Submit(ctx, "a1")
	require.NoError(t, err)
	require.Equal(t, domain.StatusClosed, s.Status())
	assert.Equal(t, "", s.Report())

	before := s.Transcript()
	_, err = s.Submit(ctx, "one more")
	assert.ErrorIs(t, err, domain.ErrNotActive)
	assert.Equal(t, before, s.Transcript())
}

func TestSessionRejectsEmptyTurns(t *testing.T) {
	ctx := context.Background()
	s, responder := newSession(t)
	responder.EXPECT().Respond(gomock.Any(), gomock.Any()).Return("q1", nil).Times(1)

	_, err := s.Start(ctx, "SRE")
	require.NoError(t, err)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := s.Submit(ctx, text)
		assert.ErrorIs(t, err, domain.ErrEmptyTurn)
	}
	assert.Len(t, s.Transcript(), 1)
}

func TestSessionStartRejectsEmptyContext(t *testing.T) {
	s, responder := newSession(t)
	responder.EXPECT().Respond(gomock.Any(), gomock.Any()).Times(0)

	_, err := s.Start(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrEmptyContext)
	assert.Equal(t, domain.StatusIdle, s.Status())
}

func TestSessionStartFailureKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	s, responder := newSession(t)
	responder.EXPECT().Respond(gomock.Any(), gomock.Any()).Return("q1", nil)
	responder.EXPECT().Respond(gomock.Any(), gomock.Any()).Return("", errors.New("quota"))

	_, err := s.Start(ctx, "SRE")
	require.NoError(t, err)

	_, err = s.Start(ctx, "Data Engineer")
	assert.ErrorIs(t, err, domain.ErrResponderFailed)
	assert.Equal(t, "SRE", s.Context())
	assert.Equal(t, []domain.Turn{domain.InterviewerTurn("q1")}, s.Transcript())
}

func TestSessionRestartClearsTranscript(t *testing.T) {
	ctx := context.Background()
	s, responder := newSession(t)
	responder.EXPECT().Respond(gomock.Any(), gomock.Any()).Return("q1", nil).Times(2)
	responder.EXPECT().Respond(gomock.Any(), domain.ResponderRequest{Context: "Data Engineer"}).Return("first", nil)

	_, err := s.Start(ctx, "SRE")
	require.NoError(t, err)
	_, err = s.Submit(ctx, "a1")
	require.NoError(t, err)

	_, err = s.Start(ctx, "Data Engineer")
	require.NoError(t, err)
	assert.Equal(t, []domain.Turn{domain.InterviewerTurn("first")}, s.Transcript())
	assert.Equal(t, "Data Engineer", s.Context())
}

func TestSessionEnd(t *testing.T) {
	ctx := context.Background()
	s, responder := newSession(t)
	responder.EXPECT().Respond(gomock.Any(), gomock.Any()).Return("q1", nil)
	responder.EXPECT().Respond(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req domain.ResponderRequest) (string, error) {
			assert.Equal(t, domain.CandidateTurn(domain.EndRequest), req.Turns[len(req.Turns)-1])
			return "  ## Overall Summary\nShort interview.  ", nil
		})

	_, err := s.Start(ctx, "SRE")
	require.NoError(t, err)

	turn, err := s.End(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ClosingAcknowledgement, turn.Text)
	assert.Equal(t, domain.StatusClosed, s.Status())
	assert.Equal(t, "## Overall Summary\nShort interview.", s.Report())
}

func TestSessionRejectsOverlappingCalls(t *testing.T) {
	ctx := context.Background()
	s, responder := newSession(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	responder.EXPECT().Respond(gomock.Any(), gomock.Any()).Return("q1", nil)
	responder.EXPECT().Respond(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, domain.ResponderRequest) (string, error) {
			close(entered)
			<-release
			return "q2", nil
		})

	_, err := s.Start(ctx, "SRE")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(ctx, "a1")
		done <- err
	}()

	<-entered
	_, err = s.Submit(ctx, "a1 again")
	assert.ErrorIs(t, err, domain.ErrBusy)
	// The optimistic candidate turn is visible while the call is in flight.
	assert.Len(t, s.Transcript(), 2)

	close(release)
	require.NoError(t, <-done)
	assert.Len(t, s.Transcript(), 3)
}

func TestSessionFirstReplyTerminal(t *testing.T) {
	s, responder := newSession(t)
	responder.EXPECT().Respond(gomock.Any(), gomock.Any()).Return("INTERVIEW_COMPLETE report", nil)

	turn, err := s.Start(context.Background(), "SRE")
	require.NoError(t, err)
	assert.Equal(t, domain.ClosingAcknowledgement, turn.Text)
	assert.Equal(t, domain.StatusClosed, s.Status())
	assert.Equal(t, "report", s.Report())
}
