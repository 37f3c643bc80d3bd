package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/PabloGalante/careerai/internal/app/careerplan"
	"github.com/PabloGalante/careerai/internal/app/flows"
	"github.com/PabloGalante/careerai/internal/app/interview"
	"github.com/PabloGalante/careerai/internal/app/payment"
	"github.com/PabloGalante/careerai/internal/app/profile"
	"github.com/PabloGalante/careerai/internal/domain"
	"github.com/PabloGalante/careerai/internal/observability"
	"github.com/PabloGalante/careerai/internal/report"
	"github.com/PabloGalante/careerai/internal/resume"
)

const maxUploadBytes = 10 << 20

// Deps are the application services exposed over HTTP. Payments and Resumes
// may be nil; their routes then answer 503 and 400 respectively.
type Deps struct {
	Interviews *interview.Service
	Flows      *flows.Registry
	Profiles   *profile.Service
	Payments   *payment.Service
	Resumes    *resume.Library
	CareerPlan *careerplan.Orchestrator // defaults to the standard chain over Flows
	Authz      domain.Authorizer        // checked before flows run; nil allows all

	RequestTimeout time.Duration
}

type Server struct {
	Deps
}

func NewServer(d Deps) http.Handler {
	if d.Authz == nil {
		d.Authz = interview.AllowAll()
	}
	if d.Resumes == nil {
		d.Resumes = resume.NewLibrary(nil)
	}
	if d.CareerPlan == nil {
		d.CareerPlan = careerplan.NewDefaultOrchestrator(d.Flows)
	}
	s := &Server{Deps: d}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)

	mux.HandleFunc("POST /interviews", s.handleStartInterview)
	mux.HandleFunc("GET /interviews/{id}", s.handleGetInterview)
	mux.HandleFunc("POST /interviews/{id}/answers", s.handleSubmitAnswer)
	mux.HandleFunc("POST /interviews/{id}/end", s.handleEndInterview)
	mux.HandleFunc("GET /interviews/{id}/report", s.handleReport)
	mux.HandleFunc("GET /users/{id}/interviews", s.handleListInterviews)

	mux.HandleFunc("GET /flows", s.handleListFlows)
	mux.HandleFunc("POST /flows/{name}", s.handleRunFlow)
	mux.HandleFunc("POST /career-plan", s.handleCareerPlan)

	mux.HandleFunc("POST /resumes/extract", s.handleExtractResume)
	mux.HandleFunc("POST /resumes/render", s.handleRenderResume)
	mux.HandleFunc("GET /users/{id}/resumes/{file}", s.handleGetResume)

	mux.HandleFunc("GET /users/{id}/profile", s.handleGetProfile)
	mux.HandleFunc("PATCH /users/{id}/profile", s.handleUpdateProfile)
	mux.HandleFunc("POST /users/{id}/activity", s.handleRecordActivity)

	mux.HandleFunc("POST /payments/orders", s.handleCreateOrder)
	mux.HandleFunc("POST /payments/verify", s.handleVerifyPayment)

	return chainMiddlewares(mux,
		withTimeout(d.RequestTimeout),
		withLogging,
		withCORS,
		withRequestID,
	)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type startInterviewRequest struct {
	UserID  string `json:"user_id"`
	Context string `json:"context"`
}

type answerRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

type endRequest struct {
	UserID string `json:"user_id"`
}

type turnResponse struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type interviewResponse struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Context   string         `json:"context"`
	Status    string         `json:"status"`
	Turns     []turnResponse `json:"turns"`
	Report    string         `json:"report,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	ClosedAt  *time.Time     `json:"closed_at,omitempty"`
}

type interviewSummary struct {
	ID        string    `json:"id"`
	Context   string    `json:"context"`
	Status    string    `json:"status"`
	Turns     int       `json:"turns"`
	CreatedAt time.Time `json:"created_at"`
}

type turnOutputResponse struct {
	Interview interviewResponse `json:"interview"`
	Turn      turnResponse      `json:"turn"`
}

type reportResponse struct {
	SessionID string           `json:"session_id"`
	Markdown  string           `json:"markdown"`
	Sections  []report.Section `json:"sections"`
	Missing   []string         `json:"missing_sections,omitempty"`
}

type runFlowRequest struct {
	UserID string         `json:"user_id"`
	Input  map[string]any `json:"input"`
}

type careerPlanRequest struct {
	UserID string `json:"user_id"`
	careerplan.Request
}

type flowInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type renderResumeRequest struct {
	Template string                `json:"template"`
	Data     flows.ExtractedResume `json:"data"`
}

type activityRequest struct {
	Page string `json:"page"`
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// ─────────────────────────────────────────────
// Interview handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStartInterview(w http.ResponseWriter, r *http.Request) {
	var req startInterviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		badRequest(w, "user_id is required")
		return
	}

	out, err := s.Interviews.StartInterview(r.Context(), interview.StartInput{
		UserID:  domain.UserID(req.UserID),
		Context: req.Context,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTurnOutputResponse(out))
}

func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserQuery(w, r)
	if !ok {
		return
	}

	iv, err := s.Interviews.GetInterview(r.Context(), domain.SessionID(r.PathValue("id")), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toInterviewResponse(iv))
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		badRequest(w, "user_id is required")
		return
	}

	out, err := s.Interviews.SubmitAnswer(r.Context(), interview.SubmitInput{
		SessionID: domain.SessionID(r.PathValue("id")),
		UserID:    domain.UserID(req.UserID),
		Text:      req.Text,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTurnOutputResponse(out))
}

func (s *Server) handleEndInterview(w http.ResponseWriter, r *http.Request) {
	var req endRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		badRequest(w, "user_id is required")
		return
	}

	out, err := s.Interviews.EndInterview(r.Context(), domain.SessionID(r.PathValue("id")), domain.UserID(req.UserID))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTurnOutputResponse(out))
}

// /interviews/{id}/report?user_id=...&format=html|json
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserQuery(w, r)
	if !ok {
		return
	}

	iv, err := s.Interviews.GetInterview(r.Context(), domain.SessionID(r.PathValue("id")), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if iv.Status != domain.StatusClosed {
		writeError(w, r, domain.ErrNotActive)
		return
	}

	if r.URL.Query().Get("format") == "html" {
		html, err := report.HTML(iv.Report)
		if err != nil {
			internalError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, html)
		return
	}

	parsed := report.Parse(iv.Report)
	writeJSON(w, http.StatusOK, reportResponse{
		SessionID: string(iv.ID),
		Markdown:  iv.Report,
		Sections:  parsed.Sections,
		Missing:   parsed.Missing(),
	})
}

func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			badRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	list, err := s.Interviews.ListInterviews(r.Context(), domain.UserID(r.PathValue("id")), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]interviewSummary, 0, len(list))
	for _, iv := range list {
		out = append(out, interviewSummary{
			ID:        string(iv.ID),
			Context:   iv.Context,
			Status:    string(iv.Status),
			Turns:     len(iv.Turns),
			CreatedAt: iv.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"interviews": out})
}

// ─────────────────────────────────────────────
// Flow and résumé handlers
// ─────────────────────────────────────────────

func (s *Server) handleListFlows(w http.ResponseWriter, _ *http.Request) {
	out := make([]flowInfo, 0)
	for _, name := range s.Flows.Names() {
		f, err := s.Flows.Get(name)
		if err != nil {
			continue
		}
		out = append(out, flowInfo{Name: f.Name(), Description: f.Description()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"flows": out})
}

func (s *Server) handleRunFlow(w http.ResponseWriter, r *http.Request) {
	f, err := s.Flows.Get(r.PathValue("name"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req runFlowRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Input == nil {
		req.Input = map[string]any{}
	}

	userID := domain.UserID(req.UserID)
	if err := s.Authz.Authorize(r.Context(), userID, domain.ActionRunFlow); err != nil {
		writeError(w, r, err)
		return
	}

	out, err := f.Call(r.Context(), flows.CallContext{
		UserID:    userID,
		RequestID: observability.RequestIDFromContext(r.Context()),
	}, req.Input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCareerPlan(w http.ResponseWriter, r *http.Request) {
	var req careerPlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := domain.UserID(req.UserID)
	if err := s.Authz.Authorize(r.Context(), userID, domain.ActionRunFlow); err != nil {
		writeError(w, r, err)
		return
	}

	plan, err := s.CareerPlan.Run(r.Context(), flows.CallContext{
		UserID:    userID,
		RequestID: observability.RequestIDFromContext(r.Context()),
	}, req.Request)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// multipart: file (required), user_id (optional; stores the upload when set)
func (s *Server) handleExtractResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		badRequest(w, "expected a multipart form with a file under 10MB")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		badRequest(w, "could not read file")
		return
	}

	up, err := s.Resumes.Ingest(r.Context(),
		domain.UserID(r.FormValue("user_id")),
		header.Filename,
		header.Header.Get("Content-Type"),
		data,
	)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, up)
}

// /users/{id}/resumes/{file}?content_type=...
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	userID := domain.UserID(r.PathValue("id"))
	key := path.Join("resumes", string(userID), r.PathValue("file"))

	up, err := s.Resumes.Load(r.Context(), userID, key, r.URL.Query().Get("content_type"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, up)
}

func (s *Server) handleRenderResume(w http.ResponseWriter, r *http.Request) {
	var req renderResumeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	html, err := resume.Render(req.Template, req.Data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, html)
}

// ─────────────────────────────────────────────
// Profile and payment handlers
// ─────────────────────────────────────────────

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.Profiles.Get(r.Context(), domain.UserID(r.PathValue("id")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profile.Update
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := s.Profiles.Update(r.Context(), domain.UserID(r.PathValue("id")), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleRecordActivity(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.Profiles.RecordActivity(r.Context(), domain.UserID(r.PathValue("id")), req.Page); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	if s.Payments == nil {
		writeError(w, r, domain.ErrPaymentsDisabled)
		return
	}

	var req createOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := s.Payments.CreateOrder(r.Context(), req.Amount, req.Currency)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	if s.Payments == nil {
		writeError(w, r, domain.ErrPaymentsDisabled)
		return
	}

	var req payment.VerifyInput
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.Payments.VerifyPayment(r.Context(), req); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "verified", "plan": string(domain.PlanPro)})
}

// ─────────────────────────────────────────────
// Interview Helpers
// ─────────────────────────────────────────────

func toInterviewResponse(iv *domain.Interview) interviewResponse {
	turns := make([]turnResponse, 0, len(iv.Turns))
	for _, t := range iv.Turns {
		turns = append(turns, toTurnResponse(t))
	}
	return interviewResponse{
		ID:        string(iv.ID),
		UserID:    string(iv.UserID),
		Context:   iv.Context,
		Status:    string(iv.Status),
		Turns:     turns,
		Report:    iv.Report,
		CreatedAt: iv.CreatedAt,
		UpdatedAt: iv.UpdatedAt,
		ClosedAt:  iv.ClosedAt,
	}
}

func toTurnResponse(t domain.Turn) turnResponse {
	return turnResponse{Role: string(t.Role), Text: t.Text}
}

func toTurnOutputResponse(out *interview.TurnOutput) turnOutputResponse {
	return turnOutputResponse{
		Interview: toInterviewResponse(out.Interview),
		Turn:      toTurnResponse(out.Turn),
	}
}

func requireUserQuery(w http.ResponseWriter, r *http.Request) (domain.UserID, bool) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		badRequest(w, "user_id query parameter is required")
		return "", false
	}
	return domain.UserID(userID), true
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		badRequest(w, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to status codes. Unknown errors are 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, domain.ErrEmptyTurn),
		errors.Is(err, domain.ErrEmptyContext),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUnsupportedType):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotActive),
		errors.Is(err, domain.ErrBusy):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUnknownFlow):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrResponderFailed):
		status = http.StatusBadGateway
	case errors.Is(err, domain.ErrPaymentsDisabled):
		status = http.StatusServiceUnavailable
	default:
		internalError(w, r, err)
		return
	}

	observability.LoggerFromContext(r.Context()).Warn("request failed",
		"status", status,
		"error", err,
	)
	writeJSON(w, status, map[string]string{
		"error": err.Error(),
	})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	observability.LoggerFromContext(r.Context()).Error("internal error", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}
