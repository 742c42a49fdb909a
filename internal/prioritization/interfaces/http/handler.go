package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"facilities-cloud/internal/audit"
	"facilities-cloud/internal/auth"
	"facilities-cloud/internal/observability/metrics"
	"facilities-cloud/internal/prioritization/application"
	prioritization "facilities-cloud/internal/prioritization/domain"
)

// ProjectScoringHandler provides project prioritization endpoints:
//
//	POST /api/v1/projects/{id}/scores
//	GET  /api/v1/projects/{id}/score
//	GET  /api/v1/projects/ranked
//	POST /api/v1/projects/recalculate
type ProjectScoringHandler struct {
	service     *application.PrioritizationService
	auditLogger audit.Logger
	logger      *log.Logger
}

// NewProjectScoringHandler constructs a handler.
func NewProjectScoringHandler(service *application.PrioritizationService, auditLogger audit.Logger, logger *log.Logger) (*ProjectScoringHandler, error) {
	if service == nil {
		return nil, errors.New("prioritization http: nil service")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &ProjectScoringHandler{service: service, auditLogger: auditLogger, logger: logger}, nil
}

// ServeHTTP dispatches on the path below /api/v1/projects/.
func (h *ProjectScoringHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/projects/")
	switch {
	case rest == "ranked":
		h.handleRanked(w, r)
	case rest == "recalculate":
		h.handleRecalculate(w, r)
	case strings.HasSuffix(rest, "/scores"):
		h.handleSubmit(w, r, strings.TrimSuffix(rest, "/scores"))
	case strings.HasSuffix(rest, "/score"):
		h.handleComposite(w, r, strings.TrimSuffix(rest, "/score"))
	default:
		http.NotFound(w, r)
	}
}

type scoreSubmissionRequest struct {
	Scores []scoreEntryRequest `json:"scores"`
}

type scoreEntryRequest struct {
	CriterionID   string  `json:"criterionId"`
	Score         float64 `json:"score"`
	Justification string  `json:"justification,omitempty"`
}

func (h *ProjectScoringHandler) handleSubmit(w http.ResponseWriter, r *http.Request, projectID string) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req scoreSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	submissions := make([]application.ScoreSubmission, 0, len(req.Scores))
	for _, entry := range req.Scores {
		submissions = append(submissions, application.ScoreSubmission{
			CriterionID:   entry.CriterionID,
			Score:         entry.Score,
			Justification: entry.Justification,
		})
	}

	start := time.Now()
	composite, err := h.service.SubmitScores(r.Context(), projectID, submissions)
	if err != nil {
		metrics.ObserveScoreSubmit(metrics.ResultError, time.Since(start))
		respondScoringError(w, err)
		return
	}
	metrics.ObserveScoreSubmit(metrics.ResultSuccess, time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toCompositeResponse(composite))

	h.logAudit(r, "project.scores.submit", projectID, len(submissions))
}

func (h *ProjectScoringHandler) handleComposite(w http.ResponseWriter, r *http.Request, projectID string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	composite, err := h.service.CompositeFor(r.Context(), projectID)
	if err != nil {
		respondScoringError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toCompositeResponse(composite))
}

func (h *ProjectScoringHandler) handleRanked(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ranked, err := h.service.RankedProjects(r.Context())
	if err != nil {
		h.logger.Printf("ranked projects error: %v", err)
		http.Error(w, "ranked projects error", http.StatusInternalServerError)
		return
	}

	resp := make([]rankedProjectResponse, 0, len(ranked))
	for _, project := range ranked {
		resp = append(resp, rankedProjectResponse{
			ProjectID: project.ProjectID,
			Composite: project.Composite,
			Rank:      project.Rank,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *ProjectScoringHandler) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	result, err := h.service.RecalculateAll(r.Context())
	if err != nil {
		metrics.ObserveRecalculate(metrics.ResultError, 0, 0, time.Since(start))
		h.logger.Printf("recalculate error: %v", err)
		http.Error(w, "recalculate error", http.StatusInternalServerError)
		return
	}
	metrics.ObserveRecalculate(metrics.ResultSuccess, result.Processed, result.Skipped, time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(recalculateResponse{
		Processed: result.Processed,
		Skipped:   result.Skipped,
	})

	h.logAudit(r, "project.scores.recalculate", "", result.Processed)
}

func (h *ProjectScoringHandler) logAudit(r *http.Request, action, projectID string, count int) {
	if h.auditLogger == nil {
		return
	}
	meta, _ := json.Marshal(map[string]any{"count": count})
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		TenantID:     auth.TenantIDFromContext(r.Context()),
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: "project",
		ResourceID:   projectID,
		Metadata:     meta,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}

func respondScoringError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, prioritization.ErrProjectNotFound),
		errors.Is(err, prioritization.ErrCriterionNotFound),
		errors.Is(err, prioritization.ErrCompositeNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, prioritization.ErrEmptySubmission),
		errors.Is(err, prioritization.ErrCriterionInactive),
		errors.Is(err, prioritization.ErrInvalidScore):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "prioritization error", http.StatusInternalServerError)
	}
}

type compositeResponse struct {
	ProjectID  string          `json:"projectId"`
	Value      float64         `json:"value"`
	Scores     []scoreResponse `json:"scores"`
	ComputedAt time.Time       `json:"computedAt"`
}

type scoreResponse struct {
	CriterionID   string    `json:"criterionId"`
	Score         float64   `json:"score"`
	Justification string    `json:"justification,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type rankedProjectResponse struct {
	ProjectID string  `json:"projectId"`
	Composite float64 `json:"composite"`
	Rank      int     `json:"rank"`
}

type recalculateResponse struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
}

func toCompositeResponse(composite prioritization.CompositeScore) compositeResponse {
	resp := compositeResponse{
		ProjectID:  composite.ProjectID,
		Value:      composite.Value,
		Scores:     make([]scoreResponse, 0, len(composite.Scores)),
		ComputedAt: composite.ComputedAt,
	}
	for _, score := range composite.Scores {
		resp.Scores = append(resp.Scores, scoreResponse{
			CriterionID:   score.CriterionID,
			Score:         score.Score,
			Justification: score.Justification,
			UpdatedAt:     score.UpdatedAt,
		})
	}
	return resp
}
