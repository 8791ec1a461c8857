package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"

	"github.com/povarna/generative-ai-agents/support-agent/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/support-agent/internal/models"
)

// QueryProcessor runs one support query end to end.
type QueryProcessor interface {
	ProcessQuery(ctx context.Context, question string) models.QueryResult
}

// SafetyAssessor classifies raw input without invoking the model.
type SafetyAssessor interface {
	Assess(input string) models.SafetyResult
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// AssessRequest is the body of POST /api/v1/assess.
type AssessRequest struct {
	Input string `json:"input"`
}

type Handler struct {
	assistant QueryProcessor
	checker   SafetyAssessor
	logger    *zerolog.Logger
}

func NewHandler(assistant QueryProcessor, checker SafetyAssessor, logger *zerolog.Logger) *Handler {
	return &Handler{
		assistant: assistant,
		checker:   checker,
		logger:    logger,
	}
}

// POST /api/v1/query
// Body: QueryRequest
// Returns: QueryResult
func (h *Handler) Query(req *restful.Request, resp *restful.Response) {
	var queryRequest models.QueryRequest
	if err := req.ReadEntity(&queryRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if queryRequest.Question == "" {
		middleware.HandleError(resp, errors.New("question is required"), http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("request_id", queryRequest.RequestID).
		Msg("Start query")

	ctx := req.Request.Context()
	result := h.assistant.ProcessQuery(ctx, queryRequest.Question)

	h.logger.Info().
		Str("request_id", queryRequest.RequestID).
		Str("category", result.Response.Category).
		Float64("confidence", result.Response.Confidence).
		Msg("Query complete")

	resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// POST /api/v1/assess
// Body: AssessRequest
// Returns: SafetyResult
func (h *Handler) Assess(req *restful.Request, resp *restful.Response) {
	var assessRequest AssessRequest
	if err := req.ReadEntity(&assessRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if assessRequest.Input == "" {
		middleware.HandleError(resp, errors.New("input is required"), http.StatusBadRequest)
		return
	}

	result := h.checker.Assess(assessRequest.Input)

	h.logger.Info().
		Str("level", string(result.Level)).
		Bool("blocked", result.ShouldBlock).
		Msg("Assessment complete")

	resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// Health handler GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}
