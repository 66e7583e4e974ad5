// Package handlers provides HTTP handlers for the API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/supporthub/conversation-service/internal/api/dto"
	"github.com/supporthub/conversation-service/internal/api/middleware"
	"github.com/supporthub/conversation-service/internal/domain/errors"
	"github.com/supporthub/conversation-service/internal/domain/models"
	"github.com/supporthub/conversation-service/internal/services/conversation"
	"github.com/supporthub/conversation-service/internal/services/flows"
)

// FlowsHandler handles guided-flow endpoints.
type FlowsHandler struct {
	orchestrator flows.Orchestrator
	manager      conversation.Manager
}

// NewFlowsHandler creates a new FlowsHandler.
func NewFlowsHandler(orchestrator flows.Orchestrator, manager conversation.Manager) *FlowsHandler {
	return &FlowsHandler{
		orchestrator: orchestrator,
		manager:      manager,
	}
}

// StartOnboarding handles POST /sessions/:id/flows/onboarding
// @Summary Start onboarding
// @Description Puts the session at step zero of the onboarding walkthrough
// @Tags Flows
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.StartOnboardingRequest false "Flow type"
// @Success 200 {object} dto.FlowResultResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/sessions/{id}/flows/onboarding [post]
func (h *FlowsHandler) StartOnboarding(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("id")

	var req dto.StartOnboardingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
			return
		}
	}

	if _, ok := flows.CatalogFor(req.FlowType); !ok {
		middleware.HandleError(c, errors.NewValidationError("unknown flow type", req.FlowType))
		return
	}

	result, err := h.orchestrator.StartOnboarding(ctx, sessionID, req.FlowType)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to start onboarding", err))
		return
	}
	if result == nil {
		middleware.HandleError(c, errors.NewNotFoundError("session", sessionID))
		return
	}

	c.JSON(http.StatusOK, toFlowResultResponse(result))
}

// AdvanceOnboarding handles POST /sessions/:id/flows/onboarding/advance
// @Summary Advance onboarding
// @Description Moves the session to the next onboarding step or completes the flow
// @Tags Flows
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.FlowResultResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/sessions/{id}/flows/onboarding/advance [post]
func (h *FlowsHandler) AdvanceOnboarding(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("id")

	result, err := h.orchestrator.AdvanceOnboarding(ctx, sessionID)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to advance onboarding", err))
		return
	}
	if result == nil {
		middleware.HandleError(c, errors.NewNotFoundError("session", sessionID))
		return
	}

	c.JSON(http.StatusOK, toFlowResultResponse(result))
}

// SetOnboardingStep handles PUT /sessions/:id/flows/onboarding/step
// @Summary Set onboarding step
// @Description Moves the session onto the given onboarding step; null leaves the flow
// @Tags Flows
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.UpdateOnboardingStepRequest true "Step index"
// @Success 200 {object} dto.AppliedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/sessions/{id}/flows/onboarding/step [put]
func (h *FlowsHandler) SetOnboardingStep(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("id")

	var req dto.UpdateOnboardingStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	applied, err := h.manager.UpdateOnboardingStep(ctx, sessionID, req.Step)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to set onboarding step", err))
		return
	}
	if !applied {
		middleware.HandleError(c, errors.NewNotFoundError("session", sessionID))
		return
	}

	c.JSON(http.StatusOK, dto.AppliedResponse{Applied: true})
}

// StartTroubleshooting handles POST /sessions/:id/flows/troubleshooting
// @Summary Start troubleshooting
// @Description Begins the escalation flow for the given issue
// @Tags Flows
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.StartTroubleshootingRequest true "Issue description"
// @Success 200 {object} dto.FlowResultResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/sessions/{id}/flows/troubleshooting [post]
func (h *FlowsHandler) StartTroubleshooting(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("id")

	var req dto.StartTroubleshootingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.orchestrator.StartTroubleshooting(ctx, sessionID, req.Issue)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to start troubleshooting", err))
		return
	}
	if result == nil {
		middleware.HandleError(c, errors.NewNotFoundError("session", sessionID))
		return
	}

	c.JSON(http.StatusOK, toFlowResultResponse(result))
}

// ReportOutcome handles POST /sessions/:id/flows/troubleshooting/outcome
// @Summary Report solution outcome
// @Description Records whether the offered solution worked and advances the flow
// @Tags Flows
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.ReportOutcomeRequest true "Outcome"
// @Success 200 {object} dto.FlowResultResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/sessions/{id}/flows/troubleshooting/outcome [post]
func (h *FlowsHandler) ReportOutcome(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("id")

	var req dto.ReportOutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.orchestrator.ReportOutcome(ctx, sessionID, *req.Worked)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to report outcome", err))
		return
	}
	if result == nil {
		middleware.HandleError(c, errors.NewNotFoundError("session", sessionID))
		return
	}

	c.JSON(http.StatusOK, toFlowResultResponse(result))
}

// UpdateTroubleshooting handles PATCH /sessions/:id/flows/troubleshooting
// @Summary Update troubleshooting state
// @Description Merges the given fields into the session's troubleshooting state
// @Tags Flows
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.UpdateTroubleshootingRequest true "State fields"
// @Success 200 {object} dto.AppliedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/sessions/{id}/flows/troubleshooting [patch]
func (h *FlowsHandler) UpdateTroubleshooting(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("id")

	var req dto.UpdateTroubleshootingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	applied, err := h.manager.UpdateTroubleshootingState(ctx, sessionID, models.TroubleshootingPatch{
		Issue:              req.Issue,
		AttemptedSolutions: req.AttemptedSolutions,
		EscalationLevel:    req.EscalationLevel,
	})
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to update troubleshooting state", err))
		return
	}
	if !applied {
		middleware.HandleError(c, errors.NewNotFoundError("session", sessionID))
		return
	}

	c.JSON(http.StatusOK, dto.AppliedResponse{Applied: true})
}

// Transition handles POST /sessions/:id/flows/transition
// @Summary Transition flow mode
// @Description Dispatches a generic flow mode change
// @Tags Flows
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.TransitionRequest true "Mode change"
// @Success 200 {object} dto.AppliedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/sessions/{id}/flows/transition [post]
func (h *FlowsHandler) Transition(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("id")

	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	ok, err := h.orchestrator.Transition(ctx, sessionID, models.FlowMode(req.From), models.FlowMode(req.To))
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to transition flow", err))
		return
	}
	if !ok {
		middleware.HandleError(c, errors.NewNotFoundError("session", sessionID))
		return
	}

	c.JSON(http.StatusOK, dto.AppliedResponse{Applied: true})
}

// Recover handles POST /sessions/:id/flows/recover
// @Summary Recover from error
// @Description Emits an apologetic message and forces the session to idle
// @Tags Flows
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.AppliedResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/sessions/{id}/flows/recover [post]
func (h *FlowsHandler) Recover(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("id")

	ok, err := h.orchestrator.RecoverFromError(ctx, sessionID, nil)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to recover", err))
		return
	}
	if !ok {
		middleware.HandleError(c, errors.NewNotFoundError("session", sessionID))
		return
	}

	c.JSON(http.StatusOK, dto.AppliedResponse{Applied: true})
}

// Preserve handles POST /sessions/:id/flows/preserve
// @Summary Preserve history
// @Description Rewrites an over-long history while keeping flow-related messages
// @Tags Flows
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.AppliedResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/sessions/{id}/flows/preserve [post]
func (h *FlowsHandler) Preserve(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("id")

	ok, err := h.orchestrator.PreserveHistory(ctx, sessionID)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to preserve history", err))
		return
	}
	if !ok {
		middleware.HandleError(c, errors.NewNotFoundError("session", sessionID))
		return
	}

	c.JSON(http.StatusOK, dto.AppliedResponse{Applied: true})
}

// FlowStatus handles GET /sessions/:id/flows
// @Summary Flow status
// @Description Returns the recomputed flow read-model for the session
// @Tags Flows
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.FlowStatusResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/sessions/{id}/flows [get]
func (h *FlowsHandler) FlowStatus(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("id")

	status, err := h.orchestrator.Status(ctx, sessionID)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to read flow status", err))
		return
	}
	if status == nil {
		middleware.HandleError(c, errors.NewNotFoundError("session", sessionID))
		return
	}

	c.JSON(http.StatusOK, toFlowStatusResponse(status))
}

func toFlowResultResponse(result *flows.Result) *dto.FlowResultResponse {
	if result == nil {
		return nil
	}
	resp := &dto.FlowResultResponse{
		Applied:   result.Applied,
		Completed: result.Completed,
		Escalated: result.Escalated,
		Flow:      toFlowStateResponse(result.Flow),
	}
	if result.Message != nil {
		resp.Message = toMessageResponse(*result.Message)
	}
	if result.Step != nil {
		step := toStepResponse(*result.Step)
		resp.Step = &step
	}
	if result.Solution != nil {
		solution := toSolutionResponse(*result.Solution)
		resp.Solution = &solution
	}
	return resp
}

func toStepResponse(step flows.OnboardingStep) dto.OnboardingStepResponse {
	return dto.OnboardingStepResponse{
		ID:     step.ID,
		Title:  step.Title,
		Prompt: step.Prompt,
	}
}

func toSolutionResponse(s flows.Solution) dto.SolutionResponse {
	return dto.SolutionResponse{
		ID:          s.ID,
		Title:       s.Title,
		Instruction: s.Instruction,
		SuccessRate: s.SuccessRate,
		Difficulty:  s.Difficulty,
	}
}

func toFlowStatusResponse(status *flows.Status) *dto.FlowStatusResponse {
	resp := &dto.FlowStatusResponse{
		SessionID:     status.SessionID,
		Mode:          string(status.Mode),
		CurrentIntent: status.CurrentIntent,
	}
	if status.Onboarding != nil {
		ob := &dto.OnboardingStatusResponse{
			StepIndex:   status.Onboarding.StepIndex,
			TotalSteps:  status.Onboarding.TotalSteps,
			Completion:  status.Onboarding.Completion,
			CurrentStep: toStepResponse(status.Onboarding.CurrentStep),
			Steps:       make([]dto.OnboardingStepResponse, 0, len(status.Onboarding.Steps)),
		}
		for _, step := range status.Onboarding.Steps {
			ob.Steps = append(ob.Steps, toStepResponse(step))
		}
		resp.Onboarding = ob
	}
	if status.Troubleshooting != nil {
		ts := &dto.TroubleshootingStatusResponse{
			State: dto.TroubleshootingStateResponse{
				Issue:              status.Troubleshooting.State.Issue,
				AttemptedSolutions: status.Troubleshooting.State.AttemptedSolutions,
				EscalationLevel:    status.Troubleshooting.State.EscalationLevel,
			},
			TotalSolutions: status.Troubleshooting.TotalSolutions,
		}
		if status.Troubleshooting.NextSolution != nil {
			sol := toSolutionResponse(*status.Troubleshooting.NextSolution)
			ts.NextSolution = &sol
		}
		resp.Troubleshooting = ts
	}
	return resp
}
