// Package handlers provides HTTP handlers for the API.
package handlers

import (
	goerrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/supporthub/conversation-service/internal/api/dto"
	"github.com/supporthub/conversation-service/internal/api/middleware"
	"github.com/supporthub/conversation-service/internal/core/store"
	"github.com/supporthub/conversation-service/internal/domain/errors"
	"github.com/supporthub/conversation-service/internal/domain/models"
	"github.com/supporthub/conversation-service/internal/services/conversation"
)

// SessionsHandler handles session lifecycle endpoints.
type SessionsHandler struct {
	store          store.Store
	manager        conversation.Manager
	maxSessions    int
	defaultMaxIdle time.Duration
}

// NewSessionsHandler creates a new SessionsHandler.
func NewSessionsHandler(store store.Store, manager conversation.Manager, maxSessions int, defaultMaxIdle time.Duration) *SessionsHandler {
	return &SessionsHandler{
		store:          store,
		manager:        manager,
		maxSessions:    maxSessions,
		defaultMaxIdle: defaultMaxIdle,
	}
}

// CreateSession handles POST /sessions
// @Summary Create session
// @Description Creates a new conversation session for a user
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body dto.CreateSessionRequest true "Session parameters"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/sessions [post]
func (h *SessionsHandler) CreateSession(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	cfg := models.DefaultSessionConfig()
	if req.MaxMessages > 0 {
		cfg.MaxMessages = req.MaxMessages
	}

	sess, err := h.store.Create(ctx, req.UserID, cfg)
	if err != nil {
		if goerrors.Is(err, store.ErrCapacity) {
			middleware.HandleError(c, errors.NewCapacityError("sessions", h.maxSessions))
			return
		}
		middleware.HandleError(c, errors.NewInternalError("failed to create session", err))
		return
	}

	c.JSON(http.StatusCreated, toSessionResponse(sess))
}

// GetSession handles GET /sessions/:id
// @Summary Get session
// @Description Retrieves a session by its identifier
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/sessions/{id} [get]
func (h *SessionsHandler) GetSession(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("id")

	sess, err := h.store.Get(ctx, sessionID)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to get session", err))
		return
	}
	if sess == nil {
		middleware.HandleError(c, errors.NewNotFoundError("session", sessionID))
		return
	}

	c.JSON(http.StatusOK, toSessionResponse(sess))
}

// TouchSession handles POST /sessions/:id/touch
// @Summary Touch session
// @Description Refreshes the session's last-activity timestamp
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/sessions/{id}/touch [post]
func (h *SessionsHandler) TouchSession(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("id")

	sess, err := h.store.Touch(ctx, sessionID)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to touch session", err))
		return
	}
	if sess == nil {
		middleware.HandleError(c, errors.NewNotFoundError("session", sessionID))
		return
	}

	c.JSON(http.StatusOK, toSessionResponse(sess))
}

// DeleteSession handles DELETE /sessions/:id
// @Summary Delete session
// @Description Deletes a session and its conversation state
// @Tags Sessions
// @Param id path string true "Session ID"
// @Success 204 "Session deleted"
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/sessions/{id} [delete]
func (h *SessionsHandler) DeleteSession(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("id")

	deleted, err := h.store.Delete(ctx, sessionID)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to delete session", err))
		return
	}
	if !deleted {
		middleware.HandleError(c, errors.NewNotFoundError("session", sessionID))
		return
	}

	c.Status(http.StatusNoContent)
}

// ListSessions handles GET /sessions
// @Summary List sessions
// @Description Lists all live sessions
// @Tags Sessions
// @Produce json
// @Success 200 {object} dto.ListSessionsResponse
// @Security BearerAuth
// @Router /api/v1/sessions [get]
func (h *SessionsHandler) ListSessions(c *gin.Context) {
	ctx := c.Request.Context()

	sessions, err := h.store.List(ctx)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to list sessions", err))
		return
	}

	resp := dto.ListSessionsResponse{
		Sessions: make([]*dto.SessionResponse, 0, len(sessions)),
		Total:    len(sessions),
	}
	for _, sess := range sessions {
		resp.Sessions = append(resp.Sessions, toSessionResponse(sess))
	}

	c.JSON(http.StatusOK, resp)
}

// Stats handles GET /stats
// @Summary Memory statistics
// @Description Reports session and message counts plus a rough byte estimate
// @Tags Sessions
// @Produce json
// @Success 200 {object} dto.StatsResponse
// @Security BearerAuth
// @Router /api/v1/stats [get]
func (h *SessionsHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.manager.MemoryStats(ctx)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to compute stats", err))
		return
	}

	c.JSON(http.StatusOK, dto.StatsResponse{
		SessionCount:          stats.SessionCount,
		TotalMessages:         stats.TotalMessages,
		AvgMessagesPerSession: stats.AvgMessagesPerSession,
		EstimatedBytes:        stats.EstimatedBytes,
	})
}

// Sweep handles POST /sessions/sweep
// @Summary Sweep idle sessions
// @Description Deletes expired sessions and resets idle conversation contexts
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body dto.SweepRequest false "Sweep parameters"
// @Success 200 {object} dto.SweepResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/sessions/sweep [post]
func (h *SessionsHandler) Sweep(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SweepRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
			return
		}
	}

	maxIdle := h.defaultMaxIdle
	if req.MaxIdleSeconds > 0 {
		maxIdle = time.Duration(req.MaxIdleSeconds) * time.Second
	}

	deleted, err := h.store.SweepExpired(ctx, maxIdle)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to sweep sessions", err))
		return
	}
	reset, err := h.manager.Sweep(ctx, maxIdle)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to sweep contexts", err))
		return
	}

	c.JSON(http.StatusOK, dto.SweepResponse{Deleted: deleted, Reset: reset})
}

func toSessionResponse(sess *models.Session) *dto.SessionResponse {
	return &dto.SessionResponse{
		ID:             sess.ID,
		UserID:         sess.UserID,
		CreatedAt:      sess.CreatedAt,
		LastActivityAt: sess.LastActivityAt,
		MessageCount:   sess.Context.MessageCount(),
		CurrentIntent:  sess.Context.CurrentIntent,
		Flow:           toFlowStateResponse(sess.Context.Flow),
		Preferences:    toPreferencesResponse(sess.Context.Preferences),
	}
}

func toFlowStateResponse(flow models.FlowState) dto.FlowStateResponse {
	resp := dto.FlowStateResponse{Mode: string(flow.Mode())}
	if step, ok := flow.OnboardingStep(); ok {
		resp.OnboardingStep = &step
	}
	if state, ok := flow.Troubleshooting(); ok {
		resp.Troubleshooting = &dto.TroubleshootingStateResponse{
			Issue:              state.Issue,
			AttemptedSolutions: state.AttemptedSolutions,
			EscalationLevel:    state.EscalationLevel,
		}
	}
	return resp
}

func toPreferencesResponse(p models.Preferences) dto.PreferencesResponse {
	return dto.PreferencesResponse{
		Language:      p.Language,
		ResponseStyle: p.ResponseStyle,
	}
}
