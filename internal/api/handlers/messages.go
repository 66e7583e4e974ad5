// Package handlers provides HTTP handlers for the API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/supporthub/conversation-service/internal/api/dto"
	"github.com/supporthub/conversation-service/internal/api/middleware"
	"github.com/supporthub/conversation-service/internal/api/sse"
	"github.com/supporthub/conversation-service/internal/domain/errors"
	"github.com/supporthub/conversation-service/internal/domain/models"
	"github.com/supporthub/conversation-service/internal/services/conversation"
	"github.com/supporthub/conversation-service/internal/services/responder"
)

// MessagesHandler handles message intake and context endpoints.
type MessagesHandler struct {
	responder responder.Responder
	manager   conversation.Manager
}

// NewMessagesHandler creates a new MessagesHandler.
func NewMessagesHandler(responder responder.Responder, manager conversation.Manager) *MessagesHandler {
	return &MessagesHandler{
		responder: responder,
		manager:   manager,
	}
}

// SendMessage handles POST /sessions/:id/messages
// @Summary Send message
// @Description Runs the intake pipeline for one user message and returns the reply
// @Tags Messages
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.SendMessageRequest true "Message"
// @Success 200 {object} dto.SendMessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/sessions/{id}/messages [post]
func (h *MessagesHandler) SendMessage(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("id")

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	if req.Stream {
		h.sendMessageStream(c, sessionID, req.Content)
		return
	}

	reply, err := h.responder.Respond(ctx, sessionID, req.Content)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to compose reply", err))
		return
	}
	if reply == nil {
		middleware.HandleError(c, errors.NewNotFoundError("session", sessionID))
		return
	}

	c.JSON(http.StatusOK, toSendMessageResponse(reply))
}

// sendMessageStream streams the reply over SSE.
func (h *MessagesHandler) sendMessageStream(c *gin.Context, sessionID, content string) {
	writer, err := sse.NewWriter(c.Writer)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("streaming not supported", err))
		return
	}

	reply, err := h.responder.RespondStream(c.Request.Context(), sessionID, content, func(chunk string) error {
		return writer.WriteChunk(chunk)
	})
	if err != nil {
		_ = writer.WriteError("INTERNAL_ERROR", "failed to compose reply", err.Error())
		return
	}
	if reply == nil {
		_ = writer.WriteError("NOT_FOUND", "session not found", sessionID)
		return
	}

	_ = writer.WriteComplete(toSendMessageResponse(reply))
	_ = writer.WriteDone()
}

// GetContext handles GET /sessions/:id/context
// @Summary Get conversation context
// @Description Returns the session's message history, intent, flow state and preferences
// @Tags Messages
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.ContextResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/sessions/{id}/context [get]
func (h *MessagesHandler) GetContext(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("id")

	convCtx, err := h.manager.GetContext(ctx, sessionID)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to get context", err))
		return
	}
	if convCtx == nil {
		middleware.HandleError(c, errors.NewNotFoundError("context", sessionID))
		return
	}

	c.JSON(http.StatusOK, toContextResponse(sessionID, convCtx))
}

// ClearContext handles DELETE /sessions/:id/context
// @Summary Clear conversation context
// @Description Resets the session's context to its initial state
// @Tags Messages
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.AppliedResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/sessions/{id}/context [delete]
func (h *MessagesHandler) ClearContext(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("id")

	cleared, err := h.manager.ClearContext(ctx, sessionID)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to clear context", err))
		return
	}
	if !cleared {
		middleware.HandleError(c, errors.NewNotFoundError("session", sessionID))
		return
	}

	c.JSON(http.StatusOK, dto.AppliedResponse{Applied: true})
}

// UpdatePreferences handles PATCH /sessions/:id/preferences
// @Summary Update preferences
// @Description Merges the given fields into the session's preferences
// @Tags Messages
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.UpdatePreferencesRequest true "Preference fields"
// @Success 200 {object} dto.AppliedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/sessions/{id}/preferences [patch]
func (h *MessagesHandler) UpdatePreferences(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("id")

	var req dto.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	applied, err := h.manager.UpdatePreferences(ctx, sessionID, models.PreferencesPatch{
		Language:      req.Language,
		ResponseStyle: req.ResponseStyle,
	})
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to update preferences", err))
		return
	}
	if !applied {
		middleware.HandleError(c, errors.NewNotFoundError("session", sessionID))
		return
	}

	c.JSON(http.StatusOK, dto.AppliedResponse{Applied: true})
}

func toMessageResponse(m models.Message) *dto.MessageResponse {
	resp := &dto.MessageResponse{
		ID:        m.ID,
		SessionID: m.SessionID,
		Type:      string(m.Type),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
	if m.Metadata != nil {
		resp.Metadata = &dto.MetadataResponse{
			Intent:     m.Metadata.Intent,
			Confidence: m.Metadata.Confidence,
			LatencyMs:  m.Metadata.LatencyMs,
			Model:      m.Metadata.Model,
		}
	}
	return resp
}

func toContextResponse(sessionID string, ctx *models.ConversationContext) *dto.ContextResponse {
	resp := &dto.ContextResponse{
		SessionID:     sessionID,
		Messages:      make([]*dto.MessageResponse, 0, len(ctx.Messages)),
		CurrentIntent: ctx.CurrentIntent,
		Flow:          toFlowStateResponse(ctx.Flow),
		Preferences:   toPreferencesResponse(ctx.Preferences),
	}
	for _, m := range ctx.Messages {
		resp.Messages = append(resp.Messages, toMessageResponse(m))
	}
	return resp
}

func toClassificationResponse(cl *models.Classification) *dto.ClassificationResponse {
	if cl == nil {
		return nil
	}
	resp := &dto.ClassificationResponse{
		Intent:     cl.Intent,
		Confidence: cl.Confidence,
		Keywords:   cl.Keywords,
		Entities:   make([]dto.EntityResponse, 0, len(cl.Entities)),
		Contextual: dto.ContextualResponse{
			IsFollowUp:        cl.Contextual.IsFollowUp,
			PreviousIntent:    cl.Contextual.PreviousIntent,
			ConversationStage: cl.Contextual.ConversationStage,
		},
		RelevantKnowledge: toRankedEntryResponses(cl.RelevantKnowledge),
	}
	for _, e := range cl.Entities {
		resp.Entities = append(resp.Entities, dto.EntityResponse{
			Type:       e.Type,
			Value:      e.Value,
			Confidence: e.Confidence,
		})
	}
	return resp
}

func toRankedEntryResponses(entries []models.RankedEntry) []dto.RankedEntryResponse {
	if len(entries) == 0 {
		return nil
	}
	out := make([]dto.RankedEntryResponse, 0, len(entries))
	for _, ranked := range entries {
		out = append(out, dto.RankedEntryResponse{
			Entry: dto.KnowledgeEntryResponse{
				ID:       ranked.Entry.ID,
				Category: ranked.Entry.Category,
				Question: ranked.Entry.Question,
				Answer:   ranked.Entry.Answer,
				Keywords: ranked.Entry.Keywords,
			},
			Score: ranked.Score,
		})
	}
	return out
}

func toSendMessageResponse(reply *responder.Reply) *dto.SendMessageResponse {
	return &dto.SendMessageResponse{
		Message:        toMessageResponse(reply.Message),
		Classification: toClassificationResponse(reply.Classification),
		Flow:           toFlowResultResponse(reply.FlowResult),
		Suggestions:    toRankedEntryResponses(reply.Suggestions),
		LatencyMs:      reply.LatencyMs,
	}
}
