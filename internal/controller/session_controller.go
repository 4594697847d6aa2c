package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quillmont/satprep/internal/dto"
	"github.com/quillmont/satprep/internal/service"
	"github.com/rs/zerolog/log"
)

type SessionController struct {
	sessionService service.SessionService
}

func NewSessionController(sessionService service.SessionService) *SessionController {
	return &SessionController{sessionService: sessionService}
}

// StartSession godoc
// @Summary Start a practice session
// @Description Starts a finite or infinite session, either from a stored test or from freshly generated questions.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body dto.StartSessionDTO true "Session configuration"
// @Success 201 {object} dto.SessionSnapshotDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid configuration"
// @Failure 500 {object} dto.ErrorResponse "Generation failure"
// @Router /sessions [post]
func (c *SessionController) StartSession(ctx *gin.Context) {
	var req dto.StartSessionDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	snapshot, err := c.sessionService.Start(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("userID", req.UserID).Msg("StartSession: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to start practice session"})
		return
	}
	ctx.JSON(http.StatusCreated, snapshot)
}

// GetSession godoc
// @Summary Get the current session state
// @Tags Sessions
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.SessionSnapshotDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{session_id} [get]
func (c *SessionController) GetSession(ctx *gin.Context) {
	snapshot, err := c.sessionService.Snapshot(ctx.Param("session_id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Practice session not found"})
		return
	}
	ctx.JSON(http.StatusOK, snapshot)
}

// SubmitAnswer godoc
// @Summary Submit an answer for the active question
// @Tags Sessions
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param request body dto.SubmitAnswerDTO true "Selected option"
// @Success 200 {object} dto.SessionSnapshotDTO
// @Failure 400 {object} dto.ErrorResponse "No selection or question already answered"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{session_id}/answer [post]
func (c *SessionController) SubmitAnswer(ctx *gin.Context) {
	var req dto.SubmitAnswerDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	snapshot, err := c.sessionService.SubmitAnswer(ctx.Param("session_id"), req)
	if err != nil {
		respondSessionError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, snapshot)
}

// Advance godoc
// @Summary Advance to the next question
// @Tags Sessions
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.SessionSnapshotDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Next question not ready"
// @Router /sessions/{session_id}/advance [post]
func (c *SessionController) Advance(ctx *gin.Context) {
	snapshot, err := c.sessionService.Advance(ctx.Request.Context(), ctx.Param("session_id"))
	if err != nil {
		respondSessionError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, snapshot)
}

// ToggleExclusion godoc
// @Summary Rule an answer choice in or out
// @Tags Sessions
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param request body dto.ToggleExclusionDTO true "Option to toggle"
// @Success 200 {object} dto.SessionSnapshotDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{session_id}/exclusions [post]
func (c *SessionController) ToggleExclusion(ctx *gin.Context) {
	var req dto.ToggleExclusionDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Option is required"})
		return
	}

	snapshot, err := c.sessionService.ToggleExclusion(ctx.Param("session_id"), req.Option)
	if err != nil {
		respondSessionError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, snapshot)
}

func respondSessionError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Practice session not found"})
	case errors.Is(err, service.ErrNoSelection):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Please select an answer"})
	case errors.Is(err, service.ErrAlreadyAnswered):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Question already answered"})
	case errors.Is(err, service.ErrSessionCompleted):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Practice session is already completed"})
	case errors.Is(err, service.ErrQuestionPending):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Error: "Next question is still generating, try again shortly"})
	default:
		log.Error().Err(err).Msg("Session operation failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Session operation failed"})
	}
}
