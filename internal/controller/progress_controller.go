package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quillmont/satprep/internal/dto"
	"github.com/quillmont/satprep/internal/service"
	"github.com/rs/zerolog/log"
)

type ProgressController struct {
	progressService service.ProgressService
}

func NewProgressController(progressService service.ProgressService) *ProgressController {
	return &ProgressController{progressService: progressService}
}

// GetProgress godoc
// @Summary Get a user's per-section progress and stats
// @Tags Progress
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} dto.UserProgressResponseDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{user_id}/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	userID := ctx.Param("user_id")

	progress, err := c.progressService.GetProgress(userID)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("GetProgress: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to retrieve progress"})
		return
	}
	ctx.JSON(http.StatusOK, progress)
}
