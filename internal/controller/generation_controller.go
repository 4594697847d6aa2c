package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quillmont/satprep/internal/dto"
	"github.com/quillmont/satprep/internal/service"
	"github.com/rs/zerolog/log"
)

type GenerationController struct {
	generator service.GenerationService
}

func NewGenerationController(generator service.GenerationService) *GenerationController {
	return &GenerationController{generator: generator}
}

// Generate godoc
// @Summary Generate practice questions from a prompt
// @Description Sends the instruction prompt to the completion endpoint and returns the validated questions.
// @Tags Generation
// @Accept json
// @Produce json
// @Param request body dto.GenerateRequestDTO true "Instruction prompt"
// @Success 200 {object} dto.GenerateResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid prompt"
// @Failure 500 {object} dto.ErrorResponse "Generation or validation failure"
// @Router /generate [post]
func (c *GenerationController) Generate(ctx *gin.Context) {
	var req dto.GenerateRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Prompt is required"})
		return
	}

	questions, err := c.generator.GenerateFromPrompt(ctx.Request.Context(), req.Prompt)
	if err != nil {
		log.Error().Err(err).Msg("Generate: pipeline error")
		switch {
		case errors.Is(err, service.ErrNoValidQuestions):
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "No valid questions generated"})
		case errors.Is(err, service.ErrMalformedResponse):
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to generate valid questions"})
		default:
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to generate questions"})
		}
		return
	}

	ctx.JSON(http.StatusOK, dto.GenerateResponseDTO{Questions: questions})
}
