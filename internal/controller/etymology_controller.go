package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quillmont/satprep/internal/dto"
	"github.com/quillmont/satprep/internal/service"
	"github.com/rs/zerolog/log"
)

type EtymologyController struct {
	etymologyService service.EtymologyService
}

func NewEtymologyController(etymologyService service.EtymologyService) *EtymologyController {
	return &EtymologyController{etymologyService: etymologyService}
}

// Lookup godoc
// @Summary Analyze the etymology of a word
// @Tags Etymology
// @Produce json
// @Param word query string true "Word to analyze"
// @Success 200 {object} model.Etymology
// @Failure 400 {object} dto.ErrorResponse "Missing word parameter"
// @Failure 500 {object} dto.ErrorResponse "Generation or parse failure"
// @Router /etymology [get]
func (c *EtymologyController) Lookup(ctx *gin.Context) {
	word := ctx.Query("word")
	if word == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Word parameter is required"})
		return
	}

	etymology, err := c.etymologyService.Lookup(ctx.Request.Context(), word)
	if err != nil {
		log.Error().Err(err).Str("word", word).Msg("Etymology lookup failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to analyze word"})
		return
	}
	ctx.JSON(http.StatusOK, etymology)
}

// RandomWord godoc
// @Summary Get a random SAT vocabulary word with its etymology
// @Tags Etymology
// @Produce json
// @Success 200 {object} model.Etymology
// @Router /random-word [get]
func (c *EtymologyController) RandomWord(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.etymologyService.RandomWord())
}
