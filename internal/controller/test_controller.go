package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quillmont/satprep/internal/dto"
	"github.com/quillmont/satprep/internal/service"
	"github.com/rs/zerolog/log"
)

type TestController struct {
	testService service.TestService
}

func NewTestController(testService service.TestService) *TestController {
	return &TestController{testService: testService}
}

// CreateTest godoc
// @Summary Generate and store a new practice test
// @Description Creates the test record, generates its questions through the completion pipeline, and marks it ready.
// @Tags Tests
// @Accept json
// @Produce json
// @Param request body dto.CreateTestDTO true "Test configuration"
// @Success 201 {object} dto.TestResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid configuration"
// @Failure 500 {object} dto.ErrorResponse "Generation failure"
// @Router /tests [post]
func (c *TestController) CreateTest(ctx *gin.Context) {
	var req dto.CreateTestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	test, err := c.testService.GenerateTest(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("userID", req.UserID).Msg("CreateTest: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to generate test"})
		return
	}
	ctx.JSON(http.StatusCreated, test)
}

// ListTests godoc
// @Summary List a user's tests
// @Tags Tests
// @Produce json
// @Param user_id query string true "User ID"
// @Success 200 {array} dto.TestSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Missing user ID"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /tests [get]
func (c *TestController) ListTests(ctx *gin.Context) {
	userID := ctx.Query("user_id")
	if userID == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "user_id query parameter is required"})
		return
	}

	tests, err := c.testService.ListTests(userID)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("ListTests: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to retrieve tests"})
		return
	}
	ctx.JSON(http.StatusOK, tests)
}

// GetTest godoc
// @Summary Get a test with its questions
// @Tags Tests
// @Produce json
// @Param test_id path int true "Test ID"
// @Success 200 {object} dto.TestResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid test ID"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /tests/{test_id} [get]
func (c *TestController) GetTest(ctx *gin.Context) {
	testID, ok := parseTestID(ctx)
	if !ok {
		return
	}

	test, err := c.testService.GetTest(testID)
	if err != nil {
		log.Warn().Err(err).Uint("testID", testID).Msg("GetTest: not found or service error")
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Test not found"})
		return
	}
	ctx.JSON(http.StatusOK, test)
}

// CompleteTest godoc
// @Summary Mark a test completed with a final progress snapshot
// @Tags Tests
// @Accept json
// @Produce json
// @Param test_id path int true "Test ID"
// @Param request body dto.CompleteTestDTO true "Final progress"
// @Success 204 "Completed"
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /tests/{test_id}/complete [post]
func (c *TestController) CompleteTest(ctx *gin.Context) {
	testID, ok := parseTestID(ctx)
	if !ok {
		return
	}

	var req dto.CompleteTestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := c.testService.CompleteTest(testID, req); err != nil {
		log.Warn().Err(err).Uint("testID", testID).Msg("CompleteTest: service error")
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Test not found"})
		return
	}
	ctx.Status(http.StatusNoContent)
}

func parseTestID(ctx *gin.Context) (uint, bool) {
	testID, err := strconv.ParseUint(ctx.Param("test_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid test ID format"})
		return 0, false
	}
	return uint(testID), true
}
