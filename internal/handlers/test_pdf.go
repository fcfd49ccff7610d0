package handlers

import (
	"net/http"
	"strconv"

	"smartgrader-composer/internal/services"

	"github.com/gin-gonic/gin"
)

// TestHandler serves calls about tests already saved on the SmartGrader
// server, outside any draft.
type TestHandler struct {
	grader *services.GraderClient
}

func NewTestHandler(grader *services.GraderClient) *TestHandler {
	return &TestHandler{grader: grader}
}

// GeneratePDF godoc
// @Summary      Generate the PDF of a saved test
// @Description  Asks the SmartGrader server to (re)build the PDF of a test, e.g. after a submit answered with pdf_error
// @Tags         tests
// @Produce      json
// @Param        test_id path int true "Test ID"
// @Success      200 {object} SubmitResult
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /api/v1/tests/{test_id}/pdf [post]
func (h *TestHandler) GeneratePDF(c *gin.Context) {
	testID, err := strconv.Atoi(c.Param("test_id"))
	if err != nil || testID <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid test id"})
		return
	}

	result, err := h.grader.GenerateTestPDF(c.Request.Context(), testID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
