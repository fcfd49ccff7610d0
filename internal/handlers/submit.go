package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

type SubmitRequest struct {
	GeneratePDF bool `json:"generate_pdf"`
}

// Submit godoc
// @Summary      Save the test on the SmartGrader server
// @Description  Validates the draft, sends it and closes the draft on success
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Draft ID"
// @Param        request body SubmitRequest false "Submit options"
// @Success      200 {object} SubmitResult
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ValidationErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/submit [post]
func (h *DraftHandler) Submit(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cannot read body"})
		return
	}
	var req SubmitRequest
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON: " + err.Error()})
			return
		}
	}

	result, err := h.draftService.Submit(c.Request.Context(), c.Param("id"), req.GeneratePDF)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
