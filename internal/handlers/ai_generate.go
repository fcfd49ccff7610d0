package handlers

import (
	"net/http"

	"smartgrader-composer/internal/services"

	"github.com/gin-gonic/gin"
)

type GenerateRequest struct {
	Topic        string `json:"topic" binding:"required,min=3"`
	NumQuestions int    `json:"num_questions" binding:"required,min=1,max=50"`
	Difficulty   string `json:"difficulty" example:"medium"`
}

type GenerateResponse struct {
	GeneratedQuestions int  `json:"generated_questions" example:"5"`
	Draft              View `json:"draft"`
}

// Generate godoc
// @Summary      Generate questions with AI
// @Description  Asks the SmartGrader server for questions on a topic and appends them to the draft
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Draft ID"
// @Param        request body GenerateRequest true "Generation request"
// @Success      200 {object} GenerateResponse
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/generate [post]
func (h *DraftHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = "medium"
	}

	count, view, err := h.draftService.Generate(c.Request.Context(), c.Param("id"), services.GenerateRequest{
		Topic:        req.Topic,
		NumQuestions: req.NumQuestions,
		Difficulty:   req.Difficulty,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, GenerateResponse{GeneratedQuestions: count, Draft: view})
}
