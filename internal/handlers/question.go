package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"smartgrader-composer/internal/composer"
	"smartgrader-composer/internal/models"

	"github.com/gin-gonic/gin"
)

type UpdateQuestionRequest struct {
	Text         *string  `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex *int     `json:"correct_index"`
}

// AddQuestion godoc
// @Summary      Append a question
// @Description  An empty body appends a blank question sized to the current option count
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Draft ID"
// @Param        request body QuestionData false "Prefilled question"
// @Success      201 {object} View
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/questions [post]
func (h *DraftHandler) AddQuestion(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cannot read body"})
		return
	}

	var data *models.QuestionData
	if len(bytes.TrimSpace(body)) > 0 {
		data = &models.QuestionData{}
		if err := json.Unmarshal(body, data); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON: " + err.Error()})
			return
		}
	}

	view, err := h.draftService.Mutate(c.Request.Context(), c.Param("id"), func(f *composer.FormState) error {
		if data == nil {
			f.AddBlank()
			return nil
		}
		_, err := f.AddFromData(*data)
		return err
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// UpdateQuestion godoc
// @Summary      Edit a question
// @Description  Omitted fields are left unchanged. Options are written from the first slot.
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Draft ID"
// @Param        qid path int true "Question ID"
// @Param        request body UpdateQuestionRequest true "Edited fields"
// @Success      200 {object} View
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/questions/{qid} [put]
func (h *DraftHandler) UpdateQuestion(c *gin.Context) {
	qid, err := strconv.Atoi(c.Param("qid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question id"})
		return
	}

	var req UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	view, err := h.draftService.Mutate(c.Request.Context(), c.Param("id"), func(f *composer.FormState) error {
		return f.Update(qid, composer.EntryPatch{Text: req.Text, Options: req.Options, CorrectIndex: req.CorrectIndex})
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// RemoveQuestion godoc
// @Summary      Remove a question
// @Description  Requires confirm=true. Later questions are renumbered.
// @Tags         questions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Draft ID"
// @Param        qid path int true "Question ID"
// @Param        confirm query bool true "Confirm removal"
// @Success      200 {object} View
// @Failure      404 {object} ErrorResponse
// @Failure      428 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/questions/{qid} [delete]
func (h *DraftHandler) RemoveQuestion(c *gin.Context) {
	qid, err := strconv.Atoi(c.Param("qid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question id"})
		return
	}

	view, err := h.draftService.RemoveQuestion(c.Request.Context(), c.Param("id"), qid, confirmed(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
