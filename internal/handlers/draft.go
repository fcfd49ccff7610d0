package handlers

import (
	"net/http"

	"smartgrader-composer/internal/composer"
	"smartgrader-composer/internal/services"

	"github.com/gin-gonic/gin"
)

type DraftHandler struct {
	draftService *services.DraftService
	tokens       *services.DraftTokens
}

func NewDraftHandler(draftService *services.DraftService, tokens *services.DraftTokens) *DraftHandler {
	return &DraftHandler{draftService: draftService, tokens: tokens}
}

type CreateDraftResponse struct {
	ID    string `json:"id" example:"6f1c2b9e-3d4a-4c55-9a1e-0b7a2f8d9c10"`
	Token string `json:"token"`
	Draft View   `json:"draft"`
}

type RandomizationRequest struct {
	Enabled             bool    `json:"enabled"`
	VariantCount        flexInt `json:"variant_count" swaggertype:"integer"`
	QuestionsPerVariant flexInt `json:"questions_per_variant" swaggertype:"integer"`
}

type UpdateDraftRequest struct {
	Title         *string               `json:"title"`
	Description   *string               `json:"description"`
	Randomization *RandomizationRequest `json:"randomization"`
}

type SetOptionsRequest struct {
	NumOptions int `json:"num_options" binding:"required" example:"4"`
}

// CreateDraft godoc
// @Summary      Open a new test draft
// @Description  Creates a draft seeded with one blank question and returns the token that grants access to it
// @Tags         drafts
// @Produce      json
// @Success      201 {object} CreateDraftResponse
// @Router       /api/v1/drafts [post]
func (h *DraftHandler) CreateDraft(c *gin.Context) {
	id, view, err := h.draftService.Create(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	token, err := h.tokens.Issue(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, CreateDraftResponse{ID: id, Token: token, Draft: view})
}

// GetDraft godoc
// @Summary      Get a draft
// @Tags         drafts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Draft ID"
// @Success      200 {object} View
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/drafts/{id} [get]
func (h *DraftHandler) GetDraft(c *gin.Context) {
	view, err := h.draftService.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateDraft godoc
// @Summary      Update title, description or variant settings
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Draft ID"
// @Param        request body UpdateDraftRequest true "Fields to change"
// @Success      200 {object} View
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/drafts/{id} [put]
func (h *DraftHandler) UpdateDraft(c *gin.Context) {
	var req UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	view, err := h.draftService.Mutate(c.Request.Context(), c.Param("id"), func(f *composer.FormState) error {
		if req.Title != nil {
			f.Title = *req.Title
		}
		if req.Description != nil {
			f.Description = *req.Description
		}
		if r := req.Randomization; r != nil {
			f.Randomization = composer.Randomization{
				Enabled:             r.Enabled,
				VariantCount:        int(r.VariantCount),
				QuestionsPerVariant: int(r.QuestionsPerVariant),
			}
		}
		return nil
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SetOptionCount godoc
// @Summary      Change the number of options per question
// @Description  Resizes every question. Entered values within the new width are kept.
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Draft ID"
// @Param        request body SetOptionsRequest true "Option count (2-5)"
// @Success      200 {object} View
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/options [put]
func (h *DraftHandler) SetOptionCount(c *gin.Context) {
	var req SetOptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	view, err := h.draftService.Mutate(c.Request.Context(), c.Param("id"), func(f *composer.FormState) error {
		return f.SetOptionCount(req.NumOptions)
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DiscardDraft godoc
// @Summary      Discard a draft
// @Description  Requires confirm=true. All unsaved changes will be lost.
// @Tags         drafts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Draft ID"
// @Param        confirm query bool true "Confirm discarding"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Failure      428 {object} ErrorResponse
// @Router       /api/v1/drafts/{id} [delete]
func (h *DraftHandler) DiscardDraft(c *gin.Context) {
	if err := h.draftService.Discard(c.Request.Context(), c.Param("id"), confirmed(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "draft discarded"})
}
