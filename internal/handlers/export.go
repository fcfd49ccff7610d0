package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"smartgrader-composer/internal/importer"

	"github.com/gin-gonic/gin"
)

type ImportResponse struct {
	ImportedQuestions int  `json:"imported_questions" example:"12"`
	Draft             View `json:"draft"`
}

// ImportQuestions godoc
// @Summary      Import questions from a file
// @Description  Replaces the draft's questions with a .json or .csv file. A file without usable questions changes nothing.
// @Tags         import
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Draft ID"
// @Param        file formData file true "Question file"
// @Success      200 {object} ImportResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/import [post]
func (h *DraftHandler) ImportQuestions(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file required"})
		return
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cannot read file"})
		return
	}

	count, view, err := h.draftService.Import(c.Request.Context(), c.Param("id"), header.Filename, body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ImportResponse{ImportedQuestions: count, Draft: view})
}

// ExportQuestions godoc
// @Summary      Download the draft's questions
// @Description  The file can be imported again. Questions are exported as entered, without validation.
// @Tags         import
// @Produce      json
// @Produce      text/csv
// @Security     BearerAuth
// @Param        id path string true "Draft ID"
// @Param        format query string false "json or csv" default(json)
// @Success      200 {object} importer.ExportData
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/drafts/{id}/export [get]
func (h *DraftHandler) ExportQuestions(c *gin.Context) {
	title, questions, err := h.draftService.Export(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	filename := strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
	if filename == "" {
		filename = "questions"
	}

	switch c.DefaultQuery("format", "json") {
	case "csv":
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))
		c.Status(http.StatusOK)
		if err := importer.WriteCSV(c.Writer, questions); err != nil {
			log.Printf("handlers: csv export failed: %v", err)
		}
	case "json":
		c.Header("Content-Type", "application/json; charset=utf-8")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.json\"", filename))
		c.Status(http.StatusOK)
		if err := importer.WriteJSON(c.Writer, title, questions); err != nil {
			log.Printf("handlers: json export failed: %v", err)
		}
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "format must be json or csv"})
	}
}
