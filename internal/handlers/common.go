package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"smartgrader-composer/internal/composer"
	"smartgrader-composer/internal/importer"
	"smartgrader-composer/internal/models"
	"smartgrader-composer/internal/services"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// ValidationErrorResponse names the first problem that blocked a submit.
type ValidationErrorResponse struct {
	Error    string `json:"error" example:"Please enter all options for question 2"`
	Kind     string `json:"kind" example:"missing_option"`
	Question int    `json:"question,omitempty" example:"2"`
}

// Type aliases so swag can resolve models in annotations.
type View = composer.View
type QuestionData = models.QuestionData
type SubmitResult = services.SubmitResult

// writeError maps service and composer errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var (
		verr *composer.ValidationError
		perr *importer.ParseError
		nerr *services.NetworkError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{Error: verr.Error(), Kind: string(verr.Kind), Question: verr.Question})
	case errors.As(err, &perr), errors.Is(err, importer.ErrUnsupportedFormat),
		errors.Is(err, composer.ErrInvalidOptionCount), errors.Is(err, composer.ErrOptionSlot),
		errors.Is(err, composer.ErrInvalidQuestionData):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrDraftNotFound), errors.Is(err, composer.ErrQuestionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrDraftBusy):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrConfirmationRequired):
		c.JSON(http.StatusPreconditionRequired, ErrorResponse{Error: err.Error()})
	case errors.As(err, &nerr):
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
	default:
		log.Printf("handlers: %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

func confirmed(c *gin.Context) bool {
	ok, _ := strconv.ParseBool(c.Query("confirm"))
	return ok
}

// flexInt accepts a JSON number or a numeric string. Anything else reads as 0
// and is caught by validation.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case float64:
		*n = flexInt(t)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			i = 0
		}
		*n = flexInt(i)
	default:
		*n = 0
	}
	return nil
}
