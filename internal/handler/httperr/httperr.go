package httperr

import (
	"net/http"

	"book-custody/internal/domain/custody"
	"book-custody/internal/domain/eligibility"
	"book-custody/internal/pkg/errs"
	"book-custody/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

type StateDetail struct {
	Operation string   `json:"operation"`
	Expected  []string `json:"expected"`
	Actual    string   `json:"actual"`
}

type IdentityDetail struct {
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

type EligibilityDetail struct {
	Reason string `json:"reason"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

type category struct {
	mark    error
	status  int
	message string
}

// First match wins.
var categories = []category{
	{errs.ErrStoreUnavailable, http.StatusServiceUnavailable, "Record store unavailable, retry later"},
	{errs.ErrNotFound, http.StatusNotFound, "Not found"},
	{errs.ErrUnauthorized, http.StatusForbidden, "Forbidden"},
	{errs.ErrStateConflict, http.StatusBadRequest, "Transaction state mismatch"},
	{errs.ErrIdentityMismatch, http.StatusBadRequest, "Book identity mismatch"},
	{errs.ErrIneligible, http.StatusBadRequest, "Member is not eligible"},
	{errs.ErrInventoryUnavailable, http.StatusBadRequest, "Book is not available"},
	{errs.ErrNoActiveCustody, http.StatusBadRequest, "No active custody"},
	{errs.ErrValidation, http.StatusBadRequest, "Invalid request"},
	{shared.ErrConcurrentModification, http.StatusConflict, "Concurrent modification, retry"},
}

// Classify returns the status and public message for err.
func Classify(err error) (int, string) {
	for _, cat := range categories {
		if errs.Is(err, cat.mark) {
			return cat.status, cat.message
		}
	}
	return http.StatusInternalServerError, "Internal server error"
}

// Detail extracts the structured part of a domain error, if any.
func Detail(err error) any {
	var state *custody.StateConflictError
	if errs.As(err, &state) {
		expected := make([]string, len(state.Expected))
		for i, s := range state.Expected {
			expected[i] = s.String()
		}
		return StateDetail{Operation: state.Op, Expected: expected, Actual: state.Actual.String()}
	}
	var identity *custody.IdentityMismatchError
	if errs.As(err, &identity) {
		return IdentityDetail{Expected: identity.Expected.String(), Actual: identity.Actual.String()}
	}
	var denied *eligibility.DeniedError
	if errs.As(err, &denied) {
		return EligibilityDetail{Reason: string(denied.Reason)}
	}
	return nil
}

// AbortWithDomainError maps a use case error onto the error response.
func AbortWithDomainError(c *gin.Context, err error) {
	status, msg := Classify(err)
	AbortWithError(c, status, err, msg, Detail(err))
}
