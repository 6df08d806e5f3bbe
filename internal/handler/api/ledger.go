package api

import (
	"net/http"

	resdto "book-custody/internal/handler/dto/response"
	"book-custody/internal/handler/httperr"
	"book-custody/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LedgerHandler struct {
	q queries.LedgerQueries
}

func NewLedgerHandler(q queries.LedgerQueries) *LedgerHandler {
	return &LedgerHandler{q: q}
}

// @Summary Current custodian of a book
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Param book_id path string true "Book ID"
// @Success 200 {object} resdto.CustodianResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /ledger/books/{book_id}/custodian [get]
func (h *LedgerHandler) Custodian(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("book_id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid book id", nil)
		return
	}

	view, err := h.q.Custodian(c.Request.Context(), bookID)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCustodianView(view))
}

// @Summary Drift report
// @Description Reconciles books, members and active transactions
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.DriftReportResponse
// @Failure 503 {object} httperr.Response
// @Router /ledger/drift [get]
func (h *LedgerHandler) Drift(c *gin.Context) {
	report, err := h.q.Drift(c.Request.Context())
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromDriftReport(report))
}
