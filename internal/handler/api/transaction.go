package api

import (
	"context"
	"net/http"

	reqdto "book-custody/internal/handler/dto/request"
	resdto "book-custody/internal/handler/dto/response"
	"book-custody/internal/handler/httperr"
	"book-custody/internal/handler/middleware"
	"book-custody/internal/pkg/errs"
	"book-custody/internal/usecase/commands"
	"book-custody/internal/usecase/queries"
	"book-custody/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errNoActor = errs.New("no authenticated actor")

const NextCursorHeader = "X-Next-Cursor"

type TransactionHandler struct {
	cmds commands.CustodyCommands
	q    queries.TransactionQueries
}

func NewTransactionHandler(cmds commands.CustodyCommands, q queries.TransactionQueries) *TransactionHandler {
	return &TransactionHandler{cmds: cmds, q: q}
}

// @Summary Request checkout
// @Description Reserve an available book for pickup at a location
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CheckoutRequest true "Checkout request"
// @Success 201 {object} resdto.TransactionResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /transactions [post]
func (h *TransactionHandler) RequestCheckout(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var req reqdto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	view, err := h.cmds.RequestCheckout(c.Request.Context(), actor, req.ToCommand())
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.Header("Location", "/transactions/"+view.ID.String())
	c.JSON(http.StatusCreated, resdto.FromTransactionView(view))
}

// @Summary Approve checkout
// @Description Staff confirm the member picked up the book; book_id is the scanned copy
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param request body reqdto.VerifyBookRequest true "Verified book"
// @Success 200 {object} resdto.TransactionResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /transactions/approve/{id} [put]
func (h *TransactionHandler) ApproveCheckout(c *gin.Context) {
	h.verify(c, h.cmds.ApproveCheckout)
}

// @Summary Complete return
// @Description Staff confirm the book arrived at the return location
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param request body reqdto.VerifyBookRequest true "Verified book"
// @Success 200 {object} resdto.TransactionResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /transactions/complete-return/{id} [put]
func (h *TransactionHandler) CompleteReturn(c *gin.Context) {
	h.verify(c, h.cmds.CompleteReturn)
}

type verifyFunc func(ctx context.Context, actor shared.Actor, transactionID, expectedBookID uuid.UUID) (*queries.TransactionView, error)

// verify handles the two counter steps where staff confirm the physical book.
func (h *TransactionHandler) verify(c *gin.Context, step verifyFunc) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	var req reqdto.VerifyBookRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}

	view, err := step(c.Request.Context(), actor, id, req.BookID)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromTransactionView(view))
}

// @Summary Request return
// @Description Announce that the caller will drop the book off at a location
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param book_id path string true "Book ID"
// @Param request body reqdto.ReturnRequest true "Return location"
// @Success 200 {object} resdto.TransactionResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /transactions/return/{book_id} [put]
func (h *TransactionHandler) RequestReturn(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	bookID, err := uuid.Parse(c.Param("book_id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid book id", nil)
		return
	}
	var req reqdto.ReturnRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}

	view, err := h.cmds.RequestReturn(c.Request.Context(), actor, bookID, req.LocationID)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromTransactionView(view))
}

// @Summary Cancel checkout
// @Description Cancel an own checkout that has not been picked up yet
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} resdto.CancelResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /transactions/cancel/{id} [delete]
func (h *TransactionHandler) CancelCheckout(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	if err := h.cmds.CancelCheckout(c.Request.Context(), actor, id); err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.CancelResponse{ID: id.String(), Status: "cancelled"})
}

// @Summary List transactions
// @Description Newest first. Members see their own; staff may filter by user_id.
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param status query string false "requested | in_possession | return_requested | completed"
// @Param user_id query string false "Member ID"
// @Param limit query int false "Page size (default from config, max 200)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {array} resdto.TransactionResponse
// @Header 200 {string} X-Next-Cursor "Cursor for the next page, absent on the last page"
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var query reqdto.ListTransactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	filter, err := query.ToFilter()
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}

	page, err := h.q.List(c.Request.Context(), actor, filter)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	if page.NextCursor != "" {
		c.Header(NextCursorHeader, page.NextCursor)
	}
	c.JSON(http.StatusOK, resdto.FromTransactionViews(page.Items))
}

// @Summary Get transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} resdto.TransactionResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromTransactionView(view))
}

func actorOf(c *gin.Context) (shared.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoActor, "Unauthorized", nil)
	}
	return actor, ok
}
