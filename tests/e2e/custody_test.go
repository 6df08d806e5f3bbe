//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"book-custody/internal/domain/book"
	"book-custody/internal/domain/member"
	"book-custody/internal/handler/api"
	resdto "book-custody/internal/handler/dto/response"
	"book-custody/internal/infra/repository"
	"book-custody/tests/common/builder"
	"book-custody/tests/common/dbtest"
	"book-custody/tests/common/httptest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type CustodySuite struct {
	SharedSuite
}

func TestCustodySuite(t *testing.T) {
	suite.Run(t, new(CustodySuite))
}

// ================================================================================
// fixtures
// ================================================================================

func (s *CustodySuite) seedMember(role member.Role, mutate ...func(*builder.MemberBuilder)) (uuid.UUID, string) {
	now := time.Now().UTC()
	b := builder.NewMemberBuilder().WithRole(role).With(func(m *builder.MemberBuilder) {
		m.Email = fmt.Sprintf("%s@example.com", uuid.NewString())
		m.ValidFrom = now.Add(-24 * time.Hour)
		m.ValidUntil = now.Add(365 * 24 * time.Hour)
	})
	for _, f := range mutate {
		b.With(f)
	}
	id := dbtest.InsertMember(s.T(), s.DB, b.BuildDomain())
	return id, s.JWT.GenerateToken(s.T(), id, role)
}

func (s *CustodySuite) seedBook() uuid.UUID {
	return dbtest.InsertBook(s.T(), s.DB, builder.NewBookBuilder().AtLocation(dbtest.CentralLocationID).BuildDomain())
}

func (s *CustodySuite) staffToken() string {
	return s.JWT.GenerateToken(s.T(), uuid.New(), member.RoleStaff)
}

func (s *CustodySuite) loadBook(id uuid.UUID) *book.Book {
	b, err := repository.NewBookRepository(s.DB).FindByID(context.Background(), id)
	s.Require().NoError(err)
	return b
}

func (s *CustodySuite) loadMember(id uuid.UUID) *member.Member {
	m, err := repository.NewMemberRepository(s.DB).FindByID(context.Background(), id)
	s.Require().NoError(err)
	return m
}

func (s *CustodySuite) checkout(token string, bookID, locationID uuid.UUID) (int, resdto.TransactionResponse) {
	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/transactions",
		map[string]string{"book_id": bookID.String(), "location_id": locationID.String()}, token)
	var body resdto.TransactionResponse
	if rec.Code == http.StatusCreated {
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
	}
	return rec.Code, body
}

func (s *CustodySuite) put(path string, body any, token string, wantStatus int) resdto.TransactionResponse {
	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPut, path, body, token)
	var res resdto.TransactionResponse
	if wantStatus < 300 {
		httptest.AssertSuccessResponse(s.T(), rec, wantStatus, &res)
	} else {
		httptest.AssertErrorResponse(s.T(), rec, wantStatus, "")
	}
	return res
}

// ================================================================================
// scenarios
// ================================================================================

func (s *CustodySuite) TestFullLifecycleReturnsAtAnotherLocation() {
	memberID, memberToken := s.seedMember(member.RoleMember)
	staff := s.staffToken()
	bookID := s.seedBook()

	code, tx := s.checkout(memberToken, bookID, dbtest.CentralLocationID)
	s.Require().Equal(http.StatusCreated, code)
	s.Equal("requested", tx.Status)
	s.False(s.loadBook(bookID).Available())

	approved := s.put("/transactions/approve/"+tx.ID, map[string]string{"book_id": bookID.String()}, staff, http.StatusOK)
	s.Equal("in_possession", approved.Status)
	s.True(s.loadBook(bookID).IsHeldBy(memberID))
	s.Equal(&bookID, s.loadMember(memberID).CurrentBook())

	returning := s.put("/transactions/return/"+bookID.String(),
		map[string]string{"location_id": dbtest.HarborLocationID.String()}, memberToken, http.StatusOK)
	s.Equal("return_requested", returning.Status)
	s.Equal(dbtest.HarborLocationID.String(), returning.LocationID)

	completed := s.put("/transactions/complete-return/"+tx.ID, map[string]string{"book_id": bookID.String()}, staff, http.StatusOK)
	s.Equal("completed", completed.Status)

	b := s.loadBook(bookID)
	s.True(b.Available())
	s.True(b.Keeper().IsLocation(dbtest.HarborLocationID))
	s.Nil(s.loadMember(memberID).CurrentBook())
	s.Equal(0, dbtest.CountActiveTransactions(s.T(), s.DB, bookID))

	s.Run("second completion is a state mismatch and changes nothing", func() {
		before := s.loadBook(bookID)
		s.put("/transactions/complete-return/"+tx.ID, map[string]string{"book_id": bookID.String()}, staff, http.StatusBadRequest)
		after := s.loadBook(bookID)
		s.Equal(before.Version(), after.Version())
		s.True(after.Available())
	})

	s.Run("ledger reports no drift", func() {
		admin := s.JWT.GenerateToken(s.T(), uuid.New(), member.RoleAdmin)
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/ledger/drift", nil, admin)
		var report resdto.DriftReportResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &report)
		s.True(report.Consistent, rec.Body.String())
	})
}

func (s *CustodySuite) TestConcurrentCheckoutHasExactlyOneWinner() {
	bookID := s.seedBook()

	const racers = 8
	tokens := make([]string, racers)
	for i := range tokens {
		_, tokens[i] = s.seedMember(member.RoleMember)
	}

	codes := make([]int, racers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := range racers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/transactions",
				map[string]string{"book_id": bookID.String(), "location_id": dbtest.CentralLocationID.String()}, tokens[i])
			codes[i] = rec.Code
		}(i)
	}
	close(start)
	wg.Wait()

	created := 0
	for _, c := range codes {
		switch c {
		case http.StatusCreated:
			created++
		case http.StatusBadRequest:
		default:
			s.Failf("unexpected status", "got %d", c)
		}
	}
	s.Equal(1, created, "codes: %v", codes)
	s.Equal(1, dbtest.CountActiveTransactions(s.T(), s.DB, bookID))
	s.False(s.loadBook(bookID).Available())
}

func (s *CustodySuite) TestCancelThenAnotherMemberChecksOut() {
	_, firstToken := s.seedMember(member.RoleMember)
	_, secondToken := s.seedMember(member.RoleMember)
	bookID := s.seedBook()

	code, first := s.checkout(firstToken, bookID, dbtest.CentralLocationID)
	s.Require().Equal(http.StatusCreated, code)

	s.Run("someone else cannot cancel it", func() {
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodDelete, "/transactions/cancel/"+first.ID, nil, secondToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "")
	})

	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodDelete, "/transactions/cancel/"+first.ID, nil, firstToken)
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	s.True(s.loadBook(bookID).Available())

	code, second := s.checkout(secondToken, bookID, dbtest.HarborLocationID)
	s.Require().Equal(http.StatusCreated, code)
	s.NotEqual(first.ID, second.ID)
	s.False(s.loadBook(bookID).Available())
	s.Equal(1, dbtest.CountActiveTransactions(s.T(), s.DB, bookID))

	rec = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/transactions/"+first.ID, nil, firstToken)
	httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "")
}

func (s *CustodySuite) TestApproveWithWrongBookLeavesTransactionRequested() {
	_, token := s.seedMember(member.RoleMember)
	bookID := s.seedBook()
	staff := s.staffToken()

	code, tx := s.checkout(token, bookID, dbtest.CentralLocationID)
	s.Require().Equal(http.StatusCreated, code)

	wrong := uuid.New()
	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPut, "/transactions/approve/"+tx.ID,
		map[string]string{"book_id": wrong.String()}, staff)
	httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "identity mismatch")
	s.Contains(rec.Body.String(), wrong.String())

	rec = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/transactions/"+tx.ID, nil, token)
	var got resdto.TransactionResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
	s.Equal("requested", got.Status)
	s.Nil(got.ApprovedAt)
}

func (s *CustodySuite) TestRejectedRequests() {
	s.Run("ineligible member gets the denial reason", func() {
		_, token := s.seedMember(member.RoleMember, func(m *builder.MemberBuilder) { m.DepositHeld = false })
		bookID := s.seedBook()

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/transactions",
			map[string]string{"book_id": bookID.String(), "location_id": dbtest.CentralLocationID.String()}, token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "not eligible")
		s.Contains(rec.Body.String(), "deposit_not_held")
		s.True(s.loadBook(bookID).Available())
	})

	s.Run("unknown book is 404", func() {
		_, token := s.seedMember(member.RoleMember)
		code, _ := s.checkout(token, uuid.New(), dbtest.CentralLocationID)
		s.Equal(http.StatusNotFound, code)
	})

	s.Run("return without custody", func() {
		_, token := s.seedMember(member.RoleMember)
		bookID := s.seedBook()
		s.put("/transactions/return/"+bookID.String(),
			map[string]string{"location_id": dbtest.HarborLocationID.String()}, token, http.StatusBadRequest)
	})

	s.Run("return at a pickup-only kiosk", func() {
		_, token := s.seedMember(member.RoleMember)
		bookID := s.seedBook()
		code, tx := s.checkout(token, bookID, dbtest.CentralLocationID)
		s.Require().Equal(http.StatusCreated, code)
		s.put("/transactions/approve/"+tx.ID, map[string]string{"book_id": bookID.String()}, s.staffToken(), http.StatusOK)

		s.put("/transactions/return/"+bookID.String(),
			map[string]string{"location_id": dbtest.KioskLocationID.String()}, token, http.StatusBadRequest)
	})

	s.Run("members cannot approve", func() {
		_, token := s.seedMember(member.RoleMember)
		s.put("/transactions/approve/"+uuid.NewString(), map[string]string{"book_id": uuid.NewString()}, token, http.StatusForbidden)
	})
}

func (s *CustodySuite) TestListShowsMembersOnlyTheirOwn() {
	_, aliceToken := s.seedMember(member.RoleMember)
	bobID, bobToken := s.seedMember(member.RoleMember)

	code, aliceTx := s.checkout(aliceToken, s.seedBook(), dbtest.CentralLocationID)
	s.Require().Equal(http.StatusCreated, code)
	code, bobTx := s.checkout(bobToken, s.seedBook(), dbtest.CentralLocationID)
	s.Require().Equal(http.StatusCreated, code)

	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/transactions", nil, aliceToken)
	var list []resdto.TransactionResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &list)
	s.Require().Len(list, 1)
	s.Equal(aliceTx.ID, list[0].ID)

	rec = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/transactions?user_id="+bobID.String(), nil, aliceToken)
	httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "")

	rec = httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
		"/transactions?status=requested&user_id="+bobID.String(), nil, s.staffToken())
	list = nil
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &list)
	s.Require().Len(list, 1)
	s.Equal(bobTx.ID, list[0].ID)

	rec = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/transactions?status=lost", nil, aliceToken)
	httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
}

func (s *CustodySuite) TestListPagesWithCursor() {
	created := make(map[string]bool)
	for range 3 {
		_, token := s.seedMember(member.RoleMember)
		code, tx := s.checkout(token, s.seedBook(), dbtest.CentralLocationID)
		s.Require().Equal(http.StatusCreated, code)
		created[tx.ID] = true
	}

	seen := make(map[string]bool)
	path := "/transactions?limit=2"
	for pages := 1; ; pages++ {
		s.Require().LessOrEqual(pages, 2)
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, path, nil, s.staffToken())
		var list []resdto.TransactionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &list)
		for _, tx := range list {
			s.False(seen[tx.ID], "transaction listed twice")
			seen[tx.ID] = true
		}
		next := rec.Header().Get(api.NextCursorHeader)
		if next == "" {
			break
		}
		path = "/transactions?limit=2&after=" + url.QueryEscape(next)
	}
	s.Equal(created, seen)
}
