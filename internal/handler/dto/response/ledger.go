package response

import (
	"book-custody/internal/usecase/queries"
)

type CustodianResponse struct {
	BookID         string  `json:"book_id"`
	KeeperKind     string  `json:"keeper_kind"`
	KeeperID       string  `json:"keeper_id"`
	TransactionID  *string `json:"transaction_id,omitempty"`
	Status         *string `json:"status,omitempty"`
	AwaitingPickup bool    `json:"awaiting_pickup"`
}

func FromCustodianView(v *queries.CustodianView) *CustodianResponse {
	res := &CustodianResponse{
		BookID:         v.BookID.String(),
		KeeperKind:     v.KeeperKind,
		KeeperID:       v.KeeperID.String(),
		Status:         v.Status,
		AwaitingPickup: v.AwaitingPickup,
	}
	if v.TransactionID != nil {
		id := v.TransactionID.String()
		res.TransactionID = &id
	}
	return res
}

type DriftReportResponse struct {
	CheckedAt          int64               `json:"checked_at"`
	Consistent         bool                `json:"consistent"`
	Books              int                 `json:"books"`
	Members            int                 `json:"members"`
	ActiveTransactions int                 `json:"active_transactions"`
	Drifts             []queries.DriftView `json:"drifts"`
}

func FromDriftReport(r *queries.DriftReport) *DriftReportResponse {
	drifts := r.Drifts
	if drifts == nil {
		drifts = []queries.DriftView{}
	}
	return &DriftReportResponse{
		CheckedAt:          r.CheckedAt.Unix(),
		Consistent:         r.Consistent(),
		Books:              r.Books,
		Members:            r.Members,
		ActiveTransactions: r.Transactions,
		Drifts:             drifts,
	}
}
