package eligibility

import (
	"fmt"
	"time"

	"book-custody/internal/domain/member"
	"book-custody/internal/pkg/errs"
)

type Reason string

const (
	ReasonSubscriptionInactive Reason = "subscription_inactive"
	ReasonDepositNotHeld       Reason = "deposit_not_held"
	ReasonActiveLoanLimit      Reason = "active_loan_limit"
)

type Decision struct {
	Approved bool
	Reason   Reason
}

func Approve() Decision           { return Decision{Approved: true} }
func Deny(reason Reason) Decision { return Decision{Reason: reason} }

// Err is nil for an approval and a *DeniedError otherwise.
func (d Decision) Err() error {
	if d.Approved {
		return nil
	}
	return &DeniedError{Reason: d.Reason}
}

func (d Decision) String() string {
	if d.Approved {
		return "approved"
	}
	return "denied: " + string(d.Reason)
}

// Applicant is the slice of member state the decision depends on.
type Applicant struct {
	Tier         member.Tier
	Subscription member.Subscription
	DepositHeld  bool
	ActiveLoans  int
}

func ApplicantOf(m *member.Member, activeLoans int) Applicant {
	return Applicant{
		Tier:         m.Tier(),
		Subscription: m.Subscription(),
		DepositHeld:  m.DepositHeld(),
		ActiveLoans:  activeLoans,
	}
}

// DefaultLoanLimits allows every tier a single active loan.
var DefaultLoanLimits = map[member.Tier]int{
	member.TierBasic:   1,
	member.TierPremium: 1,
}

type Checker struct {
	loanLimits map[member.Tier]int
}

func NewChecker() *Checker {
	return &Checker{loanLimits: DefaultLoanLimits}
}

func NewCheckerWithLimits(limits map[member.Tier]int) *Checker {
	return &Checker{loanLimits: limits}
}

// Check never mutates anything; the first failing rule wins.
func (c *Checker) Check(a Applicant, now time.Time) Decision {
	if !a.Subscription.ActiveAt(now) {
		return Deny(ReasonSubscriptionInactive)
	}
	if !a.DepositHeld {
		return Deny(ReasonDepositNotHeld)
	}
	if a.ActiveLoans >= c.limitFor(a.Tier) {
		return Deny(ReasonActiveLoanLimit)
	}
	return Approve()
}

func (c *Checker) limitFor(tier member.Tier) int {
	if limit, ok := c.loanLimits[tier]; ok {
		return limit
	}
	return 1
}

// DeniedError carries the denial reason up to the caller.
type DeniedError struct {
	Reason Reason
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("member is not eligible: %s", e.Reason)
}

func (e *DeniedError) Is(target error) bool {
	return target == errs.ErrIneligible
}
