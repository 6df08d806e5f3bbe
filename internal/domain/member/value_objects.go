package member

import (
	"regexp"
	"strings"
	"time"

	"book-custody/internal/pkg/errs"
)

var (
	ErrInvalidEmail        = errs.Mark(errs.New("invalid email format"), errs.ErrValidation)
	ErrInvalidRole         = errs.Mark(errs.New("invalid role"), errs.ErrValidation)
	ErrInvalidTier         = errs.Mark(errs.New("invalid tier"), errs.ErrValidation)
	ErrInvalidSubscription = errs.Mark(errs.New("subscription must end after it starts"), errs.ErrValidation)
	ErrMemberNotFound      = errs.Mark(errs.New("member not found"), errs.ErrNotFound)
	ErrAlreadyHoldsBook    = errs.Mark(errs.New("member already holds a book"), errs.ErrStateConflict)
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type Email struct {
	value string
}

func NewEmail(s string) (Email, error) {
	s = strings.TrimSpace(s)
	if !emailRegex.MatchString(s) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: s}, nil
}

func (e Email) Value() string {
	return e.value
}

// Subscription is the paid membership window maintained by billing.
// ValidUntil is exclusive.
type Subscription struct {
	ValidFrom  time.Time
	ValidUntil time.Time
}

func NewSubscription(from, until time.Time) (Subscription, error) {
	if !until.After(from) {
		return Subscription{}, ErrInvalidSubscription
	}
	return Subscription{ValidFrom: from, ValidUntil: until}, nil
}

func (s Subscription) ActiveAt(t time.Time) bool {
	return !t.Before(s.ValidFrom) && t.Before(s.ValidUntil)
}
