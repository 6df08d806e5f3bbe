package queries

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"book-custody/internal/pkg/errs"
	"book-custody/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	MaxListLimit    = 200
	CursorVersionV1 = "v1"
)

var ErrInvalidCursor = errs.Mark(errs.New("invalid cursor"), errs.ErrValidation)

// EncodeAfterCursor points just past t in a newest-first listing. Microsecond
// precision matches the Postgres timestamp column.
func EncodeAfterCursor(t time.Time, id uuid.UUID) string {
	data := CursorVersionV1 + ":" + strconv.FormatInt(t.UnixMicro(), 10) + "-" + id.String()
	return base64.URLEncoding.EncodeToString([]byte(data))
}

func DecodeAfterCursor(cursor string) (shared.TransactionCursor, error) {
	if cursor == "" {
		return shared.TransactionCursor{}, errs.Wrap(ErrInvalidCursor, "cursor cannot be empty")
	}
	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return shared.TransactionCursor{}, errs.Wrap(ErrInvalidCursor, "not base64url")
	}

	payload, ok := strings.CutPrefix(string(decoded), CursorVersionV1+":")
	if !ok {
		return shared.TransactionCursor{}, errs.Wrap(ErrInvalidCursor, "unknown cursor version")
	}
	micros, rawID, ok := strings.Cut(payload, "-")
	if !ok {
		return shared.TransactionCursor{}, errs.Wrap(ErrInvalidCursor, "expected '<micros>-<uuid>'")
	}
	ts, err := strconv.ParseInt(micros, 10, 64)
	if err != nil {
		return shared.TransactionCursor{}, errs.Wrapf(ErrInvalidCursor, "timestamp %q", micros)
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return shared.TransactionCursor{}, errs.Wrapf(ErrInvalidCursor, "id %q", rawID)
	}
	return shared.TransactionCursor{CreatedAt: time.UnixMicro(ts).UTC(), ID: id}, nil
}

// ValidateLimit falls back to def for non-positive limits and caps at MaxListLimit.
func ValidateLimit(limit, def int) int {
	if limit <= 0 {
		limit = def
	}
	if limit <= 0 || limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
