package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tickettrail/tickettrail-backend/pkg/types"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any cursor query can request.
	MaxLimit = 100

	cursorSeparator = "|"
)

// Params holds cursor pagination inputs from controllers or services.
type Params struct {
	Limit  int
	Cursor string
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// LimitWithBuffer returns the normalization result plus one to detect the next page.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// Cursor is the position of the last row on a page. Price history is
// ordered by date desc then price asc, and one event can record
// several prices on the same date, so the date alone cannot resume a
// walk: both sort columns are part of the cursor.
type Cursor struct {
	Date  types.Date
	Price decimal.Decimal
}

// EncodeCursor builds a base64 cursor from the last observation on the
// page.
func EncodeCursor(d types.Date, price decimal.Decimal) string {
	return base64.StdEncoding.EncodeToString([]byte(d.String() + cursorSeparator + price.String()))
}

// ParseCursor decodes the cursor string back into a page position.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	datePart, pricePart, found := strings.Cut(string(decoded), cursorSeparator)
	if !found {
		return nil, fmt.Errorf("invalid cursor %q", string(decoded))
	}
	d, err := types.ParseDate(datePart)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor date: %w", err)
	}
	price, err := decimal.NewFromString(pricePart)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor price: %w", err)
	}
	return &Cursor{Date: d, Price: price}, nil
}
