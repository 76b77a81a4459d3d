// Package form converts raw request values into typed values at the HTTP
// boundary. Every parser returns an explicit result; callers decide how to
// recover.
package form

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-dairy-ledger/internal/model"
)

var ErrEmpty = errors.New("value is empty")

// Date parses a YYYY-MM-DD value. Empty input yields ErrEmpty.
func Date(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrEmpty
	}
	return time.ParseInLocation(model.DateLayout, raw, time.Local)
}

// DateOrToday parses raw, falling back to today's date. ok is false when raw
// was present but malformed, so callers can log the fallback.
func DateOrToday(raw string, now time.Time) (d time.Time, ok bool) {
	d, err := Date(raw)
	if err == nil {
		return d, true
	}
	return Today(now), errors.Is(err, ErrEmpty)
}

// OptionalDate returns nil for empty input.
func OptionalDate(raw string) (*time.Time, error) {
	d, err := Date(raw)
	if errors.Is(err, ErrEmpty) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Today truncates now to midnight in its location.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// Decimal parses a monetary or quantity value. Empty input is zero;
// anything non-numeric is an error.
func Decimal(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

// OptionalUUID returns nil for empty input.
func OptionalUUID(raw string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// Page parses a 1-based page number; malformed input is page 1.
func Page(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return n
}
