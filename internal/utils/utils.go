package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrInvalidDate is returned by ParseDate for input in none of the accepted layouts.
var ErrInvalidDate = errors.New("date: use YYYY-MM-DD or RFC3339 datetime")

var dateLayouts = []string{
	"2006-01-02", // date only
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
}

// ParseDate parses a date-only ("2006-01-02") or RFC3339 value.
// Date-only and zone-less values are taken as UTC; the result is always UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// IsUniqueViolation reports whether err is a unique constraint violation,
// either translated by GORM or raw from PostgreSQL (code 23505).
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		return pge.Code == "23505"
	}
	return false
}
