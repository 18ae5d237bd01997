package repo

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SortField is a list ordering key as accepted on the wire.
type SortField string

const (
	SortCreatedAt SortField = "createdAt"
	SortUpdatedAt SortField = "updatedAt"
	SortDueDate   SortField = "dueDate"
	SortTitle     SortField = "title"
	SortStatus    SortField = "status"
)

var sortColumns = map[SortField]string{
	SortCreatedAt: "created_at",
	SortUpdatedAt: "updated_at",
	SortDueDate:   "due_date",
	SortTitle:     "title",
	SortStatus:    "status",
}

// ParseSortField returns the sort field named by raw, falling back to createdAt.
func ParseSortField(raw string) SortField {
	f := SortField(raw)
	if _, ok := sortColumns[f]; ok {
		return f
	}
	return SortCreatedAt
}

// TodoFilter narrows a todo listing. Zero values mean "no constraint";
// ownership and the not-deleted condition are applied by the repository.
type TodoFilter struct {
	// Status is compared verbatim; unknown values simply match nothing.
	Status string
	// Search is a lower-cased substring matched against title or description.
	Search string
	From   *time.Time
	To     *time.Time
	SortBy SortField
	Desc   bool
}

func (f TodoFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if f.From != nil {
		q = q.Where("due_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("due_date <= ?", *f.To)
	}

	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = sortColumns[SortCreatedAt]
	}
	return q.
		Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: f.Desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: f.Desc})
}

// CacheKey is a canonical encoding of f, stable for equal filters.
func (f TodoFilter) CacheKey() string {
	return fmt.Sprintf("status=%s|search=%s|from=%s|to=%s|sort=%s|desc=%t",
		f.Status, strings.ToLower(f.Search), formatBound(f.From), formatBound(f.To), ParseSortField(string(f.SortBy)), f.Desc)
}

func formatBound(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
