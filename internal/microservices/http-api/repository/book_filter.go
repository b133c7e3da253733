package repository

import (
	"strings"
)

// Sortable book columns, keyed by the name accepted in the sort query parameter.
var sortColumns = map[string]string{
	"rating":       "books.rating",
	"heat":         "books.heat",
	"publish_date": "books.publish_date",
}

// SortOrder is a single requested ordering. The zero value means catalogue order.
type SortOrder struct {
	Field string
	Desc  bool
}

// ParseSort parses "field" or "-field". It returns false for unknown fields.
func ParseSort(raw string) (SortOrder, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SortOrder{}, true
	}
	order := SortOrder{}
	if strings.HasPrefix(raw, "-") {
		order.Desc = true
		raw = raw[1:]
	}
	if _, ok := sortColumns[raw]; !ok {
		return SortOrder{}, false
	}
	order.Field = raw
	return order, true
}

// clauses renders ORDER BY terms; id ASC always comes last so equal keys keep a stable order.
func (s SortOrder) clauses() []string {
	column, ok := sortColumns[s.Field]
	if !ok {
		return []string{"books.heat DESC", "books.rating DESC", "books.id ASC"}
	}
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	nulls := ""
	if s.Field == "publish_date" {
		nulls = " NULLS LAST"
	}
	return []string{column + " " + dir + nulls, "books.id ASC"}
}

// BookFilter holds the catalogue predicates. All set predicates must hold.
type BookFilter struct {
	// Category matches the book genre or the slug of one of its categories. "" and "all" match everything.
	Category string
	// Search tokens must each appear in title, author, genre or description.
	Search string
	// PremiumOnly, when set, keeps only books whose is_premium_only equals it.
	PremiumOnly *bool
	// ExcludePremiumOnly drops premium-only books; set for viewers without premium access.
	ExcludePremiumOnly bool
	Sort               SortOrder
}

func (f BookFilter) category() string {
	c := strings.TrimSpace(f.Category)
	if strings.EqualFold(c, "all") {
		return ""
	}
	return c
}

func (f BookFilter) searchTokens() []string {
	return strings.Fields(f.Search)
}

// likePattern wraps a user token for ILIKE, escaping the wildcard characters it may contain.
func likePattern(token string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(token) + "%"
}
