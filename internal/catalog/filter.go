package catalog

import (
	"regexp"
	"strings"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

// Filter narrows a product list on the client. Zero fields match all.
type Filter struct {
	// Category is matched exactly against the product's category name
	Category string
	// Query is a case-insensitive substring of the product name
	Query string
	// MinPrice and MaxPrice bound the price inclusively when set
	MinPrice decimal.NullDecimal
	MaxPrice decimal.NullDecimal
	// Sizes keeps products whose description holds any of the tokens as
	// a whole word, ignoring case
	Sizes []string
}

// Apply returns the products matching f, preserving order
func Apply(products []domain.Product, f Filter) []domain.Product {
	m := f.matcher()
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if m.match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Match reports whether a single product passes f
func (f Filter) Match(p domain.Product) bool {
	return f.matcher().match(p)
}

type matcher struct {
	f     Filter
	query string
	sizes []*regexp.Regexp
}

func (f Filter) matcher() matcher {
	m := matcher{f: f, query: strings.ToLower(strings.TrimSpace(f.Query))}
	for _, size := range f.Sizes {
		size = strings.TrimSpace(size)
		if size == "" {
			continue
		}
		m.sizes = append(m.sizes, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(size)+`\b`))
	}
	return m
}

func (m matcher) match(p domain.Product) bool {
	if m.f.Category != "" && p.CategoryName() != m.f.Category {
		return false
	}
	if m.query != "" && !strings.Contains(strings.ToLower(p.Name), m.query) {
		return false
	}
	if m.f.MinPrice.Valid && p.Price.LessThan(m.f.MinPrice.Decimal) {
		return false
	}
	if m.f.MaxPrice.Valid && p.Price.GreaterThan(m.f.MaxPrice.Decimal) {
		return false
	}
	if len(m.sizes) > 0 {
		if p.Description == "" {
			return false
		}
		for _, re := range m.sizes {
			if re.MatchString(p.Description) {
				return true
			}
		}
		return false
	}
	return true
}

// PriceBounds returns the lowest and highest price in products, both zero
// for an empty list. The maximum seeds the price filter's ceiling.
func PriceBounds(products []domain.Product) (lo, hi decimal.Decimal) {
	for i, p := range products {
		if i == 0 || p.Price.LessThan(lo) {
			lo = p.Price
		}
		if i == 0 || p.Price.GreaterThan(hi) {
			hi = p.Price
		}
	}
	return lo, hi
}
