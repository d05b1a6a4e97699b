package validate

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 100 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// ID validates a resource identifier (crop/interest ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 100 {
		return "", false
	}
	return s, true
}

// Text trims free-form text fields (description, location, message...).
func Text(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Search trims a substring filter and clamps it to a sane length so a
// long pattern cannot force an expensive scan.
func Search(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 50 {
		s = s[:50]
	}
	return s
}

// Price accepts a finite, strictly positive price per unit.
func Price(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// Quantity accepts a finite, non-negative stock quantity.
func Quantity(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// InterestQty accepts a finite requested quantity of at least 1.
func InterestQty(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 1
}

// LatestLimit parses a caller-supplied result cap, clamped into [1,20]
// with a default of 6.
func LatestLimit(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 6
	}
	if n > 20 {
		return 20
	}
	return n
}

// InterestSort maps a caller-selected sort key to its ORDER BY clause.
// Unknown keys fall back to newest-first.
func InterestSort(s string) string {
	switch strings.TrimSpace(s) {
	case "quantity-desc":
		return "i.quantity DESC, i.created_at DESC"
	case "quantity-asc":
		return "i.quantity ASC, i.created_at DESC"
	case "status":
		return "i.status ASC, i.created_at DESC"
	default:
		return "i.created_at DESC"
	}
}
