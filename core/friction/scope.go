package friction

import (
	"fmt"
	"strings"

	"github.com/kilianp07/rentalfriction/core/model"
)

// Scope restricts an analysis to a subset of rentals by check-in method.
type Scope string

const (
	ScopeAll     Scope = "all"
	ScopeMobile  Scope = "mobile"
	ScopeConnect Scope = "connect"
)

// ParseScope accepts the canonical labels plus the "-only" spellings. An empty
// label means ScopeAll.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return ScopeAll, nil
	case "mobile", "mobile-only":
		return ScopeMobile, nil
	case "connect", "connect-only":
		return ScopeConnect, nil
	}
	return "", fmt.Errorf("unknown scope %q", s)
}

// Matches reports whether a rental with the given check-in type is in scope.
func (s Scope) Matches(c model.CheckinType) bool {
	switch s {
	case ScopeMobile:
		return c == model.CheckinMobile
	case ScopeConnect:
		return c == model.CheckinConnect
	default:
		return true
	}
}

// FilterRecords returns the records in scope.
func (s Scope) FilterRecords(records []model.RentalRecord) []model.RentalRecord {
	out := make([]model.RentalRecord, 0, len(records))
	for _, r := range records {
		if s.Matches(r.CheckinType) {
			out = append(out, r)
		}
	}
	return out
}

// FilterPairs returns the pairs whose current rental is in scope.
func (s Scope) FilterPairs(pairs []model.ChainedPair) []model.ChainedPair {
	out := make([]model.ChainedPair, 0, len(pairs))
	for _, p := range pairs {
		if s.Matches(p.Current.CheckinType) {
			out = append(out, p)
		}
	}
	return out
}

// CountRecords is the size of the scope over the full record set.
func (s Scope) CountRecords(records []model.RentalRecord) int {
	n := 0
	for _, r := range records {
		if s.Matches(r.CheckinType) {
			n++
		}
	}
	return n
}
