package promotion

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// SortByPriority orders promotions by priority descending, then by
// creation time descending (newest first on ties). Stable so equal
// records keep their input order.
func SortByPriority(promos []Promotion) {
	sort.SliceStable(promos, func(i, j int) bool {
		if promos[i].Priority != promos[j].Priority {
			return promos[i].Priority > promos[j].Priority
		}
		return promos[i].CreatedAt.After(promos[j].CreatedAt)
	})
}

// FilterActive returns the promotions that are active and inside their
// validity window at the given instant, ordered by priority. No target
// restriction is applied. Pure: the input slice is not modified.
func FilterActive(promos []Promotion, now time.Time) []Promotion {
	var out []Promotion
	for _, p := range promos {
		if p.IsActive && p.WithinWindow(now) {
			out = append(out, p)
		}
	}
	SortByPriority(out)
	return out
}

// FilterForTarget returns the active, in-window promotions whose
// targeting matches the given product (and optional category), ordered
// by priority. productID is required; categoryID may be uuid.Nil.
func FilterForTarget(promos []Promotion, now time.Time, productID, categoryID uuid.UUID) ([]Promotion, error) {
	if productID == uuid.Nil {
		return nil, ErrProductRequired
	}

	var out []Promotion
	for _, p := range promos {
		if !p.IsActive || !p.WithinWindow(now) {
			continue
		}
		if !p.MatchesTarget(productID, categoryID) {
			continue
		}
		out = append(out, p)
	}
	SortByPriority(out)
	return out, nil
}
