package promotion

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

var baseTime = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func activePromo(name string, priority int, createdAt time.Time) Promotion {
	return Promotion{
		ID:         uuid.New(),
		Name:       name,
		Type:       TypePercentage,
		Value:      dec("10"),
		StartDate:  baseTime.Add(-24 * time.Hour),
		EndDate:    baseTime.Add(24 * time.Hour),
		TargetType: TargetAll,
		Priority:   priority,
		IsActive:   true,
		CreatedAt:  createdAt,
	}
}

func TestWithinWindowBoundaries(t *testing.T) {
	p := activePromo("window", 0, baseTime)
	start := p.StartDate
	end := p.EndDate

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before start", start.Add(-time.Second), false},
		{"exactly at start", start, true},
		{"inside window", baseTime, true},
		{"exactly at end", end, true},
		{"after end", end.Add(time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.WithinWindow(tt.now); got != tt.want {
				t.Fatalf("WithinWindow(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestFilterActiveExcludesInactiveAndOutOfWindow(t *testing.T) {
	current := activePromo("current", 0, baseTime)

	expired := activePromo("expired", 0, baseTime)
	expired.EndDate = baseTime.Add(-time.Hour)

	upcoming := activePromo("upcoming", 0, baseTime)
	upcoming.StartDate = baseTime.Add(time.Hour)

	deleted := activePromo("deleted", 0, baseTime)
	deleted.IsActive = false

	got := FilterActive([]Promotion{current, expired, upcoming, deleted}, baseTime)
	if len(got) != 1 || got[0].Name != "current" {
		t.Fatalf("expected only the current promotion, got %d results", len(got))
	}
}

func TestFilterForTargetTargeting(t *testing.T) {
	productID := uuid.New()
	otherProduct := uuid.New()
	categoryID := uuid.New()

	all := activePromo("all", 0, baseTime)

	forProduct := activePromo("for-product", 0, baseTime)
	forProduct.TargetType = TargetProduct
	forProduct.TargetProducts = []uuid.UUID{productID}

	forOtherProduct := activePromo("for-other", 0, baseTime)
	forOtherProduct.TargetType = TargetProduct
	forOtherProduct.TargetProducts = []uuid.UUID{otherProduct}

	forCategory := activePromo("for-category", 0, baseTime)
	forCategory.TargetType = TargetCategory
	forCategory.TargetCategories = []uuid.UUID{categoryID}

	promos := []Promotion{all, forProduct, forOtherProduct, forCategory}

	t.Run("product with category", func(t *testing.T) {
		got, err := FilterForTarget(promos, baseTime, productID, categoryID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 matches, got %d", len(got))
		}
		for _, p := range got {
			if p.Name == "for-other" {
				t.Fatal("promotion targeting another product must not match")
			}
		}
	})

	t.Run("product without category context", func(t *testing.T) {
		got, err := FilterForTarget(promos, baseTime, productID, uuid.Nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, p := range got {
			if p.TargetType == TargetCategory {
				t.Fatal("category promotion must not match without a category")
			}
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 matches, got %d", len(got))
		}
	})

	t.Run("category mismatch", func(t *testing.T) {
		got, err := FilterForTarget(promos, baseTime, productID, uuid.New())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, p := range got {
			if p.Name == "for-category" {
				t.Fatal("promotion for a different category must not match")
			}
		}
	})

	t.Run("product required", func(t *testing.T) {
		_, err := FilterForTarget(promos, baseTime, uuid.Nil, categoryID)
		if !errors.Is(err, ErrProductRequired) {
			t.Fatalf("expected ErrProductRequired, got %v", err)
		}
	})
}

func TestSortByPriorityOrdering(t *testing.T) {
	older := activePromo("older", 5, baseTime.Add(-2*time.Hour))
	newer := activePromo("newer", 5, baseTime.Add(-time.Hour))
	top := activePromo("top", 10, baseTime.Add(-3*time.Hour))
	low := activePromo("low", 1, baseTime)

	promos := []Promotion{older, low, newer, top}
	SortByPriority(promos)

	wantOrder := []string{"top", "newer", "older", "low"}
	for i, want := range wantOrder {
		if promos[i].Name != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, promos[i].Name)
		}
	}

	// Non-increasing priority throughout
	for i := 1; i < len(promos); i++ {
		if promos[i].Priority > promos[i-1].Priority {
			t.Fatal("priorities must be non-increasing")
		}
	}
}
