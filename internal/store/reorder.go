package store

import (
	"sort"

	"brieflink/internal/model"
)

// SortItems sorts note/copy entries in place by manual order, then CreatedAt, then ID.
func SortItems(items []model.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return compareItemsByOrderCreatedID(items[i], items[j]) < 0
	})
}

// SortedItems returns a sorted copy of the note or copy collection of p.
func SortedItems(p *model.Project, typ model.ItemType) []model.Item {
	xs := Collection(p, typ)
	if xs == nil {
		return nil
	}
	out := append([]model.Item{}, (*xs)...)
	SortItems(out)
	return out
}

func compareItemsByOrderCreatedID(a, b model.Item) int {
	if a.Order != b.Order {
		if a.Order < b.Order {
			return -1
		}
		return 1
	}
	if a.CreatedAt.Before(b.CreatedAt) {
		return -1
	}
	if a.CreatedAt.After(b.CreatedAt) {
		return 1
	}
	if a.ID < b.ID {
		return -1
	}
	if a.ID > b.ID {
		return 1
	}
	return 0
}

func nextOrder(items []model.Item) int {
	if len(items) == 0 {
		return 0
	}
	max := items[0].Order
	for _, it := range items[1:] {
		if it.Order > max {
			max = it.Order
		}
	}
	return max + 1
}
