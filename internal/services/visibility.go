package services

import "roomrequests/internal/domain"

// Visible returns, in input order, every non-draft item plus every draft item
// owned by the viewer. Drafts belonging to other users are dropped. The input
// slice is not modified.
func Visible[T domain.DraftItem](viewer domain.User, items []T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !item.Draft() || item.OwnerID() == viewer.ID {
			out = append(out, item)
		}
	}
	return out
}
