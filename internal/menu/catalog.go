package menu

import "strings"

// FindAvailable filters items by group, category and a case-insensitive
// name search. Empty filters match everything. Unavailable items are
// never listed.
func FindAvailable(items []Item, group Group, category, search string) []Item {
	search = strings.ToLower(strings.TrimSpace(search))

	out := make([]Item, 0, len(items))
	for _, item := range items {
		if !item.IsAvailable {
			continue
		}
		if group != "" && item.Group != group {
			continue
		}
		if category != "" && item.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(item.Name), search) {
			continue
		}
		out = append(out, item)
	}
	return out
}
