// Package query implements the catalog filtering and search engine.
package query

import (
	"strings"

	"promptvault/internal/models"
)

// Filter returns the items visible for the given category and search text, in
// input order. The pipeline is fixed:
//
//  1. Format partition: the "thumbnail" category shows only thumbnail-format
//     items; every other category (including "all" and "favorites") hides
//     them. Square and thumbnail items never share a result set.
//  2. Category filter: "favorites" keeps wishlist members; any other
//     non-reserved category matches the item's category ID.
//  3. Search: whitespace-split terms, each matched case-insensitively as a
//     substring of title, description, category ID, or any tag. All terms
//     must match (AND).
//
// The partition runs before everything else on purpose — do not reorder it
// behind the category filter, the "favorites" view depends on it.
func Filter(items []models.CatalogItem, activeCategory, search string, wishlist []string) []models.CatalogItem {
	terms := splitTerms(search)
	wished := make(map[string]struct{}, len(wishlist))
	for _, id := range wishlist {
		wished[id] = struct{}{}
	}

	var out []models.CatalogItem
	for _, item := range items {
		if activeCategory == models.CategoryThumbnail {
			if item.EffectiveFormat() != models.FormatThumbnail {
				continue
			}
		} else if item.EffectiveFormat() == models.FormatThumbnail {
			continue
		}

		switch activeCategory {
		case models.CategoryAll, models.CategoryThumbnail:
			// No category filtering.
		case models.CategoryFavorites:
			if _, ok := wished[item.ID]; !ok {
				continue
			}
		default:
			if item.CategoryID != activeCategory {
				continue
			}
		}

		if !matchesAll(item, terms) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// splitTerms lowercases and whitespace-splits the search text. Whitespace-only
// input yields no terms, which disables search filtering.
func splitTerms(search string) []string {
	return strings.Fields(strings.ToLower(search))
}

// matchesAll reports whether every term is a substring of the item's title,
// description, category ID, or one of its tags.
func matchesAll(item models.CatalogItem, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	title := strings.ToLower(item.Title)
	desc := strings.ToLower(item.Description)
	category := strings.ToLower(item.CategoryID)

	for _, term := range terms {
		if strings.Contains(title, term) || strings.Contains(desc, term) || strings.Contains(category, term) {
			continue
		}
		found := false
		for _, tag := range item.Tags {
			if strings.Contains(strings.ToLower(tag), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
