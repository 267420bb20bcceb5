// Package tagx normalizes raw tag input into the canonical form stored with
// journal entries.
package tagx

import "strings"

// Normalize converts comma-separated raw input into a canonical tag set:
// pieces are trimmed, empty pieces dropped, the rest lowercased and
// deduplicated in first-occurrence order.
//
// A nil result means "no tags"; the storage convention is NULL, never an
// empty array.
func Normalize(raw string) []string {
	parts := strings.Split(raw, ",")

	var result []string
	seen := make(map[string]struct{}, len(parts))

	for _, p := range parts {
		tag := strings.ToLower(strings.TrimSpace(p))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}

	return result
}

// NormalizeList applies Normalize semantics to an already-split list,
// as received on the wire. Returns nil for an effectively empty list.
func NormalizeList(tags []string) []string {
	return Normalize(strings.Join(tags, ","))
}
