// internal/adapters/out/firestore/common/helpers.go
package common

import (
	"strings"
	"time"
)

// TrimPtr trims a *string in place, mapping empty results to nil.
func TrimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// NormalizeTimePtr converts a *time.Time to UTC, mapping zero values to nil.
func NormalizeTimePtr(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}

// Chunk splits ids into Firestore "in"-query sized slices (max 10).
func Chunk(ids []string, size int) [][]string {
	if size <= 0 {
		size = 10
	}
	var out [][]string
	for i := 0; i < len(ids); i += size {
		end := i + size
		if end > len(ids) {
			end = len(ids)
		}
		out = append(out, ids[i:end])
	}
	return out
}

// NormalizeIDs trims, drops empties, and deduplicates while keeping order.
func NormalizeIDs(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, id := range raw {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
