package vent

import "strings"

// SplitEvents parses a whitespace-delimited event list.
// Empty names are dropped and duplicates collapse to their first occurrence.
func SplitEvents(events string) []string {
	fields := strings.Fields(events)
	if len(fields) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(fields))
	result := fields[:0]
	for _, name := range fields {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		result = append(result, name)
	}
	return result
}

// joinEvents parses several event lists as one.
func joinEvents(lists []string) []string {
	return SplitEvents(strings.Join(lists, " "))
}
