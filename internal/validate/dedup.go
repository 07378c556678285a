package validate

import "fmt"

// dedupKey implements spec.md §4.5 and §8's dedup rule: two errors collapse
// iff they share code, effective range, and message; when there is no
// range, code+message alone decide.
func dedupKey(e ValidationError) string {
	if e.Location == nil {
		return e.Code + "\x00" + e.Message
	}
	r := e.Location.IdentifierRange
	return fmt.Sprintf("%s\x00%d:%d-%d:%d\x00%s", e.Code, r.Start.Line, r.Start.Column, r.End.Line, r.End.Column, e.Message)
}

// dedup removes duplicate entries, keeping the first occurrence. Idempotent:
// dedup(dedup(e)) == dedup(e).
func dedup(entries []ValidationError) []ValidationError {
	seen := make(map[string]bool, len(entries))
	out := make([]ValidationError, 0, len(entries))
	for _, e := range entries {
		k := dedupKey(e)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, e)
	}
	return out
}
