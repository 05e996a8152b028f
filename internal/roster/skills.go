package roster

import (
	"fmt"
	"strings"
)

// EmptySegments decides what happens to blank pieces of the skills field,
// e.g. the one after a trailing comma.
type EmptySegments string

const (
	// KeepEmpty preserves blank pieces as "" entries.
	KeepEmpty EmptySegments = "keep"
	// DropEmpty discards them.
	DropEmpty EmptySegments = "drop"
)

func ParseEmptySegments(s string) (EmptySegments, error) {
	switch m := EmptySegments(strings.ToLower(strings.TrimSpace(s))); m {
	case KeepEmpty, DropEmpty:
		return m, nil
	case "":
		return KeepEmpty, nil
	default:
		return "", fmt.Errorf("unknown empty segment mode %q (want keep or drop)", s)
	}
}

// ParseSkills splits the comma-separated skills field and trims each piece.
// Order and duplicates are kept.
func ParseSkills(raw string, mode EmptySegments) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" && mode == DropEmpty {
			continue
		}
		skills = append(skills, p)
	}
	return skills
}

// JoinSkills is the inverse used to fill the form and the table cell.
func JoinSkills(skills []string) string {
	return strings.Join(skills, ", ")
}
