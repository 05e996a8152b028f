package templates

import (
	"strconv"

	"github.com/csg33k/employee-roster/internal/roster"
)

// itoa converts an int64 to a string, used for building URL paths in templates.
func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

// joinSkills renders a skill list the way the table and the form show it.
func joinSkills(skills []string) string {
	return roster.JoinSkills(skills)
}
