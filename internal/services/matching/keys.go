// Package matching builds the comparison keys used to decide whether two
// student entries refer to the same person. Matching is exact after
// lower-casing; there is no fuzzy scoring.
package matching

import (
	"strings"
	"time"

	"student-sync-backend/internal/models"
)

const sep = "|"

const dateLayout = "2006-01-02"

func normalize(s string) string {
	return strings.ToLower(s)
}

// NameKey is the key for a (given name, family name) pair.
func NameKey(firstName, familyName string) string {
	return normalize(firstName) + sep + normalize(familyName)
}

// StudentNameKey is NameKey for a persisted student.
func StudentNameKey(s models.Student) string {
	return NameKey(s.FirstName, s.FatherName)
}

// Field selects one identity attribute of a student.
type Field func(models.Student) string

var (
	FirstName       Field = func(s models.Student) string { return s.FirstName }
	FatherName      Field = func(s models.Student) string { return s.FatherName }
	GrandfatherName Field = func(s models.Student) string { return s.GrandfatherName }
	MotherName      Field = func(s models.Student) string { return s.MotherName }
	Phone           Field = func(s models.Student) string { return s.Phone }
	DateOfBirth     Field = func(s models.Student) string { return formatDate(s.DateOfBirth) }
)

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

// IdentityKey joins the lower-cased fields in order. Missing values become
// empty segments, so two students both lacking a field agree on it.
func IdentityKey(s models.Student, fields ...Field) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = normalize(f(s))
	}
	return strings.Join(parts, sep)
}
