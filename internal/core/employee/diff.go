package employee

import (
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	nullValue  = "null"
)

// Diff は before と after の項目差分を "Label: old -> new" 形式で列挙します。差分がなければ空文字を返します。
func Diff(before, after *Employee) string {
	fields := []struct {
		label         string
		changed       bool
		before, after string
	}{
		{"Full Name", before.FullName != after.FullName, before.FullName, after.FullName},
		{"Job Title", before.JobTitle != after.JobTitle, before.JobTitle, after.JobTitle},
		{"Department", before.Department != after.Department, before.Department, after.Department},
		{"Hire Date", !before.HireDate.Equal(after.HireDate), formatDate(before.HireDate), formatDate(after.HireDate)},
		{"Employment Status", before.EmploymentStatus != after.EmploymentStatus, formatStatus(before.EmploymentStatus), formatStatus(after.EmploymentStatus)},
		{"Email", !equalOptional(before.Email, after.Email), formatOptional(before.Email), formatOptional(after.Email)},
		{"Phone", !equalOptional(before.Phone, after.Phone), formatOptional(before.Phone), formatOptional(after.Phone)},
		{"Address", !equalOptional(before.Address, after.Address), formatOptional(before.Address), formatOptional(after.Address)},
	}

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.changed {
			parts = append(parts, fmt.Sprintf("%s: %s -> %s", f.label, f.before, f.after))
		}
	}
	return strings.Join(parts, ", ")
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return nullValue
	}
	return t.Format(dateLayout)
}

func formatStatus(s Status) string {
	if s == "" {
		return nullValue
	}
	return string(s)
}

func formatOptional(v *string) string {
	if v == nil {
		return nullValue
	}
	return *v
}
