package employee

import (
	"testing"
	"time"
)

func TestDiff(t *testing.T) {
	t.Parallel()

	base := func() *Employee {
		return &Employee{
			FullName:         "Alice",
			JobTitle:         "Analyst",
			Department:       "Finance",
			HireDate:         time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			EmploymentStatus: StatusActive,
			Email:            strPtr("alice@x.com"),
		}
	}

	cases := []struct {
		name   string
		mutate func(*Employee)
		want   string
	}{
		{"no changes", func(*Employee) {}, ""},
		{"single field", func(e *Employee) { e.JobTitle = "Manager" }, "Job Title: Analyst -> Manager"},
		{
			"fixed order",
			func(e *Employee) {
				e.Address = strPtr("1 Main St")
				e.FullName = "Alice B"
				e.HireDate = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
				e.EmploymentStatus = StatusOnLeave
			},
			"Full Name: Alice -> Alice B, Hire Date: 2024-01-15 -> 2024-02-01, Employment Status: ACTIVE -> ON_LEAVE, Address: null -> 1 Main St",
		},
		{"cleared optional", func(e *Employee) { e.Email = nil }, "Email: alice@x.com -> null"},
		{"null versus literal null", func(e *Employee) { e.Phone = strPtr("null") }, "Phone: null -> null"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			before := base()
			after := base()
			tc.mutate(after)

			if got := Diff(before, after); got != tc.want {
				t.Fatalf("unexpected diff:\nwant %q\ngot  %q", tc.want, got)
			}
		})
	}
}
