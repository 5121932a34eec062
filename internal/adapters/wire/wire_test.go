package wire

import (
	"errors"
	"testing"
	"time"

	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/audit"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/employee"
)

func TestEmployeeFields_ToDomain(t *testing.T) {
	t.Parallel()

	fields, err := EmployeeFields{FullName: "Bob", HireDate: " 2021-07-15 "}.ToDomain()
	if err != nil {
		t.Fatalf("ToDomain returned error: %v", err)
	}
	if !fields.HireDate.Equal(time.Date(2021, 7, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected hire date: %v", fields.HireDate)
	}

	fields, err = EmployeeFields{}.ToDomain()
	if err != nil {
		t.Fatalf("ToDomain returned error for empty date: %v", err)
	}
	if !fields.HireDate.IsZero() {
		t.Fatalf("expected zero hire date, got %v", fields.HireDate)
	}

	if _, err := (EmployeeFields{HireDate: "15/07/2021"}).ToDomain(); !errors.Is(err, employee.ErrInvalidHireDate) {
		t.Fatalf("expected ErrInvalidHireDate, got %v", err)
	}
}

func TestFromEmployee(t *testing.T) {
	t.Parallel()

	if FromEmployee(nil) != nil {
		t.Fatal("expected nil for nil employee")
	}

	got := FromEmployee(&employee.Employee{ID: 5, HireDate: time.Date(2020, 1, 9, 0, 0, 0, 0, time.UTC), EmploymentStatus: employee.StatusOnLeave})
	if got.HireDate != "2020-01-09" || got.EmploymentStatus != "ON_LEAVE" {
		t.Fatalf("unexpected resource: %+v", got)
	}
}

func TestFromAuditResult(t *testing.T) {
	t.Parallel()

	page := FromAuditResult(&audit.ListResult{
		Entries:       []*audit.Entry{{ID: 2, EmployeeID: "9", ActorID: 1, Description: "Deleted employee with ID: 9"}},
		Page:          0,
		Size:          15,
		TotalElements: 1,
	})
	if len(page.Content) != 1 || page.Content[0].UserID != 1 || page.Content[0].EmployeeID != "9" {
		t.Fatalf("unexpected page: %+v", page)
	}
}
