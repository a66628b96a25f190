package shop

import (
	"context"

	"github.com/ukydev/autoservice/internal/db"
	"github.com/ukydev/autoservice/internal/models"
)

func employees(tx db.Tx) db.Table[models.Employee] { return tx.Employees() }

func validateEmployee(e models.Employee) error {
	err := firstError(
		required(e.LastName, "last name"),
		required(e.FirstName, "first name"),
		required(e.Phone, "phone"),
		required(e.Position, "position"),
	)
	switch {
	case err != nil:
		return err
	case e.Salary < 0:
		return invalid("salary must not be negative")
	case e.Experience < 0:
		return invalid("experience must not be negative")
	case e.Bonus != nil && *e.Bonus < 0:
		return invalid("bonus must not be negative")
	}
	return nil
}

// CreateEmployee stores a new employee. Phones are unique among employees.
func (s *Shop) CreateEmployee(ctx context.Context, e models.Employee) (models.Employee, error) {
	if err := validateEmployee(e); err != nil {
		return e, err
	}
	var created models.Employee
	err := s.write(ctx, func(ctx context.Context, tx db.Tx) error {
		if err := ensureUnique(ctx, tx.Employees(), "phone", e.Phone, 0, "employee"); err != nil {
			return err
		}
		var err error
		created, err = tx.Employees().Insert(ctx, e)
		return err
	})
	return created, err
}

// UpdateEmployee replaces the employee with e.ID.
func (s *Shop) UpdateEmployee(ctx context.Context, e models.Employee) error {
	if err := validateEmployee(e); err != nil {
		return err
	}
	return s.write(ctx, func(ctx context.Context, tx db.Tx) error {
		if _, err := tx.Employees().Get(ctx, e.ID); err != nil {
			return err
		}
		if err := ensureUnique(ctx, tx.Employees(), "phone", e.Phone, e.ID, "employee"); err != nil {
			return err
		}
		return tx.Employees().Update(ctx, e)
	})
}

// DeleteEmployee removes the employee and unlinks it from its repairs.
func (s *Shop) DeleteEmployee(ctx context.Context, id int64) error {
	return s.write(ctx, func(ctx context.Context, tx db.Tx) error {
		if _, err := tx.Assignments().DeleteWhere(ctx, db.Eq("employee_id", id)); err != nil {
			return err
		}
		return tx.Employees().Delete(ctx, id)
	})
}

// Employee returns one employee.
func (s *Shop) Employee(ctx context.Context, id int64) (models.Employee, error) {
	return get(ctx, s, employees, id)
}

// Employees lists employees matching q.
func (s *Shop) Employees(ctx context.Context, q db.Query) ([]models.Employee, error) {
	return list(ctx, s, employees, q)
}
