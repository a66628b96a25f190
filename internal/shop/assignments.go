package shop

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ukydev/autoservice/internal/db"
	"github.com/ukydev/autoservice/internal/models"
)

func assignments(tx db.Tx) db.Table[models.Assignment] { return tx.Assignments() }

// AssignResult tells what Assign or Unassign did.
type AssignResult int

const (
	Assigned AssignResult = iota + 1
	AlreadyAssigned
	Unassigned
	NotAssigned
)

func (r AssignResult) String() string {
	switch r {
	case Assigned:
		return "assigned"
	case AlreadyAssigned:
		return "already assigned"
	case Unassigned:
		return "unassigned"
	case NotAssigned:
		return "not assigned"
	}
	return "unknown"
}

// BusyThreshold is the number of active repairs an employee can carry and
// still be considered free.
const BusyThreshold = 2

// Workload counts the repairs linked to one employee by state.
type Workload struct {
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

// Busy reports whether the active load exceeds BusyThreshold.
func (w Workload) Busy() bool {
	return w.Active > BusyThreshold
}

// Status is "busy" or "free".
func (w Workload) Status() string {
	if w.Busy() {
		return "busy"
	}
	return "free"
}

// Assign links the employee to the repair. Linking an existing pair is not
// an error and reports AlreadyAssigned.
func (s *Shop) Assign(ctx context.Context, repairID, employeeID int64) (AssignResult, error) {
	var result AssignResult
	err := s.write(ctx, func(ctx context.Context, tx db.Tx) error {
		if err := resolvePair(ctx, tx, repairID, employeeID); err != nil {
			return err
		}
		_, err := findAssignment(ctx, tx, repairID, employeeID)
		switch {
		case err == nil:
			result = AlreadyAssigned
			return nil
		case !errors.Is(err, db.ErrNotFound):
			return err
		}
		_, err = tx.Assignments().Insert(ctx, models.Assignment{
			RepairID:     repairID,
			EmployeeID:   employeeID,
			AssignedDate: s.today(),
		})
		result = Assigned
		return err
	})
	if err != nil {
		return 0, err
	}
	s.log.WithFields(logrus.Fields{"repair_id": repairID, "employee_id": employeeID}).Debug(result.String())
	return result, nil
}

// Unassign removes the link between the employee and the repair, reporting
// NotAssigned when there was none.
func (s *Shop) Unassign(ctx context.Context, repairID, employeeID int64) (AssignResult, error) {
	var result AssignResult
	err := s.write(ctx, func(ctx context.Context, tx db.Tx) error {
		if err := resolvePair(ctx, tx, repairID, employeeID); err != nil {
			return err
		}
		n, err := tx.Assignments().DeleteWhere(ctx, db.Eq("repair_id", repairID), db.Eq("employee_id", employeeID))
		if err != nil {
			return err
		}
		result = Unassigned
		if n == 0 {
			result = NotAssigned
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return result, nil
}

// EmployeeWorkload counts the active and completed repairs of an employee.
func (s *Shop) EmployeeWorkload(ctx context.Context, employeeID int64) (Workload, error) {
	var w Workload
	err := s.read(ctx, func(ctx context.Context, tx db.Tx) error {
		if _, err := tx.Employees().Get(ctx, employeeID); err != nil {
			return err
		}
		repairs, err := employeeRepairs(ctx, tx, employeeID)
		if err != nil {
			return err
		}
		for _, r := range repairs {
			if r.Completed() {
				w.Completed++
			} else {
				w.Active++
			}
		}
		return nil
	})
	return w, err
}

// RepairEmployees lists the employees assigned to a repair, by id.
func (s *Shop) RepairEmployees(ctx context.Context, repairID int64) ([]models.Employee, error) {
	var out []models.Employee
	err := s.read(ctx, func(ctx context.Context, tx db.Tx) error {
		if _, err := tx.Repairs().Get(ctx, repairID); err != nil {
			return err
		}
		links, err := db.Find(ctx, tx.Assignments(), db.Where(db.Eq("repair_id", repairID)).OrderBy("employee_id"))
		if err != nil {
			return err
		}
		for _, link := range links {
			e, err := tx.Employees().Get(ctx, link.EmployeeID)
			if err != nil {
				return err
			}
			out = append(out, e)
		}
		return nil
	})
	return out, err
}

// EmployeeRepairs lists the repairs an employee is assigned to, by id.
func (s *Shop) EmployeeRepairs(ctx context.Context, employeeID int64) ([]models.Repair, error) {
	var out []models.Repair
	err := s.read(ctx, func(ctx context.Context, tx db.Tx) error {
		if _, err := tx.Employees().Get(ctx, employeeID); err != nil {
			return err
		}
		var err error
		out, err = employeeRepairs(ctx, tx, employeeID)
		return err
	})
	return out, err
}

func employeeRepairs(ctx context.Context, tx db.Tx, employeeID int64) ([]models.Repair, error) {
	links, err := db.Find(ctx, tx.Assignments(), db.Where(db.Eq("employee_id", employeeID)))
	if err != nil {
		return nil, err
	}
	out := make([]models.Repair, 0, len(links))
	for _, link := range links {
		r, err := tx.Repairs().Get(ctx, link.RepairID)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func resolvePair(ctx context.Context, tx db.Tx, repairID, employeeID int64) error {
	if _, err := tx.Repairs().Get(ctx, repairID); err != nil {
		return err
	}
	_, err := tx.Employees().Get(ctx, employeeID)
	return err
}

func findAssignment(ctx context.Context, tx db.Tx, repairID, employeeID int64) (models.Assignment, error) {
	return db.FindOne(ctx, tx.Assignments(), db.Eq("repair_id", repairID), db.Eq("employee_id", employeeID))
}
