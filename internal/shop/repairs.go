package shop

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ukydev/autoservice/internal/billing"
	"github.com/ukydev/autoservice/internal/db"
	"github.com/ukydev/autoservice/internal/models"
)

func repairs(tx db.Tx) db.Table[models.Repair] { return tx.Repairs() }

func validateRepair(r models.Repair) error {
	if err := required(r.Description, "description"); err != nil {
		return err
	}
	if r.Cost < 0 {
		return invalid("cost must not be negative")
	}
	return nil
}

// CreateRepair stores an active repair for an existing request. Any
// completion date on r is ignored; only CompleteRepair sets it.
func (s *Shop) CreateRepair(ctx context.Context, r models.Repair) (models.Repair, error) {
	if err := validateRepair(r); err != nil {
		return r, err
	}
	r.CompletionDate = nil
	var created models.Repair
	err := s.write(ctx, func(ctx context.Context, tx db.Tx) error {
		if err := requireParent(ctx, tx.Requests(), r.RequestID, "service request"); err != nil {
			return err
		}
		var err error
		created, err = tx.Repairs().Insert(ctx, r)
		return err
	})
	return created, err
}

// UpdateRepair changes the description, cost and request of a repair. The
// stored completion date is kept.
func (s *Shop) UpdateRepair(ctx context.Context, r models.Repair) error {
	if err := validateRepair(r); err != nil {
		return err
	}
	return s.write(ctx, func(ctx context.Context, tx db.Tx) error {
		existing, err := tx.Repairs().Get(ctx, r.ID)
		if err != nil {
			return err
		}
		if err := requireParent(ctx, tx.Requests(), r.RequestID, "service request"); err != nil {
			return err
		}
		r.CompletionDate = existing.CompletionDate
		return tx.Repairs().Update(ctx, r)
	})
}

// DeleteRepair removes the repair with its parts, history and assignments.
// Assigned employees are kept.
func (s *Shop) DeleteRepair(ctx context.Context, id int64) error {
	return s.write(ctx, func(ctx context.Context, tx db.Tx) error {
		return deleteRepair(ctx, tx, id)
	})
}

// Repair returns one repair.
func (s *Shop) Repair(ctx context.Context, id int64) (models.Repair, error) {
	return get(ctx, s, repairs, id)
}

// Repairs lists repairs matching q.
func (s *Shop) Repairs(ctx context.Context, q db.Query) ([]models.Repair, error) {
	return list(ctx, s, repairs, q)
}

// CompleteRepair moves an active repair to completed and records its
// CompletedWork in the same transaction. A completed repair is rejected with
// ErrAlreadyCompleted.
func (s *Shop) CompleteRepair(ctx context.Context, id int64) (models.CompletedWork, error) {
	var work models.CompletedWork
	err := s.write(ctx, func(ctx context.Context, tx db.Tx) error {
		repair, err := tx.Repairs().Get(ctx, id)
		if err != nil {
			return err
		}
		if repair.Completed() {
			return alreadyCompleted(repair)
		}
		parts, err := db.Find(ctx, tx.Parts(), db.Where(db.Eq("repair_id", id)))
		if err != nil {
			return err
		}
		request, err := tx.Requests().Get(ctx, repair.RequestID)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		repair.CompletionDate = &now
		if err := tx.Repairs().Update(ctx, repair); err != nil {
			return err
		}
		work, err = tx.CompletedWorks().Insert(ctx, models.CompletedWork{
			CarID:          request.CarID,
			RepairID:       repair.ID,
			TotalCost:      billing.RepairTotalWithParts(repair, parts),
			CompletionDate: now,
			Description:    repair.Description,
		})
		return err
	})
	if err != nil {
		return work, err
	}

	s.log.WithFields(logrus.Fields{
		"repair_id":  id,
		"car_id":     work.CarID,
		"total_cost": work.TotalCost,
	}).Info("Repair completed")
	s.metrics.RepairCompleted()
	return work, nil
}

// RepairTotal is the repair cost plus the cost of its spare parts.
func (s *Shop) RepairTotal(ctx context.Context, id int64) (float64, error) {
	var total float64
	err := s.read(ctx, func(ctx context.Context, tx db.Tx) error {
		repair, err := tx.Repairs().Get(ctx, id)
		if err != nil {
			return err
		}
		parts, err := db.Find(ctx, tx.Parts(), db.Where(db.Eq("repair_id", id)))
		if err != nil {
			return err
		}
		total = billing.RepairTotalWithParts(repair, parts)
		return nil
	})
	return total, err
}

func deleteRepair(ctx context.Context, tx db.Tx, id int64) error {
	if _, err := tx.Parts().DeleteWhere(ctx, db.Eq("repair_id", id)); err != nil {
		return err
	}
	if _, err := tx.CompletedWorks().DeleteWhere(ctx, db.Eq("repair_id", id)); err != nil {
		return err
	}
	if _, err := tx.Assignments().DeleteWhere(ctx, db.Eq("repair_id", id)); err != nil {
		return err
	}
	return tx.Repairs().Delete(ctx, id)
}
