package shop

import (
	"context"

	"github.com/ukydev/autoservice/internal/db"
	"github.com/ukydev/autoservice/internal/models"
)

func parts(tx db.Tx) db.Table[models.SparePart] { return tx.Parts() }

func validatePart(p models.SparePart) error {
	if err := firstError(required(p.Name, "part name"), required(p.Number, "part number")); err != nil {
		return err
	}
	if p.Cost < 0 {
		return invalid("part cost must not be negative")
	}
	if p.Quantity < 1 {
		return invalid("quantity must be at least 1, got %d", p.Quantity)
	}
	return nil
}

// CreateSparePart stores a part for an existing repair. A zero installed
// date means today.
func (s *Shop) CreateSparePart(ctx context.Context, p models.SparePart) (models.SparePart, error) {
	if err := validatePart(p); err != nil {
		return p, err
	}
	if p.InstalledDate.IsZero() {
		p.InstalledDate = s.today()
	}
	var created models.SparePart
	err := s.write(ctx, func(ctx context.Context, tx db.Tx) error {
		if err := requireParent(ctx, tx.Repairs(), p.RepairID, "repair"); err != nil {
			return err
		}
		var err error
		created, err = tx.Parts().Insert(ctx, p)
		return err
	})
	return created, err
}

// UpdateSparePart replaces the part with p.ID. The CompletedWork of an
// already completed repair keeps the total it was recorded with.
func (s *Shop) UpdateSparePart(ctx context.Context, p models.SparePart) error {
	if err := validatePart(p); err != nil {
		return err
	}
	return s.write(ctx, func(ctx context.Context, tx db.Tx) error {
		existing, err := tx.Parts().Get(ctx, p.ID)
		if err != nil {
			return err
		}
		if p.InstalledDate.IsZero() {
			p.InstalledDate = existing.InstalledDate
		}
		if err := requireParent(ctx, tx.Repairs(), p.RepairID, "repair"); err != nil {
			return err
		}
		return tx.Parts().Update(ctx, p)
	})
}

// DeleteSparePart removes one part.
func (s *Shop) DeleteSparePart(ctx context.Context, id int64) error {
	return s.write(ctx, func(ctx context.Context, tx db.Tx) error {
		return tx.Parts().Delete(ctx, id)
	})
}

// SparePart returns one part.
func (s *Shop) SparePart(ctx context.Context, id int64) (models.SparePart, error) {
	return get(ctx, s, parts, id)
}

// SpareParts lists parts matching q.
func (s *Shop) SpareParts(ctx context.Context, q db.Query) ([]models.SparePart, error) {
	return list(ctx, s, parts, q)
}
