package shop

import (
	"context"

	"github.com/ukydev/autoservice/internal/db"
	"github.com/ukydev/autoservice/internal/models"
)

func owners(tx db.Tx) db.Table[models.Owner] { return tx.Owners() }

func validateOwner(o models.Owner) error {
	return firstError(
		required(o.LastName, "last name"),
		required(o.FirstName, "first name"),
		required(o.Phone, "phone"),
	)
}

// CreateOwner stores a new owner. The phone must not belong to another owner.
func (s *Shop) CreateOwner(ctx context.Context, o models.Owner) (models.Owner, error) {
	if err := validateOwner(o); err != nil {
		return o, err
	}
	var created models.Owner
	err := s.write(ctx, func(ctx context.Context, tx db.Tx) error {
		if err := ensureUnique(ctx, tx.Owners(), "phone", o.Phone, 0, "owner"); err != nil {
			return err
		}
		var err error
		created, err = tx.Owners().Insert(ctx, o)
		return err
	})
	return created, err
}

// UpdateOwner replaces the owner with o.ID.
func (s *Shop) UpdateOwner(ctx context.Context, o models.Owner) error {
	if err := validateOwner(o); err != nil {
		return err
	}
	return s.write(ctx, func(ctx context.Context, tx db.Tx) error {
		if _, err := tx.Owners().Get(ctx, o.ID); err != nil {
			return err
		}
		if err := ensureUnique(ctx, tx.Owners(), "phone", o.Phone, o.ID, "owner"); err != nil {
			return err
		}
		return tx.Owners().Update(ctx, o)
	})
}

// DeleteOwner removes the owner and everything descending from its cars.
func (s *Shop) DeleteOwner(ctx context.Context, id int64) error {
	return s.write(ctx, func(ctx context.Context, tx db.Tx) error {
		return deleteOwner(ctx, tx, id)
	})
}

// Owner returns one owner.
func (s *Shop) Owner(ctx context.Context, id int64) (models.Owner, error) {
	return get(ctx, s, owners, id)
}

// Owners lists owners matching q.
func (s *Shop) Owners(ctx context.Context, q db.Query) ([]models.Owner, error) {
	return list(ctx, s, owners, q)
}

func deleteOwner(ctx context.Context, tx db.Tx, id int64) error {
	cars, err := db.Find(ctx, tx.Cars(), db.Where(db.Eq("owner_id", id)))
	if err != nil {
		return err
	}
	for _, car := range cars {
		if err := deleteCar(ctx, tx, car.ID); err != nil {
			return err
		}
	}
	return tx.Owners().Delete(ctx, id)
}
