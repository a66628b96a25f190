package shop

import (
	"context"

	"github.com/ukydev/autoservice/internal/db"
	"github.com/ukydev/autoservice/internal/models"
)

func cars(tx db.Tx) db.Table[models.Car] { return tx.Cars() }

func validateCar(c models.Car) error {
	if err := firstError(required(c.Number, "plate number"), required(c.Brand, "brand")); err != nil {
		return err
	}
	if c.ReleaseDate.IsZero() {
		return invalid("release date is required")
	}
	return nil
}

// CreateCar stores a car for an existing owner. Plate numbers are unique.
func (s *Shop) CreateCar(ctx context.Context, c models.Car) (models.Car, error) {
	if err := validateCar(c); err != nil {
		return c, err
	}
	var created models.Car
	err := s.write(ctx, func(ctx context.Context, tx db.Tx) error {
		if err := requireParent(ctx, tx.Owners(), c.OwnerID, "owner"); err != nil {
			return err
		}
		if err := ensureUnique(ctx, tx.Cars(), "number", c.Number, 0, "car"); err != nil {
			return err
		}
		var err error
		created, err = tx.Cars().Insert(ctx, c)
		return err
	})
	return created, err
}

// UpdateCar replaces the car with c.ID. The owner may change to another
// existing owner.
func (s *Shop) UpdateCar(ctx context.Context, c models.Car) error {
	if err := validateCar(c); err != nil {
		return err
	}
	return s.write(ctx, func(ctx context.Context, tx db.Tx) error {
		if _, err := tx.Cars().Get(ctx, c.ID); err != nil {
			return err
		}
		if err := requireParent(ctx, tx.Owners(), c.OwnerID, "owner"); err != nil {
			return err
		}
		if err := ensureUnique(ctx, tx.Cars(), "number", c.Number, c.ID, "car"); err != nil {
			return err
		}
		return tx.Cars().Update(ctx, c)
	})
}

// DeleteCar removes the car with its requests, repairs and history.
func (s *Shop) DeleteCar(ctx context.Context, id int64) error {
	return s.write(ctx, func(ctx context.Context, tx db.Tx) error {
		return deleteCar(ctx, tx, id)
	})
}

// Car returns one car.
func (s *Shop) Car(ctx context.Context, id int64) (models.Car, error) {
	return get(ctx, s, cars, id)
}

// Cars lists cars matching q.
func (s *Shop) Cars(ctx context.Context, q db.Query) ([]models.Car, error) {
	return list(ctx, s, cars, q)
}

func deleteCar(ctx context.Context, tx db.Tx, id int64) error {
	requests, err := db.Find(ctx, tx.Requests(), db.Where(db.Eq("car_id", id)))
	if err != nil {
		return err
	}
	for _, r := range requests {
		if err := deleteRequest(ctx, tx, r.ID); err != nil {
			return err
		}
	}
	if _, err := tx.CompletedWorks().DeleteWhere(ctx, db.Eq("car_id", id)); err != nil {
		return err
	}
	return tx.Cars().Delete(ctx, id)
}
