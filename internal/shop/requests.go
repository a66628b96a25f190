package shop

import (
	"context"

	"github.com/ukydev/autoservice/internal/db"
	"github.com/ukydev/autoservice/internal/models"
)

func requests(tx db.Tx) db.Table[models.ServiceRequest] { return tx.Requests() }

// CreateServiceRequest stores a request for an existing car. A zero request
// date means today.
func (s *Shop) CreateServiceRequest(ctx context.Context, r models.ServiceRequest) (models.ServiceRequest, error) {
	if err := required(r.Issues, "issues"); err != nil {
		return r, err
	}
	if r.RequestDate.IsZero() {
		r.RequestDate = s.today()
	}
	var created models.ServiceRequest
	err := s.write(ctx, func(ctx context.Context, tx db.Tx) error {
		if err := requireParent(ctx, tx.Cars(), r.CarID, "car"); err != nil {
			return err
		}
		var err error
		created, err = tx.Requests().Insert(ctx, r)
		return err
	})
	return created, err
}

// UpdateServiceRequest replaces the request with r.ID.
func (s *Shop) UpdateServiceRequest(ctx context.Context, r models.ServiceRequest) error {
	if err := required(r.Issues, "issues"); err != nil {
		return err
	}
	return s.write(ctx, func(ctx context.Context, tx db.Tx) error {
		existing, err := tx.Requests().Get(ctx, r.ID)
		if err != nil {
			return err
		}
		if r.RequestDate.IsZero() {
			r.RequestDate = existing.RequestDate
		}
		if err := requireParent(ctx, tx.Cars(), r.CarID, "car"); err != nil {
			return err
		}
		return tx.Requests().Update(ctx, r)
	})
}

// DeleteServiceRequest removes the request and its repairs.
func (s *Shop) DeleteServiceRequest(ctx context.Context, id int64) error {
	return s.write(ctx, func(ctx context.Context, tx db.Tx) error {
		return deleteRequest(ctx, tx, id)
	})
}

// ServiceRequest returns one request.
func (s *Shop) ServiceRequest(ctx context.Context, id int64) (models.ServiceRequest, error) {
	return get(ctx, s, requests, id)
}

// ServiceRequests lists requests matching q.
func (s *Shop) ServiceRequests(ctx context.Context, q db.Query) ([]models.ServiceRequest, error) {
	return list(ctx, s, requests, q)
}

// RequestActive reports whether the request still has open work: it has no
// repairs yet, or at least one of them is not completed.
func (s *Shop) RequestActive(ctx context.Context, id int64) (bool, error) {
	var active bool
	err := s.read(ctx, func(ctx context.Context, tx db.Tx) error {
		if _, err := tx.Requests().Get(ctx, id); err != nil {
			return err
		}
		repairs, err := db.Find(ctx, tx.Repairs(), db.Where(db.Eq("request_id", id)))
		if err != nil {
			return err
		}
		active = IsRequestActive(repairs)
		return nil
	})
	return active, err
}

// IsRequestActive applies the active rule to the repairs of one request.
func IsRequestActive(repairs []models.Repair) bool {
	if len(repairs) == 0 {
		return true
	}
	for _, r := range repairs {
		if !r.Completed() {
			return true
		}
	}
	return false
}

func deleteRequest(ctx context.Context, tx db.Tx, id int64) error {
	repairs, err := db.Find(ctx, tx.Repairs(), db.Where(db.Eq("request_id", id)))
	if err != nil {
		return err
	}
	for _, r := range repairs {
		if err := deleteRepair(ctx, tx, r.ID); err != nil {
			return err
		}
	}
	return tx.Requests().Delete(ctx, id)
}
