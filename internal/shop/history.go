package shop

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ukydev/autoservice/internal/db"
	"github.com/ukydev/autoservice/internal/models"
)

// DefaultRetentionDays is how long completed work is kept when no retention
// is configured.
const DefaultRetentionDays = 365

func works(tx db.Tx) db.Table[models.CompletedWork] { return tx.CompletedWorks() }

// CompletedWork returns one history record.
func (s *Shop) CompletedWork(ctx context.Context, id int64) (models.CompletedWork, error) {
	return get(ctx, s, works, id)
}

// CompletedWorks lists history records matching q.
func (s *Shop) CompletedWorks(ctx context.Context, q db.Query) ([]models.CompletedWork, error) {
	return list(ctx, s, works, q)
}

// DeleteCompletedWork removes one history record. The repair stays completed.
func (s *Shop) DeleteCompletedWork(ctx context.Context, id int64) error {
	return s.write(ctx, func(ctx context.Context, tx db.Tx) error {
		return tx.CompletedWorks().Delete(ctx, id)
	})
}

// PurgeCompletedWork deletes every history record completed before the start
// of today minus days. The cutoff is fixed before the transaction starts.
// It returns the number of deleted records.
func (s *Shop) PurgeCompletedWork(ctx context.Context, days int) (int64, error) {
	if days < 0 {
		return 0, invalid("retention days must not be negative, got %d", days)
	}
	cutoff := s.today().AddDate(0, 0, -days)

	var purged int64
	err := s.write(ctx, func(ctx context.Context, tx db.Tx) error {
		var err error
		purged, err = tx.CompletedWorks().DeleteWhere(ctx, db.Lt("completion_date", cutoff))
		return err
	})
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{
		"cutoff": cutoff.Format(time.DateOnly),
		"purged": purged,
	}).Info("Purged completed work")
	s.metrics.Purged(purged)
	return purged, nil
}
