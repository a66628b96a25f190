// Package shop implements the records rules of the repair shop: referential
// integrity and cascades over the store, the repair completion lifecycle,
// employee assignment and history maintenance. Every mutation is one store
// transaction.
package shop

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ukydev/autoservice/internal/db"
	"github.com/ukydev/autoservice/internal/metrics"
	"github.com/ukydev/autoservice/internal/models"
)

// Shop is the entry point for every records operation.
type Shop struct {
	store   db.Store
	now     func() time.Time
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

// Option configures a Shop.
type Option func(*Shop)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Shop) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Shop) { s.log = log }
}

// WithMetrics enables counters for completions and purges.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Shop) { s.metrics = m }
}

// New returns a Shop over store.
func New(store db.Store, opts ...Option) *Shop {
	s := &Shop{
		store: store,
		now:   time.Now,
		log:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Shop) write(ctx context.Context, fn func(ctx context.Context, tx db.Tx) error) error {
	return translate(s.store.RunInTransaction(ctx, fn))
}

func (s *Shop) read(ctx context.Context, fn func(ctx context.Context, tx db.Tx) error) error {
	return translate(s.store.View(ctx, fn))
}

// today is the start of the current UTC day.
func (s *Shop) today() time.Time {
	return s.now().UTC().Truncate(24 * time.Hour)
}

func get[T models.Record[T]](ctx context.Context, s *Shop, table func(db.Tx) db.Table[T], id int64) (T, error) {
	var rec T
	err := s.read(ctx, func(ctx context.Context, tx db.Tx) error {
		var err error
		rec, err = table(tx).Get(ctx, id)
		return err
	})
	return rec, err
}

func list[T models.Record[T]](ctx context.Context, s *Shop, table func(db.Tx) db.Table[T], q db.Query) ([]T, error) {
	var recs []T
	err := s.read(ctx, func(ctx context.Context, tx db.Tx) error {
		var err error
		recs, err = db.Find(ctx, table(tx), q)
		return err
	})
	return recs, err
}

// requireParent fails with ErrValidation when a referenced parent is missing.
func requireParent[T models.Record[T]](ctx context.Context, t db.Table[T], id int64, what string) error {
	if _, err := t.Get(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return invalid("%s %d does not exist", what, id)
		}
		return err
	}
	return nil
}

// ensureUnique fails with ErrValidation when another record already holds value.
func ensureUnique[T models.Record[T]](ctx context.Context, t db.Table[T], field, value string, self int64, what string) error {
	existing, err := db.FindOne(ctx, t, db.Eq(field, value))
	if errors.Is(err, db.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.Key() == self {
		return nil
	}
	return invalid("%s with %s %q already exists", what, field, value)
}

func required(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return invalid("%s is required", field)
	}
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
