package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/autoservice/internal/models"
)

func insertOwners(t *testing.T, store Store, owners ...models.Owner) []models.Owner {
	t.Helper()
	var out []models.Owner
	err := store.RunInTransaction(context.Background(), func(ctx context.Context, tx Tx) error {
		for _, o := range owners {
			created, err := tx.Owners().Insert(ctx, o)
			if err != nil {
				return err
			}
			out = append(out, created)
		}
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestMemoryStore_InsertAssignsSequentialIDs(t *testing.T) {
	store := NewMemoryStore()
	owners := insertOwners(t, store,
		models.Owner{LastName: "Ivanov", Phone: "+79990000001"},
		models.Owner{LastName: "Petrov", Phone: "+79990000002"},
	)
	assert.Equal(t, int64(1), owners[0].ID)
	assert.Equal(t, int64(2), owners[1].ID)
}

func TestMemoryStore_UniqueKeys(t *testing.T) {
	store := NewMemoryStore()
	insertOwners(t, store, models.Owner{LastName: "Ivanov", Phone: "+79990000001"})

	err := store.RunInTransaction(context.Background(), func(ctx context.Context, tx Tx) error {
		_, err := tx.Owners().Insert(ctx, models.Owner{LastName: "Petrov", Phone: "+79990000001"})
		return err
	})
	assert.True(t, errors.Is(err, ErrDuplicate))

	err = store.RunInTransaction(context.Background(), func(ctx context.Context, tx Tx) error {
		a, err := tx.Assignments().Insert(ctx, models.Assignment{RepairID: 1, EmployeeID: 2})
		if err != nil {
			return err
		}
		_, err = tx.Assignments().Insert(ctx, models.Assignment{RepairID: 1, EmployeeID: 3})
		if err != nil {
			return err
		}
		_, err = tx.Assignments().Insert(ctx, models.Assignment{RepairID: a.RepairID, EmployeeID: a.EmployeeID})
		return err
	})
	assert.True(t, errors.Is(err, ErrDuplicate))
}

func TestMemoryStore_UpdateKeepsOwnUniqueValue(t *testing.T) {
	store := NewMemoryStore()
	owners := insertOwners(t, store,
		models.Owner{LastName: "Ivanov", Phone: "+79990000001"},
		models.Owner{LastName: "Petrov", Phone: "+79990000002"},
	)

	err := store.RunInTransaction(context.Background(), func(ctx context.Context, tx Tx) error {
		o := owners[0]
		o.FirstName = "Ivan"
		return tx.Owners().Update(ctx, o)
	})
	assert.NoError(t, err)

	err = store.RunInTransaction(context.Background(), func(ctx context.Context, tx Tx) error {
		o := owners[1]
		o.Phone = owners[0].Phone
		return tx.Owners().Update(ctx, o)
	})
	assert.True(t, errors.Is(err, ErrDuplicate))
}

func TestMemoryStore_RollbackOnError(t *testing.T) {
	store := NewMemoryStore()
	boom := errors.New("boom")

	err := store.RunInTransaction(context.Background(), func(ctx context.Context, tx Tx) error {
		if _, err := tx.Owners().Insert(ctx, models.Owner{LastName: "Ivanov", Phone: "+79990000001"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = store.View(context.Background(), func(ctx context.Context, tx Tx) error {
		n, err := tx.Owners().Count(ctx)
		assert.Zero(t, n)
		return err
	})
	require.NoError(t, err)

	// The sequence rolls back with the data.
	owners := insertOwners(t, store, models.Owner{LastName: "Petrov", Phone: "+79990000002"})
	assert.Equal(t, int64(1), owners[0].ID)
}

func TestMemoryStore_NotFound(t *testing.T) {
	store := NewMemoryStore()
	err := store.RunInTransaction(context.Background(), func(ctx context.Context, tx Tx) error {
		_, err := tx.Cars().Get(ctx, 42)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, tx.Cars().Delete(ctx, 42), ErrNotFound)
		assert.ErrorIs(t, tx.Cars().Update(ctx, models.Car{ID: 42}), ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestMemoryStore_QueryFiltersSortAndPage(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	err := store.RunInTransaction(context.Background(), func(ctx context.Context, tx Tx) error {
		repairs := []models.Repair{
			{RequestID: 1, Description: "brakes", Cost: 500},
			{RequestID: 1, Description: "oil", Cost: 100, CompletionDate: &now},
			{RequestID: 2, Description: "lights", Cost: 300},
			{RequestID: 1, Description: "belt", Cost: 300},
		}
		for _, r := range repairs {
			if _, err := tx.Repairs().Insert(ctx, r); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	err = store.View(context.Background(), func(ctx context.Context, tx Tx) error {
		active, err := Find(ctx, tx.Repairs(), Where(Eq("request_id", int64(1)), IsNull("completion_date")).OrderBy("description"))
		require.NoError(t, err)
		require.Len(t, active, 2)
		assert.Equal(t, "belt", active[0].Description)
		assert.Equal(t, "brakes", active[1].Description)

		done, err := Find(ctx, tx.Repairs(), Where(NotNull("completion_date")))
		require.NoError(t, err)
		require.Len(t, done, 1)
		assert.Equal(t, "oil", done[0].Description)

		cheap, err := Find(ctx, tx.Repairs(), Where(Lt("cost", 400.0)).OrderByDesc("cost").OrderBy("description"))
		require.NoError(t, err)
		require.Len(t, cheap, 3)
		assert.Equal(t, []string{"belt", "lights", "oil"}, []string{cheap[0].Description, cheap[1].Description, cheap[2].Description})

		page, err := Find(ctx, tx.Repairs(), Query{}.OrderBy("_id").Page(2, 1))
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, int64(2), page[0].ID)
		assert.Equal(t, int64(3), page[1].ID)

		beyond, err := Find(ctx, tx.Repairs(), Query{}.Page(10, 10))
		require.NoError(t, err)
		assert.Empty(t, beyond)
		return nil
	})
	require.NoError(t, err)
}

func TestMemoryStore_DateComparison(t *testing.T) {
	store := NewMemoryStore()
	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	err := store.RunInTransaction(context.Background(), func(ctx context.Context, tx Tx) error {
		for _, d := range []time.Time{cutoff.AddDate(0, 0, -1), cutoff, cutoff.AddDate(0, 0, 1)} {
			if _, err := tx.CompletedWorks().Insert(ctx, models.CompletedWork{CompletionDate: d}); err != nil {
				return err
			}
		}
		n, err := tx.CompletedWorks().DeleteWhere(ctx, Lt("completion_date", cutoff))
		assert.Equal(t, int64(1), n)
		return err
	})
	require.NoError(t, err)

	err = store.View(context.Background(), func(ctx context.Context, tx Tx) error {
		n, err := tx.CompletedWorks().Count(ctx)
		assert.Equal(t, int64(2), n)
		return err
	})
	require.NoError(t, err)
}

func TestMemoryStore_ViewDiscardsWrites(t *testing.T) {
	store := NewMemoryStore()
	err := store.View(context.Background(), func(ctx context.Context, tx Tx) error {
		_, err := tx.Owners().Insert(ctx, models.Owner{Phone: "+79990000001"})
		return err
	})
	require.NoError(t, err)

	err = store.View(context.Background(), func(ctx context.Context, tx Tx) error {
		n, err := tx.Owners().Count(ctx)
		assert.Zero(t, n)
		return err
	})
	require.NoError(t, err)
}

func TestFindOne(t *testing.T) {
	store := NewMemoryStore()
	insertOwners(t, store, models.Owner{LastName: "Ivanov", Phone: "+79990000001"})
	err := store.View(context.Background(), func(ctx context.Context, tx Tx) error {
		o, err := FindOne(ctx, tx.Owners(), Eq("phone", "+79990000001"))
		require.NoError(t, err)
		assert.Equal(t, "Ivanov", o.LastName)

		_, err = FindOne(ctx, tx.Owners(), Eq("phone", "missing"))
		assert.ErrorIs(t, err, ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}
