package db

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/autoservice/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

func TestConnectMongo_BadURI(t *testing.T) {
	client, err := ConnectMongo(context.Background(), "mongodb://bad:uri")
	if err == nil {
		t.Error("expected error for bad URI, got nil")
	}
	if client != nil {
		t.Error("expected nil client on error")
	}
}

func TestBuildFilter(t *testing.T) {
	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	filter := buildFilter([]Cond{
		Eq("car_id", int64(3)),
		Lt("completion_date", cutoff),
		IsNull("deleted_at"),
		NotNull("repair_id"),
	})
	assert.Equal(t, bson.D{
		{Key: "car_id", Value: int64(3)},
		{Key: "completion_date", Value: bson.M{"$lt": cutoff}},
		{Key: "deleted_at", Value: nil},
		{Key: "repair_id", Value: bson.M{"$ne": nil}},
	}, filter)
}

func TestFindOptions(t *testing.T) {
	opts := findOptions(Query{}.OrderBy("last_name").OrderByDesc("first_name").Page(20, 40))
	assert.Equal(t, bson.D{{Key: "last_name", Value: 1}, {Key: "first_name", Value: -1}}, opts.Sort)
	require.NotNil(t, opts.Limit)
	require.NotNil(t, opts.Skip)
	assert.Equal(t, int64(20), *opts.Limit)
	assert.Equal(t, int64(40), *opts.Skip)

	empty := findOptions(Query{})
	assert.Nil(t, empty.Sort)
	assert.Nil(t, empty.Limit)
}

// Integration test (requires a MongoDB replica set)
func TestMongoStore_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping integration test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	client, err := ConnectMongo(ctx, uri)
	if err != nil {
		t.Skipf("failed to connect: %v, skipping integration test", err)
	}
	database := client.Database("test_autoservice")
	_ = database.Drop(ctx)

	store := NewMongoStore(client, "test_autoservice")
	defer store.Close(context.Background())
	require.NoError(t, store.EnsureIndexes(ctx))

	var owner models.Owner
	err = store.RunInTransaction(ctx, func(ctx context.Context, tx Tx) error {
		owner, err = tx.Owners().Insert(ctx, models.Owner{LastName: "Ivanov", FirstName: "Ivan", Phone: "+79990000000"})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), owner.ID)

	err = store.RunInTransaction(ctx, func(ctx context.Context, tx Tx) error {
		_, err := tx.Owners().Insert(ctx, models.Owner{LastName: "Petrov", Phone: "+79990000000"})
		return err
	})
	assert.True(t, errors.Is(err, ErrDuplicate))

	boom := errors.New("boom")
	err = store.RunInTransaction(ctx, func(ctx context.Context, tx Tx) error {
		if err := tx.Owners().Delete(ctx, owner.ID); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = store.View(ctx, func(ctx context.Context, tx Tx) error {
		got, err := tx.Owners().Get(ctx, owner.ID)
		assert.Equal(t, owner, got)
		return err
	})
	assert.NoError(t, err)
}
