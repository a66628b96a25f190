package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/autoservice/internal/models"
)

func newTestUserCollection() *StoreUserCollection {
	return &StoreUserCollection{Store: NewMemoryStore()}
}

func testUser() models.User {
	return models.User{
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: "hashedpassword",
		Role:         models.RoleAdmin,
		FirstName:    "Test",
		LastName:     "User",
	}
}

func TestStoreUserCollection_InsertUser(t *testing.T) {
	users := newTestUserCollection()

	created, err := users.InsertUser(context.Background(), testUser())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.True(t, created.IsActive)
	assert.NotZero(t, created.CreatedAt)
	assert.NotZero(t, created.UpdatedAt)

	_, err = users.InsertUser(context.Background(), testUser())
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestStoreUserCollection_Finders(t *testing.T) {
	users := newTestUserCollection()
	created, err := users.InsertUser(context.Background(), testUser())
	require.NoError(t, err)

	byID, err := users.FindUserByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "testuser", byID.Username)

	byName, err := users.FindUserByUsername(context.Background(), "testuser")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byEmail, err := users.FindUserByEmail(context.Background(), "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = users.FindUserByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = users.FindUserByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := users.FindUsers(context.Background(), Where(Eq("role", string(models.RoleAdmin))))
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStoreUserCollection_UpdateAndDelete(t *testing.T) {
	users := newTestUserCollection()
	created, err := users.InsertUser(context.Background(), testUser())
	require.NoError(t, err)

	created.Role = models.RoleViewer
	require.NoError(t, users.UpdateUser(context.Background(), created.ID, created))
	updated, err := users.FindUserByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleViewer, updated.Role)

	require.NoError(t, users.UpdateLastLogin(context.Background(), created.ID))
	loggedIn, err := users.FindUserByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.NotNil(t, loggedIn.LastLogin)

	require.NoError(t, users.DeleteUser(context.Background(), created.ID))
	assert.ErrorIs(t, users.DeleteUser(context.Background(), created.ID), ErrNotFound)
	assert.ErrorIs(t, users.UpdateLastLogin(context.Background(), created.ID), ErrNotFound)
}
