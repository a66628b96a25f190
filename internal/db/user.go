package db

import (
	"context"
	"time"

	"github.com/ukydev/autoservice/internal/models"
)

// UserCollection defines the interface for staff account operations
type UserCollection interface {
	InsertUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUsers(ctx context.Context, q Query) ([]models.User, error)
	UpdateUser(ctx context.Context, id int64, user models.User) error
	DeleteUser(ctx context.Context, id int64) error
	UpdateLastLogin(ctx context.Context, id int64) error
}

// StoreUserCollection implements UserCollection on top of a Store
type StoreUserCollection struct {
	Store Store
}

// InsertUser inserts a new user into the database
func (c *StoreUserCollection) InsertUser(ctx context.Context, user models.User) (models.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.IsActive = true

	var created models.User
	err := c.Store.RunInTransaction(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		created, err = tx.Users().Insert(ctx, user)
		return err
	})
	return created, err
}

// FindUserByID finds a user by their ID
func (c *StoreUserCollection) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	return c.findOne(ctx, func(ctx context.Context, tx Tx) (models.User, error) {
		return tx.Users().Get(ctx, id)
	})
}

// FindUserByUsername finds a user by their username
func (c *StoreUserCollection) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return c.findOne(ctx, func(ctx context.Context, tx Tx) (models.User, error) {
		return FindOne(ctx, tx.Users(), Eq("username", username))
	})
}

// FindUserByEmail finds a user by their email
func (c *StoreUserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return c.findOne(ctx, func(ctx context.Context, tx Tx) (models.User, error) {
		return FindOne(ctx, tx.Users(), Eq("email", email))
	})
}

// FindUsers finds users with optional filtering
func (c *StoreUserCollection) FindUsers(ctx context.Context, q Query) ([]models.User, error) {
	var users []models.User
	err := c.Store.View(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		users, err = Find(ctx, tx.Users(), q)
		return err
	})
	return users, err
}

// UpdateUser updates a user in the database
func (c *StoreUserCollection) UpdateUser(ctx context.Context, id int64, user models.User) error {
	user.ID = id
	user.UpdatedAt = time.Now()
	return c.Store.RunInTransaction(ctx, func(ctx context.Context, tx Tx) error {
		return tx.Users().Update(ctx, user)
	})
}

// DeleteUser deletes a user from the database
func (c *StoreUserCollection) DeleteUser(ctx context.Context, id int64) error {
	return c.Store.RunInTransaction(ctx, func(ctx context.Context, tx Tx) error {
		return tx.Users().Delete(ctx, id)
	})
}

// UpdateLastLogin updates the last login time for a user
func (c *StoreUserCollection) UpdateLastLogin(ctx context.Context, id int64) error {
	return c.Store.RunInTransaction(ctx, func(ctx context.Context, tx Tx) error {
		user, err := tx.Users().Get(ctx, id)
		if err != nil {
			return err
		}
		now := time.Now()
		user.LastLogin = &now
		user.UpdatedAt = now
		return tx.Users().Update(ctx, user)
	})
}

func (c *StoreUserCollection) findOne(ctx context.Context, get func(ctx context.Context, tx Tx) (models.User, error)) (*models.User, error) {
	var user models.User
	err := c.Store.View(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		user, err = get(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
