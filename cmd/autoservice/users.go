package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ukydev/autoservice/internal/auth"
	"github.com/ukydev/autoservice/internal/db"
	"github.com/ukydev/autoservice/internal/models"
)

type userOptions struct {
	username  string
	email     string
	password  string
	role      string
	firstName string
	lastName  string
}

// newCreateUserCmd adds staff accounts without going through the API, which
// is how the first admin gets in.
func newCreateUserCmd(a *app) *cobra.Command {
	var opts userOptions
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a staff account",
		RunE: func(cmd *cobra.Command, args []string) error {
			authService, err := auth.NewService(a.cfg.JWTSecret, a.cfg.JWTExpiry)
			if err != nil {
				return err
			}
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close(cmd.Context())

			user, err := createUser(cmd.Context(), authService, &db.StoreUserCollection{Store: store}, opts)
			if err != nil {
				return err
			}
			a.log.WithField("user_id", user.ID).Info("User created")
			fmt.Fprintf(cmd.OutOrStdout(), "created user %q (id %d, role %s)\n", user.Username, user.ID, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.username, "username", "", "login name")
	cmd.Flags().StringVar(&opts.email, "email", "", "email address")
	cmd.Flags().StringVar(&opts.password, "password", "", "password, at least 8 characters")
	cmd.Flags().StringVar(&opts.role, "role", string(models.RoleAdmin), "admin|manager|mechanic|viewer")
	cmd.Flags().StringVar(&opts.firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&opts.lastName, "last-name", "", "last name")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func createUser(ctx context.Context, authService *auth.Service, users db.UserCollection, opts userOptions) (models.User, error) {
	if err := authService.ValidateUsername(opts.username); err != nil {
		return models.User{}, err
	}
	if err := authService.ValidateEmail(opts.email); err != nil {
		return models.User{}, err
	}
	if err := authService.ValidatePassword(opts.password); err != nil {
		return models.User{}, err
	}
	role := models.Role(opts.role)
	if !models.IsValidRole(role) {
		return models.User{}, fmt.Errorf("invalid role %q", opts.role)
	}

	hash, err := authService.HashPassword(opts.password)
	if err != nil {
		return models.User{}, err
	}
	user, err := users.InsertUser(ctx, models.User{
		Username:     opts.username,
		Email:        opts.email,
		PasswordHash: hash,
		Role:         role,
		FirstName:    opts.firstName,
		LastName:     opts.lastName,
	})
	if err != nil {
		return models.User{}, fmt.Errorf("create user %q: %w", opts.username, err)
	}
	return user, nil
}
