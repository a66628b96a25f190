package models

import (
	"time"
)

// Role represents staff roles in the shop
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleMechanic Role = "mechanic"
	RoleViewer   Role = "viewer"
)

// Actions checked by HasPermission.
const (
	ActionViewRecords     = "view_records"
	ActionCreateRecords   = "create_records"
	ActionUpdateRecords   = "update_records"
	ActionDeleteRecords   = "delete_records"
	ActionCompleteRepairs = "complete_repairs"
	ActionAssignEmployees = "assign_employees"
	ActionPurgeHistory    = "purge_history"
	ActionManageUsers     = "manage_users"
)

// User represents a staff account
type User struct {
	ID           int64      `bson:"_id" json:"id"`
	Username     string     `bson:"username" json:"username"`
	Email        string     `bson:"email" json:"email"`
	PasswordHash string     `bson:"password_hash" json:"-"`
	Role         Role       `bson:"role" json:"role"`
	FirstName    string     `bson:"first_name" json:"first_name"`
	LastName     string     `bson:"last_name" json:"last_name"`
	IsActive     bool       `bson:"is_active" json:"is_active"`
	LastLogin    *time.Time `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updated_at"`
}

func (u User) Key() int64 { return u.ID }

func (u User) WithKey(id int64) User {
	u.ID = id
	return u
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest represents a staff registration request
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Claims represents JWT claims
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Exp      int64  `json:"exp"`
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleMechanic, RoleViewer:
		return true
	default:
		return false
	}
}

// HasPermission checks if a user has permission for a specific action
func (u *User) HasPermission(action string) bool {
	switch u.Role {
	case RoleAdmin:
		return true
	case RoleManager:
		return action != ActionManageUsers
	case RoleMechanic:
		return action == ActionViewRecords || action == ActionCreateRecords ||
			action == ActionUpdateRecords || action == ActionCompleteRepairs ||
			action == ActionAssignEmployees
	case RoleViewer:
		return action == ActionViewRecords
	default:
		return false
	}
}
