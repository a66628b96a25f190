package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/ukydev/autoservice/internal/auth"
	"github.com/ukydev/autoservice/internal/db"
	"github.com/ukydev/autoservice/internal/middleware"
	"github.com/ukydev/autoservice/internal/models"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService    *auth.Service
	userCollection db.UserCollection
	log            logrus.FieldLogger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *auth.Service, userCollection db.UserCollection, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		userCollection: userCollection,
		log:            log,
	}
}

func readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation", "Failed to read request body")
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "Invalid JSON")
		return false
	}
	return true
}

// Login handles staff login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq models.LoginRequest
	if !readJSON(w, r, &loginReq) {
		return
	}

	if loginReq.Username == "" || loginReq.Password == "" {
		writeError(w, http.StatusBadRequest, "validation", "Username and password are required")
		return
	}

	user, err := h.userCollection.FindUserByUsername(r.Context(), loginReq.Username)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Invalid credentials")
		return
	}

	if !user.IsActive {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Account is deactivated")
		return
	}

	if !h.authService.CheckPassword(loginReq.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Invalid credentials")
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "Failed to generate token")
		return
	}

	refreshToken, err := h.authService.GenerateRefreshToken()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "Failed to generate refresh token")
		return
	}

	// A failed bookkeeping write does not fail the login.
	if err := h.userCollection.UpdateLastLogin(r.Context(), user.ID); err != nil {
		h.log.WithError(err).WithField("user_id", user.ID).Warn("Failed to update last login")
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		User:         *user,
	})
}

// Register creates a staff account. Only users allowed to manage users reach it.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var registerReq models.RegisterRequest
	if !readJSON(w, r, &registerReq) {
		return
	}

	if err := h.authService.ValidateUsername(registerReq.Username); err != nil {
		writeError(w, http.StatusBadRequest, "validation", err.Error())
		return
	}
	if err := h.authService.ValidateEmail(registerReq.Email); err != nil {
		writeError(w, http.StatusBadRequest, "validation", err.Error())
		return
	}
	if err := h.authService.ValidatePassword(registerReq.Password); err != nil {
		writeError(w, http.StatusBadRequest, "validation", err.Error())
		return
	}
	if !models.IsValidRole(registerReq.Role) {
		writeError(w, http.StatusBadRequest, "validation", "Invalid role")
		return
	}

	if _, err := h.userCollection.FindUserByUsername(r.Context(), registerReq.Username); err == nil {
		writeError(w, http.StatusConflict, "conflict", "Username already exists")
		return
	}
	if _, err := h.userCollection.FindUserByEmail(r.Context(), registerReq.Email); err == nil {
		writeError(w, http.StatusConflict, "conflict", "Email already exists")
		return
	}

	passwordHash, err := h.authService.HashPassword(registerReq.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "Failed to hash password")
		return
	}

	user, err := h.userCollection.InsertUser(r.Context(), models.User{
		Username:     registerReq.Username,
		Email:        registerReq.Email,
		PasswordHash: passwordHash,
		Role:         registerReq.Role,
		FirstName:    registerReq.FirstName,
		LastName:     registerReq.LastName,
	})
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			writeError(w, http.StatusConflict, "conflict", "Username or email already exists")
			return
		}
		h.log.WithError(err).Error("Failed to create user")
		writeError(w, http.StatusInternalServerError, "internal", "Failed to create user")
		return
	}

	token, err := h.authService.GenerateToken(&user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "Failed to generate token")
		return
	}

	refreshToken, err := h.authService.GenerateRefreshToken()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "Failed to generate refresh token")
		return
	}

	h.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("User registered")
	writeJSON(w, http.StatusCreated, models.LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		User:         user,
	})
}

// GetProfile returns the current user's profile
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "User context not found")
		return
	}

	user, err := h.userCollection.FindUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "User not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile updates the current user's profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "User context not found")
		return
	}

	var updateReq struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
	}
	if !readJSON(w, r, &updateReq) {
		return
	}

	user, err := h.userCollection.FindUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "User not found")
		return
	}

	if updateReq.FirstName != "" {
		user.FirstName = updateReq.FirstName
	}
	if updateReq.LastName != "" {
		user.LastName = updateReq.LastName
	}
	if updateReq.Email != "" {
		if err := h.authService.ValidateEmail(updateReq.Email); err != nil {
			writeError(w, http.StatusBadRequest, "validation", err.Error())
			return
		}
		existingUser, err := h.userCollection.FindUserByEmail(r.Context(), updateReq.Email)
		if err == nil && existingUser.ID != claims.UserID {
			writeError(w, http.StatusConflict, "conflict", "Email already exists")
			return
		}
		user.Email = updateReq.Email
	}

	if err := h.userCollection.UpdateUser(r.Context(), claims.UserID, *user); err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "Failed to update user")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile updated successfully"})
}

// ChangePassword changes the current user's password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "User context not found")
		return
	}

	var passwordReq struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if !readJSON(w, r, &passwordReq) {
		return
	}

	if passwordReq.CurrentPassword == "" || passwordReq.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "validation", "Current password and new password are required")
		return
	}
	if err := h.authService.ValidatePassword(passwordReq.NewPassword); err != nil {
		writeError(w, http.StatusBadRequest, "validation", err.Error())
		return
	}

	user, err := h.userCollection.FindUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "User not found")
		return
	}

	if !h.authService.CheckPassword(passwordReq.CurrentPassword, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Current password is incorrect")
		return
	}

	newPasswordHash, err := h.authService.HashPassword(passwordReq.NewPassword)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "Failed to hash password")
		return
	}

	user.PasswordHash = newPasswordHash
	if err := h.userCollection.UpdateUser(r.Context(), claims.UserID, *user); err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "Failed to update password")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}
