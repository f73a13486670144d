package server

import (
	"errors"
	"net/http"

	"github.com/existflow/daygrid/internal/logger"
	"github.com/existflow/daygrid/internal/store"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// handleRegister handles user registration
func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "username, email, and password required"})
	}
	if len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "password must be at least 8 characters"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("bcrypt error", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	user, err := s.store.CreateUser(c.Request().Context(), req.Username, req.Email, string(hash))
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "email already registered"})
		}
		logger.Error("register failed", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	logger.Info("user registered", logger.F("user_id", user.ID))
	return c.JSON(http.StatusCreated, user)
}

// handleLogin handles user login, issuing a signed bearer token
func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	user, err := s.store.GetUserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}

	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		logger.Error("token issue failed", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	logger.Info("user logged in", logger.F("user_id", user.ID))
	return c.JSON(http.StatusOK, map[string]string{"token": tok})
}

// handleProfile returns the current user without sensitive fields
func (s *Server) handleProfile(c echo.Context) error {
	user, err := s.store.GetUser(c.Request().Context(), userID(c))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, user)
}

// handleUpdateProfile applies a partial profile update
func (s *Server) handleUpdateProfile(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	user, err := s.store.UpdateUserProfile(c.Request().Context(), userID(c), store.UserPatch{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		}
		if errors.Is(err, store.ErrEmailTaken) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "email already registered"})
		}
		logger.Error("profile update failed", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, user)
}

// handleChangePassword verifies the old password before replacing it
func (s *Server) handleChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "new password required"})
	}

	ctx := c.Request().Context()
	user, err := s.store.GetUser(ctx, userID(c))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "old password is incorrect"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("bcrypt error", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	if err := s.store.UpdateUserPassword(ctx, user.ID, string(hash)); err != nil {
		logger.Error("password update failed", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "password changed"})
}

// handleDeleteAccount removes the user and, by cascade, all owned
// tasks and colors
func (s *Server) handleDeleteAccount(c echo.Context) error {
	if err := s.store.DeleteUser(c.Request().Context(), userID(c)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		}
		logger.Error("account delete failed", logger.F("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	logger.Info("account deleted", logger.F("user_id", userID(c)))
	return c.JSON(http.StatusOK, map[string]string{"message": "account deleted"})
}
