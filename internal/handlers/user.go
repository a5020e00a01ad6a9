// internal/handlers/user.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/sortonym/backend/internal/auth"
	"github.com/sortonym/backend/internal/database"
	"github.com/sortonym/backend/internal/models"
)

type credentialsRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

// CreateUserHandler registers an account and returns a session token.
func CreateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request payload")
			return
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		req.DisplayName = strings.TrimSpace(req.DisplayName)
		if req.Email == "" || req.Password == "" || req.DisplayName == "" {
			writeError(w, http.StatusBadRequest, "email, displayName and password are required")
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to hash password")
			return
		}

		u := &models.User{Email: req.Email, DisplayName: req.DisplayName, Password: hash}
		if err := database.InsertUser(r.Context(), u); err != nil {
			if errors.Is(err, database.ErrUserExists) {
				writeError(w, http.StatusConflict, "email already registered")
				return
			}
			log.WithError(err).Error("user insert failed")
			writeError(w, http.StatusInternalServerError, "failed to create user")
			return
		}

		token, err := auth.CreateJWT(u.Email, u.DisplayName)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to create token")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": token, "email": u.Email})
	}
}

// LoginHandler verifies credentials and returns a session token.
func LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request payload")
			return
		}
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		u, err := database.GetUserByEmail(r.Context(), req.Email)
		if err != nil {
			if errors.Is(err, database.ErrUserNotFound) {
				writeError(w, http.StatusUnauthorized, "invalid email or password")
				return
			}
			log.WithError(err).Error("user lookup failed")
			writeError(w, http.StatusInternalServerError, "login failed")
			return
		}

		ok, err := auth.VerifyPassword(req.Password, u.Password)
		if err != nil || !ok {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}

		token, err := auth.CreateJWT(u.Email, u.DisplayName)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to create token")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": token, "email": u.Email})
	}
}
