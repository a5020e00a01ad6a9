package handlers

import (
	"net/http"

	"github.com/sortonym/backend/internal/database"
)

// HealthHandler reports service and database status.
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if database.DB != nil {
			if err := database.DB.Ping(r.Context()); err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{
					"status":   "error",
					"database": "disconnected",
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status":   "ok",
			"database": "connected",
		})
	}
}
