package main

import (
	"database/sql"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kindred-app/backend/compat"
)

// GET /compatibility/{id}
// Scores the authenticated user against {id} and returns the full breakdown.
// Missing/malformed target id or self-comparison is a client error; a user
// without a personality vector is a server-side data problem because the
// inference pipeline should have produced one for every complete profile.
func compatibilityHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}

		userID := r.Context().Value(userIDKey).(int)
		targetID, ok := pathID(r, "compatibility")
		if !ok {
			compatRequests.WithLabelValues("invalid_input").Inc()
			writeError(w, http.StatusBadRequest, "invalid_user_id")
			return
		}
		if targetID == userID {
			compatRequests.WithLabelValues("invalid_input").Inc()
			writeError(w, http.StatusBadRequest, "self_comparison")
			return
		}

		me, err := loadMatchProfile(db, userID)
		if err == sql.ErrNoRows {
			compatRequests.WithLabelValues("incomplete_profile").Inc()
			writeError(w, http.StatusForbidden, "incomplete_profile")
			return
		} else if err != nil {
			compatRequests.WithLabelValues("db_error").Inc()
			logger.Error("profile load failed", zap.Int("user_id", userID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}

		target, err := loadMatchProfile(db, targetID)
		if err == sql.ErrNoRows {
			compatRequests.WithLabelValues("not_found").Inc()
			writeError(w, http.StatusNotFound, "not_found")
			return
		} else if err != nil {
			compatRequests.WithLabelValues("db_error").Inc()
			logger.Error("profile load failed", zap.Int("user_id", targetID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}

		result, err := compat.Score(me.Profile, target.Profile)
		if errors.Is(err, compat.ErrMissingPersonality) {
			compatRequests.WithLabelValues("missing_personality").Inc()
			logger.Warn("personality vector missing for pair",
				zap.Int("user_id", userID), zap.Int("target_id", targetID))
			writeError(w, http.StatusInternalServerError, "missing_profile_data")
			return
		} else if err != nil {
			compatRequests.WithLabelValues("error").Inc()
			writeError(w, http.StatusInternalServerError, "scoring_error")
			return
		}

		compatRequests.WithLabelValues("ok").Inc()
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"user_id":       userID,
			"target_id":     targetID,
			"compatibility": result,
		})
	})
}
