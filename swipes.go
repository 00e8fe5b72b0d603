package main

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Swipe semantics:
// like: recorded; if the target already liked us, a match is created.
// pass: recorded; the target disappears from the feed.
// Either can be re-issued and simply overwrites the previous direction.

// swipesRouter dispatches POST /swipes/{id}/(like|pass).
func swipesRouter(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 3 || parts[0] != "swipes" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		switch parts[2] {
		case "like", "pass":
			swipeHandler(db, parts[2]).ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	}
}

func swipeHandler(db *sql.DB, direction string) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		targetID, err := strconv.Atoi(parts[1])
		if err != nil {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		userID := r.Context().Value(userIDKey).(int)

		// Target must exist with a complete profile, and you can't swipe
		// on yourself.
		var exists bool
		err = db.QueryRow(`
            SELECT EXISTS (
                SELECT 1 FROM users u
                JOIN profiles p ON p.user_id = u.id
                WHERE u.id = $1 AND p.is_complete = TRUE
            )`, targetID).Scan(&exists)
		if err != nil || !exists || targetID == userID {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}

		matched := false
		var matchID int
		err = withTx(r.Context(), db, func(tx *sql.Tx) error {
			_, err := tx.Exec(`
                INSERT INTO swipes (user_id, target_user_id, direction)
                VALUES ($1, $2, $3)
                ON CONFLICT (user_id, target_user_id)
                DO UPDATE SET direction = EXCLUDED.direction, created_at = NOW()
            `, userID, targetID, direction)
			if err != nil {
				return err
			}
			if direction != "like" {
				return nil
			}

			// Mutual like -> match. The opposite row is locked so two
			// concurrent likes can't race past each other.
			var reciprocalID int
			err = tx.QueryRow(`
                SELECT id FROM swipes
                WHERE user_id = $1 AND target_user_id = $2 AND direction = 'like'
                FOR UPDATE
            `, targetID, userID).Scan(&reciprocalID)
			if err == sql.ErrNoRows {
				return nil
			} else if err != nil {
				return err
			}

			err = tx.QueryRow(`
                INSERT INTO matches (user1_id, user2_id)
                VALUES (LEAST($1::int, $2::int), GREATEST($1::int, $2::int))
                ON CONFLICT (user1_id, user2_id) DO NOTHING
                RETURNING id
            `, userID, targetID).Scan(&matchID)
			if err == sql.ErrNoRows {
				// Race: the match already exists, refetch its id.
				err = tx.QueryRow(`
                    SELECT id FROM matches
                    WHERE user1_id = LEAST($1::int, $2::int) AND user2_id = GREATEST($1::int, $2::int)
                `, userID, targetID).Scan(&matchID)
			} else if err == nil {
				matchesCreated.Inc()
			}
			if err == nil {
				matched = true
			}
			return err
		})
		if err != nil {
			logger.Error("swipe failed",
				zap.Int("user_id", userID), zap.Int("target_id", targetID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "swipe_error")
			return
		}

		swipesRecorded.WithLabelValues(direction).Inc()
		resp := map[string]interface{}{"direction": direction, "matched": matched}
		if matched {
			resp["match_id"] = matchID
			chatHub.sendToUser(targetID, ServerEvent{Type: "match", From: userID})
		}
		writeJSON(w, http.StatusCreated, resp)
	})
}
