package main

import (
	"database/sql"
	"errors"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/kindred-app/backend/compat"
)

// feedLimit caps the number of candidates returned per feed request; main()
// overrides it from config.
var feedLimit = 25

// GET /feed
// Builds the discovery feed for the authenticated user: every complete,
// not-yet-swiped candidate is scored against the caller and the best matches
// come back ranked. Candidates without a personality vector are skipped
// rather than failing the whole feed.
func feedHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		start := time.Now()
		userID := r.Context().Value(userIDKey).(int)

		// Gate by profile completion, same policy as scoring a single pair.
		var isComplete bool
		err := db.QueryRow("SELECT COALESCE(is_complete, FALSE) FROM profiles WHERE user_id = $1", userID).Scan(&isComplete)
		if err == sql.ErrNoRows || (err == nil && !isComplete) {
			writeError(w, http.StatusForbidden, "incomplete_profile")
			return
		} else if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}

		candidateIDs, err := feedCandidateIDs(db, userID)
		if err != nil {
			logger.Error("feed candidate query failed", zap.Int("user_id", userID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "feed_error")
			return
		}

		// One batched profile query for the caller plus all candidates.
		loader := newProfileLoader(db)
		meThunk := loader.Load(r.Context(), userID)
		thunks := loader.LoadMany(r.Context(), candidateIDs)

		me, err := meThunk()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "feed_error")
			return
		}
		profiles, _ := thunks()

		entries := make([]FeedEntry, 0, len(profiles))
		for _, candidate := range profiles {
			if candidate == nil {
				continue
			}
			result, err := compat.Score(me.Profile, candidate.Profile)
			if err != nil {
				if !errors.Is(err, compat.ErrMissingPersonality) {
					logger.Warn("candidate scoring failed",
						zap.Int("candidate_id", candidate.UserID), zap.Error(err))
				}
				continue
			}
			entries = append(entries, FeedEntry{
				UserID:             candidate.UserID,
				DisplayName:        candidate.DisplayName,
				Score:              result.OverallScore,
				Personality:        result.Personality.Score,
				InterestsAndValues: result.InterestsAndValues.Score,
				Lifestyle:          result.Lifestyle.Score,
				SharedInterests:    result.InterestsAndValues.Interests.Shared,
			})
		}

		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Score != entries[j].Score {
				return entries[i].Score > entries[j].Score
			}
			return entries[i].UserID < entries[j].UserID
		})
		if len(entries) > feedLimit {
			entries = entries[:feedLimit]
		}

		feedCandidates.Observe(float64(len(profiles)))
		feedDuration.Observe(time.Since(start).Seconds())
		writeJSON(w, http.StatusOK, map[string][]FeedEntry{"feed": entries})
	})
}

// feedCandidateIDs returns the ids of every candidate still eligible for the
// user's feed: complete profile, not the user, not already swiped on, not
// already matched.
func feedCandidateIDs(db *sql.DB, userID int) ([]int, error) {
	rows, err := db.Query(`
        SELECT p.user_id
        FROM profiles p
        WHERE p.is_complete = TRUE
          AND p.user_id <> $1
          AND NOT EXISTS (
              SELECT 1 FROM swipes s
              WHERE s.user_id = $1 AND s.target_user_id = p.user_id
          )
          AND NOT EXISTS (
              SELECT 1 FROM matches m
              WHERE (m.user1_id = $1 AND m.user2_id = p.user_id)
                 OR (m.user1_id = p.user_id AND m.user2_id = $1)
          )
        ORDER BY p.user_id
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, rows.Err()
}
