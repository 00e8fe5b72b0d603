package main

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/kindred-app/backend/compat"
)

// Column list shared by the single-row load and the batch loader. Personality
// is stored as five nullable int columns written by the inference pipeline;
// a profile "has" a personality vector only when all five are present.
const profileColumns = `user_id, COALESCE(display_name, ''),
       openness, conscientiousness, extraversion, agreeableness, neuroticism,
       interests, value_labels,
       COALESCE(wants_kids, ''), religion,
       COALESCE(drinking, ''), COALESCE(smoking, ''), COALESCE(cannabis, ''), COALESCE(politics, ''),
       COALESCE(is_complete, FALSE)`

func loadMatchProfile(db *sql.DB, userID int) (*MatchProfile, error) {
	row := db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
	return scanMatchProfile(row.Scan)
}

func scanMatchProfile(scan func(dest ...any) error) (*MatchProfile, error) {
	var (
		p                  MatchProfile
		o, c, e, a, n      sql.NullInt64
		interests, values  []byte
		religion           []byte
		kids               string
		drink, smoke, cann string
		politics           string
	)
	err := scan(
		&p.UserID, &p.DisplayName,
		&o, &c, &e, &a, &n,
		&interests, &values,
		&kids, &religion,
		&drink, &smoke, &cann, &politics,
		&p.IsComplete,
	)
	if err != nil {
		return nil, err
	}

	if o.Valid && c.Valid && e.Valid && a.Valid && n.Valid {
		p.Profile.Personality = &compat.PersonalityVector{
			Openness:          int(o.Int64),
			Conscientiousness: int(c.Int64),
			Extraversion:      int(e.Int64),
			Agreeableness:     int(a.Int64),
			Neuroticism:       int(n.Int64),
		}
	}
	p.Profile.Interests = unmarshalLabels(interests)
	p.Profile.Values = unmarshalLabels(values)
	p.Profile.Lifestyle = compat.Lifestyle{
		WantsKids: compat.KidsIntent(kids),
		Religion:  unmarshalLabels(religion),
		Drinking:  compat.Frequency(drink),
		Smoking:   compat.Frequency(smoke),
		Cannabis:  compat.Frequency(cann),
		Politics:  compat.PoliticalLean(politics),
	}
	return &p, nil
}

func unmarshalLabels(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var labels []string
	if err := json.Unmarshal(raw, &labels); err != nil {
		return nil
	}
	return labels
}

// GET/PUT /me/profile
// The personality columns are read-only here: they are written by the
// external inference pipeline, not by the profile form.
func meProfileHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value(userIDKey).(int)

		switch r.Method {
		case http.MethodGet:
			profile, err := loadMatchProfile(db, userID)
			if err == sql.ErrNoRows {
				writeError(w, http.StatusNotFound, "profile_not_found")
				return
			} else if err != nil {
				logger.Error("profile load failed", zap.Int("user_id", userID), zap.Error(err))
				writeError(w, http.StatusInternalServerError, "db_error")
				return
			}
			writeJSON(w, http.StatusOK, profile)

		case http.MethodPut:
			updateMyProfile(db, w, r, userID)

		default:
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
		}
	})
}

type profileUpdateRequest struct {
	DisplayName string           `json:"display_name"`
	Interests   []string         `json:"interests"`
	Values      []string         `json:"values"`
	Lifestyle   compat.Lifestyle `json:"lifestyle"`
}

func updateMyProfile(db *sql.DB, w http.ResponseWriter, r *http.Request, userID int) {
	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	interests, _ := json.Marshal(req.Interests)
	values, _ := json.Marshal(req.Values)
	religion, _ := json.Marshal(req.Lifestyle.Religion)

	err := withTx(r.Context(), db, func(tx *sql.Tx) error {
		// A profile counts as complete once it has a display name and the
		// inference pipeline has filled in the personality columns.
		_, err := tx.Exec(`
            INSERT INTO profiles (user_id, display_name, interests, value_labels,
                                  wants_kids, religion, drinking, smoking, cannabis, politics, is_complete)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, FALSE)
            ON CONFLICT (user_id) DO UPDATE SET
                display_name = EXCLUDED.display_name,
                interests    = EXCLUDED.interests,
                value_labels = EXCLUDED.value_labels,
                wants_kids   = EXCLUDED.wants_kids,
                religion     = EXCLUDED.religion,
                drinking     = EXCLUDED.drinking,
                smoking      = EXCLUDED.smoking,
                cannabis     = EXCLUDED.cannabis,
                politics     = EXCLUDED.politics,
                is_complete  = (EXCLUDED.display_name <> '' AND profiles.openness IS NOT NULL)
        `, userID, req.DisplayName, interests, values,
			string(req.Lifestyle.WantsKids), religion,
			string(req.Lifestyle.Drinking), string(req.Lifestyle.Smoking),
			string(req.Lifestyle.Cannabis), string(req.Lifestyle.Politics))
		return err
	})
	if err != nil {
		logger.Error("profile update failed", zap.Int("user_id", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "profile_update_error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// fetchBasicUserInfo returns display data for user summaries.
func fetchBasicUserInfo(db *sql.DB, userID int) (string, error) {
	var displayName string
	err := db.QueryRow(`
        SELECT COALESCE(p.display_name, 'User ' || u.id::text)
        FROM users u
        LEFT JOIN profiles p ON p.user_id = u.id
        WHERE u.id = $1
    `, userID).Scan(&displayName)
	return displayName, err
}

// userSummaryHandler serves GET /users/{id}: display name plus presence.
func userSummaryHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		targetID, ok := pathID(r, "users")
		if !ok {
			http.NotFound(w, r)
			return
		}

		displayName, err := fetchBasicUserInfo(db, targetID)
		if err != nil {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}

		online, err := isOnlineNow(db, targetID)
		if err != nil {
			// Not critical: assume offline on error.
			online = false
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"id":           targetID,
			"display_name": displayName,
			"is_online":    online,
		})
	})
}
