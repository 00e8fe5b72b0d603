package main

import (
	"database/sql"
	"net/http"
	"time"
)

// GET /matches
// Returns the authenticated user's matches with peer ids.
func matchesHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		userID := r.Context().Value(userIDKey).(int)

		rows, err := db.Query(`
            SELECT m.id,
                   CASE WHEN m.user1_id = $1 THEN m.user2_id ELSE m.user1_id END AS peer_id,
                   m.created_at
            FROM matches m
            WHERE m.user1_id = $1 OR m.user2_id = $1
            ORDER BY m.created_at DESC, m.id DESC
        `, userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		defer rows.Close()

		type matchEntry struct {
			MatchID   int       `json:"match_id"`
			PeerID    int       `json:"peer_id"`
			MatchedAt time.Time `json:"matched_at"`
		}
		matches := []matchEntry{}
		for rows.Next() {
			var m matchEntry
			if err := rows.Scan(&m.MatchID, &m.PeerID, &m.MatchedAt); err == nil {
				matches = append(matches, m)
			}
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"matches": matches})
	})
}

// MatchPeerSummary is one row of the chat sidebar: peer details, latest
// message time and unread count.
type MatchPeerSummary struct {
	UserID         int        `json:"userId"`
	UserName       string     `json:"userName"`
	LastMessageAt  *time.Time `json:"lastMessageAt,omitempty"`
	UnreadMessages int        `json:"unreadMessages"`
	IsOnline       bool       `json:"isOnline,omitempty"`
}

// GET /matches/summary
// One row per match peer: name, latest message, unread count, presence.
func matchSummaryHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := getUserIDFromBearer(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		// CTEs for clarity:
		// 1) peers    = every matched peer and the match row id
		// 2) latest   = newest message timestamp per match
		// 3) unreads  = unread messages the peer sent me per match
		const q = `
WITH peers AS (
  SELECT m.id AS match_id,
         CASE WHEN m.user1_id = $1 THEN m.user2_id ELSE m.user1_id END AS peer_id
  FROM matches m
  WHERE m.user1_id = $1 OR m.user2_id = $1
),
latest AS (
  SELECT pe.match_id, MAX(msg.created_at) AS last_message_at
  FROM peers pe
  LEFT JOIN messages msg ON msg.match_id = pe.match_id
  GROUP BY pe.match_id
),
unreads AS (
  SELECT pe.match_id,
         COALESCE(SUM(CASE WHEN msg.is_read = FALSE AND msg.sender_id = pe.peer_id THEN 1 ELSE 0 END), 0) AS unread_count
  FROM peers pe
  LEFT JOIN messages msg ON msg.match_id = pe.match_id
  GROUP BY pe.match_id
)
SELECT
  u.id AS user_id,
  COALESCE(p.display_name, CONCAT('User ', u.id::text)) AS display_name,
  l.last_message_at,
  COALESCE(uR.unread_count, 0) AS unread_count,
  COALESCE(u.last_online > NOW() - INTERVAL '90 seconds', FALSE) AS is_online
FROM peers pe
JOIN users u            ON u.id = pe.peer_id
LEFT JOIN profiles p    ON p.user_id = u.id
LEFT JOIN latest l      ON l.match_id = pe.match_id
LEFT JOIN unreads uR    ON uR.match_id = pe.match_id
ORDER BY COALESCE(l.last_message_at, to_timestamp(0)) DESC, u.id ASC
`
		rows, err := db.Query(q, userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		defer rows.Close()

		summaries := []MatchPeerSummary{}
		for rows.Next() {
			var s MatchPeerSummary
			var lastMessageAt sql.NullTime
			if err := rows.Scan(&s.UserID, &s.UserName, &lastMessageAt, &s.UnreadMessages, &s.IsOnline); err != nil {
				continue
			}
			if lastMessageAt.Valid {
				t := lastMessageAt.Time
				s.LastMessageAt = &t
			}
			summaries = append(summaries, s)
		}

		writeJSON(w, http.StatusOK, map[string][]MatchPeerSummary{"summaries": summaries})
	}
}

// matchBetween returns the match row id for two users, or sql.ErrNoRows.
func matchBetween(q queryRower, a, b int) (int, error) {
	var id int
	err := q.QueryRow(`
        SELECT id FROM matches
        WHERE user1_id = LEAST($1::int, $2::int) AND user2_id = GREATEST($1::int, $2::int)
        LIMIT 1
    `, a, b).Scan(&id)
	return id, err
}

// queryRower lets matchBetween run against either *sql.DB or *sql.Tx.
type queryRower interface {
	QueryRow(query string, args ...any) *sql.Row
}
