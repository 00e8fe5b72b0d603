package main

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ChatMessage represents a chat message with metadata
type ChatMessage struct {
	ID      int64     `json:"id"`   // DB message id
	Type    string    `json:"type"` // "message"
	MatchID int       `json:"match_id"`
	From    int       `json:"from"`
	To      int       `json:"to,omitempty"`
	Body    string    `json:"body,omitempty"`
	Ts      time.Time `json:"ts"` // created_at
}

// ServerEvent represents a server-sent event
type ServerEvent struct {
	Type string `json:"type"` // "message" | "typing" | "match" | "info" | "error"
	From int    `json:"from,omitempty"`
	Data any    `json:"data,omitempty"`
}

// Client represents a WebSocket client connection
type Client struct {
	userID int
	conn   *websocket.Conn
	send   chan ServerEvent
	db     *sql.DB
}

// Hub manages WebSocket client connections
type Hub struct {
	clientsByUser map[int]map[*Client]bool
	mu            sync.RWMutex
}

func newHub() *Hub {
	return &Hub{
		clientsByUser: make(map[int]map[*Client]bool),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clientsByUser[c.userID] == nil {
		h.clientsByUser[c.userID] = make(map[*Client]bool)
	}
	h.clientsByUser[c.userID][c] = true
	chatClientsActive.Inc()
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if peers, ok := h.clientsByUser[c.userID]; ok {
		if peers[c] {
			chatClientsActive.Dec()
		}
		delete(peers, c)
		if len(peers) == 0 {
			delete(h.clientsByUser, c.userID)
		}
	}
}

func (h *Hub) sendToUser(userID int, evt ServerEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if peers, ok := h.clientsByUser[userID]; ok {
		for c := range peers {
			select {
			case c.send <- evt:
			default:
				// Drop event if this client's buffer is full
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// global hub
var chatHub = newHub()

func wsChatHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Token may arrive as a query param here: browsers can't set headers
		// on websocket upgrades.
		userID, ok := getUserIDFromRequest(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("ws upgrade failed", zap.Int("user_id", userID), zap.Error(err))
			return
		}

		client := &Client{
			userID: userID,
			conn:   conn,
			send:   make(chan ServerEvent, 16),
			db:     db,
		}
		chatHub.register(client)

		client.send <- ServerEvent{Type: "info", Data: "connected"}

		go clientWriter(client)
		clientReader(client)
	}
}

func clientReader(c *Client) {
	defer func() {
		chatHub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(1 << 20)
	_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg ChatMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			c.send <- ServerEvent{Type: "error", Data: "invalid message format"}
			continue
		}

		switch msg.Type {
		case "message":
			id, matchID, ts, err := saveChatMsg(c.db, c.userID, msg.To, msg.Body)
			if err != nil {
				c.send <- ServerEvent{Type: "error", Data: "cannot send message"}
				continue
			}

			out := ServerEvent{
				Type: "message",
				From: c.userID,
				Data: ChatMessage{
					ID:      id,
					Type:    "message",
					MatchID: matchID,
					From:    c.userID,
					To:      msg.To,
					Body:    msg.Body,
					Ts:      ts,
				},
			}
			chatMessagesSent.Inc()
			chatHub.sendToUser(msg.To, out)
			chatHub.sendToUser(c.userID, out) // echo so the sender UI updates instantly

		case "typing":
			chatHub.sendToUser(msg.To, ServerEvent{Type: "typing", From: c.userID})

		default:
			c.send <- ServerEvent{Type: "error", Data: "unknown message type"}
		}
	}
}

func clientWriter(c *Client) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case evt, ok := <-c.send:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(evt); err != nil {
				return
			}
		case <-ticker.C:
			// ping to keep the connection alive
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// saveChatMsg persists a message after verifying the two users are matched.
// Chat only exists between matched users; anything else is rejected.
func saveChatMsg(db *sql.DB, fromUserID, toUserID int, content string) (int64, int, time.Time, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, 0, time.Time{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	matchID, err := matchBetween(tx, fromUserID, toUserID)
	if err != nil {
		return 0, 0, time.Time{}, err
	}

	var msgID int64
	var ts time.Time
	err = tx.QueryRow(`
        INSERT INTO messages (match_id, sender_id, body, is_read)
        VALUES ($1, $2, $3, FALSE)
        RETURNING id, created_at
    `, matchID, fromUserID, content).Scan(&msgID, &ts)
	if err != nil {
		return 0, 0, time.Time{}, err
	}
	return msgID, matchID, ts, nil
}

// GET /chats/{peerID}?limit=&before=
// Message history with the given peer, newest first; `before` is a message
// id for paging backwards.
func chatHistoryHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		userID := r.Context().Value(userIDKey).(int)
		peerID, ok := pathID(r, "chats")
		if !ok {
			http.NotFound(w, r)
			return
		}

		matchID, err := matchBetween(db, userID, peerID)
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "not_matched")
			return
		} else if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}

		limit := 50
		if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 200 {
			limit = v
		}
		before := int64(0)
		if v, err := strconv.ParseInt(r.URL.Query().Get("before"), 10, 64); err == nil && v > 0 {
			before = v
		}

		query := `
            SELECT id, sender_id, body, created_at
            FROM messages
            WHERE match_id = $1`
		args := []interface{}{matchID}
		if before > 0 {
			query += ` AND id < $2`
			args = append(args, before)
		}
		query += ` ORDER BY id DESC LIMIT ` + strconv.Itoa(limit)

		rows, err := db.Query(query, args...)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		defer rows.Close()

		messages := []ChatMessage{}
		for rows.Next() {
			m := ChatMessage{Type: "message", MatchID: matchID}
			if err := rows.Scan(&m.ID, &m.From, &m.Body, &m.Ts); err == nil {
				messages = append(messages, m)
			}
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"match_id": matchID,
			"messages": messages,
		})
	})
}

// POST /chats/read?peer_id=123
// Marks every message from the peer in this chat as read.
func chatsMarkReadHandler(db *sql.DB) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		userID := r.Context().Value(userIDKey).(int)
		peerID, err := strconv.Atoi(r.URL.Query().Get("peer_id"))
		if err != nil || peerID <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_peer_id")
			return
		}

		matchID, err := matchBetween(db, userID, peerID)
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "not_matched")
			return
		} else if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}

		res, err := db.Exec(`
            UPDATE messages SET is_read = TRUE
            WHERE match_id = $1 AND sender_id = $2 AND is_read = FALSE
        `, matchID, peerID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		updated, _ := res.RowsAffected()
		writeJSON(w, http.StatusOK, map[string]int64{"marked_read": updated})
	})
}
