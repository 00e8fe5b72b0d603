package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg := loadConfig()

	l, err := newLogger(cfg.LogJSON, cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer l.Sync()
	logger = l

	jwtSecret = []byte(cfg.JWTSecret)
	if cfg.JWTSecret == devJWTSecret {
		logger.Warn("JWT_SECRET not set, using development secret")
	}
	feedLimit = cfg.FeedLimit

	initDB(cfg.DatabaseURL)

	mux := http.NewServeMux()

	// Profile & presence
	mux.Handle("/me/profile", meProfileHandler(db)) // GET/PUT
	mux.Handle("/me/ping", mePingHandler(db))       // POST
	mux.Handle("/users/", userSummaryHandler(db))   // GET /users/{id}

	// Scoring
	mux.Handle("/compatibility/", compatibilityHandler(db)) // GET /compatibility/{id}
	mux.Handle("/feed", feedHandler(db))                    // GET

	// Swipes & matches
	mux.Handle("/swipes/", swipesRouter(db))            // POST /swipes/{id}/(like|pass)
	mux.Handle("/matches", matchesHandler(db))          // GET
	mux.Handle("/matches/summary", matchSummaryHandler(db))

	// Chat
	mux.Handle("/ws/chat", wsChatHandler(db))
	mux.Handle("/chats/", chatHistoryHandler(db))       // GET /chats/{peerID}
	mux.Handle("/chats/read", chatsMarkReadHandler(db)) // POST /chats/read?peer_id=123

	// Ops endpoints
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	handler := withCORS(cfg.AllowedOrigins, withRequestID(mux))

	logger.Info("starting backend", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
