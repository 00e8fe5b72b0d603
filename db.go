package main

import (
	"database/sql"

	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"
)

var db *sql.DB

func initDB(databaseURL string) {
	connStr := databaseURL
	if connStr == "" {
		connStr = "user=admin password=password dbname=kindreddb sslmode=disable"
		logger.Warn("DATABASE_URL not set, using default connection string")
	}

	var err error
	db, err = sql.Open("postgres", connStr)
	if err != nil {
		logger.Fatal("error connecting to the database", zap.Error(err))
	}
	if err = db.Ping(); err != nil {
		logger.Fatal("cannot reach the database", zap.Error(err))
	}
	logger.Info("database connection established")

	// Schema is created out of band (migrations run by the deployment):
	// users, profiles, swipes, matches, messages.
}
