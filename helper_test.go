package main

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
)

// Handler tests run against sqlmock instead of a live Postgres; the global
// db is swapped per test the same way the real one is set in main().

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	prev := db
	db = mockDB
	t.Cleanup(func() { db = prev })
	return mockDB, mock
}

// bearerToken mints a token the way the external auth service does.
func bearerToken(t *testing.T, userID int) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"expires": time.Now().Add(24 * time.Hour).Unix(),
	})
	s, err := token.SignedString(jwtSecret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return "Bearer " + s
}

// expectLastOnline matches the presence refresh the auth middleware issues
// on every authenticated request.
func expectLastOnline(mock sqlmock.Sqlmock, userID int) {
	mock.ExpectExec("UPDATE users SET last_online").
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

var profileTestColumns = []string{
	"user_id", "display_name",
	"openness", "conscientiousness", "extraversion", "agreeableness", "neuroticism",
	"interests", "value_labels",
	"wants_kids", "religion",
	"drinking", "smoking", "cannabis", "politics",
	"is_complete",
}

// fullProfileRow returns the row used by most scoring tests: all traits at
// 50, a couple of interests, a fully answered lifestyle.
func fullProfileRow(userID int, interests, drinking string) []driver.Value {
	return []driver.Value{
		userID, "Test User",
		50, 50, 50, 50, 50,
		[]byte(interests), []byte(`[]`),
		"want", nil,
		drinking, "never", "never", "moderate",
		true,
	}
}
