package main

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func doSwipe(t *testing.T, path string, userID int) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.Header.Set("Authorization", bearerToken(t, userID))
	w := httptest.NewRecorder()
	swipesRouter(db).ServeHTTP(w, req)
	return w
}

func TestSwipeLikeWithoutReciprocal(t *testing.T) {
	_, mock := newMockDB(t)
	expectLastOnline(mock, 1)

	mock.ExpectQuery("SELECT EXISTS").WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO swipes").
		WithArgs(1, 2, "like").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id FROM swipes").
		WithArgs(2, 1).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectCommit()

	w := doSwipe(t, "/swipes/2/like", 1)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}

	var resp map[string]interface{}
	json.NewDecoder(w.Body).Decode(&resp)
	if resp["matched"] != false {
		t.Errorf("expected matched=false, got %v", resp["matched"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSwipeMutualLikeCreatesMatch(t *testing.T) {
	_, mock := newMockDB(t)
	expectLastOnline(mock, 1)

	mock.ExpectQuery("SELECT EXISTS").WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO swipes").
		WithArgs(1, 2, "like").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id FROM swipes").
		WithArgs(2, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(17))
	mock.ExpectQuery("INSERT INTO matches").
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectCommit()

	w := doSwipe(t, "/swipes/2/like", 1)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}

	var resp map[string]interface{}
	json.NewDecoder(w.Body).Decode(&resp)
	if resp["matched"] != true {
		t.Fatalf("expected matched=true, got %v", resp["matched"])
	}
	if int(resp["match_id"].(float64)) != 9 {
		t.Errorf("expected match_id 9, got %v", resp["match_id"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSwipePassRecordsOnly(t *testing.T) {
	_, mock := newMockDB(t)
	expectLastOnline(mock, 1)

	mock.ExpectQuery("SELECT EXISTS").WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO swipes").
		WithArgs(1, 2, "pass").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := doSwipe(t, "/swipes/2/pass", 1)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSwipeUnknownTarget(t *testing.T) {
	_, mock := newMockDB(t)
	expectLastOnline(mock, 1)

	mock.ExpectQuery("SELECT EXISTS").WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	w := doSwipe(t, "/swipes/99/like", 1)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestSwipeSelf(t *testing.T) {
	_, mock := newMockDB(t)
	expectLastOnline(mock, 1)

	mock.ExpectQuery("SELECT EXISTS").WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	w := doSwipe(t, "/swipes/1/like", 1)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for self swipe, got %d", w.Code)
	}
}

func TestSwipeInvalidAction(t *testing.T) {
	newMockDB(t)

	w := doSwipe(t, "/swipes/2/superlike", 1)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown action, got %d", w.Code)
	}
}
