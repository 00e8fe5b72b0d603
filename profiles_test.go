package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMatchProfile(t *testing.T) {
	mockDB, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM profiles WHERE user_id").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(profileTestColumns).
			AddRow(1, "Ada", 80, 60, 40, 70, 30,
				[]byte(`["Hiking"," yoga "]`), []byte(`["honesty"]`),
				"maybe", []byte(`["spiritual"]`),
				"rarely", "never", "", "liberal", true))

	p, err := loadMatchProfile(mockDB, 1)
	require.NoError(t, err)

	assert.Equal(t, "Ada", p.DisplayName)
	assert.True(t, p.IsComplete)
	require.NotNil(t, p.Profile.Personality)
	assert.Equal(t, 80, p.Profile.Personality.Openness)
	assert.Equal(t, 30, p.Profile.Personality.Neuroticism)
	assert.Equal(t, []string{"Hiking", " yoga "}, p.Profile.Interests)
	assert.Equal(t, []string{"honesty"}, p.Profile.Values)
	assert.Equal(t, "maybe", string(p.Profile.Lifestyle.WantsKids))
	assert.Equal(t, []string{"spiritual"}, p.Profile.Lifestyle.Religion)
	assert.Equal(t, "rarely", string(p.Profile.Lifestyle.Drinking))
	assert.Empty(t, string(p.Profile.Lifestyle.Cannabis))
	assert.Equal(t, "liberal", string(p.Profile.Lifestyle.Politics))
}

func TestLoadMatchProfileWithoutPersonality(t *testing.T) {
	mockDB, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM profiles WHERE user_id").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(profileTestColumns).
			AddRow(2, "Eve", nil, nil, nil, nil, nil,
				[]byte(`[]`), nil, "", nil, "", "", "", "", false))

	p, err := loadMatchProfile(mockDB, 2)
	require.NoError(t, err)
	assert.Nil(t, p.Profile.Personality)
	assert.False(t, p.IsComplete)
}

func TestMeProfileGet(t *testing.T) {
	_, mock := newMockDB(t)
	expectLastOnline(mock, 1)

	mock.ExpectQuery("SELECT (.+) FROM profiles WHERE user_id").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(profileTestColumns).
			AddRow(fullProfileRow(1, `["coffee"]`, "socially")...))

	req := httptest.NewRequest(http.MethodGet, "/me/profile", nil)
	req.Header.Set("Authorization", bearerToken(t, 1))
	w := httptest.NewRecorder()
	meProfileHandler(db).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var p MatchProfile
	require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
	assert.Equal(t, 1, p.UserID)
	assert.Equal(t, []string{"coffee"}, p.Profile.Interests)
}

func TestMeProfilePut(t *testing.T) {
	_, mock := newMockDB(t)
	expectLastOnline(mock, 1)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO profiles").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	body, _ := json.Marshal(profileUpdateRequest{
		DisplayName: "Ada",
		Interests:   []string{"hiking", "jazz"},
		Values:      []string{"curiosity"},
	})
	req := httptest.NewRequest(http.MethodPut, "/me/profile", bytes.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t, 1))
	w := httptest.NewRecorder()
	meProfileHandler(db).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMeProfileBadJSON(t *testing.T) {
	_, mock := newMockDB(t)
	expectLastOnline(mock, 1)

	req := httptest.NewRequest(http.MethodPut, "/me/profile", bytes.NewReader([]byte("{")))
	req.Header.Set("Authorization", bearerToken(t, 1))
	w := httptest.NewRecorder()
	meProfileHandler(db).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
