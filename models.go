package main

import "github.com/kindred-app/backend/compat"

// MatchProfile is a user's scoring profile as stored in the profiles table:
// display data plus the three compat inputs (personality vector, label sets,
// lifestyle answers).
type MatchProfile struct {
	UserID      int            `json:"user_id"`
	DisplayName string         `json:"display_name"`
	IsComplete  bool           `json:"is_complete"`
	Profile     compat.Profile `json:"profile"`
}

// FeedEntry is one ranked candidate in the discovery feed.
type FeedEntry struct {
	UserID             int      `json:"user_id"`
	DisplayName        string   `json:"display_name"`
	Score              int      `json:"score"`
	Personality        int      `json:"personality"`
	InterestsAndValues int      `json:"interests_and_values"`
	Lifestyle          int      `json:"lifestyle"`
	SharedInterests    []string `json:"shared_interests"`
}
