package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/graph-gophers/dataloader/v7"
)

// newProfileLoader batches profile loads so scoring a whole discovery feed
// issues one SELECT for the batch instead of one per candidate. A loader is
// created per request: its cache must not outlive the request that built it.
func newProfileLoader(db *sql.DB) *dataloader.Loader[int, *MatchProfile] {
	return dataloader.NewBatchedLoader(
		profileBatchFn(db),
		dataloader.WithWait[int, *MatchProfile](2*time.Millisecond),
	)
}

func profileBatchFn(db *sql.DB) dataloader.BatchFunc[int, *MatchProfile] {
	return func(ctx context.Context, keys []int) []*dataloader.Result[*MatchProfile] {
		results := make([]*dataloader.Result[*MatchProfile], len(keys))
		indexByID := make(map[int]int, len(keys))
		for i, key := range keys {
			indexByID[key] = i
			results[i] = &dataloader.Result[*MatchProfile]{Error: sql.ErrNoRows}
		}
		if len(keys) == 0 {
			return results
		}

		placeholders := make([]string, len(keys))
		args := make([]interface{}, len(keys))
		for i, key := range keys {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
			args[i] = key
		}

		query := fmt.Sprintf(`SELECT `+profileColumns+` FROM profiles WHERE user_id IN (%s)`,
			strings.Join(placeholders, ", "))

		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result[*MatchProfile]{Error: err}
			}
			return results
		}
		defer rows.Close()

		for rows.Next() {
			profile, err := scanMatchProfile(rows.Scan)
			if err != nil {
				for i := range results {
					results[i] = &dataloader.Result[*MatchProfile]{Error: err}
				}
				return results
			}
			if idx, ok := indexByID[profile.UserID]; ok {
				results[idx] = &dataloader.Result[*MatchProfile]{Data: profile}
			}
		}
		return results
	}
}
