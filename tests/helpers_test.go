package integration_test

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SeedObjects inserts count objects with public ids 1..count.
//
// type_id cycles through 0..2, odd objects are inactive and every fifth
// object has no hostname. created_at increases with the public id.
func SeedObjects(ctx context.Context, db *sql.DB, count int) error {
	author := uuid.New().String()
	base := time.Now().Add(-time.Duration(count) * time.Hour).UTC().Truncate(time.Second)

	for i := 1; i <= count; i++ {
		var hostname sql.NullString
		if i%5 != 0 {
			hostname = sql.NullString{String: fmt.Sprintf("srv-%02d", i), Valid: true}
		}

		_, err := db.ExecContext(ctx, `
			INSERT INTO objects (public_id, type_id, hostname, serial, active, author_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			i,
			i%3,
			hostname,
			fmt.Sprintf("SN%04d", i),
			i%2 == 0,
			author,
			base.Add(time.Duration(i)*time.Hour),
		)
		if err != nil {
			return fmt.Errorf("failed to seed object %d: %w", i, err)
		}
	}

	return nil
}

// CleanupTables truncates all test tables.
func CleanupTables(ctx context.Context, db *sql.DB) error {
	tables := []string{"objects", "user_settings"}

	for _, table := range tables {
		query := fmt.Sprintf("TRUNCATE TABLE %s", table)
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return nil
}
