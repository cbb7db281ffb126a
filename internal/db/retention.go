package db

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

const trimHistory = `
DELETE FROM calculations
 WHERE id IN (
    SELECT id FROM (
        SELECT id, ROW_NUMBER() OVER (
            PARTITION BY user_id ORDER BY created_at DESC, id DESC
        ) AS rn
          FROM calculations
    ) ranked
     WHERE rn > $1
)`

// EnforceRetention deletes every calculation beyond the keep most recent
// ones of each user. It runs once when the relational backend is selected,
// trimming histories written before the cap was enforced on insert.
func EnforceRetention(ctx context.Context, db *sql.DB, keep int, log *zap.Logger) (int64, error) {
	res, err := db.ExecContext(ctx, trimHistory, keep)
	if err != nil {
		log.Error("failed to trim calculation history", zap.Error(err))
		return 0, fmt.Errorf("trim history: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows > 0 {
		log.Info("trimmed calculation history", zap.Int64("removed", rows), zap.Int("keep", keep))
	}
	return rows, nil
}
