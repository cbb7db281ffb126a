package repository

import (
	"context"
	"fmt"

	"github.com/atinyakov/GophDate/internal/models"
)

// AppendCalculation stores calc for userID and evicts everything beyond the
// MaxRecords most recent entries of that user, in one transaction.
func (r *SQLRepository) AppendCalculation(ctx context.Context, userID int64, calc models.Calculation) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO calculations (user_id, calculation_type, input_data, result, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, calc.Type, calc.Input, calc.Result, calc.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert calculation: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM calculations
		 WHERE user_id = $1
		   AND id NOT IN (
			SELECT id FROM calculations WHERE user_id = $1
			 ORDER BY created_at DESC, id DESC LIMIT $2
		 )
	`, userID, r.MaxRecords)
	if err != nil {
		return fmt.Errorf("evict calculations: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// RecentCalculations returns up to limit calculations of userID, newest first.
func (r *SQLRepository) RecentCalculations(ctx context.Context, userID int64, limit int) ([]models.Calculation, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT calculation_type, input_data, result, created_at FROM calculations
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("RecentCalculations: %w", err)
	}
	defer rows.Close()

	calcs := make([]models.Calculation, 0, limit)
	for rows.Next() {
		var c models.Calculation
		if err := rows.Scan(&c.Type, &c.Input, &c.Result, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		calcs = append(calcs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return calcs, nil
}
