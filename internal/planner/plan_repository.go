package planner

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// StoredPlan is one persisted planning run.
type StoredPlan struct {
	ID        int64
	UserID    string
	PlanData  []byte // Raw JSON of the meal plan
	CreatedAt time.Time
}

// PlanRepository is a database-backed repository for meal plans.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sql.DB) *PlanRepository {
	return &PlanRepository{db: d}
}

// Save inserts a new meal plan into the database.
func (r *PlanRepository) Save(ctx context.Context, userID string, planData []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO meal_plans (user_id, plan_data, created_at) VALUES (?, ?, ?)`,
		userID, planData, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save meal plan for user %s: %w", userID, err)
	}
	return nil
}

// ListRecentByUserID retrieves the N most recent meal plans for a given user.
func (r *PlanRepository) ListRecentByUserID(ctx context.Context, userID string, limit int) ([]StoredPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, plan_data, created_at
		 FROM meal_plans WHERE user_id = ?
		 ORDER BY created_at DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent meal plans for user %s: %w", userID, err)
	}
	defer rows.Close()

	var plans []StoredPlan
	for rows.Next() {
		var p StoredPlan
		if err := rows.Scan(&p.ID, &p.UserID, &p.PlanData, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meal plan row: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meal plan rows: %w", err)
	}
	return plans, nil
}
