package repository

import (
	"context"
	"time"

	"github.com/planta-aurora/backoffice/backend/internal/domain"
)

func (r *Repository) CreateScheduleRule(ctx context.Context, rule *domain.ScheduleRule) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO schedule_rules (name, area, shift_keyword, start_time, end_time, overnight, lunch_start, lunch_end, max_lunch_minutes, grace_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, version
	`

	args := []any{rule.Name, rule.Area, rule.ShiftKeyword, rule.StartTime, rule.EndTime, rule.Overnight, rule.LunchStart, rule.LunchEnd, rule.MaxLunchMinutes, rule.GraceMinutes}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&rule.ID, &rule.CreatedAt, &rule.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetScheduleRuleByID(ctx context.Context, id int64) (*domain.ScheduleRule, error) {
	query := `
		SELECT name, area, shift_keyword, start_time, end_time, overnight, lunch_start, lunch_end, max_lunch_minutes, grace_minutes, created_at, version
		FROM schedule_rules WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rule := &domain.ScheduleRule{
		ID: id,
	}

	dst := []any{&rule.Name, &rule.Area, &rule.ShiftKeyword, &rule.StartTime, &rule.EndTime, &rule.Overnight, &rule.LunchStart, &rule.LunchEnd, &rule.MaxLunchMinutes, &rule.GraceMinutes, &rule.CreatedAt, &rule.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return rule, nil
}

func (r *Repository) GetAllScheduleRules(ctx context.Context) ([]*domain.ScheduleRule, error) {
	query := `
		SELECT id, name, area, shift_keyword, start_time, end_time, overnight, lunch_start, lunch_end, max_lunch_minutes, grace_minutes, created_at, version
		FROM schedule_rules ORDER BY id
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := make([]*domain.ScheduleRule, 0)
	for rows.Next() {
		rule := &domain.ScheduleRule{}
		dst := []any{&rule.ID, &rule.Name, &rule.Area, &rule.ShiftKeyword, &rule.StartTime, &rule.EndTime, &rule.Overnight, &rule.LunchStart, &rule.LunchEnd, &rule.MaxLunchMinutes, &rule.GraceMinutes, &rule.CreatedAt, &rule.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rules, nil
}

func (r *Repository) UpdateScheduleRule(ctx context.Context, rule *domain.ScheduleRule) error {
	query := `
		UPDATE schedule_rules
		SET
			name = $1,
			area = $2,
			shift_keyword = $3,
			start_time = $4,
			end_time = $5,
			overnight = $6,
			lunch_start = $7,
			lunch_end = $8,
			max_lunch_minutes = $9,
			grace_minutes = $10,
			version = version + 1
		WHERE id = $11 AND version = $12
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{rule.Name, rule.Area, rule.ShiftKeyword, rule.StartTime, rule.EndTime, rule.Overnight, rule.LunchStart, rule.LunchEnd, rule.MaxLunchMinutes, rule.GraceMinutes, rule.ID, rule.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&rule.CreatedAt, &rule.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteScheduleRule(ctx context.Context, id int64) error {
	query := `
		DELETE FROM schedule_rules WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
