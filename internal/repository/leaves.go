package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/domain"
)

func (r *Repository) CreateLeave(leave *domain.Leave) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO leaves (org_id, user_id, date, type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	args := []any{leave.OrgID, leave.UserID, leave.Date, leave.Type}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&leave.ID, &leave.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteLeave(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, `DELETE FROM leaves WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetLeavesByOrgAndDate(orgID int64, date string) ([]*domain.Leave, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, user_id, type, created_at
		FROM leaves
		WHERE org_id = $1 AND date = $2
		ORDER BY id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, orgID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leaves := make([]*domain.Leave, 0)
	for rows.Next() {
		leave := &domain.Leave{OrgID: orgID, Date: date}
		if err := rows.Scan(&leave.ID, &leave.UserID, &leave.Type, &leave.CreatedAt); err != nil {
			return nil, err
		}
		leaves = append(leaves, leave)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return leaves, nil
}
