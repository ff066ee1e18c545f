package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/domain"
)

func (r *Repository) GetAllOrganizations() ([]*domain.Organization, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, name, timezone, roll_calls_per_hour, response_window_minutes, created_at, version
		FROM organizations
		ORDER BY id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orgs := make([]*domain.Organization, 0)
	for rows.Next() {
		org := &domain.Organization{}
		dst := []any{&org.ID, &org.Name, &org.Timezone, &org.RollCallsPerHour, &org.ResponseWindowMinutes, &org.CreatedAt, &org.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orgs, nil
}

func (r *Repository) GetOrganizationByID(id int64) (*domain.Organization, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT name, timezone, roll_calls_per_hour, response_window_minutes, created_at, version
		FROM organizations WHERE id = $1
	`

	org := &domain.Organization{ID: id}
	dst := []any{&org.Name, &org.Timezone, &org.RollCallsPerHour, &org.ResponseWindowMinutes, &org.CreatedAt, &org.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return org, nil
}

func (r *Repository) CreateOrganization(org *domain.Organization) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO organizations (name, timezone, roll_calls_per_hour, response_window_minutes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	args := []any{org.Name, org.Timezone, org.RollCallsPerHour, org.ResponseWindowMinutes}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&org.ID, &org.CreatedAt, &org.Version); err != nil {
		return err
	}

	return nil
}

// EnsureOrganization 按名称取组织，不存在则创建，用于启动时保证初始组织存在
func (r *Repository) EnsureOrganization(name, timezone string, rollCallsPerHour, responseWindowMinutes int) (*domain.Organization, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO organizations (name, timezone, roll_calls_per_hour, response_window_minutes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, timezone, roll_calls_per_hour, response_window_minutes, created_at, version
	`

	org := &domain.Organization{}
	args := []any{name, timezone, rollCallsPerHour, responseWindowMinutes}
	dst := []any{&org.ID, &org.Name, &org.Timezone, &org.RollCallsPerHour, &org.ResponseWindowMinutes, &org.CreatedAt, &org.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return nil, err
	}

	return org, nil
}

func (r *Repository) UpdateOrganization(org *domain.Organization) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE organizations
		SET
			name = $1,
			timezone = $2,
			roll_calls_per_hour = $3,
			response_window_minutes = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version
	`

	args := []any{org.Name, org.Timezone, org.RollCallsPerHour, org.ResponseWindowMinutes, org.ID, org.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&org.Version); err != nil {
		return err
	}

	return nil
}
