package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/domain"
)

func (r *Repository) GetShiftTemplatesByOrg(orgID int64) ([]*domain.ShiftTemplate, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			st.id,
			st.name,
			st.timezone,
			st.start_time,
			st.end_time,
			st.created_at,
			st.version,
			stad.day
		FROM shift_templates st
		LEFT JOIN shift_template_applicable_days stad ON st.id = stad.template_id
		WHERE st.org_id = $1
		ORDER BY st.id, stad.day
	`

	rows, err := r.dbpool.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templatesMap := make(map[int64]*domain.ShiftTemplate)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			ID        int64
			Name      string
			Timezone  string
			StartTime string
			EndTime   string
			CreatedAt time.Time
			Version   int32

			Day sql.NullInt32
		}

		dst := []any{&row.ID, &row.Name, &row.Timezone, &row.StartTime, &row.EndTime, &row.CreatedAt, &row.Version, &row.Day}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		tpl, exists := templatesMap[row.ID]
		if !exists {
			// 说明此时是第一次查到这个模板，需要在 map 中初始化这个模板
			tpl = &domain.ShiftTemplate{
				ID:             row.ID,
				OrgID:          orgID,
				Name:           row.Name,
				Timezone:       row.Timezone,
				StartTime:      row.StartTime,
				EndTime:        row.EndTime,
				ApplicableDays: make([]int32, 0),
				CreatedAt:      row.CreatedAt,
				Version:        row.Version,
			}
			templatesMap[row.ID] = tpl
			order = append(order, row.ID)
		}

		// 如果 day 为空，则表示这个模板不存在任何的适用日期
		if !row.Day.Valid {
			continue
		}

		tpl.ApplicableDays = append(tpl.ApplicableDays, row.Day.Int32)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	templates := make([]*domain.ShiftTemplate, 0, len(order))
	for _, id := range order {
		templates = append(templates, templatesMap[id])
	}

	return templates, nil
}

func (r *Repository) GetShiftTemplate(id int64) (*domain.ShiftTemplate, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			st.org_id,
			st.name,
			st.timezone,
			st.start_time,
			st.end_time,
			st.created_at,
			st.version,
			stad.day
		FROM shift_templates st
		LEFT JOIN shift_template_applicable_days stad ON st.id = stad.template_id
		WHERE st.id = $1
		ORDER BY stad.day
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tpl := &domain.ShiftTemplate{
		ID:             id,
		ApplicableDays: make([]int32, 0),
	}
	found := false

	for rows.Next() {
		var day sql.NullInt32
		dst := []any{&tpl.OrgID, &tpl.Name, &tpl.Timezone, &tpl.StartTime, &tpl.EndTime, &tpl.CreatedAt, &tpl.Version, &day}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		found = true

		if !day.Valid {
			continue
		}
		tpl.ApplicableDays = append(tpl.ApplicableDays, day.Int32)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !found {
		return nil, sql.ErrNoRows
	}

	return tpl, nil
}

func (r *Repository) CreateShiftTemplate(tpl *domain.ShiftTemplate) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO shift_templates (org_id, name, timezone, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`
	args := []any{tpl.OrgID, tpl.Name, tpl.Timezone, tpl.StartTime, tpl.EndTime}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&tpl.ID, &tpl.CreatedAt, &tpl.Version); err != nil {
		return err
	}

	for _, day := range tpl.ApplicableDays {
		query = `
			INSERT INTO shift_template_applicable_days (template_id, day)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, tpl.ID, day); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateShiftTemplate(tpl *domain.ShiftTemplate) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 时区在创建时固定，更新时不允许修改
	query := `
		UPDATE shift_templates
		SET
			name = $1,
			start_time = $2,
			end_time = $3,
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING version
	`
	args := []any{tpl.Name, tpl.StartTime, tpl.EndTime, tpl.ID, tpl.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&tpl.Version); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM shift_template_applicable_days WHERE template_id = $1`, tpl.ID); err != nil {
		return err
	}
	for _, day := range tpl.ApplicableDays {
		if _, err := tx.ExecContext(ctx, `INSERT INTO shift_template_applicable_days (template_id, day) VALUES ($1, $2)`, tpl.ID, day); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteShiftTemplate(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM shift_templates WHERE id = $1
	`

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateShiftAssignment(assignment *domain.ShiftAssignment) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO shift_assignments (shift_id, user_id, effective_from, effective_to)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	args := []any{assignment.ShiftID, assignment.UserID, assignment.EffectiveFrom, assignment.EffectiveTo}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&assignment.ID, &assignment.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteShiftAssignment(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, `DELETE FROM shift_assignments WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return nil
}

// GetUserShiftSchedule 一次取回用户的全部 assignment 和牵涉到的模板，
// 窗口解析在 attendance 包中完成
func (r *Repository) GetUserShiftSchedule(userID int64) ([]*domain.ShiftAssignment, []*domain.ShiftTemplate, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			sa.id,
			sa.shift_id,
			sa.effective_from,
			sa.effective_to,
			sa.created_at,
			st.org_id,
			st.name,
			st.timezone,
			st.start_time,
			st.end_time,
			st.created_at,
			st.version,
			stad.day
		FROM shift_assignments sa
		JOIN shift_templates st ON st.id = sa.shift_id
		LEFT JOIN shift_template_applicable_days stad ON st.id = stad.template_id
		WHERE sa.user_id = $1
		ORDER BY sa.id, stad.day
	`

	rows, err := r.dbpool.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	assignmentsMap := make(map[int64]*domain.ShiftAssignment)
	assignmentOrder := make([]int64, 0)
	templatesMap := make(map[int64]*domain.ShiftTemplate)
	templateDays := make(map[int64]map[int32]bool)

	for rows.Next() {
		var row struct {
			AssignmentID  int64
			ShiftID       int64
			EffectiveFrom time.Time
			EffectiveTo   *time.Time
			AssignedAt    time.Time

			OrgID        int64
			Name         string
			Timezone     string
			StartTime    string
			EndTime      string
			TplCreatedAt time.Time
			Version      int32
			Day          sql.NullInt32
		}

		dst := []any{
			&row.AssignmentID,
			&row.ShiftID,
			&row.EffectiveFrom,
			&row.EffectiveTo,
			&row.AssignedAt,
			&row.OrgID,
			&row.Name,
			&row.Timezone,
			&row.StartTime,
			&row.EndTime,
			&row.TplCreatedAt,
			&row.Version,
			&row.Day,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, nil, err
		}

		if _, exists := assignmentsMap[row.AssignmentID]; !exists {
			assignmentsMap[row.AssignmentID] = &domain.ShiftAssignment{
				ID:            row.AssignmentID,
				ShiftID:       row.ShiftID,
				UserID:        userID,
				EffectiveFrom: row.EffectiveFrom,
				EffectiveTo:   row.EffectiveTo,
				CreatedAt:     row.AssignedAt,
			}
			assignmentOrder = append(assignmentOrder, row.AssignmentID)
		}

		if _, exists := templatesMap[row.ShiftID]; !exists {
			templatesMap[row.ShiftID] = &domain.ShiftTemplate{
				ID:             row.ShiftID,
				OrgID:          row.OrgID,
				Name:           row.Name,
				Timezone:       row.Timezone,
				StartTime:      row.StartTime,
				EndTime:        row.EndTime,
				ApplicableDays: make([]int32, 0),
				CreatedAt:      row.TplCreatedAt,
				Version:        row.Version,
			}
			templateDays[row.ShiftID] = make(map[int32]bool)
		}

		if !row.Day.Valid {
			continue
		}
		// 同一个模板可能对应多条 assignment 行，适用日期去重后再追加
		if templateDays[row.ShiftID][row.Day.Int32] {
			continue
		}
		templateDays[row.ShiftID][row.Day.Int32] = true
		templatesMap[row.ShiftID].ApplicableDays = append(templatesMap[row.ShiftID].ApplicableDays, row.Day.Int32)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	assignments := make([]*domain.ShiftAssignment, 0, len(assignmentOrder))
	for _, id := range assignmentOrder {
		assignments = append(assignments, assignmentsMap[id])
	}
	templates := make([]*domain.ShiftTemplate, 0, len(templatesMap))
	for _, tpl := range templatesMap {
		templates = append(templates, tpl)
	}

	return assignments, templates, nil
}
