package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/domain"
	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/rollcall"
)

// SeedRollCalls 把一批生成好的点名写入数据库。
// roll_call_seeds 表上 (org_id, hour_start) 的唯一约束保证同一个小时只会播种一次：
// 两个 cron 实例同时打进来时，后提交的事务会在 ON CONFLICT DO NOTHING 上拿到零行，
// 整批生成结果直接作废，不会出现重复点名。
// 即使没有生成任何点名也要占住这一小时，否则同一小时内的重复调用会反复重掷目标，
// 触发时机就变得可观测了
func (r *Repository) SeedRollCalls(orgID int64, hourStart time.Time, entries []rollcall.Scheduled) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	claimQuery := `
		INSERT INTO roll_call_seeds (org_id, hour_start)
		VALUES ($1, $2)
		ON CONFLICT (org_id, hour_start) DO NOTHING
	`
	result, err := tx.ExecContext(ctx, claimQuery, orgID, hourStart)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, ErrHourAlreadySeeded
	}

	insertQuery := `
		INSERT INTO roll_calls (org_id, user_id, triggered_at, deadline_at, result)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, entry := range entries {
		if _, err := tx.ExecContext(ctx, insertQuery, orgID, entry.UserID, entry.TriggeredAt, entry.DeadlineAt, domain.RollCallPending); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return len(entries), nil
}

// GetEligibleRollCallCandidates 返回此刻可以被点名的用户：
// 启用中、有进行中的工作会话、当天没有请假、名下没有待响应的点名。
// 是否处在班次窗口内由调用方再过滤一道，窗口解析不适合放进 SQL
func (r *Repository) GetEligibleRollCallCandidates(orgID int64, now time.Time, date string) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT DISTINCT u.id, u.org_id, u.username, u.full_name, u.email, u.role, u.timezone, u.is_active, u.created_at, u.version
		FROM users u
		JOIN work_sessions ws ON ws.user_id = u.id
		WHERE u.org_id = $1
			AND u.is_active = TRUE
			AND ws.session_type = $2
			AND ws.started_at <= $3
			AND ws.ended_at IS NULL
			AND NOT EXISTS (
				SELECT 1 FROM leaves l
				WHERE l.user_id = u.id AND l.date = $4
			)
			AND NOT EXISTS (
				SELECT 1 FROM roll_calls rc
				WHERE rc.user_id = u.id AND rc.result = $5
			)
	`

	args := []any{orgID, domain.SessionTypeWork, now, date, domain.RollCallPending}
	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user := &domain.User{}
		dst := []any{&user.ID, &user.OrgID, &user.Username, &user.FullName, &user.Email, &user.Role, &user.Timezone, &user.IsActive, &user.CreatedAt, &user.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *Repository) GetRollCallByID(id int64) (*domain.RollCall, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT org_id, user_id, triggered_at, deadline_at, responded_at, result
		FROM roll_calls WHERE id = $1
	`

	rc := &domain.RollCall{ID: id}
	dst := []any{&rc.OrgID, &rc.UserID, &rc.TriggeredAt, &rc.DeadlineAt, &rc.RespondedAt, &rc.Result}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return rc, nil
}

// GetPendingRollCall 返回用户当前可见且未超时的点名。
// 点名在 triggered_at 之前对目标不可见，所以提前整点生成也不会让时机变得可预测
func (r *Repository) GetPendingRollCall(userID int64, now time.Time) (*domain.RollCall, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, org_id, triggered_at, deadline_at, responded_at, result
		FROM roll_calls
		WHERE user_id = $1 AND result = $2 AND triggered_at <= $3 AND deadline_at > $3
		ORDER BY triggered_at DESC
		LIMIT 1
	`

	rc := &domain.RollCall{UserID: userID}
	dst := []any{&rc.ID, &rc.OrgID, &rc.TriggeredAt, &rc.DeadlineAt, &rc.RespondedAt, &rc.Result}
	if err := r.dbpool.QueryRowContext(ctx, query, userID, domain.RollCallPending, now).Scan(dst...); err != nil {
		return nil, err
	}

	return rc, nil
}

// RespondRollCall 把点名从 PENDING 推进到 PASSED 或 LATE。
// 条件更新只在仍是 PENDING 时生效，和过期清扫并发时先提交者胜出，
// 输掉的一方拿到 ErrRollCallClosed 而不是报错
func (r *Repository) RespondRollCall(id int64, now time.Time) (*domain.RollCall, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE roll_calls
		SET responded_at = $2,
			result = CASE WHEN $2 <= deadline_at THEN $3::rollcall_result ELSE $4::rollcall_result END
		WHERE id = $1 AND result = $5
		RETURNING org_id, user_id, triggered_at, deadline_at, responded_at, result
	`

	rc := &domain.RollCall{ID: id}
	args := []any{id, now, domain.RollCallPassed, domain.RollCallLate, domain.RollCallPending}
	dst := []any{&rc.OrgID, &rc.UserID, &rc.TriggeredAt, &rc.DeadlineAt, &rc.RespondedAt, &rc.Result}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRollCallClosed
		}
		return nil, err
	}

	return rc, nil
}

// ExpireRollCalls 把所有超过截止时间仍未响应的点名标记为 MISSED，
// 返回被标记的记录用于后续通知。和用户响应的竞态同样由条件更新兜底
func (r *Repository) ExpireRollCalls(now time.Time) ([]*domain.RollCall, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE roll_calls
		SET result = $1
		WHERE result = $2 AND deadline_at < $3
		RETURNING id, org_id, user_id, triggered_at, deadline_at
	`

	rows, err := r.dbpool.QueryContext(ctx, query, domain.RollCallMissed, domain.RollCallPending, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expired := make([]*domain.RollCall, 0)
	for rows.Next() {
		rc := &domain.RollCall{Result: domain.RollCallMissed}
		dst := []any{&rc.ID, &rc.OrgID, &rc.UserID, &rc.TriggeredAt, &rc.DeadlineAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		expired = append(expired, rc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return expired, nil
}

// GetRollCallsBetween 返回触发时刻落在 [from, to) 内的点名记录
func (r *Repository) GetRollCallsBetween(userID int64, from, to time.Time) ([]*domain.RollCall, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, org_id, triggered_at, deadline_at, responded_at, result
		FROM roll_calls
		WHERE user_id = $1 AND triggered_at >= $2 AND triggered_at < $3
		ORDER BY triggered_at
	`

	rows, err := r.dbpool.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rollCalls := make([]*domain.RollCall, 0)
	for rows.Next() {
		rc := &domain.RollCall{UserID: userID}
		dst := []any{&rc.ID, &rc.OrgID, &rc.TriggeredAt, &rc.DeadlineAt, &rc.RespondedAt, &rc.Result}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		rollCalls = append(rollCalls, rc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rollCalls, nil
}
