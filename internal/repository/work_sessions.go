package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/domain"
)

// StartWorkSession 为用户开启一个工作会话。
// work_sessions 上的部分唯一索引保证每个用户至多一个未结束的会话，
// 并发的两次开始请求里后写入的那个会撞到约束而失败
func (r *Repository) StartWorkSession(user *domain.User, taskDescription string, now time.Time) (*domain.WorkSession, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	session := &domain.WorkSession{
		OrgID:           user.OrgID,
		UserID:          user.ID,
		SessionType:     domain.SessionTypeWork,
		StartedAt:       now,
		TaskDescription: taskDescription,
		Source:          "API",
	}

	query := `
		INSERT INTO work_sessions (org_id, user_id, session_type, started_at, task_description, source)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	args := []any{session.OrgID, session.UserID, session.SessionType, session.StartedAt, session.TaskDescription, session.Source}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&session.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "work_sessions_one_open_per_user" {
			return nil, ErrOpenSessionExists
		}
		return nil, err
	}

	return session, nil
}

// StartBreakSession 开启午休或小休。
// 要求当前必须有进行中的工作会话，并在同一个事务里把它关闭后再写入新会话，
// 调用方中途放弃不会留下半开的会话
func (r *Repository) StartBreakSession(user *domain.User, sessionType domain.SessionType, now time.Time) (*domain.WorkSession, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 关闭进行中的工作会话，没有的话说明用户状态不允许休息
	closeQuery := `
		UPDATE work_sessions
		SET ended_at = $1
		WHERE user_id = $2 AND session_type = $3 AND ended_at IS NULL
	`
	result, err := tx.ExecContext(ctx, closeQuery, now, user.ID, domain.SessionTypeWork)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNoOpenWorkSession
	}

	session := &domain.WorkSession{
		OrgID:       user.OrgID,
		UserID:      user.ID,
		SessionType: sessionType,
		StartedAt:   now,
		Source:      "API",
	}

	insertQuery := `
		INSERT INTO work_sessions (org_id, user_id, session_type, started_at, source)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	args := []any{session.OrgID, session.UserID, session.SessionType, session.StartedAt, session.Source}
	if err := tx.QueryRowContext(ctx, insertQuery, args...).Scan(&session.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "work_sessions_one_open_per_user" {
			return nil, ErrOpenSessionExists
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return session, nil
}

// StopOpenSession 结束用户当前未结束的会话，没有则返回 ErrNoOpenSession。
// 会话只会被写入结束时间，从不删除
func (r *Repository) StopOpenSession(userID int64, now time.Time) (*domain.WorkSession, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE work_sessions
		SET ended_at = $1
		WHERE user_id = $2 AND ended_at IS NULL
		RETURNING id, org_id, session_type, started_at, task_description, source
	`

	session := &domain.WorkSession{
		UserID:  userID,
		EndedAt: &now,
	}
	var taskDescription *string
	dst := []any{&session.ID, &session.OrgID, &session.SessionType, &session.StartedAt, &taskDescription, &session.Source}
	if err := r.dbpool.QueryRowContext(ctx, query, now, userID).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoOpenSession
		}
		return nil, err
	}
	if taskDescription != nil {
		session.TaskDescription = *taskDescription
	}

	return session, nil
}

func (r *Repository) GetOpenSession(userID int64) (*domain.WorkSession, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, org_id, session_type, started_at, task_description, source
		FROM work_sessions
		WHERE user_id = $1 AND ended_at IS NULL
	`

	session := &domain.WorkSession{UserID: userID}
	var taskDescription *string
	dst := []any{&session.ID, &session.OrgID, &session.SessionType, &session.StartedAt, &taskDescription, &session.Source}
	if err := r.dbpool.QueryRowContext(ctx, query, userID).Scan(dst...); err != nil {
		return nil, err
	}
	if taskDescription != nil {
		session.TaskDescription = *taskDescription
	}

	return session, nil
}

// GetSessionsOverlapping 返回和 [from, to) 有任何重叠的会话，
// 未结束的会话视为一直延续到现在
func (r *Repository) GetSessionsOverlapping(userID int64, from, to time.Time) ([]*domain.WorkSession, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, org_id, session_type, started_at, ended_at, task_description, source
		FROM work_sessions
		WHERE user_id = $1
			AND started_at < $3
			AND (ended_at IS NULL OR ended_at > $2)
		ORDER BY started_at
	`

	rows, err := r.dbpool.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]*domain.WorkSession, 0)
	for rows.Next() {
		session := &domain.WorkSession{UserID: userID}
		var taskDescription *string
		dst := []any{&session.ID, &session.OrgID, &session.SessionType, &session.StartedAt, &session.EndedAt, &taskDescription, &session.Source}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if taskDescription != nil {
			session.TaskDescription = *taskDescription
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}
