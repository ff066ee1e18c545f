package attendance

import (
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/domain"
)

func closedSession(sessionType domain.SessionType, start, end time.Time) *domain.WorkSession {
	return &domain.WorkSession{
		UserID:      1,
		SessionType: sessionType,
		StartedAt:   start,
		EndedAt:     &end,
	}
}

func TestAccumulateBuckets(t *testing.T) {
	window := Interval{Start: utc(2026, 3, 2, 9, 0), End: utc(2026, 3, 2, 17, 0)}
	now := utc(2026, 3, 2, 23, 0)

	t.Run("窗口外的时间被裁掉", func(t *testing.T) {
		// 8:30 开工 17:30 收工，但班次窗口是 9:00-17:00，只计 480 分钟
		sessions := []*domain.WorkSession{
			closedSession(domain.SessionTypeWork, utc(2026, 3, 2, 8, 30), utc(2026, 3, 2, 17, 30)),
		}

		buckets := AccumulateBuckets(sessions, []Interval{window}, now)
		if buckets.WorkMinutes != 480 {
			t.Errorf("WorkMinutes = %d, want 480", buckets.WorkMinutes)
		}
	})

	t.Run("完全在窗口外的会话被丢弃", func(t *testing.T) {
		sessions := []*domain.WorkSession{
			closedSession(domain.SessionTypeWork, utc(2026, 3, 2, 18, 0), utc(2026, 3, 2, 20, 0)),
		}

		buckets := AccumulateBuckets(sessions, []Interval{window}, now)
		if buckets.WorkMinutes != 0 {
			t.Errorf("WorkMinutes = %d, want 0", buckets.WorkMinutes)
		}
	})

	t.Run("未结束的会话按当前时刻截断", func(t *testing.T) {
		sessions := []*domain.WorkSession{
			{UserID: 1, SessionType: domain.SessionTypeWork, StartedAt: utc(2026, 3, 2, 9, 0)},
		}

		buckets := AccumulateBuckets(sessions, []Interval{window}, utc(2026, 3, 2, 12, 0))
		if buckets.WorkMinutes != 180 {
			t.Errorf("WorkMinutes = %d, want 180", buckets.WorkMinutes)
		}
	})

	t.Run("会话按类型分桶", func(t *testing.T) {
		sessions := []*domain.WorkSession{
			closedSession(domain.SessionTypeWork, utc(2026, 3, 2, 9, 0), utc(2026, 3, 2, 12, 0)),
			closedSession(domain.SessionTypeLunch, utc(2026, 3, 2, 12, 0), utc(2026, 3, 2, 13, 15)),
			closedSession(domain.SessionTypeWork, utc(2026, 3, 2, 13, 15), utc(2026, 3, 2, 16, 0)),
			closedSession(domain.SessionTypeShortBreak, utc(2026, 3, 2, 16, 0), utc(2026, 3, 2, 16, 20)),
		}

		buckets := AccumulateBuckets(sessions, []Interval{window}, now)
		if buckets.WorkMinutes != 345 {
			t.Errorf("WorkMinutes = %d, want 345", buckets.WorkMinutes)
		}
		if buckets.LunchMinutes != 75 {
			t.Errorf("LunchMinutes = %d, want 75", buckets.LunchMinutes)
		}
		if buckets.ShortBreakMinutes != 20 {
			t.Errorf("ShortBreakMinutes = %d, want 20", buckets.ShortBreakMinutes)
		}
	})

	t.Run("拆分班的两个窗口分别求交", func(t *testing.T) {
		windows := []Interval{
			{Start: utc(2026, 3, 2, 8, 0), End: utc(2026, 3, 2, 12, 0)},
			{Start: utc(2026, 3, 2, 14, 0), End: utc(2026, 3, 2, 18, 0)},
		}
		// 跨越午间空窗的会话，中间两小时不计
		sessions := []*domain.WorkSession{
			closedSession(domain.SessionTypeWork, utc(2026, 3, 2, 10, 0), utc(2026, 3, 2, 16, 0)),
		}

		buckets := AccumulateBuckets(sessions, windows, now)
		if buckets.WorkMinutes != 240 {
			t.Errorf("WorkMinutes = %d, want 240", buckets.WorkMinutes)
		}
	})

	t.Run("重复会话照常相加", func(t *testing.T) {
		sessions := []*domain.WorkSession{
			closedSession(domain.SessionTypeWork, utc(2026, 3, 2, 9, 0), utc(2026, 3, 2, 10, 0)),
			closedSession(domain.SessionTypeWork, utc(2026, 3, 2, 9, 30), utc(2026, 3, 2, 10, 30)),
		}

		buckets := AccumulateBuckets(sessions, []Interval{window}, now)
		if buckets.WorkMinutes != 120 {
			t.Errorf("WorkMinutes = %d, want 120", buckets.WorkMinutes)
		}
	})

	t.Run("没有窗口时不计任何时间", func(t *testing.T) {
		sessions := []*domain.WorkSession{
			closedSession(domain.SessionTypeWork, utc(2026, 3, 2, 9, 0), utc(2026, 3, 2, 17, 0)),
		}

		buckets := AccumulateBuckets(sessions, nil, now)
		if buckets.WorkMinutes != 0 {
			t.Errorf("WorkMinutes = %d, want 0", buckets.WorkMinutes)
		}
	})
}
