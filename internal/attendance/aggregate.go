package attendance

import (
	"time"

	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/domain"
)

type Buckets struct {
	WorkMinutes       int
	LunchMinutes      int
	ShortBreakMinutes int
}

// AccumulateBuckets 把会话和班次窗口求交后按类型累加成分钟桶。
// 落在所有窗口之外的时间直接丢弃，既不计入也不报错；
// 未结束的会话按 now 截断；同类型的重复会话照常相加，不做去重——
// 被强制关闭后立刻重复开工的用户两段时长都会累计，这是审计上的刻意行为
func AccumulateBuckets(sessions []*domain.WorkSession, windows []Interval, now time.Time) Buckets {
	buckets := Buckets{}

	for _, session := range sessions {
		end := now
		if session.EndedAt != nil {
			end = *session.EndedAt
		}
		if !end.After(session.StartedAt) {
			continue
		}
		sessionInterval := Interval{Start: session.StartedAt, End: end}

		minutes := 0
		for _, window := range windows {
			overlap, ok := Intersect(sessionInterval, window)
			if !ok {
				continue
			}
			minutes += overlap.Minutes()
		}
		if minutes == 0 {
			continue
		}

		switch session.SessionType {
		case domain.SessionTypeWork:
			buckets.WorkMinutes += minutes
		case domain.SessionTypeLunch:
			buckets.LunchMinutes += minutes
		case domain.SessionTypeShortBreak:
			buckets.ShortBreakMinutes += minutes
		}
	}

	return buckets
}
