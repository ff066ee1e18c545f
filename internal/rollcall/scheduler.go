package rollcall

import (
	"math/rand"
	"time"

	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/domain"
)

const (
	MinPerHour = 1
	MaxPerHour = 12
)

// ClampPerHour 把组织配置的每小时点名次数压到支持的范围内，
// 非法值回落到 defaultPerHour
func ClampPerHour(n int, defaultPerHour int) int {
	if n <= 0 {
		n = defaultPerHour
	}
	if n < MinPerHour {
		return MinPerHour
	}
	if n > MaxPerHour {
		return MaxPerHour
	}
	return n
}

type Params struct {
	MinGap         time.Duration
	MaxGap         time.Duration
	ResponseWindow time.Duration
}

// GenerateTimes 在 [hourStart, hourStart+1h) 内生成至多 count 个触发时刻：
// 第一个落在锚点（now 和 hourStart 的较晚者），之后每个和前一个相隔
// [MinGap, MaxGap] 之间均匀采样的随机间隔，且不晚于
// 小时结束前一个响应窗口的位置。剩余时间塞不下最小间隔时宁可少生成，
// 也不会压缩间隔。
// 随机间隔只是让终端用户无法从 triggered_at 的可见时机倒推规律，
// 不提供密码学意义上的不可预测性
func GenerateTimes(hourStart, now time.Time, count int, p Params, rng *rand.Rand) []time.Time {
	if count <= 0 {
		return nil
	}

	endOfHour := hourStart.Add(time.Hour)
	latestAllowed := endOfHour.Add(-p.ResponseWindow)

	anchor := now
	if anchor.Before(hourStart) {
		anchor = hourStart
	}
	if anchor.After(latestAllowed) {
		return nil
	}

	times := make([]time.Time, 0, count)
	times = append(times, anchor)

	for len(times) < count {
		remaining := latestAllowed.Sub(anchor)
		if remaining <= p.MinGap {
			break
		}

		maxGap := p.MaxGap
		if remaining < maxGap {
			maxGap = remaining
		}

		minSeconds := int64(p.MinGap / time.Second)
		maxSeconds := int64(maxGap / time.Second)
		gapSeconds := minSeconds + rng.Int63n(maxSeconds-minSeconds+1)

		next := anchor.Add(time.Duration(gapSeconds) * time.Second)
		if next.After(latestAllowed) {
			break
		}

		times = append(times, next)
		anchor = next
	}

	return times
}

type Scheduled struct {
	UserID      int64
	TriggeredAt time.Time
	DeadlineAt  time.Time
}

// Assign 为每个触发时刻随机挑选一个目标用户。
// 候选名单里应当只有当前没有待响应点名的用户，同一批内也不会重复选中同一个人，
// 候选用完就提前收手
func Assign(times []time.Time, candidates []*domain.User, responseWindow time.Duration, rng *rand.Rand) []Scheduled {
	pool := make([]*domain.User, len(candidates))
	copy(pool, candidates)

	scheduled := make([]Scheduled, 0, len(times))
	for _, triggeredAt := range times {
		if len(pool) == 0 {
			break
		}
		idx := rng.Intn(len(pool))
		user := pool[idx]
		pool = append(pool[:idx], pool[idx+1:]...)

		scheduled = append(scheduled, Scheduled{
			UserID:      user.ID,
			TriggeredAt: triggeredAt,
			DeadlineAt:  triggeredAt.Add(responseWindow),
		})
	}

	return scheduled
}

// HourBucket 返回时刻所在的整点，作为幂等去重的键
func HourBucket(t time.Time) time.Time {
	return t.UTC().Truncate(time.Hour)
}
