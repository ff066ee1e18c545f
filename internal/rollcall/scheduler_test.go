package rollcall

import (
	"math/rand"
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/domain"
)

var testParams = Params{
	MinGap:         5 * time.Minute,
	MaxGap:         16 * time.Minute,
	ResponseWindow: 5 * time.Minute,
}

func TestClampPerHour(t *testing.T) {
	cases := []struct {
		name string
		in   int
		want int
	}{
		{"合法值原样返回", 5, 5},
		{"下限", 1, 1},
		{"上限", 12, 12},
		{"超过上限压到上限", 20, 12},
		{"零回落到默认值", 0, 5},
		{"负数回落到默认值", -3, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClampPerHour(tc.in, 5); got != tc.want {
				t.Errorf("ClampPerHour(%d) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestGenerateTimes(t *testing.T) {
	hourStart := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	t.Run("全部触发时刻落在本小时内且留足响应窗口", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		times := GenerateTimes(hourStart, hourStart, 12, testParams, rng)

		latestAllowed := hourStart.Add(time.Hour).Add(-testParams.ResponseWindow)
		for _, triggeredAt := range times {
			if triggeredAt.Before(hourStart) || triggeredAt.After(latestAllowed) {
				t.Errorf("触发时刻 %v 超出允许范围", triggeredAt)
			}
		}
	})

	t.Run("相邻触发时刻的间隔不小于最小间隔", func(t *testing.T) {
		rng := rand.New(rand.NewSource(2))
		times := GenerateTimes(hourStart, hourStart, 12, testParams, rng)

		for i := 1; i < len(times); i++ {
			gap := times[i].Sub(times[i-1])
			if gap < testParams.MinGap {
				t.Errorf("间隔 %v 小于最小间隔 %v", gap, testParams.MinGap)
			}
			if gap > testParams.MaxGap {
				t.Errorf("间隔 %v 大于最大间隔 %v", gap, testParams.MaxGap)
			}
		}
	})

	t.Run("第一个触发时刻落在锚点", func(t *testing.T) {
		rng := rand.New(rand.NewSource(3))
		now := hourStart.Add(20 * time.Minute)
		times := GenerateTimes(hourStart, now, 3, testParams, rng)

		if len(times) == 0 {
			t.Fatal("期望至少生成一个触发时刻")
		}
		if !times[0].Equal(now) {
			t.Errorf("第一个触发时刻 = %v, want %v", times[0], now)
		}
	})

	t.Run("剩余时间不足时宁可少生成", func(t *testing.T) {
		rng := rand.New(rand.NewSource(4))
		// 锚点离小时结束只剩 7 分钟，最多放得下 1 个
		now := hourStart.Add(53 * time.Minute)
		times := GenerateTimes(hourStart, now, 12, testParams, rng)

		if len(times) != 1 {
			t.Errorf("期望只生成 1 个触发时刻, got %d", len(times))
		}
	})

	t.Run("锚点已超过最晚允许时刻时不生成", func(t *testing.T) {
		rng := rand.New(rand.NewSource(5))
		now := hourStart.Add(56 * time.Minute)
		times := GenerateTimes(hourStart, now, 3, testParams, rng)

		if len(times) != 0 {
			t.Errorf("期望不生成任何触发时刻, got %d", len(times))
		}
	})

	t.Run("相同种子生成相同序列", func(t *testing.T) {
		a := GenerateTimes(hourStart, hourStart, 5, testParams, rand.New(rand.NewSource(42)))
		b := GenerateTimes(hourStart, hourStart, 5, testParams, rand.New(rand.NewSource(42)))

		if len(a) != len(b) {
			t.Fatalf("两次生成的数量不同: %d vs %d", len(a), len(b))
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				t.Errorf("第 %d 个触发时刻不同: %v vs %v", i, a[i], b[i])
			}
		}
	})

	t.Run("次数为零时不生成", func(t *testing.T) {
		rng := rand.New(rand.NewSource(6))
		if times := GenerateTimes(hourStart, hourStart, 0, testParams, rng); len(times) != 0 {
			t.Errorf("期望不生成任何触发时刻, got %d", len(times))
		}
	})
}

func TestAssign(t *testing.T) {
	hourStart := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	times := []time.Time{
		hourStart,
		hourStart.Add(10 * time.Minute),
		hourStart.Add(25 * time.Minute),
	}
	responseWindow := 5 * time.Minute

	t.Run("同一批内不重复选中同一个人", func(t *testing.T) {
		candidates := []*domain.User{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}
		rng := rand.New(rand.NewSource(7))

		scheduled := Assign(times, candidates, responseWindow, rng)
		if len(scheduled) != 3 {
			t.Fatalf("期望分配 3 个点名, got %d", len(scheduled))
		}

		seen := make(map[int64]bool)
		for _, entry := range scheduled {
			if seen[entry.UserID] {
				t.Errorf("用户 %d 被重复选中", entry.UserID)
			}
			seen[entry.UserID] = true
		}
	})

	t.Run("截止时刻等于触发时刻加响应窗口", func(t *testing.T) {
		candidates := []*domain.User{{ID: 1}, {ID: 2}, {ID: 3}}
		rng := rand.New(rand.NewSource(8))

		for _, entry := range Assign(times, candidates, responseWindow, rng) {
			if !entry.DeadlineAt.Equal(entry.TriggeredAt.Add(responseWindow)) {
				t.Errorf("截止时刻错误: triggered=%v deadline=%v", entry.TriggeredAt, entry.DeadlineAt)
			}
		}
	})

	t.Run("候选不足时提前收手", func(t *testing.T) {
		candidates := []*domain.User{{ID: 1}}
		rng := rand.New(rand.NewSource(9))

		scheduled := Assign(times, candidates, responseWindow, rng)
		if len(scheduled) != 1 {
			t.Errorf("期望只分配 1 个点名, got %d", len(scheduled))
		}
	})

	t.Run("没有候选时返回空", func(t *testing.T) {
		rng := rand.New(rand.NewSource(10))
		if scheduled := Assign(times, nil, responseWindow, rng); len(scheduled) != 0 {
			t.Errorf("期望不分配任何点名, got %d", len(scheduled))
		}
	})
}

func TestHourBucket(t *testing.T) {
	shanghai, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		t.Fatal(err)
	}

	// 无论输入的时区是什么，同一时刻都归到同一个 UTC 整点
	a := time.Date(2026, 3, 2, 18, 42, 17, 0, shanghai)
	b := a.UTC()

	if !HourBucket(a).Equal(HourBucket(b)) {
		t.Error("不同时区表示的同一时刻应归到同一个小时桶")
	}
	if got := HourBucket(a); got.Minute() != 0 || got.Second() != 0 {
		t.Errorf("小时桶应是整点: %v", got)
	}
}
