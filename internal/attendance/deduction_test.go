package attendance

import (
	"math"
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/team-monitor/backend/internal/domain"
)

var defaultAllowances = Allowances{
	LunchMinutes:      60,
	ShortBreakMinutes: 30,
	DailyCapMinutes:   480,
}

func TestOverbreakMinutes(t *testing.T) {
	t.Run("午休超额", func(t *testing.T) {
		buckets := Buckets{LunchMinutes: 75, ShortBreakMinutes: 20}
		if got := OverbreakMinutes(buckets, defaultAllowances); got != 15 {
			t.Errorf("OverbreakMinutes = %d, want 15", got)
		}
	})

	t.Run("额度内不扣", func(t *testing.T) {
		buckets := Buckets{LunchMinutes: 60, ShortBreakMinutes: 30}
		if got := OverbreakMinutes(buckets, defaultAllowances); got != 0 {
			t.Errorf("OverbreakMinutes = %d, want 0", got)
		}
	})

	t.Run("两类超额分别计算后相加", func(t *testing.T) {
		buckets := Buckets{LunchMinutes: 70, ShortBreakMinutes: 45}
		if got := OverbreakMinutes(buckets, defaultAllowances); got != 25 {
			t.Errorf("OverbreakMinutes = %d, want 25", got)
		}
	})
}

func lateRollCall(deadline time.Time, delay time.Duration) *domain.RollCall {
	respondedAt := deadline.Add(delay)
	return &domain.RollCall{
		DeadlineAt:  deadline,
		RespondedAt: &respondedAt,
		Result:      domain.RollCallLate,
	}
}

func TestRollCallDeductionMinutes(t *testing.T) {
	deadline := utc(2026, 3, 2, 10, 5)
	responseWindow := 5 * time.Minute

	t.Run("迟到按秒数向上取整到分钟", func(t *testing.T) {
		// 迟到 125 秒，不足 3 分钟也按 3 分钟扣
		rollCalls := []*domain.RollCall{lateRollCall(deadline, 125 * time.Second)}
		if got := RollCallDeductionMinutes(rollCalls, responseWindow); got != 3 {
			t.Errorf("扣减 = %d 分钟, want 3", got)
		}
	})

	t.Run("迟到整分钟不多扣", func(t *testing.T) {
		rollCalls := []*domain.RollCall{lateRollCall(deadline, 120 * time.Second)}
		if got := RollCallDeductionMinutes(rollCalls, responseWindow); got != 2 {
			t.Errorf("扣减 = %d 分钟, want 2", got)
		}
	})

	t.Run("缺席按整个响应窗口扣", func(t *testing.T) {
		rollCalls := []*domain.RollCall{{DeadlineAt: deadline, Result: domain.RollCallMissed}}
		if got := RollCallDeductionMinutes(rollCalls, responseWindow); got != 5 {
			t.Errorf("扣减 = %d 分钟, want 5", got)
		}
	})

	t.Run("按时通过不扣", func(t *testing.T) {
		respondedAt := deadline.Add(-time.Minute)
		rollCalls := []*domain.RollCall{{
			DeadlineAt:  deadline,
			RespondedAt: &respondedAt,
			Result:      domain.RollCallPassed,
		}}
		if got := RollCallDeductionMinutes(rollCalls, responseWindow); got != 0 {
			t.Errorf("扣减 = %d 分钟, want 0", got)
		}
	})

	t.Run("多次点名的扣减累加", func(t *testing.T) {
		rollCalls := []*domain.RollCall{
			lateRollCall(deadline, 61 * time.Second),
			{DeadlineAt: deadline, Result: domain.RollCallMissed},
		}
		if got := RollCallDeductionMinutes(rollCalls, responseWindow); got != 7 {
			t.Errorf("扣减 = %d 分钟, want 7", got)
		}
	})
}

func TestNetHours(t *testing.T) {
	almostEqual := func(a, b float64) bool {
		return math.Abs(a-b) < 1e-9
	}

	t.Run("常规扣减", func(t *testing.T) {
		// 480 分钟工作，超休 15 分钟，点名扣 3 分钟 → 8 - 0.3 = 7.7
		if got := NetHours(480, 15, 3, 480); !almostEqual(got, 7.7) {
			t.Errorf("NetHours = %v, want 7.7", got)
		}
	})

	t.Run("超长工时先压到上限", func(t *testing.T) {
		if got := NetHours(600, 0, 0, 480); !almostEqual(got, 8) {
			t.Errorf("NetHours = %v, want 8", got)
		}
	})

	t.Run("巨额扣减不会得到负数", func(t *testing.T) {
		if got := NetHours(60, 120, 300, 480); !almostEqual(got, 0) {
			t.Errorf("NetHours = %v, want 0", got)
		}
	})

	t.Run("零工时", func(t *testing.T) {
		if got := NetHours(0, 0, 0, 480); !almostEqual(got, 0) {
			t.Errorf("NetHours = %v, want 0", got)
		}
	})
}

func TestBuildDaySummary(t *testing.T) {
	window := Interval{Start: utc(2026, 3, 2, 9, 0), End: utc(2026, 3, 2, 17, 0)}
	deadline := utc(2026, 3, 2, 10, 5)

	in := DayInput{
		UserID: 1,
		Date:   Date{Year: 2026, Month: 3, Day: 2},
		Sessions: []*domain.WorkSession{
			closedSession(domain.SessionTypeWork, utc(2026, 3, 2, 9, 0), utc(2026, 3, 2, 12, 0)),
			closedSession(domain.SessionTypeLunch, utc(2026, 3, 2, 12, 0), utc(2026, 3, 2, 13, 15)),
			closedSession(domain.SessionTypeWork, utc(2026, 3, 2, 13, 15), utc(2026, 3, 2, 17, 0)),
		},
		Windows:        []Interval{window},
		RollCalls:      []*domain.RollCall{lateRollCall(deadline, 125 * time.Second)},
		Now:            utc(2026, 3, 2, 23, 0),
		Allowances:     defaultAllowances,
		ResponseWindow: 5 * time.Minute,
	}

	got := BuildDaySummary(in)

	if got.Date != "2026-03-02" {
		t.Errorf("Date = %q, want 2026-03-02", got.Date)
	}
	if got.WorkMinutes != 405 {
		t.Errorf("WorkMinutes = %d, want 405", got.WorkMinutes)
	}
	if got.LunchMinutes != 75 {
		t.Errorf("LunchMinutes = %d, want 75", got.LunchMinutes)
	}
	if got.OverbreakMinutes != 15 {
		t.Errorf("OverbreakMinutes = %d, want 15", got.OverbreakMinutes)
	}
	if got.RollCallDeductionMinutes != 3 {
		t.Errorf("RollCallDeductionMinutes = %d, want 3", got.RollCallDeductionMinutes)
	}
	// 405/60 - 18/60 = 6.75 - 0.3 = 6.45
	if math.Abs(got.NetHours-6.45) > 1e-9 {
		t.Errorf("NetHours = %v, want 6.45", got.NetHours)
	}
}
